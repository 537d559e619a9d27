package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/surendar2011/courseApp/internal/config"
	"github.com/surendar2011/courseApp/internal/domain/course"
	"github.com/surendar2011/courseApp/internal/domain/principal"
	"github.com/surendar2011/courseApp/internal/domain/purchase"
	"github.com/surendar2011/courseApp/internal/http/middlewares"
	"github.com/surendar2011/courseApp/internal/notifications"
)

type PurchaseStore interface {
	Create(ctx context.Context, userID, courseID string) (purchase.Purchase, error)
	ListByUser(ctx context.Context, userID string) ([]purchase.Purchase, error)
}

type CourseReader interface {
	GetByID(ctx context.Context, id string) (course.Course, error)
	ListByIDs(ctx context.Context, ids []string) ([]course.Course, error)
}

type PrincipalReader interface {
	GetByID(ctx context.Context, role principal.Role, id string) (principal.Principal, error)
}

type PurchasesHandler struct {
	repo       PurchaseStore
	courses    CourseReader
	principals PrincipalReader
	notifier   notifications.Notifier
}

func NewPurchasesHandler(repo PurchaseStore, courses CourseReader, principals PrincipalReader, notifier notifications.Notifier) *PurchasesHandler {
	return &PurchasesHandler{
		repo:       repo,
		courses:    courses,
		principals: principals,
		notifier:   notifier,
	}
}

func (h *PurchasesHandler) Purchase(ctx *gin.Context) {
	userID, ok := middlewares.PrincipalIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "You are not signed in.")
		return
	}

	var req purchase.CreatePurchaseRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	bought, err := h.repo.Create(cctx, userID, req.CourseID)

	if err != nil {
		switch {
		case errors.Is(err, purchase.ErrAlreadyPurchased):
			RespondConflict(ctx, "already_purchased", "You have already purchased this course.")
		case errors.Is(err, course.ErrNotFound):
			RespondNotFound(ctx, "Course not found")
		default:
			RespondInternal(ctx, "Could not purchase course")
		}
		return
	}

	h.sendConfirmation(cctx, bought)

	ctx.JSON(http.StatusCreated, gin.H{
		"message":    "Course purchased",
		"purchaseId": bought.ID,
	})
}

// best-effort confirmation; a provider failure never fails the purchase
func (h *PurchasesHandler) sendConfirmation(ctx context.Context, bought purchase.Purchase) {
	if h.notifier == nil {
		return
	}

	buyer, err := h.principals.GetByID(ctx, principal.RoleUser, bought.UserID)

	if err != nil {
		return
	}

	c, err := h.courses.GetByID(ctx, bought.CourseID)

	if err != nil {
		return
	}

	_ = h.notifier.SendPurchaseConfirmation(ctx, notifications.SendPurchaseConfirmationInput{
		Email:       buyer.Email,
		FirstName:   buyer.FirstName,
		CourseID:    c.ID,
		CourseTitle: c.Title,
		PurchaseID:  bought.ID,
	})
}

func (h *PurchasesHandler) ListOwnPurchases(ctx *gin.Context) {
	userID, ok := middlewares.PrincipalIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "You are not signed in.")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	purchases, err := h.repo.ListByUser(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not list purchases")
		return
	}

	// resolve course details for the purchased ids, same two-step shape the
	// client already expects

	ids := make([]string, 0, len(purchases))

	for _, p := range purchases {
		ids = append(ids, p.CourseID)
	}

	courseData, err := h.courses.ListByIDs(cctx, ids)

	if err != nil {
		RespondInternal(ctx, "Could not list purchases")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"purchases":  purchases,
		"courseData": courseData,
	})
}
