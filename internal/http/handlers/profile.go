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
	"github.com/surendar2011/courseApp/internal/http/middlewares"
)

type CreatorCourses interface {
	ListByCreator(ctx context.Context, creatorID string) ([]course.Course, error)
}

type ProfileHandler struct {
	principals PrincipalReader
	courses    CreatorCourses
}

func NewProfileHandler(principals PrincipalReader, courses CreatorCourses) *ProfileHandler {
	return &ProfileHandler{
		principals: principals,
		courses:    courses,
	}
}

// UserProfile returns the signed-in user's own profile fields.
func (h *ProfileHandler) UserProfile(ctx *gin.Context) {
	h.profile(ctx, principal.RoleUser)
}

func (h *ProfileHandler) profile(ctx *gin.Context, role principal.Role) {
	id, ok := middlewares.PrincipalIDFromContext(ctx)

	if !ok || id == "" {
		RespondUnAuthorized(ctx, "unauthorized", "You are not signed in.")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	p, err := h.principals.GetByID(cctx, role, id)

	if err != nil {
		if errors.Is(err, principal.ErrNotFound) {
			RespondNotFound(ctx, "Profile not found")
			return
		}

		RespondInternal(ctx, "Could not load profile")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"email":     p.Email,
		"firstName": p.FirstName,
		"lastName":  p.LastName,
	})
}

// AdminDashboard returns the admin's profile plus the courses they own.
func (h *ProfileHandler) AdminDashboard(ctx *gin.Context) {
	id, ok := middlewares.PrincipalIDFromContext(ctx)

	if !ok || id == "" {
		RespondUnAuthorized(ctx, "unauthorized", "You are not signed in.")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	p, err := h.principals.GetByID(cctx, principal.RoleAdmin, id)

	if err != nil {
		if errors.Is(err, principal.ErrNotFound) {
			RespondNotFound(ctx, "Profile not found")
			return
		}

		RespondInternal(ctx, "Could not load dashboard")
		return
	}

	courses, err := h.courses.ListByCreator(cctx, id)

	if err != nil {
		RespondInternal(ctx, "Could not load dashboard")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"admin": gin.H{
			"email":     p.Email,
			"firstName": p.FirstName,
			"lastName":  p.LastName,
		},
		"totalCourses": len(courses),
		"courses":      courses,
	})
}
