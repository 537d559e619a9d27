package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/surendar2011/courseApp/internal/cache"
	"github.com/surendar2011/courseApp/internal/config"
	"github.com/surendar2011/courseApp/internal/domain/course"
	"github.com/surendar2011/courseApp/internal/http/middlewares"
	"github.com/surendar2011/courseApp/internal/utils"
)

type CourseStore interface {
	Create(ctx context.Context, req course.CreateCourseRequest, creatorID string) (course.Course, error)
	ListByCreator(ctx context.Context, creatorID string) ([]course.Course, error)
	UpdateOwned(ctx context.Context, creatorID string, req course.UpdateCourseRequest) (course.Course, error)
	DeleteOwned(ctx context.Context, creatorID, courseID string) error
}

// CoursesHandler serves the admin side of the catalog. Every mutation drops
// the cached public catalog.
type CoursesHandler struct {
	repo    CourseStore
	catalog *cache.Catalog
}

func NewCoursesHandler(repo CourseStore, catalog *cache.Catalog) *CoursesHandler {
	return &CoursesHandler{repo: repo, catalog: catalog}
}

func (h *CoursesHandler) CreateCourse(ctx *gin.Context) {
	adminID, ok := middlewares.PrincipalIDFromContext(ctx)

	if !ok || adminID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "You are not signed in.")
		return
	}

	var req course.CreateCourseRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		RespondBadRequest(ctx, "Invalid request body", gin.H{"fields": []FieldError{
			{Field: "price", Rule: "positive", Message: err.Error()},
		}})
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	created, err := h.repo.Create(cctx, req, adminID)

	if err != nil {
		RespondInternal(ctx, "Could not create course")
		return
	}

	h.catalog.Invalidate(cctx)

	ctx.JSON(http.StatusCreated, gin.H{
		"message":  "Course created",
		"courseId": created.ID,
	})
}

func (h *CoursesHandler) ListOwnCourses(ctx *gin.Context) {
	adminID, ok := middlewares.PrincipalIDFromContext(ctx)

	if !ok || adminID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "You are not signed in.")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	courses, err := h.repo.ListByCreator(cctx, adminID)

	if err != nil {
		RespondInternal(ctx, "Could not list courses")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"courses": courses,
		"count":   len(courses),
	})
}

func (h *CoursesHandler) UpdateCourse(ctx *gin.Context) {
	adminID, ok := middlewares.PrincipalIDFromContext(ctx)

	if !ok || adminID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "You are not signed in.")
		return
	}

	var req course.UpdateCourseRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		RespondBadRequest(ctx, "Invalid request body", gin.H{"fields": []FieldError{
			{Field: "price", Rule: "positive", Message: err.Error()},
		}})
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	updated, err := h.repo.UpdateOwned(cctx, adminID, req)

	if err != nil {
		// a course owned by somebody else reports not-found, never forbidden
		if errors.Is(err, course.ErrNotFound) {
			RespondNotFound(ctx, "Course not found")
			return
		}

		RespondInternal(ctx, "Could not update course")
		return
	}

	h.catalog.Invalidate(cctx)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Course updated",
		"course":  updated,
	})
}

func (h *CoursesHandler) DeleteCourse(ctx *gin.Context) {
	adminID, ok := middlewares.PrincipalIDFromContext(ctx)

	if !ok || adminID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "You are not signed in.")
		return
	}

	courseID := ctx.Param("courseId")

	if !utils.IsUUID(courseID) {
		RespondBadRequest(ctx, "course id must be a valid UUID", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err := h.repo.DeleteOwned(cctx, adminID, courseID)

	if err != nil {
		switch {
		case errors.Is(err, course.ErrNotFound):
			RespondNotFound(ctx, "Course not found")
		case errors.Is(err, course.ErrHasPurchases):
			RespondConflict(ctx, "course_has_purchases", "Course has purchases and cannot be deleted.")
		default:
			RespondInternal(ctx, "Could not delete course")
		}
		return
	}

	h.catalog.Invalidate(cctx)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Course deleted",
	})
}
