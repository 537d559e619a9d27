package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/surendar2011/courseApp/internal/cache"
	"github.com/surendar2011/courseApp/internal/config"
	"github.com/surendar2011/courseApp/internal/domain/course"
	"github.com/surendar2011/courseApp/internal/observability"
)

type CatalogLister interface {
	ListAll(ctx context.Context) ([]course.Course, error)
}

// CatalogHandler serves the public course list, read-through the redis cache.
type CatalogHandler struct {
	repo    CatalogLister
	catalog *cache.Catalog
	prom    *observability.Prom
}

func NewCatalogHandler(repo CatalogLister, catalog *cache.Catalog, prom *observability.Prom) *CatalogHandler {
	return &CatalogHandler{repo: repo, catalog: catalog, prom: prom}
}

func (h *CatalogHandler) Preview(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	if courses, ok := h.catalog.Get(cctx); ok {
		if h.prom != nil {
			h.prom.CacheHitsTotal.WithLabelValues("catalog").Inc()
		}

		ctx.JSON(http.StatusOK, gin.H{
			"courses": courses,
			"count":   len(courses),
		})
		return
	}

	if h.prom != nil {
		h.prom.CacheMissesTotal.WithLabelValues("catalog").Inc()
	}

	courses, err := h.repo.ListAll(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list courses")
		return
	}

	h.catalog.Set(cctx, courses)

	ctx.JSON(http.StatusOK, gin.H{
		"courses": courses,
		"count":   len(courses),
	})
}
