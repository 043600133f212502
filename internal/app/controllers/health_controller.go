package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/deptportal/internal/app/models/dto"
	"github.com/yigit/deptportal/internal/docstore"
	"github.com/yigit/deptportal/internal/middleware"
	"github.com/yigit/deptportal/internal/pkg/apperrors"
)

// HealthController reports liveness and store connectivity
type HealthController struct {
	store  docstore.Store
	driver string
}

// NewHealthController creates a new HealthController
func NewHealthController(store docstore.Store, driver string) *HealthController {
	return &HealthController{store: store, driver: driver}
}

// Ping answers liveness checks
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (c *HealthController) Ping(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// Health checks the document store
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthResponse}
// @Failure 503 {object} dto.ErrorResponse "Document store unavailable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	if err := c.store.Ping(ctx.Request.Context()); err != nil {
		middleware.HandleAPIError(ctx, apperrors.ErrStoreUnavailable)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.HealthResponse{Status: "ok", Store: c.driver}))
}
