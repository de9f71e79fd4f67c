package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ensemble_backend/internal/services"
)

// MaintenanceHandler exposes the externally triggered passes. The engine runs
// no timers of its own; a cron or platform scheduler hits these endpoints.
type MaintenanceHandler struct {
	*BaseHandler
	timeoutService *services.TimeoutService
}

func NewMaintenanceHandler(base *BaseHandler, timeoutService *services.TimeoutService) *MaintenanceHandler {
	return &MaintenanceHandler{
		BaseHandler:    base,
		timeoutService: timeoutService,
	}
}

func (h *MaintenanceHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/maintenance/timeout-pass", h.RunTimeoutPass)
}

func (h *MaintenanceHandler) RunTimeoutPass(c *gin.Context) {
	result, err := h.timeoutService.RunTimeoutPass(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
