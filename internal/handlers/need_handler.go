package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ensemble_backend/internal/services"
	"ensemble_backend/internal/services/dto"
)

type NeedHandler struct {
	*BaseHandler
	needService     *services.NeedService
	conflictService *services.ConflictService
}

func NewNeedHandler(base *BaseHandler, needService *services.NeedService, conflictService *services.ConflictService) *NeedHandler {
	return &NeedHandler{
		BaseHandler:     base,
		needService:     needService,
		conflictService: conflictService,
	}
}

func (h *NeedHandler) RegisterRoutes(r *gin.RouterGroup) {
	needs := r.Group("/needs")
	{
		needs.POST("", h.CreateNeed)
		needs.GET("/:needId", h.GetNeed)
		needs.POST("/:needId/dispatch", h.Dispatch)
		needs.PUT("/:needId/paused", h.SetPaused)
	}

	r.GET("/projects/:projectId/conflicts", h.GetConflicts)
}

func (h *NeedHandler) CreateNeed(c *gin.Context) {
	var req dto.CreateNeedRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	need, err := h.needService.CreateNeed(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, need)
}

func (h *NeedHandler) GetNeed(c *gin.Context) {
	need, err := h.needService.GetNeed(c.Param("needId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, need)
}

func (h *NeedHandler) Dispatch(c *gin.Context) {
	result, err := h.needService.Dispatch(c.Request.Context(), c.Param("needId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *NeedHandler) SetPaused(c *gin.Context) {
	var req dto.SetPausedRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.needService.SetPaused(c.Param("needId"), *req.Paused); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Need status updated successfully"})
}

func (h *NeedHandler) GetConflicts(c *gin.Context) {
	conflicts, err := h.conflictService.GetConflicts(c.Param("projectId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conflicts": conflicts,
		"total":     len(conflicts),
	})
}
