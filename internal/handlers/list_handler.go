package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ensemble_backend/internal/services"
	"ensemble_backend/internal/services/dto"
)

type ListHandler struct {
	*BaseHandler
	rankingService *services.RankingService
}

func NewListHandler(base *BaseHandler, rankingService *services.RankingService) *ListHandler {
	return &ListHandler{
		BaseHandler:    base,
		rankingService: rankingService,
	}
}

func (h *ListHandler) RegisterRoutes(r *gin.RouterGroup) {
	lists := r.Group("/lists")
	{
		lists.GET("/:listId/entries", h.GetEntries)
		lists.PUT("/:listId/order", h.Reorder)
	}
}

func (h *ListHandler) GetEntries(c *gin.Context) {
	entries, err := h.rankingService.ListEntries(c.Param("listId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   len(entries),
	})
}

func (h *ListHandler) Reorder(c *gin.Context) {
	var req dto.ReorderListRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.rankingService.ReorderList(c.Request.Context(), c.Param("listId"), req.MusicianIDs); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "List order updated successfully"})
}
