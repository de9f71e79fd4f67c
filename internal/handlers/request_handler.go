package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ensemble_backend/internal/middleware"
	"ensemble_backend/internal/ratelimit"
	"ensemble_backend/internal/services"
	"ensemble_backend/internal/services/dto"
)

type RequestHandler struct {
	*BaseHandler
	requestService *services.RequestService

	rateStore  ratelimit.CounterStore
	rateLimit  int
	rateWindow time.Duration
}

func NewRequestHandler(base *BaseHandler, requestService *services.RequestService, rateStore ratelimit.CounterStore, rateLimit int, rateWindow time.Duration) *RequestHandler {
	return &RequestHandler{
		BaseHandler:    base,
		requestService: requestService,
		rateStore:      rateStore,
		rateLimit:      rateLimit,
		rateWindow:     rateWindow,
	}
}

func (h *RequestHandler) RegisterRoutes(r *gin.RouterGroup) {
	requests := r.Group("/requests")
	{
		requests.GET("/:requestId", h.GetRequest)
		// Respond is the one public-facing write; it gets the rate limit.
		requests.PUT("/:requestId/respond",
			middleware.RateLimitMiddleware(h.rateStore, h.rateLimit, h.rateWindow),
			h.Respond)
	}
}

func (h *RequestHandler) GetRequest(c *gin.Context) {
	request, err := h.requestService.GetRequest(c.Param("requestId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

func (h *RequestHandler) Respond(c *gin.Context) {
	var req dto.RespondRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.requestService.Respond(c.Request.Context(), c.Param("requestId"), req.Outcome); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Response recorded"})
}
