package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ensemble_backend/internal/handlers"
)

// RegisterRoutes registers all HTTP routes.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.NeedHandler.RegisterRoutes(api)
		appHandlers.RequestHandler.RegisterRoutes(api)
		appHandlers.ListHandler.RegisterRoutes(api)
		appHandlers.MusicianHandler.RegisterRoutes(api)
		appHandlers.MaintenanceHandler.RegisterRoutes(api)
	}
}
