package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ensemble_backend/internal/logger"
	"ensemble_backend/internal/ratelimit"
	"ensemble_backend/internal/tenant"
	"ensemble_backend/pkg/apperrors"
	"ensemble_backend/pkg/contextkeys"
)

func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		log := logger.FromContext(c.Request.Context())
		fields := []any{
			slog.String("client_ip", c.ClientIP()),
			slog.Int("status", c.Writer.Status()),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Duration("duration", duration),
		}
		if c.Writer.Status() >= 500 {
			log.Error("HTTP Server Error", fields...)
		} else if c.Writer.Status() >= 400 {
			log.Warn("HTTP Client Error", fields...)
		} else {
			log.Info("HTTP Request", fields...)
		}
	}
}

// TenantMiddleware resolves the data store for the X-Tenant-ID header and
// places it in the request context. Requests without the header get the
// default store.
func TenantMiddleware(resolver tenant.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetHeader("X-Tenant-ID")

		db, err := resolver.DB(c.Request.Context(), tenantID)
		if err != nil {
			apperrors.HandleError(c, apperrors.NewBadRequestError("Unknown tenant"))
			c.Abort()
			return
		}

		ctx := logger.WithTenantID(c.Request.Context(), tenantID)
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(contextkeys.DBContextKey), db)
		c.Set(string(contextkeys.TenantContextKey), tenantID)
		c.Next()
	}
}

// RateLimitMiddleware throttles per client IP through the injected counting
// store.
func RateLimitMiddleware(store ratelimit.CounterStore, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := store.Incr(c.ClientIP(), window)
		if err != nil {
			// A broken counter must not take the endpoint down.
			logger.CtxWithError(c.Request.Context(), "rate limit store failed", err)
			c.Next()
			return
		}
		if count > int64(limit) {
			apperrors.HandleError(c, apperrors.ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}
