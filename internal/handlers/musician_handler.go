package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ensemble_backend/internal/repositories"
	"ensemble_backend/pkg/apperrors"
	"ensemble_backend/pkg/contextkeys"
)

const defaultNotificationLimit = 20

// MusicianHandler serves the musician-facing read surface. Repositories are
// built per request from the tenant-bound store placed in the context by the
// tenant middleware.
type MusicianHandler struct {
	*BaseHandler
	defaultDB *gorm.DB
}

func NewMusicianHandler(base *BaseHandler, defaultDB *gorm.DB) *MusicianHandler {
	return &MusicianHandler{
		BaseHandler: base,
		defaultDB:   defaultDB,
	}
}

func (h *MusicianHandler) RegisterRoutes(r *gin.RouterGroup) {
	musicians := r.Group("/musicians")
	{
		musicians.GET("", h.GetMusicians)
		musicians.GET("/:musicianId", h.GetMusician)
		musicians.GET("/:musicianId/notifications", h.GetNotifications)
	}
}

func (h *MusicianHandler) dbFrom(c *gin.Context) *gorm.DB {
	if value, ok := c.Get(string(contextkeys.DBContextKey)); ok {
		if db, ok := value.(*gorm.DB); ok {
			return db
		}
	}
	return h.defaultDB
}

func (h *MusicianHandler) GetMusician(c *gin.Context) {
	repo := repositories.NewMusicianRepository(h.dbFrom(c))

	musician, err := repo.FindMusicianByID(c.Param("musicianId"))
	if err != nil {
		if errors.Is(err, repositories.ErrMusicianNotFound) {
			h.HandleServiceError(c, apperrors.ErrNotFound(err, "musician"))
			return
		}
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, musician)
}

// GetMusicians is the batch lookup: ?ids=a,b,c. Unknown IDs are skipped.
func (h *MusicianHandler) GetMusicians(c *gin.Context) {
	idsParam := strings.TrimSpace(c.Query("ids"))
	if idsParam == "" {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Query parameter 'ids' is required"))
		return
	}

	repo := repositories.NewMusicianRepository(h.dbFrom(c))
	musicians, err := repo.FindMusiciansByIDs(strings.Split(idsParam, ","))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"musicians": musicians,
		"total":     len(musicians),
	})
}

func (h *MusicianHandler) GetNotifications(c *gin.Context) {
	limit := defaultNotificationLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.HandleServiceError(c, apperrors.NewBadRequestError("Limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	repo := repositories.NewNotificationRepository(h.dbFrom(c))
	notifications, err := repo.FindMusicianNotifications(c.Param("musicianId"), limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         len(notifications),
	})
}
