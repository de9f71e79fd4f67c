package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"ensemble_backend/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

const (
	NotificationTypeNeedRequest     = "need_request"
	NotificationTypeRequestReminder = "request_reminder"
	NotificationTypePositionFilled  = "position_filled"
)

type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	FindMusicianNotifications(musicianID string, limit int) ([]models.Notification, error)
	MarkDelivered(id string, at time.Time) error

	// Factory methods for the engine's outbound events.
	NewRequestNotification(musicianID, needID, requestID, position string) (*models.Notification, error)
	NewReminderNotification(musicianID, needID, requestID, position string) (*models.Notification, error)
	NewPositionFilledNotification(musicianID, needID, position string) (*models.Notification, error)
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) CreateNotification(notification *models.Notification) error {
	if notification.MusicianID == "" {
		return errors.New("musician ID is required")
	}
	if notification.Type == "" {
		return errors.New("notification type is required")
	}
	return r.db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindMusicianNotifications(musicianID string, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("musician_id = ?", musicianID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepositoryImpl) MarkDelivered(id string, at time.Time) error {
	result := r.db.Model(&models.Notification{}).Where("id = ?", id).Updates(map[string]interface{}{
		"delivered": true,
		"sent_at":   at,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) NewRequestNotification(musicianID, needID, requestID, position string) (*models.Notification, error) {
	return r.build(musicianID, NotificationTypeNeedRequest,
		"Engagement request",
		fmt.Sprintf("You have been asked to fill the %s position. Please respond.", position),
		map[string]interface{}{"need_id": needID, "request_id": requestID},
	)
}

func (r *NotificationRepositoryImpl) NewReminderNotification(musicianID, needID, requestID, position string) (*models.Notification, error) {
	return r.build(musicianID, NotificationTypeRequestReminder,
		"Reminder: engagement request awaiting your response",
		fmt.Sprintf("Your request for the %s position is still open.", position),
		map[string]interface{}{"need_id": needID, "request_id": requestID},
	)
}

func (r *NotificationRepositoryImpl) NewPositionFilledNotification(musicianID, needID, position string) (*models.Notification, error) {
	return r.build(musicianID, NotificationTypePositionFilled,
		"Position filled",
		fmt.Sprintf("The %s position has been filled. Thank you for your availability.", position),
		map[string]interface{}{"need_id": needID},
	)
}

func (r *NotificationRepositoryImpl) build(musicianID, notifType, title, message string, data map[string]interface{}) (*models.Notification, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	notification := &models.Notification{
		MusicianID: musicianID,
		Type:       notifType,
		Title:      title,
		Message:    message,
		Data:       datatypes.JSON(jsonData),
	}

	if err := r.CreateNotification(notification); err != nil {
		return nil, err
	}
	return notification, nil
}
