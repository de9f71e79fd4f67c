package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	MusicianID string         `gorm:"not null;index" json:"musician_id"`
	Type       string         `gorm:"not null" json:"type"` // "need_request", "request_reminder", "position_filled", ...
	Title      string         `gorm:"not null" json:"title"`
	Message    string         `json:"message"`
	Data       datatypes.JSON `gorm:"type:jsonb" json:"data,omitempty"` // {"need_id": "...", "request_id": "..."}
	Delivered  bool           `gorm:"default:false" json:"delivered"`
	SentAt     *time.Time     `json:"sent_at,omitempty"`
}
