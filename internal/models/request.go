package models

import "time"

// Request is one outreach to one musician for one need. Pending is the only
// non-terminal status; at most one request per (musician, need) may be
// non-terminal at a time.
type Request struct {
	BaseModel
	NeedID         string        `gorm:"not null;index" json:"need_id"`
	MusicianID     string        `gorm:"not null;index" json:"musician_id"`
	Status         RequestStatus `gorm:"default:pending;index" json:"status"`
	SentAt         time.Time     `gorm:"not null" json:"sent_at"`
	RespondedAt    *time.Time    `json:"responded_at,omitempty"`
	ReminderSentAt *time.Time    `json:"reminder_sent_at,omitempty"`

	Need     Need     `gorm:"foreignKey:NeedID" json:"-"`
	Musician Musician `gorm:"foreignKey:MusicianID" json:"-"`
}
