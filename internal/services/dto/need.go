package dto

import "time"

type CreateNeedRequest struct {
	ProjectID         string `json:"project_id" validate:"required"`
	Position          string `json:"position" validate:"required"`
	ListID            string `json:"list_id" validate:"required"`
	Quantity          int    `json:"quantity" validate:"required,min=1"`
	Strategy          string `json:"strategy" validate:"required,strategy"`
	MaxRecipients     *int   `json:"max_recipients,omitempty" validate:"omitempty,min=1"`
	ResponseTimeHours *int   `json:"response_time_hours,omitempty" validate:"omitempty,min=1"`
	RequireLocal      bool   `json:"require_local"`
}

type SetPausedRequest struct {
	Paused *bool `json:"paused" validate:"required"`
}

type DispatchResult struct {
	Sent int `json:"sent"`
}

type RequestSummary struct {
	ID             string     `json:"id"`
	MusicianID     string     `json:"musician_id"`
	MusicianName   string     `json:"musician_name,omitempty"`
	Status         string     `json:"status"`
	SentAt         time.Time  `json:"sent_at"`
	RespondedAt    *time.Time `json:"responded_at,omitempty"`
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`
}

type NeedResponse struct {
	ID                string           `json:"id"`
	ProjectID         string           `json:"project_id"`
	Position          string           `json:"position"`
	ListID            string           `json:"list_id"`
	Quantity          int              `json:"quantity"`
	Strategy          string           `json:"strategy"`
	MaxRecipients     *int             `json:"max_recipients,omitempty"`
	ResponseTimeHours int              `json:"response_time_hours"`
	Status            string           `json:"status"`
	PendingCount      int              `json:"pending_count"`
	AcceptedCount     int              `json:"accepted_count"`
	Requests          []RequestSummary `json:"requests,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}
