package dto

type RespondRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=accepted declined"`
}

type TimeoutPassResult struct {
	RemindersSent   int `json:"reminders_sent"`
	TimeoutsHandled int `json:"timeouts_handled"`
}

type ReorderListRequest struct {
	MusicianIDs []string `json:"musician_ids" validate:"required,min=1"`
}
