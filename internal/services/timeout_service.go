package services

import (
	"context"
	"time"

	"ensemble_backend/internal/config"
	"ensemble_backend/internal/email"
	"ensemble_backend/internal/logger"
	"ensemble_backend/internal/repositories"
	"ensemble_backend/internal/services/dto"
)

const defaultResponseTimeHours = 24

// TimeoutService is the externally triggered escalation pass. It holds no
// state between runs: every decision is derived from the pending requests
// and the clock, and the guarded transitions make re-runs harmless.
type TimeoutService struct {
	requestRepo      repositories.RequestRepository
	notificationRepo repositories.NotificationRepository
	requestService   *RequestService
	needService      *NeedService
	cfg              config.DispatchConfig

	now func() time.Time
}

func NewTimeoutService(
	requestRepo repositories.RequestRepository,
	notificationRepo repositories.NotificationRepository,
	requestService *RequestService,
	needService *NeedService,
	cfg config.DispatchConfig,
) *TimeoutService {
	return &TimeoutService{
		requestRepo:      requestRepo,
		notificationRepo: notificationRepo,
		requestService:   requestService,
		needService:      needService,
		cfg:              cfg,
		now:              time.Now,
	}
}

// RunTimeoutPass scans all pending requests once. A request past the
// reminder threshold gets exactly one reminder; a request past the full
// response window times out and triggers backfill. One request's failure
// never aborts the rest of the pass.
func (s *TimeoutService) RunTimeoutPass(ctx context.Context) (*dto.TimeoutPassResult, error) {
	pending, err := s.requestRepo.FindPendingRequests()
	if err != nil {
		return nil, err
	}

	result := &dto.TimeoutPassResult{}
	now := s.now()
	reminderItems := make([]NotifyItem, 0)

	for _, request := range pending {
		window := float64(request.Need.ResponseTimeHours)
		if window <= 0 {
			window = defaultResponseTimeHours
		}
		hoursSinceSent := now.Sub(request.SentAt).Hours()

		if hoursSinceSent >= window*s.cfg.ReminderPercentage && request.ReminderSentAt == nil {
			changed, err := s.requestRepo.SetReminderSent(request.ID, now)
			if err != nil {
				logger.CtxWithError(ctx, "reminder update failed", err, "request_id", request.ID)
			} else if changed {
				result.RemindersSent++
				notification, err := s.notificationRepo.NewReminderNotification(
					request.MusicianID, request.NeedID, request.ID, request.Need.Position)
				if err != nil {
					logger.CtxWithError(ctx, "failed to record reminder notification", err,
						"request_id", request.ID)
				} else {
					reminderItems = append(reminderItems, NotifyItem{
						NotificationID: notification.ID,
						RequestID:      request.ID,
						MusicianID:     request.MusicianID,
						Recipient:      request.Musician.Email,
						TemplateType:   email.TemplateRequestReminder,
						Variables: map[string]string{
							"name":     request.Musician.Name,
							"position": request.Need.Position,
							"project":  request.Need.ProjectID,
						},
					})
				}
			}
		}

		if hoursSinceSent >= window {
			changed, err := s.requestService.HandleTimeout(ctx, request.ID, request.NeedID)
			if err != nil {
				// Partial-failure isolation: log and keep scanning siblings.
				logger.CtxWithError(ctx, "timeout handling failed", err,
					"request_id", request.ID, "need_id", request.NeedID)
				continue
			}
			if changed {
				result.TimeoutsHandled++
			}
		}
	}

	s.needService.sendAndSettle(ctx, reminderItems)

	logger.WorkerLog("timeout_pass", "scan", nil)
	logger.CtxInfo(ctx, "timeout pass finished",
		"scanned", len(pending),
		"reminders_sent", result.RemindersSent,
		"timeouts_handled", result.TimeoutsHandled)

	return result, nil
}
