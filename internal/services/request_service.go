package services

import (
	"context"
	"errors"

	"ensemble_backend/internal/email"
	"ensemble_backend/internal/logger"
	"ensemble_backend/internal/models"
	"ensemble_backend/internal/repositories"
	"ensemble_backend/pkg/apperrors"
)

// RequestService is the request lifecycle: pending is the only non-terminal
// state, every transition is guarded, and decline/timeout feed back into the
// need's backfill.
type RequestService struct {
	requestRepo      repositories.RequestRepository
	needRepo         repositories.NeedRepository
	notificationRepo repositories.NotificationRepository
	needService      *NeedService
	dispatcher       *NotifyDispatcher
	sender           email.Sender
}

func NewRequestService(
	requestRepo repositories.RequestRepository,
	needRepo repositories.NeedRepository,
	notificationRepo repositories.NotificationRepository,
	needService *NeedService,
	dispatcher *NotifyDispatcher,
	sender email.Sender,
) *RequestService {
	return &RequestService{
		requestRepo:      requestRepo,
		needRepo:         needRepo,
		notificationRepo: notificationRepo,
		needService:      needService,
		dispatcher:       dispatcher,
		sender:           sender,
	}
}

// Respond applies a musician's answer. Responding to a request that already
// reached a terminal state is a no-op, which makes redelivered responses and
// re-run passes safe.
func (s *RequestService) Respond(ctx context.Context, requestID string, outcome string) error {
	switch models.RequestStatus(outcome) {
	case models.RequestStatusAccepted:
		return s.accept(ctx, requestID)
	case models.RequestStatusDeclined:
		return s.decline(ctx, requestID)
	default:
		return apperrors.ErrInvalidOutcome
	}
}

func (s *RequestService) accept(ctx context.Context, requestID string) error {
	result, err := s.requestRepo.Accept(requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrRequestNotFound) {
			return apperrors.ErrRequestNotFound
		}
		return err
	}
	if !result.Changed {
		logger.CtxInfo(ctx, "accept ignored: request already terminal", "request_id", requestID)
		return nil
	}

	logger.CtxInfo(ctx, "request accepted",
		"request_id", requestID,
		"accepted_count", result.AcceptedCount,
		"need_filled", result.NeedFilled)

	if len(result.Cancelled) == 0 {
		return nil
	}

	// first_come overflow: tell every cancelled musician the position filled.
	request, err := s.requestRepo.FindRequestByID(requestID)
	if err != nil {
		return err
	}

	items := make([]NotifyItem, 0, len(result.Cancelled))
	for _, cancelled := range result.Cancelled {
		notification, err := s.notificationRepo.NewPositionFilledNotification(
			cancelled.MusicianID, cancelled.NeedID, request.Need.Position)
		if err != nil {
			logger.CtxWithError(ctx, "failed to record position-filled notification", err,
				"request_id", cancelled.ID)
			continue
		}
		items = append(items, NotifyItem{
			NotificationID: notification.ID,
			RequestID:      cancelled.ID,
			MusicianID:     cancelled.MusicianID,
			Recipient:      cancelled.Musician.Email,
			TemplateType:   email.TemplatePositionFilled,
			Variables: map[string]string{
				"name":     cancelled.Musician.Name,
				"position": request.Need.Position,
				"project":  request.Need.ProjectID,
			},
		})
	}
	s.needService.sendAndSettle(ctx, items)

	return nil
}

func (s *RequestService) decline(ctx context.Context, requestID string) error {
	request, err := s.requestRepo.FindRequestByID(requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrRequestNotFound) {
			return apperrors.ErrRequestNotFound
		}
		return err
	}

	changed, err := s.requestRepo.MarkDeclined(requestID)
	if err != nil {
		return err
	}
	if !changed {
		logger.CtxInfo(ctx, "decline ignored: request already terminal", "request_id", requestID)
		return nil
	}

	logger.CtxInfo(ctx, "request declined", "request_id", requestID, "need_id", request.NeedID)
	return s.needService.Backfill(ctx, request.NeedID)
}

// HandleTimeout transitions one overdue request to timed_out and backfills.
// Returns whether the transition actually happened.
func (s *RequestService) HandleTimeout(ctx context.Context, requestID, needID string) (bool, error) {
	changed, err := s.requestRepo.MarkTimedOut(requestID)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	logger.CtxInfo(ctx, "request timed out", "request_id", requestID, "need_id", needID)
	if err := s.needService.Backfill(ctx, needID); err != nil {
		return true, err
	}
	return true, nil
}

// GetRequest loads one request with its need.
func (s *RequestService) GetRequest(requestID string) (*models.Request, error) {
	request, err := s.requestRepo.FindRequestByID(requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrRequestNotFound) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, err
	}
	return request, nil
}
