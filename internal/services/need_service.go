package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"ensemble_backend/internal/email"
	"ensemble_backend/internal/logger"
	"ensemble_backend/internal/models"
	"ensemble_backend/internal/repositories"
	"ensemble_backend/internal/services/dto"
	"ensemble_backend/pkg/apperrors"
)

// NeedService orchestrates fulfillment: it asks the strategy how many
// candidates to contact, draws them from the ranking queue, records pending
// requests and hands the outreach to the batch notifier.
type NeedService struct {
	needRepo         repositories.NeedRepository
	requestRepo      repositories.RequestRepository
	notificationRepo repositories.NotificationRepository
	ranking          *RankingService
	dispatcher       *NotifyDispatcher
	sender           email.Sender
}

func NewNeedService(
	needRepo repositories.NeedRepository,
	requestRepo repositories.RequestRepository,
	notificationRepo repositories.NotificationRepository,
	ranking *RankingService,
	dispatcher *NotifyDispatcher,
	sender email.Sender,
) *NeedService {
	return &NeedService{
		needRepo:         needRepo,
		requestRepo:      requestRepo,
		notificationRepo: notificationRepo,
		ranking:          ranking,
		dispatcher:       dispatcher,
		sender:           sender,
	}
}

// CreateNeed validates the strategy invariants and the candidate supply
// before any state mutation, then persists the need.
func (s *NeedService) CreateNeed(req *dto.CreateNeedRequest) (*models.Need, error) {
	if _, err := s.needRepo.FindProjectByID(req.ProjectID); err != nil {
		if errors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}

	list, err := s.ranking.rankingRepo.FindListByID(req.ListID)
	if err != nil {
		if errors.Is(err, repositories.ErrListNotFound) {
			return nil, apperrors.ErrListNotFound
		}
		return nil, err
	}
	if list.Kind == models.ListKindProject && (list.ProjectID == nil || *list.ProjectID != req.ProjectID) {
		return nil, apperrors.NewBadRequestError("Custom list belongs to a different project")
	}

	need := &models.Need{
		ProjectID:         req.ProjectID,
		Position:          req.Position,
		ListID:            req.ListID,
		Quantity:          req.Quantity,
		Strategy:          models.NeedStrategy(req.Strategy),
		MaxRecipients:     req.MaxRecipients,
		ResponseTimeHours: 24,
		RequireLocal:      req.RequireLocal,
		Status:            models.NeedStatusActive,
	}
	if req.ResponseTimeHours != nil {
		need.ResponseTimeHours = *req.ResponseTimeHours
	}

	strategy, err := StrategyFor(need.Strategy)
	if err != nil {
		return nil, err
	}
	if err := strategy.ValidateNeed(need); err != nil {
		return nil, err
	}

	qualified, err := s.ranking.QualifiedCount(need)
	if err != nil {
		return nil, err
	}
	if qualified == 0 {
		return nil, apperrors.ErrNoQualifiedCandidates
	}

	available, err := s.ranking.NextCandidates(need, nil, 1)
	if err != nil {
		return nil, err
	}
	if len(available) == 0 {
		return nil, apperrors.ErrNoAvailableCandidates
	}

	if err := s.needRepo.CreateNeed(need); err != nil {
		return nil, err
	}
	return need, nil
}

// Dispatch contacts as many new candidates as the need's strategy requires.
// A paused or completed need dispatches nothing; that is not an error.
func (s *NeedService) Dispatch(ctx context.Context, needID string) (*dto.DispatchResult, error) {
	need, err := s.needRepo.FindNeedByID(needID)
	if err != nil {
		if errors.Is(err, repositories.ErrNeedNotFound) {
			return nil, apperrors.ErrNeedNotFound
		}
		return nil, err
	}

	if need.Status != models.NeedStatusActive {
		logger.CtxInfo(ctx, "dispatch skipped: need not active",
			"need_id", need.ID, "status", need.Status)
		return &dto.DispatchResult{Sent: 0}, nil
	}

	sent, err := s.dispatchCandidates(ctx, need)
	if err != nil {
		return nil, err
	}
	return &dto.DispatchResult{Sent: sent}, nil
}

// Backfill re-runs the dispatch decision after a decline or timeout. Queue
// exhaustion leaves the need understaffed and is reported, never thrown.
func (s *NeedService) Backfill(ctx context.Context, needID string) error {
	need, err := s.needRepo.FindNeedByID(needID)
	if err != nil {
		return err
	}
	if need.Status != models.NeedStatusActive {
		return nil
	}

	_, err = s.dispatchCandidates(ctx, need)
	return err
}

func (s *NeedService) dispatchCandidates(ctx context.Context, need *models.Need) (int, error) {
	strategy, err := StrategyFor(need.Strategy)
	if err != nil {
		return 0, err
	}

	counts, err := s.requestRepo.CountByNeed(need.ID)
	if err != nil {
		return 0, err
	}

	count := strategy.RequiredSendCount(need, counts.Pending, counts.Accepted)
	if count <= 0 {
		return 0, nil
	}

	candidates, err := s.ranking.NextCandidates(need, nil, count)
	if err != nil {
		return 0, err
	}
	if len(candidates) == 0 {
		logger.CtxWarn(ctx, "no replacement available: ranking queue exhausted",
			"need_id", need.ID, "position", need.Position)
		return 0, nil
	}

	now := time.Now()
	requests := make([]*models.Request, 0, len(candidates))
	for _, musician := range candidates {
		requests = append(requests, &models.Request{
			NeedID:     need.ID,
			MusicianID: musician.ID,
			Status:     models.RequestStatusPending,
			SentAt:     now,
		})
	}
	if err := s.requestRepo.CreateRequests(requests); err != nil {
		return 0, err
	}

	items := make([]NotifyItem, 0, len(requests))
	for i, request := range requests {
		musician := candidates[i]
		notification, err := s.notificationRepo.NewRequestNotification(
			musician.ID, need.ID, request.ID, need.Position)
		if err != nil {
			logger.CtxWithError(ctx, "failed to record request notification", err,
				"request_id", request.ID)
			continue
		}
		items = append(items, NotifyItem{
			NotificationID: notification.ID,
			RequestID:      request.ID,
			MusicianID:     musician.ID,
			Recipient:      musician.Email,
			TemplateType:   email.TemplateNeedRequest,
			Variables: map[string]string{
				"name":           musician.Name,
				"position":       need.Position,
				"project":        need.ProjectID,
				"response_hours": strconv.Itoa(need.ResponseTimeHours),
			},
		})
	}

	s.sendAndSettle(ctx, items)

	// The request is recorded even when delivery fails: at-least-once attempt
	// semantics, never roll back a persisted pending request.
	return len(requests), nil
}

// sendAndSettle pushes items through the rate-limited dispatcher, logging
// failures and marking delivered notifications.
func (s *NeedService) sendAndSettle(ctx context.Context, items []NotifyItem) {
	if len(items) == 0 {
		return
	}

	results := s.dispatcher.SendBatch(ctx, items, func(ctx context.Context, item NotifyItem) error {
		return s.sender.Send(ctx, item.Recipient, item.TemplateType, item.Variables)
	}, func(done, total int) {
		logger.CtxInfo(ctx, "notification batch progress", "done", done, "total", total)
	})

	now := time.Now()
	for _, result := range results {
		if result.Err != nil {
			logger.CtxWithError(ctx, "notification send failed", result.Err,
				"recipient", result.Item.Recipient,
				"template", result.Item.TemplateType)
			continue
		}
		if result.Item.NotificationID != "" {
			if err := s.notificationRepo.MarkDelivered(result.Item.NotificationID, now); err != nil {
				logger.CtxWithError(ctx, "failed to mark notification delivered", err,
					"notification_id", result.Item.NotificationID)
			}
		}
	}
}

// SetPaused toggles a need between active and paused.
func (s *NeedService) SetPaused(needID string, paused bool) error {
	need, err := s.needRepo.FindNeedByID(needID)
	if err != nil {
		if errors.Is(err, repositories.ErrNeedNotFound) {
			return apperrors.ErrNeedNotFound
		}
		return err
	}
	if need.Status == models.NeedStatusCompleted {
		return apperrors.ErrNeedCompleted
	}

	status := models.NeedStatusActive
	if paused {
		status = models.NeedStatusPaused
	}
	return s.needRepo.UpdateNeedStatus(needID, status)
}

// GetNeed returns the need with its request breakdown.
func (s *NeedService) GetNeed(needID string) (*dto.NeedResponse, error) {
	need, err := s.needRepo.FindNeedByID(needID)
	if err != nil {
		if errors.Is(err, repositories.ErrNeedNotFound) {
			return nil, apperrors.ErrNeedNotFound
		}
		return nil, err
	}

	requests, err := s.requestRepo.FindRequestsByNeed(needID)
	if err != nil {
		return nil, err
	}

	response := &dto.NeedResponse{
		ID:                need.ID,
		ProjectID:         need.ProjectID,
		Position:          need.Position,
		ListID:            need.ListID,
		Quantity:          need.Quantity,
		Strategy:          string(need.Strategy),
		MaxRecipients:     need.MaxRecipients,
		ResponseTimeHours: need.ResponseTimeHours,
		Status:            string(need.Status),
		CreatedAt:         need.CreatedAt,
	}

	for _, request := range requests {
		switch request.Status {
		case models.RequestStatusPending:
			response.PendingCount++
		case models.RequestStatusAccepted:
			response.AcceptedCount++
		}
		response.Requests = append(response.Requests, dto.RequestSummary{
			ID:             request.ID,
			MusicianID:     request.MusicianID,
			MusicianName:   request.Musician.Name,
			Status:         string(request.Status),
			SentAt:         request.SentAt,
			RespondedAt:    request.RespondedAt,
			ReminderSentAt: request.ReminderSentAt,
		})
	}

	return response, nil
}
