package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"ensemble_backend/internal/models"
)

var ErrRequestNotFound = errors.New("request not found")

// RequestCounts is the per-need breakdown the dispatch strategies work from.
type RequestCounts struct {
	Pending  int
	Accepted int
}

// AcceptResult describes what one acceptance did inside its transaction.
type AcceptResult struct {
	Changed       bool
	AcceptedCount int
	NeedFilled    bool
	// Pending requests cancelled because a first_come need just filled.
	Cancelled []models.Request
}

type RequestRepository interface {
	CreateRequests(requests []*models.Request) error
	FindRequestByID(id string) (*models.Request, error)
	FindRequestsByNeed(needID string) ([]models.Request, error)
	FindPendingRequests() ([]models.Request, error)
	CountByNeed(needID string) (RequestCounts, error)
	Accept(id string) (*AcceptResult, error)
	MarkDeclined(id string) (bool, error)
	MarkTimedOut(id string) (bool, error)
	SetReminderSent(id string, at time.Time) (bool, error)
}

type RequestRepositoryImpl struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &RequestRepositoryImpl{db: db}
}

func (r *RequestRepositoryImpl) CreateRequests(requests []*models.Request) error {
	if len(requests) == 0 {
		return nil
	}
	return r.db.Create(requests).Error
}

func (r *RequestRepositoryImpl) FindRequestByID(id string) (*models.Request, error) {
	var request models.Request
	err := r.db.Preload("Need").Preload("Musician").First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *RequestRepositoryImpl) FindRequestsByNeed(needID string) ([]models.Request, error) {
	var requests []models.Request
	err := r.db.Preload("Musician").
		Where("need_id = ?", needID).
		Order("sent_at ASC").
		Find(&requests).Error
	return requests, err
}

// FindPendingRequests feeds the timeout pass. Needs are preloaded because the
// pass works from each need's response window.
func (r *RequestRepositoryImpl) FindPendingRequests() ([]models.Request, error) {
	var requests []models.Request
	err := r.db.Preload("Need").Preload("Musician").
		Where("status = ?", models.RequestStatusPending).
		Order("sent_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *RequestRepositoryImpl) CountByNeed(needID string) (RequestCounts, error) {
	return countByNeed(r.db, needID)
}

func countByNeed(db *gorm.DB, needID string) (RequestCounts, error) {
	var counts RequestCounts
	var pending, accepted int64

	if err := db.Model(&models.Request{}).
		Where("need_id = ? AND status = ?", needID, models.RequestStatusPending).
		Count(&pending).Error; err != nil {
		return counts, err
	}
	if err := db.Model(&models.Request{}).
		Where("need_id = ? AND status = ?", needID, models.RequestStatusAccepted).
		Count(&accepted).Error; err != nil {
		return counts, err
	}

	counts.Pending = int(pending)
	counts.Accepted = int(accepted)
	return counts, nil
}

// Accept performs the transactional read-recompute-write that closes the
// first_come overbooking window: the acceptance, the recount and any overflow
// cancellation all commit together.
func (r *RequestRepositoryImpl) Accept(id string) (*AcceptResult, error) {
	result := &AcceptResult{}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var request models.Request
		if err := tx.Preload("Need").First(&request, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}

		// Terminal-state guard: re-running is a no-op.
		update := tx.Model(&models.Request{}).
			Where("id = ? AND status = ?", id, models.RequestStatusPending).
			Updates(map[string]interface{}{
				"status":       models.RequestStatusAccepted,
				"responded_at": time.Now(),
			})
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return nil
		}
		result.Changed = true

		counts, err := countByNeed(tx, request.NeedID)
		if err != nil {
			return err
		}
		result.AcceptedCount = counts.Accepted

		if counts.Accepted < request.Need.Quantity {
			return nil
		}
		result.NeedFilled = true

		if err := tx.Model(&models.Need{}).
			Where("id = ?", request.NeedID).
			Update("status", models.NeedStatusCompleted).Error; err != nil {
			return err
		}

		// first_come overflow: the burst leaves other requests pending, all of
		// which lose the race the moment the need fills.
		if request.Need.Strategy != models.NeedStrategyFirstCome {
			return nil
		}

		var losers []models.Request
		if err := tx.Preload("Musician").
			Where("need_id = ? AND status = ?", request.NeedID, models.RequestStatusPending).
			Find(&losers).Error; err != nil {
			return err
		}
		if len(losers) == 0 {
			return nil
		}

		loserIDs := make([]string, 0, len(losers))
		for _, l := range losers {
			loserIDs = append(loserIDs, l.ID)
		}
		if err := tx.Model(&models.Request{}).
			Where("id IN ? AND status = ?", loserIDs, models.RequestStatusPending).
			Update("status", models.RequestStatusCancelled).Error; err != nil {
			return err
		}

		result.Cancelled = losers
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *RequestRepositoryImpl) MarkDeclined(id string) (bool, error) {
	result := r.db.Model(&models.Request{}).
		Where("id = ? AND status = ?", id, models.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":       models.RequestStatusDeclined,
			"responded_at": time.Now(),
		})
	return result.RowsAffected > 0, result.Error
}

func (r *RequestRepositoryImpl) MarkTimedOut(id string) (bool, error) {
	result := r.db.Model(&models.Request{}).
		Where("id = ? AND status = ?", id, models.RequestStatusPending).
		Update("status", models.RequestStatusTimedOut)
	return result.RowsAffected > 0, result.Error
}

// SetReminderSent is guarded so a request never receives a second reminder,
// even when two passes overlap.
func (r *RequestRepositoryImpl) SetReminderSent(id string, at time.Time) (bool, error) {
	result := r.db.Model(&models.Request{}).
		Where("id = ? AND status = ? AND reminder_sent_at IS NULL", id, models.RequestStatusPending).
		Update("reminder_sent_at", at)
	return result.RowsAffected > 0, result.Error
}
