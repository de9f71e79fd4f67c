package services

import (
	"ensemble_backend/internal/models"
	"ensemble_backend/pkg/apperrors"
)

// DispatchStrategy decides how many new candidates to contact for a need,
// given the current pending and accepted request counts. One implementation
// per strategy variant keeps the branching out of every call site.
type DispatchStrategy interface {
	// RequiredSendCount never returns a negative number.
	RequiredSendCount(need *models.Need, pendingCount, acceptedCount int) int
	// ValidateNeed checks the variant's quantity/limit invariants.
	ValidateNeed(need *models.Need) error
}

// StrategyFor resolves the variant for a typed strategy constant.
func StrategyFor(strategy models.NeedStrategy) (DispatchStrategy, error) {
	switch strategy {
	case models.NeedStrategySequential:
		return sequentialStrategy{}, nil
	case models.NeedStrategyParallel:
		return parallelStrategy{}, nil
	case models.NeedStrategyFirstCome:
		return firstComeStrategy{}, nil
	default:
		return nil, apperrors.ErrUnknownStrategy
	}
}

// sequential contacts one candidate at a time: a new request goes out only
// when nothing is outstanding and the need is not filled.
type sequentialStrategy struct{}

func (sequentialStrategy) RequiredSendCount(need *models.Need, pendingCount, acceptedCount int) int {
	if pendingCount == 0 && acceptedCount < need.Quantity {
		return 1
	}
	return 0
}

func (sequentialStrategy) ValidateNeed(need *models.Need) error {
	if need.Quantity != 1 {
		return apperrors.ErrSequentialQuantity
	}
	if need.MaxRecipients != nil {
		return apperrors.ErrMaxRecipientsNotAllowed
	}
	return nil
}

// parallel tops up to exactly fill the remaining quantity, additively
// alongside whatever is already pending.
type parallelStrategy struct{}

func (parallelStrategy) RequiredSendCount(need *models.Need, pendingCount, acceptedCount int) int {
	count := need.Quantity - acceptedCount - pendingCount
	if count < 0 {
		return 0
	}
	return count
}

func (parallelStrategy) ValidateNeed(need *models.Need) error {
	if need.Quantity < 2 {
		return apperrors.ErrParallelQuantity
	}
	if need.MaxRecipients != nil {
		return apperrors.ErrMaxRecipientsNotAllowed
	}
	return nil
}

// firstCome fires one wide burst: up to MaxRecipients candidates are
// contacted at once and the first acceptances win. It never tops up while
// requests are in flight; a new burst goes out only once all of the previous
// one has resolved.
type firstComeStrategy struct{}

func (firstComeStrategy) RequiredSendCount(need *models.Need, pendingCount, acceptedCount int) int {
	if pendingCount != 0 || acceptedCount >= need.Quantity {
		return 0
	}
	remaining := need.Quantity - acceptedCount
	if need.MaxRecipients != nil && *need.MaxRecipients > remaining {
		return *need.MaxRecipients
	}
	return remaining
}

func (firstComeStrategy) ValidateNeed(need *models.Need) error {
	if need.MaxRecipients != nil && *need.MaxRecipients < need.Quantity {
		return apperrors.ErrMaxRecipientsTooLow
	}
	return nil
}
