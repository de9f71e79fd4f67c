package services

import (
	"context"
	"errors"

	"ensemble_backend/internal/config"
	"ensemble_backend/internal/models"
	"ensemble_backend/internal/repositories"
	"ensemble_backend/pkg/apperrors"
)

// RankingService answers "who is next" for a need and owns list reordering.
type RankingService struct {
	rankingRepo repositories.RankingRepository
	cfg         config.DispatchConfig
}

func NewRankingService(rankingRepo repositories.RankingRepository, cfg config.DispatchConfig) *RankingService {
	return &RankingService{
		rankingRepo: rankingRepo,
		cfg:         cfg,
	}
}

// NextCandidates returns up to count musicians from the need's bound list in
// ascending rank order, skipping inactive musicians, anyone already holding a
// request for any need in the same project, and the explicitly excluded IDs.
// Exhaustion returns a short list, never an error.
func (s *RankingService) NextCandidates(need *models.Need, excludeMusicianIDs []string, count int) ([]models.Musician, error) {
	if count <= 0 {
		return nil, nil
	}

	entries, err := s.rankingRepo.FindAvailableCandidates(
		need.ListID, need.ProjectID, need.RequireLocal, excludeMusicianIDs, count)
	if err != nil {
		return nil, err
	}

	musicians := make([]models.Musician, 0, len(entries))
	for _, entry := range entries {
		musicians = append(musicians, entry.Musician)
	}
	return musicians, nil
}

// QualifiedCount counts active musicians on the need's list before exclusion.
func (s *RankingService) QualifiedCount(need *models.Need) (int64, error) {
	return s.rankingRepo.CountQualifiedEntries(need.ListID, need.RequireLocal)
}

// ReorderList rewrites the whole list's ranks to the given order under the
// configured transaction timeout. Transaction failures surface as retryable;
// the engine performs no automatic retries.
func (s *RankingService) ReorderList(ctx context.Context, listID string, orderedMusicianIDs []string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RankRewriteTimeout())
	defer cancel()

	err := s.rankingRepo.ReorderList(ctx, listID, orderedMusicianIDs)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrListNotFound):
		return apperrors.ErrListNotFound
	case errors.Is(err, repositories.ErrListMembershipDiff):
		return apperrors.NewBadRequestError(err.Error())
	default:
		return apperrors.NewRetryableError(err, "ranking", "Rank rewrite failed, the operation may be retried")
	}
}

// ListEntries returns the current ordering with musicians preloaded.
func (s *RankingService) ListEntries(listID string) ([]models.RankingEntry, error) {
	if _, err := s.rankingRepo.FindListByID(listID); err != nil {
		if errors.Is(err, repositories.ErrListNotFound) {
			return nil, apperrors.ErrListNotFound
		}
		return nil, err
	}
	return s.rankingRepo.FindEntriesByList(listID)
}
