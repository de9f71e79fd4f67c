package services

import (
	"errors"
	"sort"

	"ensemble_backend/internal/repositories"
	"ensemble_backend/internal/services/dto"
	"ensemble_backend/pkg/apperrors"
)

// ConflictService reports musicians ranked on more than one active need of a
// project. Membership is what counts, not whether a request exists yet; the
// report is advisory and blocks nothing.
type ConflictService struct {
	needRepo    repositories.NeedRepository
	rankingRepo repositories.RankingRepository
}

func NewConflictService(needRepo repositories.NeedRepository, rankingRepo repositories.RankingRepository) *ConflictService {
	return &ConflictService{
		needRepo:    needRepo,
		rankingRepo: rankingRepo,
	}
}

func (s *ConflictService) GetConflicts(projectID string) ([]dto.ConflictRecord, error) {
	if _, err := s.needRepo.FindProjectByID(projectID); err != nil {
		if errors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}

	needs, err := s.needRepo.FindActiveNeedsByProject(projectID)
	if err != nil {
		return nil, err
	}

	type membership struct {
		entries []dto.ConflictEntry
		name    string
	}
	byMusician := make(map[string]*membership)

	for _, need := range needs {
		entries, err := s.rankingRepo.FindEntriesByList(need.ListID)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			m, ok := byMusician[entry.MusicianID]
			if !ok {
				m = &membership{name: entry.Musician.Name}
				byMusician[entry.MusicianID] = m
			}
			m.entries = append(m.entries, dto.ConflictEntry{
				NeedID:   need.ID,
				Position: need.Position,
				Quantity: need.Quantity,
				Rank:     entry.Rank,
			})
		}
	}

	var records []dto.ConflictRecord
	for musicianID, m := range byMusician {
		if len(m.entries) < 2 {
			continue
		}
		records = append(records, dto.ConflictRecord{
			MusicianID:   musicianID,
			MusicianName: m.name,
			Entries:      m.entries,
		})
	}

	// Stable output for review and for tests.
	sort.Slice(records, func(i, j int) bool {
		if records[i].MusicianName != records[j].MusicianName {
			return records[i].MusicianName < records[j].MusicianName
		}
		return records[i].MusicianID < records[j].MusicianID
	})

	return records, nil
}
