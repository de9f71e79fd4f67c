package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ensemble_backend/internal/models"
)

var (
	ErrListNotFound       = errors.New("ranking list not found")
	ErrListMembershipDiff = errors.New("reorder must cover exactly the current list members")
)

type RankingRepository interface {
	FindListByID(id string) (*models.RankingList, error)
	FindEntriesByList(listID string) ([]models.RankingEntry, error)
	FindAvailableCandidates(listID, projectID string, requireLocal bool, excludeIDs []string, limit int) ([]models.RankingEntry, error)
	CountQualifiedEntries(listID string, requireLocal bool) (int64, error)
	ReorderList(ctx context.Context, listID string, orderedMusicianIDs []string) error
}

type RankingRepositoryImpl struct {
	db *gorm.DB
}

func NewRankingRepository(db *gorm.DB) RankingRepository {
	return &RankingRepositoryImpl{db: db}
}

func (r *RankingRepositoryImpl) FindListByID(id string) (*models.RankingList, error) {
	var list models.RankingList
	err := r.db.First(&list, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListNotFound
		}
		return nil, err
	}
	return &list, nil
}

func (r *RankingRepositoryImpl) FindEntriesByList(listID string) ([]models.RankingEntry, error) {
	var entries []models.RankingEntry
	err := r.db.Preload("Musician").
		Where("list_id = ?", listID).
		Order("rank ASC").
		Find(&entries).Error
	return entries, err
}

func (r *RankingRepositoryImpl) qualifiedQuery(listID string, requireLocal bool) *gorm.DB {
	query := r.db.Model(&models.RankingEntry{}).
		Joins("JOIN musicians ON musicians.id = ranking_entries.musician_id").
		Where("ranking_entries.list_id = ?", listID).
		Where("musicians.status = ?", models.MusicianStatusActive)
	if requireLocal {
		query = query.Where("musicians.local_resident = ?", true)
	}
	return query
}

// CountQualifiedEntries counts active musicians on the list, before any
// project-wide exclusion. Used by need validation.
func (r *RankingRepositoryImpl) CountQualifiedEntries(listID string, requireLocal bool) (int64, error) {
	var count int64
	err := r.qualifiedQuery(listID, requireLocal).Count(&count).Error
	return count, err
}

// FindAvailableCandidates returns up to limit entries in ascending rank order,
// filtered to active musicians and excluding the given IDs. Returns fewer than
// limit on exhaustion; exhaustion is not an error.
func (r *RankingRepositoryImpl) FindAvailableCandidates(listID, projectID string, requireLocal bool, excludeIDs []string, limit int) ([]models.RankingEntry, error) {
	query := r.qualifiedQuery(listID, requireLocal).
		Preload("Musician").
		Where("ranking_entries.musician_id NOT IN (?)",
			r.db.Model(&models.Request{}).
				Select("requests.musician_id").
				Joins("JOIN needs ON needs.id = requests.need_id").
				Where("needs.project_id = ?", projectID),
		)

	if len(excludeIDs) > 0 {
		query = query.Where("ranking_entries.musician_id NOT IN ?", excludeIDs)
	}

	var entries []models.RankingEntry
	err := query.Order("ranking_entries.rank ASC").Limit(limit).Find(&entries).Error
	return entries, err
}

// ReorderList rewrites the whole list's ranks to match the given order.
// Ranks are unique within a list, so a naive overwrite can collide mid-update;
// the rewrite goes through temporary negative ranks first and commits both
// phases in one transaction with an explicit timeout.
func (r *RankingRepositoryImpl) ReorderList(ctx context.Context, listID string, orderedMusicianIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current []models.RankingEntry
		if err := tx.Where("list_id = ?", listID).Find(&current).Error; err != nil {
			return err
		}
		if len(current) == 0 {
			return ErrListNotFound
		}

		members := make(map[string]bool, len(current))
		for _, entry := range current {
			members[entry.MusicianID] = true
		}
		if len(orderedMusicianIDs) != len(current) {
			return ErrListMembershipDiff
		}
		for _, id := range orderedMusicianIDs {
			if !members[id] {
				return fmt.Errorf("%w: musician %s is not on the list", ErrListMembershipDiff, id)
			}
			delete(members, id)
		}

		// Phase 1: park every entry on a non-conflicting temporary rank.
		for i, musicianID := range orderedMusicianIDs {
			if err := tx.Model(&models.RankingEntry{}).
				Where("list_id = ? AND musician_id = ?", listID, musicianID).
				Update("rank", -(i + 1)).Error; err != nil {
				return err
			}
		}

		// Phase 2: final ranks.
		for i, musicianID := range orderedMusicianIDs {
			if err := tx.Model(&models.RankingEntry{}).
				Where("list_id = ? AND musician_id = ?", listID, musicianID).
				Update("rank", i+1).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
