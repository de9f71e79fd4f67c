package repositories

import (
	"errors"

	"gorm.io/gorm"

	"ensemble_backend/internal/models"
)

var (
	ErrNeedNotFound    = errors.New("need not found")
	ErrProjectNotFound = errors.New("project not found")
)

type NeedRepository interface {
	CreateNeed(need *models.Need) error
	FindNeedByID(id string) (*models.Need, error)
	FindActiveNeedsByProject(projectID string) ([]models.Need, error)
	UpdateNeedStatus(id string, status models.NeedStatus) error
	FindProjectByID(id string) (*models.Project, error)
}

type NeedRepositoryImpl struct {
	db *gorm.DB
}

func NewNeedRepository(db *gorm.DB) NeedRepository {
	return &NeedRepositoryImpl{db: db}
}

func (r *NeedRepositoryImpl) CreateNeed(need *models.Need) error {
	return r.db.Create(need).Error
}

func (r *NeedRepositoryImpl) FindNeedByID(id string) (*models.Need, error) {
	var need models.Need
	err := r.db.Preload("List").First(&need, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNeedNotFound
		}
		return nil, err
	}
	return &need, nil
}

// FindActiveNeedsByProject returns non-completed needs, including paused ones:
// a paused need still occupies its candidates and counts for conflict review.
func (r *NeedRepositoryImpl) FindActiveNeedsByProject(projectID string) ([]models.Need, error) {
	var needs []models.Need
	err := r.db.Where("project_id = ? AND status <> ?", projectID, models.NeedStatusCompleted).
		Order("created_at ASC").
		Find(&needs).Error
	return needs, err
}

func (r *NeedRepositoryImpl) UpdateNeedStatus(id string, status models.NeedStatus) error {
	result := r.db.Model(&models.Need{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNeedNotFound
	}
	return nil
}

func (r *NeedRepositoryImpl) FindProjectByID(id string) (*models.Project, error) {
	var project models.Project
	err := r.db.First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}
