package repositories

import (
	"errors"

	"gorm.io/gorm"

	"ensemble_backend/internal/models"
)

var ErrMusicianNotFound = errors.New("musician not found")

type MusicianRepository interface {
	FindMusicianByID(id string) (*models.Musician, error)
	FindMusiciansByIDs(ids []string) ([]models.Musician, error)
}

type MusicianRepositoryImpl struct {
	db *gorm.DB
}

func NewMusicianRepository(db *gorm.DB) MusicianRepository {
	return &MusicianRepositoryImpl{db: db}
}

func (r *MusicianRepositoryImpl) FindMusicianByID(id string) (*models.Musician, error) {
	var musician models.Musician
	err := r.db.First(&musician, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMusicianNotFound
		}
		return nil, err
	}
	return &musician, nil
}

func (r *MusicianRepositoryImpl) FindMusiciansByIDs(ids []string) ([]models.Musician, error) {
	var musicians []models.Musician
	if len(ids) == 0 {
		return musicians, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&musicians).Error
	return musicians, err
}
