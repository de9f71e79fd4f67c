package testutil

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"ensemble_backend/internal/models"
)

// NewTestDB opens a fresh in-memory database with the full schema migrated.
// Every test gets its own database, so tests can run in parallel.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Musician{},
		&models.Project{},
		&models.RankingList{},
		&models.RankingEntry{},
		&models.Need{},
		&models.Request{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}

	return db
}

func CreateTestProject(t *testing.T, db *gorm.DB, name string) models.Project {
	t.Helper()
	project := models.Project{Name: name, Status: models.ProjectStatusActive}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("Failed to create test project: %v", err)
	}
	return project
}

func CreateTestMusician(t *testing.T, db *gorm.DB, name, email string) models.Musician {
	t.Helper()
	musician := models.Musician{
		Name:   name,
		Email:  email,
		Status: models.MusicianStatusActive,
	}
	if err := db.Create(&musician).Error; err != nil {
		t.Fatalf("Failed to create test musician: %v", err)
	}
	return musician
}

func CreateTestList(t *testing.T, db *gorm.DB, name string) models.RankingList {
	t.Helper()
	list := models.RankingList{Name: name, Kind: models.ListKindStandard}
	if err := db.Create(&list).Error; err != nil {
		t.Fatalf("Failed to create test list: %v", err)
	}
	return list
}

func AddListEntry(t *testing.T, db *gorm.DB, listID, musicianID string, rank int) models.RankingEntry {
	t.Helper()
	entry := models.RankingEntry{ListID: listID, MusicianID: musicianID, Rank: rank}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("Failed to create test ranking entry: %v", err)
	}
	return entry
}

// SeedRankedList creates count active musicians and a list ranking them in
// creation order. Emails are derived from the list name to stay unique.
func SeedRankedList(t *testing.T, db *gorm.DB, name string, count int) (models.RankingList, []models.Musician) {
	t.Helper()
	list := CreateTestList(t, db, name)
	musicians := make([]models.Musician, 0, count)
	for i := 0; i < count; i++ {
		m := CreateTestMusician(t, db,
			fmt.Sprintf("%s musician %d", name, i+1),
			fmt.Sprintf("%s.m%d@test.local", name, i+1))
		AddListEntry(t, db, list.ID, m.ID, i+1)
		musicians = append(musicians, m)
	}
	return list, musicians
}

func CreateTestNeed(t *testing.T, db *gorm.DB, need models.Need) models.Need {
	t.Helper()
	if need.Quantity == 0 {
		need.Quantity = 1
	}
	if need.Strategy == "" {
		need.Strategy = models.NeedStrategySequential
	}
	if need.ResponseTimeHours == 0 {
		need.ResponseTimeHours = 24
	}
	if need.Status == "" {
		need.Status = models.NeedStatusActive
	}
	if need.Position == "" {
		need.Position = "Violin I"
	}
	if err := db.Create(&need).Error; err != nil {
		t.Fatalf("Failed to create test need: %v", err)
	}
	return need
}
