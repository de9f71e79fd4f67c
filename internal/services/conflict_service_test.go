package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ensemble_backend/internal/models"
	"ensemble_backend/internal/repositories"
	"ensemble_backend/internal/testutil"
	"ensemble_backend/pkg/apperrors"
)

func TestGetConflicts_UnknownProject(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	conflicts := NewConflictService(
		repositories.NewNeedRepository(engine.db),
		repositories.NewRankingRepository(engine.db))

	_, err := conflicts.GetConflicts("missing")
	assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)
}

func TestGetConflicts_ReportsSharedMusicians(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	conflicts := NewConflictService(
		repositories.NewNeedRepository(engine.db),
		repositories.NewRankingRepository(engine.db))

	project := testutil.CreateTestProject(t, engine.db, "Summer Festival")

	shared := testutil.CreateTestMusician(t, engine.db, "Alex Doubler", "alex.doubler@test.local")
	violinOnly := testutil.CreateTestMusician(t, engine.db, "Vera Violin", "vera.violin@test.local")
	violaOnly := testutil.CreateTestMusician(t, engine.db, "Ivo Viola", "ivo.viola@test.local")

	violins := testutil.CreateTestList(t, engine.db, "festival-violins")
	testutil.AddListEntry(t, engine.db, violins.ID, violinOnly.ID, 1)
	testutil.AddListEntry(t, engine.db, violins.ID, shared.ID, 2)

	violas := testutil.CreateTestList(t, engine.db, "festival-violas")
	testutil.AddListEntry(t, engine.db, violas.ID, shared.ID, 1)
	testutil.AddListEntry(t, engine.db, violas.ID, violaOnly.ID, 2)

	violinNeed := testutil.CreateTestNeed(t, engine.db, models.Need{
		ProjectID: project.ID, Position: "Violin", ListID: violins.ID,
	})
	violaNeed := testutil.CreateTestNeed(t, engine.db, models.Need{
		ProjectID: project.ID, Position: "Viola", ListID: violas.ID,
	})

	records, err := conflicts.GetConflicts(project.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, shared.ID, record.MusicianID)
	assert.Equal(t, "Alex Doubler", record.MusicianName)
	require.Len(t, record.Entries, 2)

	needIDs := []string{record.Entries[0].NeedID, record.Entries[1].NeedID}
	assert.ElementsMatch(t, []string{violinNeed.ID, violaNeed.ID}, needIDs)
}

func TestGetConflicts_CompletedNeedsAreIgnored(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	conflicts := NewConflictService(
		repositories.NewNeedRepository(engine.db),
		repositories.NewRankingRepository(engine.db))

	project := testutil.CreateTestProject(t, engine.db, "Closed Season")
	shared := testutil.CreateTestMusician(t, engine.db, "Noa Shared", "noa.shared@test.local")

	listA := testutil.CreateTestList(t, engine.db, "closed-a")
	testutil.AddListEntry(t, engine.db, listA.ID, shared.ID, 1)
	listB := testutil.CreateTestList(t, engine.db, "closed-b")
	testutil.AddListEntry(t, engine.db, listB.ID, shared.ID, 1)

	testutil.CreateTestNeed(t, engine.db, models.Need{
		ProjectID: project.ID, Position: "Flute", ListID: listA.ID,
	})
	testutil.CreateTestNeed(t, engine.db, models.Need{
		ProjectID: project.ID, Position: "Piccolo", ListID: listB.ID,
		Status: models.NeedStatusCompleted,
	})

	records, err := conflicts.GetConflicts(project.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}
