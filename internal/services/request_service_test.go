package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ensemble_backend/internal/email"
	"ensemble_backend/internal/models"
	"ensemble_backend/internal/repositories"
	"ensemble_backend/internal/testutil"
	"ensemble_backend/pkg/apperrors"
)

func pendingRequests(t *testing.T, engine *testEngine, needID string) []models.Request {
	t.Helper()
	var requests []models.Request
	require.NoError(t, engine.db.
		Where("need_id = ? AND status = ?", needID, models.RequestStatusPending).
		Order("created_at ASC").
		Find(&requests).Error)
	return requests
}

func TestRespond_InvalidOutcome(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	err := engine.requests.Respond(context.Background(), "any", "maybe")
	assert.ErrorIs(t, err, apperrors.ErrInvalidOutcome)
}

func TestRespond_UnknownRequest(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	err := engine.requests.Respond(context.Background(), "missing", "accepted")
	assert.ErrorIs(t, err, apperrors.ErrRequestNotFound)
}

func TestRespond_AcceptFillsSequentialNeed(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	project := testutil.CreateTestProject(t, engine.db, "Beethoven Nine")
	list, musicians := testutil.SeedRankedList(t, engine.db, "nine-sopranos", 3)
	need := testutil.CreateTestNeed(t, engine.db, models.Need{
		ProjectID: project.ID,
		Position:  "Soprano",
		ListID:    list.ID,
		Quantity:  1,
		Strategy:  models.NeedStrategySequential,
	})

	_, err := engine.needs.Dispatch(context.Background(), need.ID)
	require.NoError(t, err)
	pending := pendingRequests(t, engine, need.ID)
	require.Len(t, pending, 1)
	assert.Equal(t, musicians[0].ID, pending[0].MusicianID)

	require.NoError(t, engine.requests.Respond(context.Background(), pending[0].ID, "accepted"))

	var reloaded models.Request
	require.NoError(t, engine.db.First(&reloaded, "id = ?", pending[0].ID).Error)
	assert.Equal(t, models.RequestStatusAccepted, reloaded.Status)
	require.NotNil(t, reloaded.RespondedAt)

	var needReloaded models.Need
	require.NoError(t, engine.db.First(&needReloaded, "id = ?", need.ID).Error)
	assert.Equal(t, models.NeedStatusCompleted, needReloaded.Status)
}

func TestRespond_DeclineTriggersBackfillDownTheList(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	project := testutil.CreateTestProject(t, engine.db, "Brahms Requiem")
	list, musicians := testutil.SeedRankedList(t, engine.db, "requiem-tenors", 3)
	need := testutil.CreateTestNeed(t, engine.db, models.Need{
		ProjectID: project.ID,
		Position:  "Tenor",
		ListID:    list.ID,
		Quantity:  1,
		Strategy:  models.NeedStrategySequential,
	})

	_, err := engine.needs.Dispatch(context.Background(), need.ID)
	require.NoError(t, err)
	first := pendingRequests(t, engine, need.ID)[0]

	require.NoError(t, engine.requests.Respond(context.Background(), first.ID, "declined"))

	var declined models.Request
	require.NoError(t, engine.db.First(&declined, "id = ?", first.ID).Error)
	assert.Equal(t, models.RequestStatusDeclined, declined.Status)
	require.NotNil(t, declined.RespondedAt)

	// Backfill moved on to rank two.
	pending := pendingRequests(t, engine, need.ID)
	require.Len(t, pending, 1)
	assert.Equal(t, musicians[1].ID, pending[0].MusicianID)

	// Decline down the whole list: rank three gets contacted, then the queue
	// is exhausted and the need stays active but understaffed.
	require.NoError(t, engine.requests.Respond(context.Background(), pending[0].ID, "declined"))
	pending = pendingRequests(t, engine, need.ID)
	require.Len(t, pending, 1)
	assert.Equal(t, musicians[2].ID, pending[0].MusicianID)

	require.NoError(t, engine.requests.Respond(context.Background(), pending[0].ID, "declined"))
	assert.Empty(t, pendingRequests(t, engine, need.ID))

	var needReloaded models.Need
	require.NoError(t, engine.db.First(&needReloaded, "id = ?", need.ID).Error)
	assert.Equal(t, models.NeedStatusActive, needReloaded.Status)
}

func TestRespond_TerminalRequestIsANoOp(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	project := testutil.CreateTestProject(t, engine.db, "Verdi Gala")
	list, _ := testutil.SeedRankedList(t, engine.db, "verdi-baritones", 3)
	need := testutil.CreateTestNeed(t, engine.db, models.Need{
		ProjectID: project.ID,
		ListID:    list.ID,
		Quantity:  1,
		Strategy:  models.NeedStrategySequential,
	})

	_, err := engine.needs.Dispatch(context.Background(), need.ID)
	require.NoError(t, err)
	first := pendingRequests(t, engine, need.ID)[0]

	require.NoError(t, engine.requests.Respond(context.Background(), first.ID, "declined"))
	countAfterFirst := len(pendingRequests(t, engine, need.ID))

	// Redelivered decline: no error, no second backfill.
	require.NoError(t, engine.requests.Respond(context.Background(), first.ID, "declined"))
	assert.Equal(t, countAfterFirst, len(pendingRequests(t, engine, need.ID)))

	// Flipping a declined request to accepted is also refused silently.
	require.NoError(t, engine.requests.Respond(context.Background(), first.ID, "accepted"))
	var reloaded models.Request
	require.NoError(t, engine.db.First(&reloaded, "id = ?", first.ID).Error)
	assert.Equal(t, models.RequestStatusDeclined, reloaded.Status)
}

func TestRespond_FirstComeRaceCancelsOverflow(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	project := testutil.CreateTestProject(t, engine.db, "New Year Concert")
	list, _ := testutil.SeedRankedList(t, engine.db, "newyear-violins", 6)
	need := testutil.CreateTestNeed(t, engine.db, models.Need{
		ProjectID:     project.ID,
		Position:      "Violin II",
		ListID:        list.ID,
		Quantity:      2,
		Strategy:      models.NeedStrategyFirstCome,
		MaxRecipients: intPtr(4),
	})

	_, err := engine.needs.Dispatch(context.Background(), need.ID)
	require.NoError(t, err)
	pending := pendingRequests(t, engine, need.ID)
	require.Len(t, pending, 4)

	require.NoError(t, engine.requests.Respond(context.Background(), pending[0].ID, "accepted"))
	require.NoError(t, engine.requests.Respond(context.Background(), pending[1].ID, "accepted"))

	var needReloaded models.Need
	require.NoError(t, engine.db.First(&needReloaded, "id = ?", need.ID).Error)
	assert.Equal(t, models.NeedStatusCompleted, needReloaded.Status)

	var cancelled int64
	require.NoError(t, engine.db.Model(&models.Request{}).
		Where("need_id = ? AND status = ?", need.ID, models.RequestStatusCancelled).
		Count(&cancelled).Error)
	assert.EqualValues(t, 2, cancelled)

	// The losers were told the position filled.
	filled := 0
	for _, send := range engine.sender.Sent() {
		if send.TemplateType == email.TemplatePositionFilled {
			filled++
		}
	}
	assert.Equal(t, 2, filled)

	// A late accept from a cancelled musician is a quiet no-op.
	require.NoError(t, engine.requests.Respond(context.Background(), pending[2].ID, "accepted"))
	var late models.Request
	require.NoError(t, engine.db.First(&late, "id = ?", pending[2].ID).Error)
	assert.Equal(t, models.RequestStatusCancelled, late.Status)
}

func TestAccept_RepositoryGuardIsIdempotent(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	project := testutil.CreateTestProject(t, engine.db, "Quartet Night")
	list, musicians := testutil.SeedRankedList(t, engine.db, "quartet-cellos", 1)
	need := testutil.CreateTestNeed(t, engine.db, models.Need{
		ProjectID: project.ID,
		ListID:    list.ID,
		Quantity:  1,
		Strategy:  models.NeedStrategySequential,
	})
	_ = musicians

	_, err := engine.needs.Dispatch(context.Background(), need.ID)
	require.NoError(t, err)
	request := pendingRequests(t, engine, need.ID)[0]

	repo := repositories.NewRequestRepository(engine.db)
	first, err := repo.Accept(request.ID)
	require.NoError(t, err)
	assert.True(t, first.Changed)
	assert.True(t, first.NeedFilled)

	second, err := repo.Accept(request.ID)
	require.NoError(t, err)
	assert.False(t, second.Changed)
}
