package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ensemble_backend/internal/email"
	"ensemble_backend/internal/models"
	"ensemble_backend/internal/services/dto"
	"ensemble_backend/internal/testutil"
	"ensemble_backend/pkg/apperrors"
)

func TestCreateNeed_StrategyInvariants(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	project := testutil.CreateTestProject(t, engine.db, "Autumn Gala")
	list, _ := testutil.SeedRankedList(t, engine.db, "gala-violins", 3)

	base := dto.CreateNeedRequest{
		ProjectID: project.ID,
		Position:  "Violin I",
		ListID:    list.ID,
	}

	t.Run("sequential requires quantity one", func(t *testing.T) {
		req := base
		req.Strategy = "sequential"
		req.Quantity = 2
		_, err := engine.needs.CreateNeed(&req)
		assert.ErrorIs(t, err, apperrors.ErrSequentialQuantity)
	})

	t.Run("parallel requires quantity above one", func(t *testing.T) {
		req := base
		req.Strategy = "parallel"
		req.Quantity = 1
		_, err := engine.needs.CreateNeed(&req)
		assert.ErrorIs(t, err, apperrors.ErrParallelQuantity)
	})

	t.Run("first_come rejects a limit below quantity", func(t *testing.T) {
		req := base
		req.Strategy = "first_come"
		req.Quantity = 3
		req.MaxRecipients = intPtr(2)
		_, err := engine.needs.CreateNeed(&req)
		assert.ErrorIs(t, err, apperrors.ErrMaxRecipientsTooLow)
	})

	t.Run("max recipients is first_come only", func(t *testing.T) {
		req := base
		req.Strategy = "parallel"
		req.Quantity = 2
		req.MaxRecipients = intPtr(4)
		_, err := engine.needs.CreateNeed(&req)
		assert.ErrorIs(t, err, apperrors.ErrMaxRecipientsNotAllowed)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		req := base
		req.Strategy = "lottery"
		req.Quantity = 1
		_, err := engine.needs.CreateNeed(&req)
		assert.ErrorIs(t, err, apperrors.ErrUnknownStrategy)
	})
}

func TestCreateNeed_ReferencesMustExist(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	project := testutil.CreateTestProject(t, engine.db, "Winter Series")
	list, _ := testutil.SeedRankedList(t, engine.db, "winter-cellos", 2)

	_, err := engine.needs.CreateNeed(&dto.CreateNeedRequest{
		ProjectID: "missing-project",
		Position:  "Cello",
		ListID:    list.ID,
		Quantity:  1,
		Strategy:  "sequential",
	})
	assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)

	_, err = engine.needs.CreateNeed(&dto.CreateNeedRequest{
		ProjectID: project.ID,
		Position:  "Cello",
		ListID:    "missing-list",
		Quantity:  1,
		Strategy:  "sequential",
	})
	assert.ErrorIs(t, err, apperrors.ErrListNotFound)
}

func TestCreateNeed_ProjectListBelongsToProject(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	project := testutil.CreateTestProject(t, engine.db, "Opera Run")
	other := testutil.CreateTestProject(t, engine.db, "Chamber Series")

	musician := testutil.CreateTestMusician(t, engine.db, "Solo Violist", "solo.viola@test.local")
	list := models.RankingList{Name: "opera extras", Kind: models.ListKindProject, ProjectID: &other.ID}
	require.NoError(t, engine.db.Create(&list).Error)
	testutil.AddListEntry(t, engine.db, list.ID, musician.ID, 1)

	_, err := engine.needs.CreateNeed(&dto.CreateNeedRequest{
		ProjectID: project.ID,
		Position:  "Viola",
		ListID:    list.ID,
		Quantity:  1,
		Strategy:  "sequential",
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestCreateNeed_CandidateSupplyChecks(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	project := testutil.CreateTestProject(t, engine.db, "Festival")

	t.Run("no qualified candidates", func(t *testing.T) {
		musician := testutil.CreateTestMusician(t, engine.db, "Retired Oboist", "retired.oboe@test.local")
		require.NoError(t, engine.db.Model(&models.Musician{}).
			Where("id = ?", musician.ID).
			Update("status", models.MusicianStatusInactive).Error)

		list := testutil.CreateTestList(t, engine.db, "festival-oboes")
		testutil.AddListEntry(t, engine.db, list.ID, musician.ID, 1)

		_, err := engine.needs.CreateNeed(&dto.CreateNeedRequest{
			ProjectID: project.ID,
			Position:  "Oboe",
			ListID:    list.ID,
			Quantity:  1,
			Strategy:  "sequential",
		})
		assert.ErrorIs(t, err, apperrors.ErrNoQualifiedCandidates)
	})

	t.Run("qualified but all already engaged in the project", func(t *testing.T) {
		list, musicians := testutil.SeedRankedList(t, engine.db, "festival-flutes", 1)
		existing := testutil.CreateTestNeed(t, engine.db, models.Need{
			ProjectID: project.ID,
			Position:  "Flute",
			ListID:    list.ID,
		})
		require.NoError(t, engine.db.Create(&models.Request{
			NeedID:     existing.ID,
			MusicianID: musicians[0].ID,
			Status:     models.RequestStatusAccepted,
		}).Error)

		_, err := engine.needs.CreateNeed(&dto.CreateNeedRequest{
			ProjectID: project.ID,
			Position:  "Piccolo",
			ListID:    list.ID,
			Quantity:  1,
			Strategy:  "sequential",
		})
		assert.ErrorIs(t, err, apperrors.ErrNoAvailableCandidates)
	})
}

func TestDispatch_SequentialContactsTopRankedOnly(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	project := testutil.CreateTestProject(t, engine.db, "Spring Concert")
	list, musicians := testutil.SeedRankedList(t, engine.db, "spring-violins", 3)
	need := testutil.CreateTestNeed(t, engine.db, models.Need{
		ProjectID: project.ID,
		ListID:    list.ID,
		Quantity:  1,
		Strategy:  models.NeedStrategySequential,
	})

	result, err := engine.needs.Dispatch(context.Background(), need.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)

	var requests []models.Request
	require.NoError(t, engine.db.Where("need_id = ?", need.ID).Find(&requests).Error)
	require.Len(t, requests, 1)
	assert.Equal(t, musicians[0].ID, requests[0].MusicianID)
	assert.Equal(t, models.RequestStatusPending, requests[0].Status)

	sent := engine.sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, musicians[0].Email, sent[0].Recipient)
	assert.Equal(t, email.TemplateNeedRequest, sent[0].TemplateType)

	// A second dispatch waits for the pending answer.
	result, err = engine.needs.Dispatch(context.Background(), need.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Sent)
}

func TestDispatch_ParallelContactsFullQuantity(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	project := testutil.CreateTestProject(t, engine.db, "Mahler Cycle")
	list, musicians := testutil.SeedRankedList(t, engine.db, "mahler-horns", 5)
	need := testutil.CreateTestNeed(t, engine.db, models.Need{
		ProjectID: project.ID,
		Position:  "Horn",
		ListID:    list.ID,
		Quantity:  3,
		Strategy:  models.NeedStrategyParallel,
	})

	result, err := engine.needs.Dispatch(context.Background(), need.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Sent)

	var ids []string
	require.NoError(t, engine.db.Model(&models.Request{}).
		Where("need_id = ?", need.ID).
		Pluck("musician_id", &ids).Error)
	assert.ElementsMatch(t, []string{musicians[0].ID, musicians[1].ID, musicians[2].ID}, ids)
}

func TestDispatch_FirstComeBurstsUpToMaxRecipients(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	project := testutil.CreateTestProject(t, engine.db, "Pops Night")
	list, _ := testutil.SeedRankedList(t, engine.db, "pops-trumpets", 6)
	need := testutil.CreateTestNeed(t, engine.db, models.Need{
		ProjectID:     project.ID,
		Position:      "Trumpet",
		ListID:        list.ID,
		Quantity:      3,
		Strategy:      models.NeedStrategyFirstCome,
		MaxRecipients: intPtr(5),
	})

	result, err := engine.needs.Dispatch(context.Background(), need.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Sent)
	assert.Len(t, engine.sender.Sent(), 5)
}

func TestDispatch_PausedNeedSendsNothing(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	project := testutil.CreateTestProject(t, engine.db, "Tour")
	list, _ := testutil.SeedRankedList(t, engine.db, "tour-basses", 2)
	need := testutil.CreateTestNeed(t, engine.db, models.Need{
		ProjectID: project.ID,
		ListID:    list.ID,
		Status:    models.NeedStatusPaused,
	})

	result, err := engine.needs.Dispatch(context.Background(), need.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Sent)
	assert.Empty(t, engine.sender.Sent())
}

func TestDispatch_QueueExhaustionIsNotAnError(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	project := testutil.CreateTestProject(t, engine.db, "Recording Session")
	list, _ := testutil.SeedRankedList(t, engine.db, "session-percussion", 2)
	need := testutil.CreateTestNeed(t, engine.db, models.Need{
		ProjectID: project.ID,
		Position:  "Percussion",
		ListID:    list.ID,
		Quantity:  3,
		Strategy:  models.NeedStrategyParallel,
	})

	// Only two candidates exist for a quantity of three.
	result, err := engine.needs.Dispatch(context.Background(), need.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Sent)

	// The queue is now empty; re-dispatching is a quiet no-op.
	result, err = engine.needs.Dispatch(context.Background(), need.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Sent)
}

func TestSetPaused(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	project := testutil.CreateTestProject(t, engine.db, "Gala")
	list, _ := testutil.SeedRankedList(t, engine.db, "gala-harps", 1)
	need := testutil.CreateTestNeed(t, engine.db, models.Need{
		ProjectID: project.ID,
		ListID:    list.ID,
	})

	require.NoError(t, engine.needs.SetPaused(need.ID, true))
	var reloaded models.Need
	require.NoError(t, engine.db.First(&reloaded, "id = ?", need.ID).Error)
	assert.Equal(t, models.NeedStatusPaused, reloaded.Status)

	require.NoError(t, engine.needs.SetPaused(need.ID, false))
	require.NoError(t, engine.db.First(&reloaded, "id = ?", need.ID).Error)
	assert.Equal(t, models.NeedStatusActive, reloaded.Status)

	require.NoError(t, engine.db.Model(&models.Need{}).
		Where("id = ?", need.ID).
		Update("status", models.NeedStatusCompleted).Error)
	assert.ErrorIs(t, engine.needs.SetPaused(need.ID, true), apperrors.ErrNeedCompleted)
}

func TestGetNeed_SummarizesRequests(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	project := testutil.CreateTestProject(t, engine.db, "Messiah")
	list, musicians := testutil.SeedRankedList(t, engine.db, "messiah-altos", 3)
	need := testutil.CreateTestNeed(t, engine.db, models.Need{
		ProjectID: project.ID,
		Position:  "Alto",
		ListID:    list.ID,
		Quantity:  2,
		Strategy:  models.NeedStrategyParallel,
	})

	_, err := engine.needs.Dispatch(context.Background(), need.ID)
	require.NoError(t, err)

	var first models.Request
	require.NoError(t, engine.db.First(&first, "need_id = ? AND musician_id = ?", need.ID, musicians[0].ID).Error)
	require.NoError(t, engine.requests.Respond(context.Background(), first.ID, "accepted"))

	response, err := engine.needs.GetNeed(need.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, response.AcceptedCount)
	assert.Equal(t, 1, response.PendingCount)
	assert.Len(t, response.Requests, 2)

	_, err = engine.needs.GetNeed("missing")
	assert.ErrorIs(t, err, apperrors.ErrNeedNotFound)
}
