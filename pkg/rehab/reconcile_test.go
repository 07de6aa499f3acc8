package rehab_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvheritagevv/Knee-Rehab/pkg/rehab"
)

func smallTemplate() rehab.Template {
	return rehab.Template{Phases: []rehab.Phase{
		{ID: "p1", Name: "Phase 1: Start", Exercises: []rehab.ExerciseSpec{
			{ID: "pumps", Name: "Ankle pumps", Sets: 1, Reps: 25},
			{ID: "hold", Name: "Extension hold", Sets: 1, Reps: 1, TimerSec: 180},
		}},
		{ID: "p2", Name: "Phase 2: More", Exercises: []rehab.ExerciseSpec{
			{ID: "bike", Name: "Bike", Sets: 1, Reps: 1, TimerSec: 600},
		}},
	}}
}

func TestMaterializeNewLog(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	log := rehab.MaterializeLog(smallTemplate(), "p1", "2024-01-07", nil)

	assert.Equal("2024-01-07", log.Date)
	assert.Equal("p1", log.PhaseID)
	assert.False(log.Pain.IsSet())
	assert.Equal(rehab.SwellingNone, log.Swelling)
	assert.Equal("", log.Notes)
	assert.Equal(map[string]rehab.ExerciseEntry{
		"pumps": {Sets: 1, Reps: 25},
		"hold":  {Sets: 1, Reps: 1, TimerSec: 180},
	}, log.Exercises)
}

func TestMaterializeUnknownPhaseFallsBack(t *testing.T) {
	t.Parallel()

	log := rehab.MaterializeLog(smallTemplate(), "gone", "2024-01-07", nil)

	assert.Equal(t, "gone", log.PhaseID)
	assert.Len(t, log.Exercises, 2)
	assert.Contains(t, log.Exercises, "pumps")
}

func TestMaterializeIsAdditive(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	existing := rehab.DailyLog{
		Date:     "2024-01-07",
		PhaseID:  "p1",
		Pain:     rehab.PainOf(3),
		Swelling: rehab.SwellingMild,
		Notes:    "sore",
		Exercises: map[string]rehab.ExerciseEntry{
			"pumps":   {Done: true, Sets: 2, Reps: 30},
			"retired": {Done: true, Sets: 4, Reps: 4},
		},
	}

	log := rehab.MaterializeLog(smallTemplate(), "p1", existing.Date, &existing)

	for id, entry := range existing.Exercises {
		assert.Equal(entry, log.Exercises[id], id)
	}

	assert.Equal(rehab.ExerciseEntry{Sets: 1, Reps: 1, TimerSec: 180}, log.Exercises["hold"])
	assert.Len(log.Exercises, 3)
	assert.Equal(existing.Pain, log.Pain)
	assert.Equal("sore", log.Notes)
}

func TestMaterializeDoesNotAlias(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	existing := rehab.DailyLog{
		Date:      "2024-01-07",
		PhaseID:   "p1",
		Exercises: map[string]rehab.ExerciseEntry{"pumps": {Sets: 1}},
	}

	log := rehab.MaterializeLog(smallTemplate(), "p1", existing.Date, &existing)
	log.Exercises["pumps"] = rehab.ExerciseEntry{Done: true}
	log.Notes = "edited"

	assert.Len(existing.Exercises, 1)
	assert.Equal(rehab.ExerciseEntry{Sets: 1}, existing.Exercises["pumps"])
	assert.Equal("", existing.Notes)
}

func TestMaterializeIdempotent(t *testing.T) {
	t.Parallel()

	tpl := smallTemplate()
	once := rehab.MaterializeLog(tpl, "p2", "2024-01-07", nil)
	twice := rehab.MaterializeLog(tpl, "p2", once.Date, &once)

	assert.Equal(t, once, twice)
}

func TestMaterializeAfterPhaseChange(t *testing.T) {
	t.Parallel()

	tpl := smallTemplate()
	first := rehab.MaterializeLog(tpl, "p1", "2024-01-07", nil)
	second := rehab.MaterializeLog(tpl, "p2", first.Date, &first)

	assert.Len(t, second.Exercises, 3)
	assert.Equal(t, "p1", second.PhaseID)
}

func TestCommit(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	collection := rehab.Collection{}
	draft := rehab.MaterializeLog(smallTemplate(), "p1", "2024-01-07", nil)
	draft.Pain = rehab.PainOf(10)

	updated, err := rehab.Commit(collection, draft)
	require.NoError(t, err)

	assert.Empty(collection)
	assert.Equal(draft, updated["2024-01-07"])

	draft.Exercises["pumps"] = rehab.ExerciseEntry{Done: true}
	assert.False(updated["2024-01-07"].Exercises["pumps"].Done)
}

func TestCommitOverwrites(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	draft := rehab.MaterializeLog(smallTemplate(), "p1", "2024-01-07", nil)
	collection, err := rehab.Commit(rehab.Collection{}, draft)
	require.NoError(t, err)

	draft.Notes = "second save"
	collection, err = rehab.Commit(collection, draft)
	require.NoError(t, err)

	assert.Len(collection, 1)
	assert.Equal("second save", collection["2024-01-07"].Notes)
}

func TestCommitRejectsPain(t *testing.T) {
	t.Parallel()

	for _, pain := range []int{-1, 11, 100} {
		pain := pain

		t.Run("", func(t *testing.T) {
			t.Parallel()

			assert := assert.New(t)

			existing := rehab.MaterializeLog(smallTemplate(), "p1", "2024-01-06", nil)
			collection := rehab.Collection{existing.Date: existing}

			draft := rehab.MaterializeLog(smallTemplate(), "p1", "2024-01-07", nil)
			draft.Pain = rehab.PainOf(pain)

			updated, err := rehab.Commit(collection, draft)
			assert.True(errors.Is(err, rehab.ErrValidation))
			assert.Equal(collection, updated)
			assert.Len(collection, 1)
			assert.NotContains(collection, "2024-01-07")
		})
	}
}

func TestCommitAcceptsUnsetAndBounds(t *testing.T) {
	t.Parallel()

	for _, pain := range []rehab.Pain{{}, rehab.PainOf(0), rehab.PainOf(10)} {
		draft := rehab.MaterializeLog(smallTemplate(), "p1", "2024-01-07", nil)
		draft.Pain = pain

		_, err := rehab.Commit(rehab.Collection{}, draft)
		assert.NoError(t, err)
	}
}

func TestCommitSwelling(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	draft := rehab.MaterializeLog(smallTemplate(), "p1", "2024-01-07", nil)
	draft.Swelling = ""

	collection, err := rehab.Commit(rehab.Collection{}, draft)
	require.NoError(t, err)
	assert.Equal(rehab.SwellingNone, collection["2024-01-07"].Swelling)

	draft.Swelling = "huge"
	_, err = rehab.Commit(collection, draft)
	assert.EqualError(err, `invalid swelling: unknown severity "huge"`)
}

func TestCommitRejectsBadDate(t *testing.T) {
	t.Parallel()

	draft := rehab.MaterializeLog(smallTemplate(), "p1", "07/01/2024", nil)

	_, err := rehab.Commit(rehab.Collection{}, draft)
	assert.True(t, errors.Is(err, rehab.ErrValidation))
}

func TestSortedDates(t *testing.T) {
	t.Parallel()

	collection := rehab.Collection{"2024-01-10": {}, "2023-12-31": {}, "2024-01-02": {}}

	assert.Equal(t, []string{"2023-12-31", "2024-01-02", "2024-01-10"}, collection.SortedDates())
}
