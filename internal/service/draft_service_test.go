package service

import (
	"alcyxob/gymtrackr/internal/domain"
	"alcyxob/gymtrackr/internal/repository/memory"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validWorkoutDraft(name string) domain.WorkoutDraft {
	draft := domain.NewWorkoutDraft()
	draft.Name = name
	for i := range draft.ExerciseDrafts {
		draft.ExerciseDrafts[i].Name = "Exercise"
		draft.ExerciseDrafts[i].SetCount = 3
	}
	return draft
}

func TestOngoingEmptySlot(t *testing.T) {
	service := NewDraftService(memory.NewDraftStore())
	draft, err := service.Ongoing(context.Background())
	require.NoError(t, err)
	assert.Nil(t, draft)
}

func TestReplaceOngoingStoresAndClears(t *testing.T) {
	service := NewDraftService(memory.NewDraftStore())
	ctx := context.Background()

	draft := domain.NewProgramDraft()
	draft.Name = "Push Pull Legs"
	require.NoError(t, service.ReplaceOngoing(ctx, draft))

	stored, err := service.Ongoing(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Push Pull Legs", stored.Name)

	// An empty draft clears the slot rather than storing noise.
	require.NoError(t, service.ReplaceOngoing(ctx, domain.NewProgramDraft()))
	stored, err = service.Ongoing(ctx)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestDiscardClearsSlot(t *testing.T) {
	service := NewDraftService(memory.NewDraftStore())
	ctx := context.Background()

	draft := domain.NewProgramDraft()
	draft.Name = "Full Body"
	require.NoError(t, service.ReplaceOngoing(ctx, draft))
	require.NoError(t, service.Discard(ctx))

	stored, err := service.Ongoing(ctx)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestSaveWorkoutDraftAppendsToEmptySlot(t *testing.T) {
	service := NewDraftService(memory.NewDraftStore())
	ctx := context.Background()

	merged, err := service.SaveWorkoutDraft(ctx, validWorkoutDraft("Day 1"), nil)
	require.NoError(t, err)
	require.NotNil(t, merged)
	require.Len(t, merged.WorkoutDrafts, 1)
	assert.Equal(t, "Day 1", merged.WorkoutDrafts[0].Name)

	// The merge is persisted, not just returned.
	stored, err := service.Ongoing(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, stored.WorkoutDrafts, 1)
}

func TestSaveWorkoutDraftReplacesAtIndex(t *testing.T) {
	service := NewDraftService(memory.NewDraftStore())
	ctx := context.Background()

	_, err := service.SaveWorkoutDraft(ctx, validWorkoutDraft("Day 1"), nil)
	require.NoError(t, err)
	_, err = service.SaveWorkoutDraft(ctx, validWorkoutDraft("Day 2"), nil)
	require.NoError(t, err)

	index := 0
	merged, err := service.SaveWorkoutDraft(ctx, validWorkoutDraft("Day 1 Revised"), &index)
	require.NoError(t, err)
	require.Len(t, merged.WorkoutDrafts, 2)
	assert.Equal(t, "Day 1 Revised", merged.WorkoutDrafts[0].Name)
	assert.Equal(t, "Day 2", merged.WorkoutDrafts[1].Name)
}

func TestSaveWorkoutDraftIndexOutOfRange(t *testing.T) {
	service := NewDraftService(memory.NewDraftStore())
	ctx := context.Background()

	_, err := service.SaveWorkoutDraft(ctx, validWorkoutDraft("Day 1"), nil)
	require.NoError(t, err)

	index := 5
	_, err = service.SaveWorkoutDraft(ctx, validWorkoutDraft("Day 6"), &index)
	assert.ErrorIs(t, err, ErrWorkoutDraftIndex)

	// The failed merge left the slot exactly as it was.
	stored, err := service.Ongoing(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Len(t, stored.WorkoutDrafts, 1)
	assert.Equal(t, "Day 1", stored.WorkoutDrafts[0].Name)
}

func TestSaveWorkoutDraftValidationGates(t *testing.T) {
	store := memory.NewDraftStore()
	service := NewDraftService(store)
	ctx := context.Background()

	unnamed := domain.NewWorkoutDraft()
	_, err := service.SaveWorkoutDraft(ctx, unnamed, nil)
	assert.ErrorIs(t, err, domain.ErrMissingWorkoutName)

	blankExercise := domain.NewWorkoutDraft()
	blankExercise.Name = "Day 1"
	_, err = service.SaveWorkoutDraft(ctx, blankExercise, nil)
	assert.ErrorIs(t, err, domain.ErrMissingExerciseName)

	noSets := validWorkoutDraft("Day 1")
	noSets.ExerciseDrafts[1].SetCount = 0
	_, err = service.SaveWorkoutDraft(ctx, noSets, nil)
	assert.ErrorIs(t, err, domain.ErrMissingExerciseSetCount)

	stored, err := service.Ongoing(ctx)
	require.NoError(t, err)
	assert.Nil(t, stored, "failed validation never touches the slot")
}

// contendedDraftStore re-runs the update closure against a fresh value, the
// way the Redis store retries after losing an optimistic transaction to a
// concurrent writer. Only the final attempt's result is stored.
type contendedDraftStore struct {
	stale  *domain.ProgramDraft
	fresh  *domain.ProgramDraft
	stored *domain.ProgramDraft
}

func (s *contendedDraftStore) Get(ctx context.Context) (*domain.ProgramDraft, error) {
	return s.stored, nil
}

func (s *contendedDraftStore) Set(ctx context.Context, draft *domain.ProgramDraft) error {
	s.stored = draft
	return nil
}

func (s *contendedDraftStore) Update(ctx context.Context, fn func(current *domain.ProgramDraft) *domain.ProgramDraft) error {
	fn(s.stale) // first attempt, lost to a concurrent writer
	s.stored = fn(s.fresh)
	return nil
}

func (s *contendedDraftStore) Watch(ctx context.Context) (<-chan *domain.ProgramDraft, error) {
	return nil, nil
}

func TestSaveWorkoutDraftRetryDiscardsStaleAttempt(t *testing.T) {
	// The first attempt sees a one-workout draft where index 1 is out of
	// range; the retry sees two workouts and merges cleanly. The stale
	// attempt's failure must not survive into the reported outcome.
	stale := domain.NewProgramDraft()
	stale.Name = "Program"
	stale.WorkoutDrafts = []domain.WorkoutDraft{validWorkoutDraft("Day 1")}

	fresh := stale.Clone()
	fresh.WorkoutDrafts = append(fresh.WorkoutDrafts, validWorkoutDraft("Day 2"))

	store := &contendedDraftStore{stale: &stale, fresh: &fresh}
	service := NewDraftService(store)

	index := 1
	merged, err := service.SaveWorkoutDraft(context.Background(), validWorkoutDraft("Day 2 Revised"), &index)
	require.NoError(t, err)
	require.NotNil(t, merged)
	require.Len(t, merged.WorkoutDrafts, 2)
	assert.Equal(t, "Day 2 Revised", merged.WorkoutDrafts[1].Name)

	// The reported outcome matches what was durably stored.
	require.NotNil(t, store.stored)
	require.Len(t, store.stored.WorkoutDrafts, 2)
	assert.Equal(t, "Day 2 Revised", store.stored.WorkoutDrafts[1].Name)
}

func TestWatchOngoingDeliversMerges(t *testing.T) {
	service := NewDraftService(memory.NewDraftStore())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := service.WatchOngoing(ctx)
	require.NoError(t, err)

	_, err = service.SaveWorkoutDraft(context.Background(), validWorkoutDraft("Day 1"), nil)
	require.NoError(t, err)

	select {
	case draft := <-changes:
		require.NotNil(t, draft)
		assert.Len(t, draft.WorkoutDrafts, 1)
	case <-time.After(time.Second):
		t.Fatal("expected the merged draft on the watch channel")
	}
}
