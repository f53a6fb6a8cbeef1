package memory

import (
	"alcyxob/gymtrackr/internal/domain"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftStoreGetAbsentSlot(t *testing.T) {
	store := NewDraftStore()
	draft, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, draft)
}

func TestDraftStoreRoundTrip(t *testing.T) {
	store := NewDraftStore()
	ctx := context.Background()

	draft := domain.NewProgramDraft()
	draft.Name = "Push Pull Legs"
	require.NoError(t, store.Set(ctx, &draft))

	stored, err := store.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, draft.ID, stored.ID)
	assert.Equal(t, "Push Pull Legs", stored.Name)

	// The stored copy is independent of the caller's draft.
	draft.Name = "Mutated"
	stored, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Push Pull Legs", stored.Name)

	require.NoError(t, store.Set(ctx, nil))
	stored, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestDraftStoreWatchDeliversChanges(t *testing.T) {
	store := NewDraftStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := store.Watch(ctx)
	require.NoError(t, err)

	draft := domain.NewProgramDraft()
	draft.Name = "Upper Lower"
	require.NoError(t, store.Set(context.Background(), &draft))
	require.NoError(t, store.Set(context.Background(), nil))

	select {
	case received := <-changes:
		require.NotNil(t, received)
		assert.Equal(t, "Upper Lower", received.Name)
	case <-time.After(time.Second):
		t.Fatal("expected the stored draft on the watch channel")
	}
	select {
	case received := <-changes:
		assert.Nil(t, received, "clearing the slot delivers nil")
	case <-time.After(time.Second):
		t.Fatal("expected the cleared slot on the watch channel")
	}
}

func TestDraftStoreUpdateIsAtomic(t *testing.T) {
	store := NewDraftStore()
	ctx := context.Background()

	initial := domain.NewProgramDraft()
	initial.Name = "Program"
	require.NoError(t, store.Set(ctx, &initial))

	// Concurrent appenders; every appended workout must survive.
	const writers = 20
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			_ = store.Update(ctx, func(current *domain.ProgramDraft) *domain.ProgramDraft {
				draft := current.Clone()
				workout := domain.NewWorkoutDraft()
				workout.Name = "Workout"
				draft.WorkoutDrafts = append(draft.WorkoutDrafts, workout)
				return &draft
			})
		}()
	}
	wg.Wait()

	stored, err := store.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, stored.WorkoutDrafts, writers)
}
