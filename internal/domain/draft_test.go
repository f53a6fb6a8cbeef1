package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProgramDraftIsEmptyWithFreshID(t *testing.T) {
	first := NewProgramDraft()
	second := NewProgramDraft()

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, first.IsEmpty())
	assert.Empty(t, first.WorkoutDrafts)
}

func TestNewWorkoutDraftSeedsThreeExerciseDrafts(t *testing.T) {
	draft := NewWorkoutDraft()

	require.Len(t, draft.ExerciseDrafts, 3)
	seen := map[string]bool{}
	for _, exerciseDraft := range draft.ExerciseDrafts {
		assert.Empty(t, exerciseDraft.Name)
		assert.Zero(t, exerciseDraft.SetCount)
		assert.False(t, seen[exerciseDraft.ID], "exercise draft IDs must be distinct")
		seen[exerciseDraft.ID] = true
	}
}

func TestProgramDraftValidate(t *testing.T) {
	draft := NewProgramDraft()
	assert.ErrorIs(t, draft.Validate(), ErrMissingProgramName)

	draft.Name = "4-Day Program"
	assert.ErrorIs(t, draft.Validate(), ErrMissingWorkout)

	workout := NewWorkoutDraft()
	workout.Name = "Day 1"
	draft.WorkoutDrafts = append(draft.WorkoutDrafts, workout)
	assert.NoError(t, draft.Validate())
}

func TestWorkoutDraftValidate(t *testing.T) {
	draft := NewWorkoutDraft()
	assert.ErrorIs(t, draft.Validate(), ErrMissingWorkoutName)

	draft.Name = "Day 1 - Chest & Abs"
	// The three pre-seeded exercise drafts are still blank.
	assert.ErrorIs(t, draft.Validate(), ErrMissingExerciseName)

	for i := range draft.ExerciseDrafts {
		draft.ExerciseDrafts[i].Name = "Bench Press"
	}
	assert.ErrorIs(t, draft.Validate(), ErrMissingExerciseSetCount)

	for i := range draft.ExerciseDrafts {
		draft.ExerciseDrafts[i].SetCount = 4
	}
	assert.NoError(t, draft.Validate())

	// A workout with no exercises at all is fine.
	empty := WorkoutDraft{ID: "w", Name: "Rest Day", ExerciseDrafts: []ExerciseDraft{}}
	assert.NoError(t, empty.Validate())
}

func TestExerciseLogDraftValidate(t *testing.T) {
	draft := NewExerciseLogDraft()
	assert.NoError(t, draft.Validate(), "no sets logged is valid")

	draft.SetLogDrafts = append(draft.SetLogDrafts, SetLogDraft{Reps: 8, Weight: 60})
	assert.NoError(t, draft.Validate())

	draft.SetLogDrafts = append(draft.SetLogDrafts, SetLogDraft{Reps: -1, Weight: 60})
	assert.ErrorIs(t, draft.Validate(), ErrNegativeSetValue)
}

func TestProgramDraftIsEmpty(t *testing.T) {
	draft := NewProgramDraft()
	assert.True(t, draft.IsEmpty())

	named := draft
	named.Name = "Push Pull Legs"
	assert.False(t, named.IsEmpty())

	withWorkout := draft
	withWorkout.WorkoutDrafts = []WorkoutDraft{NewWorkoutDraft()}
	assert.False(t, withWorkout.IsEmpty())
}

func TestProgramDraftCloneIsDeep(t *testing.T) {
	draft := NewProgramDraft()
	draft.Name = "Original"
	workout := NewWorkoutDraft()
	workout.Name = "Day 1"
	workout.ExerciseDrafts[0].Name = "Squat"
	draft.WorkoutDrafts = append(draft.WorkoutDrafts, workout)

	cloned := draft.Clone()
	cloned.WorkoutDrafts[0].Name = "Mutated"
	cloned.WorkoutDrafts[0].ExerciseDrafts[0].Name = "Mutated"

	assert.Equal(t, "Day 1", draft.WorkoutDrafts[0].Name)
	assert.Equal(t, "Squat", draft.WorkoutDrafts[0].ExerciseDrafts[0].Name)
}
