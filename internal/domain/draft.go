// internal/domain/draft.go
package domain

import (
	"errors"

	"github.com/google/uuid"
)

// --- Validation Error Definitions ---
// These gate promotion from draft to durable entities. Validation never
// mutates a draft; a failing check stops the save with the draft untouched.
var (
	ErrMissingProgramName      = errors.New("please enter a program name")
	ErrMissingWorkout          = errors.New("please add a workout")
	ErrMissingWorkoutName      = errors.New("please enter a workout name")
	ErrMissingExerciseName     = errors.New("please enter an exercise name")
	ErrMissingExerciseSetCount = errors.New("please select the number of exercise sets")
	ErrNegativeSetValue        = errors.New("set reps and weight must not be negative")
)

// ProgramDraft is the transient, storage-independent edit buffer for a new
// program. The ID is an opaque local identifier generated fresh per draft
// instance; it exists purely for stable list diffing and is never reused or
// compared as content. Order of workouts is implied by list position.
type ProgramDraft struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	WorkoutDrafts []WorkoutDraft `json:"workoutDrafts"`
}

// WorkoutDraft is the edit buffer for one workout within a program draft.
type WorkoutDraft struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	ExerciseDrafts []ExerciseDraft `json:"exerciseDrafts"`
}

// ExerciseDraft is the edit buffer for one exercise within a workout draft.
type ExerciseDraft struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SetCount int    `json:"setCount"`
}

// ExerciseLogDraft is the edit buffer for logging one exercise execution.
type ExerciseLogDraft struct {
	ID           string        `json:"id"`
	SetLogDrafts []SetLogDraft `json:"setLogDrafts"`
}

// SetLogDraft is the edit buffer for one performed set.
type SetLogDraft struct {
	ID     string `json:"id"`
	Reps   int    `json:"reps"`
	Weight int    `json:"weight"`
}

// NewProgramDraft returns an empty program draft with a fresh identity.
func NewProgramDraft() ProgramDraft {
	return ProgramDraft{
		ID:            uuid.NewString(),
		Name:          "",
		WorkoutDrafts: []WorkoutDraft{},
	}
}

// NewWorkoutDraft returns a workout draft pre-seeded with three empty
// exercise drafts (a usability default of the "new workout" entry point,
// not a rule).
func NewWorkoutDraft() WorkoutDraft {
	return WorkoutDraft{
		ID:             uuid.NewString(),
		Name:           "",
		ExerciseDrafts: []ExerciseDraft{NewExerciseDraft(), NewExerciseDraft(), NewExerciseDraft()},
	}
}

// NewExerciseDraft returns an empty exercise draft.
func NewExerciseDraft() ExerciseDraft {
	return ExerciseDraft{ID: uuid.NewString(), Name: "", SetCount: 0}
}

// NewSetLogDraft returns an empty set log draft.
func NewSetLogDraft() SetLogDraft {
	return SetLogDraft{ID: uuid.NewString()}
}

// NewExerciseLogDraft returns an empty exercise log draft.
func NewExerciseLogDraft() ExerciseLogDraft {
	return ExerciseLogDraft{ID: uuid.NewString(), SetLogDrafts: []SetLogDraft{}}
}

// Validate checks the rules gating the final program commit.
func (d ProgramDraft) Validate() error {
	if d.Name == "" {
		return ErrMissingProgramName
	}
	if len(d.WorkoutDrafts) == 0 {
		return ErrMissingWorkout
	}
	return nil
}

// IsEmpty reports whether the draft carries no user input yet. An empty
// draft is discarded without confirmation and never mirrored to the resume
// store.
func (d ProgramDraft) IsEmpty() bool {
	return d.Name == "" && len(d.WorkoutDrafts) == 0
}

// Clone returns a deep copy. Drafts are freely mutable by their owning edit
// flow, so anything handing a draft across flow boundaries copies it first.
func (d ProgramDraft) Clone() ProgramDraft {
	out := d
	out.WorkoutDrafts = make([]WorkoutDraft, len(d.WorkoutDrafts))
	for i, wd := range d.WorkoutDrafts {
		out.WorkoutDrafts[i] = wd.Clone()
	}
	return out
}

// Validate checks the rules gating a workout draft's merge into the parent
// program draft.
func (d WorkoutDraft) Validate() error {
	if d.Name == "" {
		return ErrMissingWorkoutName
	}
	for _, exerciseDraft := range d.ExerciseDrafts {
		if exerciseDraft.Name == "" {
			return ErrMissingExerciseName
		}
		if exerciseDraft.SetCount <= 0 {
			return ErrMissingExerciseSetCount
		}
	}
	return nil
}

// Clone returns a deep copy of the workout draft.
func (d WorkoutDraft) Clone() WorkoutDraft {
	out := d
	out.ExerciseDrafts = make([]ExerciseDraft, len(d.ExerciseDrafts))
	copy(out.ExerciseDrafts, d.ExerciseDrafts)
	return out
}

// Validate checks that no performed set carries negative values.
func (d ExerciseLogDraft) Validate() error {
	for _, setLogDraft := range d.SetLogDrafts {
		if setLogDraft.Reps < 0 || setLogDraft.Weight < 0 {
			return ErrNegativeSetValue
		}
	}
	return nil
}
