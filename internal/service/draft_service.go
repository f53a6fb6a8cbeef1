package service

import (
	"alcyxob/gymtrackr/internal/domain"
	"alcyxob/gymtrackr/internal/repository"
	"context"
	"errors"
)

// --- Error Definitions ---
var (
	ErrWorkoutDraftIndex = errors.New("workout draft index out of range")
)

// --- Service Interface ---

// DraftService owns the ongoing-draft lifecycle: the single resume slot that
// lets an in-progress program edit survive navigation and interruption, and
// the workout sub-draft save that merges back into it.
type DraftService interface {
	// Ongoing returns the resumable draft, or nil when none exists.
	Ongoing(ctx context.Context) (*domain.ProgramDraft, error)
	// ReplaceOngoing mirrors the edit flow's current draft into the slot
	// (the caller debounces; every call here is a full write). An empty
	// draft clears the slot instead of storing noise.
	ReplaceOngoing(ctx context.Context, draft domain.ProgramDraft) error
	// Discard clears the slot (user cancelled with confirmation).
	Discard(ctx context.Context) error
	// SaveWorkoutDraft validates a workout sub-draft and merges it into the
	// ongoing program draft: replacing at index when given, appending
	// otherwise. The merge is one atomic read-modify-write on the slot, so a
	// concurrently editing program flow can never be overwritten unseen.
	// On validation failure nothing is mutated.
	SaveWorkoutDraft(ctx context.Context, workoutDraft domain.WorkoutDraft, index *int) (*domain.ProgramDraft, error)
	// WatchOngoing delivers every slot change (nil for cleared).
	WatchOngoing(ctx context.Context) (<-chan *domain.ProgramDraft, error)
}

// --- Service Implementation ---

type draftService struct {
	draftStore repository.DraftStore
}

// NewDraftService creates a new instance of draftService.
func NewDraftService(draftStore repository.DraftStore) DraftService {
	return &draftService{draftStore: draftStore}
}

func (s *draftService) Ongoing(ctx context.Context) (*domain.ProgramDraft, error) {
	return s.draftStore.Get(ctx)
}

func (s *draftService) ReplaceOngoing(ctx context.Context, draft domain.ProgramDraft) error {
	if draft.IsEmpty() {
		return s.draftStore.Set(ctx, nil)
	}
	stored := draft.Clone()
	return s.draftStore.Set(ctx, &stored)
}

func (s *draftService) Discard(ctx context.Context) error {
	return s.draftStore.Set(ctx, nil)
}

func (s *draftService) SaveWorkoutDraft(ctx context.Context, workoutDraft domain.WorkoutDraft, index *int) (*domain.ProgramDraft, error) {
	if err := workoutDraft.Validate(); err != nil {
		return nil, err
	}

	var merged *domain.ProgramDraft
	var indexErr error
	err := s.draftStore.Update(ctx, func(current *domain.ProgramDraft) *domain.ProgramDraft {
		// The store may re-run this closure against a fresh value on write
		// contention; every attempt starts from a clean outcome so a stale
		// attempt's result cannot leak into the final one.
		merged = nil
		indexErr = nil

		var draft domain.ProgramDraft
		if current != nil {
			draft = current.Clone()
		} else {
			// No ongoing draft yet: the workout starts a fresh one.
			draft = domain.NewProgramDraft()
		}

		if index != nil {
			if *index < 0 || *index >= len(draft.WorkoutDrafts) {
				indexErr = ErrWorkoutDraftIndex
				// Writing current back is a value-level no-op: the slot keeps
				// exactly the content it had. Watchers see at most a duplicate
				// of the value they already hold.
				return current
			}
			draft.WorkoutDrafts[*index] = workoutDraft.Clone()
		} else {
			draft.WorkoutDrafts = append(draft.WorkoutDrafts, workoutDraft.Clone())
		}
		merged = &draft
		return &draft
	})
	if err != nil {
		return nil, err
	}
	if indexErr != nil {
		return nil, indexErr
	}
	return merged, nil
}

func (s *draftService) WatchOngoing(ctx context.Context) (<-chan *domain.ProgramDraft, error) {
	return s.draftStore.Watch(ctx)
}
