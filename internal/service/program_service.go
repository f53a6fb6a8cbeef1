package service

import (
	"alcyxob/gymtrackr/internal/domain"
	"alcyxob/gymtrackr/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrProgramNotFound = errors.New("program not found")
	ErrNoOngoingDraft  = errors.New("no ongoing program draft to save")
)

// --- Service Interface ---

// ProgramService is the write/read surface over durable programs: the
// commit engine entry point plus the live projection.
type ProgramService interface {
	// SaveProgram validates the draft and commits it atomically into the
	// durable graph, then clears the resume slot. When draft is nil the
	// ongoing draft from the resume slot is saved. Validation and storage
	// failures leave both the store and the draft slot untouched, so the
	// user can fix or retry.
	SaveProgram(ctx context.Context, draft *domain.ProgramDraft) (*domain.ProgramDetail, error)
	// CurrentProgram returns the most recently updated program's projection,
	// or nil when no program exists.
	CurrentProgram(ctx context.Context) (*domain.ProgramDetail, error)
	GetProgram(ctx context.Context, id primitive.ObjectID) (*domain.ProgramDetail, error)
	ListPrograms(ctx context.Context) ([]domain.Program, error)
	RenameProgram(ctx context.Context, id primitive.ObjectID, name string) (*domain.Program, error)
	DeleteProgram(ctx context.Context, id primitive.ObjectID) error
	// WatchPrograms emits a full, freshly recomputed snapshot of the ordered
	// program list on every underlying change (and once immediately). There
	// is no incremental update contract.
	WatchPrograms(ctx context.Context) (<-chan []domain.ProgramDetail, error)
}

// --- Service Implementation ---

type programService struct {
	programRepo repository.ProgramRepository
	draftStore  repository.DraftStore
}

// NewProgramService creates a new instance of programService.
func NewProgramService(programRepo repository.ProgramRepository, draftStore repository.DraftStore) ProgramService {
	return &programService{
		programRepo: programRepo,
		draftStore:  draftStore,
	}
}

func (s *programService) SaveProgram(ctx context.Context, draft *domain.ProgramDraft) (*domain.ProgramDetail, error) {
	if draft == nil {
		ongoing, err := s.draftStore.Get(ctx)
		if err != nil {
			return nil, err
		}
		if ongoing == nil {
			return nil, ErrNoOngoingDraft
		}
		draft = ongoing
	}

	// Validation short-circuits before any write is attempted.
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	programID, err := s.programRepo.CreateGraph(ctx, buildProgramDetail(draft))
	if err != nil {
		// The draft stays in the slot; retries are user-initiated.
		return nil, err
	}

	// Commit succeeded: the resume slot is done with this draft. The commit
	// itself never touches the slot; clearing is this caller's job.
	if err := s.draftStore.Set(ctx, nil); err != nil {
		return nil, err
	}

	return s.programRepo.GetDetailByID(ctx, programID)
}

// buildProgramDetail translates a validated draft into the commit input.
// Order is implied by list position; the repository assigns the indices,
// identities and timestamps.
func buildProgramDetail(draft *domain.ProgramDraft) *domain.ProgramDetail {
	detail := &domain.ProgramDetail{
		Program:  domain.Program{Name: draft.Name},
		Workouts: make([]domain.WorkoutDetail, 0, len(draft.WorkoutDrafts)),
	}
	for _, workoutDraft := range draft.WorkoutDrafts {
		workoutDetail := domain.WorkoutDetail{
			Workout:   domain.Workout{Name: workoutDraft.Name},
			Exercises: make([]domain.Exercise, 0, len(workoutDraft.ExerciseDrafts)),
		}
		for _, exerciseDraft := range workoutDraft.ExerciseDrafts {
			workoutDetail.Exercises = append(workoutDetail.Exercises, domain.Exercise{
				Name:     exerciseDraft.Name,
				SetCount: exerciseDraft.SetCount,
			})
		}
		detail.Workouts = append(detail.Workouts, workoutDetail)
	}
	return detail
}

func (s *programService) CurrentProgram(ctx context.Context) (*domain.ProgramDetail, error) {
	programs, err := s.programRepo.GetAllByUpdateDate(ctx)
	if err != nil {
		return nil, err
	}
	if len(programs) == 0 {
		return nil, nil
	}
	return s.programRepo.GetDetailByID(ctx, programs[0].ID)
}

func (s *programService) GetProgram(ctx context.Context, id primitive.ObjectID) (*domain.ProgramDetail, error) {
	detail, err := s.programRepo.GetDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return detail, nil
}

func (s *programService) ListPrograms(ctx context.Context) ([]domain.Program, error) {
	return s.programRepo.GetAllByUpdateDate(ctx)
}

func (s *programService) RenameProgram(ctx context.Context, id primitive.ObjectID, name string) (*domain.Program, error) {
	if name == "" {
		return nil, domain.ErrMissingProgramName
	}
	if err := s.programRepo.UpdateName(ctx, id, name); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return s.programRepo.GetByID(ctx, id)
}

func (s *programService) DeleteProgram(ctx context.Context, id primitive.ObjectID) error {
	err := s.programRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProgramNotFound
	}
	return err
}

func (s *programService) WatchPrograms(ctx context.Context) (<-chan []domain.ProgramDetail, error) {
	ticks, err := s.programRepo.Watch(ctx)
	if err != nil {
		return nil, err
	}

	snapshots := make(chan []domain.ProgramDetail)
	go func() {
		defer close(snapshots)

		send := func() bool {
			snapshot, err := s.programRepo.GetAllDetailsByUpdateDate(ctx)
			if err != nil {
				return ctx.Err() == nil // transient read failure: keep watching
			}
			select {
			case snapshots <- snapshot:
				return true
			case <-ctx.Done():
				return false
			}
		}

		// Initial snapshot so subscribers render without waiting for a change.
		if !send() {
			return
		}
		for range ticks {
			if !send() {
				return
			}
		}
	}()
	return snapshots, nil
}
