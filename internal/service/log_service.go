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
	ErrWorkoutNotFound     = errors.New("workout not found")
	ErrExerciseLogMismatch = errors.New("one exercise log per workout exercise is required, in workout order")
)

// --- Service Interface ---

// LogService records executed workout sessions against the program
// structure. The commit follows the same pattern as the program save: one
// atomic write, set order assigned from draft list position.
type LogService interface {
	// LogWorkout validates the drafts and commits one WorkoutLog with an
	// ExerciseLog per exercise of the workout (drafts paired to exercises by
	// position) and SetLogs ordered by draft position.
	LogWorkout(ctx context.Context, workoutID primitive.ObjectID, drafts []domain.ExerciseLogDraft) (*domain.WorkoutLogDetail, error)
	// WorkoutLogs returns all logged sessions of a workout, newest first.
	WorkoutLogs(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutLogDetail, error)
}

// --- Service Implementation ---

type logService struct {
	programRepo    repository.ProgramRepository
	workoutLogRepo repository.WorkoutLogRepository
}

// NewLogService creates a new instance of logService.
func NewLogService(programRepo repository.ProgramRepository, workoutLogRepo repository.WorkoutLogRepository) LogService {
	return &logService{
		programRepo:    programRepo,
		workoutLogRepo: workoutLogRepo,
	}
}

func (s *logService) LogWorkout(ctx context.Context, workoutID primitive.ObjectID, drafts []domain.ExerciseLogDraft) (*domain.WorkoutLogDetail, error) {
	for _, draft := range drafts {
		if err := draft.Validate(); err != nil {
			return nil, err
		}
	}

	workoutDetail, err := s.programRepo.GetWorkoutDetail(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if len(drafts) != len(workoutDetail.Exercises) {
		return nil, ErrExerciseLogMismatch
	}

	detail := &domain.WorkoutLogDetail{
		WorkoutLog:   domain.WorkoutLog{WorkoutID: workoutID},
		ExerciseLogs: make([]domain.ExerciseLogDetail, 0, len(drafts)),
	}
	for draftIndex, draft := range drafts {
		exerciseLogDetail := domain.ExerciseLogDetail{
			ExerciseLog: domain.ExerciseLog{ExerciseID: workoutDetail.Exercises[draftIndex].ID},
			SetLogs:     make([]domain.SetLog, 0, len(draft.SetLogDrafts)),
		}
		for _, setLogDraft := range draft.SetLogDrafts {
			exerciseLogDetail.SetLogs = append(exerciseLogDetail.SetLogs, domain.SetLog{
				Reps:   setLogDraft.Reps,
				Weight: setLogDraft.Weight,
			})
		}
		detail.ExerciseLogs = append(detail.ExerciseLogs, exerciseLogDetail)
	}

	workoutLogID, err := s.workoutLogRepo.CreateGraph(ctx, detail)
	if err != nil {
		return nil, err
	}

	logs, err := s.workoutLogRepo.GetByWorkoutID(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	for i := range logs {
		if logs[i].WorkoutLog.ID == workoutLogID {
			return &logs[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *logService) WorkoutLogs(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutLogDetail, error) {
	if _, err := s.programRepo.GetWorkoutDetail(ctx, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return s.workoutLogRepo.GetByWorkoutID(ctx, workoutID)
}
