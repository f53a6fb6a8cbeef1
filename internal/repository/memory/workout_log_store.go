// internal/repository/memory/workout_log_store.go
package memory

import (
	"alcyxob/gymtrackr/internal/domain"
	"alcyxob/gymtrackr/internal/repository"
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutLogStore implements repository.WorkoutLogRepository over the same
// arena as Store, so program commits and log commits see one graph.
type WorkoutLogStore struct {
	store *Store
}

// NewWorkoutLogStore creates the log-side view of an in-memory store.
func NewWorkoutLogStore(store *Store) *WorkoutLogStore {
	return &WorkoutLogStore{store: store}
}

// CreateGraph persists a logged session subtree atomically and refreshes the
// owning program's updateDate, matching the Mongo repository.
func (s *WorkoutLogStore) CreateGraph(ctx context.Context, detail *domain.WorkoutLogDetail) (primitive.ObjectID, error) {
	if detail == nil || detail.WorkoutLog.WorkoutID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("workout log requires a workoutId")
	}

	arena := s.store
	arena.mu.Lock()
	workout, ok := arena.workouts[detail.WorkoutLog.WorkoutID]
	if !ok {
		arena.mu.Unlock()
		return primitive.NilObjectID, repository.ErrNotFound
	}

	now := time.Now().UTC()
	workoutLog := detail.WorkoutLog
	workoutLog.ID = primitive.NewObjectID()
	workoutLog.CreationDate = now
	arena.workoutLogs[workoutLog.ID] = workoutLog

	for _, exerciseLogDetail := range detail.ExerciseLogs {
		exerciseLog := exerciseLogDetail.ExerciseLog
		exerciseLog.ID = primitive.NewObjectID()
		exerciseLog.WorkoutLogID = workoutLog.ID
		arena.exerciseLogs[exerciseLog.ID] = exerciseLog

		for setLogIndex := range exerciseLogDetail.SetLogs {
			setLog := exerciseLogDetail.SetLogs[setLogIndex]
			setLog.ID = primitive.NewObjectID()
			setLog.ExerciseLogID = exerciseLog.ID
			setLog.Order = setLogIndex
			arena.setLogs[setLog.ID] = setLog
		}
	}

	// Subtree mutation refreshes the owning program's updateDate.
	if program, ok := arena.programs[workout.ProgramID]; ok {
		program.UpdateDate = now
		arena.programs[program.ID] = program
	}
	arena.mu.Unlock()

	arena.notify()
	return workoutLog.ID, nil
}

// GetByWorkoutID retrieves all logged sessions of a workout, newest first.
func (s *WorkoutLogStore) GetByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutLogDetail, error) {
	arena := s.store
	arena.mu.RLock()
	defer arena.mu.RUnlock()

	details := []domain.WorkoutLogDetail{}
	for _, workoutLog := range arena.workoutLogs {
		if workoutLog.WorkoutID != workoutID {
			continue
		}
		// Exercise logs are created in workout-exercise order with monotonic
		// IDs, so ID order recovers the pairing.
		exerciseLogs := []domain.ExerciseLog{}
		for _, exerciseLog := range arena.exerciseLogs {
			if exerciseLog.WorkoutLogID == workoutLog.ID {
				exerciseLogs = append(exerciseLogs, exerciseLog)
			}
		}
		sort.Slice(exerciseLogs, func(i, j int) bool {
			return exerciseLogs[i].ID.Hex() < exerciseLogs[j].ID.Hex()
		})

		detail := domain.WorkoutLogDetail{WorkoutLog: workoutLog, ExerciseLogs: []domain.ExerciseLogDetail{}}
		for _, exerciseLog := range exerciseLogs {
			setLogs := []domain.SetLog{}
			for _, setLog := range arena.setLogs {
				if setLog.ExerciseLogID == exerciseLog.ID {
					setLogs = append(setLogs, setLog)
				}
			}
			sort.Slice(setLogs, func(i, j int) bool { return setLogs[i].Order < setLogs[j].Order })
			detail.ExerciseLogs = append(detail.ExerciseLogs, domain.ExerciseLogDetail{
				ExerciseLog: exerciseLog,
				SetLogs:     setLogs,
			})
		}
		details = append(details, detail)
	}
	sort.Slice(details, func(i, j int) bool {
		return details[i].WorkoutLog.CreationDate.After(details[j].WorkoutLog.CreationDate)
	})
	return details, nil
}
