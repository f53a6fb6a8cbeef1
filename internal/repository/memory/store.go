// internal/repository/memory/store.go
//
// In-memory implementation of the durable store, mirroring the Mongo
// implementation's semantics exactly: transactional graph commits, derived
// timestamp stamping, cascade deletes and change notification. Used by tests
// and available as a throwaway backend.
package memory

import (
	"alcyxob/gymtrackr/internal/domain"
	"alcyxob/gymtrackr/internal/repository"
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds the whole entity graph in arena-style maps keyed by generated
// identity, with explicit parent-id fields on the records. It implements
// both repository.ProgramRepository and repository.WorkoutLogRepository.
type Store struct {
	mu           sync.RWMutex
	programs     map[primitive.ObjectID]domain.Program
	workouts     map[primitive.ObjectID]domain.Workout
	exercises    map[primitive.ObjectID]domain.Exercise
	workoutLogs  map[primitive.ObjectID]domain.WorkoutLog
	exerciseLogs map[primitive.ObjectID]domain.ExerciseLog
	setLogs      map[primitive.ObjectID]domain.SetLog

	watchersMu sync.Mutex
	watchers   map[int]chan struct{}
	nextWatch  int
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		programs:     make(map[primitive.ObjectID]domain.Program),
		workouts:     make(map[primitive.ObjectID]domain.Workout),
		exercises:    make(map[primitive.ObjectID]domain.Exercise),
		workoutLogs:  make(map[primitive.ObjectID]domain.WorkoutLog),
		exerciseLogs: make(map[primitive.ObjectID]domain.ExerciseLog),
		setLogs:      make(map[primitive.ObjectID]domain.SetLog),
		watchers:     make(map[int]chan struct{}),
	}
}

// CreateGraph persists a full program subtree atomically under one lock.
// Order indices come from slice position, identical to the Mongo repo.
func (s *Store) CreateGraph(ctx context.Context, detail *domain.ProgramDetail) (primitive.ObjectID, error) {
	if detail == nil || detail.Program.Name == "" {
		return primitive.NilObjectID, errors.New("program requires a name")
	}

	s.mu.Lock()
	now := time.Now().UTC()
	program := detail.Program
	program.ID = primitive.NewObjectID()
	program.CreationDate = now
	program.UpdateDate = now
	s.programs[program.ID] = program

	for workoutIndex := range detail.Workouts {
		workout := detail.Workouts[workoutIndex].Workout
		workout.ID = primitive.NewObjectID()
		workout.ProgramID = program.ID
		workout.Order = workoutIndex
		s.workouts[workout.ID] = workout

		for exerciseIndex := range detail.Workouts[workoutIndex].Exercises {
			exercise := detail.Workouts[workoutIndex].Exercises[exerciseIndex]
			exercise.ID = primitive.NewObjectID()
			exercise.WorkoutID = workout.ID
			exercise.Order = exerciseIndex
			s.exercises[exercise.ID] = exercise
		}
	}
	s.mu.Unlock()

	s.notify()
	return program.ID, nil
}

// GetByID retrieves a single program by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	program, ok := s.programs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &program, nil
}

// GetDetailByID assembles the ordered hierarchical projection of a program.
func (s *Store) GetDetailByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detailLocked(id)
}

func (s *Store) detailLocked(id primitive.ObjectID) (*domain.ProgramDetail, error) {
	program, ok := s.programs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	detail := &domain.ProgramDetail{Program: program, Workouts: []domain.WorkoutDetail{}}
	for _, workout := range s.workouts {
		if workout.ProgramID == id {
			detail.Workouts = append(detail.Workouts, domain.WorkoutDetail{
				Workout:   workout,
				Exercises: s.exercisesOfLocked(workout.ID),
			})
		}
	}
	sort.Slice(detail.Workouts, func(i, j int) bool {
		return detail.Workouts[i].Workout.Order < detail.Workouts[j].Workout.Order
	})
	return detail, nil
}

func (s *Store) exercisesOfLocked(workoutID primitive.ObjectID) []domain.Exercise {
	exercises := []domain.Exercise{}
	for _, exercise := range s.exercises {
		if exercise.WorkoutID == workoutID {
			exercises = append(exercises, exercise)
		}
	}
	sort.Slice(exercises, func(i, j int) bool { return exercises[i].Order < exercises[j].Order })
	return exercises
}

// GetWorkoutDetail retrieves one workout with its ordered exercises.
func (s *Store) GetWorkoutDetail(ctx context.Context, workoutID primitive.ObjectID) (*domain.WorkoutDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	workout, ok := s.workouts[workoutID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &domain.WorkoutDetail{Workout: workout, Exercises: s.exercisesOfLocked(workoutID)}, nil
}

// GetAllByUpdateDate retrieves all programs, most recently updated first.
func (s *Store) GetAllByUpdateDate(ctx context.Context) ([]domain.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allByUpdateDateLocked(), nil
}

func (s *Store) allByUpdateDateLocked() []domain.Program {
	programs := []domain.Program{}
	for _, program := range s.programs {
		programs = append(programs, program)
	}
	sort.Slice(programs, func(i, j int) bool {
		return programs[i].UpdateDate.After(programs[j].UpdateDate)
	})
	return programs
}

// GetAllDetailsByUpdateDate builds the full ordered snapshot.
func (s *Store) GetAllDetailsByUpdateDate(ctx context.Context) ([]domain.ProgramDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	details := []domain.ProgramDetail{}
	for _, program := range s.allByUpdateDateLocked() {
		detail, err := s.detailLocked(program.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}
	return details, nil
}

// UpdateName renames a program, refreshing updateDate only.
func (s *Store) UpdateName(ctx context.Context, id primitive.ObjectID, name string) error {
	if name == "" {
		return errors.New("program name is required for update")
	}
	s.mu.Lock()
	program, ok := s.programs[id]
	if !ok {
		s.mu.Unlock()
		return repository.ErrNotFound
	}
	program.Name = name
	program.UpdateDate = time.Now().UTC()
	s.programs[id] = program
	s.mu.Unlock()

	s.notify()
	return nil
}

// Delete removes a program and all owned descendants.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	if _, ok := s.programs[id]; !ok {
		s.mu.Unlock()
		return repository.ErrNotFound
	}
	delete(s.programs, id)
	for workoutID, workout := range s.workouts {
		if workout.ProgramID != id {
			continue
		}
		for exerciseID, exercise := range s.exercises {
			if exercise.WorkoutID == workoutID {
				delete(s.exercises, exerciseID)
			}
		}
		for workoutLogID, workoutLog := range s.workoutLogs {
			if workoutLog.WorkoutID != workoutID {
				continue
			}
			for exerciseLogID, exerciseLog := range s.exerciseLogs {
				if exerciseLog.WorkoutLogID != workoutLogID {
					continue
				}
				for setLogID, setLog := range s.setLogs {
					if setLog.ExerciseLogID == exerciseLogID {
						delete(s.setLogs, setLogID)
					}
				}
				delete(s.exerciseLogs, exerciseLogID)
			}
			delete(s.workoutLogs, workoutLogID)
		}
		delete(s.workouts, workoutID)
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// Watch ticks on any change to the graph until ctx is done.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	ticks := make(chan struct{}, 1)

	s.watchersMu.Lock()
	id := s.nextWatch
	s.nextWatch++
	s.watchers[id] = ticks
	s.watchersMu.Unlock()

	go func() {
		<-ctx.Done()
		s.watchersMu.Lock()
		delete(s.watchers, id)
		s.watchersMu.Unlock()
		close(ticks)
	}()
	return ticks, nil
}

func (s *Store) notify() {
	s.watchersMu.Lock()
	defer s.watchersMu.Unlock()
	for _, ticks := range s.watchers {
		// Coalesce; a pending tick already forces a re-fetch.
		select {
		case ticks <- struct{}{}:
		default:
		}
	}
}

// EntityCounts reports how many records of each kind are stored. Tests use
// it to assert that failed commits leave nothing behind.
func (s *Store) EntityCounts() (programs, workouts, exercises, workoutLogs, exerciseLogs, setLogs int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.programs), len(s.workouts), len(s.exercises),
		len(s.workoutLogs), len(s.exerciseLogs), len(s.setLogs)
}
