// internal/importer/importer.go
//
// JSON import straight into the durable store, for seeding test and
// bootstrap data. This is not part of the runtime product flow: documents
// bypass drafts and validation and go through the same transactional write
// paths the commit engine uses.
package importer

import (
	"alcyxob/gymtrackr/internal/domain"
	"alcyxob/gymtrackr/internal/repository"
	"context"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramDocument is the wire shape of an importable program graph.
type ProgramDocument struct {
	Name     string            `json:"name"`
	Workouts []WorkoutDocument `json:"workouts"`
}

// WorkoutDocument carries one workout, its exercises in display order, and
// optionally logged sessions.
type WorkoutDocument struct {
	Name      string               `json:"name"`
	Exercises []ExerciseDocument   `json:"exercises"`
	Logs      []WorkoutLogDocument `json:"logs,omitempty"`
}

// ExerciseDocument carries one exercise definition.
type ExerciseDocument struct {
	Name     string `json:"name"`
	SetCount int    `json:"setCount"`
}

// WorkoutLogDocument carries one logged session.
type WorkoutLogDocument struct {
	ExerciseLogs []ExerciseLogDocument `json:"exerciseLogs"`
}

// ExerciseLogDocument references an exercise by its index in the owning
// workout's exercise list.
type ExerciseLogDocument struct {
	Exercise int           `json:"exercise"`
	Sets     []SetDocument `json:"sets"`
}

// SetDocument carries one performed set.
type SetDocument struct {
	Reps   int `json:"reps"`
	Weight int `json:"weight"`
}

// Importer decodes JSON documents into the durable entity graph.
type Importer struct {
	programRepo    repository.ProgramRepository
	workoutLogRepo repository.WorkoutLogRepository
}

// New creates an Importer over the given repositories.
func New(programRepo repository.ProgramRepository, workoutLogRepo repository.WorkoutLogRepository) *Importer {
	return &Importer{
		programRepo:    programRepo,
		workoutLogRepo: workoutLogRepo,
	}
}

// ImportProgram decodes one program document and persists its full graph,
// returning the new program's ID. Workout and exercise order follow document
// order; logs, if present, are committed afterwards session by session.
func (i *Importer) ImportProgram(ctx context.Context, data []byte) (primitive.ObjectID, error) {
	var doc ProgramDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return primitive.NilObjectID, fmt.Errorf("decode program document: %w", err)
	}

	detail := &domain.ProgramDetail{
		Program:  domain.Program{Name: doc.Name},
		Workouts: make([]domain.WorkoutDetail, 0, len(doc.Workouts)),
	}
	for _, workoutDoc := range doc.Workouts {
		workoutDetail := domain.WorkoutDetail{
			Workout:   domain.Workout{Name: workoutDoc.Name},
			Exercises: make([]domain.Exercise, 0, len(workoutDoc.Exercises)),
		}
		for _, exerciseDoc := range workoutDoc.Exercises {
			workoutDetail.Exercises = append(workoutDetail.Exercises, domain.Exercise{
				Name:     exerciseDoc.Name,
				SetCount: exerciseDoc.SetCount,
			})
		}
		detail.Workouts = append(detail.Workouts, workoutDetail)
	}

	programID, err := i.programRepo.CreateGraph(ctx, detail)
	if err != nil {
		return primitive.NilObjectID, err
	}

	// Logs reference exercises by index, so re-read the committed graph to
	// resolve the generated identities.
	committed, err := i.programRepo.GetDetailByID(ctx, programID)
	if err != nil {
		return primitive.NilObjectID, err
	}
	for workoutIndex, workoutDoc := range doc.Workouts {
		for _, logDoc := range workoutDoc.Logs {
			logDetail, err := buildLogDetail(&committed.Workouts[workoutIndex], logDoc)
			if err != nil {
				return primitive.NilObjectID, err
			}
			if _, err := i.workoutLogRepo.CreateGraph(ctx, logDetail); err != nil {
				return primitive.NilObjectID, err
			}
		}
	}
	return programID, nil
}

func buildLogDetail(workoutDetail *domain.WorkoutDetail, doc WorkoutLogDocument) (*domain.WorkoutLogDetail, error) {
	logDetail := &domain.WorkoutLogDetail{
		WorkoutLog:   domain.WorkoutLog{WorkoutID: workoutDetail.Workout.ID},
		ExerciseLogs: make([]domain.ExerciseLogDetail, 0, len(doc.ExerciseLogs)),
	}
	for _, exerciseLogDoc := range doc.ExerciseLogs {
		if exerciseLogDoc.Exercise < 0 || exerciseLogDoc.Exercise >= len(workoutDetail.Exercises) {
			return nil, fmt.Errorf("exercise index %d out of range for workout %q", exerciseLogDoc.Exercise, workoutDetail.Workout.Name)
		}
		exerciseLogDetail := domain.ExerciseLogDetail{
			ExerciseLog: domain.ExerciseLog{ExerciseID: workoutDetail.Exercises[exerciseLogDoc.Exercise].ID},
			SetLogs:     make([]domain.SetLog, 0, len(exerciseLogDoc.Sets)),
		}
		for _, setDoc := range exerciseLogDoc.Sets {
			exerciseLogDetail.SetLogs = append(exerciseLogDetail.SetLogs, domain.SetLog{
				Reps:   setDoc.Reps,
				Weight: setDoc.Weight,
			})
		}
		logDetail.ExerciseLogs = append(logDetail.ExerciseLogs, exerciseLogDetail)
	}
	return logDetail, nil
}
