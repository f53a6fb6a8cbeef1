// internal/repository/mongo/workout_log_repo.go
package mongo

import (
	"alcyxob/gymtrackr/internal/domain"
	"alcyxob/gymtrackr/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	workoutLogCollectionName  = "workout_logs"
	exerciseLogCollectionName = "exercise_logs"
	setLogCollectionName      = "set_logs"
)

// mongoWorkoutLogRepository implements repository.WorkoutLogRepository
type mongoWorkoutLogRepository struct {
	db           *mongo.Database
	workouts     *mongo.Collection
	workoutLogs  *mongo.Collection
	exerciseLogs *mongo.Collection
	setLogs      *mongo.Collection
}

// NewMongoWorkoutLogRepository creates a new WorkoutLog repository.
func NewMongoWorkoutLogRepository(db *mongo.Database) repository.WorkoutLogRepository {
	return &mongoWorkoutLogRepository{
		db:           db,
		workouts:     db.Collection(workoutCollectionName),
		workoutLogs:  db.Collection(workoutLogCollectionName),
		exerciseLogs: db.Collection(exerciseLogCollectionName),
		setLogs:      db.Collection(setLogCollectionName),
	}
}

// CreateGraph persists one logged session subtree in a single transaction,
// following the same ordering pattern as the program commit: set log order
// is assigned from slice position. The owning program's updateDate is
// refreshed in the same transaction.
func (r *mongoWorkoutLogRepository) CreateGraph(ctx context.Context, detail *domain.WorkoutLogDetail) (primitive.ObjectID, error) {
	if detail == nil || detail.WorkoutLog.WorkoutID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("workout log requires a workoutId")
	}

	session, err := r.db.Client().StartSession()
	if err != nil {
		return primitive.NilObjectID, err
	}
	defer session.EndSession(ctx)

	workoutLogID := primitive.NewObjectID()
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		now := time.Now().UTC()

		// The logged workout must exist; its program gets touched below.
		var workout domain.Workout
		if err := r.workouts.FindOne(sc, bson.M{"_id": detail.WorkoutLog.WorkoutID}).Decode(&workout); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, repository.ErrNotFound
			}
			return nil, err
		}

		workoutLog := detail.WorkoutLog
		workoutLog.ID = workoutLogID
		stampWorkoutLogForInsert(&workoutLog, now)
		if _, err := r.workoutLogs.InsertOne(sc, workoutLog); err != nil {
			return nil, err
		}

		for _, exerciseLogDetail := range detail.ExerciseLogs {
			exerciseLog := exerciseLogDetail.ExerciseLog
			exerciseLog.ID = primitive.NewObjectID()
			exerciseLog.WorkoutLogID = workoutLogID
			if _, err := r.exerciseLogs.InsertOne(sc, exerciseLog); err != nil {
				return nil, err
			}

			for setLogIndex := range exerciseLogDetail.SetLogs {
				setLog := exerciseLogDetail.SetLogs[setLogIndex]
				setLog.ID = primitive.NewObjectID()
				setLog.ExerciseLogID = exerciseLog.ID
				setLog.Order = setLogIndex
				if _, err := r.setLogs.InsertOne(sc, setLog); err != nil {
					return nil, err
				}
			}
		}

		return nil, touchProgram(sc, r.db.Collection(programCollectionName), workout.ProgramID, now)
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	return workoutLogID, nil
}

// GetByWorkoutID retrieves all logged sessions of a workout, newest first,
// each assembled into its hierarchical projection.
func (r *mongoWorkoutLogRepository) GetByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutLogDetail, error) {
	var workoutLogs []domain.WorkoutLog
	cursor, err := r.workoutLogs.Find(ctx,
		bson.M{"workoutId": workoutID},
		options.Find().SetSort(bson.D{{Key: "creationDate", Value: -1}}))
	if err != nil {
		return nil, err
	}
	if err = cursor.All(ctx, &workoutLogs); err != nil {
		return nil, err
	}

	details := make([]domain.WorkoutLogDetail, 0, len(workoutLogs))
	for _, workoutLog := range workoutLogs {
		// Exercise logs are inserted in workout-exercise order and IDs are
		// monotonic, so _id ascending recovers the pairing.
		var exerciseLogs []domain.ExerciseLog
		cursor, err := r.exerciseLogs.Find(ctx,
			bson.M{"workoutLogId": workoutLog.ID},
			options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
		if err != nil {
			return nil, err
		}
		if err = cursor.All(ctx, &exerciseLogs); err != nil {
			return nil, err
		}

		detail := domain.WorkoutLogDetail{
			WorkoutLog:   workoutLog,
			ExerciseLogs: make([]domain.ExerciseLogDetail, 0, len(exerciseLogs)),
		}
		for _, exerciseLog := range exerciseLogs {
			var setLogs []domain.SetLog
			cursor, err := r.setLogs.Find(ctx,
				bson.M{"exerciseLogId": exerciseLog.ID},
				options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
			if err != nil {
				return nil, err
			}
			if err = cursor.All(ctx, &setLogs); err != nil {
				return nil, err
			}
			if setLogs == nil {
				setLogs = []domain.SetLog{}
			}
			detail.ExerciseLogs = append(detail.ExerciseLogs, domain.ExerciseLogDetail{
				ExerciseLog: exerciseLog,
				SetLogs:     setLogs,
			})
		}
		details = append(details, detail)
	}
	return details, nil
}

// EnsureWorkoutLogIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutLogIndexes(ctx context.Context, db *mongo.Database) {
	_, _ = db.Collection(workoutLogCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "workoutId", Value: 1}, {Key: "creationDate", Value: -1}}},
	})
	_, _ = db.Collection(exerciseLogCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "workoutLogId", Value: 1}}},
	})
	_, _ = db.Collection(setLogCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "exerciseLogId", Value: 1}, {Key: "order", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
}
