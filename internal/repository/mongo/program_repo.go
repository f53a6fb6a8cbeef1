// internal/repository/mongo/program_repo.go
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
	programCollectionName  = "programs"
	workoutCollectionName  = "workouts"
	exerciseCollectionName = "exercises"
)

// mongoProgramRepository implements repository.ProgramRepository
type mongoProgramRepository struct {
	db        *mongo.Database
	programs  *mongo.Collection
	workouts  *mongo.Collection
	exercises *mongo.Collection
}

// NewMongoProgramRepository creates a new Program repository.
func NewMongoProgramRepository(db *mongo.Database) repository.ProgramRepository {
	return &mongoProgramRepository{
		db:        db,
		programs:  db.Collection(programCollectionName),
		workouts:  db.Collection(workoutCollectionName),
		exercises: db.Collection(exerciseCollectionName),
	}
}

// CreateGraph persists a full program subtree in one transaction.
// Workout and exercise order indices are assigned from slice position, so
// the persisted graph matches the draft list order at commit time exactly.
func (r *mongoProgramRepository) CreateGraph(ctx context.Context, detail *domain.ProgramDetail) (primitive.ObjectID, error) {
	if detail == nil || detail.Program.Name == "" {
		return primitive.NilObjectID, errors.New("program requires a name")
	}

	session, err := r.db.Client().StartSession()
	if err != nil {
		return primitive.NilObjectID, err
	}
	defer session.EndSession(ctx)

	programID := primitive.NewObjectID()
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		now := time.Now().UTC()

		program := detail.Program
		program.ID = programID
		stampProgramForInsert(&program, now)
		if _, err := r.programs.InsertOne(sc, program); err != nil {
			return nil, err
		}

		for workoutIndex := range detail.Workouts {
			workout := detail.Workouts[workoutIndex].Workout
			workout.ID = primitive.NewObjectID()
			workout.ProgramID = programID
			workout.Order = workoutIndex
			if _, err := r.workouts.InsertOne(sc, workout); err != nil {
				return nil, err
			}

			for exerciseIndex := range detail.Workouts[workoutIndex].Exercises {
				exercise := detail.Workouts[workoutIndex].Exercises[exerciseIndex]
				exercise.ID = primitive.NewObjectID()
				exercise.WorkoutID = workout.ID
				exercise.Order = exerciseIndex
				if _, err := r.exercises.InsertOne(sc, exercise); err != nil {
					return nil, err
				}
			}
		}
		return nil, nil
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	return programID, nil
}

// GetByID retrieves a single program by its ID.
func (r *mongoProgramRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	var program domain.Program
	err := r.programs.FindOne(ctx, bson.M{"_id": id}).Decode(&program)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &program, nil
}

// GetDetailByID assembles the hierarchical projection of one program:
// workouts by order ascending, each with exercises by order ascending.
func (r *mongoProgramRepository) GetDetailByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramDetail, error) {
	program, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var workouts []domain.Workout
	cursor, err := r.workouts.Find(ctx,
		bson.M{"programId": id},
		options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, err
	}
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}

	detail := &domain.ProgramDetail{
		Program:  *program,
		Workouts: make([]domain.WorkoutDetail, 0, len(workouts)),
	}
	for _, workout := range workouts {
		exercises, err := r.exercisesByWorkoutID(ctx, workout.ID)
		if err != nil {
			return nil, err
		}
		detail.Workouts = append(detail.Workouts, domain.WorkoutDetail{
			Workout:   workout,
			Exercises: exercises,
		})
	}
	return detail, nil
}

// GetWorkoutDetail retrieves one workout with its ordered exercises.
func (r *mongoProgramRepository) GetWorkoutDetail(ctx context.Context, workoutID primitive.ObjectID) (*domain.WorkoutDetail, error) {
	var workout domain.Workout
	err := r.workouts.FindOne(ctx, bson.M{"_id": workoutID}).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	exercises, err := r.exercisesByWorkoutID(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	return &domain.WorkoutDetail{Workout: workout, Exercises: exercises}, nil
}

func (r *mongoProgramRepository) exercisesByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]domain.Exercise, error) {
	var exercises []domain.Exercise
	cursor, err := r.exercises.Find(ctx,
		bson.M{"workoutId": workoutID},
		options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, err
	}
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	return exercises, nil
}

// GetAllByUpdateDate retrieves all programs, most recently updated first.
// The head of the list is "the current program".
func (r *mongoProgramRepository) GetAllByUpdateDate(ctx context.Context) ([]domain.Program, error) {
	var programs []domain.Program
	cursor, err := r.programs.Find(ctx,
		bson.M{},
		options.Find().SetSort(bson.D{{Key: "updateDate", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &programs); err != nil {
		return nil, err
	}
	if programs == nil {
		programs = []domain.Program{}
	}
	return programs, nil
}

// GetAllDetailsByUpdateDate builds the full ordered snapshot the projection
// layer emits to subscribers. Every change produces a complete recompute;
// there is no incremental update contract.
func (r *mongoProgramRepository) GetAllDetailsByUpdateDate(ctx context.Context) ([]domain.ProgramDetail, error) {
	programs, err := r.GetAllByUpdateDate(ctx)
	if err != nil {
		return nil, err
	}
	details := make([]domain.ProgramDetail, 0, len(programs))
	for _, program := range programs {
		detail, err := r.GetDetailByID(ctx, program.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}
	return details, nil
}

// UpdateName renames a program. updateDate refreshes; creationDate never does.
func (r *mongoProgramRepository) UpdateName(ctx context.Context, id primitive.ObjectID, name string) error {
	if name == "" {
		return errors.New("program name is required for update")
	}
	now := time.Now().UTC()
	result, err := r.programs.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"name": name, "updateDate": now}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a program and cascades to every owned descendant:
// workouts, exercises, workout logs, exercise logs and set logs.
func (r *mongoProgramRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		workoutIDs, err := r.collectIDs(sc, r.workouts, bson.M{"programId": id})
		if err != nil {
			return nil, err
		}
		exerciseIDs, err := r.collectIDs(sc, r.exercises, bson.M{"workoutId": bson.M{"$in": workoutIDs}})
		if err != nil {
			return nil, err
		}

		workoutLogs := r.db.Collection(workoutLogCollectionName)
		exerciseLogs := r.db.Collection(exerciseLogCollectionName)
		setLogs := r.db.Collection(setLogCollectionName)

		workoutLogIDs, err := r.collectIDs(sc, workoutLogs, bson.M{"workoutId": bson.M{"$in": workoutIDs}})
		if err != nil {
			return nil, err
		}
		exerciseLogIDs, err := r.collectIDs(sc, exerciseLogs, bson.M{"workoutLogId": bson.M{"$in": workoutLogIDs}})
		if err != nil {
			return nil, err
		}

		if _, err := setLogs.DeleteMany(sc, bson.M{"exerciseLogId": bson.M{"$in": exerciseLogIDs}}); err != nil {
			return nil, err
		}
		if _, err := exerciseLogs.DeleteMany(sc, bson.M{"_id": bson.M{"$in": exerciseLogIDs}}); err != nil {
			return nil, err
		}
		if _, err := workoutLogs.DeleteMany(sc, bson.M{"_id": bson.M{"$in": workoutLogIDs}}); err != nil {
			return nil, err
		}
		if _, err := r.exercises.DeleteMany(sc, bson.M{"_id": bson.M{"$in": exerciseIDs}}); err != nil {
			return nil, err
		}
		if _, err := r.workouts.DeleteMany(sc, bson.M{"_id": bson.M{"$in": workoutIDs}}); err != nil {
			return nil, err
		}

		result, err := r.programs.DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return nil, err
		}
		if result.DeletedCount == 0 {
			return nil, repository.ErrNotFound
		}
		return nil, nil
	})
	return err
}

func (r *mongoProgramRepository) collectIDs(ctx context.Context, collection *mongo.Collection, filter bson.M) ([]primitive.ObjectID, error) {
	cursor, err := collection.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

// Watch ticks whenever anything in the database changes. The projection
// layer re-fetches the full snapshot on every tick rather than interpreting
// individual events. Requires a replica set (same as transactions).
func (r *mongoProgramRepository) Watch(ctx context.Context) (<-chan struct{}, error) {
	stream, err := r.db.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, err
	}

	ticks := make(chan struct{}, 1)
	go func() {
		defer close(ticks)
		defer stream.Close(context.Background())
		for stream.Next(ctx) {
			// Coalesce bursts; a pending tick already forces a re-fetch.
			select {
			case ticks <- struct{}{}:
			default:
			}
		}
	}()
	return ticks, nil
}

// EnsureProgramIndexes creates necessary indexes. Call during startup.
func EnsureProgramIndexes(ctx context.Context, db *mongo.Database) {
	programIndexes := []mongo.IndexModel{
		{
			// The projection layer's only query pattern: updateDate descending.
			Keys:    bson.D{{Key: "updateDate", Value: -1}},
			Options: options.Index(),
		},
	}
	workoutIndexes := []mongo.IndexModel{
		{
			// Sibling order is unique within a program.
			Keys:    bson.D{{Key: "programId", Value: 1}, {Key: "order", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	exerciseIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "workoutId", Value: 1}, {Key: "order", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, _ = db.Collection(programCollectionName).Indexes().CreateMany(ctx, programIndexes)
	_, _ = db.Collection(workoutCollectionName).Indexes().CreateMany(ctx, workoutIndexes)
	_, _ = db.Collection(exerciseCollectionName).Indexes().CreateMany(ctx, exerciseIndexes)
}
