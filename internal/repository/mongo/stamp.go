// internal/repository/mongo/stamp.go
package mongo

import (
	"context"
	"time"

	"alcyxob/gymtrackr/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Derived-timestamp rules live here, at the store level, so that every write
// path shares them. Call sites never set creationDate or updateDate
// themselves.

// stampProgramForInsert assigns both lifecycle dates exactly once, at first
// persistence. creationDate is never touched again afterwards.
func stampProgramForInsert(program *domain.Program, now time.Time) {
	program.CreationDate = now
	program.UpdateDate = now
}

// stampWorkoutLogForInsert assigns the immutable creationDate of a logged
// session.
func stampWorkoutLogForInsert(workoutLog *domain.WorkoutLog, now time.Time) {
	workoutLog.CreationDate = now
}

// touchProgram refreshes a program's updateDate. Every mutation of a program
// or any entity in its subtree must route through this, inside the same
// transaction as the mutation.
func touchProgram(ctx context.Context, programs *mongo.Collection, programID primitive.ObjectID, now time.Time) error {
	_, err := programs.UpdateOne(ctx,
		bson.M{"_id": programID},
		bson.M{"$set": bson.M{"updateDate": now}},
	)
	return err
}
