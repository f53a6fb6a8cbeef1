// internal/domain/logs.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutLog records one executed session of a Workout.
type WorkoutLog struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutID    primitive.ObjectID `bson:"workoutId" json:"workoutId"`       // The workout this session executed
	CreationDate time.Time          `bson:"creationDate" json:"creationDate"` // Set once at creation, immutable
}

// ExerciseLog records the execution of one Exercise within a WorkoutLog.
type ExerciseLog struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutLogID primitive.ObjectID `bson:"workoutLogId" json:"workoutLogId"` // Owning parent
	ExerciseID   primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`     // The exercise this log is for
}

// SetLog records a single performed set (reps at a weight).
type SetLog struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ExerciseLogID primitive.ObjectID `bson:"exerciseLogId" json:"exerciseLogId"` // Owning parent
	Order         int                `bson:"order" json:"order"`                 // Dense, zero-based position within the exercise log
	Reps          int                `bson:"reps" json:"reps"`
	Weight        int                `bson:"weight" json:"weight"` // App-defined unit
}

// WorkoutLogDetail is the hierarchical projection of one logged session.
// Like ProgramDetail it doubles as the input shape for the transactional
// log commit.
type WorkoutLogDetail struct {
	WorkoutLog   WorkoutLog          `json:"workoutLog"`
	ExerciseLogs []ExerciseLogDetail `json:"exerciseLogs"`
}

// ExerciseLogDetail pairs an ExerciseLog with its ordered set logs.
type ExerciseLogDetail struct {
	ExerciseLog ExerciseLog `json:"exerciseLog"`
	SetLogs     []SetLog    `json:"setLogs"`
}
