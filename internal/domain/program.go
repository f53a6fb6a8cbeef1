// internal/domain/program.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Program represents a named, reusable training program made of ordered workouts.
type Program struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	CreationDate time.Time          `bson:"creationDate" json:"creationDate"` // Assigned exactly once, at first persistence
	UpdateDate   time.Time          `bson:"updateDate" json:"updateDate"`     // Refreshed on every save touching the program or its subtree
}

// Workout represents a single workout session definition within a Program.
type Workout struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProgramID primitive.ObjectID `bson:"programId" json:"programId"` // Owning parent (exclusive, cascade-deleted with it)
	Name      string             `bson:"name" json:"name"`           // e.g., "Day 1 - Chest & Abs"
	Order     int                `bson:"order" json:"order"`         // Dense, zero-based position within the program
}

// Exercise represents a single exercise target within a Workout.
type Exercise struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutID primitive.ObjectID `bson:"workoutId" json:"workoutId"` // Owning parent
	Name      string             `bson:"name" json:"name"`           // e.g., "Bench Press"
	Order     int                `bson:"order" json:"order"`         // Dense, zero-based position within the workout
	SetCount  int                `bson:"setCount" json:"setCount"`   // Target number of sets, positive
}

// ProgramDetail is the display-ready hierarchical projection of one Program:
// workouts sorted by order ascending, each with its exercises sorted by order
// ascending. It is also the input shape for the transactional graph commit
// (IDs, parent links, order indices and timestamps are assigned by the store).
type ProgramDetail struct {
	Program  Program         `json:"program"`
	Workouts []WorkoutDetail `json:"workouts"`
}

// WorkoutDetail pairs a Workout with its ordered exercises.
type WorkoutDetail struct {
	Workout   Workout    `json:"workout"`
	Exercises []Exercise `json:"exercises"`
}
