package repository

import (
	"alcyxob/gymtrackr/internal/domain" // Import our defined domain models
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ProgramRepository defines the interface for the durable program graph.
//
// CreateGraph is the transactional commit: it persists the whole
// program -> workouts -> exercises subtree all-or-nothing, assigning
// identities, parent links, dense zero-based order indices (from slice
// position) and lifecycle timestamps. Every write path stamps UpdateDate
// through the repository's own stamping helpers, never at call sites.
type ProgramRepository interface {
	CreateGraph(ctx context.Context, detail *domain.ProgramDetail) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error)
	GetDetailByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramDetail, error)
	GetWorkoutDetail(ctx context.Context, workoutID primitive.ObjectID) (*domain.WorkoutDetail, error)
	GetAllByUpdateDate(ctx context.Context) ([]domain.Program, error)             // updateDate descending
	GetAllDetailsByUpdateDate(ctx context.Context) ([]domain.ProgramDetail, error) // full snapshot, updateDate descending
	UpdateName(ctx context.Context, id primitive.ObjectID, name string) error     // refreshes updateDate
	Delete(ctx context.Context, id primitive.ObjectID) error                      // cascades to the whole subtree
	Watch(ctx context.Context) (<-chan struct{}, error)                           // ticks on any change to the program graph
}

// WorkoutLogRepository defines the interface for logged workout sessions.
// CreateGraph persists one workoutLog -> exerciseLogs -> setLogs subtree
// atomically and refreshes the owning program's updateDate in the same
// transaction (subtree mutation rule).
type WorkoutLogRepository interface {
	CreateGraph(ctx context.Context, detail *domain.WorkoutLogDetail) (primitive.ObjectID, error)
	GetByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutLogDetail, error)
}

// DraftStore defines the process-wide single-slot holder of at most one
// ongoing program draft. The slot is durable (survives restart), readable
// without error when absent (nil, nil), and observable: every write
// notifies watchers of the new value, including absence.
type DraftStore interface {
	Get(ctx context.Context) (*domain.ProgramDraft, error)
	// Set stores the draft, or clears the slot when draft is nil.
	Set(ctx context.Context, draft *domain.ProgramDraft) error
	// Update applies fn atomically as one read-modify-write. fn receives the
	// current value (nil when absent) and returns the value to store (nil to
	// clear). Concurrent editors merging into the slot must use Update, not
	// a captured read followed by Set.
	Update(ctx context.Context, fn func(current *domain.ProgramDraft) *domain.ProgramDraft) error
	// Watch delivers every subsequent slot value (nil for cleared) until ctx
	// is done.
	Watch(ctx context.Context) (<-chan *domain.ProgramDraft, error)
}
