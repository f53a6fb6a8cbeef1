package service

import (
	"alcyxob/gymtrackr/internal/domain"
	"alcyxob/gymtrackr/internal/repository/memory"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newLogFixture(t *testing.T) (LogService, *memory.Store, *domain.ProgramDetail) {
	t.Helper()
	store := memory.NewStore()
	logStore := memory.NewWorkoutLogStore(store)
	programService := NewProgramService(store, memory.NewDraftStore())

	draft := fourDayDraft()
	detail, err := programService.SaveProgram(context.Background(), &draft)
	require.NoError(t, err)

	return NewLogService(store, logStore), store, detail
}

func logDraft(sets ...domain.SetLogDraft) domain.ExerciseLogDraft {
	draft := domain.NewExerciseLogDraft()
	draft.SetLogDrafts = sets
	return draft
}

func TestLogWorkoutCommitsOrderedSession(t *testing.T) {
	service, store, programDetail := newLogFixture(t)
	ctx := context.Background()

	day2 := programDetail.Workouts[1]
	require.Len(t, day2.Exercises, 3)

	before, err := store.GetByID(ctx, programDetail.Program.ID)
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)

	drafts := []domain.ExerciseLogDraft{
		logDraft(
			domain.SetLogDraft{Reps: 8, Weight: 100},
			domain.SetLogDraft{Reps: 6, Weight: 110},
			domain.SetLogDraft{Reps: 4, Weight: 120},
		),
		logDraft(domain.SetLogDraft{Reps: 12, Weight: 180}),
		logDraft(), // exercise skipped this session, no sets
	}

	detail, err := service.LogWorkout(ctx, day2.Workout.ID, drafts)
	require.NoError(t, err)
	require.Len(t, detail.ExerciseLogs, 3)

	// Exercise logs pair to the workout's exercises by position.
	for i, exerciseLogDetail := range detail.ExerciseLogs {
		assert.Equal(t, day2.Exercises[i].ID, exerciseLogDetail.ExerciseLog.ExerciseID)
	}
	squat := detail.ExerciseLogs[0]
	require.Len(t, squat.SetLogs, 3)
	for i, setLog := range squat.SetLogs {
		assert.Equal(t, i, setLog.Order)
	}
	assert.Equal(t, 120, squat.SetLogs[2].Weight)
	assert.Empty(t, detail.ExerciseLogs[2].SetLogs)
	assert.False(t, detail.WorkoutLog.CreationDate.IsZero())

	// Logging refreshes the owning program's updateDate.
	after, err := store.GetByID(ctx, programDetail.Program.ID)
	require.NoError(t, err)
	assert.True(t, after.UpdateDate.After(before.UpdateDate))
}

func TestLogWorkoutRejectsNegativeSets(t *testing.T) {
	service, store, programDetail := newLogFixture(t)

	day2 := programDetail.Workouts[1]
	drafts := []domain.ExerciseLogDraft{
		logDraft(domain.SetLogDraft{Reps: -2, Weight: 100}),
		logDraft(),
		logDraft(),
	}
	_, err := service.LogWorkout(context.Background(), day2.Workout.ID, drafts)
	assert.ErrorIs(t, err, domain.ErrNegativeSetValue)

	_, _, _, workoutLogs, exerciseLogs, setLogs := store.EntityCounts()
	assert.Zero(t, workoutLogs)
	assert.Zero(t, exerciseLogs)
	assert.Zero(t, setLogs)
}

func TestLogWorkoutRequiresOneDraftPerExercise(t *testing.T) {
	service, _, programDetail := newLogFixture(t)

	day2 := programDetail.Workouts[1]
	_, err := service.LogWorkout(context.Background(), day2.Workout.ID, []domain.ExerciseLogDraft{logDraft()})
	assert.ErrorIs(t, err, ErrExerciseLogMismatch)
}

func TestLogWorkoutUnknownWorkout(t *testing.T) {
	service, _, _ := newLogFixture(t)
	_, err := service.LogWorkout(context.Background(), primitive.NewObjectID(), nil)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestWorkoutLogsNewestFirst(t *testing.T) {
	service, _, programDetail := newLogFixture(t)
	ctx := context.Background()

	day1 := programDetail.Workouts[0]
	empty := make([]domain.ExerciseLogDraft, len(day1.Exercises))
	for i := range empty {
		empty[i] = logDraft()
	}

	first, err := service.LogWorkout(ctx, day1.Workout.ID, empty)
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := service.LogWorkout(ctx, day1.Workout.ID, empty)
	require.NoError(t, err)

	logs, err := service.WorkoutLogs(ctx, day1.Workout.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, second.WorkoutLog.ID, logs[0].WorkoutLog.ID)
	assert.Equal(t, first.WorkoutLog.ID, logs[1].WorkoutLog.ID)

	_, err = service.WorkoutLogs(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}
