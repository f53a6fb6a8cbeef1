package importer

import (
	"alcyxob/gymtrackr/internal/repository/memory"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const programJSON = `{
	"name": "Imported Program",
	"workouts": [
		{
			"name": "Day 1 - Chest & Abs",
			"exercises": [
				{"name": "Bench Press", "setCount": 4},
				{"name": "Cable Fly", "setCount": 3}
			],
			"logs": [
				{
					"exerciseLogs": [
						{"exercise": 0, "sets": [{"reps": 8, "weight": 80}, {"reps": 6, "weight": 85}]},
						{"exercise": 1, "sets": []}
					]
				}
			]
		},
		{
			"name": "Day 2 - Legs & Triceps",
			"exercises": [
				{"name": "Squat", "setCount": 4}
			]
		}
	]
}`

func TestImportProgram(t *testing.T) {
	store := memory.NewStore()
	logStore := memory.NewWorkoutLogStore(store)
	imp := New(store, logStore)
	ctx := context.Background()

	programID, err := imp.ImportProgram(ctx, []byte(programJSON))
	require.NoError(t, err)

	detail, err := store.GetDetailByID(ctx, programID)
	require.NoError(t, err)
	assert.Equal(t, "Imported Program", detail.Program.Name)
	require.Len(t, detail.Workouts, 2)
	assert.Equal(t, "Day 1 - Chest & Abs", detail.Workouts[0].Workout.Name)
	require.Len(t, detail.Workouts[0].Exercises, 2)
	assert.Equal(t, "Bench Press", detail.Workouts[0].Exercises[0].Name)
	assert.Equal(t, 4, detail.Workouts[0].Exercises[0].SetCount)

	logs, err := logStore.GetByWorkoutID(ctx, detail.Workouts[0].Workout.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Len(t, logs[0].ExerciseLogs, 2)
	assert.Equal(t, detail.Workouts[0].Exercises[0].ID, logs[0].ExerciseLogs[0].ExerciseLog.ExerciseID)
	require.Len(t, logs[0].ExerciseLogs[0].SetLogs, 2)
	assert.Equal(t, 85, logs[0].ExerciseLogs[0].SetLogs[1].Weight)
	assert.Equal(t, 1, logs[0].ExerciseLogs[0].SetLogs[1].Order)

	logs, err = logStore.GetByWorkoutID(ctx, detail.Workouts[1].Workout.ID)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestImportProgramBadJSON(t *testing.T) {
	imp := New(memory.NewStore(), memory.NewWorkoutLogStore(memory.NewStore()))
	_, err := imp.ImportProgram(context.Background(), []byte(`{"name":`))
	assert.Error(t, err)
}

func TestImportProgramExerciseIndexOutOfRange(t *testing.T) {
	store := memory.NewStore()
	imp := New(store, memory.NewWorkoutLogStore(store))

	bad := `{
		"name": "Broken",
		"workouts": [
			{
				"name": "Day 1",
				"exercises": [{"name": "Bench Press", "setCount": 3}],
				"logs": [{"exerciseLogs": [{"exercise": 7, "sets": []}]}]
			}
		]
	}`
	_, err := imp.ImportProgram(context.Background(), []byte(bad))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}
