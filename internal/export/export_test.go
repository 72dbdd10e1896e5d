package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triance/backend/internal/domain"
)

func sampleWorkouts() []domain.Workout {
	push := domain.WorkoutTypePush
	note := "felt strong, heavy day"
	return []domain.Workout{
		{
			ID:          uuid.New(),
			CreatedTime: time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC),
			WorkoutType: &push,
			Notes:       &note,
			LoggedExercises: []domain.LoggedExercise{
				{
					Exercise: &domain.Exercise{Name: "Bench Press"},
					Sets: []domain.LoggedExerciseSet{
						{SetNumber: 1, Reps: 8, Weight: 80},
						{SetNumber: 2, Reps: 6, Weight: 82.5},
					},
				},
				{
					Exercise: &domain.Exercise{Name: "Dips"},
					Sets:     []domain.LoggedExerciseSet{{SetNumber: 1, Reps: 12, Weight: 0}},
				},
			},
		},
		{
			ID:          uuid.New(),
			CreatedTime: time.Date(2024, 3, 2, 7, 0, 0, 0, time.UTC),
		},
	}
}

func TestToCSV(t *testing.T) {
	workouts := sampleWorkouts()
	var buf bytes.Buffer
	require.NoError(t, ToCSV(&buf, workouts))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	// header + one row per set; the empty workout contributes nothing
	require.Len(t, records, 4)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{
		workouts[0].ID.String(), "2024-03-01T18:30:00Z", "Push", "felt strong, heavy day",
		"Bench Press", "1", "8", "80",
	}, records[1])
	assert.Equal(t, "82.5", records[2][7])
	assert.Equal(t, "Dips", records[3][4])
}

func TestToJSON(t *testing.T) {
	workouts := sampleWorkouts()
	var buf bytes.Buffer
	require.NoError(t, ToJSON(&buf, workouts))

	var out jsonExport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 2, out.Count)
	require.Len(t, out.Workouts, 2)

	first := out.Workouts[0]
	assert.Equal(t, "Push", first.WorkoutType)
	assert.Equal(t, 3, first.SetCount)
	require.Len(t, first.Exercises, 2)
	assert.Equal(t, "Bench Press", first.Exercises[0].Exercise)
	assert.Equal(t, 82.5, first.Exercises[0].Sets[1].Weight)

	assert.Empty(t, out.Workouts[1].WorkoutType)
	assert.Empty(t, out.Workouts[1].Exercises)
}

func TestToJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ToJSON(&buf, nil))
	assert.JSONEq(t, `{"exported_at": "`+exportedAt(t, buf.Bytes())+`", "count": 0, "workouts": []}`, buf.String())
}

func exportedAt(t *testing.T, data []byte) string {
	t.Helper()
	var out jsonExport
	require.NoError(t, json.Unmarshal(data, &out))
	return out.ExportedAt
}
