package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogExercise(t *testing.T) {
	s := newTestServer(t, nil)
	ids := s.seed(t)
	workout := s.createWorkout(t, workoutBody("ana", "Row"))
	base := "/api/v1/logged_exercises/" + workout.ID

	sets := []gin.H{{"set_number": 1, "reps": 6, "weight": 90.0}}
	w := s.do(t, http.MethodPost, base+"/log", gin.H{"exercise_id": ids["Squat"], "sets": sets})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	entry := decode[LoggedExerciseResponse](t, w)
	assert.Equal(t, workout.ID, entry.WorkoutID)
	assert.Equal(t, ids["Squat"], entry.ExerciseID)
	require.Len(t, entry.Sets, 1)
	assert.Equal(t, 90.0, entry.Sets[0].Weight)

	w = s.do(t, http.MethodPost, base+"/log", gin.H{"name": "Bench Press", "sets": sets})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, base+"/entries", nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries := decode[[]LoggedExerciseResponse](t, w)
	require.Len(t, entries, 3)
	assert.Equal(t, "Row", entries[0].Exercise.Name)
	assert.Equal(t, "Squat", entries[1].Exercise.Name)
	assert.Equal(t, "Bench Press", entries[2].Exercise.Name)
}

func TestLogExerciseFailures(t *testing.T) {
	s := newTestServer(t, nil)
	s.seed(t)
	workout := s.createWorkout(t, workoutBody("ana", "Row"))
	base := "/api/v1/logged_exercises/" + workout.ID
	sets := []gin.H{{"set_number": 1, "reps": 6, "weight": 90.0}}

	w := s.do(t, http.MethodPost, base+"/log", gin.H{"name": "Nonexistent", "sets": sets})
	assertError(t, w, http.StatusNotFound, "not_found", "exercise 'Nonexistent' not found")

	w = s.do(t, http.MethodPost, base+"/log", gin.H{"exercise_id": "nope", "sets": sets})
	assertError(t, w, http.StatusUnprocessableEntity, "validation_failed", "")

	w = s.do(t, http.MethodPost, "/api/v1/logged_exercises/"+uuid.NewString()+"/log", gin.H{"name": "Row", "sets": sets})
	assertError(t, w, http.StatusNotFound, "not_found", "workout not found")

	w = s.do(t, http.MethodGet, "/api/v1/logged_exercises/"+uuid.NewString()+"/entries", nil)
	assertError(t, w, http.StatusNotFound, "not_found", "")
}

func TestDeleteLoggedExercise(t *testing.T) {
	s := newTestServer(t, nil)
	s.seed(t)
	workout := s.createWorkout(t, workoutBody("ana", "Row"))
	base := "/api/v1/logged_exercises/" + workout.ID

	w := s.do(t, http.MethodGet, base+"/entries", nil)
	exerciseID := decode[[]LoggedExerciseResponse](t, w)[0].Exercise.ID

	w = s.do(t, http.MethodDelete, base+"/entry/"+exerciseID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Body.String())

	w = s.do(t, http.MethodGet, base+"/entries", nil)
	assert.Empty(t, decode[[]LoggedExerciseResponse](t, w))

	w = s.do(t, http.MethodDelete, base+"/entry/"+uuid.NewString(), nil)
	assertError(t, w, http.StatusNotFound, "not_found", "Logged exercise not found")
}
