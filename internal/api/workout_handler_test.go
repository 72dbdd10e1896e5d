package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWorkoutKeepsOrder(t *testing.T) {
	s := newTestServer(t, nil)
	s.seed(t)

	body := workoutBody("ana", "Row", "Squat", "Bench Press")
	body["notes"] = "heavy"
	body["workout_type"] = "push"
	workout := s.createWorkout(t, body)

	require.Len(t, workout.LoggedExercises, 3)
	for i, name := range []string{"Row", "Squat", "Bench Press"} {
		require.NotNil(t, workout.LoggedExercises[i].Exercise)
		assert.Equal(t, name, workout.LoggedExercises[i].Exercise.Name)
		assert.Equal(t, workout.ID, workout.LoggedExercises[i].WorkoutID)
	}
	assert.Equal(t, []int{1, 2}, []int{
		workout.LoggedExercises[0].Sets[0].SetNumber,
		workout.LoggedExercises[0].Sets[1].SetNumber,
	})
	require.NotNil(t, workout.WorkoutType)
	assert.Equal(t, "Push", *workout.WorkoutType)
	assert.Equal(t, 6, workout.SetCount)

	w := s.do(t, http.MethodGet, "/api/v1/workouts/"+workout.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, workout, decode[WorkoutResponse](t, w))
}

func TestCreateWorkoutFailures(t *testing.T) {
	s := newTestServer(t, nil)
	s.seed(t)

	w := s.do(t, http.MethodPost, "/api/v1/workouts", workoutBody("ghost", "Squat"))
	assertError(t, w, http.StatusNotFound, "not_found", "user 'ghost' not found")

	w = s.do(t, http.MethodPost, "/api/v1/workouts", workoutBody("ana", "Squat", "Nonexistent"))
	assertError(t, w, http.StatusNotFound, "not_found", "exercise 'Nonexistent' not found")

	w = s.do(t, http.MethodPost, "/api/v1/workouts", workoutBody("ana"))
	assertError(t, w, http.StatusUnprocessableEntity, "validation_failed", "")

	bad := workoutBody("ana", "Squat")
	bad["workout_type"] = "Legs"
	w = s.do(t, http.MethodPost, "/api/v1/workouts", bad)
	assertError(t, w, http.StatusUnprocessableEntity, "validation_failed", "")

	w = s.do(t, http.MethodPost, "/api/v1/workouts", `{"username": "ana",`)
	assertError(t, w, http.StatusBadRequest, errBadRequest, "")

	w = s.do(t, http.MethodGet, "/api/v1/workouts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]WorkoutResponse](t, w), "failed creates leave nothing behind")
}

func TestGetWorkoutMissing(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/v1/workouts/"+uuid.NewString(), nil)
	assertError(t, w, http.StatusNotFound, "not_found", "workout not found")

	w = s.do(t, http.MethodGet, "/api/v1/workouts/not-a-uuid", nil)
	assertError(t, w, http.StatusUnprocessableEntity, "validation_failed", "")
}

func TestUpdateWorkout(t *testing.T) {
	s := newTestServer(t, nil)
	s.seed(t)
	body := workoutBody("ana", "Squat", "Row")
	body["notes"] = "before"
	body["workout_type"] = "Pull"
	workout := s.createWorkout(t, body)
	path := "/api/v1/workouts/" + workout.ID

	w := s.do(t, http.MethodPatch, path, gin.H{"notes": "after"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[WorkoutResponse](t, w)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "after", *updated.Notes)
	require.NotNil(t, updated.WorkoutType)
	assert.Equal(t, "Pull", *updated.WorkoutType)
	assert.Equal(t, workout.CreatedTime, updated.CreatedTime)
	require.Len(t, updated.LoggedExercises, 2)
	assert.Equal(t, workout.LoggedExercises[0].ID, updated.LoggedExercises[0].ID)

	w = s.do(t, http.MethodPatch, path, gin.H{"workout_type": nil})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[WorkoutResponse](t, w).WorkoutType)

	w = s.do(t, http.MethodPatch, path, gin.H{"logged_exercises": workoutBody("", "Bench Press")["logged_exercises"]})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	replaced := decode[WorkoutResponse](t, w)
	require.Len(t, replaced.LoggedExercises, 1)
	assert.Equal(t, "Bench Press", replaced.LoggedExercises[0].Exercise.Name)
	assert.Equal(t, "after", *replaced.Notes)

	w = s.do(t, http.MethodPatch, path, gin.H{
		"notes":            "lost",
		"logged_exercises": workoutBody("", "Nonexistent")["logged_exercises"],
	})
	assertError(t, w, http.StatusNotFound, "not_found", "exercise 'Nonexistent' not found")

	w = s.do(t, http.MethodGet, path, nil)
	current := decode[WorkoutResponse](t, w)
	assert.Equal(t, "after", *current.Notes)
	assert.Len(t, current.LoggedExercises, 1)

	w = s.do(t, http.MethodPatch, path, gin.H{"created_time": nil})
	assertError(t, w, http.StatusUnprocessableEntity, "validation_failed", "")

	w = s.do(t, http.MethodPatch, "/api/v1/workouts/"+uuid.NewString(), gin.H{"notes": "x"})
	assertError(t, w, http.StatusNotFound, "not_found", "workout not found")
}

func TestDeleteWorkout(t *testing.T) {
	s := newTestServer(t, nil)
	s.seed(t)
	workout := s.createWorkout(t, workoutBody("ana", "Squat"))
	path := "/api/v1/workouts/" + workout.ID

	w := s.do(t, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Body.String())

	w = s.do(t, http.MethodDelete, path, nil)
	assertError(t, w, http.StatusNotFound, "not_found", "workout not found")

	w = s.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/stats", nil)
	stats := decode[StatsResponse](t, w)
	assert.Zero(t, stats.LoggedExercises)
	assert.Zero(t, stats.LoggedExerciseSets)
}

func TestListAndLatestWorkouts(t *testing.T) {
	s := newTestServer(t, nil)
	s.seed(t)

	pushBody := workoutBody("ana", "Bench Press")
	pushBody["workout_type"] = "Push"
	push := s.createWorkout(t, pushBody)
	pull := workoutBody("ana", "Row")
	pull["workout_type"] = "Pull"
	latest := s.createWorkout(t, pull)
	other := s.createWorkout(t, workoutBody("bo", "Squat"))

	w := s.do(t, http.MethodGet, "/api/v1/users/ana/workouts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]WorkoutResponse](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, latest.ID, list[0].ID)
	assert.Equal(t, push.ID, list[1].ID)

	w = s.do(t, http.MethodGet, "/api/v1/workouts?username=bo", nil)
	require.Len(t, decode[[]WorkoutResponse](t, w), 1)

	w = s.do(t, http.MethodGet, "/api/v1/workouts?username=ghost", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]WorkoutResponse](t, w))

	w = s.do(t, http.MethodGet, "/api/v1/workouts", nil)
	all := decode[[]WorkoutResponse](t, w)
	require.Len(t, all, 3)
	assert.Equal(t, push.ID, all[0].ID)
	assert.Equal(t, other.ID, all[2].ID)

	w = s.do(t, http.MethodGet, "/api/v1/users/ana/workouts/latest", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, latest.ID, decode[WorkoutResponse](t, w).ID)

	w = s.do(t, http.MethodGet, "/api/v1/users/ana/workouts/latest?type=push", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, push.ID, decode[WorkoutResponse](t, w).ID)

	w = s.do(t, http.MethodGet, "/api/v1/users/ana/workouts/latest?type=Legs", nil)
	assertError(t, w, http.StatusNotFound, "not_found", "no Legs workout found for user 'ana'")

	w = s.do(t, http.MethodGet, "/api/v1/users/ghost/workouts/latest", nil)
	assertError(t, w, http.StatusNotFound, "not_found", "no workout found for user 'ghost'")
}

func TestMistypedFieldsAreValidationFailures(t *testing.T) {
	s := newTestServer(t, nil)
	s.seed(t)

	for _, sets := range []interface{}{
		[]gin.H{{"set_number": 1, "reps": 2.5, "weight": 10}},
		[]gin.H{{"set_number": 1, "reps": "ten", "weight": 10}},
		"three",
	} {
		body := gin.H{"username": "ana", "logged_exercises": []gin.H{{"name": "Squat", "sets": sets}}}
		w := s.do(t, http.MethodPost, "/api/v1/workouts", body)
		assertError(t, w, http.StatusUnprocessableEntity, "validation_failed", "")
	}

	workout := s.createWorkout(t, workoutBody("ana", "Squat"))
	path := "/api/v1/workouts/" + workout.ID

	w := s.do(t, http.MethodPatch, path, gin.H{"notes": 5})
	assertError(t, w, http.StatusUnprocessableEntity, "validation_failed", "")

	w = s.do(t, http.MethodPatch, path, gin.H{"created_time": "yesterday"})
	assertError(t, w, http.StatusUnprocessableEntity, "validation_failed", "")

	w = s.do(t, http.MethodPatch, path, gin.H{"logged_exercises": []gin.H{{"name": "Row", "sets": []gin.H{{"reps": 2.5}}}}})
	assertError(t, w, http.StatusUnprocessableEntity, "validation_failed", "")

	w = s.do(t, http.MethodPost, "/api/v1/workouts", "")
	assertError(t, w, http.StatusBadRequest, errBadRequest, "")

	w = s.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, workout, decode[WorkoutResponse](t, w))

	w = s.do(t, http.MethodGet, "/api/v1/workouts", nil)
	assert.Len(t, decode[[]WorkoutResponse](t, w), 1)
}
