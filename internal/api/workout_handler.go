package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"triance/backend/internal/domain"
	"triance/backend/internal/service"
)

// WorkoutHandler serves the workout aggregate.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

type SetRequest struct {
	SetNumber int     `json:"set_number"`
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
}

// LoggedExerciseRequest names a catalog exercise (exact match) and its sets.
type LoggedExerciseRequest struct {
	Name string       `json:"name"`
	Sets []SetRequest `json:"sets"`
}

type CreateWorkoutRequest struct {
	Username        string                  `json:"username"`
	Notes           *string                 `json:"notes"`
	WorkoutType     *string                 `json:"workout_type"`
	LoggedExercises []LoggedExerciseRequest `json:"logged_exercises"`
}

// UpdateWorkoutRequest is a sparse patch. A non-empty logged_exercises array
// replaces every existing entry.
type UpdateWorkoutRequest struct {
	Notes           domain.Optional[*string]                `json:"notes"`
	CreatedTime     domain.Optional[*time.Time]             `json:"created_time"`
	WorkoutType     domain.Optional[*string]                `json:"workout_type"`
	LoggedExercises domain.Optional[[]LoggedExerciseRequest] `json:"logged_exercises"`
}

type SetResponse struct {
	ID        string  `json:"id"`
	SetNumber int     `json:"set_number"`
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
}

type LoggedExerciseResponse struct {
	ID         string            `json:"id"`
	WorkoutID  string            `json:"workout_id"`
	ExerciseID string            `json:"exercise_id"`
	Exercise   *ExerciseResponse `json:"exercise,omitempty"`
	Sets       []SetResponse     `json:"sets"`
}

type WorkoutResponse struct {
	ID              string                   `json:"id"`
	UserID          string                   `json:"user_id"`
	CreatedTime     time.Time                `json:"created_time"`
	UpdatedAt       time.Time                `json:"updated_at"`
	Notes           *string                  `json:"notes"`
	WorkoutType     *string                  `json:"workout_type"`
	SetCount        int                      `json:"set_count"`
	LoggedExercises []LoggedExerciseResponse `json:"logged_exercises"`
}

func toSetInputs(in []SetRequest) []service.SetInput {
	out := make([]service.SetInput, len(in))
	for i, s := range in {
		out[i] = service.SetInput{SetNumber: s.SetNumber, Reps: s.Reps, Weight: s.Weight}
	}
	return out
}

func toEntryInputs(in []LoggedExerciseRequest) []service.LoggedExerciseInput {
	if in == nil {
		return nil
	}
	out := make([]service.LoggedExerciseInput, len(in))
	for i, e := range in {
		out[i] = service.LoggedExerciseInput{Name: e.Name, Sets: toSetInputs(e.Sets)}
	}
	return out
}

func MapLoggedExerciseToResponse(le *domain.LoggedExercise) LoggedExerciseResponse {
	resp := LoggedExerciseResponse{
		ID:         le.ID.String(),
		WorkoutID:  le.WorkoutID.String(),
		ExerciseID: le.ExerciseID.String(),
		Sets:       make([]SetResponse, len(le.Sets)),
	}
	if le.Exercise != nil {
		ex := MapExerciseToResponse(le.Exercise)
		resp.Exercise = &ex
	}
	for i, s := range le.Sets {
		resp.Sets[i] = SetResponse{ID: s.ID.String(), SetNumber: s.SetNumber, Reps: s.Reps, Weight: s.Weight}
	}
	return resp
}

func MapLoggedExercisesToResponse(entries []domain.LoggedExercise) []LoggedExerciseResponse {
	out := make([]LoggedExerciseResponse, len(entries))
	for i := range entries {
		out[i] = MapLoggedExerciseToResponse(&entries[i])
	}
	return out
}

func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	resp := WorkoutResponse{
		ID:              w.ID.String(),
		UserID:          w.UserID.String(),
		CreatedTime:     w.CreatedTime,
		UpdatedAt:       w.UpdatedAt,
		Notes:           w.Notes,
		SetCount:        w.SetCount(),
		LoggedExercises: MapLoggedExercisesToResponse(w.LoggedExercises),
	}
	if w.WorkoutType != nil {
		t := w.WorkoutType.String()
		resp.WorkoutType = &t
	}
	return resp
}

func MapWorkoutsToResponse(workouts []domain.Workout) []WorkoutResponse {
	out := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		out[i] = MapWorkoutToResponse(&workouts[i])
	}
	return out
}

// --- Handler Methods ---

// CreateWorkout godoc
// @Summary Log a workout
// @Description Creates a workout with its logged exercises and sets in one transaction.
// @Tags Workouts
// @Accept json
// @Produce json
// @Param workout body CreateWorkoutRequest true "Workout"
// @Success 200 {object} WorkoutResponse
// @Failure 404 {object} ErrorResponse "Unknown user or exercise"
// @Failure 422 {object} ErrorResponse
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req CreateWorkoutRequest
	if !bindJSON(c, &req) {
		return
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), service.CreateWorkoutInput{
		Username:        req.Username,
		Notes:           req.Notes,
		WorkoutType:     req.WorkoutType,
		LoggedExercises: toEntryInputs(req.LoggedExercises),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// GetWorkout godoc
// @Summary Get a workout
// @Tags Workouts
// @Produce json
// @Param id path string true "Workout ID"
// @Success 200 {object} WorkoutResponse
// @Failure 404 {object} ErrorResponse
// @Router /workouts/{id} [get]
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	workout, err := h.workoutService.GetWorkoutByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if workout == nil {
		abortWithError(c, http.StatusNotFound, string(service.KindNotFound), "workout not found")
		return
	}

	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// ListWorkouts godoc
// @Summary List workouts
// @Description With username, that user's workouts newest first. Otherwise every workout in creation order.
// @Tags Workouts
// @Produce json
// @Param username query string false "Filter by username"
// @Success 200 {array} WorkoutResponse
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	var (
		workouts []domain.Workout
		err      error
	)
	if username, ok := c.GetQuery("username"); ok {
		workouts, err = h.workoutService.ListWorkoutsByUsername(c.Request.Context(), username)
	} else {
		workouts, err = h.workoutService.ListWorkouts(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapWorkoutsToResponse(workouts))
}

// UpdateWorkout godoc
// @Summary Patch a workout
// @Description Only supplied fields change. A non-empty logged_exercises replaces all entries.
// @Tags Workouts
// @Accept json
// @Produce json
// @Param id path string true "Workout ID"
// @Param patch body UpdateWorkoutRequest true "Fields to change"
// @Success 200 {object} WorkoutResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /workouts/{id} [patch]
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateWorkoutRequest
	if !bindJSON(c, &req) {
		return
	}

	patch := service.WorkoutPatch{
		Notes:       req.Notes,
		CreatedTime: req.CreatedTime,
		WorkoutType: req.WorkoutType,
	}
	if entries, set := req.LoggedExercises.Get(); set {
		patch.LoggedExercises = domain.Some(toEntryInputs(entries))
	}

	workout, err := h.workoutService.UpdateWorkout(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// DeleteWorkout godoc
// @Summary Delete a workout with all its entries
// @Tags Workouts
// @Produce json
// @Param id path string true "Workout ID"
// @Success 200 {boolean} boolean
// @Failure 404 {object} ErrorResponse
// @Router /workouts/{id} [delete]
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	deleted, err := h.workoutService.DeleteWorkout(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		abortWithError(c, http.StatusNotFound, string(service.KindNotFound), "workout not found")
		return
	}

	c.JSON(http.StatusOK, true)
}

// ListUserWorkouts godoc
// @Summary List a user's workouts
// @Tags Workouts
// @Produce json
// @Param username path string true "Username"
// @Success 200 {array} WorkoutResponse
// @Router /users/{username}/workouts [get]
func (h *WorkoutHandler) ListUserWorkouts(c *gin.Context) {
	workouts, err := h.workoutService.ListWorkoutsByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapWorkoutsToResponse(workouts))
}

// GetLatestUserWorkout godoc
// @Summary Get a user's most recent workout
// @Description With type, the most recent workout of that type. An unknown type matches nothing.
// @Tags Workouts
// @Produce json
// @Param username path string true "Username"
// @Param type query string false "Workout type, e.g. Push"
// @Success 200 {object} WorkoutResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{username}/workouts/latest [get]
func (h *WorkoutHandler) GetLatestUserWorkout(c *gin.Context) {
	username := c.Param("username")

	var (
		workout *domain.Workout
		err     error
	)
	rawType, typed := c.GetQuery("type")
	if typed {
		workout, err = h.workoutService.GetLatestWorkoutByType(c.Request.Context(), username, rawType)
	} else {
		workout, err = h.workoutService.GetLatestWorkout(c.Request.Context(), username)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	if workout == nil {
		msg := fmt.Sprintf("no workout found for user '%s'", username)
		if typed {
			msg = fmt.Sprintf("no %s workout found for user '%s'", rawType, username)
		}
		abortWithError(c, http.StatusNotFound, string(service.KindNotFound), msg)
		return
	}

	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}
