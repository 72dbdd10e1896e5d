package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"triance/backend/internal/service"
)

// LoggedExerciseHandler edits single entries of an existing workout.
type LoggedExerciseHandler struct {
	entryService service.LoggedExerciseService
}

func NewLoggedExerciseHandler(entryService service.LoggedExerciseService) *LoggedExerciseHandler {
	return &LoggedExerciseHandler{entryService: entryService}
}

// LogExerciseRequest identifies the exercise by exercise_id or, when that is
// absent, by exact name.
type LogExerciseRequest struct {
	ExerciseID *string      `json:"exercise_id"`
	Name       string       `json:"name"`
	Sets       []SetRequest `json:"sets"`
}

// LogExercise godoc
// @Summary Append an exercise to a workout
// @Tags LoggedExercises
// @Accept json
// @Produce json
// @Param workout_id path string true "Workout ID"
// @Param entry body LogExerciseRequest true "Exercise and sets"
// @Success 201 {object} LoggedExerciseResponse
// @Failure 404 {object} ErrorResponse "Unknown workout or exercise"
// @Failure 422 {object} ErrorResponse
// @Router /logged_exercises/{workout_id}/log [post]
func (h *LoggedExerciseHandler) LogExercise(c *gin.Context) {
	workoutID, ok := uuidParam(c, "workout_id")
	if !ok {
		return
	}
	var req LogExerciseRequest
	if !bindJSON(c, &req) {
		return
	}

	in := service.LogExerciseInput{Name: req.Name, Sets: toSetInputs(req.Sets)}
	if req.ExerciseID != nil {
		exerciseID, err := uuid.Parse(*req.ExerciseID)
		if err != nil {
			abortWithError(c, http.StatusUnprocessableEntity, string(service.KindValidation), "invalid exercise_id: must be a UUID")
			return
		}
		in.ExerciseID = &exerciseID
	}

	entry, err := h.entryService.LogExercise(c.Request.Context(), workoutID, in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapLoggedExerciseToResponse(entry))
}

// ListEntries godoc
// @Summary List a workout's logged exercises
// @Tags LoggedExercises
// @Produce json
// @Param workout_id path string true "Workout ID"
// @Success 200 {array} LoggedExerciseResponse
// @Failure 404 {object} ErrorResponse
// @Router /logged_exercises/{workout_id}/entries [get]
func (h *LoggedExerciseHandler) ListEntries(c *gin.Context) {
	workoutID, ok := uuidParam(c, "workout_id")
	if !ok {
		return
	}

	entries, err := h.entryService.ListEntries(c.Request.Context(), workoutID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapLoggedExercisesToResponse(entries))
}

// DeleteEntry godoc
// @Summary Remove an exercise from a workout
// @Description Removes every entry of the workout that logs the exercise.
// @Tags LoggedExercises
// @Produce json
// @Param workout_id path string true "Workout ID"
// @Param exercise_id path string true "Exercise ID"
// @Success 200 {boolean} boolean
// @Failure 404 {object} ErrorResponse "Logged exercise not found"
// @Router /logged_exercises/{workout_id}/entry/{exercise_id} [delete]
func (h *LoggedExerciseHandler) DeleteEntry(c *gin.Context) {
	workoutID, ok := uuidParam(c, "workout_id")
	if !ok {
		return
	}
	exerciseID, ok := uuidParam(c, "exercise_id")
	if !ok {
		return
	}

	deleted, err := h.entryService.DeleteEntry(c.Request.Context(), workoutID, exerciseID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		abortWithError(c, http.StatusNotFound, string(service.KindNotFound), "Logged exercise not found")
		return
	}

	c.JSON(http.StatusOK, true)
}
