package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"triance/backend/internal/domain"
	"triance/backend/internal/service"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreateExerciseRequest defines the expected JSON for creating an exercise.
type CreateExerciseRequest struct {
	Name             string   `json:"name"`
	PrimaryMuscles   []string `json:"primary_muscles"`
	SecondaryMuscles []string `json:"secondary_muscles"`
	Category         *string  `json:"category"` // one of the workout types, e.g. "Push"
	Description      *string  `json:"description"`
}

// UpdateExerciseRequest is a sparse patch: absent keys are left untouched,
// an explicit null clears category or description.
type UpdateExerciseRequest struct {
	Name             domain.Optional[string]   `json:"name"`
	PrimaryMuscles   domain.Optional[[]string] `json:"primary_muscles"`
	SecondaryMuscles domain.Optional[[]string] `json:"secondary_muscles"`
	Category         domain.Optional[*string]  `json:"category"`
	Description      domain.Optional[*string]  `json:"description"`
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	PrimaryMuscles   []string  `json:"primary_muscles"`
	SecondaryMuscles []string  `json:"secondary_muscles"`
	Category         *string   `json:"category"`
	Description      *string   `json:"description"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CategoryGroupResponse is one bucket of GET /exercises/categorized.
type CategoryGroupResponse struct {
	Category  string             `json:"category"`
	Exercises []ExerciseResponse `json:"exercises"`
}

func (r CreateExerciseRequest) toInput() service.ExerciseInput {
	return service.ExerciseInput{
		Name:             r.Name,
		PrimaryMuscles:   r.PrimaryMuscles,
		SecondaryMuscles: r.SecondaryMuscles,
		Category:         r.Category,
		Description:      r.Description,
	}
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	resp := ExerciseResponse{
		ID:               ex.ID.String(),
		Name:             ex.Name,
		PrimaryMuscles:   nonNilStrings(ex.PrimaryMuscles),
		SecondaryMuscles: nonNilStrings(ex.SecondaryMuscles),
		Description:      ex.Description,
		CreatedAt:        ex.CreatedAt,
		UpdatedAt:        ex.UpdatedAt,
	}
	if ex.Category != nil {
		category := ex.Category.String()
		resp.Category = &category
	}
	return resp
}

// MapExercisesToResponse converts a slice of domain.Exercise to a slice of ExerciseResponse DTO.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

// --- Handler Methods ---

// CreateExercise godoc
// @Summary Create a new exercise
// @Description Adds an exercise to the catalog. Names are unique.
// @Tags Exercises
// @Accept json
// @Produce json
// @Param exercise body CreateExerciseRequest true "Exercise details"
// @Success 201 {object} ExerciseResponse "Exercise created successfully"
// @Failure 400 {object} ErrorResponse "Malformed JSON"
// @Failure 409 {object} ErrorResponse "Name already taken"
// @Failure 422 {object} ErrorResponse "Validation error"
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req CreateExerciseRequest
	if !bindJSON(c, &req) {
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

// CreateExercisesBatch godoc
// @Summary Create several exercises at once
// @Description Inserts every exercise or none of them.
// @Tags Exercises
// @Accept json
// @Produce json
// @Param exercises body []CreateExerciseRequest true "Exercises"
// @Success 201 {array} ExerciseResponse
// @Failure 409 {object} ErrorResponse "A name is already taken or repeated"
// @Failure 422 {object} ErrorResponse "Validation error"
// @Router /exercises/batch [post]
func (h *ExerciseHandler) CreateExercisesBatch(c *gin.Context) {
	var req []CreateExerciseRequest
	if !bindJSON(c, &req) {
		return
	}

	inputs := make([]service.ExerciseInput, len(req))
	for i, r := range req {
		inputs[i] = r.toInput()
	}
	exercises, err := h.exerciseService.CreateExercises(c.Request.Context(), inputs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapExercisesToResponse(exercises))
}

// ListExercises godoc
// @Summary List the exercise catalog
// @Tags Exercises
// @Produce json
// @Success 200 {array} ExerciseResponse "List of exercises"
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.exerciseService.ListExercises(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// ListCategories godoc
// @Summary List the exercise categories
// @Tags Exercises
// @Produce json
// @Success 200 {array} string
// @Router /exercises/categories [get]
func (h *ExerciseHandler) ListCategories(c *gin.Context) {
	types := h.exerciseService.Categories()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	c.JSON(http.StatusOK, names)
}

// ListCategorized godoc
// @Summary List exercises grouped by category
// @Description Groups follow the category order; uncategorized exercises come last.
// @Tags Exercises
// @Produce json
// @Success 200 {array} CategoryGroupResponse
// @Router /exercises/categorized [get]
func (h *ExerciseHandler) ListCategorized(c *gin.Context) {
	groups, err := h.exerciseService.CategorizedExercises(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]CategoryGroupResponse, len(groups))
	for i, g := range groups {
		resp[i] = CategoryGroupResponse{Category: g.Category, Exercises: MapExercisesToResponse(g.Exercises)}
	}
	c.JSON(http.StatusOK, resp)
}

// GetExercise godoc
// @Summary Get one exercise
// @Tags Exercises
// @Produce json
// @Param id path string true "Exercise ID"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} ErrorResponse
// @Router /exercises/{id} [get]
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	exercise, err := h.exerciseService.GetExerciseByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// UpdateExercise godoc
// @Summary Patch an exercise
// @Tags Exercises
// @Accept json
// @Produce json
// @Param id path string true "Exercise ID"
// @Param patch body UpdateExerciseRequest true "Fields to change"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Name already taken"
// @Failure 422 {object} ErrorResponse
// @Router /exercises/{id} [patch]
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateExerciseRequest
	if !bindJSON(c, &req) {
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), id, service.ExercisePatch{
		Name:             req.Name,
		PrimaryMuscles:   req.PrimaryMuscles,
		SecondaryMuscles: req.SecondaryMuscles,
		Category:         req.Category,
		Description:      req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// DeleteExercise godoc
// @Summary Delete an exercise
// @Description Refused while any workout still logs the exercise.
// @Tags Exercises
// @Produce json
// @Param id path string true "Exercise ID"
// @Success 200 {boolean} boolean
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Exercise still referenced"
// @Router /exercises/{id} [delete]
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	deleted, err := h.exerciseService.DeleteExercise(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		abortWithError(c, http.StatusNotFound, string(service.KindNotFound), "exercise not found")
		return
	}

	c.JSON(http.StatusOK, true)
}
