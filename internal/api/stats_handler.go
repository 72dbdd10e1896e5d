package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"triance/backend/internal/service"
)

type StatsHandler struct {
	statsService service.StatsService
}

func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

type StatsResponse struct {
	Users              int64         `json:"users"`
	Exercises          int64         `json:"exercises"`
	Workouts           int64         `json:"workouts"`
	LoggedExercises    int64         `json:"logged_exercises"`
	LoggedExerciseSets int64         `json:"logged_exercise_sets"`
	LatestUser         *UserResponse `json:"latest_user"`
	TakenAt            time.Time     `json:"taken_at"`
}

// GetStats godoc
// @Summary Row counts per table
// @Tags Stats
// @Produce json
// @Success 200 {object} StatsResponse
// @Router /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	counts, err := h.statsService.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := StatsResponse{
		Users:              counts.Users,
		Exercises:          counts.Exercises,
		Workouts:           counts.Workouts,
		LoggedExercises:    counts.LoggedExercises,
		LoggedExerciseSets: counts.LoggedExerciseSets,
		TakenAt:            counts.TakenAt,
	}
	if counts.LatestUser != nil {
		u := MapUserToResponse(counts.LatestUser)
		resp.LatestUser = &u
	}
	c.JSON(http.StatusOK, resp)
}
