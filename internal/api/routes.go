package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"triance/backend/internal/logger"
	"triance/backend/internal/service"
)

// Services bundles everything the handlers depend on.
type Services struct {
	Users           service.UserService
	Exercises       service.ExerciseService
	Workouts        service.WorkoutService
	LoggedExercises service.LoggedExerciseService
	Stats           service.StatsService
	Export          service.ExportService
}

// NewRouter builds the engine with recovery, request logging and CORS, and
// mounts every route.
func NewRouter(svc Services, allowOrigins []string, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log.With("component", "http")))
	router.Use(CORS(allowOrigins))

	SetupRoutes(router, svc)
	return router
}

func SetupRoutes(router *gin.Engine, svc Services) {
	userHandler := NewUserHandler(svc.Users)
	exerciseHandler := NewExerciseHandler(svc.Exercises)
	workoutHandler := NewWorkoutHandler(svc.Workouts)
	entryHandler := NewLoggedExerciseHandler(svc.LoggedExercises)
	statsHandler := NewStatsHandler(svc.Stats)
	exportHandler := NewExportHandler(svc.Export)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Triance API"})
	})
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		userGroup := apiV1.Group("/users")
		{
			userGroup.POST("", userHandler.CreateUser)
			userGroup.GET("", userHandler.ListUsers)
			userGroup.GET("/:username", userHandler.GetUser)
			userGroup.GET("/:username/workouts", workoutHandler.ListUserWorkouts)
			userGroup.GET("/:username/workouts/latest", workoutHandler.GetLatestUserWorkout)
			userGroup.GET("/:username/export", exportHandler.DownloadExport)
			userGroup.POST("/:username/exports", exportHandler.PublishExport)
		}

		exerciseGroup := apiV1.Group("/exercises")
		{
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.POST("/batch", exerciseHandler.CreateExercisesBatch)
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/categories", exerciseHandler.ListCategories)
			exerciseGroup.GET("/categorized", exerciseHandler.ListCategorized)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
			exerciseGroup.PATCH("/:id", exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", exerciseHandler.DeleteExercise)
		}

		workoutGroup := apiV1.Group("/workouts")
		{
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			workoutGroup.GET("/:id", workoutHandler.GetWorkout)
			workoutGroup.PATCH("/:id", workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:id", workoutHandler.DeleteWorkout)
		}

		entryGroup := apiV1.Group("/logged_exercises/:workout_id")
		{
			entryGroup.POST("/log", entryHandler.LogExercise)
			entryGroup.GET("/entries", entryHandler.ListEntries)
			entryGroup.DELETE("/entry/:exercise_id", entryHandler.DeleteEntry)
		}

		apiV1.GET("/stats", statsHandler.GetStats)
	}
}
