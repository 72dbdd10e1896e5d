package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"triance/backend/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound = RepositoryError("not found")
	// ErrConflict covers unique-key collisions and rows still referenced by a
	// foreign key.
	ErrConflict = RepositoryError("conflict")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// ExercisePatch lists the catalog columns to overwrite. Nil fields are left
// untouched.
type ExercisePatch struct {
	Name             *string
	PrimaryMuscles   *[]string
	SecondaryMuscles *[]string
	Category         **domain.WorkoutType
	Description      **string
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercises ...*domain.Exercise) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error)
	GetByName(ctx context.Context, name string) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error)
	Update(ctx context.Context, id uuid.UUID, patch ExercisePatch) (*domain.Exercise, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// WorkoutField names a scalar workout column an update may touch.
type WorkoutField string

const (
	FieldNotes       WorkoutField = "notes"
	FieldCreatedTime WorkoutField = "created_time"
	FieldWorkoutType WorkoutField = "workout_type"
)

// WorkoutUpdate carries the new state of a workout, the scalar fields to
// persist from it, and an optional replacement child collection. A nil
// Replacement leaves the existing logged exercises untouched.
type WorkoutUpdate struct {
	Workout     *domain.Workout
	Fields      []WorkoutField
	Replacement []domain.LoggedExercise
}

// WorkoutRepository persists the workout aggregate. Every write method runs
// as a single transaction covering the workout and all of its children.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error)
	GetLatestByUsername(ctx context.Context, username string) (*domain.Workout, error)
	GetLatestByUsernameAndType(ctx context.Context, username string, workoutType domain.WorkoutType) (*domain.Workout, error)
	ListByUsername(ctx context.Context, username string) ([]domain.Workout, error)
	List(ctx context.Context) ([]domain.Workout, error)
	Update(ctx context.Context, update WorkoutUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LoggedExerciseRepository manages single entries inside an existing workout.
type LoggedExerciseRepository interface {
	Append(ctx context.Context, entry *domain.LoggedExercise) error
	ListByWorkout(ctx context.Context, workoutID uuid.UUID) ([]domain.LoggedExercise, error)
	// DeleteByExercise removes every entry of the workout that references the
	// exercise and returns how many were removed.
	DeleteByExercise(ctx context.Context, workoutID, exerciseID uuid.UUID) (int64, error)
}

// TableCounts is a snapshot of row counts per table.
type TableCounts struct {
	Users              int64
	Exercises          int64
	Workouts           int64
	LoggedExercises    int64
	LoggedExerciseSets int64
	LatestUser         *domain.User
	TakenAt            time.Time
}

// StatsRepository reads store-wide metrics.
type StatsRepository interface {
	Counts(ctx context.Context) (*TableCounts, error)
}

// Store bundles every repository of one backend.
type Store struct {
	Users           UserRepository
	Exercises       ExerciseRepository
	Workouts        WorkoutRepository
	LoggedExercises LoggedExerciseRepository
	Stats           StatsRepository
	Close           func(ctx context.Context) error
}
