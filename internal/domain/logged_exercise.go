package domain

import (
	"github.com/google/uuid"
)

// LoggedExercise joins a Workout to a catalog Exercise and owns the sets
// performed. Position preserves the order the entries were submitted in.
type LoggedExercise struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkoutID  uuid.UUID `gorm:"type:uuid;not null;index" json:"workout_id"`
	ExerciseID uuid.UUID `gorm:"type:uuid;not null;index" json:"exercise_id"`
	Exercise   *Exercise `gorm:"foreignKey:ExerciseID;references:ID" json:"exercise,omitempty"`
	Position   int       `gorm:"not null" json:"-"`

	Sets []LoggedExerciseSet `gorm:"foreignKey:LoggedExerciseID;references:ID" json:"sets"`
}

func (LoggedExercise) TableName() string { return "logged_exercises" }

// LoggedExerciseSet is one set of a logged exercise. SetNumber is supplied by
// the caller; Position keeps input order independently of it.
type LoggedExerciseSet struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LoggedExerciseID uuid.UUID `gorm:"type:uuid;not null;index" json:"logged_exercise_id"`
	Position         int       `gorm:"not null" json:"-"`
	SetNumber        int       `gorm:"not null" json:"set_number"`
	Reps             int       `gorm:"not null" json:"reps"`
	Weight           float64   `gorm:"not null" json:"weight"`
}

func (LoggedExerciseSet) TableName() string { return "logged_exercise_sets" }
