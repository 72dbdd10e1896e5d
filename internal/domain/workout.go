package domain

import (
	"time"

	"github.com/google/uuid"
)

// Workout is the aggregate root: a session owned by one user together with
// the logged exercises (and their sets) it exclusively owns.
type Workout struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *User        `gorm:"foreignKey:UserID;references:ID" json:"-"`
	CreatedTime time.Time    `gorm:"not null;index" json:"created_time"`
	Notes       *string      `gorm:"type:text" json:"notes"`
	WorkoutType *WorkoutType `gorm:"size:32;index" json:"workout_type"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`

	LoggedExercises []LoggedExercise `gorm:"foreignKey:WorkoutID;references:ID" json:"logged_exercises"`
}

func (Workout) TableName() string { return "workouts" }

// SetCount is the number of sets across all logged exercises.
func (w *Workout) SetCount() int {
	n := 0
	for _, le := range w.LoggedExercises {
		n += len(le.Sets)
	}
	return n
}
