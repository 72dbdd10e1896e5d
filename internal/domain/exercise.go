// internal/domain/exercise.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Exercise represents a single movement definition in the catalog.
// Name is unique across the catalog.
type Exercise struct {
	ID               uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string                      `gorm:"size:128;not null;uniqueIndex" json:"name"`
	PrimaryMuscles   datatypes.JSONSlice[string] `json:"primary_muscles"`
	SecondaryMuscles datatypes.JSONSlice[string] `json:"secondary_muscles,omitempty"`
	Category         *WorkoutType                `gorm:"size:32;index" json:"category,omitempty"`
	Description      *string                     `gorm:"type:text" json:"description,omitempty"`
	CreatedAt        time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time                   `gorm:"not null" json:"updated_at"`
}

func (Exercise) TableName() string { return "exercises" }
