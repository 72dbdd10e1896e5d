package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that owns workouts. Username and email are unique.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email     string    `gorm:"size:191;not null;uniqueIndex" json:"email"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (User) TableName() string { return "users" }
