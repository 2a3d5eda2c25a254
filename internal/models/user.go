package models

import "time"

// User represents a member of the growth program.
// Email is stored normalized (trimmed, lowercased); the unique index applies
// to the stored value, so every read and write path must normalize first.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,email"`
	CreatedAt time.Time `json:"created_at"`
}
