package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"uid"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	Gender       string    `json:"gender,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	PasswordHash string    `json:"-"`
	Verified     bool      `json:"verified"`
	OTP          string    `json:"-"`
	UserRole     string    `json:"user_role"`

	// Points is the cumulative gamification balance. Written only by
	// the mission completion transaction.
	Points int `json:"points"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpdateUserRequest struct {
	Username    *string `json:"username"`
	PhoneNumber *string `json:"phone_number"`
	Gender      *string `json:"gender"`
	Avatar      *string `json:"avatar"`
}
