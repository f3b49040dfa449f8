package models

import (
	"time"

	"github.com/google/uuid"
)

type UserMissionStatus string

const (
	UserMissionActive    UserMissionStatus = "active"
	UserMissionCompleted UserMissionStatus = "completed"
	UserMissionFailed    UserMissionStatus = "failed"
	UserMissionExpired   UserMissionStatus = "expired"
)

// UserMission is one user's attempt at a Mission. Rows are append-only
// history: created on acceptance, mutated by progress/abandon/expiry,
// never deleted.
type UserMission struct {
	ID                uuid.UUID         `json:"id" db:"id"`
	UserID            uuid.UUID         `json:"user_id" db:"user_id"`
	MissionID         uuid.UUID         `json:"mission_id" db:"mission_id"`
	Status            UserMissionStatus `json:"status" db:"status"`
	Progress          int               `json:"progress" db:"progress"`
	CurrentValue      int               `json:"current_value" db:"current_value"`
	StartDate         time.Time         `json:"start_date" db:"start_date"`
	DueDate           time.Time         `json:"due_date" db:"due_date"`
	CompletedDate     *time.Time        `json:"completed_date,omitempty" db:"completed_date"`
	PointsEarned      *int              `json:"points_earned,omitempty" db:"points_earned"`
	StreakCount       int               `json:"streak_count" db:"streak_count"`
	LastCompletedDate *time.Time        `json:"last_completed_date,omitempty" db:"last_completed_date"`
	Notes             *string           `json:"notes,omitempty" db:"notes"`
	CreatedAt         time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" db:"updated_at"`
}

type AcceptMissionRequest struct {
	MissionID string  `json:"mission_id" validate:"required,uuid4"`
	Notes     *string `json:"notes,omitempty"`
}

type UpdateProgressRequest struct {
	UserMissionID string `json:"user_mission_id" validate:"required,uuid4"`
	CurrentValue  int    `json:"current_value" validate:"gte=0"`
}

type AbandonMissionRequest struct {
	UserMissionID string `json:"user_mission_id" validate:"required,uuid4"`
}

// View / composite structs used by controllers
type UserMissionWithMission struct {
	UserMission UserMission `json:"user_mission"`
	Mission     Mission     `json:"mission"`
}

type MissionStats struct {
	TotalMissions     int `json:"total_missions"`
	ActiveMissions    int `json:"active_missions"`
	CompletedMissions int `json:"completed_missions"`
	TotalPointsEarned int `json:"total_points_earned"`
	PointsBalance     int `json:"points_balance"`
}
