package models

import (
	"time"

	"github.com/google/uuid"
)

type MissionType string

const (
	MissionDaily   MissionType = "daily"
	MissionWeekly  MissionType = "weekly"
	MissionMonthly MissionType = "monthly"
	MissionOneTime MissionType = "one_time"
)

type MissionDifficulty string

const (
	DifficultyEasy   MissionDifficulty = "easy"
	DifficultyMedium MissionDifficulty = "medium"
	DifficultyHard   MissionDifficulty = "hard"
)

var MissionCategories = []string{"hydration", "nutrition", "exercise", "sleep", "mental", "general"}

// Mission is a catalog entry. Rows are seeded by admins and never
// mutated by the engine.
type Mission struct {
	ID          uuid.UUID         `json:"id" db:"id"`
	Title       string            `json:"title" db:"title"`
	Description string            `json:"description,omitempty" db:"description"`
	Category    string            `json:"category" db:"category"`
	Type        MissionType       `json:"type" db:"type"`
	TargetValue int               `json:"target_value" db:"target_value"`
	Unit        *string           `json:"unit,omitempty" db:"unit"`
	Points      int               `json:"points" db:"points"`
	Difficulty  MissionDifficulty `json:"difficulty" db:"difficulty"`
	IsActive    bool              `json:"is_active" db:"is_active"`
	StartDate   *time.Time        `json:"start_date,omitempty" db:"start_date"`
	EndDate     *time.Time        `json:"end_date,omitempty" db:"end_date"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}

type CreateMissionRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category" validate:"required,oneof=hydration nutrition exercise sleep mental general"`
	Type        string  `json:"type" validate:"required,oneof=daily weekly monthly one_time"`
	TargetValue int     `json:"target_value" validate:"required,gt=0"`
	Unit        *string `json:"unit,omitempty"`
	Points      int     `json:"points" validate:"gte=0"`
	Difficulty  string  `json:"difficulty" validate:"required,oneof=easy medium hard"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
}

// MissionFilter narrows catalog listings. ActiveOnly also requires the
// validity window (when set) to contain Now.
type MissionFilter struct {
	Category   string
	ActiveOnly bool
	Now        time.Time
}
