package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wirawanawe/phc-mobile-sub004/app/models"
)

// MissionRepository is the storage boundary of the engine. Conditional
// operations carry the concurrency contract: InsertUserMission must
// reject a second active attempt for the same (user, mission) with
// ErrConflict, and the guarded updates must fail with ErrInvalidState
// when the row is no longer active, even under concurrent callers.
type MissionRepository interface {
	GetMission(id uuid.UUID) (models.Mission, error)
	ListMissions(filter models.MissionFilter) ([]models.Mission, error)
	CreateMission(m *models.Mission) error

	GetUserMission(userID, userMissionID uuid.UUID) (models.UserMission, error)
	ListUserMissions(userID uuid.UUID) ([]models.UserMissionWithMission, error)
	InsertUserMission(um *models.UserMission) error
	UpdateProgress(userID, userMissionID uuid.UUID, currentValue, progress int, now time.Time) error

	// CompleteUserMission flips the row from active to completed and
	// credits the points to the owner inside one transaction.
	CompleteUserMission(userID, userMissionID uuid.UUID, upd CompletionUpdate) error
	LatestCompletion(userID, missionID uuid.UUID) (*models.UserMission, error)
	FailUserMission(userID, userMissionID uuid.UUID, now time.Time) error
	ExpireOverdue(now time.Time) ([]models.UserMission, error)
	Stats(userID uuid.UUID) (models.MissionStats, error)
}

// PointsLedger reads the user's cumulative score. The credit side is
// written only through CompleteUserMission so the balance and the
// status transition commit together.
type PointsLedger interface {
	Balance(userID uuid.UUID) (int, error)
}

// CompletionUpdate carries every field CompleteUserMission sets on the
// row, precomputed by the service.
type CompletionUpdate struct {
	CurrentValue int
	Progress     int
	CompletedAt  time.Time
	Points       int
	Streak       int
}

type MissionService struct {
	Repo   MissionRepository
	Ledger PointsLedger
	Now    func() time.Time
}

func NewMissionService(repo MissionRepository, ledger PointsLedger) *MissionService {
	return &MissionService{Repo: repo, Ledger: ledger, Now: time.Now}
}

func (s *MissionService) ListMissions(filter models.MissionFilter) ([]models.Mission, error) {
	if filter.ActiveOnly && filter.Now.IsZero() {
		filter.Now = s.Now()
	}
	return s.Repo.ListMissions(filter)
}

func (s *MissionService) ListUserMissions(userID uuid.UUID) ([]models.UserMissionWithMission, error) {
	return s.Repo.ListUserMissions(userID)
}

// AcceptMission creates an active attempt at the mission for the user.
// The mission must exist, be active and be inside its validity window;
// a second concurrent accept of the same mission yields ErrConflict.
func (s *MissionService) AcceptMission(userID, missionID uuid.UUID, notes *string) (models.UserMission, error) {
	now := s.Now()

	mission, err := s.Repo.GetMission(missionID)
	if err != nil {
		return models.UserMission{}, err
	}
	if !missionAvailable(mission, now) {
		return models.UserMission{}, fmt.Errorf("mission %s is not active: %w", missionID, ErrNotFound)
	}

	um := models.UserMission{
		ID:           uuid.New(),
		UserID:       userID,
		MissionID:    mission.ID,
		Status:       models.UserMissionActive,
		Progress:     0,
		CurrentValue: 0,
		StartDate:    now,
		DueDate:      DueDate(mission.Type, now),
		Notes:        notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.InsertUserMission(&um); err != nil {
		return models.UserMission{}, err
	}
	return um, nil
}

// UpdateProgress records a new absolute current value. Reaching the
// target completes the attempt, credits the points exactly once and
// rolls the streak; any later call on the row yields ErrInvalidState.
func (s *MissionService) UpdateProgress(userID, userMissionID uuid.UUID, currentValue int) (models.UserMission, error) {
	if currentValue < 0 {
		return models.UserMission{}, fmt.Errorf("current_value must not be negative: %w", ErrValidation)
	}
	now := s.Now()

	um, err := s.Repo.GetUserMission(userID, userMissionID)
	if err != nil {
		return models.UserMission{}, err
	}
	if um.Status != models.UserMissionActive {
		return models.UserMission{}, fmt.Errorf("user mission is %s: %w", um.Status, ErrInvalidState)
	}

	mission, err := s.Repo.GetMission(um.MissionID)
	if err != nil {
		return models.UserMission{}, err
	}

	progress := ProgressPercent(currentValue, mission.TargetValue)

	if currentValue >= mission.TargetValue {
		streak := 1
		if prev, err := s.Repo.LatestCompletion(userID, um.MissionID); err != nil {
			return models.UserMission{}, err
		} else if prev != nil {
			streak = NextStreak(mission.Type, prev.CompletedDate, now, prev.StreakCount)
		}

		upd := CompletionUpdate{
			CurrentValue: currentValue,
			Progress:     progress,
			CompletedAt:  now,
			Points:       mission.Points,
			Streak:       streak,
		}
		if err := s.Repo.CompleteUserMission(userID, userMissionID, upd); err != nil {
			return models.UserMission{}, err
		}

		um.Status = models.UserMissionCompleted
		um.CurrentValue = currentValue
		um.Progress = progress
		um.CompletedDate = &upd.CompletedAt
		um.LastCompletedDate = &upd.CompletedAt
		um.PointsEarned = &upd.Points
		um.StreakCount = streak
		um.UpdatedAt = now
		return um, nil
	}

	if err := s.Repo.UpdateProgress(userID, userMissionID, currentValue, progress, now); err != nil {
		return models.UserMission{}, err
	}
	um.CurrentValue = currentValue
	um.Progress = progress
	um.UpdatedAt = now
	return um, nil
}

// AbandonMission marks an active attempt as failed. Completed, failed
// and expired attempts cannot be abandoned.
func (s *MissionService) AbandonMission(userID, userMissionID uuid.UUID) error {
	um, err := s.Repo.GetUserMission(userID, userMissionID)
	if err != nil {
		return err
	}
	if um.Status != models.UserMissionActive {
		return fmt.Errorf("user mission is %s: %w", um.Status, ErrInvalidState)
	}
	return s.Repo.FailUserMission(userID, userMissionID, s.Now())
}

// ExpireOverdue sweeps active attempts whose due date has elapsed into
// the expired state. Partial progress is kept for history; no points
// are credited. Returns the rows that were expired so callers can
// notify their owners.
func (s *MissionService) ExpireOverdue(now time.Time) ([]models.UserMission, error) {
	return s.Repo.ExpireOverdue(now)
}

func (s *MissionService) GetStats(userID uuid.UUID) (models.MissionStats, error) {
	stats, err := s.Repo.Stats(userID)
	if err != nil {
		return models.MissionStats{}, err
	}
	balance, err := s.Ledger.Balance(userID)
	if err != nil {
		return models.MissionStats{}, err
	}
	stats.PointsBalance = balance
	return stats, nil
}

// CreateMission seeds a catalog entry. Admin/internal use only; the
// request is validated by the controller, the window ordering here.
func (s *MissionService) CreateMission(m *models.Mission) error {
	if m.TargetValue <= 0 {
		return fmt.Errorf("target_value must be positive: %w", ErrValidation)
	}
	if m.StartDate != nil && m.EndDate != nil && m.EndDate.Before(*m.StartDate) {
		return fmt.Errorf("end_date before start_date: %w", ErrValidation)
	}
	now := s.Now()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = now
	m.UpdatedAt = now
	return s.Repo.CreateMission(m)
}

func missionAvailable(m models.Mission, now time.Time) bool {
	if !m.IsActive {
		return false
	}
	if m.StartDate != nil && now.Before(*m.StartDate) {
		return false
	}
	if m.EndDate != nil && now.After(*m.EndDate) {
		return false
	}
	return true
}
