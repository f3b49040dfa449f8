package services

import (
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wirawanawe/phc-mobile-sub004/app/models"
)

// fakeStore is an in-memory MissionRepository + PointsLedger that
// mirrors the database's conditional semantics: one active attempt per
// (user, mission) and status-guarded updates.
type fakeStore struct {
	missions     map[uuid.UUID]models.Mission
	userMissions map[uuid.UUID]models.UserMission
	balances     map[uuid.UUID]int
	creditCalls  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		missions:     make(map[uuid.UUID]models.Mission),
		userMissions: make(map[uuid.UUID]models.UserMission),
		balances:     make(map[uuid.UUID]int),
	}
}

func (f *fakeStore) GetMission(id uuid.UUID) (models.Mission, error) {
	m, ok := f.missions[id]
	if !ok {
		return models.Mission{}, fmt.Errorf("mission %s: %w", id, ErrNotFound)
	}
	return m, nil
}

func (f *fakeStore) ListMissions(filter models.MissionFilter) ([]models.Mission, error) {
	var out []models.Mission
	for _, m := range f.missions {
		if filter.Category != "" && m.Category != filter.Category {
			continue
		}
		if filter.ActiveOnly {
			if !m.IsActive {
				continue
			}
			if m.StartDate != nil && filter.Now.Before(*m.StartDate) {
				continue
			}
			if m.EndDate != nil && filter.Now.After(*m.EndDate) {
				continue
			}
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeStore) CreateMission(m *models.Mission) error {
	f.missions[m.ID] = *m
	return nil
}

func (f *fakeStore) GetUserMission(userID, userMissionID uuid.UUID) (models.UserMission, error) {
	um, ok := f.userMissions[userMissionID]
	if !ok || um.UserID != userID {
		return models.UserMission{}, fmt.Errorf("user mission %s: %w", userMissionID, ErrNotFound)
	}
	return um, nil
}

func (f *fakeStore) ListUserMissions(userID uuid.UUID) ([]models.UserMissionWithMission, error) {
	var out []models.UserMissionWithMission
	for _, um := range f.userMissions {
		if um.UserID != userID {
			continue
		}
		out = append(out, models.UserMissionWithMission{UserMission: um, Mission: f.missions[um.MissionID]})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UserMission.CreatedAt.After(out[j].UserMission.CreatedAt)
	})
	return out, nil
}

func (f *fakeStore) InsertUserMission(um *models.UserMission) error {
	for _, existing := range f.userMissions {
		if existing.UserID == um.UserID && existing.MissionID == um.MissionID && existing.Status == models.UserMissionActive {
			return fmt.Errorf("mission %s already accepted: %w", um.MissionID, ErrConflict)
		}
	}
	f.userMissions[um.ID] = *um
	return nil
}

func (f *fakeStore) UpdateProgress(userID, userMissionID uuid.UUID, currentValue, progress int, now time.Time) error {
	um, err := f.activeRow(userID, userMissionID)
	if err != nil {
		return err
	}
	um.CurrentValue = currentValue
	um.Progress = progress
	um.UpdatedAt = now
	f.userMissions[userMissionID] = um
	return nil
}

func (f *fakeStore) CompleteUserMission(userID, userMissionID uuid.UUID, upd CompletionUpdate) error {
	um, err := f.activeRow(userID, userMissionID)
	if err != nil {
		return err
	}
	um.Status = models.UserMissionCompleted
	um.CurrentValue = upd.CurrentValue
	um.Progress = upd.Progress
	completedAt := upd.CompletedAt
	um.CompletedDate = &completedAt
	um.LastCompletedDate = &completedAt
	points := upd.Points
	um.PointsEarned = &points
	um.StreakCount = upd.Streak
	um.UpdatedAt = upd.CompletedAt
	f.userMissions[userMissionID] = um

	f.balances[userID] += upd.Points
	f.creditCalls++
	return nil
}

func (f *fakeStore) LatestCompletion(userID, missionID uuid.UUID) (*models.UserMission, error) {
	var latest *models.UserMission
	for _, um := range f.userMissions {
		um := um
		if um.UserID != userID || um.MissionID != missionID || um.Status != models.UserMissionCompleted {
			continue
		}
		if latest == nil || um.CompletedDate.After(*latest.CompletedDate) {
			latest = &um
		}
	}
	return latest, nil
}

func (f *fakeStore) FailUserMission(userID, userMissionID uuid.UUID, now time.Time) error {
	um, err := f.activeRow(userID, userMissionID)
	if err != nil {
		return err
	}
	um.Status = models.UserMissionFailed
	um.UpdatedAt = now
	f.userMissions[userMissionID] = um
	return nil
}

func (f *fakeStore) ExpireOverdue(now time.Time) ([]models.UserMission, error) {
	var expired []models.UserMission
	for id, um := range f.userMissions {
		if um.Status == models.UserMissionActive && um.DueDate.Before(now) {
			um.Status = models.UserMissionExpired
			um.UpdatedAt = now
			f.userMissions[id] = um
			expired = append(expired, um)
		}
	}
	return expired, nil
}

func (f *fakeStore) Stats(userID uuid.UUID) (models.MissionStats, error) {
	s := models.MissionStats{}
	for _, um := range f.userMissions {
		if um.UserID != userID {
			continue
		}
		s.TotalMissions++
		switch um.Status {
		case models.UserMissionActive:
			s.ActiveMissions++
		case models.UserMissionCompleted:
			s.CompletedMissions++
			if um.PointsEarned != nil {
				s.TotalPointsEarned += *um.PointsEarned
			}
		}
	}
	return s, nil
}

func (f *fakeStore) Balance(userID uuid.UUID) (int, error) {
	return f.balances[userID], nil
}

func (f *fakeStore) activeRow(userID, userMissionID uuid.UUID) (models.UserMission, error) {
	um, ok := f.userMissions[userMissionID]
	if !ok || um.UserID != userID {
		return um, fmt.Errorf("user mission %s: %w", userMissionID, ErrNotFound)
	}
	if um.Status != models.UserMissionActive {
		return um, fmt.Errorf("user mission is %s: %w", um.Status, ErrInvalidState)
	}
	return um, nil
}

func newTestService(t *testing.T) (*MissionService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	svc := NewMissionService(store, store)
	svc.Now = func() time.Time { return time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC) }
	return svc, store
}

func seedMission(store *fakeStore, missionType models.MissionType, target, points int) models.Mission {
	unit := "gelas"
	m := models.Mission{
		ID:          uuid.New(),
		Title:       "Minum air",
		Category:    "hydration",
		Type:        missionType,
		TargetValue: target,
		Unit:        &unit,
		Points:      points,
		Difficulty:  models.DifficultyEasy,
		IsActive:    true,
	}
	store.missions[m.ID] = m
	return m
}

func TestAcceptMission(t *testing.T) {
	svc, store := newTestService(t)
	m := seedMission(store, models.MissionDaily, 8, 15)
	userID := uuid.New()

	um, err := svc.AcceptMission(userID, m.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, models.UserMissionActive, um.Status)
	assert.Equal(t, 0, um.Progress)
	assert.Equal(t, 0, um.CurrentValue)
	assert.Equal(t, svc.Now(), um.StartDate)
	assert.Equal(t, svc.Now().Add(24*time.Hour), um.DueDate)
	assert.Nil(t, um.PointsEarned)
}

func TestAcceptMission_MissionNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AcceptMission(uuid.New(), uuid.New(), nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAcceptMission_InactiveMission(t *testing.T) {
	svc, store := newTestService(t)
	m := seedMission(store, models.MissionDaily, 8, 15)
	m.IsActive = false
	store.missions[m.ID] = m

	_, err := svc.AcceptMission(uuid.New(), m.ID, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListMissions_ValidityWindow(t *testing.T) {
	svc, store := newTestService(t)

	open := seedMission(store, models.MissionDaily, 8, 15)

	ended := seedMission(store, models.MissionDaily, 8, 15)
	endedAt := svc.Now().AddDate(0, 0, -1)
	ended.EndDate = &endedAt
	store.missions[ended.ID] = ended

	upcoming := seedMission(store, models.MissionWeekly, 3, 50)
	startsAt := svc.Now().AddDate(0, 0, 2)
	upcoming.StartDate = &startsAt
	store.missions[upcoming.ID] = upcoming

	active, err := svc.ListMissions(models.MissionFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, open.ID, active[0].ID)

	// without the active filter the whole catalog is visible
	all, err := svc.ListMissions(models.MissionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAcceptMission_OutsideValidityWindow(t *testing.T) {
	svc, store := newTestService(t)
	m := seedMission(store, models.MissionDaily, 8, 15)
	ended := svc.Now().AddDate(0, 0, -1)
	m.EndDate = &ended
	store.missions[m.ID] = m

	_, err := svc.AcceptMission(uuid.New(), m.ID, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAcceptMission_DuplicateActive(t *testing.T) {
	svc, store := newTestService(t)
	m := seedMission(store, models.MissionDaily, 8, 15)
	userID := uuid.New()

	_, err := svc.AcceptMission(userID, m.ID, nil)
	require.NoError(t, err)

	_, err = svc.AcceptMission(userID, m.ID, nil)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUpdateProgress_Partial(t *testing.T) {
	svc, store := newTestService(t)
	m := seedMission(store, models.MissionDaily, 8, 15)
	userID := uuid.New()
	um, err := svc.AcceptMission(userID, m.ID, nil)
	require.NoError(t, err)

	updated, err := svc.UpdateProgress(userID, um.ID, 4)
	require.NoError(t, err)

	assert.Equal(t, models.UserMissionActive, updated.Status)
	assert.Equal(t, 4, updated.CurrentValue)
	assert.Equal(t, 50, updated.Progress)
	assert.Nil(t, updated.PointsEarned)

	balance, _ := store.Balance(userID)
	assert.Equal(t, 0, balance)
}

func TestUpdateProgress_CompletesAndCreditsOnce(t *testing.T) {
	svc, store := newTestService(t)
	m := seedMission(store, models.MissionDaily, 8, 15)
	userID := uuid.New()
	um, err := svc.AcceptMission(userID, m.ID, nil)
	require.NoError(t, err)

	completed, err := svc.UpdateProgress(userID, um.ID, 8)
	require.NoError(t, err)

	assert.Equal(t, models.UserMissionCompleted, completed.Status)
	assert.Equal(t, 100, completed.Progress)
	require.NotNil(t, completed.PointsEarned)
	assert.Equal(t, 15, *completed.PointsEarned)
	require.NotNil(t, completed.CompletedDate)
	assert.Equal(t, svc.Now(), *completed.CompletedDate)
	assert.Equal(t, 1, completed.StreakCount)

	balance, _ := store.Balance(userID)
	assert.Equal(t, 15, balance)
	assert.Equal(t, 1, store.creditCalls)

	// resubmitting the same value must not re-credit
	_, err = svc.UpdateProgress(userID, um.ID, 8)
	assert.ErrorIs(t, err, ErrInvalidState)

	balance, _ = store.Balance(userID)
	assert.Equal(t, 15, balance)
	assert.Equal(t, 1, store.creditCalls)
}

func TestUpdateProgress_Overshoot(t *testing.T) {
	svc, store := newTestService(t)
	m := seedMission(store, models.MissionDaily, 8, 15)
	userID := uuid.New()
	um, err := svc.AcceptMission(userID, m.ID, nil)
	require.NoError(t, err)

	completed, err := svc.UpdateProgress(userID, um.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, models.UserMissionCompleted, completed.Status)
	assert.Equal(t, 100, completed.Progress)
	assert.Equal(t, 12, completed.CurrentValue)
}

func TestUpdateProgress_NegativeValue(t *testing.T) {
	svc, store := newTestService(t)
	m := seedMission(store, models.MissionDaily, 8, 15)
	userID := uuid.New()
	um, err := svc.AcceptMission(userID, m.ID, nil)
	require.NoError(t, err)

	_, err = svc.UpdateProgress(userID, um.ID, -1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateProgress_NotFound(t *testing.T) {
	svc, store := newTestService(t)
	m := seedMission(store, models.MissionDaily, 8, 15)
	userID := uuid.New()
	um, err := svc.AcceptMission(userID, m.ID, nil)
	require.NoError(t, err)

	// wrong owner
	_, err = svc.UpdateProgress(uuid.New(), um.ID, 4)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAbandonMission(t *testing.T) {
	svc, store := newTestService(t)
	m := seedMission(store, models.MissionDaily, 8, 15)
	userID := uuid.New()
	um, err := svc.AcceptMission(userID, m.ID, nil)
	require.NoError(t, err)

	require.NoError(t, svc.AbandonMission(userID, um.ID))

	failed := store.userMissions[um.ID]
	assert.Equal(t, models.UserMissionFailed, failed.Status)
	assert.Nil(t, failed.PointsEarned)

	balance, _ := store.Balance(userID)
	assert.Equal(t, 0, balance)
}

func TestAbandonMission_AlreadyCompleted(t *testing.T) {
	svc, store := newTestService(t)
	m := seedMission(store, models.MissionDaily, 8, 15)
	userID := uuid.New()
	um, err := svc.AcceptMission(userID, m.ID, nil)
	require.NoError(t, err)

	_, err = svc.UpdateProgress(userID, um.ID, 8)
	require.NoError(t, err)

	err = svc.AbandonMission(userID, um.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStreak_AccruesAcrossAttempts(t *testing.T) {
	svc, store := newTestService(t)
	m := seedMission(store, models.MissionDaily, 8, 10)
	userID := uuid.New()

	day := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	completeOn := func(at time.Time) models.UserMission {
		svc.Now = func() time.Time { return at }
		um, err := svc.AcceptMission(userID, m.ID, nil)
		require.NoError(t, err)
		done, err := svc.UpdateProgress(userID, um.ID, 8)
		require.NoError(t, err)
		return done
	}

	first := completeOn(day)
	assert.Equal(t, 1, first.StreakCount)

	second := completeOn(day.AddDate(0, 0, 1))
	assert.Equal(t, 2, second.StreakCount)

	third := completeOn(day.AddDate(0, 0, 2))
	assert.Equal(t, 3, third.StreakCount)

	// skipping a day breaks the chain
	late := completeOn(day.AddDate(0, 0, 4))
	assert.Equal(t, 1, late.StreakCount)
}

func TestExpireOverdue(t *testing.T) {
	svc, store := newTestService(t)
	m := seedMission(store, models.MissionDaily, 8, 15)
	userID := uuid.New()
	um, err := svc.AcceptMission(userID, m.ID, nil)
	require.NoError(t, err)

	_, err = svc.UpdateProgress(userID, um.ID, 3)
	require.NoError(t, err)

	// before the due date nothing expires
	expired, err := svc.ExpireOverdue(svc.Now().Add(12 * time.Hour))
	require.NoError(t, err)
	assert.Empty(t, expired)

	expired, err = svc.ExpireOverdue(svc.Now().Add(25 * time.Hour))
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, models.UserMissionExpired, expired[0].Status)
	// partial progress survives expiry
	assert.Equal(t, 3, expired[0].CurrentValue)

	// an expired attempt can no longer be progressed
	_, err = svc.UpdateProgress(userID, um.ID, 8)
	assert.ErrorIs(t, err, ErrInvalidState)

	balance, _ := store.Balance(userID)
	assert.Equal(t, 0, balance)
}

func TestGetStats(t *testing.T) {
	svc, store := newTestService(t)
	daily := seedMission(store, models.MissionDaily, 8, 15)
	weekly := seedMission(store, models.MissionWeekly, 3, 50)
	userID := uuid.New()

	um1, err := svc.AcceptMission(userID, daily.ID, nil)
	require.NoError(t, err)
	_, err = svc.UpdateProgress(userID, um1.ID, 8)
	require.NoError(t, err)

	_, err = svc.AcceptMission(userID, weekly.ID, nil)
	require.NoError(t, err)

	stats, err := svc.GetStats(userID)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalMissions)
	assert.Equal(t, 1, stats.ActiveMissions)
	assert.Equal(t, 1, stats.CompletedMissions)
	assert.Equal(t, 15, stats.TotalPointsEarned)
	assert.Equal(t, 15, stats.PointsBalance)
}

func TestCreateMission_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.CreateMission(&models.Mission{
		Title:       "Jalan kaki",
		Category:    "exercise",
		Type:        models.MissionDaily,
		TargetValue: 0,
		Difficulty:  models.DifficultyMedium,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

// End-to-end: daily hydration mission, accept, half progress, finish.
func TestDailyHydrationScenario(t *testing.T) {
	svc, store := newTestService(t)
	m := seedMission(store, models.MissionDaily, 8, 15)
	userID := uuid.New()

	um, err := svc.AcceptMission(userID, m.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, um.StartDate.Add(24*time.Hour), um.DueDate)

	halfway, err := svc.UpdateProgress(userID, um.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 50, halfway.Progress)
	assert.Equal(t, models.UserMissionActive, halfway.Status)

	done, err := svc.UpdateProgress(userID, um.ID, 8)
	require.NoError(t, err)
	assert.Equal(t, 100, done.Progress)
	assert.Equal(t, models.UserMissionCompleted, done.Status)
	require.NotNil(t, done.PointsEarned)
	assert.Equal(t, 15, *done.PointsEarned)

	balance, _ := store.Balance(userID)
	assert.Equal(t, 15, balance)
}
