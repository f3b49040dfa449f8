package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wirawanawe/phc-mobile-sub004/app/models"
)

func TestDueDate(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		missionType models.MissionType
		want        time.Time
	}{
		{models.MissionDaily, start.Add(24 * time.Hour)},
		{models.MissionWeekly, start.AddDate(0, 0, 7)},
		{models.MissionMonthly, start.AddDate(0, 0, 30)},
		{models.MissionOneTime, start.AddDate(0, 0, 7)},
	}
	for _, tt := range tests {
		got := DueDate(tt.missionType, start)
		assert.Equal(t, tt.want, got, "type %s", tt.missionType)
	}
}

func TestDueDate_UnknownTypePanics(t *testing.T) {
	assert.Panics(t, func() {
		DueDate(models.MissionType("yearly"), time.Now())
	})
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		current, target, want int
	}{
		{0, 8, 0},
		{4, 8, 50},
		{8, 8, 100},
		{5, 10, 50},
		{10000, 10000, 100},
		{12, 8, 100},
		{1, 3, 33},
		{2, 3, 67},
		{-5, 10, 0},
		{5, 0, 0},
	}
	for _, tt := range tests {
		got := ProgressPercent(tt.current, tt.target)
		assert.Equal(t, tt.want, got, "%d/%d", tt.current, tt.target)
	}
}

func TestNextStreak_FirstCompletion(t *testing.T) {
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, NextStreak(models.MissionDaily, nil, now, 0))
}

func TestNextStreak_ConsecutiveDaily(t *testing.T) {
	// late evening then early next morning still chains
	prev := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 11, 7, 0, 0, 0, time.UTC)
	assert.Equal(t, 4, NextStreak(models.MissionDaily, &prev, now, 3))
}

func TestNextStreak_MissedDailyCycle(t *testing.T) {
	prev := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, NextStreak(models.MissionDaily, &prev, now, 5))
}

func TestNextStreak_SameDayDoesNotChain(t *testing.T) {
	prev := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, NextStreak(models.MissionDaily, &prev, now, 5))
}

func TestNextStreak_Weekly(t *testing.T) {
	prev := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)

	within := prev.AddDate(0, 0, 7)
	assert.Equal(t, 3, NextStreak(models.MissionWeekly, &prev, within, 2))

	missed := prev.AddDate(0, 0, 8)
	assert.Equal(t, 1, NextStreak(models.MissionWeekly, &prev, missed, 2))
}

func TestNextStreak_Monthly(t *testing.T) {
	prev := time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)

	within := prev.AddDate(0, 0, 30)
	assert.Equal(t, 2, NextStreak(models.MissionMonthly, &prev, within, 1))

	missed := prev.AddDate(0, 0, 31)
	assert.Equal(t, 1, NextStreak(models.MissionMonthly, &prev, missed, 1))
}

func TestNextStreak_OneTimeNeverChains(t *testing.T) {
	prev := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	now := prev.AddDate(0, 0, 1)
	assert.Equal(t, 1, NextStreak(models.MissionOneTime, &prev, now, 4))
}
