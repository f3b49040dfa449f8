package services

import (
	"fmt"
	"math"
	"time"

	"github.com/wirawanawe/phc-mobile-sub004/app/models"
)

// DueDate derives the deadline of an attempt from the mission cadence.
// One-time missions get a fixed 7-day grace window.
func DueDate(missionType models.MissionType, start time.Time) time.Time {
	switch missionType {
	case models.MissionDaily:
		return start.Add(24 * time.Hour)
	case models.MissionWeekly:
		return start.AddDate(0, 0, 7)
	case models.MissionMonthly:
		return start.AddDate(0, 0, 30)
	case models.MissionOneTime:
		return start.AddDate(0, 0, 7)
	}
	// mission type is validated at catalog insert, so this is a bug
	panic(fmt.Sprintf("unknown mission type %q", missionType))
}

// ProgressPercent maps a current value onto 0-100 against the target.
func ProgressPercent(currentValue, targetValue int) int {
	if targetValue <= 0 {
		return 0
	}
	p := int(math.Round(float64(currentValue) / float64(targetValue) * 100))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// cadenceDays is the maximum calendar-day gap between two completions
// that still counts as consecutive.
func cadenceDays(missionType models.MissionType) int {
	switch missionType {
	case models.MissionDaily:
		return 1
	case models.MissionWeekly:
		return 7
	case models.MissionMonthly:
		return 30
	}
	return 0
}

// NextStreak computes the streak carried by a fresh completion. The gap
// is measured in calendar days so completing late in the evening and
// early the next morning still chains for daily missions.
func NextStreak(missionType models.MissionType, lastCompleted *time.Time, completedAt time.Time, prevStreak int) int {
	cadence := cadenceDays(missionType)
	if cadence == 0 || lastCompleted == nil || prevStreak < 1 {
		return 1
	}
	prev := dateOnly(*lastCompleted)
	cur := dateOnly(completedAt)
	gap := int(cur.Sub(prev).Hours() / 24)
	if gap > 0 && gap <= cadence {
		return prevStreak + 1
	}
	return 1
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
