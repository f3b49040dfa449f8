package controllers

import (
	"log"
	"os"
	"time"

	"github.com/wirawanawe/phc-mobile-sub004/pkg/utils"
)

const defaultSweepInterval = 10 * time.Minute

// StartMissionExpirySweeper periodically moves overdue active user
// missions to expired and notifies their owners. Interval comes from
// MISSION_SWEEP_INTERVAL (Go duration, e.g. "5m").
func StartMissionExpirySweeper() {
	interval := defaultSweepInterval
	if env := os.Getenv("MISSION_SWEEP_INTERVAL"); env != "" {
		if d, err := time.ParseDuration(env); err == nil && d > 0 {
			interval = d
		} else {
			log.Printf("event=sweeper_bad_interval value=%q using=%s", env, defaultSweepInterval)
		}
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			expired, err := missionService().ExpireOverdue(time.Now())
			if err != nil {
				log.Printf("event=sweep_failed err=%v", err)
				continue
			}
			if len(expired) == 0 {
				continue
			}
			log.Printf("event=sweep_expired count=%d", len(expired))
			for _, um := range expired {
				utils.DefaultNotifier.NotifyEvent(um.UserID, "mission_expired", map[string]interface{}{
					"user_mission_id": um.ID,
					"mission_id":      um.MissionID,
					"due_date":        um.DueDate,
				})
			}
		}
	}()
}
