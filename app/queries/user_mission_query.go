package queries

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/wirawanawe/phc-mobile-sub004/app/models"
	"github.com/wirawanawe/phc-mobile-sub004/app/services"
)

const userMissionColumns = `id, user_id, mission_id, status, progress, current_value, start_date, due_date, completed_date, points_earned, streak_count, last_completed_date, notes, created_at, updated_at`

// UserMissionQueries implements services.MissionRepository on Postgres.
// Status transitions are guarded by `status = 'active'` in the UPDATE
// itself, and the one-active-attempt rule by the partial unique index
// uniq_user_missions_active on (user_id, mission_id) WHERE status = 'active'.
type UserMissionQueries struct {
	MissionQueries
}

func scanUserMission(row interface{ Scan(...interface{}) error }) (models.UserMission, error) {
	um := models.UserMission{}
	err := row.Scan(
		&um.ID, &um.UserID, &um.MissionID, &um.Status, &um.Progress, &um.CurrentValue,
		&um.StartDate, &um.DueDate, &um.CompletedDate, &um.PointsEarned, &um.StreakCount,
		&um.LastCompletedDate, &um.Notes, &um.CreatedAt, &um.UpdatedAt,
	)
	return um, err
}

func (q *UserMissionQueries) InsertUserMission(um *models.UserMission) error {
	query := `INSERT INTO user_missions (` + userMissionColumns + `) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`
	_, err := q.DB.Exec(query,
		um.ID, um.UserID, um.MissionID, um.Status, um.Progress, um.CurrentValue,
		um.StartDate, um.DueDate, um.CompletedDate, um.PointsEarned, um.StreakCount,
		um.LastCompletedDate, um.Notes, um.CreatedAt, um.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("mission %s already accepted: %w", um.MissionID, services.ErrConflict)
		}
		return fmt.Errorf("unable to insert user mission: %w", services.ErrUnavailable)
	}
	return nil
}

func (q *UserMissionQueries) GetUserMission(userID, userMissionID uuid.UUID) (models.UserMission, error) {
	query := `SELECT ` + userMissionColumns + ` FROM user_missions WHERE id = $1 AND user_id = $2`
	um, err := scanUserMission(q.DB.QueryRow(query, userMissionID, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return um, fmt.Errorf("user mission %s: %w", userMissionID, services.ErrNotFound)
		}
		return um, fmt.Errorf("unable to get user mission: %w", services.ErrUnavailable)
	}
	return um, nil
}

func (q *UserMissionQueries) ListUserMissions(userID uuid.UUID) ([]models.UserMissionWithMission, error) {
	query := `SELECT um.id, um.user_id, um.mission_id, um.status, um.progress, um.current_value,
			um.start_date, um.due_date, um.completed_date, um.points_earned, um.streak_count,
			um.last_completed_date, um.notes, um.created_at, um.updated_at,
			m.id, m.title, m.description, m.category, m.type, m.target_value, m.unit, m.points,
			m.difficulty, m.is_active, m.start_date, m.end_date, m.created_at, m.updated_at
		FROM user_missions um
		JOIN missions m ON m.id = um.mission_id
		WHERE um.user_id = $1
		ORDER BY um.created_at DESC`
	rows, err := q.DB.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("unable to query user missions: %w", services.ErrUnavailable)
	}
	defer rows.Close()

	var result []models.UserMissionWithMission
	for rows.Next() {
		var v models.UserMissionWithMission
		um := &v.UserMission
		m := &v.Mission
		if err := rows.Scan(
			&um.ID, &um.UserID, &um.MissionID, &um.Status, &um.Progress, &um.CurrentValue,
			&um.StartDate, &um.DueDate, &um.CompletedDate, &um.PointsEarned, &um.StreakCount,
			&um.LastCompletedDate, &um.Notes, &um.CreatedAt, &um.UpdatedAt,
			&m.ID, &m.Title, &m.Description, &m.Category, &m.Type, &m.TargetValue, &m.Unit,
			&m.Points, &m.Difficulty, &m.IsActive, &m.StartDate, &m.EndDate, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return result, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return result, fmt.Errorf("unable to query user missions: %w", services.ErrUnavailable)
	}
	return result, nil
}

func (q *UserMissionQueries) UpdateProgress(userID, userMissionID uuid.UUID, currentValue, progress int, now time.Time) error {
	query := `UPDATE user_missions SET current_value = $1, progress = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5 AND status = 'active'`
	res, err := q.DB.Exec(query, currentValue, progress, now, userMissionID, userID)
	if err != nil {
		return fmt.Errorf("unable to update progress: %w", services.ErrUnavailable)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return q.classifyMissedUpdate(userID, userMissionID)
	}
	return nil
}

// CompleteUserMission flips the row to completed and credits the
// mission points to the owner in one transaction, so the transition
// and the balance change commit together or not at all.
func (q *UserMissionQueries) CompleteUserMission(userID, userMissionID uuid.UUID, upd services.CompletionUpdate) error {
	tx, err := q.DB.Begin()
	if err != nil {
		return fmt.Errorf("unable to begin transaction: %w", services.ErrUnavailable)
	}
	defer tx.Rollback()

	query := `UPDATE user_missions SET status = 'completed', current_value = $1, progress = $2,
			completed_date = $3, last_completed_date = $3, points_earned = $4, streak_count = $5, updated_at = $3
		WHERE id = $6 AND user_id = $7 AND status = 'active'`
	res, err := tx.Exec(query, upd.CurrentValue, upd.Progress, upd.CompletedAt, upd.Points, upd.Streak, userMissionID, userID)
	if err != nil {
		return fmt.Errorf("unable to complete user mission: %w", services.ErrUnavailable)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return q.classifyMissedUpdate(userID, userMissionID)
	}

	if _, err := tx.Exec(`UPDATE users SET points = points + $1, updated_at = $2 WHERE uid = $3`, upd.Points, upd.CompletedAt, userID); err != nil {
		return fmt.Errorf("unable to credit points: %w", services.ErrUnavailable)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("unable to commit completion: %w", services.ErrUnavailable)
	}
	return nil
}

func (q *UserMissionQueries) LatestCompletion(userID, missionID uuid.UUID) (*models.UserMission, error) {
	query := `SELECT ` + userMissionColumns + ` FROM user_missions
		WHERE user_id = $1 AND mission_id = $2 AND status = 'completed'
		ORDER BY completed_date DESC LIMIT 1`
	um, err := scanUserMission(q.DB.QueryRow(query, userID, missionID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to query latest completion: %w", services.ErrUnavailable)
	}
	return &um, nil
}

func (q *UserMissionQueries) FailUserMission(userID, userMissionID uuid.UUID, now time.Time) error {
	query := `UPDATE user_missions SET status = 'failed', updated_at = $1
		WHERE id = $2 AND user_id = $3 AND status = 'active'`
	res, err := q.DB.Exec(query, now, userMissionID, userID)
	if err != nil {
		return fmt.Errorf("unable to fail user mission: %w", services.ErrUnavailable)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return q.classifyMissedUpdate(userID, userMissionID)
	}
	return nil
}

// ExpireOverdue sweeps every overdue active row to expired and returns
// the swept rows. Progress values are left as last reported.
func (q *UserMissionQueries) ExpireOverdue(now time.Time) ([]models.UserMission, error) {
	query := `UPDATE user_missions SET status = 'expired', updated_at = $1
		WHERE status = 'active' AND due_date < $1
		RETURNING ` + userMissionColumns
	rows, err := q.DB.Query(query, now)
	if err != nil {
		return nil, fmt.Errorf("unable to expire user missions: %w", services.ErrUnavailable)
	}
	defer rows.Close()

	var expired []models.UserMission
	for rows.Next() {
		um, err := scanUserMission(rows)
		if err != nil {
			return expired, err
		}
		expired = append(expired, um)
	}
	if err := rows.Err(); err != nil {
		return expired, fmt.Errorf("unable to expire user missions: %w", services.ErrUnavailable)
	}
	return expired, nil
}

func (q *UserMissionQueries) Stats(userID uuid.UUID) (models.MissionStats, error) {
	s := models.MissionStats{}
	query := `SELECT count(*),
			count(*) FILTER (WHERE status = 'active'),
			count(*) FILTER (WHERE status = 'completed'),
			COALESCE(sum(points_earned) FILTER (WHERE status = 'completed'), 0)
		FROM user_missions WHERE user_id = $1`
	err := q.DB.QueryRow(query, userID).Scan(&s.TotalMissions, &s.ActiveMissions, &s.CompletedMissions, &s.TotalPointsEarned)
	if err != nil {
		return s, fmt.Errorf("unable to query mission stats: %w", services.ErrUnavailable)
	}
	return s, nil
}

// classifyMissedUpdate tells a missing row apart from a row that is no
// longer active after a guarded UPDATE touched nothing.
func (q *UserMissionQueries) classifyMissedUpdate(userID, userMissionID uuid.UUID) error {
	var status models.UserMissionStatus
	err := q.DB.QueryRow(`SELECT status FROM user_missions WHERE id = $1 AND user_id = $2`, userMissionID, userID).Scan(&status)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("user mission %s: %w", userMissionID, services.ErrNotFound)
		}
		return fmt.Errorf("unable to get user mission: %w", services.ErrUnavailable)
	}
	return fmt.Errorf("user mission is %s: %w", status, services.ErrInvalidState)
}
