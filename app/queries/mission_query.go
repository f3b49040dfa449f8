package queries

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/wirawanawe/phc-mobile-sub004/app/models"
	"github.com/wirawanawe/phc-mobile-sub004/app/services"
)

const missionColumns = `id, title, description, category, type, target_value, unit, points, difficulty, is_active, start_date, end_date, created_at, updated_at`

type MissionQueries struct {
	DB *sql.DB
}

func (q *MissionQueries) CreateMission(m *models.Mission) error {
	query := `INSERT INTO missions (` + missionColumns + `) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`
	_, err := q.DB.Exec(query, m.ID, m.Title, m.Description, m.Category, m.Type, m.TargetValue, m.Unit, m.Points, m.Difficulty, m.IsActive, m.StartDate, m.EndDate, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("unable to create mission: %w", services.ErrUnavailable)
	}
	return nil
}

func (q *MissionQueries) GetMission(id uuid.UUID) (models.Mission, error) {
	m := models.Mission{}
	query := `SELECT ` + missionColumns + ` FROM missions WHERE id = $1`
	err := q.DB.QueryRow(query, id).Scan(
		&m.ID, &m.Title, &m.Description, &m.Category, &m.Type, &m.TargetValue,
		&m.Unit, &m.Points, &m.Difficulty, &m.IsActive, &m.StartDate, &m.EndDate,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return m, fmt.Errorf("mission %s: %w", id, services.ErrNotFound)
		}
		return m, fmt.Errorf("unable to get mission: %w", services.ErrUnavailable)
	}
	return m, nil
}

func (q *MissionQueries) ListMissions(filter models.MissionFilter) ([]models.Mission, error) {
	query := `SELECT ` + missionColumns + ` FROM missions`
	clauses := []string{}
	args := []interface{}{}
	argID := 1

	if filter.Category != "" {
		clauses = append(clauses, fmt.Sprintf("category = $%d", argID))
		args = append(args, filter.Category)
		argID++
	}
	if filter.ActiveOnly {
		clauses = append(clauses, "is_active = TRUE")
		clauses = append(clauses, fmt.Sprintf("(start_date IS NULL OR start_date <= $%d)", argID))
		args = append(args, filter.Now)
		argID++
		clauses = append(clauses, fmt.Sprintf("(end_date IS NULL OR end_date >= $%d)", argID))
		args = append(args, filter.Now)
		argID++
	}
	for i, c := range clauses {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := q.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("unable to query missions: %w", services.ErrUnavailable)
	}
	defer rows.Close()

	var missions []models.Mission
	for rows.Next() {
		var m models.Mission
		if err := rows.Scan(
			&m.ID, &m.Title, &m.Description, &m.Category, &m.Type, &m.TargetValue,
			&m.Unit, &m.Points, &m.Difficulty, &m.IsActive, &m.StartDate, &m.EndDate,
			&m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return missions, err
		}
		missions = append(missions, m)
	}
	if err := rows.Err(); err != nil {
		return missions, fmt.Errorf("unable to query missions: %w", services.ErrUnavailable)
	}
	return missions, nil
}
