package queries

import (
	"database/sql"
	"time"

	"github.com/wirawanawe/phc-mobile-sub004/app/models"
)

// GetAllEducations retrieves all educations ordered by created_at desc
func GetAllEducations(db *sql.DB, category string) ([]models.Education, error) {
	query := `SELECT id, title, subtitle, video_url, duration, author, description, category, created_at FROM educations`
	args := []interface{}{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var eds []models.Education
	for rows.Next() {
		var e models.Education
		var createdAt time.Time
		if err := rows.Scan(&e.ID, &e.Title, &e.Subtitle, &e.VideoURL, &e.Duration, &e.Author, &e.Description, &e.Category, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt = createdAt
		eds = append(eds, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return eds, nil
}
