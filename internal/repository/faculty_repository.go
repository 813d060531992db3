package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campushub/timetable-api/internal/models"
)

// FacultyRepository loads teaching staff together with their preferred slots.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository constructs a FacultyRepository.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

// ListAll returns every faculty member ordered by id, preferred slot tokens
// attached from the side table.
func (r *FacultyRepository) ListAll(ctx context.Context) ([]models.Faculty, error) {
	const query = "SELECT id, name, department FROM faculty ORDER BY id"
	var faculty []models.Faculty
	if err := r.db.SelectContext(ctx, &faculty, query); err != nil {
		return nil, fmt.Errorf("list faculty: %w", err)
	}

	const prefQuery = "SELECT faculty_id, slot_id FROM faculty_preferred_slots ORDER BY faculty_id, slot_id"
	rows, err := r.db.QueryxContext(ctx, prefQuery)
	if err != nil {
		return nil, fmt.Errorf("list faculty preferences: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	preferred := make(map[string][]string)
	for rows.Next() {
		var facultyID, slotID string
		if err := rows.Scan(&facultyID, &slotID); err != nil {
			return nil, fmt.Errorf("scan faculty preference: %w", err)
		}
		preferred[facultyID] = append(preferred[facultyID], slotID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate faculty preferences: %w", err)
	}

	for i := range faculty {
		faculty[i].Preferred = preferred[faculty[i].ID]
	}
	return faculty, nil
}
