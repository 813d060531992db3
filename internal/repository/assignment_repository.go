package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushub/timetable-api/internal/models"
)

// AssignmentRepository persists the published timetable as flat assignments.
// Publish, repair-apply and undo all replace the full snapshot in one
// transaction, so the table always holds exactly one consistent timetable.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ListAll returns the current assignment snapshot ordered by day and period.
func (r *AssignmentRepository) ListAll(ctx context.Context) ([]models.Assignment, error) {
	const query = `SELECT id, offering_id, course_id, faculty_id, batch_id, room_id, "day", period FROM assignments ORDER BY "day", period, room_id`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// ReplaceAll swaps the stored snapshot for the given one atomically.
// Assignments without an id get one assigned; the input slice is updated in
// place so callers see the generated ids.
func (r *AssignmentRepository) ReplaceAll(ctx context.Context, assignments []models.Assignment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace assignments: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM assignments"); err != nil {
		return fmt.Errorf("clear assignments: %w", err)
	}

	const insert = `INSERT INTO assignments (id, offering_id, course_id, faculty_id, batch_id, room_id, "day", period)
		VALUES (:id, :offering_id, :course_id, :faculty_id, :batch_id, :room_id, :day, :period)`
	for i := range assignments {
		if assignments[i].ID == "" {
			assignments[i].ID = uuid.NewString()
		}
		if _, err := tx.NamedExecContext(ctx, insert, assignments[i]); err != nil {
			return fmt.Errorf("insert assignment %s: %w", assignments[i].ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace assignments: %w", err)
	}
	return nil
}
