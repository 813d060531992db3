package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campushub/timetable-api/internal/models"
)

// OfferingRepository loads the weekly teaching demand.
type OfferingRepository struct {
	db *sqlx.DB
}

// NewOfferingRepository constructs an OfferingRepository.
func NewOfferingRepository(db *sqlx.DB) *OfferingRepository {
	return &OfferingRepository{db: db}
}

// ListAll returns every offering ordered by id.
func (r *OfferingRepository) ListAll(ctx context.Context) ([]models.Offering, error) {
	const query = "SELECT id, course_id, faculty_id, batch_id, hours_per_week FROM offerings ORDER BY id"
	var offerings []models.Offering
	if err := r.db.SelectContext(ctx, &offerings, query); err != nil {
		return nil, fmt.Errorf("list offerings: %w", err)
	}
	return offerings, nil
}
