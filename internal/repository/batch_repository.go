package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campushub/timetable-api/internal/models"
)

// BatchRepository loads student cohorts.
type BatchRepository struct {
	db *sqlx.DB
}

// NewBatchRepository constructs a BatchRepository.
func NewBatchRepository(db *sqlx.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// ListAll returns every batch ordered by id.
func (r *BatchRepository) ListAll(ctx context.Context) ([]models.Batch, error) {
	const query = `SELECT id, name, "size", department, "year", semester FROM batches ORDER BY id`
	var batches []models.Batch
	if err := r.db.SelectContext(ctx, &batches, query); err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return batches, nil
}
