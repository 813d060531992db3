package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/campushub/timetable-api/internal/models"
	"github.com/campushub/timetable-api/internal/timetable"
	appErrors "github.com/campushub/timetable-api/pkg/errors"
)

type roomSource interface {
	ListAll(ctx context.Context) ([]models.Room, error)
}

type facultySource interface {
	ListAll(ctx context.Context) ([]models.Faculty, error)
}

type courseSource interface {
	ListAll(ctx context.Context) ([]models.Course, error)
}

type batchSource interface {
	ListAll(ctx context.Context) ([]models.Batch, error)
}

type offeringSource interface {
	ListAll(ctx context.Context) ([]models.Offering, error)
}

// DatasetService assembles and validates the scheduling dataset from the
// entity repositories.
type DatasetService struct {
	rooms     roomSource
	faculty   facultySource
	courses   courseSource
	batches   batchSource
	offerings offeringSource
	logger    *zap.Logger
}

// NewDatasetService constructs a DatasetService.
func NewDatasetService(
	rooms roomSource,
	faculty facultySource,
	courses courseSource,
	batches batchSource,
	offerings offeringSource,
	logger *zap.Logger,
) *DatasetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DatasetService{
		rooms:     rooms,
		faculty:   faculty,
		courses:   courses,
		batches:   batches,
		offerings: offerings,
		logger:    logger,
	}
}

// Load reads all five collections and builds a validated dataset. Validation
// failures return 422 with the full problem list so operators can fix the
// data in one pass.
func (s *DatasetService) Load(ctx context.Context) (*timetable.Dataset, error) {
	rooms, err := s.rooms.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load rooms")
	}
	faculty, err := s.faculty.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load faculty")
	}
	courses, err := s.courses.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load courses")
	}
	batches, err := s.batches.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load batches")
	}
	offerings, err := s.offerings.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load offerings")
	}

	d, err := timetable.NewDataset(rooms, faculty, courses, batches, offerings)
	if err != nil {
		var verr *timetable.ValidationError
		if errors.As(err, &verr) {
			s.logger.Warn("dataset rejected", zap.Int("problems", len(verr.Problems)))
			return nil, appErrors.WithDetails(appErrors.ErrDatasetInvalid, verr.Problems)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "assemble dataset")
	}

	s.logger.Debug("dataset loaded",
		zap.Int("rooms", len(rooms)),
		zap.Int("faculty", len(faculty)),
		zap.Int("offerings", len(offerings)),
	)
	return d, nil
}
