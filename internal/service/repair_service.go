package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/campushub/timetable-api/internal/dto"
	"github.com/campushub/timetable-api/internal/models"
	"github.com/campushub/timetable-api/internal/timetable"
	"github.com/campushub/timetable-api/pkg/config"
	appErrors "github.com/campushub/timetable-api/pkg/errors"
)

type repairObserver interface {
	ObserveRepairPlans(count int)
	ObserveRepairApplied()
}

type publishedInvalidator interface {
	InvalidatePublished(ctx context.Context)
}

// RepairService plans, applies and undoes disruption repairs against the
// published assignment snapshot.
type RepairService struct {
	datasets    datasetLoader
	assignments assignmentStore
	planner     *timetable.Planner
	published   publishedInvalidator
	metrics     repairObserver
	validate    *validator.Validate
	logger      *zap.Logger
	cfg         config.RepairConfig
	plans       *planStore
	undo        *undoStack
}

// NewRepairService constructs a RepairService. published and metrics may be
// nil.
func NewRepairService(
	datasets datasetLoader,
	assignments assignmentStore,
	published publishedInvalidator,
	metrics repairObserver,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg config.RepairConfig,
) *RepairService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.PlanTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	depth := cfg.UndoDepth
	if depth <= 0 {
		depth = 20
	}
	return &RepairService{
		datasets:    datasets,
		assignments: assignments,
		planner:     timetable.NewPlanner(logger),
		published:   published,
		metrics:     metrics,
		validate:    validate,
		logger:      logger,
		cfg:         cfg,
		plans:       newPlanStore(ttl),
		undo:        newUndoStack(depth),
	}
}

// Plan decodes the disruption events, runs the planner against the current
// snapshot and stores the ranked plans for later application.
func (s *RepairService) Plan(ctx context.Context, req dto.PlanRepairRequest) (*dto.PlanRepairResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid repair request")
	}

	events, err := decodeEvents(req.Events)
	if err != nil {
		return nil, err
	}

	var scope *timetable.RepairScope
	if req.Scope != nil {
		scope = &timetable.RepairScope{BatchIDs: req.Scope.BatchIDs}
		for _, day := range req.Scope.Days {
			scope.Days = append(scope.Days, models.Day(day))
		}
	}

	maxPlans := req.MaxPlans
	if maxPlans <= 0 {
		maxPlans = s.cfg.MaxPlans
	}

	d, err := s.datasets.Load(ctx)
	if err != nil {
		return nil, err
	}
	assignments, err := s.assignments.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load assignments")
	}

	plans := s.planner.GenerateRepairPlans(d, assignments, events, scope, maxPlans)
	now := time.Now()
	impacted := 0
	for i := range plans {
		plans[i].ID = uuid.NewString()
		s.plans.Save(plans[i], now)
		impacted = plans[i].Delta.Impacted
	}
	if s.metrics != nil {
		s.metrics.ObserveRepairPlans(len(plans))
	}

	s.logger.Info("repair plans generated",
		zap.Int("events", len(events)),
		zap.Int("plans", len(plans)),
		zap.Int("impacted", impacted),
	)

	return &dto.PlanRepairResponse{
		Plans:     plans,
		Impacted:  impacted,
		ExpiresAt: now.Add(s.plans.ttl),
	}, nil
}

// Apply executes a stored plan, pushing the prior snapshot on the undo stack.
func (s *RepairService) Apply(ctx context.Context, planID string) (*dto.ApplyRepairResponse, error) {
	plan, ok := s.plans.Get(planID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "repair plan not found or expired")
	}

	current, err := s.assignments.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load assignments")
	}

	repaired := timetable.ApplyRepairPlan(current, plan)
	if err := s.assignments.ReplaceAll(ctx, repaired); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist repaired timetable")
	}
	s.undo.Push(current)
	s.plans.Delete(planID)
	if s.published != nil {
		s.published.InvalidatePublished(ctx)
	}
	if s.metrics != nil {
		s.metrics.ObserveRepairApplied()
	}

	d, err := s.datasets.Load(ctx)
	if err != nil {
		return nil, err
	}
	metrics := timetable.ComputeMetrics(d, timetable.AssignmentsToEntries(repaired))

	s.logger.Info("repair plan applied",
		zap.String("planId", planID),
		zap.String("strategy", plan.Strategy),
		zap.Int("moves", len(plan.Moves)),
		zap.Int("substitutions", len(plan.Substitutions)),
	)

	return &dto.ApplyRepairResponse{
		PlanID:      planID,
		Strategy:    plan.Strategy,
		Assignments: len(repaired),
		Metrics:     metrics,
		UndoDepth:   s.undo.Depth(),
	}, nil
}

// Undo restores the snapshot saved by the most recent apply.
func (s *RepairService) Undo(ctx context.Context) (*dto.UndoRepairResponse, error) {
	snapshot, ok := s.undo.Pop()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrConflict, "nothing to undo")
	}
	if err := s.assignments.ReplaceAll(ctx, snapshot); err != nil {
		s.undo.Push(snapshot)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "restore snapshot")
	}
	if s.published != nil {
		s.published.InvalidatePublished(ctx)
	}

	s.logger.Info("repair undone", zap.Int("assignments", len(snapshot)))
	return &dto.UndoRepairResponse{
		Assignments: len(snapshot),
		UndoDepth:   s.undo.Depth(),
	}, nil
}

// Substitutes ranks stand-in faculty for the course with the given code.
func (s *RepairService) Substitutes(ctx context.Context, courseCode, excludeFacultyID string) (*dto.SubstituteListResponse, error) {
	d, err := s.datasets.Load(ctx)
	if err != nil {
		return nil, err
	}
	course, ok := d.CourseByCode(courseCode)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("course code %q not found", courseCode))
	}

	candidates := timetable.RankSubstitutes(d, course.Code, excludeFacultyID)
	if candidates == nil {
		candidates = []models.SubstituteCandidate{}
	}
	return &dto.SubstituteListResponse{
		CourseCode: course.Code,
		Candidates: candidates,
	}, nil
}

// decodeEvents maps the raw polymorphic payloads onto typed events.
func decodeEvents(raw []map[string]any) ([]models.Event, error) {
	events := make([]models.Event, 0, len(raw))
	for i, item := range raw {
		var event models.Event
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &event,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build event decoder")
		}
		if err := decoder.Decode(item); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("event %d is malformed", i))
		}
		switch event.Type {
		case models.EventFacultyLeave:
			if event.FacultyID == "" {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("event %d: facultyId is required", i))
			}
		case models.EventRoomUnavailable:
			if event.RoomID == "" {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("event %d: roomId is required", i))
			}
		case models.EventCapacityChange:
			if event.RoomID == "" || event.NewCapacity <= 0 {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("event %d: roomId and a positive newCapacity are required", i))
			}
		default:
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("event %d: unknown type %q", i, event.Type))
		}
		events = append(events, normalizeEvent(event))
	}
	return events, nil
}

func normalizeEvent(e models.Event) models.Event {
	e.FacultyID = strings.ToUpper(strings.TrimSpace(e.FacultyID))
	e.RoomID = strings.ToUpper(strings.TrimSpace(e.RoomID))
	return e
}

type planStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]storedPlan
}

type storedPlan struct {
	plan     models.RepairPlan
	storedAt time.Time
}

func newPlanStore(ttl time.Duration) *planStore {
	return &planStore{
		ttl:   ttl,
		items: make(map[string]storedPlan),
	}
}

func (s *planStore) Save(plan models.RepairPlan, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[plan.ID] = storedPlan{plan: plan, storedAt: at}
}

func (s *planStore) Get(id string) (models.RepairPlan, bool) {
	s.mu.RLock()
	stored, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return models.RepairPlan{}, false
	}
	if time.Since(stored.storedAt) > s.ttl {
		s.Delete(id)
		return models.RepairPlan{}, false
	}
	return stored.plan, true
}

func (s *planStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

// undoStack holds full assignment snapshots, newest last, bounded in depth.
type undoStack struct {
	mu    sync.Mutex
	depth int
	items [][]models.Assignment
}

func newUndoStack(depth int) *undoStack {
	return &undoStack{depth: depth}
}

func (u *undoStack) Push(snapshot []models.Assignment) {
	copied := make([]models.Assignment, len(snapshot))
	copy(copied, snapshot)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.items = append(u.items, copied)
	if len(u.items) > u.depth {
		u.items = u.items[len(u.items)-u.depth:]
	}
}

func (u *undoStack) Pop() ([]models.Assignment, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.items) == 0 {
		return nil, false
	}
	snapshot := u.items[len(u.items)-1]
	u.items = u.items[:len(u.items)-1]
	return snapshot, true
}

func (u *undoStack) Depth() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.items)
}
