package service

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campushub/timetable-api/internal/dto"
	"github.com/campushub/timetable-api/internal/models"
	"github.com/campushub/timetable-api/internal/timetable"
	"github.com/campushub/timetable-api/pkg/config"
	appErrors "github.com/campushub/timetable-api/pkg/errors"
)

// publishedCacheKey is the redis key holding the live timetable view.
const publishedCacheKey = "timetable:published"

type datasetLoader interface {
	Load(ctx context.Context) (*timetable.Dataset, error)
}

type assignmentStore interface {
	ListAll(ctx context.Context) ([]models.Assignment, error)
	ReplaceAll(ctx context.Context, assignments []models.Assignment) error
}

// CacheClient is the slice of the redis client the service depends on.
type CacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type generationObserver interface {
	ObserveGeneration(strategy string, efficiency float64)
}

// TimetableService generates proposals, publishes the chosen one and serves
// the published view through a redis read-through cache.
type TimetableService struct {
	datasets    datasetLoader
	assignments assignmentStore
	cache       CacheClient
	generator   *timetable.Generator
	metrics     generationObserver
	validate    *validator.Validate
	logger      *zap.Logger
	cfg         config.SchedulerConfig
	store       *proposalStore
}

// NewTimetableService constructs a TimetableService. cache and metrics may
// be nil; caching and instrumentation are then skipped.
func NewTimetableService(
	datasets datasetLoader,
	assignments assignmentStore,
	cache CacheClient,
	metrics generationObserver,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg config.SchedulerConfig,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	ttl := cfg.ProposalTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &TimetableService{
		datasets:    datasets,
		assignments: assignments,
		cache:       cache,
		generator: timetable.NewGenerator(
			timetable.WithRand(rand.New(rand.NewSource(seed))),
			timetable.WithLogger(logger),
		),
		metrics:  metrics,
		validate: validate,
		logger:   logger,
		cfg:      cfg,
		store:    newProposalStore(ttl),
	}
}

// Generate builds one timetable per requested strategy and stores the batch
// as a proposal for later publication.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generate request")
	}

	strategies := make([]timetable.Strategy, 0, len(req.Strategies))
	for _, raw := range req.Strategies {
		strategy, err := timetable.ParseStrategy(raw)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generate request")
		}
		strategies = append(strategies, strategy)
	}
	if len(strategies) == 0 {
		strategies = timetable.Strategies()
	}

	attempts := req.Attempts
	if attempts <= 0 {
		attempts = s.cfg.MultiStartAttempts
	}
	if attempts <= 0 {
		attempts = 1
	}

	d, err := s.datasets.Load(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]dto.TimetableResult, 0, len(strategies))
	timetables := make(map[string]models.Timetable, len(strategies))
	best := ""
	bestScore := -1.0
	for _, strategy := range strategies {
		tt := s.generator.GenerateWithMultiStart(d, attempts, strategy)
		results = append(results, dto.TimetableResult{
			Timetable: tt,
			Report:    timetable.ConflictReport(d, tt.Entries),
		})
		timetables[tt.Strategy] = tt
		if tt.Metrics.EfficiencyScore > bestScore {
			best = tt.Strategy
			bestScore = tt.Metrics.EfficiencyScore
		}
		if s.metrics != nil {
			s.metrics.ObserveGeneration(tt.Strategy, tt.Metrics.EfficiencyScore)
		}
	}

	proposal := timetableProposal{
		ProposalID:  uuid.NewString(),
		Timetables:  timetables,
		RequestedAt: time.Now(),
	}
	s.store.Save(proposal)

	s.logger.Info("timetable proposal generated",
		zap.String("proposalId", proposal.ProposalID),
		zap.Int("strategies", len(strategies)),
		zap.Int("attempts", attempts),
		zap.String("best", best),
		zap.Float64("bestScore", bestScore),
	)

	return &dto.GenerateTimetableResponse{
		ProposalID:   proposal.ProposalID,
		Results:      results,
		BestStrategy: best,
		ExpiresAt:    proposal.RequestedAt.Add(s.store.ttl),
	}, nil
}

// Publish persists one strategy of a stored proposal as the live timetable.
func (s *TimetableService) Publish(ctx context.Context, proposalID string, req dto.PublishTimetableRequest) (*dto.PublishedTimetableResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid publish request")
	}

	proposal, ok := s.store.Get(proposalID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}
	tt, ok := proposal.Timetables[req.Strategy]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "strategy not part of proposal")
	}

	assignments := timetable.EntriesToAssignments(tt.Entries)
	if err := s.assignments.ReplaceAll(ctx, assignments); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist timetable")
	}
	s.store.Delete(proposalID)

	resp := &dto.PublishedTimetableResponse{
		Entries:     tt.Entries,
		Metrics:     tt.Metrics,
		PublishedAt: time.Now(),
	}
	s.cachePublished(ctx, resp)

	s.logger.Info("timetable published",
		zap.String("proposalId", proposalID),
		zap.String("strategy", req.Strategy),
		zap.Int("entries", len(tt.Entries)),
	)
	return resp, nil
}

// Published serves the live timetable, redis first, database on miss.
func (s *TimetableService) Published(ctx context.Context) (*dto.PublishedTimetableResponse, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, publishedCacheKey).Result(); err == nil {
			var resp dto.PublishedTimetableResponse
			if err := json.Unmarshal([]byte(raw), &resp); err == nil {
				return &resp, nil
			}
		}
	}

	assignments, err := s.assignments.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load published timetable")
	}
	if len(assignments) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no published timetable")
	}

	d, err := s.datasets.Load(ctx)
	if err != nil {
		return nil, err
	}
	entries := timetable.AssignmentsToEntries(assignments)
	resp := &dto.PublishedTimetableResponse{
		Entries: entries,
		Metrics: timetable.ComputeMetrics(d, entries),
	}
	s.cachePublished(ctx, resp)
	return resp, nil
}

// InvalidatePublished drops the cached view after the snapshot changes.
func (s *TimetableService) InvalidatePublished(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, publishedCacheKey).Err(); err != nil {
		s.logger.Warn("published cache invalidation failed", zap.Error(err))
	}
}

func (s *TimetableService) cachePublished(ctx context.Context, resp *dto.PublishedTimetableResponse) {
	if s.cache == nil {
		return
	}
	ttl := s.cfg.PublishedCacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, publishedCacheKey, payload, ttl).Err(); err != nil {
		s.logger.Warn("published cache write failed", zap.Error(err))
	}
}

type timetableProposal struct {
	ProposalID  string
	Timetables  map[string]models.Timetable
	RequestedAt time.Time
}

type proposalStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]timetableProposal
}

func newProposalStore(ttl time.Duration) *proposalStore {
	return &proposalStore{
		ttl:   ttl,
		items: make(map[string]timetableProposal),
	}
}

func (s *proposalStore) Save(proposal timetableProposal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[proposal.ProposalID] = proposal
}

func (s *proposalStore) Get(id string) (timetableProposal, bool) {
	s.mu.RLock()
	proposal, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return timetableProposal{}, false
	}
	if time.Since(proposal.RequestedAt) > s.ttl {
		s.Delete(id)
		return timetableProposal{}, false
	}
	return proposal, true
}

func (s *proposalStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}
