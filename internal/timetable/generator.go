package timetable

import (
	"math/rand"
	"sort"

	"go.uber.org/zap"

	"github.com/campushub/timetable-api/internal/models"
)

// Generator builds weekly timetables. It is stateless between calls except
// for the injected random source driving multi-start shuffles.
type Generator struct {
	rand   *rand.Rand
	logger *zap.Logger
}

// GeneratorOption customises a Generator.
type GeneratorOption func(*Generator)

// WithRand injects the shuffle entropy source. Tests pass a seeded source
// for reproducible multi-start runs.
func WithRand(r *rand.Rand) GeneratorOption {
	return func(g *Generator) { g.rand = r }
}

// WithLogger injects a structured log sink for generation tracing.
func WithLogger(l *zap.Logger) GeneratorOption {
	return func(g *Generator) { g.logger = l }
}

// NewGenerator constructs a Generator.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	if g.rand == nil {
		g.rand = rand.New(rand.NewSource(1))
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	return g
}

// Generate builds one timetable with the given strategy. Generation never
// fails: sessions that cannot be placed are reported through the metrics
// and the conflict report, not through an error.
func (g *Generator) Generate(d *Dataset, strategy Strategy) models.Timetable {
	if strategy == StrategyEnhanced {
		return g.GenerateEnhanced(d, 1)
	}
	occ := NewOccupancy()
	entries := strategyFor(strategy).Build(d, d.Offerings, occ)
	tt := models.Timetable{
		Strategy: string(strategy),
		Entries:  entries,
		Metrics:  ComputeMetrics(d, entries),
		Attempts: 1,
	}
	g.logger.Debug("timetable generated",
		zap.String("strategy", string(strategy)),
		zap.Int("entries", len(entries)),
		zap.Float64("efficiency", tt.Metrics.EfficiencyScore),
	)
	return tt
}

// GenerateWithMultiStart repeats generation with shuffled offering orders
// and keeps the attempt with the highest efficiency score. The first
// attempt runs on the unshuffled base order; ties keep the earliest find.
func (g *Generator) GenerateWithMultiStart(d *Dataset, attempts int, strategy Strategy) models.Timetable {
	if attempts < 1 {
		attempts = 1
	}
	if strategy == StrategyEnhanced {
		return g.GenerateEnhanced(d, attempts)
	}

	variant := strategyFor(strategy)
	var best models.Timetable
	for attempt := 0; attempt < attempts; attempt++ {
		offerings := g.attemptOrder(d.Offerings, attempt)
		occ := NewOccupancy()
		entries := variant.Build(d, offerings, occ)
		candidate := models.Timetable{
			Strategy: string(strategy),
			Entries:  entries,
			Metrics:  ComputeMetrics(d, entries),
		}
		if attempt == 0 || candidate.Metrics.EfficiencyScore > best.Metrics.EfficiencyScore {
			best = candidate
		}
	}
	best.Attempts = attempts
	return best
}

// GenerateEnhanced runs the multi-start loop with difficulty-ordered
// offerings, scarcity-first slot ranking and best-fit room selection.
func (g *Generator) GenerateEnhanced(d *Dataset, attempts int) models.Timetable {
	if attempts < 1 {
		attempts = 1
	}
	var best models.Timetable
	for attempt := 0; attempt < attempts; attempt++ {
		offerings := g.attemptOrder(d.Offerings, attempt)
		entries := buildEnhanced(d, offerings)
		candidate := models.Timetable{
			Strategy: string(StrategyEnhanced),
			Entries:  entries,
			Metrics:  ComputeMetrics(d, entries),
		}
		if attempt == 0 || candidate.Metrics.EfficiencyScore > best.Metrics.EfficiencyScore {
			best = candidate
		}
	}
	best.Attempts = attempts
	g.logger.Debug("enhanced generation finished",
		zap.Int("attempts", attempts),
		zap.Float64("efficiency", best.Metrics.EfficiencyScore),
	)
	return best
}

// attemptOrder returns the base offering order for one attempt: unshuffled
// on the first attempt, randomly shuffled on every later one.
func (g *Generator) attemptOrder(offerings []models.Offering, attempt int) []models.Offering {
	out := make([]models.Offering, len(offerings))
	copy(out, offerings)
	if attempt > 0 {
		g.rand.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
	}
	return out
}

// buildEnhanced places offerings hardest first. Per session, candidate
// slots are ranked by how few capacity-sufficient rooms remain free there,
// so the scarcest slots are consumed before flexible ones.
func buildEnhanced(d *Dataset, offerings []models.Offering) []models.ScheduleEntry {
	ordered := make([]models.Offering, len(offerings))
	copy(ordered, offerings)
	sort.SliceStable(ordered, func(i, j int) bool {
		return offeringDifficulty(d, ordered[i]) > offeringDifficulty(d, ordered[j])
	})

	occ := NewOccupancy()
	var entries []models.ScheduleEntry
	for _, o := range ordered {
		for placed := 0; placed < o.HoursPerWeek; placed++ {
			slot, room := scarcestSlot(d, occ, o)
			if room == nil {
				break
			}
			entries = append(entries, commitEntry(occ, o, *slot, room.ID))
		}
	}
	return entries
}

// offeringDifficulty scores how hard an offering is to place. Offerings with
// few fitting rooms, loaded faculty or many weekly hours sort first.
func offeringDifficulty(d *Dataset, o models.Offering) float64 {
	available := len(d.SuitableRooms(o.BatchID))
	if available < 1 {
		available = 1
	}
	return 1.0/float64(available) + facultyCurrentLoad(d, o.FacultyID)*0.3 + float64(o.HoursPerWeek)*0.2
}

// facultyCurrentLoad is an extension point for a live per-faculty load feed.
// No such feed exists, so the difficulty term it drives is currently inert.
func facultyCurrentLoad(_ *Dataset, _ string) float64 {
	return 0
}

// scarcestSlot finds the conflict-free slot with the fewest free fitting
// rooms, together with the best-fit room there. Ties keep grid order.
func scarcestSlot(d *Dataset, occ *Occupancy, o models.Offering) (*models.TimeSlot, *models.Room) {
	var bestSlot *models.TimeSlot
	var bestRoom *models.Room
	bestCount := 0
	for i := range d.Slots {
		slot := &d.Slots[i]
		if occ.IsBusy(slot.ID, FacultyTag(o.FacultyID)) || occ.IsBusy(slot.ID, BatchTag(o.BatchID)) {
			continue
		}
		count := 0
		var first *models.Room
		for _, room := range d.SuitableRooms(o.BatchID) {
			if occ.IsBusy(slot.ID, RoomTag(room.ID)) {
				continue
			}
			if first == nil {
				first = room
			}
			count++
		}
		if count == 0 {
			continue
		}
		if bestSlot == nil || count < bestCount {
			bestSlot = slot
			bestRoom = first
			bestCount = count
		}
	}
	return bestSlot, bestRoom
}
