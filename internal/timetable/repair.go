package timetable

import (
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/campushub/timetable-api/internal/models"
)

// Candidate cost model. Room swaps are cheapest at candidate level, faculty
// substitutions price in affinity, time moves price in distance.
const (
	costRoomSwap        = 10.0
	costFacultyAffinity = 100.0
	costFacultySameDept = 200.0
	costFacultyOther    = 300.0
	costTimeBase        = 50.0
	costTimePerPeriod   = 5.0
	costTimePerDay      = 10.0

	// Time candidates scan periods 1..8 even though the teaching grid has
	// seven; period 8 is an overflow row some datasets reserve.
	maxRepairPeriod = 8
)

// Plan score weights. Unresolved impacted assignments dominate everything.
const (
	scoreUnresolved   = 1000.0
	scoreMove         = 50.0
	scoreSubstitution = 20.0
	scoreRoomChange   = 10.0
	scoreTimeChange   = 5.0
)

// DefaultPlanLimit bounds the ranked plan list when the caller passes k <= 0.
const DefaultPlanLimit = 5

// Repair plan strategies.
const (
	PlanRoomFirst         = "room-first"
	PlanFacultyFirst      = "faculty-first"
	PlanTimeFirst         = "time-first"
	PlanMinimalDisruption = "minimal-disruption"
)

// RepairScope optionally narrows which assignments an event set may impact.
type RepairScope struct {
	BatchIDs []string
	Days     []models.Day
}

func (s *RepairScope) admits(a models.Assignment) bool {
	if s == nil {
		return true
	}
	if len(s.BatchIDs) > 0 && !lo.Contains(s.BatchIDs, a.BatchID) {
		return false
	}
	if len(s.Days) > 0 && !lo.Contains(s.Days, a.Day) {
		return false
	}
	return true
}

// Planner computes ranked repair plans for disruption events. Stateless; a
// pure function of its inputs apart from trace logging.
type Planner struct {
	logger *zap.Logger
}

// NewPlanner constructs a Planner. A nil logger falls back to a no-op sink.
func NewPlanner(logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{logger: logger}
}

// GenerateRepairPlans finds the assignments impacted by the events, builds
// candidate repairs under four strategies and returns the k cheapest plans,
// ascending by disruption score. Zero impacted assignments is a legitimate
// no-op and yields an empty list.
func (p *Planner) GenerateRepairPlans(
	d *Dataset,
	assignments []models.Assignment,
	events []models.Event,
	scope *RepairScope,
	k int,
) []models.RepairPlan {
	if k <= 0 {
		k = DefaultPlanLimit
	}

	impacted := impactedAssignments(d, assignments, events, scope)
	p.logger.Debug("repair impact detected",
		zap.Int("assignments", len(assignments)),
		zap.Int("events", len(events)),
		zap.Int("impacted", len(impacted)),
	)
	if len(impacted) == 0 {
		return []models.RepairPlan{}
	}

	ctx := newRepairContext(d, assignments, events, impacted)

	var plans []models.RepairPlan
	for _, strategy := range []string{PlanRoomFirst, PlanFacultyFirst, PlanTimeFirst, PlanMinimalDisruption} {
		if plan, ok := ctx.assemble(strategy); ok {
			plans = append(plans, plan)
		}
	}

	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].Score < plans[j].Score
	})
	if len(plans) > k {
		plans = plans[:k]
	}
	p.logger.Debug("repair plans ranked", zap.Int("plans", len(plans)))
	return plans
}

// impactedAssignments returns the indexes of assignments invalidated by any
// event, deduplicated, in assignment order.
func impactedAssignments(d *Dataset, assignments []models.Assignment, events []models.Event, scope *RepairScope) []int {
	var impacted []int
	for idx, a := range assignments {
		if !scope.admits(a) {
			continue
		}
		for _, e := range events {
			if eventImpacts(d, e, a) {
				impacted = append(impacted, idx)
				break
			}
		}
	}
	return impacted
}

func eventImpacts(d *Dataset, e models.Event, a models.Assignment) bool {
	switch e.Type {
	case models.EventFacultyLeave:
		return a.FacultyID == e.FacultyID && restrictionMatches(e, a)
	case models.EventRoomUnavailable:
		return a.RoomID == e.RoomID && restrictionMatches(e, a)
	case models.EventCapacityChange:
		if a.RoomID != e.RoomID || !restrictionMatches(e, a) {
			return false
		}
		batch, ok := d.Batch(a.BatchID)
		return ok && batch.Size > e.NewCapacity
	}
	return false
}

func restrictionMatches(e models.Event, a models.Assignment) bool {
	if len(e.Days) > 0 && !lo.Contains(e.Days, a.Day) {
		return false
	}
	if len(e.Periods) > 0 && !lo.Contains(e.Periods, a.Period) {
		return false
	}
	return true
}

// repairContext carries the shared candidate-generation state for one
// planning request.
type repairContext struct {
	d           *Dataset
	assignments []models.Assignment
	events      []models.Event
	impacted    []int
	base        *Occupancy
}

func newRepairContext(d *Dataset, assignments []models.Assignment, events []models.Event, impacted []int) *repairContext {
	impactedSet := make(map[int]struct{}, len(impacted))
	for _, idx := range impacted {
		impactedSet[idx] = struct{}{}
	}

	// The base occupancy holds every assignment that stays put. Impacted
	// assignments are excluded: their old position is being vacated.
	base := NewOccupancy()
	for idx, a := range assignments {
		if _, hit := impactedSet[idx]; hit {
			continue
		}
		base.MarkBusy(a.SlotKey(), RoomTag(a.RoomID), FacultyTag(a.FacultyID), BatchTag(a.BatchID))
	}

	// Resources struck by events are unusable at the restricted slots.
	for _, e := range events {
		switch e.Type {
		case models.EventFacultyLeave:
			markEventBusy(base, e, FacultyTag(e.FacultyID))
		case models.EventRoomUnavailable:
			markEventBusy(base, e, RoomTag(e.RoomID))
		}
	}

	return &repairContext{
		d:           d,
		assignments: assignments,
		events:      events,
		impacted:    impacted,
		base:        base,
	}
}

func markEventBusy(occ *Occupancy, e models.Event, tag string) {
	days := e.Days
	if len(days) == 0 {
		days = models.Weekdays
	}
	periods := e.Periods
	if len(periods) == 0 {
		for p := 1; p <= maxRepairPeriod; p++ {
			periods = append(periods, p)
		}
	}
	for _, day := range days {
		for _, period := range periods {
			occ.MarkBusy(models.SlotID(day, period), tag)
		}
	}
}

// effectiveCapacity applies capacity-change events on top of the room's
// static capacity.
func (c *repairContext) effectiveCapacity(roomID string) int {
	capacity := 0
	if room, ok := c.d.Room(roomID); ok {
		capacity = room.Capacity
	}
	for _, e := range c.events {
		if e.Type == models.EventCapacityChange && e.RoomID == roomID && e.NewCapacity < capacity {
			capacity = e.NewCapacity
		}
	}
	return capacity
}

type candidate struct {
	move *models.RepairMove
	sub  *models.FacultySubstitution
	cost float64
}

// roomCandidate keeps day, slot and faculty and scans other rooms in id
// order. All room swaps cost the same, so the first fitting room wins.
func (c *repairContext) roomCandidate(a models.Assignment, occ *Occupancy) *candidate {
	batch, ok := c.d.Batch(a.BatchID)
	if !ok {
		return nil
	}
	// The slot is unchanged, so faculty and batch must still be free there.
	if occ.IsBusy(a.SlotKey(), FacultyTag(a.FacultyID)) || occ.IsBusy(a.SlotKey(), BatchTag(a.BatchID)) {
		return nil
	}
	rooms := make([]models.Room, len(c.d.Rooms))
	copy(rooms, c.d.Rooms)
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })

	slotID := a.SlotKey()
	for _, room := range rooms {
		if room.ID == a.RoomID {
			continue
		}
		if c.effectiveCapacity(room.ID) < batch.Size {
			continue
		}
		if occ.IsBusy(slotID, RoomTag(room.ID)) {
			continue
		}
		return &candidate{
			cost: costRoomSwap,
			move: &models.RepairMove{
				OfferingID: a.OfferingID,
				CourseID:   a.CourseID,
				BatchID:    a.BatchID,
				From:       models.Placement{Day: a.Day, Period: a.Period, RoomID: a.RoomID, FacultyID: a.FacultyID},
				To:         models.Placement{Day: a.Day, Period: a.Period, RoomID: room.ID, FacultyID: a.FacultyID},
				Cost:       costRoomSwap,
			},
		}
	}
	return nil
}

// facultyCandidate keeps day, slot and room and swaps the teacher. Faculty
// with prior history on the course rank by affinity; otherwise any free
// faculty qualifies at a flat department-dependent cost.
func (c *repairContext) facultyCandidate(a models.Assignment, occ *Occupancy) *candidate {
	course, ok := c.d.Course(a.CourseID)
	if !ok {
		return nil
	}
	slotID := a.SlotKey()
	// Slot and room are unchanged: both must still be viable.
	if occ.IsBusy(slotID, RoomTag(a.RoomID)) || occ.IsBusy(slotID, BatchTag(a.BatchID)) {
		return nil
	}
	if batch, ok := c.d.Batch(a.BatchID); ok && c.effectiveCapacity(a.RoomID) < batch.Size {
		return nil
	}

	teachesExact := make(map[string]struct{})
	for _, o := range c.d.Offerings {
		if o.CourseID == course.ID {
			teachesExact[o.FacultyID] = struct{}{}
		}
	}

	var pool []candidate
	for _, ranked := range RankSubstitutes(c.d, course.Code, a.FacultyID) {
		if occ.IsBusy(slotID, FacultyTag(ranked.FacultyID)) {
			continue
		}
		if _, ok := teachesExact[ranked.FacultyID]; !ok {
			continue
		}
		cost := math.Max(0, costFacultyAffinity-float64(ranked.Score))
		pool = append(pool, candidate{
			cost: cost,
			sub: &models.FacultySubstitution{
				OfferingID:    a.OfferingID,
				CourseID:      a.CourseID,
				Day:           a.Day,
				Period:        a.Period,
				RoomID:        a.RoomID,
				FromFacultyID: a.FacultyID,
				ToFacultyID:   ranked.FacultyID,
				Cost:          cost,
			},
		})
	}

	if len(pool) == 0 {
		department := c.d.CourseDepartment(course.ID)
		for _, f := range c.d.Faculty {
			if f.ID == a.FacultyID {
				continue
			}
			if occ.IsBusy(slotID, FacultyTag(f.ID)) {
				continue
			}
			cost := costFacultyOther
			if department != "" && f.Department == department {
				cost = costFacultySameDept
			}
			pool = append(pool, candidate{
				cost: cost,
				sub: &models.FacultySubstitution{
					OfferingID:    a.OfferingID,
					CourseID:      a.CourseID,
					Day:           a.Day,
					Period:        a.Period,
					RoomID:        a.RoomID,
					FromFacultyID: a.FacultyID,
					ToFacultyID:   f.ID,
					Cost:          cost,
				},
			})
		}
	}

	if len(pool) == 0 {
		return nil
	}
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].cost < pool[j].cost })
	return &pool[0]
}

// timeCandidate keeps faculty and room and scans nearby slots: day offsets
// 0..4 wrapping the week, period offsets -2..+2 minus the no-op. Staying on
// the same day and close in time is cheapest.
func (c *repairContext) timeCandidate(a models.Assignment, occ *Occupancy) *candidate {
	// The room travels with the session, so it must still hold the batch.
	if batch, ok := c.d.Batch(a.BatchID); ok && c.effectiveCapacity(a.RoomID) < batch.Size {
		return nil
	}
	var pool []candidate
	for dayOffset := 0; dayOffset <= 4; dayOffset++ {
		day := models.DayAt(a.Day.Index() + dayOffset)
		for periodOffset := -2; periodOffset <= 2; periodOffset++ {
			if dayOffset == 0 && periodOffset == 0 {
				continue
			}
			period := a.Period + periodOffset
			if period < 1 || period > maxRepairPeriod {
				continue
			}
			slotID := models.SlotID(day, period)
			if occ.IsBusy(slotID, FacultyTag(a.FacultyID)) ||
				occ.IsBusy(slotID, BatchTag(a.BatchID)) ||
				occ.IsBusy(slotID, RoomTag(a.RoomID)) {
				continue
			}
			cost := costTimeBase + math.Abs(float64(periodOffset))*costTimePerPeriod + float64(dayOffset)*costTimePerDay
			pool = append(pool, candidate{
				cost: cost,
				move: &models.RepairMove{
					OfferingID: a.OfferingID,
					CourseID:   a.CourseID,
					BatchID:    a.BatchID,
					From:       models.Placement{Day: a.Day, Period: a.Period, RoomID: a.RoomID, FacultyID: a.FacultyID},
					To:         models.Placement{Day: day, Period: period, RoomID: a.RoomID, FacultyID: a.FacultyID},
					Cost:       cost,
				},
			})
		}
	}
	if len(pool) == 0 {
		return nil
	}
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].cost < pool[j].cost })
	return &pool[0]
}

// assemble builds one plan under the named strategy. The overlay occupancy
// accumulates committed targets so moves within a plan never collide.
func (c *repairContext) assemble(strategy string) (models.RepairPlan, bool) {
	occ := c.base.Clone()
	plan := models.RepairPlan{
		Strategy:      strategy,
		Moves:         []models.RepairMove{},
		Substitutions: []models.FacultySubstitution{},
	}

	for _, idx := range c.impacted {
		a := c.assignments[idx]
		var pick *candidate
		switch strategy {
		case PlanRoomFirst:
			pick = c.roomCandidate(a, occ)
		case PlanFacultyFirst:
			pick = c.facultyCandidate(a, occ)
		case PlanTimeFirst:
			pick = c.timeCandidate(a, occ)
		case PlanMinimalDisruption:
			pick = cheapest(c.roomCandidate(a, occ), c.facultyCandidate(a, occ), c.timeCandidate(a, occ))
		}
		if pick == nil {
			continue
		}
		c.commit(occ, a, pick)
		if pick.move != nil {
			plan.Moves = append(plan.Moves, *pick.move)
		}
		if pick.sub != nil {
			plan.Substitutions = append(plan.Substitutions, *pick.sub)
		}
	}

	resolved := len(plan.Moves) + len(plan.Substitutions)
	if resolved == 0 {
		return models.RepairPlan{}, false
	}

	roomChanges, timeChanges := 0, 0
	for _, m := range plan.Moves {
		if m.To.RoomID != m.From.RoomID {
			roomChanges++
		}
		if m.To.Day != m.From.Day || m.To.Period != m.From.Period {
			timeChanges++
		}
	}
	unresolved := len(c.impacted) - resolved

	plan.Delta = models.RepairDelta{
		Impacted:      len(c.impacted),
		Moves:         len(plan.Moves),
		RoomChanges:   roomChanges,
		TimeChanges:   timeChanges,
		Substitutions: len(plan.Substitutions),
		Unresolved:    unresolved,
	}
	plan.Score = scoreUnresolved*math.Max(0, float64(unresolved)) +
		scoreMove*float64(len(plan.Moves)) +
		scoreSubstitution*float64(len(plan.Substitutions)) +
		scoreRoomChange*float64(roomChanges) +
		scoreTimeChange*float64(timeChanges)
	plan.Explanation = explainPlan(strategy, plan.Delta)
	return plan, true
}

// commit marks the chosen target occupied in the plan-local overlay.
func (c *repairContext) commit(occ *Occupancy, a models.Assignment, pick *candidate) {
	if pick.move != nil {
		to := pick.move.To
		occ.MarkBusy(models.SlotID(to.Day, to.Period), RoomTag(to.RoomID), FacultyTag(to.FacultyID), BatchTag(a.BatchID))
		return
	}
	if pick.sub != nil {
		occ.MarkBusy(a.SlotKey(), RoomTag(a.RoomID), FacultyTag(pick.sub.ToFacultyID), BatchTag(a.BatchID))
	}
}

func cheapest(candidates ...*candidate) *candidate {
	var best *candidate
	for _, cand := range candidates {
		if cand == nil {
			continue
		}
		if best == nil || cand.cost < best.cost {
			best = cand
		}
	}
	return best
}

func explainPlan(strategy string, delta models.RepairDelta) string {
	resolved := delta.Moves + delta.Substitutions
	msg := fmt.Sprintf("%s: resolved %d of %d impacted sessions", strategy, resolved, delta.Impacted)
	if delta.Substitutions > 0 {
		msg += fmt.Sprintf(", %d faculty substitutions", delta.Substitutions)
	}
	if delta.RoomChanges > 0 {
		msg += fmt.Sprintf(", %d room changes", delta.RoomChanges)
	}
	if delta.TimeChanges > 0 {
		msg += fmt.Sprintf(", %d time moves", delta.TimeChanges)
	}
	if delta.Unresolved > 0 {
		msg += fmt.Sprintf("; %d left unresolved", delta.Unresolved)
	}
	return msg
}
