package timetable

import (
	"fmt"
	"sort"

	"github.com/campushub/timetable-api/internal/models"
)

// Strategy selects one of the closed set of generation behaviours.
type Strategy string

const (
	StrategyStudentFriendly Strategy = "student-friendly"
	StrategyFacultyFriendly Strategy = "faculty-friendly"
	StrategyInfraOptimized  Strategy = "infra-optimized"
	StrategyEnhanced        Strategy = "enhanced"
)

// Strategies lists the base constructive strategies.
func Strategies() []Strategy {
	return []Strategy{StrategyStudentFriendly, StrategyFacultyFriendly, StrategyInfraOptimized}
}

// ParseStrategy maps a raw string onto a known strategy.
func ParseStrategy(raw string) (Strategy, error) {
	switch Strategy(raw) {
	case StrategyStudentFriendly, StrategyFacultyFriendly, StrategyInfraOptimized, StrategyEnhanced:
		return Strategy(raw), nil
	}
	return "", fmt.Errorf("unknown strategy %q", raw)
}

// placementStrategy is one constructive generation variant. Build consumes
// the offering list in its given base order, places sessions against the
// occupancy index and returns the entries it managed to commit. Sessions it
// cannot place are simply absent from the result.
type placementStrategy interface {
	Name() Strategy
	Build(d *Dataset, offerings []models.Offering, occ *Occupancy) []models.ScheduleEntry
}

func strategyFor(s Strategy) placementStrategy {
	switch s {
	case StrategyFacultyFriendly:
		return facultyFriendly{}
	case StrategyInfraOptimized:
		return infraOptimized{}
	default:
		return studentFriendly{}
	}
}

// bestFitRoom picks the smallest capacity-sufficient unoccupied room for the
// batch at the slot, or nil when none fits. SuitableRooms is already sorted
// ascending by capacity.
func bestFitRoom(d *Dataset, occ *Occupancy, slotID, batchID string) *models.Room {
	for _, room := range d.SuitableRooms(batchID) {
		if !occ.IsBusy(slotID, RoomTag(room.ID)) {
			return room
		}
	}
	return nil
}

func commitEntry(occ *Occupancy, o models.Offering, slot models.TimeSlot, roomID string) models.ScheduleEntry {
	occ.MarkBusy(slot.ID, RoomTag(roomID), FacultyTag(o.FacultyID), BatchTag(o.BatchID))
	return models.ScheduleEntry{
		OfferingID: o.ID,
		CourseID:   o.CourseID,
		FacultyID:  o.FacultyID,
		BatchID:    o.BatchID,
		RoomID:     roomID,
		SlotID:     slot.ID,
		Day:        slot.Day,
		Period:     slot.Period,
	}
}

// placeOffering scans the ranked slots and commits up to hoursPerWeek
// sessions for the offering, best-fit room per slot.
func placeOffering(d *Dataset, occ *Occupancy, o models.Offering, slots []models.TimeSlot) []models.ScheduleEntry {
	var entries []models.ScheduleEntry
	for _, slot := range slots {
		if len(entries) >= o.HoursPerWeek {
			break
		}
		if occ.IsBusy(slot.ID, FacultyTag(o.FacultyID)) || occ.IsBusy(slot.ID, BatchTag(o.BatchID)) {
			continue
		}
		room := bestFitRoom(d, occ, slot.ID, o.BatchID)
		if room == nil {
			continue
		}
		entries = append(entries, commitEntry(occ, o, slot, room.ID))
	}
	return entries
}

// studentFriendly fills mornings first for the largest batches, wasting as
// little room capacity as possible.
type studentFriendly struct{}

func (studentFriendly) Name() Strategy { return StrategyStudentFriendly }

func (studentFriendly) Build(d *Dataset, offerings []models.Offering, occ *Occupancy) []models.ScheduleEntry {
	ordered := make([]models.Offering, len(offerings))
	copy(ordered, offerings)
	sort.SliceStable(ordered, func(i, j int) bool {
		return batchSize(d, ordered[i].BatchID) > batchSize(d, ordered[j].BatchID)
	})

	var entries []models.ScheduleEntry
	for _, o := range ordered {
		entries = append(entries, placeOffering(d, occ, o, d.Slots)...)
	}
	return entries
}

// facultyFriendly processes one faculty's offerings consecutively and tries
// that faculty's preferred day-period tokens ahead of the rest of the grid.
type facultyFriendly struct{}

func (facultyFriendly) Name() Strategy { return StrategyFacultyFriendly }

func (facultyFriendly) Build(d *Dataset, offerings []models.Offering, occ *Occupancy) []models.ScheduleEntry {
	var order []string
	grouped := make(map[string][]models.Offering)
	for _, o := range offerings {
		if _, seen := grouped[o.FacultyID]; !seen {
			order = append(order, o.FacultyID)
		}
		grouped[o.FacultyID] = append(grouped[o.FacultyID], o)
	}

	var entries []models.ScheduleEntry
	for _, facultyID := range order {
		slots := d.Slots
		if f, ok := d.FacultyByID(facultyID); ok && len(f.Preferred) > 0 {
			slots = preferredFirst(d.Slots, f.Preferred)
		}
		for _, o := range grouped[facultyID] {
			entries = append(entries, placeOffering(d, occ, o, slots)...)
		}
	}
	return entries
}

// preferredFirst stable-sorts preferred slots ahead of the rest.
func preferredFirst(slots []models.TimeSlot, tokens []string) []models.TimeSlot {
	preferred := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		preferred[token] = struct{}{}
	}
	ranked := make([]models.TimeSlot, len(slots))
	copy(ranked, slots)
	sort.SliceStable(ranked, func(i, j int) bool {
		_, pi := preferred[ranked[i].ID]
		_, pj := preferred[ranked[j].ID]
		return pi && !pj
	})
	return ranked
}

// infraOptimized walks rooms largest first and, per (room, slot) pair, seats
// the largest conflict-free batch still needing sessions. Big rooms fill
// with big batches before smaller rooms are touched.
type infraOptimized struct{}

func (infraOptimized) Name() Strategy { return StrategyInfraOptimized }

func (infraOptimized) Build(d *Dataset, offerings []models.Offering, occ *Occupancy) []models.ScheduleEntry {
	rooms := make([]models.Room, len(d.Rooms))
	copy(rooms, d.Rooms)
	sort.SliceStable(rooms, func(i, j int) bool {
		return rooms[i].Capacity > rooms[j].Capacity
	})

	remaining := make(map[string]int, len(offerings))
	for _, o := range offerings {
		remaining[o.ID] = o.HoursPerWeek
	}

	var entries []models.ScheduleEntry
	for _, room := range rooms {
		for _, slot := range d.Slots {
			if occ.IsBusy(slot.ID, RoomTag(room.ID)) {
				continue
			}
			best := -1
			bestSize := -1
			for idx, o := range offerings {
				if remaining[o.ID] <= 0 {
					continue
				}
				size := batchSize(d, o.BatchID)
				if size > room.Capacity || size <= bestSize {
					continue
				}
				if occ.IsBusy(slot.ID, FacultyTag(o.FacultyID)) || occ.IsBusy(slot.ID, BatchTag(o.BatchID)) {
					continue
				}
				best = idx
				bestSize = size
			}
			if best < 0 {
				continue
			}
			o := offerings[best]
			remaining[o.ID]--
			entries = append(entries, commitEntry(occ, o, slot, room.ID))
		}
	}
	return entries
}

func batchSize(d *Dataset, batchID string) int {
	if b, ok := d.Batch(batchID); ok {
		return b.Size
	}
	return 0
}
