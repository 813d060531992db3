package timetable

import "github.com/campushub/timetable-api/internal/models"

// Resource tags namespacing room, faculty and batch ids inside the index.
func RoomTag(id string) string    { return "room:" + id }
func FacultyTag(id string) string { return "faculty:" + id }
func BatchTag(id string) string   { return "batch:" + id }

// Occupancy tracks which resources are busy at each time slot. Conflict
// checks are O(1) map probes. Purely in-memory, reset per attempt.
type Occupancy struct {
	busy map[string]map[string]struct{}
}

// NewOccupancy returns an empty index.
func NewOccupancy() *Occupancy {
	return &Occupancy{busy: make(map[string]map[string]struct{})}
}

// OccupancyFromAssignments rebuilds the index from an existing assignment set.
func OccupancyFromAssignments(assignments []models.Assignment) *Occupancy {
	o := NewOccupancy()
	for _, a := range assignments {
		o.MarkBusy(a.SlotKey(), RoomTag(a.RoomID), FacultyTag(a.FacultyID), BatchTag(a.BatchID))
	}
	return o
}

// IsBusy reports whether the tagged resource is occupied at the slot.
func (o *Occupancy) IsBusy(slotID, tag string) bool {
	tags, ok := o.busy[slotID]
	if !ok {
		return false
	}
	_, busy := tags[tag]
	return busy
}

// MarkBusy records the tagged resources as occupied at the slot.
func (o *Occupancy) MarkBusy(slotID string, tags ...string) {
	set, ok := o.busy[slotID]
	if !ok {
		set = make(map[string]struct{}, len(tags))
		o.busy[slotID] = set
	}
	for _, tag := range tags {
		set[tag] = struct{}{}
	}
}

// Release frees the tagged resources at the slot.
func (o *Occupancy) Release(slotID string, tags ...string) {
	set, ok := o.busy[slotID]
	if !ok {
		return
	}
	for _, tag := range tags {
		delete(set, tag)
	}
	if len(set) == 0 {
		delete(o.busy, slotID)
	}
}

// Reset empties the index.
func (o *Occupancy) Reset() {
	o.busy = make(map[string]map[string]struct{})
}

// Clone returns an independent copy of the index.
func (o *Occupancy) Clone() *Occupancy {
	clone := &Occupancy{busy: make(map[string]map[string]struct{}, len(o.busy))}
	for slot, tags := range o.busy {
		set := make(map[string]struct{}, len(tags))
		for tag := range tags {
			set[tag] = struct{}{}
		}
		clone.busy[slot] = set
	}
	return clone
}
