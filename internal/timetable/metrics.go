package timetable

import (
	"math"
	"sort"

	"github.com/campushub/timetable-api/internal/models"
)

// Efficiency score weights. The score is the sole ranking signal for
// multi-start attempt selection and timetable comparison.
const (
	weightClash       = -10.0
	weightRoomUtil    = 0.3
	weightFacultyUtil = 0.2
	weightLoadBalance = 0.2
	weightRoomFill    = 0.2
	weightBatchGap    = -0.5
	weightUnscheduled = -5.0
)

// ComputeMetrics derives quality metrics for a set of schedule entries.
// Pure: no state is read beyond the dataset and the entries.
func ComputeMetrics(d *Dataset, entries []models.ScheduleEntry) models.ScheduleMetrics {
	m := models.ScheduleMetrics{
		ClashCount:          len(scanConflicts(entries)),
		UnscheduledSessions: unscheduledSessions(d, entries),
		BatchGapCount:       batchGapCount(entries),
	}

	slotCount := len(d.Slots)
	if len(d.Rooms) > 0 && slotCount > 0 {
		m.RoomUtilization = float64(len(entries)) / float64(len(d.Rooms)*slotCount) * 100
	}
	if len(d.Faculty) > 0 && slotCount > 0 {
		m.FacultyUtilization = float64(len(entries)) / float64(len(d.Faculty)*slotCount) * 100
	}
	m.FacultyLoadBalance = facultyLoadBalance(d, entries)
	m.AverageRoomFill = averageRoomFill(d, entries)

	score := float64(m.ClashCount)*weightClash +
		m.RoomUtilization*weightRoomUtil +
		m.FacultyUtilization*weightFacultyUtil +
		(10-m.FacultyLoadBalance)*weightLoadBalance +
		m.AverageRoomFill*weightRoomFill +
		float64(m.BatchGapCount)*weightBatchGap +
		float64(m.UnscheduledSessions)*weightUnscheduled
	m.EfficiencyScore = math.Min(100, math.Max(0, score))

	return m
}

// facultyLoadBalance is the population standard deviation of per-faculty
// session counts across the whole roster. Lower means a more even load.
func facultyLoadBalance(d *Dataset, entries []models.ScheduleEntry) float64 {
	if len(d.Faculty) == 0 {
		return 0
	}
	counts := make(map[string]int, len(d.Faculty))
	for _, e := range entries {
		counts[e.FacultyID]++
	}
	mean := float64(len(entries)) / float64(len(d.Faculty))
	var variance float64
	for _, f := range d.Faculty {
		diff := float64(counts[f.ID]) - mean
		variance += diff * diff
	}
	variance /= float64(len(d.Faculty))
	return math.Sqrt(variance)
}

// averageRoomFill is the mean, over entries, of batch size against room
// capacity, as a percentage.
func averageRoomFill(d *Dataset, entries []models.ScheduleEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	var total float64
	for _, e := range entries {
		room, okRoom := d.Room(e.RoomID)
		batch, okBatch := d.Batch(e.BatchID)
		if !okRoom || !okBatch || room.Capacity == 0 {
			continue
		}
		total += float64(batch.Size) / float64(room.Capacity) * 100
	}
	return total / float64(len(entries))
}

// batchGapCount sums, per batch and day, the idle periods between
// consecutive sessions: a pair of sessions at periods p and q on the same
// day contributes q-p-1 when the difference exceeds one.
func batchGapCount(entries []models.ScheduleEntry) int {
	type dayKey struct {
		batchID string
		day     models.Day
	}
	periods := make(map[dayKey][]int)
	for _, e := range entries {
		key := dayKey{batchID: e.BatchID, day: e.Day}
		periods[key] = append(periods[key], e.Period)
	}

	gaps := 0
	for _, list := range periods {
		if len(list) < 2 {
			continue
		}
		sort.Ints(list)
		for i := 0; i < len(list)-1; i++ {
			if diff := list[i+1] - list[i]; diff > 1 {
				gaps += diff - 1
			}
		}
	}
	return gaps
}

func unscheduledSessions(d *Dataset, entries []models.ScheduleEntry) int {
	placed := make(map[string]int, len(entries))
	for _, e := range entries {
		placed[e.OfferingID]++
	}
	total := 0
	for _, o := range d.Offerings {
		if missing := o.HoursPerWeek - placed[o.ID]; missing > 0 {
			total += missing
		}
	}
	return total
}
