package timetable

import (
	"fmt"
	"sort"

	"github.com/campushub/timetable-api/internal/models"
)

// ConflictReport independently re-checks a set of entries for double-booked
// resources and unmet weekly hours. Scheduler output must always come back
// clean; a non-empty conflict list flags a regression in the generator.
func ConflictReport(d *Dataset, entries []models.ScheduleEntry) models.ConflictReport {
	report := models.ConflictReport{
		Conflicts:   scanConflicts(entries),
		Unfulfilled: scanUnfulfilled(d, entries),
	}
	return report
}

func scanConflicts(entries []models.ScheduleEntry) []models.SlotConflict {
	counts := make(map[string]map[string]int)
	for _, e := range entries {
		if counts[e.SlotID] == nil {
			counts[e.SlotID] = make(map[string]int)
		}
		counts[e.SlotID][RoomTag(e.RoomID)]++
		counts[e.SlotID][FacultyTag(e.FacultyID)]++
		counts[e.SlotID][BatchTag(e.BatchID)]++
	}

	var conflicts []models.SlotConflict
	for slotID, tags := range counts {
		for tag, n := range tags {
			if n > 1 {
				conflicts = append(conflicts, models.SlotConflict{SlotID: slotID, Resource: tag, Count: n})
			}
		}
	}
	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].SlotID != conflicts[j].SlotID {
			return conflicts[i].SlotID < conflicts[j].SlotID
		}
		return conflicts[i].Resource < conflicts[j].Resource
	})
	return conflicts
}

func scanUnfulfilled(d *Dataset, entries []models.ScheduleEntry) []models.UnfulfilledOffering {
	placed := make(map[string]int, len(entries))
	for _, e := range entries {
		placed[e.OfferingID]++
	}

	var unmet []models.UnfulfilledOffering
	for _, o := range d.Offerings {
		missing := o.HoursPerWeek - placed[o.ID]
		if missing <= 0 {
			continue
		}
		reason := "insufficient available time slots"
		if len(d.SuitableRooms(o.BatchID)) == 0 {
			b, _ := d.Batch(o.BatchID)
			size := 0
			if b != nil {
				size = b.Size
			}
			reason = fmt.Sprintf("no room large enough for batch size %d", size)
		}
		unmet = append(unmet, models.UnfulfilledOffering{
			OfferingID: o.ID,
			CourseID:   o.CourseID,
			Missing:    missing,
			Reason:     reason,
		})
	}
	return unmet
}
