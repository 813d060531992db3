package timetable

import (
	"github.com/samber/lo"

	"github.com/campushub/timetable-api/internal/models"
)

// EntriesToAssignments flattens schedule entries into persistable
// assignments. IDs are left empty for the persistence layer to fill.
func EntriesToAssignments(entries []models.ScheduleEntry) []models.Assignment {
	return lo.Map(entries, func(e models.ScheduleEntry, _ int) models.Assignment {
		return models.Assignment{
			OfferingID: e.OfferingID,
			CourseID:   e.CourseID,
			FacultyID:  e.FacultyID,
			BatchID:    e.BatchID,
			RoomID:     e.RoomID,
			Day:        e.Day,
			Period:     e.Period,
		}
	})
}

// AssignmentsToEntries is the inverse of EntriesToAssignments.
func AssignmentsToEntries(assignments []models.Assignment) []models.ScheduleEntry {
	return lo.Map(assignments, func(a models.Assignment, _ int) models.ScheduleEntry {
		return models.ScheduleEntry{
			OfferingID: a.OfferingID,
			CourseID:   a.CourseID,
			FacultyID:  a.FacultyID,
			BatchID:    a.BatchID,
			RoomID:     a.RoomID,
			SlotID:     a.SlotKey(),
			Day:        a.Day,
			Period:     a.Period,
		}
	})
}

// ApplyRepairPlan returns a new assignment list with the plan's moves and
// substitutions applied. The input slice is not modified.
func ApplyRepairPlan(assignments []models.Assignment, plan models.RepairPlan) []models.Assignment {
	out := make([]models.Assignment, len(assignments))
	copy(out, assignments)

	moveByKey := make(map[string]models.RepairMove, len(plan.Moves))
	for _, m := range plan.Moves {
		moveByKey[m.OfferingID+"|"+models.SlotID(m.From.Day, m.From.Period)] = m
	}
	subByKey := make(map[string]models.FacultySubstitution, len(plan.Substitutions))
	for _, s := range plan.Substitutions {
		subByKey[s.OfferingID+"|"+models.SlotID(s.Day, s.Period)] = s
	}

	for i, a := range out {
		key := a.OfferingID + "|" + a.SlotKey()
		if m, ok := moveByKey[key]; ok {
			out[i].Day = m.To.Day
			out[i].Period = m.To.Period
			out[i].RoomID = m.To.RoomID
			out[i].FacultyID = m.To.FacultyID
			continue
		}
		if s, ok := subByKey[key]; ok {
			out[i].FacultyID = s.ToFacultyID
		}
	}
	return out
}
