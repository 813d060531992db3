package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/timetable-api/internal/models"
)

func TestEntriesAssignmentsRoundTrip(t *testing.T) {
	entries := AssignmentsToEntries(testAssignments())
	require.Len(t, entries, 5)
	assert.Equal(t, "MONDAY-1", entries[0].SlotID)

	back := EntriesToAssignments(entries)
	require.Len(t, back, 5)
	for i, a := range back {
		assert.Empty(t, a.ID)
		assert.Equal(t, entries[i].OfferingID, a.OfferingID)
		assert.Equal(t, entries[i].Day, a.Day)
		assert.Equal(t, entries[i].Period, a.Period)
	}
}

func TestApplyRepairPlanLeavesInputUntouched(t *testing.T) {
	assignments := testAssignments()
	plan := models.RepairPlan{
		Moves: []models.RepairMove{{
			OfferingID: "O1",
			From:       models.Placement{Day: models.Monday, Period: 1, RoomID: "R1", FacultyID: "F1"},
			To:         models.Placement{Day: models.Friday, Period: 3, RoomID: "R2", FacultyID: "F1"},
		}},
		Substitutions: []models.FacultySubstitution{{
			OfferingID: "O2", Day: models.Monday, Period: 1,
			FromFacultyID: "F2", ToFacultyID: "F3",
		}},
	}

	repaired := ApplyRepairPlan(assignments, plan)

	assert.Equal(t, models.Monday, assignments[0].Day, "input must not change")
	assert.Equal(t, models.Friday, repaired[0].Day)
	assert.Equal(t, 3, repaired[0].Period)
	assert.Equal(t, "R2", repaired[0].RoomID)
	assert.Equal(t, "F3", repaired[2].FacultyID)
	// Untouched rows carry over as-is.
	assert.Equal(t, assignments[4], repaired[4])
}
