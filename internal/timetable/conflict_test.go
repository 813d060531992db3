package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/timetable-api/internal/models"
)

func TestConflictReportCleanSchedule(t *testing.T) {
	d := newTestDataset(t)
	report := ConflictReport(d, AssignmentsToEntries(testAssignments()))

	assert.True(t, report.Clean())
	assert.Empty(t, report.Conflicts)
	assert.Empty(t, report.Unfulfilled)
}

func TestConflictReportFlagsDoubleBookedResources(t *testing.T) {
	entries := []models.ScheduleEntry{
		{OfferingID: "O1", FacultyID: "F1", BatchID: "B1", RoomID: "R1", SlotID: "MONDAY-1", Day: models.Monday, Period: 1},
		{OfferingID: "O2", FacultyID: "F1", BatchID: "B2", RoomID: "R2", SlotID: "MONDAY-1", Day: models.Monday, Period: 1},
	}
	d := newTestDataset(t)

	report := ConflictReport(d, entries)
	require.False(t, report.Clean())
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, "MONDAY-1", report.Conflicts[0].SlotID)
	assert.Equal(t, FacultyTag("F1"), report.Conflicts[0].Resource)
	assert.Equal(t, 2, report.Conflicts[0].Count)
}

func TestConflictReportExplainsUnmetHours(t *testing.T) {
	// An empty entry list leaves every offering short of its weekly hours.
	d := newTestDataset(t)

	report := ConflictReport(d, nil)
	require.Len(t, report.Unfulfilled, 3)
	for _, u := range report.Unfulfilled {
		assert.Equal(t, "insufficient available time slots", u.Reason)
		assert.Positive(t, u.Missing)
	}
}
