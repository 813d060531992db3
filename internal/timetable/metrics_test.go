package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/timetable-api/internal/models"
)

func TestComputeMetricsOnCleanSchedule(t *testing.T) {
	d := newTestDataset(t)
	entries := AssignmentsToEntries(testAssignments())

	m := ComputeMetrics(d, entries)

	assert.Zero(t, m.ClashCount)
	assert.Zero(t, m.UnscheduledSessions)
	// 5 entries over 2 rooms x 35 slots.
	assert.InDelta(t, 5.0/70.0*100, m.RoomUtilization, 1e-9)
	// 5 entries over 3 faculty x 35 slots.
	assert.InDelta(t, 5.0/105.0*100, m.FacultyUtilization, 1e-9)
	assert.Greater(t, m.EfficiencyScore, 0.0)
	assert.LessOrEqual(t, m.EfficiencyScore, 100.0)
}

func TestComputeMetricsCountsUnscheduledSessions(t *testing.T) {
	d := newTestDataset(t)

	m := ComputeMetrics(d, nil)
	// All 5 weekly hours missing.
	assert.Equal(t, 5, m.UnscheduledSessions)
	assert.Zero(t, m.RoomUtilization)
	assert.Zero(t, m.AverageRoomFill)
}

func TestComputeMetricsScoreClampedToZero(t *testing.T) {
	// Many offerings entirely unscheduled push the raw score far negative.
	offerings := []models.Offering{
		{ID: "o1", CourseID: "c1", FacultyID: "f1", BatchID: "b1", HoursPerWeek: 20},
		{ID: "o2", CourseID: "c2", FacultyID: "f2", BatchID: "b2", HoursPerWeek: 20},
	}
	d, err := NewDataset(testRooms(), testFaculty(), testCourses(), testBatches(), offerings)
	require.NoError(t, err)

	m := ComputeMetrics(d, nil)
	assert.Equal(t, 40, m.UnscheduledSessions)
	assert.Zero(t, m.EfficiencyScore)
}

func TestComputeMetricsPenalisesClashes(t *testing.T) {
	d := newTestDataset(t)
	clean := AssignmentsToEntries(testAssignments())

	clashed := make([]models.ScheduleEntry, len(clean))
	copy(clashed, clean)
	// Drop two sessions onto the same room and slot.
	clashed[1].Day = clashed[0].Day
	clashed[1].Period = clashed[0].Period
	clashed[1].SlotID = clashed[0].SlotID
	clashed[1].RoomID = clashed[0].RoomID

	cleanMetrics := ComputeMetrics(d, clean)
	clashedMetrics := ComputeMetrics(d, clashed)

	assert.Positive(t, clashedMetrics.ClashCount)
	assert.Less(t, clashedMetrics.EfficiencyScore, cleanMetrics.EfficiencyScore)
}

func TestBatchGapCount(t *testing.T) {
	entries := []models.ScheduleEntry{
		{BatchID: "B1", Day: models.Monday, Period: 1},
		{BatchID: "B1", Day: models.Monday, Period: 4},
		{BatchID: "B1", Day: models.Tuesday, Period: 2},
		{BatchID: "B2", Day: models.Monday, Period: 6},
		{BatchID: "B2", Day: models.Monday, Period: 7},
	}

	// B1 Monday: periods 1 and 4 leave two idle periods. Everything else is
	// contiguous or a single session.
	assert.Equal(t, 2, batchGapCount(entries))
}

func TestAverageRoomFill(t *testing.T) {
	d := newTestDataset(t)
	entries := []models.ScheduleEntry{
		{BatchID: "B1", RoomID: "R1"}, // 50/60
		{BatchID: "B2", RoomID: "R2"}, // 25/30
	}

	want := (50.0/60.0*100 + 25.0/30.0*100) / 2
	assert.InDelta(t, want, averageRoomFill(d, entries), 1e-9)
}

func TestFacultyLoadBalanceEvenRoster(t *testing.T) {
	d := newTestDataset(t)
	entries := []models.ScheduleEntry{
		{FacultyID: "F1"}, {FacultyID: "F2"}, {FacultyID: "F3"},
	}
	assert.InDelta(t, 0.0, facultyLoadBalance(d, entries), 1e-9)
}
