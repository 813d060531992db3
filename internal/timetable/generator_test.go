package timetable

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/timetable-api/internal/models"
)

func allStrategies() []Strategy {
	return []Strategy{StrategyStudentFriendly, StrategyFacultyFriendly, StrategyInfraOptimized, StrategyEnhanced}
}

func TestGeneratePlacesAllSessionsOnEasyDataset(t *testing.T) {
	d := newTestDataset(t)
	g := NewGenerator()

	for _, strategy := range allStrategies() {
		tt := g.Generate(d, strategy)
		assert.Len(t, tt.Entries, 5, "strategy %s", strategy)
		assert.Zero(t, tt.Metrics.ClashCount, "strategy %s", strategy)
		assert.Zero(t, tt.Metrics.UnscheduledSessions, "strategy %s", strategy)

		report := ConflictReport(d, tt.Entries)
		assert.True(t, report.Clean(), "strategy %s: %+v", strategy, report)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	d := newTestDataset(t)
	g := NewGenerator()

	for _, strategy := range allStrategies() {
		first := g.Generate(d, strategy)
		second := g.Generate(d, strategy)
		assert.Equal(t, first.Entries, second.Entries, "strategy %s", strategy)
	}
}

func TestGenerateNeverDoubleBooksUnderContention(t *testing.T) {
	// One room, one faculty teaching everything: every session competes for
	// the same resources.
	rooms := []models.Room{{ID: "r1", Capacity: 60}}
	faculty := []models.Faculty{{ID: "f1", Department: "Computer Science"}}
	offerings := []models.Offering{
		{ID: "o1", CourseID: "c1", FacultyID: "f1", BatchID: "b1", HoursPerWeek: 10},
		{ID: "o2", CourseID: "c2", FacultyID: "f1", BatchID: "b2", HoursPerWeek: 10},
		{ID: "o3", CourseID: "c3", FacultyID: "f1", BatchID: "b1", HoursPerWeek: 10},
	}
	d, err := NewDataset(rooms, faculty, testCourses(), testBatches(), offerings)
	require.NoError(t, err)

	g := NewGenerator()
	for _, strategy := range allStrategies() {
		tt := g.Generate(d, strategy)
		report := ConflictReport(d, tt.Entries)
		assert.Empty(t, report.Conflicts, "strategy %s", strategy)
		// 30 demanded hours against a 35-slot week on one faculty member.
		assert.LessOrEqual(t, len(tt.Entries), 35, "strategy %s", strategy)
	}
}

func TestGenerateRespectsRoomCapacity(t *testing.T) {
	d := newTestDataset(t)
	g := NewGenerator()

	for _, strategy := range allStrategies() {
		tt := g.Generate(d, strategy)
		for _, e := range tt.Entries {
			room, ok := d.Room(e.RoomID)
			require.True(t, ok)
			batch, ok := d.Batch(e.BatchID)
			require.True(t, ok)
			assert.GreaterOrEqual(t, room.Capacity, batch.Size, "strategy %s", strategy)
		}
	}
}

func TestStudentFriendlyPrefersMorningsForLargeBatches(t *testing.T) {
	d := newTestDataset(t)
	g := NewGenerator()

	tt := g.Generate(d, StrategyStudentFriendly)
	// B1 is the largest batch; its first session lands in the first grid cell.
	var b1Slots []string
	for _, e := range tt.Entries {
		if e.BatchID == "B1" {
			b1Slots = append(b1Slots, e.SlotID)
		}
	}
	require.NotEmpty(t, b1Slots)
	assert.Equal(t, "MONDAY-1", b1Slots[0])
}

func TestFacultyFriendlyHonoursPreferredSlots(t *testing.T) {
	faculty := testFaculty()
	faculty[0].Preferred = []string{"WEDNESDAY-3", "WEDNESDAY-4"}
	d, err := NewDataset(testRooms(), faculty, testCourses(), testBatches(), testOfferings())
	require.NoError(t, err)

	tt := NewGenerator().Generate(d, StrategyFacultyFriendly)
	var f1Slots []string
	for _, e := range tt.Entries {
		if e.FacultyID == "F1" {
			f1Slots = append(f1Slots, e.SlotID)
		}
	}
	require.Len(t, f1Slots, 2)
	assert.ElementsMatch(t, []string{"WEDNESDAY-3", "WEDNESDAY-4"}, f1Slots)
}

func TestInfraOptimizedFillsLargestRoomFirst(t *testing.T) {
	d := newTestDataset(t)

	tt := NewGenerator().Generate(d, StrategyInfraOptimized)
	require.NotEmpty(t, tt.Entries)
	assert.Equal(t, "R1", tt.Entries[0].RoomID)
}

func TestGenerateWithMultiStartNeverWorseThanSingle(t *testing.T) {
	d := newTestDataset(t)

	for _, strategy := range allStrategies() {
		single := NewGenerator(WithRand(rand.New(rand.NewSource(7)))).Generate(d, strategy)
		multi := NewGenerator(WithRand(rand.New(rand.NewSource(7)))).GenerateWithMultiStart(d, 5, strategy)

		assert.GreaterOrEqual(t, multi.Metrics.EfficiencyScore, single.Metrics.EfficiencyScore, "strategy %s", strategy)
		assert.Equal(t, 5, multi.Attempts, "strategy %s", strategy)
	}
}

func TestGenerateWithMultiStartSeededReproducible(t *testing.T) {
	d := newTestDataset(t)

	first := NewGenerator(WithRand(rand.New(rand.NewSource(42)))).GenerateWithMultiStart(d, 8, StrategyStudentFriendly)
	second := NewGenerator(WithRand(rand.New(rand.NewSource(42)))).GenerateWithMultiStart(d, 8, StrategyStudentFriendly)

	assert.Equal(t, first.Entries, second.Entries)
	assert.Equal(t, first.Metrics, second.Metrics)
}

func TestGenerateEnhancedPlacesHardestFirst(t *testing.T) {
	d := newTestDataset(t)

	tt := NewGenerator().GenerateEnhanced(d, 3)
	assert.Equal(t, string(StrategyEnhanced), tt.Strategy)
	assert.Equal(t, 3, tt.Attempts)
	assert.Zero(t, tt.Metrics.UnscheduledSessions)
	assert.True(t, ConflictReport(d, tt.Entries).Clean())

	// O1's batch fits exactly one room, so it is the hardest offering and
	// its sessions are committed before the flexible ones.
	require.NotEmpty(t, tt.Entries)
	assert.Equal(t, "O1", tt.Entries[0].OfferingID)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("faculty-friendly")
	require.NoError(t, err)
	assert.Equal(t, StrategyFacultyFriendly, s)

	_, err = ParseStrategy("simulated-annealing")
	assert.Error(t, err)
}
