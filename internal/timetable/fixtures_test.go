package timetable

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campushub/timetable-api/internal/models"
)

// newTestDataset builds the canonical small campus: two rooms, three faculty
// across two departments, three courses, two batches, three offerings.
func newTestDataset(t *testing.T) *Dataset {
	t.Helper()
	d, err := NewDataset(testRooms(), testFaculty(), testCourses(), testBatches(), testOfferings())
	require.NoError(t, err)
	return d
}

func testRooms() []models.Room {
	return []models.Room{
		{ID: "r1", Name: "Lecture Hall A", Capacity: 60, Category: "lecture"},
		{ID: "r2", Name: "Seminar Room B", Capacity: 30, Category: "seminar"},
	}
}

func testFaculty() []models.Faculty {
	return []models.Faculty{
		{ID: "f1", Name: "Prof. Iyer", Department: "Computer Science"},
		{ID: "f2", Name: "Dr. Rao", Department: "Computer Science"},
		{ID: "f3", Name: "Dr. Menon", Department: "Mathematics"},
	}
}

func testCourses() []models.Course {
	return []models.Course{
		{ID: "c1", Name: "Data Structures", Code: "cs201", Credits: 4},
		{ID: "c2", Name: "Operating Systems", Code: "cs301", Credits: 4},
		{ID: "c3", Name: "Linear Algebra", Code: "ma201", Credits: 3},
	}
}

func testBatches() []models.Batch {
	return []models.Batch{
		{ID: "b1", Name: "CS 2nd Year", Size: 50, Department: "Computer Science", Year: 2, Semester: 3},
		{ID: "b2", Name: "CS 3rd Year", Size: 25, Department: "Computer Science", Year: 3, Semester: 5},
	}
}

func testOfferings() []models.Offering {
	return []models.Offering{
		{ID: "o1", CourseID: "c1", FacultyID: "f1", BatchID: "b1", HoursPerWeek: 2},
		{ID: "o2", CourseID: "c2", FacultyID: "f2", BatchID: "b2", HoursPerWeek: 2},
		{ID: "o3", CourseID: "c3", FacultyID: "f3", BatchID: "b1", HoursPerWeek: 1},
	}
}

// testAssignments lays the fixture offerings out by hand on Monday and
// Tuesday mornings, conflict free.
func testAssignments() []models.Assignment {
	return []models.Assignment{
		{ID: "a1", OfferingID: "O1", CourseID: "C1", FacultyID: "F1", BatchID: "B1", RoomID: "R1", Day: models.Monday, Period: 1},
		{ID: "a2", OfferingID: "O1", CourseID: "C1", FacultyID: "F1", BatchID: "B1", RoomID: "R1", Day: models.Tuesday, Period: 1},
		{ID: "a3", OfferingID: "O2", CourseID: "C2", FacultyID: "F2", BatchID: "B2", RoomID: "R2", Day: models.Monday, Period: 1},
		{ID: "a4", OfferingID: "O2", CourseID: "C2", FacultyID: "F2", BatchID: "B2", RoomID: "R2", Day: models.Tuesday, Period: 2},
		{ID: "a5", OfferingID: "O3", CourseID: "C3", FacultyID: "F3", BatchID: "B1", RoomID: "R1", Day: models.Monday, Period: 2},
	}
}
