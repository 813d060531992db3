package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campushub/timetable-api/internal/models"
	"github.com/campushub/timetable-api/internal/timetable"
)

type stubRooms struct {
	items []models.Room
	err   error
}

func (s stubRooms) ListAll(context.Context) ([]models.Room, error) { return s.items, s.err }

type stubFaculty struct {
	items []models.Faculty
	err   error
}

func (s stubFaculty) ListAll(context.Context) ([]models.Faculty, error) { return s.items, s.err }

type stubCourses struct {
	items []models.Course
	err   error
}

func (s stubCourses) ListAll(context.Context) ([]models.Course, error) { return s.items, s.err }

type stubBatches struct {
	items []models.Batch
	err   error
}

func (s stubBatches) ListAll(context.Context) ([]models.Batch, error) { return s.items, s.err }

type stubOfferings struct {
	items []models.Offering
	err   error
}

func (s stubOfferings) ListAll(context.Context) ([]models.Offering, error) { return s.items, s.err }

type stubDatasets struct {
	d   *timetable.Dataset
	err error
}

func (s stubDatasets) Load(context.Context) (*timetable.Dataset, error) { return s.d, s.err }

// stubAssignments is an in-memory assignment snapshot recording every
// ReplaceAll call.
type stubAssignments struct {
	items    []models.Assignment
	listErr  error
	saveErr  error
	replaced [][]models.Assignment
}

func (s *stubAssignments) ListAll(context.Context) ([]models.Assignment, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]models.Assignment, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *stubAssignments) ReplaceAll(_ context.Context, assignments []models.Assignment) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	copied := make([]models.Assignment, len(assignments))
	copy(copied, assignments)
	s.replaced = append(s.replaced, copied)
	s.items = copied
	return nil
}

func fixtureRooms() []models.Room {
	return []models.Room{
		{ID: "R1", Name: "Lecture Hall A", Capacity: 60, Category: "lecture"},
		{ID: "R2", Name: "Seminar Room B", Capacity: 30, Category: "seminar"},
	}
}

func fixtureFaculty() []models.Faculty {
	return []models.Faculty{
		{ID: "F1", Name: "Prof. Iyer", Department: "Computer Science"},
		{ID: "F2", Name: "Dr. Rao", Department: "Computer Science"},
		{ID: "F3", Name: "Dr. Menon", Department: "Mathematics"},
	}
}

func fixtureCourses() []models.Course {
	return []models.Course{
		{ID: "C1", Name: "Data Structures", Code: "CS201", Credits: 4},
		{ID: "C2", Name: "Operating Systems", Code: "CS301", Credits: 4},
		{ID: "C3", Name: "Linear Algebra", Code: "MA201", Credits: 3},
	}
}

func fixtureBatches() []models.Batch {
	return []models.Batch{
		{ID: "B1", Name: "CS 2nd Year", Size: 50, Department: "Computer Science", Year: 2, Semester: 3},
		{ID: "B2", Name: "CS 3rd Year", Size: 25, Department: "Computer Science", Year: 3, Semester: 5},
	}
}

func fixtureOfferings() []models.Offering {
	return []models.Offering{
		{ID: "O1", CourseID: "C1", FacultyID: "F1", BatchID: "B1", HoursPerWeek: 2},
		{ID: "O2", CourseID: "C2", FacultyID: "F2", BatchID: "B2", HoursPerWeek: 2},
		{ID: "O3", CourseID: "C3", FacultyID: "F3", BatchID: "B1", HoursPerWeek: 1},
	}
}

func fixtureDataset(t *testing.T) *timetable.Dataset {
	t.Helper()
	d, err := timetable.NewDataset(fixtureRooms(), fixtureFaculty(), fixtureCourses(), fixtureBatches(), fixtureOfferings())
	require.NoError(t, err)
	return d
}

func fixtureAssignments() []models.Assignment {
	return []models.Assignment{
		{ID: "a1", OfferingID: "O1", CourseID: "C1", FacultyID: "F1", BatchID: "B1", RoomID: "R1", Day: models.Monday, Period: 1},
		{ID: "a2", OfferingID: "O1", CourseID: "C1", FacultyID: "F1", BatchID: "B1", RoomID: "R1", Day: models.Tuesday, Period: 1},
		{ID: "a3", OfferingID: "O2", CourseID: "C2", FacultyID: "F2", BatchID: "B2", RoomID: "R2", Day: models.Monday, Period: 1},
		{ID: "a4", OfferingID: "O2", CourseID: "C2", FacultyID: "F2", BatchID: "B2", RoomID: "R2", Day: models.Tuesday, Period: 2},
		{ID: "a5", OfferingID: "O3", CourseID: "C3", FacultyID: "F3", BatchID: "B1", RoomID: "R1", Day: models.Monday, Period: 2},
	}
}
