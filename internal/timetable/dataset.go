package timetable

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/campushub/timetable-api/internal/models"
)

// ValidationError aggregates every referential or feasibility problem found
// while assembling a dataset, so operators can fix the whole set in one pass.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("dataset validation failed: %s", strings.Join(e.Problems, "; "))
}

// Dataset is the immutable scheduling bundle: entity collections plus
// lookup-by-id maps built once at load time.
type Dataset struct {
	Rooms     []models.Room
	Faculty   []models.Faculty
	Courses   []models.Course
	Batches   []models.Batch
	Offerings []models.Offering
	Slots     []models.TimeSlot

	rooms         map[string]*models.Room
	faculty       map[string]*models.Faculty
	courses       map[string]*models.Course
	coursesByCode map[string]*models.Course
	batches       map[string]*models.Batch
	slots         map[string]*models.TimeSlot

	// suitableRooms caches, per batch id, the rooms whose capacity covers
	// the batch size, sorted by ascending capacity.
	suitableRooms map[string][]*models.Room
}

// NewDataset normalises identifiers, builds lookup maps and validates the
// bundle. The slot grid is the fixed weekly constant, never caller supplied.
func NewDataset(
	rooms []models.Room,
	faculty []models.Faculty,
	courses []models.Course,
	batches []models.Batch,
	offerings []models.Offering,
) (*Dataset, error) {
	d := &Dataset{
		Rooms:     normalizeRooms(rooms),
		Faculty:   normalizeFaculty(faculty),
		Courses:   normalizeCourses(courses),
		Batches:   normalizeBatches(batches),
		Offerings: normalizeOfferings(offerings),
		Slots:     models.WeeklyGrid(),
	}

	var problems []string

	d.rooms = make(map[string]*models.Room, len(d.Rooms))
	for i := range d.Rooms {
		r := &d.Rooms[i]
		if _, dup := d.rooms[r.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate room id %q", r.ID))
			continue
		}
		if r.Capacity <= 0 {
			problems = append(problems, fmt.Sprintf("room %q: capacity must be positive", r.ID))
		}
		d.rooms[r.ID] = r
	}

	d.faculty = make(map[string]*models.Faculty, len(d.Faculty))
	for i := range d.Faculty {
		f := &d.Faculty[i]
		if _, dup := d.faculty[f.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate faculty id %q", f.ID))
			continue
		}
		d.faculty[f.ID] = f
	}

	d.courses = make(map[string]*models.Course, len(d.Courses))
	d.coursesByCode = make(map[string]*models.Course, len(d.Courses))
	for i := range d.Courses {
		c := &d.Courses[i]
		if _, dup := d.courses[c.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate course id %q", c.ID))
			continue
		}
		d.courses[c.ID] = c
		d.coursesByCode[c.Code] = c
	}

	d.batches = make(map[string]*models.Batch, len(d.Batches))
	for i := range d.Batches {
		b := &d.Batches[i]
		if _, dup := d.batches[b.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate batch id %q", b.ID))
			continue
		}
		d.batches[b.ID] = b
	}

	d.slots = make(map[string]*models.TimeSlot, len(d.Slots))
	for i := range d.Slots {
		d.slots[d.Slots[i].ID] = &d.Slots[i]
	}

	d.suitableRooms = make(map[string][]*models.Room, len(d.Batches))
	for i := range d.Batches {
		b := &d.Batches[i]
		fitting := lo.Filter(lo.ToSlicePtr(d.Rooms), func(r *models.Room, _ int) bool {
			return r.Capacity >= b.Size
		})
		sort.SliceStable(fitting, func(i, j int) bool {
			return fitting[i].Capacity < fitting[j].Capacity
		})
		d.suitableRooms[b.ID] = fitting
		if len(fitting) == 0 {
			problems = append(problems, fmt.Sprintf("no suitable rooms for batch %q (size %d)", b.ID, b.Size))
		}
	}

	seenOfferings := make(map[string]struct{}, len(d.Offerings))
	for _, o := range d.Offerings {
		if _, dup := seenOfferings[o.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate offering id %q", o.ID))
			continue
		}
		seenOfferings[o.ID] = struct{}{}
		if _, ok := d.courses[o.CourseID]; !ok {
			problems = append(problems, fmt.Sprintf("offering %q references unknown course %q", o.ID, o.CourseID))
		}
		if _, ok := d.faculty[o.FacultyID]; !ok {
			problems = append(problems, fmt.Sprintf("offering %q references unknown faculty %q", o.ID, o.FacultyID))
		}
		if _, ok := d.batches[o.BatchID]; !ok {
			problems = append(problems, fmt.Sprintf("offering %q references unknown batch %q", o.ID, o.BatchID))
		}
		if o.HoursPerWeek <= 0 {
			problems = append(problems, fmt.Sprintf("offering %q: hoursPerWeek must be positive", o.ID))
		}
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return d, nil
}

// Room returns the room with the given id.
func (d *Dataset) Room(id string) (*models.Room, bool) {
	r, ok := d.rooms[normalizeID(id)]
	return r, ok
}

// FacultyByID returns the faculty member with the given id.
func (d *Dataset) FacultyByID(id string) (*models.Faculty, bool) {
	f, ok := d.faculty[normalizeID(id)]
	return f, ok
}

// Course returns the course with the given id.
func (d *Dataset) Course(id string) (*models.Course, bool) {
	c, ok := d.courses[normalizeID(id)]
	return c, ok
}

// CourseByCode returns the course with the given human-facing code.
func (d *Dataset) CourseByCode(code string) (*models.Course, bool) {
	c, ok := d.coursesByCode[normalizeID(code)]
	return c, ok
}

// Batch returns the batch with the given id.
func (d *Dataset) Batch(id string) (*models.Batch, bool) {
	b, ok := d.batches[normalizeID(id)]
	return b, ok
}

// Slot returns the time slot with the given id.
func (d *Dataset) Slot(id string) (*models.TimeSlot, bool) {
	s, ok := d.slots[id]
	return s, ok
}

// SuitableRooms lists rooms fitting the batch, smallest capacity first.
func (d *Dataset) SuitableRooms(batchID string) []*models.Room {
	return d.suitableRooms[normalizeID(batchID)]
}

// CourseDepartment resolves the department a course belongs to via the
// faculty assigned to its first offering. Courses carry no department of
// their own, so an unoffered course resolves to the empty string.
func (d *Dataset) CourseDepartment(courseID string) string {
	courseID = normalizeID(courseID)
	for _, o := range d.Offerings {
		if o.CourseID != courseID {
			continue
		}
		if f, ok := d.faculty[o.FacultyID]; ok {
			return f.Department
		}
	}
	return ""
}

func normalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

func normalizeRooms(in []models.Room) []models.Room {
	out := make([]models.Room, len(in))
	copy(out, in)
	for i := range out {
		out[i].ID = normalizeID(out[i].ID)
	}
	return out
}

func normalizeFaculty(in []models.Faculty) []models.Faculty {
	out := make([]models.Faculty, len(in))
	copy(out, in)
	for i := range out {
		out[i].ID = normalizeID(out[i].ID)
		for j := range out[i].Preferred {
			out[i].Preferred[j] = normalizeID(out[i].Preferred[j])
		}
	}
	return out
}

func normalizeCourses(in []models.Course) []models.Course {
	out := make([]models.Course, len(in))
	copy(out, in)
	for i := range out {
		out[i].ID = normalizeID(out[i].ID)
		out[i].Code = normalizeID(out[i].Code)
		if out[i].Duration <= 0 {
			out[i].Duration = 1
		}
	}
	return out
}

func normalizeBatches(in []models.Batch) []models.Batch {
	out := make([]models.Batch, len(in))
	copy(out, in)
	for i := range out {
		out[i].ID = normalizeID(out[i].ID)
	}
	return out
}

func normalizeOfferings(in []models.Offering) []models.Offering {
	out := make([]models.Offering, len(in))
	copy(out, in)
	for i := range out {
		out[i].ID = normalizeID(out[i].ID)
		out[i].CourseID = normalizeID(out[i].CourseID)
		out[i].FacultyID = normalizeID(out[i].FacultyID)
		out[i].BatchID = normalizeID(out[i].BatchID)
	}
	return out
}
