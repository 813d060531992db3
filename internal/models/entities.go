package models

// Room is a teaching space. Immutable once loaded.
type Room struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Capacity int    `db:"capacity" json:"capacity"`
	Category string `db:"category" json:"category"`
}

// Faculty is a member of teaching staff.
type Faculty struct {
	ID         string   `db:"id" json:"id"`
	Name       string   `db:"name" json:"name"`
	Department string   `db:"department" json:"department"`
	Preferred  []string `db:"-" json:"preferredSlots,omitempty"`
}

// Course is a unit of teaching identified to humans by its code.
type Course struct {
	ID      string `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Code    string `db:"code" json:"code"`
	Credits int    `db:"credits" json:"credits"`
	// Duration is the nominal session length in periods. Fixed at 1.
	Duration int `db:"duration" json:"duration"`
}

// Batch is a cohort of students taught together.
type Batch struct {
	ID         string `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Size       int    `db:"size" json:"size"`
	Department string `db:"department" json:"department"`
	Year       int    `db:"year" json:"year"`
	Semester   int    `db:"semester" json:"semester"`
}

// Offering demands that a course be taught by a faculty to a batch for
// HoursPerWeek independent sessions.
type Offering struct {
	ID           string `db:"id" json:"id"`
	CourseID     string `db:"course_id" json:"courseId"`
	FacultyID    string `db:"faculty_id" json:"facultyId"`
	BatchID      string `db:"batch_id" json:"batchId"`
	HoursPerWeek int    `db:"hours_per_week" json:"hoursPerWeek"`
}
