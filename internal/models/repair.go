package models

// EventType discriminates disruption event variants.
type EventType string

const (
	EventFacultyLeave    EventType = "facultyLeave"
	EventRoomUnavailable EventType = "roomUnavailable"
	EventCapacityChange  EventType = "capacityChange"
)

// Event describes a disruption invalidating part of an assignment set.
// Days and Periods, when present, restrict the event to matching slots.
type Event struct {
	Type        EventType `json:"type" mapstructure:"type"`
	FacultyID   string    `json:"facultyId,omitempty" mapstructure:"facultyId"`
	RoomID      string    `json:"roomId,omitempty" mapstructure:"roomId"`
	NewCapacity int       `json:"newCapacity,omitempty" mapstructure:"newCapacity"`
	Days        []Day     `json:"days,omitempty" mapstructure:"days"`
	Periods     []int     `json:"periods,omitempty" mapstructure:"periods"`
}

// Placement pins an assignment to a slot, room and faculty.
type Placement struct {
	Day       Day    `json:"day"`
	Period    int    `json:"period"`
	RoomID    string `json:"roomId"`
	FacultyID string `json:"facultyId"`
}

// RepairMove relocates one assignment from one placement to another.
type RepairMove struct {
	OfferingID string    `json:"offeringId"`
	CourseID   string    `json:"courseId"`
	BatchID    string    `json:"batchId"`
	From       Placement `json:"from"`
	To         Placement `json:"to"`
	Cost       float64   `json:"cost"`
}

// FacultySubstitution swaps the teaching faculty of one assignment in place.
type FacultySubstitution struct {
	OfferingID    string  `json:"offeringId"`
	CourseID      string  `json:"courseId"`
	Day           Day     `json:"day"`
	Period        int     `json:"period"`
	RoomID        string  `json:"roomId"`
	FromFacultyID string  `json:"fromFacultyId"`
	ToFacultyID   string  `json:"toFacultyId"`
	Cost          float64 `json:"cost"`
}

// RepairDelta summarises how a plan changes the assignment set.
type RepairDelta struct {
	Impacted      int `json:"impacted"`
	Moves         int `json:"moves"`
	RoomChanges   int `json:"roomChanges"`
	TimeChanges   int `json:"timeChanges"`
	Substitutions int `json:"substitutions"`
	Unresolved    int `json:"unresolved"`
}

// RepairPlan is a candidate remediation for a disruption event set.
// Lower scores are better.
type RepairPlan struct {
	ID            string                `json:"id,omitempty"`
	Strategy      string                `json:"strategy"`
	Moves         []RepairMove          `json:"moves"`
	Substitutions []FacultySubstitution `json:"substitutions"`
	Score         float64               `json:"score"`
	Explanation   string                `json:"explanation"`
	Delta         RepairDelta           `json:"delta"`
}

// SubstituteCandidate is a ranked replacement faculty for a course.
type SubstituteCandidate struct {
	FacultyID  string `json:"facultyId"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Score      int    `json:"score"`
}
