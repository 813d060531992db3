package models

// ScheduleEntry is one placed session of an offering.
type ScheduleEntry struct {
	OfferingID string `json:"offeringId"`
	CourseID   string `json:"courseId"`
	FacultyID  string `json:"facultyId"`
	BatchID    string `json:"batchId"`
	RoomID     string `json:"roomId"`
	SlotID     string `json:"slotId"`
	Day        Day    `json:"day"`
	Period     int    `json:"period"`
}

// ScheduleMetrics summarises the quality of a set of schedule entries.
type ScheduleMetrics struct {
	ClashCount          int     `json:"clashCount"`
	RoomUtilization     float64 `json:"roomUtilization"`
	FacultyUtilization  float64 `json:"facultyUtilization"`
	FacultyLoadBalance  float64 `json:"facultyLoadBalance"`
	AverageRoomFill     float64 `json:"averageRoomFill"`
	BatchGapCount       int     `json:"batchGapCount"`
	UnscheduledSessions int     `json:"unscheduledSessions"`
	EfficiencyScore     float64 `json:"efficiencyScore"`
}

// Timetable is one generated weekly schedule with derived metrics.
type Timetable struct {
	Strategy string          `json:"strategy"`
	Entries  []ScheduleEntry `json:"entries"`
	Metrics  ScheduleMetrics `json:"metrics"`
	Attempts int             `json:"attempts,omitempty"`
}

// Assignment is the flattened form of a schedule entry used by the repair
// planner and the persistence layer. Identifiers are kept raw so no lookup
// is needed when matching disruption events.
type Assignment struct {
	ID         string `db:"id" json:"id"`
	OfferingID string `db:"offering_id" json:"offeringId"`
	CourseID   string `db:"course_id" json:"courseId"`
	FacultyID  string `db:"faculty_id" json:"facultyId"`
	BatchID    string `db:"batch_id" json:"batchId"`
	RoomID     string `db:"room_id" json:"roomId"`
	Day        Day    `db:"day" json:"day"`
	Period     int    `db:"period" json:"period"`
}

// SlotKey returns the slot identifier the assignment occupies.
func (a Assignment) SlotKey() string {
	return SlotID(a.Day, a.Period)
}

// SlotConflict reports a resource referenced by more than one entry at a slot.
type SlotConflict struct {
	SlotID   string `json:"slotId"`
	Resource string `json:"resource"`
	Count    int    `json:"count"`
}

// UnfulfilledOffering reports an offering whose weekly hours were not met.
type UnfulfilledOffering struct {
	OfferingID string `json:"offeringId"`
	CourseID   string `json:"courseId"`
	Missing    int    `json:"missing"`
	Reason     string `json:"reason"`
}

// ConflictReport is the diagnostic output of the independent conflict scan.
type ConflictReport struct {
	Conflicts   []SlotConflict        `json:"conflicts"`
	Unfulfilled []UnfulfilledOffering `json:"unfulfilled"`
}

// Clean reports whether the scan found neither conflicts nor unmet hours.
func (r ConflictReport) Clean() bool {
	return len(r.Conflicts) == 0 && len(r.Unfulfilled) == 0
}
