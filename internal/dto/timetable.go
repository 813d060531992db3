package dto

import (
	"time"

	"github.com/campushub/timetable-api/internal/models"
)

// GenerateTimetableRequest asks the scheduler for one proposal per strategy.
// An empty strategy list means all three base strategies.
type GenerateTimetableRequest struct {
	Strategies []string `json:"strategies" validate:"omitempty,min=1,dive,oneof=student-friendly faculty-friendly infra-optimized enhanced"`
	Attempts   int      `json:"attempts" validate:"omitempty,min=1,max=500"`
}

// TimetableResult pairs a generated timetable with its independent
// conflict re-check.
type TimetableResult struct {
	Timetable models.Timetable      `json:"timetable"`
	Report    models.ConflictReport `json:"report"`
}

// GenerateTimetableResponse returns the stored proposal.
type GenerateTimetableResponse struct {
	ProposalID   string            `json:"proposalId"`
	Results      []TimetableResult `json:"results"`
	BestStrategy string            `json:"bestStrategy"`
	ExpiresAt    time.Time         `json:"expiresAt"`
}

// PublishTimetableRequest selects which strategy of a proposal goes live.
type PublishTimetableRequest struct {
	Strategy string `json:"strategy" validate:"required"`
}

// PublishedTimetableResponse is the live timetable view.
type PublishedTimetableResponse struct {
	Entries     []models.ScheduleEntry `json:"entries"`
	Metrics     models.ScheduleMetrics `json:"metrics"`
	PublishedAt time.Time              `json:"publishedAt"`
}

// SubstituteListResponse ranks stand-in faculty for a course.
type SubstituteListResponse struct {
	CourseCode string                       `json:"courseCode"`
	Candidates []models.SubstituteCandidate `json:"candidates"`
}
