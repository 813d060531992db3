package dto

import (
	"time"

	"github.com/campushub/timetable-api/internal/models"
)

// RepairScopeRequest optionally narrows the assignments a plan may touch.
type RepairScopeRequest struct {
	BatchIDs []string `json:"batchIds" validate:"omitempty,dive,required"`
	Days     []string `json:"days" validate:"omitempty,dive,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY"`
}

// PlanRepairRequest carries raw disruption events. Events are polymorphic on
// their "type" field and decoded service-side.
type PlanRepairRequest struct {
	Events   []map[string]any    `json:"events" validate:"required,min=1"`
	Scope    *RepairScopeRequest `json:"scope"`
	MaxPlans int                 `json:"maxPlans" validate:"omitempty,min=1,max=20"`
}

// PlanRepairResponse returns the ranked candidate plans, cheapest first.
type PlanRepairResponse struct {
	Plans     []models.RepairPlan `json:"plans"`
	Impacted  int                 `json:"impacted"`
	ExpiresAt time.Time           `json:"expiresAt"`
}

// ApplyRepairResponse reports the state after a plan was applied.
type ApplyRepairResponse struct {
	PlanID      string                 `json:"planId"`
	Strategy    string                 `json:"strategy"`
	Assignments int                    `json:"assignments"`
	Metrics     models.ScheduleMetrics `json:"metrics"`
	UndoDepth   int                    `json:"undoDepth"`
}

// UndoRepairResponse reports the state after the last apply was rolled back.
type UndoRepairResponse struct {
	Assignments int `json:"assignments"`
	UndoDepth   int `json:"undoDepth"`
}
