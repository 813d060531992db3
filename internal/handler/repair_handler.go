package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/timetable-api/internal/dto"
	appErrors "github.com/campushub/timetable-api/pkg/errors"
	"github.com/campushub/timetable-api/pkg/response"
)

type repairPlanner interface {
	Plan(ctx context.Context, req dto.PlanRepairRequest) (*dto.PlanRepairResponse, error)
	Apply(ctx context.Context, planID string) (*dto.ApplyRepairResponse, error)
	Undo(ctx context.Context) (*dto.UndoRepairResponse, error)
	Substitutes(ctx context.Context, courseCode, excludeFacultyID string) (*dto.SubstituteListResponse, error)
}

// RepairHandler exposes disruption repair endpoints.
type RepairHandler struct {
	service repairPlanner
}

// NewRepairHandler constructs the handler.
func NewRepairHandler(svc repairPlanner) *RepairHandler {
	return &RepairHandler{service: svc}
}

// Plan godoc
// @Summary Plan repairs for disruption events
// @Description Ranks candidate repair plans for the given events against the published timetable, cheapest first.
// @Tags Repairs
// @Accept json
// @Produce json
// @Param payload body dto.PlanRepairRequest true "Disruption events"
// @Success 200 {object} response.Envelope
// @Router /repairs/plan [post]
func (h *RepairHandler) Plan(c *gin.Context) {
	var req dto.PlanRepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	resp, err := h.service.Plan(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Apply godoc
// @Summary Apply a repair plan
// @Description Applies the stored plan to the assignment snapshot. The prior snapshot is kept for undo.
// @Tags Repairs
// @Produce json
// @Param planId path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Router /repairs/{planId}/apply [post]
func (h *RepairHandler) Apply(c *gin.Context) {
	resp, err := h.service.Apply(c.Request.Context(), c.Param("planId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Undo godoc
// @Summary Undo the last applied repair
// @Tags Repairs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /repairs/undo [post]
func (h *RepairHandler) Undo(c *gin.Context) {
	resp, err := h.service.Undo(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Substitutes godoc
// @Summary Rank substitute faculty for a course
// @Description Scores every other faculty member as a stand-in for the course, best first. Pass exclude to drop the current teacher.
// @Tags Repairs
// @Produce json
// @Param code path string true "Course code"
// @Param exclude query string false "Faculty ID to exclude"
// @Success 200 {object} response.Envelope
// @Router /courses/{code}/substitutes [get]
func (h *RepairHandler) Substitutes(c *gin.Context) {
	resp, err := h.service.Substitutes(c.Request.Context(), c.Param("code"), c.Query("exclude"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
