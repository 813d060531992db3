package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/timetable-api/internal/dto"
	appErrors "github.com/campushub/timetable-api/pkg/errors"
	"github.com/campushub/timetable-api/pkg/response"
)

type timetableGenerator interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error)
	Publish(ctx context.Context, proposalID string, req dto.PublishTimetableRequest) (*dto.PublishedTimetableResponse, error)
	Published(ctx context.Context) (*dto.PublishedTimetableResponse, error)
}

// TimetableHandler exposes timetable generation and publication endpoints.
type TimetableHandler struct {
	service timetableGenerator
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc timetableGenerator) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Generate godoc
// @Summary Generate timetable proposals
// @Description Builds one timetable per requested strategy (all three base strategies when none given) and stores the batch as an expiring proposal.
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generate payload"
// @Success 201 {object} response.Envelope
// @Router /timetables/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	resp, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// Publish godoc
// @Summary Publish one strategy of a proposal
// @Description Persists the chosen timetable as the live assignment snapshot and primes the published-view cache.
// @Tags Timetables
// @Accept json
// @Produce json
// @Param proposalId path string true "Proposal ID"
// @Param payload body dto.PublishTimetableRequest true "Publish payload"
// @Success 200 {object} response.Envelope
// @Router /timetables/{proposalId}/publish [post]
func (h *TimetableHandler) Publish(c *gin.Context) {
	var req dto.PublishTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	resp, err := h.service.Publish(c.Request.Context(), c.Param("proposalId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Published godoc
// @Summary Get the live timetable
// @Description Serves the published timetable, cache first.
// @Tags Timetables
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetables/published [get]
func (h *TimetableHandler) Published(c *gin.Context) {
	resp, err := h.service.Published(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
