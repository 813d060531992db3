package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/timetable-api/internal/dto"
	"github.com/campushub/timetable-api/internal/models"
	appErrors "github.com/campushub/timetable-api/pkg/errors"
)

type fakeRepairSrv struct {
	planResp    *dto.PlanRepairResponse
	planErr     error
	applyResp   *dto.ApplyRepairResponse
	applyErr    error
	undoResp    *dto.UndoRepairResponse
	undoErr     error
	subsResp    *dto.SubstituteListResponse
	subsErr     error
	lastPlanID  string
	lastCode    string
	lastExclude string
}

func (f *fakeRepairSrv) Plan(context.Context, dto.PlanRepairRequest) (*dto.PlanRepairResponse, error) {
	return f.planResp, f.planErr
}

func (f *fakeRepairSrv) Apply(_ context.Context, planID string) (*dto.ApplyRepairResponse, error) {
	f.lastPlanID = planID
	return f.applyResp, f.applyErr
}

func (f *fakeRepairSrv) Undo(context.Context) (*dto.UndoRepairResponse, error) {
	return f.undoResp, f.undoErr
}

func (f *fakeRepairSrv) Substitutes(_ context.Context, code, exclude string) (*dto.SubstituteListResponse, error) {
	f.lastCode = code
	f.lastExclude = exclude
	return f.subsResp, f.subsErr
}

func TestRepairHandlerPlanSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRepairHandler(&fakeRepairSrv{
		planResp: &dto.PlanRepairResponse{
			Plans:    []models.RepairPlan{{ID: "plan-1", Strategy: "faculty-first"}},
			Impacted: 2,
		},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/repairs/plan",
		strings.NewReader(`{"events":[{"type":"facultyLeave","facultyId":"F1"}]}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Plan(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data dto.PlanRepairResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Plans, 1)
	assert.Equal(t, "plan-1", envelope.Data.Plans[0].ID)
}

func TestRepairHandlerApplyRoutesPlanID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeRepairSrv{applyResp: &dto.ApplyRepairResponse{PlanID: "plan-7"}}
	handler := NewRepairHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "planId", Value: "plan-7"}}
	c.Request = httptest.NewRequest(http.MethodPost, "/repairs/plan-7/apply", nil)

	handler.Apply(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "plan-7", srv.lastPlanID)
}

func TestRepairHandlerUndoNothingToUndo(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRepairHandler(&fakeRepairSrv{
		undoErr: appErrors.Clone(appErrors.ErrConflict, "nothing to undo"),
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/repairs/undo", nil)

	handler.Undo(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRepairHandlerSubstitutesRoutesParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeRepairSrv{subsResp: &dto.SubstituteListResponse{CourseCode: "CS201"}}
	handler := NewRepairHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "code", Value: "CS201"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/courses/CS201/substitutes?exclude=F1", nil)

	handler.Substitutes(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CS201", srv.lastCode)
	assert.Equal(t, "F1", srv.lastExclude)
}
