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
	appErrors "github.com/campushub/timetable-api/pkg/errors"
)

type fakeTimetableSrv struct {
	generateResp  *dto.GenerateTimetableResponse
	generateErr   error
	publishResp   *dto.PublishedTimetableResponse
	publishErr    error
	publishedResp *dto.PublishedTimetableResponse
	publishedErr  error
	lastProposal  string
	lastStrategy  string
}

func (f *fakeTimetableSrv) Generate(context.Context, dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	return f.generateResp, f.generateErr
}

func (f *fakeTimetableSrv) Publish(_ context.Context, proposalID string, req dto.PublishTimetableRequest) (*dto.PublishedTimetableResponse, error) {
	f.lastProposal = proposalID
	f.lastStrategy = req.Strategy
	return f.publishResp, f.publishErr
}

func (f *fakeTimetableSrv) Published(context.Context) (*dto.PublishedTimetableResponse, error) {
	return f.publishedResp, f.publishedErr
}

func TestTimetableHandlerGenerateSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&fakeTimetableSrv{
		generateResp: &dto.GenerateTimetableResponse{ProposalID: "p-1", BestStrategy: "student-friendly"},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/timetables/generate", strings.NewReader(`{"attempts":5}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Generate(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	var envelope struct {
		Data dto.GenerateTimetableResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "p-1", envelope.Data.ProposalID)
}

func TestTimetableHandlerGenerateBadBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&fakeTimetableSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/timetables/generate", strings.NewReader("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Generate(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTimetableHandlerPublishRoutesParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeTimetableSrv{publishResp: &dto.PublishedTimetableResponse{}}
	handler := NewTimetableHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "proposalId", Value: "p-9"}}
	c.Request = httptest.NewRequest(http.MethodPost, "/timetables/p-9/publish", strings.NewReader(`{"strategy":"enhanced"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Publish(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p-9", srv.lastProposal)
	assert.Equal(t, "enhanced", srv.lastStrategy)
}

func TestTimetableHandlerPublishedNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&fakeTimetableSrv{
		publishedErr: appErrors.Clone(appErrors.ErrNotFound, "no published timetable"),
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/timetables/published", nil)

	handler.Published(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
