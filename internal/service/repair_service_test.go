package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/timetable-api/internal/dto"
	"github.com/campushub/timetable-api/pkg/config"
	appErrors "github.com/campushub/timetable-api/pkg/errors"
)

func newRepairServiceFixture(t *testing.T, assignments *stubAssignments) *RepairService {
	t.Helper()
	if assignments == nil {
		assignments = &stubAssignments{items: fixtureAssignments()}
	}
	return NewRepairService(
		stubDatasets{d: fixtureDataset(t)},
		assignments,
		nil,
		nil,
		nil,
		nil,
		config.RepairConfig{MaxPlans: 5, PlanTTL: time.Minute, UndoDepth: 3},
	)
}

func TestRepairServicePlanFacultyLeave(t *testing.T) {
	svc := newRepairServiceFixture(t, nil)

	resp, err := svc.Plan(context.Background(), dto.PlanRepairRequest{
		Events: []map[string]any{
			{"type": "facultyLeave", "facultyId": "f1"},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Plans)
	assert.Equal(t, 2, resp.Impacted)
	for _, plan := range resp.Plans {
		assert.NotEmpty(t, plan.ID)
		assert.NotEmpty(t, plan.Explanation)
	}
	for i := 1; i < len(resp.Plans); i++ {
		assert.LessOrEqual(t, resp.Plans[i-1].Score, resp.Plans[i].Score)
	}
}

func TestRepairServicePlanRejectsUnknownEventType(t *testing.T) {
	svc := newRepairServiceFixture(t, nil)

	_, err := svc.Plan(context.Background(), dto.PlanRepairRequest{
		Events: []map[string]any{{"type": "meteorStrike"}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRepairServicePlanRequiresEventFields(t *testing.T) {
	svc := newRepairServiceFixture(t, nil)

	_, err := svc.Plan(context.Background(), dto.PlanRepairRequest{
		Events: []map[string]any{{"type": "capacityChange", "roomId": "R1"}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRepairServiceApplyAndUndoRoundTrip(t *testing.T) {
	store := &stubAssignments{items: fixtureAssignments()}
	svc := newRepairServiceFixture(t, store)
	original, err := store.ListAll(context.Background())
	require.NoError(t, err)

	planned, err := svc.Plan(context.Background(), dto.PlanRepairRequest{
		Events: []map[string]any{
			{"type": "facultyLeave", "facultyId": "F1"},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, planned.Plans)

	applied, err := svc.Apply(context.Background(), planned.Plans[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 5, applied.Assignments)
	assert.Equal(t, 1, applied.UndoDepth)
	assert.NotEqual(t, original, store.items, "apply must change the snapshot")

	// A consumed plan cannot be applied twice.
	_, err = svc.Apply(context.Background(), planned.Plans[0].ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	undone, err := svc.Undo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, undone.Assignments)
	assert.Zero(t, undone.UndoDepth)
	assert.Equal(t, original, store.items)

	_, err = svc.Undo(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestRepairServicePlanHonoursScopeAndLimit(t *testing.T) {
	svc := newRepairServiceFixture(t, nil)

	resp, err := svc.Plan(context.Background(), dto.PlanRepairRequest{
		Events: []map[string]any{
			{"type": "facultyLeave", "facultyId": "F1"},
		},
		Scope:    &dto.RepairScopeRequest{Days: []string{"MONDAY"}},
		MaxPlans: 1,
	})
	require.NoError(t, err)
	require.Len(t, resp.Plans, 1)
	assert.Equal(t, 1, resp.Impacted)
}

func TestRepairServiceSubstitutes(t *testing.T) {
	svc := newRepairServiceFixture(t, nil)

	resp, err := svc.Substitutes(context.Background(), "cs201", "F1")
	require.NoError(t, err)
	assert.Equal(t, "CS201", resp.CourseCode)
	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, "F2", resp.Candidates[0].FacultyID)

	_, err = svc.Substitutes(context.Background(), "XX999", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUndoStackBoundedDepth(t *testing.T) {
	stack := newUndoStack(2)
	stack.Push(fixtureAssignments()[:1])
	stack.Push(fixtureAssignments()[:2])
	stack.Push(fixtureAssignments()[:3])

	assert.Equal(t, 2, stack.Depth())
	snapshot, ok := stack.Pop()
	require.True(t, ok)
	assert.Len(t, snapshot, 3)
}
