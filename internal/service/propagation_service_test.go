package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dcrowhurst/telos/internal/contract"
	"github.com/dcrowhurst/telos/internal/propagate"
	"github.com/dcrowhurst/telos/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedMilestoneSchedule builds a project whose single item hangs off the
// "sop" milestone, with one assigned supplier. Shifting sop then exercises
// the full preview/apply path.
func seedMilestoneSchedule(t *testing.T, ctx context.Context, e *env) (projRef string, supplierID string) {
	t.Helper()
	proj, tooling := e.seedProject(t, ctx, "Launch")
	require.NoError(t, e.projectSvc.SetMilestone(ctx, proj.ID, "sop", "SOP", date(2026, 9, 1)))
	require.NoError(t, e.items.Create(ctx, testutil.NewTestItem(tooling.ID, "Trial run",
		testutil.AnchoredToMilestone("sop", -30))))

	sup := e.seedSupplierOnProject(t, ctx, proj.ID, "ACME")
	return proj.ShortID, sup.ID
}

func TestPropagation_PreviewThenApply(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	projRef, _ := seedMilestoneSchedule(t, ctx, e)

	req := contract.PropagateRequest{ProjectRef: projRef, Policy: propagate.DefaultPolicy()}

	preview, err := e.propagation.Preview(ctx, req)
	require.NoError(t, err)
	require.Len(t, preview.WillChange, 1)
	assert.Nil(t, preview.WillChange[0].OldDate)
	assert.Equal(t, "2026-08-02", preview.WillChange[0].NewDate.Format("2006-01-02"))

	applied, err := e.propagation.Apply(ctx, req)
	require.NoError(t, err)
	require.Len(t, applied.Updated, 1)

	// The stored planned date now matches; a second preview is a no-op.
	preview2, err := e.propagation.Preview(ctx, req)
	require.NoError(t, err)
	assert.Empty(t, preview2.WillChange)
	require.Len(t, preview2.Unchanged, 1)
	assert.Equal(t, propagate.ReasonNoChange, preview2.Unchanged[0].Reason)
}

func TestPropagation_MilestoneShiftMovesPlannedDates(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	projRef, _ := seedMilestoneSchedule(t, ctx, e)

	req := contract.PropagateRequest{ProjectRef: projRef, Policy: propagate.DefaultPolicy()}
	_, err := e.propagation.Apply(ctx, req)
	require.NoError(t, err)

	proj, err := e.projectSvc.Resolve(ctx, projRef)
	require.NoError(t, err)
	require.NoError(t, e.projectSvc.SetMilestone(ctx, proj.ID, "sop", "SOP", date(2026, 10, 1)))

	preview, err := e.propagation.Preview(ctx, req)
	require.NoError(t, err)
	require.Len(t, preview.WillChange, 1)
	require.NotNil(t, preview.WillChange[0].OldDate)
	assert.Equal(t, "2026-08-02", preview.WillChange[0].OldDate.Format("2006-01-02"))
	assert.Equal(t, "2026-09-01", preview.WillChange[0].NewDate.Format("2006-01-02"))
}

func TestPropagation_LockedInstanceSurvivesApply(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	projRef, supID := seedMilestoneSchedule(t, ctx, e)

	proj, err := e.projectSvc.Resolve(ctx, projRef)
	require.NoError(t, err)
	instances, err := e.instanceSvc.ListForSupplier(ctx, proj.ID, supID)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	require.NoError(t, e.instanceSvc.SetLocked(ctx, instances[0].ID, true))

	req := contract.PropagateRequest{ProjectRef: projRef, Policy: propagate.DefaultPolicy()}
	applied, err := e.propagation.Apply(ctx, req)
	require.NoError(t, err)
	assert.Empty(t, applied.Updated)
	require.Len(t, applied.Skipped, 1)
	assert.Equal(t, propagate.ReasonLocked, applied.Skipped[0].Reason)

	// The stored date is untouched.
	inst, err := e.instanceSvc.Get(ctx, instances[0].ID)
	require.NoError(t, err)
	assert.Nil(t, inst.PlannedDate)
}

func TestPropagation_SelectiveApplyBySupplierCode(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	proj, tooling := e.seedProject(t, ctx, "Launch")
	require.NoError(t, e.projectSvc.SetMilestone(ctx, proj.ID, "sop", "SOP", date(2026, 9, 1)))
	require.NoError(t, e.items.Create(ctx, testutil.NewTestItem(tooling.ID, "Trial run",
		testutil.AnchoredToMilestone("sop", -30))))

	acme := e.seedSupplierOnProject(t, ctx, proj.ID, "ACME")
	bolt := e.seedSupplierOnProject(t, ctx, proj.ID, "BOLT")

	req := contract.PropagateRequest{
		ProjectRef:    proj.ShortID,
		SupplierCodes: []string{"ACME"},
		Policy:        propagate.DefaultPolicy(),
	}
	applied, err := e.propagation.Apply(ctx, req)
	require.NoError(t, err)
	require.Len(t, applied.Updated, 1)
	assert.Equal(t, acme.ID, applied.Updated[0].SupplierID)

	var notSelected int
	for _, skip := range applied.Skipped {
		if skip.Reason == propagate.ReasonNotSelected {
			notSelected++
			assert.Equal(t, bolt.ID, skip.SupplierID)
		}
	}
	assert.Equal(t, 1, notSelected)
}

func TestPropagation_NoAssignmentsIsTypedError(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	proj, _ := e.seedProject(t, ctx, "Launch")

	_, err := e.propagation.Preview(ctx, contract.PropagateRequest{ProjectRef: proj.ShortID})
	var perr *contract.PropagateError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, contract.PropagateErrNoAssignments, perr.Code)
}

func TestPropagation_ApplyRollsBackOnWriteFailure(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	proj, tooling := e.seedProject(t, ctx, "Launch")
	require.NoError(t, e.projectSvc.SetMilestone(ctx, proj.ID, "sop", "SOP", date(2026, 9, 1)))
	require.NoError(t, e.items.Create(ctx, testutil.NewTestItem(tooling.ID, "Trial run",
		testutil.AnchoredToMilestone("sop", -30))))
	require.NoError(t, e.items.Create(ctx, testutil.NewTestItem(tooling.ID, "Report",
		testutil.AnchoredToMilestone("sop", -10))))
	sup := e.seedSupplierOnProject(t, ctx, proj.ID, "ACME")

	// Fail the second instance write: the first must be rolled back too.
	failing := &testutil.FailOnNthExecUoW{DB: e.db, FailOn: 2, Err: errors.New("disk full")}
	svc := NewPropagationService(e.projects, e.suppliers, e.items, e.instances, e.milestones, failing)

	req := contract.PropagateRequest{ProjectRef: proj.ShortID, Policy: propagate.DefaultPolicy()}
	_, err := svc.Apply(ctx, req)
	require.Error(t, err)

	instances, err := e.instanceSvc.ListForSupplier(ctx, proj.ID, sup.ID)
	require.NoError(t, err)
	for _, inst := range instances {
		assert.Nil(t, inst.PlannedDate, "rollback must leave no partial planned dates")
	}
}
