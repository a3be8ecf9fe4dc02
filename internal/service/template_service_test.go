package service

import (
	"context"
	"testing"

	"github.com/dcrowhurst/telos/internal/contract"
	"github.com/dcrowhurst/telos/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const launchTemplateV1 = `{
	"id": "launch-standard",
	"name": "Standard Launch",
	"version": "1",
	"variables": [
		{"key": "lead_time", "default": 30}
	],
	"milestones": [
		{"key": "sop", "name": "Start of Production"}
	],
	"activities": [
		{
			"id": "tooling",
			"name": "Tooling",
			"order": 0,
			"rule": {
				"operator": "all",
				"clauses": [
					{"subject": "supplier_rank", "comparator": "in", "value": "A1,A2"}
				]
			},
			"items": [
				{"id": "kickoff", "name": "Kickoff", "kind": "task",
					"anchor": {"type": "project_milestone", "milestone": "sop", "offset_days": "-3 * lead_time"}},
				{"id": "trial", "name": "Trial run", "kind": "milestone", "order": 1,
					"anchor": {"type": "schedule_item", "ref": "kickoff", "offset_days": "lead_time"}}
			]
		}
	]
}`

// Same template, next revision: trial is renamed and retargeted, kickoff is
// gone, and a report item is new.
const launchTemplateV2 = `{
	"id": "launch-standard",
	"name": "Standard Launch",
	"version": "2",
	"variables": [
		{"key": "lead_time", "default": 30}
	],
	"milestones": [
		{"key": "sop", "name": "Start of Production"}
	],
	"activities": [
		{
			"id": "tooling",
			"name": "Tooling",
			"order": 0,
			"items": [
				{"id": "trial", "name": "First trial", "kind": "milestone", "order": 1,
					"anchor": {"type": "project_milestone", "milestone": "sop", "offset_days": "-lead_time"}},
				{"id": "report", "name": "Trial report", "kind": "task", "order": 2,
					"anchor": {"type": "completion", "ref": "trial", "offset_days": "5"}}
			]
		}
	]
}`

func TestTemplateService_InitProject(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	dir := t.TempDir()
	writeTemplate(t, dir, "launch-standard.json", launchTemplateV1)
	svc := e.templateSvc(dir)

	proj, err := svc.InitProject(ctx, "launch-standard", "Dash Launch", "DSH01", "2026-03-02", nil)
	require.NoError(t, err)
	assert.Equal(t, "launch-standard", proj.TemplateID)

	activities, err := e.activities.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "Tooling", activities[0].Name)
	assert.NotEmpty(t, activities[0].RuleID, "template rule must be attached")

	items, err := e.items.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byTemplate := map[string]*domain.ScheduleItem{}
	for _, it := range items {
		byTemplate[it.TemplateID] = it
	}
	kickoff := byTemplate["kickoff"]
	trial := byTemplate["trial"]
	require.NotNil(t, kickoff)
	require.NotNil(t, trial)
	assert.Equal(t, -90, kickoff.OffsetDays, "offset expression -3 * lead_time with default 30")
	assert.Equal(t, kickoff.ID, trial.AnchorRefID, "template ref must be remapped to the generated ID")
}

func TestTemplateService_InitProject_VarOverride(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	dir := t.TempDir()
	writeTemplate(t, dir, "launch-standard.json", launchTemplateV1)
	svc := e.templateSvc(dir)

	proj, err := svc.InitProject(ctx, "launch-standard", "Dash Launch", "DSH02", "2026-03-02",
		map[string]string{"lead_time": "10"})
	require.NoError(t, err)

	items, err := e.items.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	for _, it := range items {
		if it.TemplateID == "kickoff" {
			assert.Equal(t, -30, it.OffsetDays)
		}
	}
}

func TestTemplateService_Sync_DryRunLeavesDataAlone(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	dir := t.TempDir()
	writeTemplate(t, dir, "launch-standard.json", launchTemplateV1)
	svc := e.templateSvc(dir)

	proj, err := svc.InitProject(ctx, "launch-standard", "Dash Launch", "DSH03", "2026-03-02", nil)
	require.NoError(t, err)

	writeTemplate(t, dir, "launch-standard.json", launchTemplateV2)

	resp, err := svc.Sync(ctx, contract.SyncRequest{ProjectRef: proj.ShortID, DryRun: true})
	require.NoError(t, err)
	assert.False(t, resp.Applied)
	assert.Len(t, resp.Plan.Added, 1)
	assert.Len(t, resp.Plan.Removed, 1)
	assert.NotEmpty(t, resp.Plan.Updated)

	items, err := e.items.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2, "dry run must not write")
}

func TestTemplateService_Sync_AppliesPlan(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	dir := t.TempDir()
	writeTemplate(t, dir, "launch-standard.json", launchTemplateV1)
	svc := e.templateSvc(dir)

	proj, err := svc.InitProject(ctx, "launch-standard", "Dash Launch", "DSH04", "2026-03-02", nil)
	require.NoError(t, err)

	writeTemplate(t, dir, "launch-standard.json", launchTemplateV2)

	resp, err := svc.Sync(ctx, contract.SyncRequest{ProjectRef: proj.ShortID})
	require.NoError(t, err)
	assert.True(t, resp.Applied)

	items, err := e.items.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byTemplate := map[string]*domain.ScheduleItem{}
	for _, it := range items {
		byTemplate[it.TemplateID] = it
	}
	assert.Nil(t, byTemplate["kickoff"], "kickoff was removed in v2")

	trial := byTemplate["trial"]
	require.NotNil(t, trial)
	assert.Equal(t, "First trial", trial.Name)
	assert.Equal(t, domain.AnchorProjectMilestone, trial.AnchorType)
	assert.Equal(t, -30, trial.OffsetDays)

	report := byTemplate["report"]
	require.NotNil(t, report)
	assert.Equal(t, domain.AnchorCompletion, report.AnchorType)
	assert.Equal(t, trial.ID, report.AnchorRefID, "new item must anchor to the surviving project item")
}

func TestTemplateService_Sync_HandAddedItemsSurvive(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	dir := t.TempDir()
	writeTemplate(t, dir, "launch-standard.json", launchTemplateV1)
	svc := e.templateSvc(dir)

	proj, err := svc.InitProject(ctx, "launch-standard", "Dash Launch", "DSH05", "2026-03-02", nil)
	require.NoError(t, err)

	activities, err := e.activities.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	handAdded := &domain.ScheduleItem{
		ActivityID: activities[0].ID,
		Name:       "Extra check",
		Kind:       domain.KindTask,
		AnchorType: domain.AnchorFixedDate,
		FixedDate:  timePtr(date(2026, 6, 1)),
	}
	require.NoError(t, e.scheduleSvc.AddItem(ctx, handAdded))

	writeTemplate(t, dir, "launch-standard.json", launchTemplateV2)
	_, err = svc.Sync(ctx, contract.SyncRequest{ProjectRef: proj.ShortID})
	require.NoError(t, err)

	items, err := e.items.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	var found bool
	for _, it := range items {
		if it.Name == "Extra check" {
			found = true
		}
	}
	assert.True(t, found, "hand-added item must survive sync")
}

func TestTemplateService_Sync_ProjectWithoutTemplate(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := e.templateSvc(t.TempDir())

	proj, _ := e.seedProject(t, ctx, "Handmade")

	_, err := svc.Sync(ctx, contract.SyncRequest{ProjectRef: proj.ShortID})
	var serr *contract.SyncError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, contract.SyncErrNoTemplate, serr.Code)
}
