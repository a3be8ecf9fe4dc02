package template

import (
	"testing"

	"github.com/dcrowhurst/telos/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generateProject seeds a project from the test schema, returning the
// activities and items the sync can diff against.
func generateProject(t *testing.T, schema *Schema) ([]*domain.Activity, []*domain.ScheduleItem) {
	t.Helper()
	gen, err := Generate(schema, "proj-1", nil, testNow)
	require.NoError(t, err)
	return gen.Activities, gen.Items
}

func TestPlanSync_NoChanges(t *testing.T) {
	schema := testSchema()
	acts, items := generateProject(t, schema)

	plan, err := PlanSync(schema, "proj-1", acts, items, nil, testNow)
	require.NoError(t, err)
	assert.True(t, plan.Empty())
}

func TestPlanSync_AddedItem(t *testing.T) {
	schema := testSchema()
	acts, items := generateProject(t, schema)

	schema.Activities[0].Items = append(schema.Activities[0].Items, ItemConfig{
		ID: "ppap", Name: "PPAP Submission", Kind: "task",
		Anchor: AnchorConfig{Type: "schedule_item", Ref: "trial", OffsetDays: "20"},
	})

	plan, err := PlanSync(schema, "proj-1", acts, items, nil, testNow)
	require.NoError(t, err)

	require.Len(t, plan.Added, 1)
	assert.Empty(t, plan.Removed)
	assert.Empty(t, plan.Updated)

	added := plan.Added[0]
	assert.Equal(t, "ppap", added.TemplateID)
	trial := itemByTemplateID(t, items, "trial")
	assert.Equal(t, trial.ID, added.AnchorRefID, "new item's anchor remapped to the existing project item")
}

func TestPlanSync_RemovedItem(t *testing.T) {
	schema := testSchema()
	acts, items := generateProject(t, schema)

	// Drop the trailing report item from the template.
	schema.Activities[0].Items = schema.Activities[0].Items[:2]

	plan, err := PlanSync(schema, "proj-1", acts, items, nil, testNow)
	require.NoError(t, err)

	require.Len(t, plan.Removed, 1)
	assert.Equal(t, "report", plan.Removed[0].TemplateID)
}

func TestPlanSync_HandAddedItemsAreKept(t *testing.T) {
	schema := testSchema()
	acts, items := generateProject(t, schema)

	manual := &domain.ScheduleItem{
		ID: "manual-1", ActivityID: acts[0].ID, Name: "Extra Check",
		Kind: domain.KindTask, AnchorType: domain.AnchorFixedDate,
	}
	items = append(items, manual)

	plan, err := PlanSync(schema, "proj-1", acts, items, nil, testNow)
	require.NoError(t, err)
	assert.True(t, plan.Empty(), "items without a template ID are outside sync scope")
}

func TestPlanSync_UpdatedFields(t *testing.T) {
	schema := testSchema()
	acts, items := generateProject(t, schema)

	schema.Activities[0].Items[1].Name = "Tool Trial Run"
	schema.Activities[0].Items[1].Anchor.OffsetDays = "12"

	plan, err := PlanSync(schema, "proj-1", acts, items, nil, testNow)
	require.NoError(t, err)

	require.Len(t, plan.Updated, 1)
	up := plan.Updated[0]
	assert.Equal(t, "trial", up.TemplateID)
	assert.Equal(t, "Tool Trial Run", up.Name)
	assert.Equal(t, 12, up.OffsetDays)

	// The stored item is untouched until the plan is applied.
	assert.Equal(t, "Tool Trial", itemByTemplateID(t, items, "trial").Name)
}

func TestPlanSync_AnchorRetarget(t *testing.T) {
	schema := testSchema()
	acts, items := generateProject(t, schema)

	// report now chains off kickoff instead of trial.
	schema.Activities[0].Items[2].Anchor = AnchorConfig{
		Type: "schedule_item", Ref: "kickoff", OffsetDays: "5",
	}

	plan, err := PlanSync(schema, "proj-1", acts, items, nil, testNow)
	require.NoError(t, err)

	require.Len(t, plan.Updated, 1)
	up := plan.Updated[0]
	assert.Equal(t, "report", up.TemplateID)
	assert.Equal(t, domain.AnchorScheduleItem, up.AnchorType)
	assert.Equal(t, itemByTemplateID(t, items, "kickoff").ID, up.AnchorRefID)
}

func TestPlanSync_AddedItemAnchoredToAddedItem(t *testing.T) {
	// Both ends of the new anchor edge are created by this sync; the remap
	// must translate through IDs assigned in the same pass, regardless of
	// declaration order.
	schema := testSchema()
	acts, items := generateProject(t, schema)

	schema.Activities[0].Items = append(schema.Activities[0].Items,
		ItemConfig{
			ID: "review", Name: "Review", Kind: "task",
			Anchor: AnchorConfig{Type: "schedule_item", Ref: "signoff", OffsetDays: "-2"},
		},
		ItemConfig{
			ID: "signoff", Name: "Signoff", Kind: "milestone",
			Anchor: AnchorConfig{Type: "fixed_date", FixedDate: "2025-12-01"},
		},
	)

	plan, err := PlanSync(schema, "proj-1", acts, items, nil, testNow)
	require.NoError(t, err)

	require.Len(t, plan.Added, 2)
	var review, signoff *domain.ScheduleItem
	for _, it := range plan.Added {
		switch it.TemplateID {
		case "review":
			review = it
		case "signoff":
			signoff = it
		}
	}
	require.NotNil(t, review)
	require.NotNil(t, signoff)
	assert.Equal(t, signoff.ID, review.AnchorRefID)
}

func TestPlanSync_AddedActivityWithRule(t *testing.T) {
	schema := testSchema()
	acts, items := generateProject(t, schema)

	schema.Activities = append(schema.Activities, ActivityConfig{
		ID: "logistics", Name: "Logistics",
		Rule: &RuleConfig{
			Operator: "any",
			Clauses:  []ClauseConfig{{Subject: "part_rank", Comparator: "eq", Value: "A1"}},
		},
		Items: []ItemConfig{{
			ID: "packaging", Name: "Packaging Approval", Kind: "task",
			Anchor: AnchorConfig{Type: "schedule_item", Ref: "kickoff", OffsetDays: "30"},
		}},
	})

	plan, err := PlanSync(schema, "proj-1", acts, items, nil, testNow)
	require.NoError(t, err)

	require.Len(t, plan.AddedActivities, 1)
	require.Len(t, plan.AddedRules, 1)
	require.Len(t, plan.AddedClauses, 1)
	require.Len(t, plan.Added, 1)
	assert.Equal(t, plan.AddedActivities[0].ID, plan.Added[0].ActivityID)
	assert.Equal(t, plan.AddedRules[0].ID, plan.AddedActivities[0].RuleID)
}

func TestPlanSync_UnknownAnchorRefInTemplate(t *testing.T) {
	schema := testSchema()
	acts, items := generateProject(t, schema)

	schema.Activities[0].Items[1].Anchor.Ref = "ghost"

	_, err := PlanSync(schema, "proj-1", acts, items, nil, testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}
