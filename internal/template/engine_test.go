package template

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dcrowhurst/telos/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func testSchema() *Schema {
	return &Schema{
		ID:      "launch-standard",
		Name:    "Standard Launch",
		Version: "1",
		Variables: []VariableConfig{
			{Key: "lead_time", Default: json.RawMessage("30")},
		},
		Milestones: []MilestoneConfig{
			{Key: "sop", Name: "Start of Production"},
		},
		Activities: []ActivityConfig{
			{
				ID:   "tooling",
				Name: "Tooling",
				Rule: &RuleConfig{
					Operator: "all",
					Clauses: []ClauseConfig{
						{Subject: "supplier_rank", Comparator: "in", Value: "A1,A2"},
					},
				},
				Items: []ItemConfig{
					{
						ID: "kickoff", Name: "Tooling Kickoff", Kind: "milestone",
						Anchor: AnchorConfig{Type: "project_milestone", Milestone: "sop", OffsetDays: "-lead_time"},
					},
					{
						ID: "trial", Name: "Tool Trial", Kind: "task",
						Anchor: AnchorConfig{Type: "schedule_item", Ref: "kickoff", OffsetDays: "10"},
					},
					{
						ID: "report", Name: "Trial Report", Kind: "task",
						Anchor: AnchorConfig{Type: "completion", Ref: "trial", OffsetDays: "5"},
					},
				},
			},
			{
				ID:   "audit",
				Name: "Audit",
				Items: []ItemConfig{
					{
						ID: "initial-audit", Name: "Initial Audit", Kind: "task",
						Anchor: AnchorConfig{Type: "fixed_date", FixedDate: "2025-09-01"},
					},
				},
			},
		},
	}
}

func TestGenerate_ProducesFullSchedule(t *testing.T) {
	gen, err := Generate(testSchema(), "proj-1", nil, testNow)
	require.NoError(t, err)

	require.Len(t, gen.Activities, 2)
	require.Len(t, gen.Items, 4)
	require.Len(t, gen.Rules, 1)
	require.Len(t, gen.Clauses, 1)
	assert.Equal(t, []MilestoneConfig{{Key: "sop", Name: "Start of Production"}}, gen.Milestones)

	tooling := gen.Activities[0]
	assert.Equal(t, "proj-1", tooling.ProjectID)
	assert.Equal(t, "tooling", tooling.TemplateID)
	assert.Equal(t, gen.Rules[0].ID, tooling.RuleID)
	assert.Empty(t, gen.Activities[1].RuleID, "activity without rule config has no rule")
}

func TestGenerate_EvaluatesOffsetExpressions(t *testing.T) {
	gen, err := Generate(testSchema(), "proj-1", nil, testNow)
	require.NoError(t, err)

	kickoff := itemByTemplateID(t, gen.Items, "kickoff")
	assert.Equal(t, -30, kickoff.OffsetDays, "default lead_time is 30")

	gen, err = Generate(testSchema(), "proj-1", map[string]string{"lead_time": "45"}, testNow)
	require.NoError(t, err)
	kickoff = itemByTemplateID(t, gen.Items, "kickoff")
	assert.Equal(t, -45, kickoff.OffsetDays)
}

func TestGenerate_RemapsAnchorRefs(t *testing.T) {
	gen, err := Generate(testSchema(), "proj-1", nil, testNow)
	require.NoError(t, err)

	kickoff := itemByTemplateID(t, gen.Items, "kickoff")
	trial := itemByTemplateID(t, gen.Items, "trial")
	report := itemByTemplateID(t, gen.Items, "report")

	assert.Equal(t, kickoff.ID, trial.AnchorRefID, "template ref rewritten to the generated item ID")
	assert.Equal(t, trial.ID, report.AnchorRefID)
	assert.NotEqual(t, "kickoff", trial.AnchorRefID)
}

func TestGenerate_ForwardReference(t *testing.T) {
	// An item may anchor to one defined later in the template.
	schema := &Schema{
		ID: "fwd", Name: "Forward", Version: "1",
		Activities: []ActivityConfig{{
			ID: "a", Name: "A",
			Items: []ItemConfig{
				{ID: "first", Name: "First", Kind: "task",
					Anchor: AnchorConfig{Type: "schedule_item", Ref: "second", OffsetDays: "-7"}},
				{ID: "second", Name: "Second", Kind: "milestone",
					Anchor: AnchorConfig{Type: "fixed_date", FixedDate: "2025-10-01"}},
			},
		}},
	}

	gen, err := Generate(schema, "proj-1", nil, testNow)
	require.NoError(t, err)

	first := itemByTemplateID(t, gen.Items, "first")
	second := itemByTemplateID(t, gen.Items, "second")
	assert.Equal(t, second.ID, first.AnchorRefID)
}

func TestGenerate_UnknownAnchorRef(t *testing.T) {
	schema := testSchema()
	schema.Activities[0].Items[1].Anchor.Ref = "ghost"

	_, err := Generate(schema, "proj-1", nil, testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestGenerate_RequiredVariableMissing(t *testing.T) {
	schema := testSchema()
	schema.Variables = []VariableConfig{{Key: "lead_time", Required: true}}

	_, err := Generate(schema, "proj-1", nil, testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lead_time")
}

func TestResolveVariables_Bounds(t *testing.T) {
	lo, hi := 1, 60
	decls := []VariableConfig{{Key: "lead_time", Default: json.RawMessage("30"), Min: &lo, Max: &hi}}

	_, err := ResolveVariables(decls, map[string]string{"lead_time": "0"})
	assert.Error(t, err)

	_, err = ResolveVariables(decls, map[string]string{"lead_time": "90"})
	assert.Error(t, err)

	vars, err := ResolveVariables(decls, map[string]string{"lead_time": "15"})
	require.NoError(t, err)
	assert.Equal(t, 15, vars["lead_time"])
}

func itemByTemplateID(t *testing.T, items []*domain.ScheduleItem, templateID string) *domain.ScheduleItem {
	t.Helper()
	for _, it := range items {
		if it.TemplateID == templateID {
			return it
		}
	}
	t.Fatalf("no item with template ID %s", templateID)
	return nil
}
