package scheduler

import (
	"testing"

	"github.com/dcrowhurst/telos/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateItems_CleanGraph(t *testing.T) {
	d := date(2025, 6, 2)
	items := []*domain.ScheduleItem{
		fixedItem("a", d),
		chainedItem("b", "a", 5),
		completionItem("c", "b", 3),
	}
	assert.Empty(t, ValidateItems(items))
}

func TestValidateItems_SelfReference(t *testing.T) {
	msgs := ValidateItems([]*domain.ScheduleItem{chainedItem("a", "a", 1)})

	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "references itself")
}

func TestValidateItems_UnknownAnchor(t *testing.T) {
	msgs := ValidateItems([]*domain.ScheduleItem{chainedItem("a", "ghost", 1)})

	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "unknown item ghost")
}

func TestValidateItems_MissingAnchorRef(t *testing.T) {
	item := &domain.ScheduleItem{ID: "a", Name: "a", AnchorType: domain.AnchorScheduleItem}
	msgs := ValidateItems([]*domain.ScheduleItem{item})

	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "anchor reference is required")
}

func TestValidateItems_FixedDateWithoutDate(t *testing.T) {
	item := &domain.ScheduleItem{ID: "a", Name: "a", AnchorType: domain.AnchorFixedDate}
	msgs := ValidateItems([]*domain.ScheduleItem{item})

	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "without a date")
}

func TestValidateItems_FixedDateWithoutDateButOverridden(t *testing.T) {
	pin := date(2025, 9, 1)
	item := &domain.ScheduleItem{
		ID: "a", Name: "a",
		AnchorType:      domain.AnchorFixedDate,
		OverrideEnabled: true,
		OverrideDate:    &pin,
	}
	assert.Empty(t, ValidateItems([]*domain.ScheduleItem{item}), "override substitutes for the missing date")
}

func TestValidateItems_MilestoneWithoutKey(t *testing.T) {
	item := &domain.ScheduleItem{ID: "a", Name: "a", AnchorType: domain.AnchorProjectMilestone}
	msgs := ValidateItems([]*domain.ScheduleItem{item})

	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "without a milestone reference")
}

func TestValidateItems_ReportsEveryCycleMember(t *testing.T) {
	d := date(2025, 6, 2)
	items := []*domain.ScheduleItem{
		chainedItem("a", "b", 1),
		chainedItem("b", "c", 1),
		chainedItem("c", "a", 1),
		fixedItem("ok", d),
	}

	msgs := ValidateItems(items)

	require.Len(t, msgs, 3)
	for _, id := range []string{"a", "b", "c"} {
		assert.Contains(t, msgs, id+": participates in a circular dependency")
	}
}

func TestValidateItems_ChainIntoCycleOnlyFlagsCycleMembers(t *testing.T) {
	items := []*domain.ScheduleItem{
		chainedItem("outside", "a", 1),
		chainedItem("a", "b", 1),
		chainedItem("b", "a", 1),
	}

	msgs := ValidateItems(items)

	require.Len(t, msgs, 2)
	assert.NotContains(t, msgs, "outside: participates in a circular dependency")
}

func TestValidateItems_CompletionChainIsNotACycle(t *testing.T) {
	// a waits on b's completion while b anchors to a's date. Resolution
	// can make progress once b completes, so this is not a static cycle.
	items := []*domain.ScheduleItem{
		completionItem("a", "b", 1),
		chainedItem("b", "a", 1),
	}
	assert.Empty(t, ValidateItems(items))
}
