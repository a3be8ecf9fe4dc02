package propagate

import (
	"testing"
	"time"

	"github.com/dcrowhurst/telos/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedItem(id string, d time.Time) *domain.ScheduleItem {
	return &domain.ScheduleItem{
		ID: id, Name: id,
		Kind:       domain.KindMilestone,
		AnchorType: domain.AnchorFixedDate,
		FixedDate:  &d,
	}
}

func chainedItem(id, refID string, offset int) *domain.ScheduleItem {
	return &domain.ScheduleItem{
		ID: id, Name: id,
		Kind:        domain.KindTask,
		AnchorType:  domain.AnchorScheduleItem,
		AnchorRefID: refID,
		OffsetDays:  offset,
	}
}

func instance(id, itemID string, planned *time.Time) *domain.Instance {
	return &domain.Instance{
		ID: id, SupplierID: "sup-1", ItemID: itemID,
		Status:      domain.InstanceOpen,
		PlannedDate: planned,
	}
}

func oneSupplier(instances ...*domain.Instance) []SupplierSchedule {
	return []SupplierSchedule{{SupplierID: "sup-1", Instances: instances}}
}

func TestPreview_DetectsDateChange(t *testing.T) {
	newDate := date(2025, 7, 1)
	oldDate := date(2025, 6, 1)
	items := []*domain.ScheduleItem{fixedItem("a", newDate)}

	result := Preview(items, nil, oneSupplier(instance("i1", "a", &oldDate)), DefaultPolicy())

	require.Len(t, result.WillChange, 1)
	assert.Empty(t, result.Unchanged)
	ch := result.WillChange[0]
	assert.Equal(t, "i1", ch.InstanceID)
	assert.Equal(t, oldDate, *ch.OldDate)
	assert.Equal(t, newDate, ch.NewDate)
}

func TestPreview_NoChangeWhenDatesEqual(t *testing.T) {
	d := date(2025, 7, 1)
	items := []*domain.ScheduleItem{fixedItem("a", d)}

	result := Preview(items, nil, oneSupplier(instance("i1", "a", &d)), DefaultPolicy())

	assert.Empty(t, result.WillChange)
	require.Len(t, result.Unchanged, 1)
	assert.Equal(t, ReasonNoChange, result.Unchanged[0].Reason)
}

func TestPreview_FirstDateCountsAsChange(t *testing.T) {
	d := date(2025, 7, 1)
	items := []*domain.ScheduleItem{fixedItem("a", d)}

	result := Preview(items, nil, oneSupplier(instance("i1", "a", nil)), DefaultPolicy())

	require.Len(t, result.WillChange, 1)
	assert.Nil(t, result.WillChange[0].OldDate)
}

func TestPreview_LockedProtection(t *testing.T) {
	newDate := date(2025, 7, 1)
	oldDate := date(2025, 6, 1)
	items := []*domain.ScheduleItem{fixedItem("a", newDate)}
	inst := instance("i1", "a", &oldDate)
	inst.Locked = true

	result := Preview(items, nil, oneSupplier(inst), DefaultPolicy())
	assert.Empty(t, result.WillChange, "locked instance never appears in willChange under skipLocked")
	require.Len(t, result.Unchanged, 1)
	assert.Equal(t, ReasonLocked, result.Unchanged[0].Reason)

	// Same inputs with the protection off: the change shows up.
	policy := DefaultPolicy()
	policy.SkipLocked = false
	result = Preview(items, nil, oneSupplier(inst), policy)
	require.Len(t, result.WillChange, 1)
}

func TestPreview_ProtectionPriorityOrder(t *testing.T) {
	oldDate := date(2025, 6, 1)
	items := []*domain.ScheduleItem{fixedItem("a", date(2025, 7, 1))}
	inst := instance("i1", "a", &oldDate)
	inst.Locked = true
	inst.Overridden = true
	inst.Status = domain.InstanceComplete

	result := Preview(items, nil, oneSupplier(inst), DefaultPolicy())
	require.Len(t, result.Unchanged, 1)
	assert.Equal(t, ReasonLocked, result.Unchanged[0].Reason, "locked is checked before overridden and complete")

	policy := DefaultPolicy()
	policy.SkipLocked = false
	result = Preview(items, nil, oneSupplier(inst), policy)
	require.Len(t, result.Unchanged, 1)
	assert.Equal(t, ReasonOverridden, result.Unchanged[0].Reason)

	policy.SkipOverridden = false
	result = Preview(items, nil, oneSupplier(inst), policy)
	require.Len(t, result.Unchanged, 1)
	assert.Equal(t, ReasonComplete, result.Unchanged[0].Reason)
}

func TestPreview_UsesPerSupplierActualDates(t *testing.T) {
	// b is completion-anchored on a. Supplier one has completed a,
	// supplier two has not: b changes for one, stays pending for two.
	start := date(2025, 6, 2)
	actual := date(2025, 6, 12)
	items := []*domain.ScheduleItem{
		fixedItem("a", start),
		{ID: "b", Name: "b", AnchorType: domain.AnchorCompletion, AnchorRefID: "a", OffsetDays: 7},
	}

	doneA := &domain.Instance{ID: "s1-a", SupplierID: "s1", ItemID: "a",
		Status: domain.InstanceComplete, ActualDate: &actual, PlannedDate: &start}
	s1b := &domain.Instance{ID: "s1-b", SupplierID: "s1", ItemID: "b", Status: domain.InstanceOpen}
	s2a := &domain.Instance{ID: "s2-a", SupplierID: "s2", ItemID: "a", Status: domain.InstanceOpen, PlannedDate: &start}
	s2b := &domain.Instance{ID: "s2-b", SupplierID: "s2", ItemID: "b", Status: domain.InstanceOpen}

	suppliers := []SupplierSchedule{
		{SupplierID: "s1", Instances: []*domain.Instance{doneA, s1b}},
		{SupplierID: "s2", Instances: []*domain.Instance{s2a, s2b}},
	}

	result := Preview(items, nil, suppliers, DefaultPolicy())

	require.Len(t, result.WillChange, 1)
	assert.Equal(t, "s1-b", result.WillChange[0].InstanceID)
	assert.Equal(t, actual.AddDate(0, 0, 7), result.WillChange[0].NewDate)

	var s2bSkip *Skip
	for i := range result.Unchanged {
		if result.Unchanged[i].InstanceID == "s2-b" {
			s2bSkip = &result.Unchanged[i]
		}
	}
	require.NotNil(t, s2bSkip)
	assert.Contains(t, s2bSkip.Reason, "pending")
}

func TestPreview_UnresolvableItemDoesNotAbortOthers(t *testing.T) {
	d := date(2025, 7, 1)
	items := []*domain.ScheduleItem{
		chainedItem("x", "y", 1),
		chainedItem("y", "x", 1),
		fixedItem("a", d),
	}
	insts := oneSupplier(
		instance("i-x", "x", nil),
		instance("i-a", "a", nil),
	)

	result := Preview(items, nil, insts, DefaultPolicy())

	require.Len(t, result.WillChange, 1)
	assert.Equal(t, "i-a", result.WillChange[0].InstanceID)
	require.Len(t, result.Unchanged, 1)
	assert.Contains(t, result.Unchanged[0].Reason, "unresolved")
}

func TestPreview_InstanceForRemovedItem(t *testing.T) {
	result := Preview(nil, nil, oneSupplier(instance("i1", "gone", nil)), DefaultPolicy())

	assert.Empty(t, result.WillChange)
	require.Len(t, result.Unchanged, 1)
	assert.Equal(t, ReasonItemGone, result.Unchanged[0].Reason)
}

func TestApply_AllSelectedByDefault(t *testing.T) {
	preview := PreviewResult{
		WillChange: []Change{
			{SupplierID: "s1", InstanceID: "i1", NewDate: date(2025, 7, 1)},
			{SupplierID: "s2", InstanceID: "i2", NewDate: date(2025, 7, 2)},
		},
		Unchanged: []Skip{{SupplierID: "s1", InstanceID: "i3", Reason: ReasonLocked}},
	}

	result := Apply(preview, nil)

	assert.Len(t, result.Updated, 2)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, ReasonLocked, result.Skipped[0].Reason)
}

func TestApply_SelectiveBySupplier(t *testing.T) {
	preview := PreviewResult{
		WillChange: []Change{
			{SupplierID: "s1", InstanceID: "i1", NewDate: date(2025, 7, 1)},
			{SupplierID: "s2", InstanceID: "i2", NewDate: date(2025, 7, 2)},
		},
	}

	result := Apply(preview, []string{"s2"})

	require.Len(t, result.Updated, 1)
	assert.Equal(t, "i2", result.Updated[0].InstanceID)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, ReasonNotSelected, result.Skipped[0].Reason)
}

func TestApply_EmptyPreviewUpdatesNothing(t *testing.T) {
	d := date(2025, 7, 1)
	items := []*domain.ScheduleItem{fixedItem("a", d)}
	preview := Preview(items, nil, oneSupplier(instance("i1", "a", &d)), DefaultPolicy())
	require.Empty(t, preview.WillChange)

	result := Apply(preview, nil)
	assert.Empty(t, result.Updated, "apply over a zero-change preview mutates nothing")
}

func TestPreview_Deterministic(t *testing.T) {
	d := date(2025, 6, 2)
	items := []*domain.ScheduleItem{
		fixedItem("a", d),
		chainedItem("b", "a", 5),
	}
	old := date(2025, 5, 1)
	suppliers := oneSupplier(
		instance("i-a", "a", &old),
		instance("i-b", "b", nil),
	)

	first := Preview(items, nil, suppliers, DefaultPolicy())
	second := Preview(items, nil, suppliers, DefaultPolicy())
	assert.Equal(t, first, second)
}
