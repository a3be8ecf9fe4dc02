package repository

import (
	"context"
	"testing"
	"time"

	"github.com/dcrowhurst/telos/internal/domain"
	"github.com/dcrowhurst/telos/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleItemRepo_RoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(db)
	activities := NewSQLiteActivityRepo(db)
	items := NewSQLiteScheduleItemRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Launch")
	require.NoError(t, projects.Create(ctx, proj))
	act := testutil.NewTestActivity(proj.ID, "Tooling")
	require.NoError(t, activities.Create(ctx, act))

	kickoff := testutil.NewTestItem(act.ID, "Kickoff",
		testutil.WithFixedDate(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)))
	trial := testutil.NewTestItem(act.ID, "Trial run",
		testutil.AnchoredTo(kickoff.ID, 10),
		testutil.WithItemOrder(1))
	require.NoError(t, items.Create(ctx, kickoff))
	require.NoError(t, items.Create(ctx, trial))

	fetched, err := items.GetByID(ctx, trial.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AnchorScheduleItem, fetched.AnchorType)
	assert.Equal(t, kickoff.ID, fetched.AnchorRefID)
	assert.Equal(t, 10, fetched.OffsetDays)
	assert.Nil(t, fetched.FixedDate)

	fixed, err := items.GetByID(ctx, kickoff.ID)
	require.NoError(t, err)
	require.NotNil(t, fixed.FixedDate)
	assert.Equal(t, "2026-03-02", fixed.FixedDate.Format("2006-01-02"))
}

func TestScheduleItemRepo_OverrideFields(t *testing.T) {
	db := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(db)
	activities := NewSQLiteActivityRepo(db)
	items := NewSQLiteScheduleItemRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Launch")
	require.NoError(t, projects.Create(ctx, proj))
	act := testutil.NewTestActivity(proj.ID, "Tooling")
	require.NoError(t, activities.Create(ctx, act))

	pin := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	it := testutil.NewTestItem(act.ID, "Pinned",
		testutil.AnchoredToMilestone("sop", -30),
		testutil.WithItemOverride(pin))
	require.NoError(t, items.Create(ctx, it))

	fetched, err := items.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Overridden())
	assert.Equal(t, "2026-05-04", fetched.OverrideDate.Format("2006-01-02"))
	assert.Equal(t, "sop", fetched.MilestoneKey)
	assert.Equal(t, -30, fetched.OffsetDays)
}

func TestScheduleItemRepo_ListByProject_SpansActivities(t *testing.T) {
	db := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(db)
	activities := NewSQLiteActivityRepo(db)
	items := NewSQLiteScheduleItemRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Launch")
	require.NoError(t, projects.Create(ctx, proj))
	first := testutil.NewTestActivity(proj.ID, "Tooling", testutil.WithActivityOrder(0))
	second := testutil.NewTestActivity(proj.ID, "Audit", testutil.WithActivityOrder(1))
	require.NoError(t, activities.Create(ctx, first))
	require.NoError(t, activities.Create(ctx, second))

	require.NoError(t, items.Create(ctx, testutil.NewTestItem(second.ID, "Audit visit")))
	require.NoError(t, items.Create(ctx, testutil.NewTestItem(first.ID, "Kickoff")))

	list, err := items.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Activity order wins over insertion order.
	assert.Equal(t, "Kickoff", list[0].Name)
	assert.Equal(t, "Audit visit", list[1].Name)
}

func TestScheduleItemRepo_CascadeFromActivity(t *testing.T) {
	db := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(db)
	activities := NewSQLiteActivityRepo(db)
	items := NewSQLiteScheduleItemRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Launch")
	require.NoError(t, projects.Create(ctx, proj))
	act := testutil.NewTestActivity(proj.ID, "Tooling")
	require.NoError(t, activities.Create(ctx, act))
	require.NoError(t, items.Create(ctx, testutil.NewTestItem(act.ID, "Kickoff")))

	require.NoError(t, activities.Delete(ctx, act.ID))

	list, err := items.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestActivityRepo_RuleCleared_WhenRuleDeleted(t *testing.T) {
	db := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(db)
	activities := NewSQLiteActivityRepo(db)
	rules := NewSQLiteRuleRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Launch")
	require.NoError(t, projects.Create(ctx, proj))

	rule := testutil.NewTestRule(domain.OperatorAll)
	require.NoError(t, rules.Create(ctx, rule))

	act := testutil.NewTestActivity(proj.ID, "Tooling", testutil.WithRuleID(rule.ID))
	require.NoError(t, activities.Create(ctx, act))

	require.NoError(t, rules.Delete(ctx, rule.ID))

	fetched, err := activities.GetByID(ctx, act.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.RuleID)
}
