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

func TestProjectRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	proj := testutil.NewTestProject("Dash Launch", testutil.WithStartDate(start), testutil.WithTemplateID("launch-standard"))
	require.NoError(t, repo.Create(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, proj.ID, fetched.ID)
	assert.Equal(t, "Dash Launch", fetched.Name)
	assert.Equal(t, domain.ProjectActive, fetched.Status)
	assert.Equal(t, "launch-standard", fetched.TemplateID)
	assert.Equal(t, "2026-03-02", fetched.StartDate.Format("2006-01-02"))
}

func TestProjectRepo_GetByShortID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Brakes", testutil.WithShortID("BRK01"))
	require.NoError(t, repo.Create(ctx, proj))

	// Case-insensitive lookup.
	fetched, err := repo.GetByShortID(ctx, "brk01")
	require.NoError(t, err)
	assert.Equal(t, proj.ID, fetched.ID)
	assert.Equal(t, "BRK01", fetched.ShortID)
}

func TestProjectRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "nonexistent")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestProjectRepo_List_ExcludesArchived(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	p1 := testutil.NewTestProject("Active1")
	p2 := testutil.NewTestProject("Active2")
	p3 := testutil.NewTestProject("Archived")
	require.NoError(t, repo.Create(ctx, p1))
	require.NoError(t, repo.Create(ctx, p2))
	require.NoError(t, repo.Create(ctx, p3))
	require.NoError(t, repo.Archive(ctx, p3.ID))

	list, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	listAll, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, listAll, 3)
}

func TestProjectRepo_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("OrigName")
	require.NoError(t, repo.Create(ctx, proj))

	proj.Name = "NewName"
	proj.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "NewName", fetched.Name)
}

func TestProjectRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Doomed")
	require.NoError(t, repo.Create(ctx, proj))
	require.NoError(t, repo.Delete(ctx, proj.ID))

	_, err := repo.GetByID(ctx, proj.ID)
	assert.Error(t, err)
}

func TestMilestoneRepo_UpsertAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(db)
	milestones := NewSQLiteMilestoneRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Launch")
	require.NoError(t, projects.Create(ctx, proj))

	sop := testutil.NewTestMilestone(proj.ID, "sop", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, milestones.Upsert(ctx, sop))

	// Upsert with a new date replaces, not duplicates.
	sop.Date = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, milestones.Upsert(ctx, sop))

	list, err := milestones.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "sop", list[0].Key)
	assert.Equal(t, "2026-10-01", list[0].Date.Format("2006-01-02"))
}
