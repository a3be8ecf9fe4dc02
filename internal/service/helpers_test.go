package service

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dcrowhurst/telos/internal/db"
	"github.com/dcrowhurst/telos/internal/domain"
	"github.com/dcrowhurst/telos/internal/repository"
	"github.com/dcrowhurst/telos/internal/testutil"
	"github.com/stretchr/testify/require"
)

// env bundles every repo and service over one test database.
type env struct {
	db  *sql.DB
	uow db.UnitOfWork

	projects    repository.ProjectRepo
	suppliers   repository.SupplierRepo
	assignments repository.AssignmentRepo
	milestones  repository.MilestoneRepo
	activities  repository.ActivityRepo
	items       repository.ScheduleItemRepo
	instances   repository.InstanceRepo
	ruleRepo    repository.RuleRepo
	settings    repository.SettingsRepo

	projectSvc  ProjectService
	supplierSvc SupplierService
	scheduleSvc ScheduleService
	propagation PropagationService
	instanceSvc InstanceService
	settingsSvc SettingsService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	database := testutil.NewTestDB(t)
	e := &env{
		db:          database,
		uow:         testutil.NewTestUoW(database),
		projects:    repository.NewSQLiteProjectRepo(database),
		suppliers:   repository.NewSQLiteSupplierRepo(database),
		assignments: repository.NewSQLiteAssignmentRepo(database),
		milestones:  repository.NewSQLiteMilestoneRepo(database),
		activities:  repository.NewSQLiteActivityRepo(database),
		items:       repository.NewSQLiteScheduleItemRepo(database),
		instances:   repository.NewSQLiteInstanceRepo(database),
		ruleRepo:    repository.NewSQLiteRuleRepo(database),
		settings:    repository.NewSQLiteSettingsRepo(database),
	}
	e.projectSvc = NewProjectService(e.projects, e.milestones)
	e.supplierSvc = NewSupplierService(e.suppliers, e.assignments, e.activities, e.items, e.instances, e.ruleRepo, e.settings, e.uow)
	e.scheduleSvc = NewScheduleService(e.projects, e.suppliers, e.activities, e.items, e.instances, e.milestones)
	e.propagation = NewPropagationService(e.projects, e.suppliers, e.items, e.instances, e.milestones, e.uow)
	e.instanceSvc = NewInstanceService(e.instances, e.assignments)
	e.settingsSvc = NewSettingsService(e.settings)
	return e
}

func (e *env) templateSvc(dir string) TemplateService {
	return NewTemplateService(dir, e.projects, e.activities, e.items, e.uow)
}

// seedProject creates a project with one activity and returns both.
func (e *env) seedProject(t *testing.T, ctx context.Context, name string) (*domain.Project, *domain.Activity) {
	t.Helper()
	proj := testutil.NewTestProject(name)
	require.NoError(t, e.projects.Create(ctx, proj))
	act := testutil.NewTestActivity(proj.ID, "Tooling")
	require.NoError(t, e.activities.Create(ctx, act))
	return proj, act
}

// seedSupplierOnProject creates a supplier, assigns it, and applies the
// schedule so instances exist.
func (e *env) seedSupplierOnProject(t *testing.T, ctx context.Context, projectID, code string, opts ...testutil.SupplierOption) *domain.Supplier {
	t.Helper()
	sup := testutil.NewTestSupplier(code, opts...)
	require.NoError(t, e.suppliers.Create(ctx, sup))
	_, err := e.supplierSvc.ApplySchedule(ctx, projectID, sup.ID)
	require.NoError(t, err)
	return sup
}

func writeTemplate(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func timePtr(t time.Time) *time.Time { return &t }
