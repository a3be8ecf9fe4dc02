package service

import (
	"context"
	"time"

	"github.com/dcrowhurst/telos/internal/contract"
	"github.com/dcrowhurst/telos/internal/domain"
	"github.com/dcrowhurst/telos/internal/template"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, force bool) error

	SetMilestone(ctx context.Context, projectID, key, name string, date time.Time) error
	ListMilestones(ctx context.Context, projectID string) ([]*domain.ProjectMilestone, error)
	DeleteMilestone(ctx context.Context, projectID, key string) error
}

type SupplierService interface {
	Create(ctx context.Context, s *domain.Supplier) error
	Resolve(ctx context.Context, ref string) (*domain.Supplier, error)
	List(ctx context.Context) ([]*domain.Supplier, error)
	Update(ctx context.Context, s *domain.Supplier) error
	Delete(ctx context.Context, id string) error

	// ApplySchedule assigns a supplier to a project and creates instances
	// for every schedule item whose activity's rule admits the supplier.
	// Re-running tops up missing instances without touching existing ones.
	ApplySchedule(ctx context.Context, projectID, supplierID string) (*contract.ApplyToSupplierResult, error)
	ListAssigned(ctx context.Context, projectID string) ([]*domain.Supplier, error)
}

type ScheduleService interface {
	Resolve(ctx context.Context, req contract.ScheduleRequest) (*contract.ScheduleResponse, error)
	Validate(ctx context.Context, projectRef string) ([]string, error)

	AddActivity(ctx context.Context, a *domain.Activity) error
	ListActivities(ctx context.Context, projectID string) ([]*domain.Activity, error)
	AddItem(ctx context.Context, it *domain.ScheduleItem) error
	GetItem(ctx context.Context, id string) (*domain.ScheduleItem, error)
	ListItems(ctx context.Context, projectID string) ([]*domain.ScheduleItem, error)
	UpdateItem(ctx context.Context, it *domain.ScheduleItem) error
	DeleteItem(ctx context.Context, id string) error
	OverrideItem(ctx context.Context, id string, date time.Time) error
	ClearItemOverride(ctx context.Context, id string) error
}

type PropagationService interface {
	Preview(ctx context.Context, req contract.PropagateRequest) (*contract.PreviewResponse, error)
	Apply(ctx context.Context, req contract.PropagateRequest) (*contract.ApplyResponse, error)
}

type TemplateService interface {
	List(ctx context.Context) ([]TemplateInfo, error)
	Get(ctx context.Context, name string) (*template.Schema, error)
	InitProject(ctx context.Context, templateName, projectName, shortID, startDate string, vars map[string]string) (*domain.Project, error)
	Sync(ctx context.Context, req contract.SyncRequest) (*contract.SyncResponse, error)
}

// TemplateInfo is a directory listing entry for `template list`.
type TemplateInfo struct {
	NumericID int
	ID        string
	Name      string
	Version   string
	Path      string
}

type InstanceService interface {
	Get(ctx context.Context, id string) (*domain.Instance, error)
	ListForSupplier(ctx context.Context, projectID, supplierID string) ([]*domain.Instance, error)
	Complete(ctx context.Context, id string, actual time.Time) error
	Reopen(ctx context.Context, id string) error
	SetLocked(ctx context.Context, id string, locked bool) error
	Override(ctx context.Context, id string, date time.Time) error
	ClearOverride(ctx context.Context, id string) error
}

type SettingsService interface {
	RankOrder(ctx context.Context) ([]string, error)
	SetRankOrder(ctx context.Context, ranks []string) error
}
