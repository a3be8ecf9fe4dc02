package repository

import (
	"context"

	"github.com/dcrowhurst/telos/internal/domain"
)

// InstanceRecord is a joined view of an instance with its assignment
// context, used when loading a whole project's instances for propagation.
type InstanceRecord struct {
	Instance     domain.Instance
	AssignmentID string
	SupplierCode string
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type SupplierRepo interface {
	Create(ctx context.Context, s *domain.Supplier) error
	GetByID(ctx context.Context, id string) (*domain.Supplier, error)
	GetByCode(ctx context.Context, code string) (*domain.Supplier, error)
	List(ctx context.Context) ([]*domain.Supplier, error)
	Update(ctx context.Context, s *domain.Supplier) error
	Delete(ctx context.Context, id string) error
}

type AssignmentRepo interface {
	Create(ctx context.Context, a *domain.Assignment) error
	Get(ctx context.Context, projectID, supplierID string) (*domain.Assignment, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Assignment, error)
	Delete(ctx context.Context, id string) error
}

type MilestoneRepo interface {
	Upsert(ctx context.Context, m *domain.ProjectMilestone) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.ProjectMilestone, error)
	Delete(ctx context.Context, projectID, key string) error
}

type ActivityRepo interface {
	Create(ctx context.Context, a *domain.Activity) error
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Activity, error)
	Update(ctx context.Context, a *domain.Activity) error
	Delete(ctx context.Context, id string) error
}

type ScheduleItemRepo interface {
	Create(ctx context.Context, it *domain.ScheduleItem) error
	GetByID(ctx context.Context, id string) (*domain.ScheduleItem, error)
	ListByActivity(ctx context.Context, activityID string) ([]*domain.ScheduleItem, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.ScheduleItem, error)
	Update(ctx context.Context, it *domain.ScheduleItem) error
	Delete(ctx context.Context, id string) error
}

type RuleRepo interface {
	Create(ctx context.Context, r *domain.ApplicabilityRule) error
	GetByID(ctx context.Context, id string) (*domain.ApplicabilityRule, error)
	Update(ctx context.Context, r *domain.ApplicabilityRule) error
	Delete(ctx context.Context, id string) error
	CreateClause(ctx context.Context, c *domain.ApplicabilityClause) error
	ListClauses(ctx context.Context, ruleID string) ([]domain.ApplicabilityClause, error)
}

type InstanceRepo interface {
	Create(ctx context.Context, i *domain.Instance) error
	GetByID(ctx context.Context, id string) (*domain.Instance, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]*domain.Instance, error)
	ListByProject(ctx context.Context, projectID string) ([]InstanceRecord, error)
	Update(ctx context.Context, i *domain.Instance) error
	DeleteByItem(ctx context.Context, assignmentID, itemID string) error
}

type SettingsRepo interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
