package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dcrowhurst/telos/internal/domain"
	"github.com/dcrowhurst/telos/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects   repository.ProjectRepo
	milestones repository.MilestoneRepo
}

func NewProjectService(projects repository.ProjectRepo, milestones repository.MilestoneRepo) ProjectService {
	return &projectService{projects: projects, milestones: milestones}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) error {
	if err := p.ValidateShortID(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = domain.ProjectActive
	}
	return s.projects.Create(ctx, p)
}

func (s *projectService) Resolve(ctx context.Context, ref string) (*domain.Project, error) {
	return resolveProjectRef(ctx, s.projects, ref)
}

func (s *projectService) List(ctx context.Context, includeArchived bool) ([]*domain.Project, error) {
	return s.projects.List(ctx, includeArchived)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) error {
	p.UpdatedAt = time.Now().UTC()
	return s.projects.Update(ctx, p)
}

func (s *projectService) Archive(ctx context.Context, id string) error {
	return s.projects.Archive(ctx, id)
}

func (s *projectService) Delete(ctx context.Context, id string, force bool) error {
	if !force {
		p, err := s.projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.Status != domain.ProjectArchived {
			return fmt.Errorf("project must be archived before deletion (use --force to override)")
		}
	}
	return s.projects.Delete(ctx, id)
}

func (s *projectService) SetMilestone(ctx context.Context, projectID, key, name string, date time.Time) error {
	if key == "" {
		return fmt.Errorf("milestone key is required")
	}
	return s.milestones.Upsert(ctx, &domain.ProjectMilestone{
		ProjectID: projectID,
		Key:       key,
		Name:      name,
		Date:      date,
		UpdatedAt: time.Now().UTC(),
	})
}

func (s *projectService) ListMilestones(ctx context.Context, projectID string) ([]*domain.ProjectMilestone, error) {
	return s.milestones.ListByProject(ctx, projectID)
}

func (s *projectService) DeleteMilestone(ctx context.Context, projectID, key string) error {
	return s.milestones.Delete(ctx, projectID, key)
}
