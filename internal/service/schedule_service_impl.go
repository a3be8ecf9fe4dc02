package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dcrowhurst/telos/internal/contract"
	"github.com/dcrowhurst/telos/internal/domain"
	"github.com/dcrowhurst/telos/internal/repository"
	"github.com/dcrowhurst/telos/internal/scheduler"
	"github.com/google/uuid"
)

type scheduleService struct {
	projects   repository.ProjectRepo
	suppliers  repository.SupplierRepo
	activities repository.ActivityRepo
	items      repository.ScheduleItemRepo
	instances  repository.InstanceRepo
	milestones repository.MilestoneRepo
}

func NewScheduleService(
	projects repository.ProjectRepo,
	suppliers repository.SupplierRepo,
	activities repository.ActivityRepo,
	items repository.ScheduleItemRepo,
	instances repository.InstanceRepo,
	milestones repository.MilestoneRepo,
) ScheduleService {
	return &scheduleService{
		projects:   projects,
		suppliers:  suppliers,
		activities: activities,
		items:      items,
		instances:  instances,
		milestones: milestones,
	}
}

func (s *scheduleService) Resolve(ctx context.Context, req contract.ScheduleRequest) (*contract.ScheduleResponse, error) {
	project, err := resolveProjectRef(ctx, s.projects, req.ProjectRef)
	if err != nil {
		return nil, &contract.ScheduleError{
			Code:    contract.ScheduleErrProjectNotFound,
			Message: fmt.Sprintf("project %q not found", req.ProjectRef),
		}
	}

	items, err := s.items.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("loading schedule: %w", err)
	}
	milestoneDates, err := s.milestoneDates(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	// Completion anchors only have actual dates from a concrete supplier's
	// point of view.
	actuals := map[string]time.Time{}
	if req.SupplierCode != "" {
		sup, err := resolveSupplierRef(ctx, s.suppliers, req.SupplierCode)
		if err != nil {
			return nil, &contract.ScheduleError{
				Code:    contract.ScheduleErrSupplierNotFound,
				Message: fmt.Sprintf("supplier %q not found", req.SupplierCode),
			}
		}
		records, err := s.instances.ListByProject(ctx, project.ID)
		if err != nil {
			return nil, fmt.Errorf("loading instances: %w", err)
		}
		for _, rec := range records {
			if rec.Instance.SupplierID == sup.ID && rec.Instance.ActualDate != nil {
				actuals[rec.Instance.ItemID] = *rec.Instance.ActualDate
			}
		}
	}

	resolved := scheduler.Resolve(items, scheduler.ResolveOptions{
		BusinessDays:   req.BusinessDays,
		ActualDates:    actuals,
		MilestoneDates: milestoneDates,
	})

	return &contract.ScheduleResponse{
		GeneratedAt: time.Now().UTC(),
		ProjectID:   project.ID,
		ProjectName: project.Name,
		Items:       resolved,
		Issues:      scheduler.ValidateItems(items),
	}, nil
}

func (s *scheduleService) Validate(ctx context.Context, projectRef string) ([]string, error) {
	project, err := resolveProjectRef(ctx, s.projects, projectRef)
	if err != nil {
		return nil, &contract.ScheduleError{
			Code:    contract.ScheduleErrProjectNotFound,
			Message: fmt.Sprintf("project %q not found", projectRef),
		}
	}
	items, err := s.items.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("loading schedule: %w", err)
	}
	issues := scheduler.ValidateItems(items)

	// Milestone anchors must also point at dates the project has set.
	milestoneDates, err := s.milestoneDates(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.AnchorType == domain.AnchorProjectMilestone && it.MilestoneKey != "" {
			if _, ok := milestoneDates[it.MilestoneKey]; !ok {
				issues = append(issues, fmt.Sprintf("item %q references milestone %q which has no date", it.Name, it.MilestoneKey))
			}
		}
	}
	return issues, nil
}

func (s *scheduleService) AddActivity(ctx context.Context, a *domain.Activity) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	return s.activities.Create(ctx, a)
}

func (s *scheduleService) ListActivities(ctx context.Context, projectID string) ([]*domain.Activity, error) {
	return s.activities.ListByProject(ctx, projectID)
}

func (s *scheduleService) AddItem(ctx context.Context, it *domain.ScheduleItem) error {
	if err := validateAnchorFields(it); err != nil {
		return err
	}
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	it.CreatedAt = now
	it.UpdatedAt = now
	return s.items.Create(ctx, it)
}

func (s *scheduleService) GetItem(ctx context.Context, id string) (*domain.ScheduleItem, error) {
	return s.items.GetByID(ctx, id)
}

func (s *scheduleService) ListItems(ctx context.Context, projectID string) ([]*domain.ScheduleItem, error) {
	return s.items.ListByProject(ctx, projectID)
}

func (s *scheduleService) UpdateItem(ctx context.Context, it *domain.ScheduleItem) error {
	if err := validateAnchorFields(it); err != nil {
		return err
	}
	it.UpdatedAt = time.Now().UTC()
	return s.items.Update(ctx, it)
}

func (s *scheduleService) DeleteItem(ctx context.Context, id string) error {
	return s.items.Delete(ctx, id)
}

func (s *scheduleService) OverrideItem(ctx context.Context, id string, date time.Time) error {
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return err
	}
	it.OverrideEnabled = true
	it.OverrideDate = &date
	it.UpdatedAt = time.Now().UTC()
	return s.items.Update(ctx, it)
}

func (s *scheduleService) ClearItemOverride(ctx context.Context, id string) error {
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return err
	}
	it.OverrideEnabled = false
	it.OverrideDate = nil
	it.UpdatedAt = time.Now().UTC()
	return s.items.Update(ctx, it)
}

func (s *scheduleService) milestoneDates(ctx context.Context, projectID string) (map[string]time.Time, error) {
	milestones, err := s.milestones.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading milestones: %w", err)
	}
	dates := make(map[string]time.Time, len(milestones))
	for _, m := range milestones {
		dates[m.Key] = m.Date
	}
	return dates, nil
}

// validateAnchorFields rejects items whose anchor fields do not match the
// declared anchor type. An effective override pin stands in for a missing
// fixed date, but ref anchors must still point somewhere.
func validateAnchorFields(it *domain.ScheduleItem) error {
	if !domain.ValidAnchorTypes[string(it.AnchorType)] {
		return fmt.Errorf("unknown anchor type %q", it.AnchorType)
	}
	switch it.AnchorType {
	case domain.AnchorFixedDate:
		if it.FixedDate == nil && !it.Overridden() {
			return fmt.Errorf("fixed_date anchor requires a date")
		}
	case domain.AnchorScheduleItem, domain.AnchorCompletion:
		if it.AnchorRefID == "" {
			return fmt.Errorf("%s anchor requires a referenced item", it.AnchorType)
		}
		if it.AnchorRefID == it.ID {
			return fmt.Errorf("item cannot anchor to itself")
		}
	case domain.AnchorProjectMilestone:
		if it.MilestoneKey == "" {
			return fmt.Errorf("project_milestone anchor requires a milestone key")
		}
	}
	return nil
}
