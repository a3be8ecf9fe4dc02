package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dcrowhurst/telos/internal/contract"
	"github.com/dcrowhurst/telos/internal/db"
	"github.com/dcrowhurst/telos/internal/domain"
	"github.com/dcrowhurst/telos/internal/propagate"
	"github.com/dcrowhurst/telos/internal/repository"
)

type propagationService struct {
	projects   repository.ProjectRepo
	suppliers  repository.SupplierRepo
	items      repository.ScheduleItemRepo
	instances  repository.InstanceRepo
	milestones repository.MilestoneRepo
	uow        db.UnitOfWork
	observer   UseCaseObserver
}

func NewPropagationService(
	projects repository.ProjectRepo,
	suppliers repository.SupplierRepo,
	items repository.ScheduleItemRepo,
	instances repository.InstanceRepo,
	milestones repository.MilestoneRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) PropagationService {
	return &propagationService{
		projects:   projects,
		suppliers:  suppliers,
		items:      items,
		instances:  instances,
		milestones: milestones,
		uow:        uow,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *propagationService) Preview(ctx context.Context, req contract.PropagateRequest) (*contract.PreviewResponse, error) {
	project, preview, err := s.preview(ctx, req)
	if err != nil {
		return nil, err
	}
	return &contract.PreviewResponse{
		GeneratedAt: time.Now().UTC(),
		ProjectID:   project.ID,
		WillChange:  preview.WillChange,
		Unchanged:   preview.Unchanged,
	}, nil
}

// Apply previews and then writes the accepted changes in one transaction.
// The written dates come verbatim from the preview, never from a second
// resolution pass.
func (s *propagationService) Apply(ctx context.Context, req contract.PropagateRequest) (resp *contract.ApplyResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": req.ProjectRef}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "propagate-apply",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	project, preview, err := s.preview(ctx, req)
	if err != nil {
		return nil, err
	}

	var selected []string
	if len(req.SupplierCodes) > 0 {
		selected, err = s.supplierIDsByCode(ctx, req.SupplierCodes)
		if err != nil {
			return nil, err
		}
	}

	applied := propagate.Apply(preview, selected)
	fields["updated"] = len(applied.Updated)
	fields["skipped"] = len(applied.Skipped)

	if len(applied.Updated) > 0 {
		err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			txInstances := repository.NewSQLiteInstanceRepo(tx)
			now := time.Now().UTC()
			for _, ch := range applied.Updated {
				inst, getErr := txInstances.GetByID(ctx, ch.InstanceID)
				if getErr != nil {
					return fmt.Errorf("loading instance %s: %w", ch.InstanceID, getErr)
				}
				d := ch.NewDate
				inst.PlannedDate = &d
				inst.UpdatedAt = now
				if updErr := txInstances.Update(ctx, inst); updErr != nil {
					return fmt.Errorf("updating instance %s: %w", ch.InstanceID, updErr)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return &contract.ApplyResponse{
		GeneratedAt: time.Now().UTC(),
		ProjectID:   project.ID,
		Updated:     applied.Updated,
		Skipped:     applied.Skipped,
	}, nil
}

func (s *propagationService) preview(ctx context.Context, req contract.PropagateRequest) (*domain.Project, propagate.PreviewResult, error) {
	var empty propagate.PreviewResult

	project, err := resolveProjectRef(ctx, s.projects, req.ProjectRef)
	if err != nil {
		return nil, empty, &contract.PropagateError{
			Code:    contract.PropagateErrProjectNotFound,
			Message: fmt.Sprintf("project %q not found", req.ProjectRef),
		}
	}

	items, err := s.items.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, empty, fmt.Errorf("loading schedule: %w", err)
	}

	milestones, err := s.milestones.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, empty, fmt.Errorf("loading milestones: %w", err)
	}
	milestoneDates := make(map[string]time.Time, len(milestones))
	for _, m := range milestones {
		milestoneDates[m.Key] = m.Date
	}

	records, err := s.instances.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, empty, fmt.Errorf("loading instances: %w", err)
	}
	if len(records) == 0 {
		return nil, empty, &contract.PropagateError{
			Code:    contract.PropagateErrNoAssignments,
			Message: "no supplier schedules to propagate to",
		}
	}

	// Group into per-supplier schedules, preserving the repo's supplier
	// ordering so previews are stable run to run.
	var order []string
	bySupplier := make(map[string][]*domain.Instance)
	for i := range records {
		rec := records[i]
		if _, seen := bySupplier[rec.Instance.SupplierID]; !seen {
			order = append(order, rec.Instance.SupplierID)
		}
		inst := rec.Instance
		bySupplier[rec.Instance.SupplierID] = append(bySupplier[rec.Instance.SupplierID], &inst)
	}
	schedules := make([]propagate.SupplierSchedule, 0, len(order))
	for _, supID := range order {
		schedules = append(schedules, propagate.SupplierSchedule{
			SupplierID: supID,
			Instances:  bySupplier[supID],
		})
	}

	return project, propagate.Preview(items, milestoneDates, schedules, req.Policy), nil
}

func (s *propagationService) supplierIDsByCode(ctx context.Context, codes []string) ([]string, error) {
	ids := make([]string, 0, len(codes))
	for _, code := range codes {
		sup, err := s.suppliers.GetByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("supplier %q: %w", code, err)
		}
		ids = append(ids, sup.ID)
	}
	return ids, nil
}
