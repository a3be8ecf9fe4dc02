package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dcrowhurst/telos/internal/contract"
	"github.com/dcrowhurst/telos/internal/db"
	"github.com/dcrowhurst/telos/internal/domain"
	"github.com/dcrowhurst/telos/internal/repository"
	"github.com/google/uuid"
)

type supplierService struct {
	suppliers   repository.SupplierRepo
	assignments repository.AssignmentRepo
	activities  repository.ActivityRepo
	items       repository.ScheduleItemRepo
	instances   repository.InstanceRepo
	ruleRepo    repository.RuleRepo
	settings    repository.SettingsRepo
	uow         db.UnitOfWork
	observer    UseCaseObserver
}

func NewSupplierService(
	suppliers repository.SupplierRepo,
	assignments repository.AssignmentRepo,
	activities repository.ActivityRepo,
	items repository.ScheduleItemRepo,
	instances repository.InstanceRepo,
	ruleRepo repository.RuleRepo,
	settings repository.SettingsRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) SupplierService {
	return &supplierService{
		suppliers:   suppliers,
		assignments: assignments,
		activities:  activities,
		items:       items,
		instances:   instances,
		ruleRepo:    ruleRepo,
		settings:    settings,
		uow:         uow,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *supplierService) Create(ctx context.Context, sup *domain.Supplier) error {
	if err := sup.ValidateCode(); err != nil {
		return err
	}
	if sup.ID == "" {
		sup.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	sup.CreatedAt = now
	sup.UpdatedAt = now
	return s.suppliers.Create(ctx, sup)
}

func (s *supplierService) Resolve(ctx context.Context, ref string) (*domain.Supplier, error) {
	return resolveSupplierRef(ctx, s.suppliers, ref)
}

func (s *supplierService) List(ctx context.Context) ([]*domain.Supplier, error) {
	return s.suppliers.List(ctx)
}

func (s *supplierService) Update(ctx context.Context, sup *domain.Supplier) error {
	sup.UpdatedAt = time.Now().UTC()
	return s.suppliers.Update(ctx, sup)
}

func (s *supplierService) Delete(ctx context.Context, id string) error {
	return s.suppliers.Delete(ctx, id)
}

// ApplySchedule deep-copies the applicable part of a project's schedule onto
// a supplier. The assignment and all instances are created in one
// transaction; a failure leaves the supplier unassigned.
func (s *supplierService) ApplySchedule(ctx context.Context, projectID, supplierID string) (result *contract.ApplyToSupplierResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": projectID, "supplier_id": supplierID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "apply-schedule",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	sup, err := s.suppliers.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	rankOrder, err := loadRankOrder(ctx, s.settings)
	if err != nil {
		return nil, err
	}
	evalCtx := evalContextFor(sup, rankOrder)

	activities, err := s.activities.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	// Decide applicability outside the transaction; rule evaluation is
	// read-only.
	var applicable []*domain.Activity
	var skippedActivities []string
	for _, a := range activities {
		ok, evalErr := activityApplies(ctx, s.ruleRepo, a, evalCtx)
		if evalErr != nil {
			return nil, fmt.Errorf("evaluating rule for activity %q: %w", a.Name, evalErr)
		}
		if ok {
			applicable = append(applicable, a)
		} else {
			skippedActivities = append(skippedActivities, a.Name)
		}
	}

	result = &contract.ApplyToSupplierResult{
		SupplierID:        supplierID,
		ActivitiesSkipped: skippedActivities,
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txAssignments := repository.NewSQLiteAssignmentRepo(tx)
		txItems := repository.NewSQLiteScheduleItemRepo(tx)
		txInstances := repository.NewSQLiteInstanceRepo(tx)

		now := time.Now().UTC()
		assignment, getErr := txAssignments.Get(ctx, projectID, supplierID)
		if getErr != nil {
			assignment = &domain.Assignment{
				ID:         uuid.New().String(),
				ProjectID:  projectID,
				SupplierID: supplierID,
				CreatedAt:  now,
			}
			if createErr := txAssignments.Create(ctx, assignment); createErr != nil {
				return fmt.Errorf("creating assignment: %w", createErr)
			}
		}
		result.AssignmentID = assignment.ID

		existing, listErr := txInstances.ListByAssignment(ctx, assignment.ID)
		if listErr != nil {
			return listErr
		}
		have := make(map[string]bool, len(existing))
		for _, inst := range existing {
			have[inst.ItemID] = true
		}

		for _, a := range applicable {
			items, itemsErr := txItems.ListByActivity(ctx, a.ID)
			if itemsErr != nil {
				return itemsErr
			}
			for _, it := range items {
				if have[it.ID] {
					result.SkippedExisting++
					continue
				}
				inst := &domain.Instance{
					ID:           uuid.New().String(),
					AssignmentID: assignment.ID,
					SupplierID:   supplierID,
					ItemID:       it.ID,
					Status:       domain.InstanceOpen,
					CreatedAt:    now,
					UpdatedAt:    now,
				}
				if createErr := txInstances.Create(ctx, inst); createErr != nil {
					return fmt.Errorf("creating instance for item %q: %w", it.Name, createErr)
				}
				result.CreatedInstances++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["created"] = result.CreatedInstances
	fields["skipped_existing"] = result.SkippedExisting
	return result, nil
}

func (s *supplierService) ListAssigned(ctx context.Context, projectID string) ([]*domain.Supplier, error) {
	assignments, err := s.assignments.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	suppliers := make([]*domain.Supplier, 0, len(assignments))
	for _, a := range assignments {
		sup, err := s.suppliers.GetByID(ctx, a.SupplierID)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, sup)
	}
	return suppliers, nil
}
