package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dcrowhurst/telos/internal/domain"
	"github.com/dcrowhurst/telos/internal/repository"
)

type instanceService struct {
	instances   repository.InstanceRepo
	assignments repository.AssignmentRepo
}

func NewInstanceService(instances repository.InstanceRepo, assignments repository.AssignmentRepo) InstanceService {
	return &instanceService{instances: instances, assignments: assignments}
}

func (s *instanceService) Get(ctx context.Context, id string) (*domain.Instance, error) {
	return s.instances.GetByID(ctx, id)
}

func (s *instanceService) ListForSupplier(ctx context.Context, projectID, supplierID string) ([]*domain.Instance, error) {
	assignment, err := s.assignments.Get(ctx, projectID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("supplier is not assigned to this project")
	}
	return s.instances.ListByAssignment(ctx, assignment.ID)
}

func (s *instanceService) Complete(ctx context.Context, id string, actual time.Time) error {
	inst, err := s.instances.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := inst.Complete(actual, time.Now().UTC()); err != nil {
		return err
	}
	return s.instances.Update(ctx, inst)
}

func (s *instanceService) Reopen(ctx context.Context, id string) error {
	inst, err := s.instances.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := inst.Reopen(time.Now().UTC()); err != nil {
		return err
	}
	return s.instances.Update(ctx, inst)
}

func (s *instanceService) SetLocked(ctx context.Context, id string, locked bool) error {
	inst, err := s.instances.GetByID(ctx, id)
	if err != nil {
		return err
	}
	inst.Locked = locked
	inst.UpdatedAt = time.Now().UTC()
	return s.instances.Update(ctx, inst)
}

func (s *instanceService) Override(ctx context.Context, id string, date time.Time) error {
	inst, err := s.instances.GetByID(ctx, id)
	if err != nil {
		return err
	}
	inst.Override(date, time.Now().UTC())
	return s.instances.Update(ctx, inst)
}

func (s *instanceService) ClearOverride(ctx context.Context, id string) error {
	inst, err := s.instances.GetByID(ctx, id)
	if err != nil {
		return err
	}
	inst.ClearOverride(time.Now().UTC())
	return s.instances.Update(ctx, inst)
}
