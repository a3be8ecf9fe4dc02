package domain

import (
	"fmt"
	"time"
)

// Instance is a supplier's tracked copy of a ScheduleItem. It references the
// originating item by ID and carries the supplier-local state: status,
// protection flags, the stored planned date, and the actual completion date.
type Instance struct {
	ID           string
	AssignmentID string
	SupplierID   string
	ItemID       string
	Status     InstanceStatus
	Locked     bool
	Overridden bool

	PlannedDate *time.Time // last accepted planned date
	ActualDate  *time.Time // set when the instance is completed

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal reports whether the instance is in a final state.
func (i *Instance) IsTerminal() bool {
	return i.Status == InstanceComplete || i.Status == InstanceCancelled
}

// Complete marks the instance complete with the given actual date.
// Completing an already-complete instance keeps the original actual date.
func (i *Instance) Complete(actual, now time.Time) error {
	if i.Status == InstanceCancelled {
		return fmt.Errorf("cannot complete a cancelled instance")
	}
	if i.Status == InstanceComplete {
		return nil
	}
	i.Status = InstanceComplete
	i.ActualDate = &actual
	i.UpdatedAt = now
	return nil
}

// Reopen returns a complete instance to open and clears its actual date.
func (i *Instance) Reopen(now time.Time) error {
	if i.Status != InstanceComplete {
		return fmt.Errorf("can only reopen a complete instance (status is %s)", i.Status)
	}
	i.Status = InstanceOpen
	i.ActualDate = nil
	i.UpdatedAt = now
	return nil
}

// Override pins the planned date manually and flags the instance so
// propagation can skip it under policy.
func (i *Instance) Override(date, now time.Time) {
	i.PlannedDate = &date
	i.Overridden = true
	i.UpdatedAt = now
}

// ClearOverride removes the manual pin. The stored planned date is kept
// until the next propagation apply recomputes it.
func (i *Instance) ClearOverride(now time.Time) {
	i.Overridden = false
	i.UpdatedAt = now
}
