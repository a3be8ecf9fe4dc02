package contract

import (
	"fmt"
	"time"

	"github.com/dcrowhurst/telos/internal/propagate"
)

type Change = propagate.Change

type Skip = propagate.Skip

type PropagatePolicy = propagate.Policy

// PropagateRequest drives both preview and apply. SupplierCodes restricts the
// apply to a subset; empty means every assigned supplier.
type PropagateRequest struct {
	ProjectRef    string
	SupplierCodes []string
	Policy        PropagatePolicy
}

type PreviewResponse struct {
	GeneratedAt time.Time
	ProjectID   string
	WillChange  []Change
	Unchanged   []Skip
}

type ApplyResponse struct {
	GeneratedAt time.Time
	ProjectID   string
	Updated     []Change
	Skipped     []Skip
}

type PropagateErrorCode string

const (
	PropagateErrProjectNotFound PropagateErrorCode = "project_not_found"
	PropagateErrNoAssignments   PropagateErrorCode = "no_assignments"
	PropagateErrInternal        PropagateErrorCode = "internal"
)

type PropagateError struct {
	Code    PropagateErrorCode
	Message string
}

func (e *PropagateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
