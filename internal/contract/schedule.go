package contract

import (
	"fmt"
	"time"

	"github.com/dcrowhurst/telos/internal/scheduler"
)

// ResolvedItem re-exports the resolver's per-item result for CLI consumers.
type ResolvedItem = scheduler.ResolvedItem

type ItemState = scheduler.ItemState

const (
	StateResolved ItemState = scheduler.StateResolved
	StatePending  ItemState = scheduler.StatePending
	StateError    ItemState = scheduler.StateError
)

// ScheduleRequest asks for the resolved schedule of one project, optionally
// as seen by a single assigned supplier (whose completion dates then feed
// completion anchors).
type ScheduleRequest struct {
	ProjectRef   string // short ID or full ID
	SupplierCode string // empty resolves without actuals
	BusinessDays bool
}

// ScheduleResponse is the resolved schedule plus structural findings.
type ScheduleResponse struct {
	GeneratedAt time.Time
	ProjectID   string
	ProjectName string
	Items       []ResolvedItem
	Issues      []string // output of structural validation, empty when clean
}

type ScheduleErrorCode string

const (
	ScheduleErrProjectNotFound  ScheduleErrorCode = "project_not_found"
	ScheduleErrSupplierNotFound ScheduleErrorCode = "supplier_not_found"
	ScheduleErrInternal         ScheduleErrorCode = "internal"
)

type ScheduleError struct {
	Code    ScheduleErrorCode
	Message string
}

func (e *ScheduleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
