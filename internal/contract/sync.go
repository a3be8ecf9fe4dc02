package contract

import (
	"fmt"
	"time"

	"github.com/dcrowhurst/telos/internal/template"
)

type SyncPlan = template.SyncPlan

// SyncRequest re-diffs a project against the template it was initialized
// from. DryRun stops after planning.
type SyncRequest struct {
	ProjectRef string
	Vars       map[string]string
	DryRun     bool
}

type SyncResponse struct {
	GeneratedAt time.Time
	ProjectID   string
	Template    string
	Plan        *SyncPlan
	Applied     bool
}

// ApplyToSupplierResult reports the instance set created when a supplier is
// brought onto a project's schedule.
type ApplyToSupplierResult struct {
	AssignmentID     string
	SupplierID       string
	CreatedInstances int
	SkippedExisting  int
	// ActivitiesSkipped lists activities whose applicability rule excluded
	// the supplier.
	ActivitiesSkipped []string
}

type SyncErrorCode string

const (
	SyncErrProjectNotFound  SyncErrorCode = "project_not_found"
	SyncErrNoTemplate       SyncErrorCode = "no_template"
	SyncErrTemplateNotFound SyncErrorCode = "template_not_found"
	SyncErrInternal         SyncErrorCode = "internal"
)

type SyncError struct {
	Code    SyncErrorCode
	Message string
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
