package propagate

import (
	"fmt"
	"time"

	"github.com/dcrowhurst/telos/internal/domain"
	"github.com/dcrowhurst/telos/internal/scheduler"
)

// Policy controls which instances propagation may touch. Each protection is
// independent; BusinessDays is passed through to the resolver.
type Policy struct {
	SkipComplete   bool
	SkipLocked     bool
	SkipOverridden bool
	BusinessDays   bool
}

// DefaultPolicy protects completed, locked and overridden instances.
func DefaultPolicy() Policy {
	return Policy{SkipComplete: true, SkipLocked: true, SkipOverridden: true}
}

// Skip reasons surfaced per unchanged instance.
const (
	ReasonLocked      = "locked"
	ReasonOverridden  = "overridden"
	ReasonComplete    = "already complete"
	ReasonNoChange    = "no change"
	ReasonNotSelected = "not selected"
	ReasonItemGone    = "no longer in project schedule"
)

// SupplierSchedule is one supplier's live instance set, the caller-owned
// snapshot propagation reads from.
type SupplierSchedule struct {
	SupplierID string
	Instances  []*domain.Instance
}

// Change is a willChange entry: the instance and its old/new planned dates.
type Change struct {
	SupplierID string
	InstanceID string
	ItemID     string
	OldDate    *time.Time
	NewDate    time.Time
}

// Skip is an unchanged entry with the reason the instance was left alone.
type Skip struct {
	SupplierID string
	InstanceID string
	ItemID     string
	Reason     string
}

// PreviewResult partitions every instance into willChange or unchanged.
type PreviewResult struct {
	WillChange []Change
	Unchanged  []Skip
}

// ApplyResult reports what an apply pass updated and what it skipped.
type ApplyResult struct {
	Updated []Change
	Skipped []Skip
}

// Preview resolves the project's current schedule once per supplier,
// against that supplier's own actual-completion dates, and classifies every
// instance. Classification priority per instance: locked, overridden,
// already complete, resolution not possible, no change, will change.
// One supplier's unresolvable items never abort the preview for the rest.
func Preview(
	items []*domain.ScheduleItem,
	milestoneDates map[string]time.Time,
	suppliers []SupplierSchedule,
	policy Policy,
) PreviewResult {
	var result PreviewResult

	for _, sup := range suppliers {
		actuals := make(map[string]time.Time)
		for _, inst := range sup.Instances {
			if inst.ActualDate != nil {
				actuals[inst.ItemID] = *inst.ActualDate
			}
		}

		resolved := scheduler.Resolve(items, scheduler.ResolveOptions{
			BusinessDays:   policy.BusinessDays,
			ActualDates:    actuals,
			MilestoneDates: milestoneDates,
		})
		byItem := make(map[string]scheduler.ResolvedItem, len(resolved))
		for _, r := range resolved {
			byItem[r.Item.ID] = r
		}

		for _, inst := range sup.Instances {
			skip := func(reason string) {
				result.Unchanged = append(result.Unchanged, Skip{
					SupplierID: sup.SupplierID,
					InstanceID: inst.ID,
					ItemID:     inst.ItemID,
					Reason:     reason,
				})
			}

			if policy.SkipLocked && inst.Locked {
				skip(ReasonLocked)
				continue
			}
			if policy.SkipOverridden && inst.Overridden {
				skip(ReasonOverridden)
				continue
			}
			if policy.SkipComplete && inst.Status == domain.InstanceComplete {
				skip(ReasonComplete)
				continue
			}

			r, ok := byItem[inst.ItemID]
			if !ok {
				skip(ReasonItemGone)
				continue
			}
			switch r.State {
			case scheduler.StatePending:
				skip(fmt.Sprintf("pending: %s", r.Reason))
				continue
			case scheduler.StateError:
				skip(fmt.Sprintf("unresolved: %s", r.Reason))
				continue
			}

			if inst.PlannedDate != nil && scheduler.SameDate(*inst.PlannedDate, *r.PlannedDate) {
				skip(ReasonNoChange)
				continue
			}

			result.WillChange = append(result.WillChange, Change{
				SupplierID: sup.SupplierID,
				InstanceID: inst.ID,
				ItemID:     inst.ItemID,
				OldDate:    inst.PlannedDate,
				NewDate:    *r.PlannedDate,
			})
		}
	}

	return result
}

// Apply turns a preview into update decisions, optionally restricted to a
// subset of suppliers. It performs no resolution of its own: the willChange
// set is taken verbatim from the preview, so an apply can never diverge from
// the preview it was derived from. Deselected changes are reported as
// skipped, untouched.
func Apply(preview PreviewResult, selectedSupplierIDs []string) ApplyResult {
	var selected map[string]bool
	if selectedSupplierIDs != nil {
		selected = make(map[string]bool, len(selectedSupplierIDs))
		for _, id := range selectedSupplierIDs {
			selected[id] = true
		}
	}

	result := ApplyResult{Skipped: append([]Skip(nil), preview.Unchanged...)}
	for _, ch := range preview.WillChange {
		if selected != nil && !selected[ch.SupplierID] {
			result.Skipped = append(result.Skipped, Skip{
				SupplierID: ch.SupplierID,
				InstanceID: ch.InstanceID,
				ItemID:     ch.ItemID,
				Reason:     ReasonNotSelected,
			})
			continue
		}
		result.Updated = append(result.Updated, ch)
	}
	return result
}
