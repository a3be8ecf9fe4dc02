package scheduler

import (
	"fmt"
	"time"

	"github.com/dcrowhurst/telos/internal/domain"
)

// ItemState classifies the outcome of resolving one schedule item.
type ItemState string

const (
	// StateResolved means a planned date was computed.
	StateResolved ItemState = "resolved"
	// StatePending means the item cannot resolve yet because an upstream
	// completion anchor has no actual date. This is a normal state, not
	// an error.
	StatePending ItemState = "pending"
	// StateError means the item can never resolve as configured: a cycle,
	// a dangling reference, or a missing required field.
	StateError ItemState = "error"
)

// ResolvedItem is the per-item output of Resolve. PlannedDate is set exactly
// when State is StateResolved; otherwise Reason explains the state.
type ResolvedItem struct {
	Item        *domain.ScheduleItem
	State       ItemState
	PlannedDate *time.Time
	Reason      string
}

// ResolveOptions carries the caller-supplied resolution context.
type ResolveOptions struct {
	BusinessDays bool
	// ActualDates maps schedule item ID to the actual completion date of the
	// corresponding instance. Items without an entry have not completed.
	ActualDates map[string]time.Time
	// MilestoneDates maps project milestone key to its date.
	MilestoneDates map[string]time.Time
}

// Resolve computes a planned date for every item via wave-based fixed-point
// resolution. It is pure and total: one ResolvedItem per input item, in input
// order, and it never fails as a whole: unresolvable items degrade to
// pending or error states individually.
//
// Each wave resolves whatever currently can be resolved; waves repeat until
// all items resolve or a wave makes no progress. On stall, the remaining
// items are partitioned: an item that is (or transitively anchors to) a
// completion anchor still waiting on its actual date is pending; anything
// else is a structural error.
func Resolve(items []*domain.ScheduleItem, opts ResolveOptions) []ResolvedItem {
	n := len(items)

	// Arena: items indexed by position, dependencies referenced by index,
	// resolution state in parallel arrays rather than on the items.
	index := make(map[string]int, n)
	for i, it := range items {
		index[it.ID] = i
	}
	resolved := make([]*time.Time, n)

	setDate := func(i int, t time.Time) {
		d := DateOnly(t)
		resolved[i] = &d
	}

	// Overrides win immediately, independent of anchor type.
	for i, it := range items {
		if it.Overridden() {
			setDate(i, *it.OverrideDate)
		}
	}

	for {
		progress := false
		for i, it := range items {
			if resolved[i] != nil {
				continue
			}
			switch it.AnchorType {
			case domain.AnchorFixedDate:
				if it.FixedDate != nil {
					setDate(i, *it.FixedDate)
					progress = true
				}
			case domain.AnchorProjectMilestone:
				if d, ok := opts.MilestoneDates[it.MilestoneKey]; ok {
					setDate(i, AddDays(d, it.OffsetDays, opts.BusinessDays))
					progress = true
				}
			case domain.AnchorScheduleItem:
				if j, ok := index[it.AnchorRefID]; ok && resolved[j] != nil {
					setDate(i, AddDays(*resolved[j], it.OffsetDays, opts.BusinessDays))
					progress = true
				}
			case domain.AnchorCompletion:
				if d, ok := opts.ActualDates[it.AnchorRefID]; ok {
					setDate(i, AddDays(d, it.OffsetDays, opts.BusinessDays))
					progress = true
				}
			}
		}
		if !progress {
			break
		}
	}

	out := make([]ResolvedItem, n)
	verdicts := make(map[int]ResolvedItem, n)
	for i, it := range items {
		if resolved[i] != nil {
			out[i] = ResolvedItem{Item: it, State: StateResolved, PlannedDate: resolved[i]}
			continue
		}
		v, ok := verdicts[i]
		if !ok {
			v = classifyUnresolved(items, index, resolved, opts, i)
			verdicts[i] = v
		}
		out[i] = v
	}
	return out
}

// classifyUnresolved decides pending-vs-error for one stalled item by walking
// its single outgoing anchor edge with an explicit stack of visited indexes.
// A chain ending at a completion anchor with no actual date is pending all
// the way down; anything else (a cycle, a dangling reference, or a missing
// required field) is a structural error.
func classifyUnresolved(
	items []*domain.ScheduleItem,
	index map[string]int,
	resolved []*time.Time,
	opts ResolveOptions,
	start int,
) ResolvedItem {
	it := items[start]
	visited := map[int]bool{}
	cur := start
	for {
		node := items[cur]
		visited[cur] = true

		switch node.AnchorType {
		case domain.AnchorFixedDate:
			// Unresolved fixed anchor can only mean the date is unset.
			return errItem(it, "no fixed date set")

		case domain.AnchorProjectMilestone:
			if node.MilestoneKey == "" {
				return errItem(it, "no project milestone reference set")
			}
			return errItem(it, fmt.Sprintf("project milestone %q has no date", node.MilestoneKey))

		case domain.AnchorCompletion:
			if _, ok := index[node.AnchorRefID]; !ok {
				return errItem(it, fmt.Sprintf("completion anchor references missing item %s", node.AnchorRefID))
			}
			// The anchor item exists but has not completed yet: pending,
			// for this node and for everything that chained onto it.
			return ResolvedItem{
				Item:   it,
				State:  StatePending,
				Reason: fmt.Sprintf("awaiting completion of %s", anchorName(items, index, node.AnchorRefID)),
			}

		case domain.AnchorScheduleItem:
			next, ok := index[node.AnchorRefID]
			if !ok {
				return errItem(it, fmt.Sprintf("anchor references missing item %s", node.AnchorRefID))
			}
			if resolved[next] != nil {
				// The referenced item resolved, yet this one stalled.
				// Cannot happen after a fixed point, kept as a guard.
				return errItem(it, "unresolvable anchor chain")
			}
			if visited[next] {
				return errItem(it, "circular dependency")
			}
			cur = next

		default:
			return errItem(it, fmt.Sprintf("unknown anchor type %q", node.AnchorType))
		}
	}
}

func errItem(it *domain.ScheduleItem, reason string) ResolvedItem {
	return ResolvedItem{Item: it, State: StateError, Reason: reason}
}

func anchorName(items []*domain.ScheduleItem, index map[string]int, id string) string {
	if j, ok := index[id]; ok && items[j].Name != "" {
		return items[j].Name
	}
	return id
}
