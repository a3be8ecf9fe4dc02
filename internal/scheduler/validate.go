package scheduler

import (
	"fmt"

	"github.com/dcrowhurst/telos/internal/domain"
)

// ValidateItems runs static checks over a schedule graph before it is
// persisted. It returns one message per problem (empty if clean). The checks
// are advisory: Resolve degrades gracefully on a graph that fails them.
func ValidateItems(items []*domain.ScheduleItem) []string {
	var msgs []string

	index := make(map[string]int, len(items))
	for i, it := range items {
		index[it.ID] = i
	}

	for _, it := range items {
		switch it.AnchorType {
		case domain.AnchorScheduleItem, domain.AnchorCompletion:
			if it.AnchorRefID == "" {
				msgs = append(msgs, fmt.Sprintf("%s: anchor reference is required for %s anchors", label(it), it.AnchorType))
				continue
			}
			if it.AnchorRefID == it.ID {
				msgs = append(msgs, fmt.Sprintf("%s: references itself", label(it)))
				continue
			}
			if _, ok := index[it.AnchorRefID]; !ok {
				msgs = append(msgs, fmt.Sprintf("%s: anchor references unknown item %s", label(it), it.AnchorRefID))
			}
		case domain.AnchorFixedDate:
			if it.FixedDate == nil && !it.Overridden() {
				msgs = append(msgs, fmt.Sprintf("%s: fixed-date anchor without a date", label(it)))
			}
		case domain.AnchorProjectMilestone:
			if it.MilestoneKey == "" && !it.Overridden() {
				msgs = append(msgs, fmt.Sprintf("%s: milestone anchor without a milestone reference", label(it)))
			}
		default:
			msgs = append(msgs, fmt.Sprintf("%s: unknown anchor type %q", label(it), it.AnchorType))
		}
	}

	msgs = append(msgs, findCycles(items, index)...)
	return msgs
}

// findCycles runs a depth-first search over schedule_item anchor edges and
// reports every item participating in a cycle. Completion anchors are not
// edges here: a completion chain is a legitimate wait, not a cycle.
func findCycles(items []*domain.ScheduleItem, index map[string]int) []string {
	const (
		unseen = 0
		onPath = 1
		done   = 2
	)
	state := make([]int, len(items))
	inCycle := make([]bool, len(items))

	visit := func(i int) {
		// Explicit stack walk along the single outgoing edge; marks every
		// node on the path that closes back on itself.
		var path []int
		cur := i
		for {
			if state[cur] == done {
				break
			}
			if state[cur] == onPath {
				// Closed a loop: everything from the first occurrence of
				// cur on the path is cyclic.
				start := 0
				for k, p := range path {
					if p == cur {
						start = k
						break
					}
				}
				for _, p := range path[start:] {
					inCycle[p] = true
				}
				break
			}
			state[cur] = onPath
			path = append(path, cur)

			it := items[cur]
			if it.AnchorType != domain.AnchorScheduleItem {
				break
			}
			next, ok := index[it.AnchorRefID]
			if !ok {
				break
			}
			cur = next
		}
		for _, p := range path {
			state[p] = done
		}
	}

	for i := range items {
		if state[i] == unseen {
			visit(i)
		}
	}

	var msgs []string
	for i, it := range items {
		if inCycle[i] {
			msgs = append(msgs, fmt.Sprintf("%s: participates in a circular dependency", label(it)))
		}
	}
	return msgs
}

func label(it *domain.ScheduleItem) string {
	if it.Name != "" {
		return it.Name
	}
	return it.ID
}
