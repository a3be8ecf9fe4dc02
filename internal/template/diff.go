package template

import (
	"fmt"
	"time"

	"github.com/dcrowhurst/telos/internal/domain"
	"github.com/google/uuid"
)

// SyncPlan is the diff between a template's current definition and a
// project's previously-generated copy. Hand-added items (no template ID) are
// never touched.
type SyncPlan struct {
	AddedActivities []*domain.Activity
	AddedRules      []*domain.ApplicabilityRule
	AddedClauses    []domain.ApplicabilityClause
	Added           []*domain.ScheduleItem
	Updated         []*domain.ScheduleItem
	Removed         []*domain.ScheduleItem
}

// Empty reports whether the plan contains no operations.
func (p *SyncPlan) Empty() bool {
	return len(p.AddedActivities) == 0 && len(p.Added) == 0 &&
		len(p.Updated) == 0 && len(p.Removed) == 0
}

// PlanSync diffs a template against a project's existing activities and
// items. Items are matched by template ID: template items without a project
// counterpart become additions, project items whose originating template
// item is gone become removals, and matched items with changed fields become
// updates.
//
// Anchor references are remapped in two passes. The first pass creates and
// updates items while recording the template-ID to project-ID translation;
// the second rewrites every anchor ref through the table. A single pass
// cannot work: an item's anchor target may not exist yet when the item is
// first visited.
func PlanSync(
	schema *Schema,
	projectID string,
	activities []*domain.Activity,
	items []*domain.ScheduleItem,
	userVars map[string]string,
	now time.Time,
) (*SyncPlan, error) {
	vars, err := ResolveVariables(schema.Variables, userVars)
	if err != nil {
		return nil, fmt.Errorf("resolving variables: %w", err)
	}

	actByTemplate := make(map[string]*domain.Activity, len(activities))
	for _, a := range activities {
		if a.TemplateID != "" {
			actByTemplate[a.TemplateID] = a
		}
	}
	itemByTemplate := make(map[string]*domain.ScheduleItem, len(items))
	for _, it := range items {
		if it.TemplateID != "" {
			itemByTemplate[it.TemplateID] = it
		}
	}

	plan := &SyncPlan{}
	idMap := make(map[string]string) // template item ID -> project item ID
	inTemplate := make(map[string]bool)
	updated := make(map[string]*domain.ScheduleItem)

	// ensureUpdated returns a mutable copy of an existing item, registering
	// it as an update exactly once.
	ensureUpdated := func(existing *domain.ScheduleItem) *domain.ScheduleItem {
		if cp, ok := updated[existing.ID]; ok {
			return cp
		}
		cp := *existing
		cp.UpdatedAt = now
		updated[existing.ID] = &cp
		plan.Updated = append(plan.Updated, &cp)
		return &cp
	}

	// First pass: create missing activities and items, refresh changed
	// fields on matched items, and record the ID translation table.
	for _, ac := range schema.Activities {
		activity, ok := actByTemplate[ac.ID]
		if !ok {
			activity = &domain.Activity{
				ID:         uuid.New().String(),
				ProjectID:  projectID,
				TemplateID: ac.ID,
				Name:       ac.Name,
				OrderIndex: ac.Order,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if ac.Rule != nil {
				rule := &domain.ApplicabilityRule{
					ID:        uuid.New().String(),
					Name:      ac.Name,
					Operator:  domain.RuleOperator(ac.Rule.Operator),
					Enabled:   ac.Rule.Enabled == nil || *ac.Rule.Enabled,
					CreatedAt: now,
					UpdatedAt: now,
				}
				for ci, cc := range ac.Rule.Clauses {
					plan.AddedClauses = append(plan.AddedClauses, domain.ApplicabilityClause{
						ID:         uuid.New().String(),
						RuleID:     rule.ID,
						OrderIndex: ci,
						Subject:    domain.ClauseSubject(cc.Subject),
						Comparator: domain.Comparator(cc.Comparator),
						Value:      cc.Value,
					})
				}
				plan.AddedRules = append(plan.AddedRules, rule)
				activity.RuleID = rule.ID
			}
			plan.AddedActivities = append(plan.AddedActivities, activity)
		}

		for _, ic := range ac.Items {
			inTemplate[ic.ID] = true

			existing, ok := itemByTemplate[ic.ID]
			if !ok {
				item, err := buildItem(ic, activity.ID, vars, now)
				if err != nil {
					return nil, err
				}
				idMap[ic.ID] = item.ID
				plan.Added = append(plan.Added, item)
				continue
			}

			idMap[ic.ID] = existing.ID
			want, err := buildItem(ic, existing.ActivityID, vars, now)
			if err != nil {
				return nil, err
			}
			if fieldsDiffer(existing, want) {
				cp := ensureUpdated(existing)
				cp.Name = want.Name
				cp.Kind = want.Kind
				cp.OrderIndex = want.OrderIndex
				cp.AnchorType = want.AnchorType
				cp.OffsetDays = want.OffsetDays
				cp.FixedDate = want.FixedDate
				cp.MilestoneKey = want.MilestoneKey
				// Anchor ref is rewritten below once the table is complete.
			}
		}
	}

	for _, it := range items {
		if it.TemplateID != "" && !inTemplate[it.TemplateID] {
			plan.Removed = append(plan.Removed, it)
		}
	}

	// Second pass: rewrite anchor refs through the translation table.
	for _, item := range plan.Added {
		if item.AnchorRefID == "" {
			continue
		}
		real, ok := idMap[item.AnchorRefID]
		if !ok {
			return nil, fmt.Errorf("item %q: anchor references unknown template item %q", item.TemplateID, item.AnchorRefID)
		}
		item.AnchorRefID = real
	}
	for _, ac := range schema.Activities {
		for _, ic := range ac.Items {
			existing, ok := itemByTemplate[ic.ID]
			if !ok {
				continue
			}
			wantRef := ""
			switch ic.Anchor.Type {
			case string(domain.AnchorScheduleItem), string(domain.AnchorCompletion):
				real, ok := idMap[ic.Anchor.Ref]
				if !ok {
					return nil, fmt.Errorf("item %q: anchor references unknown template item %q", ic.ID, ic.Anchor.Ref)
				}
				wantRef = real
			}
			current := existing.AnchorRefID
			if cp, ok := updated[existing.ID]; ok {
				current = cp.AnchorRefID
			}
			if current != wantRef {
				ensureUpdated(existing).AnchorRefID = wantRef
			}
		}
	}

	return plan, nil
}

// fieldsDiffer compares the template-controlled fields, ignoring the anchor
// ref (handled by the remap pass).
func fieldsDiffer(a, b *domain.ScheduleItem) bool {
	if a.Name != b.Name || a.Kind != b.Kind || a.OrderIndex != b.OrderIndex {
		return true
	}
	if a.AnchorType != b.AnchorType || a.OffsetDays != b.OffsetDays || a.MilestoneKey != b.MilestoneKey {
		return true
	}
	switch {
	case a.FixedDate == nil && b.FixedDate == nil:
		return false
	case a.FixedDate == nil || b.FixedDate == nil:
		return true
	default:
		return !a.FixedDate.Equal(*b.FixedDate)
	}
}
