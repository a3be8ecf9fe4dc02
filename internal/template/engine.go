package template

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dcrowhurst/telos/internal/domain"
	"github.com/google/uuid"
)

// GeneratedSchedule is the output of executing a template for a project.
type GeneratedSchedule struct {
	Activities []*domain.Activity
	Items      []*domain.ScheduleItem
	Rules      []*domain.ApplicabilityRule
	Clauses    []domain.ApplicabilityClause
	// Milestones lists the milestone keys the project must supply dates for.
	Milestones []MilestoneConfig
}

// LoadSchema reads and parses a template JSON file.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	return &schema, nil
}

// Generate expands a template into domain records for a project. Anchor
// references are handled in two passes: items are created first while the
// template-ID to real-ID translation is recorded, then every anchor ref is
// rewritten through the table, since an item's anchor target may appear later in
// the template than the item itself.
func Generate(schema *Schema, projectID string, userVars map[string]string, now time.Time) (*GeneratedSchedule, error) {
	vars, err := ResolveVariables(schema.Variables, userVars)
	if err != nil {
		return nil, fmt.Errorf("resolving variables: %w", err)
	}

	gen := &GeneratedSchedule{Milestones: schema.Milestones}
	idMap := make(map[string]string)

	for _, ac := range schema.Activities {
		activity := &domain.Activity{
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
				gen.Clauses = append(gen.Clauses, domain.ApplicabilityClause{
					ID:         uuid.New().String(),
					RuleID:     rule.ID,
					OrderIndex: ci,
					Subject:    domain.ClauseSubject(cc.Subject),
					Comparator: domain.Comparator(cc.Comparator),
					Value:      cc.Value,
				})
			}
			gen.Rules = append(gen.Rules, rule)
			activity.RuleID = rule.ID
		}
		gen.Activities = append(gen.Activities, activity)

		for _, ic := range ac.Items {
			item, err := buildItem(ic, activity.ID, vars, now)
			if err != nil {
				return nil, err
			}
			idMap[ic.ID] = item.ID
			gen.Items = append(gen.Items, item)
		}
	}

	// Second pass: translate anchor refs from template IDs to real IDs.
	for _, item := range gen.Items {
		if item.AnchorRefID == "" {
			continue
		}
		real, ok := idMap[item.AnchorRefID]
		if !ok {
			return nil, fmt.Errorf("item %q: anchor references unknown template item %q", item.TemplateID, item.AnchorRefID)
		}
		item.AnchorRefID = real
	}

	return gen, nil
}

// buildItem creates one schedule item from its template config. The anchor
// ref is left as the template ID; the caller rewrites it once all items exist.
func buildItem(ic ItemConfig, activityID string, vars map[string]int, now time.Time) (*domain.ScheduleItem, error) {
	item := &domain.ScheduleItem{
		ID:         uuid.New().String(),
		ActivityID: activityID,
		TemplateID: ic.ID,
		Name:       ic.Name,
		Kind:       domain.ItemKind(ic.Kind),
		OrderIndex: ic.Order,
		AnchorType: domain.AnchorType(ic.Anchor.Type),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if ic.Anchor.OffsetDays != "" {
		offset, err := EvalOffset(ic.Anchor.OffsetDays, vars)
		if err != nil {
			return nil, fmt.Errorf("item %q: offset expression: %w", ic.ID, err)
		}
		item.OffsetDays = offset
	}

	switch item.AnchorType {
	case domain.AnchorFixedDate:
		d, err := time.Parse("2006-01-02", ic.Anchor.FixedDate)
		if err != nil {
			return nil, fmt.Errorf("item %q: invalid fixed date %q", ic.ID, ic.Anchor.FixedDate)
		}
		item.FixedDate = &d
	case domain.AnchorScheduleItem, domain.AnchorCompletion:
		item.AnchorRefID = ic.Anchor.Ref
	case domain.AnchorProjectMilestone:
		item.MilestoneKey = ic.Anchor.Milestone
	default:
		return nil, fmt.Errorf("item %q: unknown anchor type %q", ic.ID, ic.Anchor.Type)
	}

	return item, nil
}

// ResolveVariables merges declared defaults with user-supplied values and
// enforces required/min/max constraints.
func ResolveVariables(decls []VariableConfig, userVars map[string]string) (map[string]int, error) {
	vars := make(map[string]int, len(decls))
	for _, d := range decls {
		if raw, ok := userVars[d.Key]; ok {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("variable %q: %q is not an integer", d.Key, raw)
			}
			vars[d.Key] = n
		} else if len(d.Default) > 0 {
			var n int
			if err := json.Unmarshal(d.Default, &n); err != nil {
				return nil, fmt.Errorf("variable %q: invalid default: %w", d.Key, err)
			}
			vars[d.Key] = n
		} else if d.Required {
			return nil, fmt.Errorf("variable %q is required (use --var %s=N)", d.Key, d.Key)
		} else {
			continue
		}

		if d.Min != nil && vars[d.Key] < *d.Min {
			return nil, fmt.Errorf("variable %q: %d is below minimum %d", d.Key, vars[d.Key], *d.Min)
		}
		if d.Max != nil && vars[d.Key] > *d.Max {
			return nil, fmt.Errorf("variable %q: %d is above maximum %d", d.Key, vars[d.Key], *d.Max)
		}
	}
	return vars, nil
}
