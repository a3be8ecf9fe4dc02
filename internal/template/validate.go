package template

import (
	"fmt"
	"time"

	"github.com/dcrowhurst/telos/internal/domain"
)

// ValidateSchema checks a template for structural errors.
// Returns a slice of errors (empty if valid).
func ValidateSchema(schema *Schema) []error {
	var errs []error

	if schema.ID == "" {
		errs = append(errs, fmt.Errorf("template id is required"))
	}
	if schema.Name == "" {
		errs = append(errs, fmt.Errorf("template name is required"))
	}
	if len(schema.Activities) == 0 {
		errs = append(errs, fmt.Errorf("at least one activity is required"))
	}

	milestoneKeys := map[string]bool{}
	for i, m := range schema.Milestones {
		if m.Key == "" {
			errs = append(errs, fmt.Errorf("milestone[%d]: key is required", i))
		}
		if milestoneKeys[m.Key] {
			errs = append(errs, fmt.Errorf("milestone[%d]: duplicate key %q", i, m.Key))
		}
		milestoneKeys[m.Key] = true
	}

	itemIDs := map[string]bool{}
	activityIDs := map[string]bool{}
	for ai, a := range schema.Activities {
		if a.ID == "" {
			errs = append(errs, fmt.Errorf("activity[%d]: id is required", ai))
		}
		if a.Name == "" {
			errs = append(errs, fmt.Errorf("activity[%d]: name is required", ai))
		}
		if activityIDs[a.ID] {
			errs = append(errs, fmt.Errorf("activity[%d]: duplicate id %q", ai, a.ID))
		}
		activityIDs[a.ID] = true

		if a.Rule != nil {
			if a.Rule.Operator != string(domain.OperatorAll) && a.Rule.Operator != string(domain.OperatorAny) {
				errs = append(errs, fmt.Errorf("activity %q: rule operator must be all or any", a.ID))
			}
			for ci, c := range a.Rule.Clauses {
				if !domain.ValidComparators[c.Comparator] {
					errs = append(errs, fmt.Errorf("activity %q clause[%d]: unknown comparator %q", a.ID, ci, c.Comparator))
				}
				if c.Subject != string(domain.SubjectSupplierRank) && c.Subject != string(domain.SubjectPartRank) {
					errs = append(errs, fmt.Errorf("activity %q clause[%d]: unknown subject %q", a.ID, ci, c.Subject))
				}
				if c.Value == "" {
					errs = append(errs, fmt.Errorf("activity %q clause[%d]: value is required", a.ID, ci))
				}
			}
		}

		for ii, it := range a.Items {
			where := fmt.Sprintf("activity %q item[%d]", a.ID, ii)
			if it.ID == "" {
				errs = append(errs, fmt.Errorf("%s: id is required", where))
			}
			if it.Name == "" {
				errs = append(errs, fmt.Errorf("%s: name is required", where))
			}
			if it.Kind != string(domain.KindMilestone) && it.Kind != string(domain.KindTask) {
				errs = append(errs, fmt.Errorf("%s: kind must be milestone or task", where))
			}
			if itemIDs[it.ID] {
				errs = append(errs, fmt.Errorf("%s: duplicate id %q", where, it.ID))
			}
			itemIDs[it.ID] = true

			errs = append(errs, validateAnchor(where, it, milestoneKeys)...)
		}
	}

	// Anchor references must name known template items.
	for _, a := range schema.Activities {
		for _, it := range a.Items {
			switch it.Anchor.Type {
			case string(domain.AnchorScheduleItem), string(domain.AnchorCompletion):
				if it.Anchor.Ref != "" && !itemIDs[it.Anchor.Ref] {
					errs = append(errs, fmt.Errorf("item %q: anchor references unknown item %q", it.ID, it.Anchor.Ref))
				}
				if it.Anchor.Ref == it.ID {
					errs = append(errs, fmt.Errorf("item %q: references itself", it.ID))
				}
			}
		}
	}

	return errs
}

func validateAnchor(where string, it ItemConfig, milestoneKeys map[string]bool) []error {
	var errs []error
	switch it.Anchor.Type {
	case string(domain.AnchorFixedDate):
		if it.Anchor.FixedDate == "" {
			errs = append(errs, fmt.Errorf("%s: fixed_date anchor requires a date", where))
		} else if _, err := time.Parse("2006-01-02", it.Anchor.FixedDate); err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid fixed date %q (want YYYY-MM-DD)", where, it.Anchor.FixedDate))
		}
	case string(domain.AnchorScheduleItem), string(domain.AnchorCompletion):
		if it.Anchor.Ref == "" {
			errs = append(errs, fmt.Errorf("%s: %s anchor requires a ref", where, it.Anchor.Type))
		}
	case string(domain.AnchorProjectMilestone):
		if it.Anchor.Milestone == "" {
			errs = append(errs, fmt.Errorf("%s: project_milestone anchor requires a milestone key", where))
		} else if len(milestoneKeys) > 0 && !milestoneKeys[it.Anchor.Milestone] {
			errs = append(errs, fmt.Errorf("%s: unknown milestone key %q", where, it.Anchor.Milestone))
		}
	default:
		errs = append(errs, fmt.Errorf("%s: unknown anchor type %q", where, it.Anchor.Type))
	}
	return errs
}
