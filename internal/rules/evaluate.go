package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dcrowhurst/telos/internal/domain"
)

// EvalContext is the supplier-side input to rule evaluation.
type EvalContext struct {
	SupplierRank string
	PartRanks    []string
	// RankOrder is the configured ordered rank list, earlier entries are
	// higher (e.g. [A1 A2 B1 B2 C1]). Required for gte/lte clauses.
	RankOrder []string
}

// clauseKind selects the evaluation strategy, decided once at compile time
// rather than re-parsing the clause value on every evaluation.
type clauseKind int

const (
	kindScalar clauseKind = iota // eq / neq
	kindList                     // in / not_in
	kindRanked                   // gte / lte
)

type compiledClause struct {
	subject    domain.ClauseSubject
	comparator domain.Comparator
	kind       clauseKind
	negate     bool            // neq, not_in
	target     string          // scalar and ranked comparators
	members    map[string]bool // list comparators
}

// CompiledRule is an ApplicabilityRule with its clauses parsed into a
// directly evaluable form.
type CompiledRule struct {
	operator domain.RuleOperator
	enabled  bool
	clauses  []compiledClause
}

// Compile parses a rule and its clauses. Clauses are evaluated in their
// given order, so callers should pass them sorted by OrderIndex.
func Compile(rule *domain.ApplicabilityRule, clauses []domain.ApplicabilityClause) (*CompiledRule, error) {
	cr := &CompiledRule{operator: rule.Operator, enabled: rule.Enabled}
	if rule.Operator != domain.OperatorAll && rule.Operator != domain.OperatorAny {
		return nil, fmt.Errorf("rule %s: unknown operator %q", rule.ID, rule.Operator)
	}

	for _, cl := range clauses {
		if cl.Subject != domain.SubjectSupplierRank && cl.Subject != domain.SubjectPartRank {
			return nil, fmt.Errorf("clause %s: unknown subject %q", cl.ID, cl.Subject)
		}
		value := strings.TrimSpace(cl.Value)
		if value == "" {
			return nil, fmt.Errorf("clause %s: value is required", cl.ID)
		}

		cc := compiledClause{subject: cl.Subject, comparator: cl.Comparator}
		switch cl.Comparator {
		case domain.CompareEq, domain.CompareNeq:
			cc.kind = kindScalar
			cc.negate = cl.Comparator == domain.CompareNeq
			cc.target = value
		case domain.CompareIn, domain.CompareNotIn:
			cc.kind = kindList
			cc.negate = cl.Comparator == domain.CompareNotIn
			cc.members = make(map[string]bool)
			for _, m := range strings.Split(value, ",") {
				if m = strings.TrimSpace(m); m != "" {
					cc.members[m] = true
				}
			}
			if len(cc.members) == 0 {
				return nil, fmt.Errorf("clause %s: empty membership list", cl.ID)
			}
		case domain.CompareGte, domain.CompareLte:
			cc.kind = kindRanked
			cc.target = value
		default:
			return nil, fmt.Errorf("clause %s: unknown comparator %q", cl.ID, cl.Comparator)
		}
		cr.clauses = append(cr.clauses, cc)
	}
	return cr, nil
}

// Evaluate decides whether the rule's activity applies in the given context.
// A disabled rule is vacuously satisfied. Under the all operator every
// clause must hold; under any, at least one (a rule with no clauses holds
// either way).
func (r *CompiledRule) Evaluate(ctx EvalContext) (bool, error) {
	if !r.enabled {
		return true, nil
	}
	if len(r.clauses) == 0 {
		return true, nil
	}

	for _, cl := range r.clauses {
		ok, err := cl.eval(ctx)
		if err != nil {
			return false, err
		}
		if r.operator == domain.OperatorAll && !ok {
			return false, nil
		}
		if r.operator == domain.OperatorAny && ok {
			return true, nil
		}
	}
	return r.operator == domain.OperatorAll, nil
}

// eval applies the clause to its subject. Supplier rank is a single value.
// Part ranks are a list: positive comparators hold when any part rank
// matches, negative ones only when every part rank does.
func (cl *compiledClause) eval(ctx EvalContext) (bool, error) {
	if cl.subject == domain.SubjectSupplierRank {
		return cl.match(ctx.SupplierRank, ctx.RankOrder)
	}

	if len(ctx.PartRanks) == 0 {
		return cl.negate, nil
	}
	for _, pr := range ctx.PartRanks {
		ok, err := cl.match(pr, ctx.RankOrder)
		if err != nil {
			return false, err
		}
		if cl.negate {
			if !ok {
				return false, nil
			}
		} else if ok {
			return true, nil
		}
	}
	return cl.negate, nil
}

func (cl *compiledClause) match(subject string, rankOrder []string) (bool, error) {
	switch cl.kind {
	case kindScalar:
		return (subject == cl.target) != cl.negate, nil
	case kindList:
		return cl.members[subject] != cl.negate, nil
	case kindRanked:
		si, err := rankIndex(subject, rankOrder)
		if err != nil {
			return false, err
		}
		ti, err := rankIndex(cl.target, rankOrder)
		if err != nil {
			return false, err
		}
		// Position-based: earlier in the rank list means higher, so gte
		// ("same or higher") is a smaller-or-equal index.
		if cl.comparator == domain.CompareGte {
			return si <= ti, nil
		}
		return si >= ti, nil
	}
	return false, fmt.Errorf("unknown clause kind %d", cl.kind)
}

func rankIndex(rank string, rankOrder []string) (int, error) {
	for i, r := range rankOrder {
		if r == rank {
			return i, nil
		}
	}
	return 0, fmt.Errorf("rank %q is not in the configured rank list %v", rank, rankOrder)
}

// Evaluate compiles and evaluates in one call, for callers holding raw
// domain records. Clauses are ordered by OrderIndex first.
func Evaluate(rule *domain.ApplicabilityRule, clauses []domain.ApplicabilityClause, ctx EvalContext) (bool, error) {
	ordered := make([]domain.ApplicabilityClause, len(clauses))
	copy(ordered, clauses)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].OrderIndex < ordered[j].OrderIndex })

	compiled, err := Compile(rule, ordered)
	if err != nil {
		return false, err
	}
	return compiled.Evaluate(ctx)
}
