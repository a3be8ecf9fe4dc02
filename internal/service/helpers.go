package service

import (
	"context"
	"strings"

	"github.com/dcrowhurst/telos/internal/domain"
	"github.com/dcrowhurst/telos/internal/repository"
	"github.com/dcrowhurst/telos/internal/rules"
)

// RankOrderKey is the settings key holding the comma-separated rank list,
// highest rank first. Ordered comparators (gte/lte) need it.
const RankOrderKey = "rank_order"

// DefaultRankOrder is used until the operator configures their own grading.
var DefaultRankOrder = []string{"A1", "A2", "B1", "B2", "C1"}

// resolveProjectRef looks a project up by short ID first, then by full ID.
func resolveProjectRef(ctx context.Context, projects repository.ProjectRepo, ref string) (*domain.Project, error) {
	if p, err := projects.GetByShortID(ctx, ref); err == nil {
		return p, nil
	}
	return projects.GetByID(ctx, ref)
}

// resolveSupplierRef looks a supplier up by code first, then by full ID.
func resolveSupplierRef(ctx context.Context, suppliers repository.SupplierRepo, ref string) (*domain.Supplier, error) {
	if s, err := suppliers.GetByCode(ctx, ref); err == nil {
		return s, nil
	}
	return suppliers.GetByID(ctx, ref)
}

// loadRankOrder reads the configured rank list, falling back to the default.
func loadRankOrder(ctx context.Context, settings repository.SettingsRepo) ([]string, error) {
	raw, err := settings.Get(ctx, RankOrderKey)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return DefaultRankOrder, nil
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

// evalContextFor builds the rule evaluation context for one supplier.
func evalContextFor(s *domain.Supplier, rankOrder []string) rules.EvalContext {
	return rules.EvalContext{
		SupplierRank: s.Rank,
		PartRanks:    s.PartRanks,
		RankOrder:    rankOrder,
	}
}

// activityApplies evaluates an activity's rule against a supplier. An
// activity without a rule applies unconditionally.
func activityApplies(
	ctx context.Context,
	ruleRepo repository.RuleRepo,
	a *domain.Activity,
	evalCtx rules.EvalContext,
) (bool, error) {
	if a.RuleID == "" {
		return true, nil
	}
	rule, err := ruleRepo.GetByID(ctx, a.RuleID)
	if err != nil {
		return false, err
	}
	clauses, err := ruleRepo.ListClauses(ctx, a.RuleID)
	if err != nil {
		return false, err
	}
	return rules.Evaluate(rule, clauses, evalCtx)
}
