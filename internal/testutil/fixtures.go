package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dcrowhurst/telos/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func WithTemplateID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.TemplateID = id
	}
}

func WithStartDate(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = d
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		ShortID:   defaultShortID(name),
		Name:      name,
		StartDate: now.AddDate(0, -1, 0),
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Supplier options
type SupplierOption func(*domain.Supplier)

func WithRank(rank string) SupplierOption {
	return func(s *domain.Supplier) {
		s.Rank = rank
	}
}

func WithPartRanks(ranks ...string) SupplierOption {
	return func(s *domain.Supplier) {
		s.PartRanks = ranks
	}
}

func NewTestSupplier(code string, opts ...SupplierOption) *domain.Supplier {
	now := time.Now().UTC()
	s := &domain.Supplier{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      "Supplier " + code,
		Rank:      "A1",
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewTestAssignment(projectID, supplierID string) *domain.Assignment {
	return &domain.Assignment{
		ID:         uuid.New().String(),
		ProjectID:  projectID,
		SupplierID: supplierID,
		CreatedAt:  time.Now().UTC(),
	}
}

func NewTestMilestone(projectID, key string, date time.Time) *domain.ProjectMilestone {
	return &domain.ProjectMilestone{
		ProjectID: projectID,
		Key:       key,
		Name:      strings.ToUpper(key),
		Date:      date,
		UpdatedAt: time.Now().UTC(),
	}
}

// Activity options
type ActivityOption func(*domain.Activity)

func WithRuleID(id string) ActivityOption {
	return func(a *domain.Activity) {
		a.RuleID = id
	}
}

func WithActivityOrder(i int) ActivityOption {
	return func(a *domain.Activity) {
		a.OrderIndex = i
	}
}

func WithActivityTemplateID(id string) ActivityOption {
	return func(a *domain.Activity) {
		a.TemplateID = id
	}
}

func NewTestActivity(projectID, name string, opts ...ActivityOption) *domain.Activity {
	now := time.Now().UTC()
	a := &domain.Activity{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ScheduleItem options
type ItemOption func(*domain.ScheduleItem)

func WithFixedDate(d time.Time) ItemOption {
	return func(it *domain.ScheduleItem) {
		it.AnchorType = domain.AnchorFixedDate
		it.FixedDate = &d
	}
}

func AnchoredTo(refID string, offset int) ItemOption {
	return func(it *domain.ScheduleItem) {
		it.AnchorType = domain.AnchorScheduleItem
		it.AnchorRefID = refID
		it.OffsetDays = offset
	}
}

func AnchoredToCompletion(refID string, offset int) ItemOption {
	return func(it *domain.ScheduleItem) {
		it.AnchorType = domain.AnchorCompletion
		it.AnchorRefID = refID
		it.OffsetDays = offset
	}
}

func AnchoredToMilestone(key string, offset int) ItemOption {
	return func(it *domain.ScheduleItem) {
		it.AnchorType = domain.AnchorProjectMilestone
		it.MilestoneKey = key
		it.OffsetDays = offset
	}
}

func WithItemOrder(i int) ItemOption {
	return func(it *domain.ScheduleItem) {
		it.OrderIndex = i
	}
}

func WithItemTemplateID(id string) ItemOption {
	return func(it *domain.ScheduleItem) {
		it.TemplateID = id
	}
}

func WithItemOverride(d time.Time) ItemOption {
	return func(it *domain.ScheduleItem) {
		it.OverrideEnabled = true
		it.OverrideDate = &d
	}
}

func NewTestItem(activityID, name string, opts ...ItemOption) *domain.ScheduleItem {
	now := time.Now().UTC()
	it := &domain.ScheduleItem{
		ID:         uuid.New().String(),
		ActivityID: activityID,
		Name:       name,
		Kind:       domain.KindTask,
		AnchorType: domain.AnchorFixedDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

// Instance options
type InstanceOption func(*domain.Instance)

func WithInstanceStatus(s domain.InstanceStatus) InstanceOption {
	return func(i *domain.Instance) {
		i.Status = s
	}
}

func WithLocked() InstanceOption {
	return func(i *domain.Instance) {
		i.Locked = true
	}
}

func WithInstanceOverridden() InstanceOption {
	return func(i *domain.Instance) {
		i.Overridden = true
	}
}

func WithPlannedDate(d time.Time) InstanceOption {
	return func(i *domain.Instance) {
		i.PlannedDate = &d
	}
}

func WithActualDate(d time.Time) InstanceOption {
	return func(i *domain.Instance) {
		i.ActualDate = &d
		i.Status = domain.InstanceComplete
	}
}

func NewTestInstance(assignmentID, supplierID, itemID string, opts ...InstanceOption) *domain.Instance {
	now := time.Now().UTC()
	i := &domain.Instance{
		ID:           uuid.New().String(),
		AssignmentID: assignmentID,
		SupplierID:   supplierID,
		ItemID:       itemID,
		Status:       domain.InstanceOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Rule fixtures
func NewTestRule(operator domain.RuleOperator) *domain.ApplicabilityRule {
	now := time.Now().UTC()
	return &domain.ApplicabilityRule{
		ID:        uuid.New().String(),
		Name:      "rule",
		Operator:  operator,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewTestClause(ruleID string, order int, subject domain.ClauseSubject, cmp domain.Comparator, value string) *domain.ApplicabilityClause {
	return &domain.ApplicabilityClause{
		ID:         uuid.New().String(),
		RuleID:     ruleID,
		OrderIndex: order,
		Subject:    subject,
		Comparator: cmp,
		Value:      value,
	}
}
