package domain

import "time"

// ApplicabilityRule decides whether an activity applies to a supplier.
// A disabled rule is vacuously satisfied.
type ApplicabilityRule struct {
	ID        string
	Name      string
	Operator  RuleOperator
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApplicabilityClause is one condition of a rule. Value holds a single rank
// for scalar and ordered comparators, or a comma-separated list for
// in/not_in.
type ApplicabilityClause struct {
	ID         string
	RuleID     string
	OrderIndex int
	Subject    ClauseSubject
	Comparator Comparator
	Value      string
}
