package template

import "encoding/json"

// Schema is the top-level JSON schedule template. A template describes the
// milestones, activities and schedule items a project starts from; offset
// expressions may reference the declared variables.
type Schema struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description,omitempty"`
	Variables   []VariableConfig  `json:"variables,omitempty"`
	Milestones  []MilestoneConfig `json:"milestones,omitempty"`
	Activities  []ActivityConfig  `json:"activities"`
}

type VariableConfig struct {
	Key      string          `json:"key"`
	Required bool            `json:"required"`
	Default  json.RawMessage `json:"default,omitempty"`
	Min      *int            `json:"min,omitempty"`
	Max      *int            `json:"max,omitempty"`
}

// MilestoneConfig declares a project milestone key the project must supply a
// date for (e.g. "sop", "design_freeze").
type MilestoneConfig struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type ActivityConfig struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Order int          `json:"order,omitempty"`
	Rule  *RuleConfig  `json:"rule,omitempty"`
	Items []ItemConfig `json:"items"`
}

type RuleConfig struct {
	Operator string         `json:"operator"` // "all" or "any"
	Enabled  *bool          `json:"enabled,omitempty"`
	Clauses  []ClauseConfig `json:"clauses"`
}

type ClauseConfig struct {
	Subject    string `json:"subject"`    // "supplier_rank" or "part_rank"
	Comparator string `json:"comparator"` // eq|neq|in|not_in|gte|lte
	Value      string `json:"value"`
}

type ItemConfig struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Kind   string       `json:"kind"` // "milestone" or "task"
	Order  int          `json:"order,omitempty"`
	Anchor AnchorConfig `json:"anchor"`
}

// AnchorConfig mirrors the domain anchor fields. Ref is a template item ID;
// OffsetDays is an expression over the template variables.
type AnchorConfig struct {
	Type       string `json:"type"`
	Ref        string `json:"ref,omitempty"`
	Milestone  string `json:"milestone,omitempty"`
	OffsetDays string `json:"offset_days,omitempty"`
	FixedDate  string `json:"fixed_date,omitempty"` // YYYY-MM-DD
}
