package domain

type ItemKind string

const (
	KindMilestone ItemKind = "milestone"
	KindTask      ItemKind = "task"
)

type AnchorType string

const (
	AnchorFixedDate        AnchorType = "fixed_date"
	AnchorScheduleItem     AnchorType = "schedule_item"
	AnchorCompletion       AnchorType = "completion"
	AnchorProjectMilestone AnchorType = "project_milestone"
)

// ValidAnchorTypes is the canonical set of accepted anchor type strings.
var ValidAnchorTypes = map[string]bool{
	"fixed_date": true, "schedule_item": true,
	"completion": true, "project_milestone": true,
}

type InstanceStatus string

const (
	InstanceOpen       InstanceStatus = "open"
	InstanceInProgress InstanceStatus = "in_progress"
	InstanceComplete   InstanceStatus = "complete"
	InstanceCancelled  InstanceStatus = "cancelled"
)

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectClosed   ProjectStatus = "closed"
	ProjectArchived ProjectStatus = "archived"
)

type RuleOperator string

const (
	OperatorAll RuleOperator = "all"
	OperatorAny RuleOperator = "any"
)

type ClauseSubject string

const (
	SubjectSupplierRank ClauseSubject = "supplier_rank"
	SubjectPartRank     ClauseSubject = "part_rank"
)

type Comparator string

const (
	CompareEq    Comparator = "eq"
	CompareNeq   Comparator = "neq"
	CompareIn    Comparator = "in"
	CompareNotIn Comparator = "not_in"
	CompareGte   Comparator = "gte"
	CompareLte   Comparator = "lte"
)

// ValidComparators is the canonical set of accepted comparator strings.
var ValidComparators = map[string]bool{
	"eq": true, "neq": true, "in": true,
	"not_in": true, "gte": true, "lte": true,
}
