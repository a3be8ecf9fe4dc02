package domain

import (
	"fmt"
	"time"
)

// ScheduleItem is a dated checklist entry (milestone or task) owned by an
// activity within a project. Its planned date is never entered directly; it
// is derived from the anchor fields according to AnchorType.
type ScheduleItem struct {
	ID         string
	ActivityID string
	TemplateID string // template item this was generated from, empty for hand-added items
	Name       string
	Kind       ItemKind
	OrderIndex int

	// Anchor: exactly one of FixedDate, AnchorRefID, MilestoneKey is active,
	// selected by AnchorType.
	AnchorType   AnchorType
	AnchorRefID  string // another ScheduleItem, for schedule_item/completion anchors
	OffsetDays   int
	FixedDate    *time.Time
	MilestoneKey string

	// Manual pin that preempts anchor logic.
	OverrideEnabled bool
	OverrideDate    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overridden reports whether the item carries an effective manual pin.
func (s *ScheduleItem) Overridden() bool {
	return s.OverrideEnabled && s.OverrideDate != nil
}

// AnchorLabel returns a short human-readable description of the anchor,
// used in validation messages and schedule listings.
func (s *ScheduleItem) AnchorLabel() string {
	switch s.AnchorType {
	case AnchorFixedDate:
		if s.FixedDate != nil {
			return s.FixedDate.Format("2006-01-02")
		}
		return "fixed (unset)"
	case AnchorScheduleItem:
		return fmt.Sprintf("item %s %+d d", s.AnchorRefID, s.OffsetDays)
	case AnchorCompletion:
		return fmt.Sprintf("completion of %s %+d d", s.AnchorRefID, s.OffsetDays)
	case AnchorProjectMilestone:
		return fmt.Sprintf("milestone %s %+d d", s.MilestoneKey, s.OffsetDays)
	}
	return string(s.AnchorType)
}
