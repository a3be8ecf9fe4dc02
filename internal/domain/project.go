package domain

import (
	"fmt"
	"regexp"
	"time"
)

var shortIDPattern = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

type Project struct {
	ID         string
	ShortID    string
	Name       string
	StartDate  time.Time
	TemplateID string // template the schedule was initialized from, empty if built by hand
	Status     ProjectStatus
	ArchivedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ValidateShortID checks that ShortID is non-empty and matches the required
// format: 3-6 uppercase letters followed by 2-4 digits (e.g. LAUNCH01, PRG0042).
func (p *Project) ValidateShortID() error {
	if p.ShortID == "" {
		return fmt.Errorf("short ID is required (use --id flag)")
	}
	if !shortIDPattern.MatchString(p.ShortID) {
		return fmt.Errorf("short ID %q must be 3-6 uppercase letters followed by 2-4 digits (e.g. PRG01)", p.ShortID)
	}
	return nil
}

// DisplayID returns the best short identifier for display.
// It prefers ShortID; if empty it truncates ID to 8 characters.
func (p *Project) DisplayID() string {
	if p.ShortID != "" {
		return p.ShortID
	}
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

// Activity groups schedule items within a project (e.g. "Tooling",
// "Sample Submission"). An activity may carry an applicability rule that
// decides which suppliers receive its items.
type Activity struct {
	ID         string
	ProjectID  string
	TemplateID string
	Name       string
	RuleID     string // empty means unconditionally applicable
	OrderIndex int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ProjectMilestone is a named project-level date that schedule items can
// anchor to (e.g. "sop", "design_freeze").
type ProjectMilestone struct {
	ProjectID string
	Key       string
	Name      string
	Date      time.Time
	UpdatedAt time.Time
}
