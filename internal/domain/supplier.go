package domain

import (
	"fmt"
	"regexp"
	"time"
)

var supplierCodePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{1,15}$`)

// Supplier is an external party tracked against one or more projects.
// Rank is the supplier's own grade; PartRanks are the grades of the parts
// it delivers on the project it is assigned to.
type Supplier struct {
	ID        string
	Code      string
	Name      string
	Rank      string
	PartRanks []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateCode checks that Code is a short uppercase alphanumeric identifier.
func (s *Supplier) ValidateCode() error {
	if s.Code == "" {
		return fmt.Errorf("supplier code is required")
	}
	if !supplierCodePattern.MatchString(s.Code) {
		return fmt.Errorf("supplier code %q must be 2-16 uppercase letters, digits or dashes", s.Code)
	}
	return nil
}

// Assignment links a supplier to a project. Instances hang off the
// assignment and are removed with it.
type Assignment struct {
	ID         string
	ProjectID  string
	SupplierID string
	CreatedAt  time.Time
}
