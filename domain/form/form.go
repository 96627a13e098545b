// Package form defines the business-form entity and its lifecycle rules.
package form

import "time"

// Status is the lifecycle state of a form.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// Category classifies what a form is about.
type Category string

const (
	CategorySales       Category = "sales"
	CategorySupport     Category = "support"
	CategoryPartnership Category = "partnership"
	CategoryOther       Category = "other"
)

// Form is a submitted business form.
type Form struct {
	ID        string
	Title     string
	Applicant string
	Email     string
	Phone     string
	Category  Category
	Priority  int // 1 (lowest) to 5 (highest)
	Details   string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// transitions lists the allowed status moves.
var transitions = map[Status][]Status{
	StatusDraft:     {StatusSubmitted},
	StatusSubmitted: {StatusApproved, StatusRejected},
}

// CanTransition reports whether a form may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s names a known status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ValidCategory reports whether c names a known category.
func ValidCategory(c Category) bool {
	switch c {
	case CategorySales, CategorySupport, CategoryPartnership, CategoryOther:
		return true
	}
	return false
}
