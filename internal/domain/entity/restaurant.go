package entity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxSlugLength caps derived restaurant slugs.
const MaxSlugLength = 100

var slugSeparator = regexp.MustCompile(`[^a-z0-9]+`)

// Restaurant is a tenant of the platform. Disabling is a soft delete.
type Restaurant struct {
	ID          uuid.UUID
	Name        string
	Slug        string
	Description string
	Address     string
	Phone       string
	OwnerEmail  string // empty when the restaurant has no owner account
	Approved    bool
	Disabled    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AcceptsOrders reports whether customers may currently order from the restaurant.
func (r *Restaurant) AcceptsOrders() bool {
	return r.Approved && !r.Disabled
}

// Snapshot returns the fields recorded in audit entries for restaurant changes.
func (r *Restaurant) Snapshot() map[string]any {
	return map[string]any{
		"name":        r.Name,
		"slug":        r.Slug,
		"description": r.Description,
		"address":     r.Address,
		"phone":       r.Phone,
		"owner_email": r.OwnerEmail,
		"approved":    r.Approved,
		"disabled":    r.Disabled,
	}
}

// Slugify lowercases the name, collapses every run of characters outside
// [a-z0-9] into a single '-', trims leading and trailing '-', then caps the
// result at MaxSlugLength bytes.
func Slugify(name string) string {
	slug := slugSeparator.ReplaceAllString(strings.ToLower(name), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > MaxSlugLength {
		slug = slug[:MaxSlugLength]
	}

	return slug
}
