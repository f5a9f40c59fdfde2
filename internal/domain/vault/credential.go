package vault

import (
	"strings"
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Category is the closed set of credential categories. Values are stored in
// canonical lower-case form.
type Category string

const (
	CategoryDomain  Category = "domain"
	CategoryHosting Category = "hosting"
	CategoryEmail   Category = "email"
	CategoryOther   Category = "other"
)

// categoryLabels maps the UI display labels to their canonical values.
var categoryLabels = map[string]Category{
	"Domain":  CategoryDomain,
	"Hosting": CategoryHosting,
	"Email":   CategoryEmail,
	"Other":   CategoryOther,
}

// Categories returns the canonical category values in display order.
func Categories() []Category {
	return []Category{CategoryDomain, CategoryHosting, CategoryEmail, CategoryOther}
}

// NormalizeCategory resolves a raw category input to its canonical value.
// Display labels ("Domain", "Hosting", "Email", "Other") map directly; any
// other input is lower-cased and accepted only if the result is canonical.
// The same strict contract applies to create and update paths.
func NormalizeCategory(raw string) (Category, error) {
	if mapped, ok := categoryLabels[raw]; ok {
		return mapped, nil
	}
	normalized := Category(strings.ToLower(raw))
	switch normalized {
	case CategoryDomain, CategoryHosting, CategoryEmail, CategoryOther:
		return normalized, nil
	}
	return "", shared.NewValidationErrorf(
		"Invalid type %q. Must be one of: Domain, Hosting, Email, Other.", raw)
}

// DisplayLabel returns the capitalized UI label for a canonical category.
func (c Category) DisplayLabel() string {
	if c == "" {
		return ""
	}
	s := string(c)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Credential represents a stored service credential. The secret value is
// persisted as provided; masking is a presentation concern only.
type Credential struct {
	shared.OwnedEntity
	ClientName  string
	Category    Category
	Provider    string
	PortalURL   string
	Login       string
	Password    string
	ServiceName string
	Expiry      *time.Time
	Notes       string
}

// NewCredential creates a credential with a normalized category.
func NewCredential(ownerID *uuid.UUID, clientName, rawCategory string) (*Credential, error) {
	category, err := NormalizeCategory(rawCategory)
	if err != nil {
		return nil, err
	}
	return &Credential{
		OwnedEntity: shared.NewOwnedEntity(ownerID),
		ClientName:  clientName,
		Category:    category,
	}, nil
}

// SetCategory normalizes and applies a new category.
func (c *Credential) SetCategory(raw string) error {
	category, err := NormalizeCategory(raw)
	if err != nil {
		return err
	}
	c.Category = category
	c.UpdatedAt = time.Now()
	return nil
}

// DaysUntilExpiry returns the whole days remaining until expiry, negative if
// already past. Returns false if no expiry is set.
func (c *Credential) DaysUntilExpiry(now time.Time) (int, bool) {
	if c.Expiry == nil {
		return 0, false
	}
	days := int(c.Expiry.Sub(now).Hours() / 24)
	return days, true
}
