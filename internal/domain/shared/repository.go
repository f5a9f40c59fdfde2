package shared

import (
	"time"

	"github.com/google/uuid"
)

// DefaultListLimit is the row cap applied when a list query does not specify
// its own limit.
const DefaultListLimit = 200

// ListFilter represents the query options shared by every entity list
// operation: an optional case-insensitive substring search against the
// entity's display field, inclusive date-range bounds, an optional owner
// filter, and a result cap.
type ListFilter struct {
	Search   string
	FromDate *time.Time
	ToDate   *time.Time
	OwnerID  *uuid.UUID
	Limit    int
}

// DefaultListFilter returns a filter with the default row cap.
func DefaultListFilter() ListFilter {
	return ListFilter{Limit: DefaultListLimit}
}

// Normalize applies the default limit when none was set.
func (f *ListFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
}
