package vault

import (
	"context"
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CredentialRepository defines persistence operations for credentials.
type CredentialRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Credential, error)
	// FindAll lists credentials newest-first; the filter's search term
	// matches the client name case-insensitively.
	FindAll(ctx context.Context, filter shared.ListFilter) ([]Credential, error)
	Save(ctx context.Context, credential *Credential) error
	// Delete removes a credential by id; deleting a missing id succeeds.
	Delete(ctx context.Context, id uuid.UUID) error
	// FindExpiringBefore returns credentials with an expiry between now and
	// the cutoff, ordered by ascending expiry. It backs the upcoming-renewals
	// view.
	FindExpiringBefore(ctx context.Context, now, cutoff time.Time) ([]Credential, error)
}
