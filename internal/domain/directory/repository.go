package directory

import (
	"context"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientRepository defines persistence operations for clients.
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	FindAll(ctx context.Context, filter shared.ListFilter) ([]Client, error)
	Save(ctx context.Context, client *Client) error
	// Delete removes a client by id. Deleting an id that does not exist is
	// not an error; repeated deletes succeed.
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
