package directory

import (
	"context"
	"errors"

	"github.com/bizops/backend/internal/application/identity"
	"github.com/bizops/backend/internal/domain/directory"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/bizops/backend/internal/infrastructure/event"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientsTable is the feed table clients publish changes on.
const ClientsTable = "clients"

// ClientService handles client directory operations.
type ClientService struct {
	repo     directory.ClientRepository
	sessions identity.SessionProvider
	feed     event.ChangeFeed
	logger   *zap.Logger
}

// NewClientService creates a new ClientService. The feed may be nil when
// realtime publication is disabled.
func NewClientService(repo directory.ClientRepository, sessions identity.SessionProvider, feed event.ChangeFeed, logger *zap.Logger) *ClientService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientService{
		repo:     repo,
		sessions: sessions,
		feed:     feed,
		logger:   logger,
	}
}

// Create creates a new client stamped with the current session's owner.
func (s *ClientService) Create(ctx context.Context, req CreateClientRequest) (*ClientResponse, error) {
	owner := identity.OwnerID(ctx, s.sessions)

	client, err := directory.NewClient(owner, req.Name)
	if err != nil {
		return nil, err
	}
	client.Company = req.Company
	client.Designation = req.Designation
	client.TaxID = req.TaxID
	client.SetContact(req.Phone, req.Email)
	client.SetAddress(req.Address, req.City)

	if err := s.repo.Save(ctx, client); err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	s.publish(ctx, event.ChangeInsert, response, nil)
	return &response, nil
}

// GetByID retrieves a client by id.
func (s *ClientService) GetByID(ctx context.Context, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToClientResponse(client)
	return &response, nil
}

// List retrieves clients newest-first with optional search, date range and
// owner filters.
func (s *ClientService) List(ctx context.Context, filter ClientListFilter) ([]ClientResponse, error) {
	listFilter, err := filter.toListFilter()
	if err != nil {
		return nil, err
	}

	clients, err := s.repo.FindAll(ctx, listFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]ClientResponse, len(clients))
	for i := range clients {
		responses[i] = ToClientResponse(&clients[i])
	}
	return responses, nil
}

// Update applies a sparse patch to an existing client and returns the
// updated row. An empty patch returns the current row unchanged.
func (s *ClientService) Update(ctx context.Context, id uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	if id == uuid.Nil {
		return nil, shared.ErrMissingID
	}

	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := ToClientResponse(client)

	if req.Name != nil {
		if err := client.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Company != nil {
		client.Company = *req.Company
	}
	if req.Designation != nil {
		client.Designation = *req.Designation
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.City != nil {
		client.City = *req.City
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Email != nil {
		client.SetContact(client.Phone, *req.Email)
	}
	if req.TaxID != nil {
		client.TaxID = *req.TaxID
	}
	client.Touch()

	if err := s.repo.Save(ctx, client); err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	s.publish(ctx, event.ChangeUpdate, response, previous)
	return &response, nil
}

// Delete removes a client by id. Deleting a missing id succeeds.
func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return shared.ErrMissingID
	}

	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, event.ChangeDelete, nil, ToClientResponse(client))
	return nil
}

// Count returns the total number of clients.
func (s *ClientService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *ClientService) publish(ctx context.Context, changeType event.ChangeType, newRow, oldRow any) {
	if s.feed == nil {
		return
	}
	if err := s.feed.Publish(ctx, event.NewChangeEvent(ClientsTable, changeType, newRow, oldRow)); err != nil {
		s.logger.Warn("change publish failed",
			zap.String("table", ClientsTable),
			zap.Error(err),
		)
	}
}
