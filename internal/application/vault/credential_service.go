package vault

import (
	"context"
	"errors"
	"time"

	"github.com/bizops/backend/internal/application/identity"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/bizops/backend/internal/domain/vault"
	"github.com/bizops/backend/internal/infrastructure/event"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// CredentialsTable is the feed table credentials publish changes on.
	CredentialsTable = "credentials"
	// RenewalsTable is the derived feed table carrying upcoming-renewal rows.
	// Events on it keep renewal mirrors current without refetching.
	RenewalsTable = "upcoming_renewals"
)

// CredentialService handles the credentials vault and its derived
// upcoming-renewals view.
type CredentialService struct {
	repo     vault.CredentialRepository
	sessions identity.SessionProvider
	feed     event.ChangeFeed
	logger   *zap.Logger
	now      func() time.Time
}

// NewCredentialService creates a new CredentialService. The feed may be nil
// when realtime publication is disabled.
func NewCredentialService(repo vault.CredentialRepository, sessions identity.SessionProvider, feed event.ChangeFeed, logger *zap.Logger) *CredentialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CredentialService{
		repo:     repo,
		sessions: sessions,
		feed:     feed,
		logger:   logger,
		now:      time.Now,
	}
}

// Create creates a new credential with a strictly normalized category,
// stamped with the current session's owner.
func (s *CredentialService) Create(ctx context.Context, req CreateCredentialRequest) (*CredentialResponse, error) {
	owner := identity.OwnerID(ctx, s.sessions)

	credential, err := vault.NewCredential(owner, req.Client, req.Type)
	if err != nil {
		return nil, err
	}
	credential.Provider = req.Provider
	credential.PortalURL = req.URL
	credential.Login = req.Login
	credential.Password = req.Password
	credential.ServiceName = req.ServiceName
	credential.Notes = req.Notes

	expiry, err := shared.ParseDate(req.Expiry)
	if err != nil {
		return nil, err
	}
	credential.Expiry = expiry

	if err := s.repo.Save(ctx, credential); err != nil {
		return nil, err
	}

	response := ToCredentialResponse(credential)
	s.publish(ctx, CredentialsTable, event.ChangeInsert, response, nil)
	if renewal, ok := s.renewalOf(credential); ok {
		s.publish(ctx, RenewalsTable, event.ChangeInsert, renewal, nil)
	}
	return &response, nil
}

// GetByID retrieves a credential by id.
func (s *CredentialService) GetByID(ctx context.Context, id uuid.UUID) (*CredentialResponse, error) {
	credential, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCredentialResponse(credential)
	return &response, nil
}

// List retrieves credentials newest-first; the search term matches the
// client name case-insensitively.
func (s *CredentialService) List(ctx context.Context, filter CredentialListFilter) ([]CredentialResponse, error) {
	listFilter, err := filter.toListFilter()
	if err != nil {
		return nil, err
	}

	credentials, err := s.repo.FindAll(ctx, listFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]CredentialResponse, len(credentials))
	for i := range credentials {
		responses[i] = ToCredentialResponse(&credentials[i])
	}
	return responses, nil
}

// Update applies a sparse patch to a credential. A patched type goes through
// the same strict normalization as create.
func (s *CredentialService) Update(ctx context.Context, id uuid.UUID, req UpdateCredentialRequest) (*CredentialResponse, error) {
	if id == uuid.Nil {
		return nil, shared.ErrMissingID
	}

	credential, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := ToCredentialResponse(credential)
	previousRenewal, wasRenewal := s.renewalOf(credential)

	if req.Client != nil {
		credential.ClientName = *req.Client
	}
	if req.Type != nil {
		if err := credential.SetCategory(*req.Type); err != nil {
			return nil, err
		}
	}
	if req.Provider != nil {
		credential.Provider = *req.Provider
	}
	if req.URL != nil {
		credential.PortalURL = *req.URL
	}
	if req.Login != nil {
		credential.Login = *req.Login
	}
	if req.Password != nil {
		credential.Password = *req.Password
	}
	if req.ServiceName != nil {
		credential.ServiceName = *req.ServiceName
	}
	if req.Expiry != nil {
		expiry, err := shared.ParseDate(*req.Expiry)
		if err != nil {
			return nil, err
		}
		credential.Expiry = expiry
	}
	if req.Notes != nil {
		credential.Notes = *req.Notes
	}
	credential.Touch()

	if err := s.repo.Save(ctx, credential); err != nil {
		return nil, err
	}

	response := ToCredentialResponse(credential)
	s.publish(ctx, CredentialsTable, event.ChangeUpdate, response, previous)

	renewal, isRenewal := s.renewalOf(credential)
	switch {
	case wasRenewal && isRenewal:
		s.publish(ctx, RenewalsTable, event.ChangeUpdate, renewal, previousRenewal)
	case !wasRenewal && isRenewal:
		s.publish(ctx, RenewalsTable, event.ChangeInsert, renewal, nil)
	case wasRenewal && !isRenewal:
		s.publish(ctx, RenewalsTable, event.ChangeDelete, nil, previousRenewal)
	}
	return &response, nil
}

// Delete removes a credential by id. Deleting a missing id succeeds.
func (s *CredentialService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return shared.ErrMissingID
	}

	credential, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, CredentialsTable, event.ChangeDelete, nil, ToCredentialResponse(credential))
	if renewal, ok := s.renewalOf(credential); ok {
		s.publish(ctx, RenewalsTable, event.ChangeDelete, nil, renewal)
	}
	return nil
}

// ListRenewals returns credentials expiring within the renewal window,
// ordered by ascending expiry with computed days remaining.
func (s *CredentialService) ListRenewals(ctx context.Context) ([]RenewalResponse, error) {
	now := s.now()
	cutoff := now.AddDate(0, 0, vault.RenewalWindowDays)

	credentials, err := s.repo.FindExpiringBefore(ctx, now, cutoff)
	if err != nil {
		return nil, err
	}

	renewals := make([]RenewalResponse, 0, len(credentials))
	for i := range credentials {
		if renewal, ok := s.renewalOf(&credentials[i]); ok {
			renewals = append(renewals, renewal)
		}
	}
	return renewals, nil
}

// renewalOf derives the upcoming-renewal row for a credential, reporting
// false when the credential has no expiry inside the window.
func (s *CredentialService) renewalOf(credential *vault.Credential) (RenewalResponse, bool) {
	now := s.now()
	days, ok := credential.DaysUntilExpiry(now)
	if !ok || days < 0 || days > vault.RenewalWindowDays {
		return RenewalResponse{}, false
	}
	return RenewalResponse{
		ID:          credential.ID,
		Client:      credential.ClientName,
		Type:        string(credential.Category),
		Provider:    credential.Provider,
		ServiceName: credential.ServiceName,
		Expiry:      shared.FormatDate(credential.Expiry),
		DaysLeft:    days,
	}, true
}

func (s *CredentialService) publish(ctx context.Context, table string, changeType event.ChangeType, newRow, oldRow any) {
	if s.feed == nil {
		return
	}
	if err := s.feed.Publish(ctx, event.NewChangeEvent(table, changeType, newRow, oldRow)); err != nil {
		s.logger.Warn("change publish failed",
			zap.String("table", table),
			zap.Error(err),
		)
	}
}
