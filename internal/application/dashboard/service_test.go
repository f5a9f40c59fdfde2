package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/bizops/backend/internal/application/identity"
	vaultapp "github.com/bizops/backend/internal/application/vault"
	"github.com/bizops/backend/internal/domain/directory"
	"github.com/bizops/backend/internal/domain/ledger"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/bizops/backend/internal/domain/vault"
	"github.com/bizops/backend/internal/infrastructure/event"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClientRepository is a mock implementation of ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, filter shared.ListFilter) ([]directory.Client, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]directory.Client), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, client *directory.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClientRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockEntryRepository is a mock implementation of EntryRepository
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Entry), args.Error(1)
}

func (m *MockEntryRepository) FindAll(ctx context.Context, filter shared.ListFilter) ([]ledger.Entry, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ledger.Entry), args.Error(1)
}

func (m *MockEntryRepository) Save(ctx context.Context, entry *ledger.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEntryRepository) SumAmounts(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockEntryRepository) SumAmountsWithRemark(ctx context.Context, fragment string) (decimal.Decimal, error) {
	args := m.Called(ctx, fragment)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockEntryRepository) SumAmountsAfter(ctx context.Context, after time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, after)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockCredentialRepository is a mock implementation of CredentialRepository
type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) FindByID(ctx context.Context, id uuid.UUID) (*vault.Credential, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vault.Credential), args.Error(1)
}

func (m *MockCredentialRepository) FindAll(ctx context.Context, filter shared.ListFilter) ([]vault.Credential, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]vault.Credential), args.Error(1)
}

func (m *MockCredentialRepository) Save(ctx context.Context, credential *vault.Credential) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}

func (m *MockCredentialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCredentialRepository) FindExpiringBefore(ctx context.Context, now, cutoff time.Time) ([]vault.Credential, error) {
	args := m.Called(ctx, now, cutoff)
	return args.Get(0).([]vault.Credential), args.Error(1)
}

func expiringCredential(t *testing.T, days int) *vault.Credential {
	t.Helper()
	credential, err := vault.NewCredential(nil, "Acme Corp", "Domain")
	require.NoError(t, err)
	expiry := time.Now().AddDate(0, 0, days)
	credential.Expiry = &expiry
	return credential
}

func TestService_Stats(t *testing.T) {
	clients := new(MockClientRepository)
	incomes := new(MockEntryRepository)
	expenses := new(MockEntryRepository)
	credentialRepo := new(MockCredentialRepository)

	clients.On("Count", mock.Anything).Return(int64(12), nil)
	incomes.On("SumAmounts", mock.Anything).Return(decimal.RequireFromString("5000"), nil)
	expenses.On("SumAmounts", mock.Anything).Return(decimal.RequireFromString("1800"), nil)
	incomes.On("SumAmountsWithRemark", mock.Anything, PendingRemarkFragment).
		Return(decimal.RequireFromString("750"), nil)
	expenses.On("SumAmountsAfter", mock.Anything, mock.Anything).
		Return(decimal.RequireFromString("300"), nil)
	credentialRepo.On("FindExpiringBefore", mock.Anything, mock.Anything, mock.Anything).
		Return([]vault.Credential{*expiringCredential(t, 10)}, nil)

	credentials := vaultapp.NewCredentialService(credentialRepo, identity.StaticSessionProvider{}, nil, nil)
	service := NewService(clients, incomes, expenses, credentials, nil, nil)

	stats, err := service.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.TotalClients)
	assert.True(t, stats.TotalIncome.Equal(decimal.RequireFromString("5000")))
	assert.True(t, stats.TotalExpenses.Equal(decimal.RequireFromString("1800")))
	assert.True(t, stats.PendingIncome.Equal(decimal.RequireFromString("750")))
	assert.True(t, stats.UpcomingExpenses.Equal(decimal.RequireFromString("300")))
	require.Len(t, stats.Renewals, 1)
	assert.Equal(t, "Acme Corp", stats.Renewals[0].Client)
}

func TestService_RenewalsMirror(t *testing.T) {
	clients := new(MockClientRepository)
	incomes := new(MockEntryRepository)
	expenses := new(MockEntryRepository)
	credentialRepo := new(MockCredentialRepository)

	clients.On("Count", mock.Anything).Return(int64(0), nil)
	incomes.On("SumAmounts", mock.Anything).Return(decimal.Zero, nil)
	expenses.On("SumAmounts", mock.Anything).Return(decimal.Zero, nil)
	incomes.On("SumAmountsWithRemark", mock.Anything, mock.Anything).Return(decimal.Zero, nil)
	expenses.On("SumAmountsAfter", mock.Anything, mock.Anything).Return(decimal.Zero, nil)
	credentialRepo.On("FindExpiringBefore", mock.Anything, mock.Anything, mock.Anything).
		Return([]vault.Credential{}, nil)
	credentialRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	feed := event.NewInMemoryChangeFeed(nil)
	credentials := vaultapp.NewCredentialService(credentialRepo, identity.StaticSessionProvider{}, feed, nil)
	service := NewService(clients, incomes, expenses, credentials, feed, nil)

	require.NoError(t, service.Start(context.Background()))
	defer service.Stop()

	// Creating a credential inside the window publishes a renewal insert
	// that the mirror applies without refetching.
	_, err := credentials.Create(context.Background(), vaultapp.CreateCredentialRequest{
		Client: "Acme Corp",
		Type:   "Hosting",
		Expiry: time.Now().AddDate(0, 0, 7).Format(shared.DateLayout),
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		stats, err := service.Stats(context.Background())
		return err == nil && len(stats.Renewals) == 1
	}, time.Second, 5*time.Millisecond)
}
