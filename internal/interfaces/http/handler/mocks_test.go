package handler

import (
	"context"
	"time"

	ledgerapp "github.com/bizops/backend/internal/application/ledger"
	"github.com/bizops/backend/internal/domain/directory"
	"github.com/bizops/backend/internal/domain/ledger"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/bizops/backend/internal/domain/vault"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockClientRepository implements directory.ClientRepository for testing
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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

// MockCredentialRepository implements vault.CredentialRepository for testing
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]vault.Credential), args.Error(1)
}

// MockEntryRepository implements ledger.EntryRepository for testing
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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

// MockInvoiceStorage implements ledgerapp.InvoiceStorage for testing
type MockInvoiceStorage struct {
	mock.Mock
}

func (m *MockInvoiceStorage) Upload(ctx context.Context, fileName string, data []byte, contentType string) (*ledgerapp.StoredObject, error) {
	args := m.Called(ctx, fileName, data, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.StoredObject), args.Error(1)
}

func (m *MockInvoiceStorage) DownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockInvoiceStorage) Delete(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func (m *MockInvoiceStorage) Exists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}
