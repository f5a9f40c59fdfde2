package ledger

import (
	"context"
	"errors"

	"github.com/bizops/backend/internal/application/identity"
	"github.com/bizops/backend/internal/domain/ledger"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/bizops/backend/internal/infrastructure/event"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// IncomesTable is the feed table income entries publish changes on.
	IncomesTable = "incomes"
	// ExpensesTable is the feed table expense entries publish changes on.
	ExpensesTable = "expenses"
)

// EntryService handles income or expense operations. One instance serves one
// ledger table; incomes and expenses share the record shape and contract.
type EntryService struct {
	repo     ledger.EntryRepository
	table    string
	sessions identity.SessionProvider
	feed     event.ChangeFeed
	logger   *zap.Logger
}

// NewIncomeService creates an EntryService bound to the incomes table.
func NewIncomeService(repo ledger.EntryRepository, sessions identity.SessionProvider, feed event.ChangeFeed, logger *zap.Logger) *EntryService {
	return newEntryService(repo, IncomesTable, sessions, feed, logger)
}

// NewExpenseService creates an EntryService bound to the expenses table.
func NewExpenseService(repo ledger.EntryRepository, sessions identity.SessionProvider, feed event.ChangeFeed, logger *zap.Logger) *EntryService {
	return newEntryService(repo, ExpensesTable, sessions, feed, logger)
}

func newEntryService(repo ledger.EntryRepository, table string, sessions identity.SessionProvider, feed event.ChangeFeed, logger *zap.Logger) *EntryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntryService{
		repo:     repo,
		table:    table,
		sessions: sessions,
		feed:     feed,
		logger:   logger,
	}
}

// Table returns the ledger table this service is bound to.
func (s *EntryService) Table() string {
	return s.table
}

// Create creates a new entry stamped with the current session's owner.
func (s *EntryService) Create(ctx context.Context, req CreateEntryRequest) (*EntryResponse, error) {
	owner := identity.OwnerID(ctx, s.sessions)

	entry, err := ledger.NewEntry(owner, req.Customer, req.Amount.Decimal)
	if err != nil {
		return nil, err
	}
	entry.Category = req.Category
	entry.Remark = req.Remark
	entry.UploadedPath = req.UploadedPath
	entry.ClientID = req.ClientID

	date, err := shared.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	entry.Date = date

	if err := s.repo.Save(ctx, entry); err != nil {
		return nil, err
	}

	response := ToEntryResponse(entry)
	s.publish(ctx, event.ChangeInsert, response, nil)
	return &response, nil
}

// GetByID retrieves an entry by id.
func (s *EntryService) GetByID(ctx context.Context, id uuid.UUID) (*EntryResponse, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToEntryResponse(entry)
	return &response, nil
}

// List retrieves entries ordered by date descending with optional search,
// inclusive date range and owner filters.
func (s *EntryService) List(ctx context.Context, filter EntryListFilter) ([]EntryResponse, error) {
	listFilter, err := filter.toListFilter()
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.FindAll(ctx, listFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToEntryResponse(&entries[i])
	}
	return responses, nil
}

// Update applies a sparse patch to an entry. An explicitly provided zero
// amount persists; an absent amount leaves the stored value untouched.
func (s *EntryService) Update(ctx context.Context, id uuid.UUID, req UpdateEntryRequest) (*EntryResponse, error) {
	if id == uuid.Nil {
		return nil, shared.ErrMissingID
	}

	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := ToEntryResponse(entry)

	if req.Customer != nil {
		entry.CustomerName = *req.Customer
	}
	if req.Amount != nil {
		if err := entry.SetAmount(req.Amount.Decimal); err != nil {
			return nil, err
		}
	}
	if req.Date != nil {
		date, err := shared.ParseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		entry.Date = date
	}
	if req.Category != nil {
		entry.Category = *req.Category
	}
	if req.Remark != nil {
		entry.Remark = *req.Remark
	}
	if req.UploadedPath != nil {
		entry.UploadedPath = *req.UploadedPath
	}
	if req.ClientID != nil {
		entry.ClientID = req.ClientID
	}
	entry.Touch()

	if err := s.repo.Save(ctx, entry); err != nil {
		return nil, err
	}

	response := ToEntryResponse(entry)
	s.publish(ctx, event.ChangeUpdate, response, previous)
	return &response, nil
}

// Delete removes an entry by id. Deleting a missing id succeeds.
func (s *EntryService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return shared.ErrMissingID
	}

	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, event.ChangeDelete, nil, ToEntryResponse(entry))
	return nil
}

// Total returns the summed amount across the bound table.
func (s *EntryService) Total(ctx context.Context) (decimal.Decimal, error) {
	return s.repo.SumAmounts(ctx)
}

func (s *EntryService) publish(ctx context.Context, changeType event.ChangeType, newRow, oldRow any) {
	if s.feed == nil {
		return
	}
	if err := s.feed.Publish(ctx, event.NewChangeEvent(s.table, changeType, newRow, oldRow)); err != nil {
		s.logger.Warn("change publish failed",
			zap.String("table", s.table),
			zap.Error(err),
		)
	}
}
