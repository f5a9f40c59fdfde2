package ledger

import (
	"context"
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryRepository defines persistence operations for one ledger table. The
// same interface backs both incomes and expenses; implementations are bound
// to a table at construction time.
type EntryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	// FindAll lists entries ordered by date descending. Date-range bounds in
	// the filter are inclusive.
	FindAll(ctx context.Context, filter shared.ListFilter) ([]Entry, error)
	Save(ctx context.Context, entry *Entry) error
	// Delete removes an entry by id; deleting a missing id succeeds.
	Delete(ctx context.Context, id uuid.UUID) error
	// SumAmounts returns the total amount across all rows in the table.
	SumAmounts(ctx context.Context) (decimal.Decimal, error)
	// SumAmountsWithRemark returns the total amount over rows whose remark
	// contains the fragment, matched case-insensitively.
	SumAmountsWithRemark(ctx context.Context, fragment string) (decimal.Decimal, error)
	// SumAmountsAfter returns the total amount over rows dated strictly
	// after the given time.
	SumAmountsAfter(ctx context.Context, after time.Time) (decimal.Decimal, error)
}
