package ledger

import (
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryKind distinguishes the two ledger tables. Incomes and expenses share
// one record shape and one uniform operation contract.
type EntryKind string

const (
	KindIncome  EntryKind = "income"
	KindExpense EntryKind = "expense"
)

// Entry represents a single income or expense record.
type Entry struct {
	shared.OwnedEntity
	CustomerName string
	Amount       decimal.Decimal
	Date         *time.Time
	Category     string
	Remark       string
	UploadedPath string
	ClientID     *uuid.UUID
}

// NewEntry creates a ledger entry owned by the given principal. The amount
// must already be coerced to a finite decimal (see ParseAmount).
func NewEntry(ownerID *uuid.UUID, customerName string, amount decimal.Decimal) (*Entry, error) {
	if amount.IsNegative() {
		return nil, shared.NewValidationError("Amount cannot be negative")
	}
	return &Entry{
		OwnedEntity:  shared.NewOwnedEntity(ownerID),
		CustomerName: customerName,
		Amount:       amount,
	}, nil
}

// SetAmount replaces the amount, rejecting negatives.
func (e *Entry) SetAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewValidationError("Amount cannot be negative")
	}
	e.Amount = amount
	e.UpdatedAt = time.Now()
	return nil
}
