package ledger

import (
	"time"

	"github.com/bizops/backend/internal/domain/ledger"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateEntryRequest carries a new income or expense in UI field names. The
// amount accepts a JSON number, a numeric string, or null; anything
// non-numeric coerces to zero.
type CreateEntryRequest struct {
	Customer     string        `json:"customer" binding:"max=200"`
	Amount       ledger.Amount `json:"amount"`
	Date         string        `json:"date"`
	Category     string        `json:"category" binding:"max=100"`
	Remark       string        `json:"remark"`
	UploadedPath string        `json:"uploaded_path"`
	ClientID     *uuid.UUID    `json:"client_id"`
}

// UpdateEntryRequest is a sparse patch; only non-nil fields change, so an
// explicit zero amount still persists.
type UpdateEntryRequest struct {
	Customer     *string        `json:"customer" binding:"omitempty,max=200"`
	Amount       *ledger.Amount `json:"amount"`
	Date         *string        `json:"date"`
	Category     *string        `json:"category" binding:"omitempty,max=100"`
	Remark       *string        `json:"remark"`
	UploadedPath *string        `json:"uploaded_path"`
	ClientID     *uuid.UUID     `json:"client_id"`
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID           uuid.UUID       `json:"id"`
	Customer     string          `json:"customer"`
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date,omitempty"`
	Category     string          `json:"category"`
	Remark       string          `json:"remark"`
	UploadedPath string          `json:"uploaded_path"`
	ClientID     *uuid.UUID      `json:"client_id,omitempty"`
	OwnerID      *uuid.UUID      `json:"ownerId,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// EntryListFilter represents query options for a ledger list. Date bounds
// apply inclusively to the entry date; the search term matches the customer
// name.
type EntryListFilter struct {
	Search string `form:"search"`
	From   string `form:"from"`
	To     string `form:"to"`
	Owner  string `form:"owner" binding:"omitempty,uuid"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// ToEntryResponse maps a domain entry to its response shape.
func ToEntryResponse(entry *ledger.Entry) EntryResponse {
	return EntryResponse{
		ID:           entry.ID,
		Customer:     entry.CustomerName,
		Amount:       entry.Amount,
		Date:         shared.FormatDate(entry.Date),
		Category:     entry.Category,
		Remark:       entry.Remark,
		UploadedPath: entry.UploadedPath,
		ClientID:     entry.ClientID,
		OwnerID:      entry.OwnerID,
		CreatedAt:    entry.CreatedAt,
		UpdatedAt:    entry.UpdatedAt,
	}
}

func (f EntryListFilter) toListFilter() (shared.ListFilter, error) {
	out := shared.ListFilter{Search: f.Search, Limit: f.Limit}

	from, err := shared.ParseDate(f.From)
	if err != nil {
		return out, err
	}
	out.FromDate = from

	to, err := shared.ParseDate(f.To)
	if err != nil {
		return out, err
	}
	out.ToDate = to

	if f.Owner != "" {
		ownerID, err := uuid.Parse(f.Owner)
		if err != nil {
			return out, shared.NewValidationErrorf("Invalid owner id %q", f.Owner)
		}
		out.OwnerID = &ownerID
	}

	out.Normalize()
	return out, nil
}
