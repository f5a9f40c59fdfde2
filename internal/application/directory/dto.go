package directory

import (
	"time"

	"github.com/bizops/backend/internal/domain/directory"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CreateClientRequest carries a new client in UI field names.
type CreateClientRequest struct {
	Name        string `json:"clientName" binding:"required,min=1,max=200"`
	Company     string `json:"companyName" binding:"max=200"`
	Designation string `json:"clientDesignation" binding:"max=100"`
	Address     string `json:"companyAddress" binding:"max=500"`
	City        string `json:"city" binding:"max=100"`
	Phone       string `json:"phone" binding:"max=50"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	TaxID       string `json:"gstin" binding:"max=50"`
}

// UpdateClientRequest is a sparse patch: only non-nil fields change, so an
// explicitly provided empty string still persists.
type UpdateClientRequest struct {
	Name        *string `json:"clientName" binding:"omitempty,min=1,max=200"`
	Company     *string `json:"companyName" binding:"omitempty,max=200"`
	Designation *string `json:"clientDesignation" binding:"omitempty,max=100"`
	Address     *string `json:"companyAddress" binding:"omitempty,max=500"`
	City        *string `json:"city" binding:"omitempty,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	Email       *string `json:"email" binding:"omitempty,email,max=200"`
	TaxID       *string `json:"gstin" binding:"omitempty,max=50"`
}

// ClientResponse represents a client in API responses.
type ClientResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"clientName"`
	Company     string     `json:"companyName"`
	Designation string     `json:"clientDesignation"`
	Address     string     `json:"companyAddress"`
	City        string     `json:"city"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email"`
	TaxID       string     `json:"gstin"`
	OwnerID     *uuid.UUID `json:"ownerId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ClientListFilter represents query options for the client list.
type ClientListFilter struct {
	Search string `form:"search"`
	From   string `form:"from"`
	To     string `form:"to"`
	Owner  string `form:"owner" binding:"omitempty,uuid"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// ToClientResponse maps a domain client to its response shape.
func ToClientResponse(client *directory.Client) ClientResponse {
	return ClientResponse{
		ID:          client.ID,
		Name:        client.Name,
		Company:     client.Company,
		Designation: client.Designation,
		Address:     client.Address,
		City:        client.City,
		Phone:       client.Phone,
		Email:       client.Email,
		TaxID:       client.TaxID,
		OwnerID:     client.OwnerID,
		CreatedAt:   client.CreatedAt,
		UpdatedAt:   client.UpdatedAt,
	}
}

// toListFilter converts the transport filter into the shared repository
// filter, parsing date bounds and the owner id. The upper bound is widened to
// the end of its day so date-only input stays inclusive.
func (f ClientListFilter) toListFilter() (shared.ListFilter, error) {
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
	if to != nil {
		end := shared.EndOfDay(*to)
		out.ToDate = &end
	}

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
