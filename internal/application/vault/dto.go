package vault

import (
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/bizops/backend/internal/domain/vault"
	"github.com/google/uuid"
)

// CreateCredentialRequest carries a new credential in UI field names. The
// type accepts display labels ("Domain") and canonical lower-case values.
type CreateCredentialRequest struct {
	Client      string `json:"client" binding:"required,min=1,max=200"`
	Type        string `json:"type" binding:"required"`
	Provider    string `json:"provider" binding:"max=200"`
	URL         string `json:"url" binding:"max=500"`
	Login       string `json:"login" binding:"max=200"`
	Password    string `json:"password"`
	ServiceName string `json:"serviceName" binding:"max=200"`
	Expiry      string `json:"expiry"`
	Notes       string `json:"notes"`
}

// UpdateCredentialRequest is a sparse patch; only non-nil fields change.
// A provided type goes through the same strict normalization as create.
type UpdateCredentialRequest struct {
	Client      *string `json:"client" binding:"omitempty,min=1,max=200"`
	Type        *string `json:"type"`
	Provider    *string `json:"provider" binding:"omitempty,max=200"`
	URL         *string `json:"url" binding:"omitempty,max=500"`
	Login       *string `json:"login" binding:"omitempty,max=200"`
	Password    *string `json:"password"`
	ServiceName *string `json:"serviceName" binding:"omitempty,max=200"`
	Expiry      *string `json:"expiry"`
	Notes       *string `json:"notes"`
}

// CredentialResponse represents a credential in API responses. The secret is
// returned as stored; masking stays a presentation concern.
type CredentialResponse struct {
	ID          uuid.UUID  `json:"id"`
	Client      string     `json:"client"`
	Type        string     `json:"type"`
	Provider    string     `json:"provider"`
	URL         string     `json:"url"`
	Login       string     `json:"login"`
	Password    string     `json:"password"`
	ServiceName string     `json:"serviceName"`
	Expiry      string     `json:"expiry,omitempty"`
	Notes       string     `json:"notes"`
	OwnerID     *uuid.UUID `json:"ownerId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// RenewalResponse is one row of the derived upcoming-renewals view.
type RenewalResponse struct {
	ID          uuid.UUID `json:"id"`
	Client      string    `json:"client"`
	Type        string    `json:"type"`
	Provider    string    `json:"provider"`
	ServiceName string    `json:"serviceName"`
	Expiry      string    `json:"expiry"`
	DaysLeft    int       `json:"daysLeft"`
}

// CredentialListFilter represents query options for the credential list. The
// search term matches the client name.
type CredentialListFilter struct {
	Search string `form:"search"`
	From   string `form:"from"`
	To     string `form:"to"`
	Owner  string `form:"owner" binding:"omitempty,uuid"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// ToCredentialResponse maps a domain credential to its response shape.
func ToCredentialResponse(credential *vault.Credential) CredentialResponse {
	return CredentialResponse{
		ID:          credential.ID,
		Client:      credential.ClientName,
		Type:        string(credential.Category),
		Provider:    credential.Provider,
		URL:         credential.PortalURL,
		Login:       credential.Login,
		Password:    credential.Password,
		ServiceName: credential.ServiceName,
		Expiry:      shared.FormatDate(credential.Expiry),
		Notes:       credential.Notes,
		OwnerID:     credential.OwnerID,
		CreatedAt:   credential.CreatedAt,
		UpdatedAt:   credential.UpdatedAt,
	}
}

func (f CredentialListFilter) toListFilter() (shared.ListFilter, error) {
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
