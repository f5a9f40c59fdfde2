package directory

import (
	"strings"
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Client represents a business client in the directory context.
type Client struct {
	shared.OwnedEntity
	Name        string
	Company     string
	Designation string
	Address     string
	City        string
	Phone       string
	Email       string
	TaxID       string
}

// NewClient creates a new client owned by the given principal.
func NewClient(ownerID *uuid.UUID, name string) (*Client, error) {
	if err := validateClientName(name); err != nil {
		return nil, err
	}
	return &Client{
		OwnedEntity: shared.NewOwnedEntity(ownerID),
		Name:        strings.TrimSpace(name),
	}, nil
}

// Rename updates the client's display name.
func (c *Client) Rename(name string) error {
	if err := validateClientName(name); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	c.UpdatedAt = time.Now()
	return nil
}

// SetContact updates phone and email.
func (c *Client) SetContact(phone, email string) {
	c.Phone = phone
	c.Email = strings.ToLower(strings.TrimSpace(email))
	c.UpdatedAt = time.Now()
}

// SetAddress updates address and city.
func (c *Client) SetAddress(address, city string) {
	c.Address = address
	c.City = city
	c.UpdatedAt = time.Now()
}

func validateClientName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("Client name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("Client name cannot exceed 200 characters")
	}
	return nil
}
