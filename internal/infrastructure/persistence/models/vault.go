package models

import (
	"time"

	"github.com/bizops/backend/internal/domain/vault"
)

// CredentialModel is the persistence model for the Credential domain entity.
// Category is stored in canonical lower-case form.
type CredentialModel struct {
	OwnedModel
	ClientName  string         `gorm:"type:varchar(200);not null;index"`
	Category    vault.Category `gorm:"type:varchar(20);not null;default:'other'"`
	Provider    string         `gorm:"type:varchar(200)"`
	PortalURL   string         `gorm:"type:text"`
	Login       string         `gorm:"type:varchar(200)"`
	Password    string         `gorm:"type:text"`
	ServiceName string         `gorm:"type:varchar(200)"`
	Expiry      *time.Time     `gorm:"index"`
	Notes       string         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CredentialModel) TableName() string {
	return "credentials"
}

// ToDomain converts the persistence model to a domain Credential entity.
func (m *CredentialModel) ToDomain() *vault.Credential {
	return &vault.Credential{
		OwnedEntity: m.ToDomainOwnedEntity(),
		ClientName:  m.ClientName,
		Category:    m.Category,
		Provider:    m.Provider,
		PortalURL:   m.PortalURL,
		Login:       m.Login,
		Password:    m.Password,
		ServiceName: m.ServiceName,
		Expiry:      m.Expiry,
		Notes:       m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Credential entity.
func (m *CredentialModel) FromDomain(c *vault.Credential) {
	m.FromDomainOwnedEntity(c.OwnedEntity)
	m.ClientName = c.ClientName
	m.Category = c.Category
	m.Provider = c.Provider
	m.PortalURL = c.PortalURL
	m.Login = c.Login
	m.Password = c.Password
	m.ServiceName = c.ServiceName
	m.Expiry = c.Expiry
	m.Notes = c.Notes
}

// CredentialModelFromDomain creates a new persistence model from a domain Credential entity.
func CredentialModelFromDomain(c *vault.Credential) *CredentialModel {
	m := &CredentialModel{}
	m.FromDomain(c)
	return m
}
