package models

import (
	"github.com/bizops/backend/internal/domain/directory"
)

// ClientModel is the persistence model for the Client domain entity.
type ClientModel struct {
	OwnedModel
	Name        string `gorm:"type:varchar(200);not null;index"`
	Company     string `gorm:"type:varchar(200)"`
	Designation string `gorm:"type:varchar(100)"`
	Address     string `gorm:"type:text"`
	City        string `gorm:"type:varchar(100)"`
	Phone       string `gorm:"type:varchar(50)"`
	Email       string `gorm:"type:varchar(200)"`
	TaxID       string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *directory.Client {
	return &directory.Client{
		OwnedEntity: m.ToDomainOwnedEntity(),
		Name:        m.Name,
		Company:     m.Company,
		Designation: m.Designation,
		Address:     m.Address,
		City:        m.City,
		Phone:       m.Phone,
		Email:       m.Email,
		TaxID:       m.TaxID,
	}
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *directory.Client) {
	m.FromDomainOwnedEntity(c.OwnedEntity)
	m.Name = c.Name
	m.Company = c.Company
	m.Designation = c.Designation
	m.Address = c.Address
	m.City = c.City
	m.Phone = c.Phone
	m.Email = c.Email
	m.TaxID = c.TaxID
}

// ClientModelFromDomain creates a new persistence model from a domain Client entity.
func ClientModelFromDomain(c *directory.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}
