package models

import (
	"time"

	"github.com/bizops/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryModel is the persistence model for the ledger Entry domain entity.
// Incomes and expenses share this shape; the repository binds it to one of
// the two tables at construction time, so the model declares no TableName.
type EntryModel struct {
	OwnedModel
	CustomerName string          `gorm:"type:varchar(200);index"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Date         *time.Time      `gorm:"index"`
	Category     string          `gorm:"type:varchar(100)"`
	Remark       string          `gorm:"type:text"`
	UploadedPath string          `gorm:"type:text"`
	ClientID     *uuid.UUID      `gorm:"type:uuid;index"`
}

// ToDomain converts the persistence model to a domain Entry entity.
func (m *EntryModel) ToDomain() *ledger.Entry {
	return &ledger.Entry{
		OwnedEntity:  m.ToDomainOwnedEntity(),
		CustomerName: m.CustomerName,
		Amount:       m.Amount,
		Date:         m.Date,
		Category:     m.Category,
		Remark:       m.Remark,
		UploadedPath: m.UploadedPath,
		ClientID:     m.ClientID,
	}
}

// FromDomain populates the persistence model from a domain Entry entity.
func (m *EntryModel) FromDomain(e *ledger.Entry) {
	m.FromDomainOwnedEntity(e.OwnedEntity)
	m.CustomerName = e.CustomerName
	m.Amount = e.Amount
	m.Date = e.Date
	m.Category = e.Category
	m.Remark = e.Remark
	m.UploadedPath = e.UploadedPath
	m.ClientID = e.ClientID
}

// EntryModelFromDomain creates a new persistence model from a domain Entry entity.
func EntryModelFromDomain(e *ledger.Entry) *EntryModel {
	m := &EntryModel{}
	m.FromDomain(e)
	return m
}
