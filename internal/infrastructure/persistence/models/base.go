package models

import (
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// OwnedModel provides persistence fields for owner-stamped records.
// A null owner means the record was created without an active session.
type OwnedModel struct {
	BaseModel
	OwnerID *uuid.UUID `gorm:"type:uuid;index"`
}

// FromDomainOwnedEntity populates OwnedModel from domain OwnedEntity
func (m *OwnedModel) FromDomainOwnedEntity(e shared.OwnedEntity) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.OwnerID = e.OwnerID
}

// ToDomainOwnedEntity converts OwnedModel to domain OwnedEntity
func (m *OwnedModel) ToDomainOwnedEntity() shared.OwnedEntity {
	return shared.OwnedEntity{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		OwnerID: m.OwnerID,
	}
}
