package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is implemented by every domain entity.
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity carries the identity and timestamps shared by all entities.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e *BaseEntity) GetID() uuid.UUID        { return e.ID }
func (e *BaseEntity) GetCreatedAt() time.Time { return e.CreatedAt }
func (e *BaseEntity) GetUpdatedAt() time.Time { return e.UpdatedAt }

// NewBaseEntity generates a fresh id with both timestamps set to now.
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// OwnedEntity extends BaseEntity with a soft ownership tag. The owner is the
// authenticated principal that created the record, stamped at write time. A
// nil owner means the record was created without an active session; ownership
// is informational and not enforced in-process.
type OwnedEntity struct {
	BaseEntity
	OwnerID *uuid.UUID
}

// NewOwnedEntity creates an owned entity stamped with the given owner.
func NewOwnedEntity(ownerID *uuid.UUID) OwnedEntity {
	return OwnedEntity{
		BaseEntity: NewBaseEntity(),
		OwnerID:    ownerID,
	}
}

// Touch bumps the updated timestamp.
func (e *OwnedEntity) Touch() {
	e.UpdatedAt = time.Now()
}
