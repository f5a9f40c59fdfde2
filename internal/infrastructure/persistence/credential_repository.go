package persistence

import (
	"context"
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/bizops/backend/internal/domain/vault"
	"github.com/bizops/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCredentialRepository implements CredentialRepository using GORM
type GormCredentialRepository struct {
	db *gorm.DB
}

// NewGormCredentialRepository creates a new GormCredentialRepository
func NewGormCredentialRepository(db *gorm.DB) *GormCredentialRepository {
	return &GormCredentialRepository{db: db}
}

// FindByID finds a credential by its ID
func (r *GormCredentialRepository) FindByID(ctx context.Context, id uuid.UUID) (*vault.Credential, error) {
	var model models.CredentialModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, storeErr(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all credentials matching the filter, newest first.
// The search term matches the client name case-insensitively.
func (r *GormCredentialRepository) FindAll(ctx context.Context, filter shared.ListFilter) ([]vault.Credential, error) {
	filter.Normalize()

	var credentialModels []models.CredentialModel
	query := r.db.WithContext(ctx).Model(&models.CredentialModel{})

	if filter.Search != "" {
		query = query.Where("client_name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}

	if err := query.Order("created_at DESC").Limit(filter.Limit).Find(&credentialModels).Error; err != nil {
		return nil, storeErr(err)
	}

	credentials := make([]vault.Credential, len(credentialModels))
	for i, model := range credentialModels {
		credentials[i] = *model.ToDomain()
	}
	return credentials, nil
}

// Save creates or updates a credential
func (r *GormCredentialRepository) Save(ctx context.Context, credential *vault.Credential) error {
	model := models.CredentialModelFromDomain(credential)
	return storeErr(r.db.WithContext(ctx).Save(model).Error)
}

// Delete removes a credential by id. Deleting a missing id succeeds.
func (r *GormCredentialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return storeErr(r.db.WithContext(ctx).Delete(&models.CredentialModel{}, "id = ?", id).Error)
}

// FindExpiringBefore returns credentials whose expiry falls between now and
// the cutoff, ordered by ascending expiry
func (r *GormCredentialRepository) FindExpiringBefore(ctx context.Context, now, cutoff time.Time) ([]vault.Credential, error) {
	var credentialModels []models.CredentialModel
	if err := r.db.WithContext(ctx).
		Where("expiry IS NOT NULL AND expiry >= ? AND expiry <= ?", now, cutoff).
		Order("expiry ASC").
		Find(&credentialModels).Error; err != nil {
		return nil, storeErr(err)
	}

	credentials := make([]vault.Credential, len(credentialModels))
	for i, model := range credentialModels {
		credentials[i] = *model.ToDomain()
	}
	return credentials, nil
}

// Ensure GormCredentialRepository implements CredentialRepository
var _ vault.CredentialRepository = (*GormCredentialRepository)(nil)
