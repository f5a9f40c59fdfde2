package persistence

import (
	"context"

	"github.com/bizops/backend/internal/domain/directory"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/bizops/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClientRepository implements ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID finds a client by its ID
func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.Client, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, storeErr(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all clients matching the filter, newest first
func (r *GormClientRepository) FindAll(ctx context.Context, filter shared.ListFilter) ([]directory.Client, error) {
	filter.Normalize()

	var clientModels []models.ClientModel
	query := r.db.WithContext(ctx).Model(&models.ClientModel{})

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
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

	if err := query.Order("created_at DESC").Limit(filter.Limit).Find(&clientModels).Error; err != nil {
		return nil, storeErr(err)
	}

	clients := make([]directory.Client, len(clientModels))
	for i, model := range clientModels {
		clients[i] = *model.ToDomain()
	}
	return clients, nil
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, client *directory.Client) error {
	model := models.ClientModelFromDomain(client)
	return storeErr(r.db.WithContext(ctx).Save(model).Error)
}

// Delete removes a client by id. Deleting a missing id succeeds.
func (r *GormClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return storeErr(r.db.WithContext(ctx).Delete(&models.ClientModel{}, "id = ?", id).Error)
}

// Count counts all clients
func (r *GormClientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ClientModel{}).Count(&count).Error; err != nil {
		return 0, storeErr(err)
	}
	return count, nil
}

// Ensure GormClientRepository implements ClientRepository
var _ directory.ClientRepository = (*GormClientRepository)(nil)
