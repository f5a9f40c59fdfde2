package persistence

import (
	"context"
	"time"

	"github.com/bizops/backend/internal/domain/ledger"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/bizops/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	// IncomesTable is the table backing income entries
	IncomesTable = "incomes"
	// ExpensesTable is the table backing expense entries
	ExpensesTable = "expenses"
)

// GormEntryRepository implements EntryRepository using GORM. Incomes and
// expenses share the record shape, so one implementation serves both; the
// table is bound at construction time.
type GormEntryRepository struct {
	db    *gorm.DB
	table string
}

// NewIncomeRepository creates an EntryRepository bound to the incomes table
func NewIncomeRepository(db *gorm.DB) *GormEntryRepository {
	return &GormEntryRepository{db: db, table: IncomesTable}
}

// NewExpenseRepository creates an EntryRepository bound to the expenses table
func NewExpenseRepository(db *gorm.DB) *GormEntryRepository {
	return &GormEntryRepository{db: db, table: ExpensesTable}
}

// Table returns the bound table name
func (r *GormEntryRepository) Table() string {
	return r.table
}

// FindByID finds an entry by its ID
func (r *GormEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Entry, error) {
	var model models.EntryModel
	if err := r.db.WithContext(ctx).Table(r.table).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, storeErr(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all entries matching the filter, ordered by date descending.
// Date-range bounds are inclusive and apply to the entry date.
func (r *GormEntryRepository) FindAll(ctx context.Context, filter shared.ListFilter) ([]ledger.Entry, error) {
	filter.Normalize()

	var entryModels []models.EntryModel
	query := r.db.WithContext(ctx).Table(r.table)

	if filter.Search != "" {
		query = query.Where("customer_name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.FromDate != nil {
		query = query.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", *filter.ToDate)
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}

	if err := query.Order("date DESC, created_at DESC").Limit(filter.Limit).Find(&entryModels).Error; err != nil {
		return nil, storeErr(err)
	}

	entries := make([]ledger.Entry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// Save creates or updates an entry
func (r *GormEntryRepository) Save(ctx context.Context, entry *ledger.Entry) error {
	model := models.EntryModelFromDomain(entry)
	return storeErr(r.db.WithContext(ctx).Table(r.table).Save(model).Error)
}

// Delete removes an entry by id. Deleting a missing id succeeds.
func (r *GormEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return storeErr(r.db.WithContext(ctx).Table(r.table).
		Where("id = ?", id).
		Delete(&models.EntryModel{}).Error)
}

// SumAmounts returns the total amount across all rows in the bound table
func (r *GormEntryRepository) SumAmounts(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.Decimal
	if err := r.db.WithContext(ctx).Table(r.table).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error; err != nil {
		return decimal.Zero, storeErr(err)
	}
	return sum, nil
}

// SumAmountsWithRemark returns the total amount over rows whose remark
// contains the fragment, matched case-insensitively
func (r *GormEntryRepository) SumAmountsWithRemark(ctx context.Context, fragment string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	if err := r.db.WithContext(ctx).Table(r.table).
		Select("COALESCE(SUM(amount), 0)").
		Where("remark ILIKE ?", "%"+fragment+"%").
		Scan(&sum).Error; err != nil {
		return decimal.Zero, storeErr(err)
	}
	return sum, nil
}

// SumAmountsAfter returns the total amount over rows dated strictly after
// the given time
func (r *GormEntryRepository) SumAmountsAfter(ctx context.Context, after time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	if err := r.db.WithContext(ctx).Table(r.table).
		Select("COALESCE(SUM(amount), 0)").
		Where("date > ?", after).
		Scan(&sum).Error; err != nil {
		return decimal.Zero, storeErr(err)
	}
	return sum, nil
}

// Ensure GormEntryRepository implements EntryRepository
var _ ledger.EntryRepository = (*GormEntryRepository)(nil)
