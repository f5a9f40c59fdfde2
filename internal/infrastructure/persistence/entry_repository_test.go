package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bizops/backend/internal/domain/ledger"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockEntryDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestEntryRepository_TableBinding(t *testing.T) {
	gormDB, _, mockDB := newMockEntryDB(t)
	defer mockDB.Close()

	assert.Equal(t, IncomesTable, NewIncomeRepository(gormDB).Table())
	assert.Equal(t, ExpensesTable, NewExpenseRepository(gormDB).Table())
}

func TestGormEntryRepository_FindByID(t *testing.T) {
	t.Run("finds income entry", func(t *testing.T) {
		gormDB, mock, mockDB := newMockEntryDB(t)
		defer mockDB.Close()
		repo := NewIncomeRepository(gormDB)

		entryID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "customer_name", "amount"}).
			AddRow(entryID, "Acme Corp", "150.50")

		mock.ExpectQuery(`SELECT \* FROM "incomes" WHERE id = \$1 .* LIMIT .*`).
			WithArgs(entryID, 1).
			WillReturnRows(rows)

		entry, err := repo.FindByID(context.Background(), entryID)

		assert.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, entryID, entry.ID)
		assert.True(t, entry.Amount.Equal(decimal.RequireFromString("150.50")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing entry", func(t *testing.T) {
		gormDB, mock, mockDB := newMockEntryDB(t)
		defer mockDB.Close()
		repo := NewExpenseRepository(gormDB)

		entryID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "expenses" WHERE id = \$1 .* LIMIT .*`).
			WithArgs(entryID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		entry, err := repo.FindByID(context.Background(), entryID)

		assert.Error(t, err)
		assert.Nil(t, entry)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormEntryRepository_FindAll(t *testing.T) {
	t.Run("orders by date descending", func(t *testing.T) {
		gormDB, mock, mockDB := newMockEntryDB(t)
		defer mockDB.Close()
		repo := NewIncomeRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "incomes" ORDER BY date DESC, created_at DESC LIMIT .*`).
			WithArgs(shared.DefaultListLimit).
			WillReturnRows(sqlmock.NewRows([]string{"id", "customer_name", "amount"}))

		_, err := repo.FindAll(context.Background(), shared.ListFilter{})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies inclusive date range to entry date", func(t *testing.T) {
		gormDB, mock, mockDB := newMockEntryDB(t)
		defer mockDB.Close()
		repo := NewExpenseRepository(gormDB)

		from := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT \* FROM "expenses" WHERE date >= \$1 AND date <= \$2 ORDER BY date DESC, created_at DESC LIMIT .*`).
			WithArgs(from, to, shared.DefaultListLimit).
			WillReturnRows(sqlmock.NewRows([]string{"id", "customer_name", "amount"}))

		_, err := repo.FindAll(context.Background(), shared.ListFilter{FromDate: &from, ToDate: &to})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormEntryRepository_Save(t *testing.T) {
	gormDB, mock, mockDB := newMockEntryDB(t)
	defer mockDB.Close()
	repo := NewIncomeRepository(gormDB)

	entry, err := ledger.NewEntry(nil, "Acme Corp", decimal.RequireFromString("99.99"))
	require.NoError(t, err)

	mock.ExpectExec(`UPDATE "incomes" SET .*`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Save(context.Background(), entry)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormEntryRepository_Delete(t *testing.T) {
	t.Run("deleting a missing id succeeds", func(t *testing.T) {
		gormDB, mock, mockDB := newMockEntryDB(t)
		defer mockDB.Close()
		repo := NewIncomeRepository(gormDB)

		entryID := uuid.New()

		mock.ExpectExec(`DELETE FROM "incomes" WHERE id = \$1`).
			WithArgs(entryID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), entryID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormEntryRepository_SumAmounts(t *testing.T) {
	gormDB, mock, mockDB := newMockEntryDB(t)
	defer mockDB.Close()
	repo := NewExpenseRepository(gormDB)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "expenses"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("1234.56"))

	sum, err := repo.SumAmounts(context.Background())

	assert.NoError(t, err)
	assert.True(t, sum.Equal(decimal.RequireFromString("1234.56")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormEntryRepository_SumAmountsWithRemark(t *testing.T) {
	gormDB, mock, mockDB := newMockEntryDB(t)
	defer mockDB.Close()
	repo := NewIncomeRepository(gormDB)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "incomes" WHERE remark ILIKE \$1`).
		WithArgs("%pending%").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("500.00"))

	sum, err := repo.SumAmountsWithRemark(context.Background(), "pending")

	assert.NoError(t, err)
	assert.True(t, sum.Equal(decimal.RequireFromString("500.00")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormEntryRepository_SumAmountsAfter(t *testing.T) {
	gormDB, mock, mockDB := newMockEntryDB(t)
	defer mockDB.Close()
	repo := NewExpenseRepository(gormDB)

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "expenses" WHERE date > \$1`).
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("75.25"))

	sum, err := repo.SumAmountsAfter(context.Background(), now)

	assert.NoError(t, err)
	assert.True(t, sum.Equal(decimal.RequireFromString("75.25")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
