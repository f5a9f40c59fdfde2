// Package integration holds end-to-end tests that run the API and the
// repositories against a real PostgreSQL instance. Containers are started
// through testcontainers, so these tests need a working Docker daemon and
// are skipped in short mode.
package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	mpg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const postgresImage = "postgres:16-alpine"

// One container is shared across tests that clean up after themselves.
var (
	sharedMu  sync.Mutex
	sharedDB  testcontainers.Container
	sharedDSN string
)

// TestDB is a migrated PostgreSQL database backed by a container.
type TestDB struct {
	DB        *gorm.DB
	SqlDB     *sql.DB
	Container testcontainers.Container
	DSN       string
	t         *testing.T
}

// startPostgres brings up one migrated PostgreSQL container and returns it
// with its DSN.
func startPostgres(t *testing.T, dbName string) (testcontainers.Container, string) {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase(dbName),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("bizops"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "container connection string")

	migrationConn, err := sql.Open("postgres", dsn)
	require.NoError(t, err, "open migration connection")
	applyMigrations(t, migrationConn)
	require.NoError(t, migrationConn.Close())

	return container, dsn
}

// NewTestDB starts a fresh PostgreSQL container, runs all migrations and
// returns a connection. The container is terminated on test cleanup.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	container, dsn := startPostgres(t, "bizops_test")
	db, sqlDB := openGorm(t, dsn)

	tdb := &TestDB{DB: db, SqlDB: sqlDB, Container: container, DSN: dsn, t: t}
	t.Cleanup(tdb.Close)
	return tdb
}

// NewSharedTestDB returns a connection to a single container shared across
// the package. Cheaper than NewTestDB, but callers must not depend on table
// contents they did not write.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()

	sharedMu.Lock()
	if sharedDB == nil {
		sharedDB, sharedDSN = startPostgres(t, "bizops_shared_test")
	}
	container, dsn := sharedDB, sharedDSN
	sharedMu.Unlock()

	db, sqlDB := openGorm(t, dsn)

	tdb := &TestDB{DB: db, SqlDB: sqlDB, Container: container, DSN: dsn, t: t}
	// The shared container stays up; only this connection is closed.
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return tdb
}

// Close closes the connection and terminates the container unless it is the
// shared one.
func (tdb *TestDB) Close() {
	if tdb.SqlDB != nil {
		_ = tdb.SqlDB.Close()
	}
	if tdb.Container != nil && tdb.Container != sharedDB {
		if err := tdb.Container.Terminate(context.Background()); err != nil {
			tdb.t.Logf("terminate container: %v", err)
		}
	}
}

// CleanTables truncates every table except schema_migrations.
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "list tables")

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			tdb.t.Logf("truncate %s: %v", table, err)
		}
	}
}

// WithTransaction runs fn inside a transaction that is rolled back afterwards.
func (tdb *TestDB) WithTransaction(fn func(tx *gorm.DB)) {
	tdb.t.Helper()

	tx := tdb.DB.Begin()
	require.NoError(tdb.t, tx.Error, "begin transaction")
	defer tx.Rollback()

	fn(tx)
}

// openGorm connects GORM to the given DSN with a small pool. Set
// TEST_DB_DEBUG to see the SQL the tests run.
func openGorm(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()

	logLevel := logger.Silent
	if os.Getenv("TEST_DB_DEBUG") != "" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	require.NoError(t, err, "open gorm connection")

	sqlDB, err := db.DB()
	require.NoError(t, err, "access connection pool")
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, sqlDB
}

func applyMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	dir := migrationsDir()
	require.NotEmpty(t, dir, "migrations directory not found")

	driver, err := mpg.WithInstance(sqlDB, &mpg.Config{})
	require.NoError(t, err, "create migration driver")

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	require.NoError(t, err, "create migrate instance")

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err, "apply migrations")
	}
}

// migrationsDir walks up from this file towards the repository root looking
// for the migrations directory.
func migrationsDir() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}

	dir := filepath.Dir(filename)
	for range 5 {
		candidate := filepath.Join(dir, "migrations")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		dir = filepath.Dir(dir)
	}
	return ""
}
