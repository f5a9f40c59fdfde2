package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"add clients table":  "add_clients_table",
		"Add-Clients-Table":  "add_clients_table",
		"add__clients":       "add_clients",
		"  padded  ":         "padded",
		"drop!@#chars":       "dropchars",
		"v2 credentials fix": "v2_credentials_fix",
		"":                   "",
	}
	for in, want := range cases {
		assert.Equal(t, want, slugify(in), "input %q", in)
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add clients table", "clients directory schema")
	require.NoError(t, err)

	assert.Len(t, mf.Version, 14)
	assert.Equal(t, "add_clients_table", mf.Name)
	assert.Equal(t,
		strings.TrimSuffix(mf.UpPath, ".up.sql"),
		strings.TrimSuffix(mf.DownPath, ".down.sql"))

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "Migration: add clients table")
	assert.Contains(t, string(up), "clients directory schema")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback: add clients table")
}

func TestCreateMigrationMakesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "db", "migrations")

	_, err := CreateMigration(nested, "first", "")
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{
		"000002_add_credentials.up.sql",
		"000002_add_credentials.down.sql",
		"000001_add_clients.up.sql",
		"000001_add_clients.down.sql",
		"README.md",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.up.sql"), 0o755))

	names, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_add_clients", "000002_add_credentials"}, names)
}

func TestListMigrationsMissingDirectory(t *testing.T) {
	names, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
