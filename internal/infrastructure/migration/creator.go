package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// MigrationFile describes a freshly created up/down SQL pair.
type MigrationFile struct {
	Version  string
	Name     string
	UpPath   string
	DownPath string
}

// CreateMigration writes an empty up/down migration pair into dir. The
// version prefix is the current timestamp so lexical order is apply order.
func CreateMigration(dir, name, description string) (*MigrationFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create migrations directory: %w", err)
	}

	now := time.Now()
	mf := &MigrationFile{
		Version: now.Format("20060102150405"),
		Name:    slugify(name),
	}
	base := filepath.Join(dir, mf.Version+"_"+mf.Name)
	mf.UpPath = base + ".up.sql"
	mf.DownPath = base + ".down.sql"

	header := func(kind string) string {
		var b strings.Builder
		fmt.Fprintf(&b, "-- %s: %s\n", kind, name)
		if description != "" {
			fmt.Fprintf(&b, "-- %s\n", description)
		}
		fmt.Fprintf(&b, "-- Created: %s\n\n", now.Format(time.RFC3339))
		return b.String()
	}

	if err := os.WriteFile(mf.UpPath, []byte(header("Migration")), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", mf.UpPath, err)
	}
	if err := os.WriteFile(mf.DownPath, []byte(header("Rollback")), 0o644); err != nil {
		os.Remove(mf.UpPath)
		return nil, fmt.Errorf("write %s: %w", mf.DownPath, err)
	}

	return mf, nil
}

// slugify reduces a migration name to lower-case snake case so it is safe
// as a file name component.
func slugify(name string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case r == ' ' || r == '-' || r == '_':
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// ListMigrations returns the base names of every migration pair in dir,
// sorted in apply order. A missing directory lists as empty.
func ListMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(e.Name(), ".up.sql"); ok {
			names = append(names, base)
		}
	}
	sort.Strings(names)
	return names, nil
}
