package lrcat

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// newTestCatalog builds a throwaway Lightroom-shaped SQLite file from
// schemaSQL, runs any extra population statements, and opens it the way the
// facade requires — read-only, immutable. There is no writer-side API left
// in this package, so fixtures populate the database directly with SQL.
func newTestCatalog(t *testing.T, populate ...string) *Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.lrcat")

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open setup db: %v", err)
	}
	for _, stmt := range schemaSQL {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("create schema: %v\n%s", err, stmt)
		}
	}
	for name, value := range requiredVariables {
		if _, err := db.Exec(
			`INSERT INTO Adobe_variablesTable (id_global, name, value) VALUES (?, ?, ?)`,
			NewUUID(), name, value,
		); err != nil {
			t.Fatalf("seed variable %s: %v", name, err)
		}
	}
	for _, stmt := range populate {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("populate fixture: %v\n%s", err, stmt)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close setup db: %v", err)
	}

	catalog, err := OpenCatalog(path)
	if err != nil {
		t.Fatalf("open test catalog: %v", err)
	}
	t.Cleanup(func() { catalog.Close() })
	return catalog
}
