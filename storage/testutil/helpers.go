package testutil

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/smartshop-ai/smartshop/db"
)

// SetupTestDB creates an in-memory SQLite database for testing.
// Uses real migrations to ensure test schema matches production schema.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { testDB.Close() })

	// Each pooled connection to :memory: is its own database
	testDB.SetMaxOpenConns(1)

	err = db.Migrate(testDB, nil)
	require.NoError(t, err, "Failed to run migrations")

	return testDB
}

// SetupEmptyDB creates an in-memory SQLite database WITHOUT the domain
// tables, for testing error handling when the schema is missing.
func SetupEmptyDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { testDB.Close() })
	return testDB
}

// InsertProduct inserts a minimal product row for foreign-key fixtures.
func InsertProduct(t *testing.T, testDB *sql.DB, id, name, brand string) {
	t.Helper()

	_, err := testDB.Exec(
		"INSERT INTO products (id, name, brand, category, price, dedup_key) VALUES (?, ?, ?, ?, ?, ?)",
		id, name, brand, "General", 9.99, name+"|"+brand,
	)
	require.NoError(t, err)
}
