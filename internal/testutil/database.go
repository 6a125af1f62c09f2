package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/database"
)

// SetupTestDB creates an in-memory SQLite database for testing.
// All migrations are applied but no fixture data is loaded.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(database.InMemory)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	if _, err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	return db
}

// SetupSeededDB is SetupTestDB plus the catalog fixture: instruments, token
// packages and featured candidates as shipped with the server.
func SetupSeededDB(t *testing.T) *sql.DB {
	t.Helper()

	db := SetupTestDB(t)
	if _, err := database.Seed(context.Background(), db); err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}
	return db
}
