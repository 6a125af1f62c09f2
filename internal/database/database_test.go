package database_test

import (
	"context"
	"testing"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/database"
)

func TestSetup(t *testing.T) {
	ctx := context.Background()

	db, err := database.Setup(ctx, database.InMemory)
	if err != nil {
		t.Fatalf("Setup() returned unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	t.Run("applies every migration", func(t *testing.T) {
		version, err := database.SchemaVersion(ctx, db)
		if err != nil {
			t.Fatalf("SchemaVersion() returned unexpected error: %v", err)
		}
		if version != 3 {
			t.Errorf("Expected schema version 3, got %d", version)
		}
	})

	t.Run("seeds the catalog fixture", func(t *testing.T) {
		fixture, err := database.LoadFixture()
		if err != nil {
			t.Fatalf("LoadFixture() returned unexpected error: %v", err)
		}

		counts := map[string]int{
			"instrument":         len(fixture.Instruments),
			"token_package":      len(fixture.Packages),
			"featured_candidate": len(fixture.Featured),
		}
		for table, want := range counts {
			var got int
			if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&got); err != nil {
				t.Fatalf("count %s: %v", table, err)
			}
			if got != want {
				t.Errorf("Expected %d rows in %s, got %d", want, table, got)
			}
		}
	})

	t.Run("seed is idempotent", func(t *testing.T) {
		inserted, err := database.Seed(ctx, db)
		if err != nil {
			t.Fatalf("Seed() returned unexpected error: %v", err)
		}
		if inserted != 0 {
			t.Errorf("Expected no inserts on a seeded catalog, got %d", inserted)
		}
	})

	t.Run("migrate is idempotent", func(t *testing.T) {
		applied, err := database.Migrate(ctx, db)
		if err != nil {
			t.Fatalf("Migrate() returned unexpected error: %v", err)
		}
		if applied != 0 {
			t.Errorf("Expected no pending migrations, got %d", applied)
		}
	})

	t.Run("foreign keys are enforced", func(t *testing.T) {
		_, err := db.Exec(`INSERT INTO watchlist_item (user_id, instrument_id, added_at) VALUES ('nobody', 'nothing', '2024-01-01T00:00:00Z')`)
		if err == nil {
			t.Error("Expected foreign key violation")
		}
	})
}

func TestHealthCheck(t *testing.T) {
	db, err := database.Open(database.InMemory)
	if err != nil {
		t.Fatalf("Open() returned unexpected error: %v", err)
	}

	if err := database.HealthCheck(db); err != nil {
		t.Errorf("Expected healthy database, got %v", err)
	}

	db.Close()
	if err := database.HealthCheck(db); err == nil {
		t.Error("Expected error after close")
	}
}
