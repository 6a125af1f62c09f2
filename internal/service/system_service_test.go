package service_test

import (
	"context"
	"testing"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/testutil"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/version"
)

func TestSystemService(t *testing.T) {
	t.Run("healthy database", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSystemService(t, db)

		if err := svc.CheckHealth(); err != nil {
			t.Errorf("CheckHealth() returned unexpected error: %v", err)
		}
	})

	t.Run("closed database", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSystemService(t, db)
		db.Close()

		if err := svc.CheckHealth(); err == nil {
			t.Error("Expected error when database is closed, got nil")
		}
	})

	t.Run("version reports schema and features", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSystemService(t, db)

		info, err := svc.CheckVersion(context.Background())
		if err != nil {
			t.Fatalf("CheckVersion() returned unexpected error: %v", err)
		}
		if info.AppVersion != version.Version {
			t.Errorf("AppVersion = %q, want %q", info.AppVersion, version.Version)
		}
		if info.DbVersion != "3" {
			t.Errorf("DbVersion = %q, want 3", info.DbVersion)
		}
		if !info.Features["drip_calculator"] || info.Features["advanced_search"] {
			t.Errorf("Unexpected features: %v", info.Features)
		}

		// The returned map is a copy.
		info.Features["advanced_search"] = true
		if version.Features["advanced_search"] {
			t.Error("CheckVersion() exposed the package feature map")
		}
	})
}
