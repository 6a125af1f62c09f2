// Package version exposes build metadata.
package version

// Version is the application version, overridden at build time with
// -ldflags "-X github.com/ndewijer/DRIP-Screener-Backend/internal/version.Version=v1.2.3".
var Version = "dev"

// Features lists the optional capabilities compiled into this build.
// Clients use it to decide which screens to render.
var Features = map[string]bool{
	"drip_calculator": true,
	"watchlist":       true,
	"token_purchases": true,
	"data_refresh":    true,
	"featured_stock":  true,
	"admin_panel":     true,
	"advanced_search": false,
}
