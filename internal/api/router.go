package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/DRIP-Screener-Backend/internal/api/middleware"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/config"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/service"
)

// Services bundles the services the router dispatches to.
type Services struct {
	System     *service.SystemService
	Calculator *service.CalculatorService
	Instrument *service.InstrumentService
	Token      *service.TokenService
	User       *service.UserService
	Watchlist  *service.WatchlistService
	Featured   *service.FeaturedService
	Dashboard  *service.DashboardService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	systemHandler := handlers.NewSystemHandler(svc.System)
	calculatorHandler := handlers.NewCalculatorHandler(svc.Calculator)
	instrumentHandler := handlers.NewInstrumentHandler(svc.Instrument, svc.Calculator)
	tokenHandler := handlers.NewTokenHandler(svc.Token)
	watchlistHandler := handlers.NewWatchlistHandler(svc.Watchlist)
	featuredHandler := handlers.NewFeaturedHandler(svc.Featured)
	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard)
	adminHandler := handlers.NewAdminHandler(svc.Instrument, svc.User, svc.Token)

	identity := custommiddleware.Identity(svc.User)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Post("/calculator", calculatorHandler.Calculate)
		r.Get("/featured", featuredHandler.Featured)

		r.Route("/instruments", func(r chi.Router) {
			r.Get("/", instrumentHandler.Instruments)
			r.Get("/sectors", instrumentHandler.Sectors)
			r.Route("/{symbol}", func(r chi.Router) {
				r.Get("/", instrumentHandler.Instrument)
				r.Get("/calculate", instrumentHandler.Calculate)
				r.With(identity).Post("/refresh", instrumentHandler.Refresh)
			})
		})

		r.Route("/tokens", func(r chi.Router) {
			r.Get("/packages", tokenHandler.Packages)

			r.Group(func(r chi.Router) {
				r.Use(identity)
				r.Get("/balance", tokenHandler.Balance)
				r.Get("/history", tokenHandler.History)
				r.Post("/checkout", tokenHandler.StartCheckout)
				r.Post("/checkout/confirm", tokenHandler.ConfirmCheckout)
				r.Post("/checkout/cancel", tokenHandler.CancelCheckout)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(identity)
			r.Get("/dashboard", dashboardHandler.Dashboard)

			r.Route("/watchlist", func(r chi.Router) {
				r.Get("/", watchlistHandler.Watchlist)
				r.Post("/", watchlistHandler.AddItem)
				r.Delete("/{symbol}", watchlistHandler.RemoveItem)
			})
		})

		// Admin namespace
		r.Route("/admin", func(r chi.Router) {
			r.Use(custommiddleware.APIKeyMiddleware(cfg.Admin.APIKey))

			r.Route("/instruments", func(r chi.Router) {
				r.Get("/", adminHandler.Instruments)
				r.Post("/", adminHandler.CreateInstrument)
				r.Put("/{symbol}", adminHandler.UpdateInstrument)
				r.Delete("/{symbol}", adminHandler.DeleteInstrument)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", adminHandler.Users)
				r.Put("/{id}/status", adminHandler.UpdateUserStatus)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", adminHandler.Transactions)
				r.With(custommiddleware.ValidateUUIDMiddleware).Get("/{uuid}", adminHandler.Transaction)
			})

			r.Post("/featured/rotate", featuredHandler.Rotate)
		})
	})

	return r
}
