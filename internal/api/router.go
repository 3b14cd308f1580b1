package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mdr/duck-rewards-website/internal/api/handlers"
	"github.com/mdr/duck-rewards-website/internal/api/middleware"
	"github.com/mdr/duck-rewards-website/internal/config"
	"github.com/mdr/duck-rewards-website/internal/domain"
	"github.com/mdr/duck-rewards-website/internal/repository"
	"github.com/mdr/duck-rewards-website/internal/service"
	"github.com/mdr/duck-rewards-website/internal/websocket"
)

func NewRouter(services *service.Services, hub *websocket.Hub, repos *repository.Repositories, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	profileHandler := handlers.NewProfileHandler(services.Profile)
	businessHandler := handlers.NewBusinessHandler(services.Business)
	adminHandler := handlers.NewAdminHandler(services.Admin)
	locationHandler := handlers.NewLocationHandler(services.Location)
	duckHandler := handlers.NewDuckHandler(repos.Duck)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth, services.Profile)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Every request resolves its session; the gates below decide access.
		r.Use(middleware.Session(services.Auth))

		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Get("/session", authHandler.Session)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth())
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Public machine-location map
		r.Get("/locations", locationHandler.ListActive)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth())

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", profileHandler.Get)
				r.Put("/", profileHandler.Update)
				r.Get("/completion", profileHandler.Completion)
			})

			r.Get("/ducks/{code}", duckHandler.Lookup)
		})

		// Role-gated dashboards. A signed-in user of the wrong type gets a
		// corrective redirect to their own dashboard.
		r.Route("/dashboard", func(r chi.Router) {
			r.Route("/customer", func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.UserTypeCustomer))
				r.Get("/ducks", duckHandler.Mine)
			})

			r.Route("/business", func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.UserTypeBusiness))
				r.Get("/me", businessHandler.Me)
				r.Post("/alerts/consume", businessHandler.ConsumeAlert)
			})
		})

		// Admin back office
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.UserTypeAdmin))

			r.Get("/users", adminHandler.ListUsers)
			r.Post("/users/{userID}/suspend", adminHandler.SuspendUser)
			r.Post("/users/{userID}/unsuspend", adminHandler.UnsuspendUser)
			r.Put("/users/{userID}/role", adminHandler.UpdateUserRole)

			r.Get("/businesses", adminHandler.ListBusinesses)
			r.Post("/businesses/{businessID}/approve", adminHandler.ApproveBusiness)
			r.Post("/businesses/{businessID}/reject", adminHandler.RejectBusiness)

			r.Route("/locations", func(r chi.Router) {
				r.Post("/", locationHandler.Create)
				r.Put("/{locationID}", locationHandler.Update)
				r.Delete("/{locationID}", locationHandler.Delete)
			})

			r.Get("/stats", adminHandler.Stats)
		})

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
