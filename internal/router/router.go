package router

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/notebook-cafe/api/internal/cart"
	"github.com/notebook-cafe/api/internal/config"
	"github.com/notebook-cafe/api/internal/database"
	"github.com/notebook-cafe/api/internal/email"
	"github.com/notebook-cafe/api/internal/handler"
	"github.com/notebook-cafe/api/internal/menu"
	mw "github.com/notebook-cafe/api/internal/middleware"
	"github.com/notebook-cafe/api/internal/service"
	"github.com/notebook-cafe/api/internal/storage"
	"github.com/notebook-cafe/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
func New(cfg *config.Config, catalog *menu.Catalog, carts *cart.Manager, store *database.Store, mailer *email.Client, uploads *storage.Client, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Preview password gate (public)
	authHandler := handler.NewAuthHandler(cfg.SitePasswordHash, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// Menu catalog (public, read-only)
	menuHandler := handler.NewMenuHandler(catalog)
	r.Route("/menu", menuHandler.RegisterRoutes)

	// WebSocket route (authenticates via the session cookie internally)
	r.Get("/ws/cart", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	configurator := service.NewConfigurator(catalog)

	// Session-scoped routes: everything that touches a visitor's cart.
	r.Group(func(r chi.Router) {
		r.Use(mw.Session(cfg.JWTSecret))

		cartHandler := handler.NewCartHandler(carts, catalog, configurator, hub)
		r.Route("/cart", cartHandler.RegisterRoutes)
	})

	// Rate-limited public form routes. 5 submissions per IP per minute
	// keeps abuse down without bothering real visitors.
	formLimiter := mw.NewRateLimiter(5, time.Minute)
	r.Group(func(r chi.Router) {
		r.Use(formLimiter.Handler)

		contactHandler := handler.NewContactHandler(store, mailer, cfg.ContactEmailTo)
		r.Route("/contact", contactHandler.RegisterRoutes)

		careersHandler := handler.NewCareersHandler(store, mailer, uploads, cfg.CareersEmailTo)
		r.Route("/careers", careersHandler.RegisterRoutes)

		newsletterHandler := handler.NewNewsletterHandler(store)
		r.Route("/newsletter", newsletterHandler.RegisterRoutes)
	})

	log.Println("Router initialized with all handlers")
	return r
}
