package api

import (
	"net/http"

	"github.com/dom/tienda-api/internal/api/handlers"
	"github.com/dom/tienda-api/internal/api/middleware"
	"github.com/dom/tienda-api/internal/config"
	"github.com/dom/tienda-api/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func NewRouter(services *service.Services, cfg *config.Config, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestLogging(logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}).Handler)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth)
	userHandler := handlers.NewUserHandler(services.User)
	productHandler := handlers.NewProductHandler(services.Product, cfg.PublicURL)

	// Public routes
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)

	// Uploaded product images
	r.Handle("/storage/*", http.StripPrefix("/storage/",
		http.FileServer(http.Dir(cfg.StorageDir))))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(services.Token))

		r.Post("/logout", authHandler.Logout)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.Index)
			r.Get("/{id}", userHandler.Show)
			r.Put("/{id}", userHandler.Update)
			r.Delete("/{id}", userHandler.Destroy)
		})

		r.Route("/productos", func(r chi.Router) {
			r.Get("/", productHandler.Index)
			r.Get("/{id}", productHandler.Show)
			r.Post("/", productHandler.Store)
			r.Put("/{id}", productHandler.Update)
			r.Delete("/{id}", productHandler.Destroy)
		})
	})

	return r
}
