package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Erespul/flashcards.github.io/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the HTTP handler serving the flashcards API.
//
// Routes:
//
//	POST   /api/register            → AuthHandler.Register
//	POST   /api/login               → AuthHandler.Login
//	POST   /api/logout              → AuthHandler.Logout   (session required)
//	GET    /api/me                  → AuthHandler.Me       (session required)
//	GET    /api/cards               → CardHandler.List     (session required)
//	POST   /api/cards               → CardHandler.Create   (session required)
//	GET    /api/cards/{id}          → CardHandler.Get      (session required)
//	PUT    /api/cards/{id}          → CardHandler.Update   (session required)
//	DELETE /api/cards/{id}          → CardHandler.Delete   (session required)
//	GET    /api/collections         → CardHandler.ListCollections (session required)
//	DELETE /api/collections/{name}  → CardHandler.DeleteCollection (session required)
//
// Middleware chain: JSON content-type enforcement, request logging,
// then cookie-session authentication on the protected group.
func NewRouter(
	authHandler *AuthHandler,
	cardHandler *CardHandler,
	sessions middleware.Sessions,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		// Protected group: requires a valid session cookie
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(sessions))

			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)

			r.Route("/cards", func(r chi.Router) {
				r.Get("/", cardHandler.List)
				r.Post("/", cardHandler.Create)
				r.Get("/{id}", cardHandler.Get)
				r.Put("/{id}", cardHandler.Update)
				r.Delete("/{id}", cardHandler.Delete)
			})

			r.Route("/collections", func(r chi.Router) {
				r.Get("/", cardHandler.ListCollections)
				r.Delete("/{name}", cardHandler.DeleteCollection)
			})
		})
	})

	return r
}
