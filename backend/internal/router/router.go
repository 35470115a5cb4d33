package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/itchan-dev/bbs/backend/internal/setup"
	mw "github.com/itchan-dev/bbs/shared/middleware"
	"github.com/itchan-dev/bbs/shared/middleware/metrics"
)

// New creates the chi router with all routes of the board API.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(mw.SecurityHeaders(deps.Config.Public.Server.SecureCookies))

	// setup CORS for browser clients; credentials carry the access cookie
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.With(authMw.OptionalAuth()).Post("/logout", h.Logout)
		})

		r.Route("/board", func(r chi.Router) {
			r.Get("/", h.ListBoard)
			r.Get("/{idx}", h.GetBoard)

			r.Group(func(r chi.Router) {
				r.Use(authMw.NeedAuth())
				r.Post("/", h.CreateBoard)
				r.Put("/{idx}", h.UpdateBoard)
				r.Delete("/{idx}", h.DeleteBoard)
			})
		})
	})

	return r
}
