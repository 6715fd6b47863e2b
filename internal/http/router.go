package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/rentbook/internal/http/dashboard"
	"github.com/MrJamesThe3rd/rentbook/internal/http/export"
	"github.com/MrJamesThe3rd/rentbook/internal/http/inflation"
	"github.com/MrJamesThe3rd/rentbook/internal/http/owner"
	"github.com/MrJamesThe3rd/rentbook/internal/http/property"
)

type Options struct {
	CORSOrigins     []string
	ImportRateLimit int
}

func New(
	opts Options,
	propertiesV1 *property.Handler,
	inflationV1 *inflation.Handler,
	ownersV1 *owner.Handler,
	dashboardV1 *dashboard.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/properties", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			propertiesV1.Routes(r)
		})

		r.Route("/inflation", func(r chi.Router) {
			r.With(RateLimit(opts.ImportRateLimit)).Route("/import", inflationV1.ImportRoutes)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				inflationV1.Routes(r)
			})
		})

		r.Route("/owners", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			ownersV1.Routes(r)
		})

		r.Route("/dashboard", dashboardV1.Routes)

		r.Route("/export", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			exportV1.Routes(r)
		})
	})

	return router
}
