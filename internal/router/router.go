package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/dbadmin/internal/handlers"
	"github.com/GregMSThompson/dbadmin/internal/middleware"
)

type Options struct {
	CORSOrigins []string
	// Auth, when set, guards every /api route.
	Auth func(http.Handler) http.Handler
}

func NewRouter(deps *handlers.Deps, opts Options) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(opts.CORSOrigins))

	hh := handlers.NewHealthHandlers(deps)
	th := handlers.NewTableHandlers(deps)
	vh := handlers.NewViewHandlers(deps)
	qh := handlers.NewQueryHandlers(deps)

	r.Get("/healthz", hh.Health)
	r.Route("/api", func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth)
		}
		r.Mount("/tables", th.TableRoutes())
		r.Mount("/views", vh.ViewRoutes())
		r.Post("/execute-query", qh.ExecuteQuery)
	})
	return r
}
