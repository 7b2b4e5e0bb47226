package http

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"vectoradmin/internal/chroma"
	"vectoradmin/internal/handlers"
	"vectoradmin/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Console service.ConsoleService
	// Upstream is the server the /proxy relay forwards to. Nil disables the relay.
	Upstream *url.URL
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	collections := handlers.NewCollectionHandler(deps.Console)
	records := handlers.NewRecordHandler(deps.Console)
	analysis := handlers.NewAnalysisHandler(deps.Console)
	transfer := handlers.NewTransferHandler(deps.Console)
	history := handlers.NewHistoryHandler(deps.Console)

	r.Route("/api", func(r chi.Router) {
		r.Use(CORS)

		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.Console))
		r.Method(http.MethodGet, "/capabilities", handlers.NewCapabilitiesHandler(deps.Console))

		r.Get("/collections", collections.List)
		r.Route("/collections/{collection}", func(r chi.Router) {
			r.Get("/", collections.Get)
			r.Delete("/", collections.Delete)

			r.Post("/records", records.List)
			r.Post("/records/delete", records.Delete)
			r.Get("/records/{recordID}/preview", records.Preview)
			r.Post("/query", records.Query)

			r.Post("/visualize", analysis.Visualize)
			r.Post("/similarity", analysis.Similarity)

			r.Get("/export", transfer.Export)
			r.Post("/mirror", transfer.Mirror)
			r.Get("/snapshots", history.Snapshots)
		})
		r.Post("/import", transfer.Import)

		r.Get("/profiles", history.ListProfiles)
		r.Put("/profiles/{name}", history.SaveProfile)
		r.Delete("/profiles/{name}", history.DeleteProfile)
		r.Get("/audit", history.AuditLog)
	})

	if deps.Upstream != nil {
		proxy := NewProxy(deps.Upstream)
		r.Handle(chroma.ProxyPrefix, proxy)
		r.Handle(chroma.ProxyPrefix+"/*", proxy)
	}

	return r
}
