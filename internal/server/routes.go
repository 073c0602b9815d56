package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/bracket/internal/handler/health"
)

// resultPaths lists every mount point of the results API. /resultats and
// /api/resultats are the paths older bracket pages still call.
var resultPaths = []string{"/results", "/resultats", "/api/resultats"}

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	// Set before mounting so sub-routers inherit them.
	notFound := handleNotFound()
	r.MethodNotAllowed(notFound)
	r.NotFound(notFound)
	if deps.StaticDir != "" {
		if info, err := os.Stat(deps.StaticDir); err == nil && info.IsDir() {
			logger.Info("serving bracket page", "dir", deps.StaticDir)
			r.NotFound(handleStatic(deps.StaticDir, notFound))
		}
	}

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Bracket API", "/openapi.json", "/docs"))
	r.Get("/health", handleHealth())
	r.Mount("/healthz", health.NewHandler(logger, deps.Checks).Routes())

	r.Get("/levels", handleLevels(deps.Levels))
	r.Get("/api/niveaux", handleLevels(deps.Levels))

	for _, p := range resultPaths {
		r.Route(p, func(r chi.Router) {
			r.Get("/", handleGetResults(logger, deps.Results))
			r.Get("/events", handleEvents(deps.Broker))

			r.Group(func(r chi.Router) {
				r.Use(requireEditor(deps.Origins, deps.EditKey))
				r.Use(limitWrites(deps.WriteLimit))
				r.Put("/", handlePutResults(logger, deps.Results))
				r.Delete("/", handleDeleteResults(logger, deps.Results))
			})
		})
	}
}
