package api

import (
	"net/http"
	"tasktrack/api/router/handlers"
	"tasktrack/logger"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates and configures the API router. All registered paths are
// relative to the /api base path.
func NewRouter() http.Handler {
	router := chi.NewRouter()

	handlers.RegisterHealthRoutes(router)
	handlers.RegisterTaskRoutes(router)
	handlers.RegisterTagRoutes(router)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		logger.Error("API SUB-ROUTER CATCH-ALL: Unhandled route relative to /api: %s %s", r.Method, r.URL.Path)
		http.NotFound(w, r)
	})

	return router
}
