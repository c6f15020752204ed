package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterHealthRoutes sets up the health check route.
func RegisterHealthRoutes(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
