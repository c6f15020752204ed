package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterTagRoutes sets up the routes for tag management.
func RegisterTagRoutes(r chi.Router) {
	r.Route("/tags", func(subRouter chi.Router) {
		subRouter.Get("/", ListTagsHandler)
		subRouter.Post("/", CreateTagHandler)
	})

	r.Route("/tags/{tagID}", func(subRouter chi.Router) {
		subRouter.Get("/", GetTagHandler)
		subRouter.Delete("/", DeleteTagHandler)
	})
}
