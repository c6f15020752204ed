package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterTaskRoutes sets up the routes for task management. The /deleted
// listing is registered on the collection router so it takes precedence over
// the {taskID} parameter.
func RegisterTaskRoutes(r chi.Router) {
	r.Route("/tasks", func(subRouter chi.Router) {
		subRouter.Get("/", ListTasksHandler)
		subRouter.Post("/", CreateTaskHandler)
		subRouter.Get("/deleted", ListDeletedTasksHandler)

		subRouter.Route("/{taskID}", func(taskRouter chi.Router) {
			taskRouter.Get("/", GetTaskHandler)
			taskRouter.Put("/", UpdateTaskHandler)
			taskRouter.Delete("/", SoftDeleteTaskHandler)
			taskRouter.Delete("/permanent", HardDeleteTaskHandler)
			taskRouter.Post("/restore", RestoreTaskHandler)
		})
	})
}
