// internal/app/features/jobs/routes.go
package jobs

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the job endpoints, mounted under /jobs.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(h.RequireToken)
	r.Post("/poll-sweep", h.TriggerPollSweep)
	r.Post("/flash-cleanup", h.TriggerFlashCleanup)
	r.Get("/runs", h.ListRuns)
	return r
}
