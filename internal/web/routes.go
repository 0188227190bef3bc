package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/frame-diff/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	// Create handlers
	videosHandler := handlers.NewVideosHandler(s.index, s.differ)
	diffHandler := handlers.NewDiffHandler(s.differ)
	sweepHandler := handlers.NewSweepHandler(s.index, s.differ, s.jobManager)
	configHandler := handlers.NewConfigHandler(s.config, s.provider)

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/config", configHandler.Get)

		// Videos
		r.Get("/videos", videosHandler.List)
		r.Get("/videos/{name}/index", videosHandler.Index)
		r.Get("/videos/{name}/prompts", videosHandler.Prompts)

		// Diff
		r.Post("/diff", diffHandler.Create)

		// Sweeps
		r.Post("/sweeps", sweepHandler.Start)
		r.Get("/sweeps/{jobId}", sweepHandler.Status)
		r.Get("/sweeps/{jobId}/events", sweepHandler.Events)
		r.Delete("/sweeps/{jobId}", sweepHandler.Cancel)
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	})
}
