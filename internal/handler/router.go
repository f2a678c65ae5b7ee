package handler

import (
	"log/slog"
	"net/http"

	"github.com/rs/cors"

	"github.com/alexanderramin/trackscope/internal/httputil"
	"github.com/alexanderramin/trackscope/internal/middleware"
	"github.com/alexanderramin/trackscope/internal/service"
)

// Services are the use cases the HTTP API exposes. Bulk rebuild is absent on
// purpose; it stays a CLI maintenance action.
type Services struct {
	Tracks   service.TrackService
	Scope    service.ScopeService
	Progress service.ProgressService
	Signals  service.SignalService
}

// NewRouter registers every route and wraps the mux in recovery, request
// logging and CORS.
func NewRouter(svcs Services, logger *slog.Logger, origins []string) http.Handler {
	tracks := NewTrackHandler(svcs.Tracks, logger)
	scope := NewScopeHandler(svcs.Scope, logger)
	progress := NewProgressHandler(svcs.Progress, logger)
	signals := NewSignalHandler(svcs.Signals, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", health)

	mux.HandleFunc("GET /api/tracks", tracks.ListTracks)
	mux.HandleFunc("POST /api/tracks", tracks.CreateTrack)
	mux.HandleFunc("GET /api/tracks/{id}", tracks.GetTrack)
	mux.HandleFunc("DELETE /api/tracks/{id}", tracks.DeleteTrack)

	mux.HandleFunc("GET /api/tracks/{id}/scope", scope.GetTree)
	mux.HandleFunc("POST /api/tracks/{id}/scope", scope.CreateNode)
	mux.HandleFunc("GET /api/tracks/{id}/scope/stats", scope.GetStats)
	mux.HandleFunc("POST /api/tracks/{id}/scope/import", scope.ImportText)
	mux.HandleFunc("PATCH /api/tracks/{id}/scope/reorder", scope.Reorder)
	mux.HandleFunc("GET /api/scope/{id}", scope.GetNode)
	mux.HandleFunc("PATCH /api/scope/{id}", scope.UpdateNode)
	mux.HandleFunc("PATCH /api/scope/{id}/progress", scope.SetProgress)

	mux.HandleFunc("GET /api/tracks/{id}/progress", progress.GetTrackProgress)
	mux.HandleFunc("GET /api/summary", progress.GetSummary)

	mux.HandleFunc("POST /api/tracks/{id}/tasks", signals.AddTask)
	mux.HandleFunc("PATCH /api/tasks/{id}/progress", signals.SetTaskProgress)
	mux.HandleFunc("POST /api/tracks/{id}/reports", signals.AddReport)
	mux.HandleFunc("POST /api/tracks/{id}/kpis", signals.RecordKPI)

	var handler http.Handler = mux
	handler = middleware.RequestLog(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept"},
	}).Handler(handler)
}

func health(w http.ResponseWriter, _ *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
