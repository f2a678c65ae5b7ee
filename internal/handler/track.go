package handler

import (
	"log/slog"
	"net/http"

	"github.com/alexanderramin/trackscope/internal/httputil"
	"github.com/alexanderramin/trackscope/internal/service"
)

type TrackHandler struct {
	tracks service.TrackService
	logger *slog.Logger
}

func NewTrackHandler(tracks service.TrackService, logger *slog.Logger) *TrackHandler {
	return &TrackHandler{tracks: tracks, logger: logger}
}

func (h *TrackHandler) ListTracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.tracks.List(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, tracks)
}

func (h *TrackHandler) CreateTrack(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTrackRequest
	if !parseBody(w, r, &req) {
		return
	}
	track, err := h.tracks.Create(r.Context(), req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, track)
}

// GetTrack accepts a track ID or key in the path.
func (h *TrackHandler) GetTrack(w http.ResponseWriter, r *http.Request) {
	track, err := h.tracks.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, track)
}

func (h *TrackHandler) DeleteTrack(w http.ResponseWriter, r *http.Request) {
	if err := h.tracks.Delete(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
