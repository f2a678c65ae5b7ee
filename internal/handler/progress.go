package handler

import (
	"log/slog"
	"net/http"

	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/alexanderramin/trackscope/internal/httputil"
	"github.com/alexanderramin/trackscope/internal/service"
)

type ProgressHandler struct {
	progress service.ProgressService
	logger   *slog.Logger
}

func NewProgressHandler(progress service.ProgressService, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{progress: progress, logger: logger}
}

func (h *ProgressHandler) GetTrackProgress(w http.ResponseWriter, r *http.Request) {
	mode := domain.ProgressMode(r.URL.Query().Get("mode"))
	tp, err := h.progress.TrackProgress(r.Context(), r.PathValue("id"), mode)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, tp)
}

func (h *ProgressHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	mode := domain.ProgressMode(r.URL.Query().Get("mode"))
	sum, err := h.progress.Summary(r.Context(), mode)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, sum)
}
