package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/trackscope/internal/httputil"
	"github.com/alexanderramin/trackscope/internal/service"
)

type SignalHandler struct {
	signals service.SignalService
	logger  *slog.Logger
}

func NewSignalHandler(signals service.SignalService, logger *slog.Logger) *SignalHandler {
	return &SignalHandler{signals: signals, logger: logger}
}

type taskRequest struct {
	Title    string  `json:"title"`
	Progress float64 `json:"progress"`
}

func (h *SignalHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !parseBody(w, r, &req) {
		return
	}
	task, err := h.signals.AddTask(r.Context(), r.PathValue("id"), req.Title, req.Progress)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, task)
}

func (h *SignalHandler) SetTaskProgress(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !parseBody(w, r, &req) {
		return
	}
	task, err := h.signals.SetTaskProgress(r.Context(), r.PathValue("id"), req.Progress)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, task)
}

type reportRequest struct {
	Title       string     `json:"title"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

func (h *SignalHandler) AddReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if !parseBody(w, r, &req) {
		return
	}
	rep, err := h.signals.AddReport(r.Context(), r.PathValue("id"), req.Title, req.SubmittedAt)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, rep)
}

type kpiRequest struct {
	Name   string  `json:"name"`
	Actual float64 `json:"actual"`
	Target float64 `json:"target"`
}

func (h *SignalHandler) RecordKPI(w http.ResponseWriter, r *http.Request) {
	var req kpiRequest
	if !parseBody(w, r, &req) {
		return
	}
	k, err := h.signals.RecordKPI(r.Context(), r.PathValue("id"), req.Name, req.Actual, req.Target)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, k)
}
