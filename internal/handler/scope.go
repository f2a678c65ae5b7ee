package handler

import (
	"log/slog"
	"net/http"

	"github.com/alexanderramin/trackscope/internal/contract"
	"github.com/alexanderramin/trackscope/internal/httputil"
	"github.com/alexanderramin/trackscope/internal/service"
)

type ScopeHandler struct {
	scope  service.ScopeService
	logger *slog.Logger
}

func NewScopeHandler(scope service.ScopeService, logger *slog.Logger) *ScopeHandler {
	return &ScopeHandler{scope: scope, logger: logger}
}

// GetTree returns the track's forest. A q parameter filters it, keeping the
// ancestors of every match.
func (h *ScopeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	roots, err := h.scope.Search(r.Context(), r.PathValue("id"), r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, contract.NewScopeTree(roots))
}

func (h *ScopeHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.scope.Stats(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, stats)
}

func (h *ScopeHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var req service.CreateNodeRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.TrackID = r.PathValue("id")
	node, err := h.scope.CreateNode(r.Context(), req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, node)
}

type importTextRequest struct {
	Text string `json:"text"`
}

func (h *ScopeHandler) ImportText(w http.ResponseWriter, r *http.Request) {
	var req importTextRequest
	if !parseBody(w, r, &req) {
		return
	}
	res, err := h.scope.ImportText(r.Context(), r.PathValue("id"), req.Text)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, res)
}

type reorderRequest struct {
	Items []contract.OrderItem `json:"items"`
}

func (h *ScopeHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !parseBody(w, r, &req) {
		return
	}
	if err := h.scope.Reorder(r.Context(), r.PathValue("id"), req.Items); err != nil {
		handleError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ScopeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	node, err := h.scope.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, node)
}

func (h *ScopeHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateNodeRequest
	if !parseBody(w, r, &req) {
		return
	}
	node, err := h.scope.UpdateNode(r.Context(), r.PathValue("id"), req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, node)
}

func (h *ScopeHandler) SetProgress(w http.ResponseWriter, r *http.Request) {
	var req service.SetProgressRequest
	if !parseBody(w, r, &req) {
		return
	}
	node, err := h.scope.SetProgress(r.Context(), r.PathValue("id"), req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, node)
}
