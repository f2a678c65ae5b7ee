package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/alexanderramin/trackscope/internal/httputil"
)

// handleError maps domain errors to problem responses. Unexpected errors are
// logged and hidden behind a generic 500.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// parseBody decodes a JSON body, answering 413 or 400 itself on failure.
func parseBody(w http.ResponseWriter, r *http.Request, dest any) bool {
	err := httputil.ParseJSON(w, r, dest)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	httputil.RespondError(w, http.StatusBadRequest, err.Error())
	return false
}
