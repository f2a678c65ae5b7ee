package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError_ProblemJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, http.StatusNotFound, "track x: not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var p ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Not Found", p.Title)
	assert.Equal(t, 404, p.Status)
	assert.Equal(t, "track x: not found", p.Detail)
}

func TestRespondJSON_UnencodableFallsBackTo500(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusOK, map[string]any{"bad": make(chan int)})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestParseJSON(t *testing.T) {
	var dest struct {
		Text string `json:"text"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":"1 Root"}`))
	require.NoError(t, ParseJSON(httptest.NewRecorder(), req, &dest))
	assert.Equal(t, "1 Root", dest.Text)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":`))
	assert.Error(t, ParseJSON(httptest.NewRecorder(), req, &dest))
}
