package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triplogue/backend/pkg/apperr"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]string{"name": "Lisbon"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	resp := decode(t, rec)
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Message)
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusBadRequest, "bad input")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "bad input", resp.Message)
}

func TestFromError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", apperr.Validation("bad amount"), http.StatusBadRequest},
		{"not found", apperr.NotFound("no trip"), http.StatusNotFound},
		{"permission", apperr.Permission("denied"), http.StatusForbidden},
		{"conflict", apperr.Conflict("duplicate"), http.StatusConflict},
		{"business rule", apperr.BusinessRule("floor"), http.StatusUnprocessableEntity},
		{"internal", apperr.Internal("boom", errors.New("db down")), http.StatusInternalServerError},
		{"untagged", errors.New("raw"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			FromError(rec, tc.err)
			assert.Equal(t, tc.status, rec.Code)
			assert.False(t, decode(t, rec).Success)
		})
	}
}

func TestFromErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	FromError(rec, apperr.Internal("failed to load budget", errors.New("pq: connection refused")))

	resp := decode(t, rec)
	assert.Equal(t, "internal server error", resp.Message)
	assert.NotContains(t, rec.Body.String(), "pq:")
}
