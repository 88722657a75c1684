package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- RequestID Tests ---

func TestRequestID(t *testing.T) {
	t.Run("generates an id when the header is absent", func(t *testing.T) {
		var fromCtx string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fromCtx = RequestIDFromContext(r.Context())
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, fromCtx)
		assert.Equal(t, fromCtx, rec.Header().Get("X-Request-ID"))
	})

	t.Run("echoes a caller-provided id", func(t *testing.T) {
		var fromCtx string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fromCtx = RequestIDFromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "req-42")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "req-42", fromCtx)
		assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
	})
}

// --- Recovery Tests ---

func TestRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
	assert.Equal(t, "internal server error", body["message"])
}
