package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePreflight(origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("OPTIONS", "/api/transactions", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", "POST")
	recorder := httptest.NewRecorder()
	testRouter.ServeHTTP(recorder, req)
	return recorder
}

// TestHealthCheck tests the GET /health endpoint
func TestHealthCheck(t *testing.T) {
	setupTestRouter(t)

	t.Run("should report ok when the database answers", func(t *testing.T) {
		w := makeRequest("GET", "/health", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]string
		require.NoError(t, parseJSONResponse(w, &body))
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("should report unavailable when the ping fails", func(t *testing.T) {
		testStore.pingErr = errors.New("connection refused")
		defer func() { testStore.pingErr = nil }()

		w := makeRequest("GET", "/health", nil, "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

// TestCORS tests the preflight handling of the router
func TestCORS(t *testing.T) {
	setupTestRouter(t)

	t.Run("should allow configured origins", func(t *testing.T) {
		w := makePreflight(appConfig.CORSOrigins[0])
		assert.Equal(t, appConfig.CORSOrigins[0], w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("should refuse unknown origins", func(t *testing.T) {
		w := makePreflight("http://evil.example.com")
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

// TestSwaggerDocs tests that the generated API docs are served
func TestSwaggerDocs(t *testing.T) {
	setupTestRouter(t)

	w := makeRequest("GET", "/swagger/doc.json", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var doc map[string]any
	require.NoError(t, parseJSONResponse(w, &doc))
	info, ok := doc["info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Finanzas API", info["title"])
	assert.Contains(t, doc["paths"], "/api/balance")
}
