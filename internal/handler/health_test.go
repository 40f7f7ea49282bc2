package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	t.Setenv("SANDBOX_API_KEY", "sk-test")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("AI_API_KEY", "")
	t.Setenv("AUTH_URL", "")
	t.Setenv("APP_URL", "http://localhost:3000")

	e := echo.New()
	h := NewHealthHandler("test")
	e.GET("/health", h.Check)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "test", body.Environment)
	assert.NotEmpty(t, body.Timestamp)
	assert.GreaterOrEqual(t, body.Uptime, 0.0)
	assert.NotZero(t, body.Memory.Sys)

	require.Len(t, body.Env, 5)
	assert.True(t, body.Env["SANDBOX_API_KEY"])
	assert.True(t, body.Env["JWT_SECRET"])
	assert.True(t, body.Env["APP_URL"])
	assert.False(t, body.Env["AI_API_KEY"])
	assert.False(t, body.Env["AUTH_URL"])
}

func TestHealthCheckNeedsNoAuthentication(t *testing.T) {
	e := echo.New()
	h := NewHealthHandler("production")
	e.GET("/health", h.Check)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
