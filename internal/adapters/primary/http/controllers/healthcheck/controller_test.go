package healthcheckController

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(checks map[string]Pinger, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(checks, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthCheck(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	w := serve(map[string]Pinger{"postgres": down}, "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(map[string]Pinger{"postgres": ok, "redis": ok}, "/ready")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(map[string]Pinger{"postgres": ok, "redis": down}, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"not ready","failed":["redis"]}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	w := serve(nil, "/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
