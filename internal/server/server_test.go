package server_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/shaharia-lab/filenotify/internal/api"
	"github.com/shaharia-lab/filenotify/internal/server"
	svcmocks "github.com/shaharia-lab/filenotify/internal/service/mocks"
)

func newTestServer(origins ...string) *server.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "filenotify_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	return server.New(server.Config{
		API:            api.New(new(svcmocks.MockNotificationService), logger),
		Port:           0,
		Logger:         logger,
		Gatherer:       reg,
		AllowedOrigins: origins,
	})
}

func TestHealth(t *testing.T) {
	srv := newTestServer()
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMetrics(t *testing.T) {
	srv := newTestServer()
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "filenotify_test_total 1")
}

func TestAPIMounted(t *testing.T) {
	srv := newTestServer()
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	srv := newTestServer("https://console.example.com")
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://console.example.com")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, "https://console.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
