package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lead-intake/internal/common/config"
	"lead-intake/internal/common/logger"
	"lead-intake/internal/models"
	"lead-intake/internal/store"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	err error
}

func (s *stubStore) EnsureTable(ctx context.Context) (store.Table, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s, nil
}

func (s *stubStore) Put(ctx context.Context, record *models.IntakeRecord) error { return nil }
func (s *stubStore) Driver() string                                              { return "stub" }
func (s *stubStore) Close() error                                                { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Address:         "127.0.0.1:0",
			Route:           "/api/intake",
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: 1000,
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

// echoIntake records the request id the router assigned.
func echoIntake(seen *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = middleware.GetReqID(r.Context())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
}

func newRouter(t *testing.T, s store.Store, intake http.Handler) http.Handler {
	t.Helper()
	return NewRouter(Options{
		Config: testConfig(),
		Intake: intake,
		Store:  s,
		Logger: logger.NewTestLogger(t),
	})
}

func TestRouter_PostReachesIntake(t *testing.T) {
	var reqID string
	r := newRouter(t, &stubStore{}, echoIntake(&reqID))

	req := httptest.NewRequest(http.MethodPost, "/api/intake", strings.NewReader(`{}`))
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, reqID)
}

func TestRouter_Preflight(t *testing.T) {
	var reqID string
	r := newRouter(t, &stubStore{}, echoIntake(&reqID))

	req := httptest.NewRequest(http.MethodOptions, "/api/intake", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Less(t, rec.Code, 300)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Empty(t, reqID, "preflight must not reach the intake handler")
}

func TestRouter_BareOptions(t *testing.T) {
	var reqID string
	r := newRouter(t, &stubStore{}, echoIntake(&reqID))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/intake", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, reqID)
}

func TestRouter_RecoversPanics(t *testing.T) {
	r := newRouter(t, &stubStore{}, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/intake", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealth(t *testing.T) {
	r := newRouter(t, &stubStore{}, http.NotFoundHandler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReady(t *testing.T) {
	tests := []struct {
		name   string
		store  store.Store
		code   int
		status string
	}{
		{"reachable", &stubStore{}, http.StatusOK, "ready"},
		{"not configured", store.NewUnconfigured("aztable", "INTAKE_STORAGE_CONNECTION_STRING"), http.StatusServiceUnavailable, "not_configured"},
		{"unavailable", &stubStore{err: store.ErrUnavailable}, http.StatusServiceUnavailable, "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(t, tt.store, http.NotFoundHandler())

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.code, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body["status"])
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "intake_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()
	assert.Equal(t, float64(1), testutil.ToFloat64(counter))

	r := NewRouter(Options{
		Config:  testConfig(),
		Intake:  http.NotFoundHandler(),
		Store:   &stubStore{},
		Logger:  logger.NewNoOpLogger(),
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "intake_test_total 1")
}

func TestMetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = false
	r := NewRouter(Options{Config: cfg, Intake: http.NotFoundHandler(), Store: &stubStore{}, Logger: logger.NewNoOpLogger()})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	s := New(Options{
		Config: testConfig(),
		Intake: http.NotFoundHandler(),
		Store:  &stubStore{},
		Logger: logger.NewTestLogger(t),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_RunReportsListenError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	cfg := testConfig()
	cfg.Server.Address = l.Addr().String()
	s := New(Options{Config: cfg, Intake: http.NotFoundHandler(), Store: &stubStore{}, Logger: logger.NewNoOpLogger()})

	err = s.Run(context.Background())
	assert.Error(t, err)
}
