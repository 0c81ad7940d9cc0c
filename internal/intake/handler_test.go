package intake

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lead-intake/internal/common/config"
	"lead-intake/internal/common/logger"
	"lead-intake/internal/models"
	"lead-intake/internal/notify"
	"lead-intake/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, s store.Store, notifiers ...notify.Notifier) *Handler {
	t.Helper()
	log := logger.NewTestLogger(t)
	h, err := NewHandler(HandlerOptions{
		Store:  s,
		Fanout: notify.NewFanout(log, time.Second, notifiers...),
		Logger: log,
	})
	require.NoError(t, err)
	return h
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/intake", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandler_Success(t *testing.T) {
	s := newMemStore()
	rec := post(newTestHandler(t, s), validBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, true, body["stored"])
	assert.Equal(t, "Request stored. Next step is notification.", body["message"])
	assert.Regexp(t, requestIDPattern, body["requestId"])
	assert.Regexp(t, createdAtPattern, body["createdAt"])
	assert.NotContains(t, body, "notifications")
	assert.Contains(t, s.records, body["requestId"])
}

func TestHandler_ValidationErrorBody(t *testing.T) {
	rec := post(newTestHandler(t, newMemStore()), `{"name":"Ann"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t,
		`{"ok":false,"error":"VALIDATION_ERROR","missing":["email","businessName","projectType","goals"]}`,
		rec.Body.String())
}

func TestHandler_InvalidJSONBody(t *testing.T) {
	rec := post(newTestHandler(t, newMemStore()), `{"name":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t,
		`{"ok":false,"error":"INVALID_JSON","message":"Request body must be valid JSON."}`,
		rec.Body.String())
}

func TestHandler_MissingStorageBody(t *testing.T) {
	n := &recordingNotifier{name: "trello"}
	rec := post(newTestHandler(t, store.NewUnconfigured("aztable", "INTAKE_STORAGE_CONNECTION_STRING"), n), validBody)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t,
		`{"ok":false,"error":"MISSING_STORAGE","message":"INTAKE_STORAGE_CONNECTION_STRING not set."}`,
		rec.Body.String())
	assert.Zero(t, n.callCount())
}

func TestHandler_StorageErrorBody(t *testing.T) {
	s := newMemStore()
	s.putErr = store.ErrUnavailable
	rec := post(newTestHandler(t, s), validBody)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t,
		`{"ok":false,"error":"STORAGE_ERROR","message":"Request could not be stored."}`,
		rec.Body.String())
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, newMemStore())
	req := httptest.NewRequest(http.MethodGet, "/api/intake", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "POST, OPTIONS", rec.Header().Get("Allow"))
	assert.Equal(t, "METHOD_NOT_ALLOWED", decode(t, rec)["error"])
}

func TestHandler_BodyTooLarge(t *testing.T) {
	s := newMemStore()
	h, err := NewHandler(HandlerOptions{
		Store:        s,
		Logger:       logger.NewNoOpLogger(),
		CustomConfig: &Config{MaxBodyBytes: 16, StoreTimeout: time.Second, SuccessMessage: "ok"},
	})
	require.NoError(t, err)

	rec := post(h, validBody)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_JSON", decode(t, rec)["error"])
	ensure, _ := s.calls()
	assert.Zero(t, ensure)
}

func TestHandler_NotificationSummary(t *testing.T) {
	failing := &recordingNotifier{name: "webhook", err: assert.AnError}
	rec := post(newTestHandler(t, newMemStore(), failing), validBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["ok"])
	notifications := body["notifications"].(map[string]interface{})
	webhook := notifications["webhook"].(map[string]interface{})
	assert.Equal(t, false, webhook["delivered"])
	assert.NotEmpty(t, webhook["error"])
}

func TestHandler_PersistsToRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	rec := post(newTestHandler(t, store.NewRedisStore(client, "intakeRequests")), validBody)
	require.Equal(t, http.StatusOK, rec.Code)

	requestID := decode(t, rec)["requestId"].(string)
	raw, err := mr.Get("intakeRequests:intake:" + requestID)
	require.NoError(t, err)

	var stored models.IntakeRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, "new", stored.Status)
	assert.Equal(t, "Acme", stored.BusinessName)
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	cfg := createConfigFromAppConfig(&config.Config{
		Server:  config.ServerConfig{MaxBodyBytes: 2048},
		Storage: config.StorageConfig{Timeout: 2500},
	}, nil)

	assert.Equal(t, int64(2048), cfg.MaxBodyBytes)
	assert.Equal(t, 2500*time.Millisecond, cfg.StoreTimeout)
	assert.Equal(t, DefaultSuccessMessage, cfg.SuccessMessage)

	custom := &Config{MaxBodyBytes: 1}
	assert.Same(t, custom, createConfigFromAppConfig(nil, custom))
}
