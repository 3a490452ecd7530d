package internal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fittrackr/assistant/internal/chat"
	"github.com/fittrackr/assistant/internal/config"
	"github.com/fittrackr/assistant/internal/intents"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	server, err := NewServer(t.Context(), NewServerParams{
		Config: &config.Config{
			Environment: "development",
			Host:        "localhost",
			Port:        9000,
			MetricsPort: 9001,
		},
		VersionInfo: "test-version",
		SeedDemo:    true,
	})
	require.NoError(t, err)

	return server.routerSetup()
}

func TestServer_Health(t *testing.T) {
	router := newTestRouter(t)

	// health is probed without origin or known user agent
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok test-version", rr.Body.String())
}

func TestServer_Chat(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"userId":1,"message":"bonjour"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "test")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp chat.ChatResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, intents.IntentGreeting, resp.Intent)
	assert.Contains(t, resp.Text, "Salut Léa !")
}

func TestServer_Classify(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/chat/classify", strings.NewReader(`{"message":"je suis crevé"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "test")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp chat.ClassifyResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, intents.IntentFatigue, resp.Intent)
}

func TestServer_Insights(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/chat/insights/1", nil)
	req.Header.Set("Origin", "test")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "workouts30d")
}

func TestServer_UnknownPath(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	req.Header.Set("Origin", "test")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServer_CorsForbidden(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"userId":1,"message":"bonjour"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://evil.example.com")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}
