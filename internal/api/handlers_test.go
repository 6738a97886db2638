package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/database"
	"taskdeck/internal/secrets"
	"taskdeck/internal/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Init(database.Config{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)

	cipher, err := secrets.NewCipher("test-master-secret")
	require.NoError(t, err)

	return NewRouter(services.NewServices(db, cipher, 0))
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-User-ID", "user-1")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestRequireUser_RejectsAnonymousRequests(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/settings/ai", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestGetAIConfig_EmptyStateSuggestsDefaults(t *testing.T) {
	router := newTestRouter(t)

	recorder := doRequest(t, router, http.MethodGet, "/api/settings/ai", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Config   *json.RawMessage `json:"config"`
		Defaults struct {
			Provider string `json:"provider"`
			Model    string `json:"model"`
		} `json:"defaults"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	if body.Config != nil {
		assert.Equal(t, "null", string(*body.Config))
	}
	assert.Equal(t, "openai", body.Defaults.Provider)
	assert.Equal(t, "gpt-4o-mini", body.Defaults.Model)
}

func TestPutAIConfig_RoundTrip(t *testing.T) {
	router := newTestRouter(t)

	recorder := doRequest(t, router, http.MethodPut, "/api/settings/ai",
		`{"provider":"openai","credential":"sk-abc","model":"gpt-4o-mini"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Config struct {
			Provider         string  `json:"provider"`
			Model            string  `json:"model"`
			IsActive         bool    `json:"isActive"`
			HasCredential    bool    `json:"hasCredential"`
			MaskedCredential *string `json:"maskedCredential"`
		} `json:"config"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	assert.Equal(t, "openai", body.Config.Provider)
	assert.Equal(t, "gpt-4o-mini", body.Config.Model)
	assert.True(t, body.Config.IsActive)
	assert.True(t, body.Config.HasCredential)
	require.NotNil(t, body.Config.MaskedCredential)
	assert.NotContains(t, recorder.Body.String(), "sk-abc", "raw credential must never be serialized")
}

func TestPutAIConfig_ValidationErrorIs400(t *testing.T) {
	router := newTestRouter(t)

	recorder := doRequest(t, router, http.MethodPut, "/api/settings/ai",
		`{"provider":"skynet"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "provider")
}

func TestTestAIConnection_NotConfiguredIs400(t *testing.T) {
	router := newTestRouter(t)

	recorder := doRequest(t, router, http.MethodGet, "/api/settings/ai/test", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "no active AI provider configuration")
}

func TestListAIModels_SuccessAgainstBackend(t *testing.T) {
	router := newTestRouter(t)

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": "gpt-4o"}},
		})
	}))
	defer backend.Close()

	recorder := doRequest(t, router, http.MethodPut, "/api/settings/ai",
		`{"provider":"openai","credential":"sk-abc","baseUrl":"`+backend.URL+`"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = doRequest(t, router, http.MethodGet, "/api/settings/ai/models", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Provider string   `json:"provider"`
		Models   []string `json:"models"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "openai", body.Provider)
	assert.Equal(t, []string{"gpt-4o"}, body.Models)
}

func TestLocalServiceHealth_FailureStaysHTTP200(t *testing.T) {
	router := newTestRouter(t)

	backend := httptest.NewServer(http.NotFoundHandler())
	url := backend.URL
	backend.Close()

	recorder := doRequest(t, router, http.MethodGet, "/api/settings/local-health?url="+url, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		URL       string `json:"url"`
		Reachable bool   `json:"reachable"`
		Error     string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, url, body.URL)
	assert.False(t, body.Reachable)
	assert.NotEmpty(t, body.Error)
}
