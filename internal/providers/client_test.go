package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewClient_UnsupportedProvider(t *testing.T) {
	_, err := NewClient("azure", "", "key", "model", 0)
	assert.Error(t, err)
}

func TestOpenAIGenerate_ReturnsResolvedModel(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody chatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{"model": "gpt-4o-mini-2024-07-18"})
	}))
	defer server.Close()

	client, err := NewClient("openai", server.URL, "sk-test", "gpt-4o-mini", 0)
	assert.NoError(t, err)

	result, err := client.Generate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini-2024-07-18", result.Model)
	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotBody.Model)
	assert.Equal(t, probeMaxTokens, gotBody.MaxTokens)
	assert.Equal(t, float64(0), gotBody.Temperature)
}

func TestOpenAIGenerate_AuthFailurePreservesVendorText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "Incorrect API key provided"},
		})
	}))
	defer server.Close()

	client, err := NewClient("openai", server.URL, "sk-wrong", "gpt-4o-mini", 0)
	assert.NoError(t, err)

	_, err = client.Generate(context.Background())
	var reqErr *RequestError
	assert.ErrorAs(t, err, &reqErr)
	assert.False(t, reqErr.Timeout)
	assert.Contains(t, reqErr.Message, "authentication failed")
	assert.Contains(t, reqErr.Message, "Incorrect API key provided")
}

func TestGenerate_TimeoutIsDistinct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client, err := NewClient("openai", server.URL, "sk-test", "gpt-4o-mini", 50*time.Millisecond)
	assert.NoError(t, err)

	_, err = client.Generate(context.Background())
	var reqErr *RequestError
	assert.ErrorAs(t, err, &reqErr)
	assert.True(t, reqErr.Timeout)
}

func TestGenerate_UnreachableEndpoint(t *testing.T) {
	// Reserve a port and close it so the connection is refused.
	listener := httptest.NewServer(http.NotFoundHandler())
	url := listener.URL
	listener.Close()

	client, err := NewClient("openai", url, "sk-test", "gpt-4o-mini", time.Second)
	assert.NoError(t, err)

	_, err = client.Generate(context.Background())
	var reqErr *RequestError
	assert.ErrorAs(t, err, &reqErr)
	assert.False(t, reqErr.Timeout)
}

func TestGenerate_RespectsCallerDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client, err := NewClient("openai", server.URL, "sk-test", "gpt-4o-mini", 10*time.Second)
	assert.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.Generate(ctx)
	var reqErr *RequestError
	assert.ErrorAs(t, err, &reqErr)
	assert.True(t, reqErr.Timeout)
}

func TestOpenAIListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": "gpt-4o"}, {"id": "gpt-4o-mini"}},
		})
	}))
	defer server.Close()

	client, err := NewClient("openai", server.URL, "sk-test", "gpt-4o-mini", 0)
	assert.NoError(t, err)

	models, err := client.ListModels(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"gpt-4o", "gpt-4o-mini"}, models)
}

func TestAnthropicGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant-test", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		_ = json.NewEncoder(w).Encode(map[string]any{"model": "claude-3-5-haiku-20241022"})
	}))
	defer server.Close()

	client, err := NewClient("anthropic", server.URL, "sk-ant-test", "claude-3-5-haiku-latest", 0)
	assert.NoError(t, err)

	result, err := client.Generate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "claude-3-5-haiku-20241022", result.Model)
}

func TestAnthropicListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": "claude-3-5-haiku-latest"}},
		})
	}))
	defer server.Close()

	client, err := NewClient("anthropic", server.URL, "sk-ant-test", "claude-3-5-haiku-latest", 0)
	assert.NoError(t, err)

	models, err := client.ListModels(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"claude-3-5-haiku-latest"}, models)
}

func TestGeminiGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "g-test", r.Header.Get("x-goog-api-key"))
		_ = json.NewEncoder(w).Encode(map[string]any{"modelVersion": "gemini-2.0-flash-001"})
	}))
	defer server.Close()

	client, err := NewClient("gemini", server.URL, "g-test", "gemini-2.0-flash", 0)
	assert.NoError(t, err)

	result, err := client.Generate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash-001", result.Model)
}

func TestGeminiListModels_StripsCatalogPrefix(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]any{
				{"name": "models/gemini-2.0-flash"},
				{"name": "models/gemini-1.5-pro"},
			},
		})
	}))
	defer server.Close()

	client, err := NewClient("gemini", server.URL, "g-test", "gemini-2.0-flash", 0)
	assert.NoError(t, err)

	models, err := client.ListModels(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"gemini-2.0-flash", "gemini-1.5-pro"}, models)
}

func TestOllamaGenerate_NoCredentialHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{"model": "llama3.1"})
	}))
	defer server.Close()

	client, err := NewClient("ollama", server.URL, "", "llama3.1", 0)
	assert.NoError(t, err)

	result, err := client.Generate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "llama3.1", result.Model)
}

func TestMapNetworkError_ContextDeadline(t *testing.T) {
	reqErr := mapNetworkError(context.DeadlineExceeded)
	assert.True(t, reqErr.Timeout)

	reqErr = mapNetworkError(errors.New("connection refused"))
	assert.False(t, reqErr.Timeout)
}
