package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// Probe requests pin output to a tiny deterministic budget: they exist
	// to confirm reachability and authentication, not to produce output.
	probeMaxTokens   = 8
	probeTemperature = 0
	probePrompt      = "ping"

	// DefaultTimeout bounds every probe and model-list round trip.
	DefaultTimeout = 15 * time.Second
)

// GenerateResult reports the outcome of a probe generation call. Model is
// the identifier the provider actually resolved, which may differ from the
// requested alias.
type GenerateResult struct {
	Model string
}

// Client is the per-vendor capability surface the probe and model lister
// depend on. Implementations are selected by NewClient and hold the base
// URL, decrypted credential, and bounded-timeout HTTP client.
type Client interface {
	// Generate issues one minimal generation request against the
	// configured model.
	Generate(ctx context.Context) (*GenerateResult, error)
	// ListModels returns the model identifiers the credential can access,
	// materialized once per call.
	ListModels(ctx context.Context) ([]string, error)
}

// NewClient builds the client variant for provider. baseURL falls back to
// the registry default when empty; a zero timeout falls back to
// DefaultTimeout.
func NewClient(provider, baseURL, apiKey, model string, timeout time.Duration) (Client, error) {
	if !IsSupported(provider) {
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL(provider)
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := &http.Client{Timeout: timeout}

	switch provider {
	case "anthropic":
		return &anthropicClient{httpClient: httpClient, baseURL: baseURL, apiKey: apiKey, model: model}, nil
	case "gemini":
		return &geminiClient{httpClient: httpClient, baseURL: baseURL, apiKey: apiKey, model: model}, nil
	default:
		// openai and ollama both speak the OpenAI-compatible API.
		return &openAIClient{httpClient: httpClient, baseURL: baseURL, apiKey: apiKey, model: model}, nil
	}
}
