// Package providers holds the closed set of supported AI vendors and the
// HTTP clients used to talk to them.
package providers

import (
	"fmt"
	"net/url"
	"strings"
)

type Info struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	DefaultURL   string `json:"defaultBaseUrl"`
	DefaultModel string `json:"defaultModel"`
}

// registry is ordered; the first entry is the conventional default provider.
var registry = []Info{
	{ID: "openai", Label: "OpenAI", DefaultURL: "https://api.openai.com/v1", DefaultModel: "gpt-4o-mini"},
	{ID: "anthropic", Label: "Anthropic", DefaultURL: "https://api.anthropic.com", DefaultModel: "claude-3-5-haiku-latest"},
	{ID: "gemini", Label: "Google Gemini", DefaultURL: "https://generativelanguage.googleapis.com", DefaultModel: "gemini-2.0-flash"},
	{ID: "ollama", Label: "Ollama", DefaultURL: "http://localhost:11434/v1", DefaultModel: "llama3.1"},
}

// Default returns the conventional first provider.
func Default() string {
	return registry[0].ID
}

// IsSupported reports whether id names a known provider. Total, never errors.
func IsSupported(id string) bool {
	for _, p := range registry {
		if p.ID == id {
			return true
		}
	}
	return false
}

func lookup(id string) Info {
	for _, p := range registry {
		if p.ID == id {
			return p
		}
	}
	return registry[0]
}

func Label(id string) string { return lookup(id).Label }

func DefaultBaseURL(id string) string { return lookup(id).DefaultURL }

func DefaultModel(id string) string { return lookup(id).DefaultModel }

// All returns the provider catalog in registry order.
func All() []Info {
	out := make([]Info, len(registry))
	copy(out, registry)
	return out
}

// NormalizeBaseURL trims raw and strips a single trailing slash. Empty or nil
// input normalizes to nil, which means "use the provider default" downstream.
func NormalizeBaseURL(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil, nil
	}
	trimmed = strings.TrimSuffix(trimmed, "/")

	parsed, err := url.Parse(trimmed)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return nil, fmt.Errorf("base URL must be an absolute URL: %q", *raw)
	}
	return &trimmed, nil
}
