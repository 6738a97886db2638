package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const healthTimeout = 5 * time.Second

// HealthResult reports whether an auxiliary local service endpoint is up.
type HealthResult struct {
	URL       string `json:"url"`
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
}

// Health issues a bounded, credential-free GET against url. Any non-5xx
// response counts as reachable: some services reject the verb (405) but are
// otherwise live. Failures are encoded in the result, never returned as an
// error.
func Health(ctx context.Context, url string) HealthResult {
	result := HealthResult{URL: url}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		result.Error = fmt.Sprintf("invalid URL: %s", err.Error())
		return result
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		if reqErr := mapNetworkError(err); reqErr.Timeout {
			result.Error = "service did not respond before the timeout"
		} else {
			result.Error = fmt.Sprintf("service unreachable: %s", err.Error())
		}
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		result.Error = fmt.Sprintf("service returned HTTP %d", resp.StatusCode)
		return result
	}

	result.Reachable = true
	return result
}
