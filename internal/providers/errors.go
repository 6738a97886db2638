package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// RequestError is the single error shape surfaced for probe and model-list
// failures. Timeout distinguishes a client-side deadline from other
// transport or vendor-side failures.
type RequestError struct {
	Message string
	Timeout bool
}

func (e *RequestError) Error() string {
	return e.Message
}

// mapNetworkError converts a transport-level failure (connection refused,
// DNS, deadline) into a RequestError.
func mapNetworkError(err error) *RequestError {
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return &RequestError{Message: "request to provider timed out", Timeout: true}
	}
	return &RequestError{Message: fmt.Sprintf("provider connection error: %s", err.Error())}
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

// mapHTTPError converts a non-2xx provider response into a RequestError,
// preserving the vendor error text when the body carries one.
func mapHTTPError(resp *http.Response) *RequestError {
	message := extractErrorMessage(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if message == "" {
			message = "provider rejected the credential"
		}
		return &RequestError{Message: fmt.Sprintf("authentication failed: %s", message)}
	case resp.StatusCode == http.StatusNotFound:
		if message == "" {
			message = "endpoint not found"
		}
		return &RequestError{Message: fmt.Sprintf("provider request failed: %s", message)}
	case resp.StatusCode == http.StatusTooManyRequests:
		if message == "" {
			message = "rate limit exceeded"
		}
		return &RequestError{Message: fmt.Sprintf("provider request failed: %s", message)}
	default:
		if message == "" {
			message = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return &RequestError{Message: fmt.Sprintf("provider request failed: %s", message)}
	}
}

// extractErrorMessage tries the common vendor error envelopes.
func extractErrorMessage(body io.Reader) string {
	if body == nil {
		return ""
	}
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		if envelope.Error.Message != "" {
			return envelope.Error.Message
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return ""
}
