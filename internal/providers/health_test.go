package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealth_ReachableOn200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	result := Health(context.Background(), server.URL)
	if !result.Reachable {
		t.Fatalf("expected reachable, got error %q", result.Error)
	}
	if result.URL != server.URL {
		t.Fatalf("unexpected url in result: %s", result.URL)
	}
}

func TestHealth_MethodNotAllowedCountsAsReachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer server.Close()

	result := Health(context.Background(), server.URL)
	if !result.Reachable {
		t.Fatalf("expected 405 to count as reachable, got error %q", result.Error)
	}
}

func TestHealth_ServerErrorIsNotReachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	result := Health(context.Background(), server.URL)
	if result.Reachable {
		t.Fatal("expected 500 to be unreachable")
	}
	if result.Error == "" {
		t.Fatal("expected an error message")
	}
}

func TestHealth_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	result := Health(context.Background(), url)
	if result.Reachable {
		t.Fatal("expected closed port to be unreachable")
	}
	if result.Error == "" {
		t.Fatal("expected an error message")
	}
}
