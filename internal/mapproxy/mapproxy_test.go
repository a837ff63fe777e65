package mapproxy

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchStyleRequiresToken(t *testing.T) {
	c := New(&http.Client{}, "", "mapbox/streets-v12")
	if _, err := c.FetchStyle(context.Background()); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestFetchStyle(t *testing.T) {
	const styleDoc = `{"version":8,"name":"streets"}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("access_token") != "test-token" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Write([]byte(styleDoc))
	}))
	defer srv.Close()

	c := New(srv.Client(), "test-token", "mapbox/streets-v12")
	c.baseURL = srv.URL

	body, err := c.FetchStyle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != styleDoc {
		t.Fatalf("unexpected style body: %s", body)
	}
}

// TestFetchStyleRetriesServerErrors verifies the backoff loop recovers from a
// transient upstream failure.
func TestFetchStyleRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "upstream hiccup", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.Client(), "test-token", "mapbox/streets-v12")
	c.baseURL = srv.URL
	c.httpCfg.backoff.initialInterval = time.Millisecond

	if _, err := c.FetchStyle(context.Background()); err != nil {
		t.Fatalf("unexpected error after retry: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", calls)
	}
}
