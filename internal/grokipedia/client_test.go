package grokipedia

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"
)

func newTestClient(t *testing.T, h http.Handler) (*Client, *Stats) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	stats := NewStats(time.Hour)
	c := NewClient(Options{
		BaseURL:    srv.URL,
		Timeout:    5 * time.Second,
		MaxRetries: 2,
		RetryWait:  time.Millisecond,
		Stats:      stats,
	})
	t.Cleanup(c.Close)
	return c, stats
}

func TestSearch_DecodesResults(t *testing.T) {
	var gotQuery, gotLimit, gotOffset string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != searchPath {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("query")
		gotLimit = r.URL.Query().Get("limit")
		gotOffset = r.URL.Query().Get("offset")
		w.Write([]byte(`{"results":[
			{"title":"Go","slug":"Go_(language)","snippet":"The <mark>Go</mark> language &amp; tools","relevanceScore":0.91,"viewCount":1200},
			{"title":"Gopher","slug":"Gopher","snippet":"plain","relevance_score":0.5,"view_count":7}
		]}`))
	}))

	resp, err := c.Search(context.Background(), "go", 24, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "go" || gotLimit != "24" || gotOffset != "3" {
		t.Errorf("unexpected query params: %q %q %q", gotQuery, gotLimit, gotOffset)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}
	first := resp.Results[0]
	if first.Snippet != "The Go language & tools" {
		t.Errorf("expected cleaned snippet, got %q", first.Snippet)
	}
	if first.RelevanceScore != 0.91 || first.ViewCount != 1200 {
		t.Errorf("unexpected scores: %+v", first)
	}
	if resp.Results[1].ViewCount != 7 || resp.Results[1].RelevanceScore != 0.5 {
		t.Errorf("expected snake_case fields to decode, got %+v", resp.Results[1])
	}
}

func TestSearch_EmptyResults(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	resp, err := c.Search(context.Background(), "nothing", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Results == nil || len(resp.Results) != 0 {
		t.Errorf("expected empty non-nil results, got %#v", resp.Results)
	}
}

func TestGetPage_DecodesPage(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("slug") != "Go" || r.URL.Query().Get("includeContent") != "true" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{"found":true,"page":{
			"slug":"Go","title":"Go","description":"A language","content":"# Go\nbody",
			"citations":[{"title":"Spec","url":"https://go.dev/ref/spec"}],
			"linkedPages":[{"title":"Rob Pike","slug":"Rob_Pike"},"C",42]
		}}`))
	}))

	resp, err := c.GetPage(context.Background(), "Go", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Found || resp.Page == nil {
		t.Fatalf("expected page, got %+v", resp)
	}
	p := resp.Page
	if p.Title != "Go" || p.Description != "A language" || p.Content != "# Go\nbody" {
		t.Errorf("unexpected page: %+v", p)
	}
	if len(p.Citations) != 1 || p.Citations[0].URL != "https://go.dev/ref/spec" {
		t.Errorf("unexpected citations: %+v", p.Citations)
	}
	if len(p.LinkedPages) != 3 {
		t.Fatalf("expected 3 linked pages, got %d", len(p.LinkedPages))
	}
	if !p.LinkedPages[0].Structured || p.LinkedPages[0].Slug != "Rob_Pike" {
		t.Errorf("expected structured ref, got %+v", p.LinkedPages[0])
	}
	if p.LinkedPages[1].Structured || p.LinkedPages[1].DisplayTitle() != "Unknown" {
		t.Errorf("expected opaque ref, got %+v", p.LinkedPages[1])
	}

	b, err := json.Marshal(p.LinkedPages)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `[{"title":"Rob Pike","slug":"Rob_Pike"},"C",42]` {
		t.Errorf("expected raw values preserved, got %s", b)
	}
}

func TestGetPage_NotFoundInBody(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"found":false,"page":null}`))
	}))
	resp, err := c.GetPage(context.Background(), "Missing", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Found || resp.Page != nil {
		t.Errorf("expected not found, got %+v", resp)
	}
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"not found", http.StatusNotFound, func(err error) bool { return errors.Is(err, ErrNotFound) }},
		{"bad request", http.StatusBadRequest, func(err error) bool { return errors.Is(err, ErrBadRequest) }},
		{"unprocessable", http.StatusUnprocessableEntity, func(err error) bool { return errors.Is(err, ErrBadRequest) }},
		{"forbidden", http.StatusForbidden, func(err error) bool {
			var apiErr *APIError
			return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden && !apiErr.Retryable()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			_, err := c.GetPage(context.Background(), "x", false)
			if err == nil || !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestStatusError_CapsBodyOnRuneBoundary(t *testing.T) {
	// One ASCII byte shifts every two-byte rune across the cap.
	body := "x" + strings.Repeat("é", 2000)
	err := statusError("get page", http.StatusForbidden, []byte(body))

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if !utf8.ValidString(apiErr.Message) {
		t.Errorf("message is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(apiErr.Message); n != maxErrorBody {
		t.Errorf("expected %d characters, got %d", maxErrorBody, n)
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c, stats := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"results":[]}`))
	}))

	if _, err := c.Search(context.Background(), "go", 1, 0); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("expected 3 calls, got %d", got)
	}
	if snap := stats.Snapshot()["search"]; snap.Count != 1 || snap.Failures != 0 {
		t.Errorf("expected one successful sample, got %+v", snap)
	}
}

func TestClient_RetriesExhausted(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	_, err := c.Search(context.Background(), "go", 1, 0)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected APIError 500, got %v", err)
	}
	if !IsRetryable(err) {
		t.Errorf("expected 500 to be retryable")
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Options{BaseURL: url, MaxRetries: 0, Timeout: time.Second})
	defer c.Close()

	_, err := c.Search(context.Background(), "go", 1, 0)
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if !IsRetryable(err) {
		t.Errorf("expected network error to be retryable")
	}
}

func TestClient_InvalidJSON(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	}))
	_, err := c.Search(context.Background(), "go", 1, 0)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Search(ctx, "go", 1, 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
