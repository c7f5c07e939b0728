package bser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ksj1368/er-crawler/internal/platform/resilience"
	"github.com/ksj1368/er-crawler/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	})
	return client, server
}

func TestTopRankers(t *testing.T) {
	t.Parallel()

	var gotPath, gotKey string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		_, _ = w.Write([]byte(`{"code":200,"message":"Success","topRanks":[{"userNum":77,"nickname":"alpha","rank":1,"mmr":9000}]}`))
	}))

	rankers, err := client.TopRankers(context.Background(), 31, 3)
	if err != nil {
		t.Fatalf("TopRankers error: %v", err)
	}

	if gotPath != "/v1/rank/top/31/3" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("api key header not sent, got=%q", gotKey)
	}
	if len(rankers) != 1 || rankers[0].UserNum != 77 || rankers[0].Rank != 1 {
		t.Fatalf("unexpected rankers: %+v", rankers)
	}
}

func TestUserMatchPage(t *testing.T) {
	t.Parallel()

	var gotNext string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotNext = r.URL.Query().Get("next")
		_, _ = w.Write([]byte(`{"code":200,"userGames":[{"gameId":42}],"next":900}`))
	}))

	page, err := client.UserMatchPage(context.Background(), 7, 900)
	if err != nil {
		t.Fatalf("UserMatchPage error: %v", err)
	}

	if gotNext != "900" {
		t.Fatalf("pagination token not sent, got=%q", gotNext)
	}
	if len(page.UserGames) != 1 || page.UserGames[0].GameID != 42 || page.Next != 900 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestUserMatchPage_ExhaustedHistory(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":404,"message":"Not Found"}`))
	}))

	page, err := client.UserMatchPage(context.Background(), 7, 0)
	if err != nil {
		t.Fatalf("exhausted history should not be an error, got=%v", err)
	}
	if len(page.UserGames) != 0 || page.Next != 0 {
		t.Fatalf("expected empty page, got=%+v", page)
	}
}

func TestMatchByID_NotFound(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":404,"message":"Not Found"}`))
	}))

	_, err := client.MatchByID(context.Background(), 42)
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got=%v", err)
	}
}

func TestMatchByID(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/games/42" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"code":200,"userGames":[{"gameId":42,"userNum":1},{"gameId":42,"userNum":2}]}`))
	}))

	payload, err := client.MatchByID(context.Background(), 42)
	if err != nil {
		t.Fatalf("MatchByID error: %v", err)
	}
	if len(payload.UserGames) != 2 || payload.UserGames[1].UserNum != 2 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"code":200,"topRanks":[]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "k", MaxRetries: 1})
	if _, err := client.TopRankers(context.Background(), 31, 3); err != nil {
		t.Fatalf("retried request should succeed, got=%v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got=%d", calls.Load())
	}
}

func TestClient_ClientErrorsAreNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "k", MaxRetries: 3})
	if _, err := client.TopRankers(context.Background(), 31, 3); err == nil {
		t.Fatal("expected error for status 403")
	}
	if calls.Load() != 1 {
		t.Fatalf("client errors must not be retried, got=%d attempts", calls.Load())
	}
}

func TestClient_CircuitBreakerRejectsAfterFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "k",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	if _, err := client.TopRankers(context.Background(), 31, 3); err == nil {
		t.Fatal("expected error from failing upstream")
	}
	attempts := calls.Load()

	_, err := client.TopRankers(context.Background(), 31, 3)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable from open breaker, got=%v", err)
	}
	if calls.Load() != attempts {
		t.Fatal("open breaker must not reach the upstream")
	}
}

func TestSanitizeSensitiveText(t *testing.T) {
	t.Parallel()

	got := sanitizeSensitiveText(`Get "https://host/path": x-api-key: secret-key rejected`, "secret-key")
	if got != `Get "https://host/path": x-api-key: REDACTED rejected` {
		t.Fatalf("unexpected sanitized text: %s", got)
	}

	got = sanitizeSensitiveText("dial failed for secret-key", "secret-key")
	if got != "dial failed for REDACTED" {
		t.Fatalf("key value should be redacted: %s", got)
	}
}

func TestClient_InputValidation(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{APIKey: "k"})

	if _, err := client.TopRankers(context.Background(), 0, 3); err == nil {
		t.Fatal("expected error for season id 0")
	}
	if _, err := client.UserMatchPage(context.Background(), 0, 0); err == nil {
		t.Fatal("expected error for user num 0")
	}
	if _, err := client.MatchByID(context.Background(), 0); err == nil {
		t.Fatal("expected error for match id 0")
	}
}
