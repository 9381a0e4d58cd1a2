package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/weni-ai/conversation-analyzer/pkg/config"
	"github.com/weni-ai/conversation-analyzer/pkg/logger"
)

const testProjectUUID = "123e4567-e89b-12d3-a456-426614174000"

// zeroPolicy disables pacing and retry delays so tests run without
// wall-clock waits.
func zeroPolicy() DelayPolicy {
	return DelayPolicy{
		EndpointConversations: 0,
		EndpointMessages:      0,
		EndpointTraces:        0,
	}
}

func newTestClient(t *testing.T, serverURL string, policy DelayPolicy) *Client {
	t.Helper()
	t.Setenv(logger.LogDirEnv, t.TempDir())
	return NewClient(&config.Config{
		BearerToken:    "test-token-0123456789",
		ProjectUUID:    testProjectUUID,
		BillingBaseURL: serverURL,
		NexusBaseURL:   serverURL,
	}, policy)
}

func TestClient_RequestShape(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	var gotHeaders http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for key := range r.URL.Query() {
			gotQuery[key] = r.URL.Query().Get(key)
		}
		gotHeaders = r.Header.Clone()
		w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, zeroPolicy())

	if _, err := client.ListConversationsPage(context.Background(), "15-05-2025", "22-05-2025", 3); err != nil {
		t.Fatalf("ListConversationsPage() error = %v", err)
	}

	wantPath := "/api/v1/" + testProjectUUID + "/conversations/"
	if gotPath != wantPath {
		t.Errorf("path = %q, want %q", gotPath, wantPath)
	}
	for key, want := range map[string]string{"page": "3", "start": "15-05-2025", "end": "22-05-2025"} {
		if gotQuery[key] != want {
			t.Errorf("query %s = %q, want %q", key, gotQuery[key], want)
		}
	}
	if got := gotHeaders.Get("Authorization"); got != "Bearer test-token-0123456789" {
		t.Errorf("Authorization = %q, want bearer token header", got)
	}
	if got := gotHeaders.Get("Origin"); got != "https://intelligence-next.weni.ai" {
		t.Errorf("Origin = %q, want intelligence origin", got)
	}
	if gotHeaders.Get("User-Agent") == "" || gotHeaders.Get("Accept") == "" {
		t.Error("expected browser-shaped User-Agent and Accept headers")
	}
}

func TestClient_Unauthorized(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			callCount := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				callCount++
				w.WriteHeader(status)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL, zeroPolicy())

			_, err := client.ListConversationsPage(context.Background(), "15-05-2025", "22-05-2025", 1)
			if !errors.Is(err, ErrUnauthorized) {
				t.Errorf("error = %v, want ErrUnauthorized", err)
			}
			if callCount != 1 {
				t.Errorf("callCount = %d, want 1 (auth failures must not be retried)", callCount)
			}
		})
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	callCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		if callCount < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"results":[{"id":1,"urn":"whatsapp:5511999999999","created_on":"2025-05-15T10:00:00Z"}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, zeroPolicy())

	conversations, err := client.ListConversationsPage(context.Background(), "15-05-2025", "22-05-2025", 1)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if len(conversations) != 1 {
		t.Errorf("len(conversations) = %d, want 1", len(conversations))
	}
	if callCount != 3 {
		t.Errorf("callCount = %d, want 3", callCount)
	}
}

func TestClient_RetriesExhausted(t *testing.T) {
	callCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, zeroPolicy())

	_, err := client.ListConversationsPage(context.Background(), "15-05-2025", "22-05-2025", 1)
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want *NetworkError", err)
	}
	if netErr.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, want %d", netErr.StatusCode, http.StatusBadGateway)
	}
	if want := config.MaxFetchRetries + 1; callCount != want {
		t.Errorf("callCount = %d, want %d", callCount, want)
	}
}

func TestClient_DecodeFailureNotRetried(t *testing.T) {
	callCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		w.Write([]byte(`{"results": [truncated`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, zeroPolicy())

	_, err := client.ListConversationsPage(context.Background(), "15-05-2025", "22-05-2025", 1)
	if !IsDecodeError(err) {
		t.Errorf("error = %v, want *DecodeError", err)
	}
	if callCount != 1 {
		t.Errorf("callCount = %d, want 1 (decode failures must not be retried)", callCount)
	}
}

func TestClient_TransportErrorSurfacesAsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := newTestClient(t, server.URL, zeroPolicy())

	_, err := client.ListConversationsPage(context.Background(), "15-05-2025", "22-05-2025", 1)
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want *NetworkError", err)
	}
	if netErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for transport error", netErr.StatusCode)
	}
}

func TestClient_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, zeroPolicy())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListConversationsPage(ctx, "15-05-2025", "22-05-2025", 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestClient_PacingBetweenRequests(t *testing.T) {
	const delay = 60 * time.Millisecond

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, DelayPolicy{EndpointConversations: delay})

	ctx := context.Background()
	start := time.Now()
	if _, err := client.ListConversationsPage(ctx, "15-05-2025", "22-05-2025", 1); err != nil {
		t.Fatal(err)
	}
	firstDone := time.Since(start)
	if _, err := client.ListConversationsPage(ctx, "15-05-2025", "22-05-2025", 2); err != nil {
		t.Fatal(err)
	}
	elapsed := time.Since(start)

	// The first request goes out immediately; the delay applies before
	// the second.
	if firstDone >= delay {
		t.Errorf("first request waited %v, want < %v", firstDone, delay)
	}
	if elapsed < delay {
		t.Errorf("second request not paced: total elapsed %v, want >= %v", elapsed, delay)
	}
}
