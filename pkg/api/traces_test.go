package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestListTraces(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"project_uuid": r.URL.Query().Get("project_uuid"),
			"log_id":       r.URL.Query().Get("log_id"),
		}
		w.Write([]byte(`[
			{"trace":{"orchestrationTrace":{"invocationInput":{"agentCollaboratorInvocationInput":{"agentCollaboratorName":"orders_agent_vtex"}}}}},
			{"trace":{"orchestrationTrace":{"modelInvocationOutput":{}}}}
		]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, zeroPolicy())

	records, err := client.ListTraces(context.Background(), 4242)
	if err != nil {
		t.Fatalf("ListTraces() error = %v", err)
	}

	if gotPath != "/api/agents/traces/" {
		t.Errorf("path = %q, want /api/agents/traces/", gotPath)
	}
	if gotQuery["project_uuid"] != testProjectUUID {
		t.Errorf("project_uuid = %q, want %q", gotQuery["project_uuid"], testProjectUUID)
	}
	if gotQuery["log_id"] != "4242" {
		t.Errorf("log_id = %q, want 4242", gotQuery["log_id"])
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if !strings.Contains(string(records[0]), "orders_agent_vtex") {
		t.Errorf("records[0] = %s, want the raw record preserved", records[0])
	}
}

func TestListTraces_EmptyList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, zeroPolicy())

	records, err := client.ListTraces(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListTraces() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %d, want 0", len(records))
	}
}

func TestListTraces_NonArrayBodyIsDecodeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"detail":"throttled"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, zeroPolicy())

	if _, err := client.ListTraces(context.Background(), 1); !IsDecodeError(err) {
		t.Errorf("error = %v, want *DecodeError for a non-array body", err)
	}
}
