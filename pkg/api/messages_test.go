package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListMessages(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"start":       r.URL.Query().Get("start"),
			"contact_urn": r.URL.Query().Get("contact_urn"),
		}
		w.Write([]byte(`{"results":[
			{"id":101,"text":"hello","source_type":"user","created_at":"2025-05-15T10:00:01Z"},
			{"id":102,"text":"how can I help?","source_type":"agent","created_at":"2025-05-15T10:00:02Z"},
			{"id":103,"text":"order status","source_type":"user","created_at":"2025-05-15T10:00:03Z"},
			{"id":104,"text":"checking that for you","source_type":"agent","created_at":"2025-05-15T10:00:04Z"}
		]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, zeroPolicy())

	conv := Conversation{ID: 7, ContactURN: "whatsapp:5511988887777", CreatedOn: "2025-05-15T10:00:00Z"}
	messages, err := client.ListMessages(context.Background(), conv)
	if err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}

	if gotQuery["start"] != conv.CreatedOn {
		t.Errorf("start = %q, want %q", gotQuery["start"], conv.CreatedOn)
	}
	if gotQuery["contact_urn"] != conv.ContactURN {
		t.Errorf("contact_urn = %q, want %q", gotQuery["contact_urn"], conv.ContactURN)
	}
	if len(messages) != 4 {
		t.Fatalf("len(messages) = %d, want 4", len(messages))
	}
	if messages[1].ID != 102 || messages[1].SourceType != SourceTypeAgent {
		t.Errorf("messages[1] = %+v, want agent message 102", messages[1])
	}
}

func TestListMessages_MissingResultsField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"detail":"no session found"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, zeroPolicy())

	messages, err := client.ListMessages(context.Background(), Conversation{ID: 1})
	if err != nil {
		t.Fatalf("ListMessages() error = %v, want absent results treated as empty", err)
	}
	if len(messages) != 0 {
		t.Errorf("len(messages) = %d, want 0", len(messages))
	}
}

func TestAgentMessages(t *testing.T) {
	messages := []Message{
		{ID: 1, SourceType: "user"},
		{ID: 2, SourceType: "agent"},
		{ID: 3, SourceType: "system"},
		{ID: 4, SourceType: "agent"},
		{ID: 5, SourceType: ""},
	}

	agents := AgentMessages(messages)
	if len(agents) != 2 {
		t.Fatalf("len(agents) = %d, want 2", len(agents))
	}
	if agents[0].ID != 2 || agents[1].ID != 4 {
		t.Errorf("agent message ids = [%d %d], want [2 4]", agents[0].ID, agents[1].ID)
	}

	if got := AgentMessages(nil); len(got) != 0 {
		t.Errorf("AgentMessages(nil) = %v, want empty", got)
	}
}
