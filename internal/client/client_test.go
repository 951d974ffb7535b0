package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lifeosapp/lifeos-api/internal/agent"
)

func TestRunChat(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/coach" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var req agent.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Mode != agent.ModeChat {
			t.Errorf("expected chat mode, got %q", req.Mode)
		}
		if len(req.ChatHistory) != 1 || req.ChatHistory[0].Content != "hello" {
			t.Errorf("unexpected history: %+v", req.ChatHistory)
		}

		json.NewEncoder(w).Encode(agent.ChatResponse{Reply: "hi there"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	reply, err := c.RunChat(context.Background(), []agent.ChatMessage{{Role: "user", Content: "hello"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "hi there" {
		t.Errorf("unexpected reply: %q", reply)
	}
}

func TestRunCoach(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"insights": ["keep going"]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	resp, err := c.RunCoach(context.Background(), &agent.Request{Mode: agent.ModeDaily})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Insights) != 1 || resp.Insights[0] != "keep going" {
		t.Errorf("unexpected insights: %v", resp.Insights)
	}
}

func TestListGoals(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/goals" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`[{"id":"5b0c4aaa-3a3f-4e6b-9b63-5c3de6b0a111","title":"Learn Go","horizon":"mid","created_at":"2026-01-02T15:04:05Z"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	goals, err := c.ListGoals(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(goals) != 1 || goals[0].Title != "Learn Go" {
		t.Errorf("unexpected goals: %+v", goals)
	}
}

func TestAPIErrorDecoding(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "invalid or missing mode"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.RunCoach(context.Background(), &agent.Request{Mode: "bogus"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "invalid or missing mode") {
		t.Errorf("error should carry the server message, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("error should carry the status code, got %q", err.Error())
	}
}
