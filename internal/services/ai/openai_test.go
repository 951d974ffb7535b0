package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lifeosapp/lifeos-api/internal/agent"
)

// capturedRequest is the subset of the completions request the tests inspect
type capturedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Temperature    float64 `json:"temperature"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

// newStubProvider spins up a completions endpoint that records the request
// and replies with the given message content.
func newStubProvider(t *testing.T, content string, captured *capturedRequest) (*OpenAIProvider, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if captured != nil {
			if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
				t.Errorf("failed to decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"id": "chatcmpl-test",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": %q},
				"finish_reason": "stop"
			}]
		}`, content)
	}))

	provider := NewOpenAIProviderWithLogger("test-key", srv.URL, "gpt-4o-mini", nil, false)
	return provider, srv
}

func TestChatMessageAssembly(t *testing.T) {
	t.Parallel()

	history := []agent.ChatMessage{
		{Role: "user", Content: "first question"},
		{Role: "assistant", Content: "first answer"},
		{Role: "system", Content: "steer gently"},
		{Role: "user", Content: "second question"},
	}

	var captured capturedRequest
	provider, srv := newStubProvider(t, "sounds good", &captured)
	defer srv.Close()

	reply, err := provider.Chat(context.Background(), history)
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if reply != "sounds good" {
		t.Errorf("unexpected reply: %q", reply)
	}

	if len(captured.Messages) != len(history)+1 {
		t.Fatalf("expected %d messages, got %d", len(history)+1, len(captured.Messages))
	}
	if captured.Messages[0].Role != "system" || captured.Messages[0].Content != systemInstruction {
		t.Errorf("first message must be the fixed system instruction, got role=%q", captured.Messages[0].Role)
	}

	wantRoles := []string{"user", "assistant", "system", "user"}
	for i, want := range wantRoles {
		got := captured.Messages[i+1]
		if got.Role != want {
			t.Errorf("message %d: role = %q, want %q", i+1, got.Role, want)
		}
		if got.Content != history[i].Content {
			t.Errorf("message %d: content = %q, want %q", i+1, got.Content, history[i].Content)
		}
	}

	if captured.Temperature != chatTemperature {
		t.Errorf("temperature = %v, want %v", captured.Temperature, chatTemperature)
	}
	if captured.ResponseFormat != nil {
		t.Errorf("chat must not constrain the response format, got %+v", captured.ResponseFormat)
	}
}

func TestChatUnknownRoleMapsToUser(t *testing.T) {
	t.Parallel()

	var captured capturedRequest
	provider, srv := newStubProvider(t, "ok", &captured)
	defer srv.Close()

	if _, err := provider.Chat(context.Background(), []agent.ChatMessage{{Role: "narrator", Content: "hm"}}); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(captured.Messages))
	}
	if captured.Messages[1].Role != "user" {
		t.Errorf("unknown role should map to user, got %q", captured.Messages[1].Role)
	}
}

func TestChatEmptyReply(t *testing.T) {
	t.Parallel()

	provider, srv := newStubProvider(t, "", nil)
	defer srv.Close()

	_, err := provider.Chat(context.Background(), []agent.ChatMessage{{Role: "user", Content: "hello"}})
	if !errors.Is(err, ErrEmptyReply) {
		t.Errorf("expected ErrEmptyReply, got %v", err)
	}
}

func TestChatNoChoices(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "chatcmpl-test", "object": "chat.completion", "model": "gpt-4o-mini", "choices": []}`)
	}))
	defer srv.Close()

	provider := NewOpenAIProviderWithLogger("test-key", srv.URL, "gpt-4o-mini", nil, false)

	_, err := provider.Chat(context.Background(), []agent.ChatMessage{{Role: "user", Content: "hello"}})
	if !errors.Is(err, ErrNoChoices) {
		t.Errorf("expected ErrNoChoices, got %v", err)
	}
}

func TestRunAgentRequestShape(t *testing.T) {
	t.Parallel()

	var captured capturedRequest
	provider, srv := newStubProvider(t, `{"insights": ["one small step"]}`, &captured)
	defer srv.Close()

	req := &agent.Request{
		Mode:  agent.ModeDaily,
		Goals: []agent.Goal{{Title: "Run a marathon"}},
		Tasks: []agent.Task{{Title: "Buy shoes"}},
	}

	resp, err := provider.RunAgent(context.Background(), req)
	if err != nil {
		t.Fatalf("RunAgent() error = %v", err)
	}

	if len(captured.Messages) != 2 {
		t.Fatalf("expected system + user message, got %d messages", len(captured.Messages))
	}
	if captured.Messages[0].Role != "system" || captured.Messages[0].Content != systemInstruction {
		t.Errorf("first message must be the fixed system instruction")
	}
	if captured.Messages[1].Role != "user" {
		t.Errorf("payload must travel as the user message, got role %q", captured.Messages[1].Role)
	}

	var payload agentPayload
	if err := json.Unmarshal([]byte(captured.Messages[1].Content), &payload); err != nil {
		t.Fatalf("user message is not the serialized payload: %v", err)
	}
	if payload.Mode != agent.ModeDaily {
		t.Errorf("payload mode = %q, want %q", payload.Mode, agent.ModeDaily)
	}
	if len(payload.Goals) != 1 || payload.Goals[0].Title != "Run a marathon" {
		t.Errorf("unexpected payload goals: %+v", payload.Goals)
	}
	if payload.Notes == nil {
		t.Error("payload notes must serialize as an empty array, not null")
	}

	if captured.Temperature != agentTemperature {
		t.Errorf("temperature = %v, want %v", captured.Temperature, agentTemperature)
	}
	if captured.ResponseFormat == nil || captured.ResponseFormat.Type != "json_object" {
		t.Errorf("expected json_object response format, got %+v", captured.ResponseFormat)
	}

	if len(resp.Insights) != 1 || resp.Insights[0] != "one small step" {
		t.Errorf("unexpected insights: %v", resp.Insights)
	}
	if resp.Ops == nil || resp.TodayActions == nil {
		t.Error("missing arrays must decode as empty, not nil")
	}
}

func TestRunAgentEmptyContent(t *testing.T) {
	t.Parallel()

	provider, srv := newStubProvider(t, "", nil)
	defer srv.Close()

	_, err := provider.RunAgent(context.Background(), &agent.Request{Mode: agent.ModeDaily})
	if !errors.Is(err, ErrEmptyReply) {
		t.Errorf("expected ErrEmptyReply, got %v", err)
	}
}

func TestRunAgentMalformedOutput(t *testing.T) {
	t.Parallel()

	provider, srv := newStubProvider(t, "I cannot produce JSON today", nil)
	defer srv.Close()

	_, err := provider.RunAgent(context.Background(), &agent.Request{Mode: agent.ModeRetro})
	if err == nil {
		t.Fatal("expected an error for output with no JSON object")
	}
	if !strings.Contains(err.Error(), "malformed") {
		t.Errorf("error should flag malformed output, got %q", err.Error())
	}
}
