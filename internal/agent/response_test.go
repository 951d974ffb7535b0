package agent

import (
	"encoding/json"
	"testing"
)

func TestDecodeResponse_MissingKeysDefaultToEmpty(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"insights":["Focus on one thing"]}`)
	resp, err := DecodeResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Insights) != 1 {
		t.Errorf("expected one insight, got %d", len(resp.Insights))
	}
	if resp.Ops == nil {
		t.Fatal("ops must default to an empty slice, not nil")
	}
	if resp.TodayActions == nil || resp.Milestones == nil || resp.HabitSuggestions == nil || resp.Questions == nil {
		t.Fatal("all array fields must default to empty slices")
	}

	// The serialized form must contain "ops": [], never a missing key or null.
	out, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	var generic map[string]any
	if err := json.Unmarshal(out, &generic); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	ops, ok := generic["ops"]
	if !ok {
		t.Fatal("serialized response missing ops key")
	}
	if ops == nil {
		t.Fatal("serialized ops is null")
	}
	if arr, ok := ops.([]any); !ok || len(arr) != 0 {
		t.Fatalf("expected empty ops array, got %v", ops)
	}
}

func TestDecodeResponse_FullPayload(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"insights": ["a", "b"],
		"today_actions": [{"title": "Write outline", "reason": "momentum", "goal_id": "g1"}],
		"milestones": [{"title": "First draft", "steps": ["s1", "s2"]}],
		"habit_suggestions": ["Walk 10 min"],
		"questions": ["What blocked you?"],
		"ops": [{"type": "create_task", "title": "Book dentist", "due_date": "2025-04-01"}]
	}`)

	resp, err := DecodeResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.TodayActions) != 1 || resp.TodayActions[0].Title != "Write outline" {
		t.Errorf("unexpected actions: %+v", resp.TodayActions)
	}
	if resp.TodayActions[0].Reason == nil || *resp.TodayActions[0].Reason != "momentum" {
		t.Error("expected action reason to survive decoding")
	}
	if len(resp.Ops) != 1 || resp.Ops[0].Type != "create_task" {
		t.Errorf("unexpected ops: %+v", resp.Ops)
	}
	if resp.Ops[0].DueDate == nil || *resp.Ops[0].DueDate != "2025-04-01" {
		t.Error("expected op due_date to survive decoding")
	}
}

func TestDecodeResponse_ProseWrappedJSON(t *testing.T) {
	t.Parallel()

	raw := []byte("Here is your plan:\n{\"insights\":[\"x\"]}\nGood luck!")
	resp, err := DecodeResponse(raw)
	if err != nil {
		t.Fatalf("expected prose-wrapped JSON to decode, got %v", err)
	}
	if len(resp.Insights) != 1 || resp.Insights[0] != "x" {
		t.Errorf("unexpected insights: %v", resp.Insights)
	}
}

func TestDecodeResponse_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json at all", raw: "I cannot help with that."},
		{name: "truncated object", raw: `{"insights": ["a"`},
		{name: "empty", raw: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := DecodeResponse([]byte(tt.raw)); err == nil {
				t.Error("expected a parse error")
			}
		})
	}
}

func TestDecodeResponse_ExtraFieldsTolerated(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"insights":["a"],"confidence":0.93,"debug":{"tokens":120}}`)
	resp, err := DecodeResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Insights) != 1 {
		t.Errorf("expected one insight, got %d", len(resp.Insights))
	}
}
