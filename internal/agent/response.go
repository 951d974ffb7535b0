package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Action is one suggested action for today
type Action struct {
	Title   string  `json:"title"`
	Reason  *string `json:"reason,omitempty"`
	GoalID  *string `json:"goal_id,omitempty"`
	DueHint *string `json:"due_hint,omitempty"`
}

// Milestone is a suggested milestone with optional sub-steps
type Milestone struct {
	GoalID *string  `json:"goal_id,omitempty"`
	Title  string   `json:"title"`
	Steps  []string `json:"steps,omitempty"`
}

// Op is a suggested creation the client may apply. The coach is instructed to
// propose create_task/create_habit/create_goal only; the gateway does not
// second-guess the type beyond decoding it.
type Op struct {
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Detail    *string `json:"detail,omitempty"`
	GoalID    *string `json:"goal_id,omitempty"`
	DueDate   *string `json:"due_date,omitempty"`
	Horizon   *string `json:"horizon,omitempty"`
	Frequency *string `json:"frequency,omitempty"`
}

// Response is the coach gateway response for non-chat modes. All array fields
// serialize as [] rather than null so clients never see a missing key.
type Response struct {
	Insights         []string    `json:"insights"`
	TodayActions     []Action    `json:"today_actions"`
	Milestones       []Milestone `json:"milestones"`
	HabitSuggestions []string    `json:"habit_suggestions"`
	Questions        []string    `json:"questions"`
	Ops              []Op        `json:"ops"`
}

// ChatResponse is the coach gateway response for chat mode
type ChatResponse struct {
	Reply string `json:"reply"`
}

// DecodeResponse parses model output into a Response. The model may omit any
// key or wrap the JSON in prose; missing arrays become empty, unknown keys are
// ignored. Only output with no JSON object at all is an error.
func DecodeResponse(raw []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		trimmed := sliceJSONObject(raw)
		if trimmed == nil {
			return nil, fmt.Errorf("failed to parse coach response: %w", err)
		}
		if err := json.Unmarshal(trimmed, &resp); err != nil {
			return nil, fmt.Errorf("failed to parse coach response: %w", err)
		}
	}
	resp.fillDefaults()
	return &resp, nil
}

// sliceJSONObject extracts the outermost {...} span, or nil if there is none.
func sliceJSONObject(raw []byte) []byte {
	start := bytes.IndexByte(raw, '{')
	end := bytes.LastIndexByte(raw, '}')
	if start == -1 || end == -1 || end <= start {
		return nil
	}
	return raw[start : end+1]
}

func (r *Response) fillDefaults() {
	if r.Insights == nil {
		r.Insights = []string{}
	}
	if r.TodayActions == nil {
		r.TodayActions = []Action{}
	}
	if r.Milestones == nil {
		r.Milestones = []Milestone{}
	}
	if r.HabitSuggestions == nil {
		r.HabitSuggestions = []string{}
	}
	if r.Questions == nil {
		r.Questions = []string{}
	}
	if r.Ops == nil {
		r.Ops = []Op{}
	}
}
