package validation

import "testing"

func TestValidateAgentMode(t *testing.T) {
	tests := []struct {
		value     string
		expectErr bool
	}{
		{value: "daily"},
		{value: "goal_deep_dive"},
		{value: "retro"},
		{value: "chat"},
		{value: "weekly", expectErr: true},
		{value: "", expectErr: true},
		{value: "DAILY", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := ValidateAgentMode(tt.value)
			if tt.expectErr && err == nil {
				t.Errorf("expected error for %q", tt.value)
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected error for %q: %v", tt.value, err)
			}
		})
	}
}

func TestValidateGoalHorizon(t *testing.T) {
	for _, valid := range []string{"short", "mid", "long"} {
		if err := ValidateGoalHorizon(valid); err != nil {
			t.Errorf("unexpected error for %q: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "medium", "forever"} {
		if err := ValidateGoalHorizon(invalid); err == nil {
			t.Errorf("expected error for %q", invalid)
		}
	}
}

func TestValidateTaskStatus(t *testing.T) {
	for _, valid := range []string{"open", "in_progress", "done", "blocked"} {
		if err := ValidateTaskStatus(valid); err != nil {
			t.Errorf("unexpected error for %q: %v", valid, err)
		}
	}
	if err := ValidateTaskStatus("completed"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trims whitespace", input: "  hello  ", want: "hello"},
		{name: "keeps newlines and tabs", input: "line1\n\tline2", want: "line1\n\tline2"},
		{name: "strips control characters", input: "he\x00llo\x07", want: "hello"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.input); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
