package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondJSONError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	respondJSONError(w, http.StatusBadRequest, "something went wrong")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["error"] != "something went wrong" {
		t.Errorf("unexpected error message: %q", body["error"])
	}
}

func TestSanitizeErrorMessage(t *testing.T) {
	t.Parallel()

	short := "short message"
	if got := sanitizeErrorMessage(short); got != short {
		t.Errorf("short message should pass through, got %q", got)
	}

	long := strings.Repeat("x", 300)
	got := sanitizeErrorMessage(long)
	if len(got) != 203 {
		t.Errorf("expected truncation to 200 chars plus ellipsis, got length %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("expected truncated message to end with ellipsis")
	}
}

func TestParseOptionalUUID(t *testing.T) {
	t.Parallel()

	if id, err := parseOptionalUUID(nil, "goal_id"); err != nil || id != nil {
		t.Errorf("nil input should yield nil, got %v / %v", id, err)
	}

	empty := ""
	if id, err := parseOptionalUUID(&empty, "goal_id"); err != nil || id != nil {
		t.Errorf("empty input should clear the value, got %v / %v", id, err)
	}

	bad := "not-a-uuid"
	if _, err := parseOptionalUUID(&bad, "goal_id"); err == nil {
		t.Error("expected error for malformed uuid")
	}

	valid := "9f4a0c62-5b7e-4f0e-9a3d-2c1b8d7e6f50"
	id, err := parseOptionalUUID(&valid, "goal_id")
	if err != nil || id == nil || id.String() != valid {
		t.Errorf("expected parsed uuid, got %v / %v", id, err)
	}
}

func TestParseOptionalDate(t *testing.T) {
	t.Parallel()

	if d, err := parseOptionalDate(nil); err != nil || d != nil {
		t.Errorf("nil input should yield nil, got %v / %v", d, err)
	}

	rfc := "2026-09-15T10:00:00Z"
	if d, err := parseOptionalDate(&rfc); err != nil || d == nil {
		t.Errorf("RFC3339 input should parse, got %v / %v", d, err)
	}

	plain := "2026-09-15"
	if d, err := parseOptionalDate(&plain); err != nil || d == nil {
		t.Errorf("plain date input should parse, got %v / %v", d, err)
	}

	bad := "next tuesday"
	if _, err := parseOptionalDate(&bad); err == nil {
		t.Error("expected error for unparseable date")
	}
}
