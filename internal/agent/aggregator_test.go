package agent

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lifeosapp/lifeos-api/internal/models"
)

func goalWithID(id uuid.UUID) models.Goal {
	return models.Goal{ID: id, Title: "Launch MVP", Horizon: models.HorizonShort}
}

func taskFor(goalID uuid.UUID, title string, status models.TaskStatus, due *time.Time) models.Task {
	return models.Task{
		ID:     uuid.New(),
		Title:  title,
		Status: status,
		Due:    due,
		GoalID: &goalID,
	}
}

func timePtr(t time.Time) *time.Time { return &t }
func intPtr(n int) *int              { return &n }

func TestComputeGoalStats_EmptyCollections(t *testing.T) {
	t.Parallel()

	goal := goalWithID(uuid.New())
	stats := ComputeGoalStats(goal, nil, nil, nil)

	if stats.Progress != 0 {
		t.Errorf("expected progress 0 for goal with no tasks and no milestones, got %f", stats.Progress)
	}
	if stats.DoneCount != 0 || stats.TotalCount != 0 {
		t.Errorf("expected 0/0 task counts, got %d/%d", stats.DoneCount, stats.TotalCount)
	}
	if stats.NextTask != nil {
		t.Errorf("expected no next task, got %q", stats.NextTask.Title)
	}
}

func TestComputeGoalStats_AllDone(t *testing.T) {
	t.Parallel()

	goalID := uuid.New()
	goal := goalWithID(goalID)
	tasks := []models.Task{
		taskFor(goalID, "a", models.TaskStatusDone, nil),
		taskFor(goalID, "b", models.TaskStatusDone, nil),
	}
	milestones := []models.Milestone{
		{ID: uuid.New(), GoalID: &goalID, Title: "ship", Done: true},
	}

	stats := ComputeGoalStats(goal, tasks, milestones, nil)

	if stats.Progress != 1.0 {
		t.Errorf("expected progress 1.0 when every task and milestone is done, got %f", stats.Progress)
	}
	if stats.DoneCount != 2 || stats.TotalCount != 2 {
		t.Errorf("expected 2/2 task counts, got %d/%d", stats.DoneCount, stats.TotalCount)
	}
}

func TestComputeGoalStats_TasksOnlyAverageWithEmptyMilestones(t *testing.T) {
	t.Parallel()

	goalID := uuid.New()
	goal := goalWithID(goalID)
	tasks := []models.Task{
		taskFor(goalID, "a", models.TaskStatusDone, nil),
		taskFor(goalID, "b", models.TaskStatusOpen, nil),
	}

	// Task ratio 0.5, milestone ratio 0 (empty contributes 0) -> 0.25
	stats := ComputeGoalStats(goal, tasks, nil, nil)
	if stats.Progress != 0.25 {
		t.Errorf("expected progress 0.25, got %f", stats.Progress)
	}
}

func TestComputeGoalStats_NextTaskOrdering(t *testing.T) {
	t.Parallel()

	goalID := uuid.New()
	goal := goalWithID(goalID)
	d1 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)

	// List order deliberately puts the later-due and undated tasks first.
	tasks := []models.Task{
		taskFor(goalID, "later", models.TaskStatusOpen, timePtr(d2)),
		taskFor(goalID, "earliest", models.TaskStatusOpen, timePtr(d1)),
		taskFor(goalID, "undated", models.TaskStatusOpen, nil),
	}

	stats := ComputeGoalStats(goal, tasks, nil, nil)
	if stats.NextTask == nil {
		t.Fatal("expected a next task")
	}
	if stats.NextTask.Title != "earliest" {
		t.Errorf("expected earliest-due task, got %q", stats.NextTask.Title)
	}
}

func TestComputeGoalStats_HabitStreakSum(t *testing.T) {
	t.Parallel()

	goalID := uuid.New()
	otherID := uuid.New()
	goal := goalWithID(goalID)
	habits := []models.Habit{
		{ID: uuid.New(), Title: "journal", Cadence: "Daily", Streak: intPtr(6), GoalID: &goalID},
		{ID: uuid.New(), Title: "move", Cadence: "Daily", Streak: nil, GoalID: &goalID},
		{ID: uuid.New(), Title: "unrelated", Cadence: "Daily", Streak: intPtr(99), GoalID: &otherID},
	}

	stats := ComputeGoalStats(goal, nil, nil, habits)
	if stats.HabitStreakSum != 6 {
		t.Errorf("expected streak sum 6 (nil streaks count 0, other goals excluded), got %d", stats.HabitStreakSum)
	}
}

func TestCoachInsight_Precedence(t *testing.T) {
	t.Parallel()

	goal := goalWithID(uuid.New())
	next := models.Task{ID: uuid.New(), Title: "Define onboarding", Status: models.TaskStatusOpen}

	tests := []struct {
		name    string
		stats   GoalStats
		want    string
		wantOK  bool
		contain bool
	}{
		{
			// Zero tasks wins even with high progress and active streaks.
			name:   "zero tasks always suggests first step",
			stats:  GoalStats{Progress: 0.9, TotalCount: 0, HabitStreakSum: 12, NextTask: &next},
			want:   "Start with one smallest step to build momentum.",
			wantOK: true,
		},
		{
			name:   "high progress congratulates",
			stats:  GoalStats{Progress: 0.7, TotalCount: 3, DoneCount: 2},
			want:   "You're on track. Celebrate the progress and line up the next step.",
			wantOK: true,
		},
		{
			name:   "habit streak before next task",
			stats:  GoalStats{Progress: 0.1, TotalCount: 3, HabitStreakSum: 4, NextTask: &next},
			want:   "Your habits are feeding this goal. Keep the streak alive.",
			wantOK: true,
		},
		{
			name:    "next task surfaced",
			stats:   GoalStats{Progress: 0.1, TotalCount: 3, NextTask: &next},
			want:    "Define onboarding",
			wantOK:  true,
			contain: true,
		},
		{
			name:   "nothing applies",
			stats:  GoalStats{Progress: 0.1, TotalCount: 3},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := CoachInsight(goal, tt.stats)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v (insight %q)", tt.wantOK, ok, got)
			}
			if !tt.wantOK {
				return
			}
			if tt.contain {
				if !strings.Contains(got, tt.want) {
					t.Errorf("expected insight to mention %q, got %q", tt.want, got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestBuildDailyContext_FlattensOnlyCoachFields(t *testing.T) {
	t.Parallel()

	goalID := uuid.New()
	desc := "internal description"
	color := "#FF8800"
	content := "Solid morning deep work."
	due := time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC)

	goals := []models.Goal{{
		ID:       goalID,
		Title:    "Improve Energy",
		Horizon:  models.HorizonMid,
		ColorHex: &color,
	}}
	tasks := []models.Task{{
		ID:          uuid.New(),
		Title:       "Prep coach prompt",
		Description: &desc,
		Status:      models.TaskStatusInProgress,
		Due:         &due,
		GoalID:      &goalID,
	}}
	habits := []models.Habit{{
		ID:      uuid.New(),
		Title:   "Journal 5 min",
		Cadence: "Daily",
		Streak:  intPtr(6),
		GoalID:  &goalID,
	}}
	notes := []models.Note{
		{ID: uuid.New(), NoteType: models.NoteTypeJournal, Content: &content},
		{ID: uuid.New(), NoteType: models.NoteTypeNote, Content: nil},
	}

	req := BuildDailyContext(goals, tasks, habits, notes, &goalID)

	if req.Mode != ModeDaily {
		t.Errorf("expected mode daily, got %s", req.Mode)
	}
	if req.FocusGoalID == nil || *req.FocusGoalID != goalID.String() {
		t.Error("expected focus goal id to be carried")
	}
	if len(req.Notes) != 1 || req.Notes[0] != content {
		t.Errorf("expected exactly the non-empty note content, got %v", req.Notes)
	}

	// Serialize and verify no extraneous fields leak into the payload.
	raw, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("failed to unmarshal request: %v", err)
	}
	task := generic["tasks"].([]any)[0].(map[string]any)
	for _, forbidden := range []string{"description", "color_hex", "icon", "created_at"} {
		if _, ok := task[forbidden]; ok {
			t.Errorf("task payload must not contain %q", forbidden)
		}
	}
	if task["status"] != "in_progress" {
		t.Errorf("expected status in_progress, got %v", task["status"])
	}
	if task["goal_id"] != goalID.String() {
		t.Errorf("expected goal linkage, got %v", task["goal_id"])
	}
	goal := generic["goals"].([]any)[0].(map[string]any)
	if _, ok := goal["color_hex"]; ok {
		t.Error("goal payload must not contain color_hex")
	}
	if goal["horizon"] != "mid" {
		t.Errorf("expected horizon mid, got %v", goal["horizon"])
	}
}
