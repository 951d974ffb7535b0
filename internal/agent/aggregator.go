package agent

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lifeosapp/lifeos-api/internal/models"
)

// GoalStats holds derived per-goal statistics. Never persisted.
type GoalStats struct {
	Progress       float64      `json:"progress"`
	DoneCount      int          `json:"done_count"`
	TotalCount     int          `json:"total_count"`
	HabitStreakSum int          `json:"habit_streak_sum"`
	NextTask       *models.Task `json:"next_task,omitempty"`
}

// farFuture is the sort sentinel for tasks without a due date
var farFuture = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

// BuildContext flattens the current collections into a coach request for the
// given mode. Only id/title/status/horizon/due/streak/goal_id survive the
// flattening; descriptions, colors and icons never reach the coach. Absent
// optional fields stay nil rather than failing.
func BuildContext(mode Mode, goals []models.Goal, tasks []models.Task, habits []models.Habit, notes []models.Note, focusGoalID *uuid.UUID) *Request {
	req := &Request{
		Mode:   mode,
		Goals:  make([]Goal, 0, len(goals)),
		Tasks:  make([]Task, 0, len(tasks)),
		Habits: make([]Habit, 0, len(habits)),
		Notes:  make([]string, 0, len(notes)),
	}
	if focusGoalID != nil {
		req.FocusGoalID = stringPtr(focusGoalID.String())
	}

	for _, g := range goals {
		horizon := string(g.Horizon)
		req.Goals = append(req.Goals, Goal{
			ID:      stringPtr(g.ID.String()),
			Title:   g.Title,
			Horizon: &horizon,
		})
	}
	for _, t := range tasks {
		status := string(t.Status)
		task := Task{
			ID:     stringPtr(t.ID.String()),
			Title:  t.Title,
			Status: &status,
		}
		if t.Due != nil {
			task.Due = stringPtr(t.Due.UTC().Format(time.RFC3339))
		}
		if t.GoalID != nil {
			task.GoalID = stringPtr(t.GoalID.String())
		}
		req.Tasks = append(req.Tasks, task)
	}
	for _, h := range habits {
		habit := Habit{
			ID:     stringPtr(h.ID.String()),
			Title:  h.Title,
			Streak: h.Streak,
		}
		if h.GoalID != nil {
			habit.GoalID = stringPtr(h.GoalID.String())
		}
		req.Habits = append(req.Habits, habit)
	}
	for _, n := range notes {
		if n.Content != nil && *n.Content != "" {
			req.Notes = append(req.Notes, *n.Content)
		}
	}

	return req
}

// BuildDailyContext builds the daily coaching request from current collections
func BuildDailyContext(goals []models.Goal, tasks []models.Task, habits []models.Habit, notes []models.Note, focusGoalID *uuid.UUID) *Request {
	return BuildContext(ModeDaily, goals, tasks, habits, notes, focusGoalID)
}

// BuildRetroContext builds the retrospective coaching request
func BuildRetroContext(goals []models.Goal, tasks []models.Task, habits []models.Habit, notes []models.Note) *Request {
	return BuildContext(ModeRetro, goals, tasks, habits, notes, nil)
}

// ComputeGoalStats derives the stats for one goal from the full collections.
// Progress averages the done-task ratio and the done-milestone ratio; an empty
// collection contributes 0 to the average instead of being excluded. NextTask
// is the earliest-due incomplete task, with undated tasks ordered last.
func ComputeGoalStats(goal models.Goal, tasks []models.Task, milestones []models.Milestone, habits []models.Habit) GoalStats {
	var linked []models.Task
	for _, t := range tasks {
		if t.GoalID != nil && *t.GoalID == goal.ID {
			linked = append(linked, t)
		}
	}

	done := 0
	for _, t := range linked {
		if t.Status == models.TaskStatusDone {
			done++
		}
	}
	taskScore := 0.0
	if len(linked) > 0 {
		taskScore = float64(done) / float64(len(linked))
	}

	milestoneTotal, milestoneDone := 0, 0
	for _, m := range milestones {
		if m.GoalID != nil && *m.GoalID == goal.ID {
			milestoneTotal++
			if m.Done {
				milestoneDone++
			}
		}
	}
	milestoneScore := 0.0
	if milestoneTotal > 0 {
		milestoneScore = float64(milestoneDone) / float64(milestoneTotal)
	}

	progress := (taskScore + milestoneScore) / 2
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	streakSum := 0
	for _, h := range habits {
		if h.GoalID != nil && *h.GoalID == goal.ID && h.Streak != nil {
			streakSum += *h.Streak
		}
	}

	return GoalStats{
		Progress:       progress,
		DoneCount:      done,
		TotalCount:     len(linked),
		HabitStreakSum: streakSum,
		NextTask:       nextIncompleteTask(linked),
	}
}

// nextIncompleteTask returns the earliest-due task that is not done, treating
// a missing due date as the far future so dated tasks always sort first.
func nextIncompleteTask(tasks []models.Task) *models.Task {
	var open []models.Task
	for _, t := range tasks {
		if t.Status != models.TaskStatusDone {
			open = append(open, t)
		}
	}
	if len(open) == 0 {
		return nil
	}
	sort.SliceStable(open, func(i, j int) bool {
		return dueOrFarFuture(open[i]).Before(dueOrFarFuture(open[j]))
	})
	next := open[0]
	return &next
}

func dueOrFarFuture(t models.Task) time.Time {
	if t.Due != nil {
		return *t.Due
	}
	return farFuture
}

// CoachInsight returns a deterministic one-line nudge for a goal, or false
// when no rule applies. First matching rule wins:
// no tasks at all, strong progress, active habit streaks, then the next task.
func CoachInsight(goal models.Goal, stats GoalStats) (string, bool) {
	if stats.TotalCount == 0 {
		return "Start with one smallest step to build momentum.", true
	}
	if stats.Progress >= 0.7 {
		return "You're on track. Celebrate the progress and line up the next step.", true
	}
	if stats.HabitStreakSum > 0 {
		return "Your habits are feeding this goal. Keep the streak alive.", true
	}
	if stats.NextTask != nil {
		return fmt.Sprintf("Next step: %s", stats.NextTask.Title), true
	}
	return "", false
}

func stringPtr(s string) *string {
	return &s
}
