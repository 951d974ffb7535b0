package workers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lifeosapp/lifeos-api/internal/agent"
	"github.com/lifeosapp/lifeos-api/internal/models"
	"github.com/lifeosapp/lifeos-api/internal/queue"
)

type fakeProvider struct {
	lastRequest *agent.Request
	response    *agent.Response
	err         error
}

func (f *fakeProvider) RunAgent(_ context.Context, req *agent.Request) (*agent.Response, error) {
	f.lastRequest = req
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func (f *fakeProvider) Chat(_ context.Context, _ []agent.ChatMessage) (string, error) {
	return "", nil
}

type fakeGoalReader struct{ goals []*models.Goal }

func (f *fakeGoalReader) List(_ context.Context, _ *models.Horizon) ([]*models.Goal, error) {
	return f.goals, nil
}

type fakeTaskReader struct{ tasks []*models.Task }

func (f *fakeTaskReader) List(_ context.Context, _ *models.TaskStatus, _ *uuid.UUID) ([]*models.Task, error) {
	return f.tasks, nil
}

type fakeHabitReader struct{ habits []*models.Habit }

func (f *fakeHabitReader) List(_ context.Context, _ *uuid.UUID) ([]*models.Habit, error) {
	return f.habits, nil
}

type fakeNoteReader struct {
	notes []*models.Note
	since time.Time
}

func (f *fakeNoteReader) ListSince(_ context.Context, since time.Time) ([]*models.Note, error) {
	f.since = since
	return f.notes, nil
}

type fakeDigestWriter struct{ created []*models.Digest }

func (f *fakeDigestWriter) Create(_ context.Context, d *models.Digest) error {
	d.ID = uuid.New()
	f.created = append(f.created, d)
	return nil
}

func TestProcessRetroDigestJob(t *testing.T) {
	t.Parallel()

	content := "Shipped the demo"
	goalID := uuid.New()
	provider := &fakeProvider{
		response: &agent.Response{
			Insights:         []string{"Good week"},
			TodayActions:     []agent.Action{{Title: "Plan next sprint"}},
			Milestones:       []agent.Milestone{},
			HabitSuggestions: []string{},
			Questions:        []string{},
			Ops:              []agent.Op{},
		},
	}
	noteReader := &fakeNoteReader{notes: []*models.Note{
		{ID: uuid.New(), NoteType: models.NoteTypeJournal, Content: &content},
	}}
	writer := &fakeDigestWriter{}

	w := NewDigestWorker(
		provider,
		&fakeGoalReader{goals: []*models.Goal{{ID: goalID, Title: "Launch", Horizon: models.HorizonMid}}},
		&fakeTaskReader{},
		&fakeHabitReader{},
		noteReader,
		writer,
		nil,
		zap.NewNop(),
	)

	periodEnd := time.Now()
	periodStart := periodEnd.AddDate(0, 0, -7)
	job := queue.NewRetroDigestJob(periodStart, periodEnd)

	if err := w.ProcessRetroDigestJob(context.Background(), job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.lastRequest == nil {
		t.Fatal("expected coach to be invoked")
	}
	if provider.lastRequest.Mode != agent.ModeRetro {
		t.Errorf("expected retro mode, got %s", provider.lastRequest.Mode)
	}
	if len(provider.lastRequest.Notes) != 1 || provider.lastRequest.Notes[0] != content {
		t.Errorf("expected note content to be forwarded, got %v", provider.lastRequest.Notes)
	}
	if !noteReader.since.Equal(periodStart) {
		t.Errorf("expected notes bounded by period start %v, got %v", periodStart, noteReader.since)
	}

	if len(writer.created) != 1 {
		t.Fatalf("expected one digest, got %d", len(writer.created))
	}
	digest := writer.created[0]
	if !digest.PeriodStart.Equal(periodStart) || !digest.PeriodEnd.Equal(periodEnd) {
		t.Errorf("digest period does not match job period")
	}

	var stored agent.Response
	if err := json.Unmarshal(digest.Response, &stored); err != nil {
		t.Fatalf("stored digest is not valid JSON: %v", err)
	}
	if len(stored.Insights) != 1 || stored.Insights[0] != "Good week" {
		t.Errorf("unexpected stored insights: %v", stored.Insights)
	}
	if stored.Ops == nil {
		t.Error("expected ops to serialize as an empty array")
	}
}

func TestRetryDelay(t *testing.T) {
	t.Parallel()

	if d := retryDelay(context.DeadlineExceeded, 0); d != time.Minute {
		t.Errorf("expected 1m base delay, got %v", d)
	}
	if d := retryDelay(context.DeadlineExceeded, 3); d != 8*time.Minute {
		t.Errorf("expected 8m delay after 3 retries, got %v", d)
	}
	if d := retryDelay(context.DeadlineExceeded, 10); d != 30*time.Minute {
		t.Errorf("expected delay capped at 30m, got %v", d)
	}
}
