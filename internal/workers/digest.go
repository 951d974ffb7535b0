package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lifeosapp/lifeos-api/internal/agent"
	"github.com/lifeosapp/lifeos-api/internal/database"
	"github.com/lifeosapp/lifeos-api/internal/models"
	"github.com/lifeosapp/lifeos-api/internal/queue"
	"github.com/lifeosapp/lifeos-api/internal/services/ai"
)

// DigestWorker processes retro digest jobs: it rebuilds the retro coaching
// context over the job's period, runs the coach and stores the decoded
// response as a digest row.
type DigestWorker struct {
	provider   ai.CoachProvider
	goalRepo   database.GoalReader
	taskRepo   database.TaskReader
	habitRepo  database.HabitReader
	noteRepo   database.NoteReader
	digestRepo database.DigestWriter
	jobQueue   queue.JobQueue // For re-enqueueing rate limited jobs with delays
	logger     *zap.Logger
}

// NewDigestWorker creates a new digest worker
func NewDigestWorker(
	provider ai.CoachProvider,
	goalRepo database.GoalReader,
	taskRepo database.TaskReader,
	habitRepo database.HabitReader,
	noteRepo database.NoteReader,
	digestRepo database.DigestWriter,
	jobQueue queue.JobQueue,
	logger *zap.Logger,
) *DigestWorker {
	return &DigestWorker{
		provider:   provider,
		goalRepo:   goalRepo,
		taskRepo:   taskRepo,
		habitRepo:  habitRepo,
		noteRepo:   noteRepo,
		digestRepo: digestRepo,
		jobQueue:   jobQueue,
		logger:     logger,
	}
}

// ProcessRetroDigestJob loads the current collections, builds the retro
// context and stores the coach response for the job's period.
func (w *DigestWorker) ProcessRetroDigestJob(ctx context.Context, job *queue.Job) error {
	goals, err := w.goalRepo.List(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to load goals: %w", err)
	}
	tasks, err := w.taskRepo.List(ctx, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	habits, err := w.habitRepo.List(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}
	notes, err := w.noteRepo.ListSince(ctx, job.PeriodStart)
	if err != nil {
		return fmt.Errorf("failed to load notes: %w", err)
	}

	req := agent.BuildRetroContext(
		derefGoals(goals), derefTasks(tasks), derefHabits(habits), derefNotes(notes))

	resp, err := w.provider.RunAgent(ctx, req)
	if err != nil {
		return fmt.Errorf("coach run failed: %w", err)
	}

	responseJSON, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal coach response: %w", err)
	}

	digest := &models.Digest{
		PeriodStart: job.PeriodStart,
		PeriodEnd:   job.PeriodEnd,
		Response:    responseJSON,
	}
	if err := w.digestRepo.Create(ctx, digest); err != nil {
		return fmt.Errorf("failed to store digest: %w", err)
	}

	w.logger.Info("digest_stored",
		zap.String("digest_id", digest.ID.String()),
		zap.Time("period_start", job.PeriodStart),
		zap.Time("period_end", job.PeriodEnd),
		zap.Int("insights", len(resp.Insights)),
		zap.Int("actions", len(resp.TodayActions)),
	)
	return nil
}

// ProcessJob processes a job based on its type
func (w *DigestWorker) ProcessJob(ctx context.Context, msg *queue.Message) error {
	job := msg.Job

	switch job.Type {
	case queue.JobTypeRetroDigest:
		if err := w.ProcessRetroDigestJob(ctx, job); err != nil {
			return w.handleJobError(ctx, msg, job, err)
		}
		if ackErr := msg.Ack(); ackErr != nil {
			return fmt.Errorf("failed to ack job: %w", ackErr)
		}
		return nil

	default:
		// Unknown job type, send to DLQ
		if nackErr := msg.Nack(false); nackErr != nil {
			w.logger.Warn("nack_failed", zap.Error(nackErr))
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// handleJobError applies the retry policy: rate limited and quota errors are
// re-enqueued with a delay, other errors retry up to MaxRetries, then DLQ.
func (w *DigestWorker) handleJobError(ctx context.Context, msg *queue.Message, job *queue.Job, err error) error {
	if ai.IsQuotaError(err) || ai.IsRateLimitError(err) {
		w.logger.Warn("digest_job_rate_limited",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)

		if job.CanRetry() && w.jobQueue != nil {
			notBefore := time.Now().Add(retryDelay(err, job.RetryCount))
			delayed := *job
			delayed.NotBefore = &notBefore
			delayed.RetryCount = job.RetryCount + 1

			if ackErr := msg.Ack(); ackErr != nil {
				w.logger.Warn("ack_failed", zap.Error(ackErr))
			}
			if enqueueErr := w.jobQueue.Enqueue(ctx, &delayed); enqueueErr != nil {
				return fmt.Errorf("rate limited, failed to re-enqueue: %w", enqueueErr)
			}
			return nil
		}
	}

	if job.CanRetry() {
		job.IncrementRetry()
		w.logger.Warn("digest_job_retry",
			zap.String("job_id", job.ID.String()),
			zap.Int("attempt", job.RetryCount),
			zap.Int("max_retries", job.MaxRetries),
			zap.Error(err),
		)
		if nackErr := msg.Nack(true); nackErr != nil {
			w.logger.Warn("nack_failed", zap.Error(nackErr))
		}
		return fmt.Errorf("job failed (will retry): %w", err)
	}

	w.logger.Error("digest_job_dead_lettered",
		zap.String("job_id", job.ID.String()),
		zap.Int("retries", job.MaxRetries),
		zap.Error(err),
	)
	if nackErr := msg.Nack(false); nackErr != nil {
		w.logger.Warn("nack_failed", zap.Error(nackErr))
	}
	return fmt.Errorf("job failed (max retries): %w", err)
}

// retryDelay backs off exponentially from one minute, with an hour floor for
// quota exhaustion.
func retryDelay(err error, retryCount int) time.Duration {
	if ai.IsQuotaError(err) {
		return time.Hour
	}
	delay := time.Minute
	for i := 0; i < retryCount; i++ {
		delay *= 2
	}
	if delay > 30*time.Minute {
		delay = 30 * time.Minute
	}
	return delay
}

func derefGoals(in []*models.Goal) []models.Goal {
	out := make([]models.Goal, 0, len(in))
	for _, g := range in {
		out = append(out, *g)
	}
	return out
}

func derefTasks(in []*models.Task) []models.Task {
	out := make([]models.Task, 0, len(in))
	for _, t := range in {
		out = append(out, *t)
	}
	return out
}

func derefHabits(in []*models.Habit) []models.Habit {
	out := make([]models.Habit, 0, len(in))
	for _, h := range in {
		out = append(out, *h)
	}
	return out
}

func derefNotes(in []*models.Note) []models.Note {
	out := make([]models.Note, 0, len(in))
	for _, n := range in {
		out = append(out, *n)
	}
	return out
}
