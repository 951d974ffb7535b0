package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/lifeosapp/lifeos-api/internal/config"
	"github.com/lifeosapp/lifeos-api/internal/database"
	"github.com/lifeosapp/lifeos-api/internal/logger"
	"github.com/lifeosapp/lifeos-api/internal/queue"
	"github.com/lifeosapp/lifeos-api/internal/services/ai"
	"github.com/lifeosapp/lifeos-api/internal/workers"
)

// retroPeriod is the window a scheduled retro digest looks back over
const retroPeriod = 7 * 24 * time.Hour

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug mode for LLM API logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.RequireRabbitMQ(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	debugMode := cfg.WorkerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	zapLogger.Info("starting_worker",
		zap.Bool("debug_mode", debugMode),
		zap.String("ai_provider", cfg.AIProvider),
		zap.String("ai_model", cfg.AIModel),
		zap.String("digest_schedule", cfg.DigestSchedule),
	)

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	goalRepo := database.NewGoalRepository(db)
	taskRepo := database.NewTaskRepository(db)
	habitRepo := database.NewHabitRepository(db)
	noteRepo := database.NewNoteRepository(db)
	digestRepo := database.NewDigestRepository(db)

	jobQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_rabbitmq", zap.Error(err))
	}
	defer func() {
		if err := jobQueue.Close(); err != nil {
			zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_rabbitmq", zap.Int("prefetch", cfg.RabbitMQPrefetch))

	var aiProvider ai.CoachProvider
	if cfg.AIProvider == "openai" {
		aiProvider = ai.NewOpenAIProviderWithLogger(
			cfg.OpenAIKey,
			cfg.AIBaseURL,
			cfg.AIModel,
			zapLogger,
			debugMode,
		)
	} else {
		zapLogger.Fatal("unsupported_ai_provider", zap.String("provider", cfg.AIProvider))
	}

	digestWorker := workers.NewDigestWorker(
		aiProvider,
		goalRepo,
		taskRepo,
		habitRepo,
		noteRepo,
		digestRepo,
		jobQueue,
		zapLogger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// The worker owns the schedule: a cron entry enqueues a retro job, the
	// consume loop below picks it up. Going through the queue keeps retries
	// and dead-lettering on one path whether the trigger was cron or manual.
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.DigestSchedule, func() {
		now := time.Now().UTC()
		job := queue.NewRetroDigestJob(now.Add(-retroPeriod), now)
		if err := jobQueue.Enqueue(ctx, job); err != nil {
			zapLogger.Error("failed_to_enqueue_retro_digest_job", zap.Error(err))
			return
		}
		zapLogger.Info("enqueued_retro_digest_job",
			zap.String("job_id", job.ID.String()),
			zap.Time("period_start", job.PeriodStart),
			zap.Time("period_end", job.PeriodEnd),
		)
	})
	if err != nil {
		zapLogger.Fatal("invalid_digest_schedule", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	msgChan, errChan, err := jobQueue.Consume(ctx, cfg.RabbitMQPrefetch)
	if err != nil {
		zapLogger.Fatal("failed_to_start_consuming", zap.Error(err))
	}

	zapLogger.Info("worker_started")

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgChan:
				if !ok {
					zapLogger.Info("message_channel_closed")
					return
				}
				if err := digestWorker.ProcessJob(ctx, msg); err != nil {
					zapLogger.Error("failed_to_process_job",
						zap.Error(err),
						zap.String("job_id", msg.GetJob().ID.String()),
						zap.String("job_type", string(msg.GetJob().Type)),
					)
				}
			}
		}
	}()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-errChan:
				if !ok {
					return
				}
				zapLogger.Error("queue_error", zap.Error(err))
			}
		}
	}()

	<-sigChan
	zapLogger.Info("shutdown_signal_received")

	cancel()

	zapLogger.Info("worker_stopped")
}
