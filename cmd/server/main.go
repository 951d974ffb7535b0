package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/gorilla/mux"

	"github.com/lifeosapp/lifeos-api/internal/config"
	"github.com/lifeosapp/lifeos-api/internal/database"
	"github.com/lifeosapp/lifeos-api/internal/handlers"
	"github.com/lifeosapp/lifeos-api/internal/logger"
	"github.com/lifeosapp/lifeos-api/internal/middleware"
	"github.com/lifeosapp/lifeos-api/internal/services/ai"
	"github.com/lifeosapp/lifeos-api/internal/telemetry"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug mode for LLM API logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.String("ai_provider", cfg.AIProvider),
		zap.String("ai_model", cfg.AIModel),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// OpenTelemetry tracing is optional; a broken collector never blocks startup
	var tracerEnabled bool
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), "lifeos-api", cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracerEnabled = true
				zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

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

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		zapLogger.Fatal("invalid_redis_url", zap.Error(err))
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() {
		if err := redisClient.Close(); err != nil {
			zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_redis")

	// Repositories
	goalRepo := database.NewGoalRepository(db)
	taskRepo := database.NewTaskRepository(db)
	habitRepo := database.NewHabitRepository(db)
	milestoneRepo := database.NewMilestoneRepository(db)
	noteRepo := database.NewNoteRepository(db)
	digestRepo := database.NewDigestRepository(db)
	categoryRepo := database.NewCategoryRepository(db)
	projectRepo := database.NewProjectRepository(db)

	aiProvider, err := createAIProvider(cfg, zapLogger, debugMode)
	if err != nil {
		zapLogger.Fatal("failed_to_create_ai_provider", zap.Error(err))
	}

	// Handlers
	coachHandler := handlers.NewCoachHandler(aiProvider, zapLogger)
	goalHandler := handlers.NewGoalHandler(goalRepo)
	taskHandler := handlers.NewTaskHandler(taskRepo)
	habitHandler := handlers.NewHabitHandler(habitRepo)
	milestoneHandler := handlers.NewMilestoneHandler(milestoneRepo)
	noteHandler := handlers.NewNoteHandler(noteRepo)
	digestHandler := handlers.NewDigestHandler(digestRepo)
	refHandler := handlers.NewRefHandler(categoryRepo, projectRepo)
	statsHandler := handlers.NewStatsHandler(goalRepo, taskRepo, milestoneRepo, habitRepo)
	healthChecker := handlers.NewHealthChecker(db)

	r := mux.NewRouter()

	// Middleware executes in registration order in gorilla/mux; outermost first
	if tracerEnabled {
		r.Use(otelmux.Middleware("lifeos-api"))
		zapLogger.Info("otel_middleware_enabled")
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORS(cfg.FrontendURL))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	// Health and spec endpoints stay outside the rate limit
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")

	openAPIPath := filepath.Join("api", "openapi", "openapi.yaml")
	openAPIHandler := handlers.NewOpenAPIHandler(openAPIPath)
	openAPIHandler.RegisterRoutes(r)

	apiRouter := r.PathPrefix("/api/v1").Subrouter()

	// The coach endpoint fronts a metered LLM API, so it gets its own
	// tighter rate limit than the CRUD surface
	coachRateLimit, err := middleware.RateLimit(redisClient, middleware.DefaultCoachRate)
	if err != nil {
		zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
	}
	crudRateLimit, err := middleware.RateLimit(redisClient, "120-M")
	if err != nil {
		zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
	}

	coachRouter := apiRouter.PathPrefix("").Subrouter()
	coachRouter.Use(coachRateLimit)
	coachHandler.RegisterRoutes(coachRouter)

	for prefix, register := range map[string]func(*mux.Router){
		"/tasks":      taskHandler.RegisterRoutes,
		"/habits":     habitHandler.RegisterRoutes,
		"/milestones": milestoneHandler.RegisterRoutes,
		"/notes":      noteHandler.RegisterRoutes,
		"/digests":    digestHandler.RegisterRoutes,
	} {
		sub := apiRouter.PathPrefix(prefix).Subrouter()
		sub.Use(crudRateLimit)
		register(sub)
	}

	goalsRouter := apiRouter.PathPrefix("/goals").Subrouter()
	goalsRouter.Use(crudRateLimit)
	goalHandler.RegisterRoutes(goalsRouter)
	statsHandler.RegisterRoutes(goalsRouter)

	refsRouter := apiRouter.PathPrefix("").Subrouter()
	refsRouter.Use(crudRateLimit)
	refHandler.RegisterRoutes(refsRouter)

	// Preflight requests reach here after the CORS middleware sets headers
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   90 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

// createAIProvider builds the coach provider from configuration
func createAIProvider(cfg *config.Config, logger *zap.Logger, debugMode bool) (ai.CoachProvider, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key not configured")
	}

	providerType := cfg.AIProvider
	if providerType == "" {
		providerType = "openai"
	}

	if providerType == "openai" {
		return ai.NewOpenAIProviderWithLogger(
			cfg.OpenAIKey,
			cfg.AIBaseURL,
			cfg.AIModel,
			logger,
			debugMode,
		), nil
	}

	registry := ai.NewProviderRegistry()
	ai.RegisterOpenAI(registry)

	return registry.GetProvider(providerType, map[string]string{
		"api_key":  cfg.OpenAIKey,
		"model":    cfg.AIModel,
		"base_url": cfg.AIBaseURL,
	})
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"version":"1.0.0","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339))
}
