package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/aditya6114/aac-board/internal/config"
	"github.com/aditya6114/aac-board/internal/handlers"
	"github.com/aditya6114/aac-board/internal/logger"
	"github.com/aditya6114/aac-board/internal/middleware"
	"github.com/aditya6114/aac-board/internal/models"
	"github.com/aditya6114/aac-board/internal/persist"
	"github.com/aditya6114/aac-board/internal/queue"
	"github.com/aditya6114/aac-board/internal/services/rag"
	"github.com/aditya6114/aac-board/internal/speech"
	"github.com/aditya6114/aac-board/internal/store"
	"github.com/aditya6114/aac-board/internal/suggest"
	"github.com/aditya6114/aac-board/internal/telemetry"
	"github.com/aditya6114/aac-board/internal/vector"
)

const serviceName = "aac-board"

// version is set at build time via -ldflags.
var version = "dev"

func versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"service": serviceName,
		"version": version,
	})
}

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
		zap.String("ai_model", cfg.AIModel),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// OpenTelemetry tracing, optional.
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), serviceName, cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
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

	// State slot: the whole board state lives in one SQLite row and is
	// rewritten after every command.
	slot, err := persist.OpenSQLite(cfg.StateDBPath, persist.SlotName)
	if err != nil {
		zapLogger.Fatal("failed_to_open_state_db", zap.Error(err))
	}
	defer func() {
		if err := slot.Close(); err != nil {
			zapLogger.Warn("failed_to_close_state_db", zap.Error(err))
		}
	}()

	st := store.New(models.NewAppState(), zapLogger)
	manager := persist.NewManager(slot, zapLogger)
	restoreCtx, restoreCancel := context.WithTimeout(context.Background(), 10*time.Second)
	manager.Restore(restoreCtx, st)
	restoreCancel()
	manager.Attach(st)

	// Vector store for document chunks.
	vecStore, err := vector.Open(cfg.VectorDBPath, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed_to_open_vector_db", zap.Error(err))
	}
	defer func() {
		if err := vecStore.Close(); err != nil {
			zapLogger.Warn("failed_to_close_vector_db", zap.Error(err))
		}
	}()

	// RAG service. Without an API key the chat endpoints answer with
	// the transcript fallback instead of refusing requests.
	var ragService *rag.Service
	if cfg.OpenAIKey != "" {
		provider := rag.NewOpenAIProvider(cfg.OpenAIKey, cfg.AIBaseURL, cfg.AIModel, cfg.EmbeddingModel, zapLogger, debugMode)
		ragService = rag.NewService(provider, vecStore, zapLogger)
		zapLogger.Info("rag_service_initialized", zap.String("model", cfg.AIModel))
	} else {
		zapLogger.Warn("openai_key_not_configured")
		ragService = rag.NewService(rag.UnconfiguredProvider{}, vecStore, zapLogger)
	}

	// Speech synthesis degrades to a no-op without an endpoint.
	speaker := speech.NewHTTPSpeaker(cfg.TTSEndpoint, speech.Options{
		Rate:   cfg.TTSRate,
		Pitch:  cfg.TTSPitch,
		Volume: cfg.TTSVolume,
	}, zapLogger)

	sched := suggest.NewScheduler(suggest.DefaultWindow, zapLogger)

	// Job queue for async document ingestion, optional.
	var jobQueue queue.JobQueue
	if cfg.RabbitMQURL != "" {
		q, err := connectQueue(cfg.RabbitMQURL, zapLogger)
		if err != nil {
			zapLogger.Warn("rabbitmq_unavailable_ingesting_inline", zap.Error(err))
		} else {
			jobQueue = q
			defer func() {
				if err := jobQueue.Close(); err != nil {
					zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
				}
			}()
			zapLogger.Info("connected_to_rabbitmq")
		}
	}

	// Health checks.
	healthChecker := handlers.NewHealthChecker()
	healthChecker.AddCheck("state_db", slot.Ping)
	healthChecker.AddCheck("vector_db", vecStore.Ping)
	if jobQueue != nil {
		healthChecker.AddCheck("queue", jobQueue.HealthCheck)
	}

	r := mux.NewRouter()

	// Middleware executes in registration order in gorilla/mux, so the
	// outermost concerns come first.
	if cfg.OTELEnabled {
		r.Use(otelmux.Middleware(serviceName))
	}
	r.Use(middleware.SecurityHeaders(false))
	r.Use(middleware.CORSFromEnv(cfg.FrontendURL))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Board routes take small JSON payloads only.
	boardRouter := api.PathPrefix("").Subrouter()
	boardRouter.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	handlers.NewBoardHandler(st, sched, speaker, zapLogger).RegisterRoutes(boardRouter)
	handlers.NewProfilesHandler(st, zapLogger).RegisterRoutes(boardRouter)
	handlers.NewTilesHandler(st, zapLogger).RegisterRoutes(boardRouter)
	handlers.NewStatsHandler(st).RegisterRoutes(boardRouter)

	// Chat routes carry a larger request cap for document uploads and
	// their own Redis-backed rate limit.
	chatRouter := api.PathPrefix("").Subrouter()
	chatRouter.Use(middleware.MaxRequestSize(middleware.UploadMaxRequestSize))
	if cfg.RedisURL != "" {
		redisClient, err := middleware.NewRedisClient(cfg.RedisURL)
		if err != nil {
			zapLogger.Warn("redis_unavailable_rate_limiting_disabled", zap.Error(err))
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
				}
			}()
			rateLimitMW, err := middleware.RateLimit(redisClient, cfg.ChatRateLimit)
			if err != nil {
				zapLogger.Fatal("invalid_chat_rate_limit", zap.String("rate", cfg.ChatRateLimit), zap.Error(err))
			}
			chatRouter.Use(rateLimitMW)
			healthChecker.AddCheck("redis", func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			})
			zapLogger.Info("chat_rate_limit_enabled", zap.String("rate", cfg.ChatRateLimit))
		}
	}
	handlers.NewChatHandler(st, ragService, ragService, jobQueue, speaker, cfg.UploadDir, zapLogger).RegisterRoutes(chatRouter)

	// Preflight requests fall through here after CORS headers are set.
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// DLQ garbage collection piggybacks on the server process.
	gcCtx, gcCancel := context.WithCancel(context.Background())
	defer gcCancel()
	if purger, ok := jobQueue.(queue.DLQPurger); ok {
		dlqGC := queue.NewGarbageCollector(purger, 1*time.Hour, 24*time.Hour, zapLogger)
		go func() {
			if err := dlqGC.Start(gcCtx); err != nil && err != context.Canceled {
				zapLogger.Error("dlq_garbage_collector_stopped_with_error", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    60 * time.Second,
		WriteTimeout:   60 * time.Second,
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
	gcCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	// One last flush so the slot holds the final state.
	manager.Flush(st.Snapshot())

	zapLogger.Info("server_exited")
}

// connectQueue retries the broker connection with exponential backoff;
// RabbitMQ often starts after this process does.
func connectQueue(amqpURL string, zapLogger *zap.Logger) (queue.JobQueue, error) {
	const maxRetries = 5
	const initialDelay = 2 * time.Second

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		q, err := queue.NewRabbitMQQueue(amqpURL, zapLogger)
		if err == nil {
			return q, nil
		}
		lastErr = err

		delay := initialDelay * time.Duration(1<<uint(attempt))
		if delay > 30*time.Second {
			delay = 30 * time.Second
		}
		zapLogger.Warn("failed_to_connect_to_rabbitmq_retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
			zap.Duration("retry_delay", delay),
			zap.Error(err),
		)
		time.Sleep(delay)
	}
	return nil, lastErr
}
