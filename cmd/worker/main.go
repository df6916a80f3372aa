package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/echotask/echotask/internal/config"
	"github.com/echotask/echotask/internal/database"
	"github.com/echotask/echotask/internal/logger"
	"github.com/echotask/echotask/internal/queue"
	"github.com/echotask/echotask/internal/services/ai"
	"github.com/echotask/echotask/internal/workers"
	"go.uber.org/zap"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug mode for AI API logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.WorkerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if syncErr := zapLogger.Sync(); syncErr != nil {
			_ = syncErr
		}
	}()

	zapLogger.Info("starting_worker",
		zap.Bool("debug_mode", debugMode),
		zap.String("ai_model", cfg.AIModel),
		zap.Int("prefetch", cfg.RabbitMQPrefetch),
	)

	ctx := context.Background()
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	jobQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_rabbitmq", zap.Error(err))
	}
	defer func() {
		if err := jobQueue.Close(); err != nil {
			zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_rabbitmq")

	taskRepo := database.NewTaskRepository(db)
	convRepo := database.NewConversationRepository(db)

	aiProvider, err := createAIProvider(cfg, zapLogger, debugMode)
	if err != nil {
		// Topic refresh jobs still process without a provider;
		// enrichment jobs will fail and land in the DLQ.
		zapLogger.Warn("ai_provider_unavailable_enrichment_disabled", zap.Error(err))
		aiProvider = nil
	}

	enricher := workers.NewEnricher(aiProvider, taskRepo, convRepo, jobQueue, zapLogger)

	consumeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages, errs, err := jobQueue.Consume(consumeCtx, cfg.RabbitMQPrefetch)
	if err != nil {
		zapLogger.Fatal("failed_to_start_consumer", zap.Error(err))
	}
	zapLogger.Info("worker_consuming")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case msg, ok := <-messages:
			if !ok {
				zapLogger.Warn("message_channel_closed")
				return
			}
			jobCtx, jobCancel := context.WithTimeout(consumeCtx, 2*time.Minute)
			if err := enricher.ProcessJob(jobCtx, msg); err != nil {
				zapLogger.Error("job_processing_failed",
					zap.String("job_id", msg.GetJob().ID.String()),
					zap.String("job_type", string(msg.GetJob().Type)),
					zap.Error(err),
				)
			}
			jobCancel()

		case err, ok := <-errs:
			if !ok {
				zapLogger.Warn("error_channel_closed")
				return
			}
			zapLogger.Error("consumer_error", zap.Error(err))

		case <-quit:
			zapLogger.Info("worker_shutting_down")
			cancel()
			return
		}
	}
}

// createAIProvider builds the configured enrichment provider.
func createAIProvider(cfg *config.Config, zapLogger *zap.Logger, debugMode bool) (ai.Provider, error) {
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
			zapLogger,
			debugMode,
		), nil
	}

	// Other provider types resolve through the registry
	registry := ai.NewProviderRegistry()
	ai.RegisterOpenAI(registry)

	providerConfig := map[string]string{
		"api_key":  cfg.OpenAIKey,
		"model":    cfg.AIModel,
		"base_url": cfg.AIBaseURL,
	}

	return registry.GetProvider(providerType, providerConfig)
}
