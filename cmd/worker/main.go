package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/davitran/profile-hub/adapters/event"
	"github.com/davitran/profile-hub/adapters/persistence"
	"github.com/davitran/profile-hub/internal/config"
	"github.com/davitran/profile-hub/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	appLogger.Info("Starting Profile Hub event-audit worker...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	auditRepo := persistence.NewPostgresEventAuditRepo(dbPool)

	userConsumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicUserEvents,
		GroupID:  "user-event-audit-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer userConsumer.Close()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicUserEvents))

	for {
		msg, err := userConsumer.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				appLogger.Info("Shutdown signal received, worker stopping.")
				return
			}
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		var payload event.UserEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			appLogger.Error("Failed to unmarshal user event, skipping", err, zap.String("key", string(msg.Key)))
			continue
		}

		if err := auditRepo.Record(ctx, payload); err != nil {
			appLogger.Error("Failed to record user event", err,
				zap.String("event_type", payload.EventType),
				zap.String("user_id", payload.UserID.String()))
			continue
		}

		appLogger.Info("Recorded user event",
			zap.String("event_type", payload.EventType),
			zap.String("user_id", payload.UserID.String()))
	}
}
