package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/davitran/profile-hub/adapters/event"
	httpAdapter "github.com/davitran/profile-hub/adapters/http"
	"github.com/davitran/profile-hub/adapters/media_storage"
	"github.com/davitran/profile-hub/adapters/persistence"
	authUC "github.com/davitran/profile-hub/internal/application/usecase/auth"
	profileUC "github.com/davitran/profile-hub/internal/application/usecase/profile"
	"github.com/davitran/profile-hub/internal/config"
	"github.com/davitran/profile-hub/pkg/auth"
	"github.com/davitran/profile-hub/pkg/logger"
	"github.com/davitran/profile-hub/pkg/tracing"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	appLogger.Info("Starting Profile Hub API server...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Jaeger.OTLPEndpoint != "" {
		tp, err := tracing.NewTracerProvider(cfg, appLogger, "profile-hub-api")
		if err != nil {
			appLogger.Fatal("cannot init tracer provider", err)
		}
		defer tp.Shutdown(context.Background())
	}

	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg.Kafka.Brokers)
	if err != nil {
		appLogger.Fatal("cannot init Kafka", err)
	}
	defer kafkaClient.Close()

	// Repositories and services
	userRepo := persistence.NewPostgresUserRepo(dbPool, appLogger)
	profileCache := persistence.NewRedisProfileCache(redisClient, appLogger)
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("failed to initialize uploader", err)
	}

	// Use cases
	registerUseCase := authUC.NewRegisterUseCase(userRepo, jwtSvc, kafkaClient, appLogger)
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	getProfileUseCase := profileUC.NewGetProfileUseCase(userRepo, profileCache, appLogger)
	updateProfileUseCase := profileUC.NewUpdateProfileUseCase(userRepo, uploader, profileCache, kafkaClient, appLogger)

	// HTTP
	authHandler := httpAdapter.NewAuthHandler(registerUseCase, loginUseCase)
	profileHandler := httpAdapter.NewProfileHandler(
		getProfileUseCase,
		updateProfileUseCase,
		cfg.Upload.Dir,
		cfg.Upload.MaxSizeBytes,
		appLogger,
	)

	router := httpAdapter.NewRouter(authHandler, profileHandler, jwtSvc, cfg.Upload.Dir, appLogger)

	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	go func() {
		appLogger.Info("Server running on port " + cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutdown signal received, draining connections...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("graceful shutdown failed", err)
	}
	appLogger.Info("Server stopped.")
}
