package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitforge/coach-app/internal/api"
	"fitforge/coach-app/internal/cache"
	"fitforge/coach-app/internal/catalog"
	"fitforge/coach-app/internal/config"
	"fitforge/coach-app/internal/llm"
	applog "fitforge/coach-app/internal/log"
	"fitforge/coach-app/internal/prompt"
	"fitforge/coach-app/internal/repository/memory"
	mongorepo "fitforge/coach-app/internal/repository/mongo"
	"fitforge/coach-app/internal/service"
	"fitforge/coach-app/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	logger := applog.GetLogger()
	logger.Info("Starting coach-app server...")

	// Local development convenience; in deployment the env is already set.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.WithError(err).Fatal("Could not load config")
	}

	if cfg.JWT.Secret == "" {
		logger.Fatal("JWT secret is required")
	}

	dbClient, err := mongorepo.ConnectDB(cfg.Database.URI)
	if err != nil {
		logger.WithError(err).Fatal("Could not connect to MongoDB")
	}
	defer func() {
		logger.Info("Disconnecting MongoDB...")
		if err := mongorepo.DisconnectDB(dbClient); err != nil {
			logger.WithError(err).Error("Failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	logger.Info("Database connection established.")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongorepo.EnsureWorkoutDayIndexes(ctx, appDB.Collection("workout_days"))
		mongorepo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises"))
		logger.Info("Index creation process completed.")
	}()

	workoutDayRepo := mongorepo.NewMongoWorkoutDayRepository(appDB)
	exerciseRepo := mongorepo.NewMongoExerciseRepository(appDB)
	fallbackRepo := memory.NewWorkoutDayRepository()

	generator, err := llm.NewGeminiGenerator(context.Background(), cfg.LLM.APIKey, cfg.LLM.Model)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize text generator")
	}
	defer generator.Close()

	validator, err := validation.NewPayloadValidator()
	if err != nil {
		logger.WithError(err).Fatal("Failed to compile payload schema")
	}

	resolver := catalog.NewResolver(exerciseRepo, logger)
	resultCache := cache.New(cfg.Cache.TodayTTL, cfg.Cache.WeekTTL)

	retryPolicy := service.RetryPolicy{
		MaxAttempts: cfg.Generation.RetryAttempts,
		Delay:       cfg.Generation.RetryDelay,
	}

	generationService := service.NewGenerationService(
		workoutDayRepo,
		fallbackRepo,
		resolver,
		prompt.NewBuilder(),
		generator,
		validator,
		service.NewDefaultProfileProvider(),
		resultCache,
		service.GenerationConfig{
			Timeout: cfg.Generation.Timeout,
			Retry:   retryPolicy,
		},
		logger,
	)
	exerciseService := service.NewExerciseService(exerciseRepo, retryPolicy, logger)

	router := gin.Default()
	api.SetupRoutes(router, cfg.JWT.Secret, generationService, exerciseService)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logger.Infof("Server starting on %s", cfg.Server.Address)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("ListenAndServe error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	// Let in-flight generation tasks reach a terminal state.
	generationService.Wait()

	logger.Info("Server exiting.")
}
