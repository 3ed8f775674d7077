package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"project-service/internal/config"
	"project-service/internal/handler"
	"project-service/internal/httpserver"
	"project-service/internal/repository"
	"project-service/internal/service/cascade"
	"project-service/internal/service/phasegate"
	"project-service/internal/service/project"
	"project-service/internal/service/qa"
	"project-service/internal/service/resource"
	"project-service/internal/service/techstack"
	"project-service/pkg/clock"
	"project-service/pkg/db"
	"project-service/pkg/logger"
	"project-service/pkg/mq"
	"project-service/pkg/projectlock"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger(cfg.Env)
	defer log.Sync()

	log.Info("Starting project-service...",
		zap.String("env", cfg.Env),
		zap.String("db_host", cfg.DB.Host),
		zap.Int("db_port", cfg.DB.Port),
		zap.String("mq_url", cfg.MQ.URL),
	)

	// DB
	log.Info("Running database migrations...")
	if err := db.RunMigrations(cfg.DB, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	log.Info("Initializing database connection...")
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()
	log.Info("Database connection established successfully")

	// Redis (per-project serialization lock)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer rdb.Close()
	locker := projectlock.New(rdb, 30*time.Second, log)

	// MQ
	log.Info("Initializing MQ publisher...")
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init MQ publisher", zap.Error(err))
	}
	defer publisher.Close()

	// Repositories
	projectRepo := repository.NewProjectRepository(dbConn, log)
	phaseRepo := repository.NewPhaseRepository(dbConn, log)
	resourceRepo := repository.NewResourceRepository(dbConn, log)
	techStackRepo := repository.NewTechStackRepository(dbConn, log)
	envRepo := repository.NewEnvironmentRepository(dbConn, log)
	taskRepo := repository.NewTaskRepository(dbConn, log)
	bugRepo := repository.NewBugRepository(dbConn, log)
	uatRepo := repository.NewUATRepository(dbConn, log)

	clk := clock.System()

	// Phase gating
	registry := phasegate.NewDefaultRegistry(resourceRepo, techStackRepo, envRepo, taskRepo, bugRepo)
	validator := phasegate.NewValidator(phaseRepo, registry, log)
	executor := phasegate.NewExecutor(dbConn, phaseRepo, validator, locker, publisher, clk, log)

	// Services
	projectSvc := project.NewService(dbConn, projectRepo, phaseRepo, envRepo, taskRepo, clk, log)
	resourceSvc := resource.NewService(resourceRepo, clk, log)
	techStackSvc := techstack.NewService(cfg.TechStack.Compatibility, techStackRepo, log)
	qaSvc := qa.NewService(bugRepo, uatRepo, clk, log)
	coordinator := cascade.NewCoordinator(dbConn, projectRepo, repository.CascadeDependents(), locker, publisher, log)

	// HTTP
	handlers := httpserver.Handlers{
		Projects:  handler.NewProjectHandler(projectSvc, coordinator, log),
		Phases:    handler.NewPhaseHandler(validator, executor, log),
		Resources: handler.NewResourceHandler(resourceSvc, log),
		TechStack: handler.NewTechStackHandler(techStackSvc, log),
		QA:        handler.NewQAHandler(qaSvc, log),
	}
	router := httpserver.NewRouter(handlers, cfg.JWT.Secret, log, dbConn)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	log.Info("project-service is fully initialized and running",
		zap.String("http_port", cfg.Server.Port),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down project-service gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	log.Info("project-service shutdown complete")
}
