package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/fitness-planner/internal/api"
	"alcyxob/fitness-planner/internal/app"
	"alcyxob/fitness-planner/internal/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title Fitness Planner API
// @version 1.0
// @description Generates weekly workout and meal plans with Gemini, and stores drafts and saved plans.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := app.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting fitness planner server",
		zap.String("addr", cfg.Server.Address),
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("archive", cfg.S3.Enabled),
	)

	// --- Stores, gateway and services ---
	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	application, err := app.New(initCtx, cfg, logger)
	cancelInit()
	if err != nil {
		logger.Fatal("could not initialize application", zap.Error(err))
	}
	defer application.Close()

	// --- Initialize Gin Engine ---
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(api.Recovery(logger), api.RequestLogger(logger))

	api.SetupRoutes(router, application.Plans, application.Images, application.Settings, application.Metrics.Handler())

	// --- Start HTTP Server ---
	// WriteTimeout covers a full AI round trip.
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.WithCORS(router, cfg.Server.AllowedOrigins),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: app.AITimeout(cfg.AI) + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("ListenAndServe error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}
