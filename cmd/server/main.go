package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/fitness-calendar/internal/api"
	"alcyxob/fitness-calendar/internal/config"
	"alcyxob/fitness-calendar/internal/logging"
	"alcyxob/fitness-calendar/internal/metrics"
	"alcyxob/fitness-calendar/internal/repository/kv"
	"alcyxob/fitness-calendar/internal/service"
	"alcyxob/fitness-calendar/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func main() {
	configDir := flag.String("config", ".", "directory holding config.yaml")
	flag.Parse()

	// --- Configuration ---
	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.Stdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	log.Infoln("starting fitness calendar server...")

	metricsManager := metrics.NewManager(cfg.Metrics.Namespace, "server", prometheus.DefaultRegisterer)

	// --- Storage ---
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, closeStore, err := storage.NewStore(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("could not open %s storage: %v", cfg.Storage.Backend, err)
	}
	defer func() {
		log.Infoln("closing storage...")
		if err := closeStore(); err != nil {
			log.Errorf("failed to close storage: %v", err)
		}
	}()

	// --- Repositories ---
	programRepo := kv.NewProgramRepository(store, metricsManager.StorageCorrupt)
	completionRepo := kv.NewCompletionRepository(store, metricsManager.StorageCorrupt)

	// --- Services ---
	authService, err := service.NewAuthService(cfg.Auth.PasswordHash, cfg.JWT.Secret, cfg.JWT.Expiration)
	if err != nil {
		log.Fatalf("invalid auth config: %v", err)
	}
	if !authService.Enabled() {
		log.Warnln("auth.password_hash is empty, the API is open")
	}
	programService := service.NewProgramService(programRepo)
	progressService := service.NewProgressService()
	completionService := service.NewCompletionService(completionRepo, metricsManager)

	// --- Gin Engine ---
	if !log.IsLevelEnabled(log.DebugLevel) {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		api.PanicRecovery(metricsManager),
		api.RequestMetrics(metricsManager),
		api.RequestLogger(),
	)

	api.SetupRoutes(router, authService, programService, progressService, completionService)
	if cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen and serve: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Infoln("shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}

	log.Infoln("server exiting")
}
