package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/glotline/smart-translate/internal/config"
	"github.com/glotline/smart-translate/internal/engine"
	"github.com/glotline/smart-translate/internal/engine/gemini"
	"github.com/glotline/smart-translate/internal/engine/google"
	"github.com/glotline/smart-translate/internal/history"
	"github.com/glotline/smart-translate/internal/language"
	"github.com/glotline/smart-translate/internal/logger"
	"github.com/glotline/smart-translate/internal/settings"
	"github.com/glotline/smart-translate/internal/storage"
	"github.com/glotline/smart-translate/internal/storage/pg"
	"github.com/glotline/smart-translate/internal/translator"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	log := logger.New(logger.FromConfig(cfg.LogLevel, cfg.LogFormat))

	log.Info("setting gin mode", slog.String("mode", cfg.GinMode))
	gin.SetMode(cfg.GinMode)

	// Select the persistence backend. An empty DATABASE_URL keeps settings
	// and history in process memory.
	var kv storage.KV
	var pgStore *pg.Store
	if cfg.DatabaseURL == "" {
		log.Warn("no DATABASE_URL configured, settings and history will not survive restarts")
		kv = storage.NewMemory()
	} else {
		var err error
		pgStore, err = pg.InitDatabase(cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to initialize database", slog.Any("error", err))
			os.Exit(1)
		}
		kv = pgStore
	}

	settingsStore := settings.NewStore(kv, settings.Settings{
		GeminiAPIKey:   cfg.GeminiAPIKey,
		TargetLang:     cfg.TargetLang,
		EngineMode:     cfg.EngineMode,
		GeminiModel:    cfg.GeminiModel,
		HistoryMaxSize: cfg.HistoryMaxSize,
	}, log)
	historyStore := history.NewStore(kv, settingsStore, log)

	googleAdapter := google.New(cfg.Engines.Google, log)
	geminiFactory := func(model, apiKey string) engine.Translator {
		return gemini.New(cfg.Engines.Gemini, model, apiKey, log)
	}

	service := translator.NewService(settingsStore, historyStore, googleAdapter,
		geminiFactory, language.NewLinguaDetector(), log)

	translateHandler := translator.NewHandler(service, log)
	historyHandler := history.NewHandler(historyStore, log)
	settingsHandler := settings.NewHandler(settingsStore, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := history.NewSweeper(historyStore, cfg.HistoryRetentionDays, log)
	if err := sweeper.Start(ctx); err != nil {
		log.Error("failed to start history sweeper", slog.Any("error", err))
		os.Exit(1)
	}

	router := gin.Default()
	router.Use(corsMiddleware(cfg.CORSAllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.POST("/translate", translateHandler.Translate)

		api.GET("/history", historyHandler.ListHistory)
		api.DELETE("/history", historyHandler.ClearHistory)
		api.DELETE("/history/:id", historyHandler.DeleteRecord)

		api.GET("/settings", settingsHandler.GetSettings)
		api.PUT("/settings", settingsHandler.UpdateSettings)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("translation service listening", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	sweeper.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.ServerShutdownTimeoutSeconds)*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", slog.Any("error", err))
	}

	if pgStore != nil {
		if err := pgStore.Close(); err != nil {
			log.Error("failed to close database", slog.Any("error", err))
		}
	}

	log.Info("server exited")
}

func corsMiddleware(allowedOrigins string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowedOrigins)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
