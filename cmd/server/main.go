package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/nikhilupadhyay26/voiceaipractice/internal/ai"
	"github.com/nikhilupadhyay26/voiceaipractice/internal/api"
	"github.com/nikhilupadhyay26/voiceaipractice/internal/config"
	"github.com/nikhilupadhyay26/voiceaipractice/internal/logger"
	"github.com/nikhilupadhyay26/voiceaipractice/internal/storage"
	"github.com/nikhilupadhyay26/voiceaipractice/internal/stt"
	"github.com/nikhilupadhyay26/voiceaipractice/internal/tts"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg := logger.NewLogger(cfg.LogLevel, cfg.LogFormat == "json")

	outDir, err := storage.EnsureOutputDir(cfg.StaticDir)
	if err != nil {
		logg.Fatal("cannot prepare static directory", logger.Fields{"error": err.Error()})
	}

	sttEngine, err := stt.CreateEngine(cfg.STT, logg)
	if err != nil {
		logg.Fatal("cannot create STT engine", logger.Fields{"error": err.Error()})
	}

	completer, err := ai.CreateCompleter(cfg.Engine)
	if err != nil {
		logg.Fatal("cannot create completion engine", logger.Fields{"error": err.Error()})
	}

	// Set Gin mode (default to release mode)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes()

	api.RegisterRoutes(r, api.Dependencies{
		STT:          sttEngine,
		TTS:          tts.NewPiper(cfg.TTS, outDir, logg),
		Coach:        ai.NewCoach(completer, logg),
		Log:          logg,
		OutputDir:    outDir,
		MaxBodyBytes: cfg.MaxUploadBytes(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logg.Info("coaching bridge running", logger.Fields{
			"port":   cfg.Port,
			"stt":    sttEngine.Name(),
			"engine": completer.Name(),
			"model":  cfg.Engine.Model,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("server error", logger.Fields{"error": err.Error()})
		}
	}()

	<-ctx.Done()
	logg.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("server forced to shutdown", logger.Fields{"error": err.Error()})
		return
	}
	logg.Info("server stopped gracefully")
}
