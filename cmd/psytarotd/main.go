package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/marataitester-blip/psy-color-deep/internal/adapters/http"
	"github.com/marataitester-blip/psy-color-deep/internal/adapters/imagegen/openrouter"
	"github.com/marataitester-blip/psy-color-deep/internal/adapters/llm/groq"
	"github.com/marataitester-blip/psy-color-deep/internal/app"
	"github.com/marataitester-blip/psy-color-deep/internal/config"
	"github.com/marataitester-blip/psy-color-deep/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	slog.SetDefault(logger)

	creds := app.Credentials{
		InterpretationKey: cfg.GroqAPIKey,
		IllustrationKey:   cfg.OpenRouterAPIKey,
	}
	if missing := creds.Missing(); len(missing) > 0 {
		logger.Warn("credentials missing, analyze requests will fail", "missing", missing)
	}

	interpreter := groq.NewClient(
		&http.Client{Timeout: cfg.LLMTimeout},
		cfg.GroqAPIKey,
		cfg.GroqBaseURL,
		cfg.LLMModel,
		cfg.LLMFallbackModels,
		cfg.LLMTemperature,
		logger,
	)

	illustrator := openrouter.NewClient(
		&http.Client{Timeout: cfg.ImageTimeout},
		cfg.OpenRouterAPIKey,
		cfg.OpenRouterBaseURL,
		openrouter.Options{
			Model:          cfg.ImageModel,
			Width:          cfg.ImageWidth,
			Height:         cfg.ImageHeight,
			ResponseFormat: cfg.ImageResponseFormat,
			Referer:        cfg.AppReferer,
			Title:          cfg.AppTitle,
		},
		logger,
	)

	svc := app.NewAnalyzeService(interpreter, illustrator, creds, logger)

	e := httpadapter.NewServer(httpadapter.NewHandler(svc, logger), logger, httpadapter.ServerOptions{
		CORSAllowOrigin: cfg.CORSAllowOrigin,
		BodyLimit:       cfg.BodyLimit,
	})

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting server", "addr", cfg.HTTPAddr, "llm_model", cfg.LLMModel, "image_model", cfg.ImageModel)
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
