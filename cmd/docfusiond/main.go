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

	"github.com/joho/godotenv"

	"docfusion/internal/common"
	"docfusion/internal/extract"
	"docfusion/internal/gemini"
	"docfusion/internal/images"
	"docfusion/internal/ocr"
	"docfusion/internal/pipeline"
	"docfusion/internal/repository"
	"docfusion/internal/server"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := repository.OpenJobStore(cfg.Database.Path, logger)
	if err != nil {
		logger.Error("open job store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("close job store", "error", cerr)
		}
	}()

	engine := ocr.NewExtractor(cfg.OCR, logger)
	imgExtractor := images.NewExtractor(logger)

	var gen gemini.Generator
	if cfg.Vision.ProjectID != "" {
		client, err := gemini.NewClient(ctx, cfg.Vision, logger)
		if err != nil {
			logger.Error("vision client init failed, vision backend disabled", "error", err)
		} else {
			defer func() {
				if cerr := client.Close(); cerr != nil {
					logger.Error("close vision client", "error", cerr)
				}
			}()
			gen = client
		}
	} else {
		logger.Warn("VERTEX_PROJECT_ID not set, vision backend disabled")
	}

	adapters := []extract.Adapter{
		extract.NewPDFTextAdapter(logger),
		extract.NewOCRAdapter(engine, imgExtractor),
		extract.NewVisionAdapter(gen, engine, logger),
		extract.NewTabularAdapter(logger),
		extract.NewRawTextAdapter(),
	}
	proc := pipeline.NewProcessor(cfg.Pipeline, adapters, store, logger)

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           server.New(cfg.Server, proc, store, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server.listening", "addr", cfg.Server.HTTPAddr, "backends", backendList(adapters))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("server.shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

func backendList(adapters []extract.Adapter) []string {
	out := make([]string, 0, len(adapters))
	for _, a := range adapters {
		if a.Available() {
			out = append(out, string(a.Name()))
		}
	}
	return out
}
