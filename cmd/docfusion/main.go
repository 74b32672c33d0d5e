package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"docfusion/internal/common"
	"docfusion/internal/document"
	"docfusion/internal/extract"
	"docfusion/internal/gemini"
	"docfusion/internal/images"
	"docfusion/internal/ocr"
	"docfusion/internal/pipeline"
)

// One-shot extraction: process a single file and print the unified
// result as JSON.
func main() {
	_ = godotenv.Load()

	var (
		forceOCR = flag.Bool("force-ocr", false, "re-OCR PDFs even when a text layer exists")
		language = flag.String("lang", "", "comma separated OCR language hints, e.g. jpn,eng")
		noVision = flag.Bool("no-vision", false, "skip the vision backend")
		compact  = flag.Bool("compact", false, "print compact JSON instead of indented")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "docfusion [flags] <file>")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	doc, err := document.FromPath(flag.Arg(0))
	if err != nil {
		logger.Error("open document", "path", flag.Arg(0), "error", err)
		os.Exit(1)
	}

	engine := ocr.NewExtractor(cfg.OCR, logger)

	var gen gemini.Generator
	if cfg.Vision.ProjectID != "" && !*noVision {
		client, err := gemini.NewClient(ctx, cfg.Vision, logger)
		if err != nil {
			logger.Warn("vision backend disabled", "error", err)
		} else {
			defer client.Close()
			gen = client
		}
	}

	adapters := []extract.Adapter{
		extract.NewPDFTextAdapter(logger),
		extract.NewOCRAdapter(engine, images.NewExtractor(logger)),
		extract.NewVisionAdapter(gen, engine, logger),
		extract.NewTabularAdapter(logger),
		extract.NewRawTextAdapter(),
	}
	proc := pipeline.NewProcessor(cfg.Pipeline, adapters, nil, logger)

	opts := extract.Options{ForceOCR: *forceOCR}
	if *language != "" {
		for _, l := range strings.Split(*language, ",") {
			if l = strings.TrimSpace(l); l != "" {
				opts.Languages = append(opts.Languages, l)
			}
		}
	}

	res, err := proc.Process(ctx, doc, opts)
	if err != nil {
		logger.Error("extraction failed", "file", doc.Filename, "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	if !*compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(res); err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
}
