package extract

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docfusion/constants"
	"docfusion/internal/document"
	"docfusion/internal/gemini"
	"docfusion/internal/llm"
	"docfusion/internal/tables"
)

// Rasterizer renders PDF pages to image files.
type Rasterizer interface {
	Rasterize(ctx context.Context, path string) (files []string, cleanup func(), err error)
}

// VisionAdapter transcribes each rasterized page with a vision-capable
// language model and, when any text came back, asks the model for a
// structured analysis of the combined text.
type VisionAdapter struct {
	gen    gemini.Generator
	ras    Rasterizer
	logger *slog.Logger
}

func NewVisionAdapter(gen gemini.Generator, ras Rasterizer, logger *slog.Logger) *VisionAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &VisionAdapter{gen: gen, ras: ras, logger: logger}
}

func (a *VisionAdapter) Name() document.Backend { return document.BackendVision }

func (a *VisionAdapter) Available() bool { return a.gen != nil }

func (a *VisionAdapter) Attempt(ctx context.Context, doc document.Document, opts Options) Attempt {
	if a.gen == nil {
		return unavailable(document.BackendVision, "vision backend not configured")
	}
	start := time.Now()

	units, cleanup, err := a.rasterUnits(ctx, doc)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		return failed(document.BackendVision, err)
	}

	att := Attempt{Backend: document.BackendVision, Status: StatusOK}
	att.Metadata.PageCount = len(units)

	var joined strings.Builder
	for i, unit := range units {
		outcome := a.transcribeUnit(ctx, i+1, unit)
		if outcome.Warning != "" {
			att.Warnings = append(att.Warnings, outcome.Warning)
		}
		att.Pages = append(att.Pages, Page{Number: outcome.Number, Text: outcome.Text})
		if outcome.Text != "" {
			if joined.Len() > 0 {
				joined.WriteString("\n\f\n")
			}
			joined.WriteString(outcome.Text)
		}
		a.logger.Debug("extract.vision.page",
			"page", outcome.Number, "state", outcome.State.String(), "chars", len(outcome.Text))
	}
	att.Text = joined.String()

	// a dead context with no transcribed text means the pages errored
	// out rather than coming back blank; report the attempt as failed
	if err := ctx.Err(); err != nil && strings.TrimSpace(att.Text) == "" {
		f := failed(document.BackendVision, err)
		f.Warnings = att.Warnings
		f.Elapsed = time.Since(start)
		return f
	}

	if strings.TrimSpace(att.Text) != "" {
		a.analyze(ctx, &att, opts)
	}
	att.Elapsed = time.Since(start)
	return att
}

// rasterUnits yields the image files the model will see. A PDF becomes
// one file per page; an image document is itself the single unit.
func (a *VisionAdapter) rasterUnits(ctx context.Context, doc document.Document) ([]string, func(), error) {
	if doc.Format == constants.PDF && a.ras != nil {
		return a.ras.Rasterize(ctx, doc.Path)
	}
	return []string{doc.Path}, nil, nil
}

func (a *VisionAdapter) transcribeUnit(ctx context.Context, number int, path string) pageOutcome {
	data, err := os.ReadFile(path)
	if err != nil {
		return resolvePage(number, gemini.Completion{}, err)
	}
	img := &gemini.ImageData{Format: imageFormat(path), Data: data}
	completion, err := a.gen.Generate(ctx, gemini.TranscribePrompt, img)
	return resolvePage(number, completion, err)
}

// analyze runs the structured-analysis pass over the budgeted text and
// folds the parsed payload into the attempt. Parse failures keep the
// raw response; they are never attempt failures.
func (a *VisionAdapter) analyze(ctx context.Context, att *Attempt, opts Options) {
	prompt := gemini.AnalysisPrompt + llm.Budget(att.Text, opts.CharBudget)
	completion, err := a.gen.Generate(ctx, prompt, nil)
	if err != nil {
		att.Warnings = append(att.Warnings, "analysis call failed: "+err.Error())
		return
	}

	out := llm.ParseModelOutput(completion.Text)
	att.Analysis = out.Analysis
	att.Metadata.Title = out.Hints.Title
	att.Metadata.Language = out.Hints.Language
	for _, raw := range out.Tables {
		att.Tables = append(att.Tables, tables.Normalize(raw, 0, opts.RowCap))
	}
}

func imageFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".webp":
		return "webp"
	case ".gif":
		return "gif"
	default:
		return "png"
	}
}
