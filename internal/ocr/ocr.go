package ocr

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"docfusion/internal/common"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Languages []string // default ["eng"]; joined with "+" for tesseract
	DPI       int      // rasterization DPI for scanned PDFs, default 300
	MaxPages  int      // 0 = no limit

	TessdataDir string
}

type Result struct {
	Text     string
	Pages    int
	Method   string // "pdf-text" | "pdf-ocr" | "image-ocr"
	Language string
	Duration time.Duration
	Warnings []string
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg common.OCRConfig, logger *slog.Logger) *Extractor {
	return newExtractor(Config{
		Pdftotext:   cfg.Pdftotext,
		Pdftoppm:    cfg.Pdftoppm,
		Tesseract:   cfg.Tesseract,
		Languages:   cfg.Languages,
		DPI:         cfg.DPI,
		MaxPages:    cfg.MaxPages,
		TessdataDir: cfg.TessdataDir,
	}, nil, logger)
}

// newExtractor applies defaults; a nil runner gets the exec-backed one.
func newExtractor(cfg Config, runner Runner, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = execRunner{logger: logger}
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{"eng"}
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: runner, logger: logger}
}

// Available reports whether the external OCR binaries can be found.
func (e *Extractor) Available() bool {
	for _, bin := range []string{e.cfg.Pdftoppm, e.cfg.Tesseract} {
		if _, err := exec.LookPath(bin); err != nil {
			return false
		}
	}
	return true
}

// langArg joins language hints into tesseract's lang syntax. The
// per-request hints win over the configured defaults.
func (e *Extractor) langArg(hints []string) string {
	langs := e.cfg.Languages
	if len(hints) > 0 {
		langs = hints
	}
	return strings.Join(langs, "+")
}

// ExtractPDF extracts text from a PDF, preferring the embedded text
// layer unless forceOCR is set or the layer turns out to be empty.
func (e *Extractor) ExtractPDF(ctx context.Context, path string, forceOCR bool, langs []string) (Result, error) {
	start := time.Now()
	lang := e.langArg(langs)

	if !forceOCR {
		text, pages, warns, err := e.pdfToText(ctx, path)
		if err == nil && strings.TrimSpace(text) != "" {
			return Result{
				Text:     text,
				Pages:    pages,
				Method:   "pdf-text",
				Language: lang,
				Duration: time.Since(start),
				Warnings: warns,
			}, nil
		}
		if err != nil {
			e.logger.Debug("ocr.pdftotext.fallback", "path", path, "error", err)
		}
	}

	text, pages, warns, err := e.pdfToOCR(ctx, path, lang)
	return Result{
		Text:     text,
		Pages:    pages,
		Method:   "pdf-ocr",
		Language: lang,
		Duration: time.Since(start),
		Warnings: warns,
	}, err
}

// ExtractImage runs OCR over a single raster image.
func (e *Extractor) ExtractImage(ctx context.Context, path string, langs []string) (Result, error) {
	start := time.Now()
	lang := e.langArg(langs)
	text, warns, err := e.tesseractOCR(ctx, path, lang)
	if err != nil {
		return Result{Method: "image-ocr", Language: lang, Warnings: warns}, err
	}
	return Result{
		Text:     text,
		Pages:    1,
		Method:   "image-ocr",
		Language: lang,
		Duration: time.Since(start),
		Warnings: warns,
	}, nil
}
