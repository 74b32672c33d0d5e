package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

func (e *Extractor) pdfToText(ctx context.Context, path string) (text string, pages int, warnings []string, err error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", 0, []string{string(errb)}, err
	}
	text = string(out)
	// A form-feed \f is used as page separator by default
	pages = 1 + strings.Count(text, "\f")
	return text, pages, nil, nil
}

// Rasterize renders each PDF page to a PNG and returns the file paths
// in page order. The caller must invoke cleanup when done.
func (e *Extractor) Rasterize(ctx context.Context, path string) (files []string, cleanup func(), err error) {
	tmpDir, err := os.MkdirTemp("", "df-pp-*")
	if err != nil {
		return nil, nil, err
	}
	cleanup = func() { _ = os.RemoveAll(tmpDir) }

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	if _, _, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix); err != nil {
		return nil, cleanup, err
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return nil, cleanup, fmt.Errorf("pdftoppm produced no images")
	}
	return matches, cleanup, nil
}

func (e *Extractor) pdfToOCR(ctx context.Context, path, lang string) (text string, pages int, warnings []string, err error) {
	files, cleanup, err := e.Rasterize(ctx, path)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		return "", 0, nil, err
	}

	var b strings.Builder
	var warns []string
	for _, img := range files {
		txt, w, err := e.tesseractOCR(ctx, img, lang)
		if err != nil {
			warns = append(warns, err.Error())
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n") // keep a clear page break marker
		}
		b.WriteString(txt)
		warns = append(warns, w...)
	}
	pages = len(files)
	return b.String(), pages, warns, nil
}
