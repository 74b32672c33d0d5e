package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"docfusion/internal/document"
)

// PDFTextAdapter reads the embedded text layer of a PDF. It is fast and
// needs no model inference, but yields empty text on scanned-only
// documents; that is reported as an ok attempt, not a failure.
type PDFTextAdapter struct {
	logger *slog.Logger
}

func NewPDFTextAdapter(logger *slog.Logger) *PDFTextAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFTextAdapter{logger: logger}
}

func (a *PDFTextAdapter) Name() document.Backend { return document.BackendPDFText }

func (a *PDFTextAdapter) Available() bool { return true }

func (a *PDFTextAdapter) Attempt(ctx context.Context, doc document.Document, _ Options) Attempt {
	start := time.Now()

	f, r, err := pdf.Open(doc.Path)
	if err != nil {
		return failedf(document.BackendPDFText, "open pdf: %w", err)
	}
	defer f.Close()

	att := Attempt{Backend: document.BackendPDFText, Status: StatusOK}
	total := r.NumPage()
	att.Metadata.PageCount = total

	var full strings.Builder
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return failed(document.BackendPDFText, err)
		}
		text, err := readPageText(r, i)
		if err != nil {
			att.Warnings = append(att.Warnings, fmt.Sprintf("page %d: %v", i, err))
			text = ""
		}
		att.Pages = append(att.Pages, Page{Number: i, Text: text})
		if text != "" {
			if full.Len() > 0 {
				full.WriteString("\n\f\n")
			}
			full.WriteString(text)
		}
	}
	att.Text = full.String()

	// a scanned-only PDF legitimately produces no text at all
	if strings.TrimSpace(att.Text) == "" {
		att.Text = ""
		att.Pages = nil
	}

	a.fillInfo(doc.Path, &att)
	att.Elapsed = time.Since(start)
	return att
}

// readPageText isolates the third-party parser; it is known to panic on
// some malformed content streams.
func readPageText(r *pdf.Reader, pageNr int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("text layer parse panic: %v", rec)
		}
	}()
	p := r.Page(pageNr)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}

// fillInfo reads document info (title, author, page count) from the PDF
// catalog. Failures only cost metadata, never the attempt.
func (a *PDFTextAdapter) fillInfo(path string, att *Attempt) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	info, err := api.PDFInfo(f, path, nil, false, model.NewDefaultConfiguration())
	if err != nil {
		a.logger.Debug("extract.pdftext.info_failed", "path", path, "error", err)
		return
	}
	att.Metadata.Title = strings.TrimSpace(info.Title)
	att.Metadata.Author = strings.TrimSpace(info.Author)
	if info.PageCount > 0 {
		att.Metadata.PageCount = info.PageCount
	}
}
