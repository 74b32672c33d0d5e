package extract

import (
	"context"
	"strings"

	"docfusion/constants"
	"docfusion/internal/document"
	"docfusion/internal/images"
	"docfusion/internal/ocr"
)

// OCRAdapter runs the external OCR engine. For PDFs it prefers the
// text layer unless force-OCR is requested; images go straight through
// tesseract.
type OCRAdapter struct {
	engine    *ocr.Extractor
	extractor *images.Extractor
}

func NewOCRAdapter(engine *ocr.Extractor, imgExtractor *images.Extractor) *OCRAdapter {
	return &OCRAdapter{engine: engine, extractor: imgExtractor}
}

func (a *OCRAdapter) Name() document.Backend { return document.BackendOCR }

func (a *OCRAdapter) Available() bool {
	return a.engine != nil && a.engine.Available()
}

func (a *OCRAdapter) Attempt(ctx context.Context, doc document.Document, opts Options) Attempt {
	if !a.Available() {
		return unavailable(document.BackendOCR, "ocr binaries not found")
	}

	var res ocr.Result
	var err error
	switch doc.Format {
	case constants.IMAGE:
		res, err = a.engine.ExtractImage(ctx, doc.Path, opts.Languages)
	default:
		res, err = a.engine.ExtractPDF(ctx, doc.Path, opts.ForceOCR, opts.Languages)
	}
	if err != nil {
		att := failed(document.BackendOCR, err)
		att.Warnings = res.Warnings
		return att
	}

	att := Attempt{
		Backend:  document.BackendOCR,
		Status:   StatusOK,
		Text:     res.Text,
		Pages:    splitPages(res.Text),
		Warnings: res.Warnings,
		Elapsed:  res.Duration,
		Metadata: Metadata{Language: res.Language, PageCount: res.Pages},
	}

	// embedded images ride along with the OCR pass for PDFs
	if doc.Format == constants.PDF && a.extractor != nil {
		if imgs, ierr := a.extractor.FromPDF(doc.Path); ierr == nil {
			att.Images = imgs
		} else {
			att.Warnings = append(att.Warnings, "image extraction: "+ierr.Error())
		}
	}
	return att
}

// splitPages turns form-feed separated text into per-page records.
func splitPages(text string) []Page {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	parts := strings.Split(text, "\f")
	pages := make([]Page, 0, len(parts))
	for i, p := range parts {
		pages = append(pages, Page{Number: i + 1, Text: strings.Trim(p, "\n")})
	}
	return pages
}
