package fusion

import (
	"strings"
	"time"

	"docfusion/internal/document"
	"docfusion/internal/extract"
)

// Merge folds backend attempts into one unified result. Fields merge
// a-la-carte, never whole-backend-wins:
//
//   - full text and pages come from the first attempt in dispatch order
//     with non-empty text
//   - metadata fields fill if missing; the first non-empty value wins
//   - tables and images are additive across all attempts
//   - the language-model analysis comes from the vision backend only
//
// The attempts slice must already be in dispatch order.
func Merge(doc document.Document, attempts []extract.Attempt, opts extract.Options, warnings []string, elapsed time.Duration) *Result {
	res := &Result{
		DocumentMetadata: DocumentMetadata{
			Filename:  doc.Filename,
			Timestamp: time.Now().UTC(),
		},
		ProcessingInfo: ProcessingInfo{
			ForceOCR: opts.ForceOCR,
			Warnings: warnings,
		},
	}

	for _, att := range attempts {
		res.ProcessingInfo.Backends = append(res.ProcessingInfo.Backends, BackendReport{
			Backend:        string(att.Backend),
			Status:         string(att.Status),
			ElapsedSeconds: att.Elapsed.Seconds(),
			Error:          att.Error,
			Warnings:       att.Warnings,
		})
		if att.Status != extract.StatusOK {
			continue
		}

		if res.FullText == "" && strings.TrimSpace(att.Text) != "" {
			res.FullText = att.Text
			res.Pages = att.Pages
		}

		fillMetadata(&res.DocumentMetadata, att.Metadata)

		res.Tables = append(res.Tables, att.Tables...)
		res.Images = append(res.Images, att.Images...)

		if res.Analysis == nil && att.Backend == document.BackendVision {
			res.Analysis = att.Analysis
		}
	}

	res.ProcessingInfo.ElapsedSeconds = elapsed.Seconds()
	res.ProcessingInfo.Status = StatusSuccess
	if res.FullText == "" && len(res.Pages) == 0 {
		res.ProcessingInfo.Status = StatusError
	}
	return res
}

// fillMetadata applies fill-if-missing: the first backend to report a
// value keeps it; later backends never overwrite.
func fillMetadata(dst *DocumentMetadata, src extract.Metadata) {
	if dst.Title == "" {
		dst.Title = src.Title
	}
	if dst.Author == "" {
		dst.Author = src.Author
	}
	if dst.Language == "" {
		dst.Language = src.Language
	}
	if dst.PageCount == 0 {
		dst.PageCount = src.PageCount
	}
}
