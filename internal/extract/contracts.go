package extract

import (
	"context"
	"fmt"
	"time"

	"docfusion/internal/document"
	"docfusion/internal/images"
	"docfusion/internal/llm"
	"docfusion/internal/tables"
)

// Status is one backend attempt's outcome.
type Status string

const (
	StatusOK          Status = "ok"
	StatusFailed      Status = "failed"
	StatusUnavailable Status = "unavailable"
)

// Options are the per-request extraction tunables. No adapter consults
// global state; everything it needs arrives here.
type Options struct {
	ForceOCR   bool
	Languages  []string
	CharBudget int
	RowCap     int

	// Disabled backends are skipped by the pipeline without running.
	Disabled []document.Backend
}

// BackendDisabled reports whether the request switched a backend off.
func (o Options) BackendDisabled(b document.Backend) bool {
	for _, d := range o.Disabled {
		if d == b {
			return true
		}
	}
	return false
}

// Page is one page's extracted content.
type Page struct {
	Number int             `json:"page_number"`
	Text   string          `json:"text"`
	Tables []tables.Record `json:"tables,omitempty"`
	Images []images.Record `json:"images,omitempty"`
}

// Metadata carries document-level fields a backend was able to report.
type Metadata struct {
	Title     string
	Author    string
	Language  string
	PageCount int
}

// Attempt is one backend's outcome for a document. Adapters never
// return errors; failures are folded into the attempt itself.
type Attempt struct {
	Backend  document.Backend
	Status   Status
	Text     string
	Pages    []Page
	Tables   []tables.Record
	Images   []images.Record
	Metadata Metadata
	Analysis *llm.Analysis
	Error    string
	Warnings []string
	Elapsed  time.Duration
}

// Adapter is one extraction capability. Attempt must never panic past
// its own boundary and must honor ctx cancellation on anything that
// crosses a process or network boundary.
type Adapter interface {
	Name() document.Backend
	Available() bool
	Attempt(ctx context.Context, doc document.Document, opts Options) Attempt
}

func failed(backend document.Backend, err error) Attempt {
	return Attempt{Backend: backend, Status: StatusFailed, Error: err.Error()}
}

func failedf(backend document.Backend, format string, args ...any) Attempt {
	return failed(backend, fmt.Errorf(format, args...))
}

func unavailable(backend document.Backend, reason string) Attempt {
	return Attempt{Backend: backend, Status: StatusUnavailable, Error: reason}
}
