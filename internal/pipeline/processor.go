package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"docfusion/constants"
	"docfusion/internal/common"
	"docfusion/internal/document"
	"docfusion/internal/extract"
	"docfusion/internal/fusion"
	"docfusion/internal/repository"
)

// Processor coordinates dispatch, the backend attempts and fusion.
type Processor struct {
	cfg      common.PipelineConfig
	adapters map[document.Backend]extract.Adapter
	store    *repository.JobStore
	logger   *slog.Logger
}

// NewProcessor wires the adapter set. The job store is optional; a nil
// store disables the audit trail.
func NewProcessor(cfg common.PipelineConfig, adapters []extract.Adapter, store *repository.JobStore, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	byName := make(map[document.Backend]extract.Adapter, len(adapters))
	for _, a := range adapters {
		byName[a.Name()] = a
	}
	return &Processor{cfg: cfg, adapters: byName, store: store, logger: logger}
}

// Adapters returns the registered adapters, for capability reporting.
func (p *Processor) Adapters() map[document.Backend]extract.Adapter {
	return p.adapters
}

// Process runs the full extraction pipeline for one document. Backends
// run concurrently under a bounded worker pool; results are indexed by
// dispatch position so fusion precedence stays deterministic regardless
// of completion order.
func (p *Processor) Process(ctx context.Context, doc document.Document, opts extract.Options) (*fusion.Result, error) {
	start := time.Now()
	if opts.CharBudget <= 0 {
		opts.CharBudget = p.cfg.CharBudget
	}
	if opts.RowCap <= 0 {
		opts.RowCap = p.cfg.TableRowCap
	}

	backends, warnings := document.Dispatch(doc)
	p.logger.Info("pipeline.dispatch",
		"file", doc.Filename, "format", string(doc.Format), "backends", backendNames(backends))

	attempts := make([]extract.Attempt, len(backends))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.WorkerLimit)
	for i, b := range backends {
		i, b := i, b
		g.Go(func() error {
			attempts[i] = p.runBackend(gctx, b, doc, opts)
			return nil
		})
	}
	_ = g.Wait()

	res := fusion.Merge(doc, attempts, opts, warnings, time.Since(start))

	// the treat-as-image fallback for unknown formats is best effort;
	// when it yields nothing the document is rejected outright
	if doc.Format == constants.UNKNOWN && res.ProcessingInfo.Status == fusion.StatusError {
		p.logger.Warn("pipeline.rejected", "file", doc.Filename)
		return nil, document.Reject(doc)
	}

	p.record(ctx, doc, res, backends)
	p.logger.Info("pipeline.done",
		"file", doc.Filename,
		"status", res.ProcessingInfo.Status,
		"pages", len(res.Pages),
		"tables", len(res.Tables),
		"images", len(res.Images),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// runBackend applies the uniform skip/timeout/panic wrapper around one
// adapter attempt. It always returns an attempt, never an error.
func (p *Processor) runBackend(ctx context.Context, b document.Backend, doc document.Document, opts extract.Options) (att extract.Attempt) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("pipeline.backend.panic", "backend", string(b), "panic", fmt.Sprint(r))
			att = extract.Attempt{Backend: b, Status: extract.StatusFailed, Error: fmt.Sprintf("panic: %v", r)}
		}
	}()

	if opts.BackendDisabled(b) {
		return extract.Attempt{Backend: b, Status: extract.StatusUnavailable, Error: "disabled by request"}
	}
	adapter, ok := p.adapters[b]
	if !ok {
		return extract.Attempt{Backend: b, Status: extract.StatusUnavailable, Error: "no adapter registered"}
	}
	if !adapter.Available() {
		p.logger.Warn("pipeline.backend.unavailable", "backend", string(b))
		return extract.Attempt{Backend: b, Status: extract.StatusUnavailable, Error: "backend not configured"}
	}

	actx, cancel := context.WithTimeout(ctx, p.cfg.BackendTimeout)
	defer cancel()

	att = adapter.Attempt(actx, doc, opts)
	if att.Status == extract.StatusFailed && errors.Is(actx.Err(), context.DeadlineExceeded) {
		att.Error = "timeout"
	}

	switch att.Status {
	case extract.StatusFailed:
		p.logger.Warn("pipeline.backend.failed", "backend", string(b), "error", att.Error)
	default:
		p.logger.Debug("pipeline.backend.done",
			"backend", string(b), "status", string(att.Status),
			"chars", len(att.Text), "duration_ms", att.Elapsed.Milliseconds())
	}
	return att
}

func (p *Processor) record(ctx context.Context, doc document.Document, res *fusion.Result, backends []document.Backend) {
	if p.store == nil {
		return
	}
	status := constants.JobStatusSucceeded
	if res.ProcessingInfo.Status == fusion.StatusError {
		status = constants.JobStatusFailed
	}
	job := repository.Job{
		Filename:  doc.Filename,
		Format:    string(doc.Format),
		Status:    status,
		Backends:  backendNames(backends),
		ElapsedMS: int64(res.ProcessingInfo.ElapsedSeconds * 1000),
	}
	if err := p.store.Record(ctx, job); err != nil {
		p.logger.Warn("pipeline.job_record.failed", "error", err)
	}
}

func backendNames(backends []document.Backend) []string {
	out := make([]string, 0, len(backends))
	for _, b := range backends {
		out = append(out, string(b))
	}
	return out
}
