package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/structure"
)

// Outcome is what one document produced.
type Outcome struct {
	Result  doctree.Result
	Status  JobStatus
	Pages   int
	Spans   int
	Elapsed time.Duration
}

// Worker parses and analyzes documents. It holds no per-document state.
type Worker struct {
	analyzer *structure.Analyzer
	cache    *ResultCache
	stats    *ProcessingStats
	log      *slog.Logger

	// timeout is a soft budget: overruns are logged, never aborted.
	timeout time.Duration
}

func NewWorker(analyzer *structure.Analyzer, cache *ResultCache, stats *ProcessingStats, log *slog.Logger, timeout time.Duration) *Worker {
	return &Worker{
		analyzer: analyzer,
		cache:    cache,
		stats:    stats,
		log:      log,
		timeout:  timeout,
	}
}

// Process runs one queued job to a terminal status.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	out, err := w.run(ctx, job.Filename, job.FileData(), job.ContentHash, func(s JobStatus) {
		job.SetStatus(s, string(s))
	})
	job.SetParsed(out.Pages, out.Spans)

	switch out.Status {
	case StatusFailed:
		log.Error("outline failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "failed")
	case StatusSkipped:
		log.Info("document skipped", "reason", err)
		job.AddError(err.Error())
		job.SetStatus(StatusSkipped, "skipped")
	default:
		job.SetResult(out.Result, out.Elapsed)
		job.SetStatus(out.Status, "done")
	}
}

// Outline processes one document synchronously.
func (w *Worker) Outline(ctx context.Context, filename string, data []byte) (Outcome, error) {
	return w.run(ctx, filename, data, ContentHashHex(data), nil)
}

func (w *Worker) run(ctx context.Context, filename string, data []byte, hash string, phase func(JobStatus)) (out Outcome, err error) {
	start := time.Now()
	log := w.log.With("filename", filename)
	defer func() {
		out.Elapsed = time.Since(start)
		if w.timeout > 0 && out.Elapsed > w.timeout {
			log.Warn("document exceeded processing budget", "elapsed", out.Elapsed, "budget", w.timeout)
		}
		if w.stats != nil {
			w.stats.Record(out.Status, out.Elapsed)
		}
	}()
	if phase == nil {
		phase = func(JobStatus) {}
	}

	key := cacheKey(hash, filename)
	if res, ok := w.cache.Get(key); ok {
		log.Debug("cache hit", "content_hash", hash)
		return Outcome{Result: res, Status: StatusCached}, nil
	}

	phase(StatusParsing)
	p, err := parser.ForFile(filename, parser.Options{MaxPages: w.analyzer.Config().MaxPages})
	if err != nil {
		return Outcome{Status: StatusFailed}, err
	}
	stream, err := p.Parse(bytes.NewReader(data), filename)
	if errors.Is(err, parser.ErrPageLimit) {
		return Outcome{Status: StatusSkipped}, err
	}
	if err != nil {
		return Outcome{Status: StatusFailed}, fmt.Errorf("parse: %w", err)
	}
	out = Outcome{Pages: stream.PageCount, Spans: len(stream.Spans)}

	if err := ctx.Err(); err != nil {
		out.Status = StatusFailed
		return out, err
	}

	phase(StatusAnalyzing)
	out.Result = w.analyzer.Infer(stream)
	out.Status = StatusCompleted
	w.cache.Add(key, out.Result)

	log.Info("outline complete",
		"pages", out.Pages,
		"spans", out.Spans,
		"headings", len(out.Result.Outline),
		"title", out.Result.Title,
	)
	return out, nil
}

// cacheKey pairs the content hash with the extension, since the same bytes
// outline differently as markdown and as plain text.
func cacheKey(hash, filename string) string {
	return hash + ":" + strings.ToLower(filepath.Ext(filename))
}
