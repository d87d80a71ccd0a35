package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/parser"
	"golang.org/x/sync/errgroup"
)

// BatchReport lists what a directory run did with each input file.
type BatchReport struct {
	Written []string `json:"written"`
	Skipped []string `json:"skipped"`
	Failed  []string `json:"failed"`
}

// BatchRunner writes one <base>.json per supported file in a directory.
// When two inputs share a base name, the first in directory order keeps
// <base>.json and the others write <name>.json with their extension kept.
// A file that fails or is skipped produces no output and does not stop
// the run.
type BatchRunner struct {
	worker      *Worker
	concurrency int
	log         *slog.Logger
}

func NewBatchRunner(worker *Worker, concurrency int, log *slog.Logger) *BatchRunner {
	return &BatchRunner{worker: worker, concurrency: max(concurrency, 1), log: log}
}

// Run processes inDir and writes results to outDir, creating it if needed.
func (b *BatchRunner) Run(ctx context.Context, inDir, outDir string) (BatchReport, error) {
	entries, err := os.ReadDir(inDir)
	if err != nil {
		return BatchReport{}, fmt.Errorf("read input dir: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return BatchReport{}, fmt.Errorf("create output dir: %w", err)
	}

	var (
		mu     sync.Mutex
		report BatchReport
	)
	note := func(list *[]string, name string) {
		mu.Lock()
		*list = append(*list, name)
		mu.Unlock()
	}

	var inputs []string
	for _, e := range entries {
		if !e.IsDir() && parser.IsSupportedExtension(e.Name()) {
			inputs = append(inputs, e.Name())
		}
	}
	outNames := outputNames(inputs)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for _, name := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			log := b.log.With("filename", name)
			log.Info("processing")

			data, err := os.ReadFile(filepath.Join(inDir, name))
			if err != nil {
				log.Error("read failed", "error", err)
				note(&report.Failed, name)
				return nil
			}
			out, err := b.worker.Outline(gctx, name, data)
			switch out.Status {
			case StatusSkipped:
				log.Info("skipped", "reason", err)
				note(&report.Skipped, name)
				return nil
			case StatusFailed:
				log.Error("outline failed", "error", err)
				note(&report.Failed, name)
				return nil
			}

			path := filepath.Join(outDir, outNames[name])
			if err := WriteResultFile(path, out.Result); err != nil {
				return err
			}
			log.Info("wrote outline", "path", path)
			note(&report.Written, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	slices.Sort(report.Written)
	slices.Sort(report.Skipped)
	slices.Sort(report.Failed)
	return report, nil
}

// outputNames assigns each input its output file name. os.ReadDir order is
// sorted, so the assignment does not depend on which goroutine runs first.
func outputNames(inputs []string) map[string]string {
	names := make(map[string]string, len(inputs))
	taken := make(map[string]bool, len(inputs))
	for _, name := range inputs {
		out := strings.TrimSuffix(name, filepath.Ext(name)) + ".json"
		if taken[out] {
			out = name + ".json"
		}
		for i := 2; taken[out]; i++ {
			out = fmt.Sprintf("%s.%d.json", name, i)
		}
		taken[out] = true
		names[name] = out
	}
	return names
}

// EncodeResult renders a result as 4-space indented JSON without HTML
// escaping.
func EncodeResult(res doctree.Result) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(res); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func WriteResultFile(path string, res doctree.Result) error {
	data, err := EncodeResult(res)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
