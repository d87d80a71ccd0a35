package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/structure"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "docoutline",
		Short:         "Infer a title and H1-H4 outline from document typography",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newFileCommand())
	return cmd
}

func newRunCommand() *cobra.Command {
	var input, output string
	var workers int
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Write <name>.json for every supported document in a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			if workers <= 0 {
				workers = cfg.WorkerCount
			}
			w, err := newWorker(cfg, log)
			if err != nil {
				return err
			}

			start := time.Now()
			report, err := pipeline.NewBatchRunner(w, workers, log).Run(cmd.Context(), input, output)
			if err != nil {
				return err
			}
			log.Info("batch complete",
				"written", len(report.Written),
				"skipped", len(report.Skipped),
				"failed", len(report.Failed),
				"elapsed", time.Since(start),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "/app/input", "Directory of documents to process")
	cmd.Flags().StringVar(&output, "output", "/app/output", "Directory for the JSON outlines")
	cmd.Flags().IntVar(&workers, "workers", 0, "Documents processed in parallel (default WORKER_COUNT)")
	return cmd
}

func newFileCommand() *cobra.Command {
	var tree bool
	cmd := &cobra.Command{
		Use:   "file <path>",
		Short: "Print the outline of one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			w, err := newWorker(cfg, log)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			out, err := w.Outline(cmd.Context(), filepath.Base(args[0]), data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			if tree {
				nodes := out.Result.Outline.Tree()
				if nodes == nil {
					nodes = []*doctree.Node{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "    ")
				enc.SetEscapeHTML(false)
				return enc.Encode(map[string]any{"title": out.Result.Title, "tree": nodes})
			}
			raw, err := pipeline.EncodeResult(out.Result)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		},
	}
	cmd.Flags().BoolVar(&tree, "tree", false, "Nest headings instead of printing a flat outline")
	return cmd
}

// setup loads configuration and builds a JSON logger on stderr so stdout
// stays clean for results.
func setup() (config.Config, *slog.Logger, error) {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	if err := cfg.Validate(); err != nil {
		return cfg, log, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, log, nil
}

func newWorker(cfg config.Config, log *slog.Logger) (*pipeline.Worker, error) {
	heuristics, err := cfg.Heuristics()
	if err != nil {
		return nil, err
	}
	cache, err := pipeline.NewResultCache(cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	stats := pipeline.NewProcessingStats(time.Hour, cfg.ProcessTimeout)
	return pipeline.NewWorker(structure.NewAnalyzer(heuristics), cache, stats, log, cfg.ProcessTimeout), nil
}
