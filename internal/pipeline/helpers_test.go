package pipeline

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dgallion1/docoutline/internal/structure"
)

const handbookMD = `# Handbook

Welcome to the handbook. This paragraph explains what the handbook covers and who should read it.

## Setup

Install the tools, clone the repository, and read the contributing guide before opening a change.

## Usage

Run the command against a directory of documents and collect the generated outline files afterwards.
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestWorker(t *testing.T, cacheSize int) (*Worker, *ProcessingStats) {
	t.Helper()
	cache, err := NewResultCache(cacheSize)
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	stats := NewProcessingStats(time.Hour, 10*time.Second)
	analyzer := structure.NewAnalyzer(structure.DefaultConfig())
	return NewWorker(analyzer, cache, stats, discardLogger(), 10*time.Second), stats
}
