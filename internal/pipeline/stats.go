package pipeline

import (
	"slices"
	"sync"
	"time"
)

type outcome struct {
	at      time.Time
	status  JobStatus
	elapsed time.Duration
}

// LatencySnapshot summarizes analysis times of completed documents.
type LatencySnapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// StatsSnapshot is a point-in-time view of recent document outcomes.
type StatsSnapshot struct {
	Documents int               `json:"documents"`
	ByStatus  map[JobStatus]int `json:"by_status"`
	// Slow counts documents that ran past the soft processing budget.
	Slow    int             `json:"slow"`
	Latency LatencySnapshot `json:"latency"`
}

// ProcessingStats records terminal job outcomes inside a rolling window.
type ProcessingStats struct {
	mu        sync.Mutex
	outcomes  []outcome
	window    time.Duration
	slowAfter time.Duration
}

func NewProcessingStats(window, slowAfter time.Duration) *ProcessingStats {
	if window <= 0 {
		window = time.Hour
	}
	return &ProcessingStats{
		outcomes:  make([]outcome, 0, 256),
		window:    window,
		slowAfter: slowAfter,
	}
}

// Record adds one finished document.
func (s *ProcessingStats) Record(status JobStatus, elapsed time.Duration) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.outcomes = append(s.outcomes, outcome{at: now, status: status, elapsed: max(elapsed, 0)})
}

func (s *ProcessingStats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	snap := StatsSnapshot{
		Documents: len(s.outcomes),
		ByStatus:  make(map[JobStatus]int),
	}

	var ms []int64
	for _, o := range s.outcomes {
		snap.ByStatus[o.status]++
		if s.slowAfter > 0 && o.elapsed > s.slowAfter {
			snap.Slow++
		}
		if o.status == StatusCompleted {
			ms = append(ms, o.elapsed.Milliseconds())
		}
	}
	snap.Latency = latency(ms)
	return snap
}

func (s *ProcessingStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	s.outcomes = slices.DeleteFunc(s.outcomes, func(o outcome) bool {
		return o.at.Before(cutoff)
	})
}

func latency(ms []int64) LatencySnapshot {
	if len(ms) == 0 {
		return LatencySnapshot{}
	}
	slices.Sort(ms)
	var sum int64
	for _, v := range ms {
		sum += v
	}
	return LatencySnapshot{
		Count: len(ms),
		MinMs: ms[0],
		MaxMs: ms[len(ms)-1],
		AvgMs: float64(sum) / float64(len(ms)),
		P50Ms: percentile(ms, 50),
		P95Ms: percentile(ms, 95),
		P99Ms: percentile(ms, 99),
	}
}

// percentile interpolates linearly between the two nearest ranks.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}

	index := float64(len(sorted)-1) * pct / 100
	lower := int(index)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*(index-float64(lower))
}
