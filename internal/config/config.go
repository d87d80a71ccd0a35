package config

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/structure"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Auth. Empty disables bearer auth on /api routes.
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL    time.Duration
	CacheSize int

	// ProcessTimeout is a soft budget per document; overruns are logged.
	ProcessTimeout time.Duration

	LogLevel slog.Level

	// Heuristics
	GrowthThreshold   float64
	BoldSizeTolerance float64
	MinHeadingLength  int
	MaxHeadingLength  int
	ProseMinWords     int
	MaxLevel          int
	TitleSearchRatio  float64
	MaxPages          int
	NoisePatterns     []string
	NumberedLevels    bool
	MergeLineGap      float64
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win.
func Load() Config {
	_ = godotenv.Load()

	def := structure.DefaultConfig()
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL:    envDuration("JOB_TTL", 1*time.Hour),
		CacheSize: envInt("CACHE_SIZE", 256),

		ProcessTimeout: envDuration("PROCESS_TIMEOUT", 10*time.Second),

		LogLevel: envLevel("LOG_LEVEL", slog.LevelInfo),

		GrowthThreshold:   envFloat("GROWTH_THRESHOLD", def.GrowthThreshold),
		BoldSizeTolerance: envFloat("BOLD_SIZE_TOLERANCE", def.BoldSizeTolerance),
		MinHeadingLength:  envInt("MIN_HEADING_LENGTH", def.MinLength),
		MaxHeadingLength:  envInt("MAX_HEADING_LENGTH", def.MaxLength),
		ProseMinWords:     envInt("PROSE_MIN_WORDS", def.ProseMinWords),
		MaxLevel:          envInt("MAX_LEVEL", int(def.MaxLevel)),
		TitleSearchRatio:  envFloat("TITLE_SEARCH_RATIO", def.TitleSearchRatio),
		MaxPages:          envInt("MAX_PAGES", def.MaxPages),
		NoisePatterns:     envList("NOISE_PATTERNS", ";"),
		NumberedLevels:    envBool("NUMBERED_LEVELS", def.NumberedLevels),
		MergeLineGap:      envFloat("MERGE_LINE_GAP", def.MergeLineGap),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 256
	}
	if cfg.ProcessTimeout <= 0 {
		cfg.ProcessTimeout = 10 * time.Second
	}

	return cfg
}

// Heuristics builds the analyzer configuration. Extra noise patterns are
// appended to the built-in ones.
func (c Config) Heuristics() (structure.Config, error) {
	h := structure.DefaultConfig()
	h.GrowthThreshold = c.GrowthThreshold
	h.BoldSizeTolerance = c.BoldSizeTolerance
	h.MinLength = c.MinHeadingLength
	h.MaxLength = c.MaxHeadingLength
	h.ProseMinWords = c.ProseMinWords
	h.MaxLevel = doctree.Level(c.MaxLevel)
	h.BoldOnlyLevel = min(h.BoldOnlyLevel, h.MaxLevel)
	h.TitleSearchRatio = c.TitleSearchRatio
	h.MaxPages = c.MaxPages
	h.NumberedLevels = c.NumberedLevels
	h.MergeLineGap = c.MergeLineGap

	for _, p := range c.NoisePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return structure.Config{}, fmt.Errorf("NOISE_PATTERNS %q: %w", p, err)
		}
		h.NoisePatterns = append(h.NoisePatterns, re)
	}

	if err := h.Validate(); err != nil {
		return structure.Config{}, err
	}
	return h, nil
}

func (c Config) Validate() error {
	if _, err := c.Heuristics(); err != nil {
		return fmt.Errorf("heuristics: %w", err)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(v)); err == nil {
			return l
		}
	}
	return fallback
}

func envList(key, sep string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
