package rewrite

import "fmt"

// Config recognizes the orchestrator options from the core spec's
// configuration surface: max-concurrent-file-group-actions,
// partial-progress.enabled, partial-progress.max-commits.
type Config struct {
	// MaxConcurrentGroups bounds the rewrite worker pool. Must be >= 1.
	MaxConcurrentGroups int

	// PartialProgressEnabled selects partial-progress mode over
	// all-or-nothing mode.
	PartialProgressEnabled bool

	// MaxCommits bounds the number of commit batches in
	// partial-progress mode. Required (>= 1) when
	// PartialProgressEnabled is true; ignored otherwise.
	MaxCommits int
}

// NewConfig validates cfg.
func NewConfig(cfg Config) (Config, error) {
	if cfg.MaxConcurrentGroups < 1 {
		return Config{}, fmt.Errorf("rewrite: max-concurrent-file-group-actions must be >= 1, got %d", cfg.MaxConcurrentGroups)
	}
	if cfg.PartialProgressEnabled && cfg.MaxCommits < 1 {
		return Config{}, fmt.Errorf("rewrite: partial-progress.max-commits must be >= 1 when partial-progress.enabled is true, got %d", cfg.MaxCommits)
	}
	return cfg, nil
}
