package planning

import (
	"errors"
	"fmt"
)

// Config recognizes the planner options from the core spec's
// configuration surface: target-file-size-bytes, min-file-size-bytes,
// max-file-size-bytes, min-input-files, max-file-group-size-bytes.
// internal/config turns the string-keyed config surface into a Config;
// callers constructing one directly should go through NewConfig so
// defaults are applied consistently.
type Config struct {
	// TargetFileSize is the desired post-compaction file size. Required.
	TargetFileSize int64

	// MinFileSize is the lower bound of the well-sized band. Defaults
	// to 0.75 * TargetFileSize when zero.
	MinFileSize int64

	// MaxFileSize is the upper bound of the well-sized band. Defaults
	// to 1.80 * TargetFileSize when zero.
	MaxFileSize int64

	// MaxGroupSize bounds the total size of any packed group (aside
	// from a lone oversize task).
	MaxGroupSize int64

	// MinInputFiles is the minimum group size that is always kept
	// regardless of total size. Defaults to 5 when zero.
	MinInputFiles int
}

// ErrInvalidConfig wraps every configuration invariant violation so
// callers can detect a planner configuration error with errors.Is.
var ErrInvalidConfig = errors.New("planning: invalid configuration")

// NewConfig applies defaults to cfg and validates the result.
// MinFileSize defaults to 0.75*TargetFileSize, MaxFileSize to
// 1.80*TargetFileSize, and MinInputFiles to 5, whenever the
// corresponding field is the zero value.
func NewConfig(cfg Config) (Config, error) {
	if cfg.TargetFileSize <= 0 {
		return Config{}, invalidf("target-file-size-bytes must be positive, got %d", cfg.TargetFileSize)
	}
	if cfg.MinFileSize == 0 {
		cfg.MinFileSize = int64(float64(cfg.TargetFileSize) * 0.75)
	}
	if cfg.MaxFileSize == 0 {
		cfg.MaxFileSize = int64(float64(cfg.TargetFileSize) * 1.80)
	}
	if cfg.MinInputFiles == 0 {
		cfg.MinInputFiles = 5
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants from the core spec's data model:
// minFileSize >= 0, minFileSize < targetFileSize < maxFileSize, and
// minInputFiles >= 1. MaxGroupSize must be positive, since it bounds
// the packer's bin size.
func (c Config) Validate() error {
	if c.MinFileSize < 0 {
		return invalidf("min-file-size-bytes must be >= 0, got %d", c.MinFileSize)
	}
	if !(c.MinFileSize < c.TargetFileSize) {
		return invalidf("min-file-size-bytes (%d) must be less than target-file-size-bytes (%d)", c.MinFileSize, c.TargetFileSize)
	}
	if !(c.TargetFileSize < c.MaxFileSize) {
		return invalidf("target-file-size-bytes (%d) must be less than max-file-size-bytes (%d)", c.TargetFileSize, c.MaxFileSize)
	}
	if c.MinInputFiles < 1 {
		return invalidf("min-input-files must be >= 1, got %d", c.MinInputFiles)
	}
	if c.MaxGroupSize <= 0 {
		return invalidf("max-file-group-size-bytes must be positive, got %d", c.MaxGroupSize)
	}
	return nil
}

// writeMaxFileSize is the ceiling used by NumOutputFiles and SplitSize
// to intentionally write slightly above TargetFileSize, absorbing
// serialization expansion and avoiding sliver remainder files.
func (c Config) writeMaxFileSize() int64 {
	return c.TargetFileSize + (c.MaxFileSize-c.TargetFileSize)/2
}

func invalidf(format string, args ...any) error {
	return &configError{msg: fmt.Sprintf(format, args...)}
}

type configError struct {
	msg string
}

func (e *configError) Error() string { return "planning: " + e.msg }

func (e *configError) Unwrap() error { return ErrInvalidConfig }
