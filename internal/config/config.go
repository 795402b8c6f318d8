// Package config parses the map[string]string configuration surface
// (§3 of the core spec) into the typed Config structs consumed by
// internal/planning and internal/rewrite.
//
// Reference: internal/options/file.go's switch-on-key parsing idiom,
// adapted from an io.Reader/OPTIONS-file source to a map source.
package config

import (
	"fmt"
	"strconv"

	"github.com/aalhour/tablepack/internal/planning"
	"github.com/aalhour/tablepack/internal/rewrite"
)

// Recognized keys in the configuration surface.
const (
	KeyTargetFileSizeBytes       = "target-file-size-bytes"
	KeyMinFileSizeBytes          = "min-file-size-bytes"
	KeyMaxFileSizeBytes          = "max-file-size-bytes"
	KeyMinInputFiles             = "min-input-files"
	KeyMaxFileGroupSizeBytes     = "max-file-group-size-bytes"
	KeyMaxConcurrentActions      = "max-concurrent-file-group-actions"
	KeyPartialProgressEnabled    = "partial-progress.enabled"
	KeyPartialProgressMaxCommits = "partial-progress.max-commits"
)

var recognizedKeys = map[string]bool{
	KeyTargetFileSizeBytes:       true,
	KeyMinFileSizeBytes:          true,
	KeyMaxFileSizeBytes:          true,
	KeyMinInputFiles:             true,
	KeyMaxFileGroupSizeBytes:     true,
	KeyMaxConcurrentActions:      true,
	KeyPartialProgressEnabled:    true,
	KeyPartialProgressMaxCommits: true,
}

// ValidationError reports a problem with one key of the configuration
// surface.
type ValidationError struct {
	Key    string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Key, e.Reason)
}

// Parsed holds the typed configuration derived from a raw
// map[string]string surface, ready to hand to planning.NewPlanner and
// rewrite.NewOrchestrator.
type Parsed struct {
	Planning planning.Config
	Rewrite  rewrite.Config
}

// Parse validates raw against the recognized key set and converts it
// into a Parsed configuration. Unknown keys are rejected; recognized
// keys that fail to parse as their expected type are also rejected.
// Missing keys are left at their zero value, which planning.NewConfig
// and rewrite.NewConfig may default or reject in turn.
func Parse(raw map[string]string) (Parsed, error) {
	for key := range raw {
		if !recognizedKeys[key] {
			return Parsed{}, &ValidationError{Key: key, Reason: "unrecognized configuration key"}
		}
	}

	var p Parsed

	target, err := parseInt64(raw, KeyTargetFileSizeBytes)
	if err != nil {
		return Parsed{}, err
	}
	p.Planning.TargetFileSize = target

	minSize, err := parseInt64(raw, KeyMinFileSizeBytes)
	if err != nil {
		return Parsed{}, err
	}
	p.Planning.MinFileSize = minSize

	maxSize, err := parseInt64(raw, KeyMaxFileSizeBytes)
	if err != nil {
		return Parsed{}, err
	}
	p.Planning.MaxFileSize = maxSize

	maxGroupSize, err := parseInt64(raw, KeyMaxFileGroupSizeBytes)
	if err != nil {
		return Parsed{}, err
	}
	p.Planning.MaxGroupSize = maxGroupSize

	minInputFiles, err := parseInt(raw, KeyMinInputFiles)
	if err != nil {
		return Parsed{}, err
	}
	p.Planning.MinInputFiles = minInputFiles

	maxConcurrent, err := parseInt(raw, KeyMaxConcurrentActions)
	if err != nil {
		return Parsed{}, err
	}
	p.Rewrite.MaxConcurrentGroups = maxConcurrent

	enabled, err := parseBool(raw, KeyPartialProgressEnabled)
	if err != nil {
		return Parsed{}, err
	}
	p.Rewrite.PartialProgressEnabled = enabled

	maxCommits, err := parseInt(raw, KeyPartialProgressMaxCommits)
	if err != nil {
		return Parsed{}, err
	}
	p.Rewrite.MaxCommits = maxCommits

	return p, nil
}

func parseInt64(raw map[string]string, key string) (int64, error) {
	v, ok := raw[key]
	if !ok || v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, &ValidationError{Key: key, Reason: "must be an integer"}
	}
	return n, nil
}

func parseInt(raw map[string]string, key string) (int, error) {
	v, ok := raw[key]
	if !ok || v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ValidationError{Key: key, Reason: "must be an integer"}
	}
	return n, nil
}

func parseBool(raw map[string]string, key string) (bool, error) {
	v, ok := raw[key]
	if !ok || v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, &ValidationError{Key: key, Reason: "must be a boolean"}
	}
	return b, nil
}
