// Package rewrite implements the rewrite orchestrator: given the groups
// produced by internal/planning, it coordinates concurrent execution of
// a Rewriter across two failure-handling modes — all-or-nothing and
// partial-progress — and returns a map of the groups that successfully
// committed.
//
// Reference: §4.4/§5 of the core spec. Unlike the planner, the
// orchestrator has no direct analogue in the storage-engine teacher
// (its compactions run synchronously, one at a time); the bounded
// worker pool shape is grounded in the pack's own
// errgroup.WithContext + SetLimit idiom instead.
package rewrite

import (
	"context"

	"github.com/aalhour/tablepack/internal/planning"
)

// Rewriter is the capability record the orchestrator drives. There is
// no inheritance hierarchy: a concrete type satisfies Rewriter by
// implementing these three methods, typically backed by whatever owns
// the actual table format (out of scope for this module — see
// internal/demo for a minimal stand-in).
type Rewriter interface {
	// Rewrite processes one group's tasks and returns how many new
	// files it produced. It may block for the duration of the
	// rewrite and may return an error.
	Rewrite(ctx context.Context, groupID string, tasks []planning.ScanTask) (addedFiles int, err error)

	// Commit atomically finalizes the given groups together. It may
	// return an error; it must not partially apply.
	Commit(ctx context.Context, groupIDs []string) error

	// Abort best-effort cleans up a written-but-uncommitted group.
	// It must be idempotent; errors are logged and suppressed by the
	// orchestrator.
	Abort(ctx context.Context, groupID string) error
}
