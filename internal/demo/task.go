// Package demo provides a minimal, real-filesystem-backed
// implementation of planning.ScanTask and rewrite.Rewriter. It exists
// to exercise internal/planning and internal/rewrite end to end; the
// catalog, snapshot commit log and cluster execution engine a
// production system would use instead are out of scope (see SPEC_FULL.md §1).
//
// Reference: grounded in the capability-record shape of
// internal/rewrite and on github.com/natefinch/atomic for the durable
// manifest write, mirrored from calvinalkan-agent-task's
// atomic.WriteFile usage for crash-safe file replacement.
package demo

import (
	"os"

	"github.com/aalhour/tablepack/internal/planning"
)

// fileTask is a planning.ScanTask backed by one file on disk.
type fileTask struct {
	path      string
	size      int64
	partition string
}

// NewFileTask stats path and returns a ScanTask for it, partitioned by
// partition (an opaque key; planning groups tasks with equal
// partitions together).
func NewFileTask(path, partition string) (planning.ScanTask, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return fileTask{path: path, size: info.Size(), partition: partition}, nil
}

func (t fileTask) Length() int64  { return t.size }
func (t fileTask) Partition() any { return t.partition }

// Path returns the backing file's path.
func (t fileTask) Path() string { return t.path }
