package demo

import (
	"os"
	"path/filepath"

	"github.com/aalhour/tablepack/internal/planning"
)

// DirSource builds a planning.ScanTaskSource over every regular file
// directly inside dir, partitioned by partitionFn (or a constant
// partition if partitionFn is nil).
func DirSource(dir string, partitionFn func(path string) string) (planning.ScanTaskSource, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*"))
	if err != nil {
		return nil, err
	}
	if partitionFn == nil {
		partitionFn = func(string) string { return "default" }
	}

	tasks := make([]planning.ScanTask, 0, len(entries))
	for _, path := range entries {
		if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
			continue // not a regular file, or vanished since Glob; skip
		}
		task, err := NewFileTask(path, partitionFn(path))
		if err != nil {
			continue // vanished between Glob and Stat; skip
		}
		tasks = append(tasks, task)
	}
	return planning.NewSliceSource(tasks), nil
}
