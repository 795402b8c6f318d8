package demo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	natomic "github.com/natefinch/atomic"

	"github.com/aalhour/tablepack/internal/planning"
)

// FileRewriter implements rewrite.Rewriter over a plain directory: it
// concatenates a group's input files into one staged output file, and
// commits by atomically rewriting a manifest that lists the currently
// live output files. It is a stand-in for the catalog/table-format
// writer a production system would drive instead.
type FileRewriter struct {
	outDir       string
	manifestPath string

	mu     sync.Mutex
	staged map[string]string // groupID -> staged output path, pending Commit
}

// NewFileRewriter returns a FileRewriter writing staged and committed
// output files under outDir, tracking commits in a manifest file at
// manifestPath.
func NewFileRewriter(outDir, manifestPath string) *FileRewriter {
	return &FileRewriter{
		outDir:       outDir,
		manifestPath: manifestPath,
		staged:       make(map[string]string),
	}
}

// Rewrite concatenates the bytes of every task in the group (tasks
// must be fileTask values, as produced by NewFileTask/DirSource) into a
// single staged file named after groupID, and reports it as one added
// file.
func (r *FileRewriter) Rewrite(ctx context.Context, groupID string, tasks []planning.ScanTask) (int, error) {
	var buf bytes.Buffer
	for _, task := range tasks {
		ft, ok := task.(fileTask)
		if !ok {
			return 0, fmt.Errorf("demo: rewrite group %s: task is not a fileTask (%T)", groupID, task)
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		data, err := os.ReadFile(ft.Path())
		if err != nil {
			return 0, fmt.Errorf("demo: rewrite group %s: %w", groupID, err)
		}
		buf.Write(data)
	}

	stagedPath := filepath.Join(r.outDir, "staged-"+groupID+".part")
	if err := natomic.WriteFile(stagedPath, &buf); err != nil {
		return 0, fmt.Errorf("demo: stage output for group %s: %w", groupID, err)
	}

	r.mu.Lock()
	r.staged[groupID] = stagedPath
	r.mu.Unlock()
	return 1, nil
}

// Commit renames every staged output for groupIDs into its final
// location and atomically rewrites the manifest to include them.
func (r *FileRewriter) Commit(ctx context.Context, groupIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	committed := make([]string, 0, len(groupIDs))
	for _, id := range groupIDs {
		stagedPath, ok := r.staged[id]
		if !ok {
			return fmt.Errorf("demo: commit group %s: no staged output", id)
		}
		finalPath := filepath.Join(r.outDir, "committed-"+id+".part")
		if err := os.Rename(stagedPath, finalPath); err != nil {
			return fmt.Errorf("demo: commit group %s: %w", id, err)
		}
		committed = append(committed, finalPath)
	}

	manifest, err := r.readManifestLocked()
	if err != nil {
		return fmt.Errorf("demo: commit: read manifest: %w", err)
	}
	manifest = append(manifest, committed...)
	sort.Strings(manifest)
	if err := r.writeManifestLocked(manifest); err != nil {
		return fmt.Errorf("demo: commit: write manifest: %w", err)
	}

	for _, id := range groupIDs {
		delete(r.staged, id)
	}
	return nil
}

// Abort discards a group's staged output without touching the
// manifest. It is idempotent.
func (r *FileRewriter) Abort(ctx context.Context, groupID string) error {
	r.mu.Lock()
	stagedPath, ok := r.staged[groupID]
	delete(r.staged, groupID)
	r.mu.Unlock()
	if !ok {
		return nil
	}
	if err := os.Remove(stagedPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("demo: abort group %s: %w", groupID, err)
	}
	return nil
}

func (r *FileRewriter) readManifestLocked() ([]string, error) {
	f, err := os.Open(r.manifestPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var lines []string
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		lines = append(lines, string(line))
	}
	return lines, nil
}

func (r *FileRewriter) writeManifestLocked(lines []string) error {
	var buf bytes.Buffer
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return natomic.WriteFile(r.manifestPath, &buf)
}
