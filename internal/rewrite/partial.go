package rewrite

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aalhour/tablepack/internal/logging"
	"github.com/aalhour/tablepack/internal/planning"
)

// completedGroup is handed from a rewrite worker to the committer once
// a group's rewrite has succeeded.
type completedGroup struct {
	info   planning.FileGroupInfo
	result planning.FileGroupResult
}

// runPartialProgress implements partial-progress mode (spec.md §4.4):
// a bounded worker pool rewrites groups without halting on individual
// failures (a failed group is aborted and excluded); a single-threaded
// committer concurrently batches completed groups into commits of up
// to groupsPerCommit, dropping only the groups in a batch whose commit
// fails.
func (o *Orchestrator) runPartialProgress(ctx context.Context, groups []planning.PlannedGroup, rw Rewriter) (map[planning.FileGroupInfo]planning.FileGroupResult, error) {
	results := make(map[planning.FileGroupInfo]planning.FileGroupResult)
	if len(groups) == 0 {
		return results, nil
	}

	groupsPerCommit := ceilDivInt(len(groups), o.cfg.MaxCommits)

	completed := make(chan completedGroup, len(groups))
	var stillRewriting atomic.Bool
	stillRewriting.Store(true)

	var resultsMu sync.Mutex

	workers := &errgroup.Group{}
	workers.SetLimit(o.cfg.MaxConcurrentGroups)
	for _, pg := range groups {
		pg := pg
		workers.Go(func() error {
			added, err := rw.Rewrite(ctx, pg.Info.GroupID, pg.Group.Tasks)
			if err != nil {
				o.logger.Errorf(logging.NSRewrite+"group %s failed, excluding from results: %v", pg.Info.GroupID, err)
				if abortErr := rw.Abort(ctx, pg.Info.GroupID); abortErr != nil {
					o.logger.Warnf(logging.NSAbort+"abort of group %s failed: %v", pg.Info.GroupID, abortErr)
				}
				return nil // individual failures never halt the run
			}
			completed <- completedGroup{
				info:   pg.Info,
				result: planning.FileGroupResult{AddedFilesCount: added, RewrittenFilesCount: len(pg.Group.Tasks)},
			}
			return nil
		})
	}

	committerErr := make(chan error, 1)
	go func() {
		committerErr <- o.runCommitter(ctx, rw, completed, groupsPerCommit, &stillRewriting, results, &resultsMu)
	}()

	_ = workers.Wait() // every worker goroutine above always returns nil
	stillRewriting.Store(false)

	select {
	case err := <-committerErr:
		if err != nil {
			return nil, err
		}
	case <-time.After(CommitterShutdownTimeout):
		return nil, fmt.Errorf("rewrite: committer did not finish within %s", CommitterShutdownTimeout)
	}

	resultsMu.Lock()
	defer resultsMu.Unlock()
	out := make(map[planning.FileGroupInfo]planning.FileGroupResult, len(results))
	for k, v := range results {
		out[k] = v
	}
	return out, nil
}

// runCommitter drains completed in batches of up to groupsPerCommit,
// triggered whenever the queue depth exceeds groupsPerCommit, or
// rewriting has finished and the queue is non-empty. It returns once
// rewriting has finished and the queue is fully drained.
func (o *Orchestrator) runCommitter(
	ctx context.Context,
	rw Rewriter,
	completed chan completedGroup,
	groupsPerCommit int,
	stillRewriting *atomic.Bool,
	results map[planning.FileGroupInfo]planning.FileGroupResult,
	resultsMu *sync.Mutex,
) error {
	ticker := time.NewTicker(committerPollInterval)
	defer ticker.Stop()

	for {
		qlen := len(completed)
		finished := !stillRewriting.Load()

		if qlen > groupsPerCommit || (finished && qlen > 0) {
			batchSize := groupsPerCommit
			if qlen < batchSize {
				batchSize = qlen
			}
			batch := make([]completedGroup, 0, batchSize)
			for i := 0; i < batchSize; i++ {
				select {
				case cg := <-completed:
					batch = append(batch, cg)
				default:
				}
			}
			if len(batch) == 0 {
				continue
			}

			ids := make([]string, len(batch))
			for i, cg := range batch {
				ids[i] = cg.info.GroupID
			}
			if err := rw.Commit(ctx, ids); err != nil {
				o.logger.Errorf(logging.NSCommit+"batch of %d groups failed, dropping from results: %v", len(batch), err)
				continue
			}
			resultsMu.Lock()
			for _, cg := range batch {
				results[cg.info] = cg.result
			}
			resultsMu.Unlock()
			continue
		}

		if finished && qlen == 0 {
			return nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
