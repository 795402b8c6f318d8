package rewrite

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aalhour/tablepack/internal/logging"
	"github.com/aalhour/tablepack/internal/planning"
)

// runAllOrNothing implements all-or-nothing mode (spec.md §4.4):
// rewrite tasks run with bounded concurrency; the first uncaught
// rewrite failure stops further dispatch and aborts every group that
// had already reached Written; if every group reaches Written, all
// groups commit atomically in a single call, and a commit failure
// aborts everything and surfaces the error.
func (o *Orchestrator) runAllOrNothing(ctx context.Context, groups []planning.PlannedGroup, rw Rewriter) (map[planning.FileGroupInfo]planning.FileGroupResult, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.MaxConcurrentGroups)

	var mu sync.Mutex
	written := make(map[string]writtenGroup, len(groups))

dispatch:
	for _, pg := range groups {
		pg := pg
		select {
		case <-gctx.Done():
			// A prior rewrite already failed; stop submitting new work.
			break dispatch
		default:
		}
		g.Go(func() error {
			// g.Go may have blocked on the concurrency limit while a
			// sibling failed; refuse to start once that has happened.
			if err := gctx.Err(); err != nil {
				return err
			}
			added, err := rw.Rewrite(gctx, pg.Info.GroupID, pg.Group.Tasks)
			if err != nil {
				return fmt.Errorf("rewrite group %s: %w", pg.Info.GroupID, err)
			}
			mu.Lock()
			written[pg.Info.GroupID] = writtenGroup{
				info:   pg.Info,
				result: planning.FileGroupResult{AddedFilesCount: added, RewrittenFilesCount: len(pg.Group.Tasks)},
			}
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		// A cancelled parent context stops dispatch without any rewrite
		// failing; not every group reached Written, so nothing commits.
		err = ctx.Err()
	}
	if err != nil {
		o.abortWritten(ctx, rw, written)
		return nil, err
	}

	ids := make([]string, 0, len(written))
	for id := range written {
		ids = append(ids, id)
	}
	if err := rw.Commit(ctx, ids); err != nil {
		o.abortWritten(ctx, rw, written)
		return nil, fmt.Errorf("commit %d groups: %w", len(ids), err)
	}

	result := make(map[planning.FileGroupInfo]planning.FileGroupResult, len(written))
	for _, w := range written {
		result[w.info] = w.result
	}
	return result, nil
}

// abortWritten best-effort aborts every group that reached Written,
// suppressing and logging secondary failures.
func (o *Orchestrator) abortWritten(ctx context.Context, rw Rewriter, written map[string]writtenGroup) {
	for id := range written {
		if err := rw.Abort(ctx, id); err != nil {
			o.logger.Warnf(logging.NSAbort+"abort of group %s failed: %v", id, err)
		}
	}
}
