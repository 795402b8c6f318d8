package rewrite

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aalhour/tablepack/internal/planning"
)

type fakeTask struct{ length int64 }

func (t fakeTask) Length() int64  { return t.length }
func (t fakeTask) Partition() any { return nil }

func plannedGroups(ids ...string) []planning.PlannedGroup {
	groups := make([]planning.PlannedGroup, len(ids))
	for i, id := range ids {
		groups[i] = planning.PlannedGroup{
			Info: planning.FileGroupInfo{GroupID: id, GlobalIndex: i, PartitionIndex: i, Partition: nil},
			Group: planning.FileGroup{
				Partition: nil,
				Tasks:     []planning.ScanTask{fakeTask{length: 10}, fakeTask{length: 20}},
			},
		}
	}
	return groups
}

// scriptedRewriter is a fake Rewriter whose behavior is driven by
// per-groupID and commit-batch scripts, with full call logging for
// assertions.
type scriptedRewriter struct {
	mu sync.Mutex

	rewriteFail map[string]error // groupID -> error, if Rewrite should fail
	commitFail  func(groupIDs []string) error

	rewrittenIDs []string
	committed    [][]string
	abortedIDs   []string
}

func (r *scriptedRewriter) Rewrite(_ context.Context, groupID string, _ []planning.ScanTask) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.rewriteFail[groupID]; ok {
		return 0, err
	}
	r.rewrittenIDs = append(r.rewrittenIDs, groupID)
	return 2, nil
}

func (r *scriptedRewriter) Commit(_ context.Context, groupIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sorted := append([]string(nil), groupIDs...)
	if r.commitFail != nil {
		if err := r.commitFail(sorted); err != nil {
			return err
		}
	}
	r.committed = append(r.committed, sorted)
	return nil
}

func (r *scriptedRewriter) Abort(_ context.Context, groupID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.abortedIDs = append(r.abortedIDs, groupID)
	return nil
}

func idSet(ids []string) map[string]bool {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

// Scenario 1: all-or-nothing happy path — every group rewrites
// successfully, exactly one Commit call covers all groupIDs.
func TestAllOrNothingHappyPath(t *testing.T) {
	groups := plannedGroups("g1", "g2", "g3")
	rw := &scriptedRewriter{}
	o, err := NewOrchestrator(Config{MaxConcurrentGroups: 2}, WithLogger(nil))
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}

	results, err := o.Run(context.Background(), groups, rw)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("want 3 results, got %d", len(results))
	}
	if len(rw.committed) != 1 {
		t.Fatalf("want exactly 1 Commit call, got %d", len(rw.committed))
	}
	if got, want := idSet(rw.committed[0]), idSet([]string{"g1", "g2", "g3"}); !cmp.Equal(got, want) {
		t.Errorf("committed groups mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
	if len(rw.abortedIDs) != 0 {
		t.Errorf("want no aborts, got %v", rw.abortedIDs)
	}
}

// Scenario 2: all-or-nothing with one failing group — completed
// siblings are aborted, the error surfaces, and Commit is never
// called.
func TestAllOrNothingOneFailureAbortsSiblings(t *testing.T) {
	groups := plannedGroups("g1", "g2", "g3")
	rw := &scriptedRewriter{
		rewriteFail: map[string]error{"g2": fmt.Errorf("boom")},
	}
	o, err := NewOrchestrator(Config{MaxConcurrentGroups: 1}, WithLogger(nil))
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}

	results, err := o.Run(context.Background(), groups, rw)
	if err == nil {
		t.Fatal("want error, got nil")
	}
	if results != nil {
		t.Errorf("want nil results on failure, got %v", results)
	}
	if len(rw.committed) != 0 {
		t.Errorf("want no commits, got %v", rw.committed)
	}
	// g2 itself failed, so it must never appear as aborted; whichever
	// of g1/g3 reached Written before the failure propagated must be.
	for _, id := range rw.abortedIDs {
		if id == "g2" {
			t.Errorf("g2 failed its own rewrite, must not be aborted")
		}
	}
	if len(rw.abortedIDs) == 0 {
		t.Error("want at least one aborted group among the siblings that had been written")
	}
}

// Scenario 3: partial progress with maxCommits=2 over 4 groups yields
// two commit batches of 2 groups each.
func TestPartialProgressBatchesCommits(t *testing.T) {
	groups := plannedGroups("g1", "g2", "g3", "g4")
	rw := &scriptedRewriter{}
	o, err := NewOrchestrator(Config{
		MaxConcurrentGroups:    4,
		PartialProgressEnabled: true,
		MaxCommits:             2,
	}, WithLogger(nil))
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}

	results, err := o.Run(context.Background(), groups, rw)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("want 4 results, got %d", len(results))
	}
	if len(rw.committed) != 2 {
		t.Fatalf("want exactly 2 commit batches, got %d: %v", len(rw.committed), rw.committed)
	}
	for _, batch := range rw.committed {
		if len(batch) != 2 {
			t.Errorf("want each batch to contain 2 groups, got %d: %v", len(batch), batch)
		}
	}
	all := append(append([]string(nil), rw.committed[0]...), rw.committed[1]...)
	if got, want := idSet(all), idSet([]string{"g1", "g2", "g3", "g4"}); !cmp.Equal(got, want) {
		t.Errorf("committed group set mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

// Scenario 4: partial progress where the second commit batch fails —
// only the first batch's groups end up in the results.
func TestPartialProgressSecondBatchCommitFailureDropsThoseGroups(t *testing.T) {
	groups := plannedGroups("g1", "g2", "g3", "g4")
	var batchCount int
	var mu sync.Mutex
	rw := &scriptedRewriter{
		commitFail: func(ids []string) error {
			mu.Lock()
			defer mu.Unlock()
			batchCount++
			if batchCount == 2 {
				return fmt.Errorf("commit batch failed")
			}
			return nil
		},
	}
	o, err := NewOrchestrator(Config{
		MaxConcurrentGroups:    4,
		PartialProgressEnabled: true,
		MaxCommits:             2,
	}, WithLogger(nil))
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}

	results, err := o.Run(context.Background(), groups, rw)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("want exactly 2 results (first batch only), got %d: %v", len(results), results)
	}
}

// Scenario 5: an empty group list is a well-defined no-op in both
// modes.
func TestRunWithNoGroups(t *testing.T) {
	rw := &scriptedRewriter{}

	allOrNothing, err := NewOrchestrator(Config{MaxConcurrentGroups: 1})
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	results, err := allOrNothing.Run(context.Background(), nil, rw)
	if err != nil {
		t.Fatalf("Run (all-or-nothing): %v", err)
	}
	if len(results) != 0 {
		t.Errorf("want 0 results, got %d", len(results))
	}

	partial, err := NewOrchestrator(Config{MaxConcurrentGroups: 1, PartialProgressEnabled: true, MaxCommits: 1})
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	results, err = partial.Run(context.Background(), nil, rw)
	if err != nil {
		t.Fatalf("Run (partial progress): %v", err)
	}
	if len(results) != 0 {
		t.Errorf("want 0 results, got %d", len(results))
	}
}

func TestNewConfigRejectsInvalidValues(t *testing.T) {
	cases := []Config{
		{MaxConcurrentGroups: 0},
		{MaxConcurrentGroups: 1, PartialProgressEnabled: true, MaxCommits: 0},
	}
	for _, cfg := range cases {
		if _, err := NewConfig(cfg); err == nil {
			t.Errorf("NewConfig(%+v): want error, got nil", cfg)
		}
	}
}
