package rewrite

import (
	"context"
	"time"

	"github.com/aalhour/tablepack/internal/logging"
	"github.com/aalhour/tablepack/internal/planning"
)

// CommitterShutdownTimeout bounds how long Run waits for the
// partial-progress committer to drain after rewrite workers finish.
// Exceeding it is a fatal error.
const CommitterShutdownTimeout = 10 * time.Minute

// committerPollInterval is how long the partial-progress committer
// sleeps between poll iterations when there is nothing to drain yet.
const committerPollInterval = 5 * time.Millisecond

// Orchestrator coordinates concurrent rewrite of planned groups.
type Orchestrator struct {
	cfg    Config
	logger logging.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger overrides the Orchestrator's logger (default: logging.Discard).
func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) { o.logger = logging.OrDefault(l) }
}

// NewOrchestrator validates cfg and returns a ready-to-use Orchestrator.
func NewOrchestrator(cfg Config, opts ...Option) (*Orchestrator, error) {
	cfg, err := NewConfig(cfg)
	if err != nil {
		return nil, err
	}
	o := &Orchestrator{cfg: cfg, logger: logging.Discard}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// writtenGroup is a group whose rewrite has completed but has not yet
// been committed.
type writtenGroup struct {
	info   planning.FileGroupInfo
	result planning.FileGroupResult
}

// Run dispatches groups to rw according to the orchestrator's
// configured mode and returns a map from FileGroupInfo to
// FileGroupResult containing exactly the groups that committed
// successfully. Dispatch order follows the input slice; execution and
// completion order across workers is unspecified.
func (o *Orchestrator) Run(ctx context.Context, groups []planning.PlannedGroup, rw Rewriter) (map[planning.FileGroupInfo]planning.FileGroupResult, error) {
	if o.cfg.PartialProgressEnabled {
		return o.runPartialProgress(ctx, groups, rw)
	}
	return o.runAllOrNothing(ctx, groups, rw)
}

func ceilDivInt(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
