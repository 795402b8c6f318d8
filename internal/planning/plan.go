package planning

import (
	"fmt"

	"github.com/zeebo/xxh3"

	"github.com/aalhour/tablepack/internal/logging"
)

// Planner selects, groups, and filters scan tasks into the groups a
// rewrite orchestrator will later dispatch.
type Planner struct {
	cfg    Config
	logger logging.Logger
	nextID func(partition any, counter int) string
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger overrides the Planner's logger (default: logging.Discard).
func WithLogger(l logging.Logger) Option {
	return func(p *Planner) { p.logger = logging.OrDefault(l) }
}

// WithIDGenerator overrides how FileGroupInfo.GroupID values are
// produced. The default hashes the partition key and a monotonic
// counter with xxh3. Exposed for deterministic tests.
func WithIDGenerator(f func(partition any, counter int) string) Option {
	return func(p *Planner) { p.nextID = f }
}

// NewPlanner validates cfg and returns a ready-to-use Planner.
func NewPlanner(cfg Config, opts ...Option) (*Planner, error) {
	cfg, err := NewConfig(cfg)
	if err != nil {
		return nil, err
	}
	p := &Planner{
		cfg:    cfg,
		logger: logging.Discard,
		nextID: defaultIDGenerator,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func defaultIDGenerator(partition any, counter int) string {
	sum := xxh3.HashString(fmt.Sprintf("%v#%d", partition, counter))
	return fmt.Sprintf("%016x", sum)
}

// Plan drains src, selects the tasks outside the well-sized band,
// packs them per partition with a first-fit packer bounded by
// cfg.MaxGroupSize, filters out groups too small to be worth rewriting
// alone, and returns the surviving groups with their FileGroupInfo
// assigned.
//
// Groups are emitted by iterating partitions in the order their tasks
// were first encountered, and within each partition in packer order.
// GlobalIndex counts emitted groups across the whole plan; PartitionIndex
// restarts at 1 for every partition.
func (p *Planner) Plan(src ScanTaskSource) ([]PlannedGroup, error) {
	selected, err := selectFilesToRewrite(src, p.cfg)
	if err != nil {
		return nil, err
	}
	p.logger.Infof(logging.NSPlan+"selected %d of scanned tasks outside well-sized band", len(selected))

	partitions, byPartition := groupByPartition(selected)

	var (
		planned     []PlannedGroup
		globalIndex int
		idCounter   int
	)
	for _, partition := range partitions {
		candidates := firstFitPack(byPartition[partition], p.cfg.MaxGroupSize)
		partitionIndex := 0
		for _, tasks := range candidates {
			if !keepGroup(tasks, p.cfg) {
				p.logger.Debugf(logging.NSPlan+"dropping undersized group of %d tasks in partition %v", len(tasks), partition)
				continue
			}
			globalIndex++
			partitionIndex++
			idCounter++
			info := FileGroupInfo{
				GroupID:        p.nextID(partition, idCounter),
				GlobalIndex:    globalIndex,
				PartitionIndex: partitionIndex,
				Partition:      partition,
			}
			planned = append(planned, PlannedGroup{
				Info:  info,
				Group: FileGroup{Partition: partition, Tasks: tasks},
			})
		}
	}
	p.logger.Infof(logging.NSPlan+"emitted %d groups", len(planned))
	return planned, nil
}
