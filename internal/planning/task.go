// Package planning implements the bin-pack compaction planner: it
// selects scan tasks that are outside the well-sized band, groups them
// with a first-fit, order-preserving packer bounded by a maximum group
// size, filters groups that are too small to be worth rewriting alone,
// and computes how many output files (and at what split size) each
// surviving group should produce.
//
// Reference: table-format compaction planner, §4.3 of the core spec.
package planning

// ScanTask is an opaque handle for a file-scoped read unit. Callers
// supply concrete implementations; the planner only observes Length
// and Partition. Implementations must be immutable and safe to read
// concurrently.
type ScanTask interface {
	// Length is the task's size in bytes. Must be non-negative.
	Length() int64

	// Partition is an opaque, equality-comparable key. Tasks in the
	// same FileGroup always share a Partition.
	Partition() any
}

// FileGroup is a finite ordered sequence of ScanTasks belonging to a
// single partition. The sum of member lengths is at most maxGroupSize,
// except when the group contains exactly one oversize task.
type FileGroup struct {
	Partition any
	Tasks     []ScanTask
}

// TotalSize returns the sum of Length() over the group's tasks.
func (g FileGroup) TotalSize() int64 {
	var total int64
	for _, t := range g.Tasks {
		total += t.Length()
	}
	return total
}

// FileGroupInfo identifies a group that the planner has emitted. It is
// immutable once created.
type FileGroupInfo struct {
	// GroupID is a fresh, unique identifier for the group.
	GroupID string

	// GlobalIndex is the 1-based position of this group across the
	// entire plan, in emission order.
	GlobalIndex int

	// PartitionIndex is the 1-based position of this group within its
	// partition, in emission order.
	PartitionIndex int

	// Partition is the partition all member tasks share.
	Partition any
}

// FileGroupResult is produced by a rewriter after it has processed a
// group, and is attached to that group's FileGroupInfo in the final
// result map.
type FileGroupResult struct {
	AddedFilesCount     int
	RewrittenFilesCount int
}

// PlannedGroup pairs an emitted group with its identifying metadata.
type PlannedGroup struct {
	Info  FileGroupInfo
	Group FileGroup
}
