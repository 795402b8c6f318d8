package planning

// firstFitPack groups tasks, in input order, into bins of at most
// maxGroupSize total weight. A new bin is opened only when adding the
// next task to the current bin would exceed maxGroupSize; every bin
// gets at least one task, so a single task whose own length exceeds
// maxGroupSize still occupies a bin by itself.
func firstFitPack(tasks []ScanTask, maxGroupSize int64) [][]ScanTask {
	var groups [][]ScanTask
	var cur []ScanTask
	var curSize int64

	for _, t := range tasks {
		if len(cur) > 0 && curSize+t.Length() > maxGroupSize {
			groups = append(groups, cur)
			cur = nil
			curSize = 0
		}
		cur = append(cur, t)
		curSize += t.Length()
	}
	if len(cur) > 0 {
		groups = append(groups, cur)
	}
	return groups
}

// groupByPartition buckets tasks by Partition, preserving both the
// order partitions are first seen and the order tasks appear within
// each partition.
func groupByPartition(tasks []ScanTask) (partitions []any, byPartition map[any][]ScanTask) {
	byPartition = make(map[any][]ScanTask)
	for _, t := range tasks {
		p := t.Partition()
		if _, ok := byPartition[p]; !ok {
			partitions = append(partitions, p)
		}
		byPartition[p] = append(byPartition[p], t)
	}
	return partitions, byPartition
}

// keepGroup implements the filtering rule: a candidate group survives
// iff it has at least minInputFiles members, or its total size exceeds
// targetFileSize. A group smaller than the target and below
// minInputFiles can't produce a target-sized file without merging
// across partitions, which is forbidden.
func keepGroup(tasks []ScanTask, cfg Config) bool {
	if len(tasks) >= cfg.MinInputFiles {
		return true
	}
	var total int64
	for _, t := range tasks {
		total += t.Length()
	}
	return total > cfg.TargetFileSize
}
