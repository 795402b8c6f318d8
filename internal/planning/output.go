package planning

// NumOutputFiles returns the number of output files a group with total
// size total should be split into, under cfg.
//
// Rounding policy (spec.md §4.3):
//   - total < target: always 1 file — the group is already undersized
//     relative to the target, so a single output absorbs everything.
//   - Otherwise let hi = ceil(total/target), lo = floor(total/target).
//     If the remainder (total mod target) would itself be a valid file
//     size (> minFileSize), keep it as its own file: return hi.
//   - Else consider the average file size if rounded down to lo files;
//     if that average stays under min(1.1*target, writeMaxFileSize),
//     round down and let the extra bytes spread across the lo files,
//     returning lo. Otherwise return hi.
func NumOutputFiles(total int64, cfg Config) int {
	target := cfg.TargetFileSize
	if total < target {
		return 1
	}

	hi := ceilDiv(total, target)
	lo := total / target

	remainder := total % target
	if remainder > cfg.MinFileSize {
		return int(hi)
	}

	avg := float64(total) / float64(lo)
	writeMax := cfg.writeMaxFileSize()
	cap := 1.1 * float64(target)
	if float64(writeMax) < cap {
		cap = float64(writeMax)
	}
	if avg < cap {
		return int(lo)
	}
	return int(hi)
}

// SplitSize returns the per-output-file split size for a group with
// total size total, under cfg: total spread evenly across
// NumOutputFiles(total, cfg) files, capped at the write-time maximum
// file size (target plus half the remaining headroom to maxFileSize),
// so compaction output intentionally writes a little over target to
// absorb serialization expansion and avoid sliver remainder files.
func SplitSize(total int64, cfg Config) int64 {
	n := int64(NumOutputFiles(total, cfg))
	if n == 0 {
		n = 1
	}
	perFile := total / n
	writeMax := cfg.writeMaxFileSize()
	if perFile > writeMax {
		return writeMax
	}
	return perFile
}

func ceilDiv(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}
