package planning

// ScanTaskSource is a finite, lazy sequence of ScanTasks, shaped after
// bufio.Scanner: call Scan repeatedly, reading Task after each Scan
// that returns true, then check Err once Scan returns false. The
// source is responsible for any upstream filtering (e.g. a
// caller-supplied predicate over the underlying catalog); the planner
// only drains it.
//
// Ownership of the source passes to whatever calls Scan: Close must be
// called exactly once, on every exit path including a panic unwinding
// through the caller.
type ScanTaskSource interface {
	// Scan advances to the next task, returning false when the source
	// is exhausted or an error occurred (check Err to distinguish).
	Scan() bool

	// Task returns the task Scan most recently advanced to. Only valid
	// after a Scan call that returned true.
	Task() ScanTask

	// Err returns the first error encountered during scanning, if any.
	Err() error

	// Close releases resources held by the source. Idempotent.
	Close() error
}

// SliceSource is a ScanTaskSource backed by an in-memory slice, for
// tests and callers that already have their tasks materialized.
type SliceSource struct {
	tasks []ScanTask
	pos   int
	cur   ScanTask
}

// NewSliceSource returns a ScanTaskSource over tasks.
func NewSliceSource(tasks []ScanTask) *SliceSource {
	return &SliceSource{tasks: tasks, pos: -1}
}

func (s *SliceSource) Scan() bool {
	s.pos++
	if s.pos >= len(s.tasks) {
		return false
	}
	s.cur = s.tasks[s.pos]
	return true
}

func (s *SliceSource) Task() ScanTask { return s.cur }

func (s *SliceSource) Err() error { return nil }

func (s *SliceSource) Close() error { return nil }
