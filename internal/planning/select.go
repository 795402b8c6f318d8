package planning

// selectFilesToRewrite drains src and retains exactly the tasks whose
// length falls outside the well-sized band [cfg.MinFileSize,
// cfg.MaxFileSize]. src is closed on every exit path, including a
// panic unwinding through this call, because the deferred Close runs
// during unwind regardless of how the function returns.
func selectFilesToRewrite(src ScanTaskSource, cfg Config) (selected []ScanTask, err error) {
	defer func() {
		closeErr := src.Close()
		if err == nil {
			err = closeErr
		}
	}()

	for src.Scan() {
		t := src.Task()
		length := t.Length()
		if length < cfg.MinFileSize || length > cfg.MaxFileSize {
			selected = append(selected, t)
		}
	}
	if scanErr := src.Err(); scanErr != nil {
		return nil, scanErr
	}
	return selected, nil
}
