// Command tablepack plans and runs table-format compaction over a
// directory of files, as a thin demonstration harness around
// internal/planning and internal/rewrite.
//
// Reference: grounded in standardbeagle-lci's cmd/lci flag/command
// shape using github.com/urfave/cli/v2.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/aalhour/tablepack/internal/logging"
)

var configFlags = []cli.Flag{
	&cli.Int64Flag{Name: "target-file-size-bytes", Usage: "target output file size in bytes", Required: true},
	&cli.Int64Flag{Name: "min-file-size-bytes", Usage: "below this, a file is eligible for rewrite (default: 0.75x target)"},
	&cli.Int64Flag{Name: "max-file-size-bytes", Usage: "above this, a file is eligible for rewrite (default: 1.8x target)"},
	&cli.IntFlag{Name: "min-input-files", Usage: "minimum files to keep an undersized group", Value: 5},
	&cli.Int64Flag{Name: "max-file-group-size-bytes", Usage: "upper bound on one rewrite group's total size", Required: true},
	&cli.IntFlag{Name: "max-concurrent-file-group-actions", Usage: "bound on concurrent rewrite workers", Value: 1},
	&cli.BoolFlag{Name: "partial-progress.enabled", Usage: "commit groups incrementally instead of all-or-nothing"},
	&cli.IntFlag{Name: "partial-progress.max-commits", Usage: "max commit batches in partial-progress mode", Value: 1},
}

func main() {
	logger := logging.NewDefaultLogger(logging.LevelInfo)

	app := &cli.App{
		Name:  "tablepack",
		Usage: "plan and run table-format compaction over a directory",
		Commands: []*cli.Command{
			planCommand(logger),
			runCommand(logger),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "tablepack:", err)
		os.Exit(1)
	}
}
