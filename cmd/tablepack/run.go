package main

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/aalhour/tablepack/internal/demo"
	"github.com/aalhour/tablepack/internal/logging"
	"github.com/aalhour/tablepack/internal/planning"
	"github.com/aalhour/tablepack/internal/rewrite"
)

func runCommand(logger logging.Logger) *cli.Command {
	flags := append(append([]cli.Flag{}, configFlags...), &cli.StringFlag{
		Name:     "out-dir",
		Usage:    "directory to write staged and committed output files into",
		Required: true,
	})

	return &cli.Command{
		Name:      "run",
		Usage:     "plan and rewrite a directory's files into compacted output files",
		ArgsUsage: "DIR",
		Flags:     flags,
		Action: func(c *cli.Context) error {
			dir := c.Args().First()
			if dir == "" {
				return cli.Exit("run: DIR argument is required", 1)
			}
			outDir := c.String("out-dir")

			parsed, err := flagsToConfig(c)
			if err != nil {
				return cli.Exit(fmt.Sprintf("run: %v", err), 1)
			}

			planner, err := planning.NewPlanner(parsed.Planning, planning.WithLogger(logger))
			if err != nil {
				return cli.Exit(fmt.Sprintf("run: %v", err), 1)
			}
			orchestrator, err := rewrite.NewOrchestrator(parsed.Rewrite, rewrite.WithLogger(logger))
			if err != nil {
				return cli.Exit(fmt.Sprintf("run: %v", err), 1)
			}

			src, err := demo.DirSource(dir, nil)
			if err != nil {
				return cli.Exit(fmt.Sprintf("run: %v", err), 1)
			}
			groups, err := planner.Plan(src)
			if err != nil {
				return cli.Exit(fmt.Sprintf("run: %v", err), 1)
			}

			rw := demo.NewFileRewriter(outDir, filepath.Join(outDir, "MANIFEST"))
			results, err := orchestrator.Run(c.Context, groups, rw)
			if err != nil {
				return cli.Exit(fmt.Sprintf("run: %v", err), 1)
			}

			var addedFiles, rewrittenFiles int
			for _, r := range results {
				addedFiles += r.AddedFilesCount
				rewrittenFiles += r.RewrittenFilesCount
			}
			fmt.Printf("committed groups: %d, added files: %d, rewritten files: %d\n",
				len(results), addedFiles, rewrittenFiles)
			return nil
		},
	}
}
