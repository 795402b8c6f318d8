package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/aalhour/tablepack/internal/config"
	"github.com/aalhour/tablepack/internal/demo"
	"github.com/aalhour/tablepack/internal/logging"
	"github.com/aalhour/tablepack/internal/planning"
)

func planCommand(logger logging.Logger) *cli.Command {
	return &cli.Command{
		Name:      "plan",
		Usage:     "compute rewrite groups for a directory without rewriting anything",
		ArgsUsage: "DIR",
		Flags:     configFlags,
		Action: func(c *cli.Context) error {
			dir := c.Args().First()
			if dir == "" {
				return cli.Exit("plan: DIR argument is required", 1)
			}

			parsed, err := flagsToConfig(c)
			if err != nil {
				return cli.Exit(fmt.Sprintf("plan: %v", err), 1)
			}

			planner, err := planning.NewPlanner(parsed.Planning, planning.WithLogger(logger))
			if err != nil {
				return cli.Exit(fmt.Sprintf("plan: %v", err), 1)
			}

			src, err := demo.DirSource(dir, nil)
			if err != nil {
				return cli.Exit(fmt.Sprintf("plan: %v", err), 1)
			}

			groups, err := planner.Plan(src)
			if err != nil {
				return cli.Exit(fmt.Sprintf("plan: %v", err), 1)
			}

			for _, g := range groups {
				fmt.Printf("group %s: partition=%v files=%d total_bytes=%d\n",
					g.Info.GroupID, g.Info.Partition, len(g.Group.Tasks), g.Group.TotalSize())
			}
			fmt.Printf("total groups: %d\n", len(groups))
			return nil
		},
	}
}

// flagsToConfig maps the shared CLI flag set onto internal/config's
// raw surface and parses it.
func flagsToConfig(c *cli.Context) (config.Parsed, error) {
	raw := map[string]string{}
	for _, key := range []string{
		config.KeyTargetFileSizeBytes,
		config.KeyMinFileSizeBytes,
		config.KeyMaxFileSizeBytes,
		config.KeyMaxFileGroupSizeBytes,
	} {
		if c.IsSet(key) {
			raw[key] = fmt.Sprintf("%d", c.Int64(key))
		}
	}
	for _, key := range []string{
		config.KeyMinInputFiles,
		config.KeyMaxConcurrentActions,
		config.KeyPartialProgressMaxCommits,
	} {
		raw[key] = fmt.Sprintf("%d", c.Int(key))
	}
	raw[config.KeyPartialProgressEnabled] = fmt.Sprintf("%t", c.Bool(config.KeyPartialProgressEnabled))

	return config.Parse(raw)
}
