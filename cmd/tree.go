package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/vrerv/md-to-notion/pkg/logging"
	"github.com/vrerv/md-to-notion/pkg/source"
)

func treeCommand() *cli.Command {
	return &cli.Command{
		Name:      "tree",
		Usage:     "show the pages a sync would mirror",
		ArgsUsage: "<directory>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "print an unstyled indented outline",
			},
		},
		Action: treeAction,
	}
}

func treeAction(_ context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	dir := cmd.Args().First()

	if dir == "" {
		return fmt.Errorf("tree requires a directory argument")
	}
	if len(args) > 1 {
		return fmt.Errorf("tree accepts exactly one directory argument")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := initLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logging.Sync() }()

	tree, err := source.ReadMarkdown(dir, source.Options{Exclude: cfg.Sync.Exclude, Logger: log})
	if err != nil {
		return err
	}

	out := output(cmd)
	if cmd.Bool("plain") {
		return source.PrintHierarchy(out, tree)
	}
	printHierarchy(out, tree)
	return nil
}
