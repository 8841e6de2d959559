package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/vrerv/md-to-notion/pkg/version"
)

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "show version",
		Action: versionAction,
	}
}

func versionAction(_ context.Context, cmd *cli.Command) error {
	fmt.Fprintf(output(cmd), "md-to-notion version %s\n", version.Describe())
	return nil
}
