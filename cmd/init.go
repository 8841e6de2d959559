package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/vrerv/md-to-notion/pkg/config"
)

func initCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "write the default configuration file",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "replace an existing configuration file",
			},
		},
		Action: initAction,
	}
}

func initAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() > 0 {
		return fmt.Errorf("init does not accept arguments")
	}

	path, err := configPath(cmd)
	if err != nil {
		return err
	}

	if err := config.WriteDefault(path, cmd.Bool("force")); err != nil {
		if errors.Is(err, config.ErrExists) {
			return fmt.Errorf("%w (use --force to replace it)", err)
		}
		return err
	}

	fmt.Fprintf(output(cmd), "wrote %s\n", path)
	return nil
}
