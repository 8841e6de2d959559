package cmd

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/vrerv/md-to-notion/pkg/config"
)

// Commands:
// sync <directory>
//   mirrors the markdown tree below directory onto the configured Notion page
//   - steps:
//   - index the sub-pages already below the root page by path
//   - create the pages missing for folders and files, reusing the indexed ones
//   - rewrite internal links to page URLs, convert each file and patch its page
//   - with --delete-stale, archive indexed pages nothing local maps to
//
// tree <directory>
//   prints the pages a sync would mirror
//
// init
//   writes the default configuration file
//
// version
//   prints the build version

func Execute(ctx context.Context, args []string) error {
	return newApp().Run(ctx, args)
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "md-to-notion",
		Usage: "mirror a directory of markdown files onto a Notion page",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "print the folder hierarchy and debug logs",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "configuration file (default: $" + config.EnvConfig + " or the user config directory)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "console or json",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "write logs to a rotated file instead of stderr",
			},
		},
		Commands: []*cli.Command{
			syncCommand(),
			treeCommand(),
			initCommand(),
			versionCommand(),
		},
	}
}
