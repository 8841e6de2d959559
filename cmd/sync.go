package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/vrerv/md-to-notion/pkg/config"
	"github.com/vrerv/md-to-notion/pkg/logging"
	"github.com/vrerv/md-to-notion/pkg/metrics"
	"github.com/vrerv/md-to-notion/pkg/notion"
	"github.com/vrerv/md-to-notion/pkg/source"
	mdsync "github.com/vrerv/md-to-notion/pkg/sync"
	"go.uber.org/zap"
)

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:      "sync",
		Usage:     "mirror a markdown directory onto a Notion page",
		ArgsUsage: "<directory>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "token",
				Aliases: []string{"t"},
				Usage:   "Notion integration token (env " + config.EnvToken + ")",
			},
			&cli.StringFlag{
				Name:    "page-id",
				Aliases: []string{"p"},
				Usage:   "root page id or URL (env " + config.EnvPageID + ")",
			},
			&cli.BoolFlag{
				Name:  "delete-stale",
				Usage: "archive pages below the root that have no local file or folder",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "write Prometheus metrics to this textfile after the run",
			},
		},
		Action: syncAction,
	}
}

func syncAction(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	dir := cmd.Args().First()

	if dir == "" {
		return fmt.Errorf("sync requires a directory argument")
	}
	if len(args) > 1 {
		return fmt.Errorf("sync accepts exactly one directory argument")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.IsSet("token") {
		cfg.Notion.Token = cmd.String("token")
	}
	if cmd.IsSet("page-id") {
		cfg.Notion.PageID = cmd.String("page-id")
	}
	if cmd.IsSet("delete-stale") {
		cfg.Sync.DeleteStale = cmd.Bool("delete-stale")
	}

	if cfg.Notion.Token == "" {
		return fmt.Errorf("missing Notion token: pass --token or set %s", config.EnvToken)
	}
	if cfg.Notion.PageID == "" {
		return fmt.Errorf("missing root page: pass --page-id or set %s", config.EnvPageID)
	}
	rootID, err := notion.ParsePageID(cfg.Notion.PageID)
	if err != nil {
		return fmt.Errorf("invalid page id: %w", err)
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
	if isVerbose(cmd) {
		printHierarchy(out, tree)
	}

	recorder := metrics.New()
	client := notion.New(notion.Config{
		Token:             cfg.Notion.Token,
		BaseURL:           cfg.Notion.BaseURL,
		APIVersion:        cfg.Notion.APIVersion,
		Timeout:           cfg.Notion.Timeout.Duration,
		RequestsPerSecond: cfg.Notion.RequestsPerSecond,
		Retry: notion.RetryConfig{
			MaxAttempts: cfg.Retry.MaxAttempts,
			InitialWait: cfg.Retry.InitialWait.Duration,
			MaxWait:     cfg.Retry.MaxWait.Duration,
			Multiplier:  2,
			Jitter:      0.1,
		},
		Observer: recorder,
		Logger:   log.Named("notion"),
	})

	log.Debug("starting sync", zap.String("dir", dir), zap.String("page", rootID), zap.Bool("delete_stale", cfg.Sync.DeleteStale))
	start := time.Now()
	res, syncErr := mdsync.Synchronize(ctx, client, rootID, tree, mdsync.Options{
		DeleteStale: cfg.Sync.DeleteStale,
		BatchSize:   cfg.Sync.BatchSize,
		MaxDepth:    cfg.Sync.MaxDepth,
		Logger:      log.Named("sync"),
	})
	elapsed := time.Since(start)
	recorder.RecordSync(res, elapsed, syncErr)

	if path := cmd.String("metrics-file"); path != "" {
		if err := recorder.WriteTextfile(path); err != nil {
			log.Warn("write metrics failed", zap.String("path", path), zap.Error(err))
		}
	}

	if syncErr != nil {
		log.Error("sync failed", zap.Duration("elapsed", elapsed), zap.Int("changes", res.Changes()), zap.Error(syncErr))
		return fmt.Errorf("sync %s: %w", dir, syncErr)
	}

	log.Info("sync finished", zap.Duration("elapsed", elapsed), zap.Int("changes", res.Changes()))
	printSummary(out, res)
	fmt.Fprintln(out, successStyle.Render("Sync complete!"))
	return nil
}
