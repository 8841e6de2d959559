package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/vrerv/md-to-notion/pkg/config"
	"github.com/vrerv/md-to-notion/pkg/logging"
	"github.com/vrerv/md-to-notion/pkg/utils/fileutils"
	"go.uber.org/zap"
)

func isVerbose(cmd *cli.Command) bool {
	if cmd == nil {
		return false
	}
	if cmd.Bool("verbose") {
		return true
	}
	root := cmd.Root()
	return root != nil && root.Bool("verbose")
}

// rootString returns a global flag, whether it was given before or after the
// subcommand.
func rootString(cmd *cli.Command, name string) (string, bool) {
	if cmd.IsSet(name) {
		return cmd.String(name), true
	}
	root := cmd.Root()
	if root != nil && root.IsSet(name) {
		return root.String(name), true
	}
	return "", false
}

func output(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

func configPath(cmd *cli.Command) (string, error) {
	if path, ok := rootString(cmd, "config"); ok && path != "" {
		return fileutils.AbsPath(path)
	}
	return config.DefaultPath()
}

// loadConfig reads the configuration file and applies the global flags over
// it.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	path, err := configPath(cmd)
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if level, ok := rootString(cmd, "log-level"); ok {
		cfg.Log.Level = level
	}
	if format, ok := rootString(cmd, "log-format"); ok {
		cfg.Log.Format = format
	}
	if file, ok := rootString(cmd, "log-file"); ok {
		cfg.Log.File = file
	}
	if cfg.Log.Format != "console" && cfg.Log.Format != "json" {
		return config.Config{}, fmt.Errorf("log format must be console or json, got %q", cfg.Log.Format)
	}
	return cfg, nil
}

// initLogger installs the global logger for the command. Verbose mode lowers
// the level to debug.
func initLogger(cmd *cli.Command, cfg config.Config) (*zap.Logger, error) {
	err := logging.Init(logging.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		OutputPath: fileutils.ExpandHome(cfg.Log.File),
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	if isVerbose(cmd) {
		logging.SetLevel("debug")
	}
	return logging.L(), nil
}
