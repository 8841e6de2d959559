// Package config loads the md-to-notion configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/vrerv/md-to-notion/pkg/utils/fileutils"
	"github.com/vrerv/md-to-notion/pkg/version"
)

const (
	dirName    = "md-to-notion"
	configFile = "config.toml"

	EnvConfig = "MD_TO_NOTION_CONFIG"
	EnvToken  = "NOTION_API_TOKEN"
	EnvPageID = "MD_TO_NOTION_PAGE_ID"
)

var ErrExists = errors.New("config file already exists")

type Config struct {
	MdToNotion Meta   `toml:"md_to_notion"` // Application metadata
	Notion     Notion `toml:"notion"`       // API access
	Retry      Retry  `toml:"retry"`        // Transient failure handling
	Sync       Sync   `toml:"sync"`         // Synchronization behavior
	Log        Log    `toml:"log"`          // Logging
}

type Meta struct {
	Version string `toml:"version"` // version the file was written for
}

type Notion struct {
	Token             string   `toml:"token"`
	PageID            string   `toml:"page_id"` // root page mirrored onto
	BaseURL           string   `toml:"base_url"`
	APIVersion        string   `toml:"api_version"`
	Timeout           Duration `toml:"timeout"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
}

type Retry struct {
	MaxAttempts int      `toml:"max_attempts"`
	InitialWait Duration `toml:"initial_wait"`
	MaxWait     Duration `toml:"max_wait"`
}

type Sync struct {
	DeleteStale bool     `toml:"delete_stale"` // archive pages without local counterpart
	Exclude     []string `toml:"exclude"`
	BatchSize   int      `toml:"batch_size"` // blocks per append request
	MaxDepth    int      `toml:"max_depth"`  // nesting levels per append request
}

type Log struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`      // console or json
	File       string `toml:"file"`        // empty logs to stderr
	MaxSizeMB  int    `toml:"max_size_mb"` // rotation size of File
	MaxBackups int    `toml:"max_backups"` // rotated copies of File kept
}

// Duration is a time.Duration written as a Go duration string.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func Default() Config {
	return Config{
		MdToNotion: Meta{
			Version: version.Version,
		},
		Notion: Notion{
			BaseURL:           "https://api.notion.com/v1",
			APIVersion:        "2022-06-28",
			Timeout:           Duration{30 * time.Second},
			RequestsPerSecond: 3,
		},
		Retry: Retry{
			MaxAttempts: 3,
			InitialWait: Duration{500 * time.Millisecond},
			MaxWait:     Duration{10 * time.Second},
		},
		Sync: Sync{
			Exclude:   []string{"node_modules"},
			BatchSize: 100,
			MaxDepth:  3,
		},
		Log: Log{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// DefaultPath returns the config file location, honoring MD_TO_NOTION_CONFIG.
func DefaultPath() (string, error) {
	if custom := strings.TrimSpace(os.Getenv(EnvConfig)); custom != "" {
		return fileutils.AbsPath(custom)
	}

	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config directory: %w", err)
	}
	return filepath.Join(cfgDir, dirName, configFile), nil
}

// Load reads the file at path over the defaults, then applies environment
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("stat %s: %w", path, err)
		}
	} else if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", path, err)
	}

	if cfg.MdToNotion.Version == "" {
		cfg.MdToNotion.Version = version.Version
	}
	if err := version.EnsureCompatible(cfg.MdToNotion.Version); err != nil {
		return Config{}, fmt.Errorf("unsupported config version %q: %w", cfg.MdToNotion.Version, err)
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvToken); ok && strings.TrimSpace(v) != "" {
		c.Notion.Token = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvPageID); ok && strings.TrimSpace(v) != "" {
		c.Notion.PageID = strings.TrimSpace(v)
	}
}

// Validate checks values the remote or the engine cannot work with.
func (c Config) Validate() error {
	var errs []error
	if c.Notion.RequestsPerSecond <= 0 {
		errs = append(errs, errors.New("notion.requests_per_second must be positive"))
	}
	if c.Notion.Timeout.Duration < 0 {
		errs = append(errs, errors.New("notion.timeout must not be negative"))
	}
	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, errors.New("retry.max_attempts must be at least 1"))
	}
	if c.Sync.BatchSize < 1 || c.Sync.BatchSize > 100 {
		errs = append(errs, errors.New("sync.batch_size must be between 1 and 100"))
	}
	if c.Sync.MaxDepth < 1 || c.Sync.MaxDepth > 3 {
		errs = append(errs, errors.New("sync.max_depth must be between 1 and 3"))
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 {
		errs = append(errs, errors.New("log.max_size_mb and log.max_backups must not be negative"))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be console or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Save writes cfg to path atomically, readable by its owner only.
func Save(path string, cfg Config) error {
	if cfg.MdToNotion.Version == "" {
		cfg.MdToNotion.Version = version.Version
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode: %s: %w", path, err)
	}
	return fileutils.WriteFileAtomic(path, buf.Bytes(), 0o600)
}

// WriteDefault writes the default configuration to path. An existing file is
// only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrExists)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", path, err)
		}
	}
	return Save(path, Default())
}
