// Package logging provides structured logging with zap.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	globalLogger *zap.Logger
	globalLevel  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Config holds logging configuration.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	OutputPath string // stdout, stderr, or file path
	MaxSizeMB  int    // rotate a log file once it reaches this size, 0 means 100
	MaxBackups int    // rotated files kept, 0 keeps all
}

// New builds a logger. Unknown levels fall back to info; any format other
// than json uses the human readable console encoder.
func New(cfg Config) (*zap.Logger, error) {
	logger, _, err := build(cfg)
	return logger, err
}

func build(cfg Config) (*zap.Logger, zap.AtomicLevel, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var config zap.Config
	if cfg.Format == "json" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	}

	atomic := zap.NewAtomicLevelAt(level)
	config.Level = atomic

	switch cfg.OutputPath {
	case "":
	case "stdout", "stderr":
		config.OutputPaths = []string{cfg.OutputPath}
	default:
		return fileLogger(config, cfg), atomic, nil
	}

	logger, err := config.Build()
	if err != nil {
		return nil, atomic, err
	}
	return logger, atomic, nil
}

// fileLogger writes to a size-rotated file.
func fileLogger(config zap.Config, cfg Config) *zap.Logger {
	var encoder zapcore.Encoder
	if config.Encoding == "json" {
		encoder = zapcore.NewJSONEncoder(config.EncoderConfig)
	} else {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(config.EncoderConfig)
	}

	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.OutputPath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	})
	return zap.New(zapcore.NewCore(encoder, sink, config.Level), zap.AddCaller())
}

// Init initializes the global logger.
func Init(cfg Config) error {
	logger, level, err := build(cfg)
	if err != nil {
		return err
	}
	globalLogger = logger
	globalLevel = level
	return nil
}

// Sync flushes any buffered log entries.
func Sync() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}

// SetLevel changes the global log level at runtime.
func SetLevel(level string) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return
	}
	globalLevel.SetLevel(l)
}

// L returns the global logger.
func L() *zap.Logger {
	if globalLogger == nil {
		logger, level, err := build(Config{Level: "info", Format: "console"})
		if err != nil {
			return zap.NewNop()
		}
		globalLogger, globalLevel = logger, level
	}
	return globalLogger
}
