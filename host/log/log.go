// Package log sets up the host tool's logrus logger.
package log

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileAppenderOpt configures the rotating log file.
type FileAppenderOpt struct {
	Filename   string `mapstructure:"filename" yaml:"filename"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// Config selects level, format and an optional file appender.
type Config struct {
	Level  string          `mapstructure:"level" yaml:"level"`
	Format string          `mapstructure:"format" yaml:"format"` // text | json
	File   FileAppenderOpt `mapstructure:"file" yaml:"file"`
}

// New builds a logger writing to stderr and, if configured, a rotating file.
func New(cfg Config) (*logrus.Logger, error) {
	logger := logrus.New()

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	logger.SetLevel(lvl)

	switch cfg.Format {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unsupported log format %q", cfg.Format)
	}

	var out io.Writer = os.Stderr
	if cfg.File.Filename != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.File.Filename,
			MaxSize:    cfg.File.MaxSize,    // megabytes
			MaxBackups: cfg.File.MaxBackups, // number of backups
			MaxAge:     cfg.File.MaxAge,     // days
			Compress:   cfg.File.Compress,   // compress the backups
		})
	}
	logger.SetOutput(out)
	return logger, nil
}
