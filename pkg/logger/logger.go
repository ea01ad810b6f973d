package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/bilingual-blog-api/internal/config"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const serviceName = "bilingual-blog-api"

// New creates a new zerolog logger writing to stdout, and to a rotated file
// when cfg.File is set
func New(cfg config.LogConfig) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter is New with the console output replaced by out
func NewWithWriter(cfg config.LogConfig, out io.Writer) zerolog.Logger {
	// Configure zerolog
	zerolog.TimeFieldFormat = time.RFC3339

	pretty := cfg.Format == "pretty"
	var console io.Writer = out
	if pretty {
		console = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	w := console
	if cfg.File != "" {
		w = zerolog.MultiLevelWriter(console, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.FileMaxSizeMB,
			MaxBackups: cfg.FileMaxBackups,
			MaxAge:     cfg.FileMaxAgeDays,
		})
	}

	ctx := zerolog.New(w).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp()
	if pretty {
		ctx = ctx.Caller()
	}
	return ctx.Str("service", serviceName).Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
