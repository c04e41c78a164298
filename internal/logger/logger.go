package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ekisa-team/digitd/internal/env"
	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options holds logger construction options.
type Options struct {
	logToFile bool
	logFile   string
}

// Option configures the logger.
type Option func(*Options)

// WithLogToFile enables mirroring log output to a rotated file.
func WithLogToFile(enabled bool) Option {
	return func(o *Options) {
		o.logToFile = enabled
	}
}

// WithLogFile sets the log file path used when file logging is enabled.
func WithLogFile(path string) Option {
	return func(o *Options) {
		o.logFile = path
	}
}

// New creates a slog.Logger backed by a tint handler. In development the
// level is debug and output is colorized; in production the level is info.
// When file logging is enabled, output is also written to a size-rotated file.
func New(environment env.Environment, opts ...Option) *slog.Logger {
	options := &Options{
		logFile: "logs/digitd.log",
	}
	for _, opt := range opts {
		opt(options)
	}

	level := slog.LevelDebug
	if environment.IsProduction() {
		level = slog.LevelInfo
	}

	var w io.Writer = os.Stderr
	noColor := false

	if options.logToFile {
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   options.logFile,
			MaxSize:    20, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		})
		// Escape sequences would end up in the file as well.
		noColor = true
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	}))
}
