// Package logging builds the worker's zerolog logger and carries it through
// contexts.
//
//	log := logging.New(logging.Options{Level: "debug", Format: "console", Worker: "NIF_WORKER"})
//	ctx := logging.WithLogger(context.Background(), &log)
//	logging.FromContext(ctx).Info().Str("tax_id", "123456789").Msg("Selected vendor")
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures New.
type Options struct {
	// Level is the minimum level (trace, debug, info, warn, error).
	Level string
	// Format is json, console or auto. Auto uses console output on a terminal.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
	// Worker is attached to every event as the "worker" field when set.
	Worker string
}

// New creates a logger from options.
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := ParseLevel(opts.Level)

	var writer io.Writer = out
	if useConsole(opts.Format, out) {
		writer = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}

	ctx := zerolog.New(writer).Level(level).With().Timestamp()
	if opts.Worker != "" {
		ctx = ctx.Str("worker", opts.Worker)
	}
	logger := ctx.Logger()

	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off", "none":
		return zerolog.Disabled
	default:
		if l, err := zerolog.ParseLevel(level); err == nil {
			return l
		}
		return zerolog.InfoLevel
	}
}

func useConsole(format string, out io.Writer) bool {
	switch strings.ToLower(format) {
	case "console", "pretty":
		return true
	case "json":
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
