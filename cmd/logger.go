package cmd

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger returns a logger writing to stderr at the named level (debug,
// info, warn, error), as JSON or as human readable lines when pretty.
// Unknown levels default to warn.
func NewLogger(w io.Writer, level string, pretty bool) zerolog.Logger {
	lvl := zerolog.WarnLevel
	switch level {
	case "debug":
		lvl = zerolog.DebugLevel
	case "info":
		lvl = zerolog.InfoLevel
	case "warn":
		lvl = zerolog.WarnLevel
	case "error":
		lvl = zerolog.ErrorLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if pretty {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// SetupLogging installs the logger configured by the global flags.
func SetupLogging() {
	log.Logger = NewLogger(os.Stderr, *logLevel, *logPretty)
}
