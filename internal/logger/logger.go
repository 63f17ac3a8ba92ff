package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Init configures the global level and returns a logger writing to w
// (stderr when nil). The CLI keeps stdout for command output.
func Init(level, format string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	zerolog.SetGlobalLevel(ParseLevel(level))

	if strings.ToLower(format) == "json" {
		return zerolog.New(w).With().
			Timestamp().
			Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
	}
	return zerolog.New(output).With().
		Timestamp().
		Logger()
}

// ParseLevel maps a level name to a zerolog level. Unknown names mean warn.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.WarnLevel
	}
}
