// Package logging configures the zerolog logger shared by the delegators.
//
// Logs always go to stderr: stdout belongs to the delegated target.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Level represents log level
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	DISABLED
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case DISABLED:
		return "DISABLED"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case DEBUG:
		return zerolog.DebugLevel
	case INFO:
		return zerolog.InfoLevel
	case WARN:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	default:
		return zerolog.Disabled
	}
}

// ParseLevel parses a log level string. Empty means WARN.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace":
		return DEBUG, nil
	case "info":
		return INFO, nil
	case "", "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	case "disabled", "off", "none":
		return DISABLED, nil
	default:
		return WARN, fmt.Errorf("unknown log level %q", level)
	}
}

// Options controls logger construction.
type Options struct {
	Level     Level
	JSON      bool
	NoColor   bool
	Output    io.Writer
	Component string
}

// New builds a logger. A nil Output means stderr.
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if !opts.JSON {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    opts.NoColor,
		}
	}

	ctx := zerolog.New(out).With().Timestamp()
	if opts.Component != "" {
		ctx = ctx.Str("component", opts.Component)
	}
	return ctx.Logger().Level(opts.Level.zerolog())
}

// Configure builds a logger and installs it as the zerolog global.
func Configure(opts Options) zerolog.Logger {
	logger := New(opts)
	log.Logger = logger
	return logger
}
