// Package logging builds the structured logger used by the monocrack
// commands.
//
// Logs always go to a separate stream from the decryption report, stderr by
// default, so the report on stdout can be piped cleanly:
//
//	logger := logging.New(logging.Config{Level: logging.LevelDebug})
//	logger.Info("model built", "grams", m.Len())
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level represents log severity levels, ordered Debug < Info < Warn < Error.
// The zero value is LevelInfo.
type Level int

const (
	// LevelDebug traces the search: restarts, generations, skipped corpus
	// lines.
	LevelDebug Level = iota - 1

	// LevelInfo reports run setup and results.
	LevelInfo

	// LevelWarn is for runs that ended early.
	LevelWarn

	// LevelError is for failures.
	LevelError
)

// String returns "DEBUG", "INFO", "WARN", "ERROR", or "UNKNOWN".
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel converts a level name (case-insensitive) to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
	}
}

// Config configures New. The zero value writes Info and above to stderr
// as text.
type Config struct {
	// Level sets the minimum level. Messages below it are discarded.
	Level Level

	// JSON selects JSON output instead of logfmt-style text.
	JSON bool

	// Writer receives the log output. Default: os.Stderr.
	Writer io.Writer

	// Service, when set, is attached to every record as "service".
	Service string
}

// New creates a logger from config.
func New(config Config) *slog.Logger {
	w := config.Writer
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: config.Level.toSlogLevel()}
	var handler slog.Handler
	if config.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	if config.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("service", config.Service)})
	}
	return slog.New(handler)
}
