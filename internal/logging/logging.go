// Package logging configures the application's leveled logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Options holds logger configuration.
type Options struct {
	Level           string
	Format          string
	Verbose         bool
	ReportTimestamp bool
	Prefix          string
}

// DefaultOptions returns options for human-readable info-level output.
func DefaultOptions() Options {
	return Options{
		Level:  "info",
		Format: "text",
		Prefix: "checklist",
	}
}

// New creates a logger writing to w. Verbose or CHECKLIST_DEBUG force debug level.
func New(w io.Writer, opts Options) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := ParseLevel(opts.Level)
	if opts.Verbose || DebugEnabled() {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       parseFormatter(opts.Format),
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// ParseLevel maps a level name to a log level, defaulting to info.
func ParseLevel(s string) log.Level {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

func parseFormatter(s string) log.Formatter {
	switch strings.ToLower(s) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// DebugEnabled returns true if debug mode is enabled via CHECKLIST_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("CHECKLIST_DEBUG") != ""
}
