// Package logging builds the structured loggers used across the CLI.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// New creates a [log.Logger] writing to w with timestamps enabled.
//
// The writer defaults to [os.Stderr].
func New(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, Prefix: "ambient"}
	return log.NewWithOptions(w, opts)
}

// With creates a child [log.Logger] with kv added to every entry.
func With(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// ParseLevel maps a level name to a [log.Level]. An empty name is info.
func ParseLevel(name string) (log.Level, error) {
	if strings.TrimSpace(name) == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return lvl, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
