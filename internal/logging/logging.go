// Package logging builds the zerolog loggers used by stoq.
//
// The TUI owns the terminal, so browse mode logs JSON lines to a rotating
// file. Every other subcommand logs to stderr through a console writer.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the destination and verbosity of a logger.
type Options struct {
	Level zerolog.Level
	Debug bool

	// File receives JSON lines when set. Console is used otherwise.
	File    string
	Console io.Writer
	NoColor bool
}

func (o Options) level() zerolog.Level {
	if o.Debug {
		return zerolog.DebugLevel
	}
	return o.Level
}

// New returns a logger and a closer for its destination.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	if opts.File != "" {
		return NewFile(opts.File, opts.level())
	}
	out := opts.Console
	if out == nil {
		out = os.Stderr
	}
	return NewConsole(out, opts.level(), opts.NoColor), nopCloser{}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewConsole writes human-readable lines to w.
func NewConsole(w io.Writer, level zerolog.Level, noColor bool) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    noColor,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Logger()
}

// NewFile writes JSON lines to path, rotating at 10 MB and keeping three
// old files.
func NewFile(path string, level zerolog.Level) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log dir: %w", err)
	}
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), w, nil
}
