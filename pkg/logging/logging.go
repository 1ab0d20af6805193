// Package logging configures the logrus logger shared by prompt-line's
// components.
//
// A prompt is printed on every keystroke-return, so the logger is silent by
// default in an interactive terminal: records go to the configured log
// file, and to stderr only in debug mode or when stderr is not a terminal.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Options configures New.
type Options struct {
	// Level is a logrus level name. Empty means "warn".
	Level string

	// Verbose forces debug level.
	Verbose bool

	// File, when set, receives every record. A leading ~ is expanded.
	File string

	// Stderr is the diagnostic stream. Nil means os.Stderr.
	Stderr io.Writer
}

// Logger owns the logrus instance and its log file.
type Logger struct {
	*logrus.Logger
	file *os.File
}

// New returns a logger writing according to opts. An unusable level is an
// error; an unusable log file is reported through the logger itself.
func New(opts Options) (*Logger, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})

	levelStr := opts.Level
	if levelStr == "" {
		levelStr = "warn"
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if opts.Verbose {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	l := &Logger{Logger: logger}
	var writers []io.Writer
	var fileErr error
	if opts.File != "" {
		l.file, fileErr = openLogFile(expandPath(opts.File))
		if fileErr == nil {
			writers = append(writers, l.file)
		}
	}

	// Only show records on stderr if debug is enabled or stderr is not an
	// interactive terminal (piped, CI).
	if logger.GetLevel() >= logrus.DebugLevel || !isInteractive(stderr) {
		writers = append(writers, stderr)
	}

	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}

	if fileErr != nil {
		logger.WithError(fileErr).Warn("log file unavailable")
	}
	return l, nil
}

// Component returns an entry tagged with the component name.
func (l *Logger) Component(name string) *logrus.Entry {
	return l.WithField("component", name)
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Discard returns a logger that drops every record. Tests and library
// callers without logging needs use it.
func Discard() *Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &Logger{Logger: logger}
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func isInteractive(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// expandPath expands a leading tilde in file paths.
func expandPath(path string) string {
	if rest, ok := strings.CutPrefix(path, "~"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return path
}
