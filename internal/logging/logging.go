// =============================================================================
// MILSTRIP Validator - Logging
// =============================================================================
//
// This module configures the application logger. Log entries are written
// as text to a size-rotated log file and, when verbose output is enabled,
// mirrored to standard error.
//
// Components do not depend on logrus directly. They take the Logger
// interface, which tests satisfy with Discard().
//
// =============================================================================

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the logging interface used by the processing components.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// Options configures Setup.
type Options struct {
	// File is the log file path. Empty disables file output.
	File string

	// Level is one of "debug", "info", "warn", "error".
	Level string

	// MaxSizeMB is the size at which the file is rotated.
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept.
	MaxBackups int

	// Console mirrors entries to Stderr.
	Console bool

	// Stderr overrides os.Stderr for console output.
	Stderr io.Writer
}

// Setup builds a logrus logger from opts. The returned closer releases the
// log file and must be closed when the application exits.
func Setup(opts Options) (*logrus.Logger, io.Closer, error) {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableColors:   true,
	})

	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			LocalTime:  true,
		}
		writers = append(writers, file)
		closer = file
	}

	if opts.Console {
		stderr := opts.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
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

	return logger, closer, nil
}

// =============================================================================
// LOGGER ADAPTERS
// =============================================================================

// New wraps a logrus entry in the Logger interface.
func New(entry *logrus.Entry) Logger {
	return &logrusLogger{entry: entry}
}

// Discard returns a Logger that drops every entry.
func Discard() Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(logrus.NewEntry(logger))
}

type logrusLogger struct {
	entry *logrus.Entry
}

func (l *logrusLogger) Debug(msg string, args ...interface{}) {
	l.entry.Debugf(msg, args...)
}

func (l *logrusLogger) Info(msg string, args ...interface{}) {
	l.entry.Infof(msg, args...)
}

func (l *logrusLogger) Warn(msg string, args ...interface{}) {
	l.entry.Warnf(msg, args...)
}

func (l *logrusLogger) Error(msg string, args ...interface{}) {
	l.entry.Errorf(msg, args...)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
