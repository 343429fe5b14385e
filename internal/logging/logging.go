// Package logging initializes the application's structured loggers.
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu               sync.RWMutex
	structuredLogger *slog.Logger
	fileWriter       io.WriteCloser
)

// Options controls logger initialization.
type Options struct {
	Level      slog.Level
	FilePath   string // when set, JSON logs are mirrored to a rotated file
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Init configures the structured JSON logger (stdout) and the human-readable
// text logger (stderr). When a file path is given, JSON output is also written
// to a size-rotated log file.
func Init(opts Options) {
	mu.Lock()
	defer mu.Unlock()

	jsonOut := io.Writer(os.Stdout)
	if opts.FilePath != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    max(opts.MaxSizeMB, 10),
			MaxBackups: max(opts.MaxBackups, 3),
			MaxAge:     max(opts.MaxAgeDays, 30),
			Compress:   true,
		}
		fileWriter = lj
		jsonOut = io.MultiWriter(os.Stdout, lj)
	}

	structuredHandler := slog.NewJSONHandler(jsonOut, &slog.HandlerOptions{Level: opts.Level})
	structuredLogger = slog.New(structuredHandler)

	humanReadableHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(humanReadableHandler))
}

// Logger returns the structured logger, initializing a default one if Init
// has not run yet (keeps tests and early startup code working).
func Logger() *slog.Logger {
	mu.RLock()
	l := structuredLogger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if structuredLogger == nil {
		structuredLogger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return structuredLogger
}

// ForService returns a logger annotated with the service name.
func ForService(service string) *slog.Logger {
	return Logger().With("service", service)
}

// Close flushes and closes the rotated log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if fileWriter == nil {
		return nil
	}
	err := fileWriter.Close()
	fileWriter = nil
	return err
}
