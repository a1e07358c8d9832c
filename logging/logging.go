// Package logging provides component loggers that share one configured
// logrus base logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"Countdowns/config"

	"github.com/sirupsen/logrus"
)

var (
	base      = newBase()
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
	logFile   *os.File
)

func newBase() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// NewLogger returns the logger for a component. Loggers are cached, so every
// call with the same name yields the same entry.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}
	logger := base.WithField("component", component)
	loggers[component] = logger
	return logger
}

// Configure applies level, format and file sink settings to all loggers.
func Configure(cfg config.LogConfig) error {
	level, err := logrus.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	base.SetLevel(level)

	switch cfg.Format {
	case "json":
		base.SetFormatter(&logrus.JSONFormatter{})
	default:
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	if cfg.File == "" {
		base.SetOutput(os.Stderr)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		base.SetOutput(os.Stderr)
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		base.SetOutput(os.Stderr)
		return fmt.Errorf("open log file: %w", err)
	}
	logFile = f
	base.SetOutput(io.MultiWriter(os.Stderr, f))
	return nil
}

// SetOutput redirects all loggers, mainly for tests.
func SetOutput(w io.Writer) {
	base.SetOutput(w)
}
