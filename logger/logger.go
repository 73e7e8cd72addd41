// SPDX-License-Identifier: MIT
// Package logger owns the process-wide logrus logger.
package logger

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/routechoice/config"
)

var (
	mu  sync.Mutex
	log *logrus.Logger
)

// Initialize (re)builds the global logger from cfg. Invalid settings fall
// back to info level, text format and stdout, with a warning.
func Initialize(cfg *config.LoggingConfig) *logrus.Logger {
	l := logrus.New()

	// Level
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		l.Warnf("invalid log level %q, using info", cfg.Level)
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	// Format
	switch cfg.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	case "text", "":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	default:
		l.Warnf("invalid log format %q, using text", cfg.Format)
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	// Output
	switch cfg.Output {
	case "stdout", "":
		l.SetOutput(os.Stdout)
	case "stderr":
		l.SetOutput(os.Stderr)
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			l.Warnf("cannot open log file %q, using stdout: %v", cfg.Output, err)
			l.SetOutput(os.Stdout)
		} else {
			l.SetOutput(f)
		}
	}

	mu.Lock()
	log = l
	mu.Unlock()

	return l
}

// GetLogger returns the global logger, creating an info-level text logger
// on first use when Initialize was never called.
func GetLogger() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}
