// Package logging is a small leveled wrapper over the standard
// library's log package, configured directly from the on-disk
// internal/config.LoggingConfig rather than a bare string, so the CLI
// and any other entry point share one source of truth for the level.
package logging

import (
	"log"
	"strings"

	"github.com/ethanadams/s3gate/internal/config"
)

// Level represents the logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// tags labels every emitted line with its level, since a bare
// log.Printf gives no indication of which gate a message passed.
var tags = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

var currentLevel = LevelInfo

// Init configures the package logger from cfg, the same LoggingConfig
// the CLI loads from and persists to config.yaml.
func Init(cfg config.LoggingConfig) {
	SetLevel(cfg.Level)
}

// SetLevel sets the global logging level from a string
func SetLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		currentLevel = LevelDebug
	case "info":
		currentLevel = LevelInfo
	case "warn", "warning":
		currentLevel = LevelWarn
	case "error":
		currentLevel = LevelError
	default:
		currentLevel = LevelInfo
	}
	log.Printf("[%s] log level set to %s", tags[currentLevel], strings.ToLower(level))
}

func logf(level Level, format string, v ...interface{}) {
	if currentLevel > level {
		return
	}
	log.Printf("[%s] "+format, append([]interface{}{tags[level]}, v...)...)
}

// Debug logs a message at DEBUG level
func Debug(format string, v ...interface{}) { logf(LevelDebug, format, v...) }

// Info logs a message at INFO level
func Info(format string, v ...interface{}) { logf(LevelInfo, format, v...) }

// Warn logs a message at WARN level
func Warn(format string, v ...interface{}) { logf(LevelWarn, format, v...) }

// Error logs a message at ERROR level
func Error(format string, v ...interface{}) { logf(LevelError, format, v...) }
