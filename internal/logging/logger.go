// Package logging provides config-driven categorized file-based logging
// for knower. Logs are written under the configured directory with a
// separate file per category; when debug mode is off every logger is a
// silent no-op so the prover's hot path pays nothing.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Category represents a log category/system.
type Category string

const (
	CategoryProver  Category = "prover"  // Iterative-deepening driver
	CategoryTableau Category = "tableau" // Expansion engine, branch state
	CategoryUnify   Category = "unify"   // Unification, disequality scans
	CategoryWorlds  Category = "worlds"  // Modal sub-world dispatch
	CategoryParse   Category = "parse"   // Formula and problem-file parsing
)

// Log levels.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Settings controls the logging subsystem.
type Settings struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Dir        string          `yaml:"dir"`
	Level      string          `yaml:"level"`
	Categories map[string]bool `yaml:"categories"` // nil means all enabled
}

// Logger writes to one category's file.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	mu       sync.RWMutex
	loggers  = make(map[Category]*Logger)
	settings Settings
	logLevel = LevelInfo
)

// Initialize configures the logging directory and level. A zero Settings
// (or DebugMode false) leaves logging as a silent no-op.
func Initialize(s Settings) error {
	mu.Lock()
	defer mu.Unlock()

	settings = s
	switch s.Level {
	case "debug":
		logLevel = LevelDebug
	case "info", "":
		logLevel = LevelInfo
	case "warn", "warning":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		return fmt.Errorf("unknown log level %q", s.Level)
	}

	if !s.DebugMode {
		return nil
	}
	if settings.Dir == "" {
		settings.Dir = filepath.Join(".", ".knower", "logs")
	}
	if err := os.MkdirAll(settings.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}
	return nil
}

// Shutdown closes all open log files. Safe to call repeatedly.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()
	for _, l := range loggers {
		if l.file != nil {
			_ = l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// IsCategoryEnabled returns whether a category is currently enabled.
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	if !settings.DebugMode {
		return false
	}
	if settings.Categories == nil {
		return true
	}
	enabled, ok := settings.Categories[string(category)]
	if !ok {
		return true
	}
	return enabled
}

// Get returns (or creates) the logger for the category. A no-op logger
// is returned when the category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category}
	}

	mu.RLock()
	l, ok := loggers[category]
	mu.RUnlock()
	if ok {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	path := filepath.Join(settings.Dir, string(category)+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] cannot open %s: %v\n", path, err)
		return &Logger{category: category}
	}
	l = &Logger{
		category: category,
		logger:   log.New(f, "", log.LstdFlags|log.Lmicroseconds),
		file:     f,
	}
	loggers[category] = l
	return l
}

func (l *Logger) write(level int, prefix, format string, args ...interface{}) {
	if l == nil || l.logger == nil {
		return
	}
	mu.RLock()
	min := logLevel
	mu.RUnlock()
	if level < min {
		return
	}
	l.logger.Printf("[%s] %s", prefix, fmt.Sprintf(format, args...))
}

// Debug logs at debug level.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.write(LevelDebug, "DEBUG", format, args...)
}

// Info logs at info level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.write(LevelInfo, "INFO", format, args...)
}

// Warn logs at warn level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.write(LevelWarn, "WARN", format, args...)
}

// Error logs at error level.
func (l *Logger) Error(format string, args ...interface{}) {
	l.write(LevelError, "ERROR", format, args...)
}
