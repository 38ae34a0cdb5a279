// Package logging provides the guardian's structured logger, built on bolt.
//
// A single process-wide logger backs the package-level Info, Warn, ... helpers.
// Commands call Configure once they have read their configuration; until then
// the logger writes warnings and errors to stderr.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/goap-go/domain/config"
)

var (
	defaultLogger *bolt.Logger
	once          sync.Once
	mu            sync.RWMutex
)

// Config configures the logger.
type Config struct {
	Level  string
	Format string
	Output io.Writer
}

// DefaultConfig is used before Configure runs. Logs go to stderr so command
// output on stdout stays clean.
func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		Format: "console",
		Output: os.Stderr,
	}
}

// FromSettings converts the logging section of a guardian config.
func FromSettings(s config.LoggingConfig, w io.Writer) Config {
	return Config{Level: s.Level, Format: s.Format, Output: w}
}

func parseLevel(s string) bolt.Level {
	switch strings.ToLower(s) {
	case "trace":
		return bolt.TRACE
	case "debug":
		return bolt.DEBUG
	case "info":
		return bolt.INFO
	case "warn":
		return bolt.WARN
	case "error":
		return bolt.ERROR
	default:
		return bolt.INFO
	}
}

// New builds a logger without touching the default one.
func New(cfg Config) *bolt.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var h bolt.Handler = bolt.NewConsoleHandler(out)
	if cfg.Format == "json" {
		h = bolt.NewJSONHandler(out)
	}
	return bolt.New(h).SetLevel(parseLevel(cfg.Level))
}

// Configure replaces the default logger with one built from settings.
func Configure(s config.LoggingConfig, w io.Writer) {
	Set(New(FromSettings(s, w)))
}

// Set replaces the default logger.
func Set(l *bolt.Logger) {
	once.Do(func() {})
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = l
}

// Get returns the default logger.
func Get() *bolt.Logger {
	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		defaultLogger = New(DefaultConfig())
	})
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// LogEvent wraps a bolt.Event so Fields can be chained onto it.
type LogEvent struct {
	event *bolt.Event
}

// Add applies a field and returns the event for chaining.
func (l *LogEvent) Add(f Field) *LogEvent {
	l.event = f(l.event)
	return l
}

// Msg sends the event.
func (l *LogEvent) Msg(msg string) {
	l.event.Msg(msg)
}

func Debug() *LogEvent { return &LogEvent{event: Get().Debug()} }
func Info() *LogEvent  { return &LogEvent{event: Get().Info()} }
func Warn() *LogEvent  { return &LogEvent{event: Get().Warn()} }
func Error() *LogEvent { return &LogEvent{event: Get().Error()} }
