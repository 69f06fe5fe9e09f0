// Package logging provides structured logging using bolt.
//
// A single process-wide logger backs the package-level Debug/Info/Warn/Error
// helpers. Init replaces it, so each CLI invocation can direct logs to its
// own stderr.
package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/felixgeelhaar/bolt/v3"
)

var current atomic.Pointer[bolt.Logger]

// Config configures the logger.
type Config struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string

	// Format is console or json.
	Format string

	// Output defaults to stderr; stdout is reserved for answers.
	Output io.Writer
}

// DefaultConfig logs warnings and errors to stderr.
func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		Format: "console",
		Output: os.Stderr,
	}
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

// New builds a logger from config without installing it.
func New(config Config) *bolt.Logger {
	output := config.Output
	if output == nil {
		output = os.Stderr
	}

	var handler bolt.Handler
	if config.Format == "json" {
		handler = bolt.NewJSONHandler(output)
	} else {
		handler = bolt.NewConsoleHandler(output)
	}
	return bolt.New(handler).SetLevel(parseLevel(config.Level))
}

// Init installs a logger built from config as the process logger.
func Init(config Config) {
	current.Store(New(config))
}

// Get returns the process logger, installing the default one on first use.
func Get() *bolt.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	current.CompareAndSwap(nil, New(DefaultConfig()))
	return current.Load()
}

// SetLevel changes the level of the process logger.
func SetLevel(level string) {
	Get().SetLevel(parseLevel(level))
}

// LogEvent wraps a bolt.Event so Fields can be chained onto it.
type LogEvent struct {
	event *bolt.Event
}

// NewEvent wraps e.
func NewEvent(e *bolt.Event) *LogEvent {
	return &LogEvent{event: e}
}

// Add applies f and returns the event for chaining.
func (l *LogEvent) Add(f Field) *LogEvent {
	l.event = f(l.event)
	return l
}

// Msg sends the event with a message.
func (l *LogEvent) Msg(msg string) {
	l.event.Msg(msg)
}

// Debug starts a debug-level event.
func Debug() *LogEvent { return NewEvent(Get().Debug()) }

// Info starts an info-level event.
func Info() *LogEvent { return NewEvent(Get().Info()) }

// Warn starts a warn-level event.
func Warn() *LogEvent { return NewEvent(Get().Warn()) }

// Error starts an error-level event.
func Error() *LogEvent { return NewEvent(Get().Error()) }
