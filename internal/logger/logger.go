// Package logger is the process-wide logger. It keeps a small package-level
// API (Info, Errorf, ...) so call sites stay short, and writes structured
// records through zerolog.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls logger behaviour at initialisation time.
type Options struct {
	// Level is the minimum level: trace, debug, info, warn, error.
	// Anything else means info.
	Level string
	// Pretty switches to the coloured console writer. Keep false in production.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	mu  sync.RWMutex
	log = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

// Init replaces the process logger. It may be called again (tests do).
func Init(opts Options) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	Use(New(out, opts.Level))
}

// New builds a zerolog.Logger writing JSON to w at the given level.
func New(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// Use swaps the underlying logger.
func Use(l zerolog.Logger) {
	mu.Lock()
	log = l
	mu.Unlock()
}

// Get returns the underlying zerolog logger for callers that want the
// chained API.
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// ParseLevel converts a level name to a zerolog.Level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Info logs msg with optional key/value pairs: Info("booked", "class_id", 7).
func Info(msg string, kv ...interface{}) {
	write(zerolog.InfoLevel, msg, kv)
}

func Warn(msg string, kv ...interface{}) {
	write(zerolog.WarnLevel, msg, kv)
}

func Error(msg string, kv ...interface{}) {
	write(zerolog.ErrorLevel, msg, kv)
}

func Errorf(format string, v ...interface{}) {
	write(zerolog.ErrorLevel, fmt.Sprintf(format, v...), nil)
}

func Debug(msg string, kv ...interface{}) {
	write(zerolog.DebugLevel, msg, kv)
}

// Fatalf logs at fatal level and exits the process.
func Fatalf(format string, v ...interface{}) {
	write(zerolog.FatalLevel, fmt.Sprintf(format, v...), nil)
	os.Exit(1)
}

func write(level zerolog.Level, msg string, kv []interface{}) {
	l := Get()
	ev := l.WithLevel(level)
	if ev == nil {
		return
	}
	if len(kv) > 0 {
		ev = ev.Fields(normalize(kv))
	}
	ev.Msg(msg)
}

// normalize turns errors into strings and pads a dangling key so zerolog
// never drops a pair.
func normalize(kv []interface{}) []interface{} {
	if len(kv)%2 != 0 {
		kv = append(kv, "(missing)")
	}
	out := make([]interface{}, len(kv))
	for i, v := range kv {
		if err, ok := v.(error); ok && i%2 == 1 {
			out[i] = err.Error()
			continue
		}
		out[i] = v
	}
	return out
}
