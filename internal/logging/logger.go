// Package logging provides the process-wide logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu     sync.RWMutex
	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

// InitWriter configures the global logger to write to w.
// format is "plain" (text) or "structured" (JSON); debug lowers the level.
func InitWriter(w io.Writer, format string, debug bool) error {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}

	var h slog.Handler
	switch strings.ToLower(format) {
	case "", "plain":
		h = slog.NewTextHandler(w, opts)
	case "structured":
		h = slog.NewJSONHandler(w, opts)
	default:
		return fmt.Errorf("invalid log format %q: must be 'plain' or 'structured'", format)
	}

	mu.Lock()
	logger = slog.New(h)
	mu.Unlock()
	return nil
}

// L returns the global logger.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// With returns a child logger carrying args on every record.
func With(args ...any) *slog.Logger {
	return L().With(args...)
}

func Debug(msg string, args ...any) { L().Debug(msg, args...) }
func Info(msg string, args ...any)  { L().Info(msg, args...) }
func Warn(msg string, args ...any)  { L().Warn(msg, args...) }
func Error(msg string, args ...any) { L().Error(msg, args...) }
