package xcompose

import (
	"log/slog"
	"os"
	"strings"
)

// Context carries cross-cutting configuration for table construction:
// currently just the logger warnings and errors are routed through.
// Table construction takes a *Context so callers can plug in their own
// slog.Logger; a nil *Context gets NewContext's logger, and a Context
// with a nil Logger logs through slog.Default(). Matching takes none.
type Context struct {
	Logger *slog.Logger
}

// NewContext builds a Context with the default logger, level-configured
// from the XCOMPOSE_LOG_LEVEL environment variable the same way
// sqldef's util.InitSlog reads LOG_LEVEL.
func NewContext() *Context {
	return &Context{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevelFromEnv()}))}
}

func logLevelFromEnv() slog.Level {
	v, ok := os.LookupEnv("XCOMPOSE_LOG_LEVEL")
	if !ok {
		return slog.LevelInfo
	}
	switch strings.ToLower(v) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Context) logger() *slog.Logger {
	if c == nil || c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
