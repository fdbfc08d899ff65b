// ABOUTME: Logger setup for the orderd CLI
// ABOUTME: Text format gets colorized terminal output, json gets slog's JSON handler

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/freshslice/orderd/internal/config"
)

// setupLogger builds the process logger from config and installs it as the
// slog default, which the internal packages derive their component loggers
// from.
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = &colorHandler{
			level: level,
		}
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

var levelTags = map[slog.Level]string{
	slog.LevelDebug: color.MagentaString("DBG "),
	slog.LevelInfo:  color.CyanString("INF "),
	slog.LevelWarn:  color.YellowString("WRN "),
	slog.LevelError: color.New(color.FgRed, color.Bold).Sprint("ERR "),
}

// colorHandler writes one colorized line per record. Attrs from WithAttrs
// are rendered once up front into a fixed suffix; group names become key
// prefixes.
type colorHandler struct {
	mu     sync.Mutex
	level  slog.Level
	prefix string // key prefix accumulated from WithGroup
	suffix string // pre-rendered attrs from WithAttrs
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) appendAttr(buf *strings.Builder, a slog.Attr) {
	buf.WriteString(color.HiBlackString(" " + h.prefix + a.Key + "="))
	buf.WriteString(a.Value.String())
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder
	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	tag, ok := levelTags[r.Level]
	if !ok {
		tag = "??? "
	}
	buf.WriteString(tag)

	buf.WriteString(r.Message)
	buf.WriteString(h.suffix)
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&buf, a)
		return true
	})
	buf.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Print(buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var buf strings.Builder
	buf.WriteString(h.suffix)
	for _, a := range attrs {
		h.appendAttr(&buf, a)
	}
	return &colorHandler{level: h.level, prefix: h.prefix, suffix: buf.String()}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &colorHandler{level: h.level, prefix: h.prefix + name + ".", suffix: h.suffix}
}
