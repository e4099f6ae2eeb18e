// Package corelog wraps log/slog with the simulator's own handler,
// so every command line driver configures logging the same way
// regardless of which subcommand it backs.
//
// No pack example reaches for a third-party structured-logging
// library in its own code (rcornwell-S370 wraps the standard
// library's log/slog the same way this package does), so this is a
// stdlib-based ambient concern rather than an adopted dependency.
package corelog

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Handler renders records as a single line: timestamp, level,
// message, then attributes in call order.
type Handler struct {
	out   io.Writer
	inner slog.Handler
	mu    *sync.Mutex
	attrs []slog.Attr
}

// New builds a Handler writing to w at the given minimum level.
func New(w io.Writer, level slog.Level) *Handler {
	return &Handler{
		out:   w,
		inner: slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}),
		mu:    &sync.Mutex{},
	}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &Handler{out: h.out, inner: h.inner.WithAttrs(attrs), mu: h.mu, attrs: merged}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{out: h.out, inner: h.inner.WithGroup(name), mu: h.mu, attrs: h.attrs}
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	parts := []string{r.Time.Format("2006-01-02 15:04:05"), r.Level.String() + ":", r.Message}
	for _, a := range h.attrs {
		parts = append(parts, a.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		parts = append(parts, a.String())
		return true
	})
	line := strings.Join(parts, " ") + "\n"

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write([]byte(line))
	return err
}

// NewLogger builds a ready-to-use *slog.Logger writing to w.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(New(w, level))
}
