// Package logger implements a logging adapter using log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/puppet/internal/ui/output"
	"go.trai.ch/puppet/internal/ui/style"
)

// PrettyHandler is a slog.Handler producing human-readable, colored output.
// Task correlation attributes attached with With are shown as a bracketed
// scope before the message, in the order of domain.CorrelationParams.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewPrettyHandler creates a new PrettyHandler writing to the provided writer.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   output.New(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and outputs the log record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var icon string
	var color termenv.Color

	switch {
	case r.Level >= slog.LevelError:
		icon = style.Cross
		color = termenv.RGBColor(string(style.Red))
	case r.Level >= slog.LevelWarn:
		icon = style.Warning
		color = termenv.RGBColor(string(style.Yellow))
	case r.Level < slog.LevelInfo:
		icon = style.Dot
		color = termenv.RGBColor(string(style.Iris))
	default:
		color = termenv.RGBColor(string(style.Slate))
	}

	msg := r.Message
	scope, attrs := h.scope()
	if scope != "" {
		msg = "[" + scope + "] " + msg
	}
	if icon != "" {
		msg = icon + " " + msg
	}

	attrParts := make([]string, 0, len(attrs)+r.NumAttrs())
	for _, attr := range attrs {
		attrParts = append(attrParts, formatAttr(h.group, attr))
	}
	r.Attrs(func(attr slog.Attr) bool {
		attrParts = append(attrParts, formatAttr(h.group, attr))
		return true
	})

	if len(attrParts) > 0 {
		msg += " " + strings.Join(attrParts, " ")
	}

	styled := h.out.String(msg).Foreground(color)
	_, err := h.out.WriteString(styled.String() + "\n")

	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: newAttrs,
		group: h.group,
	}
}

// WithGroup returns a new Handler with the given group name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return &PrettyHandler{
		out:   h.out,
		level: h.level,
		attrs: h.attrs,
		group: name,
	}
}

// scope joins the correlation values among the handler attributes and
// returns the remaining attributes. Grouped handlers have no scope.
func (h *PrettyHandler) scope() (string, []slog.Attr) {
	if h.group != "" {
		return "", h.attrs
	}

	values := make(map[string]string)
	rest := make([]slog.Attr, 0, len(h.attrs))
	for _, attr := range h.attrs {
		if isCorrelation(attr.Key) {
			values[attr.Key] = attr.Value.String()
			continue
		}
		rest = append(rest, attr)
	}

	parts := make([]string, 0, len(values))
	for _, name := range domain.CorrelationParams {
		if v, ok := values[name]; ok && v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ":"), rest
}

func isCorrelation(key string) bool {
	for _, name := range domain.CorrelationParams {
		if key == name {
			return true
		}
	}
	return false
}

// formatAttr formats a single attribute, prefixing the key with the group.
func formatAttr(group string, attr slog.Attr) string {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	return key + "=" + attr.Value.String()
}
