package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// PrettyHandler writes one colored line per record:
//
//	15:04:05 INFO  message key=value group.key=value
//
// Colors are dropped automatically when w is not a terminal.
type PrettyHandler struct {
	opts   slog.HandlerOptions
	w      io.Writer
	mu     *sync.Mutex
	styles prettyStyles
	group  string
	attrs  []slog.Attr
}

type prettyStyles struct {
	time  lipgloss.Style
	debug lipgloss.Style
	info  lipgloss.Style
	warn  lipgloss.Style
	err   lipgloss.Style
	key   lipgloss.Style
}

func newPrettyStyles(w io.Writer) prettyStyles {
	r := lipgloss.NewRenderer(w)
	level := r.NewStyle().Bold(true).Width(5)
	return prettyStyles{
		time:  r.NewStyle().Foreground(lipgloss.Color("8")),
		debug: level.Foreground(lipgloss.Color("8")),
		info:  level.Foreground(lipgloss.Color("4")),
		warn:  level.Foreground(lipgloss.Color("3")),
		err:   level.Foreground(lipgloss.Color("1")),
		key:   r.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

// NewPrettyHandler returns a handler writing to w. opts may be nil.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &PrettyHandler{
		opts:   *opts,
		w:      w,
		mu:     &sync.Mutex{},
		styles: newPrettyStyles(w),
	}
}

// Enabled implements slog.Handler.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle implements slog.Handler.
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	if !r.Time.IsZero() {
		b.WriteString(h.styles.time.Render(r.Time.Format(time.TimeOnly)))
		b.WriteByte(' ')
	}
	b.WriteString(h.levelStyle(r.Level).Render(r.Level.String()))
	b.WriteByte(' ')
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		h.appendAttr(&b, a, "")
	}
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&b, a, h.group)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// WithAttrs implements slog.Handler. Attributes are qualified by the current group.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	nh.attrs = append(nh.attrs, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		nh.attrs = append(nh.attrs, a)
	}
	return &nh
}

// WithGroup implements slog.Handler.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	if h.group != "" {
		nh.group = h.group + "." + name
	} else {
		nh.group = name
	}
	return &nh
}

func (h *PrettyHandler) levelStyle(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return h.styles.err
	case l >= slog.LevelWarn:
		return h.styles.warn
	case l >= slog.LevelInfo:
		return h.styles.info
	default:
		return h.styles.debug
	}
}

func (h *PrettyHandler) appendAttr(b *strings.Builder, a slog.Attr, group string) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			h.appendAttr(b, ga, key)
		}
		return
	}
	b.WriteByte(' ')
	b.WriteString(h.styles.key.Render(key + "="))
	b.WriteString(formatValue(a.Value))
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if needsQuoting(s) {
			return strconv.Quote(s)
		}
		return s
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindDuration:
		return v.Duration().String()
	default:
		return fmt.Sprint(v.Any())
	}
}

func needsQuoting(s string) bool {
	return strings.ContainsAny(s, " \t\n\"=")
}
