package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// consoleHandler renders records as a header line followed by one indented
// line per attribute. Handlers derived through WithAttrs share the writer lock.
type consoleHandler struct {
	out       *lockedWriter
	level     *slog.LevelVar
	preset    []field
	groups    []string
	addSource bool
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) write(p []byte) error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	_, err := lw.w.Write(p)
	return err
}

type field struct {
	key   string
	value slog.Value
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &consoleHandler{out: &lockedWriter{w: w}, level: lvl, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	if !h.Enabled(context.Background(), record.Level) {
		return nil
	}

	header := logHeader{ts: record.Time, level: record.Level, message: strings.TrimSpace(record.Message)}
	if header.ts.IsZero() {
		header.ts = time.Now()
	}
	if header.message == "" {
		header.message = "(no message)"
	}
	if h.addSource {
		header.src = record.Source()
	}

	all := append([]field(nil), h.preset...)
	record.Attrs(func(attr slog.Attr) bool {
		all = appendField(all, h.groups, attr)
		return true
	})
	body := make([]field, 0, len(all))
	for _, f := range all {
		if f.key != "" && !header.claim(f) {
			body = append(body, f)
		}
	}
	body = lastValueWins(body)

	bullet := "    - "
	if record.Level < slog.LevelInfo {
		bullet = "    "
	}
	var buf bytes.Buffer
	buf.Grow(96 + 32*len(body))
	header.write(&buf)
	buf.WriteByte('\n')
	for _, f := range body {
		fmt.Fprintf(&buf, "%s%s: %s\n", bullet, f.key, renderValue(f.value))
	}
	return h.out.write(buf.Bytes())
}

// logHeader is the first line of a console record. Component, request id,
// and song id are lifted out of the field list into it.
type logHeader struct {
	ts        time.Time
	level     slog.Level
	component string
	requestID string
	songID    string
	message   string
	src       *slog.Source
}

// claim stores f in the header when it is a header field. The first value
// of each field wins.
func (h *logHeader) claim(f field) bool {
	var target *string
	switch f.key {
	case FieldComponent:
		target = &h.component
	case FieldRequestID:
		target = &h.requestID
	case FieldSongID:
		target = &h.songID
	default:
		return false
	}
	if *target == "" {
		*target = plainValue(f.value)
	}
	return true
}

func (h *logHeader) write(buf *bytes.Buffer) {
	buf.WriteString(formatTimestamp(h.ts))
	buf.WriteByte(' ')
	buf.WriteString(levelLabel(h.level))
	if h.component != "" {
		buf.WriteString(" [")
		buf.WriteString(h.component)
		buf.WriteByte(']')
	}
	if h.requestID != "" {
		buf.WriteString(" req ")
		buf.WriteString(shortID(h.requestID))
	}
	if h.songID != "" {
		buf.WriteString(" song ")
		buf.WriteString(shortID(h.songID))
	}
	buf.WriteString(" – ")
	buf.WriteString(h.message)
	if h.src != nil && h.src.File != "" {
		buf.WriteString(" [")
		buf.WriteString(filepath.Base(h.src.File))
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(h.src.Line))
		buf.WriteByte(']')
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.derive()
	for _, attr := range attrs {
		next.preset = appendField(next.preset, h.groups, attr)
	}
	return next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.derive()
	next.groups = append(next.groups, name)
	return next
}

func (h *consoleHandler) derive() *consoleHandler {
	return &consoleHandler{
		out:       h.out,
		level:     h.level,
		addSource: h.addSource,
		preset:    slices.Clone(h.preset),
		groups:    slices.Clone(h.groups),
	}
}

// lastValueWins collapses repeated keys, keeping the latest value in the slot
// of the first occurrence.
func lastValueWins(fields []field) []field {
	if len(fields) < 2 {
		return fields
	}
	slot := make(map[string]int, len(fields))
	out := fields[:0:0]
	for _, f := range fields {
		if i, seen := slot[f.key]; seen {
			out[i] = f
			continue
		}
		slot[f.key] = len(out)
		out = append(out, f)
	}
	return out
}

// appendField flattens attr into dotted keys under groups.
func appendField(dst []field, groups []string, attr slog.Attr) []field {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	if attr.Value.Kind() != slog.KindGroup {
		key := attr.Key
		if len(groups) > 0 {
			key = strings.Join(groups, ".") + "." + key
		}
		return append(dst, field{key: key, value: attr.Value})
	}
	nested := groups
	if attr.Key != "" {
		nested = append(slices.Clone(groups), attr.Key)
	}
	for _, child := range attr.Value.Group() {
		dst = appendField(dst, nested, child)
	}
	return dst
}

// plainValue is used for header fields, which are never quoted.
func plainValue(v slog.Value) string {
	if v.Kind() == slog.KindString {
		return v.String()
	}
	return renderValue(v)
}

func renderValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration().Round(time.Microsecond).String()
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindString:
		s = v.String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	default:
		return v.String()
	}
	if s == "" {
		return `""`
	}
	if strings.ContainsFunc(s, func(r rune) bool { return r < ' ' || r == '"' }) {
		return strconv.Quote(s)
	}
	return s
}

var levelLabels = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return levelLabels[3]
	case level >= slog.LevelWarn:
		return levelLabels[2]
	case level >= slog.LevelInfo:
		return levelLabels[1]
	}
	return levelLabels[0]
}
