package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// prettyHandler renders one header line per record followed by indented
// "- Label: value" detail lines. Component, identifier, and outcome are lifted
// into the header so a restore run reads as one line per photo.
type prettyHandler struct {
	mu        *sync.Mutex
	writer    io.Writer
	level     *slog.LevelVar
	attrs     []slog.Attr
	groups    []string
	addSource bool
}

func newPrettyHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &prettyHandler{mu: &sync.Mutex{}, writer: w, level: lvl, addSource: addSource}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// consoleLine is a record split into header fields and detail lines.
type consoleLine struct {
	component  string
	identifier string
	outcome    string
	details    []kv
}

func (h *prettyHandler) Handle(_ context.Context, record slog.Record) error {
	if record.Level < h.level.Level() {
		return nil
	}

	all := make([]kv, 0, record.NumAttrs()+len(h.attrs))
	flattenAttrs(&all, h.groups, h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&all, h.groups, attr)
		return true
	})
	line := splitHeader(all)

	var buf bytes.Buffer
	buf.Grow(256 + len(line.details)*32)
	h.writeHeader(&buf, record, line)
	writeDetails(&buf, line.details, record.Level < slog.LevelInfo)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

// splitHeader pulls the first component, identifier, and outcome out of kvs.
// Later duplicates of any other key overwrite earlier values in place.
func splitHeader(kvs []kv) consoleLine {
	var line consoleLine
	rest := make([]kv, 0, len(kvs))
	for _, item := range kvs {
		var slot *string
		switch item.key {
		case FieldComponent:
			slot = &line.component
		case FieldIdentifier:
			slot = &line.identifier
		case FieldOutcome:
			slot = &line.outcome
		}
		if slot == nil {
			rest = append(rest, item)
			continue
		}
		if *slot == "" {
			*slot = attrString(item.value)
		}
	}
	line.details = dedupeKVsByKey(rest)
	return line
}

func (h *prettyHandler) writeHeader(buf *bytes.Buffer, record slog.Record, line consoleLine) {
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	buf.WriteString(formatTimestamp(ts))
	buf.WriteByte(' ')
	buf.WriteString(levelLabel(record.Level))
	if line.component != "" {
		buf.WriteString(" [" + line.component + "]")
	}
	if line.identifier != "" {
		buf.WriteString(" " + line.identifier)
	}
	if line.outcome != "" {
		buf.WriteString(" (" + line.outcome + ")")
	}

	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	buf.WriteString(" – ")
	buf.WriteString(msg)

	if h.addSource {
		if src := record.Source(); src != nil {
			buf.WriteString(" [" + filepath.Base(src.File) + ":" + strconv.Itoa(src.Line) + "]")
		}
	}
	buf.WriteByte('\n')
}

func writeDetails(buf *bytes.Buffer, details []kv, debug bool) {
	for _, item := range details {
		if item.key == "" || (!debug && isDebugOnlyKey(item.key)) {
			continue
		}
		buf.WriteString("    - ")
		buf.WriteString(displayLabel(item.key))
		buf.WriteString(": ")
		buf.WriteString(formatValueForKey(item.key, item.value))
		buf.WriteByte('\n')
	}
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	next.attrs = append(next.attrs, attrs...)
	return next
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	next := h.clone()
	next.groups = append(next.groups, name)
	return next
}

func (h *prettyHandler) clone() *prettyHandler {
	return &prettyHandler{
		mu:        h.mu,
		writer:    h.writer,
		level:     h.level,
		addSource: h.addSource,
		attrs:     append([]slog.Attr(nil), h.attrs...),
		groups:    append([]string(nil), h.groups...),
	}
}

type kv struct {
	key   string
	value slog.Value
}

func dedupeKVsByKey(items []kv) []kv {
	if len(items) < 2 {
		return items
	}
	index := make(map[string]int, len(items))
	out := make([]kv, 0, len(items))
	for _, item := range items {
		if item.key == "" {
			continue
		}
		if at, seen := index[item.key]; seen {
			out[at].value = item.value
			continue
		}
		index[item.key] = len(out)
		out = append(out, item)
	}
	return out
}

func flattenAttrs(dst *[]kv, prefix []string, attrs []slog.Attr) {
	for _, attr := range attrs {
		flattenAttr(dst, prefix, attr)
	}
}

// flattenAttr joins group names onto keys with dots.
func flattenAttr(dst *[]kv, prefix []string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	attr.Value = attr.Value.Resolve()
	path := prefix
	if attr.Key != "" {
		path = append(append([]string(nil), prefix...), attr.Key)
	}
	if attr.Value.Kind() == slog.KindGroup {
		flattenAttrs(dst, path, attr.Value.Group())
		return
	}
	*dst = append(*dst, kv{key: strings.Join(path, "."), value: attr.Value})
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	}
	return "DEBUG"
}
