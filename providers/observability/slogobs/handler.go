package slogobs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Handler is a slog.Handler writing compact, pretty or JSON records.
// Attributes keep the order in which they were added.
type Handler struct {
	format Format
	level  slog.Level
	output io.Writer
	colors bool
	mu     *sync.Mutex
	attrs  []field
	prefix string
}

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	// Format is the output format. Defaults to FormatCompact.
	Format Format
	// Level is the minimum level written.
	Level slog.Level
	// Output defaults to os.Stderr so that command output on stdout stays clean.
	Output io.Writer
	// Colors enables ANSI colors for compact and pretty output. It is switched
	// on automatically when Output is a terminal.
	Colors bool
}

type field struct {
	key   string
	value any
}

// NewHandler creates a Handler.
func NewHandler(opts *HandlerOptions) *Handler {
	if opts == nil {
		opts = &HandlerOptions{}
	}
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}
	format := opts.Format
	if format == "" {
		format = FormatCompact
	}

	colors := opts.Colors
	if !colors && format != FormatJSON {
		if f, ok := output.(*os.File); ok {
			colors = isTerminal(f)
		}
	}

	return &Handler{
		format: format,
		level:  opts.Level,
		output: output,
		colors: colors,
		mu:     &sync.Mutex{},
	}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	fields := h.fields(r)

	var buf []byte
	switch h.format {
	case FormatPretty:
		buf = h.appendPretty(nil, r, fields)
	case FormatJSON:
		var err error
		if buf, err = appendJSON(nil, r, fields); err != nil {
			return err
		}
	default:
		buf = h.appendCompact(nil, r, fields)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.output.Write(buf)
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]field(nil), h.attrs...), h.flatten(h.prefix, attrs)...)
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

// fields returns the handler attributes followed by the record attributes.
func (h *Handler) fields(r slog.Record) []field {
	out := make([]field, 0, len(h.attrs)+r.NumAttrs())
	out = append(out, h.attrs...)
	r.Attrs(func(attr slog.Attr) bool {
		out = append(out, h.flatten(h.prefix, []slog.Attr{attr})...)
		return true
	})
	return out
}

// flatten expands group attributes into dotted keys and drops empty ones.
func (h *Handler) flatten(prefix string, attrs []slog.Attr) []field {
	var out []field
	for _, attr := range attrs {
		value := attr.Value.Resolve()
		if value.Kind() == slog.KindGroup {
			groupPrefix := prefix
			if attr.Key != "" {
				groupPrefix += attr.Key + "."
			}
			out = append(out, h.flatten(groupPrefix, value.Group())...)
			continue
		}
		if attr.Key == "" {
			continue
		}
		out = append(out, field{key: prefix + attr.Key, value: value.Any()})
	}
	return out
}

// appendCompact writes one line:
//
//	2006-01-02 15:04:05  WARN Extraction failed | extract.stage=pattern extract.content_length=23
func (h *Handler) appendCompact(buf []byte, r slog.Record, fields []field) []byte {
	buf = append(buf, r.Time.Format("2006-01-02 15:04:05")...)
	buf = append(buf, ' ')
	buf = h.appendLevel(buf, r.Level, fmt.Sprintf("%5s", levelString(r.Level)))
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)

	for i, f := range fields {
		if i == 0 {
			buf = append(buf, " |"...)
		}
		buf = append(buf, ' ')
		buf = append(buf, f.key...)
		buf = append(buf, '=')
		buf = append(buf, formatValue(f.value)...)
	}
	return append(buf, '\n')
}

// appendPretty writes the message line followed by one indented line per
// attribute:
//
//	2006-01-02 15:04:05 WARN   Extraction failed
//	                    |- extract.stage: pattern
//	                    `- extract.content_length: 23
func (h *Handler) appendPretty(buf []byte, r slog.Record, fields []field) []byte {
	const indent = "                    "

	buf = append(buf, r.Time.Format("2006-01-02 15:04:05")...)
	buf = append(buf, ' ')
	level := levelString(r.Level)
	buf = h.appendLevel(buf, r.Level, level)
	buf = append(buf, strings.Repeat(" ", 7-len(level))...)
	buf = append(buf, r.Message...)
	buf = append(buf, '\n')

	for i, f := range fields {
		branch := "|- "
		if i == len(fields)-1 {
			branch = "`- "
		}
		buf = append(buf, indent...)
		buf = append(buf, branch...)
		buf = append(buf, f.key...)
		buf = append(buf, ": "...)
		buf = append(buf, fmt.Sprint(f.value)...)
		buf = append(buf, '\n')
	}
	return buf
}

func (h *Handler) appendLevel(buf []byte, level slog.Level, text string) []byte {
	if !h.colors {
		return append(buf, text...)
	}
	buf = append(buf, colorForLevel(level)...)
	buf = append(buf, text...)
	return append(buf, colorReset...)
}

// appendJSON writes one JSON object per record. time, level and msg come
// first; later duplicate keys overwrite earlier ones.
func appendJSON(buf []byte, r slog.Record, fields []field) ([]byte, error) {
	data := make(map[string]any, len(fields)+3)
	for _, f := range fields {
		data[f.key] = f.value
	}
	data["time"] = r.Time.Format("2006-01-02T15:04:05")
	data["level"] = levelString(r.Level)
	data["msg"] = r.Message

	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode log record: %w", err)
	}
	buf = append(buf, encoded...)
	return append(buf, '\n'), nil
}

// formatValue renders a value for compact output, quoting strings that
// contain spaces, quotes or '=' and encoding slices and maps as JSON.
func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		if v == "" || strings.ContainsAny(v, " \t\r\n\"=") {
			return fmt.Sprintf("%q", v)
		}
		return v
	case []string, []any, map[string]any:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(encoded)
	default:
		return formatValue(fmt.Sprint(v))
	}
}

func levelString(level slog.Level) string {
	switch {
	case level < slog.LevelDebug:
		return "TRACE"
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < slog.LevelWarn:
		return "INFO"
	case level < slog.LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
)

func colorForLevel(level slog.Level) string {
	switch {
	case level < slog.LevelDebug:
		return colorGray
	case level < slog.LevelInfo:
		return colorBlue
	case level < slog.LevelWarn:
		return colorGreen
	case level < slog.LevelError:
		return colorYellow
	default:
		return colorRed
	}
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
