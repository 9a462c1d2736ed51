package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/braidcli/braid/internal/level"
	"github.com/braidcli/braid/internal/model"
)

// Renderer writes classified records to an output stream. Passthrough and
// malformed lines reach Render with a nil field mapping and are written
// verbatim in every mode except raw, which writes everything verbatim.
type Renderer interface {
	Render(rec model.Record) error
}

// Options configure the human-readable modes.
type Options struct {
	Color     bool
	LocalTime bool
}

// New returns the renderer for an output mode: long (default pretty),
// short, json, or raw.
func New(mode string, w io.Writer, opts Options) (Renderer, error) {
	switch strings.ToLower(mode) {
	case "", "long":
		return &LongRenderer{w: w, opts: opts}, nil
	case "short":
		return &ShortRenderer{w: w, opts: opts}, nil
	case "json":
		return &JSONRenderer{w: w, enc: json.NewEncoder(w)}, nil
	case "raw":
		return &RawRenderer{w: w}, nil
	default:
		return nil, fmt.Errorf("unknown output mode %q", mode)
	}
}

// ---------------------------------------------------------------------------
// Long Renderer (default colorized pretty-printing)
// ---------------------------------------------------------------------------

var (
	styleTrace = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
	styleDebug = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleInfo  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleFatal = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("196")).
			Bold(true) // white on red
	styleTime = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
	styleName = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Faint(true)
)

// LongRenderer prints one record per line as
//
//	[time] LEVEL: name/pid on hostname: msg (inline extras)
//
// with long or multiline extra fields on indented follow-up lines.
type LongRenderer struct {
	w    io.Writer
	opts Options
}

func (r *LongRenderer) Render(rec model.Record) error {
	if !rec.Structured() {
		_, err := fmt.Fprintln(r.w, rec.Raw)
		return err
	}

	ts := "[" + formatTime(rec, r.opts) + "]"
	origin := fmt.Sprintf("%s/%.0f on %s", rec.Str("name"), mustNum(rec, "pid"), rec.Str("hostname"))
	if r.opts.Color {
		ts = styleTime.Render(ts)
		origin = styleName.Render(origin)
	}

	inline, blocks := splitExtras(rec.Fields)

	head := fmt.Sprintf("%s %s: %s: %s", ts, levelTag(rec.Level, r.opts.Color), origin, firstLine(rec.Str("msg")))
	if inline != "" {
		head += " (" + inline + ")"
	}
	if _, err := fmt.Fprintln(r.w, head); err != nil {
		return err
	}

	// Continuation lines of a multiline message, then the block extras.
	for _, l := range restLines(rec.Str("msg")) {
		if _, err := fmt.Fprintf(r.w, "    %s\n", l); err != nil {
			return err
		}
	}
	for _, b := range blocks {
		if _, err := fmt.Fprint(r.w, b); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Short Renderer (condensed single-line output)
// ---------------------------------------------------------------------------

// ShortRenderer drops hostname and pid and keeps the time-of-day only.
type ShortRenderer struct {
	w    io.Writer
	opts Options
}

func (r *ShortRenderer) Render(rec model.Record) error {
	if !rec.Structured() {
		_, err := fmt.Fprintln(r.w, rec.Raw)
		return err
	}

	t := rec.Time.UTC()
	if r.opts.LocalTime {
		t = rec.Time.Local()
	}
	ts := t.Format("15:04:05.000")

	name := rec.Str("name")
	if r.opts.Color {
		ts = styleTime.Render(ts)
		name = styleName.Render(name)
	}

	line := fmt.Sprintf("%s %s %s: %s", ts, levelTag(rec.Level, r.opts.Color), name, firstLine(rec.Str("msg")))
	if inline, _ := splitExtras(rec.Fields); inline != "" {
		line += " (" + inline + ")"
	}
	_, err := fmt.Fprintln(r.w, line)
	return err
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer re-serializes each structured record as one JSON object per
// line. Passthrough lines are written verbatim so nothing is lost when
// piping.
type JSONRenderer struct {
	w   io.Writer
	enc *json.Encoder
}

func (r *JSONRenderer) Render(rec model.Record) error {
	if !rec.Structured() {
		_, err := fmt.Fprintln(r.w, rec.Raw)
		return err
	}
	return r.enc.Encode(rec.Fields)
}

// ---------------------------------------------------------------------------
// Raw Renderer (exact input lines)
// ---------------------------------------------------------------------------

// RawRenderer writes every line exactly as it was read.
type RawRenderer struct {
	w io.Writer
}

func (r *RawRenderer) Render(rec model.Record) error {
	_, err := fmt.Fprintln(r.w, rec.Raw)
	return err
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func levelTag(l level.Level, color bool) string {
	tag := l.Display()
	if !color {
		return tag
	}
	switch {
	case l >= level.Fatal:
		return styleFatal.Render(tag)
	case l >= level.Error:
		return styleError.Render(tag)
	case l >= level.Warn:
		return styleWarn.Render(tag)
	case l >= level.Info:
		return styleInfo.Render(tag)
	case l >= level.Debug:
		return styleDebug.Render(tag)
	default:
		return styleTrace.Render(tag)
	}
}

func formatTime(rec model.Record, opts Options) string {
	if opts.LocalTime {
		return rec.Time.Local().Format("2006-01-02T15:04:05.000-07:00")
	}
	return rec.Time.UTC().Format("2006-01-02T15:04:05.000Z")
}

func mustNum(rec model.Record, key string) float64 {
	n, _ := rec.Num(key)
	return n
}

// coreFields are rendered positionally and excluded from the extras.
var coreFields = map[string]bool{
	"v": true, "level": true, "name": true, "hostname": true,
	"pid": true, "time": true, "msg": true,
}

// splitExtras partitions the non-core fields: short scalars render inline
// as key=value, everything else becomes an indented block.
func splitExtras(fields map[string]any) (string, []string) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if !coreFields[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var inline []string
	var blocks []string
	for _, k := range keys {
		v := fields[k]
		switch x := v.(type) {
		case string:
			if len(x) <= 50 && !strings.Contains(x, "\n") {
				inline = append(inline, fmt.Sprintf("%s=%s", k, x))
			} else {
				blocks = append(blocks, indentBlock(k, x))
			}
		case float64, bool, nil:
			inline = append(inline, fmt.Sprintf("%s=%v", k, x))
		default:
			raw, err := json.MarshalIndent(v, "    ", "  ")
			if err != nil {
				raw = []byte(fmt.Sprintf("%v", v))
			}
			blocks = append(blocks, fmt.Sprintf("    %s: %s\n", k, raw))
		}
	}
	return strings.Join(inline, ", "), blocks
}

func indentBlock(key, val string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "    %s:\n", key)
	for _, l := range strings.Split(val, "\n") {
		fmt.Fprintf(&b, "      %s\n", l)
	}
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func restLines(s string) []string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.Split(s[i+1:], "\n")
	}
	return nil
}
