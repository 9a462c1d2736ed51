package classify

import (
	"encoding/json"
	"time"

	"github.com/braidcli/braid/internal/level"
	"github.com/braidcli/braid/internal/model"
)

// Kind is the classification of one input line.
type Kind int

const (
	// Passthrough: the line does not look like a JSON record at all
	// (does not begin with '{', or is empty). Delivered in encounter order.
	Passthrough Kind = iota

	// Malformed: the line begins with '{' but is not valid JSON, or parses
	// but is missing a required field or carries one with the wrong type.
	Malformed

	// Structured: a well-formed record carrying all required fields and a
	// parseable timestamp. Eligible for filtering and ordered emission.
	Structured
)

// timeLayouts are tried in order when extracting the record timestamp.
// RFC3339Nano covers the canonical millisecond UTC form emitted by
// structured loggers as well as zoned variants.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z0700",
}

// Classify inspects one framed line and, for structured records, parses it
// into a field mapping with extracted timestamp and severity.
func Classify(raw, source string) (model.Record, Kind) {
	rec := model.Record{Source: source, Raw: raw}

	// The raw first byte decides: anything not starting with '{' passes
	// through untouched, even if it would parse after trimming.
	if len(raw) == 0 || raw[0] != '{' {
		return rec, Passthrough
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return rec, Malformed
	}

	// A record must carry the full required field set with the right shapes:
	// numeric v, level and pid; string name, hostname, time and msg.
	if _, ok := num(fields, "v"); !ok {
		return rec, Malformed
	}
	lvl, ok := num(fields, "level")
	if !ok {
		return rec, Malformed
	}
	for _, key := range []string{"name", "hostname", "msg"} {
		if _, ok := str(fields, key); !ok {
			return rec, Malformed
		}
	}
	if _, ok := num(fields, "pid"); !ok {
		return rec, Malformed
	}
	ts, ok := str(fields, "time")
	if !ok {
		return rec, Malformed
	}
	t, ok := parseTime(ts)
	if !ok {
		return rec, Malformed
	}

	rec.Fields = fields
	rec.Time = t
	rec.Level = level.Level(lvl)
	return rec, Structured
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func num(fields map[string]any, key string) (float64, bool) {
	n, ok := fields[key].(float64)
	return n, ok
}

func str(fields map[string]any, key string) (string, bool) {
	s, ok := fields[key].(string)
	return s, ok
}
