package model

import (
	"time"

	"github.com/braidcli/braid/internal/level"
)

// Record represents a single classified log line.
//
// A structured record carries its parsed field mapping and an extracted
// timestamp. Passthrough and malformed lines keep Fields nil and a zero
// Time; they are never buffered for ordering.
type Record struct {
	Time   time.Time      `json:"time"`             // extracted timestamp (zero for passthrough)
	Source string         `json:"source"`           // originating file path, or "-" for stdin
	Raw    string         `json:"raw"`              // original line text, terminator stripped
	Level  level.Level    `json:"level"`            // numeric severity
	Fields map[string]any `json:"fields,omitempty"` // parsed field mapping
}

// Structured reports whether the record parsed as a valid log record.
func (r Record) Structured() bool {
	return r.Fields != nil
}

// Str returns the named field as a string, or "" if absent or not a string.
func (r Record) Str(key string) string {
	s, _ := r.Fields[key].(string)
	return s
}

// Num returns the named field as a number. JSON numbers decode as float64.
func (r Record) Num(key string) (float64, bool) {
	n, ok := r.Fields[key].(float64)
	return n, ok
}
