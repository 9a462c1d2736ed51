package level

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is a numeric log severity. The six well-known levels are spaced by
// ten so intermediate custom values remain representable.
type Level int

const (
	Trace Level = 10
	Debug Level = 20
	Info  Level = 30
	Warn  Level = 40
	Error Level = 50
	Fatal Level = 60
)

// names maps each well-known level to its canonical lowercase name.
var names = map[Level]string{
	Trace: "trace",
	Debug: "debug",
	Info:  "info",
	Warn:  "warn",
	Error: "error",
	Fatal: "fatal",
}

// All lists the well-known levels in ascending severity order.
var All = []Level{Trace, Debug, Info, Warn, Error, Fatal}

// Parse resolves a level given by canonical name or numeric value.
func Parse(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for l, n := range names {
		if n == name {
			return l, nil
		}
	}
	if n, err := strconv.Atoi(name); err == nil && n > 0 {
		return Level(n), nil
	}
	return 0, fmt.Errorf("unknown level %q", s)
}

// String returns the canonical lowercase name, or the numeric value for
// non-standard levels.
func (l Level) String() string {
	if n, ok := names[l]; ok {
		return n
	}
	return strconv.Itoa(int(l))
}

// Display returns the uppercase rendering used in human-readable output.
// Non-standard values render as LVL<n>, matching how unknown severities
// are conventionally shown.
func (l Level) Display() string {
	if n, ok := names[l]; ok {
		return strings.ToUpper(n)
	}
	return fmt.Sprintf("LVL%d", int(l))
}
