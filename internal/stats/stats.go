package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/braidcli/braid/internal/level"
)

// Counters accumulates per-run totals. All updates happen on the engine's
// single control flow, so no locking is needed; Summary is only called
// after the run completes.
type Counters struct {
	startTime   time.Time
	lines       int64
	accepted    int64
	filtered    int64
	passthrough int64
	strictDrops int64
	byLevel     map[level.Level]int64
}

// New creates zeroed counters with the clock started.
func New() *Counters {
	return &Counters{
		startTime: time.Now(),
		byLevel:   make(map[level.Level]int64),
	}
}

// Line records one framed input line.
func (c *Counters) Line() { c.lines++ }

// Accepted records one structured record that passed the filter.
func (c *Counters) Accepted(lvl level.Level) {
	c.accepted++
	c.byLevel[lvl]++
}

// Filtered records one structured record rejected by the filter.
func (c *Counters) Filtered() { c.filtered++ }

// Passthrough records one non-structured line emitted as-is.
func (c *Counters) Passthrough() { c.passthrough++ }

// DroppedStrict records one non-structured line dropped under strict mode.
func (c *Counters) DroppedStrict() { c.strictDrops++ }

// Lines returns the total framed line count.
func (c *Counters) Lines() int64 { return c.lines }

// Summary renders a human-readable end-of-run report.
func (c *Counters) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "processed %d lines in %s\n", c.lines, time.Since(c.startTime).Truncate(time.Millisecond))
	fmt.Fprintf(&b, "  records emitted:  %d\n", c.accepted)
	fmt.Fprintf(&b, "  records filtered: %d\n", c.filtered)
	fmt.Fprintf(&b, "  passthrough:      %d\n", c.passthrough)
	if c.strictDrops > 0 {
		fmt.Fprintf(&b, "  dropped (strict): %d\n", c.strictDrops)
	}
	for _, lvl := range level.All {
		if n := c.byLevel[lvl]; n > 0 {
			fmt.Fprintf(&b, "  %-6s %d\n", lvl.Display(), n)
		}
	}
	return b.String()
}
