package stats

import (
	"strings"
	"testing"

	"github.com/braidcli/braid/internal/level"
)

func TestCounters(t *testing.T) {
	c := New()

	for i := 0; i < 10; i++ {
		c.Line()
	}
	c.Accepted(level.Info)
	c.Accepted(level.Info)
	c.Accepted(level.Error)
	c.Filtered()
	c.Passthrough()

	if c.Lines() != 10 {
		t.Errorf("expected 10 lines, got %d", c.Lines())
	}

	out := c.Summary()
	for _, want := range []string{
		"processed 10 lines",
		"records emitted:  3",
		"records filtered: 1",
		"passthrough:      1",
		"INFO   2",
		"ERROR  1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestSummaryOmitsZeroLevels(t *testing.T) {
	c := New()
	c.Accepted(level.Warn)

	out := c.Summary()
	if strings.Contains(out, "FATAL") {
		t.Errorf("summary must omit levels with no records:\n%s", out)
	}
	if strings.Contains(out, "dropped (strict)") {
		t.Errorf("summary must omit strict drops when none occurred:\n%s", out)
	}
}
