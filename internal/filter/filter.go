package filter

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/braidcli/braid/internal/level"
	"github.com/braidcli/braid/internal/model"
)

// Config decides which structured records are kept. It is immutable after
// New and safe to share.
type Config struct {
	MinLevel level.Level // zero means no threshold
	Strict   bool        // drop non-structured lines instead of passing through
	conds    []*vm.Program
}

// New compiles the condition expressions and returns the filter
// configuration. A condition that fails to compile is a fatal configuration
// error. Conditions are evaluated against the record's field mapping with
// the six level names available as numeric constants (TRACE=10 … FATAL=60);
// the evaluation environment is read-only and has no host access.
func New(minLevel level.Level, conditions []string, strict bool) (*Config, error) {
	c := &Config{MinLevel: minLevel, Strict: strict}
	for _, src := range conditions {
		prog, err := expr.Compile(src, expr.AllowUndefinedVariables())
		if err != nil {
			return nil, fmt.Errorf("invalid condition %q: %w", src, err)
		}
		c.conds = append(c.conds, prog)
	}
	return c, nil
}

// Accept reports whether a structured record passes the severity threshold
// and every condition, in order, short-circuiting on the first rejection.
// A condition that errors at evaluation time rejects the record.
func (c *Config) Accept(rec model.Record) bool {
	if c.MinLevel != 0 && rec.Level < c.MinLevel {
		return false
	}
	if len(c.conds) == 0 {
		return true
	}

	env := environment(rec)
	for _, prog := range c.conds {
		out, err := expr.Run(prog, env)
		if err != nil {
			return false
		}
		if !truthy(out) {
			return false
		}
	}
	return true
}

// environment builds the per-record evaluation scope: all record fields
// plus the level constants. Constants are added last so a record cannot
// shadow them.
func environment(rec model.Record) map[string]any {
	env := make(map[string]any, len(rec.Fields)+len(level.All))
	for k, v := range rec.Fields {
		env[k] = v
	}
	for _, l := range level.All {
		env[l.Display()] = int(l)
	}
	return env
}

// truthy applies loose boolean semantics so conditions like `req_id` or
// `pid` work as presence checks.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case int:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}
