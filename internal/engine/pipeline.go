package engine

import (
	"github.com/braidcli/braid/internal/classify"
	"github.com/braidcli/braid/internal/filter"
	"github.com/braidcli/braid/internal/stats"
)

// Pipeline wires the per-source line framing, classification and filtering
// in front of the merge scheduler. Byte-chunk arrival is a discrete event:
// each handler runs synchronously to completion, including the drain it
// triggers, before the caller delivers the next event.
type Pipeline struct {
	sched    *Scheduler
	filter   *filter.Config
	emitter  Emitter
	counters *stats.Counters
}

// NewPipeline builds a pipeline emitting to em. counters may be nil.
func NewPipeline(f *filter.Config, em Emitter, counters *stats.Counters) *Pipeline {
	if counters == nil {
		counters = stats.New()
	}
	return &Pipeline{
		sched:    NewScheduler(em),
		filter:   f,
		emitter:  em,
		counters: counters,
	}
}

// Scheduler exposes the underlying merge scheduler.
func (p *Pipeline) Scheduler() *Scheduler { return p.sched }

// AddSource registers a source and returns its handle.
func (p *Pipeline) AddSource(id string) *Source {
	return p.sched.Register(id)
}

// Attach hands a source its opened stream.
func (p *Pipeline) Attach(src *Source, stream Stream) {
	p.sched.Attach(src, stream)
}

// HandleChunk frames one byte chunk into complete lines and runs each
// through classification, filtering and submission.
func (p *Pipeline) HandleChunk(src *Source, chunk []byte) error {
	for _, line := range src.framer.Feed(chunk) {
		if err := p.handleLine(src, line); err != nil {
			return err
		}
	}
	return nil
}

// HandleEOF flushes the source's unterminated leftover line, if any, and
// finishes the source.
func (p *Pipeline) HandleEOF(src *Source) error {
	if line, ok := src.framer.Flush(); ok {
		if err := p.handleLine(src, line); err != nil {
			return err
		}
	}
	return p.sched.Finish(src)
}

// HandleReadError finishes a source after a mid-stream failure. Buffered
// records already accepted from it remain emittable; the partial framer
// line is discarded so no truncated record is emitted.
func (p *Pipeline) HandleReadError(src *Source) error {
	return p.sched.Finish(src)
}

// Shutdown finishes every remaining source without flushing partial lines,
// draining already-accepted records best-effort. Used on cancellation.
func (p *Pipeline) Shutdown() error {
	for _, src := range p.sched.sources {
		if err := p.sched.Finish(src); err != nil {
			return err
		}
	}
	return nil
}

// handleLine classifies one framed line and routes it: structured records
// go through the filter into the source queue; passthrough and malformed
// lines are emitted immediately in encounter order, or dropped under strict
// mode. Only timestamp-bearing records are ever queued.
func (p *Pipeline) handleLine(src *Source, line string) error {
	p.counters.Line()

	rec, kind := classify.Classify(line, src.ID)
	if kind == classify.Structured {
		if !p.filter.Accept(rec) {
			p.counters.Filtered()
			return nil
		}
		p.counters.Accepted(rec.Level)
		return p.sched.Submit(src, rec)
	}

	if p.filter.Strict {
		p.counters.DroppedStrict()
		return nil
	}
	p.counters.Passthrough()
	return p.emitter.EmitRaw(rec)
}
