package engine

import (
	"github.com/braidcli/braid/internal/model"
)

// Emitter is the single ordered sink for engine output. Implementations
// must be synchronous; a returned error is terminal for the run.
type Emitter interface {
	// EmitRecord receives filter-accepted structured records in global
	// chronological order.
	EmitRecord(rec model.Record) error

	// EmitRaw receives passthrough and malformed lines in encounter order,
	// out of band from the chronological merge.
	EmitRaw(rec model.Record) error
}

// Scheduler owns the source table and performs the streaming k-way
// chronological merge. It emits every record that is currently emittable on
// each drain and otherwise applies pause/resume flow control so that no
// source buffers unboundedly while a slower one is awaited.
//
// The scheduler is not safe for concurrent use; all calls must come from
// one control flow.
type Scheduler struct {
	sources []*Source
	emitter Emitter
}

// NewScheduler creates a scheduler emitting to the given sink.
func NewScheduler(em Emitter) *Scheduler {
	return &Scheduler{emitter: em}
}

// Register adds a source. Registration order is the tie break for records
// with equal timestamps. The source's stream is attached separately once
// opened; a source that never opens must be finished instead.
func (s *Scheduler) Register(id string) *Source {
	src := &Source{ID: id}
	s.sources = append(s.sources, src)
	return src
}

// Attach hands the source its stream's flow-control handle.
func (s *Scheduler) Attach(src *Source, stream Stream) {
	src.stream = stream
}

// Submit appends an accepted record to the source's queue and drains to a
// fixed point.
func (s *Scheduler) Submit(src *Source, rec model.Record) error {
	src.queue = append(src.queue, rec)
	return s.drain()
}

// Finish marks the source exhausted and drains; buffered records from other
// sources that were waiting on this one become emittable.
func (s *Scheduler) Finish(src *Source) error {
	if src.done {
		return nil
	}
	src.done = true
	return s.drain()
}

// Idle reports whether the merge is terminal: every source done with an
// empty queue.
func (s *Scheduler) Idle() bool {
	for _, src := range s.sources {
		if !src.done || len(src.queue) > 0 {
			return false
		}
	}
	return true
}

// drain emits every currently-emittable record, then applies flow control.
//
// The merge is ready when no source can still produce a record earlier than
// what is buffered: every not-done source with an attached stream has at
// least one record queued. While ready, the globally-earliest head is
// emitted, first-registered source winning ties. Once not ready (or
// terminal), sources that have run ahead are paused and lagging sources are
// resumed, bounding buffered memory.
func (s *Scheduler) drain() error {
	for {
		ready := true
		for _, src := range s.sources {
			if src.stream != nil && !src.done && len(src.queue) == 0 {
				ready = false
				break
			}
		}

		if ready {
			var best *Source
			for _, src := range s.sources {
				if len(src.queue) == 0 {
					continue
				}
				if best == nil || src.head().Time.Before(best.head().Time) {
					best = src
				}
			}
			if best != nil {
				if err := s.emitter.EmitRecord(best.pop()); err != nil {
					return err
				}
				continue
			}
		}

		for _, src := range s.sources {
			if src.stream == nil || src.done {
				continue
			}
			switch {
			case len(src.queue) > 0 && !src.paused:
				src.paused = true
				src.stream.Pause()
			case len(src.queue) == 0 && src.paused:
				src.paused = false
				src.stream.Resume()
			}
		}
		return nil
	}
}
