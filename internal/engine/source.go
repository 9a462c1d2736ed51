package engine

import (
	"github.com/braidcli/braid/internal/framer"
	"github.com/braidcli/braid/internal/model"
)

// Stream is the flow-control handle of a source's byte producer. Pause and
// Resume are asynchronous signals to the producer; they never block the
// scheduler.
type Stream interface {
	Pause()
	Resume()
}

// Source tracks one registered input origin: its framer state, the queue of
// accepted records awaiting ordered emission, and the pause/resume handle of
// the underlying byte stream. All mutation happens on the engine's single
// control flow.
type Source struct {
	ID string

	stream Stream
	framer framer.Framer
	queue  []model.Record
	done   bool
	paused bool
}

// Done reports whether the source's stream has signaled end of input.
func (s *Source) Done() bool { return s.done }

// Paused reports whether the source's stream is currently paused for
// backpressure. A paused source always has a non-empty queue.
func (s *Source) Paused() bool { return s.paused }

// Buffered returns the number of records awaiting emission.
func (s *Source) Buffered() int { return len(s.queue) }

func (s *Source) head() model.Record { return s.queue[0] }

func (s *Source) pop() model.Record {
	rec := s.queue[0]
	s.queue[0] = model.Record{}
	s.queue = s.queue[1:]
	if len(s.queue) == 0 {
		s.queue = nil
	}
	return rec
}
