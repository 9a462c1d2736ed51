package source

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

const chunkSize = 32 * 1024

// Event is one discrete occurrence on a source's byte stream: a chunk of
// data, end of input, or a read failure. Exactly one terminal event (EOF or
// Err) is delivered per reader.
type Event struct {
	ID   string
	Data []byte
	EOF  bool
	Err  error
}

// Reader produces byte chunks for one source on its own goroutine and
// honors pause/resume signals from the merge scheduler. It implements the
// engine's Stream interface.
type Reader struct {
	id     string
	rc     io.ReadCloser
	gate   gate
	follow *fsnotify.Watcher
	path   string
}

// NewReader wraps an opened byte stream identified by id.
func NewReader(id string, rc io.ReadCloser) *Reader {
	return &Reader{id: id, rc: rc}
}

// Follow switches the reader to follow mode: reaching end of file waits for
// further writes instead of finishing the source.
func (r *Reader) Follow(path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return err
	}
	r.follow = w
	r.path = path
	return nil
}

// Pause signals the reader to stop producing chunks. Asynchronous: a read
// already in flight still completes.
func (r *Reader) Pause() { r.gate.pause() }

// Resume lifts a previous Pause.
func (r *Reader) Resume() { r.gate.resume() }

// Run reads the stream to completion, delivering events on out. It returns
// when the stream ends, fails, or the context is cancelled. The stream and
// any follow watcher are closed on return.
func (r *Reader) Run(ctx context.Context, out chan<- Event) {
	defer r.rc.Close()
	if r.follow != nil {
		defer r.follow.Close()
	}

	buf := make([]byte, chunkSize)
	for {
		if !r.gate.wait(ctx) {
			return
		}

		n, err := r.rc.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if !r.send(ctx, out, Event{ID: r.id, Data: chunk}) {
				return
			}
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			if r.follow != nil && r.waitForWrite(ctx) {
				continue
			}
			r.send(ctx, out, Event{ID: r.id, EOF: true})
			return
		default:
			r.send(ctx, out, Event{ID: r.id, Err: err})
			return
		}
	}
}

func (r *Reader) send(ctx context.Context, out chan<- Event, ev Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// waitForWrite blocks until the followed file is appended to. Returns false
// when the file is removed or renamed away, or the context ends.
func (r *Reader) waitForWrite(ctx context.Context) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-r.follow.Events:
			if !ok {
				return false
			}
			switch {
			case ev.Op&fsnotify.Write != 0:
				return true
			case ev.Op&fsnotify.Remove != 0, ev.Op&fsnotify.Rename != 0:
				log.Debug().Str("path", r.path).Msg("followed file rotated away")
				return false
			}
		case err, ok := <-r.follow.Errors:
			if !ok {
				return false
			}
			log.Warn().Err(err).Str("path", r.path).Msg("watch error")
		}
	}
}

// gate is the pause/resume latch a reader blocks on between chunks. It
// starts open.
type gate struct {
	mu     sync.Mutex
	paused bool
	ch     chan struct{} // non-nil while paused; closed on resume
}

func (g *gate) pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.paused {
		g.paused = true
		g.ch = make(chan struct{})
	}
}

func (g *gate) resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.paused {
		g.paused = false
		close(g.ch)
	}
}

// wait blocks while the gate is paused. Returns false if the context ended
// first.
func (g *gate) wait(ctx context.Context) bool {
	g.mu.Lock()
	ch := g.ch
	paused := g.paused
	g.mu.Unlock()

	if !paused {
		return ctx.Err() == nil
	}
	select {
	case <-ch:
		return ctx.Err() == nil
	case <-ctx.Done():
		return false
	}
}
