package output

import "github.com/braidcli/braid/internal/model"

// Sink adapts a Renderer to the engine's emitter contract: one synchronous
// sink receiving the final emission order. Structured and passthrough
// emissions share the renderer so receipt order is preserved on the wire.
type Sink struct {
	r Renderer
}

// NewSink wraps a renderer.
func NewSink(r Renderer) *Sink {
	return &Sink{r: r}
}

// EmitRecord forwards an ordered structured record.
func (s *Sink) EmitRecord(rec model.Record) error {
	return s.r.Render(rec)
}

// EmitRaw forwards a passthrough or malformed line.
func (s *Sink) EmitRaw(rec model.Record) error {
	return s.r.Render(rec)
}
