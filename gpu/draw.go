package gpu

import (
	"fmt"

	"github.com/pthm-cable/smoothlife/pipeline"
)

// DrawStrategy copies the selected buffer into the display texture and
// flushes the recorded list to the graphics goroutine.
type DrawStrategy struct {
	e *Engine
}

// NewDrawStrategy returns the draw strategy for e.
func NewDrawStrategy(e *Engine) *DrawStrategy {
	return &DrawStrategy{e: e}
}

// Draw publishes buf. It blocks while the graphics queue is full.
func (d *DrawStrategy) Draw(buf pipeline.DrawBuffer) error {
	e := d.e
	var src Texture
	switch buf {
	case pipeline.DrawField:
		src = e.field[e.cur]
	case pipeline.DrawDisc:
		src = e.discMask
	case pipeline.DrawRing:
		src = e.ringMask
	case pipeline.DrawTransition:
		e.pending.Pass(Preview{Dst: e.preview, Lookup: e.lookupTex})
		src = e.preview
	case pipeline.DrawPalette:
		src = e.ramp
	default:
		return fmt.Errorf("unknown draw buffer %v", buf)
	}
	e.pending.Pass(Copy{Dst: e.display, Src: src})
	return e.Flush()
}
