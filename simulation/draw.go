package simulation

import (
	"fmt"

	"github.com/pthm-cable/smoothlife/kernel"
	"github.com/pthm-cable/smoothlife/pipeline"
)

// FrameDraw publishes engine buffers into a shared Frame for the presenter.
type FrameDraw struct {
	e       *Engine
	out     *pipeline.SharedBuffer[pipeline.Frame]
	scratch []float64
	ramp    []float64
}

// NewFrameDraw returns a draw strategy for e and the shared frame it fills.
func NewFrameDraw(e *Engine) *FrameDraw {
	w, h := e.Size()
	return &FrameDraw{
		e:       e,
		out:     pipeline.NewSharedBuffer(pipeline.NewFrame(w, h)),
		scratch: make([]float64, w*h),
	}
}

// Output is the buffer read by the presenter.
func (d *FrameDraw) Output() *pipeline.SharedBuffer[pipeline.Frame] { return d.out }

// Draw copies the selected buffer into the shared frame.
func (d *FrameDraw) Draw(buf pipeline.DrawBuffer) error {
	src, err := d.source(buf)
	if err != nil {
		return err
	}
	f := d.out.Lock()
	f.CopyFrom(src, buf)
	d.out.Unlock()
	return nil
}

func (d *FrameDraw) source(buf pipeline.DrawBuffer) ([]float64, error) {
	w, h := d.e.Size()
	switch buf {
	case pipeline.DrawField:
		return d.e.Field(), nil
	case pipeline.DrawDisc, pipeline.DrawRing:
		var mask []float64
		var err error
		if buf == pipeline.DrawDisc {
			mask, _, err = d.e.DiscMask()
		} else {
			mask, _, err = d.e.RingMask()
		}
		if err != nil {
			return nil, err
		}
		kernel.Center(d.scratch, mask, w, h)
		return d.scratch, nil
	case pipeline.DrawTransition:
		return d.e.ViewTransition()
	case pipeline.DrawPalette:
		if d.ramp == nil {
			d.ramp = make([]float64, w*h)
			for y := range h {
				for x := range w {
					d.ramp[y*w+x] = float64(x) / float64(w)
				}
			}
		}
		return d.ramp, nil
	}
	return nil, fmt.Errorf("unknown draw buffer %v", buf)
}
