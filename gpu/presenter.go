package gpu

import "fmt"

// Presenter is the graphics-goroutine half: it executes recorded task lists
// on the device. Used on its own it is the headless GPU view.
type Presenter struct {
	dev     Device
	queue   *LockedQueue[*TaskList]
	display Texture
	w, h    int

	ready  bool
	lists  int
	texels []float32
	values []float64
}

// NewPresenter executes lists from queue on dev. display is the texture
// holding the published buffer.
func NewPresenter(dev Device, queue *LockedQueue[*TaskList], display Texture, w, h int) *Presenter {
	return &Presenter{dev: dev, queue: queue, display: display, w: w, h: h}
}

// Present runs the lists queued so far, at most the queue capacity per
// call so a fast producer cannot starve the caller.
func (p *Presenter) Present() error {
	for range p.queue.Cap() {
		l, ok := p.queue.PopFront()
		if !ok {
			break
		}
		if err := l.Execute(p.dev); err != nil {
			return fmt.Errorf("executing task list %d: %w", p.lists, err)
		}
		p.lists++
		p.ready = true
	}
	return nil
}

// Ready reports whether at least one list has run, so the display texture
// exists.
func (p *Presenter) Ready() bool { return p.ready }

// Lists returns the number of executed lists.
func (p *Presenter) Lists() int { return p.lists }

// Device returns the executing device.
func (p *Presenter) Device() Device { return p.dev }

// Display returns the display texture handle.
func (p *Presenter) Display() Texture { return p.display }

// Snapshot reads back the display texture. It returns nil before the first
// list has run.
func (p *Presenter) Snapshot() (int, int, []float64, error) {
	if !p.ready {
		return p.w, p.h, nil, nil
	}
	if p.texels == nil {
		p.texels = make([]float32, p.w*p.h*4)
		p.values = make([]float64, p.w*p.h)
	}
	if err := p.dev.Download(p.display, p.texels); err != nil {
		return p.w, p.h, nil, err
	}
	for i := range p.values {
		p.values[i] = float64(p.texels[i*4])
	}
	return p.w, p.h, p.values, nil
}

// Close stops producers and releases the device.
func (p *Presenter) Close() error {
	p.queue.Close()
	return p.dev.Close()
}
