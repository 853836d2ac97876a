package pipeline

// FrameView is the presenter side of a CPU pipeline. Present copies the
// latest published Frame out of the shared buffer and hands the copy to a
// sink, so the lock is held only for the bulk copy.
type FrameView struct {
	src   *SharedBuffer[Frame]
	local Frame
	seen  uint64
	sink  func(*Frame) error
}

// NewFrameView reads from src. sink may be nil; it is called on the
// presenter goroutine only when a new frame was published.
func NewFrameView(src *SharedBuffer[Frame], sink func(*Frame) error) *FrameView {
	return &FrameView{src: src, sink: sink}
}

// Present pulls a new frame, if any, and passes it to the sink.
func (v *FrameView) Present() error {
	if !v.pull() || v.sink == nil {
		return nil
	}
	return v.sink(&v.local)
}

func (v *FrameView) pull() bool {
	f := v.src.Lock()
	defer v.src.Unlock()
	if f.Seq == v.seen {
		return false
	}
	if len(v.local.Values) != len(f.Values) {
		v.local.Values = make([]float64, len(f.Values))
	}
	copy(v.local.Values, f.Values)
	v.local.Width, v.local.Height = f.Width, f.Height
	v.local.Buffer = f.Buffer
	v.local.Seq = f.Seq
	v.seen = f.Seq
	return true
}

// Frame returns the presenter's copy of the last pulled frame.
func (v *FrameView) Frame() *Frame { return &v.local }

// Close is a no-op; the sink owns any graphics resources.
func (v *FrameView) Close() error { return nil }

// Snapshotter is a view that can read back the displayed buffer. values is
// nil before anything was published and is only valid until the next
// Present.
type Snapshotter interface {
	Snapshot() (w, h int, values []float64, err error)
}

// Snapshot returns the presenter's copy of the last pulled frame.
func (v *FrameView) Snapshot() (int, int, []float64, error) {
	return v.local.Width, v.local.Height, v.local.Values, nil
}
