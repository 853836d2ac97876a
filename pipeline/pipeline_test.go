package pipeline

import (
	"testing"
	"time"
)

func TestGate(t *testing.T) {
	g := NewGate()
	g.Release()
	g.Release()
	for i := range 2 {
		if !g.Wait() {
			t.Fatalf("Wait() %d after two Releases = false", i+1)
		}
	}

	g.Release()
	g.Reset()
	if got := g.Pending(); got != 0 {
		t.Errorf("Pending() after Reset = %d, want 0", got)
	}

	// Each release is consumed once.
	done := make(chan bool, 1)
	go func() { done <- g.Wait() }()
	select {
	case <-done:
		t.Fatal("second Wait returned without a new Release")
	case <-time.After(20 * time.Millisecond):
	}

	g.Close()
	select {
	case ok := <-done:
		if ok {
			t.Error("Wait() after Close = true, want false")
		}
	case <-time.After(time.Second):
		t.Fatal("Close did not wake the waiter")
	}
}

func TestDeadlinePacer(t *testing.T) {
	p := NewDeadlinePacer(20 * time.Millisecond)
	quit := make(chan struct{})

	start := time.Now()
	p.Pace(quit)
	if time.Since(start) > 10*time.Millisecond {
		t.Error("first Pace should not sleep")
	}

	start = time.Now()
	p.Pace(quit)
	if el := time.Since(start); el < 15*time.Millisecond {
		t.Errorf("second Pace slept %v, want about 20ms", el)
	}
}

func TestDeadlinePacer_Quit(t *testing.T) {
	p := NewDeadlinePacer(time.Hour)
	quit := make(chan struct{})
	p.Pace(quit)
	close(quit)

	done := make(chan struct{})
	go func() {
		p.Pace(quit)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Pace ignored quit")
	}
}

func TestCommandQueue(t *testing.T) {
	q := NewCommandQueue(2)
	if !q.Enqueue(Clear(0)) || !q.Enqueue(Clear(1)) {
		t.Fatal("enqueue below capacity failed")
	}
	if q.Enqueue(Clear(2)) {
		t.Error("enqueue at capacity succeeded")
	}
	cmds := q.Drain()
	if len(cmds) != 2 || q.Len() != 0 {
		t.Fatalf("Drain() returned %d, %d left", len(cmds), q.Len())
	}
	if q.Drain() != nil {
		t.Error("Drain() on empty queue should return nil")
	}
	if NewCommandQueue(0).Cap() != DefaultQueueDepth {
		t.Error("zero depth should fall back to the default")
	}
}

func TestRunMode(t *testing.T) {
	tests := []struct {
		in      string
		want    RunMode
		wantErr bool
	}{
		{"", RunContinuous, false},
		{"continuous", RunContinuous, false},
		{"paused", RunPaused, false},
		{"disabled", RunDisabled, false},
		{"noSimulation pause", RunMode{Paused: true}, false},
		{"pause run", RunContinuous, false},
		{"sideways", RunMode{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRunMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}

	m, err := RunContinuous.Apply("pause", "bogus")
	if err == nil || m != RunContinuous {
		t.Errorf("Apply with an unknown word = %+v, %v; want unchanged and an error", m, err)
	}
	if s := RunPaused.String(); s != "simulation pause" {
		t.Errorf("String() = %q", s)
	}
}

func TestParseDrawBuffer(t *testing.T) {
	for b := DrawField; b <= DrawPalette; b++ {
		got, err := ParseDrawBuffer(b.String())
		if err != nil || got != b {
			t.Errorf("ParseDrawBuffer(%q) = %v, %v", b.String(), got, err)
		}
	}
	if _, err := ParseDrawBuffer("kernel"); err == nil {
		t.Error("expected error for unknown buffer")
	}
}

func TestBrushClamped(t *testing.T) {
	tests := []struct {
		in, want Brush
	}{
		{Brush{10, 0.5}, Brush{10, 0.5}},
		{Brush{-1, -1}, Brush{0, 0}},
		{Brush{150, 3}, Brush{MaxBrushRadius, 1}},
	}
	for _, tt := range tests {
		if got := tt.in.Clamped(); got != tt.want {
			t.Errorf("%+v.Clamped() = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestFrameView(t *testing.T) {
	buf := NewSharedBuffer(NewFrame(2, 2))
	var got []float64
	calls := 0
	v := NewFrameView(buf, func(f *Frame) error {
		calls++
		got = append(got[:0], f.Values...)
		return nil
	})

	if err := v.Present(); err != nil || calls != 0 {
		t.Fatalf("Present before publish: calls=%d err=%v", calls, err)
	}

	buf.With(func(f *Frame) { f.CopyFrom([]float64{1, 2, 3, 4}, DrawDisc) })
	if err := v.Present(); err != nil {
		t.Fatal(err)
	}
	if err := v.Present(); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("sink called %d times, want 1", calls)
	}
	if got[3] != 4 || v.Frame().Buffer != DrawDisc {
		t.Errorf("frame = %v buffer %v", got, v.Frame().Buffer)
	}

	// The presenter copy is independent of the shared buffer.
	buf.With(func(f *Frame) { f.Values[3] = 9 })
	if v.Frame().Values[3] != 4 {
		t.Error("presenter frame aliases the shared buffer")
	}
}
