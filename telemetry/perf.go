package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one worker iteration.
const (
	PhaseCommands = "commands"
	PhaseDraw     = "draw"
	PhaseStep     = "step"
)

// Phases lists the worker phases in loop order.
var Phases = []string{PhaseCommands, PhaseDraw, PhaseStep}

// PerfSample holds timing data for a single worker iteration.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector keeps a ring of the most recent iteration timings. It is
// owned by one goroutine.
type PerfCollector struct {
	ring  []PerfSample
	next  int
	count int

	tickStart  time.Time
	phase      string
	phaseStart time.Time
	phases     map[string]time.Duration

	// Presenter frame timing (graphics mode)
	lastFrame time.Time
	frameDur  time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize iterations
// (100 covers one second at the default 10ms frame budget).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 100
	}
	return &PerfCollector{
		ring:   make([]PerfSample, windowSize),
		phases: make(map[string]time.Duration),
	}
}

// WindowSize returns the number of samples averaged.
func (p *PerfCollector) WindowSize() int { return len(p.ring) }

// StartTick begins timing an iteration.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.phases = make(map[string]time.Duration, len(Phases))
	p.phase = ""
}

// StartPhase closes the running phase, if any, and opens phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick closes the iteration and stores its sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.phase = ""

	p.ring[p.next] = PerfSample{TickDuration: now.Sub(p.tickStart), Phases: p.phases}
	p.next = (p.next + 1) % len(p.ring)
	p.count = min(p.count+1, len(p.ring))
}

// RecordFrame records presenter frame timing.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frameDur = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Average duration and share of tick time per phase
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the samples currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	st := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDur,
	}
	if p.frameDur > 0 {
		st.FPS = float64(time.Second) / float64(p.frameDur)
	}
	if p.count == 0 {
		return st
	}

	var total time.Duration
	sums := make(map[string]time.Duration)
	for i, s := range p.ring[:p.count] {
		total += s.TickDuration
		if i == 0 || s.TickDuration < st.MinTickDuration {
			st.MinTickDuration = s.TickDuration
		}
		st.MaxTickDuration = max(st.MaxTickDuration, s.TickDuration)
		for phase, d := range s.Phases {
			sums[phase] += d
		}
	}

	n := time.Duration(p.count)
	st.AvgTickDuration = total / n
	for phase, sum := range sums {
		avg := sum / n
		st.PhaseAvg[phase] = avg
		if st.AvgTickDuration > 0 {
			st.PhasePct[phase] = float64(avg) / float64(st.AvgTickDuration) * 100
		}
	}
	if st.AvgTickDuration > 0 {
		st.TicksPerSecond = float64(time.Second) / float64(st.AvgTickDuration)
	}
	return st
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Interval    int64   `csv:"interval"`
	AvgTickUS   int64   `csv:"avg_tick_us"`
	MinTickUS   int64   `csv:"min_tick_us"`
	MaxTickUS   int64   `csv:"max_tick_us"`
	TicksPerSec float64 `csv:"ticks_per_sec"`
	FPS         float64 `csv:"fps"`
	CommandsPct float64 `csv:"commands_pct"`
	DrawPct     float64 `csv:"draw_pct"`
	StepPct     float64 `csv:"step_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(interval int64) PerfStatsCSV {
	return PerfStatsCSV{
		Interval:    interval,
		AvgTickUS:   s.AvgTickDuration.Microseconds(),
		MinTickUS:   s.MinTickDuration.Microseconds(),
		MaxTickUS:   s.MaxTickDuration.Microseconds(),
		TicksPerSec: s.TicksPerSecond,
		FPS:         s.FPS,
		CommandsPct: s.PhasePct[PhaseCommands],
		DrawPct:     s.PhasePct[PhaseDraw],
		StepPct:     s.PhasePct[PhaseStep],
	}
}
