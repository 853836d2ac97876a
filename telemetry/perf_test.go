package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_TracksWorkerPhases(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseCommands)
		pc.StartPhase(PhaseDraw)
		time.Sleep(50 * time.Microsecond)
		pc.StartPhase(PhaseStep)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	for _, phase := range Phases {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("expected %s phase to be tracked", phase)
		}
	}
	if stats.PhasePct[PhaseStep] <= stats.PhasePct[PhaseCommands] {
		t.Errorf("expected step (%v%%) > commands (%v%%)", stats.PhasePct[PhaseStep], stats.PhasePct[PhaseCommands])
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)
	if pc.WindowSize() != 5 {
		t.Fatalf("WindowSize = %d, want 5", pc.WindowSize())
	}

	// Two slow ticks fall out of the window after five fast ones.
	for i := 0; i < 2; i++ {
		pc.StartTick()
		time.Sleep(5 * time.Millisecond)
		pc.EndTick()
	}
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseStep)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.MaxTickDuration >= 5*time.Millisecond {
		t.Errorf("slow ticks still in window: max %v", stats.MaxTickDuration)
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("expected FPS in (0, 70] with 16ms frames, got %v", stats.FPS)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 2 * time.Millisecond,
		PhasePct:        map[string]float64{PhaseStep: 80, PhaseDraw: 15},
	}
	row := s.ToCSV(3)
	if row.Interval != 3 || row.AvgTickUS != 2000 || row.StepPct != 80 || row.DrawPct != 15 {
		t.Errorf("unexpected csv row %+v", row)
	}
}
