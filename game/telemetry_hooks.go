package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/smoothlife/telemetry"
)

// flushTelemetry counts worker iterations and, once per stats window,
// summarizes the presented field and writes the interval out.
func (g *Game) flushTelemetry(now time.Time) {
	n := g.worker.FramesAndReset()
	g.iterations += n
	g.windowIters += n

	elapsed := now.Sub(g.lastFlush)
	if elapsed < g.statsWindow {
		return
	}

	dropped := g.worker.Queue().Dropped()
	st := telemetry.IntervalStats{
		Interval:    g.interval,
		ElapsedSec:  now.Sub(g.started).Seconds(),
		Iterations:  g.windowIters,
		StepsPerSec: float64(g.windowIters) / elapsed.Seconds(),
		Dropped:     dropped - g.lastDropped,
	}
	if _, _, values, err := g.view.Snapshot(); err != nil {
		slog.Error("failed to read back field", "error", err)
	} else {
		g.scratch = st.FieldSummary(values, g.scratch)
	}
	perf := g.worker.PerfStats()

	if g.logStats {
		st.LogStats()
		perf.LogStats()
	}
	if g.output != nil {
		if err := g.output.WriteStats(st); err != nil {
			slog.Error("failed to write stats", "error", err)
		}
		if err := g.output.WritePerf(perf, g.interval); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	g.stats = st
	g.interval++
	g.windowIters = 0
	g.lastDropped = dropped
	g.lastFlush = now
}
