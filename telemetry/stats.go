package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// IntervalStats summarizes one stats interval: worker throughput plus the
// distribution of the presented field.
type IntervalStats struct {
	Interval   int64   `csv:"interval"`
	ElapsedSec float64 `csv:"elapsed_sec"`

	// Worker iterations since the previous interval
	Iterations  int     `csv:"iterations"`
	StepsPerSec float64 `csv:"steps_per_sec"`
	Dropped     int     `csv:"dropped_commands"`

	// Field distribution at interval end
	FieldMass float64 `csv:"field_mass"`
	FieldMean float64 `csv:"field_mean"`
	FieldMin  float64 `csv:"field_min"`
	FieldMax  float64 `csv:"field_max"`
	FieldP10  float64 `csv:"field_p10"`
	FieldP50  float64 `csv:"field_p50"`
	FieldP90  float64 `csv:"field_p90"`
	Alive     float64 `csv:"alive_fraction"` // share of cells above 0.5
}

// FieldSummary fills the field distribution columns from values. scratch is
// reused for sorting when large enough.
func (s *IntervalStats) FieldSummary(values, scratch []float64) []float64 {
	if len(values) == 0 {
		return scratch
	}
	if cap(scratch) < len(values) {
		scratch = make([]float64, len(values))
	}
	sorted := scratch[:len(values)]
	copy(sorted, values)
	slices.Sort(sorted)

	s.FieldMass = Mass(values)
	s.FieldMean = stat.Mean(sorted, nil)
	s.FieldMin = sorted[0]
	s.FieldMax = sorted[len(sorted)-1]
	s.FieldP10 = stat.Quantile(0.1, stat.LinInterp, sorted, nil)
	s.FieldP50 = stat.Quantile(0.5, stat.LinInterp, sorted, nil)
	s.FieldP90 = stat.Quantile(0.9, stat.LinInterp, sorted, nil)

	// First index above 0.5 in the sorted slice.
	i, _ := slices.BinarySearchFunc(sorted, 0.5, func(v, target float64) int {
		if v <= target {
			return -1
		}
		return 1
	})
	s.Alive = float64(len(sorted)-i) / float64(len(sorted))
	return scratch
}

// Mass returns the field sum, a cheap health signal for headless runs.
func Mass(values []float64) float64 {
	return floats.Sum(values)
}

// LogValue implements slog.LogValuer for structured logging.
func (s IntervalStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("interval", s.Interval),
		slog.Int("iterations", s.Iterations),
		slog.Float64("steps_per_sec", s.StepsPerSec),
		slog.Int("dropped", s.Dropped),
		slog.Float64("field_mass", s.FieldMass),
		slog.Float64("field_mean", s.FieldMean),
		slog.Float64("field_p50", s.FieldP50),
		slog.Float64("alive", s.Alive),
	)
}

// LogStats logs the interval summary.
func (s IntervalStats) LogStats() {
	slog.Info("stats", "interval", s)
}
