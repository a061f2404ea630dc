package telemetry

import (
	"log/slog"
	"math"
	"sort"
)

// FrameStats holds aggregated statistics for one simulation step of the
// narrowband-FLIP core (§4.9, added). Field names mirror the spec's
// vocabulary for particle/grid coupling rather than the teacher's
// predator/prey domain, but the shape — population counts, event counts,
// sampled distributions, conservation totals — is carried over unchanged.
type FrameStats struct {
	StepIndex int64   `csv:"step"`
	SimTime   float64 `csv:"sim_time"`

	// Population at step end.
	ParticleCount int `csv:"particles"`
	BulletCount   int `csv:"bullets"`
	ActiveCells   int `csv:"active_cells"`
	FilledCells   int `csv:"filled_cells"`

	// Events during the step.
	Seeded    int `csv:"seeded"`
	Rejected  int `csv:"rejected"` // seed attempts rejected (solid distance below the particle radius)
	Reseeded  int `csv:"reseeded"`
	Culled    int `csv:"culled"`
	Promoted  int `csv:"promoted_bullet"`
	Decayed   int `csv:"decayed_bullet"`

	// Sampled particle-speed distribution.
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Conservation totals, for the mass-conservation testable property
	// (§8): mass carried by particles plus mass implied by the active grid
	// cells should stay within tolerance of the step's starting total.
	TotalParticleMass float64 `csv:"total_particle_mass"`
	TotalGridMass     float64 `csv:"total_grid_mass"`
	MassDrift         float64 `csv:"mass_drift"`
}

// Percentile computes the p-th percentile of a sorted slice (p in [0,1]).
// Returns 0 for an empty slice.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	idx := p * float64(n-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSpeedStats returns mean, p10, p50 and p90 of the given speed
// samples (copied and sorted internally; the caller's slice is untouched).
func ComputeSpeedStats(speeds []float64) (mean, p10, p50, p90 float64) {
	if len(speeds) == 0 {
		return 0, 0, 0, 0
	}
	sorted := make([]float64, len(speeds))
	copy(sorted, speeds)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean = sum / float64(len(sorted))
	p10 = Percentile(sorted, 0.1)
	p50 = Percentile(sorted, 0.5)
	p90 = Percentile(sorted, 0.9)
	return
}

// LogStats logs the frame stats using slog.
func (s FrameStats) LogStats() {
	slog.Info("frame", "stats", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("step", s.StepIndex),
		slog.Float64("sim_time", s.SimTime),
		slog.Int("particles", s.ParticleCount),
		slog.Int("bullets", s.BulletCount),
		slog.Int("active_cells", s.ActiveCells),
		slog.Int("filled_cells", s.FilledCells),
		slog.Int("seeded", s.Seeded),
		slog.Int("rejected", s.Rejected),
		slog.Int("reseeded", s.Reseeded),
		slog.Int("culled", s.Culled),
		slog.Int("promoted_bullet", s.Promoted),
		slog.Int("decayed_bullet", s.Decayed),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("total_particle_mass", s.TotalParticleMass),
		slog.Float64("total_grid_mass", s.TotalGridMass),
		slog.Float64("mass_drift", s.MassDrift),
	)
}
