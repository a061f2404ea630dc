package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for a narrowband-FLIP step (§4.6).
const (
	PhaseSeed        = "seed"
	PhaseSplat       = "splat"
	PhaseAdvect      = "advect"
	PhaseCorrect     = "correct"
	PhaseLevelSet    = "levelset"
	PhaseReseed      = "reseed"
	PhaseVelocity    = "velocity_update"
	PhaseCollision   = "collision"
	PhaseFloodFill   = "flood_fill"
)

// PerfSample holds timing data for a single simulation step.
type PerfSample struct {
	StepDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks step timings over a rolling window kept as a ring
// buffer of samples.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	stepStart     time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a collector averaging over windowSize steps.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartStep begins timing a new simulation step.
func (p *PerfCollector) StartStep() {
	p.stepStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a named phase within the current step.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndStep finishes timing the current step and records the sample.
func (p *PerfCollector) EndStep() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		StepDuration: now.Sub(p.stepStart),
		Phases:       p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics over the window.
type PerfStats struct {
	AvgStepDuration time.Duration
	MinStepDuration time.Duration
	MaxStepDuration time.Duration
	PhaseAvg        map[string]time.Duration
	PhasePct        map[string]float64
	StepsPerSecond  float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{PhaseAvg: map[string]time.Duration{}, PhasePct: map[string]float64{}}
	}

	var total, minStep, maxStep time.Duration
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.StepDuration
		if i == 0 || s.StepDuration < minStep {
			minStep = s.StepDuration
		}
		if s.StepDuration > maxStep {
			maxStep = s.StepDuration
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := total / time.Duration(p.sampleCount)
	phaseAvg := make(map[string]time.Duration, len(phaseSum))
	phasePct := make(map[string]float64, len(phaseSum))
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	var stepsPerSec float64
	if avg > 0 {
		stepsPerSec = float64(time.Second) / float64(avg)
	}

	return PerfStats{
		AvgStepDuration: avg,
		MinStepDuration: minStep,
		MaxStepDuration: maxStep,
		PhaseAvg:        phaseAvg,
		PhasePct:        phasePct,
		StepsPerSecond:  stepsPerSec,
	}
}

// LogStats logs performance statistics via slog.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_step_us", s.AvgStepDuration.Microseconds()),
		slog.Int64("min_step_us", s.MinStepDuration.Microseconds()),
		slog.Int64("max_step_us", s.MaxStepDuration.Microseconds()),
		slog.Float64("steps_per_sec", s.StepsPerSecond),
	}
	for phase, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(phase+"_pct", pct))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	StepIndex       int64   `csv:"step"`
	AvgStepUS       int64   `csv:"avg_step_us"`
	MinStepUS       int64   `csv:"min_step_us"`
	MaxStepUS       int64   `csv:"max_step_us"`
	StepsPerSec     float64 `csv:"steps_per_sec"`
	SeedPct         float64 `csv:"seed_pct"`
	SplatPct        float64 `csv:"splat_pct"`
	AdvectPct       float64 `csv:"advect_pct"`
	CorrectPct      float64 `csv:"correct_pct"`
	LevelSetPct     float64 `csv:"levelset_pct"`
	ReseedPct       float64 `csv:"reseed_pct"`
	VelocityPct     float64 `csv:"velocity_update_pct"`
	CollisionPct    float64 `csv:"collision_pct"`
	FloodFillPct    float64 `csv:"flood_fill_pct"`
}

// ToCSV converts PerfStats into a flat CSV-friendly record.
func (s PerfStats) ToCSV(stepIndex int64) PerfStatsCSV {
	return PerfStatsCSV{
		StepIndex:    stepIndex,
		AvgStepUS:    s.AvgStepDuration.Microseconds(),
		MinStepUS:    s.MinStepDuration.Microseconds(),
		MaxStepUS:    s.MaxStepDuration.Microseconds(),
		StepsPerSec:  s.StepsPerSecond,
		SeedPct:      s.PhasePct[PhaseSeed],
		SplatPct:     s.PhasePct[PhaseSplat],
		AdvectPct:    s.PhasePct[PhaseAdvect],
		CorrectPct:   s.PhasePct[PhaseCorrect],
		LevelSetPct:  s.PhasePct[PhaseLevelSet],
		ReseedPct:    s.PhasePct[PhaseReseed],
		VelocityPct:  s.PhasePct[PhaseVelocity],
		CollisionPct: s.PhasePct[PhaseCollision],
		FloodFillPct: s.PhasePct[PhaseFloodFill],
	}
}
