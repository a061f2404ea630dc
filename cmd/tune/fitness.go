package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/flipgrid/bench"
	"github.com/pthm-cable/flipgrid/config"
	"github.com/pthm-cable/flipgrid/flip"
	"github.com/pthm-cable/flipgrid/telemetry"
)

// FitnessEvaluator runs short headless narrowband-FLIP simulations and
// scores a parameter vector by how well it holds particle mass and
// population steady. Grounded on pthm-soup/cmd/optimize's FitnessEvaluator:
// same per-seed-parallel Evaluate, same "copy base config, apply the
// candidate, run, aggregate" shape, swapped from ecosystem survival/quality
// to fluid mass-drift/population-stability.
type FitnessEvaluator struct {
	params *ParamVector

	cells int
	dx    float64
	ticks int
	dt    float64
	seeds []int64

	baseConfig *config.Config

	mu          sync.Mutex
	bestFitness float64
	lastDrift   float64
}

// NewFitnessEvaluator creates a new evaluator over the given scene size and
// seed set.
func NewFitnessEvaluator(params *ParamVector, cells, ticks int, dt float64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		cells:       cells,
		dx:          1.0 / float64(cells),
		ticks:       ticks,
		dt:          dt,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// LastDrift returns the mass-drift fraction from the most recent Evaluate
// call, for progress reporting.
func (fe *FitnessEvaluator) LastDrift() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastDrift
}

// seedResult holds one seed's run outcome.
type seedResult struct {
	fitness float64
	drift   float64
}

// Evaluate computes fitness for a raw (denormalized, unclamped) parameter
// vector; lower is better. Every seed runs concurrently, mirroring the
// teacher's one-goroutine-per-seed fan-out.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalDrift float64
	for _, r := range results {
		totalFitness += r.fitness
		totalDrift += r.drift
	}
	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
	}
	fe.lastDrift = totalDrift / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation drops a noise-perturbed sphere into a fresh Core, seeds and
// splats it once, then steps it with no pressure solve (§1: the
// solve callback is out of scope) for fe.ticks frames, recording particle
// mass and count drift under gravity and reseeding alone.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) seedResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	scene := bench.DefaultSphereScene(fe.cells, fe.dx, seed)
	core := scene.NewCore(cfg)
	core.SizingFn = flip.NewSizingFromConfig(cfg)

	stats := &telemetry.FrameStats{}
	core.RecomputeSizing()
	core.Seed(stats)
	core.Splat()
	initialMass := core.Particles.TotalMass()
	initialCount := core.Particles.Count()

	if initialCount == 0 {
		return seedResult{fitness: 1e6, drift: 1.0}
	}

	var countSum, countSqSum float64
	for t := 0; t < fe.ticks; t++ {
		core.Step(fe.dt, stats, nil)
		n := float64(core.Particles.Count())
		countSum += n
		countSqSum += n * n
	}

	finalMass := core.Particles.TotalMass()
	drift := math.Abs(finalMass-initialMass) / initialMass

	nTicks := float64(fe.ticks)
	meanCount := countSum / nTicks
	instability := 0.0
	if meanCount > 0 {
		variance := countSqSum/nTicks - meanCount*meanCount
		if variance < 0 {
			variance = 0
		}
		instability = math.Sqrt(variance) / meanCount
	}

	fitness := driftWeight*drift + instabilityWeight*instability
	return seedResult{fitness: fitness, drift: drift}
}

// Weights for the two fitness components; mass drift dominates since
// holding volume is narrowband-FLIP's core promise (§8), population churn
// is the secondary signal.
const (
	driftWeight       = 1.0
	instabilityWeight = 0.5
)

// copyConfig creates a copy of the base config with only the non-FLIP
// sections preserved, so ApplyToConfig's FLIP writes don't have to touch
// anything else.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg, _ := config.Load("")
	cfg.Grid = fe.baseConfig.Grid
	cfg.Sizing = fe.baseConfig.Sizing
	cfg.Telemetry = fe.baseConfig.Telemetry
	return cfg
}
