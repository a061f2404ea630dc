// Command flipdemo seeds a synthetic narrowband-FLIP domain and runs one
// seed/splat/advect cycle, writing the result as a ballistic-particle dump
// (§4.10). It exists to exercise the library pack's domain dependencies end
// to end, the way pthm-soup's own noise-driven systems exercise
// github.com/ojrac/opensimplex-go against real gameplay state instead of
// only unit tests.
package main

import (
	"github.com/pthm-cable/flipgrid/bench"
	"github.com/pthm-cable/flipgrid/config"
	"github.com/pthm-cable/flipgrid/telemetry"
)

const (
	demoCells = 24
	demoDx    = 1.0 / float64(demoCells)
	demoSeed  = 42
	demoDt    = 1.0 / 60.0
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		telemetry.Logf("flipdemo: loading config: %v", err)
		return
	}

	scene := bench.DefaultSphereScene(demoCells, demoDx, demoSeed)
	core := scene.NewCore(cfg)

	stats := &telemetry.FrameStats{}
	core.RecomputeSizing()
	core.Seed(stats)
	core.Splat()
	core.AdvectParticles(demoDt)

	telemetry.Logf("flipdemo: seeded=%d rejected=%d live=%d", stats.Seeded, stats.Rejected, core.Particles.Count())

	dump := make([]telemetry.BallisticParticle, 0, core.Particles.Count())
	for _, p := range core.Particles.Particles {
		dump = append(dump, telemetry.BallisticParticle{
			X:      float32(p.Position[0]),
			Y:      float32(p.Position[1]),
			Z:      float32(p.Position[2]),
			Radius: float32(p.Radius),
		})
	}
	if err := telemetry.WriteBallisticDump(cfg.Telemetry.DumpPath, dump, true); err != nil {
		telemetry.Logf("flipdemo: writing dump: %v", err)
		return
	}
	telemetry.Logf("flipdemo: wrote %d records to %s", len(dump), cfg.Telemetry.DumpPath)
}
