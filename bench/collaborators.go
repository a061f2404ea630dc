package bench

import (
	"github.com/pthm-cable/flipgrid/flip"
	"github.com/pthm-cable/flipgrid/grid"
	"github.com/pthm-cable/flipgrid/mac"
)

// noAdvection, noRedistance, noRasterize and noTrack are pass-through
// stand-ins for the advection, redistancing, particle-rasterization and
// surface-tracking collaborators (§1: all out of scope). A one-cycle
// scenario such as cmd/flipdemo never reaches them; cmd/tune's Core.Step
// does, through AdvectLevelSet, and there they leave every grid unchanged.
type noAdvection struct{}

func (noAdvection) Advect(fluid grid.Grid[float64], velocity *mac.Grid[float64], dt float64) {}

type noRedistance struct{}

func (noRedistance) Redistance(phi grid.Grid[float64], bandWidth float64) {}

type noRasterize struct{}

func (noRasterize) Rasterize(particles []flip.Particle, dims int, out grid.Grid[float64]) {}

type noTrack struct{}

func (noTrack) ExtrapolateAcrossSolid(fluid, solid grid.Grid[float64]) {}

// Collaborators builds a flip.Collaborators backed by TrilinearUtility and
// the no-op stand-ins above, for the surfaces a scenario doesn't exercise.
func Collaborators(dims int) flip.Collaborators {
	return flip.Collaborators{
		Advector:    noAdvection{},
		Redistancer: noRedistance{},
		Rasterizer:  noRasterize{},
		Tracker:     noTrack{},
		Util:        TrilinearUtility{Dims: dims},
	}
}
