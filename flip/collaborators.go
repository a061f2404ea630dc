package flip

import (
	"github.com/pthm-cable/flipgrid/grid"
	"github.com/pthm-cable/flipgrid/hashgrid"
	"github.com/pthm-cable/flipgrid/mac"
)

// Advector advects a level-set grid through a MAC velocity field over dt,
// mutating fluid in place (§4.7 "MAC advection"). Implementing the
// advection scheme itself (semi-Lagrangian, BFECC, …) is out of scope
// (§1); the core only calls this collaborator.
type Advector interface {
	Advect(fluid grid.Grid[float64], velocity *mac.Grid[float64], dt float64)
}

// Redistancer rewrites phi in place so it is (approximately) a signed
// distance function again, out to the given band width (§4.7
// "redistancer"). The redistancing algorithm itself is out of scope.
type Redistancer interface {
	Redistance(phi grid.Grid[float64], bandWidth float64)
}

// ParticleRasterizer rasterizes particle positions/radii into a level-set
// grid (§4.7 "particle rasterizer"), used by level-set advection (§4.6.6)
// to blend a particle-based surface back into the advected grid surface.
// The rasterization algorithm itself is out of scope.
type ParticleRasterizer interface {
	Rasterize(particles []Particle, dims int, out grid.Grid[float64])
}

// SurfaceTracker extrapolates a fluid level-set across the solid interface
// so downstream consumers (e.g. mesh export) see a consistent surface
// there (§4.7 "levelset surface tracker"). Out of scope beyond this call.
type SurfaceTracker interface {
	ExtrapolateAcrossSolid(fluid grid.Grid[float64], solid grid.Grid[float64])
}

// Utility bundles the small numeric helpers §4.7 groups as "MAC utility":
// computing max|u| over a velocity field, the local velocity Jacobian used
// by position-correction momentum feedback (§4.6.5), and trilinear
// interpolation of a MAC velocity field at an arbitrary point.
//
// SampleScalar and GradientScalar extend that same "MAC utility" grouping to
// the scalar (level-set) grids: §1's "no fractional coordinates
// (interpolation is a separate collaborator that reads cells)" non-goal
// applies to every interpolated read, not only velocity, so surface-fit
// (§4.6.2), position correction's surface-normal clip (§4.6.5) and
// collision's solid-gradient push (§4.6.11) all reach fractional-position
// level-set values and gradients through this same collaborator rather than
// the core interpolating cell storage itself.
type Utility interface {
	MaxSpeed(velocity *mac.Grid[float64]) float64
	InterpolateVelocity(velocity *mac.Grid[float64], dx float64, p hashgrid.Position) [3]float64
	VelocityJacobian(velocity *mac.Grid[float64], dx float64, p hashgrid.Position) [3][3]float64
	SampleScalar(field grid.Grid[float64], dx float64, p hashgrid.Position) float64
	GradientScalar(field grid.Grid[float64], dx float64, p hashgrid.Position) hashgrid.Position
}

// Collaborators bundles every external dependency the core needs beyond
// the grid engine and hash grid, so a Core can be constructed with one
// argument instead of four.
type Collaborators struct {
	Advector    Advector
	Redistancer Redistancer
	Rasterizer  ParticleRasterizer
	Tracker     SurfaceTracker
	Util        Utility
}
