// Package flip implements the narrowband-FLIP particle/grid coupling core
// (§4.6): the principal client of the sparse grid engine. It owns a fluid
// level-set, a solid level-set, a sizing field, a narrowband mask, a
// staggered MAC velocity and a flat particle array, and coordinates them
// through seeding, splatting, advection, position correction, level-set
// advection, bullet bookkeeping, reseeding, the grid-to-particle velocity
// update and collision.
//
// Advection-scheme internals, redistancing, particle rasterization and
// mesh export are out of scope (§1); they are consumed as the interfaces
// in collaborators.go.
package flip

import "github.com/pthm-cable/flipgrid/hashgrid"

// Particle is a single FLIP particle (§3 "FLIP particle"). APIC's affine
// velocity is stored as one gradient vector per axis (C[d] is the spatial
// gradient of velocity component d), matching §9's note that these stay
// separate per-axis vectors rather than a flattened N×N matrix.
type Particle struct {
	Position hashgrid.Position
	Velocity [3]float64
	C        [3]hashgrid.Position // C[d] is the affine gradient for velocity component d

	Mass   float64
	Radius float64

	Bullet      bool
	BulletTime  float64
	SizingValue float64

	LiveCount int

	OriginalPosition hashgrid.Position
}

// System is the flat, order-independent particle array (§3: "Particles
// are owned in a flat array; order does not matter semantically but is
// used by the hash grid").
type System struct {
	Particles []Particle
}

// NewSystem returns an empty particle system.
func NewSystem() *System {
	return &System{}
}

// Count returns the number of live particles.
func (s *System) Count() int { return len(s.Particles) }

// Add appends p and returns its index.
func (s *System) Add(p Particle) int {
	s.Particles = append(s.Particles, p)
	return len(s.Particles) - 1
}

// RemoveAt drops the particle at index i via swap-remove; order does not
// matter semantically (§3), so this is O(1) rather than preserving order.
func (s *System) RemoveAt(i int) {
	last := len(s.Particles) - 1
	s.Particles[i] = s.Particles[last]
	s.Particles = s.Particles[:last]
}

// TotalMass sums every live particle's mass, the quantity §8's "FLIP mass
// conservation (weak)" property tracks across a step.
func (s *System) TotalMass() float64 {
	var total float64
	for _, p := range s.Particles {
		total += p.Mass
	}
	return total
}

// Positions extracts every particle's position in array order, the shape
// the hash grid's SortPoints expects.
func (s *System) Positions() []hashgrid.Position {
	out := make([]hashgrid.Position, len(s.Particles))
	for i, p := range s.Particles {
		out[i] = p.Position
	}
	return out
}
