package flip

import (
	"math"
	"testing"

	"github.com/pthm-cable/flipgrid/grid"
	"github.com/pthm-cable/flipgrid/hashgrid"
)

func TestUpdateVelocitiesPICFLIPBlend(t *testing.T) {
	shape := grid.NewShape2(6, 6)
	dx := 1.0
	c := newTestCore(t, shape, dx)
	c.Cfg.FLIP.APIC = false

	fillAxisConstant(c.PrevVelocity.Axis(0), 1.0)
	fillAxisConstant(c.Velocity.Axis(0), 3.0)

	c.Particles.Add(Particle{Position: hashgrid.Position{3, 3, 0}, Velocity: [3]float64{0.5, 0, 0}})

	c.UpdateVelocities(1.0)

	alpha := c.Cfg.FLIP.PICFLIP
	flip := 0.5 + 3.0 - 1.0
	want := alpha*flip + (1-alpha)*3.0
	got := c.Particles.Particles[0].Velocity[0]
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("blended velocity = %v, want %v", got, want)
	}
}

func TestUpdateVelocitiesAPICOverwritesAndSetsAffine(t *testing.T) {
	shape := grid.NewShape2(6, 6)
	dx := 1.0
	c := newTestCore(t, shape, dx)
	c.Cfg.FLIP.APIC = true

	fillAxisConstant(c.Velocity.Axis(0), 7.0)

	c.Particles.Add(Particle{Position: hashgrid.Position{3, 3, 0}, Velocity: [3]float64{0.5, 0, 0}})
	c.UpdateVelocities(1.0)

	p := c.Particles.Particles[0]
	if p.Velocity[0] != 7.0 {
		t.Errorf("APIC velocity = %v, want grid value 7.0 exactly", p.Velocity[0])
	}
	if p.C != [3]hashgrid.Position{} {
		t.Errorf("APIC affine gradient = %v, want zero (fakeUtil's zero Jacobian)", p.C)
	}
}

func TestUpdateVelocitiesBulletIntegratesGravity(t *testing.T) {
	shape := grid.NewShape2(6, 6)
	dx := 1.0
	c := newTestCore(t, shape, dx)

	c.Particles.Add(Particle{Position: hashgrid.Position{3, 3, 0}, Velocity: [3]float64{1, 2, 3}, Bullet: true})
	c.UpdateVelocities(1.0)

	p := c.Particles.Particles[0]
	want := [3]float64{1 + c.Gravity[0], 2 + c.Gravity[1], 3}
	if p.Velocity != want {
		t.Errorf("bullet velocity = %v, want %v", p.Velocity, want)
	}
}
