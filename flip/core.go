package flip

import (
	"math/rand"

	"github.com/pthm-cable/flipgrid/config"
	"github.com/pthm-cable/flipgrid/grid"
	"github.com/pthm-cable/flipgrid/hashgrid"
	"github.com/pthm-cable/flipgrid/mac"
)

// defaultHalfBand is the fluid/solid level-set half-band width in cell
// widths (§4.6: "signed, half-band 2Δx by default").
const defaultHalfBand = 2.0

// Core ties the grid engine, MAC velocity, hash grid and particle array
// together into the narrowband-FLIP coupling described by §4.6. Grounded
// on pthm-soup/game/game.go's role as the top-level struct that owns every
// subsystem and drives them one phase per step.
type Core struct {
	Shape grid.Shape
	Dims  int
	Dx    float64

	Cfg    *config.Config
	Collab Collaborators

	Fluid      grid.Grid[float64]
	Solid      grid.Grid[float64]
	Sizing     grid.Grid[float64]
	Narrowband grid.Grid[struct{}]

	Velocity     *mac.Grid[float64]
	PrevVelocity *mac.Grid[float64]
	Momentum     *mac.Grid[float64]
	MassGrid     *mac.Grid[float64]

	Hash      *hashgrid.Grid
	Particles *System

	Gravity [3]float64

	// SizingFn selects the sizing function §4.6.7 describes; New installs
	// ConstantSizing(1) (plain narrowband-FLIP), callers wanting the
	// extended adaptive rule swap in a BlurResidualSizing built from
	// cfg.Sizing.
	SizingFn SizingFunction

	rng *rand.Rand
}

// New builds a Core over the given shape, grounded on cfg's grid options
// for every back-end/driver knob the spec exposes (§6). seed drives the
// jitter RNG used by seeding/reseed, following the teacher's
// rand.New(rand.NewSource(seed)) idiom (systems/noise.go) for reproducible
// runs instead of the global math/rand source.
func New(shape grid.Shape, dx float64, cfg *config.Config, collab Collaborators, seed int64) *Core {
	gridOpts := grid.Options{
		Backend:     grid.Backend(cfg.Grid.Backend),
		TileSize:    cfg.Grid.TileSize,
		MaxDepth:    cfg.Grid.MaxDepth,
		MaxBuffer:   cfg.Grid.MaxBuffer,
		EnableCache: cfg.Grid.EnableCache,
	}

	c := &Core{
		Shape:  shape,
		Dims:   grid.NumAxes(shape.Dims),
		Dx:     dx,
		Cfg:    cfg,
		Collab: collab,

		Fluid:      grid.NewLevelSet(shape, defaultHalfBand*dx, gridOpts),
		Solid:      grid.NewLevelSet(shape, defaultHalfBand*dx, gridOpts),
		Sizing:     grid.New[float64](shape, grid.Options{Backend: grid.BackendDense, Background: 1.0}),
		Narrowband: grid.NewBit(shape, grid.BackendDense, grid.Options{}),

		Velocity:     mac.NewUniform[float64](shape, gridOpts),
		PrevVelocity: mac.NewUniform[float64](shape, gridOpts),
		Momentum:     mac.NewUniform[float64](shape, grid.Options{Backend: grid.BackendDense}),
		MassGrid:     mac.NewUniform[float64](shape, grid.Options{Backend: grid.BackendDense}),

		Hash:      hashgrid.New(shape, dx, hashgrid.Position{}),
		Particles: NewSystem(),
		Gravity:   [3]float64{0, -9.8, 0},
		SizingFn:  ConstantSizing{Value: 1},

		rng: rand.New(rand.NewSource(seed)),
	}
	return c
}

// NewSizingFromConfig builds the SizingFunction cfg.Sizing describes:
// BlurResidualSizing parameterized from the config's sizing section. Callers
// wanting the adaptive extension point assign its result to c.SizingFn.
func NewSizingFromConfig(cfg *config.Config) SizingFunction {
	return BlurResidualSizing{
		Mode:          SizingMode(cfg.Sizing.Mode),
		BlurRadius:    cfg.Sizing.BlurRadius,
		ThresholdU:    cfg.Sizing.ThresholdU,
		ThresholdG:    cfg.Sizing.ThresholdG,
		Amplification: cfg.Sizing.Amplification,
		DiffuseCount:  cfg.Sizing.DiffuseCount,
		DiffuseRate:   cfg.Sizing.DiffuseRate,
	}
}

// RecomputeSizing rebuilds the narrowband (§4.6) and then the sizing field
// via c.SizingFn (§4.6.7), storing both on the Core the way every other
// phase reads them.
func (c *Core) RecomputeSizing() {
	c.ComputeNarrowband()
	c.Sizing = c.SizingFn.Compute(c)
}

// SetDriver installs d on every owned grid/MAC component, so a caller only
// has to configure parallelism in one place.
func (c *Core) SetDriver(d grid.Driver) {
	c.Fluid.SetDriver(d)
	c.Solid.SetDriver(d)
	c.Sizing.SetDriver(d)
	c.Narrowband.SetDriver(d)
	c.Velocity.SetDriver(d)
	c.PrevVelocity.SetDriver(d)
	c.Momentum.SetDriver(d)
	c.MassGrid.SetDriver(d)
}

// rebuildHashGrid re-sorts the particle array into the hash grid; called
// once at the start of splat and again after advection (§4.6.3, §4.6.4).
func (c *Core) rebuildHashGrid() {
	c.Hash.SortPoints(c.Particles.Positions())
}
