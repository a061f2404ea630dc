// Command tune searches for narrowband-FLIP config.FLIPConfig values that
// keep a dropped-sphere scenario's particle mass and population stable,
// using CMA-ES (gonum.org/v1/gonum/optimize) the way pthm-soup/cmd/optimize
// tunes its ecosystem config against a survival/quality fitness. This is
// the tuner's domain analogue: ParamSpec/ParamVector below is grounded
// directly on that package's params.go, adapted from the soup's energy and
// reproduction fields to flip's FLIPConfig fields.
package main

import "github.com/pthm-cable/flipgrid/config"

// ParamSpec defines a single optimizable FLIP parameter.
type ParamSpec struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector returns the standard set of tunable FLIP parameters: the
// continuous knobs in §4.6/§4.6.10 that trade off volume loss against
// grid/particle velocity noise. RKOrder, MinParticlesPerCell,
// MaxParticlesPerCell and the backend/driver options are left fixed since
// CMA-ES works over a continuous real vector, not the discrete/integer
// choices those represent.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "pic_flip", Min: 0.0, Max: 1.0, Default: 0.95},
			{Name: "correct_stiff", Min: 0.0, Max: 2.0, Default: 0.5},
			{Name: "erosion", Min: 0.0, Max: 1.0, Default: 0.0},
			{Name: "fit_particle_dist", Min: 0.3, Max: 1.2, Default: 0.5},
			{Name: "bullet_maximal_time", Min: 0.1, Max: 3.0, Default: 1.0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int { return len(pv.Specs) }

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to cfg.FLIP in Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	i := 0
	cfg.FLIP.PICFLIP = clamped[i]
	i++
	cfg.FLIP.CorrectStiff = clamped[i]
	i++
	cfg.FLIP.Erosion = clamped[i]
	i++
	cfg.FLIP.FitParticleDist = clamped[i]
	i++
	cfg.FLIP.BulletMaximalTime = clamped[i]
}
