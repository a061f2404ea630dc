package flip

import "math"

// Kernel evaluates the trilinear (bilinear in 2D) hat weight
// K(r,dx) = prod_d max(0, 1-|r_d|/dx) (§4.6.1). dims selects how many of
// r's three components participate; 2D callers leave r[2] at zero and it
// is skipped.
func Kernel(r [3]float64, dx float64, dims int) float64 {
	w := 1.0
	for d := 0; d < dims; d++ {
		t := 1 - math.Abs(r[d])/dx
		if t <= 0 {
			return 0
		}
		w *= t
	}
	return w
}

// KernelGradient returns grad K with respect to r (§4.6.1). Its callers are
// the utility collaborator's gradient reads: the velocity Jacobian that
// APIC's affine moments come from, and the scalar (level-set) gradient.
// Each component is the derivative of
// the hat function along its own axis times the product of the other
// axes' hat values; zero wherever the kernel itself is zero. The core
// itself never calls this directly — recomputing a particle's affine
// gradient at an arbitrary position is exactly the fractional-coordinate
// interpolation §1 assigns to the MAC utility collaborator (flip.Utility);
// bench.TrilinearUtility's VelocityJacobian/GradientScalar are what
// actually differentiate the kernel-weighted field via this function.
func KernelGradient(r [3]float64, dx float64, dims int) [3]float64 {
	var g [3]float64
	base := Kernel(r, dx, dims)
	if base == 0 {
		return g
	}
	for d := 0; d < dims; d++ {
		t := 1 - math.Abs(r[d])/dx
		if t <= 0 {
			return [3]float64{}
		}
		sign := 1.0
		if r[d] < 0 {
			sign = -1.0
		}
		// d/dr_d of (1-|r_d|/dx) is -sign(r_d)/dx; divide the other axes'
		// factors out of base by the axis-d factor itself.
		g[d] = -sign / dx * (base / t)
	}
	return g
}
