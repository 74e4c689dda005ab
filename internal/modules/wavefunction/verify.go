package wavefunction

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jappenzeller/SYSTEM/internal/modules/quantum"
)

// DefaultVerifyPoints is the Gauss–Legendre order used per spherical axis.
const DefaultVerifyPoints = 48

// DefaultCutoff is the integration radius 5n² in Bohr radii.
func DefaultCutoff(n int) float64 {
	return 5 * float64(n*n)
}

// integrateSphere integrates f over the ball of radius rMax in spherical
// coordinates with the r² sin θ Jacobian.
func integrateSphere(f func(p r3.Vec) float64, rMax float64, points int) float64 {
	rule := quad.Legendre{}
	return quad.Fixed(func(r float64) float64 {
		return quad.Fixed(func(theta float64) float64 {
			st := math.Sin(theta)
			return quad.Fixed(func(phi float64) float64 {
				return f(SphericalToCartesian(r, theta, phi))
			}, 0, 2*math.Pi, points, rule, 0) * st
		}, 0, math.Pi, points, rule, 0) * r * r
	}, 0, rMax, points, rule, 0)
}

// VerifyNormalization integrates |ψ_nlm|² over a ball and should return
// close to 1. rMax <= 0 uses DefaultCutoff and points <= 0 uses
// DefaultVerifyPoints. This is a diagnostic and is slow at high orders.
func VerifyNormalization(qn quantum.QuantumNumbers, rMax float64, points int) (float64, error) {
	o, err := NewOrbital(qn, true)
	if err != nil {
		return 0, err
	}
	if rMax <= 0 {
		rMax = DefaultCutoff(qn.N)
	}
	if points <= 0 {
		points = DefaultVerifyPoints
	}
	return integrateSphere(o.Density, rMax, points), nil
}

// VerifyOrthogonality integrates ψ₁·ψ₂ (real basis) over a ball and should
// return close to 0 for distinct orbitals.
func VerifyOrthogonality(a, b quantum.QuantumNumbers, rMax float64, points int) (float64, error) {
	oa, err := NewOrbital(a, true)
	if err != nil {
		return 0, err
	}
	ob, err := NewOrbital(b, true)
	if err != nil {
		return 0, err
	}
	if rMax <= 0 {
		rMax = DefaultCutoff(max(a.N, b.N))
	}
	if points <= 0 {
		points = DefaultVerifyPoints
	}
	return integrateSphere(func(p r3.Vec) float64 {
		return real(oa.At(p) * ob.At(p))
	}, rMax, points), nil
}
