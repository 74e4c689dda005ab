package wavefunction

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jappenzeller/SYSTEM/internal/modules/quantum"
)

// originEpsilon guards the polar-angle division at r = 0.
const originEpsilon = 1e-10

// CartesianToSpherical returns r, the polar angle θ ∈ [0, π] and the azimuth
// φ ∈ [0, 2π).
func CartesianToSpherical(p r3.Vec) (r, theta, phi float64) {
	r = r3.Norm(p)
	c := p.Z / math.Max(r, originEpsilon)
	theta = math.Acos(math.Max(-1, math.Min(1, c)))
	phi = math.Atan2(p.Y, p.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return r, theta, phi
}

// SphericalToCartesian is the inverse of CartesianToSpherical.
func SphericalToCartesian(r, theta, phi float64) r3.Vec {
	st := math.Sin(theta)
	return r3.Vec{X: r * st * math.Cos(phi), Y: r * st * math.Sin(phi), Z: r * math.Cos(theta)}
}

// Orbital is a validated ψ_nlm ready for repeated evaluation.
type Orbital struct {
	qn       quantum.QuantumNumbers
	radial   radial
	angular  harmonic
	realForm bool
}

// NewOrbital validates the quantum numbers once and caches the constants.
func NewOrbital(qn quantum.QuantumNumbers, realForm bool) (*Orbital, error) {
	if err := qn.Validate(); err != nil {
		return nil, err
	}
	rf, err := newRadial(qn.N, qn.L)
	if err != nil {
		return nil, err
	}
	h, err := newHarmonic(qn.L, qn.M, realForm)
	if err != nil {
		return nil, err
	}
	return &Orbital{qn: qn, radial: rf, angular: h, realForm: realForm}, nil
}

// QuantumNumbers returns the orbital's (n, l, m).
func (o *Orbital) QuantumNumbers() quantum.QuantumNumbers { return o.qn }

// RealForm reports whether the real spherical-harmonic basis is used.
func (o *Orbital) RealForm() bool { return o.realForm }

// At evaluates ψ = R(r)·Y(θ, φ) at a Cartesian point in Bohr radii.
func (o *Orbital) At(p r3.Vec) complex128 {
	r, theta, phi := CartesianToSpherical(p)
	return complex(o.radial.at(r), 0) * o.angular.at(theta, phi)
}

// Density evaluates |ψ|² at p.
func (o *Orbital) Density(p r3.Vec) float64 {
	return ProbabilityDensity(o.At(p))
}

// HydrogenOrbital validates (n, l, m) and evaluates ψ_nlm at p.
func HydrogenOrbital(n, l, m int, p r3.Vec, realForm bool) (complex128, error) {
	o, err := NewOrbital(quantum.QuantumNumbers{N: n, L: l, M: m}, realForm)
	if err != nil {
		return 0, err
	}
	return o.At(p), nil
}

// ProbabilityDensity returns |ψ|². Real values are carried as complex with a
// zero imaginary part, so one formula covers both.
func ProbabilityDensity(psi complex128) float64 {
	re, im := real(psi), imag(psi)
	return re*re + im*im
}

// OrbitalMaximumRadius is a rough radius of peak density: the nucleus for s
// orbitals and n² Bohr radii otherwise.
func OrbitalMaximumRadius(qn quantum.QuantumNumbers) float64 {
	if qn.L == 0 {
		return 0
	}
	return float64(qn.N * qn.N)
}
