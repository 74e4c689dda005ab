package bloch

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jappenzeller/SYSTEM/internal/modules/quantum"
	"github.com/jappenzeller/SYSTEM/internal/modules/wavefunction"
)

// Coefficients maps orbitals to their complex amplitude in a superposition.
type Coefficients map[quantum.QuantumNumbers]complex128

// Keys returns the orbitals ordered by n, then l, then m.
func (c Coefficients) Keys() []quantum.QuantumNumbers {
	keys := make([]quantum.QuantumNumbers, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// TotalProbability returns Σ|cᵢ|².
func (c Coefficients) TotalProbability() float64 {
	var total float64
	for _, coeff := range c {
		a := cmplx.Abs(coeff)
		total += a * a
	}
	return total
}

// MaxN returns the largest principal quantum number present, or 0 when empty.
func (c Coefficients) MaxN() int {
	n := 0
	for k := range c {
		n = max(n, k.N)
	}
	return n
}

// Clone returns an independent copy.
func (c Coefficients) Clone() Coefficients {
	out := make(Coefficients, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// BlochToOrbitalCoeffs projects the Bloch state (θ, φ) onto a basis.
//
//	sp: {1s: α, 2s: β}
//	pp: {2px: sin(θ/2)cos φ, 2py: sin(θ/2)sin φ, 2pz: cos(θ/2)}
//	sd: {1s: α, 3dz²: β}
//
// The pp map is real and drops the relative phase of the qubit.
func BlochToOrbitalCoeffs(theta, phi float64, basis quantum.Basis) (Coefficients, error) {
	switch basis {
	case quantum.BasisSP, quantum.BasisSD:
		return fromStateVector(BlochToStateVector(theta, phi), basis)
	case quantum.BasisPP:
		s, c := math.Sin(theta/2), math.Cos(theta/2)
		return Coefficients{
			quantum.Orbital2px: complex(s*math.Cos(phi), 0),
			quantum.Orbital2py: complex(s*math.Sin(phi), 0),
			quantum.Orbital2pz: complex(c, 0),
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", quantum.ErrUnknownBasis, basis)
}

// excitedOrbital is the orbital carrying |1⟩ in the two-orbital bases.
func excitedOrbital(basis quantum.Basis) (quantum.QuantumNumbers, error) {
	switch basis {
	case quantum.BasisSP:
		return quantum.Orbital2s, nil
	case quantum.BasisSD:
		return quantum.Orbital3dz2, nil
	}
	return quantum.QuantumNumbers{}, fmt.Errorf("%w: %q has no two-orbital form", quantum.ErrUnknownBasis, basis)
}

// fromStateVector places (α, β) on the two orbitals of sp or sd without
// renormalizing.
func fromStateVector(v StateVector, basis quantum.Basis) (Coefficients, error) {
	excited, err := excitedOrbital(basis)
	if err != nil {
		return nil, err
	}
	return Coefficients{quantum.Orbital1s: v.Alpha, excited: v.Beta}, nil
}

// Superposition is a compiled set of orbitals with fixed coefficients.
type Superposition struct {
	coeffs   []complex128
	orbitals []*wavefunction.Orbital
}

// NewSuperposition validates every orbital once. Orbitals are evaluated in
// the real spherical-harmonic basis.
func NewSuperposition(c Coefficients) (*Superposition, error) {
	s := &Superposition{}
	for _, qn := range c.Keys() {
		o, err := wavefunction.NewOrbital(qn, true)
		if err != nil {
			return nil, err
		}
		s.coeffs = append(s.coeffs, c[qn])
		s.orbitals = append(s.orbitals, o)
	}
	return s, nil
}

// Amplitude returns ψ(p) = Σ cᵢ ψᵢ(p).
func (s *Superposition) Amplitude(p r3.Vec) complex128 {
	var psi complex128
	for i, o := range s.orbitals {
		psi += s.coeffs[i] * o.At(p)
	}
	return psi
}

// Density returns |Σ cᵢ ψᵢ(p)|². Amplitudes are summed before squaring so
// the interference cross-terms are kept.
func (s *Superposition) Density(p r3.Vec) float64 {
	return wavefunction.ProbabilityDensity(s.Amplitude(p))
}

// OrbitalCoeffsToDensity evaluates the superposition density at a single point.
func OrbitalCoeffsToDensity(c Coefficients, p r3.Vec) (float64, error) {
	s, err := NewSuperposition(c)
	if err != nil {
		return 0, err
	}
	return s.Density(p), nil
}
