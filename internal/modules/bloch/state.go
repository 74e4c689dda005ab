// Package bloch maps single-qubit states on the Bloch sphere to hydrogen
// orbital superpositions and applies gates to them.
package bloch

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/jappenzeller/SYSTEM/internal/modules/quantum"
)

var (
	// ErrZeroStateVector is returned when a state vector with zero norm has
	// to be normalized.
	ErrZeroStateVector = errors.New("zero state vector")
	// ErrInvalidCoefficients is returned when orbital coefficients cannot be
	// mapped back to a qubit state in the requested basis.
	ErrInvalidCoefficients = errors.New("invalid orbital coefficients")
)

// phaseEpsilon is the amplitude magnitude below which a phase is treated as 0.
const phaseEpsilon = 1e-12

// StateVector is |ψ⟩ = α|0⟩ + β|1⟩.
type StateVector struct {
	Alpha complex128
	Beta  complex128
}

// Norm returns sqrt(|α|² + |β|²).
func (v StateVector) Norm() float64 {
	return math.Hypot(cmplx.Abs(v.Alpha), cmplx.Abs(v.Beta))
}

// Normalized scales v to unit norm.
func (v StateVector) Normalized() (StateVector, error) {
	n := v.Norm()
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return StateVector{}, fmt.Errorf("%w: norm %g", ErrZeroStateVector, n)
	}
	s := complex(1/n, 0)
	return StateVector{Alpha: v.Alpha * s, Beta: v.Beta * s}, nil
}

// Apply left-multiplies v by the gate matrix.
func (v StateVector) Apply(g quantum.Gate) StateVector {
	a, b := g.Matrix().Apply(v.Alpha, v.Beta)
	return StateVector{Alpha: a, Beta: b}
}

// Probabilities returns |α|² and |β|².
func (v StateVector) Probabilities() (p0, p1 float64) {
	a, b := cmplx.Abs(v.Alpha), cmplx.Abs(v.Beta)
	return a * a, b * b
}

func (v StateVector) String() string {
	return fmt.Sprintf("%.4f|0⟩ + %.4f|1⟩", v.Alpha, v.Beta)
}

// BlochToStateVector returns (cos(θ/2), e^{iφ} sin(θ/2)).
func BlochToStateVector(theta, phi float64) StateVector {
	s := math.Sin(theta / 2)
	return StateVector{
		Alpha: complex(math.Cos(theta/2), 0),
		Beta:  complex(s*math.Cos(phi), s*math.Sin(phi)),
	}
}

// StateVectorToBloch renormalizes v and returns θ = 2·acos(|α|) and
// φ = (arg β − arg α) mod 2π. The phase of a vanishing amplitude counts as 0,
// so the poles always report φ = 0.
func StateVectorToBloch(v StateVector) (theta, phi float64, err error) {
	v, err = v.Normalized()
	if err != nil {
		return 0, 0, err
	}
	a := math.Min(1, cmplx.Abs(v.Alpha))
	theta = 2 * math.Acos(a)
	phi = wrapPhase(phaseOf(v.Beta) - phaseOf(v.Alpha))
	return theta, phi, nil
}

func phaseOf(c complex128) float64 {
	if cmplx.Abs(c) < phaseEpsilon {
		return 0
	}
	return cmplx.Phase(c)
}

// wrapPhase maps an angle into [0, 2π).
func wrapPhase(phi float64) float64 {
	phi = math.Mod(phi, 2*math.Pi)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	if phi >= 2*math.Pi {
		phi = 0
	}
	return phi
}

// PureStateBloch returns the Bloch angles of a named cardinal state.
func PureStateBloch(name string) (theta, phi float64, err error) {
	s, err := quantum.LookupPureState(name)
	if err != nil {
		return 0, 0, err
	}
	return s.Theta, s.Phi, nil
}
