package bloch

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/jappenzeller/SYSTEM/internal/modules/quantum"
)

// ppTolerance bounds how far pp coefficients may stray from a real unit vector
// and still be inverted.
const ppTolerance = 1e-6

// ApplyGateToState returns U|ψ⟩.
func ApplyGateToState(v StateVector, g quantum.Gate) StateVector {
	return v.Apply(g)
}

// ApplyGateToBloch applies g to the state at (θ, φ) and returns the new angles.
func ApplyGateToBloch(theta, phi float64, g quantum.Gate) (float64, float64, error) {
	return StateVectorToBloch(BlochToStateVector(theta, phi).Apply(g))
}

// ApplyGateSequence applies gates in order, starting from (θ, φ).
func ApplyGateSequence(theta, phi float64, gates ...quantum.Gate) (float64, float64, error) {
	v := BlochToStateVector(theta, phi)
	for _, g := range gates {
		v = v.Apply(g)
	}
	return StateVectorToBloch(v)
}

// ApplyGateToOrbitals recovers the qubit state behind coefficients in the
// given basis, applies g, and maps the result back. For pp the coefficients
// must be a real unit vector with c_pz ∈ [0, 1], which is exactly the image of
// the forward pp map; anything else returns ErrInvalidCoefficients.
func ApplyGateToOrbitals(c Coefficients, g quantum.Gate, basis quantum.Basis) (Coefficients, error) {
	switch basis {
	case quantum.BasisSP, quantum.BasisSD:
		excited, err := excitedOrbital(basis)
		if err != nil {
			return nil, err
		}
		v := StateVector{Alpha: c[quantum.Orbital1s], Beta: c[excited]}
		return fromStateVector(v.Apply(g), basis)
	case quantum.BasisPP:
		theta, phi, err := invertPP(c)
		if err != nil {
			return nil, err
		}
		theta, phi, err = ApplyGateToBloch(theta, phi, g)
		if err != nil {
			return nil, err
		}
		return BlochToOrbitalCoeffs(theta, phi, quantum.BasisPP)
	}
	return nil, fmt.Errorf("%w: %q", quantum.ErrUnknownBasis, basis)
}

// invertPP backs out θ = 2·acos(c_pz) and φ = atan2(c_py, c_px).
func invertPP(c Coefficients) (theta, phi float64, err error) {
	for qn := range c {
		if qn != quantum.Orbital2px && qn != quantum.Orbital2py && qn != quantum.Orbital2pz {
			return 0, 0, fmt.Errorf("%w: orbital %s is not in the pp basis", ErrInvalidCoefficients, qn.Name())
		}
	}
	px, py, pz := c[quantum.Orbital2px], c[quantum.Orbital2py], c[quantum.Orbital2pz]
	for _, v := range []complex128{px, py, pz} {
		if math.Abs(imag(v)) > ppTolerance {
			return 0, 0, fmt.Errorf("%w: pp coefficients must be real, got %v", ErrInvalidCoefficients, v)
		}
	}
	x, y, z := real(px), real(py), real(pz)
	norm := math.Sqrt(x*x + y*y + z*z)
	if math.Abs(norm-1) > ppTolerance {
		return 0, 0, fmt.Errorf("%w: pp coefficients must have unit norm, got %g", ErrInvalidCoefficients, norm)
	}
	if z < -ppTolerance || z > 1+ppTolerance {
		return 0, 0, fmt.Errorf("%w: c_pz must lie in [0, 1], got %g", ErrInvalidCoefficients, z)
	}
	z = math.Max(0, math.Min(1, z))
	theta = 2 * math.Acos(z)
	phi = wrapPhase(math.Atan2(y, x))
	if cmplx.Abs(complex(x, y)) < phaseEpsilon {
		phi = 0
	}
	return theta, phi, nil
}
