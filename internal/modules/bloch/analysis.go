package bloch

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jappenzeller/SYSTEM/internal/modules/quantum"
	"github.com/jappenzeller/SYSTEM/internal/modules/wavefunction"
)

// NormalizationTolerance is the allowed deviation of Σ|cᵢ|² from 1.
const NormalizationTolerance = 1e-6

// Analysis describes the orbital superposition behind a Bloch state.
type Analysis struct {
	Theta         float64
	Phi           float64
	Basis         quantum.Basis
	Coefficients  Coefficients
	Probabilities map[quantum.QuantumNumbers]float64
	Phases        map[quantum.QuantumNumbers]float64
	// Coherence is c₁·conj(c₂) for two-orbital superpositions, nil otherwise.
	Coherence  *complex128
	Normalized bool
}

// AnalyzeSuperposition returns per-orbital probability and phase, the
// coherence term and a normalization check.
func AnalyzeSuperposition(theta, phi float64, basis quantum.Basis) (*Analysis, error) {
	c, err := BlochToOrbitalCoeffs(theta, phi, basis)
	if err != nil {
		return nil, err
	}
	return AnalyzeCoefficients(theta, phi, basis, c), nil
}

// AnalyzeCoefficients builds an Analysis from coefficients already in hand.
func AnalyzeCoefficients(theta, phi float64, basis quantum.Basis, c Coefficients) *Analysis {
	a := &Analysis{
		Theta:         theta,
		Phi:           phi,
		Basis:         basis,
		Coefficients:  c,
		Probabilities: make(map[quantum.QuantumNumbers]float64, len(c)),
		Phases:        make(map[quantum.QuantumNumbers]float64, len(c)),
	}
	for qn, coeff := range c {
		m := cmplx.Abs(coeff)
		a.Probabilities[qn] = m * m
		a.Phases[qn] = cmplx.Phase(coeff)
	}
	if keys := c.Keys(); len(keys) == 2 {
		coh := c[keys[0]] * cmplx.Conj(c[keys[1]])
		a.Coherence = &coh
	}
	a.Normalized = math.Abs(c.TotalProbability()-1) <= NormalizationTolerance
	return a
}

// BellState names a single-qubit analogue of the Bell states.
type BellState string

const (
	PhiPlus  BellState = "phi_plus"  // (|0⟩ + |1⟩)/√2
	PhiMinus BellState = "phi_minus" // (|0⟩ - |1⟩)/√2
	PsiPlus  BellState = "psi_plus"  // (|0⟩ + i|1⟩)/√2
	PsiMinus BellState = "psi_minus" // (|0⟩ - i|1⟩)/√2
)

// BellLikeState returns sp coefficients for one of the named equal-weight
// superpositions.
func BellLikeState(which BellState) (Coefficients, error) {
	h := complex(1/math.Sqrt2, 0)
	var beta complex128
	switch which {
	case PhiPlus:
		beta = h
	case PhiMinus:
		beta = -h
	case PsiPlus:
		beta = 1i * h
	case PsiMinus:
		beta = -1i * h
	default:
		return nil, fmt.Errorf("%w: bell-like state %q", quantum.ErrUnknownNamedState, which)
	}
	return Coefficients{quantum.Orbital1s: h, quantum.Orbital2s: beta}, nil
}

// ArbitrarySuperposition normalizes (α, β) and projects it onto a basis via
// its Bloch angles, so the global phase is dropped.
func ArbitrarySuperposition(alpha, beta complex128, basis quantum.Basis) (Coefficients, error) {
	theta, phi, err := StateVectorToBloch(StateVector{Alpha: alpha, Beta: beta})
	if err != nil {
		return nil, err
	}
	return BlochToOrbitalCoeffs(theta, phi, basis)
}

// InterferenceProfile samples the superposition density along one axis from
// -extent to extent.
func InterferenceProfile(theta, phi float64, axis quantum.Axis, extent float64, resolution int, basis quantum.Basis) (positions, density []float64, err error) {
	if resolution < 2 || !(extent > 0) {
		return nil, nil, fmt.Errorf("%w: resolution %d, extent %g", wavefunction.ErrInvalidLattice, resolution, extent)
	}
	var dir r3.Vec
	switch axis {
	case quantum.AxisX:
		dir = r3.Vec{X: 1}
	case quantum.AxisY:
		dir = r3.Vec{Y: 1}
	case quantum.AxisZ:
		dir = r3.Vec{Z: 1}
	default:
		return nil, nil, fmt.Errorf("%w: %q", quantum.ErrUnknownAxis, axis)
	}
	c, err := BlochToOrbitalCoeffs(theta, phi, basis)
	if err != nil {
		return nil, nil, err
	}
	s, err := NewSuperposition(c)
	if err != nil {
		return nil, nil, err
	}
	positions = make([]float64, resolution)
	floats.Span(positions, -extent, extent)
	density = make([]float64, resolution)
	for i, x := range positions {
		density[i] = s.Density(r3.Scale(x, dir))
	}
	return positions, density, nil
}
