// Package orbitalstate holds a single-qubit state together with its orbital
// superposition and a cached density grid.
package orbitalstate

import (
	"fmt"
	"math/cmplx"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jappenzeller/SYSTEM/internal/modules/bloch"
	"github.com/jappenzeller/SYSTEM/internal/modules/quantum"
	"github.com/jappenzeller/SYSTEM/internal/modules/wavefunction"
)

// State is a qubit state viewed both as Bloch angles and as an orbital
// superposition. It is meant for a single owner; concurrent mutation needs
// external locking.
type State struct {
	theta  float64
	phi    float64
	basis  quantum.Basis
	vector bloch.StateVector
	coeffs bloch.Coefficients

	sampler *wavefunction.Sampler
	log     zerolog.Logger

	cacheKey  GridKey
	cacheGrid *wavefunction.DensityGrid
}

// Option configures a State.
type Option func(*State)

// WithSampler sets the lattice sampler used for density grids.
func WithSampler(s *wavefunction.Sampler) Option {
	return func(st *State) { st.sampler = s }
}

// WithLogger sets the logger used to report grid sampling.
func WithLogger(log zerolog.Logger) Option {
	return func(st *State) { st.log = log.With().Str("component", "orbital_state").Logger() }
}

// New creates a state at Bloch angles (θ, φ) in the given basis.
func New(theta, phi float64, basis quantum.Basis, opts ...Option) (*State, error) {
	b, err := quantum.ParseBasis(string(basis))
	if err != nil {
		return nil, err
	}
	s := &State{basis: b, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.sampler == nil {
		s.sampler = wavefunction.NewSampler(0)
	}
	if err := s.SetBloch(theta, phi); err != nil {
		return nil, err
	}
	return s, nil
}

// FromNamedState creates a state at one of the six cardinal points.
func FromNamedState(name string, basis quantum.Basis, opts ...Option) (*State, error) {
	theta, phi, err := bloch.PureStateBloch(name)
	if err != nil {
		return nil, err
	}
	return New(theta, phi, basis, opts...)
}

// FromStateVector creates a state from amplitudes (α, β), renormalized.
func FromStateVector(v bloch.StateVector, basis quantum.Basis, opts ...Option) (*State, error) {
	s, err := New(0, 0, basis, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.SetStateVector(v); err != nil {
		return nil, err
	}
	return s, nil
}

// Theta returns the Bloch polar angle.
func (s *State) Theta() float64 { return s.theta }

// Phi returns the Bloch azimuth.
func (s *State) Phi() float64 { return s.phi }

// Basis returns the orbital basis.
func (s *State) Basis() quantum.Basis { return s.basis }

// StateVector returns the current amplitudes.
func (s *State) StateVector() bloch.StateVector { return s.vector }

// Coefficients returns a copy of the orbital coefficients.
func (s *State) Coefficients() bloch.Coefficients { return s.coeffs.Clone() }

// SetBloch moves the state to (θ, φ).
func (s *State) SetBloch(theta, phi float64) error {
	coeffs, err := bloch.BlochToOrbitalCoeffs(theta, phi, s.basis)
	if err != nil {
		return err
	}
	s.theta, s.phi = theta, phi
	s.vector = bloch.BlochToStateVector(theta, phi)
	s.coeffs = coeffs
	s.invalidate()
	return nil
}

// SetStateVector replaces the amplitudes. Only the Bloch angles of v are kept:
// the stored vector is rebuilt from them, so global phase is dropped.
func (s *State) SetStateVector(v bloch.StateVector) error {
	norm, err := v.Normalized()
	if err != nil {
		return err
	}
	theta, phi, err := bloch.StateVectorToBloch(norm)
	if err != nil {
		return err
	}
	coeffs, err := bloch.BlochToOrbitalCoeffs(theta, phi, s.basis)
	if err != nil {
		return err
	}
	s.theta, s.phi = theta, phi
	s.vector = bloch.BlochToStateVector(theta, phi)
	s.coeffs = coeffs
	s.invalidate()
	return nil
}

// SetPureState moves the state to a named cardinal point.
func (s *State) SetPureState(name string) error {
	theta, phi, err := bloch.PureStateBloch(name)
	if err != nil {
		return err
	}
	return s.SetBloch(theta, phi)
}

// SetBasis reprojects the current Bloch angles onto another basis.
func (s *State) SetBasis(basis quantum.Basis) error {
	b, err := quantum.ParseBasis(string(basis))
	if err != nil {
		return err
	}
	s.basis = b
	return s.SetBloch(s.theta, s.phi)
}

// ApplyGate applies g through the Bloch representation.
func (s *State) ApplyGate(g quantum.Gate) error {
	theta, phi, err := bloch.ApplyGateToBloch(s.theta, s.phi, g)
	if err != nil {
		return err
	}
	return s.SetBloch(theta, phi)
}

// ApplyRotation rotates about the X, Y or Z axis.
func (s *State) ApplyRotation(axis string, angle float64) error {
	g, err := quantum.Rotation(axis, angle)
	if err != nil {
		return err
	}
	return s.ApplyGate(g)
}

func (s *State) invalidate() {
	s.cacheGrid = nil
	s.cacheKey = GridKey{}
}

// DominantOrbital returns the orbital with the largest coefficient magnitude.
// Ties go to the lowest n, then l, then m.
func (s *State) DominantOrbital() (quantum.QuantumNumbers, complex128) {
	return dominant(s.coeffs)
}

func dominant(c bloch.Coefficients) (quantum.QuantumNumbers, complex128) {
	var (
		best    quantum.QuantumNumbers
		bestC   complex128
		bestMag = -1.0
	)
	for _, qn := range c.Keys() {
		if m := cmplx.Abs(c[qn]); m > bestMag {
			best, bestC, bestMag = qn, c[qn], m
		}
	}
	return best, bestC
}

// Probabilities returns |cᵢ|² per orbital.
func (s *State) Probabilities() map[quantum.QuantumNumbers]float64 {
	out := make(map[quantum.QuantumNumbers]float64, len(s.coeffs))
	for qn, c := range s.coeffs {
		m := cmplx.Abs(c)
		out[qn] = m * m
	}
	return out
}

// Analyze returns the superposition analysis at the current angles.
func (s *State) Analyze() *bloch.Analysis {
	return bloch.AnalyzeCoefficients(s.theta, s.phi, s.basis, s.coeffs.Clone())
}

// Purity returns Tr(ρ²) for ρ = |ψ⟩⟨ψ|, which is 1 for every state held here.
func (s *State) Purity() float64 {
	a, b := s.vector.Alpha, s.vector.Beta
	rho := quantum.Matrix2{
		{a * cmplx.Conj(a), a * cmplx.Conj(b)},
		{b * cmplx.Conj(a), b * cmplx.Conj(b)},
	}
	sq := rho.Mul(rho)
	return real(sq[0][0] + sq[1][1])
}

// ExpectationValue returns Re⟨ψ|O|ψ⟩.
func (s *State) ExpectationValue(o quantum.Matrix2) float64 {
	a, b := o.Apply(s.vector.Alpha, s.vector.Beta)
	return real(cmplx.Conj(s.vector.Alpha)*a + cmplx.Conj(s.vector.Beta)*b)
}

// Label classifies the current state vector.
func (s *State) Label() StateLabel {
	return Classify(s.vector)
}

func (s *State) String() string {
	var parts []string
	if cmplx.Abs(s.vector.Alpha) > 1e-10 {
		parts = append(parts, fmt.Sprintf("(%.3f)|0⟩", s.vector.Alpha))
	}
	if cmplx.Abs(s.vector.Beta) > 1e-10 {
		parts = append(parts, fmt.Sprintf("(%.3f)|1⟩", s.vector.Beta))
	}
	ket := "0"
	if len(parts) > 0 {
		ket = strings.Join(parts, " + ")
	}
	return fmt.Sprintf("%s θ=%.3f φ=%.3f basis=%s orbitals=%d",
		ket, s.theta, s.phi, s.basis, len(s.coeffs))
}
