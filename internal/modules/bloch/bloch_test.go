package bloch

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jappenzeller/SYSTEM/internal/modules/quantum"
	"github.com/jappenzeller/SYSTEM/internal/modules/wavefunction"
)

const tol = 1e-10

func TestBlochToStateVector_Equator(t *testing.T) {
	v := BlochToStateVector(math.Pi/2, 0)
	assert.InDelta(t, 1/math.Sqrt2, cmplx.Abs(v.Alpha), tol)
	assert.InDelta(t, 1/math.Sqrt2, cmplx.Abs(v.Beta), tol)
	assert.InDelta(t, 1, v.Norm(), tol)
}

func TestStateVectorToBloch_RoundTrip(t *testing.T) {
	for _, theta := range []float64{0.1, 0.7, math.Pi / 2, 2.2, 3.0, math.Pi} {
		for _, phi := range []float64{0, 0.4, math.Pi / 2, math.Pi, 4.1, 6.2} {
			gotTheta, gotPhi, err := StateVectorToBloch(BlochToStateVector(theta, phi))
			require.NoError(t, err)
			assert.InDelta(t, theta, gotTheta, 1e-9, "θ=%v φ=%v", theta, phi)
			assert.InDelta(t, phi, gotPhi, 1e-9, "θ=%v φ=%v", theta, phi)
		}
	}
}

func TestStateVectorToBloch_Poles(t *testing.T) {
	theta, phi, err := StateVectorToBloch(BlochToStateVector(0, math.Pi))
	require.NoError(t, err)
	assert.Equal(t, 0.0, theta)
	assert.Equal(t, 0.0, phi)
}

func TestStateVectorToBloch_Renormalizes(t *testing.T) {
	theta, phi, err := StateVectorToBloch(StateVector{Alpha: 3, Beta: 3i})
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/2, theta, tol)
	assert.InDelta(t, math.Pi/2, phi, tol)

	_, _, err = StateVectorToBloch(StateVector{})
	assert.ErrorIs(t, err, ErrZeroStateVector)
}

func TestBlochToOrbitalCoeffs(t *testing.T) {
	sp, err := BlochToOrbitalCoeffs(math.Pi/2, 0, quantum.BasisSP)
	require.NoError(t, err)
	assert.Len(t, sp, 2)
	a := AnalyzeCoefficients(math.Pi/2, 0, quantum.BasisSP, sp)
	assert.InDelta(t, 0.5, a.Probabilities[quantum.Orbital1s], tol)
	assert.InDelta(t, 0.5, a.Probabilities[quantum.Orbital2s], tol)

	sd, err := BlochToOrbitalCoeffs(math.Pi, 0, quantum.BasisSD)
	require.NoError(t, err)
	assert.InDelta(t, 1, cmplx.Abs(sd[quantum.Orbital3dz2]), tol)
	assert.InDelta(t, 0, cmplx.Abs(sd[quantum.Orbital1s]), tol)

	pp, err := BlochToOrbitalCoeffs(math.Pi/2, math.Pi/2, quantum.BasisPP)
	require.NoError(t, err)
	assert.Len(t, pp, 3)
	assert.InDelta(t, 0, real(pp[quantum.Orbital2px]), tol)
	assert.InDelta(t, 1/math.Sqrt2, real(pp[quantum.Orbital2py]), tol)
	assert.InDelta(t, 1/math.Sqrt2, real(pp[quantum.Orbital2pz]), tol)
	for _, c := range pp {
		assert.Equal(t, 0.0, imag(c))
	}

	_, err = BlochToOrbitalCoeffs(0, 0, "spd")
	assert.ErrorIs(t, err, quantum.ErrUnknownBasis)
}

func TestCoefficients(t *testing.T) {
	c := Coefficients{
		quantum.Orbital3dz2: 0.5,
		quantum.Orbital2px:  0.5i,
		quantum.Orbital1s:   0.5,
		quantum.Orbital2py:  -0.5,
	}
	assert.Equal(t, []quantum.QuantumNumbers{
		quantum.Orbital1s, quantum.Orbital2py, quantum.Orbital2px, quantum.Orbital3dz2,
	}, c.Keys())
	assert.Equal(t, 3, c.MaxN())
	assert.InDelta(t, 1, c.TotalProbability(), tol)
	assert.Equal(t, 0, Coefficients{}.MaxN())

	clone := c.Clone()
	clone[quantum.Orbital1s] = 0
	assert.Equal(t, complex128(0.5), c[quantum.Orbital1s])
}

func TestGateSequences(t *testing.T) {
	tests := []struct {
		name      string
		theta     float64
		phi       float64
		gates     []quantum.Gate
		wantTheta float64
		wantPhi   float64
	}{
		{"H on |0⟩", 0, 0, []quantum.Gate{quantum.GateH}, math.Pi / 2, 0},
		{"X on |0⟩", 0, 0, []quantum.Gate{quantum.GateX}, math.Pi, 0},
		{"H then Z", 0, 0, []quantum.Gate{quantum.GateH, quantum.GateZ}, math.Pi / 2, math.Pi},
		{"S on |+⟩", math.Pi / 2, 0, []quantum.Gate{quantum.GateS}, math.Pi / 2, math.Pi / 2},
		{"H twice", 1.0, 2.0, []quantum.Gate{quantum.GateH, quantum.GateH}, 1.0, 2.0},
		{"RY(π) on |0⟩", 0, 0, []quantum.Gate{quantum.RotationY(math.Pi)}, math.Pi, 0},
		{"RZ on |+⟩", math.Pi / 2, 0, []quantum.Gate{quantum.RotationZ(math.Pi / 2)}, math.Pi / 2, math.Pi / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theta, phi, err := ApplyGateSequence(tt.theta, tt.phi, tt.gates...)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantTheta, theta, 1e-9)
			assert.InDelta(t, tt.wantPhi, phi, 1e-9)
		})
	}
}

func TestApplyGateToBloch_MatchesSequenceOfOne(t *testing.T) {
	t1, p1, err := ApplyGateToBloch(0.8, 1.9, quantum.GateT)
	require.NoError(t, err)
	t2, p2, err := ApplyGateSequence(0.8, 1.9, quantum.GateT)
	require.NoError(t, err)
	assert.Equal(t, t1, t2)
	assert.Equal(t, p1, p2)
	assert.InDelta(t, 1.9+math.Pi/4, p1, 1e-9)
}

func TestApplyGateToState_PreservesNorm(t *testing.T) {
	v := BlochToStateVector(1.3, 4.4)
	for _, g := range quantum.NamedGates() {
		assert.InDelta(t, 1, ApplyGateToState(v, g).Norm(), 1e-12, "gate %s", g)
	}
}

func TestApplyGateToOrbitals_SP(t *testing.T) {
	c := Coefficients{quantum.Orbital1s: 1, quantum.Orbital2s: 0}
	out, err := ApplyGateToOrbitals(c, quantum.GateX, quantum.BasisSP)
	require.NoError(t, err)
	assert.Equal(t, Coefficients{quantum.Orbital1s: 0, quantum.Orbital2s: 1}, out)

	sd := Coefficients{quantum.Orbital1s: 1}
	out, err = ApplyGateToOrbitals(sd, quantum.GateH, quantum.BasisSD)
	require.NoError(t, err)
	assert.InDelta(t, 1/math.Sqrt2, real(out[quantum.Orbital3dz2]), tol)
}

func TestApplyGateToOrbitals_PP(t *testing.T) {
	c, err := BlochToOrbitalCoeffs(0, 0, quantum.BasisPP)
	require.NoError(t, err)
	out, err := ApplyGateToOrbitals(c, quantum.GateX, quantum.BasisPP)
	require.NoError(t, err)
	assert.InDelta(t, 1, real(out[quantum.Orbital2px]), 1e-9)
	assert.InDelta(t, 0, real(out[quantum.Orbital2py]), 1e-9)
	assert.InDelta(t, 0, real(out[quantum.Orbital2pz]), 1e-9)

	// Identity must reproduce any forward-mapped state.
	c, err = BlochToOrbitalCoeffs(2.1, 0.9, quantum.BasisPP)
	require.NoError(t, err)
	out, err = ApplyGateToOrbitals(c, quantum.GateI, quantum.BasisPP)
	require.NoError(t, err)
	for _, qn := range c.Keys() {
		assert.InDelta(t, real(c[qn]), real(out[qn]), 1e-9, "%s", qn.Name())
	}
}

func TestApplyGateToOrbitals_PPRejectsArbitraryTriples(t *testing.T) {
	tests := []struct {
		name string
		c    Coefficients
	}{
		{"not unit norm", Coefficients{quantum.Orbital2px: 1, quantum.Orbital2py: 1}},
		{"negative pz", Coefficients{quantum.Orbital2pz: -1}},
		{"complex", Coefficients{quantum.Orbital2pz: 1i}},
		{"foreign orbital", Coefficients{quantum.Orbital2pz: 1, quantum.Orbital1s: 0}},
		{"empty", Coefficients{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ApplyGateToOrbitals(tt.c, quantum.GateH, quantum.BasisPP)
			assert.ErrorIs(t, err, ErrInvalidCoefficients)
		})
	}
}

func TestApplyGateToOrbitals_UnknownBasis(t *testing.T) {
	_, err := ApplyGateToOrbitals(Coefficients{}, quantum.GateH, "xx")
	assert.ErrorIs(t, err, quantum.ErrUnknownBasis)
}

func TestSuperposition_KeepsInterference(t *testing.T) {
	p := r3.Vec{X: 1.5, Y: 0.3, Z: -0.4}
	psi1s, err := wavefunction.HydrogenOrbital(1, 0, 0, p, true)
	require.NoError(t, err)
	psi2s, err := wavefunction.HydrogenOrbital(2, 0, 0, p, true)
	require.NoError(t, err)

	plus, err := BellLikeState(PhiPlus)
	require.NoError(t, err)
	got, err := OrbitalCoeffsToDensity(plus, p)
	require.NoError(t, err)

	h := complex(1/math.Sqrt2, 0)
	coherent := wavefunction.ProbabilityDensity(h*psi1s + h*psi2s)
	incoherent := 0.5*wavefunction.ProbabilityDensity(psi1s) + 0.5*wavefunction.ProbabilityDensity(psi2s)
	assert.InDelta(t, coherent, got, 1e-15)
	assert.NotEqual(t, incoherent, got)

	minus, err := BellLikeState(PhiMinus)
	require.NoError(t, err)
	gotMinus, err := OrbitalCoeffsToDensity(minus, p)
	require.NoError(t, err)
	assert.NotEqual(t, got, gotMinus)
}

func TestNewSuperposition_Invalid(t *testing.T) {
	_, err := NewSuperposition(Coefficients{{N: 1, L: 1}: 1})
	assert.ErrorIs(t, err, quantum.ErrInvalidQuantumNumbers)
}

func TestAnalyzeSuperposition(t *testing.T) {
	a, err := AnalyzeSuperposition(math.Pi/2, math.Pi/2, quantum.BasisSP)
	require.NoError(t, err)
	assert.True(t, a.Normalized)
	require.NotNil(t, a.Coherence)
	want := a.Coefficients[quantum.Orbital1s] * cmplx.Conj(a.Coefficients[quantum.Orbital2s])
	assert.Equal(t, want, *a.Coherence)
	assert.InDelta(t, -0.5, imag(*a.Coherence), tol)
	assert.InDelta(t, math.Pi/2, a.Phases[quantum.Orbital2s], tol)

	pp, err := AnalyzeSuperposition(1.0, 1.0, quantum.BasisPP)
	require.NoError(t, err)
	assert.Nil(t, pp.Coherence)
	assert.True(t, pp.Normalized)

	unnormalized := AnalyzeCoefficients(0, 0, quantum.BasisSP, Coefficients{quantum.Orbital1s: 2})
	assert.False(t, unnormalized.Normalized)

	_, err = AnalyzeSuperposition(0, 0, "ps")
	assert.ErrorIs(t, err, quantum.ErrUnknownBasis)
}

func TestBellLikeState(t *testing.T) {
	tests := []struct {
		which BellState
		phi   float64
	}{
		{PhiPlus, 0},
		{PhiMinus, math.Pi},
		{PsiPlus, math.Pi / 2},
		{PsiMinus, 3 * math.Pi / 2},
	}
	for _, tt := range tests {
		t.Run(string(tt.which), func(t *testing.T) {
			got, err := BellLikeState(tt.which)
			require.NoError(t, err)
			want, err := BlochToOrbitalCoeffs(math.Pi/2, tt.phi, quantum.BasisSP)
			require.NoError(t, err)
			for _, qn := range want.Keys() {
				assert.InDelta(t, 0, cmplx.Abs(want[qn]-got[qn]), tol)
			}
		})
	}

	_, err := BellLikeState("chi_plus")
	assert.ErrorIs(t, err, quantum.ErrUnknownNamedState)
}

func TestArbitrarySuperposition(t *testing.T) {
	got, err := ArbitrarySuperposition(2, 2i, quantum.BasisSP)
	require.NoError(t, err)
	assert.InDelta(t, 1/math.Sqrt2, real(got[quantum.Orbital1s]), tol)
	assert.InDelta(t, 1/math.Sqrt2, imag(got[quantum.Orbital2s]), tol)

	_, err = ArbitrarySuperposition(0, 0, quantum.BasisSP)
	assert.ErrorIs(t, err, ErrZeroStateVector)
}

func TestPureStateBloch(t *testing.T) {
	theta, phi, err := PureStateBloch("|-i⟩")
	require.NoError(t, err)
	assert.Equal(t, math.Pi/2, theta)
	assert.Equal(t, 3*math.Pi/2, phi)

	_, _, err = PureStateBloch("|2⟩")
	assert.ErrorIs(t, err, quantum.ErrUnknownNamedState)
}

func TestInterferenceProfile(t *testing.T) {
	pos, dens, err := InterferenceProfile(math.Pi/2, 0, quantum.AxisZ, 10, 21, quantum.BasisSP)
	require.NoError(t, err)
	require.Len(t, pos, 21)
	require.Len(t, dens, 21)
	assert.Equal(t, -10.0, pos[0])
	assert.Equal(t, 10.0, pos[20])
	for i := range dens {
		assert.InDelta(t, dens[i], dens[len(dens)-1-i], 1e-15)
	}

	_, _, err = InterferenceProfile(0, 0, "w", 10, 21, quantum.BasisSP)
	assert.ErrorIs(t, err, quantum.ErrUnknownAxis)
	_, _, err = InterferenceProfile(0, 0, quantum.AxisX, 10, 1, quantum.BasisSP)
	assert.ErrorIs(t, err, wavefunction.ErrInvalidLattice)
	_, _, err = InterferenceProfile(0, 0, quantum.AxisX, 10, 10, "zz")
	assert.ErrorIs(t, err, quantum.ErrUnknownBasis)
}
