package wavefunction

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jappenzeller/SYSTEM/internal/modules/quantum"
)

func allQuantumNumbers() []quantum.QuantumNumbers {
	var out []quantum.QuantumNumbers
	for n := 1; n <= quantum.MaxPrincipal; n++ {
		for l := 0; l < n; l++ {
			for m := -l; m <= l; m++ {
				out = append(out, quantum.QuantumNumbers{N: n, L: l, M: m})
			}
		}
	}
	return out
}

func TestHydrogenOrbital_AtOrigin(t *testing.T) {
	for _, qn := range allQuantumNumbers() {
		psi, err := HydrogenOrbital(qn.N, qn.L, qn.M, r3.Vec{}, true)
		require.NoError(t, err)
		if qn.L > 0 {
			assert.Equal(t, complex128(0), psi, "orbital %v", qn)
			continue
		}
		norm, err := RadialNormalization(qn.N, qn.L)
		require.NoError(t, err)
		y00 := 1 / math.Sqrt(4*math.Pi)
		assert.InDelta(t, norm*y00, real(psi), 1e-12, "orbital %v", qn)
		assert.False(t, math.IsNaN(real(psi)))
	}
}

func TestRadial_AtOrigin(t *testing.T) {
	r, err := Radial(1, 0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, r, 1e-12)

	r, err = Radial(2, 0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1/(2*math.Sqrt2), r, 1e-12)

	r, err = Radial(2, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, r)
}

func TestRadial_ClosedForms(t *testing.T) {
	tests := []struct {
		name string
		n, l int
		want func(r float64) float64
	}{
		{"1s", 1, 0, func(r float64) float64 { return 2 * math.Exp(-r) }},
		{"2s", 2, 0, func(r float64) float64 { return (1 / (2 * math.Sqrt2)) * (2 - r) * math.Exp(-r/2) }},
		{"2p", 2, 1, func(r float64) float64 { return (1 / (2 * math.Sqrt(6))) * r * math.Exp(-r/2) }},
		{"3d", 3, 2, func(r float64) float64 { return (4 / (81 * math.Sqrt(30))) * r * r * math.Exp(-r/3) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, r := range []float64{0.1, 1, 2.5, 7, 15} {
				got, err := Radial(tt.n, tt.l, r)
				require.NoError(t, err)
				assert.InDelta(t, tt.want(r), got, 1e-12, "r=%v", r)
			}
		})
	}
}

func TestRadialInto(t *testing.T) {
	rs := []float64{0, 1, 2, 3}
	dst := make([]float64, len(rs))
	require.NoError(t, RadialInto(dst, rs, 2, 0))
	for i, r := range rs {
		want, _ := Radial(2, 0, r)
		assert.Equal(t, want, dst[i])
	}

	assert.Error(t, RadialInto(make([]float64, 2), rs, 2, 0))
	assert.ErrorIs(t, RadialInto(dst, rs, 2, 2), quantum.ErrInvalidQuantumNumbers)
}

func TestGeneralizedLaguerre(t *testing.T) {
	x := 1.7
	assert.Equal(t, 1.0, GeneralizedLaguerre(0, 3, x))
	assert.InDelta(t, 1+3-x, GeneralizedLaguerre(1, 3, x), 1e-12)
	// L_2^α(x) = x²/2 - (α+2)x + (α+2)(α+1)/2
	want := x*x/2 - 5*x + 5*4/2.0
	assert.InDelta(t, want, GeneralizedLaguerre(2, 3, x), 1e-12)
}

func TestSphericalHarmonic_MatchesClosedForms(t *testing.T) {
	angles := [][2]float64{{0.3, 0.2}, {1.1, 2.5}, {2.7, 5.9}, {math.Pi / 2, math.Pi}}
	for l := 0; l <= 4; l++ {
		for m := -l; m <= l; m++ {
			for _, realForm := range []bool{true, false} {
				h, err := newHarmonic(l, m, realForm)
				require.NoError(t, err)
				for _, a := range angles {
					got, err := SphericalHarmonic(l, m, a[0], a[1], realForm)
					require.NoError(t, err)
					assert.InDelta(t, 0, cmplx.Abs(got-h.at(a[0], a[1])), 1e-12,
						"l=%d m=%d real=%v angles=%v", l, m, realForm, a)
				}
			}
		}
	}
}

func TestSphericalHarmonic_KnownValues(t *testing.T) {
	theta, phi := 0.8, 1.3
	y10, err := SphericalHarmonic(1, 0, theta, phi, false)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(3/(4*math.Pi))*math.Cos(theta), real(y10), 1e-12)

	y11, err := SphericalHarmonic(1, 1, theta, phi, false)
	require.NoError(t, err)
	want := complex(-math.Sqrt(3/(8*math.Pi))*math.Sin(theta), 0) * cmplx.Exp(complex(0, phi))
	assert.InDelta(t, 0, cmplx.Abs(y11-want), 1e-12)

	_, err = SphericalHarmonic(1, 2, theta, phi, true)
	assert.ErrorIs(t, err, quantum.ErrInvalidQuantumNumbers)
}

func TestSphericalHarmonic_RealFormIsReal(t *testing.T) {
	for l := 1; l <= 3; l++ {
		for m := -l; m <= l; m++ {
			y, err := SphericalHarmonic(l, m, 1.0, 2.0, true)
			require.NoError(t, err)
			assert.Equal(t, 0.0, imag(y))
			if m != 0 {
				assert.NotZero(t, real(y), "l=%d m=%d", l, m)
			}
		}
	}
}

func TestCartesianToSpherical(t *testing.T) {
	r, theta, phi := CartesianToSpherical(r3.Vec{X: 0, Y: -1, Z: 0})
	assert.InDelta(t, 1, r, 1e-12)
	assert.InDelta(t, math.Pi/2, theta, 1e-12)
	assert.InDelta(t, 3*math.Pi/2, phi, 1e-12)

	r, theta, phi = CartesianToSpherical(r3.Vec{})
	assert.Equal(t, 0.0, r)
	assert.InDelta(t, math.Pi/2, theta, 1e-12)
	assert.Equal(t, 0.0, phi)

	_, theta, _ = CartesianToSpherical(r3.Vec{Z: -3})
	assert.InDelta(t, math.Pi, theta, 1e-12)

	p := r3.Vec{X: 1.5, Y: -2, Z: 0.7}
	back := SphericalToCartesian(CartesianToSpherical(p))
	assert.InDelta(t, 0, r3.Norm(r3.Sub(p, back)), 1e-12)
}

func TestDensity_1sSphericallySymmetric(t *testing.T) {
	points := []r3.Vec{
		{X: 5}, {X: -5}, {Y: 5}, {Y: -5}, {Z: 5}, {Z: -5},
	}
	o, err := NewOrbital(quantum.Orbital1s, true)
	require.NoError(t, err)
	ref := o.Density(points[0])
	for _, p := range points[1:] {
		assert.InDelta(t, ref, o.Density(p), 1e-10)
	}
}

func TestDensity_2pxAlignedWithX(t *testing.T) {
	o, err := NewOrbital(quantum.Orbital2px, true)
	require.NoError(t, err)
	alongX := cmplx.Abs(o.At(r3.Vec{X: 10}))
	alongY := cmplx.Abs(o.At(r3.Vec{Y: 10}))
	alongZ := cmplx.Abs(o.At(r3.Vec{Z: 10}))
	assert.Greater(t, alongX, alongY)
	assert.Greater(t, alongX, alongZ)

	py, err := NewOrbital(quantum.Orbital2py, true)
	require.NoError(t, err)
	assert.Greater(t, cmplx.Abs(py.At(r3.Vec{Y: 10})), cmplx.Abs(py.At(r3.Vec{X: 10})))
}

func TestProbabilityDensity(t *testing.T) {
	assert.Equal(t, 4.0, ProbabilityDensity(2))
	assert.Equal(t, 25.0, ProbabilityDensity(3+4i))
}

func TestHydrogenOrbital_Invalid(t *testing.T) {
	_, err := HydrogenOrbital(2, 2, 0, r3.Vec{X: 1}, true)
	assert.ErrorIs(t, err, quantum.ErrInvalidQuantumNumbers)
	_, err = HydrogenOrbital(8, 0, 0, r3.Vec{X: 1}, true)
	assert.ErrorIs(t, err, quantum.ErrInvalidQuantumNumbers)
}

func TestOrbitalMaximumRadius(t *testing.T) {
	assert.Equal(t, 0.0, OrbitalMaximumRadius(quantum.Orbital2s))
	assert.Equal(t, 9.0, OrbitalMaximumRadius(quantum.Orbital3dz2))
}
