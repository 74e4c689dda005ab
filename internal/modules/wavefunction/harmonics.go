package wavefunction

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/jappenzeller/SYSTEM/internal/modules/quantum"
)

// AssociatedLegendre evaluates P_l^m(x) for 0 <= m <= l, including the
// Condon–Shortley phase (-1)^m.
func AssociatedLegendre(l, m int, x float64) float64 {
	if m < 0 || m > l {
		return 0
	}
	pmm := 1.0
	if m > 0 {
		somx2 := math.Sqrt((1 - x) * (1 + x))
		fact := 1.0
		for i := 1; i <= m; i++ {
			pmm *= -fact * somx2
			fact += 2
		}
	}
	if l == m {
		return pmm
	}
	pmmp1 := x * float64(2*m+1) * pmm
	if l == m+1 {
		return pmmp1
	}
	var pll float64
	for ll := m + 2; ll <= l; ll++ {
		pll = (x*float64(2*ll-1)*pmmp1 - float64(ll+m-1)*pmm) / float64(ll-m)
		pmm, pmmp1 = pmmp1, pll
	}
	return pll
}

// harmonic caches the normalization of Y_l^m for repeated evaluation.
type harmonic struct {
	l, m     int
	absM     int
	norm     float64 // sqrt((2l+1)/(4π) (l-|m|)!/(l+|m|)!)
	realForm bool
}

func newHarmonic(l, m int, realForm bool) (harmonic, error) {
	if l < 0 || m < -l || m > l {
		return harmonic{}, fmt.Errorf("%w: spherical harmonic needs |m| <= l, got l=%d, m=%d", quantum.ErrInvalidQuantumNumbers, l, m)
	}
	absM := m
	if absM < 0 {
		absM = -absM
	}
	norm := math.Sqrt(float64(2*l+1) / (4 * math.Pi) * factorial(l-absM) / factorial(l+absM))
	return harmonic{l: l, m: m, absM: absM, norm: norm, realForm: realForm}, nil
}

func parity(k int) float64 {
	if k%2 == 0 {
		return 1
	}
	return -1
}

// at evaluates the harmonic in closed form. For the real basis this is
// √2·Re Y_l^m for m > 0 and -√2·(-1)^m·Im Y_l^|m| for m < 0.
func (h harmonic) at(theta, phi float64) complex128 {
	base := h.norm * AssociatedLegendre(h.l, h.absM, math.Cos(theta))
	if h.m == 0 {
		return complex(base, 0)
	}
	mphi := float64(h.absM) * phi
	if h.realForm {
		if h.m > 0 {
			return complex(math.Sqrt2*base*math.Cos(mphi), 0)
		}
		return complex(-math.Sqrt2*parity(h.absM)*base*math.Sin(mphi), 0)
	}
	if h.m > 0 {
		return complex(base*math.Cos(mphi), base*math.Sin(mphi))
	}
	s := parity(h.absM)
	return complex(s*base*math.Cos(mphi), -s*base*math.Sin(mphi))
}

// complexHarmonic is Y_l^m(θ, φ) with the Condon–Shortley phase. Negative m
// uses Y_l^{-m} = (-1)^m conj(Y_l^m).
func complexHarmonic(l, m int, theta, phi float64) complex128 {
	absM := m
	if absM < 0 {
		absM = -absM
	}
	norm := math.Sqrt(float64(2*l+1) / (4 * math.Pi) * factorial(l-absM) / factorial(l+absM))
	y := complex(norm*AssociatedLegendre(l, absM, math.Cos(theta)), 0) * cmplx.Exp(complex(0, float64(absM)*phi))
	if m < 0 {
		return complex(parity(absM), 0) * cmplx.Conj(y)
	}
	return y
}

// SphericalHarmonic evaluates Y_l^m(θ, φ), θ measured from +z and φ from +x.
// With realForm and m != 0 the result is converted to the real orthonormal
// basis and returned with a zero imaginary part:
//
//	m > 0: (Y_{l,m} + (-1)^m conj(Y_{l,-m})) / √2
//	m < 0: (Y_{l,m} - (-1)^|m| Y_{l,|m|}) / (i√2)
func SphericalHarmonic(l, m int, theta, phi float64, realForm bool) (complex128, error) {
	if l < 0 || m < -l || m > l {
		return 0, fmt.Errorf("%w: spherical harmonic needs |m| <= l, got l=%d, m=%d", quantum.ErrInvalidQuantumNumbers, l, m)
	}
	y := complexHarmonic(l, m, theta, phi)
	if !realForm || m == 0 {
		return y, nil
	}
	if m > 0 {
		yNeg := complexHarmonic(l, -m, theta, phi)
		v := (y + complex(parity(m), 0)*cmplx.Conj(yNeg)) / complex(math.Sqrt2, 0)
		return complex(real(v), 0), nil
	}
	// Combine with Y_l^|m| itself. Using its conjugate here cancels to zero
	// for every m < 0 and 2py would vanish.
	yPos := complexHarmonic(l, -m, theta, phi)
	v := (y - complex(parity(-m), 0)*yPos) / complex(0, math.Sqrt2)
	return complex(real(v), 0), nil
}
