// Package wavefunction evaluates hydrogen orbitals: the radial function, the
// spherical harmonics, their product on Cartesian points and lattices, and the
// numerical normalization/orthogonality checks.
package wavefunction

import (
	"fmt"
	"math"

	"github.com/jappenzeller/SYSTEM/internal/modules/quantum"
)

// GeneralizedLaguerre evaluates L_k^alpha(x) by the three-term recurrence.
func GeneralizedLaguerre(k int, alpha, x float64) float64 {
	if k < 0 {
		return 0
	}
	prev := 1.0
	if k == 0 {
		return prev
	}
	cur := 1 + alpha - x
	for i := 1; i < k; i++ {
		fi := float64(i)
		next := ((2*fi+1+alpha-x)*cur - (fi+alpha)*prev) / (fi + 1)
		prev, cur = cur, next
	}
	return cur
}

func factorial(k int) float64 {
	f := 1.0
	for i := 2; i <= k; i++ {
		f *= float64(i)
	}
	return f
}

// radial holds the per-(n, l) constants of R_nl.
type radial struct {
	n, l  int
	norm  float64
	k     int
	alpha float64
}

func newRadial(n, l int) (radial, error) {
	if err := quantum.Validate(n, l, 0); err != nil {
		return radial{}, err
	}
	fn := float64(n)
	norm := math.Sqrt(math.Pow(2/fn, 3) * factorial(n-l-1) / (2 * fn * factorial(n+l)))
	return radial{n: n, l: l, norm: norm, k: n - l - 1, alpha: float64(2*l + 1)}, nil
}

// at returns R_nl(r). The origin is handled explicitly: R is 0 for l > 0 and
// the normalization constant for l = 0.
func (rf radial) at(r float64) float64 {
	if r <= 0 {
		if rf.l > 0 {
			return 0
		}
		return rf.norm
	}
	rho := 2 * r / float64(rf.n)
	return rf.norm * math.Exp(-rho/2) * math.Pow(rho, float64(rf.l)) * GeneralizedLaguerre(rf.k, rf.alpha, rho)
}

// RadialNormalization returns N = sqrt((2/n)³ (n-l-1)! / (2n (n+l)!)), which
// is also R_n0(0).
func RadialNormalization(n, l int) (float64, error) {
	rf, err := newRadial(n, l)
	if err != nil {
		return 0, err
	}
	return rf.norm, nil
}

// Radial evaluates the normalized radial function R_nl at r Bohr radii.
func Radial(n, l int, r float64) (float64, error) {
	rf, err := newRadial(n, l)
	if err != nil {
		return 0, err
	}
	return rf.at(r), nil
}

// RadialInto evaluates R_nl for every radius in rs and writes the results to dst.
func RadialInto(dst, rs []float64, n, l int) error {
	if len(dst) != len(rs) {
		return fmt.Errorf("radial: destination length %d does not match input length %d", len(dst), len(rs))
	}
	rf, err := newRadial(n, l)
	if err != nil {
		return err
	}
	for i, r := range rs {
		dst[i] = rf.at(r)
	}
	return nil
}
