// Package quantum holds the quantum-number domain rules, orbital lookup tables,
// the named-state, basis and gate vocabularies, and fixed gate matrices.
package quantum

import "fmt"

// MaxPrincipal is the largest principal quantum number the engine supports.
const MaxPrincipal = 7

// QuantumNumbers identifies a hydrogen orbital by its principal (N),
// azimuthal (L) and magnetic (M) indices. It is comparable and used as a
// map key wherever orbitals are referenced.
type QuantumNumbers struct {
	N int `json:"n"`
	L int `json:"l"`
	M int `json:"m"`
}

// New validates and returns quantum numbers.
func New(n, l, m int) (QuantumNumbers, error) {
	if err := Validate(n, l, m); err != nil {
		return QuantumNumbers{}, err
	}
	return QuantumNumbers{N: n, L: l, M: m}, nil
}

// Orbitals referenced by the basis maps and named states.
var (
	Orbital1s   = QuantumNumbers{N: 1, L: 0, M: 0}
	Orbital2s   = QuantumNumbers{N: 2, L: 0, M: 0}
	Orbital2px  = QuantumNumbers{N: 2, L: 1, M: 1}
	Orbital2py  = QuantumNumbers{N: 2, L: 1, M: -1}
	Orbital2pz  = QuantumNumbers{N: 2, L: 1, M: 0}
	Orbital3dz2 = QuantumNumbers{N: 3, L: 2, M: 0}
)

// Validate checks n >= 1, 0 <= l < n, |m| <= l and n <= MaxPrincipal.
// Values are never clamped.
func Validate(n, l, m int) error {
	if n < 1 {
		return fmt.Errorf("%w: principal quantum number n must be positive, got %d", ErrInvalidQuantumNumbers, n)
	}
	if l < 0 || l >= n {
		return fmt.Errorf("%w: azimuthal quantum number must satisfy 0 <= l < n, got l=%d, n=%d", ErrInvalidQuantumNumbers, l, n)
	}
	if m < -l || m > l {
		return fmt.Errorf("%w: magnetic quantum number must satisfy |m| <= l, got m=%d, l=%d", ErrInvalidQuantumNumbers, m, l)
	}
	if n > MaxPrincipal {
		return fmt.Errorf("%w: n=%d exceeds maximum supported value %d", ErrInvalidQuantumNumbers, n, MaxPrincipal)
	}
	return nil
}

// Validate re-checks a value that may have been built as a struct literal.
func (q QuantumNumbers) Validate() error {
	return Validate(q.N, q.L, q.M)
}

// Less orders by n, then l, then m.
func (q QuantumNumbers) Less(o QuantumNumbers) bool {
	if q.N != o.N {
		return q.N < o.N
	}
	if q.L != o.L {
		return q.L < o.L
	}
	return q.M < o.M
}

// Name returns the orbital name including the lobe suffix, e.g. "2px" or "3dz²".
func (q QuantumNumbers) Name() string {
	return OrbitalNameWithM(q.N, q.L, q.M)
}

func (q QuantumNumbers) String() string {
	return fmt.Sprintf("(%d,%d,%d)", q.N, q.L, q.M)
}
