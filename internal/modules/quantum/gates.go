package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Matrix2 is a 2x2 complex matrix stored by value.
type Matrix2 [2][2]complex128

// Apply left-multiplies the column vector (a, b).
func (m Matrix2) Apply(a, b complex128) (complex128, complex128) {
	return m[0][0]*a + m[0][1]*b, m[1][0]*a + m[1][1]*b
}

// Mul returns m·o.
func (m Matrix2) Mul(o Matrix2) Matrix2 {
	var out Matrix2
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			out[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j]
		}
	}
	return out
}

// Adjoint returns the conjugate transpose.
func (m Matrix2) Adjoint() Matrix2 {
	return Matrix2{
		{cmplx.Conj(m[0][0]), cmplx.Conj(m[1][0])},
		{cmplx.Conj(m[0][1]), cmplx.Conj(m[1][1])},
	}
}

// IsUnitary reports whether m·m† equals the identity within tol.
func (m Matrix2) IsUnitary(tol float64) bool {
	p := m.Mul(m.Adjoint())
	return cmplx.Abs(p[0][0]-1) <= tol && cmplx.Abs(p[1][1]-1) <= tol &&
		cmplx.Abs(p[0][1]) <= tol && cmplx.Abs(p[1][0]) <= tol
}

// Dense converts m to a gonum complex matrix.
func (m Matrix2) Dense() *mat.CDense {
	return mat.NewCDense(2, 2, []complex128{m[0][0], m[0][1], m[1][0], m[1][1]})
}

// UnitaryTolerance bounds the deviation from unitarity accepted for explicit gates.
const UnitaryTolerance = 1e-9

// Gate is a single-qubit operation. The implementations are NamedGate,
// RotationX, RotationY, RotationZ and ExplicitGate.
type Gate interface {
	Matrix() Matrix2
	String() string
}

// NamedGate is one of the fixed gates X, Y, Z, H, S, T, I.
type NamedGate string

const (
	GateX NamedGate = "X"
	GateY NamedGate = "Y"
	GateZ NamedGate = "Z"
	GateH NamedGate = "H"
	GateS NamedGate = "S"
	GateT NamedGate = "T"
	GateI NamedGate = "I"
)

var namedGateMatrices = func() map[NamedGate]Matrix2 {
	invSqrt2 := complex(1/math.Sqrt2, 0)
	return map[NamedGate]Matrix2{
		GateX: {{0, 1}, {1, 0}},
		GateY: {{0, -1i}, {1i, 0}},
		GateZ: {{1, 0}, {0, -1}},
		GateH: {{invSqrt2, invSqrt2}, {invSqrt2, -invSqrt2}},
		GateS: {{1, 0}, {0, 1i}},
		GateT: {{1, 0}, {0, cmplx.Exp(complex(0, math.Pi/4))}},
		GateI: {{1, 0}, {0, 1}},
	}
}()

// NamedGates lists the fixed gate vocabulary.
func NamedGates() []NamedGate {
	return []NamedGate{GateX, GateY, GateZ, GateH, GateS, GateT, GateI}
}

// Matrix returns the fixed matrix; unknown names yield the zero matrix, which
// ParseGate never produces.
func (g NamedGate) Matrix() Matrix2 { return namedGateMatrices[g] }

func (g NamedGate) String() string { return string(g) }

// RotationX rotates about the Bloch X axis by the given angle in radians.
type RotationX float64

// RotationY rotates about the Bloch Y axis by the given angle in radians.
type RotationY float64

// RotationZ rotates about the Bloch Z axis by the given angle in radians.
type RotationZ float64

func (g RotationX) Matrix() Matrix2 {
	c, s := math.Cos(float64(g)/2), math.Sin(float64(g)/2)
	return Matrix2{
		{complex(c, 0), complex(0, -s)},
		{complex(0, -s), complex(c, 0)},
	}
}

func (g RotationY) Matrix() Matrix2 {
	c, s := math.Cos(float64(g)/2), math.Sin(float64(g)/2)
	return Matrix2{
		{complex(c, 0), complex(-s, 0)},
		{complex(s, 0), complex(c, 0)},
	}
}

func (g RotationZ) Matrix() Matrix2 {
	half := float64(g) / 2
	return Matrix2{
		{cmplx.Exp(complex(0, -half)), 0},
		{0, cmplx.Exp(complex(0, half))},
	}
}

func (g RotationX) String() string { return formatRotation("RX", float64(g)) }
func (g RotationY) String() string { return formatRotation("RY", float64(g)) }
func (g RotationZ) String() string { return formatRotation("RZ", float64(g)) }

func formatRotation(prefix string, angle float64) string {
	return prefix + "(" + strconv.FormatFloat(angle, 'g', -1, 64) + ")"
}

// ExplicitGate wraps a caller-supplied unitary.
type ExplicitGate struct {
	m Matrix2
}

// NewExplicitGate accepts any 2x2 complex matrix and rejects non-unitary input.
func NewExplicitGate(m mat.CMatrix) (ExplicitGate, error) {
	r, c := m.Dims()
	if r != 2 || c != 2 {
		return ExplicitGate{}, fmt.Errorf("%w: got %dx%d", ErrNonUnitary, r, c)
	}
	var mm Matrix2
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			mm[i][j] = m.At(i, j)
		}
	}
	if !mm.IsUnitary(UnitaryTolerance) {
		return ExplicitGate{}, fmt.Errorf("%w: %v", ErrNonUnitary, mm)
	}
	return ExplicitGate{m: mm}, nil
}

func (g ExplicitGate) Matrix() Matrix2 { return g.m }

func (g ExplicitGate) String() string { return fmt.Sprintf("U%v", g.m) }

// ParseGate turns a gate identifier ("H", "RX(1.5708)") into a Gate. The
// result is parsed once; downstream code works with the typed value.
func ParseGate(s string) (Gate, error) {
	id := strings.TrimSpace(s)
	upper := strings.ToUpper(id)
	for _, prefix := range []string{"RX(", "RY(", "RZ("} {
		if !strings.HasPrefix(upper, prefix) {
			continue
		}
		if !strings.HasSuffix(id, ")") {
			return nil, fmt.Errorf("%w: %q is missing a closing parenthesis", ErrUnknownGate, s)
		}
		angle, err := strconv.ParseFloat(strings.TrimSpace(id[len(prefix):len(id)-1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q has a non-numeric angle: %v", ErrUnknownGate, s, err)
		}
		switch prefix {
		case "RX(":
			return RotationX(angle), nil
		case "RY(":
			return RotationY(angle), nil
		default:
			return RotationZ(angle), nil
		}
	}
	g := NamedGate(id)
	if _, ok := namedGateMatrices[g]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGate, s)
	}
	return g, nil
}

// Rotation builds a rotation gate for axis "X", "Y" or "Z" (case-insensitive).
func Rotation(axis string, angle float64) (Gate, error) {
	switch strings.ToUpper(strings.TrimSpace(axis)) {
	case "X":
		return RotationX(angle), nil
	case "Y":
		return RotationY(angle), nil
	case "Z":
		return RotationZ(angle), nil
	}
	return nil, fmt.Errorf("%w: rotation axis %q", ErrUnknownAxis, axis)
}
