package quantum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrbitalNameWithM(t *testing.T) {
	tests := []struct {
		n, l, m int
		want    string
	}{
		{1, 0, 0, "1s"},
		{2, 1, 1, "2px"},
		{2, 1, -1, "2py"},
		{2, 1, 0, "2pz"},
		{3, 2, 0, "3dz²"},
		{3, 2, 1, "3dxz"},
		{3, 2, -1, "3dyz"},
		{3, 2, 2, "3dx²-y²"},
		{3, 2, -2, "3dxy"},
		{4, 3, 0, "4f"},
		{4, 3, -2, "4fm-2"},
		{7, 6, 5, "7im5"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, OrbitalNameWithM(tt.n, tt.l, tt.m))
		})
	}

	assert.Equal(t, "3d", OrbitalName(3, 2))
	assert.Equal(t, "8l7", OrbitalName(8, 7))
}

func TestOrbitalExtent(t *testing.T) {
	for n := 1; n <= MaxPrincipal; n++ {
		assert.Equal(t, 10*float64(n), OrbitalExtent(n))
	}
	assert.Equal(t, 90.0, OrbitalExtent(9))
}

func TestOrbitalColor(t *testing.T) {
	assert.Equal(t, RGBA{0.2, 0.6, 1.0, 0.7}, OrbitalColor(0))
	assert.Equal(t, RGBA{1.0, 0.5, 0.2, 0.7}, OrbitalColor(1))
	assert.Equal(t, NeutralColor, OrbitalColor(7))
	assert.Equal(t, NeutralColor, OrbitalColor(-1))

	assert.Equal(t, PhasePositiveColor, PhaseColor(0))
	assert.Equal(t, PhaseNegativeColor, PhaseColor(-0.1))
}

func TestDefaultIsoFractions_ReturnsCopy(t *testing.T) {
	a := DefaultIsoFractions()
	a[0] = 42
	assert.Equal(t, 0.01, DefaultIsoFractions()[0])
}

func TestEnergyLevel(t *testing.T) {
	assert.InDelta(t, -RydbergEnergy, EnergyLevel(1), 1e-12)
	assert.InDelta(t, -RydbergEnergy/4, EnergyLevel(2), 1e-12)
}

func TestLookupPureState(t *testing.T) {
	tests := []struct {
		name  string
		theta float64
		phi   float64
	}{
		{"|0⟩", 0, 0},
		{"|1⟩", math.Pi, 0},
		{"|+⟩", math.Pi / 2, 0},
		{"|-⟩", math.Pi / 2, math.Pi},
		{"|+i⟩", math.Pi / 2, math.Pi / 2},
		{"|-i⟩", math.Pi / 2, 3 * math.Pi / 2},
		{"|+i>", math.Pi / 2, math.Pi / 2},
		{"1", math.Pi, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := LookupPureState(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.theta, s.Theta)
			assert.Equal(t, tt.phi, s.Phi)
		})
	}

	_, err := LookupPureState("|2⟩")
	assert.ErrorIs(t, err, ErrUnknownNamedState)
}

func TestPureStateOrbital(t *testing.T) {
	qn, err := PureStateOrbital("|1⟩")
	require.NoError(t, err)
	assert.Equal(t, Orbital2s, qn)

	qn, err = PureStateOrbital("+")
	require.NoError(t, err)
	assert.Equal(t, Orbital2px, qn)

	_, err = PureStateOrbital("bogus")
	assert.ErrorIs(t, err, ErrUnknownNamedState)
}

func TestPureStates_OrbitalNameColumn(t *testing.T) {
	byName := map[NamedState]PureState{}
	for _, s := range PureStates() {
		byName[s.Name] = s
	}

	assert.Equal(t, Orbital2py, byName[StateMinus].Orbital)
	assert.Equal(t, "2px*", byName[StateMinus].OrbitalName)
	assert.Equal(t, Orbital2pz, byName[StatePlusI].Orbital)
	assert.Equal(t, "2py", byName[StatePlusI].OrbitalName)
	assert.Equal(t, Orbital2pz, byName[StateMinusI].Orbital)
	assert.Equal(t, "2py*", byName[StateMinusI].OrbitalName)
}

func TestParseVocabularies(t *testing.T) {
	b, err := ParseBasis("PP")
	require.NoError(t, err)
	assert.Equal(t, BasisPP, b)
	_, err = ParseBasis("spd")
	assert.ErrorIs(t, err, ErrUnknownBasis)

	p, err := ParsePlane("xz")
	require.NoError(t, err)
	assert.Equal(t, PlaneXZ, p)
	_, err = ParsePlane("xx")
	assert.ErrorIs(t, err, ErrUnknownPlane)

	a, err := ParseAxis("Y")
	require.NoError(t, err)
	assert.Equal(t, AxisY, a)
	_, err = ParseAxis("w")
	assert.ErrorIs(t, err, ErrUnknownAxis)
}
