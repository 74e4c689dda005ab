package quantum

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		n, l, m int
		wantErr bool
	}{
		{"1s", 1, 0, 0, false},
		{"2px", 2, 1, 1, false},
		{"3d x²-y²", 3, 2, -2, false},
		{"7i", 7, 6, 6, false},
		{"n zero", 0, 0, 0, true},
		{"negative n", -1, 0, 0, true},
		{"l equals n", 2, 2, 0, true},
		{"negative l", 2, -1, 0, true},
		{"m exceeds l", 2, 1, 2, true},
		{"m below -l", 3, 1, -2, true},
		{"n above max", 8, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.n, tt.l, tt.m)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidQuantumNumbers))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNew_RejectsInsteadOfClamping(t *testing.T) {
	qn, err := New(2, 1, 3)
	assert.ErrorIs(t, err, ErrInvalidQuantumNumbers)
	assert.Equal(t, QuantumNumbers{}, qn)

	qn, err = New(3, 2, -1)
	require.NoError(t, err)
	assert.Equal(t, QuantumNumbers{N: 3, L: 2, M: -1}, qn)
}

func TestQuantumNumbers_MapKey(t *testing.T) {
	m := map[QuantumNumbers]complex128{
		{N: 1, L: 0, M: 0}: 1,
	}
	m[QuantumNumbers{N: 1, L: 0, M: 0}] += 1i
	assert.Len(t, m, 1)
	assert.Equal(t, complex(1, 1), m[Orbital1s])
}

func TestQuantumNumbers_Less(t *testing.T) {
	assert.True(t, Orbital1s.Less(Orbital2s))
	assert.True(t, Orbital2s.Less(Orbital2py))
	assert.True(t, Orbital2py.Less(Orbital2pz))
	assert.True(t, Orbital2pz.Less(Orbital2px))
	assert.False(t, Orbital2px.Less(Orbital2px))
}
