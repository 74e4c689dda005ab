package quantum

import (
	"fmt"
	"math"
	"strings"
)

// NamedState is one of the six cardinal points of the Bloch sphere.
type NamedState string

const (
	StateZero   NamedState = "|0⟩"
	StateOne    NamedState = "|1⟩"
	StatePlus   NamedState = "|+⟩"
	StateMinus  NamedState = "|-⟩"
	StatePlusI  NamedState = "|+i⟩"
	StateMinusI NamedState = "|-i⟩"
)

// PureState describes a named state's Bloch angles and the orbital it is
// drawn as when shown on its own.
type PureState struct {
	Name        NamedState     `json:"name"`
	Theta       float64        `json:"theta"`
	Phi         float64        `json:"phi"`
	Orbital     QuantumNumbers `json:"orbital"`
	OrbitalName string         `json:"orbital_name"`
}

// Orbital and OrbitalName intentionally disagree for |-⟩ (2py, "2px*") and
// |+i⟩ (2pz, "2py"). Clients key on both columns as published.
var pureStates = []PureState{
	{StateZero, 0, 0, Orbital1s, "1s"},
	{StateOne, math.Pi, 0, Orbital2s, "2s"},
	{StatePlus, math.Pi / 2, 0, Orbital2px, "2px"},
	{StateMinus, math.Pi / 2, math.Pi, Orbital2py, "2px*"},
	{StatePlusI, math.Pi / 2, math.Pi / 2, Orbital2pz, "2py"},
	{StateMinusI, math.Pi / 2, 3 * math.Pi / 2, Orbital2pz, "2py*"},
}

// PureStates returns the named-state table in canonical order.
func PureStates() []PureState {
	out := make([]PureState, len(pureStates))
	copy(out, pureStates)
	return out
}

// LookupPureState resolves a named state. The ASCII spellings "|0>", "0",
// "+", "-i" and so on are accepted alongside the ket forms.
func LookupPureState(name string) (PureState, error) {
	key := normalizeStateName(name)
	for _, s := range pureStates {
		if normalizeStateName(string(s.Name)) == key {
			return s, nil
		}
	}
	return PureState{}, fmt.Errorf("%w: %q", ErrUnknownNamedState, name)
}

// PureStateOrbital returns the orbital a named state is drawn as on its own.
func PureStateOrbital(name string) (QuantumNumbers, error) {
	s, err := LookupPureState(name)
	if err != nil {
		return QuantumNumbers{}, err
	}
	return s.Orbital, nil
}

func normalizeStateName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "|")
	s = strings.TrimSuffix(s, "⟩")
	s = strings.TrimSuffix(s, ">")
	return strings.ToLower(s)
}

// Basis selects which orbitals a qubit state is projected onto.
type Basis string

const (
	BasisSP Basis = "sp" // 1s, 2s
	BasisPP Basis = "pp" // 2px, 2py, 2pz
	BasisSD Basis = "sd" // 1s, 3dz²
)

// ParseBasis validates a basis name.
func ParseBasis(s string) (Basis, error) {
	switch b := Basis(strings.ToLower(strings.TrimSpace(s))); b {
	case BasisSP, BasisPP, BasisSD:
		return b, nil
	}
	return "", fmt.Errorf("%w: %q (use sp, pp or sd)", ErrUnknownBasis, s)
}

// Plane is a coordinate plane used for 2D density cross-sections.
type Plane string

const (
	PlaneXY Plane = "xy"
	PlaneXZ Plane = "xz"
	PlaneYZ Plane = "yz"
)

// ParsePlane validates a plane name.
func ParsePlane(s string) (Plane, error) {
	switch p := Plane(strings.ToLower(strings.TrimSpace(s))); p {
	case PlaneXY, PlaneXZ, PlaneYZ:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q (use xy, xz or yz)", ErrUnknownPlane, s)
}

// Axis is a Cartesian axis used for line profiles.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
	AxisZ Axis = "z"
)

// ParseAxis validates an axis name.
func ParseAxis(s string) (Axis, error) {
	switch a := Axis(strings.ToLower(strings.TrimSpace(s))); a {
	case AxisX, AxisY, AxisZ:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q (use x, y or z)", ErrUnknownAxis, s)
}
