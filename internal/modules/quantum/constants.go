package quantum

import "math"

// Physical constants (SI unless noted).
const (
	BohrRadius             = 5.29177210903e-11 // m
	FineStructureConstant  = 7.2973525693e-3
	PlanckConstant         = 6.62607015e-34 // J·s
	ReducedPlanckConstant  = PlanckConstant / (2 * math.Pi)
	ElementaryCharge       = 1.602176634e-19 // C
	ElectronMass           = 9.1093837015e-31 // kg
	RydbergEnergy          = 13.605693122994  // eV
	MaxAzimuthalQuantumNum = MaxPrincipal - 1
)

// Grid resolutions (points per axis).
const (
	DefaultGridResolution = 64
	HighResGrid           = 128
	LowResGrid            = 32
)

var defaultIsoFractions = [...]float64{0.01, 0.05, 0.1, 0.2}

// DefaultIsoFractions returns a fresh copy of the default isosurface thresholds,
// expressed as fractions of the maximum density.
func DefaultIsoFractions() []float64 {
	out := make([]float64, len(defaultIsoFractions))
	copy(out, defaultIsoFractions[:])
	return out
}

// EnergyLevel returns the hydrogen bound-state energy -Ry/n² in eV.
func EnergyLevel(n int) float64 {
	return -RydbergEnergy / float64(n*n)
}
