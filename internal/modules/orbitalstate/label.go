package orbitalstate

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jappenzeller/SYSTEM/internal/modules/bloch"
	"github.com/jappenzeller/SYSTEM/internal/modules/quantum"
)

// StateLabel is the result of the cardinal-state classifier.
type StateLabel int

const (
	LabelGeneric StateLabel = iota
	LabelZero
	LabelOne
	LabelPlus
	LabelMinus
	LabelPlusI
	LabelMinusI
)

// Classifier tolerances. The classifier is a heuristic for display and
// recognizes only states close to the six cardinal points.
const (
	// PureAmplitudeTolerance: |α| or |β| above 1 minus this is a basis state.
	PureAmplitudeTolerance = 0.01
	// BalanceTolerance bounds ||α| − |β|| for an equator state.
	BalanceTolerance = 0.01
	// PhaseTolerance bounds the relative phase error on the equator.
	PhaseTolerance = 0.1
)

var labelStrings = map[StateLabel]string{
	LabelGeneric: "α|0⟩ + β|1⟩",
	LabelZero:    string(quantum.StateZero),
	LabelOne:     string(quantum.StateOne),
	LabelPlus:    string(quantum.StatePlus),
	LabelMinus:   string(quantum.StateMinus),
	LabelPlusI:   string(quantum.StatePlusI),
	LabelMinusI:  string(quantum.StateMinusI),
}

func (l StateLabel) String() string {
	if s, ok := labelStrings[l]; ok {
		return s
	}
	return labelStrings[LabelGeneric]
}

// IsCardinal reports whether l names one of the six cardinal states.
func (l StateLabel) IsCardinal() bool {
	return l != LabelGeneric
}

// Classify names the cardinal state v is close to, or LabelGeneric. v is
// expected to be normalized.
func Classify(v bloch.StateVector) StateLabel {
	a, b := cmplx.Abs(v.Alpha), cmplx.Abs(v.Beta)
	switch {
	case a > 1-PureAmplitudeTolerance:
		return LabelZero
	case b > 1-PureAmplitudeTolerance:
		return LabelOne
	case math.Abs(a-b) >= BalanceTolerance:
		return LabelGeneric
	}

	phase := relativePhase(v)
	switch {
	case math.Abs(phase) < PhaseTolerance:
		return LabelPlus
	case math.Pi-math.Abs(phase) < PhaseTolerance:
		return LabelMinus
	case math.Abs(phase-math.Pi/2) < PhaseTolerance:
		return LabelPlusI
	case math.Abs(phase+math.Pi/2) < PhaseTolerance:
		return LabelMinusI
	}
	return LabelGeneric
}

// relativePhase returns arg β − arg α wrapped into (−π, π].
func relativePhase(v bloch.StateVector) float64 {
	d := cmplx.Phase(v.Beta) - cmplx.Phase(v.Alpha)
	d = math.Mod(d, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

// BlochVector returns (sin θ cos φ, sin θ sin φ, cos θ).
func (s *State) BlochVector() r3.Vec {
	st := math.Sin(s.theta)
	return r3.Vec{X: st * math.Cos(s.phi), Y: st * math.Sin(s.phi), Z: math.Cos(s.theta)}
}

// VisualizationInfo summarizes what a renderer needs to label and color the state.
type VisualizationInfo struct {
	OrbitalName         string
	DominantOrbital     quantum.QuantumNumbers
	DominantProbability float64
	Theta               float64
	Phi                 float64
	BlochVector         r3.Vec
	Label               StateLabel
	Probabilities       map[quantum.QuantumNumbers]float64
	Color               quantum.RGBA
}

// VisualizationInfo collects the dominant orbital, label and probabilities.
func (s *State) VisualizationInfo() VisualizationInfo {
	qn, c := s.DominantOrbital()
	m := cmplx.Abs(c)
	return VisualizationInfo{
		OrbitalName:         qn.Name(),
		DominantOrbital:     qn,
		DominantProbability: m * m,
		Theta:               s.theta,
		Phi:                 s.phi,
		BlochVector:         s.BlochVector(),
		Label:               s.Label(),
		Probabilities:       s.Probabilities(),
		Color:               quantum.OrbitalColor(qn.L),
	}
}
