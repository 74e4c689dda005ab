package handlers

import (
	"math/cmplx"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jappenzeller/SYSTEM/internal/modules/bloch"
	"github.com/jappenzeller/SYSTEM/internal/modules/orbitalstate"
	"github.com/jappenzeller/SYSTEM/internal/modules/quantum"
	"github.com/jappenzeller/SYSTEM/internal/modules/shells"
)

// StateRequest selects a qubit state. State (a named state such as "|+⟩")
// takes precedence over the angles. Basis defaults to sp.
type StateRequest struct {
	Theta float64 `json:"theta"`
	Phi   float64 `json:"phi"`
	Basis string  `json:"basis"`
	State string  `json:"state,omitempty"`
}

// GatesRequest applies gates in order to a state.
type GatesRequest struct {
	StateRequest
	Gates []string `json:"gates"`
}

// SliceRequest asks for a 2D density cross-section.
type SliceRequest struct {
	StateRequest
	Plane      string  `json:"plane"`
	Position   float64 `json:"position"`
	Resolution int     `json:"resolution"`
	Extent     float64 `json:"extent"`
}

// ShellsRequest asks for nested isosurface shells. UseCache defaults to true.
type ShellsRequest struct {
	StateRequest
	Resolution int       `json:"resolution"`
	Extent     float64   `json:"extent"`
	Fractions  []float64 `json:"fractions"`
	UseCache   *bool     `json:"use_cache,omitempty"`
}

// InterferenceRequest asks for the density profile along an axis.
type InterferenceRequest struct {
	StateRequest
	Axis       string  `json:"axis"`
	Extent     float64 `json:"extent"`
	Resolution int     `json:"resolution"`
}

// NormalizationRequest submits a normalization check for one orbital.
type NormalizationRequest struct {
	quantum.QuantumNumbers
	RMax   float64 `json:"r_max"`
	Points int     `json:"points"`
}

// OrthogonalityRequest submits an overlap check for two orbitals.
type OrthogonalityRequest struct {
	A      quantum.QuantumNumbers `json:"a"`
	B      quantum.QuantumNumbers `json:"b"`
	RMax   float64                `json:"r_max"`
	Points int                    `json:"points"`
}

// ComplexDTO is a JSON form of a complex amplitude.
type ComplexDTO struct {
	Re        float64 `json:"re"`
	Im        float64 `json:"im"`
	Magnitude float64 `json:"magnitude"`
	Phase     float64 `json:"phase"`
}

func complexDTO(c complex128) ComplexDTO {
	return ComplexDTO{Re: real(c), Im: imag(c), Magnitude: cmplx.Abs(c), Phase: cmplx.Phase(c)}
}

// CoefficientDTO is one orbital of a superposition.
type CoefficientDTO struct {
	Orbital     quantum.QuantumNumbers `json:"orbital"`
	Name        string                 `json:"name"`
	Amplitude   ComplexDTO             `json:"amplitude"`
	Probability float64                `json:"probability"`
}

// coefficientDTOs lists coefficients in orbital order.
func coefficientDTOs(c bloch.Coefficients) []CoefficientDTO {
	keys := c.Keys()
	out := make([]CoefficientDTO, 0, len(keys))
	for _, qn := range keys {
		a := c[qn]
		m := cmplx.Abs(a)
		out = append(out, CoefficientDTO{
			Orbital:     qn,
			Name:        qn.Name(),
			Amplitude:   complexDTO(a),
			Probability: m * m,
		})
	}
	return out
}

func vec(v r3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// StateDTO is the full description of a state.
type StateDTO struct {
	Theta               float64                `json:"theta"`
	Phi                 float64                `json:"phi"`
	Basis               quantum.Basis          `json:"basis"`
	Label               string                 `json:"label"`
	Cardinal            bool                   `json:"cardinal"`
	BlochVector         [3]float64             `json:"bloch_vector"`
	Alpha               ComplexDTO             `json:"alpha"`
	Beta                ComplexDTO             `json:"beta"`
	Coefficients        []CoefficientDTO       `json:"coefficients"`
	DominantOrbital     quantum.QuantumNumbers `json:"dominant_orbital"`
	DominantName        string                 `json:"dominant_name"`
	DominantProbability float64                `json:"dominant_probability"`
	Color               quantum.RGBA           `json:"color"`
}

func stateDTO(s *orbitalstate.State) StateDTO {
	info := s.VisualizationInfo()
	v := s.StateVector()
	return StateDTO{
		Theta:               s.Theta(),
		Phi:                 s.Phi(),
		Basis:               s.Basis(),
		Label:               info.Label.String(),
		Cardinal:            info.Label.IsCardinal(),
		BlochVector:         vec(info.BlochVector),
		Alpha:               complexDTO(v.Alpha),
		Beta:                complexDTO(v.Beta),
		Coefficients:        coefficientDTOs(s.Coefficients()),
		DominantOrbital:     info.DominantOrbital,
		DominantName:        info.OrbitalName,
		DominantProbability: info.DominantProbability,
		Color:               info.Color,
	}
}

// AnalysisDTO adds the superposition analysis to a state.
type AnalysisDTO struct {
	StateDTO
	Purity     float64     `json:"purity"`
	Normalized bool        `json:"normalized"`
	Coherence  *ComplexDTO `json:"coherence,omitempty"`
}

func analysisDTO(s *orbitalstate.State) AnalysisDTO {
	a := s.Analyze()
	out := AnalysisDTO{
		StateDTO:   stateDTO(s),
		Purity:     s.Purity(),
		Normalized: a.Normalized,
	}
	if a.Coherence != nil {
		c := complexDTO(*a.Coherence)
		out.Coherence = &c
	}
	return out
}

// ShellDTO is one mesh with flattened vertex coordinates.
type ShellDTO struct {
	Fraction  float64      `json:"fraction"`
	Threshold float64      `json:"threshold"`
	Vertices  [][3]float64 `json:"vertices"`
	Faces     [][3]uint32  `json:"faces"`
	Color     quantum.RGBA `json:"color"`
}

func shellDTOs(in []shells.Shell) []ShellDTO {
	out := make([]ShellDTO, len(in))
	for i, s := range in {
		verts := make([][3]float64, len(s.Vertices))
		for j, v := range s.Vertices {
			verts[j] = vec(v)
		}
		out[i] = ShellDTO{
			Fraction:  s.Fraction,
			Threshold: s.Threshold,
			Vertices:  verts,
			Faces:     s.Faces,
			Color:     s.Color,
		}
	}
	return out
}

