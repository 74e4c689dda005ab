package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jappenzeller/SYSTEM/internal/modules/bloch"
	"github.com/jappenzeller/SYSTEM/internal/modules/orbitalstate"
	"github.com/jappenzeller/SYSTEM/internal/modules/quantum"
	"github.com/jappenzeller/SYSTEM/internal/modules/wavefunction"
)

// HandleAnalyzeState handles POST /api/quantum/state/analyze
func (h *Handler) HandleAnalyzeState(w http.ResponseWriter, r *http.Request) {
	var req StateRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	s, err := h.newState(req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeData(w, http.StatusOK, analysisDTO(s))
}

// HandleApplyGates handles POST /api/quantum/state/gates
func (h *Handler) HandleApplyGates(w http.ResponseWriter, r *http.Request) {
	var req GatesRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	// Parse everything before touching the state so a bad gate rejects the
	// whole sequence.
	gates := make([]quantum.Gate, 0, len(req.Gates))
	for _, id := range req.Gates {
		g, err := quantum.ParseGate(id)
		if err != nil {
			h.writeError(w, err)
			return
		}
		gates = append(gates, g)
	}

	s, err := h.newState(req.StateRequest)
	if err != nil {
		h.writeError(w, err)
		return
	}
	before := stateDTO(s)

	applied := make([]string, 0, len(gates))
	for _, g := range gates {
		if err := s.ApplyGate(g); err != nil {
			h.writeError(w, err)
			return
		}
		applied = append(applied, g.String())
	}

	h.writeData(w, http.StatusOK, map[string]interface{}{
		"initial": before,
		"gates":   applied,
		"final":   stateDTO(s),
	})
}

// HandleGetNamedStates handles GET /api/quantum/named-states
func (h *Handler) HandleGetNamedStates(w http.ResponseWriter, r *http.Request) {
	pure := quantum.PureStates()
	states := make([]map[string]interface{}, 0, len(pure))
	for _, p := range pure {
		s, err := orbitalstate.New(p.Theta, p.Phi, quantum.BasisSP)
		if err != nil {
			h.writeError(w, err)
			return
		}
		states = append(states, map[string]interface{}{
			"name":          p.Name,
			"theta":         p.Theta,
			"phi":           p.Phi,
			"orbital":       p.Orbital,
			"orbital_name":  p.OrbitalName,
			"label":         s.Label().String(),
			"bloch_vector":  vec(s.BlochVector()),
			"orbital_color": quantum.OrbitalColor(p.Orbital.L),
		})
	}

	bell := make(map[string][]CoefficientDTO)
	for _, b := range []bloch.BellState{bloch.PhiPlus, bloch.PhiMinus, bloch.PsiPlus, bloch.PsiMinus} {
		c, err := bloch.BellLikeState(b)
		if err != nil {
			h.writeError(w, err)
			return
		}
		bell[string(b)] = coefficientDTOs(c)
	}

	h.writeData(w, http.StatusOK, map[string]interface{}{
		"states":      states,
		"bell_states": bell,
		"gates":       quantum.NamedGates(),
		"bases":       []quantum.Basis{quantum.BasisSP, quantum.BasisPP, quantum.BasisSD},
	})
}

// HandleGetOrbital handles GET /api/quantum/orbitals/{n}/{l}/{m}
func (h *Handler) HandleGetOrbital(w http.ResponseWriter, r *http.Request) {
	var nums [3]int
	for i, name := range []string{"n", "l", "m"} {
		v, err := strconv.Atoi(chi.URLParam(r, name))
		if err != nil {
			h.writeError(w, fmt.Errorf("%w: %s must be an integer", quantum.ErrInvalidQuantumNumbers, name))
			return
		}
		nums[i] = v
	}

	qn, err := quantum.New(nums[0], nums[1], nums[2])
	if err != nil {
		h.writeError(w, err)
		return
	}
	norm, err := wavefunction.RadialNormalization(qn.N, qn.L)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeData(w, http.StatusOK, map[string]interface{}{
		"orbital":              qn,
		"name":                 qn.Name(),
		"shell_name":           quantum.OrbitalName(qn.N, qn.L),
		"letter":               quantum.OrbitalLetter(qn.L),
		"extent":               quantum.OrbitalExtent(qn.N),
		"max_radius":           wavefunction.OrbitalMaximumRadius(qn),
		"energy_ev":            quantum.EnergyLevel(qn.N),
		"radial_normalization": norm,
		"color":                quantum.OrbitalColor(qn.L),
	})
}
