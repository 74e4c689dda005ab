package handlers

import (
	"net/http"

	"github.com/jappenzeller/SYSTEM/internal/modules/bloch"
	"github.com/jappenzeller/SYSTEM/internal/modules/orbitalstate"
	"github.com/jappenzeller/SYSTEM/internal/modules/quantum"
)

// HandleDensitySlice handles POST /api/quantum/density/slice
func (h *Handler) HandleDensitySlice(w http.ResponseWriter, r *http.Request) {
	var req SliceRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	plane, err := quantum.ParsePlane(req.Plane)
	if err != nil {
		h.writeError(w, err)
		return
	}
	// A slice holds resolution² points, so the memory guard is skipped.
	res, err := h.boundedResolution(req.Resolution)
	if err != nil {
		h.writeError(w, err)
		return
	}
	s, err := h.newState(req.StateRequest)
	if err != nil {
		h.writeError(w, err)
		return
	}

	slice, err := s.CalculateSlice(plane, req.Position, orbitalstate.GridOptions{Resolution: res, Extent: req.Extent})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeData(w, http.StatusOK, map[string]interface{}{
		"plane":    slice.Plane,
		"position": slice.Position,
		"axis":     slice.Axis,
		"density":  slice.Density,
		"max":      slice.Max(),
		"state":    stateDTO(s),
	})
}

// HandleShells handles POST /api/quantum/shells
func (h *Handler) HandleShells(w http.ResponseWriter, r *http.Request) {
	var req ShellsRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	res, err := h.resolution(req.Resolution)
	if err != nil {
		h.writeError(w, err)
		return
	}
	s, err := h.newState(req.StateRequest)
	if err != nil {
		h.writeError(w, err)
		return
	}

	fractions := req.Fractions
	if len(fractions) == 0 {
		fractions = h.limits.IsoFractions
	}
	opts := orbitalstate.GridOptions{Resolution: res, Extent: req.Extent, UseCache: true}
	if req.UseCache != nil {
		opts.UseCache = *req.UseCache
	}

	grid, hit, err := h.cache.DensityGrid(s, opts)
	if err != nil {
		h.writeError(w, err)
		return
	}
	dominant, _ := s.DominantOrbital()
	built, err := h.builder.FromGrid(grid, dominant, fractions)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.log.Debug().
		Int("resolution", res).
		Bool("cache_hit", hit).
		Int("shells", len(built)).
		Msg("Shells served")

	h.writeData(w, http.StatusOK, map[string]interface{}{
		"resolution":  grid.Resolution,
		"extent":      grid.Extent,
		"max_density": grid.Max(),
		"cache_hit":   hit,
		"shells":      shellDTOs(built),
		"state":       stateDTO(s),
	})
}

// HandleInterference handles POST /api/quantum/interference
func (h *Handler) HandleInterference(w http.ResponseWriter, r *http.Request) {
	var req InterferenceRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	axis, err := quantum.ParseAxis(req.Axis)
	if err != nil {
		h.writeError(w, err)
		return
	}
	s, err := h.newState(req.StateRequest)
	if err != nil {
		h.writeError(w, err)
		return
	}
	extent := req.Extent
	if extent == 0 {
		extent = quantum.OrbitalExtent(s.Coefficients().MaxN())
	}
	res, err := h.boundedResolution(req.Resolution)
	if err != nil {
		h.writeError(w, err)
		return
	}

	positions, density, err := bloch.InterferenceProfile(s.Theta(), s.Phi(), axis, extent, res, s.Basis())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeData(w, http.StatusOK, map[string]interface{}{
		"axis":      axis,
		"positions": positions,
		"density":   density,
	})
}
