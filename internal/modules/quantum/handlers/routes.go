package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all quantum routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/quantum", func(r chi.Router) {
		// States and gates
		r.Post("/state/analyze", h.HandleAnalyzeState)
		r.Post("/state/gates", h.HandleApplyGates)
		r.Get("/named-states", h.HandleGetNamedStates)
		r.Get("/orbitals/{n}/{l}/{m}", h.HandleGetOrbital)

		// Sampling and meshes
		r.Post("/density/slice", h.HandleDensitySlice)
		r.Post("/shells", h.HandleShells)
		r.Post("/interference", h.HandleInterference)

		// Background verification
		r.Post("/verify/normalization", h.HandleVerifyNormalization)
		r.Post("/verify/orthogonality", h.HandleVerifyOrthogonality)
		r.Get("/verify", h.HandleListVerifications)
		r.Get("/verify/{id}", h.HandleGetVerification)
	})
}
