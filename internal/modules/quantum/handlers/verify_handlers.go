package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jappenzeller/SYSTEM/internal/modules/verification"
)

// HandleVerifyNormalization handles POST /api/quantum/verify/normalization
func (h *Handler) HandleVerifyNormalization(w http.ResponseWriter, r *http.Request) {
	var req NormalizationRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	h.submit(w, verification.KindNormalization, verification.Request{
		Orbital: req.QuantumNumbers,
		RMax:    req.RMax,
		Points:  req.Points,
	})
}

// HandleVerifyOrthogonality handles POST /api/quantum/verify/orthogonality
func (h *Handler) HandleVerifyOrthogonality(w http.ResponseWriter, r *http.Request) {
	var req OrthogonalityRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	other := req.B
	h.submit(w, verification.KindOrthogonality, verification.Request{
		Orbital: req.A,
		Other:   &other,
		RMax:    req.RMax,
		Points:  req.Points,
	})
}

func (h *Handler) submit(w http.ResponseWriter, kind verification.Kind, req verification.Request) {
	id, err := h.runner.Submit(kind, req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	job, err := h.runner.Get(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Location", "/api/quantum/verify/"+id)
	h.writeData(w, http.StatusAccepted, job)
}

// HandleGetVerification handles GET /api/quantum/verify/{id}
func (h *Handler) HandleGetVerification(w http.ResponseWriter, r *http.Request) {
	job, err := h.runner.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, job)
}

// HandleListVerifications handles GET /api/quantum/verify
func (h *Handler) HandleListVerifications(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, http.StatusOK, h.runner.List())
}
