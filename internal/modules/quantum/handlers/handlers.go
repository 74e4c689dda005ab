// Package handlers exposes the orbital engine over HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/jappenzeller/SYSTEM/internal/gridcache"
	"github.com/jappenzeller/SYSTEM/internal/modules/bloch"
	"github.com/jappenzeller/SYSTEM/internal/modules/isosurface"
	"github.com/jappenzeller/SYSTEM/internal/modules/orbitalstate"
	"github.com/jappenzeller/SYSTEM/internal/modules/quantum"
	"github.com/jappenzeller/SYSTEM/internal/modules/shells"
	"github.com/jappenzeller/SYSTEM/internal/modules/verification"
	"github.com/jappenzeller/SYSTEM/internal/modules/wavefunction"
)

// ErrResolutionTooLarge is returned by a ResolutionGuard that refuses a lattice.
var ErrResolutionTooLarge = errors.New("resolution too large")

// ResolutionGuard decides whether a lattice of resolution³ points may be
// sampled right now.
type ResolutionGuard func(resolution int) error

// Limits bounds what requests may ask for.
type Limits struct {
	DefaultResolution int
	MaxResolution     int
	IsoFractions      []float64
}

// Handler handles orbital HTTP requests
type Handler struct {
	cache   *gridcache.Cache
	runner  *verification.Runner
	builder *shells.Builder
	sampler *wavefunction.Sampler
	limits  Limits
	guard   ResolutionGuard
	log     zerolog.Logger
}

// NewHandler creates a new orbital handler. A nil guard accepts every
// resolution within limits.
func NewHandler(
	cache *gridcache.Cache,
	runner *verification.Runner,
	builder *shells.Builder,
	sampler *wavefunction.Sampler,
	limits Limits,
	guard ResolutionGuard,
	log zerolog.Logger,
) *Handler {
	if limits.DefaultResolution == 0 {
		limits.DefaultResolution = quantum.DefaultGridResolution
	}
	if limits.MaxResolution == 0 {
		limits.MaxResolution = quantum.HighResGrid
	}
	if len(limits.IsoFractions) == 0 {
		limits.IsoFractions = quantum.DefaultIsoFractions()
	}
	return &Handler{
		cache:   cache,
		runner:  runner,
		builder: builder,
		sampler: sampler,
		limits:  limits,
		guard:   guard,
		log:     log.With().Str("handler", "quantum").Logger(),
	}
}

// boundedResolution applies the default and the configured bounds.
func (h *Handler) boundedResolution(requested int) (int, error) {
	if requested == 0 {
		requested = h.limits.DefaultResolution
	}
	if requested < 2 || requested > h.limits.MaxResolution {
		return 0, fmt.Errorf("%w: resolution must be in 2..%d, got %d", wavefunction.ErrInvalidLattice, h.limits.MaxResolution, requested)
	}
	return requested, nil
}

// resolution bounds a 3D lattice resolution and asks the guard.
func (h *Handler) resolution(requested int) (int, error) {
	requested, err := h.boundedResolution(requested)
	if err != nil {
		return 0, err
	}
	if h.guard != nil {
		if err := h.guard(requested); err != nil {
			return 0, err
		}
	}
	return requested, nil
}

func (h *Handler) newState(req StateRequest) (*orbitalstate.State, error) {
	basis := req.Basis
	if basis == "" {
		basis = string(quantum.BasisSP)
	}
	b, err := quantum.ParseBasis(basis)
	if err != nil {
		return nil, err
	}
	opts := []orbitalstate.Option{orbitalstate.WithSampler(h.sampler), orbitalstate.WithLogger(h.log)}
	if req.State != "" {
		return orbitalstate.FromNamedState(req.State, b, opts...)
	}
	return orbitalstate.New(req.Theta, req.Phi, b, opts...)
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, quantum.ErrInvalidQuantumNumbers),
		errors.Is(err, quantum.ErrUnknownBasis),
		errors.Is(err, quantum.ErrUnknownGate),
		errors.Is(err, quantum.ErrUnknownPlane),
		errors.Is(err, quantum.ErrUnknownAxis),
		errors.Is(err, quantum.ErrUnknownNamedState),
		errors.Is(err, quantum.ErrNonUnitary),
		errors.Is(err, bloch.ErrInvalidCoefficients),
		errors.Is(err, bloch.ErrZeroStateVector),
		errors.Is(err, wavefunction.ErrInvalidLattice),
		errors.Is(err, isosurface.ErrNoSurfaceAtLevel),
		errors.Is(err, verification.ErrInvalidRequest),
		errors.Is(err, errInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, verification.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrResolutionTooLarge):
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

var errInvalidRequest = errors.New("invalid request")

func (h *Handler) decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	return nil
}

// writeError writes a JSON error with the status derived from err.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("Request failed")
	} else {
		h.log.Debug().Err(err).Int("status", status).Msg("Request rejected")
	}
	h.writeJSON(w, status, map[string]interface{}{
		"error": err.Error(),
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// writeData wraps data in the response envelope.
func (h *Handler) writeData(w http.ResponseWriter, status int, data interface{}) {
	h.writeJSON(w, status, map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
