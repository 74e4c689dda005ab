// Package verification runs numeric normalization and orthogonality checks of
// hydrogen orbitals in the background and keeps their results for polling.
package verification

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/jappenzeller/SYSTEM/internal/modules/quantum"
	"github.com/jappenzeller/SYSTEM/internal/modules/wavefunction"
	"github.com/jappenzeller/SYSTEM/internal/utils"
)

// Tolerance is the allowed deviation of an integral from its expected value.
const Tolerance = 0.01

const (
	// DefaultMaxPoints caps the quadrature order per axis. Work grows with its cube.
	DefaultMaxPoints = 256
	// DefaultMaxConcurrent is the number of jobs integrating at once.
	DefaultMaxConcurrent = 2
)

// ErrJobNotFound is returned for unknown job ids.
var ErrJobNotFound = errors.New("verification job not found")

// ErrInvalidRequest is returned for requests that cannot be integrated.
var ErrInvalidRequest = errors.New("invalid verification request")

// Kind selects which integral a job computes.
type Kind string

const (
	KindNormalization Kind = "normalization"
	KindOrthogonality Kind = "orthogonality"
)

// Status is a job's lifecycle state.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Request describes the orbitals and quadrature of one job. Other is only
// used by orthogonality jobs. Zero RMax and Points use the defaults.
type Request struct {
	Orbital quantum.QuantumNumbers  `json:"orbital"`
	Other   *quantum.QuantumNumbers `json:"other,omitempty"`
	RMax    float64                 `json:"r_max,omitempty"`
	Points  int                     `json:"points,omitempty"`
}

// Job is a snapshot of one verification run.
type Job struct {
	ID          string     `json:"id"`
	Kind        Kind       `json:"kind"`
	Status      Status     `json:"status"`
	Request     Request    `json:"request"`
	Result      float64    `json:"result"`
	Expected    float64    `json:"expected"`
	Passed      bool       `json:"passed"`
	Error       string     `json:"error,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

// Finished reports whether the job reached a terminal status.
func (j Job) Finished() bool {
	return j.Status == StatusDone || j.Status == StatusFailed
}

type entry struct {
	job  Job
	done chan struct{}
}

// Runner owns the job registry. It is safe for concurrent use.
type Runner struct {
	jobs          map[string]*entry
	mu            sync.RWMutex
	defaultPoints int
	maxPoints     int
	slots         *semaphore.Weighted
	log           zerolog.Logger

	normalization func(quantum.QuantumNumbers, float64, int) (float64, error)
	orthogonality func(a, b quantum.QuantumNumbers, rMax float64, points int) (float64, error)
}

// RunnerOption configures a Runner.
type RunnerOption func(*runnerOptions)

type runnerOptions struct {
	maxPoints     int
	maxConcurrent int
}

// WithMaxPoints sets the largest quadrature order a request may ask for.
func WithMaxPoints(n int) RunnerOption {
	return func(o *runnerOptions) {
		if n > 0 {
			o.maxPoints = n
		}
	}
}

// WithMaxConcurrent sets how many jobs integrate at the same time. Jobs
// beyond that stay pending until a slot frees up.
func WithMaxConcurrent(n int) RunnerOption {
	return func(o *runnerOptions) {
		if n > 0 {
			o.maxConcurrent = n
		}
	}
}

// NewRunner creates a runner. defaultPoints <= 0 uses the wavefunction default.
func NewRunner(defaultPoints int, log zerolog.Logger, opts ...RunnerOption) *Runner {
	if defaultPoints <= 0 {
		defaultPoints = wavefunction.DefaultVerifyPoints
	}
	o := runnerOptions{maxPoints: DefaultMaxPoints, maxConcurrent: DefaultMaxConcurrent}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxPoints < defaultPoints {
		o.maxPoints = defaultPoints
	}
	return &Runner{
		jobs:          make(map[string]*entry),
		defaultPoints: defaultPoints,
		maxPoints:     o.maxPoints,
		slots:         semaphore.NewWeighted(int64(o.maxConcurrent)),
		log:           log.With().Str("component", "verification_runner").Logger(),
		normalization: wavefunction.VerifyNormalization,
		orthogonality: wavefunction.VerifyOrthogonality,
	}
}

// MaxPoints returns the largest accepted quadrature order.
func (r *Runner) MaxPoints() int { return r.maxPoints }

func (r *Runner) validate(kind Kind, req Request) error {
	if err := req.Orbital.Validate(); err != nil {
		return err
	}
	if req.RMax < 0 || math.IsNaN(req.RMax) || math.IsInf(req.RMax, 0) {
		return fmt.Errorf("%w: r_max must be a finite non-negative number, got %g", ErrInvalidRequest, req.RMax)
	}
	if req.Points < 0 {
		return fmt.Errorf("%w: points must be non-negative, got %d", ErrInvalidRequest, req.Points)
	}
	if req.Points > r.maxPoints {
		return fmt.Errorf("%w: points must be at most %d, got %d", ErrInvalidRequest, r.maxPoints, req.Points)
	}
	switch kind {
	case KindNormalization:
		return nil
	case KindOrthogonality:
		if req.Other == nil {
			return fmt.Errorf("%w: orthogonality needs a second orbital", ErrInvalidRequest)
		}
		if err := req.Other.Validate(); err != nil {
			return err
		}
		if *req.Other == req.Orbital {
			return fmt.Errorf("%w: orthogonality needs two distinct orbitals", ErrInvalidRequest)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown kind %q", ErrInvalidRequest, kind)
}

// Submit validates the request, registers a pending job and starts it on its
// own goroutine. It returns the job id.
func (r *Runner) Submit(kind Kind, req Request) (string, error) {
	if err := r.validate(kind, req); err != nil {
		return "", err
	}
	if req.Points == 0 {
		req.Points = r.defaultPoints
	}

	e := &entry{
		job: Job{
			ID:          uuid.New().String(),
			Kind:        kind,
			Status:      StatusPending,
			Request:     req,
			SubmittedAt: time.Now().UTC(),
		},
		done: make(chan struct{}),
	}
	if kind == KindNormalization {
		e.job.Expected = 1
	}

	r.mu.Lock()
	r.jobs[e.job.ID] = e
	r.mu.Unlock()

	r.log.Info().
		Str("job_id", e.job.ID).
		Str("kind", string(kind)).
		Str("orbital", req.Orbital.Name()).
		Msg("Verification job submitted")

	go r.run(e)
	return e.job.ID, nil
}

func (r *Runner) run(e *entry) {
	defer close(e.done)

	// Acquire cannot fail with a background context.
	_ = r.slots.Acquire(context.Background(), 1)
	defer r.slots.Release(1)

	r.mu.Lock()
	started := time.Now().UTC()
	e.job.Status = StatusRunning
	e.job.StartedAt = &started
	kind, req := e.job.Kind, e.job.Request
	r.mu.Unlock()

	result, err := r.integrate(kind, req)

	r.mu.Lock()
	defer r.mu.Unlock()
	finished := time.Now().UTC()
	e.job.FinishedAt = &finished
	if err != nil {
		e.job.Status = StatusFailed
		e.job.Error = err.Error()
		r.log.Error().Err(err).Str("job_id", e.job.ID).Msg("Verification job failed")
		return
	}
	e.job.Status = StatusDone
	e.job.Result = result
	e.job.Passed = math.Abs(result-e.job.Expected) <= Tolerance
	r.log.Info().
		Str("job_id", e.job.ID).
		Float64("result", result).
		Bool("passed", e.job.Passed).
		Dur("duration", finished.Sub(started)).
		Msg("Verification job finished")
}

func (r *Runner) integrate(kind Kind, req Request) (result float64, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic during integration: %v", p)
		}
	}()
	defer utils.NewTimer("verify_"+string(kind), r.log).StopWithContext(map[string]interface{}{
		"orbital": req.Orbital.Name(),
		"points":  req.Points,
	})

	if kind == KindOrthogonality {
		return r.orthogonality(req.Orbital, *req.Other, req.RMax, req.Points)
	}
	return r.normalization(req.Orbital, req.RMax, req.Points)
}

// Get returns a snapshot of the job.
func (r *Runner) Get(id string) (Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.jobs[id]
	if !ok {
		return Job{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return e.job, nil
}

// List returns snapshots of all jobs, newest first.
func (r *Runner) List() []Job {
	r.mu.RLock()
	out := make([]Job, 0, len(r.jobs))
	for _, e := range r.jobs {
		out = append(out, e.job)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.After(out[j].SubmittedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Wait blocks until the job finishes or ctx is done.
func (r *Runner) Wait(ctx context.Context, id string) (Job, error) {
	r.mu.RLock()
	e, ok := r.jobs[id]
	r.mu.RUnlock()
	if !ok {
		return Job{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	select {
	case <-e.done:
		return r.Get(id)
	case <-ctx.Done():
		return Job{}, ctx.Err()
	}
}

// Prune forgets finished jobs that ended more than olderThan ago and returns
// how many were removed. Running jobs are never pruned.
func (r *Runner) Prune(olderThan time.Duration) int {
	cutoff := time.Now().UTC().Add(-olderThan)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.jobs {
		if e.job.Finished() && e.job.FinishedAt != nil && e.job.FinishedAt.Before(cutoff) {
			delete(r.jobs, id)
			removed++
		}
	}
	return removed
}
