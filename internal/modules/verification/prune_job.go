package verification

import (
	"time"

	"github.com/rs/zerolog"
)

// PruneJob drops finished verification jobs older than a retention window.
type PruneJob struct {
	runner    *Runner
	retention time.Duration
	log       zerolog.Logger
}

// NewPruneJob creates a prune job for the runner.
func NewPruneJob(runner *Runner, retention time.Duration, log zerolog.Logger) *PruneJob {
	return &PruneJob{
		runner:    runner,
		retention: retention,
		log:       log.With().Str("job", "verification_prune").Logger(),
	}
}

// Run removes expired jobs from the registry.
func (j *PruneJob) Run() error {
	removed := j.runner.Prune(j.retention)
	if removed > 0 {
		j.log.Info().Int("removed", removed).Msg("Pruned finished verification jobs")
	}
	return nil
}

// Name returns the job name for scheduling and logging.
func (j *PruneJob) Name() string {
	return "verification_prune"
}
