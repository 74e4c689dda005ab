package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/jappenzeller/SYSTEM/internal/database"
)

// walFrameWarning is the WAL size in frames above which a warning is logged.
const walFrameWarning = 1000

// CheckWALCheckpointsJob runs a passive checkpoint on each database and warns
// when a WAL keeps growing.
type CheckWALCheckpointsJob struct {
	log       zerolog.Logger
	databases []*database.DB
}

// NewCheckWALCheckpointsJob creates the job. Nil databases are ignored.
func NewCheckWALCheckpointsJob(log zerolog.Logger, databases ...*database.DB) *CheckWALCheckpointsJob {
	return &CheckWALCheckpointsJob{
		log:       log.With().Str("job", "check_wal_checkpoints").Logger(),
		databases: databases,
	}
}

// Name returns the job name
func (j *CheckWALCheckpointsJob) Name() string {
	return "check_wal_checkpoints"
}

// Run checks every database's WAL. A failing database is logged and skipped.
func (j *CheckWALCheckpointsJob) Run() error {
	checkedCount := 0
	for _, db := range j.databases {
		if db == nil {
			continue
		}

		st, err := db.WALCheckpoint("PASSIVE")
		if err != nil {
			j.log.Warn().
				Err(err).
				Str("database", db.Name()).
				Msg("Failed to check WAL checkpoint")
			continue
		}

		if st.LogFrames > walFrameWarning {
			j.log.Warn().
				Str("database", db.Name()).
				Int("wal_frames", st.LogFrames).
				Int("checkpointed", st.Checkpointed).
				Msg("WAL file is large, checkpoint may be needed")
		} else {
			j.log.Debug().
				Str("database", db.Name()).
				Int("wal_frames", st.LogFrames).
				Msg("WAL checkpoint status OK")
		}

		checkedCount++
	}

	j.log.Info().
		Int("checked", checkedCount).
		Msg("WAL checkpoint check completed")

	return nil
}
