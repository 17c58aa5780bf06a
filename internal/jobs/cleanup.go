package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// ExpiredDeleter removes rows whose expiry has passed and reports how many
// went away. Implemented by the session and reset-token repositories.
type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// CleanupJob periodically purges expired sessions and reset tokens. Expiry
// is already enforced at read time, so this only reclaims storage; a missed
// run has no correctness impact.
type CleanupJob struct {
	sessions ExpiredDeleter
	resets   ExpiredDeleter
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func NewCleanupJob(sessions, resets ExpiredDeleter, interval time.Duration) *CleanupJob {
	return &CleanupJob{
		sessions: sessions,
		resets:   resets,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the cleanup loop until Stop is called or the context ends. It
// performs one sweep immediately so restarts do not defer the purge by a
// full interval.
func (j *CleanupJob) Start(ctx context.Context) {
	go func() {
		defer close(j.done)

		j.run(ctx)

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				j.run(ctx)
			case <-j.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop signals the loop to exit and waits for the in-flight sweep.
func (j *CleanupJob) Stop() {
	close(j.stop)
	<-j.done
}

func (j *CleanupJob) run(ctx context.Context) {
	sessionCount, err := j.sessions.DeleteExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("cleanup: failed to delete expired sessions")
	}

	resetCount, err := j.resets.DeleteExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("cleanup: failed to delete expired reset tokens")
	}

	if sessionCount > 0 || resetCount > 0 {
		log.Info().
			Int64("sessions", sessionCount).
			Int64("resetTokens", resetCount).
			Msg("cleanup: purged expired rows")
	}
}
