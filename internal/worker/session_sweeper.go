package worker

import (
	"context"
	"time"

	"github.com/finlitportal/finlit-backend/internal/session"
	"github.com/rs/zerolog"
)

// SessionSweeper periodically evicts test sessions that have been idle
// longer than the configured TTL, keeping the in-memory store bounded.
type SessionSweeper struct {
	store    *session.Store
	ttl      time.Duration
	interval time.Duration
	log      zerolog.Logger
}

// NewSessionSweeper creates a new SessionSweeper. A zero interval defaults
// to a tenth of the TTL, clamped to at least a minute.
func NewSessionSweeper(store *session.Store, ttl, interval time.Duration, log zerolog.Logger) *SessionSweeper {
	if interval <= 0 {
		interval = ttl / 10
		if interval < time.Minute {
			interval = time.Minute
		}
	}
	return &SessionSweeper{
		store:    store,
		ttl:      ttl,
		interval: interval,
		log:      log.With().Str("component", "session_sweeper").Logger(),
	}
}

// Start runs the sweep loop until ctx is cancelled.
func (w *SessionSweeper) Start(ctx context.Context) {
	w.log.Info().Dur("ttl", w.ttl).Dur("interval", w.interval).Msg("SessionSweeper started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("SessionSweeper stopped")
			return
		case <-ticker.C:
			if evicted := w.store.Sweep(w.ttl); evicted > 0 {
				w.log.Info().
					Int("evicted", evicted).
					Int("remaining", w.store.Len()).
					Msg("Stale sessions evicted")
			}
		}
	}
}
