package worker

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/zvitly/gradewatch-backend/internal/config"
)

// Lock TTL must outlive a slow pass; an instance that dies mid-pass releases
// the lock by expiry.
const passLockTTL = 2 * time.Minute

// PassRunner runs one delivery pass over the unprocessed backlog.
type PassRunner interface {
	ProcessPending(ctx context.Context) error
}

// NotifyWorker periodically retries the unprocessed backlog. The webhook path
// already triggers an immediate pass; this loop catches events whose delivery
// failed and events ingested while Telegram was unreachable.
type NotifyWorker struct {
	pass     PassRunner
	rdb      *redis.Client
	interval time.Duration
	log      zerolog.Logger
}

func NewNotifyWorker(pass PassRunner, rdb *redis.Client, interval time.Duration, log zerolog.Logger) *NotifyWorker {
	return &NotifyWorker{
		pass:     pass,
		rdb:      rdb,
		interval: interval,
		log:      log.With().Str("component", "notify_worker").Logger(),
	}
}

// Start runs passes on a fixed interval until ctx is cancelled.
func (w *NotifyWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("NotifyWorker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("NotifyWorker stopped")
			return
		case <-ticker.C:
			w.runPass(ctx)
		}
	}
}

// runPass takes a Redis lock so overlapping instances do not double-send.
// The backlog itself is idempotent on the store side, but a single runner
// avoids duplicate Telegram messages within one pass.
func (w *NotifyWorker) runPass(ctx context.Context) {
	lockKey := config.CacheKey.NotifyPassLockKey()

	locked := false
	ok, err := w.rdb.SetNX(ctx, lockKey, "1", passLockTTL).Result()
	switch {
	case err != nil:
		// Redis being down should not stop retries entirely.
		w.log.Warn().Err(err).Msg("Pass lock unavailable, running unlocked")
	case !ok:
		w.log.Debug().Msg("Pass already running elsewhere, skipping")
		return
	default:
		locked = true
	}

	if err := w.pass.ProcessPending(ctx); err != nil {
		w.log.Error().Err(err).Msg("Notification pass failed")
	}

	if locked {
		w.rdb.Del(ctx, lockKey)
	}
}
