package usersync

import (
	"context"
	"time"

	"github.com/satvik-sharma-05/movieBooking/internal/metrics"
)

// retry runs fn up to cfg.MaxAttempts times, doubling the pause between
// attempts up to cfg.MaxBackoff.  Errors for which Retryable is false end the
// loop at once.
func (p *Pipeline) retry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	backoff := p.cfg.Backoff
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt >= p.cfg.MaxAttempts || !Retryable(err) {
			return err
		}

		p.log.Warn("sync: retrying", "op", op, "attempt", attempt, "backoff", backoff, "error", err)
		metrics.SyncRetries.WithLabelValues(op).Inc()
		if serr := p.sleep(ctx, backoff); serr != nil {
			return err
		}
		backoff *= 2
		if p.cfg.MaxBackoff > 0 && backoff > p.cfg.MaxBackoff {
			backoff = p.cfg.MaxBackoff
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
