package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	defaultRetryInterval = 2 * time.Second
	maxBackoff           = 30 * time.Second
)

// resubscriber is the part of viewsync.Synchronizer the supervisor drives.
type resubscriber interface {
	SubscriptionDone() <-chan struct{}
	Subscribed() bool
	Resubscribe(ctx context.Context) error
}

// superviseSubscription waits for the notification subscription to drop (or
// notices it never came up) and re-establishes it with exponential backoff.
// It returns when ctx is cancelled.
func superviseSubscription(ctx context.Context, s resubscriber, logger *zap.Logger, base time.Duration) {
	if base <= 0 {
		base = defaultRetryInterval
	}
	failures := 0
	for {
		if done := s.SubscriptionDone(); done != nil {
			select {
			case <-ctx.Done():
				return
			case <-done:
				logger.Info("change notifications dropped")
			}
		}

		wait := calculateBackoff(failures, base)
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}

		err := s.Resubscribe(ctx)
		if s.Subscribed() {
			failures = 0
			logger.Info("change notifications restored")
			continue
		}
		failures++
		logger.Debug("resubscribe failed",
			zap.Int("failures", failures),
			zap.Duration("next_in", calculateBackoff(failures, base)),
			zap.Error(err))
	}
}

// calculateBackoff doubles base per consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}
