package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second},
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 64; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type fakeResubscriber struct {
	mu        sync.Mutex
	failFirst int
	attempts  int
	done      chan struct{}
	restored  chan struct{}
}

func (f *fakeResubscriber) SubscriptionDone() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done == nil {
		return nil
	}
	return f.done
}

func (f *fakeResubscriber) Subscribed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done == nil {
		return false
	}
	select {
	case <-f.done:
		return false
	default:
		return true
	}
}

func (f *fakeResubscriber) Resubscribe(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.attempts <= f.failFirst {
		return errors.New("still offline")
	}
	f.done = make(chan struct{})
	if f.restored != nil {
		close(f.restored)
		f.restored = nil
	}
	return nil
}

func (f *fakeResubscriber) drop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	close(f.done)
}

func (f *fakeResubscriber) attemptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

func TestSuperviseSubscription_RetriesUntilRestored(t *testing.T) {
	restored := make(chan struct{})
	f := &fakeResubscriber{failFirst: 2, restored: restored}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		superviseSubscription(ctx, f, zap.NewNop(), time.Millisecond)
	}()

	select {
	case <-restored:
	case <-time.After(2 * time.Second):
		t.Fatalf("subscription not restored after %d attempts", f.attemptCount())
	}
	if got := f.attemptCount(); got != 3 {
		t.Fatalf("attempts = %d, want 3", got)
	}

	// A dropped subscription is picked up again.
	f.mu.Lock()
	again := make(chan struct{})
	f.restored = again
	f.mu.Unlock()
	f.drop()
	select {
	case <-again:
	case <-time.After(2 * time.Second):
		t.Fatalf("dropped subscription not restored")
	}

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatalf("supervisor did not stop on cancel")
	}
}
