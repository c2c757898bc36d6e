package listd

import (
	"sync"

	"github.com/five82/copylist/internal/copylist"
	"github.com/five82/copylist/internal/metrics"
)

const subscriberBuffer = 16

// Broadcaster fans notifications out to websocket subscribers.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[chan copylist.Notification]struct{}
	closed      bool
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[chan copylist.Notification]struct{}),
	}
}

// Subscribe registers a subscriber. The caller must call Unsubscribe when
// done. After Close the returned channel is already closed.
func (b *Broadcaster) Subscribe() chan copylist.Notification {
	ch := make(chan copylist.Notification, subscriberBuffer)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subscribers[ch] = struct{}{}
	}
	n := len(b.subscribers)
	b.mu.Unlock()
	metrics.SetSubscribersActive(n)
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broadcaster) Unsubscribe(ch chan copylist.Notification) {
	b.mu.Lock()
	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
	n := len(b.subscribers)
	b.mu.Unlock()
	metrics.SetSubscribersActive(n)
}

// Publish sends note to every subscriber without blocking. A full subscriber
// misses the notification; it already has one queued that will trigger the
// same full refresh.
func (b *Broadcaster) Publish(note copylist.Notification) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subscribers {
		select {
		case ch <- note:
			metrics.RecordNotification(note.Topic, true)
		default:
			metrics.RecordNotification(note.Topic, false)
		}
	}
}

// Count returns the current number of subscribers.
func (b *Broadcaster) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes every subscriber channel and rejects new subscribers.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, ch)
	}
	metrics.SetSubscribersActive(0)
}
