package listd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/copylist/internal/copylist"
)

func TestBroadcasterSubscribeUnsubscribe(t *testing.T) {
	b := NewBroadcaster()

	ch1 := b.Subscribe()
	ch2 := b.Subscribe()
	assert.Equal(t, 2, b.Count())

	b.Unsubscribe(ch1)
	assert.Equal(t, 1, b.Count())

	b.Unsubscribe(ch2)
	b.Unsubscribe(ch2)
	assert.Equal(t, 0, b.Count())
}

func TestBroadcasterPublishReachesAll(t *testing.T) {
	b := NewBroadcaster()
	ch1 := b.Subscribe()
	ch2 := b.Subscribe()
	defer b.Unsubscribe(ch1)
	defer b.Unsubscribe(ch2)

	b.Publish(copylist.Notification{Topic: copylist.TopicListUpdated})

	for i, ch := range []chan copylist.Notification{ch1, ch2} {
		select {
		case note := <-ch:
			assert.Equal(t, copylist.TopicListUpdated, note.Topic, "subscriber %d", i)
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d: timed out", i)
		}
	}
}

func TestBroadcasterDropsForSlowConsumer(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for i := 0; i < subscriberBuffer*3; i++ {
		b.Publish(copylist.Notification{Topic: copylist.TopicListUpdated})
	}

	count := 0
	for {
		select {
		case <-ch:
			count++
			continue
		default:
		}
		break
	}
	assert.Equal(t, subscriberBuffer, count)
}

func TestBroadcasterClose(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()

	b.Close()
	_, ok := <-ch
	assert.False(t, ok, "subscriber channel should be closed")
	assert.Equal(t, 0, b.Count())

	late := b.Subscribe()
	_, ok = <-late
	require.False(t, ok, "subscribe after close returns a closed channel")

	// Unsubscribe after close must not double close.
	b.Unsubscribe(ch)
	b.Close()
}
