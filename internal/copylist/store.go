package copylist

import "context"

// TopicListUpdated is published by the daemon after every successful mutation.
const TopicListUpdated = "list_updated"

// ListStore is the authoritative owner of the copy list.
type ListStore interface {
	GetCopyList(ctx context.Context) ([]string, error)
	RemoveFromCopyList(ctx context.Context, path string) error
	ClearCopyList(ctx context.Context) error
}

// Subscriber delivers payload-free change notifications for a topic.
// Delivery is at-least-once and unordered relative to mutation responses.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler func()) (Subscription, error)
}

// Subscription is the handle returned by Subscribe.
type Subscription interface {
	// Cancel stops delivery. Safe to call more than once.
	Cancel()
	// Done is closed once the subscription stops delivering, either because
	// it was cancelled or because the underlying connection dropped.
	Done() <-chan struct{}
}

// Ensure Client implements the store contracts at compile time.
var (
	_ ListStore  = (*Client)(nil)
	_ Subscriber = (*Client)(nil)
)
