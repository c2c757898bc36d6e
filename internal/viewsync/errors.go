package viewsync

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyStarted is returned by Start when called more than once.
	ErrAlreadyStarted = errors.New("synchronizer already started")
	// ErrUnknownRow is returned by DeleteRow for ids that are not part of the
	// current render (placeholder rows, or rows replaced by a later refresh).
	ErrUnknownRow = errors.New("unknown row")
	// ErrNotReady is returned by Resubscribe before Start has completed.
	ErrNotReady = errors.New("synchronizer not ready")
)

// Op names a mutation request issued to the list store.
type Op string

const (
	OpRemove Op = "remove"
	OpClear  Op = "clear"
)

// FetchError reports that the copy list could not be retrieved.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch copy list: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MutationError reports that a remove or clear request could not be submitted.
type MutationError struct {
	Op   Op
	Path string // empty for OpClear
	Err  error
}

func (e *MutationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s copy list: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q from copy list: %v", e.Op, e.Path, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// SubscribeError reports that the change notification channel could not be
// established. The synchronizer keeps working on explicit and focus triggers.
type SubscribeError struct {
	Topic string
	Err   error
}

func (e *SubscribeError) Error() string {
	return fmt.Sprintf("subscribe %s: %v", e.Topic, e.Err)
}

func (e *SubscribeError) Unwrap() error { return e.Err }
