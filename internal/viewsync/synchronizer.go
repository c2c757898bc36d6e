package viewsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/five82/copylist/internal/copylist"
)

// State is the initialization state of a Synchronizer.
type State int

const (
	StateUninitialized State = iota
	StateSubscribing
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateSubscribing:
		return "subscribing"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Options configure a Synchronizer.
type Options struct {
	Store      copylist.ListStore
	Subscriber copylist.Subscriber // nil runs without push notifications
	Container  Container
	Reporter   Reporter    // optional
	Logger     *zap.Logger // optional
}

// Synchronizer keeps a Container consistent with a ListStore. Every trigger
// re-fetches the full list and replaces every row, so any number of
// overlapping refreshes converge on the store's state.
type Synchronizer struct {
	store      copylist.ListStore
	subscriber copylist.Subscriber
	container  Container
	reporter   Reporter
	logger     *zap.Logger

	mu      sync.Mutex
	state   State
	focused bool
	sub     copylist.Subscription

	// renderMu confines container mutation to one sequence. previous holds
	// the table of the pass before handlers, so a row the view still shows
	// while the next pass is in flight stays deletable.
	renderMu sync.Mutex
	handlers map[RowID]string
	previous map[RowID]string
	applied  uint64

	tickets atomic.Uint64
}

// New builds a Synchronizer in the Uninitialized state.
func New(opts Options) (*Synchronizer, error) {
	if opts.Store == nil {
		return nil, errors.New("viewsync requires a list store")
	}
	if opts.Container == nil {
		return nil, errors.New("viewsync requires a container")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synchronizer{
		store:      opts.Store,
		subscriber: opts.Subscriber,
		container:  opts.Container,
		reporter:   opts.Reporter,
		logger:     logger,
		focused:    true,
		handlers:   make(map[RowID]string),
	}, nil
}

// State returns the current initialization state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribed reports whether a live notification subscription exists.
func (s *Synchronizer) Subscribed() bool {
	s.mu.Lock()
	sub := s.sub
	s.mu.Unlock()
	if sub == nil {
		return false
	}
	select {
	case <-sub.Done():
		return false
	default:
		return true
	}
}

// SubscriptionDone returns a channel closed when the current subscription
// stops. It returns nil when there is no subscription.
func (s *Synchronizer) SubscriptionDone() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sub == nil {
		return nil
	}
	return s.sub.Done()
}

// Start subscribes to list_updated and performs the initial load. A failed
// subscription is reported and does not prevent reaching Ready. The returned
// error is ErrAlreadyStarted or the (already reported) initial fetch failure.
func (s *Synchronizer) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateUninitialized {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.state = StateSubscribing
	s.mu.Unlock()

	if err := s.subscribe(ctx); err != nil {
		s.logger.Warn("continuing without change notifications", zap.Error(err))
	}

	s.mu.Lock()
	s.state = StateReady
	s.mu.Unlock()
	s.logger.Debug("synchronizer ready")

	return s.Refresh(ctx)
}

// Resubscribe replaces a failed or dropped subscription and catches up with
// a refresh once notifications flow again.
func (s *Synchronizer) Resubscribe(ctx context.Context) error {
	if s.State() != StateReady {
		return ErrNotReady
	}
	if err := s.subscribe(ctx); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Close cancels the notification subscription.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()
	if sub != nil {
		sub.Cancel()
	}
}

func (s *Synchronizer) subscribe(ctx context.Context) error {
	if s.subscriber == nil {
		return nil
	}
	sub, err := s.subscriber.Subscribe(ctx, copylist.TopicListUpdated, func() {
		s.OnExternalChange(ctx)
	})
	if err != nil {
		wrapped := &SubscribeError{Topic: copylist.TopicListUpdated, Err: err}
		s.report(wrapped)
		return wrapped
	}

	s.mu.Lock()
	old := s.sub
	s.sub = sub
	s.mu.Unlock()
	if old != nil {
		old.Cancel()
	}
	return nil
}

// Refresh fetches the full list and replaces every rendered row. On failure
// the previous render is left untouched and a *FetchError is reported and
// returned.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	ticket := s.tickets.Add(1)
	paths, err := s.store.GetCopyList(ctx)
	if err != nil {
		fetchErr := &FetchError{Err: err}
		s.report(fetchErr)
		return fetchErr
	}
	s.render(ticket, paths)
	return nil
}

// render applies paths unless a fetch started later has already rendered.
func (s *Synchronizer) render(ticket uint64, paths []string) {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	if ticket <= s.applied {
		s.logger.Debug("discarding stale fetch",
			zap.Uint64("ticket", ticket),
			zap.Uint64("applied", s.applied))
		return
	}
	s.applied = ticket

	handlers := make(map[RowID]string, len(paths))
	s.container.Clear()
	if len(paths) == 0 {
		s.container.Append(Row{ID: newRowID(), Placeholder: true})
	}
	for _, path := range paths {
		id := newRowID()
		handlers[id] = path
		s.container.Append(Row{ID: id, Path: path})
	}
	s.previous = s.handlers
	s.handlers = handlers

	if f, ok := s.container.(Flusher); ok {
		f.Flush()
	}
	s.logger.Debug("rendered copy list", zap.Int("entries", len(paths)))
}

// DeleteEntry asks the store to remove path and refreshes immediately,
// whether or not the matching notification has arrived.
func (s *Synchronizer) DeleteEntry(ctx context.Context, path string) error {
	if err := s.store.RemoveFromCopyList(ctx, path); err != nil {
		mutErr := &MutationError{Op: OpRemove, Path: path, Err: err}
		s.report(mutErr)
		return mutErr
	}
	return s.Refresh(ctx)
}

// DeleteRow deletes the path captured for row id when it was rendered. Rows
// from the latest pass and the one before it resolve; older rows do not.
func (s *Synchronizer) DeleteRow(ctx context.Context, id RowID) error {
	s.renderMu.Lock()
	path, ok := s.handlers[id]
	if !ok {
		path, ok = s.previous[id]
	}
	s.renderMu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRow, id)
	}
	return s.DeleteEntry(ctx, path)
}

// ClearAll asks the store to empty the list and refreshes immediately.
func (s *Synchronizer) ClearAll(ctx context.Context) error {
	if err := s.store.ClearCopyList(ctx); err != nil {
		mutErr := &MutationError{Op: OpClear, Err: err}
		s.report(mutErr)
		return mutErr
	}
	return s.Refresh(ctx)
}

// OnExternalChange is the fan-in point for push notifications.
func (s *Synchronizer) OnExternalChange(ctx context.Context) {
	_ = s.Refresh(ctx)
}

// OnFocusRegained catches up with mutations that happened while the window
// was not focused.
func (s *Synchronizer) OnFocusRegained(ctx context.Context) {
	_ = s.Refresh(ctx)
}

// OnFocusChange feeds the window focus signal. Only an unfocused to focused
// transition refreshes.
func (s *Synchronizer) OnFocusChange(ctx context.Context, focused bool) {
	s.mu.Lock()
	was := s.focused
	s.focused = focused
	s.mu.Unlock()

	if focused && !was {
		s.OnFocusRegained(ctx)
	}
}

func (s *Synchronizer) report(err error) {
	s.logger.Warn("copy list sync failed", zap.Error(err))
	if s.reporter != nil {
		s.reporter.Report(err)
	}
}
