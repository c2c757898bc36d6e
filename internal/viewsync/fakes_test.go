package viewsync

import (
	"context"
	"sync"

	"github.com/five82/copylist/internal/copylist"
)

type fakeStore struct {
	mu        sync.Mutex
	paths     []string
	fetchErr  error
	removeErr error
	clearErr  error
	fetches   int
	removed   []string
	clears    int

	// gate, when set, blocks the next fetch until released. entered is
	// signalled once the blocked fetch has started.
	gate    chan []string
	entered chan struct{}
}

func newFakeStore(paths ...string) *fakeStore {
	return &fakeStore{paths: append([]string(nil), paths...)}
}

func (f *fakeStore) GetCopyList(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	f.fetches++
	gate, entered := f.gate, f.entered
	f.gate, f.entered = nil, nil
	if gate == nil {
		defer f.mu.Unlock()
		if f.fetchErr != nil {
			return nil, f.fetchErr
		}
		return append([]string{}, f.paths...), nil
	}
	f.mu.Unlock()

	close(entered)
	select {
	case paths := <-gate:
		return paths, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeStore) RemoveFromCopyList(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, path)
	kept := f.paths[:0]
	for _, p := range f.paths {
		if p != path {
			kept = append(kept, p)
		}
	}
	f.paths = kept
	return nil
}

func (f *fakeStore) ClearCopyList(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clearErr != nil {
		return f.clearErr
	}
	f.clears++
	f.paths = nil
	return nil
}

func (f *fakeStore) set(paths ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append([]string(nil), paths...)
}

func (f *fakeStore) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func (f *fakeStore) blockNextFetch() (release chan []string, entered chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = make(chan []string)
	f.entered = make(chan struct{})
	return f.gate, f.entered
}

type recordingContainer struct {
	mu      sync.Mutex
	rows    []Row
	clears  int
	flushes int
}

func (c *recordingContainer) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clears++
	c.rows = nil
}

func (c *recordingContainer) Append(row Row) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = append(c.rows, row)
}

func (c *recordingContainer) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushes++
}

func (c *recordingContainer) snapshot() []Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Row(nil), c.rows...)
}

func (c *recordingContainer) paths() []string {
	var out []string
	for _, row := range c.snapshot() {
		if row.Placeholder {
			continue
		}
		out = append(out, row.Path)
	}
	return out
}

func (c *recordingContainer) placeholders() int {
	n := 0
	for _, row := range c.snapshot() {
		if row.Placeholder {
			n++
		}
	}
	return n
}

type fakeSubscription struct {
	once sync.Once
	done chan struct{}
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{done: make(chan struct{})}
}

func (s *fakeSubscription) Cancel()               { s.once.Do(func() { close(s.done) }) }
func (s *fakeSubscription) Done() <-chan struct{} { return s.done }

type fakeSubscriber struct {
	mu       sync.Mutex
	err      error
	topics   []string
	handlers []func()
	subs     []*fakeSubscription
}

func (f *fakeSubscriber) Subscribe(_ context.Context, topic string, handler func()) (copylist.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topics = append(f.topics, topic)
	if f.err != nil {
		return nil, f.err
	}
	sub := newFakeSubscription()
	f.handlers = append(f.handlers, handler)
	f.subs = append(f.subs, sub)
	return sub, nil
}

func (f *fakeSubscriber) notify() {
	f.mu.Lock()
	handlers := append([]func(){}, f.handlers...)
	f.mu.Unlock()
	for _, h := range handlers {
		h()
	}
}

func (f *fakeSubscriber) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type errorLog struct {
	mu   sync.Mutex
	errs []error
}

func (l *errorLog) Report(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, err)
}

func (l *errorLog) all() []error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]error(nil), l.errs...)
}
