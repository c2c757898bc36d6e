package ui

import (
	"slices"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/copylist/internal/viewsync"
)

// Bridge adapts a Bubble Tea program to viewsync's Container, Flusher and
// Reporter. Rows appended during a render pass are staged and only become
// visible to the program when the pass is flushed.
type Bridge struct {
	mu      sync.Mutex
	staging []viewsync.Row
	rows    []viewsync.Row
	send    func(tea.Msg)
}

var (
	_ viewsync.Container = (*Bridge)(nil)
	_ viewsync.Flusher   = (*Bridge)(nil)
	_ viewsync.Reporter  = (*Bridge)(nil)
)

// NewBridge returns a Bridge with no program attached.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach routes rendered rows and errors to send, typically
// (*tea.Program).Send. Passes flushed before Attach are still available
// through Rows.
func (b *Bridge) Attach(send func(tea.Msg)) {
	b.mu.Lock()
	b.send = send
	b.mu.Unlock()
}

// Clear starts a new render pass.
func (b *Bridge) Clear() {
	b.mu.Lock()
	b.staging = nil
	b.mu.Unlock()
}

// Append stages a row for the current pass.
func (b *Bridge) Append(row viewsync.Row) {
	b.mu.Lock()
	b.staging = append(b.staging, row)
	b.mu.Unlock()
}

// Flush publishes the staged pass.
func (b *Bridge) Flush() {
	b.mu.Lock()
	b.rows = b.staging
	b.staging = nil
	rows := slices.Clone(b.rows)
	send := b.send
	b.mu.Unlock()

	if send != nil {
		send(rowsMsg(rows))
	}
}

// Report forwards a recovered synchronizer failure to the status line.
func (b *Bridge) Report(err error) {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()

	if send != nil && err != nil {
		send(errMsg{err: err})
	}
}

// Rows returns the most recently flushed pass.
func (b *Bridge) Rows() []viewsync.Row {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.rows)
}
