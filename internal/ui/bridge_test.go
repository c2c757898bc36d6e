package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/copylist/internal/viewsync"
)

func TestBridge_FlushPublishesCompletePass(t *testing.T) {
	b := NewBridge()
	var got []tea.Msg
	b.Attach(func(msg tea.Msg) { got = append(got, msg) })

	b.Clear()
	b.Append(viewsync.Row{ID: "1", Path: "/a"})
	b.Append(viewsync.Row{ID: "2", Path: "/b"})
	assert.Empty(t, got, "nothing is sent before Flush")
	assert.Empty(t, b.Rows(), "staged rows are not visible before Flush")

	b.Flush()
	require.Len(t, got, 1)
	rows, ok := got[0].(rowsMsg)
	require.True(t, ok, "Flush sends rowsMsg, got %T", got[0])
	assert.Equal(t, []string{"/a", "/b"}, []string{rows[0].Path, rows[1].Path})
	assert.Len(t, b.Rows(), 2)
}

func TestBridge_ClearStartsFreshPass(t *testing.T) {
	b := NewBridge()
	b.Clear()
	b.Append(viewsync.Row{ID: "1", Path: "/a"})
	b.Flush()

	b.Clear()
	b.Append(viewsync.Row{ID: "2", Placeholder: true})
	b.Flush()

	rows := b.Rows()
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Placeholder)
}

func TestBridge_RowsReturnsCopy(t *testing.T) {
	b := NewBridge()
	b.Clear()
	b.Append(viewsync.Row{ID: "1", Path: "/a"})
	b.Flush()

	rows := b.Rows()
	rows[0].Path = "/mutated"
	assert.Equal(t, "/a", b.Rows()[0].Path)
}

func TestBridge_ReportSendsErrMsg(t *testing.T) {
	b := NewBridge()
	b.Report(errors.New("dropped before attach"))

	var got []tea.Msg
	b.Attach(func(msg tea.Msg) { got = append(got, msg) })
	b.Report(&viewsync.FetchError{Err: errors.New("boom")})
	b.Report(nil)

	require.Len(t, got, 1)
	em, ok := got[0].(errMsg)
	require.True(t, ok)
	assert.Equal(t, "fetch copy list: boom", em.err.Error())
}

func TestBridge_DrivesSynchronizer(t *testing.T) {
	b := NewBridge()
	store := &sliceStore{paths: []string{"/x", "/y"}}
	s, err := viewsync.New(viewsync.Options{Store: store, Container: b, Reporter: b})
	require.NoError(t, err)

	require.NoError(t, s.Refresh(t.Context()))
	rows := b.Rows()
	require.Len(t, rows, 2)

	require.NoError(t, s.DeleteRow(t.Context(), rows[0].ID))
	rows = b.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "/y", rows[0].Path)
}
