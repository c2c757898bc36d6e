package viewsync

import "github.com/google/uuid"

// PlaceholderText is shown in place of rows when the copy list is empty.
const PlaceholderText = "No files copied yet."

// RowID identifies one rendered row for the lifetime of a single render pass.
type RowID string

func newRowID() RowID {
	return RowID(uuid.NewString())
}

// Row is one rendered entry. Rows are rebuilt on every refresh and must not
// be retained across renders; use the ID to address a row's delete control.
type Row struct {
	ID          RowID
	Path        string
	Placeholder bool
}

// Label returns the text a view shows for the row.
func (r Row) Label() string {
	if r.Placeholder {
		return PlaceholderText
	}
	return r.Path
}

// Container receives rows. Every render pass is a Clear followed by one
// Append per row, always on a single logical sequence.
type Container interface {
	Clear()
	Append(row Row)
}

// Flusher is implemented by containers that want a signal once a render pass
// is complete, e.g. to schedule a redraw.
type Flusher interface {
	Flush()
}

// Reporter is the diagnostic sink for recovered failures.
type Reporter interface {
	Report(err error)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(err error)

// Report calls f(err).
func (f ReporterFunc) Report(err error) { f(err) }
