// Package viewsync keeps a rendered view of the copy list consistent with the
// list owned by copylistd.
//
// # Triggers
//
// A Synchronizer refreshes on four independent triggers:
//
//   - the initial load when Start reaches StateReady
//   - every list_updated notification (OnExternalChange)
//   - the window regaining focus (OnFocusChange / OnFocusRegained)
//   - right after a delete or clear it issued itself
//
// Triggers are neither debounced nor cancelled. Each refresh fetches the full
// list and replaces every row through the Container, so duplicate or
// reordered triggers converge on the same rows. A fetch that finishes after a
// later-started fetch has rendered is discarded.
//
// # Failures
//
// FetchError and MutationError are sent to the Reporter and leave the current
// rows untouched. A failed subscription is reported as SubscribeError and the
// synchronizer still becomes ready; Resubscribe can be retried later.
package viewsync
