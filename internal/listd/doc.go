// Package listd implements copylistd, the process that owns the copy list.
//
// The list lives in memory (Store). Every successful add, remove or clear is
// followed by a list_updated notification to all websocket subscribers
// (Broadcaster). Notifications carry no payload; subscribers re-fetch the
// whole list. Publishing never blocks, so a slow subscriber may miss a
// notification while one is already queued for it.
package listd
