// Package app wires configuration, logging, the daemon client, the view
// synchronizer and the Bubble Tea UI together.
//
// Run is the TUI entry point. It starts the synchronizer in the background
// once the UI can receive rows, then supervises the list_updated
// subscription: whenever it fails or drops, Resubscribe is retried with
// exponential backoff and each success catches up with a full refresh.
// Focus and manual refreshes keep working while notifications are down.
//
// Command runs the one-shot add, ls, rm and clear subcommands and RunDaemon
// hosts copylistd.
package app
