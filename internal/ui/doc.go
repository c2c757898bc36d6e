// Package ui renders the copy list as a Bubble Tea program.
//
// The synchronizer never touches the model directly. It renders into a
// Bridge, which buffers one pass of rows and hands the finished pass to the
// running program as a message. Deletes, clears and refreshes run as
// tea.Cmds so Update never blocks on the daemon. Terminal focus reports
// (tea.WithReportFocus) feed the synchronizer's focus trigger.
package ui
