package tui

import "timed-quiz/internal/domain"

// snapshotMsg carries a machine snapshot into the update loop.
type snapshotMsg struct {
	snap domain.Snapshot
	ok   bool
}

// exportDoneMsg reports the outcome of an export.
type exportDoneMsg struct {
	path string
	err  error
}
