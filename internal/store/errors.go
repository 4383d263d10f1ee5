package store

import "errors"

// Sentinel error kinds for this package, matchable with errors.Is.
var (
	// ErrNoSessions means the user has no stored sessions at all.
	ErrNoSessions = errors.New("no sessions found")

	// ErrSessionFetch wraps store read failures.
	ErrSessionFetch = errors.New("session fetch failed")

	// ErrProfilePersist wraps store write failures.
	ErrProfilePersist = errors.New("profile persist failed")
)
