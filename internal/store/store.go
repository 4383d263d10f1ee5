// Package store provides session and profile storage backends.
package store

import (
	"context"

	"github.com/continuauth/baseline/internal/model"
)

// SessionSource fetches raw telemetry sessions.
type SessionSource interface {
	// FetchRecent returns up to limit sessions for the user, most recent
	// first. Returns ErrNoSessions when the user has none.
	FetchRecent(ctx context.Context, userID string, limit int) ([]model.SessionRecord, error)
}

// ProfileSink persists built profiles. Inserts are append-only; a rebuild
// creates a new profile row rather than replacing the previous one.
type ProfileSink interface {
	InsertProfile(ctx context.Context, p *model.Profile) error
}

// Store combines both sides of the storage contract.
type Store interface {
	SessionSource
	ProfileSink

	// Close releases the underlying connection or file handle.
	Close() error
}
