package profile

import "errors"

// ErrInsufficientSessions indicates fewer than two session rows were
// available; a single sample has no meaningful dispersion.
var ErrInsufficientSessions = errors.New("insufficient sessions")
