package feature

import "errors"

// ErrMalformedRecord indicates a session record carried a non-numeric value
// in a feature field. Distinct from an absent field, which defaults to zero.
var ErrMalformedRecord = errors.New("malformed session record")
