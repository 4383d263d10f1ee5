// Package model defines the session and profile data types.
package model

import "time"

// FeatureNames lists the behavioral feature fields in canonical column order.
// The order is part of the profile contract; do not reorder.
var FeatureNames = [...]string{
	"typing_speed",
	"backspace_ratio",
	"avg_keystroke_interval",
	"keystroke_variance",
	"avg_mouse_speed",
	"mouse_move_variance",
	"scroll_frequency",
	"idle_ratio",
}

// NumFeatures is the fixed width of a feature vector.
const NumFeatures = len(FeatureNames)

// SessionRecord is one window of raw interaction telemetry for one user.
// Features holds the raw field values keyed by feature name; a missing key
// means the upstream pipeline did not record that signal for the session.
type SessionRecord struct {
	ID          string         `json:"id,omitempty"`
	UserID      string         `json:"user_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Features    map[string]any `json:"features"`
}
