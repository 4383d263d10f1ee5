package model

import "time"

// StatusActive is the status assigned to every successfully built profile.
const StatusActive = "active"

// ProfileVersion is the schema version written into new profiles.
const ProfileVersion = 1

// Profile is the aggregated behavioral baseline for one user: a mean/std
// pair per feature plus build metadata. Field order of the mean/std pairs
// matches FeatureNames.
type Profile struct {
	ID               string    `json:"id,omitempty"`
	UserID           string    `json:"user_id"`
	SessionsUsed     int       `json:"sessions_used"`
	Status           string    `json:"status"`
	DataQualityScore float64   `json:"data_quality_score"`
	ProfileVersion   int       `json:"profile_version"`
	CreatedAt        time.Time `json:"created_at,omitempty"`

	TypingSpeedMean          float64 `json:"typing_speed_mean"`
	BackspaceRatioMean       float64 `json:"backspace_ratio_mean"`
	AvgKeystrokeIntervalMean float64 `json:"avg_keystroke_interval_mean"`
	KeystrokeVarianceMean    float64 `json:"keystroke_variance_mean"`
	AvgMouseSpeedMean        float64 `json:"avg_mouse_speed_mean"`
	MouseMoveVarianceMean    float64 `json:"mouse_move_variance_mean"`
	ScrollFrequencyMean      float64 `json:"scroll_frequency_mean"`
	IdleRatioMean            float64 `json:"idle_ratio_mean"`

	TypingSpeedStd          float64 `json:"typing_speed_std"`
	BackspaceRatioStd       float64 `json:"backspace_ratio_std"`
	AvgKeystrokeIntervalStd float64 `json:"avg_keystroke_interval_std"`
	KeystrokeVarianceStd    float64 `json:"keystroke_variance_std"`
	AvgMouseSpeedStd        float64 `json:"avg_mouse_speed_std"`
	MouseMoveVarianceStd    float64 `json:"mouse_move_variance_std"`
	ScrollFrequencyStd      float64 `json:"scroll_frequency_std"`
	IdleRatioStd            float64 `json:"idle_ratio_std"`
}

// FeatureBaseline is one feature's mean/std pair, used for reporting.
type FeatureBaseline struct {
	Name string
	Mean float64
	Std  float64
}

// Means returns the per-feature means in canonical column order.
func (p *Profile) Means() [NumFeatures]float64 {
	return [NumFeatures]float64{
		p.TypingSpeedMean,
		p.BackspaceRatioMean,
		p.AvgKeystrokeIntervalMean,
		p.KeystrokeVarianceMean,
		p.AvgMouseSpeedMean,
		p.MouseMoveVarianceMean,
		p.ScrollFrequencyMean,
		p.IdleRatioMean,
	}
}

// Stds returns the per-feature standard deviations in canonical column order.
func (p *Profile) Stds() [NumFeatures]float64 {
	return [NumFeatures]float64{
		p.TypingSpeedStd,
		p.BackspaceRatioStd,
		p.AvgKeystrokeIntervalStd,
		p.KeystrokeVarianceStd,
		p.AvgMouseSpeedStd,
		p.MouseMoveVarianceStd,
		p.ScrollFrequencyStd,
		p.IdleRatioStd,
	}
}

// Baseline returns the mean/std pair for every feature in canonical order.
func (p *Profile) Baseline() []FeatureBaseline {
	means := p.Means()
	stds := p.Stds()
	out := make([]FeatureBaseline, NumFeatures)
	for i, name := range FeatureNames {
		out[i] = FeatureBaseline{Name: name, Mean: means[i], Std: stds[i]}
	}
	return out
}
