// Package profile computes behavioral baseline profiles from feature
// matrices. All functions here are pure: same input, same output.
package profile

import (
	"fmt"
	"math"

	"github.com/continuauth/baseline/internal/feature"
	"github.com/continuauth/baseline/internal/model"
)

// qualityPenalty scales average dispersion into the quality score. The
// constant is load-bearing for downstream consumers; do not retune.
const qualityPenalty = 0.5

// MinSessions is the smallest row count Aggregate accepts.
const MinSessions = 2

// Aggregate computes per-feature means and population standard deviations
// over the matrix and assembles a Profile for userID. The matrix must have
// at least MinSessions rows.
func Aggregate(userID string, m feature.Matrix) (*model.Profile, error) {
	rows := m.Rows()
	if rows < MinSessions {
		return nil, fmt.Errorf("%w: need at least %d, got %d", ErrInsufficientSessions, MinSessions, rows)
	}

	means := columnMeans(m)
	stds := columnStds(m, means)

	return &model.Profile{
		UserID:           userID,
		SessionsUsed:     rows,
		Status:           model.StatusActive,
		DataQualityScore: qualityScore(stds),
		ProfileVersion:   model.ProfileVersion,

		TypingSpeedMean:          means[0],
		BackspaceRatioMean:       means[1],
		AvgKeystrokeIntervalMean: means[2],
		KeystrokeVarianceMean:    means[3],
		AvgMouseSpeedMean:        means[4],
		MouseMoveVarianceMean:    means[5],
		ScrollFrequencyMean:      means[6],
		IdleRatioMean:            means[7],

		TypingSpeedStd:          stds[0],
		BackspaceRatioStd:       stds[1],
		AvgKeystrokeIntervalStd: stds[2],
		KeystrokeVarianceStd:    stds[3],
		AvgMouseSpeedStd:        stds[4],
		MouseMoveVarianceStd:    stds[5],
		ScrollFrequencyStd:      stds[6],
		IdleRatioStd:            stds[7],
	}, nil
}

// FromSessions builds the matrix and aggregates it in one step. obs may be
// nil.
func FromSessions(userID string, records []model.SessionRecord, obs feature.Observer) (*model.Profile, error) {
	m, err := feature.Build(records, obs)
	if err != nil {
		return nil, err
	}
	return Aggregate(userID, m)
}

func columnMeans(m feature.Matrix) [model.NumFeatures]float64 {
	var sums [model.NumFeatures]float64
	for _, row := range m {
		for j, v := range row {
			sums[j] += v
		}
	}
	n := float64(m.Rows())
	for j := range sums {
		sums[j] /= n
	}
	return sums
}

// columnStds computes population standard deviations: the sum of squared
// deviations is divided by the row count, not rows-1, because the sampled
// sessions are the whole baseline window rather than a draw from a larger
// population.
func columnStds(m feature.Matrix, means [model.NumFeatures]float64) [model.NumFeatures]float64 {
	var sq [model.NumFeatures]float64
	for _, row := range m {
		for j, v := range row {
			d := v - means[j]
			sq[j] += d * d
		}
	}
	n := float64(m.Rows())
	var stds [model.NumFeatures]float64
	for j := range sq {
		stds[j] = math.Sqrt(sq[j] / n)
	}
	return stds
}

// qualityScore maps average per-feature dispersion to [0,1]: lower variance
// across sessions means a more stable baseline and a higher score.
func qualityScore(stds [model.NumFeatures]float64) float64 {
	var sum float64
	for _, s := range stds {
		sum += s
	}
	avg := sum / float64(len(stds))
	q := 1.0 - avg*qualityPenalty
	if q < 0 {
		q = 0
	}
	if q > 1 {
		q = 1
	}
	return q
}
