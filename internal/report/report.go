// Package report renders build progress and profile summaries for humans.
// Reporting is purely observational; the aggregation pipeline runs the
// same with or without it.
package report

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/continuauth/baseline/internal/model"
)

// NewLogger returns a tinted slog logger writing to stderr.
func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      lvl,
		TimeFormat: time.Kitchen,
	}))
}

// Reporter narrates a profile build.
type Reporter struct {
	Log *slog.Logger
	Out io.Writer
}

// New returns a Reporter logging through log and writing summaries to out.
func New(log *slog.Logger, out io.Writer) *Reporter {
	return &Reporter{Log: log, Out: out}
}

// Progress is a feature.Observer reporting per-row extraction.
func (r *Reporter) Progress(row, cols int) {
	r.Log.Debug("extracted features", "session", row+1, "features", cols)
}

// Summary prints the behavioral baseline in a mean-and-std table and warns
// when data quality falls below the configured threshold.
func (r *Reporter) Summary(p *model.Profile, qualityThreshold float64) {
	w := r.Out
	rule := strings.Repeat("-", 58)

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "profile summary for %s\n", p.UserID)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  sessions used: %d\n", p.SessionsUsed)
	fmt.Fprintf(w, "  data quality:  %.2f%%\n", p.DataQualityScore*100)
	fmt.Fprintf(w, "  status:        %s\n", p.Status)
	fmt.Fprintln(w, rule)
	for _, b := range p.Baseline() {
		fmt.Fprintf(w, "  %-24s %12.6f ± %.6f\n", b.Name, b.Mean, b.Std)
	}
	fmt.Fprintln(w, rule)

	if p.DataQualityScore < qualityThreshold {
		r.Log.Warn("data quality below threshold",
			"score", p.DataQualityScore, "threshold", qualityThreshold)
	}
}
