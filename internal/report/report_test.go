package report

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/continuauth/baseline/internal/model"
)

func TestSummary(t *testing.T) {
	var out, logs bytes.Buffer
	r := New(slog.New(slog.NewTextHandler(&logs, nil)), &out)

	p := &model.Profile{
		UserID:           "853e5e01-d7cb-49b9-8fb2-ecfd0b895e06",
		SessionsUsed:     8,
		Status:           model.StatusActive,
		DataQualityScore: 0.9,
		ProfileVersion:   1,
		TypingSpeedMean:  105,
		TypingSpeedStd:   5,
	}

	r.Summary(p, 0.85)

	text := out.String()
	for _, want := range []string{
		"853e5e01-d7cb-49b9-8fb2-ecfd0b895e06",
		"sessions used: 8",
		"typing_speed",
		"idle_ratio",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(logs.String(), "below threshold") {
		t.Errorf("unexpected quality warning: %s", logs.String())
	}

	// Every feature appears exactly once, in canonical order.
	last := -1
	for _, name := range model.FeatureNames {
		idx := strings.Index(text, "  "+name)
		if idx < 0 {
			t.Fatalf("feature %s missing from summary", name)
		}
		if idx < last {
			t.Errorf("feature %s out of order", name)
		}
		last = idx
	}
}

func TestSummaryQualityWarning(t *testing.T) {
	var out, logs bytes.Buffer
	r := New(slog.New(slog.NewTextHandler(&logs, nil)), &out)

	p := &model.Profile{UserID: "u1", SessionsUsed: 2, Status: model.StatusActive, DataQualityScore: 0.4}
	r.Summary(p, 0.85)

	if !strings.Contains(logs.String(), "below threshold") {
		t.Errorf("expected quality warning, got: %s", logs.String())
	}
}
