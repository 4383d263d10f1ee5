package feature

import (
	"errors"
	"testing"

	"github.com/continuauth/baseline/internal/model"
)

func record(features map[string]any) model.SessionRecord {
	return model.SessionRecord{UserID: "u1", Features: features}
}

func fullFeatures(base float64) map[string]any {
	f := make(map[string]any, model.NumFeatures)
	for i, name := range model.FeatureNames {
		f[name] = base + float64(i)
	}
	return f
}

func TestBuildShape(t *testing.T) {
	recs := []model.SessionRecord{
		record(fullFeatures(1)),
		record(fullFeatures(10)),
		record(fullFeatures(100)),
	}

	m, err := Build(recs, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if m.Rows() != 3 {
		t.Errorf("expected 3 rows, got %d", m.Rows())
	}
	if m.Cols() != model.NumFeatures {
		t.Errorf("expected %d cols, got %d", model.NumFeatures, m.Cols())
	}
	// Row order preserved
	if m[0][0] != 1 || m[1][0] != 10 || m[2][0] != 100 {
		t.Errorf("row order not preserved: %v", m)
	}
}

func TestBuildColumnOrder(t *testing.T) {
	// Feature values chosen so each column is identifiable regardless of
	// map iteration order.
	rec := record(map[string]any{
		"idle_ratio":             8.0,
		"typing_speed":           1.0,
		"scroll_frequency":       7.0,
		"backspace_ratio":        2.0,
		"mouse_move_variance":    6.0,
		"avg_keystroke_interval": 3.0,
		"avg_mouse_speed":        5.0,
		"keystroke_variance":     4.0,
	})

	m, err := Build([]model.SessionRecord{rec}, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	for j, w := range want {
		if m[0][j] != w {
			t.Errorf("col %d (%s): expected %v, got %v", j, model.FeatureNames[j], w, m[0][j])
		}
	}
}

func TestBuildMissingFieldDefaultsToZero(t *testing.T) {
	f := fullFeatures(1)
	delete(f, "scroll_frequency")
	f["idle_ratio"] = nil // explicit null treated as absent

	m, err := Build([]model.SessionRecord{record(f)}, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if m[0][6] != 0 {
		t.Errorf("missing scroll_frequency: expected 0, got %v", m[0][6])
	}
	if m[0][7] != 0 {
		t.Errorf("null idle_ratio: expected 0, got %v", m[0][7])
	}
	if m[0][0] != 1 {
		t.Errorf("present field clobbered: got %v", m[0][0])
	}
}

func TestBuildMalformedValue(t *testing.T) {
	f := fullFeatures(1)
	f["avg_mouse_speed"] = "not a number"

	_, err := Build([]model.SessionRecord{record(f)}, nil)
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
}

func TestBuildNumericStringCoerced(t *testing.T) {
	f := fullFeatures(1)
	f["typing_speed"] = "87.5"

	m, err := Build([]model.SessionRecord{record(f)}, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if m[0][0] != 87.5 {
		t.Errorf("expected 87.5, got %v", m[0][0])
	}
}

func TestBuildObserver(t *testing.T) {
	recs := []model.SessionRecord{record(fullFeatures(1)), record(fullFeatures(2))}

	var calls []int
	_, err := Build(recs, func(row, cols int) {
		if cols != model.NumFeatures {
			t.Errorf("observer cols: expected %d, got %d", model.NumFeatures, cols)
		}
		calls = append(calls, row)
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(calls) != 2 || calls[0] != 0 || calls[1] != 1 {
		t.Errorf("expected observer calls [0 1], got %v", calls)
	}
}

func TestCoerce(t *testing.T) {
	cases := []struct {
		in      any
		want    float64
		wantErr bool
	}{
		{float64(1.5), 1.5, false},
		{float32(2), 2, false},
		{int(3), 3, false},
		{int64(4), 4, false},
		{uint64(5), 5, false},
		{"6.25", 6.25, false},
		{"abc", 0, true},
		{true, 0, true},
		{[]float64{1}, 0, true},
		{map[string]any{}, 0, true},
	}
	for _, c := range cases {
		got, err := Coerce(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("Coerce(%#v): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("Coerce(%#v): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("Coerce(%#v): expected %v, got %v", c.in, c.want, got)
		}
	}
}
