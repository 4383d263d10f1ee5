// Package feature builds dense feature matrices from raw session records.
package feature

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/continuauth/baseline/internal/model"
)

// Matrix is a dense row-major feature matrix: one row per session, one
// column per feature in model.FeatureNames order. Row order matches the
// input record order.
type Matrix [][]float64

// Rows returns the number of session rows.
func (m Matrix) Rows() int { return len(m) }

// Cols returns the number of feature columns (0 for an empty matrix).
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Observer is notified after each row is extracted. Used for progress
// reporting only; has no effect on the result.
type Observer func(row, cols int)

// Build converts session records into a Matrix. For each record, every
// feature in canonical order is read from the record's raw fields: an
// absent field (or explicit null) becomes 0.0, while a present value that
// cannot be coerced to a float fails with ErrMalformedRecord. obs may be
// nil.
func Build(records []model.SessionRecord, obs Observer) (Matrix, error) {
	m := make(Matrix, 0, len(records))
	for i, rec := range records {
		row := make([]float64, model.NumFeatures)
		for j, name := range model.FeatureNames {
			raw, ok := rec.Features[name]
			if !ok || raw == nil {
				continue
			}
			v, err := Coerce(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d field %q: %v", ErrMalformedRecord, i, name, err)
			}
			row[j] = v
		}
		m = append(m, row)
		if obs != nil {
			obs(i, model.NumFeatures)
		}
	}
	return m, nil
}

// Coerce converts a raw feature value to float64. Accepts native numeric
// types, json.Number, and numeric strings; anything else is an error.
func Coerce(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case json.Number:
		return x.Float64()
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, fmt.Errorf("non-numeric string %q", x)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}
