package analytics

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// NormalizeScore coerces a raw stored score into a finite, non-negative
// float. Anything it cannot interpret becomes 0.
func NormalizeScore(raw any) float64 {
	var v float64
	switch s := raw.(type) {
	case nil:
		return 0
	case float64:
		v = s
	case float32:
		v = float64(s)
	case int:
		v = float64(s)
	case int8:
		v = float64(s)
	case int16:
		v = float64(s)
	case int32:
		v = float64(s)
	case int64:
		v = float64(s)
	case uint:
		v = float64(s)
	case uint8:
		v = float64(s)
	case uint16:
		v = float64(s)
	case uint32:
		v = float64(s)
	case uint64:
		v = float64(s)
	case *float64:
		if s == nil {
			return 0
		}
		v = *s
	case json.Number:
		f, err := s.Float64()
		if err != nil {
			return 0
		}
		v = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		v = f
	default:
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ToPercent maps a score onto the 0-100 scale. Values up to 1.0 are read as
// fractions, so a genuine 1% score is indistinguishable from 100%.
func ToPercent(v float64) float64 {
	if v <= 1.0 {
		return v * 100
	}
	return v
}

// CanonicalScore is the single ingestion point for stored scores.
func CanonicalScore(raw any) float64 {
	return ToPercent(NormalizeScore(raw))
}

// hasScore reports whether an optional score field was recorded at all.
func hasScore(raw any) bool {
	switch s := raw.(type) {
	case nil:
		return false
	case *float64:
		return s != nil
	}
	return true
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func maxOf(values []float64) float64 {
	var best float64
	for i, v := range values {
		if i == 0 || v > best {
			best = v
		}
	}
	return best
}

// MeanResultScore is the canonical mean of the results that recorded a
// score, or 0 when none did.
func MeanResultScore(results []ExerciseResult) float64 {
	var scores []float64
	for _, r := range results {
		if hasScore(r.Score) {
			scores = append(scores, CanonicalScore(r.Score))
		}
	}
	return mean(scores)
}
