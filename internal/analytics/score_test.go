package analytics

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeScore(t *testing.T) {
	f := 42.5
	var nilPtr *float64
	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{"nil", nil, 0},
		{"float", 0.85, 0.85},
		{"float32", float32(0.5), 0.5},
		{"int", 85, 85},
		{"int32", int32(7), 7},
		{"int64", int64(90), 90},
		{"uint8", uint8(3), 3},
		{"numeric string", "72.5", 72.5},
		{"padded string", " 60 ", 60},
		{"garbage string", "n/a", 0},
		{"empty string", "", 0},
		{"NaN", math.NaN(), 0},
		{"NaN string", "NaN", 0},
		{"Inf", math.Inf(1), 0},
		{"negative", -12.0, 0},
		{"above 100", 130.0, 130},
		{"json number", json.Number("55"), 55},
		{"bad json number", json.Number("x"), 0},
		{"pointer", &f, 42.5},
		{"nil pointer", nilPtr, 0},
		{"bool", true, 0},
		{"map", map[string]any{"v": 1}, 0},
		{"slice", []int{1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeScore(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.False(t, math.IsNaN(got))
			assert.GreaterOrEqual(t, got, 0.0)
		})
	}
}

func TestToPercent(t *testing.T) {
	assert.Equal(t, 0.0, ToPercent(0))
	assert.InDelta(t, 85.0, ToPercent(0.85), 1e-9)
	assert.Equal(t, 100.0, ToPercent(1.0))
	assert.Equal(t, 1.5, ToPercent(1.5))
	assert.Equal(t, 85.0, ToPercent(85))
}

func TestCanonicalScore_ScalesAgree(t *testing.T) {
	assert.InDelta(t, CanonicalScore(85), CanonicalScore(0.85), 1e-9)
	assert.InDelta(t, CanonicalScore("0.85"), CanonicalScore("85"), 1e-9)
}

func TestHasScore(t *testing.T) {
	var nilPtr *float64
	assert.False(t, hasScore(nil))
	assert.False(t, hasScore(nilPtr))
	assert.True(t, hasScore(0.0))
	assert.True(t, hasScore("garbage"))
}
