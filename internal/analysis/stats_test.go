package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		want float64
	}{
		{name: "empty", xs: nil, want: 0},
		{name: "single", xs: []float64{0.42}, want: 0.42},
		{name: "three values", xs: []float64{0.70, 0.80, 0.90}, want: 0.80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Mean(tt.xs), 1e-9)
		})
	}
}

func TestSampleSD(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		want float64
	}{
		{name: "empty", xs: nil, want: 0},
		{name: "single value has no spread", xs: []float64{0.9}, want: 0},
		// Bessel-corrected: sqrt(((0.1)^2 + 0 + (0.1)^2) / 2) = 0.1
		{name: "three values", xs: []float64{0.70, 0.80, 0.90}, want: 0.1},
		{name: "identical values", xs: []float64{0.5, 0.5, 0.5}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SampleSD(tt.xs), 1e-6)
		})
	}
}

func TestCoefficientOfVariation(t *testing.T) {
	t.Run("defined", func(t *testing.T) {
		cv, ok := CoefficientOfVariation([]float64{0.70, 0.80})
		require.True(t, ok)
		// SD = sqrt(2*(0.05)^2) ≈ 0.0707107, mean = 0.75
		assert.InDelta(t, 0.0942809, cv, 1e-6)
	})

	t.Run("fewer than two values", func(t *testing.T) {
		_, ok := CoefficientOfVariation([]float64{0.80})
		assert.False(t, ok)
	})

	t.Run("zero mean", func(t *testing.T) {
		_, ok := CoefficientOfVariation([]float64{0, 0})
		assert.False(t, ok)
	})
}
