package services

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

func sumInts(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

func TestBuildHistogram(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	h := BuildHistogram(values, histogramBins)

	require.Len(t, h.Counts, 15)
	require.Len(t, h.BinEdges, 16)
	assert.Equal(t, 0.0, h.BinEdges[0])
	assert.Equal(t, 15.0, h.BinEdges[15])
	assert.Equal(t, len(values), sumInts(h.Counts))
	// The maximum lands in the closed last bin alongside 14.
	assert.Equal(t, 2, h.Counts[14])
	assert.True(t, sort.Float64sAreSorted(h.BinEdges))
}

func TestBuildHistogram_SingleValue(t *testing.T) {
	h := BuildHistogram([]float64{7, 7, 7}, histogramBins)
	assert.InDelta(t, 6.5, h.BinEdges[0], 1e-12)
	assert.InDelta(t, 7.5, h.BinEdges[15], 1e-12)
	assert.Equal(t, 3, sumInts(h.Counts))
}

func TestBuildHistogram_Empty(t *testing.T) {
	h := BuildHistogram(nil, histogramBins)
	assert.Len(t, h.BinEdges, 16)
	assert.Equal(t, 0, sumInts(h.Counts))
}

func TestGammaDensity(t *testing.T) {
	values := []float64{4, 10, 12, 20, 22, 25, 31, 40, 45, 70}
	d, err := GammaDensity(values, densitySamples)
	require.NoError(t, err)

	require.Len(t, d.X, 100)
	require.Len(t, d.Y, 100)
	assert.True(t, sort.Float64sAreSorted(d.X))
	assert.Greater(t, d.X[0], 0.0)

	peak := 0.0
	for _, y := range d.Y {
		assert.False(t, math.IsNaN(y))
		peak = math.Max(peak, y)
	}
	assert.InDelta(t, 1.0, peak, 1e-12)
}

func TestBuildHistogram_ValuesOnEdges(t *testing.T) {
	for _, hi := range []float64{7, 13, 14, 26, 28} {
		// Each value sits exactly on an edge, so every bin opens on one value
		// and the closed last bin also takes the maximum.
		values := floats.Span(make([]float64, histogramBins+1), 0, hi)
		h := BuildHistogram(values, histogramBins)

		require.Equal(t, values, h.BinEdges)
		want := make([]int, histogramBins)
		for i := range want {
			want[i] = 1
		}
		want[histogramBins-1] = 2
		assert.Equal(t, want, h.Counts, "hi=%v", hi)
	}
}

func TestGammaDensity_MomentFit(t *testing.T) {
	values := []float64{4, 10, 12, 20, 22, 25, 31, 40, 45, 70}
	// mean 27.9, population variance 347.09
	mean, variance := 27.9, 347.09
	fit := distuv.Gamma{Alpha: mean * mean / variance, Beta: mean / variance}

	d, err := GammaDensity(values, densitySamples)
	require.NoError(t, err)

	assert.InDelta(t, fit.Quantile(0.01), d.X[0], 1e-6)
	assert.InDelta(t, fit.Quantile(0.99), d.X[len(d.X)-1], 1e-6)

	argmax := floats.MaxIdx(d.Y)
	step := d.X[1] - d.X[0]
	mode := mean - variance/mean
	assert.InDelta(t, mode, d.X[argmax], step)
}

func TestGammaDensity_InsufficientData(t *testing.T) {
	for name, values := range map[string][]float64{
		"empty":         nil,
		"zero variance": {12, 12, 12},
		"single value":  {5},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := GammaDensity(values, densitySamples)
			assert.ErrorIs(t, err, ErrInsufficientData)
		})
	}
}

func TestKDEDensity(t *testing.T) {
	values := []float64{1, 3}
	d, err := KDEDensity(values, densitySamples)
	require.NoError(t, err)

	require.Len(t, d.X, 100)
	assert.Equal(t, 0.0, d.X[0])
	assert.Equal(t, 3.0, d.X[99])

	// Scott's factor for n=2 on a sample sd of sqrt(2).
	bw := math.Sqrt2 * math.Pow(2, -0.2)
	normal := func(x, mu float64) float64 {
		z := (x - mu) / bw
		return math.Exp(-z*z/2) / (bw * math.Sqrt(2*math.Pi))
	}
	want := (normal(3, 1) + normal(3, 3)) / 2
	assert.InDelta(t, want, d.Y[99], 1e-9)
}

func TestKDEDensity_InsufficientData(t *testing.T) {
	_, err := KDEDensity([]float64{4}, densitySamples)
	assert.ErrorIs(t, err, ErrInsufficientData)
	_, err = KDEDensity([]float64{4, 4, 4}, densitySamples)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestRoundAll(t *testing.T) {
	assert.Equal(t, []float64{1.23, 2, -0.5}, roundAll([]float64{1.234, 1.999, -0.5}, 2))
}
