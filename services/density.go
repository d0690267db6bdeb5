package services

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	histogramBins  = 15
	densitySamples = 100
)

// Histogram holds bin counts and the len(Counts)+1 bin edges.
type Histogram struct {
	Counts   []int     `json:"counts"`
	BinEdges []float64 `json:"bin_edges"`
}

// DensitySamples is a sampled smooth curve for plotting.
type DensitySamples struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// BuildHistogram bins values into equal-width bins spanning [min, max].
// The last bin is closed on the right. A single distinct value widens the
// range to [v-0.5, v+0.5]; an empty input uses [0, 1].
func BuildHistogram(values []float64, bins int) Histogram {
	lo, hi := 0.0, 1.0
	if len(values) > 0 {
		lo, hi = floats.Min(values), floats.Max(values)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	edges := floats.Span(make([]float64, bins+1), lo, hi)
	counts := make([]int, bins)
	width := (hi - lo) / float64(bins)
	last := bins - 1
	for _, v := range values {
		i := int((v - lo) / width)
		i = max(0, min(i, last))
		// The division can land one bin off on an interior edge; the
		// returned edges are authoritative.
		if v < edges[i] && i > 0 {
			i--
		} else if i != last && v >= edges[i+1] {
			i++
		}
		counts[i]++
	}
	return Histogram{Counts: counts, BinEdges: edges}
}

// GammaDensity fits a two-parameter Gamma distribution by the method of
// moments and samples its PDF between the 1st and 99th percentiles. The
// samples are scaled so the largest y is 1.
func GammaDensity(values []float64, n int) (DensitySamples, error) {
	if len(values) == 0 {
		return DensitySamples{}, ErrInsufficientData
	}
	mean, variance := stat.PopMeanVariance(values, nil)
	if !(variance > 0) || !(mean > 0) || math.IsInf(variance, 0) {
		return DensitySamples{}, ErrInsufficientData
	}

	alpha := mean * mean / variance // shape
	scale := variance / mean
	g := distuv.Gamma{Alpha: alpha, Beta: 1 / scale}

	x := floats.Span(make([]float64, n), g.Quantile(0.01), g.Quantile(0.99))
	y := make([]float64, n)
	for i, xi := range x {
		y[i] = g.Prob(xi)
	}

	peak := floats.Max(y)
	if !(peak > 0) || math.IsInf(peak, 0) {
		return DensitySamples{}, ErrInsufficientData
	}
	floats.Scale(1/peak, y)
	return DensitySamples{X: x, Y: y}, nil
}

// KDEDensity evaluates a Gaussian kernel density estimate (Scott's
// bandwidth) at n points over [0, max(values)]. Values are raw densities.
func KDEDensity(values []float64, n int) (DensitySamples, error) {
	if len(values) < 2 {
		return DensitySamples{}, ErrInsufficientData
	}
	sd := stat.StdDev(values, nil)
	if !(sd > 0) {
		return DensitySamples{}, ErrInsufficientData
	}
	bw := sd * math.Pow(float64(len(values)), -1.0/5)

	x := floats.Span(make([]float64, n), 0, floats.Max(values))
	y := make([]float64, n)
	kernels := make([]distuv.Normal, len(values))
	for i, v := range values {
		kernels[i] = distuv.Normal{Mu: v, Sigma: bw}
	}
	for i, xi := range x {
		var sum float64
		for _, k := range kernels {
			sum += k.Prob(xi)
		}
		y[i] = sum / float64(len(values))
	}
	return DensitySamples{X: x, Y: y}, nil
}

func roundAll(xs []float64, places int) []float64 {
	p := math.Pow(10, float64(places))
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = math.Round(x*p) / p
	}
	return out
}
