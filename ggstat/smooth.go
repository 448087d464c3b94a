// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggstat

import (
	"math"
	"sort"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/fit"
	"github.com/aclements/go-moremath/vec"

	"github.com/plotgrammar/ggplot/gg"
)

// Smooth fits a smoothed conditional mean of y on x, evaluated on an
// even grid over the x range.
//
// The output has columns x, y, and, when standard errors are on,
// ymin, ymax, and se.
type Smooth struct {
	// Method selects the smoother: "loess" (default), "lm" for a
	// polynomial least-squares fit, or "ma" for a moving average.
	Method string

	// N is the number of grid points. Zero means 80.
	N int

	// Span controls loess smoothness and the moving-average
	// window as a fraction of the data. Zero means 0.75.
	Span float64

	// Degree is the polynomial degree for "lm" and the local
	// degree for "loess". Zero means 1 for lm, 2 for loess.
	Degree int

	// Level is the band's confidence level. Zero means 0.95;
	// negative disables the band entirely.
	Level float64
}

func (s Smooth) Name() string          { return "stat_smooth" }
func (s Smooth) RequiredAes() []string { return []string{"x", "y"} }

func (s Smooth) Compute(ctx *gg.StatContext, t *table.Table) (*table.Table, error) {
	if s.N == 0 {
		s.N = 80
	}
	if s.Span == 0 {
		s.Span = 0.75
	}
	level := s.Level
	if level == 0 {
		level = 0.95
	}

	xs := colFloats(t, "x")
	ys := colFloats(t, "y")
	if len(xs) < 2 {
		ctx.Warnings.Warnf("stat_smooth: group has fewer than 2 points; skipping")
		e := []float64{}
		return new(table.Builder).Add("x", e).Add("y", e).Done(), nil
	}

	lo, hi := bounds(xs)
	if hi == lo {
		ctx.Warnings.Warnf("stat_smooth: x is constant; skipping")
		e := []float64{}
		return new(table.Builder).Add("x", e).Add("y", e).Done(), nil
	}
	grid := vec.Linspace(lo, hi, s.N)

	switch s.Method {
	case "", "loess":
		deg := s.Degree
		if deg == 0 {
			deg = 2
		}
		if len(xs) < deg+2 {
			ctx.Warnings.Warnf("stat_smooth: too few points for loess; falling back to lm")
			return s.lm(grid, xs, ys, 1, level)
		}
		loess := fit.LOESS(xs, ys, deg, s.Span)
		yhat := vec.Map(loess, grid)
		if level < 0 {
			return smoothTable(grid, yhat, nil, nil, nil), nil
		}
		return dispersionBand(grid, yhat, xs, ys, loess, level), nil
	case "lm":
		deg := s.Degree
		if deg == 0 {
			deg = 1
		}
		return s.lm(grid, xs, ys, deg, level)
	case "ma":
		return s.movingAverage(grid, xs, ys, level)
	}
	return nil, &gg.ConfigurationError{Param: "method", Detail: "unknown smoothing method " + s.Method}
}

// lm fits a polynomial by least squares and derives a pointwise
// normal-approximation confidence band from the residual variance.
func (s Smooth) lm(grid, xs, ys []float64, degree int, level float64) (*table.Table, error) {
	r := fit.PolynomialRegression(xs, ys, nil, degree)
	yhat := vec.Map(r.F, grid)

	n := float64(len(xs))
	dof := n - float64(degree) - 1
	if level < 0 || dof < 1 {
		return smoothTable(grid, yhat, nil, nil, nil), nil
	}
	var rss float64
	for i := range xs {
		d := ys[i] - r.F(xs[i])
		rss += d * d
	}
	sigma2 := rss / dof

	xbar := vec.Sum(xs) / n
	var sxx float64
	for _, x := range xs {
		sxx += (x - xbar) * (x - xbar)
	}

	z := normalQuantile((1 + level) / 2)
	se := make([]float64, len(grid))
	ymin := make([]float64, len(grid))
	ymax := make([]float64, len(grid))
	for i, x := range grid {
		v := sigma2 * (1/n + (x-xbar)*(x-xbar)/sxx)
		se[i] = math.Sqrt(v)
		ymin[i] = yhat[i] - z*se[i]
		ymax[i] = yhat[i] + z*se[i]
	}
	return smoothTable(grid, yhat, ymin, ymax, se), nil
}

// movingAverage evaluates a centered moving average at the grid
// points, window sized by Span.
func (s Smooth) movingAverage(grid, xs, ys []float64, level float64) (*table.Table, error) {
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return xs[idx[i]] < xs[idx[j]] })

	lo, hi := bounds(xs)
	half := s.Span * (hi - lo) / 2
	eval := func(g float64) float64 {
		var sum, cnt float64
		for _, j := range idx {
			if xs[j] < g-half {
				continue
			}
			if xs[j] > g+half {
				break
			}
			sum += ys[j]
			cnt++
		}
		if cnt == 0 {
			return math.NaN()
		}
		return sum / cnt
	}
	yhat := make([]float64, len(grid))
	for i, g := range grid {
		yhat[i] = eval(g)
	}
	if level < 0 {
		return smoothTable(grid, yhat, nil, nil, nil), nil
	}
	return dispersionBand(grid, yhat, xs, ys, eval, level), nil
}

// dispersionBand derives a pointwise band from the residual spread of
// the fit at the data points. It describes the scatter around the
// smooth, not the uncertainty of the smooth itself.
func dispersionBand(grid, yhat, xs, ys []float64, f func(float64) float64, level float64) *table.Table {
	var rss float64
	for i := range xs {
		d := ys[i] - f(xs[i])
		rss += d * d
	}
	sd := 0.0
	if len(xs) > 1 {
		sd = math.Sqrt(rss / float64(len(xs)-1))
	}
	z := normalQuantile((1 + level) / 2)
	se := make([]float64, len(grid))
	ymin := make([]float64, len(grid))
	ymax := make([]float64, len(grid))
	for i := range grid {
		se[i] = sd
		ymin[i] = yhat[i] - z*sd
		ymax[i] = yhat[i] + z*sd
	}
	return smoothTable(grid, yhat, ymin, ymax, se)
}

func smoothTable(x, y, ymin, ymax, se []float64) *table.Table {
	b := new(table.Builder).Add("x", x).Add("y", y)
	if ymin != nil {
		b.Add("ymin", ymin).Add("ymax", ymax).Add("se", se)
	}
	return b.Done()
}

// normalQuantile is the standard normal inverse CDF.
func normalQuantile(p float64) float64 {
	return math.Sqrt2 * math.Erfinv(2*p-1)
}
