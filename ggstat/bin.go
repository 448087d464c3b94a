// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggstat

import (
	"math"

	"github.com/aclements/go-gg/table"
	"github.com/gonum/floats"

	"github.com/plotgrammar/ggplot/gg"
)

// Bin bins continuous x samples into intervals, counting weighted
// occurrences. It is the statistic behind histograms.
//
// Bin resolution: explicit Breaks win, then Width (aligned to
// Boundary or Center), then Bins equal-width bins over the x range.
// With nothing set, 30 bins are used and a warning suggests picking
// a width. Integral data with no explicit binning gets one
// unit-width bin per integer.
//
// The output has one row per bin, empty bins included: x (bin
// center), xmin, xmax, width, count, density, ncount, ndensity.
type Bin struct {
	// Breaks fixes the bin edges exactly. Must be sorted
	// ascending.
	Breaks []float64

	// Width is the bin width.
	Width float64

	// Bins is the number of equal-width bins.
	Bins int

	// Boundary aligns bin edges so one edge falls here. Center
	// aligns a bin center instead. At most one may be set.
	Boundary *float64
	Center   *float64

	// Closed selects which edge is closed: "right" (default) or
	// "left".
	Closed string
}

func (b Bin) Name() string          { return "stat_bin" }
func (b Bin) RequiredAes() []string { return []string{"x"} }

func (b Bin) Compute(ctx *gg.StatContext, t *table.Table) (*table.Table, error) {
	xs := colFloats(t, "x")
	ws := weightsOf(t)

	lo, hi := bounds(xs)
	if ctx.XRange != nil && ctx.XRange.Trained() {
		lo, hi = ctx.XRange.Min, ctx.XRange.Max
	}
	if math.IsNaN(lo) {
		return emptyBins(), nil
	}

	edges, err := b.edges(ctx, xs, lo, hi)
	if err != nil {
		return nil, err
	}
	if len(edges) < 2 {
		return nil, &gg.ConfigurationError{Param: "breaks", Detail: "need at least two bin edges"}
	}

	rightClosed := b.Closed != "left"
	// Fuzz bin edges so values landing exactly on an edge bin
	// predictably despite floating-point noise.
	fuzz := (edges[len(edges)-1] - edges[0]) * 1e-8
	n := len(edges) - 1
	count := make([]float64, n)
	for i, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		j := findBin(edges, x, rightClosed, fuzz)
		if j < 0 {
			continue
		}
		count[j] += ws[i]
	}

	total := floats.Sum(count)
	x := make([]float64, n)
	xmin := make([]float64, n)
	xmax := make([]float64, n)
	width := make([]float64, n)
	density := make([]float64, n)
	for i := 0; i < n; i++ {
		xmin[i], xmax[i] = edges[i], edges[i+1]
		x[i] = (edges[i] + edges[i+1]) / 2
		width[i] = edges[i+1] - edges[i]
		if total > 0 && width[i] > 0 {
			density[i] = count[i] / (total * width[i])
		}
	}
	maxCount := floats.Max(count)
	maxDensity := floats.Max(density)
	ncount := make([]float64, n)
	ndensity := make([]float64, n)
	for i := 0; i < n; i++ {
		if maxCount > 0 {
			ncount[i] = count[i] / maxCount
		}
		if maxDensity > 0 {
			ndensity[i] = density[i] / maxDensity
		}
	}

	return new(table.Builder).
		Add("x", x).
		Add("xmin", xmin).
		Add("xmax", xmax).
		Add("width", width).
		Add("count", count).
		Add("density", density).
		Add("ncount", ncount).
		Add("ndensity", ndensity).
		Done(), nil
}

func emptyBins() *table.Table {
	e := []float64{}
	return new(table.Builder).
		Add("x", e).Add("xmin", e).Add("xmax", e).Add("width", e).
		Add("count", e).Add("density", e).Add("ncount", e).Add("ndensity", e).
		Done()
}

func (b Bin) edges(ctx *gg.StatContext, xs []float64, lo, hi float64) ([]float64, error) {
	if b.Breaks != nil {
		for i := 1; i < len(b.Breaks); i++ {
			if b.Breaks[i] <= b.Breaks[i-1] {
				return nil, &gg.ConfigurationError{Param: "breaks", Detail: "bin edges must be strictly increasing"}
			}
		}
		return b.Breaks, nil
	}
	if b.Boundary != nil && b.Center != nil {
		return nil, &gg.ConfigurationError{Param: "boundary", Detail: "boundary and center are mutually exclusive"}
	}

	width := b.Width
	if width <= 0 {
		if b.Bins > 0 {
			if hi == lo {
				width = 1
			} else {
				width = (hi - lo) / float64(b.Bins)
			}
		} else if allIntegral(xs) {
			// One bin per integer, centered.
			width = 1
			c := 0.0
			b.Center = &c
		} else {
			ctx.Warnings.Warnf("stat_bin: using 30 bins; pick a better value with Width")
			if hi == lo {
				width = 1
			} else {
				width = (hi - lo) / 30
			}
		}
	}

	// Align the edge grid.
	origin := lo
	if b.Boundary != nil {
		origin = lo - math.Mod(lo-*b.Boundary, width)
	} else if b.Center != nil {
		origin = lo - math.Mod(lo-(*b.Center-width/2), width)
	}
	if origin > lo {
		origin -= width
	}

	var edges []float64
	for e := origin; ; e += width {
		edges = append(edges, e)
		if e >= hi {
			break
		}
	}
	if len(edges) == 1 {
		// Degenerate data on the origin still gets one bin.
		edges = append(edges, edges[0]+width)
	}
	return edges, nil
}

// findBin locates x's bin in sorted edges, -1 if outside. With
// right-closed bins, intervals are (lo, hi] and the first bin also
// includes its left edge; left-closed is the mirror image.
func findBin(edges []float64, x float64, rightClosed bool, fuzz float64) int {
	n := len(edges) - 1
	if rightClosed {
		if x < edges[0]-fuzz || x > edges[n]+fuzz {
			return -1
		}
		for j := 1; j <= n; j++ {
			if x <= edges[j]+fuzz {
				return j - 1
			}
		}
		return n - 1
	}
	if x < edges[0]-fuzz || x > edges[n]+fuzz {
		return -1
	}
	for j := n - 1; j >= 0; j-- {
		if x >= edges[j]-fuzz {
			return j
		}
	}
	return 0
}
