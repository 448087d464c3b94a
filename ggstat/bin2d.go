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

// Bin2D bins points on a two-dimensional grid, counting weighted
// occurrences per cell. Cells with no observations are omitted.
//
// The output has one row per occupied cell: x, y (cell centers),
// xmin, xmax, ymin, ymax, count, density.
type Bin2D struct {
	// XBins and YBins are the grid dimensions. Zero means 30.
	XBins, YBins int

	// XWidth and YWidth fix the cell size instead.
	XWidth, YWidth float64

	// Drop, when false, keeps zero-count cells.
	Drop *bool
}

func (b Bin2D) Name() string          { return "stat_bin2d" }
func (b Bin2D) RequiredAes() []string { return []string{"x", "y"} }

func (b Bin2D) Compute(ctx *gg.StatContext, t *table.Table) (*table.Table, error) {
	xs := colFloats(t, "x")
	ys := colFloats(t, "y")
	ws := weightsOf(t)

	xe, err := axisEdges(ctx.XRange, xs, b.XBins, b.XWidth, "x")
	if err != nil {
		return nil, err
	}
	ye, err := axisEdges(ctx.YRange, ys, b.YBins, b.YWidth, "y")
	if err != nil {
		return nil, err
	}

	nx, ny := len(xe)-1, len(ye)-1
	count := make([]float64, nx*ny)
	xfuzz := (xe[nx] - xe[0]) * 1e-8
	yfuzz := (ye[ny] - ye[0]) * 1e-8
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		cx := findBin(xe, xs[i], true, xfuzz)
		cy := findBin(ye, ys[i], true, yfuzz)
		if cx < 0 || cy < 0 {
			continue
		}
		count[cy*nx+cx] += ws[i]
	}

	total := floats.Sum(count)
	drop := b.Drop == nil || *b.Drop
	var x, y, xmin, xmax, ymin, ymax, cnt, density []float64
	for cy := 0; cy < ny; cy++ {
		for cx := 0; cx < nx; cx++ {
			c := count[cy*nx+cx]
			if c == 0 && drop {
				continue
			}
			x = append(x, (xe[cx]+xe[cx+1])/2)
			y = append(y, (ye[cy]+ye[cy+1])/2)
			xmin = append(xmin, xe[cx])
			xmax = append(xmax, xe[cx+1])
			ymin = append(ymin, ye[cy])
			ymax = append(ymax, ye[cy+1])
			cnt = append(cnt, c)
			area := (xe[cx+1] - xe[cx]) * (ye[cy+1] - ye[cy])
			if total > 0 && area > 0 {
				density = append(density, c/(total*area))
			} else {
				density = append(density, 0)
			}
		}
	}

	return new(table.Builder).
		Add("x", x).Add("y", y).
		Add("xmin", xmin).Add("xmax", xmax).
		Add("ymin", ymin).Add("ymax", ymax).
		Add("count", cnt).Add("density", density).
		Done(), nil
}

func axisEdges(r *gg.ContinuousRange, vs []float64, bins int, width float64, axis string) ([]float64, error) {
	lo, hi := bounds(vs)
	if r != nil && r.Trained() {
		lo, hi = r.Min, r.Max
	}
	if math.IsNaN(lo) {
		return nil, &gg.ConfigurationError{Param: axis, Detail: "no finite values to bin"}
	}
	if hi == lo {
		hi = lo + 1
	}
	if width <= 0 {
		if bins <= 0 {
			bins = 30
		}
		width = (hi - lo) / float64(bins)
	}
	var edges []float64
	for e := lo; ; e += width {
		edges = append(edges, e)
		if e >= hi {
			break
		}
	}
	return edges, nil
}
