// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggstat

import (
	"math"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-moremath/vec"

	"github.com/plotgrammar/ggplot/gg"
)

// Density estimates a probability density from x samples by kernel
// density estimation, weighted when a weight column is present.
//
// The output is an evaluation grid: x, density, scaled (density
// normalized to peak 1), count (density times sample weight), and n
// (the sample count).
type Density struct {
	// N is the number of grid points. Zero means 512.
	N int

	// Kernel selects the smoothing kernel.
	Kernel stats.KDEKernel

	// Bandwidth fixes the kernel bandwidth. Zero estimates it
	// from the data (Scott's rule).
	Bandwidth float64

	// Adjust multiplies the estimated bandwidth.
	Adjust float64

	// BoundaryMethod and the boundary bounds pass through to the
	// estimator for bounded supports.
	BoundaryMethod stats.KDEBoundaryMethod
	BoundaryMin    float64
	BoundaryMax    float64

	// Cut widens the grid beyond the data by this many
	// bandwidths. Zero means 3.
	Cut float64
}

func (d Density) Name() string          { return "stat_density" }
func (d Density) RequiredAes() []string { return []string{"x"} }

func (d Density) Compute(ctx *gg.StatContext, t *table.Table) (*table.Table, error) {
	if d.N == 0 {
		d.N = 512
	}
	if d.Cut == 0 {
		d.Cut = 3
	}
	if d.Adjust == 0 {
		d.Adjust = 1
	}

	sample := stats.Sample{Xs: colFloats(t, "x")}
	if t.Column("weight") != nil {
		sample.Weights = weightsOf(t)
	}
	n := float64(t.Len())

	min, max := sample.Bounds()
	if math.IsNaN(min) {
		e := []float64{}
		return new(table.Builder).
			Add("x", e).Add("density", e).Add("scaled", e).Add("count", e).Add("n", e).
			Done(), nil
	}

	if t.Len() < 3 {
		// Too few points for a kernel estimate: place each
		// point's normalized weight mass on the point itself.
		ctx.Warnings.Warnf("stat_density: group has fewer than 3 points; placing weight mass on the raw points")
		xs := append([]float64(nil), sample.Xs...)
		ws := make([]float64, len(xs))
		for i := range ws {
			ws[i] = 1
			if sample.Weights != nil {
				ws[i] = sample.Weights[i]
			}
		}
		if len(xs) == 2 && xs[0] > xs[1] {
			xs[0], xs[1] = xs[1], xs[0]
			ws[0], ws[1] = ws[1], ws[0]
		}
		total := sample.Weight()
		dens := make([]float64, len(xs))
		for i, w := range ws {
			dens[i] = w / total
		}
		return densityTable(xs, dens, total, n), nil
	}

	bw := d.Bandwidth
	if bw == 0 {
		bw = stats.BandwidthScott(sample)
	}
	bw *= d.Adjust

	kde := stats.KDE{
		Sample:         sample,
		Kernel:         d.Kernel,
		Bandwidth:      bw,
		BoundaryMethod: d.BoundaryMethod,
		BoundaryMin:    d.BoundaryMin,
		BoundaryMax:    d.BoundaryMax,
	}

	lo, hi := min-d.Cut*bw, max+d.Cut*bw
	if ctx.XRange != nil && ctx.XRange.Trained() {
		// A trained shared range keeps grids comparable across
		// groups so densities can stack.
		if ctx.XRange.Min < lo {
			lo = ctx.XRange.Min
		}
		if ctx.XRange.Max > hi {
			hi = ctx.XRange.Max
		}
	}
	grid := vec.Linspace(lo, hi, d.N)
	return densityTable(grid, vec.Map(kde.PDF, grid), sample.Weight(), n), nil
}

func densityTable(grid, dens []float64, weight, n float64) *table.Table {
	peak := 0.0
	for _, v := range dens {
		if v > peak {
			peak = v
		}
	}
	scaled := make([]float64, len(dens))
	count := make([]float64, len(dens))
	ns := make([]float64, len(dens))
	for i, v := range dens {
		if peak > 0 {
			scaled[i] = v / peak
		}
		count[i] = v * weight
		ns[i] = n
	}
	return new(table.Builder).
		Add("x", grid).
		Add("density", dens).
		Add("scaled", scaled).
		Add("count", count).
		Add("n", ns).
		Done()
}
