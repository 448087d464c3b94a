// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggstat

import (
	"sort"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/vec"
	"github.com/gonum/floats"

	"github.com/plotgrammar/ggplot/gg"
)

// ECDF computes the weighted empirical cumulative distribution of x.
//
// The output has one row per distinct x value, or per grid point when
// N is set, plus two sentinel rows
// pinning the curve at 0 and 1 beyond the data, so step rendering
// shows where the distribution starts and ends. Columns: x, ecdf.
type ECDF struct {
	// Pad disables the sentinel rows when set false explicitly.
	Pad *bool

	// N, when positive, evaluates the step function on an evenly
	// spaced N-point grid over the data range instead of at the
	// distinct values.
	N int
}

func (e ECDF) Name() string          { return "stat_ecdf" }
func (e ECDF) RequiredAes() []string { return []string{"x"} }

func (e ECDF) Compute(ctx *gg.StatContext, t *table.Table) (*table.Table, error) {
	xs := colFloats(t, "x")
	ws := weightsOf(t)
	if len(xs) == 0 {
		z := []float64{}
		return new(table.Builder).Add("x", z).Add("ecdf", z).Done(), nil
	}

	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return xs[idx[i]] < xs[idx[j]] })

	var xo, cum []float64
	total := floats.Sum(ws)
	run := 0.0
	for i := 0; i < len(idx); {
		j := i
		for j < len(idx) && xs[idx[i]] == xs[idx[j]] {
			run += ws[idx[j]]
			j++
		}
		xo = append(xo, xs[idx[i]])
		cum = append(cum, run/total)
		i = j
	}

	if e.N > 0 && len(xo) > 1 {
		grid := vec.Linspace(xo[0], xo[len(xo)-1], e.N)
		vals := make([]float64, len(grid))
		j := 0
		for i, g := range grid {
			for j+1 < len(xo) && xo[j+1] <= g {
				j++
			}
			vals[i] = cum[j]
		}
		xo, cum = grid, vals
	}

	if e.Pad == nil || *e.Pad {
		// The sentinel offset is the larger of 8% of the data
		// span and the median step between distinct values, so
		// it is visible for both dense and sparse data.
		pad := 0.08 * (xo[len(xo)-1] - xo[0])
		if step := medianStep(xo); step > pad {
			pad = step
		}
		if pad == 0 {
			pad = 1
		}
		xo = append([]float64{xo[0] - pad}, append(xo, xo[len(xo)-1]+pad)...)
		cum = append([]float64{0}, append(cum, 1)...)
	}

	return new(table.Builder).Add("x", xo).Add("ecdf", cum).Done(), nil
}

func medianStep(sorted []float64) float64 {
	if len(sorted) < 2 {
		return 0
	}
	steps := make([]float64, len(sorted)-1)
	for i := range steps {
		steps[i] = sorted[i+1] - sorted[i]
	}
	sort.Float64s(steps)
	return steps[len(steps)/2]
}
