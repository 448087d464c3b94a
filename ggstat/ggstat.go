// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ggstat implements layer statistics: transformations that
// replace a group's frame with derived columns before the geometry
// draws it. Each statistic is an option struct satisfying gg.Stat
// and is invoked once per panel and group subset.
//
// Statistics read aesthetic columns by name ("x", "y", "weight") and
// emit computed columns ("count", "density", ...) that mappings can
// request with the ..name.. convention.
package ggstat

import (
	"math"
	"sort"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"

	"github.com/plotgrammar/ggplot/gg"
)

var (
	_ gg.Stat = Bin{}
	_ gg.Stat = Bin2D{}
	_ gg.Stat = Density{}
	_ gg.Stat = Smooth{}
	_ gg.Stat = ECDF{}
	_ gg.Stat = Summary{}
	_ gg.Stat = SummaryBoot{}
	_ gg.Stat = Count{}
	_ gg.Stat = Sum{}
	_ gg.Stat = Unique{}
)

// colFloats extracts a column as []float64, converting numeric types.
func colFloats(t *table.Table, name string) []float64 {
	var xs []float64
	slice.Convert(&xs, t.MustColumn(name))
	return xs
}

// weightsOf returns the weight column, or unit weights.
func weightsOf(t *table.Table) []float64 {
	if t.Column("weight") == nil {
		ws := make([]float64, t.Len())
		for i := range ws {
			ws[i] = 1
		}
		return ws
	}
	return colFloats(t, "weight")
}

// floatQuantiles returns empirical quantiles of xs. xs is sorted in
// place.
func floatQuantiles(xs []float64, qs ...float64) []float64 {
	sort.Float64s(xs)
	vs := make([]float64, 0, len(qs))
	for _, q := range qs {
		i := int(q * float64(len(xs)))
		if i < 0 {
			i = 0
		} else if i >= len(xs) {
			i = len(xs) - 1
		}
		vs = append(vs, xs[i])
	}
	return vs
}

// bounds returns the finite min and max of xs, NaN for empty input.
func bounds(xs []float64) (min, max float64) {
	min, max = math.NaN(), math.NaN()
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		if math.IsNaN(min) || x < min {
			min = x
		}
		if math.IsNaN(max) || x > max {
			max = x
		}
	}
	return
}

// allIntegral reports whether every value is a whole number.
func allIntegral(xs []float64) bool {
	for _, x := range xs {
		if x != math.Trunc(x) {
			return false
		}
	}
	return len(xs) > 0
}
