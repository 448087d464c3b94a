// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggstat

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/gonum/floats"

	"github.com/plotgrammar/ggplot/gg"
)

// Count counts weighted observations per distinct x. It is the
// statistic behind bar charts of raw observations.
//
// The output has one row per distinct x: x, count, prop (the
// fraction of the group's weight at that x).
type Count struct{}

func (Count) Name() string          { return "stat_count" }
func (Count) RequiredAes() []string { return []string{"x"} }

func (Count) Compute(ctx *gg.StatContext, t *table.Table) (*table.Table, error) {
	return tallyX(t, func(ws []float64) float64 { return floats.Sum(ws) })
}

// Sum sums the y values per distinct x, weighted. The output has one
// row per distinct x: x, sum, prop.
type Sum struct{}

func (Sum) Name() string          { return "stat_sum" }
func (Sum) RequiredAes() []string { return []string{"x", "y"} }

func (Sum) Compute(ctx *gg.StatContext, t *table.Table) (*table.Table, error) {
	xs := colFloats(t, "x")
	ys := colFloats(t, "y")
	ws := weightsOf(t)
	byX := make(map[float64]float64)
	for i := range xs {
		byX[xs[i]] += ys[i] * ws[i]
	}
	var keys []float64
	for v := range byX {
		keys = append(keys, v)
	}
	sort.Float64s(keys)
	sums := make([]float64, len(keys))
	for i, k := range keys {
		sums[i] = byX[k]
	}
	total := floats.Sum(sums)
	prop := make([]float64, len(keys))
	for i := range prop {
		if total != 0 {
			prop[i] = sums[i] / total
		}
	}
	return new(table.Builder).
		Add("x", keys).Add("sum", sums).Add("prop", prop).
		Done(), nil
}

func tallyX(t *table.Table, agg func(ws []float64) float64) (*table.Table, error) {
	xs := colFloats(t, "x")
	ws := weightsOf(t)
	byX := make(map[float64][]float64)
	for i := range xs {
		byX[xs[i]] = append(byX[xs[i]], ws[i])
	}
	var keys []float64
	for v := range byX {
		keys = append(keys, v)
	}
	sort.Float64s(keys)
	count := make([]float64, len(keys))
	for i, k := range keys {
		count[i] = agg(byX[k])
	}
	total := floats.Sum(count)
	prop := make([]float64, len(keys))
	for i := range prop {
		if total != 0 {
			prop[i] = count[i] / total
		}
	}
	return new(table.Builder).
		Add("x", keys).Add("count", count).Add("prop", prop).
		Done(), nil
}

// Unique drops duplicate rows, comparing every column.
type Unique struct{}

func (Unique) Name() string          { return "stat_unique" }
func (Unique) RequiredAes() []string { return nil }

func (Unique) Compute(ctx *gg.StatContext, t *table.Table) (*table.Table, error) {
	n := t.Len()
	keys := make([]string, n)
	for _, col := range t.Columns() {
		seq := reflect.ValueOf(t.MustColumn(col))
		for i := 0; i < n; i++ {
			keys[i] += fmt.Sprintf("%v\x00", seq.Index(i).Interface())
		}
	}
	seen := make(map[string]bool, n)
	var keep []int
	for i, k := range keys {
		if !seen[k] {
			seen[k] = true
			keep = append(keep, i)
		}
	}
	if len(keep) == n {
		return t, nil
	}
	b := new(table.Builder)
	for _, col := range t.Columns() {
		b.Add(col, slice.Select(t.MustColumn(col), keep))
	}
	return b.Done(), nil
}
