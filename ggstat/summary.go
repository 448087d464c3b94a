// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggstat

import (
	"math/rand"
	"sort"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"

	"github.com/plotgrammar/ggplot/gg"
)

// Summary aggregates y per distinct x with a summary function.
//
// The output has one row per distinct x: x, y, and, when the
// interval functions are set, ymin and ymax.
type Summary struct {
	// Fn is the point summary. Nil means the mean.
	Fn func(ys []float64) float64

	// FnMin and FnMax compute the interval ends. Both nil omits
	// the interval columns.
	FnMin, FnMax func(ys []float64) float64
}

func (s Summary) Name() string          { return "stat_summary" }
func (s Summary) RequiredAes() []string { return []string{"x", "y"} }

func (s Summary) Compute(ctx *gg.StatContext, t *table.Table) (*table.Table, error) {
	fn := s.Fn
	if fn == nil {
		fn = func(ys []float64) float64 { return stats.Mean(ys) }
	}
	xs, groups := groupByX(t)
	y := make([]float64, len(xs))
	var ymin, ymax []float64
	if s.FnMin != nil || s.FnMax != nil {
		ymin = make([]float64, len(xs))
		ymax = make([]float64, len(xs))
	}
	for i, ys := range groups {
		y[i] = fn(ys)
		if ymin != nil {
			ymin[i], ymax[i] = y[i], y[i]
			if s.FnMin != nil {
				ymin[i] = s.FnMin(ys)
			}
			if s.FnMax != nil {
				ymax[i] = s.FnMax(ys)
			}
		}
	}
	b := new(table.Builder).Add("x", xs).Add("y", y)
	if ymin != nil {
		b.Add("ymin", ymin).Add("ymax", ymax)
	}
	return b.Done(), nil
}

// SummaryBoot aggregates y per distinct x and derives a confidence
// interval for the summary by bootstrap resampling. Resampling is
// seeded, so a build is reproducible.
//
// The output has one row per distinct x: x, y, ymin, ymax.
type SummaryBoot struct {
	// Fn is the point summary. Nil means the mean.
	Fn func(ys []float64) float64

	// R is the number of resamples. Zero means 1000.
	R int

	// Level is the confidence level. Zero means 0.95.
	Level float64

	// Seed seeds the resampling generator.
	Seed int64
}

func (s SummaryBoot) Name() string          { return "stat_summary_boot" }
func (s SummaryBoot) RequiredAes() []string { return []string{"x", "y"} }

func (s SummaryBoot) Compute(ctx *gg.StatContext, t *table.Table) (*table.Table, error) {
	fn := s.Fn
	if fn == nil {
		fn = func(ys []float64) float64 { return stats.Mean(ys) }
	}
	r := s.R
	if r == 0 {
		r = 1000
	}
	level := s.Level
	if level == 0 {
		level = 0.95
	}
	rng := rand.New(rand.NewSource(s.Seed))

	xs, groups := groupByX(t)
	y := make([]float64, len(xs))
	ymin := make([]float64, len(xs))
	ymax := make([]float64, len(xs))
	alpha := (1 - level) / 2
	for i, ys := range groups {
		y[i] = fn(ys)
		if len(ys) < 2 {
			ymin[i], ymax[i] = y[i], y[i]
			ctx.Warnings.Warnf("stat_summary_boot: a group has fewer than 2 observations; interval collapsed")
			continue
		}
		boots := make([]float64, r)
		resample := make([]float64, len(ys))
		for b := range boots {
			for j := range resample {
				resample[j] = ys[rng.Intn(len(ys))]
			}
			boots[b] = fn(resample)
		}
		qs := floatQuantiles(boots, alpha, 1-alpha)
		ymin[i], ymax[i] = qs[0], qs[1]
	}
	return new(table.Builder).
		Add("x", xs).Add("y", y).Add("ymin", ymin).Add("ymax", ymax).
		Done(), nil
}

// groupByX partitions y by distinct x in ascending x order.
func groupByX(t *table.Table) (xs []float64, groups [][]float64) {
	x := colFloats(t, "x")
	y := colFloats(t, "y")
	byX := make(map[float64][]float64)
	for i := range x {
		byX[x[i]] = append(byX[x[i]], y[i])
	}
	for v := range byX {
		xs = append(xs, v)
	}
	sort.Float64s(xs)
	groups = make([][]float64, len(xs))
	for i, v := range xs {
		groups[i] = byX[v]
	}
	return
}
