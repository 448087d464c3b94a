// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggstat

import (
	"math"
	"testing"

	"github.com/plotgrammar/ggplot/gg"
)

func lineData(n int) ([]float64, []float64) {
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
		ys[i] = 2*xs[i] + 1
	}
	return xs, ys
}

func TestSmoothLM(t *testing.T) {
	xs, ys := lineData(10)
	out, err := Smooth{Method: "lm"}.Compute(statCtx(), xyTable(xs, ys))
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != 80 {
		t.Fatalf("grid has %d points, want 80", out.Len())
	}
	gx := out.MustColumn("x").([]float64)
	gy := out.MustColumn("y").([]float64)
	for i := range gx {
		if want := 2*gx[i] + 1; math.Abs(gy[i]-want) > 1e-6 {
			t.Fatalf("fit(%v) = %v, want %v", gx[i], gy[i], want)
		}
	}
	// A perfect fit has a zero-width band.
	se := out.MustColumn("se").([]float64)
	ymin := out.MustColumn("ymin").([]float64)
	ymax := out.MustColumn("ymax").([]float64)
	for i := range se {
		if se[i] > 1e-6 || ymax[i]-ymin[i] > 1e-5 {
			t.Fatalf("band at %v = [%v, %v] se %v, want degenerate", gx[i], ymin[i], ymax[i], se[i])
		}
	}
}

func TestSmoothLMBand(t *testing.T) {
	// Noisy data gets a band that widens away from the center.
	xs := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	ys := []float64{1, 3, 2, 4, 3, 5, 4, 6, 5, 7}
	out, err := Smooth{Method: "lm"}.Compute(statCtx(), xyTable(xs, ys))
	if err != nil {
		t.Fatal(err)
	}
	se := out.MustColumn("se").([]float64)
	mid := len(se) / 2
	if !(se[0] > se[mid] && se[len(se)-1] > se[mid]) {
		t.Errorf("se ends %v, %v not wider than center %v", se[0], se[len(se)-1], se[mid])
	}
	for i := range se {
		if se[i] <= 0 {
			t.Errorf("se[%d] = %v, want positive", i, se[i])
		}
	}
}

func TestSmoothLOESS(t *testing.T) {
	xs, ys := lineData(20)
	out, err := Smooth{}.Compute(statCtx(), xyTable(xs, ys))
	if err != nil {
		t.Fatal(err)
	}
	gx := out.MustColumn("x").([]float64)
	gy := out.MustColumn("y").([]float64)
	// A local polynomial fit reproduces linear data.
	for i := range gx {
		if want := 2*gx[i] + 1; math.Abs(gy[i]-want) > 1e-6 {
			t.Fatalf("loess(%v) = %v, want %v", gx[i], gy[i], want)
		}
	}
	// An exact fit leaves no residual spread, so the dispersion
	// band collapses onto the curve.
	ymin := out.MustColumn("ymin").([]float64)
	ymax := out.MustColumn("ymax").([]float64)
	for i := range gy {
		if math.Abs(ymin[i]-gy[i]) > 1e-6 || math.Abs(ymax[i]-gy[i]) > 1e-6 {
			t.Fatalf("band at %v = [%v, %v], want degenerate at %v", gx[i], ymin[i], ymax[i], gy[i])
		}
	}
}

func TestSmoothLOESSBand(t *testing.T) {
	// Scattered data gets a symmetric dispersion band around the
	// smooth.
	xs := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	ys := []float64{1, 3, 2, 4, 3, 5, 4, 6, 5, 7}
	out, err := Smooth{}.Compute(statCtx(), xyTable(xs, ys))
	if err != nil {
		t.Fatal(err)
	}
	gy := out.MustColumn("y").([]float64)
	ymin := out.MustColumn("ymin").([]float64)
	ymax := out.MustColumn("ymax").([]float64)
	se := out.MustColumn("se").([]float64)
	for i := range gy {
		if !(ymin[i] < gy[i] && gy[i] < ymax[i]) {
			t.Fatalf("band [%v, %v] does not bracket y %v", ymin[i], ymax[i], gy[i])
		}
		if se[i] <= 0 {
			t.Fatalf("se[%d] = %v, want positive", i, se[i])
		}
	}
}

func TestSmoothBandDisabled(t *testing.T) {
	xs, ys := lineData(10)
	for _, method := range []string{"lm", "loess", "ma"} {
		out, err := Smooth{Method: method, Level: -1}.Compute(statCtx(), xyTable(xs, ys))
		if err != nil {
			t.Fatal(err)
		}
		if out.Column("ymin") != nil || out.Column("se") != nil {
			t.Errorf("%s with a negative level still produced a band", method)
		}
	}
}

func TestSmoothLOESSFallback(t *testing.T) {
	// Three points cannot support a local quadratic; the fit falls
	// back to a line with a warning.
	ctx := statCtx()
	out, err := Smooth{}.Compute(ctx, xyTable([]float64{0, 1, 2}, []float64{1, 3, 5}))
	if err != nil {
		t.Fatal(err)
	}
	gy := out.MustColumn("y").([]float64)
	gx := out.MustColumn("x").([]float64)
	for i := range gx {
		if want := 2*gx[i] + 1; math.Abs(gy[i]-want) > 1e-6 {
			t.Fatalf("fallback fit(%v) = %v, want %v", gx[i], gy[i], want)
		}
	}
	if len(ctx.Warnings.Messages()) != 1 {
		t.Errorf("warnings = %v, want one", ctx.Warnings.Messages())
	}
}

func TestSmoothMovingAverage(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4}
	ys := []float64{5, 5, 5, 5, 5}
	out, err := Smooth{Method: "ma", N: 10}.Compute(statCtx(), xyTable(xs, ys))
	if err != nil {
		t.Fatal(err)
	}
	gy := out.MustColumn("y").([]float64)
	ymin := out.MustColumn("ymin").([]float64)
	ymax := out.MustColumn("ymax").([]float64)
	for i, y := range gy {
		if y != 5 {
			t.Errorf("ma[%d] = %v, want 5", i, y)
		}
		// Constant data has no residual spread.
		if ymin[i] != 5 || ymax[i] != 5 {
			t.Errorf("ma band[%d] = [%v, %v], want degenerate at 5", i, ymin[i], ymax[i])
		}
	}
}

func TestSmoothUnknownMethod(t *testing.T) {
	xs, ys := lineData(5)
	_, err := Smooth{Method: "spline"}.Compute(statCtx(), xyTable(xs, ys))
	if err == nil {
		t.Fatalf("unknown method did not fail")
	}
	if _, ok := err.(*gg.ConfigurationError); !ok {
		t.Errorf("error %T is not a *gg.ConfigurationError", err)
	}
}

func TestSmoothDegenerate(t *testing.T) {
	ctx := statCtx()
	out, err := Smooth{}.Compute(ctx, xyTable([]float64{1}, []float64{1}))
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("single point produced %d rows", out.Len())
	}

	out, err = Smooth{}.Compute(ctx, xyTable([]float64{2, 2, 2}, []float64{1, 2, 3}))
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("constant x produced %d rows", out.Len())
	}
	if len(ctx.Warnings.Messages()) != 2 {
		t.Errorf("warnings = %v, want two", ctx.Warnings.Messages())
	}
}
