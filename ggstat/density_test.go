// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggstat

import (
	"math"
	"reflect"
	"testing"
)

// densitySample is a fixed, roughly bell-shaped sample.
func densitySample() []float64 {
	var xs []float64
	for i := 0; i < 40; i++ {
		// Sum of three phase-shifted sinusoids clusters values
		// around zero without randomness.
		f := float64(i)
		xs = append(xs, math.Sin(f)+math.Sin(2*f+1)+math.Sin(3*f+2))
	}
	return xs
}

func TestDensity(t *testing.T) {
	out, err := Density{}.Compute(statCtx(), xTable(densitySample()))
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != 512 {
		t.Fatalf("grid has %d points, want 512", out.Len())
	}
	x := out.MustColumn("x").([]float64)
	dens := out.MustColumn("density").([]float64)

	// The grid is increasing and wider than the data.
	lo, hi := bounds(densitySample())
	if x[0] >= lo || x[len(x)-1] <= hi {
		t.Errorf("grid [%v, %v] does not extend past the data [%v, %v]", x[0], x[len(x)-1], lo, hi)
	}
	for i := 1; i < len(x); i++ {
		if x[i] <= x[i-1] {
			t.Fatalf("grid is not increasing at %d", i)
		}
	}

	// The estimate is a density: nonnegative, integrating to about 1.
	var integral float64
	for i := 1; i < len(x); i++ {
		if dens[i] < 0 {
			t.Fatalf("negative density at x=%v", x[i])
		}
		integral += (dens[i] + dens[i-1]) / 2 * (x[i] - x[i-1])
	}
	if math.Abs(integral-1) > 0.05 {
		t.Errorf("density integrates to %v, want about 1", integral)
	}

	// scaled peaks at exactly 1.
	scaled := out.MustColumn("scaled").([]float64)
	peak := 0.0
	for _, v := range scaled {
		if v > peak {
			peak = v
		}
	}
	if peak != 1 {
		t.Errorf("scaled peak = %v, want 1", peak)
	}

	if n := out.MustColumn("n").([]float64)[0]; n != 40 {
		t.Errorf("n = %v, want 40", n)
	}
}

func TestDensityGridCount(t *testing.T) {
	out, err := Density{N: 64}.Compute(statCtx(), xTable(densitySample()))
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != 64 {
		t.Errorf("grid has %d points, want 64", out.Len())
	}
}

func TestDensityFewPoints(t *testing.T) {
	// Below three points there is no kernel estimate; each raw
	// point carries its normalized weight mass.
	ctx := statCtx()
	out, err := Density{}.Compute(ctx, xTable([]float64{3, 1}))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(out.MustColumn("x"), []float64{1, 3}) {
		t.Errorf("x = %v, want the sorted raw points", out.MustColumn("x"))
	}
	if !reflect.DeepEqual(out.MustColumn("density"), []float64{0.5, 0.5}) {
		t.Errorf("density = %v, want [0.5 0.5]", out.MustColumn("density"))
	}
	// count recovers each point's weight.
	if !reflect.DeepEqual(out.MustColumn("count"), []float64{1, 1}) {
		t.Errorf("count = %v, want [1 1]", out.MustColumn("count"))
	}
	if len(ctx.Warnings.Messages()) != 1 {
		t.Errorf("warnings = %v, want one", ctx.Warnings.Messages())
	}
}

func TestDensityEmpty(t *testing.T) {
	out, err := Density{}.Compute(statCtx(), xTable([]float64{}))
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("empty input produced %d rows", out.Len())
	}
}
