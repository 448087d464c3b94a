// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggstat

import (
	"math"
	"testing"

	"github.com/aclements/go-gg/table"
)

func TestBin2D(t *testing.T) {
	in := new(table.Builder).
		Add("x", []float64{0, 0, 1.5, 0}).
		Add("y", []float64{0, 0, 0, 1.5}).
		Done()
	out, err := Bin2D{XWidth: 1, YWidth: 1}.Compute(statCtx(), in)
	if err != nil {
		t.Fatal(err)
	}

	// Three occupied cells out of four.
	if out.Len() != 3 {
		t.Fatalf("got %d cells, want 3 occupied", out.Len())
	}
	x := out.MustColumn("x").([]float64)
	y := out.MustColumn("y").([]float64)
	count := out.MustColumn("count").([]float64)
	density := out.MustColumn("density").([]float64)
	byCell := map[[2]float64]float64{}
	for i := range x {
		byCell[[2]float64{x[i], y[i]}] = count[i]
	}
	if byCell[[2]float64{0.5, 0.5}] != 2 {
		t.Errorf("cell (0.5,0.5) count = %v, want 2", byCell[[2]float64{0.5, 0.5}])
	}
	if byCell[[2]float64{1.5, 0.5}] != 1 || byCell[[2]float64{0.5, 1.5}] != 1 {
		t.Errorf("cells = %v", byCell)
	}

	// Density sums to 1 over cell areas.
	var integral float64
	for i := range density {
		integral += density[i] // unit cells
	}
	if math.Abs(integral-1) > 1e-12 {
		t.Errorf("density integral = %v, want 1", integral)
	}
}

func TestBin2DKeepEmpty(t *testing.T) {
	drop := false
	in := new(table.Builder).
		Add("x", []float64{0, 1.5}).
		Add("y", []float64{0, 1.5}).
		Done()
	out, err := Bin2D{XWidth: 1, YWidth: 1, Drop: &drop}.Compute(statCtx(), in)
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != 4 {
		t.Errorf("got %d cells, want the full 4-cell grid", out.Len())
	}
}
