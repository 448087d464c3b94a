// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggstat

import (
	"math"
	"reflect"
	"testing"

	"github.com/aclements/go-gg/table"
)

func TestCount(t *testing.T) {
	in := xTable([]float64{2, 1, 2, 2})
	out, err := Count{}.Compute(statCtx(), in)
	if err != nil {
		t.Fatal(err)
	}
	x := out.MustColumn("x").([]float64)
	count := out.MustColumn("count").([]float64)
	prop := out.MustColumn("prop").([]float64)
	if want := []float64{1, 2}; !reflect.DeepEqual(x, want) {
		t.Errorf("x = %v, want %v", x, want)
	}
	if want := []float64{1, 3}; !reflect.DeepEqual(count, want) {
		t.Errorf("count = %v, want %v", count, want)
	}
	if want := []float64{0.25, 0.75}; !reflect.DeepEqual(prop, want) {
		t.Errorf("prop = %v, want %v", prop, want)
	}
}

func TestCountWeighted(t *testing.T) {
	in := new(table.Builder).
		Add("x", []float64{1, 1, 2}).
		Add("weight", []float64{0.5, 0.5, 3}).
		Done()
	out, err := Count{}.Compute(statCtx(), in)
	if err != nil {
		t.Fatal(err)
	}
	count := out.MustColumn("count").([]float64)
	if want := []float64{1, 3}; !reflect.DeepEqual(count, want) {
		t.Errorf("weighted count = %v, want %v", count, want)
	}
}

func TestSum(t *testing.T) {
	in := new(table.Builder).
		Add("x", []float64{1, 2, 1}).
		Add("y", []float64{10, 5, 20}).
		Done()
	out, err := Sum{}.Compute(statCtx(), in)
	if err != nil {
		t.Fatal(err)
	}
	sums := out.MustColumn("sum").([]float64)
	if want := []float64{30, 5}; !reflect.DeepEqual(sums, want) {
		t.Errorf("sum = %v, want %v", sums, want)
	}
	prop := out.MustColumn("prop").([]float64)
	if math.Abs(prop[0]-30.0/35) > 1e-12 {
		t.Errorf("prop = %v", prop)
	}
}

func TestUnique(t *testing.T) {
	in := new(table.Builder).
		Add("a", []string{"x", "x", "y", "x"}).
		Add("b", []float64{1, 1, 1, 2}).
		Done()
	out, err := Unique{}.Compute(statCtx(), in)
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != 3 {
		t.Fatalf("unique kept %d rows, want 3", out.Len())
	}
	a := out.MustColumn("a").([]string)
	b := out.MustColumn("b").([]float64)
	if want := []string{"x", "y", "x"}; !reflect.DeepEqual(a, want) {
		t.Errorf("a = %v, want %v", a, want)
	}
	if want := []float64{1, 1, 2}; !reflect.DeepEqual(b, want) {
		t.Errorf("b = %v, want %v", b, want)
	}
}

func TestUniqueNoDuplicates(t *testing.T) {
	in := xTable([]float64{1, 2, 3})
	out, err := Unique{}.Compute(statCtx(), in)
	if err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("duplicate-free frame was rebuilt")
	}
}
