// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gg

import (
	"image/color"
	"math"
	"reflect"
	"testing"

	"github.com/plotgrammar/ggplot/transform"
)

func TestContinuousRange(t *testing.T) {
	var r ContinuousRange
	if r.Trained() {
		t.Fatalf("new range claims trained")
	}
	r.Train([]float64{3, 1, math.NaN(), 2})
	if r.Min != 1 || r.Max != 3 {
		t.Fatalf("range = [%v, %v], want [1, 3]", r.Min, r.Max)
	}
	// Training only grows the range.
	r.Train([]float64{2, 2.5})
	if r.Min != 1 || r.Max != 3 {
		t.Errorf("range shrank to [%v, %v]", r.Min, r.Max)
	}
	r.Train([]float64{-1, 10, math.Inf(1)})
	if r.Min != -1 || r.Max != 10 {
		t.Errorf("range = [%v, %v], want [-1, 10]", r.Min, r.Max)
	}
	r.Reset()
	if r.Trained() {
		t.Errorf("reset range still trained")
	}
}

func TestDiscreteRangeOrder(t *testing.T) {
	var r DiscreteRange
	r.Train([]string{"b", "a", "b", "c"}, nil, false)
	if want := []string{"b", "a", "c"}; !reflect.DeepEqual(r.Levels(), want) {
		t.Fatalf("levels = %v, want first-seen %v", r.Levels(), want)
	}

	// A declared ordering wins and persists across later training.
	r.Train([]string{"a", "c"}, []string{"a", "b", "c"}, false)
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(r.Levels(), want) {
		t.Fatalf("levels = %v, want declared %v", r.Levels(), want)
	}
	r.Train([]string{"z", "a"}, nil, false)
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(r.Levels(), want) {
		t.Errorf("declared order lost: %v", r.Levels())
	}
}

func TestDiscreteRangeDrop(t *testing.T) {
	var r DiscreteRange
	r.Train([]string{"mid", "low"}, []string{"low", "mid", "high"}, true)
	if want := []string{"low", "mid"}; !reflect.DeepEqual(r.Levels(), want) {
		t.Errorf("levels = %v, want %v", r.Levels(), want)
	}
}

func TestNormalize(t *testing.T) {
	s, err := DefaultScale("color", KindContinuous)
	if err != nil {
		t.Fatal(err)
	}
	s.TrainContinuous([]float64{0, 10})

	got := s.Normalize([]float64{0, 5, 10})
	want := []float64{0, 0.5, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Normalize[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	// Out-of-bounds values censor to NaN.
	oob := s.Normalize([]float64{-1, 11})
	for i, v := range oob {
		if !math.IsNaN(v) {
			t.Errorf("out-of-bounds value %d normalized to %v, want NaN", i, v)
		}
	}

	// Values land on the quantization grid.
	for _, v := range s.Normalize([]float64{1.2345, 6.789}) {
		q := v * paletteSteps
		if math.Abs(q-math.Round(q)) > 1e-9 {
			t.Errorf("normalized %v not on 1/%d grid", v, paletteSteps)
		}
	}
}

func TestMapVisualDiscrete(t *testing.T) {
	s, err := DefaultScale("color", KindDiscrete)
	if err != nil {
		t.Fatal(err)
	}
	s.TrainDiscrete([]string{"low", "mid", "high"}, nil, false)
	s.PaletteD = func(n int) ([]interface{}, error) {
		pal := []interface{}{"A", "B", "C"}
		return pal[:n], nil
	}

	got, err := s.MapVisual([]string{"high", "low"})
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != "C" || got[1] != "A" {
		t.Errorf("mapped = %v, want [C A]", got)
	}

	// An untrained level maps to the NA value.
	got, err = s.MapVisual([]string{"absent"})
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != s.NA {
		t.Errorf("unknown level mapped to %v, want NA %v", got[0], s.NA)
	}
}

func TestDimension(t *testing.T) {
	s, _ := DefaultScale("x", KindContinuous)
	s.TrainContinuous([]float64{0, 10})
	lo, hi := s.Dimension(nil)
	if lo != -0.5 || hi != 10.5 {
		t.Errorf("continuous dimension = [%v, %v], want [-0.5, 10.5]", lo, hi)
	}

	d, _ := DefaultScale("x", KindDiscrete)
	d.TrainDiscrete([]string{"a", "b", "c"}, nil, false)
	lo, hi = d.Dimension(nil)
	if math.Abs(lo-0.4) > 1e-9 || math.Abs(hi-3.6) > 1e-9 {
		t.Errorf("discrete dimension = [%v, %v], want [0.4, 3.6]", lo, hi)
	}
}

func TestScaleTransform(t *testing.T) {
	s, _ := DefaultScale("x", KindContinuous)
	s.Trans = transform.Log(10)
	s.TrainContinuous([]float64{1, 1000})
	lo, hi := s.limits()
	// The forward transform is math.Log(x)/math.Log(10), so the
	// limits carry floating point error.
	if math.Abs(lo-0) > 1e-9 || math.Abs(hi-3) > 1e-9 {
		t.Errorf("log limits = [%v, %v], want [0, 3]", lo, hi)
	}
	for _, b := range s.GetBreaks() {
		if b < 1-1e-6 || b > 1000+1e-6 {
			t.Errorf("break %v outside data range", b)
		}
	}
}

func TestGetLabelsMismatch(t *testing.T) {
	s, _ := DefaultScale("x", KindContinuous)
	s.Labels = []string{"one"}
	_, err := s.GetLabels([]float64{1, 2})
	if err == nil {
		t.Fatalf("mismatched labels did not fail")
	}
	if _, ok := err.(*ConfigurationError); !ok {
		t.Errorf("error %T is not a *ConfigurationError", err)
	}
}

func TestDefaultScaleKinds(t *testing.T) {
	// A continuous shape mapping is rejected outright.
	if _, err := DefaultScale("shape", KindContinuous); err == nil {
		t.Errorf("continuous shape scale did not fail")
	}
	if _, err := DefaultScale("linetype", KindContinuous); err == nil {
		t.Errorf("continuous linetype scale did not fail")
	}

	s, err := DefaultScale("fill", KindContinuous)
	if err != nil {
		t.Fatal(err)
	}
	if s.PaletteC == nil {
		t.Errorf("continuous fill scale has no continuous palette")
	}
	if _, ok := s.PaletteC(0.5).(color.Color); !ok {
		t.Errorf("fill palette does not produce colors")
	}

	s, err = DefaultScale("size", KindContinuous)
	if err != nil {
		t.Fatal(err)
	}
	if v := s.PaletteC(1.0); v.(float64) != 6 {
		t.Errorf("size palette at 1 = %v, want 6", v)
	}
}

func TestScalesFamily(t *testing.T) {
	var ss Scales
	s, err := ss.Ensure("xmin", KindContinuous)
	if err != nil {
		t.Fatal(err)
	}
	if got := ss.Find("xmax"); got != s {
		t.Errorf("xmin and xmax resolved to different scales")
	}
	if got := ss.Find("y"); got != nil {
		t.Errorf("y unexpectedly has a scale")
	}

	// Adding a replacement scale displaces the family's existing
	// one.
	repl, _ := DefaultScale("x", KindContinuous)
	ss.Add(repl)
	if got := ss.Find("x"); got != repl {
		t.Errorf("replacement scale not found")
	}
	if n := len(ss.All()); n != 1 {
		t.Errorf("scale list has %d entries, want 1", n)
	}
}
