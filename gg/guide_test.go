// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gg

import (
	"image/color"
	"reflect"
	"sort"
	"testing"
)

// guideLayer builds a minimal layer whose aesthetics() reports the
// given mapped aesthetics.
func guideLayer(aes ...string) *layerData {
	m := make(Aes)
	for _, a := range aes {
		m[a] = a
	}
	return &layerData{layer: &Layer{Geom: GeomPoint{}}, mapping: m}
}

func discreteColorScale(t *testing.T, aes string, levels ...string) *Scale {
	t.Helper()
	s, err := DefaultScale(aes, KindDiscrete)
	if err != nil {
		t.Fatal(err)
	}
	s.TrainDiscrete(levels, nil, false)
	return s
}

func TestBuildGuideLegend(t *testing.T) {
	s := discreteColorScale(t, "color", "a", "b", "c")
	g, err := buildGuide(s, []*layerData{guideLayer("color")})
	if err != nil {
		t.Fatal(err)
	}
	if g.Kind != GuideLegend {
		t.Fatalf("guide kind = %v, want legend", g.Kind)
	}
	if g.Title != "color" {
		t.Errorf("title = %q, want default aesthetic name", g.Title)
	}
	if len(g.Entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(g.Entries))
	}
	for i, want := range []string{"a", "b", "c"} {
		if g.Entries[i].Label != want {
			t.Errorf("entry %d label = %q, want %q", i, g.Entries[i].Label, want)
		}
		if _, ok := g.Entries[i].Values["color"].(color.Color); !ok {
			t.Errorf("entry %d has no color value", i)
		}
	}
}

func TestBuildGuideColorbar(t *testing.T) {
	s, err := DefaultScale("color", KindContinuous)
	if err != nil {
		t.Fatal(err)
	}
	s.TrainContinuous([]float64{0, 100})
	g, err := buildGuide(s, []*layerData{guideLayer("color")})
	if err != nil {
		t.Fatal(err)
	}
	if g.Kind != GuideColorbar {
		t.Fatalf("continuous color guide kind = %v, want colorbar", g.Kind)
	}
	if g.Min != 0 || g.Max != 100 {
		t.Errorf("colorbar range = [%v, %v], want [0, 100]", g.Min, g.Max)
	}
	if len(g.Colors) == 0 {
		t.Errorf("colorbar has no gradient samples")
	}
	if len(g.Breaks) == 0 || len(g.Labels) != len(g.Breaks) {
		t.Errorf("breaks/labels = %d/%d", len(g.Breaks), len(g.Labels))
	}
}

func TestBuildGuideNone(t *testing.T) {
	s := discreteColorScale(t, "color", "a")
	s.Guide = "none"
	g, err := buildGuide(s, []*layerData{guideLayer("color")})
	if err != nil {
		t.Fatal(err)
	}
	if g != nil {
		t.Errorf("suppressed guide was built anyway")
	}
}

func TestBuildGuideUnusedAesthetic(t *testing.T) {
	// A scale whose aesthetic no layer maps contributes no guide.
	s := discreteColorScale(t, "linetype", "a", "b")
	g, err := buildGuide(s, []*layerData{guideLayer("color")})
	if err != nil {
		t.Fatal(err)
	}
	if g != nil {
		t.Errorf("guide built for unmapped aesthetic")
	}
}

func TestBuildGuidesMerge(t *testing.T) {
	var ss Scales
	sc := discreteColorScale(t, "color", "a", "b")
	sc.Name = "grp"
	sf := discreteColorScale(t, "fill", "a", "b")
	sf.Name = "grp"
	ss.Add(sc)
	ss.Add(sf)

	layers := []*layerData{guideLayer("color", "fill")}
	gs, err := buildGuides(&ss, layers)
	if err != nil {
		t.Fatal(err)
	}
	if len(gs) != 1 {
		t.Fatalf("got %d guides, want 1 merged", len(gs))
	}
	g := gs[0]
	aes := append([]string(nil), g.Aesthetics...)
	sort.Strings(aes)
	if want := []string{"color", "fill"}; !reflect.DeepEqual(aes, want) {
		t.Errorf("merged aesthetics = %v, want %v", aes, want)
	}
	for _, e := range g.Entries {
		if e.Values["color"] == nil || e.Values["fill"] == nil {
			t.Errorf("entry %q missing a merged value", e.Label)
		}
	}
}

func TestBuildGuidesTitleConflict(t *testing.T) {
	var ss Scales
	sc := discreteColorScale(t, "color", "a", "b")
	sc.Name = "grp"
	sf := discreteColorScale(t, "fill", "x", "y", "z")
	sf.Name = "grp"
	ss.Add(sc)
	ss.Add(sf)

	layers := []*layerData{guideLayer("color", "fill")}
	if _, err := buildGuides(&ss, layers); err == nil {
		t.Errorf("conflicting guides with one title did not fail")
	}
}

func TestBuildGuidesSkipsPositional(t *testing.T) {
	var ss Scales
	x, err := ss.Ensure("x", KindContinuous)
	if err != nil {
		t.Fatal(err)
	}
	x.TrainContinuous([]float64{0, 1})
	gs, err := buildGuides(&ss, []*layerData{guideLayer("x")})
	if err != nil {
		t.Fatal(err)
	}
	if len(gs) != 0 {
		t.Errorf("positional scale produced a guide")
	}
}
