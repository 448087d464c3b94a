// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gg

import (
	"bytes"
	"image/color"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/aclements/go-gg/table"
)

func scatterData() *table.Table {
	return new(table.Builder).
		Add("wt", []float64{1.5, 2.0, 2.5, 3.0}).
		Add("mpg", []float64{30, 25, 22, 18}).
		Add("cyl", []string{"4", "4", "6", "8"}).
		Done()
}

func TestBuildScatter(t *testing.T) {
	p := NewPlot(scatterData(), Aes{"x": "wt", "y": "mpg", "color": "cyl"}).
		Add(&Layer{Geom: GeomPoint{}})
	bp, err := p.Build()
	if err != nil {
		t.Fatal(err)
	}

	if len(bp.Layers) != 1 {
		t.Fatalf("got %d built layers", len(bp.Layers))
	}
	l := bp.Layers[0]
	if l.Frame.Len() != 4 {
		t.Errorf("frame has %d rows, want 4", l.Frame.Len())
	}
	for _, col := range []string{"x", "y", "PANEL", "group"} {
		if l.Frame.Column(col) == nil {
			t.Errorf("frame is missing column %q", col)
		}
	}

	// The discrete color column mapped to one visual per row.
	vis := l.Visuals["color"]
	if len(vis) != 4 {
		t.Fatalf("color visuals = %d, want 4", len(vis))
	}
	if _, ok := vis[0].(color.Color); !ok {
		t.Errorf("color visual is %T, want a color", vis[0])
	}
	// Rows sharing a level share a visual.
	if vis[0] != vis[1] {
		t.Errorf("same level mapped to different colors")
	}
	if vis[1] == vis[2] {
		t.Errorf("different levels mapped to the same color")
	}

	// Discrete aesthetics group the rows.
	groups := l.Frame.MustColumn("group").([]int)
	if groups[0] != groups[1] || groups[1] == groups[2] || groups[2] == groups[3] {
		t.Errorf("groups = %v, want grouping by cyl", groups)
	}

	// One shared x and y scale, trained over the data.
	if len(bp.XScales) != 1 || len(bp.YScales) != 1 {
		t.Fatalf("got %d x and %d y scales", len(bp.XScales), len(bp.YScales))
	}
	lo, hi := bp.XScales[0].limits()
	if lo != 1.5 || hi != 3.0 {
		t.Errorf("x limits = [%v, %v], want [1.5, 3]", lo, hi)
	}

	// One legend for cyl.
	if len(bp.Guides) != 1 {
		t.Fatalf("got %d guides, want 1", len(bp.Guides))
	}
	if g := bp.Guides[0]; g.Kind != GuideLegend || len(g.Entries) != 3 {
		t.Errorf("guide = kind %v with %d entries", g.Kind, len(g.Entries))
	}

	// Axis labels derive from the mapped expressions.
	if bp.XLab != "wt" || bp.YLab != "mpg" {
		t.Errorf("axis labels = %q, %q", bp.XLab, bp.YLab)
	}
}

func TestBuildNoLayers(t *testing.T) {
	if _, err := NewPlot(scatterData(), nil).Build(); err == nil {
		t.Errorf("empty plot built without error")
	}
}

func TestBuildMissingColumn(t *testing.T) {
	p := NewPlot(scatterData(), Aes{"x": "nope", "y": "mpg"}).
		Add(&Layer{Geom: GeomPoint{}})
	_, err := p.Build()
	if err == nil {
		t.Fatalf("unknown column built without error")
	}
	if _, ok := err.(*AestheticEvaluationError); !ok {
		t.Errorf("error %T is not an *AestheticEvaluationError", err)
	}
}

func TestBuildMissingRequiredAes(t *testing.T) {
	p := NewPlot(scatterData(), Aes{"x": "wt"}).
		Add(&Layer{Geom: GeomPoint{}})
	_, err := p.Build()
	if err == nil {
		t.Fatalf("missing y built without error")
	}
	if _, ok := err.(*MissingAestheticError); !ok {
		t.Errorf("error %T is not a *MissingAestheticError", err)
	}
}

func TestBuildDiscreteX(t *testing.T) {
	p := NewPlot(scatterData(), Aes{"x": "cyl", "y": "mpg"}).
		Add(&Layer{Geom: GeomPoint{}})
	bp, err := p.Build()
	if err != nil {
		t.Fatal(err)
	}

	s := bp.XScales[0]
	if !s.IsDiscrete() {
		t.Fatalf("x scale is not discrete")
	}
	if want := []string{"4", "6", "8"}; !reflect.DeepEqual(s.levels(), want) {
		t.Errorf("x levels = %v, want %v", s.levels(), want)
	}

	// The frame's x column is now the numeric level index.
	xs := asFloats(bp.Layers[0].Frame.MustColumn("x"))
	if want := []float64{1, 1, 2, 3}; !reflect.DeepEqual(xs, want) {
		t.Errorf("indexed x = %v, want %v", xs, want)
	}
	lo, hi := s.Dimension(nil)
	if math.Abs(lo-0.4) > 1e-9 || math.Abs(hi-3.6) > 1e-9 {
		t.Errorf("discrete x dimension = [%v, %v]", lo, hi)
	}
}

func TestBuildSetOverrides(t *testing.T) {
	p := NewPlot(scatterData(), Aes{"x": "wt", "y": "mpg", "color": "cyl"}).
		Add(&Layer{
			Geom: GeomPoint{},
			Set:  map[string]interface{}{"color": "red"},
		})
	bp, err := p.Build()
	if err != nil {
		t.Fatal(err)
	}
	l := bp.Layers[0]
	if l.Frame.Column("color") != nil {
		t.Errorf("fixed aesthetic still has a mapped column")
	}
	if l.Constants["color"] != "red" {
		t.Errorf("constant color = %v", l.Constants["color"])
	}
	// A fixed aesthetic generates no legend.
	if len(bp.Guides) != 0 {
		t.Errorf("fixed aesthetic produced %d guides", len(bp.Guides))
	}
}

func TestBuildSetSliceLengthMismatch(t *testing.T) {
	p := NewPlot(scatterData(), Aes{"x": "wt", "y": "mpg"}).
		Add(&Layer{
			Geom: GeomPoint{},
			Set:  map[string]interface{}{"size": []float64{1, 2}},
		})
	if _, err := p.Build(); err == nil {
		t.Errorf("short manual slice built without error")
	}
}

// tallyStat reduces a partition to one row: the first x and the row
// count, dropping every other column.
type tallyStat struct{}

func (tallyStat) Name() string          { return "stat_tally" }
func (tallyStat) RequiredAes() []string { return []string{"x"} }

func (tallyStat) Compute(ctx *StatContext, tab *table.Table) (*table.Table, error) {
	xs := asFloats(tab.MustColumn("x"))
	return new(table.Builder).
		Add("x", []float64{xs[0]}).
		Add("n", []float64{float64(len(xs))}).
		Done(), nil
}

func TestBuildGroupCoarserThanAesthetic(t *testing.T) {
	// With an explicit group coarser than a discrete aesthetic, a
	// statistic drops the aesthetic in partitions where it varies
	// and keeps it where it is constant. The recombined frame must
	// carry the union of columns, not panic.
	data := new(table.Builder).
		Add("v", []float64{1, 2, 3, 4}).
		Add("c", []string{"a", "a", "b", "b"}).
		Add("g", []string{"g1", "g1", "g1", "g2"}).
		Done()
	p := NewPlot(data, Aes{"x": "v", "y": "..n..", "color": "c", "group": "g"}).
		Add(&Layer{Geom: GeomPoint{}, Stat: tallyStat{}})
	bp, err := p.Build()
	if err != nil {
		t.Fatal(err)
	}
	frame := bp.Layers[0].Frame
	if frame.Len() != 2 {
		t.Fatalf("frame has %d rows, want 2", frame.Len())
	}
	col := frame.MustColumn("color").([]string)
	if want := []string{"", "b"}; !reflect.DeepEqual(col, want) {
		t.Errorf("color = %v, want %v", col, want)
	}
}

func TestConcatHeterogeneousColumns(t *testing.T) {
	a := new(table.Builder).Add("x", []float64{1}).Add("c", []string{"a"}).Done()
	b := new(table.Builder).Add("x", []float64{2, 3}).Done()
	out := concatTables([]*table.Table{a, b})
	if want := []float64{1, 2, 3}; !reflect.DeepEqual(out.MustColumn("x"), want) {
		t.Errorf("x = %v, want %v", out.MustColumn("x"), want)
	}
	if want := []string{"a", "", ""}; !reflect.DeepEqual(out.MustColumn("c"), want) {
		t.Errorf("c = %v, want %v", out.MustColumn("c"), want)
	}
}

func TestBuildFaceted(t *testing.T) {
	p := NewPlot(scatterData(), Aes{"x": "wt", "y": "mpg"}).
		Add(&Layer{Geom: GeomPoint{}}).
		Facet(&FacetWrap{Vars: []string{"cyl"}})
	bp, err := p.Build()
	if err != nil {
		t.Fatal(err)
	}
	if bp.Layout.NPanels() != 3 {
		t.Fatalf("got %d panels, want 3", bp.Layout.NPanels())
	}
	panels := bp.Layers[0].Frame.MustColumn("PANEL").([]int)
	if want := []int{1, 1, 2, 3}; !reflect.DeepEqual(panels, want) {
		t.Errorf("PANEL = %v, want %v", panels, want)
	}
	// Fixed scales: one physical x scale.
	if len(bp.XScales) != 1 {
		t.Errorf("fixed facet has %d x scales", len(bp.XScales))
	}
}

func TestBuildFreeScales(t *testing.T) {
	p := NewPlot(scatterData(), Aes{"x": "wt", "y": "mpg"}).
		Add(&Layer{Geom: GeomPoint{}}).
		Facet(&FacetWrap{Vars: []string{"cyl"}, FreeX: true})
	bp, err := p.Build()
	if err != nil {
		t.Fatal(err)
	}
	if len(bp.XScales) != 3 {
		t.Fatalf("free facet has %d x scales, want 3", len(bp.XScales))
	}
	// Panel 3 holds only the cyl=8 row, so its scale covers just
	// that point.
	lo, hi := bp.XScales[2].limits()
	if lo != 3.0 || hi != 3.0 {
		t.Errorf("panel 3 x limits = [%v, %v], want [3, 3]", lo, hi)
	}
}

func TestBuildNamedTransform(t *testing.T) {
	data := new(table.Builder).
		Add("v", []float64{1, 10, 100}).
		Add("y", []float64{1, 2, 3}).
		Done()
	p := NewPlot(data, Aes{"x": "v", "y": "y"}).
		Add(&Layer{Geom: GeomPoint{}}).
		Scale(&Scale{Aesthetics: xFamily, Kind: KindContinuous, TransName: "log10"})
	bp, err := p.Build()
	if err != nil {
		t.Fatal(err)
	}
	s := bp.XScales[0]
	if s.Trans == nil || s.Trans.Name != "log10" {
		t.Fatalf("named transform did not resolve: %+v", s.Trans)
	}
	lo, hi := s.limits()
	if math.Abs(lo-0) > 1e-9 || math.Abs(hi-2) > 1e-9 {
		t.Errorf("log limits = [%v, %v], want [0, 2]", lo, hi)
	}
}

func TestBuildUnknownTransformName(t *testing.T) {
	p := NewPlot(scatterData(), Aes{"x": "wt", "y": "mpg"}).
		Add(&Layer{Geom: GeomPoint{}}).
		Scale(&Scale{Aesthetics: xFamily, Kind: KindContinuous, TransName: "frobnicate"})
	_, err := p.Build()
	if err == nil {
		t.Fatalf("unknown transform name built without error")
	}
	if _, ok := err.(*ConfigurationError); !ok {
		t.Errorf("error %T is not a *ConfigurationError", err)
	}
}

func TestBuildEnvMapping(t *testing.T) {
	p := NewPlot(scatterData(), Aes{"x": "wt", "y": "ext"}).
		Add(&Layer{Geom: GeomPoint{}})
	p.Env = map[string]table.Slice{"ext": []float64{1, 2, 3, 4}}
	bp, err := p.Build()
	if err != nil {
		t.Fatal(err)
	}
	ys := asFloats(bp.Layers[0].Frame.MustColumn("y"))
	if want := []float64{1, 2, 3, 4}; !reflect.DeepEqual(ys, want) {
		t.Errorf("y from env = %v, want %v", ys, want)
	}
}

func TestWriteSVG(t *testing.T) {
	p := NewPlot(scatterData(), Aes{"x": "wt", "y": "mpg", "color": "cyl"}).
		Add(&Layer{Geom: GeomPoint{}})
	p.Title = "fuel economy"
	bp, err := p.Build()
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := bp.WriteSVG(&buf, 640, 480); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"<svg", "</svg>", "circle", "fuel economy", "wt"} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG output is missing %q", want)
		}
	}
}
