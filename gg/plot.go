// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gg assembles plots in the grammar-of-graphics style: data
// frames flow through aesthetic mapping, statistics, position
// adjustment, and scale mapping into renderable panels.
package gg

import (
	"math"

	"github.com/aclements/go-gg/table"
)

// A Plot is the buildable description: a default frame, a default
// mapping, layers, a facet specification, scales, and a theme.
// Configuration methods return the plot for chaining and never fail;
// all validation happens in Build.
type Plot struct {
	// Data is the default frame for layers that carry none.
	Data *table.Table

	// Mapping is the default mapping inherited by layers.
	Mapping Aes

	// Env provides named external columns referenced by mappings.
	Env map[string]table.Slice

	// Evaluator resolves mapping expressions. Nil means plain
	// column lookup.
	Evaluator Evaluator

	// Title, XLab, and YLab override derived labels.
	Title, XLab, YLab string

	layers []*Layer
	facet  Facet
	scales Scales
	theme  *Theme
}

// NewPlot starts a plot over a default frame and mapping.
func NewPlot(data *table.Table, mapping Aes) *Plot {
	return &Plot{Data: data, Mapping: mapping}
}

// Add appends layers.
func (p *Plot) Add(layers ...*Layer) *Plot {
	p.layers = append(p.layers, layers...)
	return p
}

// Facet sets the facet specification.
func (p *Plot) Facet(f Facet) *Plot {
	p.facet = f
	return p
}

// Scale registers an explicit scale, displacing any prior scale of
// the same aesthetic family.
func (p *Plot) Scale(s *Scale) *Plot {
	p.scales.Add(s)
	return p
}

// Theme sets the plot theme.
func (p *Plot) Theme(t Theme) *Plot {
	p.theme = &t
	return p
}

// A BuiltLayer is one layer after the full pipeline: its final frame
// plus mapped visual columns and resolved constants.
type BuiltLayer struct {
	Geom Geom

	// Frame holds the positional data columns (all numeric by
	// now) plus PANEL and group.
	Frame *table.Table

	// Visuals are the palette-mapped non-positional columns.
	Visuals map[string][]interface{}

	// Constants are aesthetics fixed to a single value.
	Constants map[string]interface{}
}

// A BuiltPlot is the immutable result of Build, ready to render.
type BuiltPlot struct {
	Layers []*BuiltLayer
	Layout *PanelLayout

	// XScales and YScales hold one trained positional scale per
	// layout scale index (all panels share index 1 unless the
	// facet frees an axis).
	XScales, YScales []*Scale

	Guides   []*Guide
	Theme    Theme
	Warnings *Warnings

	Title, XLab, YLab string
}

func (p *Plot) evaluator() Evaluator {
	if p.Evaluator == nil {
		return columnEvaluator{}
	}
	return p.Evaluator
}

// Build runs the pipeline: panel layout, aesthetic evaluation,
// grouping, statistics, computed-aesthetic mapping, position
// adjustment, defaults, two-pass scale training, and guide
// construction. The plot itself is not modified except for scale
// training state; call Build once per configuration.
func (p *Plot) Build() (*BuiltPlot, error) {
	if len(p.layers) == 0 {
		return nil, configErrf("layers", "plot has no layers")
	}
	warn := new(Warnings)
	ev := p.evaluator()
	if err := p.scales.resolveTrans(); err != nil {
		return nil, err
	}
	p.scales.Reset()

	facet := p.facet
	if facet == nil {
		facet = FacetNull{}
	}

	// Resolve per-layer data and mappings.
	lds := make([]*layerData, len(p.layers))
	raw := make([]*table.Table, len(p.layers))
	for i, l := range p.layers {
		data := l.Data
		if data == nil {
			data = p.Data
		}
		if data == nil {
			return nil, configErrf("data", "layer %d has no data and the plot has no default frame", i)
		}
		raw[i] = data
		merged := l.Mapping.merge(p.Mapping, !l.NoInherit)
		st := l.Stat
		if st == nil {
			st = defaultStatFor(l.Geom, merged)
		}
		if st == nil {
			st = StatIdentity{}
		}
		regular, calc := splitCalc(merged)
		lds[i] = &layerData{layer: l, stat: st, mapping: regular, calc: calc}
	}

	// Panel layout from the raw frames, then stage 1 and 2 per
	// layer.
	layout, err := facet.layout(raw)
	if err != nil {
		return nil, err
	}
	for i, ld := range lds {
		paneled := layout.MapPanels(warn, raw[i])
		if err := ld.buildMap(ev, p.Env, paneled); err != nil {
			return nil, err
		}
		ld.assignGroups()
	}

	// First training pass: positional scales see the pre-stat
	// data so discrete levels are fixed before any statistic
	// runs. Discrete positional columns are then replaced by
	// their level index so everything downstream is numeric.
	xScale, err := p.ensurePositional(lds, xFamily)
	if err != nil {
		return nil, err
	}
	yScale, err := p.ensurePositional(lds, yFamily)
	if err != nil {
		return nil, err
	}
	trainPositional(xScale, lds, xFamily)
	trainPositional(yScale, lds, yFamily)
	for _, ld := range lds {
		ld.frame = indexDiscrete(ld.frame, xScale, xFamily)
		ld.frame = indexDiscrete(ld.frame, yScale, yFamily)
	}

	// Stages 3 through 6.
	ctx := &StatContext{Warnings: warn}
	if xScale != nil && !xScale.IsDiscrete() {
		ctx.XRange = &xScale.crange
	}
	if yScale != nil && !yScale.IsDiscrete() {
		ctx.YRange = &yScale.crange
	}
	if xScale != nil && xScale.IsDiscrete() {
		ctx.XLevels = xScale.levels()
	}
	for _, ld := range lds {
		if err := ld.computeStat(ctx); err != nil {
			return nil, err
		}
		if err := ld.mapCalcAes(&p.scales); err != nil {
			return nil, err
		}
		if err := ld.adjustPosition(warn); err != nil {
			return nil, err
		}
		if err := ld.useDefaults(); err != nil {
			return nil, err
		}
		if err := ld.checkRequired(); err != nil {
			return nil, err
		}
	}

	// Second training pass: positions and statistics may have
	// widened the positional extent (stacked bars, histogram
	// edges), and non-positional scales train only now so every
	// layer contributes before any value is mapped. A computed
	// aesthetic may have instantiated a positional scale that did
	// not exist before the statistics ran.
	if xScale == nil {
		xScale = p.scales.Find("x")
	}
	if yScale == nil {
		yScale = p.scales.Find("y")
	}
	trainPositional(xScale, lds, xFamily)
	trainPositional(yScale, lds, yFamily)
	xs := perPanelScales(xScale, lds, layout.NXScales(), layout.XScaleOf, xFamily)
	ys := perPanelScales(yScale, lds, layout.NYScales(), layout.YScaleOf, yFamily)

	if err := p.trainNonPositional(lds); err != nil {
		return nil, err
	}

	// Mapping pass.
	built := make([]*BuiltLayer, len(lds))
	for i, ld := range lds {
		if err := p.mapVisuals(ld); err != nil {
			return nil, err
		}
		built[i] = &BuiltLayer{
			Geom:      ld.layer.Geom,
			Frame:     ld.frame,
			Visuals:   ld.visuals,
			Constants: ld.constants,
		}
	}

	guides, err := buildGuides(&p.scales, lds)
	if err != nil {
		return nil, err
	}

	theme := ThemeGrey()
	if p.theme != nil {
		theme = *p.theme
	}
	bp := &BuiltPlot{
		Layers:   built,
		Layout:   layout,
		XScales:  xs,
		YScales:  ys,
		Guides:   guides,
		Theme:    theme,
		Warnings: warn,
		Title:    p.Title,
		XLab:     p.XLab,
		YLab:     p.YLab,
	}
	bp.XLab, bp.YLab = p.axisLabels(lds, xScale, yScale)
	return bp, nil
}

// ensurePositional finds or creates the scale for a positional
// family, inferring the kind from the first family column any layer
// maps.
func (p *Plot) ensurePositional(lds []*layerData, family []string) (*Scale, error) {
	if s := p.scales.Find(family[0]); s != nil {
		return s, nil
	}
	for _, ld := range lds {
		for _, aes := range family {
			if col := ld.frame.Column(aes); col != nil {
				return p.scales.Ensure(family[0], colKindOf(col))
			}
		}
	}
	return nil, nil
}

// trainPositional folds every family column of every layer into the
// scale's range.
func trainPositional(s *Scale, lds []*layerData, family []string) {
	if s == nil {
		return
	}
	for _, ld := range lds {
		for _, aes := range family {
			col := ld.frame.Column(aes)
			if col == nil {
				continue
			}
			if s.IsDiscrete() {
				if colKindOf(col) == KindDiscrete {
					s.TrainDiscrete(levelStrings(col), declaredOrder(col), false)
				} else {
					// Numeric columns on a discrete axis live in
					// index space already.
					s.TrainContinuous(asFloats(col))
				}
			} else {
				s.TrainContinuous(asFloats(col))
			}
		}
	}
}

// indexDiscrete replaces discrete positional columns with their
// 1-based level index as float64. Unmatched levels become NaN.
func indexDiscrete(t *table.Table, s *Scale, family []string) *table.Table {
	if s == nil || !s.IsDiscrete() {
		return t
	}
	b := table.NewBuilder(t)
	dirty := false
	for _, aes := range family {
		col := t.Column(aes)
		if col == nil || colKindOf(col) != KindDiscrete {
			continue
		}
		idx := s.MapIndex(levelStrings(col))
		out := make([]float64, len(idx))
		for i, j := range idx {
			if j == 0 {
				out[i] = math.NaN()
			} else {
				out[i] = float64(j)
			}
		}
		b.Add(aes, out)
		dirty = true
	}
	if !dirty {
		return t
	}
	return b.Done()
}

// perPanelScales expands one prototype positional scale into the
// layout's scale instances: clones trained per scale index from the
// panels that index covers. With no freeing every panel shares a
// single instance trained on everything, which is the prototype
// itself.
func perPanelScales(proto *Scale, lds []*layerData, n int, indexOf func(panel int) int, family []string) []*Scale {
	if proto == nil {
		return nil
	}
	if n <= 1 {
		return []*Scale{proto}
	}
	out := make([]*Scale, n)
	for i := range out {
		out[i] = proto.Clone()
		// Free discrete axes keep the global level set so index
		// values stay comparable across panels.
		if proto.IsDiscrete() {
			out[i].TrainDiscrete(proto.levels(), nil, false)
		}
	}
	for _, ld := range lds {
		panels := intColumn(ld.frame, "PANEL")
		byScale := make(map[int][]int)
		for row, panel := range panels {
			si := indexOf(panel)
			byScale[si] = append(byScale[si], row)
		}
		for si, rows := range byScale {
			sub := selectRows(ld.frame, rows)
			for _, aes := range family {
				col := sub.Column(aes)
				if col == nil {
					continue
				}
				out[si-1].TrainContinuous(asFloats(col))
			}
		}
	}
	return out
}

func intColumn(t *table.Table, name string) []int {
	return t.MustColumn(name).([]int)
}

// trainNonPositional instantiates and trains a scale for every
// mapped non-positional aesthetic across all layers. Columns the
// statistic emitted but nothing maps (count, density) get no scale.
func (p *Plot) trainNonPositional(lds []*layerData) error {
	for _, ld := range lds {
		mapped := ld.aesthetics()
		for _, aes := range ld.frame.Columns() {
			if aes == "PANEL" || aes == "group" || aes == "label" {
				continue
			}
			if f := scaleFamily(aes); f == "x" || f == "y" {
				continue
			}
			if !mapped[aes] {
				continue
			}
			if _, fixed := ld.layer.Set[aes]; fixed {
				continue
			}
			col := ld.frame.Column(aes)
			s, err := p.scales.Ensure(aes, colKindOf(col))
			if err != nil {
				return err
			}
			if s.IsDiscrete() {
				s.TrainDiscrete(levelStrings(col), declaredOrder(col), false)
			} else {
				s.TrainContinuous(asFloats(col))
			}
		}
	}
	return nil
}

// mapVisuals maps every trained non-positional column through its
// scale into the layer's visual columns.
func (ld *layerData) mapVisuals(scales *Scales) error {
	ld.visuals = make(map[string][]interface{})
	mapped := ld.aesthetics()
	for _, aes := range ld.frame.Columns() {
		if aes == "PANEL" || aes == "group" || aes == "label" {
			continue
		}
		if f := scaleFamily(aes); f == "x" || f == "y" {
			continue
		}
		if !mapped[aes] {
			continue
		}
		s := scales.Find(aes)
		if s == nil {
			continue
		}
		vis, err := s.MapVisual(ld.frame.Column(aes))
		if err != nil {
			return err
		}
		ld.visuals[aes] = vis
	}
	return nil
}

func (p *Plot) mapVisuals(ld *layerData) error { return ld.mapVisuals(&p.scales) }

// checkRequired verifies the geometry's required aesthetics survived
// the pipeline as columns or constants.
func (ld *layerData) checkRequired() error {
	var missing []string
	for _, aes := range ld.layer.Geom.RequiredAes() {
		if ld.frame.Column(aes) == nil {
			if _, ok := ld.constants[aes]; !ok {
				missing = append(missing, aes)
			}
		}
	}
	if missing != nil {
		return &MissingAestheticError{Op: "geom_" + ld.layer.Geom.Name(), Aes: missing}
	}
	return nil
}

// axisLabels derives axis titles: explicit labels win, then scale
// names, then the mapped expression resolved for each layer, which
// includes the computed mappings a default statistic added.
func (p *Plot) axisLabels(lds []*layerData, xs, ys *Scale) (xl, yl string) {
	derive := func(explicit string, s *Scale, aes string) string {
		if explicit != "" {
			return explicit
		}
		if s != nil && s.Name != "" {
			return s.Name
		}
		for _, ld := range lds {
			if expr, ok := ld.mapping[aes]; ok {
				return expr
			}
			if expr, ok := ld.calc[aes]; ok {
				name, _ := isCalc(expr)
				return name
			}
		}
		return aes
	}
	return derive(p.XLab, xs, "x"), derive(p.YLab, ys, "y")
}
