// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gg

import (
	"math"

	"github.com/plotgrammar/ggplot/transform"
)

// A ContinuousRange tracks the [min, max] extent of trained values,
// ignoring NaN and infinities. It starts untrained; the first
// training call defines it, and afterwards it only grows until Reset.
type ContinuousRange struct {
	Min, Max float64
	trained  bool
}

// Train folds the min/max of xs into the range.
func (r *ContinuousRange) Train(xs []float64) {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		if !r.trained {
			r.Min, r.Max = x, x
			r.trained = true
			continue
		}
		if x < r.Min {
			r.Min = x
		}
		if x > r.Max {
			r.Max = x
		}
	}
}

// Trained reports whether any value has been trained.
func (r *ContinuousRange) Trained() bool { return r.trained }

// Reset returns the range to the untrained state.
func (r *ContinuousRange) Reset() { *r = ContinuousRange{} }

// A DiscreteRange tracks the ordered set of levels seen in training.
// Levels accumulate in first-seen order unless the trained data
// declares an explicit ordering, which then wins.
type DiscreteRange struct {
	levels  []string
	index   map[string]int
	ordered bool
}

// Train unions vals into the level set. If order is non-nil it is an
// explicit level ordering declared by the data; if drop is also true,
// ordered levels absent from vals are dropped.
func (r *DiscreteRange) Train(vals []string, order []string, drop bool) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if order != nil {
		seen := make(map[string]bool, len(vals))
		for _, v := range vals {
			seen[v] = true
		}
		r.levels = r.levels[:0]
		for _, l := range order {
			if drop && !seen[l] {
				continue
			}
			r.levels = append(r.levels, l)
		}
		r.ordered = true
		r.reindex()
		return
	}
	if r.ordered {
		// An explicit order was declared earlier; keep it.
		return
	}
	for _, v := range vals {
		if _, ok := r.index[v]; !ok {
			r.index[v] = len(r.levels)
			r.levels = append(r.levels, v)
		}
	}
}

func (r *DiscreteRange) reindex() {
	r.index = make(map[string]int, len(r.levels))
	for i, l := range r.levels {
		r.index[l] = i
	}
}

// Levels returns the ordered level set.
func (r *DiscreteRange) Levels() []string { return r.levels }

// Reset returns the range to the untrained state.
func (r *DiscreteRange) Reset() { *r = DiscreteRange{} }

// Expansion describes how a scale's limits expand into the physical
// axis extent: a multiplicative fraction of the span plus an additive
// amount.
type Expansion struct {
	Mult, Add float64
}

// Default expansions. Downstream panel layout depends on these exact
// values: continuous axes get 5% of the span on each end, discrete
// axes get 0.6 of a category width.
var (
	expandContinuous = Expansion{Mult: 0.05}
	expandDiscrete   = Expansion{Add: 0.6}
)

// paletteSteps quantizes normalized values before continuous palette
// lookup. Mapping rounds to a 1/paletteSteps grid; this is a lossy
// but stable optimization for expensive palettes.
const paletteSteps = 500

// A Scale governs one family of aesthetics' mapping from a data
// domain to visual values, the growth of its trained range, and the
// generation of its breaks and labels.
type Scale struct {
	// Aesthetics are the aesthetic names this scale governs, e.g.
	// {"x", "xmin", "xmax"}. The first is primary.
	Aesthetics []string

	// Kind is the closed variant of this scale.
	Kind ColKind

	// Name is the scale's display title. Defaults to the mapped
	// expression of the primary aesthetic.
	Name string

	// Trans is the continuous transform. Nil means identity.
	Trans *transform.Trans

	// TransName names a registered transform to resolve at build
	// time. An explicit Trans wins; an unknown name is a
	// configuration error.
	TransName string

	// Limits overrides the trained continuous range (data space).
	Limits *ContinuousRange

	// LimitLevels overrides the trained discrete levels.
	LimitLevels []string

	// Breaks and Labels override generated breaks and labels.
	// BreaksFn and LabelsFn compute them; transform defaults
	// apply when all are unset. Resolution order: explicit >
	// callable > transform default > raw limits.
	Breaks   []float64
	BreaksFn func(lo, hi float64) []float64
	Labels   []string
	LabelsFn func(breaks []float64) []string

	// Expand overrides the kind-default axis expansion.
	Expand *Expansion

	// PaletteC maps a normalized value in [0, 1] to a visual
	// value (continuous scales of non-positional aesthetics).
	PaletteC func(x float64) interface{}

	// PaletteD produces n visual values (discrete scales of
	// non-positional aesthetics).
	PaletteD func(n int) ([]interface{}, error)

	// NA is the visual value for unmapped or missing inputs.
	NA interface{}

	// Shrink marks the scale shrink-to-fit: its trained range is
	// reset between independent builds.
	Shrink bool

	// Guide selects the guide kind: "legend", "colorbar", or
	// "none". Empty means the kind default.
	Guide string

	crange ContinuousRange
	drange DiscreteRange
}

// IsDiscrete reports whether s maps a discrete domain.
func (s *Scale) IsDiscrete() bool { return s.Kind == KindDiscrete }

// primaryAes returns the primary aesthetic name.
func (s *Scale) primaryAes() string { return s.Aesthetics[0] }

// governs reports whether s governs the aesthetic.
func (s *Scale) governs(aes string) bool {
	for _, a := range s.Aesthetics {
		if a == aes {
			return true
		}
	}
	return false
}

// trans returns the scale's transform, defaulting to identity.
func (s *Scale) trans() *transform.Trans {
	if s.Trans == nil {
		s.Trans = transform.Identity()
	}
	return s.Trans
}

// TrainContinuous folds data-space values into the trained range
// through the scale's transform.
func (s *Scale) TrainContinuous(xs []float64) {
	s.crange.Train(s.trans().Forward(xs))
}

// TrainDiscrete unions values into the trained level set.
func (s *Scale) TrainDiscrete(vals []string, order []string, drop bool) {
	s.drange.Train(vals, order, drop)
}

// Reset clears the trained range if the scale is shrink-to-fit.
func (s *Scale) Reset() {
	if !s.Shrink {
		return
	}
	s.crange.Reset()
	s.drange.Reset()
}

// limits returns the effective continuous limits in transformed
// space: the user override if set, else the trained range. An
// untrained scale reports a degenerate [0, 1].
func (s *Scale) limits() (lo, hi float64) {
	if s.Limits != nil {
		tl := s.trans().Forward([]float64{s.Limits.Min, s.Limits.Max})
		lo, hi = tl[0], tl[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		return lo, hi
	}
	if !s.crange.trained {
		return 0, 1
	}
	return s.crange.Min, s.crange.Max
}

// levels returns the effective discrete levels: the user override if
// set, else the trained level set.
func (s *Scale) levels() []string {
	if s.LimitLevels != nil {
		return s.LimitLevels
	}
	return s.drange.Levels()
}

// Normalize rescales data-space values to [0, 1] against the
// effective limits, transforms applied. Values outside the limits are
// censored to NaN (the out-of-bounds policy), and results are rounded
// to the palette quantization grid.
func (s *Scale) Normalize(xs []float64) []float64 {
	lo, hi := s.limits()
	span := hi - lo
	txs := s.trans().Forward(xs)
	out := make([]float64, len(txs))
	for i, x := range txs {
		switch {
		case math.IsNaN(x):
			out[i] = math.NaN()
		case span == 0:
			// Degenerate range: everything maps to the middle.
			out[i] = 0.5
		default:
			n := (x - lo) / span
			if n < 0 || n > 1 {
				out[i] = math.NaN()
				continue
			}
			out[i] = math.Round(n*paletteSteps) / paletteSteps
		}
	}
	return out
}

// MapIndex maps discrete values to their 1-based index within the
// effective levels. Unmatched values map to 0.
func (s *Scale) MapIndex(vals []string) []int {
	levels := s.levels()
	index := make(map[string]int, len(levels))
	for i, l := range levels {
		index[l] = i + 1
	}
	out := make([]int, len(vals))
	for i, v := range vals {
		out[i] = index[v]
	}
	return out
}

// MapVisual maps data-space values through the scale's palette,
// producing one visual value per input. Continuous scales normalize
// then apply PaletteC; discrete scales index into PaletteD sized to
// the level count. Missing and out-of-bounds inputs map to NA.
func (s *Scale) MapVisual(seq interface{}) ([]interface{}, error) {
	if s.IsDiscrete() {
		vals := levelStrings(seq)
		levels := s.levels()
		pal, err := s.PaletteD(len(levels))
		if err != nil {
			return nil, configErrf("palette for "+s.primaryAes(), "%v", err)
		}
		idx := s.MapIndex(vals)
		out := make([]interface{}, len(idx))
		for i, j := range idx {
			if j == 0 || j > len(pal) || pal[j-1] == nil {
				out[i] = s.NA
				continue
			}
			out[i] = pal[j-1]
		}
		return out, nil
	}
	norm := s.Normalize(asFloats(seq))
	out := make([]interface{}, len(norm))
	for i, n := range norm {
		if math.IsNaN(n) {
			out[i] = s.NA
			continue
		}
		out[i] = s.PaletteC(n)
	}
	return out, nil
}

// Dimension returns the physical axis extent of the scale in
// transformed space (continuous) or index space (discrete, levels at
// 1..n): the limits expanded by the given expansion, or the kind
// default when expand is nil.
func (s *Scale) Dimension(expand *Expansion) (lo, hi float64) {
	e := expand
	if e == nil {
		e = s.Expand
	}
	if s.IsDiscrete() {
		if e == nil {
			e = &expandDiscrete
		}
		n := len(s.levels())
		if n == 0 {
			return 0, 1
		}
		ext := e.Mult*float64(n-1) + e.Add
		return 1 - ext, float64(n) + ext
	}
	if e == nil {
		e = &expandContinuous
	}
	lo, hi = s.limits()
	ext := e.Mult*(hi-lo) + e.Add
	return lo - ext, hi + ext
}

// GetBreaks resolves the scale's break points in data space:
// explicit breaks win, then a caller-supplied function, then the
// transform's generation, then the raw limits.
func (s *Scale) GetBreaks() []float64 {
	if s.Breaks != nil {
		return s.Breaks
	}
	tlo, thi := s.limits()
	dl := s.trans().Inverse([]float64{tlo, thi})
	if s.BreaksFn != nil {
		return s.BreaksFn(dl[0], dl[1])
	}
	if bs := s.trans().GetBreaks(dl[0], dl[1]); len(bs) > 0 {
		return bs
	}
	return []float64{dl[0], dl[1]}
}

// GetLabels resolves labels for the given breaks. Explicit labels
// must match the break count.
func (s *Scale) GetLabels(breaks []float64) ([]string, error) {
	if s.Labels != nil {
		if len(s.Labels) != len(breaks) {
			return nil, configErrf("labels for "+s.primaryAes(),
				"got %d labels for %d breaks", len(s.Labels), len(breaks))
		}
		return s.Labels, nil
	}
	if s.LabelsFn != nil {
		return s.LabelsFn(breaks), nil
	}
	return s.trans().FormatBreaks(breaks), nil
}

// LevelLabels returns the discrete scale's legend labels, honoring an
// explicit Labels override.
func (s *Scale) LevelLabels() ([]string, error) {
	levels := s.levels()
	if s.Labels != nil {
		if len(s.Labels) != len(levels) {
			return nil, configErrf("labels for "+s.primaryAes(),
				"got %d labels for %d levels", len(s.Labels), len(levels))
		}
		return s.Labels, nil
	}
	return levels, nil
}
