// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gg

import (
	"fmt"
	"hash/fnv"
	"image/color"
	"sort"
)

// GuideKind selects how a scale's guide is rendered.
type GuideKind int

const (
	// GuideAuto picks a legend for discrete scales and a
	// colorbar for continuous color scales.
	GuideAuto GuideKind = iota

	// GuideLegend renders discrete keys with sample glyphs.
	GuideLegend

	// GuideColorbar renders a continuous color gradient strip.
	GuideColorbar

	// GuideNone suppresses the guide.
	GuideNone
)

// A GuideEntry is one key in a legend: the label plus the visual
// value each contributing aesthetic maps the key to.
type GuideEntry struct {
	Label string

	// Values maps aesthetic name to the mapped visual value
	// (color.Color, float64, or string depending on the
	// aesthetic).
	Values map[string]interface{}
}

// A Guide describes one legend or colorbar to draw.
type Guide struct {
	Kind  GuideKind
	Title string

	// Aesthetics are the scale aesthetics this guide covers.
	// Merged guides cover more than one.
	Aesthetics []string

	// Entries are the legend keys in scale order. Empty for
	// colorbars.
	Entries []GuideEntry

	// Colorbar state, set when Kind is GuideColorbar.
	Min, Max float64
	Breaks   []float64
	Labels   []string
	Colors   []color.Color
}

// contentHash fingerprints the guide's semantic content: title,
// labels, and break positions. Guides with equal hashes render
// identically and are merged.
func (g *Guide) contentHash() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d\x00%s\x00", g.Kind, g.Title)
	for _, e := range g.Entries {
		fmt.Fprintf(h, "%s\x00", e.Label)
	}
	for _, b := range g.Breaks {
		fmt.Fprintf(h, "%g\x00", b)
	}
	return h.Sum64()
}

// buildGuide constructs the guide for one trained non-positional
// scale. layers supplies the built layers so only aesthetics some
// layer actually maps contribute sample glyphs.
func buildGuide(s *Scale, layers []*layerData) (*Guide, error) {
	var kind GuideKind
	switch s.Guide {
	case "none":
		return nil, nil
	case "legend":
		kind = GuideLegend
	case "colorbar":
		kind = GuideColorbar
	case "":
		if !s.IsDiscrete() && isColorAes(s.primaryAes()) {
			kind = GuideColorbar
		} else {
			kind = GuideLegend
		}
	default:
		return nil, configErrf("guide", "unknown guide kind %q", s.Guide)
	}

	// Only aesthetics that appear mapped (not Set-fixed) in some
	// layer participate.
	var active []string
	for _, aes := range s.Aesthetics {
		used := false
		for _, ld := range layers {
			if ld.aesthetics()[aes] {
				used = true
				break
			}
		}
		if used {
			active = append(active, aes)
		}
	}
	if len(active) == 0 {
		return nil, nil
	}

	title := s.Name
	if title == "" {
		title = s.primaryAes()
	}
	g := &Guide{Kind: kind, Title: title, Aesthetics: active}

	if kind == GuideColorbar {
		if s.IsDiscrete() {
			return nil, configErrf("guide", "colorbar requires a continuous scale on %s", s.primaryAes())
		}
		lo, hi := s.limits()
		g.Min, g.Max = lo, hi
		g.Breaks = s.GetBreaks()
		var err error
		g.Labels, err = s.GetLabels(g.Breaks)
		if err != nil {
			return nil, err
		}
		// Sample the gradient densely enough for a smooth strip.
		const barSteps = 64
		xs := make([]float64, barSteps)
		for i := range xs {
			xs[i] = lo + (hi-lo)*float64(i)/(barSteps-1)
		}
		dl := s.trans().Inverse(xs)
		vis, err := s.MapVisual(dl)
		if err != nil {
			return nil, err
		}
		for _, v := range vis {
			c, ok := v.(color.Color)
			if !ok {
				return nil, configErrf("guide", "colorbar on %s needs a color palette", s.primaryAes())
			}
			g.Colors = append(g.Colors, c)
		}
		return g, nil
	}

	// Legend.
	if s.IsDiscrete() {
		labels, err := s.LevelLabels()
		if err != nil {
			return nil, err
		}
		n := len(s.levels())
		pal, err := s.PaletteD(n)
		if err != nil {
			return nil, configErrf("palette for "+s.primaryAes(), "%v", err)
		}
		for i := 0; i < n; i++ {
			e := GuideEntry{Label: labels[i], Values: map[string]interface{}{}}
			for _, aes := range active {
				e.Values[aes] = pal[i]
			}
			g.Entries = append(g.Entries, e)
		}
		return g, nil
	}

	// Continuous legend: keys at the break positions.
	breaks := s.GetBreaks()
	labels, err := s.GetLabels(breaks)
	if err != nil {
		return nil, err
	}
	vis, err := s.MapVisual(breaks)
	if err != nil {
		return nil, err
	}
	for i := range breaks {
		e := GuideEntry{Label: labels[i], Values: map[string]interface{}{}}
		for _, aes := range active {
			e.Values[aes] = vis[i]
		}
		g.Entries = append(g.Entries, e)
	}
	return g, nil
}

// buildGuides builds and merges guides for every non-positional
// trained scale. Scales whose guides have identical semantic content
// merge into one guide covering the union of their aesthetics; equal
// titles with differing content is a configuration error.
func buildGuides(scales *Scales, layers []*layerData) ([]*Guide, error) {
	var out []*Guide
	byHash := make(map[uint64]*Guide)
	byTitle := make(map[string]*Guide)

	var ss []*Scale
	for _, s := range scales.All() {
		if f := scaleFamily(s.primaryAes()); f == "x" || f == "y" {
			continue
		}
		if !s.crange.Trained() && len(s.drange.Levels()) == 0 && s.Limits == nil && s.LimitLevels == nil {
			continue
		}
		ss = append(ss, s)
	}
	sort.Slice(ss, func(i, j int) bool { return ss[i].primaryAes() < ss[j].primaryAes() })

	for _, s := range ss {
		g, err := buildGuide(s, layers)
		if err != nil {
			return nil, err
		}
		if g == nil {
			continue
		}
		h := g.contentHash()
		if prev, ok := byHash[h]; ok {
			// Same content: merge aesthetics and entry values.
			prev.Aesthetics = append(prev.Aesthetics, g.Aesthetics...)
			for i := range prev.Entries {
				for aes, v := range g.Entries[i].Values {
					prev.Entries[i].Values[aes] = v
				}
			}
			continue
		}
		if prev, ok := byTitle[g.Title]; ok && prev != nil {
			return nil, configErrf("guides",
				"scales for %v and %v share the title %q but have different keys; set distinct names",
				prev.Aesthetics, g.Aesthetics, g.Title)
		}
		byHash[h] = g
		byTitle[g.Title] = g
		out = append(out, g)
	}
	return out, nil
}

func isColorAes(aes string) bool {
	return aes == "color" || aes == "colour" || aes == "fill"
}
