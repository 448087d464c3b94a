// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gg

import "image/color"

// An Element is one styled drawing primitive of the plot chrome. A
// nil field in an override means "inherit"; Blank suppresses the
// element entirely.
type Element struct {
	Fill      color.Color
	Stroke    color.Color
	Width     float64
	FontSize  float64
	FontColor color.Color
	Blank     bool
}

// merge overlays o onto e, field by field.
func (e Element) merge(o *Element) Element {
	if o == nil {
		return e
	}
	if o.Blank {
		return Element{Blank: true}
	}
	if o.Fill != nil {
		e.Fill = o.Fill
	}
	if o.Stroke != nil {
		e.Stroke = o.Stroke
	}
	if o.Width != 0 {
		e.Width = o.Width
	}
	if o.FontSize != 0 {
		e.FontSize = o.FontSize
	}
	if o.FontColor != nil {
		e.FontColor = o.FontColor
	}
	e.Blank = false
	return e
}

// A Theme styles the plot chrome: panel, grid, axes, strips, legend,
// and titles. Themes are flat value types; With produces a derived
// theme without mutating the base.
type Theme struct {
	PanelBackground Element
	GridMajor       Element
	GridMinor       Element
	AxisLine        Element
	AxisText        Element
	AxisTitle       Element
	StripBackground Element
	StripText       Element
	LegendKey       Element
	LegendText      Element
	LegendTitle     Element
	PlotTitle       Element
	PlotBackground  Element

	// PanelSpacing is the gap between facet panels in pixels.
	PanelSpacing float64
}

// Theme element names accepted by With.
const (
	ElPanelBackground = "panel.background"
	ElGridMajor       = "panel.grid.major"
	ElGridMinor       = "panel.grid.minor"
	ElAxisLine        = "axis.line"
	ElAxisText        = "axis.text"
	ElAxisTitle       = "axis.title"
	ElStripBackground = "strip.background"
	ElStripText       = "strip.text"
	ElLegendKey       = "legend.key"
	ElLegendText      = "legend.text"
	ElLegendTitle     = "legend.title"
	ElPlotTitle       = "plot.title"
	ElPlotBackground  = "plot.background"
)

// With returns a copy of t with the named elements overridden.
// Unknown names are a configuration error.
func (t Theme) With(overrides map[string]*Element) (Theme, error) {
	for name, o := range overrides {
		switch name {
		case ElPanelBackground:
			t.PanelBackground = t.PanelBackground.merge(o)
		case ElGridMajor:
			t.GridMajor = t.GridMajor.merge(o)
		case ElGridMinor:
			t.GridMinor = t.GridMinor.merge(o)
		case ElAxisLine:
			t.AxisLine = t.AxisLine.merge(o)
		case ElAxisText:
			t.AxisText = t.AxisText.merge(o)
		case ElAxisTitle:
			t.AxisTitle = t.AxisTitle.merge(o)
		case ElStripBackground:
			t.StripBackground = t.StripBackground.merge(o)
		case ElStripText:
			t.StripText = t.StripText.merge(o)
		case ElLegendKey:
			t.LegendKey = t.LegendKey.merge(o)
		case ElLegendText:
			t.LegendText = t.LegendText.merge(o)
		case ElLegendTitle:
			t.LegendTitle = t.LegendTitle.merge(o)
		case ElPlotTitle:
			t.PlotTitle = t.PlotTitle.merge(o)
		case ElPlotBackground:
			t.PlotBackground = t.PlotBackground.merge(o)
		default:
			return t, configErrf("theme", "unknown theme element %q", name)
		}
	}
	return t, nil
}

var (
	grey20 = color.Gray{Y: 51}
	grey30 = color.Gray{Y: 77}
	grey70 = color.Gray{Y: 179}
	grey85 = color.Gray{Y: 217}
	grey92 = color.Gray{Y: 235}
	white  = color.Gray{Y: 255}
)

// ThemeGrey is the default theme: grey panel, white gridlines.
func ThemeGrey() Theme {
	return Theme{
		PanelBackground: Element{Fill: grey92},
		GridMajor:       Element{Stroke: white, Width: 1},
		GridMinor:       Element{Stroke: white, Width: 0.5},
		AxisLine:        Element{Blank: true},
		AxisText:        Element{FontSize: 9, FontColor: grey30},
		AxisTitle:       Element{FontSize: 11, FontColor: color.Black},
		StripBackground: Element{Fill: grey85},
		StripText:       Element{FontSize: 9, FontColor: grey20},
		LegendKey:       Element{Fill: grey92},
		LegendText:      Element{FontSize: 9, FontColor: color.Black},
		LegendTitle:     Element{FontSize: 11, FontColor: color.Black},
		PlotTitle:       Element{FontSize: 13, FontColor: color.Black},
		PlotBackground:  Element{Fill: white},
		PanelSpacing:    6,
	}
}

// ThemeBW swaps the grey panel for a white one with grey gridlines
// and a panel border.
func ThemeBW() Theme {
	t := ThemeGrey()
	t.PanelBackground = Element{Fill: white, Stroke: grey20, Width: 1}
	t.GridMajor = Element{Stroke: grey92, Width: 1}
	t.GridMinor = Element{Stroke: grey92, Width: 0.5}
	t.StripBackground = Element{Fill: grey85, Stroke: grey20, Width: 1}
	return t
}

// ThemeMinimal drops panel background, strips, and axis decoration.
func ThemeMinimal() Theme {
	t := ThemeGrey()
	t.PanelBackground = Element{Blank: true}
	t.GridMajor = Element{Stroke: grey92, Width: 1}
	t.GridMinor = Element{Stroke: grey92, Width: 0.5}
	t.StripBackground = Element{Blank: true}
	t.LegendKey = Element{Blank: true}
	return t
}

// ThemeClassic has no grid and black axis lines.
func ThemeClassic() Theme {
	t := ThemeGrey()
	t.PanelBackground = Element{Fill: white}
	t.GridMajor = Element{Blank: true}
	t.GridMinor = Element{Blank: true}
	t.AxisLine = Element{Stroke: color.Black, Width: 1}
	t.StripBackground = Element{Fill: white, Stroke: color.Black, Width: 1}
	return t
}
