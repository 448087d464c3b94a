// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package palette provides the palette functions scales use to turn a
// level count or a normalized value into visual values: colors,
// sizes, shapes, and line types.
//
// Discrete palettes are functions from a level count to a slice of
// visual values. Requesting more levels than a finite palette carries
// pads the result with zero values ("missing" sentinels) rather than
// erroring; the caller decides whether that deserves a warning.
// Continuous palettes are functions from [0, 1] to a visual value.
package palette

import (
	"fmt"
	"image/color"
	"math"

	ggpalette "github.com/aclements/go-gg/palette"
	"golang.org/x/image/colornames"
)

// Hue returns a qualitative palette of n colors evenly spaced around
// the HSV hue circle, mirroring the hue rotation palettes of ggplot2.
// start is the first hue in degrees and direction is +1 or -1.
func Hue(start float64, direction int) func(n int) []color.Color {
	if direction == 0 {
		direction = 1
	}
	return func(n int) []color.Color {
		if n <= 0 {
			return nil
		}
		cols := make([]color.Color, n)
		// Avoid the first and last hue coinciding.
		step := 360.0 / float64(n)
		if n > 1 && math.Mod(360, float64(n)) < 1 {
			step = 360.0 / float64(n+1)
		}
		for i := 0; i < n; i++ {
			h := math.Mod(start+float64(direction)*step*float64(i)+360, 360)
			cols[i] = hsv(h, 0.5, 0.9)
		}
		return cols
	}
}

func hsv(h, s, v float64) color.Color {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	var r, g, b float64
	switch int(h / 60) {
	case 0:
		r, g, b = c, x, 0
	case 1:
		r, g, b = x, c, 0
	case 2:
		r, g, b = 0, c, x
	case 3:
		r, g, b = 0, x, c
	case 4:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return color.RGBA{
		uint8((r + m) * 255), uint8((g + m) * 255), uint8((b + m) * 255), 255,
	}
}

// Grey returns a sequential palette interpolating greys from start to
// end (both in [0, 1]) in linear-light space, so perceived lightness
// steps evenly despite sRGB gamma.
func Grey(start, end float64) func(n int) []color.Color {
	return func(n int) []color.Color {
		if n <= 0 {
			return nil
		}
		cols := make([]color.Color, n)
		for i := 0; i < n; i++ {
			t := 0.0
			if n > 1 {
				t = float64(i) / float64(n-1)
			}
			lin := start + t*(end-start)
			v := linearTosRGB8(lin)
			cols[i] = color.RGBA{v, v, v, 255}
		}
		return cols
	}
}

func linearTosRGB8(x float64) uint8 {
	if x < 0 {
		x = 0
	} else if x > 1 {
		x = 1
	}
	var s float64
	if x <= 0.0031308 {
		s = x * 12.92
	} else {
		s = 1.055*math.Pow(x, 1/2.4) - 0.055
	}
	return uint8(s*255 + 0.5)
}

// Gradient returns a continuous palette interpolating between low and
// high.
func Gradient(low, high color.RGBA) ggpalette.Continuous {
	return ggpalette.RGBGradient{Colors: []color.RGBA{low, high}}
}

// Gradient2 returns a continuous diverging palette through mid at the
// given midpoint position in [0, 1].
func Gradient2(low, mid, high color.RGBA, midpoint float64) ggpalette.Continuous {
	return ggpalette.RGBGradient{
		Colors: []color.RGBA{low, mid, high},
		Stops:  []float64{0, midpoint, 1},
	}
}

// GradientN returns a continuous palette interpolating between the
// given color sequence, evenly spaced.
func GradientN(colors ...color.RGBA) ggpalette.Continuous {
	return ggpalette.RGBGradient{Colors: colors}
}

// Viridis is the default continuous color palette.
var Viridis ggpalette.Continuous = ggpalette.Viridis

// Manual returns a palette that hands out the given values in order.
// It errors if fewer values were supplied than levels requested.
// Values may be color names resolvable by ParseColor, colors, or any
// other visual value.
func Manual(values []interface{}) func(n int) ([]interface{}, error) {
	return func(n int) ([]interface{}, error) {
		if n > len(values) {
			return nil, fmt.Errorf("manual palette has %d values but %d are needed", len(values), n)
		}
		return values[:n], nil
	}
}

// ParseColor resolves an SVG 1.1 color name to a color. It reports
// whether the name was known.
func ParseColor(name string) (color.Color, bool) {
	c, ok := colornames.Map[name]
	return c, ok
}

// Identity returns the values it is given, for pre-scaled aesthetics.
func Identity(values []interface{}) []interface{} {
	return values
}

// Area returns a continuous palette mapping a normalized value in
// [0, 1] to a size in [min, max] such that the *area* of the drawn
// mark, not its radius, is linear in the data value.
func Area(min, max float64) func(x float64) float64 {
	return func(x float64) float64 {
		if math.IsNaN(x) {
			return math.NaN()
		}
		return min + math.Sqrt(x)*(max-min)
	}
}

// Shapes is the finite shape vocabulary, cycled by the shape palette.
var Shapes = []string{
	"circle", "triangle", "square", "plus", "cross",
	"diamond", "triangle-down", "circle-open", "square-open",
}

// Linetypes is the finite line type vocabulary.
var Linetypes = []string{
	"solid", "dashed", "dotted", "dotdash", "longdash", "twodash",
}

// Discrete returns a palette over a finite vocabulary. The first n
// values are handed out in order; requests beyond the vocabulary are
// padded with "".
func Discrete(vocab []string) func(n int) []string {
	return func(n int) []string {
		out := make([]string, n)
		copy(out, vocab)
		return out
	}
}
