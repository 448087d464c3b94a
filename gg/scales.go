// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gg

import (
	"image/color"

	ggpalette "github.com/aclements/go-gg/palette"

	"github.com/plotgrammar/ggplot/palette"
	"github.com/plotgrammar/ggplot/transform"
)

// The aesthetics of the x and y scale families. A scale trained for
// "x" also governs the derived positional aesthetics.
var (
	xFamily = []string{"x", "xmin", "xmax", "xend"}
	yFamily = []string{"y", "ymin", "ymax", "yend"}
)

// scaleFamily maps an aesthetic name to the primary aesthetic of the
// scale that governs it.
func scaleFamily(aes string) string {
	for _, a := range xFamily {
		if a == aes {
			return "x"
		}
	}
	for _, a := range yFamily {
		if a == aes {
			return "y"
		}
	}
	return aes
}

func familyAesthetics(primary string) []string {
	switch primary {
	case "x":
		return xFamily
	case "y":
		return yFamily
	}
	return []string{primary}
}

// naGrey is the default visual value for unmapped discrete values.
var naGrey = color.RGBA{0x7f, 0x7f, 0x7f, 0xff}

// parseColorName resolves an SVG color name.
func parseColorName(name string) (color.Color, bool) {
	return palette.ParseColor(name)
}

func colorPaletteD(f func(n int) []color.Color) func(int) ([]interface{}, error) {
	return func(n int) ([]interface{}, error) {
		cols := f(n)
		out := make([]interface{}, len(cols))
		for i, c := range cols {
			out[i] = c
		}
		return out, nil
	}
}

func continuousColor(p ggpalette.Continuous) func(float64) interface{} {
	return func(x float64) interface{} { return p.Map(x) }
}

// DefaultScale instantiates the default scale for an aesthetic and an
// inferred column kind. The mapping is a closed variant over
// {continuous, discrete, datetime}; aesthetics that cannot carry a
// kind (a continuous shape, say) are configuration errors.
func DefaultScale(aes string, kind ColKind) (*Scale, error) {
	primary := scaleFamily(aes)
	s := &Scale{
		Aesthetics: familyAesthetics(primary),
		Kind:       kind,
		NA:         naGrey,
	}
	if kind == KindDatetime {
		s.Trans = transform.Date()
	}

	switch primary {
	case "x", "y":
		// Positional scales map to [0,1]/index space; panels
		// apply the physical mapping at render time.
		return s, nil

	case "color", "fill":
		if kind == KindDiscrete {
			s.PaletteD = colorPaletteD(palette.Hue(15, 1))
		} else {
			s.PaletteC = continuousColor(palette.Viridis)
		}
		return s, nil

	case "size":
		area := palette.Area(1, 6)
		if kind == KindDiscrete {
			s.PaletteD = func(n int) ([]interface{}, error) {
				out := make([]interface{}, n)
				for i := range out {
					x := 0.5
					if n > 1 {
						x = float64(i) / float64(n-1)
					}
					out[i] = area(x)
				}
				return out, nil
			}
		} else {
			s.PaletteC = func(x float64) interface{} { return area(x) }
		}
		s.NA = float64(0)
		return s, nil

	case "alpha":
		if kind == KindDiscrete {
			s.PaletteD = func(n int) ([]interface{}, error) {
				out := make([]interface{}, n)
				for i := range out {
					x := 1.0
					if n > 1 {
						x = float64(i) / float64(n-1)
					}
					out[i] = 0.1 + 0.9*x
				}
				return out, nil
			}
		} else {
			s.PaletteC = func(x float64) interface{} { return 0.1 + 0.9*x }
		}
		s.NA = float64(0)
		return s, nil

	case "shape", "linetype":
		if kind != KindDiscrete {
			return nil, configErrf(primary+" mapping",
				"a %s variable cannot be mapped to %s", kind, primary)
		}
		vocab := palette.Shapes
		if primary == "linetype" {
			vocab = palette.Linetypes
		}
		pal := palette.Discrete(vocab)
		s.PaletteD = func(n int) ([]interface{}, error) {
			vs := pal(n)
			out := make([]interface{}, n)
			for i, v := range vs {
				if v == "" {
					// Beyond the vocabulary.
					continue
				}
				out[i] = v
			}
			return out, nil
		}
		s.NA = nil
		return s, nil
	}

	// Unknown non-positional aesthetics get an identity-style
	// discrete scale so user-defined aesthetics still flow.
	if kind == KindDiscrete {
		s.PaletteD = func(n int) ([]interface{}, error) {
			out := make([]interface{}, n)
			return out, nil
		}
	} else {
		s.PaletteC = func(x float64) interface{} { return x }
	}
	return s, nil
}

// Clone returns a copy of s with freshly untrained ranges. Facet
// layouts with free scales clone the user's scale per panel row or
// column.
func (s *Scale) Clone() *Scale {
	ns := *s
	ns.crange = ContinuousRange{}
	ns.drange = DiscreteRange{}
	return &ns
}

// Scales is the plot's ordered scale list. At most one scale governs
// each aesthetic family; adding a second replaces the first.
type Scales struct {
	list []*Scale
}

// Add registers a user scale, replacing any scale already governing
// the same family.
func (ss *Scales) Add(s *Scale) {
	primary := s.primaryAes()
	for i, old := range ss.list {
		if old.primaryAes() == primary {
			ss.list[i] = s
			return
		}
	}
	ss.list = append(ss.list, s)
}

// Find returns the scale governing aes, or nil.
func (ss *Scales) Find(aes string) *Scale {
	primary := scaleFamily(aes)
	for _, s := range ss.list {
		if s.governs(primary) {
			return s
		}
	}
	return nil
}

// Ensure returns the scale governing aes, instantiating and
// registering the default for the column kind if none exists yet.
func (ss *Scales) Ensure(aes string, kind ColKind) (*Scale, error) {
	if s := ss.Find(aes); s != nil {
		return s, nil
	}
	s, err := DefaultScale(aes, kind)
	if err != nil {
		return nil, err
	}
	ss.list = append(ss.list, s)
	return s, nil
}

// resolveTrans resolves transforms registered by name on user scales.
func (ss *Scales) resolveTrans() error {
	for _, s := range ss.list {
		if s.TransName == "" || s.Trans != nil {
			continue
		}
		tr, err := transform.Get(s.TransName)
		if err != nil {
			return configErrf("trans for "+s.primaryAes(), "%v", err)
		}
		s.Trans = tr
	}
	return nil
}

// All returns the scales in registration order.
func (ss *Scales) All() []*Scale { return ss.list }

// Reset resets every shrink-to-fit scale between builds.
func (ss *Scales) Reset() {
	for _, s := range ss.list {
		s.Reset()
	}
}
