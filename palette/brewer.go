// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package palette

import (
	"fmt"
	"image/color"
)

// BrewerType classifies a brewer family.
type BrewerType int

const (
	Sequential BrewerType = iota
	Diverging
	Qualitative
)

func (t BrewerType) String() string {
	return []string{"sequential", "diverging", "qualitative"}[t]
}

// A BrewerFamily is one of Cynthia Brewer's map color designs
// (colorbrewer2.org). Each family has a documented maximum number of
// distinguishable colors; counts up to the maximum subset the largest
// design evenly.
type BrewerFamily struct {
	Name   string
	Type   BrewerType
	colors []color.RGBA
}

// Max returns the maximum number of colors this family carries.
func (f *BrewerFamily) Max() int { return len(f.colors) }

// Colors returns n colors from the family. Requests beyond Max pad
// the tail with nil sentinels; the caller is expected to warn.
func (f *BrewerFamily) Colors(n int) []color.Color {
	out := make([]color.Color, n)
	m := len(f.colors)
	if n >= m {
		for i := 0; i < m; i++ {
			out[i] = f.colors[i]
		}
		return out
	}
	if f.Type == Qualitative {
		// Qualitative designs are ordered by distinctness; take
		// a prefix so adding levels never recolors earlier ones.
		for i := 0; i < n; i++ {
			out[i] = f.colors[i]
		}
		return out
	}
	if n == 1 {
		out[0] = f.colors[m/2]
		return out
	}
	// Evenly subset the largest design.
	for i := 0; i < n; i++ {
		out[i] = f.colors[i*(m-1)/(n-1)]
	}
	return out
}

func hex(v uint32) color.RGBA {
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}
}

var brewerFamilies = map[string]*BrewerFamily{
	"Blues": {"Blues", Sequential, []color.RGBA{
		hex(0xf7fbff), hex(0xdeebf7), hex(0xc6dbef), hex(0x9ecae1),
		hex(0x6baed6), hex(0x4292c6), hex(0x2171b5), hex(0x08519c),
		hex(0x08306b),
	}},
	"Greens": {"Greens", Sequential, []color.RGBA{
		hex(0xf7fcf5), hex(0xe5f5e0), hex(0xc7e9c0), hex(0xa1d99b),
		hex(0x74c476), hex(0x41ab5d), hex(0x238b45), hex(0x006d2c),
		hex(0x00441b),
	}},
	"Reds": {"Reds", Sequential, []color.RGBA{
		hex(0xfff5f0), hex(0xfee0d2), hex(0xfcbba1), hex(0xfc9272),
		hex(0xfb6a4a), hex(0xef3b2c), hex(0xcb181d), hex(0xa50f15),
		hex(0x67000d),
	}},
	"RdBu": {"RdBu", Diverging, []color.RGBA{
		hex(0x67001f), hex(0xb2182b), hex(0xd6604d), hex(0xf4a582),
		hex(0xfddbc7), hex(0xf7f7f7), hex(0xd1e5f0), hex(0x92c5de),
		hex(0x4393c3), hex(0x2166ac), hex(0x053061),
	}},
	"Spectral": {"Spectral", Diverging, []color.RGBA{
		hex(0x9e0142), hex(0xd53e4f), hex(0xf46d43), hex(0xfdae61),
		hex(0xfee08b), hex(0xffffbf), hex(0xe6f598), hex(0xabdda4),
		hex(0x66c2a5), hex(0x3288bd), hex(0x5e4fa2),
	}},
	"Set1": {"Set1", Qualitative, []color.RGBA{
		hex(0xe41a1c), hex(0x377eb8), hex(0x4daf4a), hex(0x984ea3),
		hex(0xff7f00), hex(0xffff33), hex(0xa65628), hex(0xf781bf),
		hex(0x999999),
	}},
	"Set2": {"Set2", Qualitative, []color.RGBA{
		hex(0x66c2a5), hex(0xfc8d62), hex(0x8da0cb), hex(0xe78ac3),
		hex(0xa6d854), hex(0xffd92f), hex(0xe5c494), hex(0xb3b3b3),
	}},
	"Dark2": {"Dark2", Qualitative, []color.RGBA{
		hex(0x1b9e77), hex(0xd95f02), hex(0x7570b3), hex(0xe7298a),
		hex(0x66a61e), hex(0xe6ab02), hex(0xa6761d), hex(0x666666),
	}},
}

// Brewer looks up a brewer family by name.
func Brewer(name string) (*BrewerFamily, error) {
	f, ok := brewerFamilies[name]
	if !ok {
		return nil, fmt.Errorf("unknown brewer palette %q", name)
	}
	return f, nil
}
