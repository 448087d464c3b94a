// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gg

import (
	"math"
	"math/rand"
	"sort"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/gonum/floats"
)

// A Position resolves overlap between geometric objects sharing an x
// position within one panel. Adjust is applied once per panel frame
// and never across panels.
type Position interface {
	Name() string
	Adjust(w *Warnings, t *table.Table) (*table.Table, error)
}

// floatCol converts a column to []float64, or nil if absent.
func floatCol(t *table.Table, name string) []float64 {
	c := t.Column(name)
	if c == nil {
		return nil
	}
	return asFloats(c)
}

// rebuild replaces float columns in t, preserving column order.
func rebuild(t *table.Table, cols map[string][]float64) *table.Table {
	b := table.NewBuilder(t)
	for name, xs := range cols {
		b.Add(name, xs)
	}
	return b.Done()
}

// selectRows builds a new frame containing t's rows in idx order.
func selectRows(t *table.Table, idx []int) *table.Table {
	var b table.Builder
	for _, col := range t.Columns() {
		b.Add(col, slice.Select(t.Column(col), idx))
	}
	return b.Done()
}

// resolveWidth returns the common interval width for collision
// detection: the explicit width if configured, else the constant
// xmax-xmin span of the data. A non-constant span is an advisory
// condition; the first observed width wins.
func resolveWidth(w *Warnings, t *table.Table, explicit float64) (float64, error) {
	if explicit > 0 {
		return explicit, nil
	}
	xmin, xmax := floatCol(t, "xmin"), floatCol(t, "xmax")
	if xmin != nil && xmax != nil && len(xmin) > 0 {
		width := xmax[0] - xmin[0]
		for i := range xmin {
			if math.Abs((xmax[i]-xmin[i])-width) > 1e-9 {
				w.Warnf("width not constant in collision detection; using first width %g", width)
				break
			}
		}
		return width, nil
	}
	// Fall back to the resolution of x.
	if xs := floatCol(t, "x"); len(xs) > 1 {
		u := append([]float64(nil), xs...)
		sort.Float64s(u)
		width := math.Inf(1)
		for i := 1; i < len(u); i++ {
			if d := u[i] - u[i-1]; d > 1e-12 && d < width {
				width = d
			}
		}
		if !math.IsInf(width, 1) {
			return width * 0.9, nil
		}
	}
	return 0, configErrf("position width", "width is required but was not specified and cannot be derived")
}

// collide sorts a panel frame stably by xmin, checks interval
// consistency, groups rows sharing an xmin, and applies strategy to
// each group. The stable sort is load-bearing: row order within an
// xmin group determines stacking order. The strategy receives the
// sorted frame; its row indices refer to that frame, not the input.
func collide(w *Warnings, t *table.Table, width float64, strategy func(sorted *table.Table, rows []int, cols map[string][]float64)) (*table.Table, error) {
	n := t.Len()
	xmin := floatCol(t, "xmin")
	xmax := floatCol(t, "xmax")
	if xmin == nil {
		xs := floatCol(t, "x")
		if xs == nil {
			return nil, RequireAes(t, "position adjustment", "x")
		}
		xmin = make([]float64, n)
		xmax = make([]float64, n)
		for i, x := range xs {
			xmin[i] = x - width/2
			xmax[i] = x + width/2
		}
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return xmin[idx[i]] < xmin[idx[j]] })
	t = selectRows(t, idx)

	cols := map[string][]float64{
		"xmin": slice.Select(xmin, idx).([]float64),
		"xmax": slice.Select(xmax, idx).([]float64),
	}
	for _, name := range []string{"x", "y", "ymin", "ymax"} {
		if c := floatCol(t, name); c != nil {
			cols[name] = c
		}
	}
	xmin, xmax = cols["xmin"], cols["xmax"]

	// Check that intervals do not overlap inconsistently.
	for i := 1; i < n; i++ {
		if xmin[i] < xmax[i-1]-1e-9 && xmin[i] != xmin[i-1] {
			w.Warnf("position adjustment found overlapping intervals of differing origin")
			break
		}
	}

	for i := 0; i < n; {
		j := i
		for j < n && xmin[j] == xmin[i] {
			j++
		}
		rows := make([]int, j-i)
		for k := range rows {
			rows[k] = i + k
		}
		strategy(t, rows, cols)
		i = j
	}

	return rebuild(t, cols), nil
}

// ensureFloatCols adds zero-valued float columns for any of names
// missing from the frame.
func ensureFloatCols(t *table.Table, names ...string) *table.Table {
	b := table.NewBuilder(t)
	dirty := false
	for _, name := range names {
		if t.Column(name) == nil {
			b.Add(name, make([]float64, t.Len()))
			dirty = true
		}
	}
	if !dirty {
		return t
	}
	return b.Done()
}

// groupIDs returns the group column, or all-ones.
func groupIDs(t *table.Table) []int {
	if c := t.Column("group"); c != nil {
		var out []int
		slice.Convert(&out, c)
		return out
	}
	return intCol(t.Len(), 1)
}

// PositionIdentity performs no adjustment.
type PositionIdentity struct{}

func (PositionIdentity) Name() string { return "identity" }

func (PositionIdentity) Adjust(w *Warnings, t *table.Table) (*table.Table, error) {
	return t, nil
}

// PositionStack stacks overlapping y values at the same x into
// cumulative ymin/ymax bands, in row order.
type PositionStack struct {
	// Width is the explicit interval width. Zero derives it from
	// the data.
	Width float64

	// fill, when set, renormalizes each stack to [0, 1].
	fill bool
}

func (p PositionStack) Name() string { return "stack" }

func (p PositionStack) Adjust(w *Warnings, t *table.Table) (*table.Table, error) {
	if t.Len() == 0 {
		return t, nil
	}
	if err := RequireAes(t, "position_stack", "y"); err != nil {
		return nil, err
	}
	if ymin := floatCol(t, "ymin"); ymin != nil {
		for _, v := range ymin {
			if v != 0 {
				w.Warnf("position_stack: ymin is not zero; stacking from the y origin anyway")
				break
			}
		}
	}
	width, err := resolveWidth(w, t, p.Width)
	if err != nil {
		return nil, err
	}
	// Stacking always produces bands, even when the input carries
	// only a bare y column.
	t = ensureFloatCols(t, "ymin", "ymax")
	return collide(w, t, width, func(_ *table.Table, rows []int, cols map[string][]float64) {
		ys := make([]float64, len(rows))
		for k, r := range rows {
			y := cols["y"][r]
			if math.IsNaN(y) {
				y = 0
			}
			ys[k] = y
		}
		cum := make([]float64, len(ys))
		floats.CumSum(cum, ys)
		total := cum[len(cum)-1]

		for k, r := range rows {
			lo := cum[k] - ys[k]
			hi := cum[k]
			if p.fill && total != 0 {
				lo /= total
				hi /= total
			}
			cols["ymin"][r] = lo
			cols["ymax"][r] = hi
			cols["y"][r] = hi
		}
	})
}

// PositionFill stacks and then renormalizes every band so stacks span
// [0, 1].
type PositionFill struct {
	Width float64
}

func (p PositionFill) Name() string { return "fill" }

func (p PositionFill) Adjust(w *Warnings, t *table.Table) (*table.Table, error) {
	return PositionStack{Width: p.Width, fill: true}.Adjust(w, t)
}

// PositionDodge re-centers group members sharing an x, dividing the
// available width evenly across the distinct groups present there.
type PositionDodge struct {
	Width float64
}

func (p PositionDodge) Name() string { return "dodge" }

func (p PositionDodge) Adjust(w *Warnings, t *table.Table) (*table.Table, error) {
	if t.Len() == 0 {
		return t, nil
	}
	width, err := resolveWidth(w, t, p.Width)
	if err != nil {
		return nil, err
	}
	// Distinct groups are counted across the whole panel so every
	// x position dodges into the same slots, in first-seen order.
	order := map[int]int{}
	for _, g := range groupIDs(t) {
		if _, ok := order[g]; !ok {
			order[g] = len(order)
		}
	}
	n := len(order)
	var groups []int
	adj, err := collide(w, t, width, func(sorted *table.Table, rows []int, cols map[string][]float64) {
		if groups == nil {
			groups = groupIDs(sorted)
		}
		for _, r := range rows {
			gi := order[groups[r]]
			center := (cols["xmin"][r] + cols["xmax"][r]) / 2
			neww := width / float64(n)
			newx := center - width/2 + neww*(float64(gi)+0.5)
			if cols["x"] != nil {
				cols["x"][r] = newx
			}
			cols["xmin"][r] = newx - neww/2
			cols["xmax"][r] = newx + neww/2
		}
	})
	if err != nil {
		return nil, err
	}
	return adj, nil
}

// offsetXY applies a pointwise offset to the x- and y-family columns
// present in the frame, skipping collision detection entirely.
func offsetXY(t *table.Table, dx, dy func(i int) float64) *table.Table {
	cols := map[string][]float64{}
	for _, name := range xFamily {
		if c := floatCol(t, name); c != nil {
			for i := range c {
				c[i] += dx(i)
			}
			cols[name] = c
		}
	}
	for _, name := range yFamily {
		if c := floatCol(t, name); c != nil {
			for i := range c {
				c[i] += dy(i)
			}
			cols[name] = c
		}
	}
	return rebuild(t, cols)
}

// PositionNudge shifts every object by a fixed offset.
type PositionNudge struct {
	X, Y float64
}

func (p PositionNudge) Name() string { return "nudge" }

func (p PositionNudge) Adjust(w *Warnings, t *table.Table) (*table.Table, error) {
	return offsetXY(t, func(int) float64 { return p.X }, func(int) float64 { return p.Y }), nil
}

// PositionJitter adds bounded uniform noise to x and y. The noise is
// seeded so builds are reproducible.
type PositionJitter struct {
	// Width and Height bound the noise at +/- half their value.
	Width, Height float64

	// Seed seeds the noise source.
	Seed int64
}

func (p PositionJitter) Name() string { return "jitter" }

func (p PositionJitter) Adjust(w *Warnings, t *table.Table) (*table.Table, error) {
	rng := rand.New(rand.NewSource(p.Seed))
	jx := make([]float64, t.Len())
	jy := make([]float64, t.Len())
	for i := range jx {
		jx[i] = (rng.Float64() - 0.5) * p.Width
		jy[i] = (rng.Float64() - 0.5) * p.Height
	}
	return offsetXY(t, func(i int) float64 { return jx[i] }, func(i int) float64 { return jy[i] }), nil
}

// PositionJitterDodge dodges groups apart and then jitters within the
// dodged positions, with noise scaled by 1/(levels+2).
type PositionJitterDodge struct {
	Width float64

	// Height bounds optional vertical jitter; zero disables it.
	Height float64

	Seed int64
}

func (p PositionJitterDodge) Name() string { return "jitterdodge" }

func (p PositionJitterDodge) Adjust(w *Warnings, t *table.Table) (*table.Table, error) {
	adj, err := PositionDodge{Width: p.Width}.Adjust(w, t)
	if err != nil {
		return nil, err
	}
	groups := groupIDs(adj)
	distinct := map[int]bool{}
	for _, g := range groups {
		distinct[g] = true
	}
	width, err := resolveWidth(w, adj, p.Width)
	if err != nil {
		return nil, err
	}
	jitter := PositionJitter{
		Width:  width / float64(len(distinct)+2),
		Height: p.Height,
		Seed:   p.Seed,
	}
	return jitter.Adjust(w, adj)
}
