// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gg

import (
	"math"
	"sort"
	"strings"

	"github.com/aclements/go-gg/table"
)

// A Facet partitions a plot's data into a rectangular grid of panels.
type Facet interface {
	// layout computes the panel table from the union of facet
	// variable combinations observed across all layers' data.
	layout(layers []*table.Table) (*PanelLayout, error)
}

// marginLevel is the pseudo-level representing a row or column total
// when grid margins are enabled.
const marginLevel = "(all)"

// PanelLayout is the frame describing every facet cell: one row per
// panel with its dense 1..N PANEL id, grid ROW/COL, the facet
// variable values, and the SCALE_X/SCALE_Y physical scale indices.
// It is computed once per build and immutable thereafter.
type PanelLayout struct {
	// Table has columns PANEL, ROW, COL, one column per facet
	// variable, SCALE_X and SCALE_Y.
	Table *table.Table

	// Vars lists the facetting variables in the order their
	// columns appear.
	Vars []string

	// NRow and NCol are the grid dimensions.
	NRow, NCol int
}

// NPanels returns the panel count.
func (l *PanelLayout) NPanels() int { return l.Table.Len() }

// NXScales and NYScales return the number of physical x and y scale
// instances the layout requires.
func (l *PanelLayout) NXScales() int { return maxInt(l.scaleCol("SCALE_X")) }
func (l *PanelLayout) NYScales() int { return maxInt(l.scaleCol("SCALE_Y")) }

func (l *PanelLayout) scaleCol(name string) []int {
	return l.Table.MustColumn(name).([]int)
}

func maxInt(xs []int) int {
	m := 0
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}

// XScaleOf and YScaleOf return the 1-based physical scale index used
// by a panel.
func (l *PanelLayout) XScaleOf(panel int) int { return l.scaleCol("SCALE_X")[panel-1] }
func (l *PanelLayout) YScaleOf(panel int) int { return l.scaleCol("SCALE_Y")[panel-1] }

// RowColOf returns a panel's grid position.
func (l *PanelLayout) RowColOf(panel int) (row, col int) {
	return l.Table.MustColumn("ROW").([]int)[panel-1], l.Table.MustColumn("COL").([]int)[panel-1]
}

// panelKey builds the lookup key of a panel restricted to the given
// variables.
func (l *PanelLayout) panelKey(panel int, vars []string) string {
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = l.Table.MustColumn(v).([]string)[panel-1]
	}
	return strings.Join(parts, "\x00")
}

// MapPanels assigns each row of a layer frame to its panels and
// returns the frame with a PANEL column appended. Rows are matched by
// exact lookup on the facet variables they carry; rows missing facet
// variables broadcast across every combination of the missing ones.
// Rows matching no panel are dropped with a warning.
func (l *PanelLayout) MapPanels(w *Warnings, t *table.Table) *table.Table {
	var present []string
	for _, v := range l.Vars {
		if t.Column(v) != nil {
			present = append(present, v)
		}
	}

	// Index panels by their key over the present variables. A key
	// maps to several panels exactly when the row broadcasts.
	byKey := make(map[string][]int)
	for p := 1; p <= l.NPanels(); p++ {
		k := l.panelKey(p, present)
		byKey[k] = append(byKey[k], p)
	}

	keys := make([][]string, len(present))
	for i, v := range present {
		keys[i] = levelStrings(t.Column(v))
	}

	var idx, panels []int
	for r := 0; r < t.Len(); r++ {
		parts := make([]string, len(present))
		for i := range present {
			parts[i] = keys[i][r]
		}
		ps := byKey[strings.Join(parts, "\x00")]
		// Margin panels aggregate across a variable, so a row
		// also lands in every panel where some of its values
		// are replaced by the margin pseudo-level.
		for mask := 1; mask < 1<<len(present); mask++ {
			mparts := append([]string(nil), parts...)
			for i := range mparts {
				if mask&(1<<i) != 0 {
					mparts[i] = marginLevel
				}
			}
			ps = append(ps, byKey[strings.Join(mparts, "\x00")]...)
		}
		if ps == nil {
			w.Warnf("row does not match any facet panel; dropping")
			continue
		}
		for _, p := range ps {
			idx = append(idx, r)
			panels = append(panels, p)
		}
	}

	nt := selectRows(t, idx)
	return table.NewBuilder(nt).Add("PANEL", panels).Done()
}

// ParseFacetFormula parses a "rowvars ~ colvars" grid specification.
// Variables are joined with "+" and "." denotes an empty side.
func ParseFacetFormula(formula string) (rows, cols []string, err error) {
	parts := strings.Split(formula, "~")
	if len(parts) != 2 {
		return nil, nil, configErrf("facet formula", "%q must have the form \"rowvars ~ colvars\"", formula)
	}
	parse := func(side string) []string {
		var vars []string
		for _, v := range strings.Split(side, "+") {
			v = strings.TrimSpace(v)
			if v == "" || v == "." {
				continue
			}
			vars = append(vars, v)
		}
		return vars
	}
	return parse(parts[0]), parse(parts[1]), nil
}

// observedCombos collects the unique combinations of vars observed
// across the layer frames that carry all of them, ranked in sorted
// order.
func observedCombos(layers []*table.Table, vars []string) [][]string {
	if len(vars) == 0 {
		return [][]string{nil}
	}
	seen := make(map[string][]string)
	for _, t := range layers {
		cols := make([][]string, len(vars))
		ok := true
		for i, v := range vars {
			c := t.Column(v)
			if c == nil {
				ok = false
				break
			}
			cols[i] = levelStrings(c)
		}
		if !ok {
			continue
		}
		for r := 0; r < t.Len(); r++ {
			combo := make([]string, len(vars))
			for i := range vars {
				combo[i] = cols[i][r]
			}
			seen[strings.Join(combo, "\x00")] = combo
		}
	}
	combos := make([][]string, 0, len(seen))
	for _, c := range seen {
		combos = append(combos, c)
	}
	sort.Slice(combos, func(i, j int) bool {
		return strings.Join(combos[i], "\x00") < strings.Join(combos[j], "\x00")
	})
	return combos
}

// FacetNull is the default single-panel facet.
type FacetNull struct{}

func (FacetNull) layout(layers []*table.Table) (*PanelLayout, error) {
	t := new(table.Builder).
		Add("PANEL", []int{1}).
		Add("ROW", []int{1}).
		Add("COL", []int{1}).
		Add("SCALE_X", []int{1}).
		Add("SCALE_Y", []int{1}).
		Done()
	return &PanelLayout{Table: t, NRow: 1, NCol: 1}, nil
}

// FacetGrid lays panels out as the cross product of row-variable
// combinations by column-variable combinations.
type FacetGrid struct {
	// Rows and Cols are the facetting variables of each grid
	// direction. They must be disjoint.
	Rows, Cols []string

	// Margins adds pseudo rows/columns aggregating across each
	// facetting variable.
	Margins bool

	// FreeX gives each grid column its own x scale; FreeY gives
	// each grid row its own y scale.
	FreeX, FreeY bool
}

// NewFacetGrid builds a FacetGrid from a formula such as "a + b ~ c".
func NewFacetGrid(formula string) (*FacetGrid, error) {
	rows, cols, err := ParseFacetFormula(formula)
	if err != nil {
		return nil, err
	}
	return &FacetGrid{Rows: rows, Cols: cols}, nil
}

func (f *FacetGrid) layout(layers []*table.Table) (*PanelLayout, error) {
	for _, r := range f.Rows {
		for _, c := range f.Cols {
			if r == c {
				return nil, configErrf("facet grid", "variable %q appears in both rows and cols", r)
			}
		}
	}
	rowCombos := observedCombos(layers, f.Rows)
	colCombos := observedCombos(layers, f.Cols)
	if f.Margins {
		if len(f.Rows) > 0 {
			rowCombos = append(rowCombos, marginCombo(len(f.Rows)))
		}
		if len(f.Cols) > 0 {
			colCombos = append(colCombos, marginCombo(len(f.Cols)))
		}
	}

	nrow, ncol := len(rowCombos), len(colCombos)
	n := nrow * ncol
	panel := make([]int, 0, n)
	rowc := make([]int, 0, n)
	colc := make([]int, 0, n)
	sx := make([]int, 0, n)
	sy := make([]int, 0, n)
	varCols := make(map[string][]string)
	vars := append(append([]string{}, f.Rows...), f.Cols...)

	for ri, rc := range rowCombos {
		for ci, cc := range colCombos {
			panel = append(panel, len(panel)+1)
			rowc = append(rowc, ri+1)
			colc = append(colc, ci+1)
			if f.FreeX {
				sx = append(sx, ci+1)
			} else {
				sx = append(sx, 1)
			}
			if f.FreeY {
				sy = append(sy, ri+1)
			} else {
				sy = append(sy, 1)
			}
			for i, v := range f.Rows {
				varCols[v] = append(varCols[v], rc[i])
			}
			for i, v := range f.Cols {
				varCols[v] = append(varCols[v], cc[i])
			}
		}
	}

	b := new(table.Builder).Add("PANEL", panel).Add("ROW", rowc).Add("COL", colc)
	for _, v := range vars {
		b.Add(v, varCols[v])
	}
	b.Add("SCALE_X", sx).Add("SCALE_Y", sy)
	return &PanelLayout{Table: b.Done(), Vars: vars, NRow: nrow, NCol: ncol}, nil
}

func marginCombo(n int) []string {
	c := make([]string, n)
	for i := range c {
		c[i] = marginLevel
	}
	return c
}

// FacetWrap cross-combines a single ordered variable list and wraps
// the combinations into a near-square grid.
type FacetWrap struct {
	// Vars are the facetting variables.
	Vars []string

	// NRow and NCol pin one grid dimension. At most one should be
	// set; zero values are computed.
	NRow, NCol int

	// FreeX and FreeY give every panel its own x or y scale.
	FreeX, FreeY bool
}

// wrapDims computes the wrap grid dimensions, mirroring the
// grDevices::n2mfrow convention for small counts.
func wrapDims(n, nrow, ncol int) (int, int) {
	switch {
	case nrow == 0 && ncol == 0:
		return n2mfrow(n)
	case ncol == 0:
		return nrow, ceilDiv(n, nrow)
	case nrow == 0:
		return ceilDiv(n, ncol), ncol
	}
	return nrow, ncol
}

func n2mfrow(n int) (nr, nc int) {
	switch {
	case n <= 3:
		return n, 1
	case n <= 6:
		return ceilDiv(n, 2), 2
	case n <= 12:
		return ceilDiv(n, 3), 3
	}
	nr = int(math.Ceil(math.Sqrt(float64(n))))
	return nr, ceilDiv(n, nr)
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

func (f *FacetWrap) layout(layers []*table.Table) (*PanelLayout, error) {
	if len(f.Vars) == 0 {
		return nil, configErrf("facet wrap", "no facetting variables")
	}
	combos := observedCombos(layers, f.Vars)
	n := len(combos)
	nrow, ncol := wrapDims(n, f.NRow, f.NCol)
	if nrow*ncol < n {
		return nil, configErrf("facet wrap", "nrow*ncol = %d is too small for %d panels", nrow*ncol, n)
	}

	panel := make([]int, n)
	rowc := make([]int, n)
	colc := make([]int, n)
	sx := make([]int, n)
	sy := make([]int, n)
	varCols := make(map[string][]string)
	for i, combo := range combos {
		panel[i] = i + 1
		rowc[i] = i/ncol + 1
		colc[i] = i%ncol + 1
		sx[i], sy[i] = 1, 1
		if f.FreeX {
			sx[i] = i + 1
		}
		if f.FreeY {
			sy[i] = i + 1
		}
		for j, v := range f.Vars {
			varCols[v] = append(varCols[v], combo[j])
		}
	}

	b := new(table.Builder).Add("PANEL", panel).Add("ROW", rowc).Add("COL", colc)
	for _, v := range f.Vars {
		b.Add(v, varCols[v])
	}
	b.Add("SCALE_X", sx).Add("SCALE_Y", sy)
	return &PanelLayout{Table: b.Done(), Vars: f.Vars, NRow: nrow, NCol: ncol}, nil
}
