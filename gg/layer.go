// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gg

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
)

// A Layer couples one geometry, one statistic, one position
// adjustment, a data frame, and an aesthetic mapping. It owns no
// scale state; the build pipeline derives a fresh frame at every
// stage.
type Layer struct {
	// Geom is the geometry kind. Required.
	Geom Geom

	// Stat computes derived columns. Nil means the geometry's
	// registered default statistic, or identity.
	Stat Stat

	// Position resolves overlap. Nil means the geometry's
	// default adjustment.
	Position Position

	// Data overrides the plot's default frame.
	Data *table.Table

	// Mapping is the layer's aesthetic mapping, merged over the
	// plot mapping unless NoInherit is set.
	Mapping Aes

	// NoInherit stops the plot-level mapping from being merged
	// in.
	NoInherit bool

	// Set fixes aesthetics to constant values. Constants win over
	// mapped and computed values and never generate legend
	// entries. A non-scalar value must have exactly one element
	// per row.
	Set map[string]interface{}
}

func (l *Layer) position() Position {
	if l.Position == nil {
		return l.Geom.DefaultPosition()
	}
	return l.Position
}

// layerData carries one layer's state through the build stages.
type layerData struct {
	layer   *Layer
	stat    Stat // the layer's statistic, defaults resolved
	mapping Aes  // active mapping, calc aesthetics removed
	calc    Aes  // double-dot computed aesthetics, applied after the stat
	frame   *table.Table

	// constants are the resolved constant aesthetics: geometry
	// defaults overlaid by scalar Set values.
	constants map[string]interface{}

	// visuals are the palette-mapped visual columns keyed by
	// aesthetic, filled by the mapping pass.
	visuals map[string][]interface{}
}

// aesthetics returns the layer's declared plus default aesthetics,
// minus constants fixed by Set: the set used to decide legend
// participation.
func (ld *layerData) aesthetics() map[string]bool {
	out := make(map[string]bool)
	for a := range ld.mapping {
		out[a] = true
	}
	for a := range ld.calc {
		out[a] = true
	}
	for a := range ld.layer.Geom.DefaultAes() {
		out[a] = true
	}
	for a := range ld.layer.Set {
		delete(out, a)
	}
	return out
}

// stage 1: resolve the active mapping and evaluate it against the
// panel-assigned frame, producing one column per aesthetic plus
// PANEL.
func (ld *layerData) buildMap(ev Evaluator, env map[string]table.Slice, input *table.Table) error {
	n := input.Len()
	var b table.Builder
	var order []string
	for a := range ld.mapping {
		order = append(order, a)
	}
	sort.Strings(order)
	for _, a := range order {
		expr := ld.mapping[a]
		col, err := evalAes(ev, a, expr, input, env, n)
		if err != nil {
			return err
		}
		b.Add(a, col)
	}
	b.Add("PANEL", input.MustColumn("PANEL"))
	ld.frame = b.Done()
	return nil
}

// stage 2: assign the group column, the dense id of the unique
// combination of discrete aesthetic columns within the frame (the
// label aesthetic excluded). An explicit group aesthetic wins; with
// no discrete aesthetic present every row lands in group 1.
func (ld *layerData) assignGroups() {
	t := ld.frame
	if c := t.Column("group"); c != nil {
		// Explicit grouping: map values to dense ids.
		vals := levelStrings(c)
		ids := denseIDs(vals)
		ld.frame = table.NewBuilder(t).Add("group", ids).Done()
		return
	}

	var discrete []string
	for _, col := range t.Columns() {
		if col == "PANEL" || col == "label" {
			continue
		}
		if colKindOf(t.Column(col)) == KindDiscrete {
			discrete = append(discrete, col)
		}
	}
	if discrete == nil {
		ld.frame = table.NewBuilder(t).Add("group", intCol(t.Len(), 1)).Done()
		return
	}

	keys := make([]string, t.Len())
	for _, col := range discrete {
		for i, v := range levelStrings(t.Column(col)) {
			keys[i] += v + "\x00"
		}
	}
	ld.frame = table.NewBuilder(t).Add("group", denseIDs(keys)).Done()
}

// denseIDs assigns each distinct key a dense 1..K id, ordered by
// sorted key so grouping is reproducible regardless of row order.
func denseIDs(keys []string) []int {
	uniq := uniqueStrings(keys)
	sort.Strings(uniq)
	id := make(map[string]int, len(uniq))
	for i, k := range uniq {
		id[k] = i + 1
	}
	out := make([]int, len(keys))
	for i, k := range keys {
		out[i] = id[k]
	}
	return out
}

// stage 3: run the statistic once per (PANEL, group) partition and
// recombine. Columns constant within a group that the statistic
// dropped are re-merged so aesthetics like a per-group color survive.
func (ld *layerData) computeStat(ctx *StatContext) error {
	st := ld.stat
	if _, ok := st.(StatIdentity); ok {
		return nil
	}
	if err := RequireAes(ld.frame, st.Name(), st.RequiredAes()...); err != nil {
		return err
	}

	g := table.GroupBy(ld.frame, "PANEL", "group")
	var outs []*table.Table
	for _, gid := range g.Tables() {
		in := g.Table(gid)
		out, err := st.Compute(ctx, in)
		if err != nil {
			return err
		}
		out = remergeConstants(in, out)
		outs = append(outs, out)
	}
	ld.frame = concatTables(outs)
	return nil
}

// remergeConstants copies columns of in that are constant across the
// group and missing from out.
func remergeConstants(in, out *table.Table) *table.Table {
	b := table.NewBuilder(out)
	for _, col := range in.Columns() {
		if out.Column(col) != nil {
			continue
		}
		seq := reflect.ValueOf(in.Column(col))
		if seq.Len() == 0 {
			continue
		}
		first := seq.Index(0).Interface()
		constant := true
		for i := 1; i < seq.Len(); i++ {
			if !reflect.DeepEqual(seq.Index(i).Interface(), first) {
				constant = false
				break
			}
		}
		if constant {
			b.AddConst(col, first)
		}
	}
	return b.Done()
}

// concatTables concatenates frames over the union of their columns,
// materializing constant columns. A column missing from some frames
// is NA-filled there: re-merged group constants exist only in the
// partitions where the column was constant.
func concatTables(ts []*table.Table) *table.Table {
	if len(ts) == 0 {
		return new(table.Table)
	}
	var cols []string
	elems := make(map[string]reflect.Type)
	for _, t := range ts {
		for _, col := range t.Columns() {
			if _, ok := elems[col]; ok {
				continue
			}
			cols = append(cols, col)
			elems[col] = reflect.TypeOf(t.MustColumn(col)).Elem()
		}
	}
	var b table.Builder
	for _, col := range cols {
		parts := make([]slice.T, len(ts))
		for i, t := range ts {
			if c := t.Column(col); c != nil {
				parts[i] = c
			} else {
				parts[i] = naSlice(elems[col], t.Len())
			}
		}
		b.Add(col, slice.Concat(parts...))
	}
	return b.Done()
}

// naSlice returns n missing values of element type elem: NaN for
// floats, zero values otherwise.
func naSlice(elem reflect.Type, n int) table.Slice {
	s := reflect.MakeSlice(reflect.SliceOf(elem), n, n)
	switch elem.Kind() {
	case reflect.Float64, reflect.Float32:
		nan := reflect.ValueOf(math.NaN()).Convert(elem)
		for i := 0; i < n; i++ {
			s.Index(i).Set(nan)
		}
	}
	return s.Interface()
}

// stage 4: copy computed statistic columns requested through the
// double-dot convention into their aesthetics, and instantiate scales
// for the newly appeared aesthetics from the column kind.
func (ld *layerData) mapCalcAes(scales *Scales) error {
	if len(ld.calc) == 0 {
		return nil
	}
	b := table.NewBuilder(ld.frame)
	for aes, expr := range ld.calc {
		name, _ := isCalc(expr)
		col := ld.frame.Column(name)
		if col == nil {
			return &AestheticEvaluationError{
				Aes: aes, Expr: expr,
				Err: fmt.Errorf("statistic %s did not compute column %q", ld.stat.Name(), name),
			}
		}
		b.Add(aes, col)
		if _, err := scales.Ensure(aes, colKindOf(col)); err != nil {
			return err
		}
	}
	ld.frame = b.Done()
	return nil
}

// stage 5: apply the position adjustment panel by panel. Adjustments
// never see data across panels.
func (ld *layerData) adjustPosition(w *Warnings) error {
	pos := ld.layer.position()
	if _, ok := pos.(PositionIdentity); ok {
		return nil
	}
	g := table.GroupBy(ld.frame, "PANEL")
	var outs []*table.Table
	for _, gid := range g.Tables() {
		out, err := pos.Adjust(w, g.Table(gid))
		if err != nil {
			return err
		}
		outs = append(outs, out)
	}
	ld.frame = concatTables(outs)
	return nil
}

// stage 6: resolve the geometry's default aesthetics for anything
// unmapped, then overlay manually fixed values. Constants win over
// mapped and computed values; sequence-valued constants must match
// the row count exactly.
func (ld *layerData) useDefaults() error {
	ld.constants = make(map[string]interface{})
	for aes, v := range ld.layer.Geom.DefaultAes() {
		if ld.frame.Column(aes) == nil {
			ld.constants[aes] = v
		}
	}
	n := ld.frame.Len()
	b := table.NewBuilder(ld.frame)
	dirty := false
	for aes, v := range ld.layer.Set {
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice {
			if rv.Len() != n {
				return configErrf(aes+" value",
					"manual value has %d elements for %d rows; must be a scalar or match", rv.Len(), n)
			}
			b.Add(aes, v)
			dirty = true
			continue
		}
		// Scalar constants override any mapped column.
		if ld.frame.Column(aes) != nil {
			b.Add(aes, nil) // drop the mapped column
			dirty = true
		}
		ld.constants[aes] = v
	}
	if dirty {
		ld.frame = b.Done()
	}
	return nil
}

// splitCalc partitions a merged mapping into regular and computed
// (double-dot) aesthetics.
func splitCalc(m Aes) (regular, calc Aes) {
	regular, calc = make(Aes), make(Aes)
	for a, expr := range m {
		if _, ok := isCalc(expr); ok {
			calc[a] = expr
		} else {
			regular[a] = expr
		}
	}
	return
}

// describeMapping renders a mapping for error text, stable order.
func describeMapping(m Aes) string {
	var parts []string
	for a, e := range m {
		parts = append(parts, a+"="+e)
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
