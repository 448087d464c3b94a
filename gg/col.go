// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gg

import (
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
)

// ColKind classifies a column for scale defaulting and grouping.
type ColKind int

const (
	KindContinuous ColKind = iota
	KindDiscrete
	KindDatetime
)

func (k ColKind) String() string {
	return []string{"continuous", "discrete", "datetime"}[k]
}

var timeSliceType = reflect.TypeOf([]time.Time{})

var cardinalKinds = map[reflect.Kind]bool{
	reflect.Float32: true, reflect.Float64: true,
	reflect.Int: true, reflect.Int8: true, reflect.Int16: true,
	reflect.Int32: true, reflect.Int64: true,
	reflect.Uint: true, reflect.Uintptr: true, reflect.Uint8: true,
	reflect.Uint16: true, reflect.Uint32: true, reflect.Uint64: true,
}

// colKindOf infers the kind of a column from its Go type: numeric
// slices are continuous, []time.Time is datetime, and everything else
// (strings, bools, Stringers) is discrete.
func colKindOf(seq table.Slice) ColKind {
	rt := reflect.TypeOf(seq)
	if rt == timeSliceType {
		return KindDatetime
	}
	if cardinalKinds[rt.Elem().Kind()] {
		return KindContinuous
	}
	return KindDiscrete
}

// asFloats converts a continuous or datetime column to []float64.
// Datetimes become seconds since the Unix epoch.
func asFloats(seq table.Slice) []float64 {
	if ts, ok := seq.([]time.Time); ok {
		out := make([]float64, len(ts))
		for i, t := range ts {
			out[i] = float64(t.UnixNano()) / 1e9
		}
		return out
	}
	var out []float64
	slice.Convert(&out, seq)
	return out
}

// levelStrings renders a discrete column's values as strings,
// preserving row order.
func levelStrings(seq table.Slice) []string {
	if ss, ok := seq.([]string); ok {
		out := make([]string, len(ss))
		copy(out, ss)
		return out
	}
	rv := reflect.ValueOf(seq)
	out := make([]string, rv.Len())
	for i := range out {
		out[i] = fmt.Sprint(rv.Index(i).Interface())
	}
	return out
}

// declaredOrder returns the explicit level ordering of a discrete
// column, if its slice type declares one by implementing
// sort.Interface ([]string does not count; its natural order is not a
// declared one). It returns nil otherwise.
func declaredOrder(seq table.Slice) []string {
	if _, isPlain := seq.([]string); isPlain {
		return nil
	}
	if _, ok := seq.(sort.Interface); !ok {
		return nil
	}
	nub := slice.Nub(seq)
	slice.Sort(nub)
	return levelStrings(nub)
}

// uniqueStrings deduplicates in first-seen order.
func uniqueStrings(vals []string) []string {
	seen := make(map[string]bool, len(vals))
	var out []string
	for _, v := range vals {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// intCol builds an []int column with a constant value.
func intCol(n, v int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}
