// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gg

import (
	"image/color"
	"sort"

	"github.com/aclements/go-gg/table"
)

// A Primitive is a typed drawing instruction handed to the rendering
// backend. The core never performs pixel operations itself.
type Primitive interface {
	primitive()
}

// PolygonPrim is a closed filled polygon in panel pixel coordinates.
type PolygonPrim struct {
	Xs, Ys   []float64
	Fill     color.Color
	Stroke   color.Color
	Linetype string
	Alpha    float64
}

// PathPrim is an open stroked path.
type PathPrim struct {
	Xs, Ys   []float64
	Stroke   color.Color
	Width    float64
	Linetype string
	Alpha    float64
}

// PointPrim is a point marker.
type PointPrim struct {
	X, Y  float64
	Size  float64
	Color color.Color
	Shape string
	Alpha float64
}

// TextPrim is an anchored text label.
type TextPrim struct {
	X, Y   float64
	Label  string
	Color  color.Color
	Size   float64
	Anchor string // "start", "middle", or "end"
}

func (PolygonPrim) primitive() {}
func (PathPrim) primitive()    {}
func (PointPrim) primitive()   {}
func (TextPrim) primitive()    {}

// A drawEnv gives a geometry access to one panel's coordinate
// mapping and the layer's resolved visual aesthetics.
type drawEnv struct {
	// X and Y map data space to panel pixel space.
	X, Y func(float64) float64

	// frame is the layer's final frame restricted to this panel.
	frame *table.Table

	// visual returns the resolved visual value of an aesthetic
	// for a row, or the geometry default.
	visual func(aes string, row int) interface{}
}

func (e *drawEnv) floats(name string) []float64 { return floatCol(e.frame, name) }

func (e *drawEnv) fillOf(row int) color.Color   { return asColor(e.visual("fill", row)) }
func (e *drawEnv) colorOf(row int) color.Color  { return asColor(e.visual("color", row)) }
func (e *drawEnv) alphaOf(row int) float64      { return asFloat(e.visual("alpha", row), 1) }
func (e *drawEnv) sizeOf(row int) float64       { return asFloat(e.visual("size", row), 1.5) }
func (e *drawEnv) shapeOf(row int) string       { return asString(e.visual("shape", row), "circle") }
func (e *drawEnv) linetypeOf(row int) string    { return asString(e.visual("linetype", row), "solid") }

func asColor(v interface{}) color.Color {
	switch c := v.(type) {
	case color.Color:
		return c
	case string:
		if pc, ok := parseColorName(c); ok {
			return pc
		}
	}
	return color.Black
}

func asFloat(v interface{}, def float64) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	return def
}

func asString(v interface{}, def string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return def
}

// A Geom is one geometry kind: what aesthetics it needs, the
// constants it falls back to, its natural position adjustment, and
// how it turns a panel frame into drawing primitives.
type Geom interface {
	Name() string
	RequiredAes() []string
	DefaultAes() map[string]interface{}
	DefaultPosition() Position
	Draw(env *drawEnv) []Primitive
}

var (
	black = color.RGBA{0, 0, 0, 0xff}
	grey  = color.RGBA{0x59, 0x59, 0x59, 0xff}
	fillG = color.RGBA{0x33, 0x33, 0x33, 0xff}
)

// GeomPoint draws a marker at each data point.
type GeomPoint struct{}

func (GeomPoint) Name() string          { return "point" }
func (GeomPoint) RequiredAes() []string { return []string{"x", "y"} }
func (GeomPoint) DefaultAes() map[string]interface{} {
	return map[string]interface{}{
		"color": black, "size": 1.5, "alpha": 1.0, "shape": "circle",
	}
}
func (GeomPoint) DefaultPosition() Position { return PositionIdentity{} }

func (g GeomPoint) Draw(env *drawEnv) []Primitive {
	xs, ys := env.floats("x"), env.floats("y")
	prims := make([]Primitive, 0, len(xs))
	for i := range xs {
		prims = append(prims, PointPrim{
			X: env.X(xs[i]), Y: env.Y(ys[i]),
			Size:  env.sizeOf(i),
			Color: env.colorOf(i),
			Shape: env.shapeOf(i),
			Alpha: env.alphaOf(i),
		})
	}
	return prims
}

// GeomPath connects points in row order, one path per group.
type GeomPath struct{}

func (GeomPath) Name() string          { return "path" }
func (GeomPath) RequiredAes() []string { return []string{"x", "y"} }
func (GeomPath) DefaultAes() map[string]interface{} {
	return map[string]interface{}{
		"color": black, "size": 0.5, "alpha": 1.0, "linetype": "solid",
	}
}
func (GeomPath) DefaultPosition() Position { return PositionIdentity{} }

func (g GeomPath) Draw(env *drawEnv) []Primitive {
	return drawPaths(env, false)
}

// GeomLine is GeomPath with points connected in x order.
type GeomLine struct{}

func (GeomLine) Name() string          { return "line" }
func (GeomLine) RequiredAes() []string { return []string{"x", "y"} }
func (GeomLine) DefaultAes() map[string]interface{} {
	return GeomPath{}.DefaultAes()
}
func (GeomLine) DefaultPosition() Position { return PositionIdentity{} }

func (g GeomLine) Draw(env *drawEnv) []Primitive {
	return drawPaths(env, true)
}

func drawPaths(env *drawEnv, sortX bool) []Primitive {
	xs, ys := env.floats("x"), env.floats("y")
	var prims []Primitive
	for _, rows := range groupRows(env.frame) {
		if sortX {
			rows = append([]int(nil), rows...)
			sort.SliceStable(rows, func(i, j int) bool { return xs[rows[i]] < xs[rows[j]] })
		}
		px := make([]float64, len(rows))
		py := make([]float64, len(rows))
		for k, r := range rows {
			px[k] = env.X(xs[r])
			py[k] = env.Y(ys[r])
		}
		prims = append(prims, PathPrim{
			Xs: px, Ys: py,
			Stroke:   env.colorOf(rows[0]),
			Width:    env.sizeOf(rows[0]),
			Linetype: env.linetypeOf(rows[0]),
			Alpha:    env.alphaOf(rows[0]),
		})
	}
	return prims
}

// groupRows partitions the frame's rows by the group column,
// preserving row order within each group and first-seen group order.
func groupRows(t *table.Table) [][]int {
	groups := groupIDs(t)
	order := []int{}
	byGroup := map[int][]int{}
	for i, g := range groups {
		if byGroup[g] == nil {
			order = append(order, g)
		}
		byGroup[g] = append(byGroup[g], i)
	}
	out := make([][]int, len(order))
	for i, g := range order {
		out[i] = byGroup[g]
	}
	return out
}

// GeomBar draws a rectangle per row spanning xmin..xmax horizontally
// and 0 (or ymin) to y (or ymax) vertically. Histograms and column
// charts reuse it.
type GeomBar struct{}

func (GeomBar) Name() string          { return "bar" }
func (GeomBar) RequiredAes() []string { return []string{"x"} }
func (GeomBar) DefaultAes() map[string]interface{} {
	return map[string]interface{}{
		"fill": fillG, "color": nil, "alpha": 1.0, "size": 0.5, "linetype": "solid",
	}
}
func (GeomBar) DefaultPosition() Position { return PositionStack{} }

func (g GeomBar) Draw(env *drawEnv) []Primitive {
	xmin, xmax := env.floats("xmin"), env.floats("xmax")
	ymin, ymax := env.floats("ymin"), env.floats("ymax")
	ys := env.floats("y")
	n := env.frame.Len()
	prims := make([]Primitive, 0, n)
	for i := 0; i < n; i++ {
		lo, hi := 0.0, 0.0
		if ymin != nil && ymax != nil {
			lo, hi = ymin[i], ymax[i]
		} else if ys != nil {
			hi = ys[i]
		}
		var stroke color.Color
		if c := env.visual("color", i); c != nil {
			stroke = asColor(c)
		}
		prims = append(prims, PolygonPrim{
			Xs:       []float64{env.X(xmin[i]), env.X(xmax[i]), env.X(xmax[i]), env.X(xmin[i])},
			Ys:       []float64{env.Y(lo), env.Y(lo), env.Y(hi), env.Y(hi)},
			Fill:     env.fillOf(i),
			Stroke:   stroke,
			Linetype: env.linetypeOf(i),
			Alpha:    env.alphaOf(i),
		})
	}
	return prims
}

// GeomHistogram is GeomBar whose default statistic bins x. With an
// explicit statistic or an explicit y mapping it behaves exactly like
// GeomBar.
type GeomHistogram struct{ GeomBar }

func (GeomHistogram) Name() string { return "histogram" }

// GeomCol is GeomBar with no implied statistic: bar heights come
// straight from the data.
type GeomCol struct{ GeomBar }

func (GeomCol) Name() string { return "col" }

// GeomArea shades between ymin (default 0) and ymax (default y).
type GeomArea struct{}

func (GeomArea) Name() string          { return "area" }
func (GeomArea) RequiredAes() []string { return []string{"x", "y"} }
func (GeomArea) DefaultAes() map[string]interface{} {
	return map[string]interface{}{"fill": fillG, "color": nil, "alpha": 1.0}
}
func (GeomArea) DefaultPosition() Position { return PositionStack{} }

func (g GeomArea) Draw(env *drawEnv) []Primitive {
	return drawRibbons(env, true)
}

// GeomRibbon shades between ymin and ymax along x.
type GeomRibbon struct{}

func (GeomRibbon) Name() string          { return "ribbon" }
func (GeomRibbon) RequiredAes() []string { return []string{"x", "ymin", "ymax"} }
func (GeomRibbon) DefaultAes() map[string]interface{} {
	return map[string]interface{}{"fill": grey, "color": nil, "alpha": 1.0}
}
func (GeomRibbon) DefaultPosition() Position { return PositionIdentity{} }

func (g GeomRibbon) Draw(env *drawEnv) []Primitive {
	return drawRibbons(env, false)
}

func drawRibbons(env *drawEnv, fromZero bool) []Primitive {
	xs := env.floats("x")
	ymin, ymax := env.floats("ymin"), env.floats("ymax")
	if fromZero {
		if ymax == nil {
			ymax = env.floats("y")
		}
		if ymin == nil {
			ymin = make([]float64, len(xs))
		}
	}
	var prims []Primitive
	for _, rows := range groupRows(env.frame) {
		rows = append([]int(nil), rows...)
		sort.SliceStable(rows, func(i, j int) bool { return xs[rows[i]] < xs[rows[j]] })
		px := make([]float64, 0, 2*len(rows))
		py := make([]float64, 0, 2*len(rows))
		for _, r := range rows {
			px = append(px, env.X(xs[r]))
			py = append(py, env.Y(ymax[r]))
		}
		for k := len(rows) - 1; k >= 0; k-- {
			r := rows[k]
			px = append(px, env.X(xs[r]))
			py = append(py, env.Y(ymin[r]))
		}
		var stroke color.Color
		if c := env.visual("color", rows[0]); c != nil {
			stroke = asColor(c)
		}
		prims = append(prims, PolygonPrim{
			Xs: px, Ys: py,
			Fill:   env.fillOf(rows[0]),
			Stroke: stroke,
			Alpha:  env.alphaOf(rows[0]),
		})
	}
	return prims
}

// GeomRect draws one rectangle per row from xmin/xmax/ymin/ymax.
// Two-dimensional bin counts render through it.
type GeomRect struct{}

func (GeomRect) Name() string          { return "rect" }
func (GeomRect) RequiredAes() []string { return []string{"xmin", "xmax", "ymin", "ymax"} }
func (GeomRect) DefaultAes() map[string]interface{} {
	return map[string]interface{}{"fill": fillG, "color": nil, "alpha": 1.0}
}
func (GeomRect) DefaultPosition() Position { return PositionIdentity{} }

func (g GeomRect) Draw(env *drawEnv) []Primitive {
	xmin, xmax := env.floats("xmin"), env.floats("xmax")
	ymin, ymax := env.floats("ymin"), env.floats("ymax")
	prims := make([]Primitive, 0, len(xmin))
	for i := range xmin {
		var stroke color.Color
		if c := env.visual("color", i); c != nil {
			stroke = asColor(c)
		}
		prims = append(prims, PolygonPrim{
			Xs: []float64{env.X(xmin[i]), env.X(xmax[i]), env.X(xmax[i]), env.X(xmin[i])},
			Ys: []float64{env.Y(ymin[i]), env.Y(ymin[i]), env.Y(ymax[i]), env.Y(ymax[i])},
			Fill:   env.fillOf(i),
			Stroke: stroke,
			Alpha:  env.alphaOf(i),
		})
	}
	return prims
}

// GeomText draws the label aesthetic at each point.
type GeomText struct{}

func (GeomText) Name() string          { return "text" }
func (GeomText) RequiredAes() []string { return []string{"x", "y", "label"} }
func (GeomText) DefaultAes() map[string]interface{} {
	return map[string]interface{}{"color": black, "size": 11.0, "alpha": 1.0}
}
func (GeomText) DefaultPosition() Position { return PositionIdentity{} }

func (g GeomText) Draw(env *drawEnv) []Primitive {
	xs, ys := env.floats("x"), env.floats("y")
	labels := levelStrings(env.frame.MustColumn("label"))
	prims := make([]Primitive, 0, len(xs))
	for i := range xs {
		prims = append(prims, TextPrim{
			X: env.X(xs[i]), Y: env.Y(ys[i]),
			Label:  labels[i],
			Color:  env.colorOf(i),
			Size:   env.sizeOf(i),
			Anchor: "middle",
		})
	}
	return prims
}
