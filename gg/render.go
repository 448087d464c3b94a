// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gg

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	"github.com/aclements/go-gg/table"
	svg "github.com/ajstarks/svgo"
)

// Chrome metrics in pixels.
const (
	marginLeft   = 52
	marginBottom = 38
	marginTop    = 12
	marginRight  = 12
	titleHeight  = 24
	stripHeight  = 18
	legendWidth  = 110
	tickLen      = 4
	tickPad      = 6
	keySize      = 16
	barLength    = 100
)

// WriteSVG renders the built plot as a complete SVG document.
func (bp *BuiltPlot) WriteSVG(w io.Writer, width, height int) error {
	if width <= 0 || height <= 0 {
		return configErrf("size", "non-positive dimensions %dx%d", width, height)
	}
	layout := bp.Layout
	th := bp.Theme

	top := float64(marginTop)
	if bp.Title != "" {
		top += titleHeight
	}
	right := float64(marginRight)
	if len(bp.Guides) > 0 {
		right += legendWidth
	}
	strip := 0.0
	if len(layout.Vars) > 0 {
		strip = stripHeight
	}

	gridW := float64(width) - marginLeft - right
	gridH := float64(height) - top - marginBottom
	if gridW <= 0 || gridH <= 0 {
		return configErrf("size", "%dx%d leaves no panel area", width, height)
	}
	nr, nc := layout.NRow, layout.NCol
	panelW := (gridW - th.PanelSpacing*float64(nc-1)) / float64(nc)
	panelH := (gridH-th.PanelSpacing*float64(nr-1))/float64(nr) - strip

	canvas := svg.New(w)
	canvas.Start(width, height, `font-family="sans-serif"`)
	defer canvas.End()

	if !th.PlotBackground.Blank && th.PlotBackground.Fill != nil {
		canvas.Rect(0, 0, width, height, "fill:"+cssColor(th.PlotBackground.Fill))
	}
	if bp.Title != "" {
		canvas.Text(width/2, int(titleHeight), bp.Title,
			fmt.Sprintf(`text-anchor="middle" font-size="%gpx" fill="%s"`,
				fontPx(th.PlotTitle, 13), cssColor(fontColor(th.PlotTitle))))
	}

	for panel := 1; panel <= layout.NPanels(); panel++ {
		row, col := layout.RowColOf(panel)
		px := marginLeft + float64(col-1)*(panelW+th.PanelSpacing)
		py := top + float64(row-1)*(panelH+strip+th.PanelSpacing) + strip
		bp.drawPanel(canvas, panel, px, py, panelW, panelH)
		if strip > 0 {
			bp.drawStrip(canvas, panel, px, py-strip, panelW, strip)
		}
		if row == nr {
			bp.drawXAxis(canvas, panel, px, py+panelH, panelW)
		}
		if col == 1 {
			bp.drawYAxis(canvas, panel, px, py, panelH)
		}
	}

	bp.drawAxisTitles(canvas, width, height, top, right)
	if len(bp.Guides) > 0 {
		bp.drawGuides(canvas, float64(width)-legendWidth, top)
	}
	return nil
}

// xScaleFor and yScaleFor resolve the positional scale instance a
// panel uses.
func (bp *BuiltPlot) xScaleFor(panel int) *Scale {
	if bp.XScales == nil {
		return nil
	}
	return bp.XScales[bp.Layout.XScaleOf(panel)-1]
}

func (bp *BuiltPlot) yScaleFor(panel int) *Scale {
	if bp.YScales == nil {
		return nil
	}
	return bp.YScales[bp.Layout.YScaleOf(panel)-1]
}

// normalizer maps data-space values of s to [0, 1] across its
// expanded extent.
func normalizer(s *Scale) func(float64) float64 {
	if s == nil {
		return func(float64) float64 { return 0.5 }
	}
	lo, hi := s.Dimension(nil)
	span := hi - lo
	tr := s.trans()
	return func(v float64) float64 {
		t := tr.Forward([]float64{v})[0]
		if span == 0 {
			return 0.5
		}
		return (t - lo) / span
	}
}

func (bp *BuiltPlot) drawPanel(canvas *svg.SVG, panel int, px, py, pw, ph float64) {
	th := bp.Theme
	if !th.PanelBackground.Blank {
		style := "fill:" + cssColor(th.PanelBackground.Fill)
		if th.PanelBackground.Stroke != nil {
			style += fmt.Sprintf(";stroke:%s;stroke-width:%g",
				cssColor(th.PanelBackground.Stroke), th.PanelBackground.Width)
		}
		canvas.Rect(int(px), int(py), int(pw), int(ph), style)
	}

	xs, ys := bp.xScaleFor(panel), bp.yScaleFor(panel)
	nx, ny := normalizer(xs), normalizer(ys)
	toX := func(v float64) float64 { return px + nx(v)*pw }
	toY := func(v float64) float64 { return py + (1-ny(v))*ph }

	bp.drawGrid(canvas, xs, ys, px, py, pw, ph, toX, toY)

	clipID := fmt.Sprintf("panel-%d", panel)
	canvas.ClipPath(fmt.Sprintf(`id="%s"`, clipID))
	canvas.Rect(int(px), int(py), int(pw), int(ph))
	canvas.ClipEnd()
	canvas.Group(fmt.Sprintf(`clip-path="url(#%s)"`, clipID))
	for _, bl := range bp.Layers {
		sub, idx := panelRows(bl.Frame, panel)
		if sub.Len() == 0 {
			continue
		}
		env := &drawEnv{
			X:     toX,
			Y:     toY,
			frame: sub,
			visual: func(aes string, row int) interface{} {
				if vis, ok := bl.Visuals[aes]; ok {
					return vis[idx[row]]
				}
				if c, ok := bl.Constants[aes]; ok {
					return c
				}
				return nil
			},
		}
		for _, prim := range bl.Geom.Draw(env) {
			drawPrimitive(canvas, prim)
		}
	}
	canvas.Gend()
}

// panelRows restricts a frame to one panel, returning the subset and
// the original row index of each subset row.
func panelRows(t *table.Table, panel int) (*table.Table, []int) {
	panels := t.MustColumn("PANEL").([]int)
	var idx []int
	for i, p := range panels {
		if p == panel {
			idx = append(idx, i)
		}
	}
	if len(idx) == len(panels) {
		return t, idx
	}
	return selectRows(t, idx), idx
}

func (bp *BuiltPlot) drawGrid(canvas *svg.SVG, xs, ys *Scale, px, py, pw, ph float64, toX, toY func(float64) float64) {
	th := bp.Theme
	drawLines := func(el Element, vertical bool, breaks []float64, to func(float64) float64) {
		if el.Blank || el.Stroke == nil || len(breaks) == 0 {
			return
		}
		var path []string
		for _, b := range breaks {
			p := to(b)
			if vertical {
				if p < px || p > px+pw {
					continue
				}
				path = append(path, fmt.Sprintf("M%.6g %.6gV%.6g", p, py, py+ph))
			} else {
				if p < py || p > py+ph {
					continue
				}
				path = append(path, fmt.Sprintf("M%.6g %.6gH%.6g", px, p, px+pw))
			}
		}
		if path != nil {
			canvas.Path(strings.Join(path, ""),
				fmt.Sprintf("stroke:%s;stroke-width:%g;fill:none", cssColor(el.Stroke), el.Width))
		}
	}
	if xs != nil {
		major := scaleBreaks(xs)
		drawLines(th.GridMinor, true, midpoints(major), toX)
		drawLines(th.GridMajor, true, major, toX)
	}
	if ys != nil {
		major := scaleBreaks(ys)
		drawLines(th.GridMinor, false, midpoints(major), toY)
		drawLines(th.GridMajor, false, major, toY)
	}
}

// scaleBreaks returns a scale's major break positions in data space:
// level indices for discrete scales, generated breaks otherwise.
func scaleBreaks(s *Scale) []float64 {
	if s.IsDiscrete() {
		n := len(s.levels())
		out := make([]float64, n)
		for i := range out {
			out[i] = float64(i + 1)
		}
		return out
	}
	return s.GetBreaks()
}

func scaleBreakLabels(s *Scale) ([]float64, []string, error) {
	if s.IsDiscrete() {
		labels, err := s.LevelLabels()
		return scaleBreaks(s), labels, err
	}
	breaks := s.GetBreaks()
	labels, err := s.GetLabels(breaks)
	return breaks, labels, err
}

func midpoints(breaks []float64) []float64 {
	if len(breaks) < 2 {
		return nil
	}
	out := make([]float64, len(breaks)-1)
	for i := range out {
		out[i] = (breaks[i] + breaks[i+1]) / 2
	}
	return out
}

func (bp *BuiltPlot) drawXAxis(canvas *svg.SVG, panel int, px, py, pw float64) {
	th := bp.Theme
	s := bp.xScaleFor(panel)
	if s == nil || th.AxisText.Blank {
		return
	}
	breaks, labels, err := scaleBreakLabels(s)
	if err != nil {
		return
	}
	nx := normalizer(s)
	if !th.AxisLine.Blank && th.AxisLine.Stroke != nil {
		canvas.Line(int(px), int(py), int(px+pw), int(py),
			fmt.Sprintf("stroke:%s;stroke-width:%g", cssColor(th.AxisLine.Stroke), th.AxisLine.Width))
	}
	style := fmt.Sprintf(`text-anchor="middle" font-size="%gpx" fill="%s"`,
		fontPx(th.AxisText, 9), cssColor(fontColor(th.AxisText)))
	for i, b := range breaks {
		n := nx(b)
		if n < 0 || n > 1 {
			continue
		}
		x := px + n*pw
		canvas.Line(int(x), int(py), int(x), int(py+tickLen), "stroke:#333333")
		canvas.Text(int(x), int(py+tickLen+tickPad), labels[i], style+` dy="0.6em"`)
	}
}

func (bp *BuiltPlot) drawYAxis(canvas *svg.SVG, panel int, px, py, ph float64) {
	th := bp.Theme
	s := bp.yScaleFor(panel)
	if s == nil || th.AxisText.Blank {
		return
	}
	breaks, labels, err := scaleBreakLabels(s)
	if err != nil {
		return
	}
	ny := normalizer(s)
	if !th.AxisLine.Blank && th.AxisLine.Stroke != nil {
		canvas.Line(int(px), int(py), int(px), int(py+ph),
			fmt.Sprintf("stroke:%s;stroke-width:%g", cssColor(th.AxisLine.Stroke), th.AxisLine.Width))
	}
	style := fmt.Sprintf(`text-anchor="end" font-size="%gpx" fill="%s"`,
		fontPx(th.AxisText, 9), cssColor(fontColor(th.AxisText)))
	for i, b := range breaks {
		n := ny(b)
		if n < 0 || n > 1 {
			continue
		}
		y := py + (1-n)*ph
		canvas.Line(int(px-tickLen), int(y), int(px), int(y), "stroke:#333333")
		canvas.Text(int(px-tickLen-tickPad+2), int(y), labels[i], style+` dy="0.3em"`)
	}
}

func (bp *BuiltPlot) drawStrip(canvas *svg.SVG, panel int, px, py, pw, sh float64) {
	th := bp.Theme
	layout := bp.Layout
	var parts []string
	for _, v := range layout.Vars {
		col := layout.Table.Column(v)
		if col == nil {
			continue
		}
		parts = append(parts, levelStrings(col)[panel-1])
	}
	label := strings.Join(parts, ", ")
	if !th.StripBackground.Blank && th.StripBackground.Fill != nil {
		style := "fill:" + cssColor(th.StripBackground.Fill)
		if th.StripBackground.Stroke != nil {
			style += fmt.Sprintf(";stroke:%s;stroke-width:%g",
				cssColor(th.StripBackground.Stroke), th.StripBackground.Width)
		}
		canvas.Rect(int(px), int(py), int(pw), int(sh), style)
	}
	if !th.StripText.Blank {
		canvas.Text(int(px+pw/2), int(py+sh/2), label,
			fmt.Sprintf(`text-anchor="middle" dy="0.35em" font-size="%gpx" fill="%s"`,
				fontPx(th.StripText, 9), cssColor(fontColor(th.StripText))))
	}
}

func (bp *BuiltPlot) drawAxisTitles(canvas *svg.SVG, width, height int, top, right float64) {
	th := bp.Theme
	if th.AxisTitle.Blank {
		return
	}
	style := fmt.Sprintf(`text-anchor="middle" font-size="%gpx" fill="%s"`,
		fontPx(th.AxisTitle, 11), cssColor(fontColor(th.AxisTitle)))
	cx := marginLeft + (float64(width)-marginLeft-right)/2
	cy := top + (float64(height)-top-marginBottom)/2
	if bp.XLab != "" {
		canvas.Text(int(cx), height-6, bp.XLab, style)
	}
	if bp.YLab != "" {
		canvas.Text(14, int(cy), bp.YLab,
			style+fmt.Sprintf(` transform="rotate(-90 %d %d)"`, 14, int(cy)))
	}
}

func (bp *BuiltPlot) drawGuides(canvas *svg.SVG, gx, gy float64) {
	th := bp.Theme
	y := gy
	titleStyle := fmt.Sprintf(`font-size="%gpx" fill="%s"`,
		fontPx(th.LegendTitle, 11), cssColor(fontColor(th.LegendTitle)))
	textStyle := fmt.Sprintf(`font-size="%gpx" fill="%s"`,
		fontPx(th.LegendText, 9), cssColor(fontColor(th.LegendText)))

	for _, g := range bp.Guides {
		canvas.Text(int(gx), int(y+12), g.Title, titleStyle)
		y += 20
		if g.Kind == GuideColorbar {
			n := len(g.Colors)
			if n == 0 {
				continue
			}
			step := float64(barLength) / float64(n)
			for i, c := range g.Colors {
				// The bar runs top-to-bottom from max to min.
				canvas.Rect(int(gx), int(y+float64(i)*step), keySize, int(math.Ceil(step)),
					"fill:"+cssColor(c))
			}
			span := g.Max - g.Min
			for i, b := range g.Breaks {
				if span == 0 {
					continue
				}
				pos := y + (1-(b-g.Min)/span)*barLength
				if pos < y || pos > y+barLength {
					continue
				}
				canvas.Text(int(gx+keySize+4), int(pos), g.Labels[i], textStyle+` dy="0.3em"`)
			}
			y += barLength + 12
			continue
		}
		for _, e := range g.Entries {
			if !th.LegendKey.Blank && th.LegendKey.Fill != nil {
				canvas.Rect(int(gx), int(y), keySize, keySize, "fill:"+cssColor(th.LegendKey.Fill))
			}
			drawLegendKey(canvas, e, gx, y)
			canvas.Text(int(gx+keySize+6), int(y+keySize/2), e.Label, textStyle+` dy="0.35em"`)
			y += keySize + 4
		}
		y += 12
	}
}

// drawLegendKey renders one glyph summarizing an entry's visual
// values: a swatch for fill, a marker for color/size/shape, a line
// segment for linetype.
func drawLegendKey(canvas *svg.SVG, e GuideEntry, x, y float64) {
	if v, ok := e.Values["fill"]; ok {
		canvas.Rect(int(x)+2, int(y)+2, keySize-4, keySize-4, "fill:"+cssColor(asColor(v)))
		return
	}
	if v, ok := e.Values["linetype"]; ok {
		style := fmt.Sprintf("stroke:%s;stroke-width:1.5", cssColor(entryColor(e)))
		if d := dashArray(asString(v, "solid")); d != "" {
			style += ";stroke-dasharray:" + d
		}
		canvas.Line(int(x), int(y+keySize/2), int(x+keySize), int(y+keySize/2), style)
		return
	}
	r := 3.0
	if v, ok := e.Values["size"]; ok {
		r = asFloat(v, r)
	}
	canvas.Circle(int(x+keySize/2), int(y+keySize/2), int(math.Max(1, r)),
		"fill:"+cssColor(entryColor(e)))
}

func entryColor(e GuideEntry) color.Color {
	if v, ok := e.Values["color"]; ok {
		return asColor(v)
	}
	if v, ok := e.Values["fill"]; ok {
		return asColor(v)
	}
	return color.Black
}

func drawPrimitive(canvas *svg.SVG, prim Primitive) {
	switch p := prim.(type) {
	case PolygonPrim:
		if len(p.Xs) == 0 {
			return
		}
		style := "fill:" + cssColor(p.Fill)
		if p.Stroke != nil {
			style += ";stroke:" + cssColor(p.Stroke)
		}
		if p.Alpha > 0 && p.Alpha < 1 {
			style += fmt.Sprintf(";fill-opacity:%g", p.Alpha)
		}
		canvas.Path(pathData(p.Xs, p.Ys, true), style)
	case PathPrim:
		if len(p.Xs) < 2 {
			return
		}
		style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%g", cssColor(p.Stroke), p.Width)
		if d := dashArray(p.Linetype); d != "" {
			style += ";stroke-dasharray:" + d
		}
		if p.Alpha > 0 && p.Alpha < 1 {
			style += fmt.Sprintf(";stroke-opacity:%g", p.Alpha)
		}
		canvas.Path(pathData(p.Xs, p.Ys, false), style)
	case PointPrim:
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			return
		}
		style := "fill:" + cssColor(p.Color)
		if p.Alpha > 0 && p.Alpha < 1 {
			style += fmt.Sprintf(";fill-opacity:%g", p.Alpha)
		}
		r := p.Size * 2
		switch p.Shape {
		case "square":
			canvas.Rect(int(p.X-r), int(p.Y-r), int(2*r), int(2*r), style)
		case "triangle":
			canvas.Path(fmt.Sprintf("M%.6g %.6gL%.6g %.6gL%.6g %.6gZ",
				p.X, p.Y-r, p.X+r, p.Y+r, p.X-r, p.Y+r), style)
		default:
			canvas.Circle(int(p.X), int(p.Y), int(math.Max(1, r)), style)
		}
	case TextPrim:
		anchor := p.Anchor
		if anchor == "" {
			anchor = "middle"
		}
		canvas.Text(int(p.X), int(p.Y), p.Label,
			fmt.Sprintf(`text-anchor="%s" font-size="%gpx" fill="%s" dy="0.35em"`,
				anchor, p.Size, cssColor(p.Color)))
	}
}

// pathData builds an SVG path string, splitting at NaN coordinates so
// missing points break the path instead of bridging it.
func pathData(xs, ys []float64, closed bool) string {
	var b strings.Builder
	pen := false
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			pen = false
			continue
		}
		if pen {
			fmt.Fprintf(&b, "L%.6g %.6g", xs[i], ys[i])
		} else {
			fmt.Fprintf(&b, "M%.6g %.6g", xs[i], ys[i])
			pen = true
		}
	}
	if closed && b.Len() > 0 {
		b.WriteByte('Z')
	}
	return b.String()
}

func dashArray(linetype string) string {
	switch linetype {
	case "dashed":
		return "6,2"
	case "dotted":
		return "2,2"
	case "dotdash":
		return "2,2,6,2"
	case "longdash":
		return "8,3"
	case "twodash":
		return "4,2,8,2"
	}
	return ""
}

func cssColor(c color.Color) string {
	if c == nil {
		return "none"
	}
	r, g, b, a := c.RGBA()
	if a == 0 {
		return "none"
	}
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

func fontPx(e Element, def float64) float64 {
	if e.FontSize > 0 {
		return e.FontSize
	}
	return def
}

func fontColor(e Element) color.Color {
	if e.FontColor != nil {
		return e.FontColor
	}
	return color.Black
}
