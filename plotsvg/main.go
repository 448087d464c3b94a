// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command plotsvg renders a plot of a CSV file as SVG.
//
// plotsvg reads a CSV file with a header row, maps the named columns
// to aesthetics, and writes the rendered plot to standard output.
// Columns whose values all parse as numbers become continuous
// variables; everything else is treated as discrete.
//
//	plotsvg -x wt -y mpg -color cyl cars.csv > cars.svg
//	plotsvg -x price -geom histogram diamonds.csv > prices.svg
//	plotsvg -x date -y hits -geom line -facet ". ~ host" hits.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/aclements/go-gg/table"

	"github.com/plotgrammar/ggplot/gg"
	_ "github.com/plotgrammar/ggplot/ggstat" // default geometry statistics
)

func main() {
	log.SetPrefix("plotsvg: ")
	log.SetFlags(0)

	var (
		flagX      = flag.String("x", "", "map `column` to x (required)")
		flagY      = flag.String("y", "", "map `column` to y")
		flagColor  = flag.String("color", "", "map `column` to color")
		flagFill   = flag.String("fill", "", "map `column` to fill")
		flagGeom   = flag.String("geom", "point", "geometry: point, line, bar, area, or histogram")
		flagFacet  = flag.String("facet", "", "facet grid `formula`, e.g. \"cyl ~ gear\"")
		flagTitle  = flag.String("title", "", "plot title")
		flagOut    = flag.String("o", "", "write output to `file` (default: stdout)")
		flagWidth  = flag.Int("width", 800, "output width in pixels")
		flagHeight = flag.Int("height", 600, "output height in pixels")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [input.csv]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *flagX == "" {
		log.Fatal("-x is required")
	}

	in := os.Stdin
	if flag.NArg() > 0 && flag.Arg(0) != "-" {
		var err error
		in, err = os.Open(flag.Arg(0))
		if err != nil {
			log.Fatal(err)
		}
		defer in.Close()
	}
	data, err := readCSV(in)
	if err != nil {
		log.Fatal(err)
	}

	mapping := gg.Aes{"x": *flagX}
	if *flagY != "" {
		mapping["y"] = *flagY
	}
	if *flagColor != "" {
		mapping["color"] = *flagColor
	}
	if *flagFill != "" {
		mapping["fill"] = *flagFill
	}

	layer := &gg.Layer{}
	switch *flagGeom {
	case "point":
		layer.Geom = gg.GeomPoint{}
	case "line":
		layer.Geom = gg.GeomLine{}
	case "bar":
		// Bars count x values by default; an explicit y column
		// makes them plain columns.
		if *flagY == "" {
			layer.Geom = gg.GeomBar{}
		} else {
			layer.Geom = gg.GeomCol{}
		}
	case "area":
		layer.Geom = gg.GeomArea{}
	case "histogram":
		layer.Geom = gg.GeomHistogram{}
	default:
		log.Fatalf("unknown geometry %q", *flagGeom)
	}

	p := gg.NewPlot(data, mapping).Add(layer)
	p.Title = *flagTitle
	if *flagFacet != "" {
		f, err := gg.NewFacetGrid(*flagFacet)
		if err != nil {
			log.Fatal(err)
		}
		p.Facet(f)
	}

	bp, err := p.Build()
	if err != nil {
		log.Fatal(err)
	}
	for _, msg := range bp.Warnings.Messages() {
		log.Print("warning: ", msg)
	}

	out := os.Stdout
	if *flagOut != "" {
		out, err = os.Create(*flagOut)
		if err != nil {
			log.Fatal(err)
		}
		defer out.Close()
	}
	if err := bp.WriteSVG(out, *flagWidth, *flagHeight); err != nil {
		log.Fatal(err)
	}
}

// readCSV reads a CSV file with a header row into a table. Columns
// whose values all parse as floats become []float64 columns.
func readCSV(r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("need a header row and at least one data row")
	}
	header, rows := records[0], records[1:]

	b := new(table.Builder)
	for ci, name := range header {
		vals := make([]string, len(rows))
		nums := make([]float64, len(rows))
		numeric := true
		for ri, row := range rows {
			vals[ri] = row[ci]
			if numeric {
				nums[ri], err = strconv.ParseFloat(row[ci], 64)
				if err != nil {
					numeric = false
				}
			}
		}
		if numeric {
			b.Add(name, nums)
		} else {
			b.Add(name, vals)
		}
	}
	return b.Done(), nil
}
