// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package transform provides named, composable numeric transforms for
// scales: a forward mapping into transformed space, its inverse, break
// generation over data-space limits, and break formatting.
package transform

import (
	"fmt"
	"math"
	"time"

	"github.com/aclements/go-moremath/scale"
	"github.com/aclements/go-moremath/vec"
)

// A Trans maps scale values between data space and transformed space.
// Forward and Inverse are element-wise and total on the transform's
// domain; values outside the domain map to NaN rather than erroring.
type Trans struct {
	// Name is the registry name of this transform.
	Name string

	// Forward maps data-space values to transformed space.
	Forward func(xs []float64) []float64

	// Inverse maps transformed-space values back to data space.
	// Inverse(Forward(x)) == x for x in [DomainMin, DomainMax],
	// within floating point tolerance.
	Inverse func(xs []float64) []float64

	// DomainMin and DomainMax bound the valid data-space domain.
	DomainMin, DomainMax float64

	// Breaks computes break points for the data-space limits
	// [lo, hi]. If nil, nice-number breaks over the limits are
	// used. Breaks outside the domain are clipped, not errored.
	Breaks func(lo, hi float64) []float64

	// Format renders break points as tick labels. If nil, breaks
	// are formatted with %.6g.
	Format func(breaks []float64) []string
}

// DefaultBreakCount is the target number of breaks generated for a
// scale when the caller does not request a specific count.
const DefaultBreakCount = 5

// GetBreaks returns break points for the data-space limits [lo, hi],
// clipped to t's domain.
func (t *Trans) GetBreaks(lo, hi float64) []float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	var bs []float64
	if t.Breaks != nil {
		bs = t.Breaks(lo, hi)
	} else {
		bs = NiceBreaks(lo, hi, DefaultBreakCount)
	}
	out := bs[:0]
	for _, b := range bs {
		if b < t.DomainMin || b > t.DomainMax || math.IsNaN(b) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// FormatBreaks renders break points as label strings.
func (t *Trans) FormatBreaks(breaks []float64) []string {
	if t.Format != nil {
		return t.Format(breaks)
	}
	return formatG(breaks)
}

func formatG(breaks []float64) []string {
	labels := make([]string, len(breaks))
	for i, b := range breaks {
		labels[i] = fmt.Sprintf("%.6g", b)
	}
	return labels
}

// NiceBreaks returns up to max nice-number break points covering
// [lo, hi]. A degenerate interval yields the single point lo.
func NiceBreaks(lo, hi float64, max int) []float64 {
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return nil
	}
	if lo == hi {
		return []float64{lo}
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	ls := scale.Linear{Min: lo, Max: hi}
	major, _ := ls.Ticks(scale.TickOptions{Max: max})
	return major
}

func mapVec(f func(float64) float64) func([]float64) []float64 {
	return func(xs []float64) []float64 {
		return vec.Map(f, xs)
	}
}

func identityVec(xs []float64) []float64 {
	out := make([]float64, len(xs))
	copy(out, xs)
	return out
}

// Identity returns the identity transform.
func Identity() *Trans {
	return &Trans{
		Name:      "identity",
		Forward:   identityVec,
		Inverse:   identityVec,
		DomainMin: math.Inf(-1),
		DomainMax: math.Inf(1),
	}
}

// Log returns a logarithmic transform in the given base. Breaks fall
// at integer powers of the base when the limits span at least one
// decade; otherwise they fall back to nice numbers.
func Log(base float64) *Trans {
	lb := math.Log(base)
	t := &Trans{
		Name:      fmt.Sprintf("log%g", base),
		Forward:   mapVec(func(x float64) float64 { return math.Log(x) / lb }),
		Inverse:   mapVec(func(x float64) float64 { return math.Pow(base, x) }),
		DomainMin: nextAboveZero,
		DomainMax: math.Inf(1),
	}
	switch base {
	case math.E:
		t.Name = "log"
	case 2:
		t.Name = "log2"
	case 10:
		t.Name = "log10"
	}
	t.Breaks = func(lo, hi float64) []float64 {
		if lo <= 0 {
			lo = nextAboveZero
		}
		if hi <= 0 {
			return nil
		}
		tlo, thi := math.Log(lo)/lb, math.Log(hi)/lb
		if thi-tlo < 1 {
			return NiceBreaks(lo, hi, DefaultBreakCount)
		}
		var bs []float64
		for p := math.Ceil(tlo); p <= math.Floor(thi); p++ {
			bs = append(bs, math.Pow(base, p))
		}
		return bs
	}
	return t
}

// nextAboveZero and nextBelowOne make domain clipping behave like an
// open interval at 0 and 1 for transforms that diverge there.
var (
	nextAboveZero = math.Nextafter(0, 1)
	nextBelowOne  = math.Nextafter(1, 0)
)

// Sqrt returns the square root transform.
func Sqrt() *Trans {
	return &Trans{
		Name:      "sqrt",
		Forward:   mapVec(math.Sqrt),
		Inverse:   mapVec(func(x float64) float64 { return x * x }),
		DomainMin: 0,
		DomainMax: math.Inf(1),
	}
}

// Reverse returns the order-reversing transform.
func Reverse() *Trans {
	neg := mapVec(func(x float64) float64 { return -x })
	return &Trans{
		Name:      "reverse",
		Forward:   neg,
		Inverse:   neg,
		DomainMin: math.Inf(-1),
		DomainMax: math.Inf(1),
	}
}

// Probit returns the standard normal quantile transform. Its domain
// is the open unit interval.
func Probit() *Trans {
	const sqrt2 = math.Sqrt2
	return &Trans{
		Name: "probit",
		Forward: mapVec(func(p float64) float64 {
			return sqrt2 * math.Erfinv(2*p-1)
		}),
		Inverse: mapVec(func(z float64) float64 {
			return 0.5 * (1 + math.Erf(z/sqrt2))
		}),
		DomainMin: nextAboveZero,
		DomainMax: nextBelowOne,
	}
}

// Logit returns the log-odds transform. Its domain is the open unit
// interval.
func Logit() *Trans {
	return &Trans{
		Name: "logit",
		Forward: mapVec(func(p float64) float64 {
			return math.Log(p / (1 - p))
		}),
		Inverse: mapVec(func(x float64) float64 {
			return 1 / (1 + math.Exp(-x))
		}),
		DomainMin: nextAboveZero,
		DomainMax: nextBelowOne,
	}
}

// BoxCox returns the Box-Cox power transform with parameter lambda.
// Lambda 0 degenerates to the natural logarithm.
func BoxCox(lambda float64) *Trans {
	if lambda == 0 {
		t := Log(math.E)
		t.Name = "boxcox"
		return t
	}
	return &Trans{
		Name: fmt.Sprintf("boxcox(%g)", lambda),
		Forward: mapVec(func(x float64) float64 {
			return (math.Pow(x, lambda) - 1) / lambda
		}),
		Inverse: mapVec(func(y float64) float64 {
			return math.Pow(lambda*y+1, 1/lambda)
		}),
		DomainMin: 0,
		DomainMax: math.Inf(1),
	}
}

// Date returns a transform for datetime values represented as seconds
// since the Unix epoch. The mapping is the identity; breaks land on
// nice time boundaries and format as dates.
func Date() *Trans {
	return &Trans{
		Name:      "date",
		Forward:   identityVec,
		Inverse:   identityVec,
		DomainMin: math.Inf(-1),
		DomainMax: math.Inf(1),
		Breaks:    timeBreaks,
		Format: func(breaks []float64) []string {
			labels := make([]string, len(breaks))
			for i, b := range breaks {
				labels[i] = time.Unix(int64(b), 0).UTC().Format("2006-01-02")
			}
			return labels
		},
	}
}

// Timedelta returns a transform for durations represented as seconds.
func Timedelta() *Trans {
	return &Trans{
		Name:      "timedelta",
		Forward:   identityVec,
		Inverse:   identityVec,
		DomainMin: math.Inf(-1),
		DomainMax: math.Inf(1),
		Breaks:    timeBreaks,
		Format: func(breaks []float64) []string {
			labels := make([]string, len(breaks))
			for i, b := range breaks {
				labels[i] = time.Duration(b * float64(time.Second)).String()
			}
			return labels
		},
	}
}

// timeUnits are the spacings time breaks snap to, in seconds.
var timeUnits = []float64{
	1, 5, 15, 30, // seconds
	60, 300, 900, 1800, // minutes
	3600, 3 * 3600, 6 * 3600, 12 * 3600, // hours
	86400, 7 * 86400, 30 * 86400, 365.25 * 86400, // days and up
}

func timeBreaks(lo, hi float64) []float64 {
	span := hi - lo
	if span <= 0 {
		return []float64{lo}
	}
	unit := timeUnits[len(timeUnits)-1]
	for _, u := range timeUnits {
		if span/u <= float64(2*DefaultBreakCount) {
			unit = u
			break
		}
	}
	if span/unit > float64(2*DefaultBreakCount) {
		// Beyond the largest unit; fall back to nice numbers of
		// years.
		return NiceBreaks(lo, hi, DefaultBreakCount)
	}
	var bs []float64
	for b := math.Ceil(lo/unit) * unit; b <= hi; b += unit {
		bs = append(bs, b)
	}
	return bs
}

// registry maps transform names to constructors. Parameterized
// transforms (LogBase, BoxCox) also have constructor functions.
var registry = map[string]func() *Trans{
	"identity":  Identity,
	"log":       func() *Trans { return Log(math.E) },
	"log2":      func() *Trans { return Log(2) },
	"log10":     func() *Trans { return Log(10) },
	"sqrt":      Sqrt,
	"reverse":   Reverse,
	"probit":    Probit,
	"logit":     Logit,
	"date":      Date,
	"timedelta": Timedelta,
}

// Get returns the transform registered under name. It reports an
// error for unknown names; callers surface this as a configuration
// error.
func Get(name string) (*Trans, error) {
	mk, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown transform %q", name)
	}
	return mk(), nil
}
