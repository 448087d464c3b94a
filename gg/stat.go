// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gg

import (
	"github.com/aclements/go-gg/table"
)

// A Stat computes derived columns from one (panel, group) partition
// of a layer's evaluated data. Implementations live in package ggstat;
// StatIdentity is the do-nothing default.
type Stat interface {
	// Name identifies the statistic in errors and warnings.
	Name() string

	// RequiredAes lists the aesthetics that must be present in
	// the group frame.
	RequiredAes() []string

	// Compute transforms one group frame. The context carries the
	// fully trained positional scale state so range-dependent
	// statistics (binning, density grids) see global limits, not
	// the group's subset.
	Compute(ctx *StatContext, t *table.Table) (*table.Table, error)
}

// StatContext hands statistics the trained scale state and the
// build's warning collector.
type StatContext struct {
	// XRange and YRange are the trained continuous ranges of the
	// positional scales in data space. They are nil for discrete
	// axes.
	XRange, YRange *ContinuousRange

	// XLevels is the trained level set of a discrete x scale,
	// fixed before any statistic runs.
	XLevels []string

	// Warnings collects advisory conditions.
	Warnings *Warnings
}

// RequireAes checks that the frame carries every required aesthetic
// column, reporting a MissingAestheticError otherwise.
func RequireAes(t *table.Table, op string, aes ...string) error {
	var missing []string
	for _, a := range aes {
		if t.Column(a) == nil {
			missing = append(missing, a)
		}
	}
	if missing != nil {
		return &MissingAestheticError{Op: op, Aes: missing}
	}
	return nil
}

// A statDefault couples the statistic a geometry implies with the
// computed-aesthetic mappings that expose its output, e.g. a bar's
// count statistic with y = "..count..".
type statDefault struct {
	mk   func() Stat
	calc Aes
}

var defaultStats = map[string]statDefault{}

// RegisterDefaultStat declares the statistic a geometry name implies
// when a layer sets none, together with the computed mappings that
// expose its output. Statistic packages register theirs at init time.
func RegisterDefaultStat(geom string, mk func() Stat, calc Aes) {
	defaultStats[geom] = statDefault{mk, calc}
}

// defaultStatFor resolves a geometry's registered default statistic
// against a merged mapping, adding its computed mappings. A mapping
// that already binds one of the computed aesthetics suppresses the
// default, so an explicit y on a bar keeps the data's values.
func defaultStatFor(g Geom, merged Aes) Stat {
	d, ok := defaultStats[g.Name()]
	if !ok {
		return nil
	}
	for a := range d.calc {
		if _, ok := merged[a]; ok {
			return nil
		}
	}
	for a, e := range d.calc {
		merged[a] = e
	}
	return d.mk()
}

// StatIdentity passes the group frame through unchanged.
type StatIdentity struct{}

func (StatIdentity) Name() string          { return "stat_identity" }
func (StatIdentity) RequiredAes() []string { return nil }

func (StatIdentity) Compute(ctx *StatContext, t *table.Table) (*table.Table, error) {
	return t, nil
}
