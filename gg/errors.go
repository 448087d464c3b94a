// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gg

import (
	"fmt"
	"strings"
)

// ConfigurationError reports a caller-supplied parameter that is
// structurally invalid: a malformed facet formula, mismatched
// breaks/labels lengths, an unknown transform name, and so on. It is
// returned synchronously by the stage that detects it and aborts the
// build.
type ConfigurationError struct {
	// Param names the offending parameter.
	Param string

	// Detail describes what is wrong with it.
	Detail string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Detail)
}

func configErrf(param, format string, args ...interface{}) error {
	return &ConfigurationError{Param: param, Detail: fmt.Sprintf(format, args...)}
}

// MissingAestheticError reports that a statistic or geometry requires
// aesthetics that are absent from a layer's resolved data.
type MissingAestheticError struct {
	// Op is the statistic or geometry that needs the aesthetics.
	Op string

	// Aes lists the missing aesthetic names.
	Aes []string
}

func (e *MissingAestheticError) Error() string {
	return fmt.Sprintf("%s requires the missing aesthetics: %s", e.Op, strings.Join(e.Aes, ", "))
}

// AestheticEvaluationError reports that an expression-valued
// aesthetic failed to evaluate or evaluated to something that cannot
// be plotted. It wraps the underlying cause.
type AestheticEvaluationError struct {
	// Aes is the aesthetic being evaluated.
	Aes string

	// Expr is the expression text.
	Expr string

	// Err is the underlying cause.
	Err error
}

func (e *AestheticEvaluationError) Error() string {
	return fmt.Sprintf("cannot evaluate aesthetic %s=%q: %v", e.Aes, e.Expr, e.Err)
}

func (e *AestheticEvaluationError) Unwrap() error { return e.Err }

// Warnings collects the advisory conditions encountered during one
// plot build: inconsistent interval widths, ignored aesthetics, and
// similar recoverable conditions. Processing continues with a
// documented fallback; the collector is scoped to the build rather
// than to the process, so independent builds never share state.
type Warnings struct {
	msgs []string
	seen map[string]bool
}

// Warnf records a warning, deduplicating repeats within this build.
func (w *Warnings) Warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.seen == nil {
		w.seen = make(map[string]bool)
	}
	if w.seen[msg] {
		return
	}
	w.seen[msg] = true
	w.msgs = append(w.msgs, msg)
}

// Messages returns the collected warnings in the order first seen.
func (w *Warnings) Messages() []string { return w.msgs }
