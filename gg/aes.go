// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gg

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/aclements/go-gg/table"
)

// Aes maps aesthetic names to expressions. An expression is usually a
// plain column reference; anything else is resolved by the plot's
// Evaluator against the layer's frame and the plot's outer namespace.
// A mapping is immutable once attached to a plot or layer.
type Aes map[string]string

// merge combines a layer mapping with the plot mapping. Layer entries
// win; plot entries are inherited only when inherit is set.
func (a Aes) merge(plot Aes, inherit bool) Aes {
	out := make(Aes, len(a)+len(plot))
	if inherit {
		for k, v := range plot {
			out[k] = v
		}
	}
	for k, v := range a {
		out[k] = v
	}
	return out
}

// isCalc reports whether an expression names a computed statistic
// column using the double-dot convention, and returns the column name.
func isCalc(expr string) (string, bool) {
	if strings.HasPrefix(expr, "..") && strings.HasSuffix(expr, "..") && len(expr) > 4 {
		return expr[2 : len(expr)-2], true
	}
	return "", false
}

// An Evaluator resolves expression-valued aesthetics: given an
// expression, a row-scoped frame, and an outer variable namespace, it
// returns a column-aligned sequence or a scalar. It is an external
// collaborator; the default resolves column references and namespace
// variables only.
type Evaluator interface {
	Eval(expr string, data *table.Table, env map[string]table.Slice) (interface{}, error)
}

// columnEvaluator is the default Evaluator.
type columnEvaluator struct{}

func (columnEvaluator) Eval(expr string, data *table.Table, env map[string]table.Slice) (interface{}, error) {
	if data != nil {
		if c := data.Column(expr); c != nil {
			return c, nil
		}
	}
	if v, ok := env[expr]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("unknown column or variable %q", expr)
}

// evalAes evaluates one aesthetic expression to a column of exactly n
// rows. Scalars broadcast; sequences must already be column-aligned.
func evalAes(ev Evaluator, aes, expr string, data *table.Table, env map[string]table.Slice, n int) (table.Slice, error) {
	v, err := ev.Eval(expr, data, env)
	if err != nil {
		return nil, &AestheticEvaluationError{Aes: aes, Expr: expr, Err: err}
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		// Scalar: broadcast to the row count.
		out := reflect.MakeSlice(reflect.SliceOf(rv.Type()), n, n)
		for i := 0; i < n; i++ {
			out.Index(i).Set(rv)
		}
		return out.Interface(), nil
	}
	if rv.Len() != n {
		return nil, &AestheticEvaluationError{
			Aes: aes, Expr: expr,
			Err: fmt.Errorf("evaluated to %d values for %d rows", rv.Len(), n),
		}
	}
	return v, nil
}
