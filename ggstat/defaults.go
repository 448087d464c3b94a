// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ggstat

import "github.com/plotgrammar/ggplot/gg"

// Bars count their x values and histograms bin them unless the layer
// says otherwise. Importing this package is what activates these
// defaults.
func init() {
	gg.RegisterDefaultStat("bar", func() gg.Stat { return Count{} }, gg.Aes{"y": "..count.."})
	gg.RegisterDefaultStat("histogram", func() gg.Stat { return Bin{} }, gg.Aes{"y": "..count.."})
}
