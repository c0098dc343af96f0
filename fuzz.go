// Copyright 2024 The mxfkit Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mxf

import "github.com/mxfkit/mxf/bytesource"

// Fuzz is the go-fuzz entry point, grounded on the teacher's fuzz.go:
// feed arbitrary bytes at a HeaderPartition and report whether they parsed.
// Unlike the teacher's whole-PE-file fuzz target, failure here is the
// overwhelmingly common case — almost any random byte string is not a
// valid Header Partition — so a 0 return covers both I/O-shaped and
// format-shaped rejections uniformly.
func Fuzz(data []byte) int {
	src := bytesource.NewBuffer(data)
	hp, err := New(src, Options{})
	if err != nil {
		return 0
	}
	if hp.Preface() == nil {
		return 0
	}
	return 1
}
