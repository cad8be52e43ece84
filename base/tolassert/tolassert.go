// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tolassert provides functions for asserting the equality of numbers
// with tolerance (in other words, it checks whether numbers are about equal).
package tolassert

import (
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

// Equal asserts that the given two numbers are about equal to each other,
// using a default tolerance of 0.0001.
func Equal(t assert.TestingT, expected float32, actual float32, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	return EqualTol(t, expected, actual, 0.0001, msgAndArgs...)
}

// EqualTol asserts that the given two numbers are about equal to each other,
// using the given tolerance value.
func EqualTol(t assert.TestingT, expected float32, actual, tolerance float32, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	if math32.Abs(actual-expected) > tolerance {
		return assert.Equal(t, expected, actual, msgAndArgs...)
	}
	return true
}

// EqualTolSlice asserts that the given two slices of numbers are about
// equal to each other element-wise, using the given tolerance value.
func EqualTolSlice(t assert.TestingT, expected, actual []float32, tolerance float32, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	if len(expected) != len(actual) {
		return assert.Equal(t, expected, actual, msgAndArgs...)
	}
	for i := range expected {
		if math32.Abs(actual[i]-expected[i]) > tolerance {
			return assert.Equal(t, expected, actual, msgAndArgs...)
		}
	}
	return true
}
