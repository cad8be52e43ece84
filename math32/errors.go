// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import (
	"math"

	"cogentcore.org/render/base/errors"
)

var (
	// ErrSingular is returned when inverting a matrix whose
	// determinant is zero (or too small to invert reliably).
	ErrSingular = errors.New("math32: matrix is singular")

	// ErrDegenerateLookAt is returned by [LookAt] when the eye and
	// target coincide, or when up is parallel to the viewing direction,
	// so that no orientation is defined.
	ErrDegenerateLookAt = errors.New("math32: degenerate look-at: eye equals target or up is parallel to view direction")

	// ErrBadProjection is returned by [Perspective] for parameters
	// that do not describe a valid frustum.
	ErrBadProjection = errors.New("math32: invalid projection parameters")
)

// singularTol is the magnitude of the determinant, relative to the
// product of the column lengths, below which a matrix is treated as
// singular. That product bounds the determinant, so the test does not
// depend on the overall scale of the matrix.
const singularTol = 1e-10

// isSingular reports whether det is zero, not finite, or negligible
// next to norms, the product of the column lengths.
func isSingular(det, norms float64) bool {
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return true
	}
	return math.Abs(det) <= singularTol*norms
}
