// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

// Matrix3 is 3x3 matrix organized internally as column matrix.
// It represents 2D affine transforms in homogeneous coordinates (z = 1).
type Matrix3 [9]float32

// Identity3 returns a new identity [Matrix3] matrix.
func Identity3() Matrix3 {
	return Matrix3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Translate3 returns a 2D translation matrix.
func Translate3(x, y float32) Matrix3 {
	return Matrix3{
		1, 0, 0,
		0, 1, 0,
		x, y, 1,
	}
}

// Scale3 returns a 2D scaling matrix.
func Scale3(x, y float32) Matrix3 {
	return Matrix3{
		x, 0, 0,
		0, y, 0,
		0, 0, 1,
	}
}

// Rotate3 returns a 2D rotation matrix by the given angle in
// radians, counter-clockwise from +X toward +Y.
func Rotate3(angle float32) Matrix3 {
	c, s := Cos(angle), Sin(angle)
	return Matrix3{
		c, s, 0,
		-s, c, 0,
		0, 0, 1,
	}
}

// Projection3 returns a matrix mapping pixel coordinates in a
// width x height area (origin top-left, y down) to clip space.
func Projection3(width, height float32) Matrix3 {
	return Matrix3{
		2 / width, 0, 0,
		0, -2 / height, 0,
		-1, 1, 1,
	}
}

// Mul returns the matrix product m * other.
func (m Matrix3) Mul(other Matrix3) Matrix3 {
	var r Matrix3
	for c := 0; c < 3; c++ {
		b0, b1, b2 := other[c*3], other[c*3+1], other[c*3+2]
		r[c*3+0] = m[0]*b0 + m[3]*b1 + m[6]*b2
		r[c*3+1] = m[1]*b0 + m[4]*b1 + m[7]*b2
		r[c*3+2] = m[2]*b0 + m[5]*b1 + m[8]*b2
	}
	return r
}

// Multiply3 returns the left-to-right product of the given matrices.
func Multiply3(ms ...Matrix3) Matrix3 {
	r := Identity3()
	for i, m := range ms {
		if i == 0 {
			r = m
			continue
		}
		r = r.Mul(m)
	}
	return r
}

// MulVector2AsPoint multiplies the Vector2 as a point (z = 1), including translation.
func (m Matrix3) MulVector2AsPoint(v Vector2) Vector2 {
	return Vector2{
		m[0]*v.X + m[3]*v.Y + m[6],
		m[1]*v.X + m[4]*v.Y + m[7],
	}
}

// MulVector2AsVector multiplies the Vector2 as a vector (z = 0), without translation.
func (m Matrix3) MulVector2AsVector(v Vector2) Vector2 {
	return Vector2{
		m[0]*v.X + m[3]*v.Y,
		m[1]*v.X + m[4]*v.Y,
	}
}

// Determinant calculates the determinant of the matrix.
func (m Matrix3) Determinant() float32 {
	a, b, c := m[0], m[1], m[2]
	d, e, f := m[3], m[4], m[5]
	g, h, i := m[6], m[7], m[8]
	return a*e*i - a*f*h - b*d*i + b*f*g + c*d*h - c*e*g
}

// Inverse returns the inverse of this matrix, or [ErrSingular]
// and the identity if the determinant is zero or negligible
// relative to the column lengths.
func (m Matrix3) Inverse() (Matrix3, error) {
	det := m.Determinant()
	norms := 1.0
	for c := 0; c < 3; c++ {
		norms *= float64(Sqrt(m[c*3]*m[c*3] + m[c*3+1]*m[c*3+1] + m[c*3+2]*m[c*3+2]))
	}
	if isSingular(float64(det), norms) {
		return Identity3(), ErrSingular
	}
	inv := 1 / det
	return Matrix3{
		(m[4]*m[8] - m[5]*m[7]) * inv,
		(m[2]*m[7] - m[1]*m[8]) * inv,
		(m[1]*m[5] - m[2]*m[4]) * inv,
		(m[5]*m[6] - m[3]*m[8]) * inv,
		(m[0]*m[8] - m[2]*m[6]) * inv,
		(m[2]*m[3] - m[0]*m[5]) * inv,
		(m[3]*m[7] - m[4]*m[6]) * inv,
		(m[1]*m[6] - m[0]*m[7]) * inv,
		(m[0]*m[4] - m[1]*m[3]) * inv,
	}, nil
}

// Transpose returns the transpose of this matrix.
func (m Matrix3) Transpose() Matrix3 {
	return Matrix3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Matrix3FromMatrix4 returns the upper-left 3x3 part of the given
// 4x4 matrix, as used for normal transforms in shaders.
func Matrix3FromMatrix4(m Matrix4) Matrix3 {
	return Matrix3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// ApproxEqual returns whether every element of m is within tol
// of the corresponding element of other.
func (m Matrix3) ApproxEqual(other Matrix3, tol float32) bool {
	for i := range m {
		if Abs(m[i]-other[i]) > tol {
			return false
		}
	}
	return true
}
