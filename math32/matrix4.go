// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import (
	"fmt"
	"math"
	"strings"
)

// Matrix4 is 4x4 matrix organized internally as column matrix.
// Element (row r, column c) is at index c*4 + r.
type Matrix4 [16]float32

// Identity4 returns a new identity [Matrix4] matrix.
func Identity4() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Matrix4FromSlice returns a new [Matrix4] from the first 16
// elements of the given column-major slice starting at offset.
func Matrix4FromSlice(array []float32, offset int) Matrix4 {
	var m Matrix4
	copy(m[:], array[offset:offset+16])
	return m
}

// Translate4 returns a translation matrix.
func Translate4(x, y, z float32) Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

// Translate4V returns a translation matrix for the given vector.
func Translate4V(v Vector3) Matrix4 {
	return Translate4(v.X, v.Y, v.Z)
}

// Scale4 returns a scaling matrix.
func Scale4(x, y, z float32) Matrix4 {
	return Matrix4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// XRotate4 returns a rotation matrix about the X axis by the
// given angle in radians (counter-clockwise looking down -X).
func XRotate4(angle float32) Matrix4 {
	c, s := Cos(angle), Sin(angle)
	return Matrix4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// YRotate4 returns a rotation matrix about the Y axis by the
// given angle in radians.
func YRotate4(angle float32) Matrix4 {
	c, s := Cos(angle), Sin(angle)
	return Matrix4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// ZRotate4 returns a rotation matrix about the Z axis by the
// given angle in radians.
func ZRotate4(angle float32) Matrix4 {
	c, s := Cos(angle), Sin(angle)
	return Matrix4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Shear4ZY returns a matrix that shears y by k times z:
// y' = y + k*z. It is used to tilt an orthographic light
// projection along the light's pitch.
func Shear4ZY(k float32) Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, k, 1, 0,
		0, 0, 0, 1,
	}
}

// LookAt returns the camera-to-world matrix for a camera at eye
// looking toward target, with the given up direction.
// The camera looks down its local -Z axis. The view matrix is
// the inverse of the result.
// It returns [ErrDegenerateLookAt] if eye == target or up is
// parallel to the viewing direction.
func LookAt(eye, target, up Vector3) (Matrix4, error) {
	z := eye.Sub(target)
	if z.LengthSquared() == 0 || !IsFinite(z.LengthSquared()) {
		return Identity4(), ErrDegenerateLookAt
	}
	z = z.Normal()
	x := up.Cross(z)
	if x.LengthSquared() <= 1e-10*up.LengthSquared() {
		return Identity4(), ErrDegenerateLookAt
	}
	x = x.Normal()
	y := z.Cross(x).Normal()
	return Matrix4{
		x.X, x.Y, x.Z, 0,
		y.X, y.Y, y.Z, 0,
		z.X, z.Y, z.Z, 0,
		eye.X, eye.Y, eye.Z, 1,
	}, nil
}

// Perspective returns an OpenGL-style perspective projection
// matrix with the given vertical field of view in radians.
// Points on the view axis at distance near map to clip-space
// z = -1 and at distance far map to z = +1 (after the w divide).
// It returns [ErrBadProjection] unless 0 < fovy < Pi, aspect > 0
// and 0 < near < far.
func Perspective(fovy, aspect, near, far float32) (Matrix4, error) {
	if !(fovy > 0 && fovy < Pi) || !(aspect > 0) || !(near > 0) || !(far > near) || IsInf(far, 1) {
		return Identity4(), fmt.Errorf("%w: fovy=%v aspect=%v near=%v far=%v", ErrBadProjection, fovy, aspect, near, far)
	}
	f := Tan(Pi*0.5 - 0.5*fovy)
	rangeInv := 1 / (near - far)
	return Matrix4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (near + far) * rangeInv, -1,
		0, 0, near * far * rangeInv * 2, 0,
	}, nil
}

// Projection returns a matrix mapping the box x in [0, width],
// y in [0, height], z in [-depth/2, depth/2] to clip space,
// with y flipped so that y = 0 is the top edge.
// Combined with a translation of (1, -1, 0) it centers the box,
// which is how directional light projections are built.
func Projection(width, height, depth float32) Matrix4 {
	return Matrix4{
		2 / width, 0, 0, 0,
		0, -2 / height, 0, 0,
		0, 0, 2 / depth, 0,
		-1, 1, 0, 1,
	}
}

// Orthographic returns an orthographic projection matrix
// mapping the given box to clip space.
func Orthographic(left, right, bottom, top, near, far float32) Matrix4 {
	return Matrix4{
		2 / (right - left), 0, 0, 0,
		0, 2 / (top - bottom), 0, 0,
		0, 0, 2 / (near - far), 0,
		(left + right) / (left - right), (bottom + top) / (bottom - top), (near + far) / (near - far), 1,
	}
}

// At returns the element at the given row and column.
func (m Matrix4) At(row, col int) float32 {
	return m[col*4+row]
}

// Mul returns the matrix product m * other. The result, applied
// to a vector, applies other first and then m.
func (m Matrix4) Mul(other Matrix4) Matrix4 {
	var r Matrix4
	for c := 0; c < 4; c++ {
		b0, b1, b2, b3 := other[c*4], other[c*4+1], other[c*4+2], other[c*4+3]
		r[c*4+0] = m[0]*b0 + m[4]*b1 + m[8]*b2 + m[12]*b3
		r[c*4+1] = m[1]*b0 + m[5]*b1 + m[9]*b2 + m[13]*b3
		r[c*4+2] = m[2]*b0 + m[6]*b1 + m[10]*b2 + m[14]*b3
		r[c*4+3] = m[3]*b0 + m[7]*b1 + m[11]*b2 + m[15]*b3
	}
	return r
}

// Multiply4 returns the product of the given matrices composed left
// to right: Multiply4(a, b, c) = a * b * c, so c is applied first.
// With no arguments it returns the identity.
func Multiply4(ms ...Matrix4) Matrix4 {
	r := Identity4()
	for i, m := range ms {
		if i == 0 {
			r = m
			continue
		}
		r = r.Mul(m)
	}
	return r
}

// Transpose returns the transpose of this matrix.
func (m Matrix4) Transpose() Matrix4 {
	return Matrix4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// Determinant calculates the determinant of the matrix.
func (m Matrix4) Determinant() float32 {
	n11, n12, n13, n14 := m[0], m[4], m[8], m[12]
	n21, n22, n23, n24 := m[1], m[5], m[9], m[13]
	n31, n32, n33, n34 := m[2], m[6], m[10], m[14]
	n41, n42, n43, n44 := m[3], m[7], m[11], m[15]

	return n41*(+n14*n23*n32-n13*n24*n32-n14*n22*n33+n12*n24*n33+n13*n22*n34-n12*n23*n34) +
		n42*(+n11*n23*n34-n11*n24*n33+n14*n21*n33-n13*n21*n34+n13*n24*n31-n14*n23*n31) +
		n43*(+n11*n24*n32-n11*n22*n34-n14*n21*n32+n12*n21*n34+n14*n22*n31-n12*n24*n31) +
		n44*(-n13*n22*n31-n11*n23*n32+n11*n22*n33+n13*n21*n32-n12*n21*n33+n12*n23*n31)
}

// Inverse returns the inverse of this matrix, computed by cofactor
// expansion. It returns [ErrSingular] and the identity matrix if the
// determinant is zero or negligible relative to the column lengths.
func (m Matrix4) Inverse() (Matrix4, error) {
	// cofactors computed in float64 for stability with
	// projection matrices that have widely varying magnitudes.
	var a [16]float64
	for i, v := range m {
		a[i] = float64(v)
	}
	n11, n21, n31, n41 := a[0], a[1], a[2], a[3]
	n12, n22, n32, n42 := a[4], a[5], a[6], a[7]
	n13, n23, n33, n43 := a[8], a[9], a[10], a[11]
	n14, n24, n34, n44 := a[12], a[13], a[14], a[15]

	t11 := n23*n34*n42 - n24*n33*n42 + n24*n32*n43 - n22*n34*n43 - n23*n32*n44 + n22*n33*n44
	t12 := n14*n33*n42 - n13*n34*n42 - n14*n32*n43 + n12*n34*n43 + n13*n32*n44 - n12*n33*n44
	t13 := n13*n24*n42 - n14*n23*n42 + n14*n22*n43 - n12*n24*n43 - n13*n22*n44 + n12*n23*n44
	t14 := n14*n23*n32 - n13*n24*n32 - n14*n22*n33 + n12*n24*n33 + n13*n22*n34 - n12*n23*n34

	det := n11*t11 + n21*t12 + n31*t13 + n41*t14
	norms := 1.0
	for c := 0; c < 4; c++ {
		norms *= math.Sqrt(a[c*4]*a[c*4] + a[c*4+1]*a[c*4+1] + a[c*4+2]*a[c*4+2] + a[c*4+3]*a[c*4+3])
	}
	if isSingular(det, norms) {
		return Identity4(), ErrSingular
	}
	inv := 1 / det

	var r [16]float64
	r[0] = t11 * inv
	r[1] = (n24*n33*n41 - n23*n34*n41 - n24*n31*n43 + n21*n34*n43 + n23*n31*n44 - n21*n33*n44) * inv
	r[2] = (n22*n34*n41 - n24*n32*n41 + n24*n31*n42 - n21*n34*n42 - n22*n31*n44 + n21*n32*n44) * inv
	r[3] = (n23*n32*n41 - n22*n33*n41 - n23*n31*n42 + n21*n33*n42 + n22*n31*n43 - n21*n32*n43) * inv

	r[4] = t12 * inv
	r[5] = (n13*n34*n41 - n14*n33*n41 + n14*n31*n43 - n11*n34*n43 - n13*n31*n44 + n11*n33*n44) * inv
	r[6] = (n14*n32*n41 - n12*n34*n41 - n14*n31*n42 + n11*n34*n42 + n12*n31*n44 - n11*n32*n44) * inv
	r[7] = (n12*n33*n41 - n13*n32*n41 + n13*n31*n42 - n11*n33*n42 - n12*n31*n43 + n11*n32*n43) * inv

	r[8] = t13 * inv
	r[9] = (n14*n23*n41 - n13*n24*n41 - n14*n21*n43 + n11*n24*n43 + n13*n21*n44 - n11*n23*n44) * inv
	r[10] = (n12*n24*n41 - n14*n22*n41 + n14*n21*n42 - n11*n24*n42 - n12*n21*n44 + n11*n22*n44) * inv
	r[11] = (n13*n22*n41 - n12*n23*n41 - n13*n21*n42 + n11*n23*n42 + n12*n21*n43 - n11*n22*n43) * inv

	r[12] = t14 * inv
	r[13] = (n13*n24*n31 - n14*n23*n31 + n14*n21*n33 - n11*n24*n33 - n13*n21*n34 + n11*n23*n34) * inv
	r[14] = (n14*n22*n31 - n12*n24*n31 - n14*n21*n32 + n11*n24*n32 + n12*n21*n34 - n11*n22*n34) * inv
	r[15] = (n12*n23*n31 - n13*n22*n31 + n13*n21*n32 - n11*n23*n32 - n12*n21*n33 + n11*n22*n33) * inv

	var res Matrix4
	for i, v := range r {
		res[i] = float32(v)
	}
	return res, nil
}

// MustInverse returns the inverse of this matrix, panicking
// if it is singular. Use it only where invertibility is
// guaranteed by construction (e.g. rigid transforms).
func (m Matrix4) MustInverse() Matrix4 {
	inv, err := m.Inverse()
	if err != nil {
		panic(err)
	}
	return inv
}

// NormalMatrix returns the matrix used to transform normals:
// the transpose of the inverse of this matrix.
func (m Matrix4) NormalMatrix() (Matrix4, error) {
	inv, err := m.Inverse()
	if err != nil {
		return Identity4(), err
	}
	return inv.Transpose(), nil
}

// MulVector4 returns m * v.
func (m Matrix4) MulVector4(v Vector4) Vector4 {
	return Vector4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// MulPoint transforms the point p (with w = 1), dividing by the
// resulting w when it is not 1.
func (m Matrix4) MulPoint(p Vector3) Vector3 {
	r := m.MulVector4(Vector4FromVector3(p, 1))
	if r.W == 1 || r.W == 0 {
		return r.Vector3()
	}
	return r.PerspDiv()
}

// MulDirection transforms the direction d (with w = 0),
// ignoring translation.
func (m Matrix4) MulDirection(d Vector3) Vector3 {
	return m.MulVector4(Vector4FromVector3(d, 0)).Vector3()
}

// Translation returns the translation component of this matrix.
func (m Matrix4) Translation() Vector3 {
	return Vector3{m[12], m[13], m[14]}
}

// IsAffine returns whether the last row is exactly [0, 0, 0, 1].
func (m Matrix4) IsAffine() bool {
	return m[3] == 0 && m[7] == 0 && m[11] == 0 && m[15] == 1
}

// IsFinite returns whether every element is a finite number.
func (m Matrix4) IsFinite() bool {
	for _, v := range m {
		if !IsFinite(v) {
			return false
		}
	}
	return true
}

// ApproxEqual returns whether every element of m is within tol
// of the corresponding element of other.
func (m Matrix4) ApproxEqual(other Matrix4, tol float32) bool {
	for i := range m {
		if Abs(m[i]-other[i]) > tol {
			return false
		}
	}
	return true
}

// Slice returns the matrix elements in column-major order,
// as expected by uniform uploads.
func (m Matrix4) Slice() []float32 {
	return m[:]
}

// String returns the matrix in row-major reading order.
func (m Matrix4) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for r := 0; r < 4; r++ {
		if r > 0 {
			sb.WriteString("; ")
		}
		fmt.Fprintf(&sb, "%v %v %v %v", m.At(r, 0), m.At(r, 1), m.At(r, 2), m.At(r, 3))
	}
	sb.WriteString("]")
	return sb.String()
}

// RotateAxis4 returns a rotation matrix about the given axis by
// the given angle in radians. The axis need not be normalized;
// a zero axis yields the identity.
func RotateAxis4(axis Vector3, angle float32) Matrix4 {
	if axis.IsNil() {
		return Identity4()
	}
	a := axis.Normal()
	x, y, z := a.X, a.Y, a.Z
	c, s := Cos(angle), Sin(angle)
	t := 1 - c
	return Matrix4{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}
