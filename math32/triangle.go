// Copyright 2019 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Initially copied from G3N: github.com/g3n/engine/math32
// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// with modifications needed to suit Cogent Core functionality.

package math32

// Normal returns the normal of the triangle a, b, c with
// counter-clockwise winding. A degenerate triangle returns
// the zero vector.
func Normal(a, b, c Vector3) Vector3 {
	nv := b.Sub(a).Cross(c.Sub(a))
	lenSq := nv.LengthSquared()
	if lenSq > 0 {
		return nv.MulScalar(1 / Sqrt(lenSq))
	}
	return Vector3{}
}

// EdgeFunction returns twice the signed area of the triangle
// a, b, p: positive when p is to the left of the edge a->b
// (counter-clockwise with y up).
func EdgeFunction(a, b, p Vector2) float32 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// Barycentric2 returns the barycentric weights of p relative to
// the 2D triangle a, b, c, and false if the triangle is degenerate.
// The weights sum to 1; p is inside (or on an edge) when all are >= 0.
func Barycentric2(p, a, b, c Vector2) (Vector3, bool) {
	area := EdgeFunction(a, b, c)
	if area == 0 {
		return Vector3{}, false
	}
	inv := 1 / area
	w0 := EdgeFunction(b, c, p) * inv
	w1 := EdgeFunction(c, a, p) * inv
	return Vec3(w0, w1, 1-w0-w1), true
}

// Triangle represents a triangle made of three vertices.
type Triangle struct {
	A Vector3
	B Vector3
	C Vector3
}

// NewTriangle returns a new Triangle object.
func NewTriangle(a, b, c Vector3) Triangle {
	return Triangle{a, b, c}
}

// Area returns the triangle's area.
func (t Triangle) Area() float32 {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A)).Length() * 0.5
}

// Normal returns the triangle's normal.
func (t Triangle) Normal() Vector3 {
	return Normal(t.A, t.B, t.C)
}

// Midpoint returns the triangle's midpoint.
func (t Triangle) Midpoint() Vector3 {
	return t.A.Add(t.B).Add(t.C).MulScalar(float32(1) / 3)
}
