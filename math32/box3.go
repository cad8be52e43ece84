// Copyright 2019 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Initially copied from G3N: github.com/g3n/engine/math32
// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// with modifications needed to suit Cogent Core functionality.

package math32

// Box3 represents a 3D bounding box defined by two points:
// the point with minimum coordinates and the point with maximum coordinates.
type Box3 struct {
	Min Vector3
	Max Vector3
}

// B3 returns a new [Box3] from the given minimum and maximum x, y, and z coordinates.
func B3(x0, y0, z0, x1, y1, z1 float32) Box3 {
	return Box3{Vec3(x0, y0, z0), Vec3(x1, y1, z1)}
}

// B3Empty returns a new [Box3] with empty minimum and maximum values.
func B3Empty() Box3 {
	return Box3{Vector3Scalar(Infinity), Vector3Scalar(-Infinity)}
}

// IsEmpty returns true if this bounding box is empty (max < min on any coord).
func (b Box3) IsEmpty() bool {
	return (b.Max.X < b.Min.X) || (b.Max.Y < b.Min.Y) || (b.Max.Z < b.Min.Z)
}

// ExpandByPoint returns the box expanded to include the given point.
func (b Box3) ExpandByPoint(point Vector3) Box3 {
	return Box3{b.Min.Min(point), b.Max.Max(point)}
}

// ExpandByBox returns the box expanded to include the other box.
func (b Box3) ExpandByBox(box Box3) Box3 {
	return Box3{b.Min.Min(box.Min), b.Max.Max(box.Max)}
}

// Center returns the center of the bounding box.
func (b Box3) Center() Vector3 {
	return b.Min.Add(b.Max).MulScalar(0.5)
}

// Size returns the size of the bounding box.
func (b Box3) Size() Vector3 {
	return b.Max.Sub(b.Min)
}

// MulMatrix4 returns the bounding box of this box's eight corners
// transformed by the given matrix.
func (b Box3) MulMatrix4(m Matrix4) Box3 {
	nb := B3Empty()
	for i := 0; i < 8; i++ {
		p := b.Min
		if i&1 != 0 {
			p.X = b.Max.X
		}
		if i&2 != 0 {
			p.Y = b.Max.Y
		}
		if i&4 != 0 {
			p.Z = b.Max.Z
		}
		nb = nb.ExpandByPoint(m.MulPoint(p))
	}
	return nb
}
