// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shape generates primitive triangle meshes with normals and
// texture coordinates: planes, quads, boxes, spheres and triangles.
// All faces wind counter-clockwise when seen from outside.
package shape

import (
	"cogentcore.org/render/gpu"
	"cogentcore.org/render/math32"
)

// builder accumulates vertices and indices.
type builder struct {
	md gpu.MeshData
}

func (b *builder) vertex(pos, norm math32.Vector3, u, v float32) uint32 {
	i := uint32(b.md.NumVertices())
	b.md.Positions = append(b.md.Positions, pos.X, pos.Y, pos.Z)
	b.md.Normals = append(b.md.Normals, norm.X, norm.Y, norm.Z)
	b.md.Texcoords = append(b.md.Texcoords, u, v)
	return i
}

func (b *builder) triangle(i0, i1, i2 uint32) {
	b.md.Indices = append(b.md.Indices, i0, i1, i2)
}

// Plane returns a plane in XZ at y = 0 facing +Y, centered on the
// origin, divided into subX by subZ cells (each at least 1).
// Texture coordinates run from 0 to 1 along x and z.
func Plane(width, depth float32, subX, subZ int) *gpu.MeshData {
	subX, subZ = max(subX, 1), max(subZ, 1)
	b := &builder{}
	up := math32.Vec3(0, 1, 0)
	for j := 0; j <= subZ; j++ {
		v := float32(j) / float32(subZ)
		for i := 0; i <= subX; i++ {
			u := float32(i) / float32(subX)
			b.vertex(math32.Vec3(width*u-width/2, 0, depth*v-depth/2), up, u, v)
		}
	}
	row := uint32(subX + 1)
	for j := range uint32(subZ) {
		for i := range uint32(subX) {
			a := j*row + i
			b.triangle(a, a+row, a+1)
			b.triangle(a+1, a+row, a+row+1)
		}
	}
	return &b.md
}

// XYQuad returns a square of the given size in the XY plane facing +Z,
// centered on the origin.
func XYQuad(size float32) *gpu.MeshData {
	h := size / 2
	b := &builder{}
	n := math32.Vec3(0, 0, 1)
	b.vertex(math32.Vec3(-h, -h, 0), n, 0, 0)
	b.vertex(math32.Vec3(h, -h, 0), n, 1, 0)
	b.vertex(math32.Vec3(-h, h, 0), n, 0, 1)
	b.vertex(math32.Vec3(h, h, 0), n, 1, 1)
	b.triangle(0, 1, 2)
	b.triangle(2, 1, 3)
	return &b.md
}

// face adds a square face of half-size h with outward normal n.
func (b *builder) face(n math32.Vector3, h float32) {
	ref := math32.Vec3(0, 1, 0)
	if math32.Abs(n.Y) > 0.5 {
		ref = math32.Vec3(0, 0, 1)
	}
	u := ref.Cross(n).Normal()
	v := n.Cross(u)
	c := n.MulScalar(h)
	corner := func(su, sv float32) math32.Vector3 {
		return c.Add(u.MulScalar(su * h)).Add(v.MulScalar(sv * h))
	}
	i0 := b.vertex(corner(-1, -1), n, 0, 0)
	b.vertex(corner(1, -1), n, 1, 0)
	b.vertex(corner(1, 1), n, 1, 1)
	b.vertex(corner(-1, 1), n, 0, 1)
	b.triangle(i0, i0+1, i0+2)
	b.triangle(i0, i0+2, i0+3)
}

// Cube returns an axis-aligned cube of the given edge size centered
// on the origin, with separate vertices per face for flat normals.
// Faces are in +X, -X, +Y, -Y, +Z, -Z order.
func Cube(size float32) *gpu.MeshData {
	b := &builder{}
	for _, n := range []math32.Vector3{
		math32.Vec3(1, 0, 0), math32.Vec3(-1, 0, 0),
		math32.Vec3(0, 1, 0), math32.Vec3(0, -1, 0),
		math32.Vec3(0, 0, 1), math32.Vec3(0, 0, -1),
	} {
		b.face(n, size/2)
	}
	return &b.md
}

// Sphere returns a UV sphere of the given radius centered on the
// origin, with widthSegs segments around (at least 3) and heightSegs
// from top to bottom (at least 2).
func Sphere(radius float32, widthSegs, heightSegs int) *gpu.MeshData {
	widthSegs, heightSegs = max(widthSegs, 3), max(heightSegs, 2)
	b := &builder{}
	for y := 0; y <= heightSegs; y++ {
		v := float32(y) / float32(heightSegs)
		elev := v * math32.Pi
		for x := 0; x <= widthSegs; x++ {
			u := float32(x) / float32(widthSegs)
			ang := u * 2 * math32.Pi
			pt := math32.Vec3(-radius*math32.Cos(ang)*math32.Sin(elev), radius*math32.Cos(elev), radius*math32.Sin(ang)*math32.Sin(elev))
			b.vertex(pt, pt.Normal(), u, v)
		}
	}
	row := uint32(widthSegs + 1)
	for y := range uint32(heightSegs) {
		for x := range uint32(widthSegs) {
			v1 := y*row + x + 1
			v2 := y*row + x
			v3 := (y+1)*row + x
			v4 := (y+1)*row + x + 1
			if y != 0 {
				b.triangle(v1, v2, v4)
			}
			if y != uint32(heightSegs)-1 {
				b.triangle(v2, v3, v4)
			}
		}
	}
	return &b.md
}

// Triangle returns a single triangle with its face normal.
func Triangle(a, c, d math32.Vector3) *gpu.MeshData {
	b := &builder{}
	n := math32.Normal(a, c, d)
	b.vertex(a, n, 0, 0)
	b.vertex(c, n, 1, 0)
	b.vertex(d, n, 0.5, 1)
	b.triangle(0, 1, 2)
	return &b.md
}

// Transform returns a copy of the mesh with positions transformed by m
// and normals by its normal matrix. Groups are kept.
func Transform(md *gpu.MeshData, m math32.Matrix4) (*gpu.MeshData, error) {
	nm, err := m.NormalMatrix()
	if err != nil {
		return nil, err
	}
	out := &gpu.MeshData{
		Positions: make([]float32, len(md.Positions)),
		Normals:   make([]float32, len(md.Normals)),
		Texcoords: append([]float32(nil), md.Texcoords...),
		Indices:   append([]uint32(nil), md.Indices...),
		Groups:    append([]gpu.IndexGroup(nil), md.Groups...),
	}
	for i := range md.NumVertices() {
		m.MulPoint(md.Position(i)).ToSlice(out.Positions, i*3)
	}
	for i := 0; i+2 < len(md.Normals); i += 3 {
		nm.MulDirection(math32.Vector3FromSlice(md.Normals, i)).Normal().ToSlice(out.Normals, i)
	}
	return out, nil
}

// Part is a mesh with the group name and material it gets in [Merge].
type Part struct {
	Name     string
	Material string
	Diffuse  math32.Vector3
	Mesh     *gpu.MeshData
}

// Merge concatenates the parts into one mesh with one index group per
// part, so that the parts can be drawn separately or all together.
// All parts must have normals and texture coordinates, or none.
func Merge(parts ...Part) *gpu.MeshData {
	out := &gpu.MeshData{}
	for _, p := range parts {
		base := uint32(out.NumVertices())
		start := len(out.Indices)
		out.Positions = append(out.Positions, p.Mesh.Positions...)
		out.Normals = append(out.Normals, p.Mesh.Normals...)
		out.Texcoords = append(out.Texcoords, p.Mesh.Texcoords...)
		for _, ix := range p.Mesh.Indices {
			out.Indices = append(out.Indices, base+ix)
		}
		out.Groups = append(out.Groups, gpu.IndexGroup{Name: p.Name, Material: p.Material, Diffuse: p.Diffuse, Start: start, Count: len(p.Mesh.Indices)})
	}
	return out
}
