// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"

	"cogentcore.org/render/math32"
)

// Mesh is indexed triangle geometry uploaded to the device.
// It is immutable after upload.
type Mesh interface {
	// NumIndices returns the number of indices.
	NumIndices() int
	Release()
}

// IndexGroup is a contiguous range of indices drawn with one
// material, as produced by the usemtl statements of an OBJ file.
type IndexGroup struct {
	// Name of the object or group.
	Name string

	// Material name.
	Material string

	// Diffuse color of the material.
	Diffuse math32.Vector3

	// Start is the first index of the group.
	Start int

	// Count is the number of indices in the group.
	Count int
}

// MeshData is indexed triangle geometry in host memory:
// xyz positions and normals, uv texture coordinates,
// and triangle indices. Normals and Texcoords may be empty.
type MeshData struct {
	Positions []float32
	Normals   []float32
	Texcoords []float32
	Indices   []uint32

	// Groups optionally partitions Indices by material.
	Groups []IndexGroup
}

// NumVertices returns the number of vertices.
func (md *MeshData) NumVertices() int {
	return len(md.Positions) / 3
}

// Position returns the i'th vertex position.
func (md *MeshData) Position(i int) math32.Vector3 {
	return math32.Vector3FromSlice(md.Positions, i*3)
}

// Validate returns an error if the attribute arrays are inconsistent
// or an index is out of range.
func (md *MeshData) Validate() error {
	nv := md.NumVertices()
	switch {
	case len(md.Positions)%3 != 0:
		return fmt.Errorf("gpu: mesh positions length %d is not a multiple of 3", len(md.Positions))
	case len(md.Normals) != 0 && len(md.Normals) != nv*3:
		return fmt.Errorf("gpu: mesh has %d normals for %d vertices", len(md.Normals)/3, nv)
	case len(md.Texcoords) != 0 && len(md.Texcoords) != nv*2:
		return fmt.Errorf("gpu: mesh has %d texcoords for %d vertices", len(md.Texcoords)/2, nv)
	case len(md.Indices)%3 != 0:
		return fmt.Errorf("gpu: mesh index count %d is not a multiple of 3", len(md.Indices))
	}
	for _, ix := range md.Indices {
		if int(ix) >= nv {
			return fmt.Errorf("gpu: mesh index %d out of range of %d vertices", ix, nv)
		}
	}
	for _, g := range md.Groups {
		if g.Start < 0 || g.Count < 0 || g.Start+g.Count > len(md.Indices) {
			return fmt.Errorf("gpu: mesh group %q range [%d,%d) out of %d indices", g.Name, g.Start, g.Start+g.Count, len(md.Indices))
		}
	}
	return nil
}

// Bounds returns the bounding box of the positions.
func (md *MeshData) Bounds() math32.Box3 {
	bb := math32.B3Empty()
	for i := range md.NumVertices() {
		bb = bb.ExpandByPoint(md.Position(i))
	}
	return bb
}

// GroupByName returns the index of the group with the given
// name or material, or -1.
func (md *MeshData) GroupByName(name string) int {
	for i, g := range md.Groups {
		if g.Name == name || g.Material == name {
			return i
		}
	}
	return -1
}
