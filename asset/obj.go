// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The OBJ decoder is based on the Cogent Core gi3d obj decoder,
// which is based on https://github.com/g3n/engine :
// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cogentcore.org/render/gpu"
	"cogentcore.org/render/math32"
)

// material is the subset of an MTL material used for rendering.
type material struct {
	name    string
	diffuse math32.Vector3
}

// default light gray, used when there is no material library
var defaultDiffuse = math32.Vec3(0.63, 0.63, 0.63)

// face indexes into the decoded position, texcoord and normal arrays;
// -1 means absent.
type face struct {
	vertices []int
	uvs      []int
	normals  []int
	object   string
	material string
}

// decoder holds the state of an OBJ and MTL parse.
type decoder struct {
	matlib    string
	materials map[string]*material
	faces     []face
	vertices  []float32
	normals   []float32
	uvs       []float32
	warnings  []string
	line      int
	object    string
	matCur    *material
}

func newDecoder() *decoder {
	return &decoder{materials: map[string]*material{}}
}

// parse reads the lines from the reader and dispatches them
// to the line parser.
func (dec *decoder) parse(r io.Reader, parseLine func(fields []string) error) error {
	sc := bufio.NewScanner(r)
	dec.line = 0
	dec.matCur = nil
	for sc.Scan() {
		dec.line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if err := parseLine(fields); err != nil {
			return err
		}
	}
	return sc.Err()
}

func (dec *decoder) parseObjLine(fields []string) error {
	args := fields[1:]
	switch fields[0] {
	case "mtllib":
		if len(args) < 1 {
			return dec.formatError("mtllib with no fields")
		}
		dec.matlib = args[0]
	case "o", "g":
		if len(args) < 1 {
			return dec.formatError("object line with no fields")
		}
		dec.object = args[0]
	case "v":
		return dec.parseFloats(&dec.vertices, args, 3)
	case "vn":
		return dec.parseFloats(&dec.normals, args, 3)
	case "vt":
		return dec.parseFloats(&dec.uvs, args, 2)
	case "f":
		return dec.parseFace(args)
	case "usemtl":
		if len(args) < 1 {
			return dec.formatError("usemtl with no fields")
		}
		dec.matCur = dec.material(args[0])
	case "s":
	default:
		dec.appendWarn("obj", "field not supported: "+fields[0])
	}
	return nil
}

func (dec *decoder) material(name string) *material {
	mat := dec.materials[name]
	if mat == nil {
		mat = &material{name: name, diffuse: defaultDiffuse}
		dec.materials[name] = mat
	}
	return mat
}

// parseFloats appends the first n values of args to the array.
func (dec *decoder) parseFloats(ary *[]float32, args []string, n int) error {
	if len(args) < n {
		return dec.formatError(fmt.Sprintf("fewer than %d values", n))
	}
	for _, f := range args[:n] {
		val, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return dec.formatError(err.Error())
		}
		*ary = append(*ary, float32(val))
	}
	return nil
}

// index converts a 1-based (or negative, relative) OBJ index
// into a 0-based index into an array of count elements.
func (dec *decoder) index(s string, count int) (int, error) {
	val, err := strconv.Atoi(s)
	if err != nil {
		return 0, dec.formatError(err.Error())
	}
	switch {
	case val > 0 && val <= count:
		return val - 1, nil
	case val < 0 && -val <= count:
		return count + val, nil
	}
	return 0, dec.formatError(fmt.Sprintf("index %d out of range of %d", val, count))
}

// parseFace parses a face line:
// f v1[/vt1][/vn1] v2[/vt2][/vn2] v3[/vt3][/vn3] ...
func (dec *decoder) parseFace(args []string) error {
	if len(args) < 3 {
		return dec.formatError("face with fewer than 3 vertices")
	}
	fc := face{
		vertices: make([]int, len(args)),
		uvs:      make([]int, len(args)),
		normals:  make([]int, len(args)),
		object:   dec.object,
	}
	if dec.matCur != nil {
		fc.material = dec.matCur.name
	}
	for i, a := range args {
		parts := strings.Split(a, "/")
		var err error
		if fc.vertices[i], err = dec.index(parts[0], len(dec.vertices)/3); err != nil {
			return err
		}
		fc.uvs[i], fc.normals[i] = -1, -1
		if len(parts) > 1 && parts[1] != "" {
			if fc.uvs[i], err = dec.index(parts[1], len(dec.uvs)/2); err != nil {
				return err
			}
		}
		if len(parts) > 2 && parts[2] != "" {
			if fc.normals[i], err = dec.index(parts[2], len(dec.normals)/3); err != nil {
				return err
			}
		}
	}
	dec.faces = append(dec.faces, fc)
	return nil
}

func (dec *decoder) parseMtlLine(fields []string) error {
	args := fields[1:]
	switch fields[0] {
	case "newmtl":
		if len(args) < 1 {
			return dec.formatError("newmtl with no fields")
		}
		dec.matCur = dec.material(args[0])
	case "Kd":
		if dec.matCur == nil {
			return dec.formatError("Kd before newmtl")
		}
		var kd []float32
		if err := dec.parseFloats(&kd, args, 3); err != nil {
			return err
		}
		dec.matCur.diffuse = math32.Vec3(kd[0], kd[1], kd[2])
	default:
		dec.appendWarn("mtl", "field not supported: "+fields[0])
	}
	return nil
}

// meshData converts the faces to triangles, as fans around the first
// vertex of each face, with one index group per run of faces sharing
// an object and material. Faces without normals get the face normal.
func (dec *decoder) meshData() (*gpu.MeshData, error) {
	if len(dec.faces) == 0 {
		return nil, errors.New("obj: no faces")
	}
	md := &gpu.MeshData{}
	var grp *gpu.IndexGroup
	for fi := range dec.faces {
		fc := &dec.faces[fi]
		if grp == nil || grp.Name != fc.object || grp.Material != fc.material {
			diffuse := defaultDiffuse
			if mat := dec.materials[fc.material]; mat != nil {
				diffuse = mat.diffuse
			}
			md.Groups = append(md.Groups, gpu.IndexGroup{Name: fc.object, Material: fc.material, Diffuse: diffuse, Start: len(md.Indices)})
			grp = &md.Groups[len(md.Groups)-1]
		}
		base := uint32(md.NumVertices())
		pos := func(k int) math32.Vector3 {
			return math32.Vector3FromSlice(dec.vertices, fc.vertices[k]*3)
		}
		fn := math32.Normal(pos(0), pos(1), pos(2))
		for k := range fc.vertices {
			p := pos(k)
			md.Positions = append(md.Positions, p.X, p.Y, p.Z)
			n := fn
			if fc.normals[k] >= 0 {
				n = math32.Vector3FromSlice(dec.normals, fc.normals[k]*3)
			}
			md.Normals = append(md.Normals, n.X, n.Y, n.Z)
			var u, v float32
			if fc.uvs[k] >= 0 {
				u, v = dec.uvs[fc.uvs[k]*2], dec.uvs[fc.uvs[k]*2+1]
			}
			md.Texcoords = append(md.Texcoords, u, v)
		}
		for k := 1; k+1 < len(fc.vertices); k++ {
			md.Indices = append(md.Indices, base, base+uint32(k), base+uint32(k+1))
		}
		grp.Count = len(md.Indices) - grp.Start
	}
	return md, md.Validate()
}

func (dec *decoder) formatError(msg string) error {
	return fmt.Errorf("%s in line %d", msg, dec.line)
}

func (dec *decoder) appendWarn(ftype string, msg string) {
	dec.warnings = append(dec.warnings, fmt.Sprintf("%s(%d): %s", ftype, dec.line, msg))
}
