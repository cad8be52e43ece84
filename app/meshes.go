// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"fmt"
	"image"

	"cogentcore.org/render/asset"
	"cogentcore.org/render/config"
	"cogentcore.org/render/gpu"
	"cogentcore.org/render/math32"
	"cogentcore.org/render/passgraph"
	"cogentcore.org/render/shape"
)

var wood = math32.Vec3(0.55, 0.35, 0.2)

// sailboat returns the hull and mast of the boat, sailing towards -Z.
func sailboat(size float32) (*gpu.MeshData, error) {
	s := math32.Scale4(size, size, size)
	hull, err := shape.Transform(shape.Cube(1), math32.Multiply4(s, math32.Translate4(0, 0.3, 0), math32.Scale4(1.2, 0.6, 4)))
	if err != nil {
		return nil, err
	}
	mast, err := shape.Transform(shape.Cube(1), math32.Multiply4(s, math32.Translate4(0, 2.3, -0.3), math32.Scale4(0.12, 3.4, 0.12)))
	if err != nil {
		return nil, err
	}
	return shape.Merge(
		shape.Part{Name: "hull", Material: "wood", Diffuse: wood, Mesh: hull},
		shape.Part{Name: "mast", Material: "wood", Diffuse: wood, Mesh: mast},
	), nil
}

// sailMesh returns a sail hanging from the mast towards the stern.
func sailMesh(size float32) *gpu.MeshData {
	return shape.Triangle(
		math32.Vec3(0, 0.7, -0.3).MulScalar(size),
		math32.Vec3(0, 0.7, 1.6).MulScalar(size),
		math32.Vec3(0, 3.9, -0.3).MulScalar(size),
	)
}

// objectMesh returns the mesh data of the object.
func objectMesh(ob *config.Object, as *asset.Assets) (*gpu.MeshData, error) {
	size := ob.Size
	if size == 0 {
		size = 1
	}
	switch ob.Shape {
	case config.ShapeCube:
		return shape.Cube(size), nil
	case config.ShapePlane:
		return shape.Plane(size, size, 1, 1), nil
	case config.ShapeSphere:
		return shape.Sphere(size, 32, 16), nil
	case config.ShapeQuad:
		return shape.XYQuad(size), nil
	case config.ShapeSailboat:
		return sailboat(size)
	case config.ShapeSail:
		return sailMesh(size), nil
	case config.ShapeSkybox:
		return shape.XYQuad(2), nil
	case config.ShapeModel:
		if md := as.Models[ob.Model]; md != nil {
			return md, nil
		}
		return nil, fmt.Errorf("app: object %q: model %q not loaded", ob.Name, ob.Model)
	}
	return nil, fmt.Errorf("app: object %q: unknown shape %q", ob.Name, ob.Shape)
}

// newDrawable uploads the mesh and textures of the object. On
// failure, anything uploaded is released.
func newDrawable(dev gpu.Device, ob *config.Object, as *asset.Assets) (_ *passgraph.Drawable, err error) {
	md, err := objectMesh(ob, as)
	if err != nil {
		return nil, err
	}
	dr := &passgraph.Drawable{
		Name:  ob.Name,
		Count: -1,
		Color: math32.Vec4(ob.Color[0], ob.Color[1], ob.Color[2], ob.Color[3]),

		SpecularExponent: ob.SpecularExponent,
	}
	defer func() {
		if err != nil {
			releaseDrawable(dr)
		}
	}()
	if dr.Mesh, err = dev.NewMesh(md); err != nil {
		return nil, fmt.Errorf("app: object %q: %w", ob.Name, err)
	}
	if ob.Texture != "" {
		tex, err := dev.NewTexture(as.Images[ob.Texture])
		if err != nil {
			return nil, fmt.Errorf("app: object %q: %w", ob.Name, err)
		}
		dr.Textures = map[string]gpu.Texture{gpu.UTexture: tex}
	}
	var faces [6]image.Image
	switch {
	case len(ob.EnvMap) == 6:
		for i, f := range ob.EnvMap {
			faces[i] = as.Images[f]
		}
	case ob.Shape == config.ShapeSkybox:
		faces = skyFaces(math32.Vec3(ob.Color[0], ob.Color[1], ob.Color[2]))
	}
	if faces[0] != nil {
		tex, err := dev.NewCubeTexture(faces)
		if err != nil {
			return nil, fmt.Errorf("app: object %q: env map: %w", ob.Name, err)
		}
		if dr.Textures == nil {
			dr.Textures = map[string]gpu.Texture{}
		}
		dr.Textures[gpu.UEnvMap] = tex
	}
	return dr, nil
}

func releaseDrawable(dr *passgraph.Drawable) {
	if dr.Mesh != nil {
		dr.Mesh.Release()
	}
	for _, tex := range dr.Textures {
		tex.Release()
	}
}
