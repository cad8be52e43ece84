// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration structs for the
// sailing renderer: display, camera, light, scene objects and
// the render passes that draw them.
package config

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"cogentcore.org/render/asset"
	"cogentcore.org/render/base/errors"
	"cogentcore.org/render/gpu"
	"cogentcore.org/render/passgraph"
)

// Config is the main config struct that contains all of the
// configuration options for the renderer.
type Config struct {

	// Width of the display, in pixels.
	Width int

	// Height of the display, in pixels.
	Height int

	// LogLevel is the minimum level of log messages shown.
	LogLevel slog.Level

	// Assets is the directory that image and model paths are relative to.
	Assets string

	// Camera is the orbiting camera rig.
	Camera Camera

	// Light is the directional light casting shadows.
	Light Light

	// Game enables the sailing game, which moves the
	// objects with a game role.
	Game bool

	// Objects are the drawables of the scene.
	Objects []Object

	// Globals are uniforms shared by all passes, set once per frame.
	Globals []Global

	// Passes are the render passes, in execution order.
	Passes []Pass

	// AutoOrder orders the passes by their inputs instead of
	// requiring them to be listed in execution order.
	AutoOrder bool
}

// Camera configures the orbiting camera rig. Angles are in degrees.
type Camera struct {
	Pitch    float32
	Yaw      float32
	Distance float32
	FOV      float32
	Near     float32
	Far      float32
}

// Light configures the directional light. Angles are in degrees.
type Light struct {

	// Pitch is the angle from straight down.
	Pitch float32

	// Yaw is the rotation about the vertical axis.
	Yaw float32

	// Width, Height and Depth of the shadow box.
	Width, Height, Depth float32

	// Spin is the yaw rotation of the light per second, in degrees.
	Spin float32

	// Ambient is the light level of surfaces facing away from the light.
	Ambient float32

	// Specular is the brightness of the white specular highlights.
	Specular float32
}

// Shapes are the kinds of meshes an object can have.
type Shapes = string

// Shapes that objects can have.
const (
	ShapeCube     Shapes = "cube"
	ShapePlane    Shapes = "plane"
	ShapeSphere   Shapes = "sphere"
	ShapeQuad     Shapes = "quad"
	ShapeSailboat Shapes = "sailboat"
	ShapeSail     Shapes = "sail"
	ShapeModel    Shapes = "model"

	// ShapeSkybox is a quad covering the view, drawn with the
	// skybox vertex shader. Without an env map, it shows a sky
	// fading from white at the horizon to its color overhead.
	ShapeSkybox Shapes = "skybox"
)

// Roles are the parts of the sailing game that objects follow.
type Roles = string

// Roles that objects can have. Objects with no role stay
// at their configured position.
const (
	RoleBoat      Roles = "boat"
	RoleSail      Roles = "sail"
	RoleSailFront Roles = "sail-front"
	RoleOcean     Roles = "ocean"
)

// Object is a drawable of the scene.
type Object struct {

	// Name of the object, used in pass drawable lists.
	Name string

	// Shape of the mesh.
	Shape Shapes

	// Model is the path of the OBJ file for [ShapeModel].
	Model string

	// Size scales the shape.
	Size float32

	// Color is the base color, in linear RGBA.
	Color [4]float32

	// SpecularExponent is the shininess of the highlights.
	// Zero turns them off.
	SpecularExponent float32

	// Texture is the path of an image bound to u_texture.
	Texture string

	// EnvMap is the paths of the six cube faces bound to u_envMap:
	// +X, -X, +Y, -Y, +Z, -Z.
	EnvMap []string

	// Role is the part of the sailing game that moves this object.
	Role Roles

	// Position is the world location of objects with no role,
	// and the offset from their game part for the others.
	Position [3]float32
}

// Global is a uniform shared by all passes.
type Global struct {
	Name string
	Type gpu.Types
}

// Pass is one render pass.
type Pass struct {

	// Name of the pass, used by the inputs of later passes.
	Name string

	// Screen renders to the display instead of an off-screen target.
	Screen bool

	// Size of the off-screen target.
	Size [2]int

	// Attachments of the off-screen target.
	Attachments gpu.Attachments

	// Clear is what to clear when the pass begins.
	Clear gpu.ClearPolicy

	// ClearColor in 8 bit RGBA.
	ClearColor [4]uint8

	// Vertex and Fragment are the shader names of the pass program.
	Vertex, Fragment string

	// Drawables drawn with the pass program.
	Drawables []string

	// Draws are additional programs with their own drawables.
	Draws []Draw

	// View is the name of the scene view: camera, mirror or light.
	View string

	// Inputs are attachments of earlier passes sampled by this pass.
	Inputs []Input
}

// Draw is an additional program of a pass.
type Draw struct {
	Vertex, Fragment string
	Drawables        []string
}

// Input binds an attachment of an earlier pass to a sampler uniform.
type Input struct {
	Pass       string
	Attachment gpu.Attachments
	Uniform    string
	Neutral    gpu.Neutral
}

// Size returns the display size.
func (cf *Config) Size() image.Point {
	return image.Pt(cf.Width, cf.Height)
}

// Object returns the object of the given name, or nil.
func (cf *Config) Object(name string) *Object {
	for i := range cf.Objects {
		if cf.Objects[i].Name == name {
			return &cf.Objects[i]
		}
	}
	return nil
}

// Images returns the paths of all images the objects use.
func (cf *Config) Images() []string {
	var paths []string
	for _, ob := range cf.Objects {
		if ob.Texture != "" {
			paths = append(paths, ob.Texture)
		}
		paths = append(paths, ob.EnvMap...)
	}
	return paths
}

// Models returns the paths of all models the objects use.
func (cf *Config) Models() []string {
	var paths []string
	for _, ob := range cf.Objects {
		if ob.Shape == ShapeModel {
			paths = append(paths, ob.Model)
		}
	}
	return paths
}

// Validate returns an error describing everything wrong with the
// config that can be checked without a device.
func (cf *Config) Validate() error {
	var errs []error
	if cf.Width <= 0 || cf.Height <= 0 {
		errs = append(errs, fmt.Errorf("config: display size %dx%d must be positive", cf.Width, cf.Height))
	}
	if cf.Camera.Near <= 0 || cf.Camera.Far <= cf.Camera.Near {
		errs = append(errs, fmt.Errorf("config: camera planes %v, %v are invalid", cf.Camera.Near, cf.Camera.Far))
	}
	if len(cf.Passes) == 0 {
		errs = append(errs, errors.New("config: no passes"))
	}
	objects := map[string]bool{}
	for _, ob := range cf.Objects {
		if objects[ob.Name] {
			errs = append(errs, fmt.Errorf("config: duplicate object %q", ob.Name))
		}
		objects[ob.Name] = true
		errs = append(errs, ob.validate())
	}
	passes := map[string]bool{}
	for _, ps := range cf.Passes {
		if passes[ps.Name] {
			errs = append(errs, fmt.Errorf("config: duplicate pass %q", ps.Name))
		}
		passes[ps.Name] = true
		if !ps.Screen && (ps.Size[0] <= 0 || ps.Size[1] <= 0) {
			errs = append(errs, fmt.Errorf("config: pass %q: target size %v must be positive", ps.Name, ps.Size))
		}
		for _, dr := range ps.allDrawables() {
			if !objects[dr] {
				errs = append(errs, fmt.Errorf("config: pass %q: unknown object %q", ps.Name, dr))
			}
		}
	}
	return errors.Join(errs...)
}

func (ob *Object) validate() error {
	switch ob.Shape {
	case ShapeCube, ShapePlane, ShapeSphere, ShapeQuad, ShapeSailboat, ShapeSail, ShapeSkybox:
	case ShapeModel:
		if !asset.IsModel(ob.Model) {
			return fmt.Errorf("config: object %q: %q is not a model file", ob.Name, ob.Model)
		}
	default:
		return fmt.Errorf("config: object %q: unknown shape %q", ob.Name, ob.Shape)
	}
	switch ob.Role {
	case "", RoleBoat, RoleSail, RoleSailFront, RoleOcean:
	default:
		return fmt.Errorf("config: object %q: unknown role %q", ob.Name, ob.Role)
	}
	if ob.SpecularExponent < 0 {
		return fmt.Errorf("config: object %q: negative specular exponent %v", ob.Name, ob.SpecularExponent)
	}
	if len(ob.EnvMap) != 0 && len(ob.EnvMap) != 6 {
		return fmt.Errorf("config: object %q: env map needs 6 faces, not %d", ob.Name, len(ob.EnvMap))
	}
	return nil
}

func (ps *Pass) allDrawables() []string {
	drs := ps.Drawables
	for _, dw := range ps.Draws {
		drs = append(drs[:len(drs):len(drs)], dw.Drawables...)
	}
	return drs
}

// Graph returns the render pass graph config.
func (cf *Config) Graph() *passgraph.Config {
	gc := &passgraph.Config{AutoOrder: cf.AutoOrder}
	for _, gl := range cf.Globals {
		gc.Globals = append(gc.Globals, gpu.Uniform{Name: gl.Name, Type: gl.Type})
	}
	for _, ps := range cf.Passes {
		pc := passgraph.PassConfig{
			Name: ps.Name,
			Target: passgraph.Target{
				Screen:      ps.Screen,
				Size:        image.Pt(ps.Size[0], ps.Size[1]),
				Attachments: ps.Attachments,
			},
			Clear:      ps.Clear,
			ClearColor: rgba(ps.ClearColor),
			Vertex:     ps.Vertex,
			Fragment:   ps.Fragment,
			Drawables:  ps.Drawables,
			View:       ps.View,
		}
		if ps.Screen {
			pc.Target.Size = image.Point{}
			pc.Target.Attachments = 0
		}
		for _, dw := range ps.Draws {
			pc.Draws = append(pc.Draws, passgraph.DrawConfig{Vertex: dw.Vertex, Fragment: dw.Fragment, Drawables: dw.Drawables})
		}
		for _, in := range ps.Inputs {
			pc.Inputs = append(pc.Inputs, passgraph.Input{Pass: in.Pass, Attachment: in.Attachment, Uniform: in.Uniform, Neutral: in.Neutral})
		}
		gc.Passes = append(gc.Passes, pc)
	}
	return gc
}

func rgba(c [4]uint8) color.RGBA {
	return color.RGBA{c[0], c[1], c[2], c[3]}
}
