// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package passgraph

import (
	"fmt"
	"image"
	"image/color"

	"cogentcore.org/render/gpu"
	"cogentcore.org/render/math32"
)

// Config is the static description of a render pass graph.
type Config struct {

	// Passes in execution order, unless AutoOrder is set.
	Passes []PassConfig

	// Globals are the uniforms set once per frame on the [Scene]
	// and applied to every program that declares them.
	Globals []gpu.Uniform

	// AutoOrder sorts the passes by their inputs instead of
	// requiring them to be listed in dependency order.
	AutoOrder bool
}

// Target is the destination of a pass.
type Target struct {

	// Screen renders to the display, and ignores Size and Attachments.
	Screen bool

	// Size of the off-screen target in pixels.
	Size image.Point

	// Attachments of the off-screen target.
	Attachments gpu.Attachments
}

// Format returns the format of an off-screen target.
func (tg Target) Format() gpu.TargetFormat {
	return gpu.TargetFormat{Size: tg.Size, Attachments: tg.Attachments}
}

// Input binds an attachment produced by an earlier pass
// to a sampler uniform of the programs of this pass.
type Input struct {

	// Pass is the name of the producing pass.
	Pass string

	// Attachment of the producing pass's target to sample.
	Attachment gpu.Attachments

	// Uniform is the sampler uniform name.
	Uniform string

	// Neutral is bound instead when the producer did not complete.
	Neutral gpu.Neutral
}

// DrawConfig draws a list of drawables with one program.
type DrawConfig struct {
	Vertex    string
	Fragment  string
	Drawables []string
}

// PassConfig describes one render pass.
type PassConfig struct {

	// Name is the unique name of the pass.
	Name string

	// Target the pass renders into.
	Target Target

	// Clear policy applied when the pass begins.
	Clear gpu.ClearPolicy

	// ClearColor used when clearing color.
	ClearColor color.RGBA

	// Vertex, Fragment and Drawables are a shorthand for a
	// single [DrawConfig], drawn before any in Draws.
	Vertex    string
	Fragment  string
	Drawables []string

	// Draws are additional programs with their drawables.
	Draws []DrawConfig

	// View is the name of the [Scene] view whose matrices
	// transform the drawables of this pass.
	View string

	// Inputs are the attachments of other passes this pass samples.
	Inputs []Input
}

// AllDraws returns the shorthand draw followed by Draws.
func (pc *PassConfig) AllDraws() []DrawConfig {
	if pc.Vertex == "" && pc.Fragment == "" && len(pc.Drawables) == 0 {
		return pc.Draws
	}
	dc := DrawConfig{Vertex: pc.Vertex, Fragment: pc.Fragment, Drawables: pc.Drawables}
	return append([]DrawConfig{dc}, pc.Draws...)
}

// DependsOn returns whether the pass has an input from the named pass.
func (pc *PassConfig) DependsOn(name string) bool {
	for _, in := range pc.Inputs {
		if in.Pass == name {
			return true
		}
	}
	return false
}

// Drawable is an object drawn by passes: a range of a mesh,
// a base color and its material textures.
type Drawable struct {

	// Name is the unique name passes refer to the drawable by.
	Name string

	// Mesh is the geometry, owned by the graph once it is built.
	Mesh gpu.Mesh

	// First index and Count of the mesh indices to draw.
	// A Count < 0 draws all of them.
	First, Count int

	// Color is the base color, bound to u_color.
	Color math32.Vector4

	// SpecularExponent is the shininess, bound to u_specularExponent.
	// Zero turns specular highlights off.
	SpecularExponent float32

	// Textures are material textures by sampler uniform name,
	// owned by the graph once it is built.
	Textures map[string]gpu.Texture
}

// String returns the name and index range of the drawable.
func (dr *Drawable) String() string {
	return fmt.Sprintf("%s[%d:%d]", dr.Name, dr.First, dr.Count)
}
