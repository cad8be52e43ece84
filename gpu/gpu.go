// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gpu defines the contracts between the render pass graph
// and a graphics backend: shader compilation and linking, meshes,
// textures and render targets, and the per-pass draw commands.
//
// Two backends implement [Device]: gpu/glgpu on top of OpenGL 4.1,
// and gpu/softgpu, a deterministic CPU rasterizer used headless
// and in tests.
//
// Resources are owned by whoever created them and must be freed
// with Release; nothing is reclaimed implicitly.
package gpu

import (
	"image"
	"image/color"

	"cogentcore.org/render/base/errors"
)

// ErrUnsupported is returned when the device lacks a required [Features].
var ErrUnsupported = errors.New("gpu: feature not supported by device")

// ErrReleased is returned when using a resource after Release.
var ErrReleased = errors.New("gpu: resource already released")

// Features are optional device capabilities, as bit flags.
type Features int32

const (
	// FloatDepthTexture is support for sampling 32 bit float
	// depth attachments as textures (shadow maps).
	FloatDepthTexture Features = 1 << iota

	// CubeTextures is support for cube map textures (skyboxes).
	CubeTextures

	// AllFeatures has every feature bit set.
	AllFeatures = FloatDepthTexture | CubeTextures
)

// String returns the names of the set feature flags.
func (f Features) String() string {
	s := ""
	add := func(n string) {
		if s != "" {
			s += "|"
		}
		s += n
	}
	if f&FloatDepthTexture != 0 {
		add("FloatDepthTexture")
	}
	if f&CubeTextures != 0 {
		add("CubeTextures")
	}
	if s == "" {
		return "None"
	}
	return s
}

// Has returns whether all of the given flags are set.
func (f Features) Has(flags Features) bool {
	return f&flags == flags
}

// Device is a graphics device able to compile programs, hold
// resources and execute render passes. All methods must be called
// from the goroutine that owns the device.
//
// A pass is bracketed by BeginPass and EndPass; within it,
// UseProgram selects the program that subsequent SetUniform,
// BindTexture and Draw calls apply to.
type Device interface {
	// CompileShader compiles the given shader stage source,
	// returning a [*CompileError] on failure.
	CompileShader(stage ShaderStages, source string) (Shader, error)

	// LinkProgram links a vertex and a fragment shader,
	// returning a [*LinkError] on failure.
	LinkProgram(vertex, fragment Shader) (Program, error)

	// NewMesh uploads the given mesh data.
	NewMesh(data *MeshData) (Mesh, error)

	// NewTexture uploads the given image as a 2D RGBA texture.
	NewTexture(img image.Image) (Texture, error)

	// NewCubeTexture uploads the six faces of a cube map in
	// +X, -X, +Y, -Y, +Z, -Z order.
	NewCubeTexture(faces [6]image.Image) (Texture, error)

	// NewRenderTarget creates an off-screen render target.
	NewRenderTarget(format TargetFormat) (RenderTarget, error)

	// Screen returns the render target for the display.
	Screen() RenderTarget

	// Supports returns whether the device has all the given features.
	Supports(f Features) bool

	// BeginPass binds the given target, sets the viewport and
	// applies the clear policy.
	BeginPass(target RenderTarget, viewport image.Rectangle, clear ClearPolicy, clearColor color.RGBA) error

	// UseProgram binds the given program for subsequent calls.
	UseProgram(p Program) error

	// SetUniform sets a non-sampler uniform of the current program.
	SetUniform(slot Slot, v Value) error

	// BindTexture binds the texture to the given sampler slot of the
	// current program, using the given texture unit.
	BindTexture(slot Slot, unit int, tex Texture) error

	// Draw draws count indices of the mesh starting at first,
	// or all of them if count < 0.
	Draw(m Mesh, first, count int) error

	// EndPass finishes the current pass.
	EndPass() error

	// Release frees the device and everything it still holds.
	Release()
}
