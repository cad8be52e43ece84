// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"strings"

	"cogentcore.org/render/base/errors"
)

// ShaderStages is a programmable pipeline stage.
type ShaderStages int32

const (
	VertexShader ShaderStages = iota
	FragmentShader
)

// String returns the name of the stage.
func (st ShaderStages) String() string {
	switch st {
	case VertexShader:
		return "vertex"
	case FragmentShader:
		return "fragment"
	}
	return fmt.Sprintf("ShaderStages(%d)", int(st))
}

// Shader is a compiled shader stage.
type Shader interface {
	Stage() ShaderStages
	Release()
}

// Program is a linked vertex + fragment shader program.
type Program interface {
	// Uniforms returns the active uniforms, reflected at link time.
	Uniforms() []Uniform
	Release()
}

// CompileError is returned when a shader fails to compile.
type CompileError struct {
	Stage ShaderStages

	// Log is the compiler info log.
	Log string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("gpu: compiling %v shader: %s", e.Stage, strings.TrimSpace(e.Log))
}

// LinkError is returned when a program fails to link.
type LinkError struct {
	// Log is the linker info log.
	Log string
}

func (e *LinkError) Error() string {
	return "gpu: linking program: " + strings.TrimSpace(e.Log)
}

// ErrNoShader is returned by [ShaderLibrary.Source] for unknown names.
var ErrNoShader = errors.New("gpu: no such shader in library")

// ShaderLibrary maps shader names to the source text a backend
// compiles, per stage. Render pass configuration refers to shaders
// by name so the same configuration works on every backend.
type ShaderLibrary map[ShaderStages]map[string]string

// Source returns the source text for the named shader.
func (lb ShaderLibrary) Source(stage ShaderStages, name string) (string, error) {
	src, ok := lb[stage][name]
	if !ok {
		return "", fmt.Errorf("%w: %v shader %q", ErrNoShader, stage, name)
	}
	return src, nil
}

// Add adds the source for the named shader, replacing any existing one.
func (lb ShaderLibrary) Add(stage ShaderStages, name, source string) {
	if lb[stage] == nil {
		lb[stage] = map[string]string{}
	}
	lb[stage][name] = source
}

// Build compiles the named vertex and fragment shaders from the library
// and links them. The intermediate shaders are released once linked.
// Errors identify the failing stage: a [*CompileError] or
// [*LinkError] wrapped with the shader name.
func Build(dev Device, lib ShaderLibrary, vertex, fragment string) (Program, error) {
	vsrc, err := lib.Source(VertexShader, vertex)
	if err != nil {
		return nil, err
	}
	fsrc, err := lib.Source(FragmentShader, fragment)
	if err != nil {
		return nil, err
	}
	vs, err := dev.CompileShader(VertexShader, vsrc)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", vertex, err)
	}
	defer vs.Release()
	fs, err := dev.CompileShader(FragmentShader, fsrc)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", fragment, err)
	}
	defer fs.Release()
	p, err := dev.LinkProgram(vs, fs)
	if err != nil {
		return nil, fmt.Errorf("%q + %q: %w", vertex, fragment, err)
	}
	return p, nil
}
