// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"

	"cogentcore.org/render/base/errors"
)

var (
	// ErrNoUniform is returned by [Lookup] when the program has no
	// active uniform of the given name.
	ErrNoUniform = errors.New("gpu: no such uniform")

	// ErrUniformType is returned when a uniform is used with a
	// value of a different type than declared in the shader.
	ErrUniformType = errors.New("gpu: uniform type mismatch")
)

// Standard uniform names shared by all shaders.
const (
	UMatrix                = "u_matrix"
	UWorldMatrix           = "u_worldMatrix"
	UNormalMatrix          = "u_normalMatrix"
	ULightProjectionMatrix = "u_lightProjectionMatrix"
	UReflectionMatrix      = "u_reflectionMatrix"
	ULightDir              = "u_lightDir"
	UWorldViewerPosition   = "u_worldViewerPosition"
	UAmbient               = "u_ambient"
	UColor                 = "u_color"
	UTime                  = "u_time"

	// USpecular is the color of specular highlights, and
	// USpecularExponent the shininess of each drawable.
	USpecular         = "u_specular"
	USpecularExponent = "u_specularExponent"

	// UWindStrength scales the height of the ocean waves.
	UWindStrength = "u_windStrength"

	// UViewDirectionProjectionInverse maps clip positions to world
	// directions: the inverse of the projection times the view
	// rotation. It is set per draw for the view of the pass.
	UViewDirectionProjectionInverse = "u_viewDirectionProjectionInverse"

	ULightProjectionMap = "u_lightProjectionMap"
	UReflectionTexture  = "u_reflectionTexture"
	UTexture            = "u_texture"
	UEnvMap             = "u_envMap"
)

// Fixed vertex attribute locations.
const (
	PositionLoc = 0
	NormalLoc   = 1
	TexcoordLoc = 2
)

// Uniform is an active uniform variable of a linked program.
type Uniform struct {
	Name string
	Type Types

	// Location is the backend-specific location of the uniform.
	Location int32
}

// Slot is a uniform resolved against a specific program at link
// time, so that per-draw updates need no name lookup.
type Slot struct {
	Program  Program
	Name     string
	Type     Types
	Location int32
}

// IsValid returns whether the slot was resolved.
func (sl Slot) IsValid() bool {
	return sl.Program != nil
}

// Check returns an error if the value cannot be assigned to this slot.
func (sl Slot) Check(v Value) error {
	if v.Type != sl.Type {
		return fmt.Errorf("%w: %s is %v, got %v", ErrUniformType, sl.Name, sl.Type, v.Type)
	}
	return nil
}

// Lookup resolves the named uniform of the given program,
// checking that it has the given type.
func Lookup(p Program, name string, typ Types) (Slot, error) {
	for _, u := range p.Uniforms() {
		if u.Name != name {
			continue
		}
		if u.Type != typ {
			return Slot{}, fmt.Errorf("%w: %s is %v in shader, declared as %v", ErrUniformType, name, u.Type, typ)
		}
		return Slot{Program: p, Name: name, Type: typ, Location: u.Location}, nil
	}
	return Slot{}, fmt.Errorf("%w: %q", ErrNoUniform, name)
}

// HasUniform returns whether the program has an active uniform of the given name.
func HasUniform(p Program, name string) bool {
	for _, u := range p.Uniforms() {
		if u.Name == name {
			return true
		}
	}
	return false
}
