// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package glsl

import (
	"fmt"
	"image"
	"strings"
	"testing"

	"cogentcore.org/render/gpu"
	"cogentcore.org/render/gpu/softgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var glslTypes = map[gpu.Types]string{
	gpu.Float32:        "float",
	gpu.Int32:          "int",
	gpu.Float32Vector2: "vec2",
	gpu.Float32Vector3: "vec3",
	gpu.Float32Vector4: "vec4",
	gpu.Float32Matrix3: "mat3",
	gpu.Float32Matrix4: "mat4",
	gpu.Sampler2D:      "sampler2D",
	gpu.SamplerCube:    "samplerCube",
}

// TestMatchesSoftware checks that every software shader has a GLSL
// version declaring the same uniforms with the same types.
func TestMatchesSoftware(t *testing.T) {
	soft := softgpu.Library()
	lib := Library()
	d := softgpu.New(image.Pt(1, 1))
	defer d.Release()

	for stage, names := range soft {
		for name := range names {
			src, err := lib.Source(stage, name)
			require.NoError(t, err, name)
			assert.True(t, strings.HasPrefix(src, "#version 410 core\n"), name)
		}
	}
	vsrc, err := lib.Source(gpu.VertexShader, "transform")
	require.NoError(t, err)
	for name := range soft[gpu.FragmentShader] {
		p, err := gpu.Build(d, soft, "transform", name)
		require.NoError(t, err)
		fsrc, err := lib.Source(gpu.FragmentShader, name)
		require.NoError(t, err)
		for _, u := range p.Uniforms() {
			decl := fmt.Sprintf("uniform %s %s;", glslTypes[u.Type], u.Name)
			assert.True(t, strings.Contains(vsrc, decl) || strings.Contains(fsrc, decl), "%s: %s", name, decl)
		}
		p.Release()
	}
	for name := range soft[gpu.VertexShader] {
		p, err := gpu.Build(d, soft, name, "depth")
		require.NoError(t, err)
		src, err := lib.Source(gpu.VertexShader, name)
		require.NoError(t, err)
		for _, u := range p.Uniforms() {
			assert.Contains(t, src, fmt.Sprintf("uniform %s %s;", glslTypes[u.Type], u.Name), name)
		}
		p.Release()
	}
	assert.Len(t, lib[gpu.FragmentShader], len(soft[gpu.FragmentShader]))
	assert.Len(t, lib[gpu.VertexShader], len(soft[gpu.VertexShader]))
}

// TestSharedFunctions checks that the helper functions appear once
// in each shader that uses them, with their uniforms.
func TestSharedFunctions(t *testing.T) {
	lib := Library()
	for _, name := range []string{"lambert", "reflect"} {
		src, err := lib.Source(gpu.FragmentShader, name)
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(src, "vec3 specularLight("), name)
		assert.Equal(t, 1, strings.Count(src, "uniform vec3 u_worldViewerPosition;"), name)
		assert.Equal(t, 1, strings.Count(src, "#version"), name)
	}
	src, err := lib.Source(gpu.FragmentShader, "reflect")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(src, "uniform float u_time;"))
	assert.Contains(t, src, "oceanNormal(v_world.xz)")

	sky, err := lib.Source(gpu.VertexShader, "skybox")
	require.NoError(t, err)
	assert.Contains(t, sky, "0.99999")
}
