// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package softgpu

import (
	"strings"

	"cogentcore.org/render/gpu"
	"cogentcore.org/render/math32"
)

// varyings are interpolated from vertex to fragment:
// world position xyz, normal xyz, texcoord uv.
type varyings [8]float32

func (v *varyings) world() math32.Vector3  { return math32.Vec3(v[0], v[1], v[2]) }
func (v *varyings) normal() math32.Vector3 { return math32.Vec3(v[3], v[4], v[5]) }
func (v *varyings) uv() math32.Vector2     { return math32.Vec2(v[6], v[7]) }

// shaderEnv holds the uniform values of the current program,
// resolved by name once per draw call.
type shaderEnv struct {
	matrix, world, normal, lightProj, reflection, direction math32.Matrix4

	lightDir, ambient, viewer, specular math32.Vector3
	color                               math32.Vector4
	time, specularExponent, wind        float32

	lightMap, reflectionTex, tex, envMap *texture
}

type vertexFunc func(env *shaderEnv, pos, normal math32.Vector3, uv math32.Vector2) (math32.Vector4, varyings)

// fragmentFunc returns the fragment color, or false to discard it.
type fragmentFunc func(env *shaderEnv, v *varyings) (math32.Vector4, bool)

// builtin is a shader stage implemented in Go.
type builtin struct {
	name     string
	stage    gpu.ShaderStages
	uniforms []gpu.Uniform
	vertex   vertexFunc
	fragment fragmentFunc
}

func u(name string, tp gpu.Types) gpu.Uniform {
	return gpu.Uniform{Name: name, Type: tp}
}

var builtins = map[string]*builtin{
	"transform": {
		stage: gpu.VertexShader,
		uniforms: []gpu.Uniform{
			u(gpu.UMatrix, gpu.Float32Matrix4),
			u(gpu.UWorldMatrix, gpu.Float32Matrix4),
			u(gpu.UNormalMatrix, gpu.Float32Matrix4),
		},
		vertex: transformVertex,
	},
	"skybox": {
		stage:    gpu.VertexShader,
		uniforms: []gpu.Uniform{u(gpu.UViewDirectionProjectionInverse, gpu.Float32Matrix4)},
		vertex:   skyboxVertex,
	},
	"depth": {
		stage:    gpu.FragmentShader,
		fragment: depthFragment,
	},
	"flat": {
		stage:    gpu.FragmentShader,
		uniforms: []gpu.Uniform{u(gpu.UColor, gpu.Float32Vector4)},
		fragment: flatFragment,
	},
	"lambert": {
		stage: gpu.FragmentShader,
		uniforms: []gpu.Uniform{
			u(gpu.UColor, gpu.Float32Vector4),
			u(gpu.ULightDir, gpu.Float32Vector3),
			u(gpu.UAmbient, gpu.Float32Vector3),
			u(gpu.UWorldViewerPosition, gpu.Float32Vector3),
			u(gpu.USpecular, gpu.Float32Vector3),
			u(gpu.USpecularExponent, gpu.Float32),
			u(gpu.ULightProjectionMatrix, gpu.Float32Matrix4),
			u(gpu.ULightProjectionMap, gpu.Sampler2D),
		},
		fragment: lambertFragment,
	},
	"reflect": {
		stage: gpu.FragmentShader,
		uniforms: []gpu.Uniform{
			u(gpu.UColor, gpu.Float32Vector4),
			u(gpu.UTime, gpu.Float32),
			u(gpu.UWindStrength, gpu.Float32),
			u(gpu.ULightDir, gpu.Float32Vector3),
			u(gpu.UWorldViewerPosition, gpu.Float32Vector3),
			u(gpu.USpecular, gpu.Float32Vector3),
			u(gpu.USpecularExponent, gpu.Float32),
			u(gpu.UReflectionMatrix, gpu.Float32Matrix4),
			u(gpu.UReflectionTexture, gpu.Sampler2D),
			u(gpu.ULightProjectionMatrix, gpu.Float32Matrix4),
			u(gpu.ULightProjectionMap, gpu.Sampler2D),
		},
		fragment: reflectFragment,
	},
	"textured": {
		stage: gpu.FragmentShader,
		uniforms: []gpu.Uniform{
			u(gpu.UColor, gpu.Float32Vector4),
			u(gpu.UTexture, gpu.Sampler2D),
		},
		fragment: texturedFragment,
	},
	"environment": {
		stage: gpu.FragmentShader,
		uniforms: []gpu.Uniform{
			u(gpu.UColor, gpu.Float32Vector4),
			u(gpu.UWorldViewerPosition, gpu.Float32Vector3),
			u(gpu.UEnvMap, gpu.SamplerCube),
		},
		fragment: environmentFragment,
	},
	"sky": {
		stage:    gpu.FragmentShader,
		uniforms: []gpu.Uniform{u(gpu.UEnvMap, gpu.SamplerCube)},
		fragment: skyFragment,
	},
}

func init() {
	for name, b := range builtins {
		b.name = name
	}
}

// Library returns the shader library for this device: the source
// text of each shader is simply its built-in name.
func Library() gpu.ShaderLibrary {
	lib := gpu.ShaderLibrary{}
	for name, b := range builtins {
		lib.Add(b.stage, name, name)
	}
	return lib
}

func lookupBuiltin(source string) *builtin {
	return builtins[strings.TrimSpace(source)]
}

func transformVertex(env *shaderEnv, pos, normal math32.Vector3, uv math32.Vector2) (math32.Vector4, varyings) {
	var v varyings
	env.world.MulPoint(pos).ToSlice(v[:], 0)
	env.normal.MulDirection(normal).ToSlice(v[:], 3)
	v[6], v[7] = uv.X, uv.Y
	return env.matrix.MulVector4(math32.Vector4FromVector3(pos, 1)), v
}

// skyDepth is the depth of the sky quad, just in front of the
// far plane so that it passes the depth test on cleared pixels only.
const skyDepth = 0.99999

// skyboxVertex draws an xy quad covering the viewport, with the
// world direction seen through each corner as its normal.
func skyboxVertex(env *shaderEnv, pos, normal math32.Vector3, uv math32.Vector2) (math32.Vector4, varyings) {
	var v varyings
	dir := env.direction.MulVector4(math32.Vec4(pos.X, pos.Y, 1, 1)).Vector3()
	dir.ToSlice(v[:], 0)
	dir.ToSlice(v[:], 3)
	v[6], v[7] = uv.X, uv.Y
	return math32.Vec4(pos.X, pos.Y, skyDepth, 1), v
}

func depthFragment(env *shaderEnv, v *varyings) (math32.Vector4, bool) {
	return math32.Vec4(1, 1, 1, 1), true
}

func flatFragment(env *shaderEnv, v *varyings) (math32.Vector4, bool) {
	return env.color, true
}

// occlusion returns how much the world position is in shadow,
// comparing its depth from the light with the shadow map.
// The shadow map is sampled at the given offset from the projected position.
func occlusion(env *shaderEnv, world math32.Vector3, offset math32.Vector2) float32 {
	if env.lightMap == nil {
		return 0
	}
	lp := env.lightProj.MulVector4(math32.Vector4FromVector3(world, 1))
	if lp.W == 0 {
		return 0
	}
	ndc := lp.PerspDiv()
	coord := math32.Vec2(ndc.X*0.5+0.5, ndc.Y*0.5+0.5).Add(offset)
	surface := ndc.Z*0.5 + 0.5
	projected := env.lightMap.sample(coord).X
	return smoothstep(0.01, 0.1, surface-projected)
}

// specularLight returns the Blinn-Phong highlight of the surface.
// Shadow takes it away twice as fast as the diffuse light.
func specularLight(env *shaderEnv, n, toLight, world math32.Vector3, occ float32) math32.Vector3 {
	if env.specularExponent <= 0 {
		return math32.Vector3{}
	}
	half := toLight.Add(env.viewer.Sub(world).Normal()).Normal()
	brightness := math32.Pow(math32.Clamp(half.Dot(n), 0, 1), env.specularExponent)
	brightness *= 1 - math32.Clamp(occ*2, 0, 1)
	return env.specular.MulScalar(brightness)
}

func lambertFragment(env *shaderEnv, v *varyings) (math32.Vector4, bool) {
	n := v.normal().Normal()
	if n.IsNil() {
		n = math32.Vec3(0, 1, 0)
	}
	world := v.world()
	toLight := env.lightDir.Normal().Negate()
	occ := occlusion(env, world, math32.Vector2{})
	diffuse := math32.Max(n.Dot(toLight), 0)
	shade := env.ambient.Add(math32.Vector3Scalar(diffuse * (1 - occ)))
	rgb := env.color.Vector3().Mul(shade).Add(specularLight(env, n, toLight, world, occ))
	return math32.Vector4FromVector3(rgb, env.color.W), true
}

// reflectFragment shades the ocean: the reflection and shadow maps
// are sampled off the waves' normal, which also gives the highlights.
func reflectFragment(env *shaderEnv, v *varyings) (math32.Vector4, bool) {
	world := v.world()
	n := oceanNormal(math32.Vec2(world.X, world.Z), env.time, env.wind)
	distortion := math32.Vec2(n.X, n.Z)
	rc := env.reflection.MulVector4(math32.Vector4FromVector3(world, 1))
	if rc.W <= 0 {
		return math32.Vector4FromVector3(env.color.Vector3(), 1), true
	}
	ndc := rc.PerspDiv()
	refl := env.reflectionTex.sample(math32.Vec2(ndc.X*0.5+0.5, ndc.Y*0.5+0.5).Add(distortion.MulScalar(0.1)))
	occ := occlusion(env, world, distortion.MulScalar(0.01))
	toLight := env.lightDir.Normal().Negate()
	rgb := env.color.Vector3().Add(refl.Vector3()).MulScalar(1 - 0.5*occ)
	rgb = rgb.Add(specularLight(env, n, toLight, world, occ))
	return math32.Vector4FromVector3(rgb, 1), true
}

func texturedFragment(env *shaderEnv, v *varyings) (math32.Vector4, bool) {
	c := env.tex.sample(v.uv())
	return math32.Vector4FromVector3(c.Vector3().Add(env.color.Vector3()), c.W), true
}

func environmentFragment(env *shaderEnv, v *varyings) (math32.Vector4, bool) {
	n := v.normal().Normal()
	in := v.world().Sub(env.viewer).Normal()
	dir := in.Sub(n.MulScalar(2 * n.Dot(in)))
	c := env.envMap.sampleCube(dir)
	return math32.Vector4FromVector3(c.Vector3().Add(env.color.Vector3()), 1), true
}

func skyFragment(env *shaderEnv, v *varyings) (math32.Vector4, bool) {
	return math32.Vector4FromVector3(env.envMap.sampleCube(v.normal()).Vector3(), 1), true
}

func smoothstep(edge0, edge1, x float32) float32 {
	t := math32.Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}
