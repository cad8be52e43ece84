// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package glsl holds the GLSL 410 core sources of the render shaders.
// It has no cgo dependency, so the sources can be checked without a
// GL context.
package glsl

import "cogentcore.org/render/gpu"

// Library returns the GLSL 410 shaders, under the same names and
// with the same uniforms as the software device's built-in shaders.
func Library() gpu.ShaderLibrary {
	lib := gpu.ShaderLibrary{}
	lib.Add(gpu.VertexShader, "transform", transformVert)
	lib.Add(gpu.VertexShader, "skybox", skyboxVert)
	lib.Add(gpu.FragmentShader, "depth", depthFrag)
	lib.Add(gpu.FragmentShader, "flat", flatFrag)
	lib.Add(gpu.FragmentShader, "lambert", header+occlusionFunc+specularFunc+lambertFrag)
	lib.Add(gpu.FragmentShader, "reflect", header+occlusionFunc+specularFunc+oceanFunc+reflectFrag)
	lib.Add(gpu.FragmentShader, "textured", texturedFrag)
	lib.Add(gpu.FragmentShader, "environment", environmentFrag)
	lib.Add(gpu.FragmentShader, "sky", skyFrag)
	return lib
}

const transformVert = `#version 410 core
layout(location = 0) in vec3 a_position;
layout(location = 1) in vec3 a_normal;
layout(location = 2) in vec2 a_texcoord;

uniform mat4 u_matrix;
uniform mat4 u_worldMatrix;
uniform mat4 u_normalMatrix;

out vec3 v_world;
out vec3 v_normal;
out vec2 v_texcoord;

void main() {
	gl_Position = u_matrix * vec4(a_position, 1);
	v_world = (u_worldMatrix * vec4(a_position, 1)).xyz;
	v_normal = mat3(u_normalMatrix) * a_normal;
	v_texcoord = a_texcoord;
}
`

// skyboxVert draws an xy quad just in front of the far plane,
// passing the world direction through each corner as the normal.
const skyboxVert = `#version 410 core
layout(location = 0) in vec3 a_position;
layout(location = 2) in vec2 a_texcoord;

uniform mat4 u_viewDirectionProjectionInverse;

out vec3 v_world;
out vec3 v_normal;
out vec2 v_texcoord;

void main() {
	gl_Position = vec4(a_position.xy, 0.99999, 1);
	v_normal = (u_viewDirectionProjectionInverse * vec4(a_position.xy, 1, 1)).xyz;
	v_world = v_normal;
	v_texcoord = a_texcoord;
}
`

const header = `#version 410 core
in vec3 v_world;
in vec3 v_normal;
in vec2 v_texcoord;

out vec4 outColor;
`

const depthFrag = header + `
void main() {
	outColor = vec4(1);
}
`

const flatFrag = header + `
uniform vec4 u_color;

void main() {
	outColor = u_color;
}
`

// occlusion compares the depth from the light with the shadow map.
const occlusionFunc = `
uniform mat4 u_lightProjectionMatrix;
uniform sampler2D u_lightProjectionMap;

float occlusion(vec3 world, vec2 offset) {
	vec4 lp = u_lightProjectionMatrix * vec4(world, 1);
	if (lp.w == 0.0) {
		return 0.0;
	}
	vec3 ndc = lp.xyz / lp.w;
	float surface = ndc.z * 0.5 + 0.5;
	float projected = texture(u_lightProjectionMap, ndc.xy * 0.5 + 0.5 + offset).r;
	return smoothstep(0.01, 0.1, surface - projected);
}
`

// specularLight is the Blinn-Phong highlight, taken away by
// shadow twice as fast as the diffuse light.
const specularFunc = `
uniform vec3 u_worldViewerPosition;
uniform vec3 u_specular;
uniform float u_specularExponent;

vec3 specularLight(vec3 n, vec3 toLight, vec3 world, float occ) {
	if (u_specularExponent <= 0.0) {
		return vec3(0);
	}
	vec3 halfVector = normalize(toLight + normalize(u_worldViewerPosition - world));
	float brightness = pow(clamp(dot(halfVector, n), 0.0, 1.0), u_specularExponent);
	brightness *= 1.0 - clamp(occ * 2.0, 0.0, 1.0);
	return u_specular * brightness;
}
`

// oceanFunc is the wave surface: one wave train per grid cell,
// summed over the 3x3 cells around each position.
const oceanFunc = `
uniform float u_time;
uniform float u_windStrength;

float waveHash(vec2 id) {
	return fract(sin(mod(dot(id, vec2(13, 17)), radians(180.0))) * 4801.0);
}

float localWaveHeight(vec2 id, vec2 pos) {
	float angle = radians((waveHash(id) - 0.5) * 45.0 + 90.0);
	vec2 dir = vec2(cos(angle), sin(angle));
	float strength = smoothstep(1.5, 0.0, length(id + 0.5 - pos));
	return exp(sin(dot(pos, dir) * 2.5 + u_time * 5.0) - 1.0) * strength;
}

float oceanHeight(vec2 pos) {
	vec2 id = floor(pos);
	float h = 0.0;
	for (int i = -1; i <= 1; i++) {
		for (int j = -1; j <= 1; j++) {
			h += localWaveHeight(id + vec2(i, j), pos);
		}
	}
	return h * u_windStrength;
}

#define OCEAN_SAMPLE_DISTANCE 0.01

vec3 oceanNormal(vec2 xz) {
	if (u_windStrength == 0.0) {
		return vec3(0, 1, 0);
	}
	vec2 pos = xz * 6.2;
	float h = oceanHeight(pos);
	float hx = oceanHeight(pos + vec2(OCEAN_SAMPLE_DISTANCE, 0));
	float hz = oceanHeight(pos + vec2(0, OCEAN_SAMPLE_DISTANCE));
	vec3 dx = normalize(vec3(OCEAN_SAMPLE_DISTANCE, hx - h, 0));
	vec3 dz = normalize(vec3(0, hz - h, OCEAN_SAMPLE_DISTANCE));
	return normalize(cross(dz, dx));
}
`

const lambertFrag = `
uniform vec4 u_color;
uniform vec3 u_lightDir;
uniform vec3 u_ambient;

void main() {
	vec3 n = length(v_normal) > 0.0 ? normalize(v_normal) : vec3(0, 1, 0);
	vec3 toLight = -normalize(u_lightDir);
	float occ = occlusion(v_world, vec2(0));
	float diffuse = max(dot(n, toLight), 0.0);
	vec3 shade = u_ambient + diffuse * (1.0 - occ);
	outColor = vec4(u_color.rgb * shade + specularLight(n, toLight, v_world, occ), u_color.a);
}
`

const reflectFrag = `
uniform vec4 u_color;
uniform vec3 u_lightDir;
uniform mat4 u_reflectionMatrix;
uniform sampler2D u_reflectionTexture;

void main() {
	vec3 n = oceanNormal(v_world.xz);
	vec2 distortion = n.xz;
	vec4 rc = u_reflectionMatrix * vec4(v_world, 1);
	if (rc.w <= 0.0) {
		outColor = vec4(u_color.rgb, 1);
		return;
	}
	vec3 ndc = rc.xyz / rc.w;
	vec3 refl = texture(u_reflectionTexture, ndc.xy * 0.5 + 0.5 + distortion * 0.1).rgb;
	float occ = occlusion(v_world, distortion * 0.01);
	vec3 rgb = (u_color.rgb + refl) * (1.0 - 0.5 * occ);
	outColor = vec4(rgb + specularLight(n, -normalize(u_lightDir), v_world, occ), 1);
}
`

const texturedFrag = header + `
uniform vec4 u_color;
uniform sampler2D u_texture;

void main() {
	vec4 c = texture(u_texture, v_texcoord);
	outColor = vec4(c.rgb + u_color.rgb, c.a);
}
`

const environmentFrag = header + `
uniform vec4 u_color;
uniform vec3 u_worldViewerPosition;
uniform samplerCube u_envMap;

void main() {
	vec3 n = normalize(v_normal);
	vec3 dir = reflect(normalize(v_world - u_worldViewerPosition), n);
	outColor = vec4(texture(u_envMap, dir).rgb + u_color.rgb, 1);
}
`

const skyFrag = header + `
uniform samplerCube u_envMap;

void main() {
	outColor = vec4(texture(u_envMap, normalize(v_normal)).rgb, 1);
}
`
