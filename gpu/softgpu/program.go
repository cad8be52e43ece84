// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package softgpu

import (
	"fmt"

	"cogentcore.org/render/gpu"
)

// shader is a compiled built-in stage.
type shader struct {
	dev      *Device
	b        *builtin
	released bool
}

func (sh *shader) Stage() gpu.ShaderStages { return sh.b.stage }

func (sh *shader) Release() {
	if sh.released {
		return
	}
	sh.released = true
	sh.dev.untrack(sh)
}

// program is a linked pair of built-in stages with its own uniform
// storage; values persist across passes, as with GL programs.
type program struct {
	dev      *Device
	vs, fs   *builtin
	uniforms []gpu.Uniform
	values   []gpu.Value
	units    []int
	released bool
}

func (p *program) Uniforms() []gpu.Uniform { return p.uniforms }

func (p *program) Release() {
	if p.released {
		return
	}
	p.released = true
	p.dev.untrack(p)
	if p.dev.prog == p {
		p.dev.prog = nil
	}
}

// CompileShader "compiles" a built-in shader: the source must be
// the name of one of the shaders in [Library] for the given stage.
func (d *Device) CompileShader(stage gpu.ShaderStages, source string) (gpu.Shader, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	b := lookupBuiltin(source)
	if b == nil {
		return nil, &gpu.CompileError{Stage: stage, Log: fmt.Sprintf("unknown built-in shader %q", source)}
	}
	if b.stage != stage {
		return nil, &gpu.CompileError{Stage: stage, Log: fmt.Sprintf("built-in %q is a %v shader", b.name, b.stage)}
	}
	sh := &shader{dev: d, b: b}
	d.track(sh)
	return sh, nil
}

// LinkProgram links a vertex and a fragment shader. The program's
// uniforms are the union of those declared by both stages.
func (d *Device) LinkProgram(vertex, fragment gpu.Shader) (gpu.Program, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	vs, ok1 := vertex.(*shader)
	fs, ok2 := fragment.(*shader)
	switch {
	case !ok1 || !ok2 || vs.dev != d || fs.dev != d:
		return nil, &gpu.LinkError{Log: "shaders were not compiled by this device"}
	case vs.released || fs.released:
		return nil, &gpu.LinkError{Log: "shader already released"}
	case vs.b.stage != gpu.VertexShader:
		return nil, &gpu.LinkError{Log: fmt.Sprintf("%q is not a vertex shader", vs.b.name)}
	case fs.b.stage != gpu.FragmentShader:
		return nil, &gpu.LinkError{Log: fmt.Sprintf("%q is not a fragment shader", fs.b.name)}
	}
	p := &program{dev: d, vs: vs.b, fs: fs.b}
	seen := map[string]bool{}
	for _, list := range [][]gpu.Uniform{vs.b.uniforms, fs.b.uniforms} {
		for _, un := range list {
			if seen[un.Name] {
				continue
			}
			seen[un.Name] = true
			un.Location = int32(len(p.uniforms))
			p.uniforms = append(p.uniforms, un)
		}
	}
	p.values = make([]gpu.Value, len(p.uniforms))
	p.units = make([]int, len(p.uniforms))
	for i := range p.units {
		p.units[i] = -1
	}
	d.track(p)
	return p, nil
}

// env resolves the program's uniform values for shading.
func (p *program) env(units map[int]*texture) *shaderEnv {
	env := &shaderEnv{}
	for i, un := range p.uniforms {
		vl := p.values[i]
		var tex *texture
		if p.units[i] >= 0 {
			tex = units[p.units[i]]
		}
		switch un.Name {
		case gpu.UMatrix:
			env.matrix = vl.Mat4()
		case gpu.UWorldMatrix:
			env.world = vl.Mat4()
		case gpu.UNormalMatrix:
			env.normal = vl.Mat4()
		case gpu.ULightProjectionMatrix:
			env.lightProj = vl.Mat4()
		case gpu.UReflectionMatrix:
			env.reflection = vl.Mat4()
		case gpu.ULightDir:
			env.lightDir = vl.Vec3()
		case gpu.UAmbient:
			env.ambient = vl.Vec3()
		case gpu.UWorldViewerPosition:
			env.viewer = vl.Vec3()
		case gpu.UColor:
			env.color = vl.Vec4()
		case gpu.UTime:
			env.time = vl.Float()
		case gpu.USpecular:
			env.specular = vl.Vec3()
		case gpu.USpecularExponent:
			env.specularExponent = vl.Float()
		case gpu.UWindStrength:
			env.wind = vl.Float()
		case gpu.UViewDirectionProjectionInverse:
			env.direction = vl.Mat4()
		case gpu.ULightProjectionMap:
			env.lightMap = tex
		case gpu.UReflectionTexture:
			env.reflectionTex = tex
		case gpu.UTexture:
			env.tex = tex
		case gpu.UEnvMap:
			env.envMap = tex
		}
	}
	return env
}
