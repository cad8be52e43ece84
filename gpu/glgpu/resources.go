// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package glgpu

import (
	"fmt"
	"image"
	"strings"

	"cogentcore.org/render/base/iox/imagex"
	"cogentcore.org/render/gpu"
	"github.com/go-gl/gl/v4.1-core/gl"
)

var glShaders = map[gpu.ShaderStages]uint32{
	gpu.VertexShader:   gl.VERTEX_SHADER,
	gpu.FragmentShader: gl.FRAGMENT_SHADER,
}

// shader is a compiled GL shader object.
type shader struct {
	dev    *Device
	handle uint32
	stage  gpu.ShaderStages
}

func (sh *shader) Stage() gpu.ShaderStages { return sh.stage }

func (sh *shader) Release() {
	if sh.handle == 0 {
		return
	}
	gl.DeleteShader(sh.handle)
	sh.handle = 0
	delete(sh.dev.live, sh)
}

// CompileShader compiles GLSL 410 source for the given stage.
// The source does not need to be null terminated.
func (d *Device) CompileShader(stage gpu.ShaderStages, source string) (gpu.Shader, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	typ, ok := glShaders[stage]
	if !ok {
		return nil, &gpu.CompileError{Stage: stage, Log: "unsupported stage"}
	}
	handle := gl.CreateShader(typ)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(handle, 1, csources, nil)
	free()
	gl.CompileShader(handle)

	var status int32
	gl.GetShaderiv(handle, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(handle, logLength, nil, gl.Str(msg))
		gl.DeleteShader(handle)
		return nil, &gpu.CompileError{Stage: stage, Log: strings.TrimRight(msg, "\x00")}
	}
	sh := &shader{dev: d, handle: handle, stage: stage}
	d.live[sh] = struct{}{}
	return sh, nil
}

// program is a linked GL program with its active uniforms.
type program struct {
	dev      *Device
	handle   uint32
	uniforms []gpu.Uniform
	released bool
}

func (pr *program) Uniforms() []gpu.Uniform { return pr.uniforms }

func (pr *program) Release() {
	if pr.released {
		return
	}
	pr.released = true
	gl.DeleteProgram(pr.handle)
	delete(pr.dev.live, pr)
	if pr.dev.prog == pr {
		pr.dev.prog = nil
	}
}

var glUniformTypes = map[uint32]gpu.Types{
	gl.FLOAT:        gpu.Float32,
	gl.INT:          gpu.Int32,
	gl.FLOAT_VEC2:   gpu.Float32Vector2,
	gl.FLOAT_VEC3:   gpu.Float32Vector3,
	gl.FLOAT_VEC4:   gpu.Float32Vector4,
	gl.FLOAT_MAT3:   gpu.Float32Matrix3,
	gl.FLOAT_MAT4:   gpu.Float32Matrix4,
	gl.SAMPLER_2D:   gpu.Sampler2D,
	gl.SAMPLER_CUBE: gpu.SamplerCube,
}

// LinkProgram links the vertex and fragment shaders and reflects
// the active uniforms. Uniforms the compiler optimized away are
// not reported.
func (d *Device) LinkProgram(vertex, fragment gpu.Shader) (gpu.Program, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	vs, ok1 := vertex.(*shader)
	fs, ok2 := fragment.(*shader)
	switch {
	case !ok1 || !ok2 || vs.dev != d || fs.dev != d:
		return nil, &gpu.LinkError{Log: "shaders were not compiled by this device"}
	case vs.stage != gpu.VertexShader || fs.stage != gpu.FragmentShader:
		return nil, &gpu.LinkError{Log: "shader stages do not match"}
	case vs.handle == 0 || fs.handle == 0:
		return nil, &gpu.LinkError{Log: "shader already released"}
	}
	handle := gl.CreateProgram()
	gl.AttachShader(handle, vs.handle)
	gl.AttachShader(handle, fs.handle)
	gl.LinkProgram(handle)
	gl.DetachShader(handle, vs.handle)
	gl.DetachShader(handle, fs.handle)

	var status int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var lgLength int32
		gl.GetProgramiv(handle, gl.INFO_LOG_LENGTH, &lgLength)
		lg := strings.Repeat("\x00", int(lgLength+1))
		gl.GetProgramInfoLog(handle, lgLength, nil, gl.Str(lg))
		gl.DeleteProgram(handle)
		return nil, &gpu.LinkError{Log: strings.TrimRight(lg, "\x00")}
	}

	pr := &program{dev: d, handle: handle}
	var n int32
	gl.GetProgramiv(handle, gl.ACTIVE_UNIFORMS, &n)
	buf := strings.Repeat("\x00", 256)
	for i := range uint32(n) {
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(handle, i, int32(len(buf)), &length, &size, &xtype, gl.Str(buf))
		name := buf[:length]
		typ, ok := glUniformTypes[xtype]
		if !ok {
			continue
		}
		loc := gl.GetUniformLocation(handle, gl.Str(name+"\x00"))
		pr.uniforms = append(pr.uniforms, gpu.Uniform{Name: name, Type: typ, Location: loc})
	}
	d.live[pr] = struct{}{}
	return pr, errCheck("link program")
}

// mesh is a vertex array object with its buffers.
type mesh struct {
	dev  *Device
	vao  uint32
	vbos []uint32
	n    int
}

func (m *mesh) NumIndices() int { return m.n }

func (m *mesh) Release() {
	if m.vao == 0 {
		return
	}
	gl.DeleteBuffers(int32(len(m.vbos)), &m.vbos[0])
	gl.DeleteVertexArrays(1, &m.vao)
	m.vao = 0
	delete(m.dev.live, m)
}

func (m *mesh) attrib(loc uint32, size int32, data []float32) {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(loc)
	gl.VertexAttribPointerWithOffset(loc, size, gl.FLOAT, false, 0, 0)
	m.vbos = append(m.vbos, vbo)
}

// NewMesh uploads the mesh data into a vertex array object with
// attributes at the fixed [gpu.PositionLoc], [gpu.NormalLoc] and
// [gpu.TexcoordLoc] locations.
func (d *Device) NewMesh(data *gpu.MeshData) (gpu.Mesh, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	if len(data.Indices) == 0 {
		return nil, fmt.Errorf("glgpu: mesh has no indices")
	}
	m := &mesh{dev: d, n: len(data.Indices)}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)
	m.attrib(gpu.PositionLoc, 3, data.Positions)
	if len(data.Normals) > 0 {
		m.attrib(gpu.NormalLoc, 3, data.Normals)
	} else {
		gl.VertexAttrib3f(gpu.NormalLoc, 0, 1, 0)
	}
	if len(data.Texcoords) > 0 {
		m.attrib(gpu.TexcoordLoc, 2, data.Texcoords)
	}
	var ebo uint32
	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data.Indices)*4, gl.Ptr(data.Indices), gl.STATIC_DRAW)
	m.vbos = append(m.vbos, ebo)
	gl.BindVertexArray(0)
	d.live[m] = struct{}{}
	return m, errCheck("new mesh")
}

// texture is a GL texture object.
type texture struct {
	dev    *Device
	handle uint32
	target uint32
	size   image.Point

	// owned textures are framebuffer attachments, released with the target.
	owned bool
}

func (tx *texture) Size() image.Point { return tx.size }

func (tx *texture) Release() {
	if tx.owned || tx.handle == 0 {
		return
	}
	tx.delete()
}

func (tx *texture) delete() {
	gl.DeleteTextures(1, &tx.handle)
	tx.handle = 0
	delete(tx.dev.live, tx)
}

func (d *Device) genTexture(target uint32, size image.Point) *texture {
	tx := &texture{dev: d, target: target, size: size}
	gl.GenTextures(1, &tx.handle)
	gl.BindTexture(target, tx.handle)
	gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	if target == gl.TEXTURE_CUBE_MAP {
		gl.TexParameteri(target, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	}
	return tx
}

func texImage(target uint32, img *image.RGBA) {
	sz := img.Bounds().Size()
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(target, 0, gl.RGBA8, int32(sz.X), int32(sz.Y), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
}

// NewTexture uploads the image. Row 0 of the image is texture
// coordinate v = 0.
func (d *Device) NewTexture(img image.Image) (gpu.Texture, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("glgpu: empty texture image")
	}
	rgba := imagex.CloneAsRGBA(img)
	tx := d.genTexture(gl.TEXTURE_2D, rgba.Bounds().Size())
	texImage(gl.TEXTURE_2D, rgba)
	d.live[tx] = struct{}{}
	return tx, errCheck("new texture")
}

// NewCubeTexture uploads the faces in +X, -X, +Y, -Y, +Z, -Z order.
func (d *Device) NewCubeTexture(faces [6]image.Image) (gpu.Texture, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	for i, f := range faces {
		if f == nil || f.Bounds().Empty() {
			return nil, fmt.Errorf("glgpu: cube texture face %d is empty", i)
		}
	}
	tx := d.genTexture(gl.TEXTURE_CUBE_MAP, faces[0].Bounds().Size())
	for i, f := range faces {
		texImage(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), imagex.CloneAsRGBA(f))
	}
	d.live[tx] = struct{}{}
	return tx, errCheck("new cube texture")
}

// target is a framebuffer object, or the default framebuffer.
type target struct {
	dev      *Device
	fbo      uint32
	format   gpu.TargetFormat
	screen   bool
	color    *texture
	depth    *texture
	released bool
}

func (t *target) Format() gpu.TargetFormat { return t.format }

func (t *target) IsScreen() bool { return t.screen }

func (t *target) Attachment(at gpu.Attachments) gpu.Texture {
	switch {
	case at == gpu.ColorAttachment && t.color != nil:
		return t.color
	case at == gpu.DepthAttachment && t.depth != nil:
		return t.depth
	}
	return nil
}

func (t *target) Release() {
	if t.screen || t.released {
		return
	}
	t.released = true
	if t.color != nil {
		t.color.delete()
	}
	if t.depth != nil {
		t.depth.delete()
	}
	gl.DeleteFramebuffers(1, &t.fbo)
	delete(t.dev.live, t)
}

// NewRenderTarget creates a framebuffer with an RGBA8 color texture
// and/or a DEPTH_COMPONENT32F depth texture, both sampleable.
func (d *Device) NewRenderTarget(format gpu.TargetFormat) (gpu.RenderTarget, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if err := format.Validate(); err != nil {
		return nil, err
	}
	t := &target{dev: d, format: format}
	sx, sy := int32(format.Size.X), int32(format.Size.Y)
	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	if format.Attachments.Has(gpu.ColorAttachment) {
		t.color = d.genTexture(gl.TEXTURE_2D, format.Size)
		t.color.owned = true
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, sx, sy, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.color.handle, 0)
	} else {
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
	}
	if format.Attachments.Has(gpu.DepthAttachment) {
		t.depth = d.genTexture(gl.TEXTURE_2D, format.Size)
		t.depth.owned = true
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT32F, sx, sy, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, t.depth.handle, 0)
	}
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	d.live[t] = struct{}{}
	if status != gl.FRAMEBUFFER_COMPLETE {
		t.Release()
		return nil, fmt.Errorf("glgpu: framebuffer %v not complete: 0x%x", format, status)
	}
	return t, errCheck("new render target")
}
