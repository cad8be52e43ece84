// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package glgpu implements [gpu.Device] on OpenGL 4.1 core profile.
//
// All methods must be called on the thread that owns the current
// GL context (see runtime.LockOSThread), after the context was made
// current by the windowing layer.
package glgpu

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"cogentcore.org/render/base/iox/imagex"
	"cogentcore.org/render/gpu"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Device is an OpenGL [gpu.Device].
type Device struct {
	screen   *target
	pass     *target
	prog     *program
	live     map[any]struct{}
	released bool
}

// New initializes the GL function pointers for the current context
// and returns a device whose screen is the default framebuffer.
func New(screenSize image.Point) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("glgpu: init: %w", err)
	}
	slog.Info("glgpu: OpenGL", "version", gl.GoStr(gl.GetString(gl.VERSION)), "renderer", gl.GoStr(gl.GetString(gl.RENDERER)))
	d := &Device{live: map[any]struct{}{}}
	d.screen = &target{dev: d, screen: true}
	d.SetScreenSize(screenSize)
	return d, nil
}

// SetScreenSize records the size of the default framebuffer, which
// must be updated when the window framebuffer is resized.
func (d *Device) SetScreenSize(size image.Point) {
	size.X, size.Y = max(size.X, 1), max(size.Y, 1)
	d.screen.format = gpu.TargetFormat{Size: size, Attachments: gpu.ColorAttachment | gpu.DepthAttachment}
}

// Supports returns true for every feature: GL 4.1 core has float
// depth textures and cube maps.
func (d *Device) Supports(f gpu.Features) bool {
	return gpu.AllFeatures.Has(f)
}

// Screen returns the default framebuffer.
func (d *Device) Screen() gpu.RenderTarget {
	return d.screen
}

// Live returns the number of resources not yet released.
func (d *Device) Live() int {
	return len(d.live)
}

func (d *Device) check() error {
	if d.released {
		return fmt.Errorf("glgpu: device: %w", gpu.ErrReleased)
	}
	return nil
}

// errCheck returns an error for any pending GL error.
func errCheck(what string) error {
	var first uint32
	for {
		e := gl.GetError()
		if e == gl.NO_ERROR {
			break
		}
		if first == 0 {
			first = e
		}
	}
	if first != 0 {
		return fmt.Errorf("glgpu: %s: GL error 0x%x", what, first)
	}
	return nil
}

// BeginPass binds the target framebuffer, sets the viewport (given
// with y down, as for images) and clears per the policy.
func (d *Device) BeginPass(rt gpu.RenderTarget, viewport image.Rectangle, clear gpu.ClearPolicy, clearColor color.RGBA) error {
	if err := d.check(); err != nil {
		return err
	}
	if d.pass != nil {
		return fmt.Errorf("glgpu: pass already active")
	}
	t, ok := rt.(*target)
	if !ok || t.dev != d {
		return fmt.Errorf("glgpu: render target does not belong to this device")
	}
	if t.released {
		return fmt.Errorf("glgpu: render target: %w", gpu.ErrReleased)
	}
	sz := t.format.Size
	if viewport.Empty() {
		viewport = image.Rectangle{Max: sz}
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(int32(viewport.Min.X), int32(sz.Y-viewport.Max.Y), int32(viewport.Dx()), int32(viewport.Dy()))
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.BLEND)
	var bits uint32
	switch clear {
	case gpu.ClearAll:
		bits = gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT
	case gpu.ClearDepth:
		bits = gl.DEPTH_BUFFER_BIT
	}
	if bits != 0 {
		gl.ClearColor(float32(clearColor.R)/255, float32(clearColor.G)/255, float32(clearColor.B)/255, float32(clearColor.A)/255)
		gl.ClearDepth(1)
		gl.Clear(bits)
	}
	d.pass = t
	return errCheck("begin pass")
}

// EndPass finishes the current pass.
func (d *Device) EndPass() error {
	if d.pass == nil {
		return fmt.Errorf("glgpu: no active pass")
	}
	d.pass = nil
	return errCheck("end pass")
}

// UseProgram makes the given program current.
func (d *Device) UseProgram(p gpu.Program) error {
	if err := d.check(); err != nil {
		return err
	}
	if p == nil {
		gl.UseProgram(0)
		d.prog = nil
		return nil
	}
	pr, ok := p.(*program)
	if !ok || pr.dev != d {
		return fmt.Errorf("glgpu: program does not belong to this device")
	}
	if pr.released {
		return fmt.Errorf("glgpu: program: %w", gpu.ErrReleased)
	}
	gl.UseProgram(pr.handle)
	d.prog = pr
	return nil
}

func (d *Device) slotCheck(slot gpu.Slot) error {
	if d.prog == nil {
		return fmt.Errorf("glgpu: no program in use")
	}
	if pr, ok := slot.Program.(*program); !ok || pr != d.prog {
		return fmt.Errorf("glgpu: uniform %s: program is not current", slot.Name)
	}
	return nil
}

// SetUniform sets a uniform of the current program.
func (d *Device) SetUniform(slot gpu.Slot, v gpu.Value) error {
	if err := d.slotCheck(slot); err != nil {
		return err
	}
	if err := slot.Check(v); err != nil {
		return err
	}
	loc := slot.Location
	f := v.Floats()
	switch v.Type {
	case gpu.Float32:
		gl.Uniform1f(loc, f[0])
	case gpu.Int32:
		gl.Uniform1i(loc, v.Int())
	case gpu.Float32Vector2:
		gl.Uniform2fv(loc, 1, &f[0])
	case gpu.Float32Vector3:
		gl.Uniform3fv(loc, 1, &f[0])
	case gpu.Float32Vector4:
		gl.Uniform4fv(loc, 1, &f[0])
	case gpu.Float32Matrix3:
		gl.UniformMatrix3fv(loc, 1, false, &f[0])
	case gpu.Float32Matrix4:
		gl.UniformMatrix4fv(loc, 1, false, &f[0])
	default:
		return fmt.Errorf("%w: cannot set %v value on %s", gpu.ErrUniformType, v.Type, slot.Name)
	}
	return nil
}

// BindTexture binds the texture to the unit and points the sampler at it.
func (d *Device) BindTexture(slot gpu.Slot, unit int, tex gpu.Texture) error {
	if err := d.slotCheck(slot); err != nil {
		return err
	}
	if !slot.Type.IsSampler() {
		return fmt.Errorf("%w: %s is not a sampler", gpu.ErrUniformType, slot.Name)
	}
	texTarget := uint32(gl.TEXTURE_2D)
	if slot.Type == gpu.SamplerCube {
		texTarget = gl.TEXTURE_CUBE_MAP
	}
	var handle uint32
	if tex != nil {
		tx, ok := tex.(*texture)
		if !ok || tx.dev != d {
			return fmt.Errorf("glgpu: texture does not belong to this device")
		}
		if tx.target != texTarget {
			return fmt.Errorf("%w: %s is %v", gpu.ErrUniformType, slot.Name, slot.Type)
		}
		handle = tx.handle
	}
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(texTarget, handle)
	gl.Uniform1i(slot.Location, int32(unit))
	return nil
}

// Draw draws count indices of the mesh starting at first,
// or all of them if count < 0.
func (d *Device) Draw(m gpu.Mesh, first, count int) error {
	if d.pass == nil {
		return fmt.Errorf("glgpu: no active pass")
	}
	if d.prog == nil {
		return fmt.Errorf("glgpu: no program in use")
	}
	ms, ok := m.(*mesh)
	if !ok || ms.dev != d {
		return fmt.Errorf("glgpu: mesh does not belong to this device")
	}
	if count < 0 {
		count = ms.n - first
	}
	if first < 0 || count < 0 || first+count > ms.n {
		return fmt.Errorf("glgpu: draw range [%d, %d) out of %d indices", first, first+count, ms.n)
	}
	gl.BindVertexArray(ms.vao)
	gl.DrawElements(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, gl.PtrOffset(first*4))
	gl.BindVertexArray(0)
	return errCheck("draw")
}

// ColorImage reads back the color contents of the target,
// with row 0 at the top.
func (d *Device) ColorImage(rt gpu.RenderTarget) *image.RGBA {
	t, ok := rt.(*target)
	if !ok || !t.format.Attachments.Has(gpu.ColorAttachment) {
		return nil
	}
	sz := t.format.Size
	img := image.NewRGBA(image.Rectangle{Max: sz})
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, t.fbo)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(sz.X), int32(sz.Y), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	imagex.FlipVertical(img)
	return img
}

// Release deletes the remaining resources.
func (d *Device) Release() {
	if d.released {
		return
	}
	for r := range d.live {
		if rl, ok := r.(interface{ Release() }); ok {
			rl.Release()
		}
	}
	d.released = true
}
