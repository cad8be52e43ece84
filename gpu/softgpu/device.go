// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package softgpu is a deterministic CPU implementation of
// [gpu.Device]. It rasterizes triangles with edge functions at
// pixel centers, interpolates varyings perspective-correctly and
// runs a small set of built-in shaders, so that render passes can
// run headless and be tested pixel by pixel.
//
// Shader "source" text is the name of a built-in shader; see [Library].
package softgpu

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"cogentcore.org/render/base/iox/imagex"
	"cogentcore.org/render/gpu"
)

// Option configures a new [Device].
type Option func(d *Device)

// WithoutFeatures makes the device report the given features as
// unsupported, for exercising capability checks.
func WithoutFeatures(f gpu.Features) Option {
	return func(d *Device) {
		d.features &^= f
	}
}

// Stats counts the work done by the device.
type Stats struct {
	Passes    int
	Draws     int
	Triangles int
	Fragments int
}

// Device is a software rasterizing [gpu.Device].
type Device struct {
	features gpu.Features
	screen   *target

	// live holds every resource not yet released, for leak checks.
	live map[any]struct{}

	pass     *target
	viewport image.Rectangle
	prog     *program
	units    map[int]*texture
	stats    Stats
	released bool
}

// New returns a new software device whose screen has the given size.
func New(screenSize image.Point, opts ...Option) *Device {
	d := &Device{features: gpu.AllFeatures, live: map[any]struct{}{}, units: map[int]*texture{}}
	for _, o := range opts {
		o(d)
	}
	d.screen = &target{dev: d, screen: true}
	d.SetScreenSize(screenSize)
	return d
}

// SetScreenSize resizes the screen framebuffer, as when the display
// window changes size. Existing contents are discarded.
func (d *Device) SetScreenSize(size image.Point) {
	size.X, size.Y = max(size.X, 1), max(size.Y, 1)
	sc := d.screen
	sc.format = gpu.TargetFormat{Size: size, Attachments: gpu.ColorAttachment | gpu.DepthAttachment}
	sc.color = newColorTexture(d, size, true)
	sc.depth = newDepthTexture(d, size)
}

// Supports returns whether the device has all the given features.
func (d *Device) Supports(f gpu.Features) bool {
	return d.features.Has(f)
}

// Stats returns the work counters since the device was created.
func (d *Device) Stats() Stats {
	return d.stats
}

// Live returns the number of resources created and not yet released.
func (d *Device) Live() int {
	return len(d.live)
}

// Screen returns the render target for the display.
func (d *Device) Screen() gpu.RenderTarget {
	return d.screen
}

func (d *Device) track(r any) {
	d.live[r] = struct{}{}
}

func (d *Device) untrack(r any) {
	delete(d.live, r)
}

func (d *Device) check() error {
	if d.released {
		return fmt.Errorf("softgpu: device: %w", gpu.ErrReleased)
	}
	return nil
}

// NewMesh uploads the given mesh data.
func (d *Device) NewMesh(data *gpu.MeshData) (gpu.Mesh, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	m := &mesh{dev: d, data: *data}
	d.track(m)
	return m, nil
}

// NewTexture uploads the given image as a 2D RGBA texture.
func (d *Device) NewTexture(img image.Image) (gpu.Texture, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("softgpu: empty texture image")
	}
	tx := &texture{dev: d, size: img.Bounds().Size(), color: imagex.CloneAsRGBA(img)}
	d.track(tx)
	return tx, nil
}

// NewCubeTexture uploads the six faces of a cube map.
func (d *Device) NewCubeTexture(faces [6]image.Image) (gpu.Texture, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if !d.Supports(gpu.CubeTextures) {
		return nil, fmt.Errorf("softgpu: cube texture: %w", gpu.ErrUnsupported)
	}
	tx := &texture{dev: d, isCube: true}
	for i, f := range faces {
		if f == nil || f.Bounds().Empty() {
			return nil, fmt.Errorf("softgpu: cube texture face %d is empty", i)
		}
		tx.cube[i] = imagex.CloneAsRGBA(f)
	}
	tx.size = tx.cube[0].Bounds().Size()
	d.track(tx)
	return tx, nil
}

// NewRenderTarget creates an off-screen render target.
func (d *Device) NewRenderTarget(format gpu.TargetFormat) (gpu.RenderTarget, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if format.Attachments.Has(gpu.DepthAttachment) && !d.Supports(gpu.FloatDepthTexture) {
		return nil, fmt.Errorf("softgpu: depth attachment: %w", gpu.ErrUnsupported)
	}
	rt := &target{dev: d, format: format}
	if format.Attachments.Has(gpu.ColorAttachment) {
		rt.color = newColorTexture(d, format.Size, true)
	}
	if format.Attachments.Has(gpu.DepthAttachment) {
		rt.depth = newDepthTexture(d, format.Size)
	}
	d.track(rt)
	return rt, nil
}

// ColorImage returns a copy of the color attachment of the given
// target, with row 0 at the top. It returns nil if there is none.
func (d *Device) ColorImage(rt gpu.RenderTarget) *image.RGBA {
	t, ok := rt.(*target)
	if !ok || t.color == nil {
		return nil
	}
	return imagex.CloneAsRGBA(t.color.color)
}

// ScreenImage returns a copy of the screen contents.
func (d *Device) ScreenImage() *image.RGBA {
	return d.ColorImage(d.screen)
}

// DepthAt returns the depth value at pixel x, y of the given target
// (row 0 at the top), in [0, 1] with 1 at the far plane.
func (d *Device) DepthAt(rt gpu.RenderTarget, x, y int) float32 {
	t, ok := rt.(*target)
	if !ok || t.depth == nil {
		return 1
	}
	sz := t.depth.size
	if x < 0 || y < 0 || x >= sz.X || y >= sz.Y {
		return 1
	}
	return t.depth.depth[y*sz.X+x]
}

// Release frees the device and everything it still holds.
func (d *Device) Release() {
	if d.released {
		return
	}
	if n := len(d.live); n > 0 {
		slog.Debug("softgpu: releasing device with live resources", "n", n)
	}
	d.live = map[any]struct{}{}
	d.released = true
}

// target is an off-screen framebuffer or the screen.
type target struct {
	dev      *Device
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
	case t.screen:
		return nil
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
	t.dev.untrack(t)
}

func (t *target) clear(policy gpu.ClearPolicy, clr color.RGBA, area image.Rectangle) {
	if policy == gpu.ClearNone {
		return
	}
	if t.color != nil && policy == gpu.ClearAll {
		img := t.color.color
		for y := area.Min.Y; y < area.Max.Y; y++ {
			for x := area.Min.X; x < area.Max.X; x++ {
				img.SetRGBA(x, y, clr)
			}
		}
	}
	if t.depth != nil {
		w := t.depth.size.X
		for y := area.Min.Y; y < area.Max.Y; y++ {
			row := t.depth.depth[y*w+area.Min.X : y*w+area.Max.X]
			for i := range row {
				row[i] = 1
			}
		}
	}
}

// mesh is uploaded geometry.
type mesh struct {
	dev      *Device
	data     gpu.MeshData
	released bool
}

func (m *mesh) NumIndices() int { return len(m.data.Indices) }

func (m *mesh) Release() {
	if m.released {
		return
	}
	m.released = true
	m.dev.untrack(m)
}
