// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package softgpu

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"cogentcore.org/render/gpu"
	"cogentcore.org/render/math32"
)

var (
	// ErrNoPass is returned for drawing outside of a pass.
	ErrNoPass = errors.New("softgpu: no active pass")

	// ErrInPass is returned when beginning a pass inside another one.
	ErrInPass = errors.New("softgpu: pass already active")

	// ErrNoProgram is returned for drawing without a program in use.
	ErrNoProgram = errors.New("softgpu: no program in use")

	// ErrForeign is returned for resources of another device.
	ErrForeign = errors.New("softgpu: resource does not belong to this device")
)

// BeginPass starts rendering into the given target. An empty viewport
// means the full target. The clear policy applies to the whole target.
func (d *Device) BeginPass(rt gpu.RenderTarget, viewport image.Rectangle, clear gpu.ClearPolicy, clearColor color.RGBA) error {
	if err := d.check(); err != nil {
		return err
	}
	if d.pass != nil {
		return ErrInPass
	}
	t, ok := rt.(*target)
	if !ok || t.dev != d {
		return fmt.Errorf("render target: %w", ErrForeign)
	}
	if t.released {
		return fmt.Errorf("softgpu: render target: %w", gpu.ErrReleased)
	}
	bounds := image.Rectangle{Max: t.format.Size}
	if viewport.Empty() {
		viewport = bounds
	}
	d.pass = t
	d.viewport = viewport
	d.stats.Passes++
	t.clear(clear, clearColor, bounds)
	return nil
}

// EndPass finishes the current pass.
func (d *Device) EndPass() error {
	if d.pass == nil {
		return ErrNoPass
	}
	d.pass = nil
	return nil
}

// UseProgram makes the given program current. A nil program clears it.
func (d *Device) UseProgram(p gpu.Program) error {
	if err := d.check(); err != nil {
		return err
	}
	if p == nil {
		d.prog = nil
		return nil
	}
	pr, ok := p.(*program)
	if !ok || pr.dev != d {
		return fmt.Errorf("program: %w", ErrForeign)
	}
	if pr.released {
		return fmt.Errorf("softgpu: program: %w", gpu.ErrReleased)
	}
	d.prog = pr
	return nil
}

func (d *Device) slotProgram(slot gpu.Slot) (*program, error) {
	if d.prog == nil {
		return nil, ErrNoProgram
	}
	pr, ok := slot.Program.(*program)
	if !ok || pr != d.prog {
		return nil, fmt.Errorf("softgpu: uniform %s: program is not current", slot.Name)
	}
	if slot.Location < 0 || int(slot.Location) >= len(pr.uniforms) || pr.uniforms[slot.Location].Name != slot.Name {
		return nil, fmt.Errorf("%w: %q", gpu.ErrNoUniform, slot.Name)
	}
	return pr, nil
}

// SetUniform sets a uniform of the current program.
func (d *Device) SetUniform(slot gpu.Slot, v gpu.Value) error {
	pr, err := d.slotProgram(slot)
	if err != nil {
		return err
	}
	if err := slot.Check(v); err != nil {
		return err
	}
	pr.values[slot.Location] = v
	return nil
}

// BindTexture binds the texture to the given unit and points the
// sampler uniform at it. A nil texture samples as opaque black.
func (d *Device) BindTexture(slot gpu.Slot, unit int, tex gpu.Texture) error {
	pr, err := d.slotProgram(slot)
	if err != nil {
		return err
	}
	if !slot.Type.IsSampler() {
		return fmt.Errorf("%w: %s is not a sampler", gpu.ErrUniformType, slot.Name)
	}
	if unit < 0 {
		return fmt.Errorf("softgpu: negative texture unit %d", unit)
	}
	var tx *texture
	if tex != nil {
		var ok bool
		tx, ok = tex.(*texture)
		if !ok || tx.dev != d {
			return fmt.Errorf("texture: %w", ErrForeign)
		}
		if tx.released {
			return fmt.Errorf("softgpu: texture: %w", gpu.ErrReleased)
		}
		if tx.isCube != (slot.Type == gpu.SamplerCube) {
			return fmt.Errorf("%w: %s is %v", gpu.ErrUniformType, slot.Name, slot.Type)
		}
	}
	d.units[unit] = tx
	pr.units[slot.Location] = unit
	return nil
}

// clipVertex is a vertex in clip space with its varyings.
type clipVertex struct {
	pos math32.Vector4
	v   varyings
}

func lerpClip(a, b clipVertex, t float32) clipVertex {
	r := clipVertex{pos: a.pos.Lerp(b.pos, t)}
	for i := range r.v {
		r.v[i] = a.v[i] + (b.v[i]-a.v[i])*t
	}
	return r
}

// clipNear clips the polygon against the near plane z + w >= 0.
func clipNear(poly []clipVertex) []clipVertex {
	var out []clipVertex
	n := len(poly)
	for i := range n {
		a, b := poly[i], poly[(i+1)%n]
		da, db := a.pos.Z+a.pos.W, b.pos.Z+b.pos.W
		if da >= 0 {
			out = append(out, a)
		}
		if (da >= 0) != (db >= 0) {
			out = append(out, lerpClip(a, b, da/(da-db)))
		}
	}
	return out
}

// screenVertex is a clipped vertex mapped to the viewport.
type screenVertex struct {
	xy    math32.Vector2
	depth float32
	invW  float32
	v     varyings
}

func (d *Device) toScreen(c clipVertex) screenVertex {
	ndc := c.pos.PerspDiv()
	vp := d.viewport
	w, h := float32(vp.Dx()), float32(vp.Dy())
	sv := screenVertex{
		xy:    math32.Vec2(float32(vp.Min.X)+(ndc.X*0.5+0.5)*w, float32(vp.Min.Y)+(1-(ndc.Y*0.5+0.5))*h),
		depth: ndc.Z*0.5 + 0.5,
		invW:  1 / c.pos.W,
	}
	for i := range sv.v {
		sv.v[i] = c.v[i] * sv.invW
	}
	return sv
}

// Draw draws count indices of the mesh starting at first, as triangles,
// with the current program into the current pass.
func (d *Device) Draw(m gpu.Mesh, first, count int) error {
	if err := d.check(); err != nil {
		return err
	}
	if d.pass == nil {
		return ErrNoPass
	}
	if d.prog == nil {
		return ErrNoProgram
	}
	ms, ok := m.(*mesh)
	if !ok || ms.dev != d {
		return fmt.Errorf("mesh: %w", ErrForeign)
	}
	if ms.released {
		return fmt.Errorf("softgpu: mesh: %w", gpu.ErrReleased)
	}
	idx := ms.data.Indices
	if count < 0 {
		count = len(idx) - first
	}
	if first < 0 || count < 0 || first+count > len(idx) {
		return fmt.Errorf("softgpu: draw range [%d, %d) out of %d indices", first, first+count, len(idx))
	}
	if count%3 != 0 {
		return fmt.Errorf("softgpu: draw count %d is not a multiple of 3", count)
	}
	d.stats.Draws++
	env := d.prog.env(d.units)
	vs, fs := d.prog.vs.vertex, d.prog.fs.fragment
	data := &ms.data
	var tri [3]clipVertex
	for i := first; i < first+count; i += 3 {
		for k := range 3 {
			vi := int(idx[i+k])
			var n math32.Vector3
			var uv math32.Vector2
			if len(data.Normals) > 0 {
				n = math32.Vector3FromSlice(data.Normals, vi*3)
			}
			if len(data.Texcoords) > 0 {
				uv = math32.Vec2(data.Texcoords[vi*2], data.Texcoords[vi*2+1])
			}
			tri[k].pos, tri[k].v = vs(env, data.Position(vi), n, uv)
		}
		d.stats.Triangles++
		poly := clipNear(tri[:])
		if len(poly) < 3 {
			continue
		}
		sv := make([]screenVertex, len(poly))
		for k, c := range poly {
			sv[k] = d.toScreen(c)
		}
		for k := 1; k+1 < len(sv); k++ {
			d.rasterize(env, fs, &sv[0], &sv[k], &sv[k+1])
		}
	}
	return nil
}

// rasterize fills the pixels whose centers lie inside or on the edges
// of the triangle. Both windings are drawn.
func (d *Device) rasterize(env *shaderEnv, fs fragmentFunc, a, b, c *screenVertex) {
	box := math32.B2Empty().ExpandByPoint(a.xy).ExpandByPoint(b.xy).ExpandByPoint(c.xy)
	if !box.Min.IsFinite() || !box.Max.IsFinite() {
		return
	}
	t := d.pass
	// clamp before converting, vertices can be far outside the int range
	box = box.Intersect(math32.B2FromRect(d.viewport.Intersect(image.Rectangle{Max: t.format.Size})))
	if box.IsEmpty() {
		return
	}
	area := box.ToRect()
	var depth []float32
	if t.depth != nil {
		depth = t.depth.depth
	}
	width := t.format.Size.X
	var vr varyings
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			p := math32.Vec2(float32(x)+0.5, float32(y)+0.5)
			w, ok := math32.Barycentric2(p, a.xy, b.xy, c.xy)
			if !ok {
				return
			}
			if w.X < 0 || w.Y < 0 || w.Z < 0 {
				continue
			}
			z := w.X*a.depth + w.Y*b.depth + w.Z*c.depth
			if z < 0 || z > 1 {
				continue
			}
			if depth != nil && z >= depth[y*width+x] {
				continue
			}
			invW := w.X*a.invW + w.Y*b.invW + w.Z*c.invW
			for i := range vr {
				vr[i] = (w.X*a.v[i] + w.Y*b.v[i] + w.Z*c.v[i]) / invW
			}
			clr, keep := fs(env, &vr)
			if !keep {
				continue
			}
			d.stats.Fragments++
			if depth != nil {
				depth[y*width+x] = z
			}
			if t.color != nil {
				t.color.color.SetRGBA(x, y, toRGBA(clr))
			}
		}
	}
}

func toRGBA(c math32.Vector4) color.RGBA {
	ch := func(v float32) uint8 {
		if !math32.IsFinite(v) {
			return 0
		}
		return uint8(math32.Clamp(v, 0, 1)*255 + 0.5)
	}
	return color.RGBA{ch(c.X), ch(c.Y), ch(c.Z), ch(c.W)}
}
