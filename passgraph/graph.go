// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package passgraph executes a fixed sequence of render passes
// each frame, where later passes sample the color or depth output
// of earlier ones (shadow maps, reflection buffers).
//
// A [Graph] is built once from a [Config]: every program is
// compiled and linked, every uniform is resolved to a [gpu.Slot]
// and every render target is created up front, so that any
// configuration error is reported by [New] rather than at the
// first frame. [Graph.ExecuteFrame] then runs the passes in order
// against a [Scene] holding the per-frame state.
package passgraph

import (
	"fmt"
	"image"
	"log/slog"

	"cogentcore.org/render/base/errors"
	"cogentcore.org/render/base/keylist"
	"cogentcore.org/render/gpu"
	"cogentcore.org/render/math32"
)

// PassStates are the states of a pass within a frame.
type PassStates int32

const (
	// Pending passes have not run yet in this frame.
	Pending PassStates = iota

	// Executing is the pass currently running.
	Executing

	// Complete passes have rendered their target in this frame.
	Complete

	// Failed passes returned an error in this frame. Their
	// attachments are replaced with neutral textures when sampled.
	Failed
)

// String returns the name of the state.
func (ps PassStates) String() string {
	switch ps {
	case Pending:
		return "Pending"
	case Executing:
		return "Executing"
	case Complete:
		return "Complete"
	case Failed:
		return "Failed"
	}
	return fmt.Sprintf("PassStates(%d)", int(ps))
}

// Graph is a built render pass graph. It owns the programs, render
// targets and neutral textures it creates, and the meshes and textures
// of its drawables, until [Graph.Release].
type Graph struct {
	dev       gpu.Device
	passes    keylist.List[string, *pass]
	drawables keylist.List[string, *Drawable]
	globals   keylist.List[string, gpu.Uniform]
	neutrals  map[neutralKey]gpu.Texture
	released  bool
}

type neutralKey struct {
	nt   gpu.Neutral
	cube bool
}

type pass struct {
	cfg    *PassConfig
	target gpu.RenderTarget
	inputs []*input
	draws  []*draw
	state  PassStates

	warnedView bool
}

type input struct {
	cfg     Input
	src     *pass
	neutral gpu.Texture
	warned  bool
}

type draw struct {
	program gpu.Program

	matrix, world, normal, color gpu.Slot
	specularExponent, direction  gpu.Slot

	globals []globalSlot
	inputs  []inputSlot
	objects []object
}

type globalSlot struct {
	index int
	slot  gpu.Slot
}

type inputSlot struct {
	in   *input
	slot gpu.Slot
	unit int
}

type binding struct {
	slot gpu.Slot
	unit int
	tex  gpu.Texture
}

type object struct {
	dr       *Drawable
	textures []binding
}

// New builds the graph for the given device. Shaders are looked up
// by name in lib. New takes ownership of the meshes and textures of
// the drawables, releasing them along with everything else it created
// if it fails. The returned error is a [*SetupError] identifying the
// failing pass and stage.
func New(dev gpu.Device, lib gpu.ShaderLibrary, cfg *Config, drawables ...*Drawable) (*Graph, error) {
	g := &Graph{dev: dev, neutrals: map[neutralKey]gpu.Texture{}}
	for _, dr := range drawables {
		if dr == nil {
			continue
		}
		if err := g.drawables.Add(dr.Name, dr); err != nil {
			g.drawables.Reset()
			g.Release()
			releaseDrawables(drawables)
			return nil, setupErr("", StageDrawable, err)
		}
	}
	if err := g.build(lib, cfg); err != nil {
		g.Release()
		return nil, err
	}
	slog.Debug("passgraph: built", "order", g.Order(), "drawables", g.drawables.Len())
	return g, nil
}

func (g *Graph) build(lib gpu.ShaderLibrary, cfg *Config) error {
	if len(cfg.Passes) == 0 {
		return setupErr("", StageConfig, errors.New("no passes"))
	}
	var passes keylist.List[string, *PassConfig]
	for i := range cfg.Passes {
		pc := cfg.Passes[i]
		if pc.Name == "" {
			return setupErr("", StageConfig, fmt.Errorf("pass %d has no name", i))
		}
		pc.Inputs = append([]Input(nil), pc.Inputs...)
		for j := range pc.Inputs {
			if pc.Inputs[j].Attachment == 0 {
				pc.Inputs[j].Attachment = gpu.ColorAttachment
			}
		}
		if err := passes.Add(pc.Name, &pc); err != nil {
			return setupErr(pc.Name, StageConfig, err)
		}
		if !pc.Target.Screen {
			if err := pc.Target.Format().Validate(); err != nil {
				return setupErr(pc.Name, StageTarget, err)
			}
		}
	}
	for _, dr := range g.drawables.Values {
		if dr.Mesh == nil {
			return setupErr("", StageDrawable, fmt.Errorf("drawable %q has no mesh", dr.Name))
		}
	}
	for _, u := range cfg.Globals {
		if u.Type == gpu.UndefinedType || u.Type.IsSampler() {
			return setupErr("", StageConfig, fmt.Errorf("global %q cannot have type %v", u.Name, u.Type))
		}
		if err := g.globals.Add(u.Name, u); err != nil {
			return setupErr("", StageConfig, err)
		}
	}
	if err := validateInputs(&passes); err != nil {
		return err
	}

	var order []int
	if cfg.AutoOrder {
		var err error
		if order, err = sortPasses(&passes); err != nil {
			return err
		}
	} else {
		if err := checkOrder(&passes); err != nil {
			return err
		}
		for i := range passes.Len() {
			order = append(order, i)
		}
	}
	for _, pi := range order {
		pc := passes.Values[pi]
		if err := g.checkFeatures(pc); err != nil {
			return err
		}
		p, err := g.newPass(lib, pc)
		if err != nil {
			return err
		}
		g.passes.Set(pc.Name, p)
	}
	return nil
}

func (g *Graph) checkFeatures(pc *PassConfig) error {
	for _, in := range pc.Inputs {
		if in.Attachment.Has(gpu.DepthAttachment) && !g.dev.Supports(gpu.FloatDepthTexture) {
			return setupErr(pc.Name, StageFeature, fmt.Errorf("%w: sampling depth of %q needs %v", gpu.ErrUnsupported, in.Pass, gpu.FloatDepthTexture))
		}
	}
	return nil
}

func (g *Graph) newPass(lib gpu.ShaderLibrary, pc *PassConfig) (*pass, error) {
	p := &pass{cfg: pc}
	if pc.Target.Screen {
		p.target = g.dev.Screen()
	} else {
		rt, err := g.dev.NewRenderTarget(pc.Target.Format())
		if err != nil {
			return nil, setupErr(pc.Name, StageTarget, err)
		}
		p.target = rt
	}
	// register now so the target is released if a later stage fails
	g.passes.Set(pc.Name, p)
	for _, ic := range pc.Inputs {
		src, _ := g.passes.AtTry(ic.Pass)
		in := &input{cfg: ic, src: src}
		nt, err := g.neutral(ic.Neutral, false)
		if err != nil {
			return nil, setupErr(pc.Name, StageInput, err)
		}
		in.neutral = nt
		p.inputs = append(p.inputs, in)
	}
	for _, dc := range pc.AllDraws() {
		d, err := g.newDraw(lib, p, dc)
		if err != nil {
			return nil, err
		}
		p.draws = append(p.draws, d)
	}
	return p, nil
}

// optSlot resolves the uniform if the program declares it.
// Compilers remove unused uniforms, so absence is not an error.
func optSlot(prog gpu.Program, name string, typ gpu.Types) (gpu.Slot, error) {
	if !gpu.HasUniform(prog, name) {
		return gpu.Slot{}, nil
	}
	return gpu.Lookup(prog, name, typ)
}

func (g *Graph) newDraw(lib gpu.ShaderLibrary, p *pass, dc DrawConfig) (d *draw, err error) {
	name := p.cfg.Name
	prog, err := gpu.Build(g.dev, lib, dc.Vertex, dc.Fragment)
	if err != nil {
		return nil, setupErr(name, StageProgram, err)
	}
	defer func() {
		if err != nil {
			prog.Release()
		}
	}()
	d = &draw{program: prog}

	uerr := func(err error) error { return setupErr(name, StageUniform, err) }
	if d.matrix, err = optSlot(prog, gpu.UMatrix, gpu.Float32Matrix4); err != nil {
		return nil, uerr(err)
	}
	if d.world, err = optSlot(prog, gpu.UWorldMatrix, gpu.Float32Matrix4); err != nil {
		return nil, uerr(err)
	}
	if d.normal, err = optSlot(prog, gpu.UNormalMatrix, gpu.Float32Matrix4); err != nil {
		return nil, uerr(err)
	}
	if d.color, err = optSlot(prog, gpu.UColor, gpu.Float32Vector4); err != nil {
		return nil, uerr(err)
	}
	if d.specularExponent, err = optSlot(prog, gpu.USpecularExponent, gpu.Float32); err != nil {
		return nil, uerr(err)
	}
	if d.direction, err = optSlot(prog, gpu.UViewDirectionProjectionInverse, gpu.Float32Matrix4); err != nil {
		return nil, uerr(err)
	}
	for i, gu := range g.globals.Values {
		sl, err := optSlot(prog, gu.Name, gu.Type)
		if err != nil {
			return nil, uerr(err)
		}
		if sl.IsValid() {
			d.globals = append(d.globals, globalSlot{index: i, slot: sl})
		}
	}

	for _, dn := range dc.Drawables {
		dr, ok := g.drawables.AtTry(dn)
		if !ok {
			return nil, setupErr(name, StageDrawable, fmt.Errorf("%w: drawable %q", ErrUnknown, dn))
		}
		d.objects = append(d.objects, object{dr: dr})
	}

	unit := 0
	for _, u := range prog.Uniforms() {
		if !u.Type.IsSampler() {
			continue
		}
		if u.Type == gpu.SamplerCube && !g.dev.Supports(gpu.CubeTextures) {
			return nil, setupErr(name, StageFeature, fmt.Errorf("%w: %s needs %v", gpu.ErrUnsupported, u.Name, gpu.CubeTextures))
		}
		sl, err := gpu.Lookup(prog, u.Name, u.Type)
		if err != nil {
			return nil, uerr(err)
		}
		if in := p.input(u.Name); in != nil {
			if u.Type != gpu.Sampler2D {
				return nil, setupErr(name, StageInput, fmt.Errorf("%w: input %s is %v", gpu.ErrUniformType, u.Name, u.Type))
			}
			d.inputs = append(d.inputs, inputSlot{in: in, slot: sl, unit: unit})
			unit++
			continue
		}
		for oi := range d.objects {
			ob := &d.objects[oi]
			tex := ob.dr.Textures[u.Name]
			if tex == nil {
				if tex, err = g.neutral(gpu.NeutralBlack, u.Type == gpu.SamplerCube); err != nil {
					return nil, setupErr(name, StageDrawable, err)
				}
			}
			ob.textures = append(ob.textures, binding{slot: sl, unit: unit, tex: tex})
		}
		unit++
	}
	return d, nil
}

func (p *pass) input(uniform string) *input {
	for _, in := range p.inputs {
		if in.cfg.Uniform == uniform {
			return in
		}
	}
	return nil
}

// neutral returns the shared neutral texture, creating it on first use.
func (g *Graph) neutral(nt gpu.Neutral, cube bool) (gpu.Texture, error) {
	key := neutralKey{nt: nt, cube: cube}
	if tex, ok := g.neutrals[key]; ok {
		return tex, nil
	}
	img := gpu.NeutralImage(nt)
	var tex gpu.Texture
	var err error
	if cube {
		tex, err = g.dev.NewCubeTexture([6]image.Image{img, img, img, img, img, img})
	} else {
		tex, err = g.dev.NewTexture(img)
	}
	if err != nil {
		return nil, fmt.Errorf("neutral %v texture: %w", nt, err)
	}
	g.neutrals[key] = tex
	return tex, nil
}

// Order returns the pass names in execution order.
func (g *Graph) Order() []string {
	return append([]string(nil), g.passes.Keys...)
}

// Pass returns the configuration of the named pass.
func (g *Graph) Pass(name string) (PassConfig, bool) {
	p, ok := g.passes.AtTry(name)
	if !ok {
		return PassConfig{}, false
	}
	return *p.cfg, true
}

// Target returns the render target of the named pass, or nil.
func (g *Graph) Target(name string) gpu.RenderTarget {
	p, ok := g.passes.AtTry(name)
	if !ok {
		return nil
	}
	return p.target
}

// State returns the state of the named pass in the current or last
// frame. Unknown passes are always Pending.
func (g *Graph) State(name string) PassStates {
	p, ok := g.passes.AtTry(name)
	if !ok {
		return Pending
	}
	return p.state
}

// Global returns a reference to the named global uniform.
func (g *Graph) Global(name string) (GlobalRef, error) {
	i := g.globals.IndexByKey(name)
	if i < 0 {
		return GlobalRef{index: -1, name: name}, fmt.Errorf("%w: global %q", ErrUnknown, name)
	}
	u := g.globals.Values[i]
	return GlobalRef{index: i, name: name, typ: u.Type}, nil
}

// NewScene returns a new scene for this graph, with zero globals,
// no views and identity world matrices.
func (g *Graph) NewScene() *Scene {
	sc := &Scene{
		graph:   g,
		views:   map[string]View{},
		worlds:  map[string]math32.Matrix4{},
		globals: make([]gpu.Value, g.globals.Len()),
	}
	for i, u := range g.globals.Values {
		sc.globals[i] = gpu.Value{Type: u.Type}
	}
	return sc
}

// ExecuteFrame renders one frame of the scene. All passes are reset
// to Pending and then run in order. A failing pass is marked Failed
// and the frame continues with the next pass; passes sampling its
// output get neutral textures. The errors of all failed passes are
// returned joined.
func (g *Graph) ExecuteFrame(sc *Scene) error {
	if g.released {
		return gpu.ErrReleased
	}
	if sc == nil || sc.graph != g {
		return errors.New("passgraph: scene was not created by this graph")
	}
	for _, p := range g.passes.Values {
		p.state = Pending
	}
	var errs []error
	for _, p := range g.passes.Values {
		p.state = Executing
		if err := g.runPass(p, sc); err != nil {
			p.state = Failed
			errs = append(errs, fmt.Errorf("passgraph: pass %q: %w", p.cfg.Name, err))
			continue
		}
		p.state = Complete
	}
	return errors.Join(errs...)
}

func (g *Graph) runPass(p *pass, sc *Scene) (err error) {
	var vp image.Rectangle
	if p.cfg.Target.Screen {
		vp = sc.Viewport
	}
	if err := g.dev.BeginPass(p.target, vp, p.cfg.Clear, p.cfg.ClearColor); err != nil {
		return err
	}
	defer func() {
		if eerr := g.dev.EndPass(); err == nil {
			err = eerr
		}
	}()
	v := p.view(sc)
	for _, d := range p.draws {
		if err := g.runDraw(p, d, sc, v); err != nil {
			return err
		}
	}
	return nil
}

// view returns the view of the pass, or identity matrices if it
// has none or the scene does not set it.
func (p *pass) view(sc *Scene) View {
	identity := View{View: math32.Identity4(), Projection: math32.Identity4()}
	if p.cfg.View == "" {
		return identity
	}
	v, ok := sc.View(p.cfg.View)
	if !ok {
		if !p.warnedView {
			slog.Warn("passgraph: view not set, using identity", "pass", p.cfg.Name, "view", p.cfg.View)
			p.warnedView = true
		}
		return identity
	}
	return v
}

// texture returns the producer's attachment if it completed
// in this frame, and the neutral texture otherwise.
func (in *input) texture(pass string) gpu.Texture {
	if in.src.state == Complete {
		if tex := in.src.target.Attachment(in.cfg.Attachment); tex != nil {
			return tex
		}
	}
	if !in.warned {
		slog.Warn("passgraph: input not available, using neutral texture",
			"pass", pass, "input", in.cfg.Pass, "uniform", in.cfg.Uniform, "neutral", in.cfg.Neutral.String())
		in.warned = true
	}
	return in.neutral
}

func (g *Graph) runDraw(p *pass, d *draw, sc *Scene, v View) error {
	dev := g.dev
	if err := dev.UseProgram(d.program); err != nil {
		return err
	}
	vpm := v.ViewProjection()
	if d.direction.IsValid() {
		dm, err := v.DirectionInverse()
		if err != nil {
			return fmt.Errorf("view %q: %w", p.cfg.View, err)
		}
		if err := dev.SetUniform(d.direction, gpu.Mat4Value(dm)); err != nil {
			return err
		}
	}
	for _, gs := range d.globals {
		if err := dev.SetUniform(gs.slot, sc.globals[gs.index]); err != nil {
			return err
		}
	}
	for _, is := range d.inputs {
		if err := dev.BindTexture(is.slot, is.unit, is.in.texture(p.cfg.Name)); err != nil {
			return err
		}
	}
	for _, ob := range d.objects {
		world := sc.World(ob.dr.Name)
		nm, err := world.NormalMatrix()
		if err != nil {
			continue // scaled to nothing
		}
		if d.matrix.IsValid() {
			if err := dev.SetUniform(d.matrix, gpu.Mat4Value(vpm.Mul(world))); err != nil {
				return err
			}
		}
		if d.world.IsValid() {
			if err := dev.SetUniform(d.world, gpu.Mat4Value(world)); err != nil {
				return err
			}
		}
		if d.normal.IsValid() {
			if err := dev.SetUniform(d.normal, gpu.Mat4Value(nm)); err != nil {
				return err
			}
		}
		if d.color.IsValid() {
			if err := dev.SetUniform(d.color, gpu.Vec4Value(ob.dr.Color)); err != nil {
				return err
			}
		}
		if d.specularExponent.IsValid() {
			if err := dev.SetUniform(d.specularExponent, gpu.FloatValue(ob.dr.SpecularExponent)); err != nil {
				return err
			}
		}
		for _, b := range ob.textures {
			if err := dev.BindTexture(b.slot, b.unit, b.tex); err != nil {
				return err
			}
		}
		if err := dev.Draw(ob.dr.Mesh, ob.dr.First, ob.dr.Count); err != nil {
			return fmt.Errorf("drawable %q: %w", ob.dr.Name, err)
		}
	}
	return nil
}

// Release frees everything the graph owns. The graph cannot be used
// afterwards.
func (g *Graph) Release() {
	if g.released {
		return
	}
	g.released = true
	for _, p := range g.passes.Values {
		for _, d := range p.draws {
			d.program.Release()
		}
		if p.target != nil && !p.target.IsScreen() {
			p.target.Release()
		}
	}
	for _, tex := range g.neutrals {
		tex.Release()
	}
	releaseDrawables(g.drawables.Values)
	g.passes.Reset()
	g.neutrals = nil
}

// releaseDrawables releases the meshes and textures of the drawables,
// each once even if shared.
func releaseDrawables(drs []*Drawable) {
	meshes := map[gpu.Mesh]bool{}
	textures := map[gpu.Texture]bool{}
	for _, dr := range drs {
		if dr == nil {
			continue
		}
		if dr.Mesh != nil && !meshes[dr.Mesh] {
			meshes[dr.Mesh] = true
			dr.Mesh.Release()
		}
		for _, tex := range dr.Textures {
			if tex != nil && !textures[tex] {
				textures[tex] = true
				tex.Release()
			}
		}
	}
}
