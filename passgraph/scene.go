// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package passgraph

import (
	"fmt"
	"image"

	"cogentcore.org/render/camera"
	"cogentcore.org/render/gpu"
	"cogentcore.org/render/math32"
)

// View is a pair of view and projection matrices.
type View struct {
	View       math32.Matrix4
	Projection math32.Matrix4
}

// ViewProjection returns Projection * View.
func (v View) ViewProjection() math32.Matrix4 {
	return v.Projection.Mul(v.View)
}

// DirectionInverse returns the inverse of Projection times the
// rotation of View, which maps clip positions to world directions
// as seen from the viewer.
func (v View) DirectionInverse() (math32.Matrix4, error) {
	rot := v.View
	rot[12], rot[13], rot[14] = 0, 0, 0
	return v.Projection.Mul(rot).Inverse()
}

// GlobalRef is a global uniform of a [Graph], resolved by [Graph.Global].
type GlobalRef struct {
	index int
	name  string
	typ   gpu.Types
}

// Name returns the uniform name.
func (gr GlobalRef) Name() string { return gr.name }

// Type returns the uniform type.
func (gr GlobalRef) Type() gpu.Types { return gr.typ }

// Scene is the per-frame state a [Graph] renders: the views the
// passes use, the world matrix of each drawable and the global
// uniform values. It is updated by a single writer before each
// call to [Graph.ExecuteFrame].
type Scene struct {

	// Viewport of the screen passes. An empty viewport covers the screen.
	Viewport image.Rectangle

	graph   *Graph
	views   map[string]View
	worlds  map[string]math32.Matrix4
	globals []gpu.Value
}

// SetView sets the named view.
func (sc *Scene) SetView(name string, view, projection math32.Matrix4) {
	sc.views[name] = View{View: view, Projection: projection}
}

// SetViewer sets the named view from a camera for the given aspect ratio.
// The view is left unchanged if the camera matrices cannot be computed.
func (sc *Scene) SetViewer(name string, v camera.Viewer, aspect float32) error {
	view, prjn, err := v.Matrices(aspect)
	if err != nil {
		return fmt.Errorf("view %q: %w", name, err)
	}
	sc.SetView(name, view, prjn)
	return nil
}

// View returns the named view.
func (sc *Scene) View(name string) (View, bool) {
	v, ok := sc.views[name]
	return v, ok
}

// SetWorld sets the world matrix of the named drawable.
// A singular matrix, such as a zero scale, hides the drawable.
func (sc *Scene) SetWorld(drawable string, m math32.Matrix4) {
	sc.worlds[drawable] = m
}

// World returns the world matrix of the named drawable,
// which is the identity until set.
func (sc *Scene) World(drawable string) math32.Matrix4 {
	if m, ok := sc.worlds[drawable]; ok {
		return m
	}
	return math32.Identity4()
}

// Set sets the value of a global uniform.
func (sc *Scene) Set(ref GlobalRef, v gpu.Value) error {
	if ref.index < 0 || ref.index >= len(sc.globals) || ref.typ == gpu.UndefinedType {
		return fmt.Errorf("%w: global %q", ErrUnknown, ref.name)
	}
	if v.Type != ref.typ {
		return fmt.Errorf("%w: global %s is %v, got %v", gpu.ErrUniformType, ref.name, ref.typ, v.Type)
	}
	sc.globals[ref.index] = v
	return nil
}

// SetGlobal sets the value of the named global uniform.
func (sc *Scene) SetGlobal(name string, v gpu.Value) error {
	ref, err := sc.graph.Global(name)
	if err != nil {
		return err
	}
	return sc.Set(ref, v)
}

// Global returns the value of a global uniform.
func (sc *Scene) Global(ref GlobalRef) gpu.Value {
	if ref.index < 0 || ref.index >= len(sc.globals) {
		return gpu.Value{}
	}
	return sc.globals[ref.index]
}
