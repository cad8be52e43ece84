// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package app composes the renderer: it loads the assets of a
// [config.Config], builds its render pass graph on a device, and
// renders frames of the sailing scene driven by user input.
package app

import (
	"context"
	"fmt"
	"image"
	"io/fs"
	"log/slog"

	"cogentcore.org/render/asset"
	"cogentcore.org/render/base/errors"
	"cogentcore.org/render/camera"
	"cogentcore.org/render/config"
	"cogentcore.org/render/gpu"
	"cogentcore.org/render/input"
	"cogentcore.org/render/math32"
	"cogentcore.org/render/passgraph"
	"cogentcore.org/render/sail"
)

// globalTypes are the types of the globals that the app sets each frame.
var globalTypes = map[string]gpu.Types{
	gpu.ULightDir:              gpu.Float32Vector3,
	gpu.UAmbient:               gpu.Float32Vector3,
	gpu.ULightProjectionMatrix: gpu.Float32Matrix4,
	gpu.UReflectionMatrix:      gpu.Float32Matrix4,
	gpu.UWorldViewerPosition:   gpu.Float32Vector3,
	gpu.UTime:                  gpu.Float32,
	gpu.USpecular:              gpu.Float32Vector3,
	gpu.UWindStrength:          gpu.Float32,
}

// App is a running renderer.
type App struct {

	// Config is the config the app was set up with.
	Config *config.Config

	// Graph renders the passes.
	Graph *passgraph.Graph

	// Scene is the state rendered each frame.
	Scene *passgraph.Scene

	// Camera is the orbiting camera rig.
	Camera camera.Orbit

	// Light casts the shadows.
	Light camera.DirectionalLight

	// Input accumulates the user input between frames.
	Input *input.State

	// Game is the sailing game, which only advances if
	// enabled in the config.
	Game *sail.Game

	dev     gpu.Device
	size    image.Point
	globals map[string]passgraph.GlobalRef
	frames  int
	last    float32
}

// Setup loads the assets named in the config from fsys and builds
// the render pass graph on the device. Nothing is left allocated on
// the device if it fails.
func Setup(ctx context.Context, dev gpu.Device, lib gpu.ShaderLibrary, cf *config.Config, fsys fs.FS) (*App, error) {
	if err := cf.Validate(); err != nil {
		return nil, err
	}
	for _, gl := range cf.Globals {
		if tp, ok := globalTypes[gl.Name]; ok && tp != gl.Type {
			return nil, fmt.Errorf("app: global %s is a %v, not a %v: %w", gl.Name, tp, gl.Type, gpu.ErrUniformType)
		}
	}
	as, err := asset.LoadAll(ctx, &asset.Loader{FS: fsys}, cf.Images(), cf.Models())
	if err != nil {
		return nil, err
	}

	var drs []*passgraph.Drawable
	for i := range cf.Objects {
		dr, err := newDrawable(dev, &cf.Objects[i], as)
		if err != nil {
			for _, dr := range drs {
				releaseDrawable(dr)
			}
			return nil, err
		}
		drs = append(drs, dr)
	}
	g, err := passgraph.New(dev, lib, cf.Graph(), drs...)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:  cf,
		Graph:   g,
		Scene:   g.NewScene(),
		Input:   input.NewState(),
		Game:    sail.NewGame(),
		dev:     dev,
		size:    cf.Size(),
		globals: map[string]passgraph.GlobalRef{},
	}
	a.Camera = camera.Orbit{
		Pitch:    math32.DegToRad(cf.Camera.Pitch),
		Yaw:      math32.DegToRad(cf.Camera.Yaw),
		Distance: cf.Camera.Distance,
		FOV:      math32.DegToRad(cf.Camera.FOV),
		Near:     cf.Camera.Near,
		Far:      cf.Camera.Far,
	}
	a.Light = camera.DirectionalLight{
		Pitch:  math32.DegToRad(cf.Light.Pitch),
		Yaw:    math32.DegToRad(cf.Light.Yaw),
		Width:  cf.Light.Width,
		Height: cf.Light.Height,
		Depth:  cf.Light.Depth,
	}
	for _, gl := range cf.Globals {
		if _, ok := globalTypes[gl.Name]; ok {
			a.globals[gl.Name] = errors.Log1(g.Global(gl.Name))
		}
	}
	slog.Info("app: set up", "passes", g.Order(), "objects", len(drs))
	return a, nil
}

// Size returns the size of the display the app renders to.
func (a *App) Size() image.Point {
	return a.size
}

// Resize sets the size of the display, resizing the screen of
// devices that render it themselves.
func (a *App) Resize(size image.Point) {
	if size == a.size {
		return
	}
	a.size = size
	if rs, ok := a.dev.(interface{ SetScreenSize(image.Point) }); ok {
		rs.SetScreenSize(size)
	}
}

// RenderFrame advances the game and renders a frame at the given
// time stamp, in milliseconds.
func (a *App) RenderFrame(ts float32) error {
	var dt float32
	if a.frames > 0 {
		dt = max(ts-a.last, 0)
	}
	a.frames++
	a.last = ts

	a.Input.Update(&a.Camera)
	if a.Config.Game {
		a.Game.Update(dt, a.Input.Direction())
	}
	a.Camera.Viewing = a.Game.Viewing()
	a.Light.Center = a.Camera.Viewing
	a.Light.Yaw += math32.DegToRad(a.Config.Light.Spin) * dt / 1000

	if err := a.updateScene(ts); err != nil {
		return err
	}
	return a.Graph.ExecuteFrame(a.Scene)
}

// updateScene sets the views, world matrices and globals of the scene.
func (a *App) updateScene(ts float32) error {
	sc := a.Scene
	sc.Viewport = image.Rectangle{Max: a.size}
	aspect := float32(a.size.X) / float32(a.size.Y)
	if err := sc.SetViewer(config.ViewCamera, a.Camera, aspect); err != nil {
		return err
	}
	if err := sc.SetViewer(config.ViewMirror, a.Camera.Mirror(), aspect); err != nil {
		return err
	}
	lpv, err := a.Light.ProjectionView()
	if err != nil {
		return err
	}
	sc.SetView(config.ViewLight, lpv, math32.Identity4())

	for i := range a.Config.Objects {
		ob := &a.Config.Objects[i]
		sc.SetWorld(ob.Name, a.worldMatrix(ob))
	}

	mirror, _ := sc.View(config.ViewMirror)
	amb, spec := a.Config.Light.Ambient, a.Config.Light.Specular
	return errors.Join(
		a.setGlobal(gpu.ULightDir, gpu.Vec3Value(a.Light.Direction())),
		a.setGlobal(gpu.UAmbient, gpu.Vec3Value(math32.Vec3(amb, amb, amb))),
		a.setGlobal(gpu.ULightProjectionMatrix, gpu.Mat4Value(lpv)),
		a.setGlobal(gpu.UReflectionMatrix, gpu.Mat4Value(mirror.ViewProjection())),
		a.setGlobal(gpu.UWorldViewerPosition, gpu.Vec3Value(a.Camera.Position())),
		a.setGlobal(gpu.UTime, gpu.FloatValue(ts*0.001)),
		a.setGlobal(gpu.USpecular, gpu.Vec3Value(math32.Vec3(spec, spec, spec))),
		a.setGlobal(gpu.UWindStrength, gpu.FloatValue(a.Game.WindStrength)),
	)
}

// setGlobal sets the global if the graph has it.
func (a *App) setGlobal(name string, v gpu.Value) error {
	ref, ok := a.globals[name]
	if !ok {
		return nil
	}
	return a.Scene.Set(ref, v)
}

// worldMatrix returns the world matrix of the object: its game
// part's matrix, offset by its position.
func (a *App) worldMatrix(ob *config.Object) math32.Matrix4 {
	offset := math32.Translate4(ob.Position[0], ob.Position[1], ob.Position[2])
	gm := a.Game
	switch ob.Role {
	case config.RoleBoat:
		return gm.BoatMatrix().Mul(offset)
	case config.RoleSail:
		return gm.SailMatrix().Mul(offset)
	case config.RoleSailFront:
		return gm.SailFrontMatrix().Mul(offset)
	case config.RoleOcean:
		return gm.OceanMatrix().Mul(offset)
	}
	return offset
}

// Release frees everything the app holds on the device.
// The device itself is owned by the caller.
func (a *App) Release() {
	a.Graph.Release()
}
