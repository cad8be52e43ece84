// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"testing"
	"testing/fstest"

	"cogentcore.org/render/asset"
	"cogentcore.org/render/base/iox/imagex"
	"cogentcore.org/render/camera"
	"cogentcore.org/render/config"
	"cogentcore.org/render/gpu"
	"cogentcore.org/render/gpu/softgpu"
	"cogentcore.org/render/input"
	"cogentcore.org/render/math32"
	"cogentcore.org/render/passgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sky = color.RGBA{135, 190, 235, 255}

func pngBytes(t *testing.T, c color.RGBA) []byte {
	t.Helper()
	enc, err := imagex.Encoder(imagex.PNG)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, enc(&buf, imagex.Uniform(image.Pt(2, 2), c)))
	return buf.Bytes()
}

func testFS(t *testing.T) fstest.MapFS {
	fsys := fstest.MapFS{
		"models/tri.obj": {Data: []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")},
		"tex/red.png":    {Data: pngBytes(t, color.RGBA{255, 0, 0, 255})},
	}
	for _, f := range []string{"px", "nx", "py", "ny", "pz", "nz"} {
		fsys["sky/"+f+".png"] = &fstest.MapFile{Data: pngBytes(t, sky)}
	}
	return fsys
}

// testConfig returns the default scene at a small size.
func testConfig() *config.Config {
	cf := &config.Config{}
	cf.Defaults()
	cf.Width, cf.Height = 32, 24
	for i := range cf.Passes {
		if !cf.Passes[i].Screen {
			cf.Passes[i].Size = [2]int{32, 32}
		}
	}
	return cf
}

func setup(t *testing.T, cf *config.Config, opts ...softgpu.Option) (*App, *softgpu.Device) {
	t.Helper()
	dev := softgpu.New(cf.Size(), opts...)
	a, err := Setup(context.Background(), dev, softgpu.Library(), cf, testFS(t))
	require.NoError(t, err)
	return a, dev
}

func TestSetup(t *testing.T) {
	a, dev := setup(t, testConfig())
	assert.Equal(t, []string{"shadow", "reflection", "main"}, a.Graph.Order())
	require.NoError(t, a.RenderFrame(0))
	require.NoError(t, a.RenderFrame(16))
	for _, name := range a.Graph.Order() {
		assert.Equal(t, passgraph.Complete, a.Graph.State(name), name)
	}
	assert.Equal(t, 6, dev.Stats().Passes)

	img := dev.ScreenImage()
	require.Equal(t, image.Pt(32, 24), img.Bounds().Size())
	assert.NotEqual(t, sky, img.RGBAAt(16, 12), "boat")
	ocean := img.RGBAAt(0, 0)
	assert.Greater(t, ocean.B, ocean.R, "ocean")

	assert.False(t, a.Game.Started)
	assert.InDelta(t, 0.016, a.Scene.Global(a.globals[gpu.UTime]).Float(), 1e-6)
	assert.Equal(t, a.Camera.Position(), a.Scene.Global(a.globals[gpu.UWorldViewerPosition]).Vec3())
	assert.Equal(t, math32.Vec3(1, 1, 1), a.Scene.Global(a.globals[gpu.USpecular]).Vec3())
	assert.Equal(t, a.Game.WindStrength, a.Scene.Global(a.globals[gpu.UWindStrength]).Float())

	assert.NotZero(t, dev.Live())
	a.Release()
	assert.Zero(t, dev.Live())
}

func TestGame(t *testing.T) {
	a, _ := setup(t, testConfig())
	a.Input.KeyDown(input.CodeLeftArrow)
	for i := range 10 {
		require.NoError(t, a.RenderFrame(float32(i*16)))
	}
	assert.True(t, a.Game.Started)
	assert.Equal(t, input.Left, a.Game.Sailing)
	assert.Less(t, a.Game.Location.Y, float32(0))
	assert.Less(t, a.Game.Location.X, float32(0))
	assert.Equal(t, a.Game.Viewing(), a.Camera.Viewing)
	assert.Equal(t, a.Game.Viewing(), a.Light.Center)
	assert.Equal(t, a.Game.BoatMatrix(), a.Scene.World("boat"))
	assert.Equal(t, a.Game.OceanMatrix(), a.Scene.World("ocean"))

	a.Input.KeyUp(input.CodeLeftArrow)
	require.NoError(t, a.RenderFrame(1000))
	assert.Equal(t, input.None, a.Game.Sailing)
	a.Release()
}

func TestStatic(t *testing.T) {
	cf := testConfig()
	cf.Game = false
	cf.Light.Spin = 90
	a, _ := setup(t, cf)
	a.Input.KeyDown(input.CodeRightArrow)
	require.NoError(t, a.RenderFrame(0))
	require.NoError(t, a.RenderFrame(1000))
	assert.False(t, a.Game.Started)
	assert.InDelta(t, float64(a.Light.Yaw), float64(cf.Light.Yaw+90)*3.14159265/180, 1e-5)
	a.Release()
}

func TestTextured(t *testing.T) {
	cf := testConfig()
	cf.Game = false
	cf.Globals = nil
	cf.Objects = []config.Object{
		{Name: "card", Shape: config.ShapeQuad, Size: 4, Texture: "tex/red.png"},
		{Name: "tri", Shape: config.ShapeModel, Model: "models/tri.obj", Position: [3]float32{100, 0, 0}},
	}
	cf.Passes = []config.Pass{{
		Name:      "main",
		Screen:    true,
		Vertex:    "transform",
		Fragment:  "textured",
		Drawables: []string{"card", "tri"},
		View:      config.ViewCamera,
	}}
	a, dev := setup(t, cf)
	require.NoError(t, a.RenderFrame(0))
	img := dev.ScreenImage()
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(16, 12))
	assert.Equal(t, color.RGBA{0, 0, 0, 0}, img.RGBAAt(0, 0))
	a.Release()
	assert.Zero(t, dev.Live())
}

func TestSetupErrors(t *testing.T) {
	envMap := []string{"sky/px.png", "sky/nx.png", "sky/py.png", "sky/ny.png", "sky/pz.png", "sky/nz.png"}
	tests := []struct {
		name   string
		modify func(cf *config.Config)
		opts   []softgpu.Option
		check  func(t *testing.T, err error)
		diag   string
	}{
		{
			name:   "texture",
			modify: func(cf *config.Config) { cf.Objects[0].Texture = "tex/missing.png" },
			check: func(t *testing.T, err error) {
				var le *asset.LoadError
				require.ErrorAs(t, err, &le)
				assert.Equal(t, "tex/missing.png", le.Path)
			},
			diag: "the file tex/missing.png could not be loaded",
		},
		{
			name:   "shader",
			modify: func(cf *config.Config) { cf.Passes[1].Fragment = "toon" },
			check: func(t *testing.T, err error) {
				var se *passgraph.SetupError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, "reflection", se.Pass)
				assert.ErrorIs(t, err, gpu.ErrNoShader)
			},
			diag: "the reflection pass failed to set up (program)",
		},
		{
			name: "depth",
			opts: []softgpu.Option{softgpu.WithoutFeatures(gpu.FloatDepthTexture)},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, gpu.ErrUnsupported)
			},
			diag: "might not be supported",
		},
		{
			name: "cube",
			modify: func(cf *config.Config) {
				cf.Objects = append(cf.Objects, config.Object{Name: "sky", Shape: config.ShapeSphere, EnvMap: envMap})
			},
			opts: []softgpu.Option{softgpu.WithoutFeatures(gpu.CubeTextures)},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, gpu.ErrUnsupported)
			},
			diag: "might not be supported",
		},
		{
			name:   "global",
			modify: func(cf *config.Config) { cf.Globals[5].Type = gpu.Float32Vector3 },
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, gpu.ErrUniformType)
			},
			diag: "could not be rendered.",
		},
		{
			name:   "config",
			modify: func(cf *config.Config) { cf.Passes[0].Drawables = []string{"gull"} },
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, `unknown object "gull"`)
			},
			diag: "could not be rendered.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cf := testConfig()
			if tt.modify != nil {
				tt.modify(cf)
			}
			dev := softgpu.New(cf.Size(), tt.opts...)
			a, err := Setup(context.Background(), dev, softgpu.Library(), cf, testFS(t))
			assert.Nil(t, a)
			require.Error(t, err)
			tt.check(t, err)
			assert.Contains(t, Diagnostic(err), tt.diag)
			assert.Zero(t, dev.Live())
		})
	}
	assert.Empty(t, Diagnostic(nil))
}

func TestEnvMap(t *testing.T) {
	cf := testConfig()
	cf.Objects = append(cf.Objects, config.Object{
		Name:   "sky",
		Shape:  config.ShapeSphere,
		Size:   500,
		EnvMap: []string{"sky/px.png", "sky/nx.png", "sky/py.png", "sky/ny.png", "sky/pz.png", "sky/nz.png"},
	})
	cf.Passes[2].Draws = append(cf.Passes[2].Draws, config.Draw{Vertex: "transform", Fragment: "environment", Drawables: []string{"sky"}})
	a, dev := setup(t, cf)
	require.NoError(t, a.RenderFrame(0))
	assert.Equal(t, passgraph.Complete, a.Graph.State("main"))
	a.Release()
	assert.Zero(t, dev.Live())
}

func TestRun(t *testing.T) {
	a, dev := setup(t, testConfig())
	var frames []int
	d := &Headless{Screen: image.Pt(40, 30), Frames: 3, Step: 16, OnFrame: func(i int) { frames = append(frames, i) }}
	require.NoError(t, a.Run(context.Background(), d))
	assert.Equal(t, []int{0, 1, 2}, frames)
	assert.Equal(t, 9, dev.Stats().Passes)
	assert.Equal(t, image.Pt(40, 30), a.Size())
	assert.Equal(t, image.Pt(40, 30), dev.ScreenImage().Bounds().Size())
	assert.Equal(t, image.Rect(0, 0, 40, 30), a.Scene.Viewport)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, a.Run(ctx, &Headless{Screen: image.Pt(40, 30), Frames: 3}), context.Canceled)
	assert.Equal(t, 9, dev.Stats().Passes)
	a.Release()
}

func TestFrameError(t *testing.T) {
	a, dev := setup(t, testConfig())
	a.Resize(image.Point{})
	assert.ErrorIs(t, a.RenderFrame(0), camera.ErrAspect)
	assert.Zero(t, dev.Stats().Passes)

	// frame errors do not stop the run
	d := &Headless{Frames: 2, Step: 16}
	require.NoError(t, a.Run(context.Background(), d))
	assert.Zero(t, dev.Stats().Passes)
	a.Release()
}

func TestSky(t *testing.T) {
	cf := testConfig()
	cf.Game = false
	cf.Globals = nil
	cf.Objects = []config.Object{{Name: "sky", Shape: config.ShapeSkybox, Color: [4]float32{0.25, 0.5, 0.85, 1}}}
	cf.Passes = []config.Pass{{
		Name:      "main",
		Screen:    true,
		Vertex:    "skybox",
		Fragment:  "sky",
		Drawables: []string{"sky"},
		View:      config.ViewCamera,
	}}
	a, dev := setup(t, cf)

	// looking up, the sky gets bluer towards the zenith
	a.Input.MaxPitch = math32.DegToRad(85)
	a.Camera.Pitch = math32.DegToRad(45)
	require.NoError(t, a.RenderFrame(0))
	img := dev.ScreenImage()
	c := img.RGBAAt(16, 12)
	assert.Greater(t, c.B, c.G)
	assert.Greater(t, c.G, c.R)
	assert.Less(t, img.RGBAAt(16, 0).R, img.RGBAAt(16, 23).R)

	// looking down, there is only the white below the horizon
	a.Camera.Pitch = math32.DegToRad(-45)
	require.NoError(t, a.RenderFrame(16))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, dev.ScreenImage().RGBAAt(16, 12))

	a.Release()
	assert.Zero(t, dev.Live())
}

func TestSkyFaces(t *testing.T) {
	zenith := math32.Vec3(0.2, 0.4, 0.8)
	faces := skyFaces(zenith)
	mid := skyFaceSize / 2
	top := faces[2].At(mid, mid).(color.RGBA)
	assert.InDelta(t, 51, int(top.R), 2)
	assert.InDelta(t, 204, int(top.B), 2)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, faces[3].At(mid, mid))
	// the side faces fade from blue at the top row to white below the middle
	for f := range 6 {
		if f == 2 || f == 3 {
			continue
		}
		assert.Less(t, faces[f].At(mid, 0).(color.RGBA).R, uint8(255), "face %d", f)
		assert.Equal(t, color.RGBA{255, 255, 255, 255}, faces[f].At(mid, skyFaceSize-1), "face %d", f)
	}
	for f := range 6 {
		assert.InDelta(t, 1, cubeDirection(f, 0, 0).Length(), 1e-6)
	}
}

func TestObjectMesh(t *testing.T) {
	md, err := objectMesh(&config.Object{Name: "sail", Shape: config.ShapeSail, Size: 2}, nil)
	require.NoError(t, err)
	require.Equal(t, 3, md.NumVertices())
	// the sail hangs in the x = 0 plane from the mast top back to the stern
	assert.Equal(t, math32.Vec3(0, 1.4, -0.6), md.Position(0))
	assert.Equal(t, math32.Vec3(0, 1.4, 3.2), md.Position(1))
	assert.Equal(t, math32.Vec3(0, 7.8, -0.6), md.Position(2))

	md, err = objectMesh(&config.Object{Name: "boat", Shape: config.ShapeSailboat}, nil)
	require.NoError(t, err)
	assert.Equal(t, 48, md.NumVertices())
	assert.Len(t, md.Groups, 2)

	md, err = objectMesh(&config.Object{Name: "sky", Shape: config.ShapeSkybox}, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, md.NumVertices())

	_, err = objectMesh(&config.Object{Name: "ship", Shape: config.ShapeModel, Model: "ship.obj"}, &asset.Assets{})
	assert.ErrorContains(t, err, `model "ship.obj" not loaded`)
}
