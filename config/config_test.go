// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"image"
	"image/color"
	"log/slog"
	"path/filepath"
	"testing"
	"testing/fstest"

	"cogentcore.org/render/gpu"
	"cogentcore.org/render/passgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	cf := &Config{}
	cf.Defaults()
	return cf
}

func TestDefaults(t *testing.T) {
	cf := defaults()
	require.NoError(t, cf.Validate())
	assert.Equal(t, image.Pt(1024, 768), cf.Size())
	assert.Nil(t, cf.Images())
	assert.Nil(t, cf.Models())
	assert.Equal(t, RoleOcean, cf.Object("ocean").Role)
	assert.Nil(t, cf.Object("land"))

	gc := cf.Graph()
	require.Len(t, gc.Passes, 3)
	assert.Len(t, gc.Globals, 8)
	shadow, reflection, main := gc.Passes[0], gc.Passes[1], gc.Passes[2]
	assert.Equal(t, []string{"boat", "sail", "sail-front", "ocean"}, shadow.Drawables)
	assert.Equal(t, gpu.TargetFormat{Size: image.Pt(1024, 1024), Attachments: gpu.DepthAttachment}, shadow.Target.Format())
	assert.True(t, main.Target.Screen)
	assert.Equal(t, color.RGBA{135, 190, 235, 255}, main.ClearColor)
	assert.Equal(t, []string{"ocean"}, main.Draws[0].Drawables)

	// the sky is drawn last in both color passes, and needs no images
	for _, ps := range []passgraph.PassConfig{reflection, main} {
		sky := ps.Draws[len(ps.Draws)-1]
		assert.Equal(t, "skybox", sky.Vertex, ps.Name)
		assert.Equal(t, []string{"sky"}, sky.Drawables, ps.Name)
	}
	assert.Equal(t, ShapeSkybox, cf.Object("sky").Shape)
	assert.Equal(t, float32(200), cf.Object("ocean").SpecularExponent)
	assert.Equal(t, float32(1), cf.Light.Specular)
	assert.True(t, main.DependsOn(PassReflection))
	assert.True(t, main.DependsOn(PassShadow))
	assert.Equal(t, gpu.NeutralWhite, main.Inputs[0].Neutral)
}

func TestValidate(t *testing.T) {
	cf := defaults()
	cf.Width = 0
	cf.Objects = append(cf.Objects,
		Object{Name: "boat", Shape: ShapeCube},
		Object{Name: "rock", Shape: "cone"},
		Object{Name: "gull", Shape: ShapeModel, Model: "gull.png"},
		Object{Name: "sky", Shape: ShapeCube, EnvMap: []string{"east.png"}},
		Object{Name: "buoy", Shape: ShapeSphere, Role: "anchor"},
		Object{Name: "glass", Shape: ShapeCube, SpecularExponent: -1},
	)
	cf.Passes = append(cf.Passes,
		Pass{Name: PassMain, Screen: true},
		Pass{Name: "minimap", Size: [2]int{0, 64}, Drawables: []string{"island"}},
	)
	err := cf.Validate()
	require.Error(t, err)
	for _, msg := range []string{
		"display size 0x768",
		`duplicate object "boat"`,
		`unknown shape "cone"`,
		`"gull.png" is not a model file`,
		"env map needs 6 faces, not 1",
		`unknown role "anchor"`,
		`object "glass": negative specular exponent -1`,
		`duplicate pass "main"`,
		`pass "minimap": target size [0 64]`,
		`pass "minimap": unknown object "island"`,
	} {
		assert.ErrorContains(t, err, msg)
	}

	cf = defaults()
	cf.Passes = nil
	assert.ErrorContains(t, cf.Validate(), "no passes")
}

func TestModels(t *testing.T) {
	cf := defaults()
	cf.Objects = append(cf.Objects,
		Object{Name: "gull", Shape: ShapeModel, Model: "models/gull.obj", Texture: "tex/gull.png"},
		Object{Name: "sky", Shape: ShapeCube, EnvMap: []string{"px.png", "nx.png", "py.png", "ny.png", "pz.png", "nz.png"}},
	)
	require.NoError(t, cf.Validate())
	assert.Equal(t, []string{"models/gull.obj"}, cf.Models())
	assert.Equal(t, []string{"tex/gull.png", "px.png", "nx.png", "py.png", "ny.png", "pz.png", "nz.png"}, cf.Images())
}

func TestSaveOpen(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"render.toml", "render.yaml"} {
		t.Run(name, func(t *testing.T) {
			fn := filepath.Join(dir, name)
			cf := defaults()
			cf.LogLevel = slog.LevelDebug
			require.NoError(t, Save(cf, fn))

			got := &Config{}
			require.NoError(t, Open(got, fn))
			assert.Equal(t, cf.Width, got.Width)
			assert.Equal(t, slog.LevelDebug, got.LogLevel)
			assert.Equal(t, cf.Camera, got.Camera)
			assert.Equal(t, cf.Light, got.Light)
			assert.Equal(t, cf.Globals, got.Globals)
			require.Len(t, got.Objects, len(cf.Objects))
			for i, ob := range cf.Objects {
				assert.Equal(t, ob.Name, got.Objects[i].Name)
				assert.Equal(t, ob.Color, got.Objects[i].Color)
				assert.Equal(t, ob.Role, got.Objects[i].Role)
			}
			require.Len(t, got.Passes, len(cf.Passes))
			for i, ps := range cf.Passes {
				gp := got.Passes[i]
				assert.Equal(t, ps.Name, gp.Name)
				assert.Equal(t, ps.Attachments, gp.Attachments)
				assert.Equal(t, ps.ClearColor, gp.ClearColor)
				assert.Equal(t, ps.Drawables, gp.Drawables)
				assert.Equal(t, len(ps.Inputs), len(gp.Inputs))
			}
			assert.Equal(t, cf.Passes[2].Inputs, got.Passes[2].Inputs)
			assert.NoError(t, got.Validate())
		})
	}
	assert.ErrorIs(t, Save(defaults(), filepath.Join(dir, "render.json")), ErrFormat)
	assert.ErrorIs(t, Open(&Config{}, "render.ini"), ErrFormat)
}

func TestOpenFS(t *testing.T) {
	fsys := fstest.MapFS{
		"over.toml": {Data: []byte("Width = 640\n[Camera]\nDistance = 30\n")},
		"over.yaml": {Data: []byte("height: 480\nlight:\n  spin: 10\n")},
		"bad.toml":  {Data: []byte("[[Globals]]\nName = 'u_time'\nType = 'Float64'\n")},
	}
	cf := defaults()
	require.NoError(t, OpenFS(cf, fsys, "over.toml"))
	require.NoError(t, OpenFS(cf, fsys, "over.yaml"))
	assert.Equal(t, image.Pt(640, 480), cf.Size())
	assert.Equal(t, float32(30), cf.Camera.Distance)
	assert.Equal(t, float32(-45), cf.Camera.Pitch)
	assert.Equal(t, float32(10), cf.Light.Spin)
	assert.Len(t, cf.Passes, 3)

	assert.Error(t, OpenFS(&Config{}, fsys, "bad.toml"))
	assert.Error(t, OpenFS(&Config{}, fsys, "missing.yaml"))
}

func TestMerge(t *testing.T) {
	cf := defaults()
	over := &Config{Width: 320, Camera: Camera{Distance: 40}, AutoOrder: true}
	require.NoError(t, Merge(cf, over))
	assert.Equal(t, 320, cf.Width)
	assert.Equal(t, 768, cf.Height)
	assert.Equal(t, float32(40), cf.Camera.Distance)
	assert.Equal(t, float32(45), cf.Camera.FOV)
	assert.True(t, cf.AutoOrder)
	assert.Len(t, cf.Passes, 3)
}
