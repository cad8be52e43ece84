// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package softgpu

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"cogentcore.org/render/base/iox/imagex"
	"cogentcore.org/render/gpu"
	"cogentcore.org/render/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	black = color.RGBA{0, 0, 0, 255}
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
)

func build(t *testing.T, d *Device, vertex, fragment string) gpu.Program {
	t.Helper()
	p, err := gpu.Build(d, Library(), vertex, fragment)
	require.NoError(t, err)
	require.NoError(t, d.UseProgram(p))
	return p
}

func set(t *testing.T, d *Device, p gpu.Program, name string, v gpu.Value) {
	t.Helper()
	sl, err := gpu.Lookup(p, name, v.Type)
	require.NoError(t, err)
	require.NoError(t, d.SetUniform(sl, v))
}

func bind(t *testing.T, d *Device, p gpu.Program, name string, typ gpu.Types, unit int, tex gpu.Texture) {
	t.Helper()
	sl, err := gpu.Lookup(p, name, typ)
	require.NoError(t, err)
	require.NoError(t, d.BindTexture(sl, unit, tex))
}

// setTransform sets the vertex stage matrices: m is the full
// clip-space transform, the world matrix is identity.
func setTransform(t *testing.T, d *Device, p gpu.Program, m math32.Matrix4) {
	set(t, d, p, gpu.UMatrix, gpu.Mat4Value(m))
	set(t, d, p, gpu.UWorldMatrix, gpu.Mat4Value(math32.Identity4()))
	set(t, d, p, gpu.UNormalMatrix, gpu.Mat4Value(math32.Identity4()))
}

func newMesh(t *testing.T, d *Device, positions []float32, indices ...uint32) gpu.Mesh {
	t.Helper()
	m, err := d.NewMesh(&gpu.MeshData{Positions: positions, Indices: indices})
	require.NoError(t, err)
	return m
}

// quad returns a square in the z plane from -s to s, with texcoords.
func quad(t *testing.T, d *Device, s, z float32) gpu.Mesh {
	t.Helper()
	m, err := d.NewMesh(&gpu.MeshData{
		Positions: []float32{-s, -s, z, s, -s, z, s, s, z, -s, s, z},
		Texcoords: []float32{0, 0, 1, 0, 1, 1, 0, 1},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	})
	require.NoError(t, err)
	return m
}

func TestTriangle(t *testing.T) {
	d := New(image.Pt(2, 2))
	defer d.Release()
	p := build(t, d, "transform", "flat")
	setTransform(t, d, p, math32.Identity4())
	set(t, d, p, gpu.UColor, gpu.Vec4Value(math32.Vec4(1, 0, 0, 1)))
	m := newMesh(t, d, []float32{0, 0.5, 0, 0.5, -0.5, 0, -0.5, -0.5, 0}, 0, 1, 2)

	require.NoError(t, d.BeginPass(d.Screen(), image.Rectangle{}, gpu.ClearAll, black))
	require.NoError(t, d.Draw(m, 0, 3))
	require.NoError(t, d.EndPass())

	img := d.ScreenImage()
	assert.Equal(t, red, img.RGBAAt(1, 1))
	assert.Equal(t, red, img.RGBAAt(0, 1))
	assert.Equal(t, black, img.RGBAAt(0, 0))
	assert.Equal(t, black, img.RGBAAt(1, 0))
	assert.InDelta(t, 0.5, d.DepthAt(d.Screen(), 1, 1), 1e-6)
	assert.Equal(t, float32(1), d.DepthAt(d.Screen(), 0, 0))
	imagex.Assert(t, img, "triangle")

	st := d.Stats()
	assert.Equal(t, 1, st.Passes)
	assert.Equal(t, 1, st.Draws)
	assert.Equal(t, 1, st.Triangles)
	assert.Equal(t, 2, st.Fragments)
}

func TestFarVertex(t *testing.T) {
	d := New(image.Pt(2, 2))
	defer d.Release()
	p := build(t, d, "transform", "flat")
	setTransform(t, d, p, math32.Identity4())
	set(t, d, p, gpu.UColor, gpu.Vec4Value(math32.Vec4(1, 0, 0, 1)))
	// the first vertex maps to a screen y beyond the int64 range
	m := newMesh(t, d, []float32{0, -1e19, 0, -3, 3, 0, 3, 3, 0}, 0, 1, 2)

	require.NoError(t, d.BeginPass(d.Screen(), image.Rectangle{}, gpu.ClearAll, black))
	require.NoError(t, d.Draw(m, 0, 3))
	require.NoError(t, d.EndPass())

	img := d.ScreenImage()
	for y := range 2 {
		for x := range 2 {
			assert.Equal(t, red, img.RGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}
}

func TestReverseWinding(t *testing.T) {
	d := New(image.Pt(2, 2))
	defer d.Release()
	p := build(t, d, "transform", "flat")
	setTransform(t, d, p, math32.Identity4())
	set(t, d, p, gpu.UColor, gpu.Vec4Value(math32.Vec4(1, 0, 0, 1)))
	m := newMesh(t, d, []float32{0, 0.5, 0, 0.5, -0.5, 0, -0.5, -0.5, 0}, 0, 2, 1)

	require.NoError(t, d.BeginPass(d.Screen(), image.Rectangle{}, gpu.ClearAll, black))
	require.NoError(t, d.Draw(m, 0, 3))
	require.NoError(t, d.EndPass())
	assert.Equal(t, 2, d.Stats().Fragments)
}

func TestShadowDepth(t *testing.T) {
	d := New(image.Pt(4, 4))
	defer d.Release()
	rt, err := d.NewRenderTarget(gpu.TargetFormat{Size: image.Pt(4, 4), Attachments: gpu.DepthAttachment})
	require.NoError(t, err)
	defer rt.Release()

	p := build(t, d, "transform", "depth")
	setTransform(t, d, p, math32.Projection(4, 4, 10).Mul(math32.Translate4(2, 2, 0)))
	near, far := quad(t, d, 2, 1), quad(t, d, 2, 3)

	// draw order must not matter
	for _, order := range [][]gpu.Mesh{{far, near}, {near, far}} {
		require.NoError(t, d.BeginPass(rt, image.Rectangle{}, gpu.ClearAll, black))
		for _, m := range order {
			require.NoError(t, d.Draw(m, 0, 6))
		}
		require.NoError(t, d.EndPass())
		for y := range 4 {
			for x := range 4 {
				assert.InDelta(t, 0.6, d.DepthAt(rt, x, y), 1e-5)
			}
		}
	}
	assert.Nil(t, d.ColorImage(rt))

	// the depth attachment samples as gray in a later pass
	dt := rt.Attachment(gpu.DepthAttachment)
	require.NotNil(t, dt)
	p2 := build(t, d, "transform", "textured")
	setTransform(t, d, p2, math32.Identity4())
	bind(t, d, p2, gpu.UTexture, gpu.Sampler2D, 0, dt)
	require.NoError(t, d.BeginPass(d.Screen(), image.Rectangle{}, gpu.ClearAll, black))
	require.NoError(t, d.Draw(quad(t, d, 1, 0), 0, 6))
	require.NoError(t, d.EndPass())
	c := d.ScreenImage().RGBAAt(2, 2)
	assert.InDelta(t, 153, int(c.R), 1)
	assert.Equal(t, uint8(255), c.A)
}

func TestDepthTest(t *testing.T) {
	d := New(image.Pt(3, 3))
	defer d.Release()
	p := build(t, d, "transform", "flat")
	setTransform(t, d, p, math32.Identity4())

	require.NoError(t, d.BeginPass(d.Screen(), image.Rectangle{}, gpu.ClearAll, black))
	set(t, d, p, gpu.UColor, gpu.Vec4Value(math32.Vec4(0, 1, 0, 1)))
	require.NoError(t, d.Draw(quad(t, d, 1, 0), 0, 6))
	set(t, d, p, gpu.UColor, gpu.Vec4Value(math32.Vec4(1, 0, 0, 1)))
	require.NoError(t, d.Draw(quad(t, d, 1, 0.5), 0, 6))
	require.NoError(t, d.EndPass())

	img := d.ScreenImage()
	for y := range 3 {
		for x := range 3 {
			assert.Equal(t, green, img.RGBAAt(x, y))
		}
	}
	assert.Equal(t, 9, d.Stats().Fragments)
}

func TestClearPolicy(t *testing.T) {
	d := New(image.Pt(2, 2))
	defer d.Release()
	rt, err := d.NewRenderTarget(gpu.TargetFormat{Size: image.Pt(2, 2), Attachments: gpu.ColorAttachment | gpu.DepthAttachment})
	require.NoError(t, err)
	p := build(t, d, "transform", "flat")
	setTransform(t, d, p, math32.Identity4())
	set(t, d, p, gpu.UColor, gpu.Vec4Value(math32.Vec4(0, 1, 0, 1)))
	m := quad(t, d, 1, 0)

	require.NoError(t, d.BeginPass(rt, image.Rectangle{}, gpu.ClearAll, red))
	assert.Equal(t, red, d.ColorImage(rt).RGBAAt(0, 0))
	require.NoError(t, d.Draw(m, 0, 6))
	require.NoError(t, d.EndPass())
	assert.Equal(t, green, d.ColorImage(rt).RGBAAt(0, 0))
	assert.InDelta(t, 0.5, d.DepthAt(rt, 0, 0), 1e-6)

	require.NoError(t, d.BeginPass(rt, image.Rectangle{}, gpu.ClearNone, red))
	require.NoError(t, d.EndPass())
	assert.Equal(t, green, d.ColorImage(rt).RGBAAt(0, 0))
	assert.InDelta(t, 0.5, d.DepthAt(rt, 0, 0), 1e-6)

	require.NoError(t, d.BeginPass(rt, image.Rectangle{}, gpu.ClearDepth, red))
	require.NoError(t, d.EndPass())
	assert.Equal(t, green, d.ColorImage(rt).RGBAAt(0, 0))
	assert.Equal(t, float32(1), d.DepthAt(rt, 0, 0))
}

func TestViewport(t *testing.T) {
	d := New(image.Pt(4, 4))
	defer d.Release()
	p := build(t, d, "transform", "flat")
	setTransform(t, d, p, math32.Identity4())
	set(t, d, p, gpu.UColor, gpu.Vec4Value(math32.Vec4(1, 0, 0, 1)))
	require.NoError(t, d.BeginPass(d.Screen(), image.Rect(2, 0, 4, 2), gpu.ClearAll, black))
	require.NoError(t, d.Draw(quad(t, d, 1, 0), 0, 6))
	require.NoError(t, d.EndPass())
	img := d.ScreenImage()
	assert.Equal(t, red, img.RGBAAt(3, 0))
	assert.Equal(t, red, img.RGBAAt(2, 1))
	assert.Equal(t, black, img.RGBAAt(1, 0))
	assert.Equal(t, black, img.RGBAAt(3, 2))
}

func TestNearClip(t *testing.T) {
	d := New(image.Pt(8, 8))
	defer d.Release()
	proj, err := math32.Perspective(math32.DegToRad(90), 1, 0.1, 100)
	require.NoError(t, err)
	p := build(t, d, "transform", "flat")
	setTransform(t, d, p, proj)
	set(t, d, p, gpu.UColor, gpu.Vec4Value(math32.Vec4(1, 0, 0, 1)))
	// the apex is behind the viewer
	m := newMesh(t, d, []float32{-1, -1, -2, 1, -1, -2, 0, 1, 1}, 0, 1, 2)

	require.NoError(t, d.BeginPass(d.Screen(), image.Rectangle{}, gpu.ClearAll, black))
	require.NoError(t, d.Draw(m, 0, 3))
	require.NoError(t, d.EndPass())
	img := d.ScreenImage()
	assert.Equal(t, red, img.RGBAAt(4, 5))
	assert.Equal(t, black, img.RGBAAt(4, 7))
	assert.Greater(t, d.Stats().Fragments, 0)
}

func TestLambertShadow(t *testing.T) {
	d := New(image.Pt(2, 2))
	defer d.Release()
	p := build(t, d, "transform", "lambert")
	setTransform(t, d, p, math32.Identity4())
	set(t, d, p, gpu.UColor, gpu.Vec4Value(math32.Vec4(1, 1, 1, 1)))
	set(t, d, p, gpu.ULightDir, gpu.Vec3Value(math32.Vec3(0, 0, -1)))
	set(t, d, p, gpu.UAmbient, gpu.Vec3Value(math32.Vec3(0, 0, 0)))
	set(t, d, p, gpu.ULightProjectionMatrix, gpu.Mat4Value(math32.Identity4()))
	m, err := d.NewMesh(&gpu.MeshData{
		Positions: []float32{-1, -1, 0, 1, -1, 0, 1, 1, 0, -1, 1, 0},
		Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	})
	require.NoError(t, err)

	draw := func() color.RGBA {
		require.NoError(t, d.BeginPass(d.Screen(), image.Rectangle{}, gpu.ClearAll, black))
		require.NoError(t, d.Draw(m, 0, 6))
		require.NoError(t, d.EndPass())
		return d.ScreenImage().RGBAAt(0, 0)
	}
	// no shadow map bound: fully lit
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, draw())

	white, err := d.NewTexture(gpu.NeutralImage(gpu.NeutralWhite))
	require.NoError(t, err)
	bind(t, d, p, gpu.ULightProjectionMap, gpu.Sampler2D, 1, white)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, draw())

	blk, err := d.NewTexture(gpu.NeutralImage(gpu.NeutralBlack))
	require.NoError(t, err)
	bind(t, d, p, gpu.ULightProjectionMap, gpu.Sampler2D, 1, blk)
	assert.Equal(t, black, draw())
}

func TestSpecular(t *testing.T) {
	d := New(image.Pt(2, 2))
	defer d.Release()
	p := build(t, d, "transform", "lambert")
	setTransform(t, d, p, math32.Identity4())
	set(t, d, p, gpu.UColor, gpu.Vec4Value(math32.Vec4(0, 0, 0, 1)))
	set(t, d, p, gpu.ULightDir, gpu.Vec3Value(math32.Vec3(0, 0, -1)))
	set(t, d, p, gpu.UWorldViewerPosition, gpu.Vec3Value(math32.Vec3(0, 0, 5)))
	set(t, d, p, gpu.USpecular, gpu.Vec3Value(math32.Vec3(1, 1, 1)))
	m, err := d.NewMesh(&gpu.MeshData{
		Positions: []float32{-1, -1, 0, 1, -1, 0, 1, 1, 0, -1, 1, 0},
		Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	})
	require.NoError(t, err)
	draw := func() color.RGBA {
		require.NoError(t, d.BeginPass(d.Screen(), image.Rectangle{}, gpu.ClearAll, black))
		require.NoError(t, d.Draw(m, 0, 6))
		require.NoError(t, d.EndPass())
		return d.ScreenImage().RGBAAt(0, 0)
	}

	// a black surface facing both the light and the viewer only shows the highlight
	set(t, d, p, gpu.USpecularExponent, gpu.FloatValue(10))
	c := draw()
	assert.Greater(t, c.R, uint8(240))
	assert.Equal(t, c.R, c.G)
	assert.Equal(t, c.R, c.B)

	// a sharper highlight is dimmer off its center
	set(t, d, p, gpu.USpecularExponent, gpu.FloatValue(1000))
	assert.Less(t, draw().R, c.R)

	set(t, d, p, gpu.USpecularExponent, gpu.FloatValue(0))
	assert.Equal(t, black, draw())

	// no highlights in shadow
	set(t, d, p, gpu.USpecularExponent, gpu.FloatValue(10))
	set(t, d, p, gpu.ULightProjectionMatrix, gpu.Mat4Value(math32.Identity4()))
	blk, err := d.NewTexture(gpu.NeutralImage(gpu.NeutralBlack))
	require.NoError(t, err)
	bind(t, d, p, gpu.ULightProjectionMap, gpu.Sampler2D, 0, blk)
	assert.Equal(t, black, draw())
}

func TestReflectFragment(t *testing.T) {
	env := &shaderEnv{
		color:      math32.Vec4(0, 0, 0.5, 1),
		reflection: math32.Identity4(),
		lightDir:   math32.Vec3(0, -1, 0),
		viewer:     math32.Vec3(0, 5, 0),
	}
	var v varyings
	c, ok := reflectFragment(env, &v)
	require.True(t, ok)
	assert.Equal(t, math32.Vec4(0, 0, 0.5, 1), c)

	env.specular = math32.Vec3(1, 1, 1)
	env.specularExponent = 50
	c, _ = reflectFragment(env, &v)
	assert.InDelta(t, 1, c.X, 1e-5)
	assert.InDelta(t, 1.5, c.Z, 1e-5)

	// waves tilt the highlight away from a viewer straight above
	tilted := func(wind float32) bool {
		env.wind = wind
		for i := range 20 {
			v[0], v[2] = float32(i)*0.037, float32(i)*0.051
			env.viewer = math32.Vec3(v[0], 5, v[2])
			if c, _ := reflectFragment(env, &v); c.X < 0.99 {
				return true
			}
		}
		return false
	}
	assert.False(t, tilted(0))
	assert.True(t, tilted(0.4))
}

func TestOceanNormal(t *testing.T) {
	up := math32.Vec3(0, 1, 0)
	assert.Equal(t, up, oceanNormal(math32.Vec2(0.3, 0.7), 1, 0))

	tilt := func(n math32.Vector3) float32 { return 1 - n.Y }
	found := false
	for i := range 50 {
		xz := math32.Vec2(float32(i)*0.013, float32(i)*0.029)
		h := oceanHeight(xz.MulScalar(oceanScale), 2, 0.1)
		assert.GreaterOrEqual(t, h, float32(0))
		assert.LessOrEqual(t, h, float32(0.9))

		calm, rough := oceanNormal(xz, 2, 0.1), oceanNormal(xz, 2, 0.4)
		assert.InDelta(t, 1, calm.Length(), 1e-5)
		assert.Greater(t, calm.Y, float32(0))
		if tilt(calm) > 1e-4 {
			found = true
			assert.Greater(t, tilt(rough), tilt(calm))
		}
	}
	assert.True(t, found, "no waves")

	// a cell always hashes to the same direction
	id := math32.Vec2(3, -2)
	assert.Equal(t, waveHash(id), waveHash(id))
	assert.GreaterOrEqual(t, waveHash(id), float32(0))
	assert.Less(t, waveHash(id), float32(1))
}

func TestSkybox(t *testing.T) {
	d := New(image.Pt(4, 4))
	defer d.Release()
	var faces [6]image.Image
	for i := range faces {
		faces[i] = imagex.Uniform(image.Pt(2, 2), color.RGBA{uint8(i*40 + 20), 0, 0, 255})
	}
	cube, err := d.NewCubeTexture(faces)
	require.NoError(t, err)

	fp := build(t, d, "transform", "flat")
	setTransform(t, d, fp, math32.Identity4())
	set(t, d, fp, gpu.UColor, gpu.Vec4Value(math32.Vec4(0, 1, 0, 1)))
	sp := build(t, d, "skybox", "sky")
	bind(t, d, sp, gpu.UEnvMap, gpu.SamplerCube, 0, cube)

	draw := func(dir math32.Matrix4) *image.RGBA {
		require.NoError(t, d.BeginPass(d.Screen(), image.Rectangle{}, gpu.ClearAll, black))
		require.NoError(t, d.UseProgram(fp))
		require.NoError(t, d.Draw(quad(t, d, 0.5, 0), 0, 6))
		require.NoError(t, d.UseProgram(sp))
		set(t, d, sp, gpu.UViewDirectionProjectionInverse, gpu.Mat4Value(dir))
		require.NoError(t, d.Draw(quad(t, d, 1, 0), 0, 6))
		require.NoError(t, d.EndPass())
		return d.ScreenImage()
	}

	// looking down +z, the sky only fills what nothing else covers
	img := draw(math32.Identity4())
	assert.Equal(t, color.RGBA{180, 0, 0, 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{180, 0, 0, 255}, img.RGBAAt(3, 2))
	assert.Equal(t, green, img.RGBAAt(1, 1))
	assert.Equal(t, green, img.RGBAAt(2, 2))
	assert.InDelta(t, 0.999995, d.DepthAt(d.Screen(), 0, 0), 1e-6)

	// turned to +x
	img = draw(math32.YRotate4(math32.Pi / 2))
	assert.Equal(t, color.RGBA{20, 0, 0, 255}, img.RGBAAt(0, 3))
	assert.Equal(t, green, img.RGBAAt(1, 2))
}

func TestSample(t *testing.T) {
	d := New(image.Pt(1, 1))
	defer d.Release()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, red)
	img.SetRGBA(1, 1, green)
	tex, err := d.NewTexture(img)
	require.NoError(t, err)
	tx := tex.(*texture)
	assert.Equal(t, math32.Vec4(1, 0, 0, 1), tx.sample(math32.Vec2(0.25, 0.25)))
	assert.Equal(t, math32.Vec4(0, 1, 0, 1), tx.sample(math32.Vec2(0.75, 0.75)))
	// clamp to edge
	assert.Equal(t, math32.Vec4(1, 0, 0, 1), tx.sample(math32.Vec2(-3, -3)))

	// attachments are stored top row first
	at := newColorTexture(d, image.Pt(2, 2), true)
	at.color.SetRGBA(0, 0, red)
	assert.Equal(t, math32.Vec4(1, 0, 0, 1), at.sample(math32.Vec2(0.25, 0.75)))

	var none *texture
	assert.Equal(t, math32.Vec4(0, 0, 0, 1), none.sample(math32.Vec2(0.5, 0.5)))
}

func TestCube(t *testing.T) {
	d := New(image.Pt(1, 1))
	defer d.Release()
	var faces [6]image.Image
	for i := range faces {
		faces[i] = imagex.Uniform(image.Pt(2, 2), color.RGBA{uint8(i * 40), 0, 0, 255})
	}
	tex, err := d.NewCubeTexture(faces)
	require.NoError(t, err)
	tx := tex.(*texture)
	dirs := []math32.Vector3{
		math32.Vec3(1, 0.1, 0), math32.Vec3(-1, 0, 0.2),
		math32.Vec3(0, 1, 0), math32.Vec3(0.3, -1, 0),
		math32.Vec3(0, 0, 1), math32.Vec3(0, 0.5, -1),
	}
	for i, dir := range dirs {
		assert.InDelta(t, float32(i*40)/255, tx.sampleCube(dir).X, 1e-6, "face %d", i)
	}
	assert.Equal(t, math32.Vec4(0, 0, 0, 1), tx.sample(math32.Vec2(0.5, 0.5)))

	p := build(t, d, "transform", "environment")
	sl, err := gpu.Lookup(p, gpu.UEnvMap, gpu.SamplerCube)
	require.NoError(t, err)
	assert.NoError(t, d.BindTexture(sl, 0, tex))
	flat, err := d.NewTexture(gpu.NeutralImage(gpu.NeutralBlack))
	require.NoError(t, err)
	assert.ErrorIs(t, d.BindTexture(sl, 0, flat), gpu.ErrUniformType)
}

func TestFeatures(t *testing.T) {
	d := New(image.Pt(1, 1), WithoutFeatures(gpu.CubeTextures|gpu.FloatDepthTexture))
	defer d.Release()
	assert.False(t, d.Supports(gpu.CubeTextures))
	assert.False(t, d.Supports(gpu.FloatDepthTexture))
	var faces [6]image.Image
	_, err := d.NewCubeTexture(faces)
	assert.ErrorIs(t, err, gpu.ErrUnsupported)
	_, err = d.NewRenderTarget(gpu.TargetFormat{Size: image.Pt(2, 2), Attachments: gpu.DepthAttachment})
	assert.ErrorIs(t, err, gpu.ErrUnsupported)
	_, err = d.NewRenderTarget(gpu.TargetFormat{Size: image.Pt(2, 2), Attachments: gpu.ColorAttachment})
	assert.NoError(t, err)
	assert.True(t, New(image.Pt(1, 1)).Supports(gpu.AllFeatures))
}

func TestCompileLink(t *testing.T) {
	d := New(image.Pt(1, 1))
	defer d.Release()

	_, err := d.CompileShader(gpu.VertexShader, "nope")
	var ce *gpu.CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, gpu.VertexShader, ce.Stage)
	assert.Contains(t, err.Error(), "nope")

	_, err = d.CompileShader(gpu.VertexShader, "flat")
	assert.True(t, errors.As(err, &ce))

	vs, err := d.CompileShader(gpu.VertexShader, " transform\n")
	require.NoError(t, err)
	fs, err := d.CompileShader(gpu.FragmentShader, "lambert")
	require.NoError(t, err)
	_, err = d.LinkProgram(fs, vs)
	var le *gpu.LinkError
	assert.True(t, errors.As(err, &le))

	p, err := d.LinkProgram(vs, fs)
	require.NoError(t, err)
	us := p.Uniforms()
	assert.Len(t, us, 8)
	for i, u := range us {
		assert.Equal(t, int32(i), u.Location)
	}
	assert.Equal(t, 3, d.Live())
	vs.Release()
	fs.Release()
	p.Release()
	assert.Equal(t, 0, d.Live())

	_, err = gpu.Build(d, Library(), "transform", "missing")
	assert.ErrorIs(t, err, gpu.ErrNoShader)
	_, err = gpu.Build(d, gpu.ShaderLibrary{
		gpu.VertexShader:   {"v": "transform"},
		gpu.FragmentShader: {"f": "bogus"},
	}, "v", "f")
	assert.True(t, errors.As(err, &ce))
	assert.Contains(t, err.Error(), `"f"`)

	p, err = gpu.Build(d, Library(), "transform", "reflect")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Live())
	assert.True(t, gpu.HasUniform(p, gpu.UReflectionTexture))
	assert.False(t, gpu.HasUniform(p, gpu.UTexture))
}

func TestErrors(t *testing.T) {
	d := New(image.Pt(2, 2))
	m := quad(t, d, 1, 0)
	assert.ErrorIs(t, d.Draw(m, 0, 6), ErrNoPass)
	assert.ErrorIs(t, d.EndPass(), ErrNoPass)

	require.NoError(t, d.BeginPass(d.Screen(), image.Rectangle{}, gpu.ClearAll, black))
	assert.ErrorIs(t, d.BeginPass(d.Screen(), image.Rectangle{}, gpu.ClearAll, black), ErrInPass)
	assert.ErrorIs(t, d.Draw(m, 0, 6), ErrNoProgram)

	p := build(t, d, "transform", "flat")
	assert.Error(t, d.Draw(m, 3, 6))
	assert.Error(t, d.Draw(m, 0, 4))
	sl, err := gpu.Lookup(p, gpu.UColor, gpu.Float32Vector4)
	require.NoError(t, err)
	assert.ErrorIs(t, d.SetUniform(sl, gpu.Vec3Value(math32.Vec3(1, 1, 1))), gpu.ErrUniformType)

	other := New(image.Pt(2, 2))
	assert.ErrorIs(t, d.Draw(quad(t, other, 1, 0), 0, 6), ErrForeign)
	require.NoError(t, d.EndPass())

	d.Release()
	_, err = d.CompileShader(gpu.VertexShader, "transform")
	assert.ErrorIs(t, err, gpu.ErrReleased)
}
