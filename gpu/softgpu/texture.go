// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package softgpu

import (
	"image"

	"cogentcore.org/render/math32"
)

// texture is a 2D color image, a depth buffer, or a cube map.
// Sampling is nearest-neighbor with clamp-to-edge.
type texture struct {
	dev  *Device
	size image.Point

	color *image.RGBA
	depth []float32

	isCube bool
	cube   [6]*image.RGBA

	// attachment textures are framebuffer storage: row 0 is the top
	// of the rendered image, which is texture coordinate v = 1.
	// Uploaded images have row 0 at v = 0.
	attachment bool
	released   bool
}

func newColorTexture(d *Device, size image.Point, attachment bool) *texture {
	return &texture{dev: d, size: size, color: image.NewRGBA(image.Rectangle{Max: size}), attachment: attachment}
}

func newDepthTexture(d *Device, size image.Point) *texture {
	tx := &texture{dev: d, size: size, depth: make([]float32, size.X*size.Y), attachment: true}
	for i := range tx.depth {
		tx.depth[i] = 1
	}
	return tx
}

func (tx *texture) Size() image.Point { return tx.size }

func (tx *texture) Release() {
	if tx.attachment || tx.released {
		return
	}
	tx.released = true
	tx.dev.untrack(tx)
}

// texel returns the pixel coordinates for the given texture coordinates.
func (tx *texture) texel(uv math32.Vector2) (int, int) {
	v := uv.Y
	if tx.attachment {
		v = 1 - v
	}
	x := int(math32.Floor(uv.X * float32(tx.size.X)))
	y := int(math32.Floor(v * float32(tx.size.Y)))
	return min(max(x, 0), tx.size.X-1), min(max(y, 0), tx.size.Y-1)
}

// sample returns the color at the given texture coordinates.
// Depth textures return the depth in all color channels.
// A nil or released texture samples as opaque black.
func (tx *texture) sample(uv math32.Vector2) math32.Vector4 {
	if tx == nil || tx.released || tx.isCube || !uv.IsFinite() {
		return math32.Vec4(0, 0, 0, 1)
	}
	x, y := tx.texel(uv)
	if tx.depth != nil {
		d := tx.depth[y*tx.size.X+x]
		return math32.Vec4(d, d, d, 1)
	}
	return rgbaToVector4(tx.color, x, y)
}

// sampleCube returns the color of the cube map in the given direction,
// selecting the face by the major axis.
func (tx *texture) sampleCube(dir math32.Vector3) math32.Vector4 {
	if tx == nil || tx.released || !tx.isCube || dir.IsNil() {
		return math32.Vec4(0, 0, 0, 1)
	}
	ax, ay, az := math32.Abs(dir.X), math32.Abs(dir.Y), math32.Abs(dir.Z)
	var face int
	var sc, tc, ma float32
	switch {
	case ax >= ay && ax >= az:
		ma = ax
		if dir.X > 0 {
			face, sc, tc = 0, -dir.Z, -dir.Y
		} else {
			face, sc, tc = 1, dir.Z, -dir.Y
		}
	case ay >= az:
		ma = ay
		if dir.Y > 0 {
			face, sc, tc = 2, dir.X, dir.Z
		} else {
			face, sc, tc = 3, dir.X, -dir.Z
		}
	default:
		ma = az
		if dir.Z > 0 {
			face, sc, tc = 4, dir.X, -dir.Y
		} else {
			face, sc, tc = 5, -dir.X, -dir.Y
		}
	}
	img := tx.cube[face]
	sz := img.Bounds().Size()
	u := (sc/ma + 1) * 0.5
	v := (tc/ma + 1) * 0.5
	x := min(max(int(u*float32(sz.X)), 0), sz.X-1)
	y := min(max(int(v*float32(sz.Y)), 0), sz.Y-1)
	return rgbaToVector4(img, x, y)
}

func rgbaToVector4(img *image.RGBA, x, y int) math32.Vector4 {
	c := img.RGBAAt(img.Rect.Min.X+x, img.Rect.Min.Y+y)
	return math32.Vec4(float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255)
}
