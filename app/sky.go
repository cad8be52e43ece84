// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"image"
	"image/color"

	"cogentcore.org/render/math32"
)

// skyFaceSize is the size of the faces of the generated sky.
const skyFaceSize = 64

// cubeDirection returns the direction through the face coordinates
// s, t in [-1, 1] of a cube map face in +X, -X, +Y, -Y, +Z, -Z order.
func cubeDirection(face int, s, t float32) math32.Vector3 {
	switch face {
	case 0:
		return math32.Vec3(1, -t, -s)
	case 1:
		return math32.Vec3(-1, -t, s)
	case 2:
		return math32.Vec3(s, 1, t)
	case 3:
		return math32.Vec3(s, -1, -t)
	case 4:
		return math32.Vec3(s, -t, 1)
	}
	return math32.Vec3(-s, -t, -1)
}

// skyColor is the sky in the given direction: white at and below
// the horizon, fading to the zenith color overhead.
func skyColor(dir math32.Vector3, zenith math32.Vector3) color.RGBA {
	up := math32.Clamp(dir.Normal().Y, 0, 1)
	c := math32.Vec3(1, 1, 1).Lerp(zenith, math32.Sqrt(up))
	ch := func(v float32) uint8 { return uint8(math32.Clamp(v, 0, 1)*255 + 0.5) }
	return color.RGBA{ch(c.X), ch(c.Y), ch(c.Z), 255}
}

// skyFaces returns the faces of a sky cube map with the given
// zenith color.
func skyFaces(zenith math32.Vector3) [6]image.Image {
	var faces [6]image.Image
	for f := range faces {
		img := image.NewRGBA(image.Rect(0, 0, skyFaceSize, skyFaceSize))
		for y := range skyFaceSize {
			for x := range skyFaceSize {
				s := (float32(x)+0.5)/skyFaceSize*2 - 1
				t := (float32(y)+0.5)/skyFaceSize*2 - 1
				img.SetRGBA(x, y, skyColor(cubeDirection(f, s, t), zenith))
			}
		}
		faces[f] = img
	}
	return faces
}
