// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imagex

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// CloneAsRGBA returns an RGBA copy of the supplied image,
// with bounds starting at the origin.
func CloneAsRGBA(src image.Image) *image.RGBA {
	if src == nil {
		return nil
	}
	bounds := src.Bounds()
	img := image.NewRGBA(image.Rectangle{Max: bounds.Size()})
	draw.Draw(img, img.Bounds(), src, bounds.Min, draw.Src)
	return img
}

// AsRGBA returns the image as an RGBA: if it already is one, then
// it returns that image directly. Otherwise it returns a clone.
func AsRGBA(src image.Image) *image.RGBA {
	if src == nil {
		return nil
	}
	if rgba, ok := src.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	return CloneAsRGBA(src)
}

// Uniform returns a new RGBA image of the given size filled with c.
func Uniform(size image.Point, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// FlipVertical flips the rows of the given image in place,
// converting between bottom-up (OpenGL) and top-down row order.
func FlipVertical(img *image.RGBA) {
	sz := img.Bounds().Size()
	row := make([]byte, img.Stride)
	for y := 0; y < sz.Y/2; y++ {
		a := img.Pix[y*img.Stride : (y+1)*img.Stride]
		b := img.Pix[(sz.Y-1-y)*img.Stride : (sz.Y-y)*img.Stride]
		copy(row, a)
		copy(a, b)
		copy(b, row)
	}
}
