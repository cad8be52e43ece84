// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package softgpu

import "cogentcore.org/render/math32"

// The ocean surface is a sum of wave trains, one per cell of a grid
// over the xz plane, each running in a direction within 22.5 degrees
// of +z and fading out within 1.5 cells of its own cell.

const (
	// oceanScale is the number of wave cells per world unit.
	oceanScale = 6.2

	// oceanSampleDistance is the step of the finite differences
	// for the normal, in cells.
	oceanSampleDistance = 0.01
)

// waveHash returns a pseudo random number in [0, 1) for the cell.
func waveHash(id math32.Vector2) float32 {
	d := id.Dot(math32.Vec2(13, 17))
	d -= math32.Pi * math32.Floor(d/math32.Pi)
	return math32.Fract(math32.Sin(d) * 4801)
}

// localWaveHeight is the height of the wave of cell id at pos.
func localWaveHeight(id, pos math32.Vector2, time float32) float32 {
	angle := math32.DegToRad((waveHash(id)-0.5)*45 + 90)
	dir := math32.Vec2(math32.Cos(angle), math32.Sin(angle))
	dist := id.Add(math32.Vec2(0.5, 0.5)).Sub(pos).Length()
	strength := smoothstep(1.5, 0, dist)
	x := pos.Dot(dir)*2.5 + time*5
	return math32.Exp(math32.Sin(x)-1) * strength
}

// oceanHeight is the height of the surface at pos, in cells,
// summing the waves of the 3x3 cells around it.
func oceanHeight(pos math32.Vector2, time, wind float32) float32 {
	id := math32.Vec2(math32.Floor(pos.X), math32.Floor(pos.Y))
	var h float32
	for i := -1; i <= 1; i++ {
		for j := -1; j <= 1; j++ {
			h += localWaveHeight(id.Add(math32.Vec2(float32(i), float32(j))), pos, time)
		}
	}
	return h * wind
}

// oceanNormal returns the world normal of the ocean surface at the
// world xz position. With no wind it is straight up.
func oceanNormal(xz math32.Vector2, time, wind float32) math32.Vector3 {
	if wind == 0 {
		return math32.Vec3(0, 1, 0)
	}
	pos := xz.MulScalar(oceanScale)
	h := oceanHeight(pos, time, wind)
	hx := oceanHeight(pos.Add(math32.Vec2(oceanSampleDistance, 0)), time, wind)
	hz := oceanHeight(pos.Add(math32.Vec2(0, oceanSampleDistance)), time, wind)
	dx := math32.Vec3(oceanSampleDistance, hx-h, 0).Normal()
	dz := math32.Vec3(0, hz-h, oceanSampleDistance).Normal()
	return dz.Cross(dx).Normal()
}
