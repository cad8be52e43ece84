// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package camera

import (
	"cogentcore.org/render/math32"
)

// Orbit is a camera rig that circles a viewing point at a fixed
// distance, as driven by pointer drags and the wheel.
// Its world matrix is
//
//	T(Viewing) * Ry(Yaw) * Rx(Pitch) * T(0, 0, Distance)
type Orbit struct {

	// Viewing is the world-space point the rig circles around.
	Viewing math32.Vector3

	// Pitch is the rotation about the X axis, in radians.
	// Negative values look down on the viewing point.
	Pitch float32

	// Yaw is the rotation about the Y axis, in radians.
	Yaw float32

	// Distance from the viewing point.
	Distance float32

	// FOV is the vertical field of view in radians.
	FOV float32

	// Near clipping plane distance.
	Near float32

	// Far clipping plane distance.
	Far float32
}

// Defaults sets the rig used by the sailing scene.
func (o *Orbit) Defaults() {
	o.Viewing = math32.Vector3{}
	o.Pitch = math32.DegToRad(-45)
	o.Yaw = 0
	o.Distance = 15
	o.FOV = math32.DegToRad(45)
	o.Near = 0.1
	o.Far = 2000
}

// WorldMatrix returns the camera-to-world matrix of the rig.
func (o Orbit) WorldMatrix() math32.Matrix4 {
	return math32.Multiply4(
		math32.Translate4V(o.Viewing),
		math32.YRotate4(o.Yaw),
		math32.XRotate4(o.Pitch),
		math32.Translate4(0, 0, o.Distance),
	)
}

// Position returns the world-space position of the camera.
func (o Orbit) Position() math32.Vector3 {
	return o.WorldMatrix().Translation()
}

// Mirror returns the rig reflected across the horizontal plane
// through the viewing point, by negating the pitch. This is only a
// true reflection for a horizontal mirror (such as a water surface)
// at the height of the viewing point; it is not a general planar
// reflection.
func (o Orbit) Mirror() Orbit {
	o.Pitch = -o.Pitch
	return o
}

// Matrices returns the view and projection matrices of the rig for
// the given aspect ratio.
func (o Orbit) Matrices(aspect float32) (view, projection math32.Matrix4, err error) {
	view, projection = math32.Identity4(), math32.Identity4()
	if err = checkFrustum(aspect, o.Near, o.Far); err != nil {
		return
	}
	view, err = o.WorldMatrix().Inverse()
	if err != nil {
		return
	}
	projection, err = math32.Perspective(o.FOV, aspect, o.Near, o.Far)
	return
}
