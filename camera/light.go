// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package camera

import (
	"fmt"

	"cogentcore.org/render/base/errors"
	"cogentcore.org/render/math32"
)

// ErrLightPitch is returned when the light pitch is too close to
// horizontal for the sheared shadow projection.
var ErrLightPitch = errors.New("camera: light pitch must be within (-90, 90) degrees")

// DirectionalLight is a light at infinite distance, described by
// its pitch away from straight down and its yaw around the Y axis.
// Its shadow map covers a Width x Height x Depth box centered on Center.
type DirectionalLight struct {

	// Pitch is the angle from straight down, in radians.
	Pitch float32

	// Yaw is the rotation about the Y axis, in radians.
	Yaw float32

	// Center is the world-space point the shadow box is centered on.
	Center math32.Vector3

	// Width of the shadow box.
	Width float32

	// Height of the shadow box.
	Height float32

	// Depth of the shadow box, along the light direction.
	Depth float32
}

// Defaults sets the light used by the sailing scene.
func (dl *DirectionalLight) Defaults() {
	dl.Pitch = math32.DegToRad(20)
	dl.Yaw = math32.DegToRad(-60)
	dl.Center = math32.Vector3{}
	dl.Width = 20
	dl.Height = 20
	dl.Depth = 10
}

// Direction returns the unit direction the light travels in.
func (dl DirectionalLight) Direction() math32.Vector3 {
	sp, cp := math32.Sin(dl.Pitch), math32.Cos(dl.Pitch)
	return math32.Vec3(-sp*math32.Sin(dl.Yaw), -cp, -sp*math32.Cos(dl.Yaw))
}

// ProjectionView returns the matrix mapping world space into the
// light's clip space. The light looks straight down on Center and
// the box is sheared along the pitch so that shadows fall in the
// light direction:
//
//	T(1, -1, 0) * Projection(W, H, D) * ShearZY(tan(pitch)) * inverse(T(Center) * Ry(yaw) * Rx(90deg))
func (dl DirectionalLight) ProjectionView() (math32.Matrix4, error) {
	if !(math32.Abs(dl.Pitch) < math32.DegToRad(89.9)) {
		return math32.Identity4(), fmt.Errorf("%w: %v", ErrLightPitch, dl.Pitch)
	}
	if !(dl.Width > 0 && dl.Height > 0 && dl.Depth > 0) {
		return math32.Identity4(), fmt.Errorf("%w: light box %vx%vx%v", math32.ErrBadProjection, dl.Width, dl.Height, dl.Depth)
	}
	lightWorld := math32.Multiply4(
		math32.Translate4V(dl.Center),
		math32.YRotate4(dl.Yaw),
		math32.XRotate4(math32.DegToRad(90)),
	)
	return math32.Multiply4(
		math32.Translate4(1, -1, 0),
		math32.Projection(dl.Width, dl.Height, dl.Depth),
		math32.Shear4ZY(math32.Tan(dl.Pitch)),
		lightWorld.MustInverse(),
	), nil
}
