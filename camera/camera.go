// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package camera derives the view and projection matrices used by
// render passes from a small set of human-meaningful parameters:
// a look-at [Camera], the orbiting [Orbit] rig used by the sailing
// scene, and the [DirectionalLight] used for shadow projection.
package camera

import (
	"fmt"
	"image"

	"cogentcore.org/render/base/errors"
	"cogentcore.org/render/math32"
)

var (
	// ErrAspect is returned when the aspect ratio is zero, negative or NaN,
	// for example for a zero-height viewport during layout.
	ErrAspect = errors.New("camera: aspect ratio must be positive")

	// ErrPlanes is returned when the clipping planes do not satisfy 0 < near < far.
	ErrPlanes = errors.New("camera: clipping planes must satisfy 0 < near < far")
)

// Viewer is anything that can produce view and projection matrices
// for a viewport of the given aspect ratio (width / height).
type Viewer interface {
	Matrices(aspect float32) (view, projection math32.Matrix4, err error)
}

// ViewProjection returns projection * view for the given viewer,
// which is the matrix passes use to map world space to clip space.
func ViewProjection(v Viewer, aspect float32) (math32.Matrix4, error) {
	view, prjn, err := v.Matrices(aspect)
	if err != nil {
		return math32.Identity4(), err
	}
	return prjn.Mul(view), nil
}

// Camera defines the properties of a look-at camera.
type Camera struct {

	// Position is the location of the camera in world space.
	Position math32.Vector3

	// Target is where the camera is pointing; it moves with panning movements.
	Target math32.Vector3

	// Up is the up direction for the camera, defaulting to positive Y.
	Up math32.Vector3

	// FOV is the vertical field of view in radians.
	FOV float32

	// Aspect is the aspect ratio (width/height).
	Aspect float32

	// Near is the near plane distance.
	Near float32

	// Far is the far plane distance.
	Far float32

	// Ortho makes the projection orthographic instead of perspective,
	// covering the same field of view at the target distance.
	Ortho bool
}

// Defaults sets the camera to look at the origin from (0, 0, 10)
// with up Y axis and a 45 degree field of view.
func (cm *Camera) Defaults() {
	cm.FOV = math32.DegToRad(45)
	cm.Aspect = 1.5
	cm.Near = 0.1
	cm.Far = 2000
	cm.Position = math32.Vec3(0, 0, 10)
	cm.Target = math32.Vector3{}
	cm.Up = math32.Vec3(0, 1, 0)
	cm.Ortho = false
}

// SetAspect sets the aspect ratio from the given viewport size.
// A viewport with a zero or negative dimension is rejected with
// [ErrAspect] and the previous aspect ratio is kept.
func (cm *Camera) SetAspect(size image.Point) error {
	if size.X <= 0 || size.Y <= 0 {
		return fmt.Errorf("%w: viewport %v", ErrAspect, size)
	}
	cm.Aspect = float32(size.X) / float32(size.Y)
	return nil
}

// ViewVector is the vector between the camera position and target.
func (cm *Camera) ViewVector() math32.Vector3 {
	return cm.Position.Sub(cm.Target)
}

// WorldMatrix returns the camera-to-world matrix, the look-at
// transform placing the camera at Position looking at Target.
func (cm *Camera) WorldMatrix() (math32.Matrix4, error) {
	up := cm.Up
	if up.IsNil() {
		up = math32.Vec3(0, 1, 0)
	}
	return math32.LookAt(cm.Position, cm.Target, up)
}

// ComputeMatrices returns the view and projection matrices for
// the camera's own Aspect.
func (cm *Camera) ComputeMatrices() (view, projection math32.Matrix4, err error) {
	return cm.Matrices(cm.Aspect)
}

// Matrices returns the view matrix (the inverse of [Camera.WorldMatrix])
// and the projection matrix for the given aspect ratio.
func (cm *Camera) Matrices(aspect float32) (view, projection math32.Matrix4, err error) {
	view, projection = math32.Identity4(), math32.Identity4()
	if err = checkFrustum(aspect, cm.Near, cm.Far); err != nil {
		return
	}
	world, err := cm.WorldMatrix()
	if err != nil {
		return
	}
	view, err = world.Inverse()
	if err != nil {
		return
	}
	if cm.Ortho {
		height := 2 * cm.ViewVector().Length() * math32.Tan(cm.FOV*0.5)
		width := aspect * height
		projection = math32.Orthographic(-width/2, width/2, -height/2, height/2, cm.Near, cm.Far)
		return
	}
	projection, err = math32.Perspective(cm.FOV, aspect, cm.Near, cm.Far)
	return
}

func checkFrustum(aspect, near, far float32) error {
	if !(aspect > 0) || math32.IsInf(aspect, 1) {
		return fmt.Errorf("%w: %v", ErrAspect, aspect)
	}
	if !(near > 0) || !(far > near) {
		return fmt.Errorf("%w: near=%v far=%v", ErrPlanes, near, far)
	}
	return nil
}

// Orbit moves the camera along the given 2D axes in radians
// (delX = left/right, delY = up/down),
// relative to current position and orientation,
// keeping the same distance from the Target, and rotating the camera and
// the Up direction vector to keep looking at the target.
func (cm *Camera) Orbit(delX, delY float32) {
	ctdir := cm.ViewVector()
	if ctdir.IsNil() {
		ctdir = math32.Vec3(0, 0, 1)
	}
	up := cm.Up
	if up.IsNil() {
		up = math32.Vec3(0, 1, 0)
	}
	right := up.Cross(ctdir.Normal()).Normal()

	// delX rotates around the up vector, delY around the right vector
	dyq := math32.RotateAxis4(right, delY)
	ctdir = dyq.MulDirection(math32.RotateAxis4(up, delX).MulDirection(ctdir))

	cm.Position = cm.Target.Add(ctdir)
	cm.Up = dyq.MulDirection(up) // this is only one that affects up
}

// Pan moves the camera along the given 2D axes (left/right, up/down),
// relative to current position and orientation (i.e., in the plane of the
// current window view)
// and it moves the target by the same increment, changing the target position.
func (cm *Camera) Pan(delX, delY float32) {
	world, err := cm.WorldMatrix()
	if err != nil {
		return
	}
	right := world.MulDirection(math32.Vec3(-delX, 0, 0))
	up := world.MulDirection(math32.Vec3(0, -delY, 0))
	td := right.Add(up)
	cm.Position = cm.Position.Add(td)
	cm.Target = cm.Target.Add(td)
}

// Zoom moves along axis given pct closer or further from the target
// it always moves the target back also if it distance is < 1
func (cm *Camera) Zoom(zoomPct float32) {
	ctaxis := cm.ViewVector()
	if ctaxis.IsNil() {
		ctaxis = math32.Vec3(0, 0, 1)
	}
	dist := ctaxis.Length()
	del := ctaxis.MulScalar(zoomPct)
	cm.Position = cm.Position.Add(del)
	if zoomPct < 0 && dist < 1 {
		cm.Target = cm.Target.Add(del)
	}
}
