// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package input accumulates pointer, wheel and keyboard events from
// the host between frames, and applies them once per frame to the
// camera rig and the sailing controls.
package input

import (
	"fmt"

	"cogentcore.org/render/camera"
	"cogentcore.org/render/math32"
)

// Directions are the steering directions of the sailing controls.
type Directions int32

const (
	// None is not sailing.
	None Directions = iota
	Left
	Right
)

// String returns the name of the direction.
func (d Directions) String() string {
	switch d {
	case None:
		return "None"
	case Left:
		return "Left"
	case Right:
		return "Right"
	}
	return fmt.Sprintf("Directions(%d)", int(d))
}

// Codes are the keys the controls respond to. Hosts map their own
// key codes onto these, and send [CodeUnknown] for everything else.
type Codes int32

const (
	CodeUnknown Codes = iota
	CodeLeftArrow
	CodeRightArrow
	CodeUpArrow
	CodeDownArrow
	CodeA
	CodeD
	CodeEqual
	CodeMinus
)

// direction returns the steering direction for the key.
func (c Codes) direction() Directions {
	switch c {
	case CodeLeftArrow, CodeA:
		return Left
	case CodeRightArrow, CodeD:
		return Right
	}
	return None
}

// State holds the input accumulated since the last [State.Update].
// Touches are sent as pointer events of the first touch point.
type State struct {

	// RotateSpeed is the rig rotation in radians per pixel of drag.
	RotateSpeed float32

	// ZoomSpeed is the relative change of distance per wheel unit.
	ZoomSpeed float32

	// KeyOrbit is the pitch change in radians per up / down key press.
	KeyOrbit float32

	// KeyZoom is the relative change of distance per +/- key press.
	KeyZoom float32

	// MinPitch and MaxPitch clamp the rig pitch, in radians.
	MinPitch, MaxPitch float32

	// MinDistance and MaxDistance clamp the rig distance.
	MinDistance, MaxDistance float32

	down  bool
	last  math32.Vector2
	drag  math32.Vector2
	pitch float32
	zoom  float32

	pressed [3]bool
	sailing Directions
}

// NewState returns a new state with default speeds and limits.
func NewState() *State {
	st := &State{}
	st.Defaults()
	return st
}

// Defaults sets the default speeds and limits. The pitch stays below
// the horizon so that the rig looks down on the water.
func (st *State) Defaults() {
	st.RotateSpeed = 0.005
	st.ZoomSpeed = 0.001
	st.KeyOrbit = math32.DegToRad(5)
	st.KeyZoom = 0.05
	st.MinPitch = math32.DegToRad(-85)
	st.MaxPitch = math32.DegToRad(-5)
	st.MinDistance = 2
	st.MaxDistance = 100
}

// PointerDown starts a drag at the given position in pixels.
func (st *State) PointerDown(x, y float32) {
	st.down = true
	st.last = math32.Vec2(x, y)
}

// PointerMove accumulates the drag distance while the pointer is down.
func (st *State) PointerMove(x, y float32) {
	if !st.down {
		return
	}
	p := math32.Vec2(x, y)
	st.drag = st.drag.Add(p.Sub(st.last))
	st.last = p
}

// PointerUp ends the drag.
func (st *State) PointerUp() {
	st.down = false
}

// Dragging returns whether the pointer is down.
func (st *State) Dragging() bool {
	return st.down
}

// Wheel accumulates wheel movement; positive values zoom out.
func (st *State) Wheel(delta float32) {
	st.zoom += delta * st.ZoomSpeed
}

// KeyDown handles a key press. Steering keys start sailing in their
// direction, the last one pressed winning; auto-repeats are ignored.
func (st *State) KeyDown(c Codes) {
	switch c {
	case CodeUpArrow:
		st.pitch += st.KeyOrbit
	case CodeDownArrow:
		st.pitch -= st.KeyOrbit
	case CodeEqual:
		st.zoom -= st.KeyZoom
	case CodeMinus:
		st.zoom += st.KeyZoom
	}
	dir := c.direction()
	if dir == None || st.pressed[dir] {
		return
	}
	st.pressed[dir] = true
	st.sailing = dir
}

// KeyUp handles a key release. Releasing a steering key falls back
// to the other one if it is still held, and otherwise stops sailing.
func (st *State) KeyUp(c Codes) {
	dir := c.direction()
	if dir == None {
		return
	}
	st.pressed[dir] = false
	switch {
	case st.pressed[Left]:
		st.sailing = Left
	case st.pressed[Right]:
		st.sailing = Right
	default:
		st.sailing = None
	}
}

// Direction returns the current sailing direction.
func (st *State) Direction() Directions {
	return st.sailing
}

// Update applies the accumulated drag, wheel and key movement to the
// rig and resets it. Dragging right turns the rig left around the
// viewing point, and dragging down raises it.
func (st *State) Update(rig *camera.Orbit) {
	rig.Yaw -= st.drag.X * st.RotateSpeed
	rig.Pitch -= st.drag.Y*st.RotateSpeed - st.pitch
	rig.Pitch = math32.Clamp(rig.Pitch, st.MinPitch, st.MaxPitch)
	rig.Distance *= 1 + st.zoom
	rig.Distance = math32.Clamp(rig.Distance, st.MinDistance, st.MaxDistance)
	st.drag = math32.Vector2{}
	st.pitch = 0
	st.zoom = 0
}
