// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package input

import (
	"testing"

	"cogentcore.org/render/base/tolassert"
	"cogentcore.org/render/camera"
	"cogentcore.org/render/math32"
	"github.com/stretchr/testify/assert"
)

func TestDirection(t *testing.T) {
	st := NewState()
	assert.Equal(t, None, st.Direction())

	st.KeyDown(CodeA)
	assert.Equal(t, Left, st.Direction())
	st.KeyDown(CodeRightArrow)
	assert.Equal(t, Right, st.Direction())
	// auto-repeat of the held left key does not steal the direction
	st.KeyDown(CodeLeftArrow)
	assert.Equal(t, Right, st.Direction())

	st.KeyUp(CodeRightArrow)
	assert.Equal(t, Left, st.Direction())
	st.KeyUp(CodeA)
	assert.Equal(t, None, st.Direction())

	st.KeyDown(CodeD)
	st.KeyDown(CodeA)
	st.KeyUp(CodeA)
	assert.Equal(t, Right, st.Direction())
	st.KeyUp(CodeUnknown)
	assert.Equal(t, Right, st.Direction())
	assert.Equal(t, "Right", st.Direction().String())
}

func TestDrag(t *testing.T) {
	st := NewState()
	rig := camera.Orbit{}
	rig.Defaults()

	st.PointerMove(100, 100)
	st.Update(&rig)
	tolassert.EqualTol(t, 0, rig.Yaw, 1e-6)

	st.PointerDown(10, 10)
	assert.True(t, st.Dragging())
	st.PointerMove(20, 10)
	st.PointerMove(30, 14)
	st.PointerUp()
	st.PointerMove(50, 50)
	st.Update(&rig)
	tolassert.EqualTol(t, -20*st.RotateSpeed, rig.Yaw, 1e-6)
	tolassert.EqualTol(t, math32.DegToRad(-45)-4*st.RotateSpeed, rig.Pitch, 1e-6)

	// accumulators are reset
	yaw := rig.Yaw
	st.Update(&rig)
	tolassert.EqualTol(t, yaw, rig.Yaw, 1e-6)
}

func TestClamp(t *testing.T) {
	st := NewState()
	rig := camera.Orbit{}
	rig.Defaults()

	st.PointerDown(0, 0)
	st.PointerMove(0, -10000)
	st.Update(&rig)
	tolassert.EqualTol(t, st.MaxPitch, rig.Pitch, 1e-6)

	for range 40 {
		st.KeyDown(CodeDownArrow)
	}
	st.Update(&rig)
	tolassert.EqualTol(t, st.MinPitch, rig.Pitch, 1e-6)

	st.Wheel(100)
	st.Update(&rig)
	tolassert.EqualTol(t, 16.5, rig.Distance, 1e-4)
	st.KeyDown(CodeEqual)
	st.Update(&rig)
	tolassert.EqualTol(t, 16.5*0.95, rig.Distance, 1e-4)

	st.Wheel(1e6)
	st.Update(&rig)
	tolassert.EqualTol(t, st.MaxDistance, rig.Distance, 1e-6)
	st.Wheel(-1e6)
	st.Update(&rig)
	tolassert.EqualTol(t, st.MinDistance, rig.Distance, 1e-6)
}
