// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sail is the sailing game: a boat pushed by the wind in the
// direction the player steers, through levels of increasing wind.
package sail

import (
	"log/slog"

	"cogentcore.org/render/input"
	"cogentcore.org/render/math32"
)

const (
	// LandChunkSize is the length of one chunk of the land map.
	LandChunkSize = 96

	// LandChunks is the number of chunks in the land map.
	LandChunks = 3

	// MaxVelocity is the maximum speed, in units per millisecond.
	MaxVelocity = 0.05

	// Acceleration per millisecond per unit of wind strength.
	Acceleration = 0.00025

	// Deceleration per millisecond.
	Deceleration = 0.00002

	// WindStep is the wind strength added at each level.
	WindStep = 0.005

	// MaxWindStrength is the strongest the wind gets.
	MaxWindStrength = 0.4

	// OceanSize is the width and depth of the ocean plane around the boat.
	OceanSize = 4000
)

// SailDirection is the angle of the sailing course off the wind, in radians.
var SailDirection = math32.DegToRad(20)

// Game is the state of the sailing game. Locations are in the XZ plane,
// with the boat sailing towards -Z.
type Game struct {

	// Started is set by the first sailing input.
	Started bool

	// Level is incremented each time the boat passes the land map.
	Level int

	// WindStrength scales the acceleration.
	WindStrength float32

	// Sailing is the current sailing direction.
	Sailing input.Directions

	// SailTranslateY lowers the sails into the boat when not sailing.
	SailTranslateY float32

	// SailScaleX mirrors the sails to the side of the wind.
	SailScaleX float32

	// SailScaleY and SailFrontScaleXY furl the sails when not sailing.
	SailScaleY       float32
	SailFrontScaleXY float32

	// Location of the boat: x and z.
	Location math32.Vector2

	// Velocity of the boat per millisecond: x and z.
	Velocity math32.Vector2

	// Time is the game time in milliseconds, animating the boat.
	Time float32
}

// NewGame returns a new game in its initial state.
func NewGame() *Game {
	gm := &Game{}
	gm.Defaults()
	return gm
}

// Defaults resets the game to its initial state.
func (gm *Game) Defaults() {
	*gm = Game{
		WindStrength:     0.1,
		SailScaleX:       1,
		SailScaleY:       1,
		SailFrontScaleXY: 1,
	}
}

// LandMapOffset returns the location of the far edge of the current
// land map. Passing it moves to the next level.
func (gm *Game) LandMapOffset() math32.Vector2 {
	return math32.Vec2(0, -LandChunkSize*(float32(gm.Level)+(LandChunks*0.5-0.5)))
}

// Update advances the game by dt milliseconds with the given sailing
// direction, and returns whether a new level was reached.
func (gm *Game) Update(dt float32, dir input.Directions) bool {
	gm.Time += dt
	gm.Sailing = dir
	if !gm.Started {
		if dir != input.None {
			gm.Started = true
		}
		return false
	}

	if dir != input.None {
		gm.SailTranslateY = max(gm.SailTranslateY-dt*0.0045, 0)
		gm.SailScaleY = min(gm.SailScaleY+dt*0.0018, 1)
		gm.SailFrontScaleXY = min(gm.SailFrontScaleXY+dt*0.002, 1)

		course := SailDirection
		gm.SailScaleX = 1
		if dir == input.Left {
			course = -SailDirection
			gm.SailScaleX = -1
		}
		acc := gm.WindStrength * dt * Acceleration
		gm.Velocity.X += acc * math32.Sin(course)
		gm.Velocity.Y -= acc * math32.Cos(course)
	} else {
		gm.SailTranslateY = min(gm.SailTranslateY+dt*0.0045, 2.25)
		gm.SailScaleY = max(gm.SailScaleY-dt*0.0018, 0.1)
		gm.SailFrontScaleXY = max(gm.SailFrontScaleXY-dt*0.002, 0)
	}

	gm.Velocity = gm.Velocity.MulScalar(slowDownFactor(gm.Velocity, dt))
	gm.Location = gm.Location.Add(gm.Velocity.MulScalar(dt))

	if gm.Location.Y < gm.LandMapOffset().Y {
		gm.Level++
		gm.WindStrength = min(gm.WindStrength+WindStep, MaxWindStrength)
		slog.Info("sail: next level", "level", gm.Level, "windStrength", gm.WindStrength)
		return true
	}
	return false
}

// slowDownFactor returns the factor to scale the velocity by: capping
// it at [MaxVelocity], and otherwise slowing it down by [Deceleration].
func slowDownFactor(v math32.Vector2, dt float32) float32 {
	l := v.Length()
	if l > MaxVelocity {
		return MaxVelocity / l
	}
	slow := dt * Deceleration
	if l < slow {
		return 0
	}
	return (l - slow) / l
}

// Viewing returns the point the camera rig circles: the boat location.
func (gm *Game) Viewing() math32.Vector3 {
	return math32.Vec3(gm.Location.X, 0, gm.Location.Y)
}

// BoatMatrix returns the world matrix of the hull, rocking on the waves.
func (gm *Game) BoatMatrix() math32.Matrix4 {
	return math32.Multiply4(
		math32.Translate4(gm.Location.X, 0, gm.Location.Y),
		math32.XRotate4(math32.Sin(gm.Time*0.0011)*0.03+0.03),
		math32.Translate4(0, math32.Sin(gm.Time*0.0017)*0.05, 0),
	)
}

// SailMatrix returns the world matrix of the main sails.
func (gm *Game) SailMatrix() math32.Matrix4 {
	return math32.Multiply4(
		gm.BoatMatrix(),
		math32.Translate4(0, gm.SailTranslateY, 0),
		math32.Scale4(gm.SailScaleX, gm.SailScaleY, 1),
	)
}

// SailFrontMatrix returns the world matrix of the front sail. It is
// singular while the sail is fully furled.
func (gm *Game) SailFrontMatrix() math32.Matrix4 {
	s := gm.SailFrontScaleXY
	return gm.BoatMatrix().Mul(math32.Scale4(s*gm.SailScaleX, s, 1))
}

// OceanMatrix returns the world matrix of the unit ocean plane,
// centered on the boat.
func (gm *Game) OceanMatrix() math32.Matrix4 {
	return math32.Translate4(gm.Location.X, 0, gm.Location.Y).Mul(math32.Scale4(OceanSize, 1, OceanSize))
}
