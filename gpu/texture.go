// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"image"
	"image/color"

	"cogentcore.org/render/base/iox/imagex"
)

// Texture is an image resident on the device that shaders can sample.
type Texture interface {
	Size() image.Point
	Release()
}

// Attachments are the buffers of a render target, as bit flags.
type Attachments int32

const (
	// ColorAttachment is an RGBA8 color buffer.
	ColorAttachment Attachments = 1 << iota

	// DepthAttachment is a 32 bit float depth buffer.
	DepthAttachment
)

// String returns the names of the set attachments.
func (at Attachments) String() string {
	switch at {
	case ColorAttachment:
		return "color"
	case DepthAttachment:
		return "depth"
	case ColorAttachment | DepthAttachment:
		return "color+depth"
	}
	return fmt.Sprintf("Attachments(%d)", int(at))
}

// Has returns whether all of the given attachments are present.
func (at Attachments) Has(flags Attachments) bool {
	return at&flags == flags
}

// TargetFormat describes the size and attachments of a render target.
// Off-screen targets are created once with a fixed size.
type TargetFormat struct {
	// Size of the target in pixels.
	Size image.Point

	// Attachments of the target.
	Attachments Attachments
}

// String returns human-readable version of format
func (tf TargetFormat) String() string {
	return fmt.Sprintf("Size: %v  Attachments: %v", tf.Size, tf.Attachments)
}

// Validate returns an error if the format cannot be created.
func (tf TargetFormat) Validate() error {
	if tf.Size.X <= 0 || tf.Size.Y <= 0 {
		return fmt.Errorf("gpu: render target size %v must be positive", tf.Size)
	}
	if tf.Attachments&(ColorAttachment|DepthAttachment) == 0 {
		return fmt.Errorf("gpu: render target needs at least one attachment")
	}
	return nil
}

// RenderTarget is a destination for a render pass: an off-screen
// framebuffer whose attachments can be sampled as textures, or the screen.
type RenderTarget interface {
	// Format returns the size and attachments. For the screen the
	// size tracks the display.
	Format() TargetFormat

	// Attachment returns the texture for the given attachment,
	// or nil if there is none (always nil for the screen).
	Attachment(at Attachments) Texture

	// IsScreen returns whether this is the display framebuffer.
	IsScreen() bool

	Release()
}

// ClearPolicy is what to clear when a pass begins.
type ClearPolicy int32

const (
	// ClearAll clears both color and depth.
	ClearAll ClearPolicy = iota

	// ClearNone keeps the existing contents.
	ClearNone

	// ClearDepth clears only depth.
	ClearDepth
)

// String returns the name of the policy.
func (cp ClearPolicy) String() string {
	switch cp {
	case ClearAll:
		return "all"
	case ClearNone:
		return "none"
	case ClearDepth:
		return "depth"
	}
	return fmt.Sprintf("ClearPolicy(%d)", int(cp))
}

// Neutral selects a well-defined stand-in texture that is bound
// in place of a dependency texture that is missing or stale.
type Neutral int32

const (
	// NeutralBlack is opaque black, the "null" color texture.
	NeutralBlack Neutral = iota

	// NeutralWhite is opaque white. As a shadow map it means
	// "far plane everywhere", so nothing is in shadow.
	NeutralWhite

	// NeutralFlatNormal is a normal map texel pointing straight out (+Z).
	NeutralFlatNormal
)

// String returns the name of the neutral texture.
func (nt Neutral) String() string {
	switch nt {
	case NeutralBlack:
		return "black"
	case NeutralWhite:
		return "white"
	case NeutralFlatNormal:
		return "flat-normal"
	}
	return fmt.Sprintf("Neutral(%d)", int(nt))
}

// Color returns the texel color of the neutral texture.
func (nt Neutral) Color() color.RGBA {
	switch nt {
	case NeutralWhite:
		return color.RGBA{255, 255, 255, 255}
	case NeutralFlatNormal:
		return color.RGBA{127, 127, 255, 255}
	}
	return color.RGBA{0, 0, 0, 255}
}

// NeutralImage returns a 1x1 image of the neutral texture.
func NeutralImage(nt Neutral) *image.RGBA {
	return imagex.Uniform(image.Pt(1, 1), nt.Color())
}
