// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"context"
	"image"
	"log/slog"

	"cogentcore.org/render/asset"
	"cogentcore.org/render/base/errors"
	"cogentcore.org/render/gpu"
	"cogentcore.org/render/passgraph"
)

// Display is where frames are shown. Its methods are called on the
// goroutine that runs the app, which must also own the device.
type Display interface {

	// Size returns the current size of the display in pixels.
	Size() image.Point

	// NextFrame presents the last rendered frame, if any, waits until
	// the next one is due, and returns its time stamp in milliseconds.
	// It returns false when the display is closed.
	NextFrame(ctx context.Context) (float32, bool)
}

// Run renders frames until the display closes or the context is
// done. Frame errors are logged and rendering continues.
func (a *App) Run(ctx context.Context, d Display) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ts, ok := d.NextFrame(ctx)
		if !ok {
			return ctx.Err()
		}
		a.Resize(d.Size())
		if err := a.RenderFrame(ts); err != nil {
			slog.Error("app: frame failed", "time", ts, "err", err)
		}
	}
}

// Headless is a [Display] without a screen, producing a fixed
// number of frames at a fixed interval as fast as they render.
type Headless struct {

	// Screen is the display size.
	Screen image.Point

	// Frames is the number of frames to render.
	Frames int

	// Step is the time between frames, in milliseconds.
	Step float32

	// OnFrame, if set, is called with each frame number after it
	// renders, before the next one starts.
	OnFrame func(frame int)

	frame int
}

func (h *Headless) Size() image.Point { return h.Screen }

func (h *Headless) NextFrame(ctx context.Context) (float32, bool) {
	if h.frame > 0 && h.OnFrame != nil {
		h.OnFrame(h.frame - 1)
	}
	if h.frame >= h.Frames || ctx.Err() != nil {
		return 0, false
	}
	h.frame++
	return float32(h.frame-1) * h.Step, true
}

// Diagnostic returns the message to show the user in place of the
// rendering when [Setup] fails.
func Diagnostic(err error) string {
	const msg = "Sorry, the scene could not be rendered"
	var le *asset.LoadError
	var se *passgraph.SetupError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, gpu.ErrUnsupported):
		return msg + ": your graphics device might not be supported."
	case errors.As(err, &le):
		return msg + ": the file " + le.Path + " could not be loaded."
	case errors.As(err, &se) && se.Pass != "":
		return msg + ": the " + se.Pass + " pass failed to set up (" + se.Stage + ")."
	}
	return msg + "."
}
