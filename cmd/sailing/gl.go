// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"image"
	"runtime"

	"cogentcore.org/render/config"
	"cogentcore.org/render/gpu/glgpu"
	"cogentcore.org/render/input"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	// glfw and the GL context must stay on the main thread
	runtime.LockOSThread()
}

var glfwKeys = map[glfw.Key]input.Codes{
	glfw.KeyLeft:  input.CodeLeftArrow,
	glfw.KeyRight: input.CodeRightArrow,
	glfw.KeyUp:    input.CodeUpArrow,
	glfw.KeyDown:  input.CodeDownArrow,
	glfw.KeyA:     input.CodeA,
	glfw.KeyD:     input.CodeD,
	glfw.KeyEqual: input.CodeEqual,
	glfw.KeyMinus: input.CodeMinus,
}

// window is an [app.Display] on a glfw window, sending its
// events to an [input.State].
type window struct {
	win    *glfw.Window
	in     *input.State
	frames int
}

func newWindow(size image.Point, in *input.State) (*window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	win, err := glfw.CreateWindow(size.X, size.Y, "Sailing", nil, nil)
	if err != nil {
		return nil, err
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	w := &window{win: win, in: in}
	win.SetKeyCallback(w.keyEvent)
	win.SetMouseButtonCallback(w.mouseButtonEvent)
	win.SetCursorPosCallback(w.cursorPosEvent)
	win.SetScrollCallback(w.scrollEvent)
	return w, nil
}

func (w *window) keyEvent(gw *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		gw.SetShouldClose(true)
		return
	}
	code := glfwKeys[key]
	switch action {
	case glfw.Press, glfw.Repeat:
		w.in.KeyDown(code)
	case glfw.Release:
		w.in.KeyUp(code)
	}
}

func (w *window) mouseButtonEvent(gw *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}
	if action == glfw.Press {
		x, y := gw.GetCursorPos()
		w.in.PointerDown(float32(x), float32(y))
	} else {
		w.in.PointerUp()
	}
}

func (w *window) cursorPosEvent(gw *glfw.Window, x, y float64) {
	w.in.PointerMove(float32(x), float32(y))
}

func (w *window) scrollEvent(gw *glfw.Window, xoff, yoff float64) {
	w.in.Wheel(float32(-yoff) * 100)
}

// Size returns the size of the framebuffer, which differs from the
// window size on high DPI screens.
func (w *window) Size() image.Point {
	width, height := w.win.GetFramebufferSize()
	return image.Pt(width, height)
}

func (w *window) NextFrame(ctx context.Context) (float32, bool) {
	if w.frames > 0 {
		w.win.SwapBuffers()
	}
	w.frames++
	glfw.PollEvents()
	if w.win.ShouldClose() || ctx.Err() != nil {
		return 0, false
	}
	return float32(glfw.GetTime() * 1000), true
}

// runGL runs the app in a window on the OpenGL device.
func runGL(ctx context.Context, o *options, cf *config.Config) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw: %w", err)
	}
	defer glfw.Terminate()

	in := input.NewState()
	w, err := newWindow(cf.Size(), in)
	if err != nil {
		return fmt.Errorf("glfw: %w", err)
	}
	defer w.win.Destroy()

	dev, err := glgpu.New(w.Size())
	if err != nil {
		return err
	}
	defer dev.Release()
	return runApp(ctx, o, cf, dev, glgpu.Library(), w, in)
}
