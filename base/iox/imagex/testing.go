// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imagex

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TestingT is the part of *testing.T used by [Assert].
type TestingT interface {
	Errorf(format string, args ...any)
}

// UpdateTestImages makes [Assert] save the rendered images over
// the stored ones. It is set by RENDER_UPDATE_TESTDATA=true.
var UpdateTestImages = os.Getenv("RENDER_UPDATE_TESTDATA") == "true"

// colorTol is the per-channel difference [Assert] accepts.
const colorTol = 2

// Assert compares img against testdata/<name>.png, reporting the first
// differing pixel and saving img as testdata/<name>.fail.png if they
// differ. A missing stored image is created from img.
func Assert(t TestingT, img image.Image, name string) {
	filename := filepath.Join("testdata", name)
	if filepath.Ext(filename) == "" {
		filename += ".png"
	}
	failFilename := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".fail.png"
	if err := os.MkdirAll(filepath.Dir(filename), 0750); err != nil {
		t.Errorf("imagex.Assert: %v", err)
		return
	}

	want, err := Open(filename)
	if UpdateTestImages || errors.Is(err, fs.ErrNotExist) {
		if err := Save(img, filename); err != nil {
			t.Errorf("imagex.Assert: saving %s: %v", filename, err)
		}
		os.Remove(failFilename)
		return
	}
	if err != nil {
		t.Errorf("imagex.Assert: opening %s: %v", filename, err)
		return
	}

	if msg := firstDiff(want, img); msg != "" {
		t.Errorf("imagex.Assert: %s: %s; see %s", filename, msg, failFilename)
		if err := Save(img, failFilename); err != nil {
			t.Errorf("imagex.Assert: saving %s: %v", failFilename, err)
		}
		return
	}
	os.Remove(failFilename)
}

// firstDiff describes the first difference between the images,
// or returns "" if they match within colorTol.
func firstDiff(want, got image.Image) string {
	if want.Bounds() != got.Bounds() {
		return "bounds " + got.Bounds().String() + ", want " + want.Bounds().String()
	}
	b := got.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			wc := color.RGBAModel.Convert(want.At(x, y)).(color.RGBA)
			gc := color.RGBAModel.Convert(got.At(x, y)).(color.RGBA)
			if !closeColors(wc, gc) {
				return image.Pt(x, y).String() + " is " + colorString(gc) + ", want " + colorString(wc)
			}
		}
	}
	return ""
}

func closeColors(a, b color.RGBA) bool {
	near := func(x, y uint8) bool {
		d := int(x) - int(y)
		return d >= -colorTol && d <= colorTol
	}
	return near(a.R, b.R) && near(a.G, b.G) && near(a.B, b.B) && near(a.A, b.A)
}

func colorString(c color.RGBA) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %d)", c.R, c.G, c.B, c.A)
}
