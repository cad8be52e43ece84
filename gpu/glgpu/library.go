// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package glgpu

import (
	"cogentcore.org/render/gpu"
	"cogentcore.org/render/gpu/glsl"
)

// Library returns the shader library for this device.
func Library() gpu.ShaderLibrary {
	return glsl.Library()
}
