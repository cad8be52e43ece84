// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"log/slog"

	"cogentcore.org/render/gpu"
)

// Pass and view names of the default scene.
const (
	PassShadow     = "shadow"
	PassReflection = "reflection"
	PassMain       = "main"

	ViewCamera = "camera"
	ViewMirror = "mirror"
	ViewLight  = "light"
)

var sky = [4]uint8{135, 190, 235, 255}

// Defaults sets the sailing scene: a shadow pass from the light,
// a reflection pass from the mirrored camera, and the main pass
// to the screen that samples both. The sky is drawn last in the
// color passes, behind everything else.
func (cf *Config) Defaults() {
	*cf = Config{
		Width:    1024,
		Height:   768,
		LogLevel: slog.LevelWarn,
		Camera: Camera{
			Pitch:    -45,
			Distance: 15,
			FOV:      45,
			Near:     0.1,
			Far:      2000,
		},
		Light: Light{
			Pitch:   20,
			Yaw:     -60,
			Width:   20,
			Height:  20,
			Depth:   10,
			Ambient:  0.4,
			Specular: 1,
		},
		Game: true,
	}
	cf.Objects = []Object{
		{Name: "boat", Shape: ShapeSailboat, Size: 1, Color: [4]float32{0.55, 0.35, 0.2, 1}, SpecularExponent: 40, Role: RoleBoat},
		{Name: "sail", Shape: ShapeSail, Size: 1, Color: [4]float32{0.95, 0.95, 0.9, 1}, Role: RoleSail},
		{Name: "sail-front", Shape: ShapeSail, Size: 0.6, Color: [4]float32{0.95, 0.95, 0.9, 1}, Role: RoleSailFront, Position: [3]float32{0, 0, -1.2}},
		{Name: "ocean", Shape: ShapePlane, Size: 1, Color: [4]float32{0.05, 0.2, 0.35, 1}, SpecularExponent: 200, Role: RoleOcean},
		{Name: "sky", Shape: ShapeSkybox, Color: [4]float32{0.25, 0.5, 0.85, 1}},
	}
	cf.Globals = []Global{
		{gpu.ULightDir, gpu.Float32Vector3},
		{gpu.UAmbient, gpu.Float32Vector3},
		{gpu.ULightProjectionMatrix, gpu.Float32Matrix4},
		{gpu.UReflectionMatrix, gpu.Float32Matrix4},
		{gpu.UWorldViewerPosition, gpu.Float32Vector3},
		{gpu.UTime, gpu.Float32},
		{gpu.USpecular, gpu.Float32Vector3},
		{gpu.UWindStrength, gpu.Float32},
	}
	boat := []string{"boat", "sail", "sail-front"}
	skybox := Draw{Vertex: "skybox", Fragment: "sky", Drawables: []string{"sky"}}
	shadowMap := Input{Pass: PassShadow, Attachment: gpu.DepthAttachment, Uniform: gpu.ULightProjectionMap, Neutral: gpu.NeutralWhite}
	cf.Passes = []Pass{
		{
			Name:        PassShadow,
			Size:        [2]int{1024, 1024},
			Attachments: gpu.DepthAttachment,
			Vertex:      "transform",
			Fragment:    "depth",
			Drawables:   append(boat, "ocean"),
			View:        ViewLight,
		},
		{
			Name:        PassReflection,
			Size:        [2]int{1024, 1024},
			Attachments: gpu.ColorAttachment | gpu.DepthAttachment,
			ClearColor:  sky,
			Vertex:      "transform",
			Fragment:    "lambert",
			Drawables:   boat,
			Draws:       []Draw{skybox},
			View:        ViewMirror,
			Inputs:      []Input{shadowMap},
		},
		{
			Name:       PassMain,
			Screen:     true,
			ClearColor: sky,
			Vertex:     "transform",
			Fragment:   "lambert",
			Drawables:  boat,
			Draws: []Draw{
				{Vertex: "transform", Fragment: "reflect", Drawables: []string{"ocean"}},
				skybox,
			},
			View: ViewCamera,
			Inputs: []Input{
				shadowMap,
				{Pass: PassReflection, Attachment: gpu.ColorAttachment, Uniform: gpu.UReflectionTexture, Neutral: gpu.NeutralBlack},
			},
		},
	}
}
