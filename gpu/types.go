// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"

	"cogentcore.org/render/math32"
)

// Types is a list of supported uniform data types.
type Types int32

const (
	UndefinedType Types = iota
	Float32
	Int32
	Float32Vector2
	Float32Vector3
	Float32Vector4
	Float32Matrix3 // std transform matrix: math32.Matrix3 works directly
	Float32Matrix4 // std transform matrix: math32.Matrix4 works directly
	Sampler2D
	SamplerCube
)

var typeNames = [...]string{"Undefined", "Float32", "Int32", "Float32Vector2", "Float32Vector3",
	"Float32Vector4", "Float32Matrix3", "Float32Matrix4", "Sampler2D", "SamplerCube"}

// String returns the name of the type.
func (tp Types) String() string {
	if tp < 0 || int(tp) >= len(typeNames) {
		return fmt.Sprintf("Types(%d)", int(tp))
	}
	return typeNames[tp]
}

// IsSampler returns whether the type is a texture sampler.
func (tp Types) IsSampler() bool {
	return tp == Sampler2D || tp == SamplerCube
}

// NumFloats returns the number of float32 values for float types.
func (tp Types) NumFloats() int {
	switch tp {
	case Float32:
		return 1
	case Float32Vector2:
		return 2
	case Float32Vector3:
		return 3
	case Float32Vector4:
		return 4
	case Float32Matrix3:
		return 9
	case Float32Matrix4:
		return 16
	}
	return 0
}

// Value is a typed uniform value: a tagged variant holding up to
// a 4x4 matrix of floats, or an int.
type Value struct {
	Type Types
	f    [16]float32
	i    int32
}

// FloatValue returns a [Float32] value.
func FloatValue(v float32) Value {
	vl := Value{Type: Float32}
	vl.f[0] = v
	return vl
}

// IntValue returns an [Int32] value.
func IntValue(v int32) Value {
	return Value{Type: Int32, i: v}
}

// Vec2Value returns a [Float32Vector2] value.
func Vec2Value(v math32.Vector2) Value {
	vl := Value{Type: Float32Vector2}
	vl.f[0], vl.f[1] = v.X, v.Y
	return vl
}

// Vec3Value returns a [Float32Vector3] value.
func Vec3Value(v math32.Vector3) Value {
	vl := Value{Type: Float32Vector3}
	vl.f[0], vl.f[1], vl.f[2] = v.X, v.Y, v.Z
	return vl
}

// Vec4Value returns a [Float32Vector4] value.
func Vec4Value(v math32.Vector4) Value {
	vl := Value{Type: Float32Vector4}
	vl.f[0], vl.f[1], vl.f[2], vl.f[3] = v.X, v.Y, v.Z, v.W
	return vl
}

// Mat3Value returns a [Float32Matrix3] value.
func Mat3Value(m math32.Matrix3) Value {
	vl := Value{Type: Float32Matrix3}
	copy(vl.f[:], m[:])
	return vl
}

// Mat4Value returns a [Float32Matrix4] value.
func Mat4Value(m math32.Matrix4) Value {
	return Value{Type: Float32Matrix4, f: m}
}

// Floats returns the float components of the value,
// in column-major order for matrices.
func (vl Value) Floats() []float32 {
	return vl.f[:vl.Type.NumFloats()]
}

// Float returns the value as a float32.
func (vl Value) Float() float32 { return vl.f[0] }

// Int returns the value as an int32.
func (vl Value) Int() int32 { return vl.i }

// Vec3 returns the value as a [math32.Vector3].
func (vl Value) Vec3() math32.Vector3 { return math32.Vec3(vl.f[0], vl.f[1], vl.f[2]) }

// Vec4 returns the value as a [math32.Vector4].
func (vl Value) Vec4() math32.Vector4 { return math32.Vec4(vl.f[0], vl.f[1], vl.f[2], vl.f[3]) }

// Mat4 returns the value as a [math32.Matrix4].
func (vl Value) Mat4() math32.Matrix4 { return math32.Matrix4(vl.f) }

// String returns the type and components of the value.
func (vl Value) String() string {
	if vl.Type == Int32 {
		return fmt.Sprintf("%v(%d)", vl.Type, vl.i)
	}
	return fmt.Sprintf("%v%v", vl.Type, vl.Floats())
}
