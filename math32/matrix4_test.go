// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import (
	"math/rand/v2"
	"testing"

	"cogentcore.org/render/base/tolassert"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const StandardTol = float32(1.0e-5)

func AssertEqualMatrix4(t *testing.T, tol float32, expected, actual Matrix4, msgAndArgs ...any) {
	t.Helper()
	tolassert.EqualTolSlice(t, expected[:], actual[:], tol, msgAndArgs...)
}

func AssertEqualVector3(t *testing.T, tol float32, expected, actual Vector3) {
	t.Helper()
	tolassert.EqualTol(t, expected.X, actual.X, tol)
	tolassert.EqualTol(t, expected.Y, actual.Y, tol)
	tolassert.EqualTol(t, expected.Z, actual.Z, tol)
}

func randomAffine(rnd *rand.Rand) Matrix4 {
	f := func(lo, hi float32) float32 { return lo + rnd.Float32()*(hi-lo) }
	return Multiply4(
		Translate4(f(-2, 2), f(-2, 2), f(-2, 2)),
		YRotate4(f(-Pi, Pi)),
		XRotate4(f(-Pi, Pi)),
		ZRotate4(f(-Pi, Pi)),
		Scale4(f(0.5, 2), f(0.5, 2), f(0.5, 2)),
	)
}

func TestMatrix4Elementary(t *testing.T) {
	vx := Vec3(1, 0, 0)
	vy := Vec3(0, 1, 0)
	vz := Vec3(0, 0, 1)

	assert.Equal(t, vx, Identity4().MulPoint(vx))
	assert.Equal(t, Vec3(2, 3, 4), Translate4(2, 3, 4).MulPoint(Vec3(0, 0, 0)))
	assert.Equal(t, Vec3(2, 6, 12), Scale4(2, 3, 4).MulPoint(Vec3(1, 2, 3)))

	AssertEqualVector3(t, StandardTol, vz, XRotate4(DegToRad(90)).MulPoint(vy))
	AssertEqualVector3(t, StandardTol, vx, YRotate4(DegToRad(90)).MulPoint(vz))
	AssertEqualVector3(t, StandardTol, vy, ZRotate4(DegToRad(90)).MulPoint(vx))

	// directions ignore translation
	assert.Equal(t, vx, Translate4(5, 5, 5).MulDirection(vx))

	// 1,0,0 -> scale(2) = 2,0,0 -> rotate z 90 = 0,2,0 -> trans 1,1,0 -> 1,3,0
	// multiplication order is *reverse* of "logical" order:
	m := Multiply4(Translate4(1, 1, 0), ZRotate4(DegToRad(90)), Scale4(2, 2, 2))
	AssertEqualVector3(t, StandardTol, Vec3(1, 3, 0), m.MulPoint(vx))

	assert.Equal(t, Vec3(1, 1, 0), m.Translation())
	assert.True(t, m.IsAffine())
	assert.True(t, m.IsFinite())
	assert.Equal(t, Identity4(), Multiply4())
}

func TestMatrix4TranslateOrigin(t *testing.T) {
	v := Translate4(3.5, -2.25, 7).MulVector4(Vec4(0, 0, 0, 1))
	assert.Equal(t, Vec4(3.5, -2.25, 7, 1), v)
}

func TestMatrix4InverseRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 50; i++ {
		m := randomAffine(rnd)
		inv, err := m.Inverse()
		require.NoError(t, err)
		AssertEqualMatrix4(t, StandardTol, Identity4(), m.Mul(inv), "iteration %d", i)
		AssertEqualMatrix4(t, StandardTol, Identity4(), inv.Mul(m), "iteration %d", i)

		// independent check
		AssertEqualMatrix4(t, 1e-3, Matrix4(mgl32.Mat4(m).Inv()), inv)
	}

	p, err := Perspective(DegToRad(60), 1.5, 1, 2000)
	require.NoError(t, err)
	pinv, err := p.Inverse()
	require.NoError(t, err)
	AssertEqualMatrix4(t, StandardTol, Identity4(), p.Mul(pinv))
}

func TestMatrix4Singular(t *testing.T) {
	_, err := Scale4(1, 0, 1).Inverse()
	assert.ErrorIs(t, err, ErrSingular)

	_, err = Matrix4{}.NormalMatrix()
	assert.ErrorIs(t, err, ErrSingular)

	assert.Panics(t, func() { Matrix4{}.MustInverse() })

	// two equal columns
	_, err = Matrix4{1, 2, 3, 0, 1, 2, 3, 0, 0, 0, 1, 0, 0, 0, 0, 1}.Inverse()
	assert.ErrorIs(t, err, ErrSingular)
}

func TestMatrix4SmallScale(t *testing.T) {
	s := Scale4(1e-4, 1e-4, 1e-4)
	inv, err := s.Inverse()
	require.NoError(t, err)
	tolassert.EqualTol(t, 1e4, inv[0], 1e-1)
	tolassert.EqualTol(t, 1e4, inv[5], 1e-1)
	tolassert.EqualTol(t, 1e4, inv[10], 1e-1)
	AssertEqualMatrix4(t, StandardTol, Identity4(), s.Mul(inv))

	m := Multiply4(Translate4(3, -2, 1), YRotate4(0.7), Scale4(1e-4, 2e-4, 1e-4))
	minv, err := m.Inverse()
	require.NoError(t, err)
	AssertEqualMatrix4(t, StandardTol, Identity4(), m.Mul(minv))
	lin := Multiply4(YRotate4(0.7), Scale4(1e-4, 2e-4, 1e-4))
	p := Vec3(1, 2, 3)
	AssertEqualVector3(t, 1e-4, p, lin.MustInverse().MulPoint(lin.MulPoint(p)))

	_, err = m.NormalMatrix()
	assert.NoError(t, err)

	m3inv, err := Scale3(1e-4, 1e-4).Inverse()
	require.NoError(t, err)
	assert.True(t, Identity3().ApproxEqual(Scale3(1e-4, 1e-4).Mul(m3inv), StandardTol))
}

func TestMatrix4Associativity(t *testing.T) {
	rnd := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 50; i++ {
		a, b, c := randomAffine(rnd), randomAffine(rnd), randomAffine(rnd)
		AssertEqualMatrix4(t, 1e-3, a.Mul(b).Mul(c), a.Mul(b.Mul(c)), "iteration %d", i)
		AssertEqualMatrix4(t, 1e-3, a.Mul(b).Mul(c), Multiply4(a, b, c), "iteration %d", i)
	}
}

func TestMatrix4TransposeDeterminant(t *testing.T) {
	rnd := rand.New(rand.NewPCG(5, 6))
	m := randomAffine(rnd)
	assert.Equal(t, m, m.Transpose().Transpose())
	tolassert.EqualTol(t, m.Determinant(), m.Transpose().Determinant(), 1e-3)
	tolassert.EqualTol(t, mgl32.Mat4(m).Det(), m.Determinant(), 1e-3)
	tolassert.EqualTol(t, 24, Scale4(2, 3, 4).Determinant(), StandardTol)
	assert.Equal(t, float32(3), Translate4(1, 2, 3).Transpose().At(3, 2))
}

func TestMatrix4NormalMatrix(t *testing.T) {
	m := Multiply4(Translate4(4, 5, 6), Scale4(2, 1, 1))
	nm, err := m.NormalMatrix()
	require.NoError(t, err)
	// normal of the x = const plane stays along x after non-uniform scale
	AssertEqualVector3(t, StandardTol, Vec3(0.5, 0, 0), nm.MulDirection(Vec3(1, 0, 0)))
	// diagonal plane normal is corrected, unlike the plain direction transform
	n := nm.MulDirection(Vec3(1, 1, 0)).Normal()
	tangent := m.MulDirection(Vec3(1, -1, 0))
	tolassert.EqualTol(t, 0, n.Dot(tangent), StandardTol)
}

func TestPerspective(t *testing.T) {
	fov := DegToRad(45)
	p, err := Perspective(fov, 1.5, 1, 2000)
	require.NoError(t, err)
	AssertEqualMatrix4(t, StandardTol, Matrix4(mgl32.Perspective(fov, 1.5, 1, 2000)), p)

	near := p.MulPoint(Vec3(0, 0, -1))
	tolassert.EqualTol(t, -1, near.Z, StandardTol)
	far := p.MulPoint(Vec3(0, 0, -2000))
	tolassert.EqualTol(t, 1, far.Z, 1e-4)

	// the top of the frustum at the near plane maps to y = 1
	top := p.MulPoint(Vec3(0, Tan(fov/2), -1))
	tolassert.EqualTol(t, 1, top.Y, StandardTol)

	for _, bad := range [][4]float32{
		{fov, 0, 1, 10},
		{fov, -1, 1, 10},
		{fov, NaN(), 1, 10},
		{0, 1, 1, 10},
		{Pi, 1, 1, 10},
		{fov, 1, 0, 10},
		{fov, 1, 10, 10},
		{fov, 1, 10, 1},
	} {
		_, err := Perspective(bad[0], bad[1], bad[2], bad[3])
		assert.ErrorIs(t, err, ErrBadProjection, "%v", bad)
	}
}

func TestProjection(t *testing.T) {
	p := Projection(20, 20, 10)
	AssertEqualVector3(t, StandardTol, Vec3(-1, 1, 0), p.MulPoint(Vec3(0, 0, 0)))
	AssertEqualVector3(t, StandardTol, Vec3(1, -1, 1), p.MulPoint(Vec3(20, 20, 5)))

	// centered light box, as used for shadow maps
	c := Translate4(1, -1, 0).Mul(p)
	AssertEqualVector3(t, StandardTol, Vec3(0, 0, 0), c.MulPoint(Vec3(0, 0, 0)))
	AssertEqualVector3(t, StandardTol, Vec3(1, 1, 0), c.MulPoint(Vec3(10, -10, 0)))

	o := Orthographic(-1, 1, -1, 1, 0.1, 10)
	AssertEqualMatrix4(t, StandardTol, Matrix4(mgl32.Ortho(-1, 1, -1, 1, 0.1, 10)), o)

	s := Shear4ZY(2)
	assert.Equal(t, Vec3(1, 7, 3), s.MulPoint(Vec3(1, 1, 3)))
}

func TestLookAt(t *testing.T) {
	eye, target, up := Vec3(0, 0, 8), Vec3(0, 0, 0), Vec3(0, 1, 0)
	cam, err := LookAt(eye, target, up)
	require.NoError(t, err)
	view, err := cam.Inverse()
	require.NoError(t, err)
	AssertEqualMatrix4(t, StandardTol, Identity4(), view.Mul(cam))
	AssertEqualMatrix4(t, StandardTol, Identity4(), cam.Mul(view))

	// camera sits at eye, the view matrix puts the target in front (-z)
	assert.Equal(t, eye, cam.Translation())
	AssertEqualVector3(t, StandardTol, Vec3(0, 0, -8), view.MulPoint(target))

	eye2 := Vec3(3, 4, -5)
	target2 := Vec3(-1, 0.5, 2)
	cam2, err := LookAt(eye2, target2, up)
	require.NoError(t, err)
	AssertEqualMatrix4(t, 1e-4, Matrix4(mgl32.LookAtV(mgl32.Vec3{3, 4, -5}, mgl32.Vec3{-1, 0.5, 2}, mgl32.Vec3{0, 1, 0})), cam2.MustInverse())

	_, err = LookAt(eye, eye, up)
	assert.ErrorIs(t, err, ErrDegenerateLookAt)
	_, err = LookAt(Vec3(0, 5, 0), Vec3(0, 0, 0), up)
	assert.ErrorIs(t, err, ErrDegenerateLookAt)
	_, err = LookAt(eye, target, Vec3(0, 0, 0))
	assert.ErrorIs(t, err, ErrDegenerateLookAt)

	// only the direction of up matters
	short, err := LookAt(eye, target, Vec3(0, 1e-6, 0))
	require.NoError(t, err)
	AssertEqualMatrix4(t, StandardTol, cam, short)
}

func TestMatrix3(t *testing.T) {
	v0 := Vec2(0, 0)
	vx := Vec2(1, 0)
	vy := Vec2(0, 1)
	vxy := Vec2(1, 1)

	assert.Equal(t, vx, Identity3().MulVector2AsPoint(vx))
	assert.Equal(t, vxy, Translate3(1, 1).MulVector2AsPoint(v0))
	assert.Equal(t, v0, Translate3(1, 1).MulVector2AsVector(v0))
	assert.Equal(t, vxy.MulScalar(2), Scale3(2, 2).MulVector2AsPoint(vxy))

	tolV := func(expected, actual Vector2) {
		t.Helper()
		tolassert.EqualTol(t, expected.X, actual.X, StandardTol)
		tolassert.EqualTol(t, expected.Y, actual.Y, StandardTol)
	}
	tolV(vy, Rotate3(DegToRad(90)).MulVector2AsPoint(vx))
	tolV(vxy.Normal(), Rotate3(DegToRad(45)).MulVector2AsPoint(vx))

	inv, err := Rotate3(DegToRad(90)).Inverse()
	require.NoError(t, err)
	tolV(vx, inv.MulVector2AsPoint(vy))

	// 1,0 -> scale(2) = 2,0 -> rotate 90 = 0,2 -> trans 1,1 -> 1,3
	m := Multiply3(Translate3(1, 1), Rotate3(DegToRad(90)), Scale3(2, 2))
	tolV(Vec2(1, 3), m.MulVector2AsPoint(vx))
	minv, err := m.Inverse()
	require.NoError(t, err)
	assert.True(t, Identity3().ApproxEqual(m.Mul(minv), StandardTol))
	assert.Equal(t, m, m.Transpose().Transpose())

	_, err = Scale3(0, 1).Inverse()
	assert.ErrorIs(t, err, ErrSingular)

	p := Projection3(200, 100)
	tolV(Vec2(-1, 1), p.MulVector2AsPoint(v0))
	tolV(Vec2(1, -1), p.MulVector2AsPoint(Vec2(200, 100)))

	assert.Equal(t, Matrix3{2, 0, 0, 0, 3, 0, 0, 0, 4}, Matrix3FromMatrix4(Scale4(2, 3, 4)))
}

func TestBoxes(t *testing.T) {
	b := B3Empty()
	assert.True(t, b.IsEmpty())
	b = b.ExpandByPoint(Vec3(-1, -2, -3)).ExpandByPoint(Vec3(1, 2, 3))
	assert.Equal(t, Vec3(0, 0, 0), b.Center())
	assert.Equal(t, Vec3(2, 4, 6), b.Size())
	tb := b.MulMatrix4(Translate4(1, 0, 0))
	assert.Equal(t, Vec3(0, -2, -3), tb.Min)

	r := B2(-0.5, 0.25, 1.5, 2.75).Intersect(B2(0, 0, 2, 2))
	assert.Equal(t, B2(0, 0.25, 1.5, 2), r)
	assert.Equal(t, "(0,0)-(2,2)", r.ToRect().String())
}

func TestTriangle(t *testing.T) {
	a, b, c := Vec2(0, 0), Vec2(1, 0), Vec2(0, 1)
	assert.Greater(t, EdgeFunction(a, b, c), float32(0))
	w, ok := Barycentric2(Vec2(0.25, 0.25), a, b, c)
	require.True(t, ok)
	tolassert.Equal(t, 1, w.X+w.Y+w.Z)
	tolassert.Equal(t, 0.5, w.X)
	_, ok = Barycentric2(Vec2(0.25, 0.25), a, a, c)
	assert.False(t, ok)

	tri := NewTriangle(Vec3(0, 0, 0), Vec3(1, 0, 0), Vec3(0, 1, 0))
	assert.Equal(t, Vec3(0, 0, 1), tri.Normal())
	tolassert.Equal(t, 0.5, tri.Area())
}

func TestRotateAxis4(t *testing.T) {
	angle := DegToRad(33)
	AssertEqualMatrix4(t, StandardTol, XRotate4(angle), RotateAxis4(Vec3(2, 0, 0), angle))
	AssertEqualMatrix4(t, StandardTol, YRotate4(angle), RotateAxis4(Vec3(0, 1, 0), angle))
	AssertEqualMatrix4(t, StandardTol, ZRotate4(angle), RotateAxis4(Vec3(0, 0, 1), angle))
	assert.Equal(t, Identity4(), RotateAxis4(Vector3{}, angle))
}

func TestPowExpFract(t *testing.T) {
	tolassert.Equal(t, 8, Pow(2, 3))
	tolassert.Equal(t, 1, Pow(0.3, 0))
	tolassert.Equal(t, 1, Exp(0))
	tolassert.EqualTol(t, E, Exp(1), StandardTol)
	tolassert.Equal(t, 0.25, Fract(2.25))
	tolassert.Equal(t, 0.75, Fract(-0.25))
}
