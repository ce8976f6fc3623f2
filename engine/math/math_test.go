package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 3, Clamp(5, 0, 3))
	assert.Equal(t, float32(0), Clamp01(float32(-2)))
	assert.Equal(t, float32(0.25), Clamp01(float32(0.25)))
}

func TestNextPowerOfTwo(t *testing.T) {
	assert.Equal(t, 1, NextPowerOfTwo(0))
	assert.Equal(t, 1, NextPowerOfTwo(1))
	assert.Equal(t, 8, NextPowerOfTwo(5))
	assert.Equal(t, 16, NextPowerOfTwo(16))
}

func TestRoundAndFract(t *testing.T) {
	assert.Equal(t, float32(3), Round(2.5))
	assert.Equal(t, float32(-3), Round(-2.5))
	assert.InDelta(t, 0.25, Fract(4.25), 1e-6)
	assert.InDelta(t, 0.75, Fract(-0.25), 1e-6)
}

func TestTranslationThenInverse(t *testing.T) {
	m := NewMat4Scale(NewVec3(2, 2, 2)).Mul(NewMat4Translation(NewVec3(1, 2, 3)))
	p := NewVec3(1, 1, 1).Transform(m)
	assert.True(t, p.Compare(NewVec3(3, 4, 5), 1e-5))

	back := p.Transform(m.Inverse())
	assert.True(t, back.Compare(NewVec3(1, 1, 1), 1e-5))
}

func TestQuaternionRotatesAroundY(t *testing.T) {
	q := NewQuatFromAxisAngle(NewVec3Up(), K_HALF_PI, true)
	p := NewVec3(1, 0, 0).Transform(q.ToMat4())
	assert.True(t, p.Compare(NewVec3(0, 0, -1), 1e-5), "got %v", p)
}

func TestEulerZMatchesQuaternion(t *testing.T) {
	q := NewQuatFromAxisAngle(NewVec3(0, 0, 1), 0.7, true)
	a := NewVec3(1, 2, 0).Transform(q.ToMat4())
	b := NewVec3(1, 2, 0).Transform(NewMat4EulerZ(0.7))
	assert.True(t, a.Compare(b, 1e-5))
}

func TestTransformParent(t *testing.T) {
	parent := TransformFromPosition(NewVec3(10, 0, 0))
	child := TransformFromPosition(NewVec3(0, 1, 0))
	child.Parent = parent

	p := NewVec3Zero().Transform(child.GetWorld())
	assert.True(t, p.Compare(NewVec3(10, 1, 0), 1e-5))
}

func TestTransformRotateAccumulates(t *testing.T) {
	transform := TransformFromPosition(NewVec3(0, 0, 5))
	step := NewQuatFromAxisAngle(NewVec3Up(), K_HALF_PI/2, true)
	transform.Rotate(step)
	transform.Rotate(step)

	p := NewVec3(1, 0, 0).Transform(transform.GetLocal())
	assert.True(t, p.Compare(NewVec3(0, 0, 4), 1e-5), "got %v", p)

	transform.SetRotation(NewQuatIdentity())
	p = NewVec3(1, 0, 0).Transform(transform.GetLocal())
	assert.True(t, p.Compare(NewVec3(1, 0, 5), 1e-5), "got %v", p)
}

func TestRectIntersect(t *testing.T) {
	a := Rect2I{X: 0, Y: 0, Width: 100, Height: 100}
	b := Rect2I{X: 50, Y: 60, Width: 100, Height: 100}
	assert.Equal(t, Rect2I{X: 50, Y: 60, Width: 50, Height: 40}, a.Intersect(b))

	c := Rect2I{X: 200, Y: 200, Width: 10, Height: 10}
	assert.Equal(t, int32(0), a.Intersect(c).Width)
}

func TestExtentsUnion(t *testing.T) {
	a := NewExtents3DFromPoint(NewVec3Zero(), 1)
	b := NewExtents3DFromPoint(NewVec3(5, 0, 0), 1)
	u := a.Union(b)
	assert.Equal(t, NewVec3(-1, -1, -1), u.Min)
	assert.Equal(t, NewVec3(6, 1, 1), u.Max)
}
