package particles

import (
	"testing"

	"github.com/Tinaynox/maze-sub011/engine/math"
	"github.com/Tinaynox/maze-sub011/engine/renderer"
	"github.com/Tinaynox/maze-sub011/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVAO struct{}

func (v *stubVAO) Name() string                                                { return "particle-quad" }
func (v *stubVAO) SetMesh(*metadata.SubMesh)                                   {}
func (v *stubVAO) SetIndices(metadata.VertexAttributeType, int, []byte)        {}
func (v *stubVAO) SetVerticesData(metadata.VertexAttributeDescription, []byte) {}
func (v *stubVAO) ReadAsSubMesh() *metadata.SubMesh                            { return nil }
func (v *stubVAO) IndicesCount() int                                           { return 6 }
func (v *stubVAO) IndicesType() metadata.VertexAttributeType                   { return metadata.VertexAttributeTypeU16 }
func (v *stubVAO) RenderDrawTopology() metadata.RenderDrawTopology             { return metadata.RenderDrawTopologyTriangles }
func (v *stubVAO) SetRenderDrawTopology(metadata.RenderDrawTopology)           {}

type stubExecutor struct{}

func (e *stubExecutor) MaxInstancesPerDrawCall() int32    { return 1024 }
func (e *stubExecutor) MaxInstancesPerDraw() int32        { return 1024 }
func (e *stubExecutor) Execute(queue *renderer.RenderQueue) {}

type stubViewer struct {
	position math.Vec3
}

func (v stubViewer) ViewPosition() math.Vec3 { return v.position }
func (v stubViewer) Forward() math.Vec3      { return math.Vec3{Z: -1} }
func (v stubViewer) Up() math.Vec3           { return math.NewVec3Up() }

func spawn(p *Particles3D, lifes ...float32) {
	first := p.AliveCount()
	p.AddAliveCount(int32(len(lifes)))
	for i, life := range lifes {
		index := first + int32(i)
		p.Life(index).Current = life
		p.Life(index).Initial = life
		*p.Position(index) = math.Vec3{X: float32(index)}
		p.Size(index).Current = 1
	}
}

func TestParticlesUpdateCompactsDeadParticles(t *testing.T) {
	p := NewParticles3D()
	spawn(p, 1, -1, 2, -0.5, 3)

	p.Update()

	require.Equal(t, int32(3), p.AliveCount())
	xs := make([]float32, 0, 3)
	for i := int32(0); i < p.AliveCount(); i++ {
		assert.GreaterOrEqual(t, p.Life(i).Current, float32(0))
		xs = append(xs, p.Position(i).X)
	}
	assert.Equal(t, []float32{0, 4, 2}, xs)
}

func TestParticlesUpdateComputesBounds(t *testing.T) {
	p := NewParticles3D()
	spawn(p, 1, 1, 1)

	p.Update()

	bounds := p.Bounds()
	assert.Equal(t, math.Vec3{X: -0.5, Y: -0.5, Z: -0.5}, bounds.Min)
	assert.Equal(t, math.Vec3{X: 2.5, Y: 0.5, Z: 0.5}, bounds.Max)
}

func TestParticlesBoundsStayStaleWhenAllDie(t *testing.T) {
	p := NewParticles3D()
	spawn(p, 1, 1)
	p.Update()
	before := p.Bounds()

	p.Life(0).Current = -1
	p.Life(1).Current = -1
	p.Update()

	assert.Equal(t, int32(0), p.AliveCount())
	assert.Equal(t, before, p.Bounds())

	p.Update()
	assert.Equal(t, before, p.Bounds())
}

func TestParticlesAddAliveCountGrowsToPowerOfTwo(t *testing.T) {
	p := NewParticles3D()

	p.AddAliveCount(3)
	assert.Equal(t, int32(4), p.Capacity())

	p.AddAliveCount(1)
	assert.Equal(t, int32(4), p.Capacity())

	p.AddAliveCount(1)
	assert.Equal(t, int32(8), p.Capacity())
	assert.Equal(t, int32(5), p.AliveCount())
	assert.Len(t, p.RenderTransforms(), 5)
	assert.Len(t, p.RenderUVs(), 5)
}

func TestParticlesSetAliveCountClamps(t *testing.T) {
	p := NewParticles3D()
	p.SetCapacity(4)

	p.SetAliveCount(10)
	assert.Equal(t, int32(4), p.AliveCount())

	p.SetAliveCount(-1)
	assert.Equal(t, int32(0), p.AliveCount())

	p.SetAliveCount(3)
	p.SetCapacity(2)
	assert.Equal(t, int32(2), p.AliveCount())
}

func TestParticlesSwapAndClearData(t *testing.T) {
	p := NewParticles3D()
	spawn(p, 1, 2)
	*p.Seed(0) = 7

	p.SwapData(0, 1)
	assert.Equal(t, float32(2), p.Life(0).Current)
	assert.Equal(t, int32(7), *p.Seed(1))
	assert.Equal(t, float32(1), p.Position(0).X)

	p.ClearData(0, 2)
	assert.Equal(t, ParticleLife{}, *p.Life(1))
	assert.Equal(t, int32(0), *p.Seed(1))
}

func TestAnimationCurveEvaluate(t *testing.T) {
	curve := NewAnimationCurve(CurveKey{Time: 1, Value: 0}, CurveKey{Time: 0, Value: 2})

	assert.Equal(t, float32(2), curve.Evaluate(-1))
	assert.InDelta(t, 1.0, curve.Evaluate(0.5), 1e-6)
	assert.Equal(t, float32(0), curve.Evaluate(2))
	assert.Equal(t, float32(0), AnimationCurve{}.Evaluate(0.3))
}

func TestColorGradientEvaluate(t *testing.T) {
	gradient := NewColorGradient(
		GradientKey{Time: 0, Color: math.Vec4{X: 1, W: 1}},
		GradientKey{Time: 1, Color: math.Vec4{Z: 1, W: 0}},
	)

	mid := gradient.Evaluate(0.5)
	assert.InDelta(t, 0.5, mid.X, 1e-6)
	assert.InDelta(t, 0.5, mid.Z, 1e-6)
	assert.InDelta(t, 0.5, mid.W, 1e-6)
	assert.Equal(t, math.Vec4{X: 1, Y: 1, Z: 1, W: 1}, ColorGradient{}.Evaluate(0))
}

func TestParameterF32Sample(t *testing.T) {
	assert.Equal(t, float32(0), ParameterF32{}.Sample(1, 0.5))
	assert.Equal(t, float32(3), NewParameterF32Constant(3).Sample(1, 0.5))

	random := NewParameterF32RandomBetweenConstants(2, 4)
	for seed := int32(0); seed < ParametersCount; seed += 37 {
		value := random.Sample(seed, 0)
		assert.GreaterOrEqual(t, value, float32(2))
		assert.Less(t, value, float32(4))
		assert.Equal(t, value, random.Sample(seed, 0.9), "random constants ignore the scalar")
	}

	curves := NewParameterF32RandomBetweenCurves(
		NewAnimationCurve(CurveKey{Time: 0, Value: 0}, CurveKey{Time: 1, Value: 10}),
		NewAnimationCurve(CurveKey{Time: 0, Value: 0}, CurveKey{Time: 1, Value: 10}),
	)
	assert.InDelta(t, 5.0, curves.Sample(11, 0.5), 1e-5)
}

func TestParameterColorSample(t *testing.T) {
	white := math.Vec4{X: 1, Y: 1, Z: 1, W: 1}
	assert.Equal(t, white, ParameterColor{}.Sample(0, 0))

	red := math.Vec4{X: 1, W: 1}
	blue := math.Vec4{Z: 1, W: 1}
	random := NewParameterColorRandomBetweenColors(red, blue)
	color := random.Sample(5, 0)
	assert.InDelta(t, 1.0, color.X+color.Z, 1e-5)
	assert.Equal(t, float32(1), color.W)
}

func TestParameterModeText(t *testing.T) {
	var mode ParameterF32Mode
	require.NoError(t, mode.UnmarshalText([]byte("random-between-curves")))
	assert.Equal(t, ParameterF32ModeRandomBetweenCurves, mode)
	assert.Error(t, mode.UnmarshalText([]byte("sometimes")))

	var colorMode ParameterColorMode
	require.NoError(t, colorMode.UnmarshalText([]byte("gradient")))
	assert.Equal(t, ParameterColorModeGradient, colorMode)

	var shape ShapeType
	require.NoError(t, shape.UnmarshalText([]byte("torus")))
	assert.Equal(t, ShapeTypeTorus, shape)
}

func TestSeedScalarIsStable(t *testing.T) {
	assert.Equal(t, SeedScalar(12), SeedScalar(12+ParametersCount))
	assert.Equal(t, SeedScalar(12), SeedScalar(-12))
}

func TestRendererModuleFrameUV(t *testing.T) {
	module := DefaultRendererModule()
	assert.Equal(t, math.Vec4{X: 1, Y: 1}, module.frameUV(3))

	module.TextureSheetAnimation.Enabled = true
	module.TextureSheetAnimation.Tiles = math.Vec2I{X: 2, Y: 2}

	assert.Equal(t, math.Vec4{X: 0.5, Y: 0.5, Z: 0, W: 0.5}, module.frameUV(0))
	assert.Equal(t, math.Vec4{X: 0.5, Y: 0.5, Z: 0.5, W: 0.5}, module.frameUV(1))
	assert.Equal(t, math.Vec4{X: 0.5, Y: 0.5, Z: 0.5, W: 0}, module.frameUV(3.7))
	assert.Equal(t, module.frameUV(1), module.frameUV(5))
}

func TestRendererModuleSortsBackToFront(t *testing.T) {
	p := NewParticles3D()
	spawn(p, 1, 1, 1)
	*p.Position(0) = math.Vec3{Z: -1}
	*p.Position(1) = math.Vec3{Z: -5}
	*p.Position(2) = math.Vec3{Z: -3}
	*p.ColorCurrent(0) = math.Vec4{X: 0.1}
	*p.ColorCurrent(1) = math.Vec4{X: 0.5}
	*p.ColorCurrent(2) = math.Vec4{X: 0.3}

	module := DefaultRendererModule()
	module.Alignment = RenderAlignmentWorld
	module.PrepareToRender(p, TransformPolicyWorld, math.NewMat4Identity(), stubViewer{})

	transforms := p.RenderTransforms()
	require.Len(t, transforms, 3)
	assert.Equal(t, math.Vec3{Z: -5}, transforms[0].Translation())
	assert.Equal(t, math.Vec3{Z: -3}, transforms[1].Translation())
	assert.Equal(t, math.Vec3{Z: -1}, transforms[2].Translation())
	assert.Equal(t, []math.Vec4{{X: 0.5}, {X: 0.3}, {X: 0.1}}, p.RenderColors())
	assert.Equal(t, float32(25), *p.SqrDistanceToCamera(1))
}

func TestRendererModuleAppliesWorldTransformToLocalParticles(t *testing.T) {
	p := NewParticles3D()
	spawn(p, 1)
	*p.Position(0) = math.Vec3{X: 1}

	module := DefaultRendererModule()
	world := math.NewMat4Translation(math.Vec3{Y: 10})
	module.PrepareToRender(p, TransformPolicyLocal, world, stubViewer{})

	assert.InDeltaSlice(t, []float32{1, 10, 0}, vec3Slice(p.RenderTransforms()[0].Translation()), 1e-5)
}

func TestRendererModuleSubmitRecordsOneBatch(t *testing.T) {
	p := NewParticles3D()
	spawn(p, 1, 1, 1, 1)

	module := DefaultRendererModule()
	module.PrepareToRender(p, TransformPolicyWorld, math.NewMat4Identity(), stubViewer{position: math.Vec3{Z: 10}})

	queue := renderer.NewRenderQueue(renderer.NewCamera3D(640, 480), &stubExecutor{})
	module.Submit(p, queue, &stubVAO{})

	require.Len(t, queue.Commands(), 1)
	draw, ok := queue.Commands()[0].(*renderer.DrawVAOInstancedCommand)
	require.True(t, ok)
	assert.Equal(t, int32(4), draw.Count)
	assert.True(t, draw.UseColorStream)
	assert.Equal(t, uint8(1), draw.UVMask)
	assert.Len(t, queue.ModelMatrices(), 4)
	assert.Len(t, queue.UVs(0), 4)
}

func vec3Slice(v math.Vec3) []float32 {
	return []float32{v.X, v.Y, v.Z}
}
