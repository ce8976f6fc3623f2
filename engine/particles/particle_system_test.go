package particles

import (
	"sort"
	"testing"

	"github.com/Tinaynox/maze-sub011/engine/math"
	"github.com/Tinaynox/maze-sub011/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig is a stopped, non-looped, one second system with no emission and no forces.
func testConfig() SystemConfig {
	config := DefaultSystemConfig()
	config.Name = "test"
	config.Seed = 42
	config.Main.PlayOnAwake = false
	config.Main.Looped = false
	config.Main.Duration = NewParameterF32Constant(1)
	config.Main.Gravity = NewParameterF32Constant(0)
	config.Main.Emission.EmissionPerSecond = NewParameterF32Constant(0)
	config.Shape.Enabled = false
	config.Renderer.MaxParticles = 100
	return config
}

func TestEmissionPerSecond(t *testing.T) {
	config := testConfig()
	config.Main.Emission.EmissionPerSecond = NewParameterF32Constant(10)
	system := NewParticleSystem3DFromConfig(config)
	system.Play()

	system.Update(0.5)
	assert.InDelta(t, 5, system.Particles().AliveCount(), 1)

	peak := system.Particles().AliveCount()
	for i := 0; i < 20 && system.State() == ParticleSystemStatePlaying; i++ {
		system.Update(0.25)
		peak = math.Max(peak, system.Particles().AliveCount())
	}

	assert.LessOrEqual(t, peak, int32(10))
	assert.Equal(t, ParticleSystemStateNone, system.State())
	assert.Equal(t, int32(0), system.Particles().AliveCount())

	system.Update(1)
	assert.Equal(t, int32(0), system.Particles().AliveCount())
}

func TestEmissionNeverExceedsMaxParticles(t *testing.T) {
	config := testConfig()
	config.Main.Looped = true
	config.Main.Lifetime = NewParameterF32Constant(10)
	config.Main.Emission.EmissionPerSecond = NewParameterF32Constant(1000)
	config.Main.Emission.SetBursts([]Burst{{Time: 0, MinCount: 50, MaxCount: 50}})
	config.Renderer.MaxParticles = 10
	system := NewParticleSystem3DFromConfig(config)
	system.Play()

	for i := 0; i < 5; i++ {
		system.Update(0.3)
		assert.LessOrEqual(t, system.Particles().AliveCount(), int32(10))
	}
	assert.Equal(t, int32(10), system.Particles().AliveCount())
}

func TestBurstEmission(t *testing.T) {
	config := testConfig()
	config.Main.Duration = NewParameterF32Constant(5)
	config.Main.Lifetime = NewParameterF32Constant(10)
	config.Main.Emission.SetBursts([]Burst{{Time: 0.5, MinCount: 3, MaxCount: 3}})
	system := NewParticleSystem3DFromConfig(config)
	system.Play()

	firstTick := 0
	for tick := 1; tick <= 10; tick++ {
		system.Update(0.1)
		alive := system.Particles().AliveCount()
		if firstTick == 0 && alive > 0 {
			firstTick = tick
		}
		if firstTick != 0 {
			assert.Equal(t, int32(3), alive, "tick %d", tick)
		} else {
			assert.Equal(t, int32(0), alive, "tick %d", tick)
		}
	}
	// Five float32 steps of 0.1 land exactly on 0.5.
	assert.Equal(t, 5, firstTick)
}

func TestBurstCountRangeIsSwappedWhenInverted(t *testing.T) {
	config := testConfig()
	config.Main.Lifetime = NewParameterF32Constant(10)
	config.Main.Emission.SetBursts([]Burst{{Time: 0, MinCount: 5, MaxCount: 2}})
	system := NewParticleSystem3DFromConfig(config)
	system.Play()

	system.Update(0.1)

	alive := system.Particles().AliveCount()
	assert.GreaterOrEqual(t, alive, int32(2))
	assert.LessOrEqual(t, alive, int32(5))
}

func TestBurstsRepeatEveryLoop(t *testing.T) {
	config := testConfig()
	config.Main.Looped = true
	config.Main.Lifetime = NewParameterF32Constant(10)
	config.Main.Emission.SetBursts([]Burst{{Time: 0.2, MinCount: 1, MaxCount: 1}})
	system := NewParticleSystem3DFromConfig(config)
	system.Play()

	for i := 0; i < 8; i++ {
		system.Update(0.25)
	}

	assert.Equal(t, int32(2), system.Iteration())
	assert.Equal(t, int32(2), system.Particles().AliveCount())
	assert.Equal(t, ParticleSystemStatePlaying, system.State())
}

func TestSetBurstsSorts(t *testing.T) {
	var emission EmissionModule
	emission.SetBursts([]Burst{{Time: 2}, {Time: 0.5}, {Time: 1}})

	assert.Equal(t, []float32{0.5, 1, 2}, []float32{emission.Bursts[0].Time, emission.Bursts[1].Time, emission.Bursts[2].Time})
}

func perDistanceConfig(policy TransformPolicy) SystemConfig {
	config := testConfig()
	config.Main.Looped = true
	config.Main.TransformPolicy = policy
	config.Main.Lifetime = NewParameterF32Constant(10)
	config.Main.Emission.EmissionPerDistance = NewParameterF32Constant(1)
	return config
}

func TestEmissionPerDistanceWorldSpaceWalksThePath(t *testing.T) {
	system := NewParticleSystem3DFromConfig(perDistanceConfig(TransformPolicyWorld))
	system.Play()
	system.Update(0.01)
	require.Equal(t, int32(0), system.Particles().AliveCount())

	system.Transform().SetPosition(math.NewVec3(3.5, 0, 0))
	system.Update(0.01)

	p := system.Particles()
	require.Equal(t, int32(3), p.AliveCount())
	xs := []float64{}
	for i := int32(0); i < p.AliveCount(); i++ {
		xs = append(xs, float64(p.Position(i).X))
	}
	sort.Float64s(xs)
	assert.InDeltaSlice(t, []float64{1, 2, 3}, xs, 1e-4)

	system.Update(0.01)
	assert.Equal(t, int32(3), p.AliveCount())
}

func TestEmissionPerDistanceKeepsPathWhileRateIsZero(t *testing.T) {
	system := NewParticleSystem3DFromConfig(perDistanceConfig(TransformPolicyWorld))
	system.Play()
	system.Update(0.01)

	system.MainModule().Emission.EmissionPerDistance = NewParameterF32Constant(0)
	system.Transform().SetPosition(math.NewVec3(3.5, 0, 0))
	system.Update(0.01)
	require.Equal(t, int32(0), system.Particles().AliveCount())

	// The distance travelled while the rate was zero still counts.
	system.MainModule().Emission.EmissionPerDistance = NewParameterF32Constant(1)
	system.Update(0.01)
	assert.Equal(t, int32(3), system.Particles().AliveCount())
}

func TestEmissionPerDistanceLocalSpaceEmitsBatch(t *testing.T) {
	system := NewParticleSystem3DFromConfig(perDistanceConfig(TransformPolicyLocal))
	system.Play()
	system.Update(0.01)

	system.Transform().SetPosition(math.NewVec3(3.5, 0, 0))
	system.Update(0.01)

	p := system.Particles()
	require.Equal(t, int32(3), p.AliveCount())
	for i := int32(0); i < p.AliveCount(); i++ {
		assert.Equal(t, math.Vec3{}, *p.Position(i))
	}

	system.Transform().SetPosition(math.NewVec3(3.9, 0, 0))
	system.Update(0.01)
	assert.Equal(t, int32(3), p.AliveCount())

	system.Transform().SetPosition(math.NewVec3(4.5, 0, 0))
	system.Update(0.01)
	assert.Equal(t, int32(4), p.AliveCount())
}

func TestPlayPauseStop(t *testing.T) {
	config := testConfig()
	config.Main.Lifetime = NewParameterF32Constant(10)
	config.Main.Emission.EmissionPerSecond = NewParameterF32Constant(10)
	system := NewParticleSystem3DFromConfig(config)
	assert.Equal(t, ParticleSystemStateNone, system.State())

	system.Play()
	system.Update(0.3)
	assert.Equal(t, ParticleSystemStatePlaying, system.State())
	alive := system.Particles().AliveCount()
	require.Greater(t, alive, int32(0))

	system.Pause()
	system.Update(0.3)
	assert.Equal(t, ParticleSystemStatePause, system.State())
	assert.Equal(t, alive, system.Particles().AliveCount())
	assert.InDelta(t, 0.3, system.Time(), 1e-6)

	system.Play()
	assert.InDelta(t, 0.3, system.Time(), 1e-6)

	system.Stop()
	assert.Equal(t, ParticleSystemStateNone, system.State())
	assert.Equal(t, int32(0), system.Particles().AliveCount())
	assert.Equal(t, float32(0), system.Time())

	system.Update(0.3)
	assert.Equal(t, int32(0), system.Particles().AliveCount())
}

func TestPlayRewindsFinishedIteration(t *testing.T) {
	config := testConfig()
	config.Main.Lifetime = NewParameterF32Constant(10)
	config.Main.Emission.SetBursts([]Burst{{Time: 0, MinCount: 1, MaxCount: 1}})
	system := NewParticleSystem3DFromConfig(config)
	system.Play()

	system.Update(2)
	require.Equal(t, ParticleSystemStatePlaying, system.State())
	require.Equal(t, float32(1), system.Time())

	system.Play()
	assert.Equal(t, float32(0), system.Time())
	assert.Equal(t, int32(1), system.Particles().AliveCount())
}

func TestRestart(t *testing.T) {
	config := testConfig()
	config.Main.Lifetime = NewParameterF32Constant(10)
	config.Main.Emission.EmissionPerSecond = NewParameterF32Constant(10)
	system := NewParticleSystem3DFromConfig(config)
	system.Play()
	system.Update(0.5)

	system.Restart()

	assert.Equal(t, ParticleSystemStatePlaying, system.State())
	assert.Equal(t, float32(0), system.Time())
	assert.Equal(t, int32(0), system.Particles().AliveCount())
}

func TestNonLoopedSystemStopsWhenDone(t *testing.T) {
	config := testConfig()
	config.Main.Lifetime = NewParameterF32Constant(0.5)
	config.Main.Emission.SetBursts([]Burst{{Time: 0, MinCount: 4, MaxCount: 4}})
	system := NewParticleSystem3DFromConfig(config)
	system.Play()

	system.Update(0.1)
	require.Equal(t, int32(4), system.Particles().AliveCount())

	system.Update(1)
	assert.Equal(t, ParticleSystemStateNone, system.State())
}

func TestPrewarmSimulatesFirstIteration(t *testing.T) {
	config := testConfig()
	config.Main.Looped = true
	config.Main.Prewarm = true
	config.Main.Lifetime = NewParameterF32Constant(5)
	config.Main.Emission.EmissionPerSecond = NewParameterF32Constant(10)
	system := NewParticleSystem3DFromConfig(config)

	system.Play()

	assert.Equal(t, int32(1), system.Iteration())
	assert.Less(t, system.Time(), float32(1))
	assert.Greater(t, system.Particles().AliveCount(), int32(5))
}

func TestApplyConfigPlaysOnAwake(t *testing.T) {
	config := testConfig()
	config.Main.PlayOnAwake = true
	system := NewParticleSystem3DFromConfig(config)
	assert.Equal(t, ParticleSystemStatePlaying, system.State())

	config.Main.PlayOnAwake = false
	system.ApplyConfig(config)
	assert.Equal(t, ParticleSystemStatePlaying, system.State(), "a playing system keeps playing")
	assert.Equal(t, "test", system.Config().Name)
}

func TestRecursiveControl(t *testing.T) {
	parent := NewParticleSystem3DFromConfig(testConfig())
	child := NewParticleSystem3D("", 7)
	parent.AddChild(child)

	assert.NotEmpty(t, child.Name())
	assert.Same(t, parent.Transform(), child.Transform().Parent)

	parent.PlayRecursive()
	assert.Equal(t, ParticleSystemStatePlaying, child.State())

	parent.PauseRecursive()
	assert.Equal(t, ParticleSystemStatePause, child.State())

	parent.StopRecursive()
	assert.Equal(t, ParticleSystemStateNone, child.State())

	parent.RestartRecursive()
	assert.Equal(t, ParticleSystemStatePlaying, parent.State())
	assert.Equal(t, ParticleSystemStatePlaying, child.State())

	moved := math.TransformFromPosition(math.NewVec3(0, 2, 0))
	parent.SetTransform(moved)
	assert.Same(t, moved, child.Transform().Parent)
	assert.InDelta(t, 2.0, child.WorldTransform().Translation().Y, 1e-6)
}

func TestShapeModulePlacesParticlesInZone(t *testing.T) {
	config := testConfig()
	config.Main.Lifetime = NewParameterF32Constant(10)
	config.Main.Emission.SetBursts([]Burst{{Time: 0, MinCount: 64, MaxCount: 64}})
	config.Shape.Enabled = true
	config.Shape.Zone = ShapeZone{Type: ShapeTypeSphere, Radius: 2, Shell: true}
	system := NewParticleSystem3DFromConfig(config)
	system.Play()
	system.Update(0.01)

	p := system.Particles()
	require.Equal(t, int32(64), p.AliveCount())
	for i := int32(0); i < p.AliveCount(); i++ {
		assert.InDelta(t, 2.0, p.Position(i).Length(), 1e-4)
		assert.InDelta(t, 1.0, p.Direction(i).Length(), 1e-4)
		assert.GreaterOrEqual(t, *p.Seed(i), int32(0))
		assert.Less(t, *p.Seed(i), int32(ParametersCount))
	}
}

func TestShapeZonesStayInsideVolume(t *testing.T) {
	zones := []ShapeZone{
		{Type: ShapeTypeHemisphere, Radius: 1},
		{Type: ShapeTypeCircle, Radius: 1},
		{Type: ShapeTypeBox, Scale: math.NewVec3(2, 2, 2)},
		{Type: ShapeTypeBox, Scale: math.NewVec3(2, 2, 2), Shell: true},
		{Type: ShapeTypeCone, Radius: 1, Angle: 30, Length: 2},
		{Type: ShapeTypeTorus, Radius: 2, TorusRadius: 0.5, RadiusThickness: 1},
	}

	for _, zone := range zones {
		t.Run(zone.Type.String(), func(t *testing.T) {
			system := NewParticleSystem3D("zone", 1)
			system.shape = ShapeModule{Enabled: true, Zone: zone}
			p := system.Particles()
			p.AddAliveCount(32)
			system.shape.UpdateInitial(p, 0, 32, math.Vec3{}, math.NewMat4Identity(), system.rng)

			for i := int32(0); i < 32; i++ {
				position := *p.Position(i)
				switch zone.Type {
				case ShapeTypeHemisphere:
					assert.LessOrEqual(t, position.Length(), float32(1.0001))
					assert.GreaterOrEqual(t, position.Z, float32(0))
				case ShapeTypeCircle:
					assert.LessOrEqual(t, position.Length(), float32(1.0001))
					assert.Equal(t, float32(0), position.Z)
				case ShapeTypeBox:
					assert.LessOrEqual(t, math.Abs(position.X), float32(1))
					assert.LessOrEqual(t, math.Abs(position.Y), float32(1))
					assert.LessOrEqual(t, math.Abs(position.Z), float32(1))
					if zone.Shell {
						onFace := math.Abs(position.X) == 1 || math.Abs(position.Y) == 1 || math.Abs(position.Z) == 1
						assert.True(t, onFace)
					}
				case ShapeTypeCone:
					assert.GreaterOrEqual(t, p.Direction(i).Z, float32(0))
				case ShapeTypeTorus:
					ring := math.Vec3{X: position.X, Y: position.Y}.Normalize().MulScalar(2)
					assert.LessOrEqual(t, position.Distance(ring), float32(0.5001))
				}
			}
		})
	}
}

func TestRenderRecordsParticles(t *testing.T) {
	config := testConfig()
	config.Main.Lifetime = NewParameterF32Constant(10)
	config.Main.Emission.SetBursts([]Burst{{Time: 0, MinCount: 3, MaxCount: 3}})
	system := NewParticleSystem3DFromConfig(config)
	system.Play()

	camera := renderer.NewCamera3D(640, 480)
	queue := renderer.NewRenderQueue(camera, &stubExecutor{})

	system.Render(queue, &stubVAO{}, camera)
	assert.True(t, queue.IsEmpty())

	system.Update(0.1)
	system.Render(queue, &stubVAO{}, camera)
	require.Len(t, queue.Commands(), 1)
	assert.Len(t, queue.Colors(), 3)
}
