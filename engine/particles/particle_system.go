package particles

import (
	"fmt"

	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/math"
	"github.com/Tinaynox/maze-sub011/engine/renderer"
	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

type ParticleSystemState int

const (
	ParticleSystemStateNone ParticleSystemState = iota
	ParticleSystemStatePlaying
	ParticleSystemStatePause
)

func (s ParticleSystemState) String() string {
	switch s {
	case ParticleSystemStateNone:
		return "none"
	case ParticleSystemStatePlaying:
		return "playing"
	case ParticleSystemStatePause:
		return "pause"
	default:
		return fmt.Sprintf("ParticleSystemState(%d)", int(s))
	}
}

// Step used to simulate the first iteration of a prewarmed system.
const prewarmStep float32 = 1.0 / 40.0

/**
 * @brief CPU particle emitter. Each Update ages the alive particles, drops
 * the dead ones and emits new ones per second, per burst and per distance
 * travelled, never exceeding the renderer module's max particles.
 */
type ParticleSystem3D struct {
	name      string
	state     ParticleSystemState
	rng       *rand.Rand
	transform *math.Transform
	children  []*ParticleSystem3D

	particles *Particles3D
	main      MainModule
	shape     ShapeModule
	renderer  RendererModule

	time              float32
	timeEmission      float32
	iteration         int32
	iterationFinished bool
	currentBurstIndex int

	prevWorldPosition      math.Vec3
	prevWorldPositionDirty bool
}

// NewParticleSystem3D creates a stopped system with default modules. An empty name gets a generated one.
func NewParticleSystem3D(name string, seed uint64) *ParticleSystem3D {
	if name == "" {
		name = "particles-" + uuid.NewString()
	}
	return &ParticleSystem3D{
		name:                   name,
		rng:                    rand.New(rand.NewSource(seed)),
		transform:              math.TransformCreate(),
		particles:              NewParticles3D(),
		main:                   DefaultMainModule(),
		shape:                  DefaultShapeModule(),
		renderer:               DefaultRendererModule(),
		prevWorldPositionDirty: true,
	}
}

// NewParticleSystem3DFromConfig creates a system from config and plays it when PlayOnAwake is set.
func NewParticleSystem3DFromConfig(config SystemConfig) *ParticleSystem3D {
	system := NewParticleSystem3D(config.Name, config.Seed)
	system.ApplyConfig(config)
	return system
}

func (s *ParticleSystem3D) Name() string {
	return s.name
}

func (s *ParticleSystem3D) State() ParticleSystemState {
	return s.state
}

func (s *ParticleSystem3D) Particles() *Particles3D {
	return s.particles
}

func (s *ParticleSystem3D) MainModule() *MainModule {
	return &s.main
}

func (s *ParticleSystem3D) ShapeModule() *ShapeModule {
	return &s.shape
}

func (s *ParticleSystem3D) RendererModule() *RendererModule {
	return &s.renderer
}

// Time is the position inside the current iteration.
func (s *ParticleSystem3D) Time() float32 {
	return s.time
}

func (s *ParticleSystem3D) Iteration() int32 {
	return s.iteration
}

func (s *ParticleSystem3D) Children() []*ParticleSystem3D {
	return s.children
}

func (s *ParticleSystem3D) Transform() *math.Transform {
	return s.transform
}

// SetTransform replaces the system transform, keeping its parent and re-parenting the children.
func (s *ParticleSystem3D) SetTransform(transform *math.Transform) {
	if transform == nil {
		transform = math.TransformCreate()
	}
	transform.Parent = s.transform.Parent
	s.transform = transform
	for _, child := range s.children {
		child.transform.Parent = transform
	}
}

func (s *ParticleSystem3D) AddChild(child *ParticleSystem3D) {
	child.transform.Parent = s.transform
	s.children = append(s.children, child)
}

func (s *ParticleSystem3D) WorldTransform() math.Mat4 {
	return s.transform.GetWorld()
}

// Config returns the current modules as a serializable description.
func (s *ParticleSystem3D) Config() SystemConfig {
	return SystemConfig{
		Name:     s.name,
		Main:     s.main,
		Shape:    s.shape,
		Renderer: s.renderer,
	}
}

/**
 * @brief Replaces the modules. The system is stopped, then played again
 * when it was playing before or when PlayOnAwake is set.
 */
func (s *ParticleSystem3D) ApplyConfig(config SystemConfig) {
	config.Normalize()
	wasPlaying := s.state == ParticleSystemStatePlaying

	s.Stop()
	s.main = config.Main
	s.shape = config.Shape
	s.renderer = config.Renderer
	s.main.GenerateDuration(s.rng)

	if wasPlaying || s.main.PlayOnAwake {
		s.Play()
	}
}

func (s *ParticleSystem3D) Play() {
	if s.state == ParticleSystemStatePlaying {
		if s.time >= s.main.CurrentDuration() {
			s.time = 0
			s.timeEmission = 0
			s.iteration = 0
			s.currentBurstIndex = 0
		}
		return
	}

	s.state = ParticleSystemStatePlaying
	s.main.GenerateDuration(s.rng)
	core.LogDebug("particle system '%s' playing, duration %.3f", s.name, s.main.CurrentDuration())

	if s.main.Prewarm && s.main.Looped {
		for s.iteration == 0 && s.state == ParticleSystemStatePlaying {
			s.updateEmitter(prewarmStep)
		}
	}
}

// Stop kills every particle and rewinds the emitter.
func (s *ParticleSystem3D) Stop() {
	s.time = 0
	s.timeEmission = 0
	s.iteration = 0
	s.iterationFinished = false
	s.currentBurstIndex = 0
	s.prevWorldPositionDirty = true
	s.particles.SetAliveCount(0)
	s.state = ParticleSystemStateNone
}

func (s *ParticleSystem3D) Pause() {
	s.state = ParticleSystemStatePause
}

func (s *ParticleSystem3D) Restart() {
	s.Stop()
	s.Play()
}

func (s *ParticleSystem3D) PlayRecursive() {
	s.Play()
	for _, child := range s.children {
		child.PlayRecursive()
	}
}

func (s *ParticleSystem3D) StopRecursive() {
	s.Stop()
	for _, child := range s.children {
		child.StopRecursive()
	}
}

func (s *ParticleSystem3D) PauseRecursive() {
	s.Pause()
	for _, child := range s.children {
		child.PauseRecursive()
	}
}

func (s *ParticleSystem3D) RestartRecursive() {
	s.Restart()
	for _, child := range s.children {
		child.RestartRecursive()
	}
}

// Update advances a playing system by dt seconds. Paused and stopped systems are left untouched.
func (s *ParticleSystem3D) Update(dt float32) {
	if s.state != ParticleSystemStatePlaying || dt <= 0 {
		return
	}
	s.updateEmitter(dt)
}

// UpdateRecursive updates the system and all of its children.
func (s *ParticleSystem3D) UpdateRecursive(dt float32) {
	s.Update(dt)
	for _, child := range s.children {
		child.UpdateRecursive(dt)
	}
}

func (s *ParticleSystem3D) updateEmitter(dt float32) {
	s.updateTime(dt)

	alive := s.particles.AliveCount()
	s.main.UpdateLifetime(s.particles, 0, alive, dt)
	s.renderer.UpdateLifetime(s.particles, 0, alive, dt)
	s.particles.Update()

	maxCountToEmit := s.renderer.MaxParticles - s.particles.AliveCount()
	if maxCountToEmit > 0 && s.main.Emission.Enabled && s.state == ParticleSystemStatePlaying {
		seed := int32(s.rng.Intn(ParametersCount))
		progress := s.time / s.main.CurrentDuration()
		worldTransform := s.WorldTransform()

		count := s.calculateEmissionCount(maxCountToEmit, seed, progress)
		if count > 0 {
			origin, basis := s.emissionFrame(worldTransform)
			s.emit(count, progress, origin, basis, worldTransform, dt)
			maxCountToEmit -= count
		}

		s.emitPerDistance(maxCountToEmit, seed, progress, worldTransform, dt)
	}

	if !s.main.Looped && s.iterationFinished && s.particles.AliveCount() == 0 {
		s.Stop()
	}
}

func (s *ParticleSystem3D) updateTime(dt float32) {
	s.time += dt
	if s.main.Emission.Enabled {
		s.timeEmission += dt
	}

	duration := s.main.CurrentDuration()
	if s.time < duration {
		s.iterationFinished = false
		return
	}

	s.iterationFinished = true
	if s.main.Looped {
		s.iteration++
		s.time -= math.Floor(s.time/duration) * duration
		s.currentBurstIndex = 0
	} else {
		s.time = duration
	}
}

func (s *ParticleSystem3D) calculateEmissionCount(maxCount, seed int32, progress float32) int32 {
	count := int32(0)

	if !s.iterationFinished {
		rate := s.main.Emission.EmissionPerSecond.Sample(seed, progress)
		if rate > 0 {
			count = math.Min(maxCount, int32(math.Floor(s.timeEmission*rate)))
			s.timeEmission = math.Max(0, s.timeEmission-float32(count)/rate)
		} else {
			s.timeEmission = 0
		}
	}

	bursts := s.main.Emission.Bursts
	for s.currentBurstIndex < len(bursts) && bursts[s.currentBurstIndex].Time <= s.time {
		burst := bursts[s.currentBurstIndex]
		low, high := burst.MinCount, burst.MaxCount
		if low > high {
			low, high = high, low
		}
		count += low + int32(s.rng.Intn(int(high-low)+1))
		s.currentBurstIndex++
	}

	return math.Clamp(count, 0, maxCount)
}

// emissionFrame returns where shape points are placed: the local origin, or the system's place in the world.
func (s *ParticleSystem3D) emissionFrame(worldTransform math.Mat4) (math.Vec3, math.Mat4) {
	if s.main.TransformPolicy == TransformPolicyWorld {
		return worldTransform.Translation(), worldTransform
	}
	return math.Vec3{}, math.NewMat4Identity()
}

func (s *ParticleSystem3D) emit(count int32, progress float32, origin math.Vec3, basis, worldTransform math.Mat4, dt float32) {
	first := s.particles.AliveCount()
	s.particles.AddAliveCount(count)
	last := s.particles.AliveCount()

	s.particles.ClearData(first, last)
	s.shape.UpdateInitial(s.particles, first, last, origin, basis, s.rng)
	s.main.UpdateInitial(s.particles, first, last, progress, worldTransform)
	s.renderer.UpdateInitial(s.particles, first, last, progress)

	s.main.UpdateLifetime(s.particles, first, last, dt)
	s.renderer.UpdateLifetime(s.particles, first, last, dt)
}

/**
 * @brief Emits one particle per EmissionPerDistance units travelled since
 * the last recorded position. World space systems drop them one by one
 * along the path, local space systems emit them together at the origin.
 */
func (s *ParticleSystem3D) emitPerDistance(maxCount, seed int32, progress float32, worldTransform math.Mat4, dt float32) {
	// A zero rate leaves the tracked position alone until emission resumes.
	perLength := s.main.Emission.EmissionPerDistance.Sample(seed, progress)
	if perLength <= 0 {
		return
	}

	worldPosition := worldTransform.Translation()
	if s.prevWorldPositionDirty {
		s.prevWorldPosition = worldPosition
		s.prevWorldPositionDirty = false
		return
	}

	delta := worldPosition.Sub(s.prevWorldPosition)
	distance := delta.Length()
	if distance <= perLength || maxCount <= 0 {
		return
	}

	count := math.Min(int32(distance/perLength), maxCount)
	offset := delta.MulScalar(perLength / distance)

	if s.main.TransformPolicy == TransformPolicyWorld {
		for i := int32(0); i < count; i++ {
			s.prevWorldPosition = s.prevWorldPosition.Add(offset)
			s.emit(1, progress, s.prevWorldPosition, worldTransform, worldTransform, dt)
		}
		return
	}

	s.emit(count, progress, math.Vec3{}, math.NewMat4Identity(), worldTransform, dt)
	s.prevWorldPosition = s.prevWorldPosition.Add(offset.MulScalar(float32(count)))
}

// Render sorts the particles for viewer and records them into queue as one instanced batch.
func (s *ParticleSystem3D) Render(queue *renderer.RenderQueue, vao renderer.VertexArrayObject, viewer Viewer) {
	if s.particles.AliveCount() == 0 {
		return
	}
	s.renderer.PrepareToRender(s.particles, s.main.TransformPolicy, s.WorldTransform(), viewer)
	s.renderer.Submit(s.particles, queue, vao)
}
