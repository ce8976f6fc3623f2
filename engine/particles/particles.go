package particles

import (
	"github.com/Tinaynox/maze-sub011/engine/math"
)

type ParticleLife struct {
	Initial float32
	Current float32
	// Scalar is the consumed share of the lifetime, 0 at birth and 1 at death.
	Scalar float32
}

type ParticleSize struct {
	Initial float32
	Current float32
}

type ParticleRotation struct {
	Initial float32
	Current float32
}

type ParticleMovement struct {
	Velocity     math.Vec3
	Acceleration math.Vec3
}

type ParticleAnimationFrame struct {
	Initial float32
	Current float32
}

/**
 * @brief Struct-of-arrays storage of live particles. Slots [0, AliveCount)
 * are alive, the rest are undefined. Update removes dead particles by
 * moving the last alive particle into their slot, so a particle index is
 * only stable within one frame.
 */
type Particles3D struct {
	capacity   int32
	aliveCount int32
	bounds     math.Extents3D

	seeds           []int32
	positions       []math.Vec3
	directions      []math.Vec3
	lifes           []ParticleLife
	sizes           []ParticleSize
	rotations       []ParticleRotation
	colorsInitial   []math.Vec4
	colorsCurrent   []math.Vec4
	movements       []ParticleMovement
	animationFrames []ParticleAnimationFrame

	sqrDistanceToCamera []float32

	renderTransforms []math.Mat4
	renderColors     []math.Vec4
	renderUVs        []math.Vec4
}

func NewParticles3D() *Particles3D {
	return &Particles3D{}
}

func resize[T any](s []T, n int32) []T {
	if int32(cap(s)) >= n {
		return s[:n]
	}
	out := make([]T, n)
	copy(out, s)
	return out
}

// SetCapacity resizes every array. Alive particles beyond the new capacity are dropped.
func (p *Particles3D) SetCapacity(capacity int32) {
	if capacity < 0 {
		capacity = 0
	}
	p.capacity = capacity
	p.seeds = resize(p.seeds, capacity)
	p.positions = resize(p.positions, capacity)
	p.directions = resize(p.directions, capacity)
	p.lifes = resize(p.lifes, capacity)
	p.sizes = resize(p.sizes, capacity)
	p.rotations = resize(p.rotations, capacity)
	p.colorsInitial = resize(p.colorsInitial, capacity)
	p.colorsCurrent = resize(p.colorsCurrent, capacity)
	p.movements = resize(p.movements, capacity)
	p.animationFrames = resize(p.animationFrames, capacity)
	p.sqrDistanceToCamera = resize(p.sqrDistanceToCamera, capacity)
	p.renderTransforms = resize(p.renderTransforms, capacity)
	p.renderColors = resize(p.renderColors, capacity)
	p.renderUVs = resize(p.renderUVs, capacity)
	if p.aliveCount > capacity {
		p.aliveCount = capacity
	}
}

func (p *Particles3D) Capacity() int32 {
	return p.capacity
}

func (p *Particles3D) AliveCount() int32 {
	return p.aliveCount
}

func (p *Particles3D) SetAliveCount(count int32) {
	p.aliveCount = math.Clamp(count, 0, p.capacity)
}

// AddAliveCount marks count more slots alive, growing the capacity to the next power of two when needed.
func (p *Particles3D) AddAliveCount(count int32) {
	alive := p.aliveCount + count
	if alive > p.capacity {
		p.SetCapacity(math.NextPowerOfTwo(alive))
	}
	p.aliveCount = alive
}

// Bounds is the box around the alive particles as of the last Update.
func (p *Particles3D) Bounds() math.Extents3D {
	return p.bounds
}

/**
 * @brief Removes every particle whose life went negative and recomputes
 * the bounds. When no particle is left the bounds keep their last value.
 */
func (p *Particles3D) Update() {
	if p.aliveCount == 0 {
		return
	}

	for i := int32(0); i < p.aliveCount; {
		if p.lifes[i].Current >= 0 {
			i++
			continue
		}
		p.aliveCount--
		if i != p.aliveCount {
			p.ResetData(i, p.aliveCount)
		}
	}
	if p.aliveCount == 0 {
		return
	}

	p.bounds = p.particleBounds(0)
	for i := int32(1); i < p.aliveCount; i++ {
		p.bounds = p.bounds.Union(p.particleBounds(i))
	}
}

func (p *Particles3D) particleBounds(i int32) math.Extents3D {
	return math.NewExtents3DFromPoint(p.positions[i], p.sizes[i].Current*0.5)
}

// ResetData copies the simulation state of slot from into slot to.
func (p *Particles3D) ResetData(to, from int32) {
	p.seeds[to] = p.seeds[from]
	p.positions[to] = p.positions[from]
	p.directions[to] = p.directions[from]
	p.rotations[to] = p.rotations[from]
	p.lifes[to] = p.lifes[from]
	p.sizes[to] = p.sizes[from]
	p.colorsInitial[to] = p.colorsInitial[from]
	p.colorsCurrent[to] = p.colorsCurrent[from]
	p.movements[to] = p.movements[from]
	p.animationFrames[to] = p.animationFrames[from]
}

func (p *Particles3D) SwapData(i, j int32) {
	p.seeds[i], p.seeds[j] = p.seeds[j], p.seeds[i]
	p.positions[i], p.positions[j] = p.positions[j], p.positions[i]
	p.directions[i], p.directions[j] = p.directions[j], p.directions[i]
	p.rotations[i], p.rotations[j] = p.rotations[j], p.rotations[i]
	p.lifes[i], p.lifes[j] = p.lifes[j], p.lifes[i]
	p.sizes[i], p.sizes[j] = p.sizes[j], p.sizes[i]
	p.colorsInitial[i], p.colorsInitial[j] = p.colorsInitial[j], p.colorsInitial[i]
	p.colorsCurrent[i], p.colorsCurrent[j] = p.colorsCurrent[j], p.colorsCurrent[i]
	p.movements[i], p.movements[j] = p.movements[j], p.movements[i]
	p.animationFrames[i], p.animationFrames[j] = p.animationFrames[j], p.animationFrames[i]
}

// ClearData zeroes the simulation state of slots [first, last).
func (p *Particles3D) ClearData(first, last int32) {
	clear(p.seeds[first:last])
	clear(p.positions[first:last])
	clear(p.directions[first:last])
	clear(p.rotations[first:last])
	clear(p.lifes[first:last])
	clear(p.sizes[first:last])
	clear(p.colorsInitial[first:last])
	clear(p.colorsCurrent[first:last])
	clear(p.movements[first:last])
	clear(p.animationFrames[first:last])
}

func (p *Particles3D) Seed(i int32) *int32 {
	return &p.seeds[i]
}

func (p *Particles3D) Position(i int32) *math.Vec3 {
	return &p.positions[i]
}

func (p *Particles3D) Direction(i int32) *math.Vec3 {
	return &p.directions[i]
}

func (p *Particles3D) Life(i int32) *ParticleLife {
	return &p.lifes[i]
}

func (p *Particles3D) Size(i int32) *ParticleSize {
	return &p.sizes[i]
}

func (p *Particles3D) Rotation(i int32) *ParticleRotation {
	return &p.rotations[i]
}

func (p *Particles3D) ColorInitial(i int32) *math.Vec4 {
	return &p.colorsInitial[i]
}

func (p *Particles3D) ColorCurrent(i int32) *math.Vec4 {
	return &p.colorsCurrent[i]
}

func (p *Particles3D) Movement(i int32) *ParticleMovement {
	return &p.movements[i]
}

func (p *Particles3D) AnimationFrame(i int32) *ParticleAnimationFrame {
	return &p.animationFrames[i]
}

func (p *Particles3D) SqrDistanceToCamera(i int32) *float32 {
	return &p.sqrDistanceToCamera[i]
}

// RenderTransforms returns the instance transforms written by the last PrepareToRender, back to front.
func (p *Particles3D) RenderTransforms() []math.Mat4 {
	return p.renderTransforms[:p.aliveCount]
}

func (p *Particles3D) RenderColors() []math.Vec4 {
	return p.renderColors[:p.aliveCount]
}

func (p *Particles3D) RenderUVs() []math.Vec4 {
	return p.renderUVs[:p.aliveCount]
}
