package particles

import (
	"fmt"
	"sort"

	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/math"
	"golang.org/x/exp/rand"
)

/** @brief Emits a random count in [MinCount, MaxCount] once Time is reached in an iteration. */
type Burst struct {
	Time     float32 `toml:"time" yaml:"time"`
	MinCount int32   `toml:"min_count" yaml:"min_count"`
	MaxCount int32   `toml:"max_count" yaml:"max_count"`
}

// SortBursts orders bursts by time. Emission relies on this order.
func SortBursts(bursts []Burst) {
	sort.SliceStable(bursts, func(i, j int) bool {
		return bursts[i].Time < bursts[j].Time
	})
}

type TransformPolicy int

const (
	// Particles live in the system's local space and move with it.
	TransformPolicyLocal TransformPolicy = iota
	// Particles live in world space and stay behind when the system moves.
	TransformPolicyWorld
)

func (p TransformPolicy) String() string {
	switch p {
	case TransformPolicyLocal:
		return "local"
	case TransformPolicyWorld:
		return "world"
	default:
		return fmt.Sprintf("TransformPolicy(%d)", int(p))
	}
}

func (p TransformPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *TransformPolicy) UnmarshalText(text []byte) error {
	switch string(text) {
	case "local":
		*p = TransformPolicyLocal
	case "world":
		*p = TransformPolicyWorld
	default:
		return fmt.Errorf("unknown transform policy %q", text)
	}
	return nil
}

type EmissionModule struct {
	Enabled             bool         `toml:"enabled" yaml:"enabled"`
	EmissionPerSecond   ParameterF32 `toml:"per_second" yaml:"per_second"`
	EmissionPerDistance ParameterF32 `toml:"per_distance" yaml:"per_distance"`
	Bursts              []Burst      `toml:"bursts" yaml:"bursts"`
}

// SetBursts copies and sorts the bursts.
func (e *EmissionModule) SetBursts(bursts []Burst) {
	e.Bursts = append([]Burst(nil), bursts...)
	SortBursts(e.Bursts)
}

type SizeOverLifetimeModule struct {
	Enabled   bool         `toml:"enabled" yaml:"enabled"`
	Parameter ParameterF32 `toml:"parameter" yaml:"parameter"`
}

type VelocityOverLifetimeModule struct {
	Enabled bool         `toml:"enabled" yaml:"enabled"`
	LinearX ParameterF32 `toml:"linear_x" yaml:"linear_x"`
	LinearY ParameterF32 `toml:"linear_y" yaml:"linear_y"`
	LinearZ ParameterF32 `toml:"linear_z" yaml:"linear_z"`
}

type VelocityLimitOverLifetimeModule struct {
	Enabled   bool         `toml:"enabled" yaml:"enabled"`
	Parameter ParameterF32 `toml:"parameter" yaml:"parameter"`
}

type RotationOverLifetimeModule struct {
	Enabled   bool         `toml:"enabled" yaml:"enabled"`
	Parameter ParameterF32 `toml:"parameter" yaml:"parameter"`
}

type ColorOverLifetimeModule struct {
	Enabled   bool           `toml:"enabled" yaml:"enabled"`
	Parameter ParameterColor `toml:"parameter" yaml:"parameter"`
}

/**
 * @brief Timing, emission and the initial and over-lifetime particle
 * properties. Initial values are sampled at the emitter progress, the
 * over-lifetime modules at the particle life scalar.
 */
type MainModule struct {
	Duration        ParameterF32    `toml:"duration" yaml:"duration"`
	Looped          bool            `toml:"looped" yaml:"looped"`
	Prewarm         bool            `toml:"prewarm" yaml:"prewarm"`
	PlayOnAwake     bool            `toml:"play_on_awake" yaml:"play_on_awake"`
	TransformPolicy TransformPolicy `toml:"transform_policy" yaml:"transform_policy"`

	Lifetime ParameterF32   `toml:"lifetime" yaml:"lifetime"`
	Size     ParameterF32   `toml:"size" yaml:"size"`
	Color    ParameterColor `toml:"color" yaml:"color"`
	Speed    ParameterF32   `toml:"speed" yaml:"speed"`
	Gravity  ParameterF32   `toml:"gravity" yaml:"gravity"`
	Rotation ParameterF32   `toml:"rotation" yaml:"rotation"`

	Emission                  EmissionModule                  `toml:"emission" yaml:"emission"`
	SizeOverLifetime          SizeOverLifetimeModule          `toml:"size_over_lifetime" yaml:"size_over_lifetime"`
	VelocityOverLifetime      VelocityOverLifetimeModule      `toml:"velocity_over_lifetime" yaml:"velocity_over_lifetime"`
	VelocityLimitOverLifetime VelocityLimitOverLifetimeModule `toml:"velocity_limit_over_lifetime" yaml:"velocity_limit_over_lifetime"`
	RotationOverLifetime      RotationOverLifetimeModule      `toml:"rotation_over_lifetime" yaml:"rotation_over_lifetime"`
	ColorOverLifetime         ColorOverLifetimeModule         `toml:"color_over_lifetime" yaml:"color_over_lifetime"`

	currentDuration float32
}

func DefaultMainModule() MainModule {
	white := math.Vec4{X: 1, Y: 1, Z: 1, W: 1}
	return MainModule{
		Duration:        NewParameterF32Constant(5),
		Looped:          true,
		PlayOnAwake:     true,
		TransformPolicy: TransformPolicyLocal,
		Lifetime:        NewParameterF32Constant(1),
		Size:            NewParameterF32Constant(1),
		Color:           NewParameterColorConstant(white),
		Speed:           NewParameterF32Constant(0),
		Gravity:         NewParameterF32Constant(-9.8),
		Rotation:        NewParameterF32Constant(0),
		Emission: EmissionModule{
			Enabled:             true,
			EmissionPerSecond:   NewParameterF32Constant(1),
			EmissionPerDistance: NewParameterF32Constant(0),
		},
		SizeOverLifetime:          SizeOverLifetimeModule{Parameter: NewParameterF32Constant(1)},
		VelocityOverLifetime:      VelocityOverLifetimeModule{LinearX: NewParameterF32Constant(0), LinearY: NewParameterF32Constant(0), LinearZ: NewParameterF32Constant(0)},
		VelocityLimitOverLifetime: VelocityLimitOverLifetimeModule{Parameter: NewParameterF32Constant(0)},
		RotationOverLifetime:      RotationOverLifetimeModule{Parameter: NewParameterF32Constant(0)},
		ColorOverLifetime:         ColorOverLifetimeModule{Parameter: NewParameterColorConstant(white)},
		currentDuration:           5,
	}
}

// CurrentDuration is the iteration length picked by the last GenerateDuration.
func (m *MainModule) CurrentDuration() float32 {
	return m.currentDuration
}

// GenerateDuration samples the iteration length. Non-positive durations are rejected.
func (m *MainModule) GenerateDuration(rng *rand.Rand) {
	duration := m.Duration.Sample(int32(rng.Intn(ParametersCount)), 0)
	if duration <= 0 {
		core.LogWarn("particle system duration %.3f is not positive, using %.3f", duration, minDuration)
		duration = minDuration
	}
	m.currentDuration = duration
}

const minDuration = 0.001

// UpdateInitial samples life, size, rotation, color and movement of the particles in [first, last).
func (m *MainModule) UpdateInitial(particles *Particles3D, first, last int32, emitterTimePercent float32, worldTransform math.Mat4) {
	up := math.NewVec3Up()
	if m.TransformPolicy == TransformPolicyLocal {
		up = up.TransformDirection(worldTransform.Inverse())
	}

	for i := first; i < last; i++ {
		seed := *particles.Seed(i)

		lifetime := m.Lifetime.Sample(seed, emitterTimePercent)
		*particles.Life(i) = ParticleLife{Initial: lifetime, Current: lifetime}

		size := m.Size.Sample(seed, emitterTimePercent)
		*particles.Size(i) = ParticleSize{Initial: size, Current: size}

		rotation := m.Rotation.Sample(seed, emitterTimePercent)
		*particles.Rotation(i) = ParticleRotation{Initial: rotation, Current: rotation}

		color := m.Color.Sample(seed, emitterTimePercent)
		*particles.ColorInitial(i) = color
		*particles.ColorCurrent(i) = color

		speed := m.Speed.Sample(seed, emitterTimePercent)
		gravity := m.Gravity.Sample(seed, emitterTimePercent)
		movement := particles.Movement(i)
		movement.Velocity = particles.Direction(i).MulScalar(speed)
		movement.Acceleration = up.MulScalar(gravity)
	}
}

// UpdateLifetime ages the particles in [first, last) by dt, applies the enabled over-lifetime modules and integrates movement.
func (m *MainModule) UpdateLifetime(particles *Particles3D, first, last int32, dt float32) {
	for i := first; i < last; i++ {
		life := particles.Life(i)
		life.Current -= dt
		if life.Initial > 0 {
			life.Scalar = math.Clamp01(1 - life.Current/life.Initial)
		} else {
			life.Scalar = 1
		}
	}

	if m.SizeOverLifetime.Enabled {
		for i := first; i < last; i++ {
			size := particles.Size(i)
			size.Current = size.Initial * m.SizeOverLifetime.Parameter.Sample(*particles.Seed(i), particles.Life(i).Scalar)
		}
	}

	if m.VelocityOverLifetime.Enabled {
		for i := first; i < last; i++ {
			seed := *particles.Seed(i)
			scalar := particles.Life(i).Scalar
			delta := math.Vec3{
				X: m.VelocityOverLifetime.LinearX.Sample(seed, scalar),
				Y: m.VelocityOverLifetime.LinearY.Sample(seed, scalar),
				Z: m.VelocityOverLifetime.LinearZ.Sample(seed, scalar),
			}
			movement := particles.Movement(i)
			movement.Velocity = movement.Velocity.Add(delta.MulScalar(dt))
		}
	}

	if m.VelocityLimitOverLifetime.Enabled {
		for i := first; i < last; i++ {
			limit := m.VelocityLimitOverLifetime.Parameter.Sample(*particles.Seed(i), particles.Life(i).Scalar)
			movement := particles.Movement(i)
			speed := movement.Velocity.Length()
			if speed <= limit || speed == 0 {
				continue
			}
			movement.Velocity = movement.Velocity.MulScalar(limit / speed)
		}
	}

	if m.RotationOverLifetime.Enabled {
		for i := first; i < last; i++ {
			rotation := particles.Rotation(i)
			rotation.Current += m.RotationOverLifetime.Parameter.Sample(*particles.Seed(i), particles.Life(i).Scalar) * dt
		}
	}

	if m.ColorOverLifetime.Enabled {
		for i := first; i < last; i++ {
			color := m.ColorOverLifetime.Parameter.Sample(*particles.Seed(i), particles.Life(i).Scalar)
			*particles.ColorCurrent(i) = mulVec4(*particles.ColorInitial(i), color)
		}
	}

	for i := first; i < last; i++ {
		movement := particles.Movement(i)
		movement.Velocity = movement.Velocity.Add(movement.Acceleration.MulScalar(dt))
		position := particles.Position(i)
		*position = position.Add(movement.Velocity.MulScalar(dt))
	}
}
