package particles

import (
	"fmt"

	"github.com/Tinaynox/maze-sub011/engine/math"
	"golang.org/x/exp/rand"
)

type ShapeType int

const (
	ShapeTypeNone ShapeType = iota
	ShapeTypeSphere
	ShapeTypeHemisphere
	ShapeTypeCone
	ShapeTypeTorus
	ShapeTypeBox
	ShapeTypeCircle
)

var shapeTypeNames = map[ShapeType]string{
	ShapeTypeNone:       "none",
	ShapeTypeSphere:     "sphere",
	ShapeTypeHemisphere: "hemisphere",
	ShapeTypeCone:       "cone",
	ShapeTypeTorus:      "torus",
	ShapeTypeBox:        "box",
	ShapeTypeCircle:     "circle",
}

func (s ShapeType) String() string {
	if name, ok := shapeTypeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ShapeType(%d)", int(s))
}

func (s ShapeType) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ShapeType) UnmarshalText(text []byte) error {
	for shape, name := range shapeTypeNames {
		if name == string(text) {
			*s = shape
			return nil
		}
	}
	return fmt.Errorf("unknown shape type %q", text)
}

/**
 * @brief Emission zone. Only the fields used by Type matter: Radius for
 * sphere, hemisphere, circle and cone, Angle (degrees) and Length for cone,
 * TorusRadius and RadiusThickness for torus, Scale for box. Shell emits on
 * the surface instead of inside the volume.
 */
type ShapeZone struct {
	Type            ShapeType `toml:"type" yaml:"type"`
	Position        math.Vec3 `toml:"position" yaml:"position"`
	Shell           bool      `toml:"shell" yaml:"shell"`
	Radius          float32   `toml:"radius" yaml:"radius"`
	Angle           float32   `toml:"angle" yaml:"angle"`
	Length          float32   `toml:"length" yaml:"length"`
	TorusRadius     float32   `toml:"torus_radius" yaml:"torus_radius"`
	RadiusThickness float32   `toml:"radius_thickness" yaml:"radius_thickness"`
	Scale           math.Vec3 `toml:"scale" yaml:"scale"`
}

type ShapeModule struct {
	Enabled bool      `toml:"enabled" yaml:"enabled"`
	Zone    ShapeZone `toml:"zone" yaml:"zone"`
}

func DefaultShapeModule() ShapeModule {
	return ShapeModule{
		Enabled: true,
		Zone: ShapeZone{
			Type:            ShapeTypeCone,
			Radius:          1,
			Angle:           25,
			Length:          5,
			TorusRadius:     0.25,
			RadiusThickness: 1,
			Scale:           math.NewVec3One(),
		},
	}
}

/**
 * @brief Picks a seed, a position and a direction for the particles in
 * [first, last). Points are generated in zone space, then rotated by basis
 * and placed relative to origin. A disabled module emits from origin in
 * random directions.
 */
func (s *ShapeModule) UpdateInitial(particles *Particles3D, first, last int32, origin math.Vec3, basis math.Mat4, rng *rand.Rand) {
	zone := s.Zone
	if !s.Enabled {
		zone = ShapeZone{Type: ShapeTypeNone}
	}

	for i := first; i < last; i++ {
		*particles.Seed(i) = int32(rng.Intn(ParametersCount))

		shift, direction := zone.generatePoint(rng)
		*particles.Position(i) = origin.Add(zone.Position.Add(shift).TransformDirection(basis))
		*particles.Direction(i) = direction.TransformDirection(basis).Normalize()
	}
}

func (z ShapeZone) generatePoint(rng *rand.Rand) (math.Vec3, math.Vec3) {
	switch z.Type {
	case ShapeTypeSphere, ShapeTypeHemisphere:
		direction := randomDirection(rng)
		if z.Type == ShapeTypeHemisphere && direction.Z < 0 {
			direction.Z = -direction.Z
		}
		radius := z.Radius
		if !z.Shell {
			radius *= rng.Float32()
		}
		return direction.MulScalar(radius), direction

	case ShapeTypeCircle:
		angle := rng.Float32() * math.K_PI_2
		radial := math.Vec3{X: math.Cos(angle), Y: math.Sin(angle)}
		radius := z.Radius
		if !z.Shell {
			radius *= math.Sqrt(rng.Float32())
		}
		return radial.MulScalar(radius), radial

	case ShapeTypeCone:
		angle := rng.Float32() * math.K_PI_2
		radial := math.Vec3{X: math.Cos(angle), Y: math.Sin(angle)}
		k := float32(1)
		if !z.Shell {
			k = math.Sqrt(rng.Float32())
		}
		spread := math.Tan(math.DegToRad(math.Clamp(z.Angle, 0, 89.9)))
		direction := radial.MulScalar(k * spread).Add(math.Vec3{Z: 1}).Normalize()
		position := radial.MulScalar(k * z.Radius)
		if !z.Shell && z.Length > 0 {
			position = position.Add(direction.MulScalar(z.Length * rng.Float32()))
		}
		return position, direction

	case ShapeTypeTorus:
		theta := rng.Float32() * math.K_PI_2
		phi := rng.Float32() * math.K_PI_2
		tube := z.TorusRadius * (1 - math.Clamp01(z.RadiusThickness)*rng.Float32())
		ring := math.Vec3{X: math.Cos(theta) * z.Radius, Y: math.Sin(theta) * z.Radius}
		direction := math.Vec3{
			X: math.Cos(theta) * math.Cos(phi),
			Y: math.Sin(theta) * math.Cos(phi),
			Z: math.Sin(phi),
		}
		return ring.Add(direction.MulScalar(tube)), direction

	case ShapeTypeBox:
		point := math.Vec3{X: rng.Float32() - 0.5, Y: rng.Float32() - 0.5, Z: rng.Float32() - 0.5}
		if z.Shell {
			face := rng.Intn(6)
			half := float32(0.5)
			if face%2 == 1 {
				half = -0.5
			}
			switch face / 2 {
			case 0:
				point.X = half
			case 1:
				point.Y = half
			default:
				point.Z = half
			}
		}
		return point.Mul(z.Scale), math.Vec3{Z: 1}

	default:
		return math.Vec3{}, randomDirection(rng)
	}
}

func randomDirection(rng *rand.Rand) math.Vec3 {
	z := rng.Float32()*2 - 1
	angle := rng.Float32() * math.K_PI_2
	r := math.Sqrt(math.Max(0, 1-z*z))
	return math.Vec3{X: r * math.Cos(angle), Y: r * math.Sin(angle), Z: z}
}
