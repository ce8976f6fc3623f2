package particles

import (
	"fmt"
	"sort"

	"github.com/Tinaynox/maze-sub011/engine/math"
	"golang.org/x/exp/rand"
)

/**
 * @brief Number of per-particle random scalars. A particle seed is an index
 * into this table, so every random parameter of one particle is sampled
 * from the same stable value for its whole life.
 */
const ParametersCount = 1024

var seedScalars = func() [ParametersCount]float32 {
	var table [ParametersCount]float32
	rng := rand.New(rand.NewSource(0x6d617a65))
	for i := range table {
		table[i] = rng.Float32()
	}
	return table
}()

// SeedScalar returns the random scalar in [0, 1) assigned to seed.
func SeedScalar(seed int32) float32 {
	if seed < 0 {
		seed = -seed
	}
	return seedScalars[seed%ParametersCount]
}

type CurveKey struct {
	Time  float32 `toml:"time" yaml:"time"`
	Value float32 `toml:"value" yaml:"value"`
}

/** @brief Piecewise linear curve over [0, 1]. Keys must be sorted by time. */
type AnimationCurve struct {
	Keys []CurveKey `toml:"keys" yaml:"keys"`
}

func NewAnimationCurve(keys ...CurveKey) AnimationCurve {
	curve := AnimationCurve{Keys: append([]CurveKey(nil), keys...)}
	sort.SliceStable(curve.Keys, func(i, j int) bool {
		return curve.Keys[i].Time < curve.Keys[j].Time
	})
	return curve
}

// Evaluate clamps t to the key range. An empty curve is 0.
func (c AnimationCurve) Evaluate(t float32) float32 {
	n := len(c.Keys)
	if n == 0 {
		return 0
	}
	if t <= c.Keys[0].Time {
		return c.Keys[0].Value
	}
	if t >= c.Keys[n-1].Time {
		return c.Keys[n-1].Value
	}
	for i := 1; i < n; i++ {
		k1 := c.Keys[i]
		if t > k1.Time {
			continue
		}
		k0 := c.Keys[i-1]
		span := k1.Time - k0.Time
		if span <= 0 {
			return k1.Value
		}
		return math.Lerp(k0.Value, k1.Value, (t-k0.Time)/span)
	}
	return c.Keys[n-1].Value
}

type GradientKey struct {
	Time  float32   `toml:"time" yaml:"time"`
	Color math.Vec4 `toml:"color" yaml:"color"`
}

/** @brief Piecewise linear RGBA gradient over [0, 1]. */
type ColorGradient struct {
	Keys []GradientKey `toml:"keys" yaml:"keys"`
}

func NewColorGradient(keys ...GradientKey) ColorGradient {
	gradient := ColorGradient{Keys: append([]GradientKey(nil), keys...)}
	sort.SliceStable(gradient.Keys, func(i, j int) bool {
		return gradient.Keys[i].Time < gradient.Keys[j].Time
	})
	return gradient
}

// Evaluate clamps t to the key range. An empty gradient is opaque white.
func (g ColorGradient) Evaluate(t float32) math.Vec4 {
	n := len(g.Keys)
	if n == 0 {
		return math.Vec4{X: 1, Y: 1, Z: 1, W: 1}
	}
	if t <= g.Keys[0].Time {
		return g.Keys[0].Color
	}
	if t >= g.Keys[n-1].Time {
		return g.Keys[n-1].Color
	}
	for i := 1; i < n; i++ {
		k1 := g.Keys[i]
		if t > k1.Time {
			continue
		}
		k0 := g.Keys[i-1]
		span := k1.Time - k0.Time
		if span <= 0 {
			return k1.Color
		}
		return lerpVec4(k0.Color, k1.Color, (t-k0.Time)/span)
	}
	return g.Keys[n-1].Color
}

func lerpVec4(a, b math.Vec4, t float32) math.Vec4 {
	return math.Vec4{
		X: math.Lerp(a.X, b.X, t),
		Y: math.Lerp(a.Y, b.Y, t),
		Z: math.Lerp(a.Z, b.Z, t),
		W: math.Lerp(a.W, b.W, t),
	}
}

func mulVec4(a, b math.Vec4) math.Vec4 {
	return math.Vec4{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z, W: a.W * b.W}
}

type ParameterF32Mode int

const (
	ParameterF32ModeNone ParameterF32Mode = iota
	ParameterF32ModeConstant
	ParameterF32ModeCurve
	ParameterF32ModeRandomBetweenConstants
	ParameterF32ModeRandomBetweenCurves
)

var parameterF32ModeNames = map[ParameterF32Mode]string{
	ParameterF32ModeNone:                   "none",
	ParameterF32ModeConstant:               "constant",
	ParameterF32ModeCurve:                  "curve",
	ParameterF32ModeRandomBetweenConstants: "random-between-constants",
	ParameterF32ModeRandomBetweenCurves:    "random-between-curves",
}

func (m ParameterF32Mode) String() string {
	if name, ok := parameterF32ModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("ParameterF32Mode(%d)", int(m))
}

func (m ParameterF32Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *ParameterF32Mode) UnmarshalText(text []byte) error {
	for mode, name := range parameterF32ModeNames {
		if name == string(text) {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("unknown float parameter mode %q", text)
}

/**
 * @brief A float that is either constant, a curve over a scalar (emitter
 * progress or particle life), or a per-particle random pick between two
 * constants or two curves.
 */
type ParameterF32 struct {
	Mode   ParameterF32Mode `toml:"mode" yaml:"mode"`
	Const0 float32          `toml:"const0,omitempty" yaml:"const0,omitempty"`
	Const1 float32          `toml:"const1,omitempty" yaml:"const1,omitempty"`
	Curve0 AnimationCurve   `toml:"curve0,omitempty" yaml:"curve0,omitempty"`
	Curve1 AnimationCurve   `toml:"curve1,omitempty" yaml:"curve1,omitempty"`
}

func NewParameterF32Constant(value float32) ParameterF32 {
	return ParameterF32{Mode: ParameterF32ModeConstant, Const0: value}
}

func NewParameterF32RandomBetweenConstants(value0, value1 float32) ParameterF32 {
	return ParameterF32{Mode: ParameterF32ModeRandomBetweenConstants, Const0: value0, Const1: value1}
}

func NewParameterF32Curve(curve AnimationCurve) ParameterF32 {
	return ParameterF32{Mode: ParameterF32ModeCurve, Curve0: curve}
}

func NewParameterF32RandomBetweenCurves(curve0, curve1 AnimationCurve) ParameterF32 {
	return ParameterF32{Mode: ParameterF32ModeRandomBetweenCurves, Curve0: curve0, Curve1: curve1}
}

// Sample evaluates the parameter for a particle seed at scalar. A None parameter is 0.
func (p ParameterF32) Sample(seed int32, scalar float32) float32 {
	switch p.Mode {
	case ParameterF32ModeConstant:
		return p.Const0
	case ParameterF32ModeCurve:
		return p.Curve0.Evaluate(scalar)
	case ParameterF32ModeRandomBetweenConstants:
		return math.Lerp(p.Const0, p.Const1, SeedScalar(seed))
	case ParameterF32ModeRandomBetweenCurves:
		return math.Lerp(p.Curve0.Evaluate(scalar), p.Curve1.Evaluate(scalar), SeedScalar(seed))
	default:
		return 0
	}
}

type ParameterColorMode int

const (
	ParameterColorModeNone ParameterColorMode = iota
	ParameterColorModeConstant
	ParameterColorModeGradient
	ParameterColorModeRandomBetweenColors
	ParameterColorModeRandomBetweenGradients
)

var parameterColorModeNames = map[ParameterColorMode]string{
	ParameterColorModeNone:                   "none",
	ParameterColorModeConstant:               "constant",
	ParameterColorModeGradient:               "gradient",
	ParameterColorModeRandomBetweenColors:    "random-between-colors",
	ParameterColorModeRandomBetweenGradients: "random-between-gradients",
}

func (m ParameterColorMode) String() string {
	if name, ok := parameterColorModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("ParameterColorMode(%d)", int(m))
}

func (m ParameterColorMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *ParameterColorMode) UnmarshalText(text []byte) error {
	for mode, name := range parameterColorModeNames {
		if name == string(text) {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("unknown color parameter mode %q", text)
}

/** @brief The color counterpart of ParameterF32. */
type ParameterColor struct {
	Mode      ParameterColorMode `toml:"mode" yaml:"mode"`
	Color0    math.Vec4          `toml:"color0,omitempty" yaml:"color0,omitempty"`
	Color1    math.Vec4          `toml:"color1,omitempty" yaml:"color1,omitempty"`
	Gradient0 ColorGradient      `toml:"gradient0,omitempty" yaml:"gradient0,omitempty"`
	Gradient1 ColorGradient      `toml:"gradient1,omitempty" yaml:"gradient1,omitempty"`
}

func NewParameterColorConstant(color math.Vec4) ParameterColor {
	return ParameterColor{Mode: ParameterColorModeConstant, Color0: color}
}

func NewParameterColorGradient(gradient ColorGradient) ParameterColor {
	return ParameterColor{Mode: ParameterColorModeGradient, Gradient0: gradient}
}

func NewParameterColorRandomBetweenColors(color0, color1 math.Vec4) ParameterColor {
	return ParameterColor{Mode: ParameterColorModeRandomBetweenColors, Color0: color0, Color1: color1}
}

func NewParameterColorRandomBetweenGradients(gradient0, gradient1 ColorGradient) ParameterColor {
	return ParameterColor{Mode: ParameterColorModeRandomBetweenGradients, Gradient0: gradient0, Gradient1: gradient1}
}

// Sample evaluates the parameter for a particle seed at scalar. A None parameter is opaque white.
func (p ParameterColor) Sample(seed int32, scalar float32) math.Vec4 {
	switch p.Mode {
	case ParameterColorModeConstant:
		return p.Color0
	case ParameterColorModeGradient:
		return p.Gradient0.Evaluate(scalar)
	case ParameterColorModeRandomBetweenColors:
		return lerpVec4(p.Color0, p.Color1, SeedScalar(seed))
	case ParameterColorModeRandomBetweenGradients:
		return lerpVec4(p.Gradient0.Evaluate(scalar), p.Gradient1.Evaluate(scalar), SeedScalar(seed))
	default:
		return math.Vec4{X: 1, Y: 1, Z: 1, W: 1}
	}
}
