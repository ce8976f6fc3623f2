package math

import (
	m "math"

	"golang.org/x/exp/constraints"
)

const (
	/** @brief An approximate representation of PI. */
	K_PI float32 = 3.14159265358979323846
	/** @brief An approximate representation of PI multiplied by 2. */
	K_PI_2 float32 = 2.0 * K_PI
	/** @brief An approximate representation of PI divided by 2. */
	K_HALF_PI float32 = 0.5 * K_PI
	/** @brief A multiplier used to convert degrees to radians. */
	K_DEG2RAD_MULTIPLIER float32 = K_PI / 180.0
	/** @brief Smallest positive number where 1.0 + FLOAT_EPSILON != 0 */
	K_FLOAT_EPSILON float32 = 1.192092896e-07
)

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// Clamp01 clamps a float to the [0, 1] range.
func Clamp01[T constraints.Float](f T) T {
	return Clamp(f, 0, 1)
}

func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Lerp interpolates between a and b by t without clamping t.
func Lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

// NextPowerOfTwo returns the smallest power of two that is >= v (1 for v <= 1).
func NextPowerOfTwo[T constraints.Integer](v T) T {
	p := T(1)
	for p < v {
		p <<= 1
	}
	return p
}

func Sqrt(x float32) float32 {
	return float32(m.Sqrt(float64(x)))
}

func Sin(x float32) float32 {
	return float32(m.Sin(float64(x)))
}

func Cos(x float32) float32 {
	return float32(m.Cos(float64(x)))
}

func Tan(x float32) float32 {
	return float32(m.Tan(float64(x)))
}

func Asin(x float32) float32 {
	return float32(m.Asin(float64(Clamp(x, -1, 1))))
}

func Atan2(y, x float32) float32 {
	return float32(m.Atan2(float64(y), float64(x)))
}

func Abs(x float32) float32 {
	return float32(m.Abs(float64(x)))
}

func Floor(x float32) float32 {
	return float32(m.Floor(float64(x)))
}

func Ceil(x float32) float32 {
	return float32(m.Ceil(float64(x)))
}

// Round rounds half away from zero.
func Round(x float32) float32 {
	return float32(m.Round(float64(x)))
}

// Fract returns the fractional part of x, always in [0, 1).
func Fract(x float32) float32 {
	return x - Floor(x)
}

func DegToRad(degrees float32) float32 {
	return degrees * K_DEG2RAD_MULTIPLIER
}

