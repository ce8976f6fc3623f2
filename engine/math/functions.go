package math

// ------------------------------------------
// Vector 2
// ------------------------------------------

func NewVec2(x, y float32) Vec2 {
	return Vec2{x, y}
}

func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

func (v Vec2) MulScalar(scalar float32) Vec2 {
	return Vec2{v.X * scalar, v.Y * scalar}
}

func (v Vec2) Length() float32 {
	return Sqrt(v.X*v.X + v.Y*v.Y)
}

// ------------------------------------------
// Vector 3
// ------------------------------------------

func NewVec3(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

func NewVec3Zero() Vec3 {
	return Vec3{}
}

func NewVec3One() Vec3 {
	return Vec3{1, 1, 1}
}

func NewVec3Up() Vec3 {
	return Vec3{0, 1, 0}
}

func NewVec3Down() Vec3 {
	return Vec3{0, -1, 0}
}

func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Mul multiplies component-wise.
func (v Vec3) Mul(other Vec3) Vec3 {
	return Vec3{v.X * other.X, v.Y * other.Y, v.Z * other.Z}
}

func (v Vec3) MulScalar(scalar float32) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

func (v Vec3) LengthSquared() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Length() float32 {
	return Sqrt(v.LengthSquared())
}

/**
 * @brief Returns a unit-length copy of the vector. A zero vector stays zero.
 */
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{}
	}
	return Vec3{v.X / length, v.Y / length, v.Z / length}
}

func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

/**
 * @brief Calculates and returns the cross product of the supplied vectors.
 * The cross product is a new vector which is orthoganal to both provided vectors.
 */
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X}
}

func (v Vec3) Distance(other Vec3) float32 {
	return v.Sub(other).Length()
}

func (v Vec3) SquaredDistance(other Vec3) float32 {
	return v.Sub(other).LengthSquared()
}

// Compare reports whether every component differs by at most tolerance.
func (v Vec3) Compare(other Vec3, tolerance float32) bool {
	return Abs(v.X-other.X) <= tolerance &&
		Abs(v.Y-other.Y) <= tolerance &&
		Abs(v.Z-other.Z) <= tolerance
}

/**
 * @brief Transform v by m. NOTE: It is assumed by this function that the
 * vector v is a point, not a direction, and is calculated as if a w component
 * with a value of 1.0f is there.
 */
func (v Vec3) Transform(m Mat4) Vec3 {
	return Vec3{
		v.X*m.Data[0] + v.Y*m.Data[4] + v.Z*m.Data[8] + m.Data[12],
		v.X*m.Data[1] + v.Y*m.Data[5] + v.Z*m.Data[9] + m.Data[13],
		v.X*m.Data[2] + v.Y*m.Data[6] + v.Z*m.Data[10] + m.Data[14],
	}
}

// TransformDirection transforms v by the upper 3x3 of m, ignoring translation.
func (v Vec3) TransformDirection(m Mat4) Vec3 {
	return Vec3{
		v.X*m.Data[0] + v.Y*m.Data[4] + v.Z*m.Data[8],
		v.X*m.Data[1] + v.Y*m.Data[5] + v.Z*m.Data[9],
		v.X*m.Data[2] + v.Y*m.Data[6] + v.Z*m.Data[10],
	}
}

func (v Vec3) ToVec4(w float32) Vec4 {
	return Vec4{v.X, v.Y, v.Z, w}
}

// ------------------------------------------
// Vector 4
// ------------------------------------------

func NewVec4(x, y, z, w float32) Vec4 {
	return Vec4{x, y, z, w}
}

// ------------------------------------------
// Color
// ------------------------------------------

func (c Color) Mul(other Color) Color {
	return Color{c.R * other.R, c.G * other.G, c.B * other.B, c.A * other.A}
}

func (c Color) Lerp(other Color, t float32) Color {
	return Color{
		Lerp(c.R, other.R, t),
		Lerp(c.G, other.G, t),
		Lerp(c.B, other.B, t),
		Lerp(c.A, other.A, t),
	}
}

func (c Color) ToVec4() Vec4 {
	return Vec4{c.R, c.G, c.B, c.A}
}

// ------------------------------------------
// Matrix 4x4
// ------------------------------------------

/**
 * @brief Creates and returns an identity matrix:
 *
 * {
 *   {1, 0, 0, 0},
 *   {0, 1, 0, 0},
 *   {0, 0, 1, 0},
 *   {0, 0, 0, 1}
 * }
 */
func NewMat4Identity() Mat4 {
	out := Mat4{}
	out.Data[0] = 1.0
	out.Data[5] = 1.0
	out.Data[10] = 1.0
	out.Data[15] = 1.0
	return out
}

// Mul returns mt * other.
func (mt Mat4) Mul(other Mat4) Mat4 {
	out := Mat4{}
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			sum := float32(0)
			for i := 0; i < 4; i++ {
				sum += mt.Data[row*4+i] * other.Data[i*4+col]
			}
			out.Data[row*4+col] = sum
		}
	}
	return out
}

/**
 * @brief Creates and returns a perspective matrix. Typically used to render 3d scenes.
 */
func NewMat4Perspective(fovRadians, aspectRatio, nearClip, farClip float32) Mat4 {
	halfTanFov := Tan(fovRadians * 0.5)
	out := Mat4{}
	out.Data[0] = 1.0 / (aspectRatio * halfTanFov)
	out.Data[5] = 1.0 / halfTanFov
	out.Data[10] = -((farClip + nearClip) / (farClip - nearClip))
	out.Data[11] = -1.0
	out.Data[14] = -((2.0 * farClip * nearClip) / (farClip - nearClip))
	return out
}

/**
 * @brief Builds a rotation whose local Z axis points along forward
 * and whose Y axis is as close to up as possible. Used to face
 * billboards towards the camera.
 */
func NewMat4Basis(forward, up Vec3) Mat4 {
	z := forward.Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x)

	out := NewMat4Identity()
	out.Data[0], out.Data[1], out.Data[2] = x.X, x.Y, x.Z
	out.Data[4], out.Data[5], out.Data[6] = y.X, y.Y, y.Z
	out.Data[8], out.Data[9], out.Data[10] = z.X, z.Y, z.Z
	return out
}

/**
 * @brief Creates and returns an inverse of the provided matrix.
 */
func (mt Mat4) Inverse() Mat4 {
	m := mt.Data

	t0 := m[10] * m[15]
	t1 := m[14] * m[11]
	t2 := m[6] * m[15]
	t3 := m[14] * m[7]
	t4 := m[6] * m[11]
	t5 := m[10] * m[7]
	t6 := m[2] * m[15]
	t7 := m[14] * m[3]
	t8 := m[2] * m[11]
	t9 := m[10] * m[3]
	t10 := m[2] * m[7]
	t11 := m[6] * m[3]
	t12 := m[8] * m[13]
	t13 := m[12] * m[9]
	t14 := m[4] * m[13]
	t15 := m[12] * m[5]
	t16 := m[4] * m[9]
	t17 := m[8] * m[5]
	t18 := m[0] * m[13]
	t19 := m[12] * m[1]
	t20 := m[0] * m[9]
	t21 := m[8] * m[1]
	t22 := m[0] * m[5]
	t23 := m[4] * m[1]

	out := Mat4{}
	o := &out.Data

	o[0] = (t0*m[5] + t3*m[9] + t4*m[13]) - (t1*m[5] + t2*m[9] + t5*m[13])
	o[1] = (t1*m[1] + t6*m[9] + t9*m[13]) - (t0*m[1] + t7*m[9] + t8*m[13])
	o[2] = (t2*m[1] + t7*m[5] + t10*m[13]) - (t3*m[1] + t6*m[5] + t11*m[13])
	o[3] = (t5*m[1] + t8*m[5] + t11*m[9]) - (t4*m[1] + t9*m[5] + t10*m[9])

	d := 1.0 / (m[0]*o[0] + m[4]*o[1] + m[8]*o[2] + m[12]*o[3])

	o[0] = d * o[0]
	o[1] = d * o[1]
	o[2] = d * o[2]
	o[3] = d * o[3]
	o[4] = d * ((t1*m[4] + t2*m[8] + t5*m[12]) - (t0*m[4] + t3*m[8] + t4*m[12]))
	o[5] = d * ((t0*m[0] + t7*m[8] + t8*m[12]) - (t1*m[0] + t6*m[8] + t9*m[12]))
	o[6] = d * ((t3*m[0] + t6*m[4] + t11*m[12]) - (t2*m[0] + t7*m[4] + t10*m[12]))
	o[7] = d * ((t4*m[0] + t9*m[4] + t10*m[8]) - (t5*m[0] + t8*m[4] + t11*m[8]))
	o[8] = d * ((t12*m[7] + t15*m[11] + t16*m[15]) - (t13*m[7] + t14*m[11] + t17*m[15]))
	o[9] = d * ((t13*m[3] + t18*m[11] + t21*m[15]) - (t12*m[3] + t19*m[11] + t20*m[15]))
	o[10] = d * ((t14*m[3] + t19*m[7] + t22*m[15]) - (t15*m[3] + t18*m[7] + t23*m[15]))
	o[11] = d * ((t17*m[3] + t20*m[7] + t23*m[11]) - (t16*m[3] + t21*m[7] + t22*m[11]))
	o[12] = d * ((t14*m[10] + t17*m[14] + t13*m[6]) - (t16*m[14] + t12*m[6] + t15*m[10]))
	o[13] = d * ((t20*m[14] + t12*m[2] + t19*m[10]) - (t18*m[10] + t21*m[14] + t13*m[2]))
	o[14] = d * ((t18*m[6] + t23*m[14] + t15*m[2]) - (t22*m[14] + t14*m[2] + t19*m[6]))
	o[15] = d * ((t22*m[10] + t16*m[2] + t21*m[6]) - (t20*m[6] + t23*m[10] + t17*m[2]))

	return out
}

func NewMat4Translation(position Vec3) Mat4 {
	out := NewMat4Identity()
	out.Data[12] = position.X
	out.Data[13] = position.Y
	out.Data[14] = position.Z
	return out
}

func NewMat4Scale(scale Vec3) Mat4 {
	out := NewMat4Identity()
	out.Data[0] = scale.X
	out.Data[5] = scale.Y
	out.Data[10] = scale.Z
	return out
}

// NewMat4EulerZ creates a rotation around the z axis.
func NewMat4EulerZ(angleRadians float32) Mat4 {
	out := NewMat4Identity()
	c := Cos(angleRadians)
	s := Sin(angleRadians)
	out.Data[0] = c
	out.Data[1] = s
	out.Data[4] = -s
	out.Data[5] = c
	return out
}

// NewMat4EulerX creates a rotation around the x axis.
func NewMat4EulerX(angleRadians float32) Mat4 {
	out := NewMat4Identity()
	c := Cos(angleRadians)
	s := Sin(angleRadians)
	out.Data[5] = c
	out.Data[6] = s
	out.Data[9] = -s
	out.Data[10] = c
	return out
}

// NewMat4EulerY creates a rotation around the y axis.
func NewMat4EulerY(angleRadians float32) Mat4 {
	out := NewMat4Identity()
	c := Cos(angleRadians)
	s := Sin(angleRadians)
	out.Data[0] = c
	out.Data[2] = -s
	out.Data[8] = s
	out.Data[10] = c
	return out
}

/**
 * @brief Creates a rotation matrix from euler angles, applied in x, y, z order.
 */
func NewMat4EulerXYZ(xRadians, yRadians, zRadians float32) Mat4 {
	rx := NewMat4EulerX(xRadians)
	ry := NewMat4EulerY(yRadians)
	rz := NewMat4EulerZ(zRadians)
	return rx.Mul(ry).Mul(rz)
}

/**
 * @brief Returns the forward (-Z) vector of a world matrix.
 */
func (mt Mat4) Forward() Vec3 {
	return Vec3{-mt.Data[8], -mt.Data[9], -mt.Data[10]}.Normalize()
}

func (mt Mat4) Backward() Vec3 {
	return mt.Forward().MulScalar(-1)
}

/**
 * @brief Returns the right (+X) vector of a world matrix.
 */
func (mt Mat4) Right() Vec3 {
	return Vec3{mt.Data[0], mt.Data[1], mt.Data[2]}.Normalize()
}

func (mt Mat4) Left() Vec3 {
	return mt.Right().MulScalar(-1)
}

/**
 * @brief Returns the up (+Y) vector of a world matrix.
 */
func (mt Mat4) Up() Vec3 {
	return Vec3{mt.Data[4], mt.Data[5], mt.Data[6]}.Normalize()
}

func (mt Mat4) Translation() Vec3 {
	return Vec3{mt.Data[12], mt.Data[13], mt.Data[14]}
}

// Rotation returns the upper 3x3 with scale removed and no translation.
func (mt Mat4) Rotation() Mat4 {
	out := NewMat4Identity()
	for row := 0; row < 3; row++ {
		axis := Vec3{mt.Data[row*4], mt.Data[row*4+1], mt.Data[row*4+2]}.Normalize()
		out.Data[row*4] = axis.X
		out.Data[row*4+1] = axis.Y
		out.Data[row*4+2] = axis.Z
	}
	return out
}

// ScaleBasis multiplies the first three rows by s.
func (mt Mat4) ScaleBasis(s float32) Mat4 {
	for i := 0; i < 11; i++ {
		if i%4 != 3 {
			mt.Data[i] *= s
		}
	}
	return mt
}

// ------------------------------------------
// Quaternion
// ------------------------------------------

func NewQuatIdentity() Quaternion {
	return Quaternion{0, 0, 0, 1.0}
}

func (q Quaternion) Normalize() Quaternion {
	n := Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if n == 0 {
		return NewQuatIdentity()
	}
	return Quaternion{q.X / n, q.Y / n, q.Z / n, q.W / n}
}

func (q Quaternion) Mul(other Quaternion) Quaternion {
	return Quaternion{
		X: q.X*other.W + q.Y*other.Z - q.Z*other.Y + q.W*other.X,
		Y: -q.X*other.Z + q.Y*other.W + q.Z*other.X + q.W*other.Y,
		Z: q.X*other.Y - q.Y*other.X + q.Z*other.W + q.W*other.Z,
		W: -q.X*other.X - q.Y*other.Y - q.Z*other.Z + q.W*other.W,
	}
}

/**
 * @brief Creates a rotation matrix from the given quaternion.
 */
func (q Quaternion) ToMat4() Mat4 {
	out := NewMat4Identity()
	n := q.Normalize()

	out.Data[0] = 1.0 - 2.0*n.Y*n.Y - 2.0*n.Z*n.Z
	out.Data[1] = 2.0*n.X*n.Y + 2.0*n.Z*n.W
	out.Data[2] = 2.0*n.X*n.Z - 2.0*n.Y*n.W

	out.Data[4] = 2.0*n.X*n.Y - 2.0*n.Z*n.W
	out.Data[5] = 1.0 - 2.0*n.X*n.X - 2.0*n.Z*n.Z
	out.Data[6] = 2.0*n.Y*n.Z + 2.0*n.X*n.W

	out.Data[8] = 2.0*n.X*n.Z + 2.0*n.Y*n.W
	out.Data[9] = 2.0*n.Y*n.Z - 2.0*n.X*n.W
	out.Data[10] = 1.0 - 2.0*n.X*n.X - 2.0*n.Y*n.Y
	return out
}

func NewQuatFromAxisAngle(axis Vec3, angle float32, normalize bool) Quaternion {
	halfAngle := 0.5 * angle
	s := Sin(halfAngle)
	c := Cos(halfAngle)

	q := Quaternion{s * axis.X, s * axis.Y, s * axis.Z, c}
	if normalize {
		q = q.Normalize()
	}
	return q
}

// ------------------------------------------
// Extents / rects
// ------------------------------------------

// NewExtents3DFromPoint returns a box of the given half size around center.
func NewExtents3DFromPoint(center Vec3, halfSize float32) Extents3D {
	h := Vec3{halfSize, halfSize, halfSize}
	return Extents3D{Min: center.Sub(h), Max: center.Add(h)}
}

func (e Extents3D) Union(other Extents3D) Extents3D {
	return Extents3D{
		Min: Vec3{Min(e.Min.X, other.Min.X), Min(e.Min.Y, other.Min.Y), Min(e.Min.Z, other.Min.Z)},
		Max: Vec3{Max(e.Max.X, other.Max.X), Max(e.Max.Y, other.Max.Y), Max(e.Max.Z, other.Max.Z)},
	}
}

// Intersect returns the overlap of the two rects. Empty overlaps have zero size.
func (r Rect2I) Intersect(other Rect2I) Rect2I {
	x0 := Max(r.X, other.X)
	y0 := Max(r.Y, other.Y)
	x1 := Min(r.X+r.Width, other.X+other.Width)
	y1 := Min(r.Y+r.Height, other.Y+other.Height)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Rect2I{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// NewAffineFromMat4 drops the fourth column of a row-vector transform.
func NewAffineFromMat4(mt Mat4) Affine {
	out := Affine{}
	for row := 0; row < 4; row++ {
		for col := 0; col < 3; col++ {
			out.Data[row*3+col] = mt.Data[row*4+col]
		}
	}
	return out
}
