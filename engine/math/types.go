package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector
type Vec4 struct {
	X, Y, Z, W float32
}

// Vec2I is an integer 2D vector, mostly used for pixel sizes and tile counts.
type Vec2I struct {
	X, Y int32
}

/** @brief A quaternion, used to represent rotational orientation. */
type Quaternion Vec4

/** @brief a 3x3 matrix, row-major. */
type Mat3 struct {
	Data [9]float32
}

/**
 * @brief a 4x4 matrix, typically used to represent object transformations.
 * Vectors are treated as rows, so a translation lives in Data[12..14] and
 * a chain of transforms reads left to right: scale.Mul(rotation).Mul(translation).
 */
type Mat4 struct {
	/** @brief The matrix elements */
	Data [16]float32
}

/** @brief An RGBA color with float components in the [0, 1] range. */
type Color struct {
	R, G, B, A float32
}

/**
 * @brief Represents the extents of a 3d object. An axis-aligned bounding box.
 */
type Extents3D struct {
	/** @brief The minimum extents of the object. */
	Min Vec3
	/** @brief The maximum extents of the object. */
	Max Vec3
}

// Rect2F is a rectangle in fractional (0..1) or pixel space.
type Rect2F struct {
	Position Vec2
	Size     Vec2
}

// Rect2I is an integer pixel rectangle.
type Rect2I struct {
	X, Y, Width, Height int32
}

// Plane is stored as (normal.xyz, distance) and uploaded as a vec4.
type Plane Vec4

/**
 * @brief Represents the transform of an object in the world.
 * Transforms can have a parent whose own transform is then
 * taken into account. NOTE: The properties of this should not
 * be edited directly, but done via the functions in transform.go
 * to ensure proper matrix generation.
 */
type Transform struct {
	/** @brief The position in the world. */
	Position Vec3
	/** @brief The rotation in the world. */
	Rotation Quaternion
	/** @brief The scale in the world. */
	Scale Vec3
	/**
	 * @brief Indicates if the position, rotation or scale have changed,
	 * indicating that the local matrix needs to be recalculated.
	 */
	IsDirty bool
	/**
	 * @brief The local transformation matrix, updated whenever
	 * the position, rotation or scale have changed.
	 */
	Local Mat4
	/** @brief A pointer to a parent transform if one is assigned. Can also be nil. */
	Parent *Transform
}

/**
 * @brief An affine transform stored as four rows of three: the 3x3 basis
 * followed by the translation row.
 */
type Affine struct {
	Data [12]float32
}
