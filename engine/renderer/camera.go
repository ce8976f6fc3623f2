package renderer

import (
	"github.com/Tinaynox/maze-sub011/engine/math"
)

/**
 * @brief A perspective camera drawing into a window-sized target.
 * Implements RenderTarget.
 */
type Camera3D struct {
	/**
	 * @brief The position of this camera.
	 * NOTE: Do not set this directly, use SetPosition() instead
	 * so the view matrix is recalculated when needed.
	 */
	Position math.Vec3
	/**
	 * @brief The rotation of this camera using Euler angles (pitch, yaw, roll).
	 * NOTE: Do not set this directly, use SetEulerRotation() instead
	 * so the view matrix is recalculated when needed.
	 */
	EulerRotation math.Vec3
	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	IsDirty bool

	worldMatrix math.Mat4
	viewMatrix  math.Mat4

	fieldOfView float32
	nearZ       float32
	farZ        float32
	viewport    math.Rect2F
	width       int32
	height      int32
}

/** @brief The name of the default camera. */
const DEFAULT_CAMERA_NAME string = "default"

func NewCamera3D(width, height int32) *Camera3D {
	camera := &Camera3D{
		fieldOfView: math.DegToRad(60),
		nearZ:       0.01,
		farZ:        1000.0,
		viewport:    math.Rect2F{Size: math.NewVec2(1, 1)},
		width:       width,
		height:      height,
	}
	camera.Reset()
	return camera
}

func (c *Camera3D) Reset() {
	c.EulerRotation = math.NewVec3Zero()
	c.Position = math.NewVec3Zero()
	c.IsDirty = false
	c.worldMatrix = math.NewMat4Identity()
	c.viewMatrix = math.NewMat4Identity()
}

func (c *Camera3D) SetPosition(position math.Vec3) {
	c.Position = position
	c.IsDirty = true
}

func (c *Camera3D) SetEulerRotation(rotation math.Vec3) {
	c.EulerRotation = rotation
	c.IsDirty = true
}

// LookAt points the camera at target by deriving pitch and yaw.
func (c *Camera3D) LookAt(target math.Vec3) {
	direction := target.Sub(c.Position).Normalize()
	c.EulerRotation.X = math.Asin(direction.Y)
	c.EulerRotation.Y = math.Atan2(-direction.X, -direction.Z)
	c.EulerRotation.Z = 0
	c.IsDirty = true
}

func (c *Camera3D) rebuild() {
	if !c.IsDirty {
		return
	}
	rotation := math.NewMat4EulerXYZ(c.EulerRotation.X, c.EulerRotation.Y, c.EulerRotation.Z)
	translation := math.NewMat4Translation(c.Position)
	c.worldMatrix = rotation.Mul(translation)
	c.viewMatrix = c.worldMatrix.Inverse()
	c.IsDirty = false
}

// WorldMatrix is the camera transform; ViewMatrix is its inverse.
func (c *Camera3D) WorldMatrix() math.Mat4 {
	c.rebuild()
	return c.worldMatrix
}

func (c *Camera3D) ViewMatrix() math.Mat4 {
	c.rebuild()
	return c.viewMatrix
}

func (c *Camera3D) ProjectionMatrix() math.Mat4 {
	aspect := float32(1)
	if c.height > 0 {
		aspect = float32(c.width) * c.viewport.Size.X / (float32(c.height) * c.viewport.Size.Y)
	}
	return math.NewMat4Perspective(c.fieldOfView, aspect, c.nearZ, c.farZ)
}

func (c *Camera3D) SetPerspective(fieldOfViewRadians, nearZ, farZ float32) {
	c.fieldOfView = fieldOfViewRadians
	c.nearZ = nearZ
	c.farZ = farZ
}

func (c *Camera3D) Near() float32 {
	return c.nearZ
}

func (c *Camera3D) Far() float32 {
	return c.farZ
}

func (c *Camera3D) ViewPosition() math.Vec3 {
	return c.Position
}

func (c *Camera3D) Viewport() math.Rect2F {
	return c.viewport
}

func (c *Camera3D) SetViewport(viewport math.Rect2F) {
	c.viewport = viewport
}

func (c *Camera3D) RenderTargetWidth() int32 {
	return c.width
}

func (c *Camera3D) RenderTargetHeight() int32 {
	return c.height
}

// Resize follows the framebuffer of the window the camera draws into.
func (c *Camera3D) Resize(width, height int32) {
	c.width = width
	c.height = height
}

func (c *Camera3D) Forward() math.Vec3 {
	return c.WorldMatrix().Forward()
}

func (c *Camera3D) Backward() math.Vec3 {
	return c.WorldMatrix().Backward()
}

func (c *Camera3D) Left() math.Vec3 {
	return c.WorldMatrix().Left()
}

func (c *Camera3D) Right() math.Vec3 {
	return c.WorldMatrix().Right()
}

func (c *Camera3D) Up() math.Vec3 {
	return c.WorldMatrix().Up()
}

func (c *Camera3D) move(direction math.Vec3, amount float32) {
	c.Position = c.Position.Add(direction.MulScalar(amount))
	c.IsDirty = true
}

func (c *Camera3D) MoveForward(amount float32) {
	c.move(c.Forward(), amount)
}

func (c *Camera3D) MoveBackward(amount float32) {
	c.move(c.Backward(), amount)
}

func (c *Camera3D) MoveLeft(amount float32) {
	c.move(c.Left(), amount)
}

func (c *Camera3D) MoveRight(amount float32) {
	c.move(c.Right(), amount)
}

func (c *Camera3D) MoveUp(amount float32) {
	c.move(math.NewVec3Up(), amount)
}

func (c *Camera3D) MoveDown(amount float32) {
	c.move(math.NewVec3Down(), amount)
}

func (c *Camera3D) Yaw(amount float32) {
	c.EulerRotation.Y += amount
	c.IsDirty = true
}

func (c *Camera3D) Pitch(amount float32) {
	c.EulerRotation.X += amount

	// Clamp to avoid Gimbal lock.
	limit := float32(1.55334306) // 89 degrees
	c.EulerRotation.X = math.Clamp(c.EulerRotation.X, -limit, limit)

	c.IsDirty = true
}
