package renderer

import (
	"github.com/Tinaynox/maze-sub011/engine/math"
)

type RenderCommandType uint8

const (
	RenderCommandTypeClearCurrentRenderTarget RenderCommandType = iota
	RenderCommandTypeSetRenderPass
	RenderCommandTypeDrawVAOInstanced
	RenderCommandTypePushScissorRect
	RenderCommandTypePopScissorRect
	RenderCommandTypeEnableClipPlane
	RenderCommandTypeDisableClipPlane
	RenderCommandTypeUploadShaderUniformVec2F
	RenderCommandTypeUploadShaderUniformVec3F
	RenderCommandTypeUploadShaderUniformVec4F
	RenderCommandTypeUploadShaderUniformMat3F
	RenderCommandTypeUploadShaderUniformMat4F
	RenderCommandTypeUploadShaderUniformAffine
)

/**
 * @brief A recorded draw intent. The set of implementations is closed:
 * backends dispatch on the concrete type with a single type switch.
 */
type RenderCommand interface {
	CommandType() RenderCommandType
}

type ClearCurrentRenderTargetCommand struct {
	ColorBuffer bool
	DepthBuffer bool
}

type SetRenderPassCommand struct {
	RenderPass *RenderPass
}

/**
 * @brief Draws Count instances of a VAO. Instance data is taken from the
 * queue streams: model matrices always, colors when UseColorStream is set
 * and the uv channels whose bit is set in UVMask.
 */
type DrawVAOInstancedCommand struct {
	VAO            VertexArrayObject
	Count          int32
	UseColorStream bool
	UVMask         uint8
}

// PushScissorRectCommand carries a rect in viewport fractions.
type PushScissorRectCommand struct {
	ScissorRect math.Rect2F
}

type PopScissorRectCommand struct{}

type EnableClipPlaneCommand struct {
	Index int32
	Plane math.Vec4
}

type DisableClipPlaneCommand struct {
	Index int32
}

type ShaderUniformData interface {
	math.Vec2 | math.Vec3 | math.Vec4 | math.Mat3 | math.Mat4 | math.Affine
}

// UploadShaderUniformCommand uploads an array of values to a uniform of the current shader.
type UploadShaderUniformCommand[T ShaderUniformData] struct {
	Name   string
	Values []T
}

func (c *ClearCurrentRenderTargetCommand) CommandType() RenderCommandType {
	return RenderCommandTypeClearCurrentRenderTarget
}

func (c *SetRenderPassCommand) CommandType() RenderCommandType {
	return RenderCommandTypeSetRenderPass
}

func (c *DrawVAOInstancedCommand) CommandType() RenderCommandType {
	return RenderCommandTypeDrawVAOInstanced
}

func (c *PushScissorRectCommand) CommandType() RenderCommandType {
	return RenderCommandTypePushScissorRect
}

func (c *PopScissorRectCommand) CommandType() RenderCommandType {
	return RenderCommandTypePopScissorRect
}

func (c *EnableClipPlaneCommand) CommandType() RenderCommandType {
	return RenderCommandTypeEnableClipPlane
}

func (c *DisableClipPlaneCommand) CommandType() RenderCommandType {
	return RenderCommandTypeDisableClipPlane
}

func (c *UploadShaderUniformCommand[T]) CommandType() RenderCommandType {
	var zero T
	switch any(zero).(type) {
	case math.Vec2:
		return RenderCommandTypeUploadShaderUniformVec2F
	case math.Vec3:
		return RenderCommandTypeUploadShaderUniformVec3F
	case math.Vec4:
		return RenderCommandTypeUploadShaderUniformVec4F
	case math.Mat3:
		return RenderCommandTypeUploadShaderUniformMat3F
	case math.Mat4:
		return RenderCommandTypeUploadShaderUniformMat4F
	default:
		return RenderCommandTypeUploadShaderUniformAffine
	}
}
