package renderer

import (
	"github.com/Tinaynox/maze-sub011/engine/math"
	"github.com/Tinaynox/maze-sub011/engine/renderer/metadata"
)

type RendererType uint8

const (
	OpenGL RendererType = iota
	Vulkan
	DirectX
	Metal
)

/**
 * @brief GPU-resident copy of one submesh. Every backend provides exactly
 * one implementation.
 */
type VertexArrayObject interface {
	Name() string
	/** @brief Deep-copies the submesh and re-uploads every attribute and the indices. */
	SetMesh(subMesh *metadata.SubMesh)
	SetIndices(indicesType metadata.VertexAttributeType, count int, data []byte)
	SetVerticesData(description metadata.VertexAttributeDescription, data []byte)
	/** @brief Reads the uploaded buffers back into a new submesh. */
	ReadAsSubMesh() *metadata.SubMesh
	IndicesCount() int
	IndicesType() metadata.VertexAttributeType
	RenderDrawTopology() metadata.RenderDrawTopology
	SetRenderDrawTopology(topology metadata.RenderDrawTopology)
}

type Shader interface {
	Name() string
	/**
	 * @brief Uploads a uniform by name. Supported values are float32, int32,
	 * math vectors and matrices, math.Color and Texture2D.
	 */
	SetUniform(name string, value interface{}) error
}

type Texture2D interface {
	Name() string
	Width() int32
	Height() int32
}

/**
 * @brief Anything a render queue can draw into: a window, a camera, an
 * offscreen buffer.
 */
type RenderTarget interface {
	RenderTargetWidth() int32
	RenderTargetHeight() int32
	/** @brief Fractional (0..1) viewport inside the target. */
	Viewport() math.Rect2F
	ViewMatrix() math.Mat4
	ProjectionMatrix() math.Mat4
	Near() float32
	Far() float32
	ViewPosition() math.Vec3
}

/**
 * @brief The render system contract. Creates GPU objects for one context
 * and keeps the per-frame draw call statistics.
 */
type RendererBackend interface {
	Type() RendererType
	CreateVertexArrayObject(name string) (VertexArrayObject, error)
	CreateRenderQueue(target RenderTarget) (*RenderQueue, error)
	CreateShader(name, vertexSource, fragmentSource string) (Shader, error)
	CreateTexture2D(name string, width, height int32, pixels []byte) (Texture2D, error)
	RenderBufferPool() *RenderBufferPool
	ClearCurrentRenderTarget(colorBuffer, depthBuffer bool)
	DrawCalls() int32
	ClearDrawCalls()
	DrawCallsLimit() int32
	SetDrawCallsLimit(limit int32)
	Shutdown() error
}
