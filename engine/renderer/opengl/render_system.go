package opengl

import (
	"fmt"

	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/renderer"
)

type RenderSystemConfig struct {
	ModelMatricesArchitecture ModelMatricesArchitecture
	// 0 means unlimited.
	DrawCallsLimit int32
	// Polls glGetError after every call and logs failures.
	DebugGLChecks bool
}

/**
 * @brief The OpenGL implementation of renderer.RendererBackend. Creates
 * GPU objects on its context and counts draw calls per frame.
 */
type RenderSystem struct {
	context *Context
	pool    *renderer.RenderBufferPool
	clock   *core.Clock

	drawCalls        int32
	drawCallsSkipped int32
	drawCallsTotal   int64
	drawCallsLimit   int32
}

func NewRenderSystem(gl GL, config RenderSystemConfig) (*RenderSystem, error) {
	if gl == nil {
		return nil, fmt.Errorf("render system: %w", core.ErrContextInvalid)
	}
	rs := &RenderSystem{
		context:        NewContext(gl, config.ModelMatricesArchitecture),
		clock:          core.NewClock(),
		drawCallsLimit: config.DrawCallsLimit,
	}
	rs.context.SetDebugChecks(config.DebugGLChecks)
	rs.pool = renderer.NewRenderBufferPool(func(specification renderer.RenderBufferSpecification) (renderer.RenderBuffer, error) {
		rb, err := NewRenderBuffer(rs.context, specification)
		if err != nil {
			return nil, err
		}
		return rb, nil
	})
	rs.context.NotifySetup()
	rs.clock.Start()
	core.LogInfo("OpenGL render system created (%s instancing, max texture size %d)",
		config.ModelMatricesArchitecture, gl.GetIntegerv(GL_MAX_TEXTURE_SIZE))
	return rs, nil
}

func (rs *RenderSystem) Type() renderer.RendererType {
	return renderer.OpenGL
}

func (rs *RenderSystem) Context() *Context {
	return rs.context
}

func (rs *RenderSystem) CreateVertexArrayObject(name string) (renderer.VertexArrayObject, error) {
	vao, err := NewVertexArrayObject(rs.context, name)
	if err != nil {
		return nil, err
	}
	return vao, nil
}

func (rs *RenderSystem) CreateRenderQueue(target renderer.RenderTarget) (*renderer.RenderQueue, error) {
	executor, err := NewRenderQueue(rs)
	if err != nil {
		return nil, err
	}
	return renderer.NewRenderQueue(target, executor), nil
}

func (rs *RenderSystem) CreateShader(name, vertexSource, fragmentSource string) (renderer.Shader, error) {
	shader, err := NewShader(rs.context, name, vertexSource, fragmentSource)
	if err != nil {
		return nil, err
	}
	return shader, nil
}

// CreateTexture2D creates an RGBA8 texture.
func (rs *RenderSystem) CreateTexture2D(name string, width, height int32, pixels []byte) (renderer.Texture2D, error) {
	texture, err := NewTexture2D(rs.context, name)
	if err != nil {
		return nil, err
	}
	if err := texture.LoadFromPixels(width, height, renderer.PixelFormatRGBA_U8, pixels); err != nil {
		texture.Destroy()
		return nil, err
	}
	return texture, nil
}

func (rs *RenderSystem) RenderBufferPool() *renderer.RenderBufferPool {
	return rs.pool
}

func (rs *RenderSystem) ClearCurrentRenderTarget(colorBuffer, depthBuffer bool) {
	if !rs.context.IsValid() {
		return
	}
	mask := uint32(0)
	if colorBuffer {
		mask |= GL_COLOR_BUFFER_BIT
	}
	if depthBuffer {
		// The depth mask also gates clears.
		rs.context.StateMachine().SetDepthWriteEnabled(true)
		mask |= GL_DEPTH_BUFFER_BIT
	}
	if mask != 0 {
		rs.context.GL().Clear(mask)
	}
}

// BeginFrame resets the per-frame counters and advances the shader time.
func (rs *RenderSystem) BeginFrame() {
	rs.clock.Update()
	rs.ClearDrawCalls()
}

// Time is the value of u_time: seconds since the render system started.
func (rs *RenderSystem) Time() float32 {
	return float32(rs.clock.Elapsed())
}

func (rs *RenderSystem) DrawCalls() int32 {
	return rs.drawCalls
}

func (rs *RenderSystem) DrawCallsSkipped() int32 {
	return rs.drawCallsSkipped
}

func (rs *RenderSystem) DrawCallsTotal() int64 {
	return rs.drawCallsTotal
}

func (rs *RenderSystem) IncDrawCalls() {
	rs.drawCalls++
	rs.drawCallsTotal++
}

func (rs *RenderSystem) IncDrawCallsSkipped() {
	rs.drawCallsSkipped++
}

func (rs *RenderSystem) ClearDrawCalls() {
	rs.drawCalls = 0
	rs.drawCallsSkipped = 0
}

func (rs *RenderSystem) DrawCallsLimit() int32 {
	return rs.drawCallsLimit
}

func (rs *RenderSystem) SetDrawCallsLimit(limit int32) {
	rs.drawCallsLimit = limit
}

// Shutdown destroys the pooled render buffers and drops every context listener.
func (rs *RenderSystem) Shutdown() error {
	rs.pool.Clear()
	rs.clock.Stop()
	return rs.context.Shutdown()
}
