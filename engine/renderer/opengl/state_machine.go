package opengl

import (
	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/math"
	"github.com/Tinaynox/maze-sub011/engine/renderer/metadata"
)

/** @brief The fixed-function state the StateMachine mirrors. */
type State struct {
	ActiveTexture  uint32
	TextureIDs     [MaxTexturesCount]uint32
	TextureTargets [MaxTexturesCount]uint32
	ClipDistances  [MaxClipDistancesCount]bool

	Program           uint32
	FrameBuffer       uint32
	VertexArrayObject uint32

	Viewport    math.Rect2I
	ScissorTest bool
	ScissorRect math.Rect2I

	ClearColor math.Vec4
	ClearDepth float32

	Blend           bool
	BlendSrcFactor  metadata.BlendFactor
	BlendDestFactor metadata.BlendFactor

	DepthTest                bool
	DepthTestCompareFunction metadata.CompareFunction
	DepthWrite               bool

	Cull     bool
	CullMode metadata.CullMode

	MultiSample     bool
	WireframeRender bool
}

// DefaultState is what a fresh context is assumed to hold.
func DefaultState() State {
	return State{
		ActiveTexture:            GL_TEXTURE0,
		ClearColor:               math.Vec4{X: 1, Y: 0, Z: 1, W: 1},
		ClearDepth:               1,
		BlendSrcFactor:           metadata.BlendFactorOne,
		BlendDestFactor:          metadata.BlendFactorZero,
		DepthTestCompareFunction: metadata.CompareFunctionNone,
		CullMode:                 metadata.CullModeNone,
	}
}

/**
 * @brief Caches the GL state of one context and only issues a GL call
 * when a setter changes the cached value.
 */
type StateMachine struct {
	context *Context
	state   State
}

func NewStateMachine(context *Context) *StateMachine {
	sm := &StateMachine{
		context: context,
		state:   DefaultState(),
	}
	context.Events().Register(core.EVENT_CODE_GL_CONTEXT_CREATED, sm, func(core.EventContext) bool {
		sm.SyncStates()
		return false
	})
	context.Events().Register(core.EVENT_CODE_GL_CONTEXT_WILL_BE_DESTROYED, sm, func(core.EventContext) bool {
		sm.Reset()
		return false
	})
	return sm
}

func (sm *StateMachine) gl() GL {
	return sm.context.gl
}

func (sm *StateMachine) State() State {
	return sm.state
}

func (sm *StateMachine) Reset() {
	sm.state = DefaultState()
}

func setCapability(gl GL, capability uint32, enabled bool) {
	if enabled {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

func polygonMode(wireframe bool) uint32 {
	if wireframe {
		return GL_LINE
	}
	return GL_FILL
}

// ActiveTexture takes the GL unit enum (GL_TEXTURE0 + i).
func (sm *StateMachine) ActiveTexture(unit uint32) {
	if sm.state.ActiveTexture == unit {
		return
	}
	sm.state.ActiveTexture = unit
	sm.gl().ActiveTexture(unit)
}

func (sm *StateMachine) ActiveTextureIndex() int {
	return int(sm.state.ActiveTexture - GL_TEXTURE0)
}

// BindTexture binds to the active unit.
func (sm *StateMachine) BindTexture(target, texture uint32) {
	index := sm.ActiveTextureIndex()
	if sm.state.TextureIDs[index] == texture && sm.state.TextureTargets[index] == target {
		return
	}
	sm.state.TextureIDs[index] = texture
	sm.state.TextureTargets[index] = target
	sm.gl().BindTexture(target, texture)
}

func (sm *StateMachine) BoundTexture(index int) uint32 {
	return sm.state.TextureIDs[index]
}

func (sm *StateMachine) SetClipDistanceEnabled(index int, enabled bool) {
	if index < 0 || index >= MaxClipDistancesCount {
		core.LogError("clip distance index %d is out of range", index)
		return
	}
	if sm.state.ClipDistances[index] == enabled {
		return
	}
	sm.state.ClipDistances[index] = enabled
	setCapability(sm.gl(), GL_CLIP_DISTANCE0+uint32(index), enabled)
}

func (sm *StateMachine) UseProgram(program uint32) {
	if sm.state.Program == program {
		return
	}
	sm.state.Program = program
	sm.gl().UseProgram(program)
}

func (sm *StateMachine) BindFrameBuffer(framebuffer uint32) {
	if sm.state.FrameBuffer == framebuffer {
		return
	}
	sm.state.FrameBuffer = framebuffer
	sm.gl().BindFramebuffer(GL_FRAMEBUFFER, framebuffer)
}

func (sm *StateMachine) BindVertexArrayObject(vao uint32) {
	if sm.state.VertexArrayObject == vao {
		return
	}
	sm.state.VertexArrayObject = vao
	sm.gl().BindVertexArray(vao)
}

func (sm *StateMachine) BoundVertexArrayObject() uint32 {
	return sm.state.VertexArrayObject
}

// Buffer bindings are part of the VAO state and are not cached.
func (sm *StateMachine) BindArrayBuffer(buffer uint32) {
	sm.gl().BindBuffer(GL_ARRAY_BUFFER, buffer)
}

func (sm *StateMachine) BindElementArrayBuffer(buffer uint32) {
	sm.gl().BindBuffer(GL_ELEMENT_ARRAY_BUFFER, buffer)
}

func (sm *StateMachine) SetViewportRect(rect math.Rect2I) {
	if sm.state.Viewport == rect {
		return
	}
	sm.state.Viewport = rect
	sm.gl().Viewport(rect.X, rect.Y, rect.Width, rect.Height)
}

func (sm *StateMachine) SetScissorTestEnabled(enabled bool) {
	if sm.state.ScissorTest == enabled {
		return
	}
	sm.state.ScissorTest = enabled
	setCapability(sm.gl(), GL_SCISSOR_TEST, enabled)
}

func (sm *StateMachine) SetScissorRect(rect math.Rect2I) {
	if sm.state.ScissorRect == rect {
		return
	}
	sm.state.ScissorRect = rect
	sm.gl().Scissor(rect.X, rect.Y, rect.Width, rect.Height)
}

func (sm *StateMachine) SetClearColor(color math.Vec4) {
	if sm.state.ClearColor == color {
		return
	}
	sm.state.ClearColor = color
	sm.gl().ClearColor(color.X, color.Y, color.Z, color.W)
}

// SetClearDepth always reaches GL.
func (sm *StateMachine) SetClearDepth(depth float32) {
	sm.state.ClearDepth = depth
	sm.gl().ClearDepth(float64(depth))
}

func (sm *StateMachine) SetBlendEnabled(enabled bool) {
	if sm.state.Blend == enabled {
		return
	}
	sm.state.Blend = enabled
	setCapability(sm.gl(), GL_BLEND, enabled)
}

func (sm *StateMachine) SetBlendFactors(src, dest metadata.BlendFactor) {
	if sm.state.BlendSrcFactor == src && sm.state.BlendDestFactor == dest {
		return
	}
	sm.state.BlendSrcFactor = src
	sm.state.BlendDestFactor = dest
	sm.gl().BlendFunc(GetOpenGLBlendFactor(src), GetOpenGLBlendFactor(dest))
}

func (sm *StateMachine) SetDepthTestEnabled(enabled bool) {
	if sm.state.DepthTest == enabled {
		return
	}
	sm.state.DepthTest = enabled
	setCapability(sm.gl(), GL_DEPTH_TEST, enabled)
}

func (sm *StateMachine) SetDepthTestCompareFunction(function metadata.CompareFunction) {
	if sm.state.DepthTestCompareFunction == function {
		return
	}
	sm.state.DepthTestCompareFunction = function
	sm.gl().DepthFunc(GetOpenGLCompareFunction(function))
}

func (sm *StateMachine) SetDepthWriteEnabled(enabled bool) {
	if sm.state.DepthWrite == enabled {
		return
	}
	sm.state.DepthWrite = enabled
	sm.gl().DepthMask(enabled)
}

func (sm *StateMachine) SetCullEnabled(enabled bool) {
	if sm.state.Cull == enabled {
		return
	}
	sm.state.Cull = enabled
	setCapability(sm.gl(), GL_CULL_FACE, enabled)
}

func (sm *StateMachine) SetCullMode(mode metadata.CullMode) {
	if sm.state.CullMode == mode {
		return
	}
	sm.state.CullMode = mode
	sm.gl().CullFace(GetOpenGLCullMode(mode))
}

func (sm *StateMachine) SetMultiSampleEnabled(enabled bool) {
	if sm.state.MultiSample == enabled {
		return
	}
	sm.state.MultiSample = enabled
	setCapability(sm.gl(), GL_MULTISAMPLE, enabled)
}

func (sm *StateMachine) SetWireframeRender(wireframe bool) {
	if sm.state.WireframeRender == wireframe {
		return
	}
	sm.state.WireframeRender = wireframe
	sm.gl().PolygonMode(GL_FRONT_AND_BACK, polygonMode(wireframe))
}

/**
 * @brief Re-issues the whole cache. Used right after a context has been
 * (re)created, when the driver state is unknown.
 */
func (sm *StateMachine) SyncStates() {
	gl := sm.gl()
	if gl == nil {
		return
	}
	s := &sm.state

	for i := 0; i < MaxTexturesCount; i++ {
		if s.TextureIDs[i] == 0 {
			continue
		}
		gl.ActiveTexture(GL_TEXTURE0 + uint32(i))
		gl.BindTexture(s.TextureTargets[i], s.TextureIDs[i])
	}
	gl.ActiveTexture(GL_TEXTURE0)
	s.ActiveTexture = GL_TEXTURE0

	gl.UseProgram(s.Program)
	for i, enabled := range s.ClipDistances {
		setCapability(gl, GL_CLIP_DISTANCE0+uint32(i), enabled)
	}

	setCapability(gl, GL_BLEND, s.Blend)
	setCapability(gl, GL_DEPTH_TEST, s.DepthTest)
	if s.DepthTestCompareFunction != metadata.CompareFunctionNone {
		gl.DepthFunc(GetOpenGLCompareFunction(s.DepthTestCompareFunction))
	}
	gl.DepthMask(s.DepthWrite)
	setCapability(gl, GL_CULL_FACE, s.Cull)
	if s.CullMode != metadata.CullModeNone {
		gl.CullFace(GetOpenGLCullMode(s.CullMode))
	}

	gl.Viewport(s.Viewport.X, s.Viewport.Y, s.Viewport.Width, s.Viewport.Height)
	setCapability(gl, GL_SCISSOR_TEST, s.ScissorTest)
	gl.Scissor(s.ScissorRect.X, s.ScissorRect.Y, s.ScissorRect.Width, s.ScissorRect.Height)

	gl.BindFramebuffer(GL_FRAMEBUFFER, s.FrameBuffer)
	gl.BindVertexArray(s.VertexArrayObject)

	gl.ClearColor(s.ClearColor.X, s.ClearColor.Y, s.ClearColor.Z, s.ClearColor.W)
	gl.ClearDepth(float64(s.ClearDepth))
	gl.PolygonMode(GL_FRONT_AND_BACK, polygonMode(s.WireframeRender))
	gl.BlendFunc(GetOpenGLBlendFactor(s.BlendSrcFactor), GetOpenGLBlendFactor(s.BlendDestFactor))
	setCapability(gl, GL_MULTISAMPLE, s.MultiSample)
}

// Setup syncs the cache and applies the engine defaults: clockwise front faces, clip distance 0.
func (sm *StateMachine) Setup() {
	sm.SyncStates()
	sm.gl().FrontFace(GL_CW)
	sm.gl().Enable(GL_CLIP_DISTANCE0)
}
