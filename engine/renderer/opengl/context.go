package opengl

import (
	"github.com/Tinaynox/maze-sub011/engine/core"
)

/** @brief How per-instance data reaches the vertex shader. */
type ModelMatricesArchitecture uint8

const (
	/** @brief Instance data lives in an RGBA32F texture. Large batches. */
	ModelMatricesArchitectureUniformTexture ModelMatricesArchitecture = iota
	/** @brief Instance data lives in a uniform vec4 array. Small batches. */
	ModelMatricesArchitectureUniformArray
)

func (a ModelMatricesArchitecture) String() string {
	switch a {
	case ModelMatricesArchitectureUniformTexture:
		return "uniform-texture"
	case ModelMatricesArchitectureUniformArray:
		return "uniform-array"
	}
	return "unknown"
}

/**
 * @brief One OpenGL context. Objects created on the context register on its
 * event system to survive context loss: on WillBeDestroyed and Destroyed
 * they forget their GPU names, on Setup they recreate them.
 */
type Context struct {
	gl           GL
	stateMachine *StateMachine
	events       *core.EventSystem
	architecture ModelMatricesArchitecture
	valid        bool
	debugChecks  bool

	currentShader *Shader
}

// NewContext wraps a current GL context. gl may be nil until NotifyCreated.
func NewContext(gl GL, architecture ModelMatricesArchitecture) *Context {
	c := &Context{
		gl:           gl,
		events:       core.NewEventSystem(),
		architecture: architecture,
		valid:        gl != nil,
	}
	c.stateMachine = NewStateMachine(c)
	return c
}

func (c *Context) GL() GL {
	return c.gl
}

func (c *Context) StateMachine() *StateMachine {
	return c.stateMachine
}

func (c *Context) Events() *core.EventSystem {
	return c.events
}

func (c *Context) ModelMatricesArchitecture() ModelMatricesArchitecture {
	return c.architecture
}

func (c *Context) IsValid() bool {
	return c.valid && c.gl != nil
}

func (c *Context) CurrentShader() *Shader {
	return c.currentShader
}

// SetCurrentShader makes the shader current and binds its program.
func (c *Context) SetCurrentShader(shader *Shader) {
	c.currentShader = shader
	if shader == nil {
		c.stateMachine.UseProgram(0)
		return
	}
	c.stateMachine.UseProgram(shader.Program())
}

func (c *Context) ClipDistanceEnabled(index int) bool {
	return c.stateMachine.State().ClipDistances[index]
}

func (c *Context) fire(code core.SystemEventCode) {
	c.events.Fire(core.EventContext{Type: code, Sender: c})
}

// NotifyCreated attaches a freshly created GL context.
// SetDebugChecks wraps the GL, now and after every NotifyCreated, in a CheckedGL.
func (c *Context) SetDebugChecks(enabled bool) {
	c.debugChecks = enabled
	c.gl = c.wrapGL(c.gl)
}

func (c *Context) DebugChecks() bool {
	return c.debugChecks
}

func (c *Context) wrapGL(gl GL) GL {
	if checked, ok := gl.(*CheckedGL); ok {
		gl = checked.Unwrap()
	}
	if gl == nil || !c.debugChecks {
		return gl
	}
	return NewCheckedGL(gl)
}

func (c *Context) NotifyCreated(gl GL) {
	c.gl = c.wrapGL(gl)
	c.valid = gl != nil
	c.fire(core.EVENT_CODE_GL_CONTEXT_CREATED)
}

// NotifySetup configures the default state and lets every object recreate its GPU resources.
func (c *Context) NotifySetup() {
	if !c.IsValid() {
		core.LogError("cannot setup: %v", core.ErrContextInvalid)
		return
	}
	c.stateMachine.Setup()
	c.fire(core.EVENT_CODE_GL_CONTEXT_SETUP)
}

func (c *Context) NotifyWillBeDestroyed() {
	c.fire(core.EVENT_CODE_GL_CONTEXT_WILL_BE_DESTROYED)
	c.currentShader = nil
}

func (c *Context) NotifyDestroyed() {
	c.valid = false
	c.currentShader = nil
	c.fire(core.EVENT_CODE_GL_CONTEXT_DESTROYED)
}

func (c *Context) Shutdown() error {
	return c.events.Shutdown()
}
